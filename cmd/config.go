package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/yaml"

	v1 "github.com/packfetch/pypi-mirror/pkg/api/v1"
	"github.com/packfetch/pypi-mirror/pkg/envutil"
	"github.com/packfetch/pypi-mirror/pkg/mirror"
)

const (
	flagConfig      = "config"
	flagIndex       = "index"
	flagDataRoot    = "data"
	flagConcurrency = "concurrency"
	flagShardWidth  = "shard-width"
	flagNames       = "names"
)

const defaultIndex = "https://pypi.org"

func registerMirrorFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(flagConfig, "c", "", "path to a mirror configuration file")
	cmd.Flags().String(flagIndex, "", "base URL of the upstream index")
	cmd.Flags().StringP(flagDataRoot, "d", "data", "directory to write the dataset to")
	cmd.Flags().Int64(flagConcurrency, 0, "maximum number of in-flight fetches")
	cmd.Flags().Int(flagShardWidth, 0, "number of leading name characters used as the shard key")

	_ = cmd.MarkFlagFilename(flagConfig, ".yaml", ".yml", ".json")
	_ = cmd.MarkFlagDirname(flagDataRoot)
}

// resolveConfig merges the optional config file with command flags.
// Flags win, then the file, then defaults.
func resolveConfig(cmd *cobra.Command) (v1.MirrorSpec, error) {
	configPath, _ := cmd.Flags().GetString(flagConfig)

	var spec v1.MirrorSpec
	if configPath != "" {
		cfg, err := readConfig(configPath)
		if err != nil {
			return v1.MirrorSpec{}, err
		}
		spec = cfg.Spec
	}

	if s, _ := cmd.Flags().GetString(flagIndex); s != "" {
		spec.Index = s
	}
	if cmd.Flags().Changed(flagDataRoot) || spec.DataRoot == "" {
		spec.DataRoot, _ = cmd.Flags().GetString(flagDataRoot)
	}
	if n, _ := cmd.Flags().GetInt64(flagConcurrency); n > 0 {
		spec.Concurrency = n
	}
	if n, _ := cmd.Flags().GetInt(flagShardWidth); n > 0 {
		spec.ShardWidth = n
	}

	spec.Index = envutil.ExpandEnv(spec.Index)
	spec.DataRoot = envutil.ExpandEnv(spec.DataRoot)
	if spec.Index == "" {
		spec.Index = defaultIndex
	}
	if spec.ChunkSize <= 0 {
		spec.ChunkSize = mirror.DefaultChunkSize
	}
	return spec, nil
}

func readConfig(s string) (v1.Mirror, error) {
	f, err := os.Open(s)
	if err != nil {
		return v1.Mirror{}, err
	}
	defer f.Close()

	var config v1.Mirror
	if err := yaml.NewYAMLOrJSONDecoder(f, 4).Decode(&config); err != nil {
		return v1.Mirror{}, err
	}
	return config, nil
}

func fetchTimeout(spec v1.MirrorSpec) time.Duration {
	return spec.FetchTimeout.Duration
}
