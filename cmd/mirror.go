package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/packfetch/pypi-mirror/cmd/cache"
	"github.com/packfetch/pypi-mirror/pkg/downloader"
	"github.com/packfetch/pypi-mirror/pkg/index"
	"github.com/packfetch/pypi-mirror/pkg/mirror"
	"github.com/packfetch/pypi-mirror/pkg/sharded"
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "mirror every package in the index",
	RunE:  runMirror,
}

const flagCacheDir = "cache-dir"

func init() {
	registerMirrorFlags(mirrorCmd)
	mirrorCmd.Flags().String(flagNames, "", "path or URL of a newline-delimited package list, overriding discovery")
	mirrorCmd.Flags().String(flagCacheDir, "", "cache directory (defaults to user cache dir)")

	_ = mirrorCmd.MarkFlagDirname(flagCacheDir)
}

func runMirror(cmd *cobra.Command, _ []string) error {
	log := logr.FromContextOrDiscard(cmd.Context())

	spec, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	client := index.NewClient(spec.Index, spec.Concurrency, fetchTimeout(spec))
	writer, err := sharded.NewWriter(spec.DataRoot, spec.ShardWidth)
	if err != nil {
		return err
	}
	batch := mirror.NewBatch(client, writer, spec.ChunkSize)

	// an explicit name list bypasses discovery and cursor bookkeeping
	if namesPath, _ := cmd.Flags().GetString(flagNames); namesPath != "" {
		cacheDir, _ := cmd.Flags().GetString(flagCacheDir)
		names, err := loadNames(cmd.Context(), namesPath, cache.Dir(cacheDir))
		if err != nil {
			return err
		}
		summary := batch.Run(cmd.Context(), names)
		log.Info("mirror complete", "summary", summary.String())
		return nil
	}

	coord := mirror.NewCoordinator(client, client, batch, mirror.HashSink{}, spec.DataRoot)
	summary, err := coord.Mirror(cmd.Context())
	if err != nil {
		return err
	}
	log.Info("mirror complete", "summary", summary.String())
	return nil
}

// loadNames reads a newline-delimited package list from a local path,
// downloading it first when src is remote.
func loadNames(ctx context.Context, src, cacheDir string) ([]string, error) {
	if strings.Contains(src, "://") {
		dl, err := downloader.NewDownloader(cacheDir)
		if err != nil {
			return nil, err
		}
		src, err = dl.Download(ctx, src)
		if err != nil {
			return nil, err
		}
	}

	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading name list: %w", err)
	}
	return names, nil
}
