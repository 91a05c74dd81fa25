package cmd

import (
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/packfetch/pypi-mirror/pkg/index"
	"github.com/packfetch/pypi-mirror/pkg/mirror"
	"github.com/packfetch/pypi-mirror/pkg/sharded"
)

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "mirror only the packages changed since the last run",
	RunE:  runUpdate,
}

func init() {
	registerMirrorFlags(updateCmd)
}

func runUpdate(cmd *cobra.Command, _ []string) error {
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

	coord := mirror.NewCoordinator(client, client, batch, mirror.HashSink{}, spec.DataRoot)
	summary, err := coord.Update(cmd.Context())
	if err != nil {
		return err
	}
	log.Info("update complete", "summary", summary.String())
	return nil
}
