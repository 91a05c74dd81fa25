package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test"}
	registerMirrorFlags(cmd)
	return cmd
}

func TestResolveConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		spec, err := resolveConfig(newFlagCommand())
		require.NoError(t, err)
		assert.EqualValues(t, defaultIndex, spec.Index)
		assert.EqualValues(t, "data", spec.DataRoot)
		assert.Positive(t, spec.ChunkSize)
	})
	t.Run("flags win over the config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "mirror.yaml")
		require.NoError(t, os.WriteFile(path, []byte(`
spec:
  index: https://index.example.org
  dataRoot: /srv/mirror
  concurrency: 5
`), 0644))

		cmd := newFlagCommand()
		require.NoError(t, cmd.Flags().Set(flagConfig, path))
		require.NoError(t, cmd.Flags().Set(flagIndex, "https://override.example.org"))

		spec, err := resolveConfig(cmd)
		require.NoError(t, err)
		assert.EqualValues(t, "https://override.example.org", spec.Index)
		assert.EqualValues(t, "/srv/mirror", spec.DataRoot)
		assert.EqualValues(t, 5, spec.Concurrency)
	})
	t.Run("environment expansion", func(t *testing.T) {
		t.Setenv("MIRROR_INDEX", "https://env.example.org")

		cmd := newFlagCommand()
		require.NoError(t, cmd.Flags().Set(flagIndex, "${MIRROR_INDEX}"))

		spec, err := resolveConfig(cmd)
		require.NoError(t, err)
		assert.EqualValues(t, "https://env.example.org", spec.Index)
	})
}

func TestLoadNames(t *testing.T) {
	path := filepath.Join(t.TempDir(), "names.txt")
	require.NoError(t, os.WriteFile(path, []byte(`
# popular packages
requests
flask

numpy
`), 0644))

	names, err := loadNames(context.TODO(), path, t.TempDir())
	require.NoError(t, err)
	assert.EqualValues(t, []string{"requests", "flask", "numpy"}, names)
}
