package app

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmtbot/fmtbot/internal/config"
)

func TestNewInitCmd(t *testing.T) {
	t.Parallel()

	setup := func(t *testing.T) *cobra.Command {
		t.Helper()
		cmd := NewInitCmd()
		cmd.SetOut(io.Discard)
		cmd.SetErr(io.Discard)
		return cmd
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		repoDir := filepath.Join(t.TempDir(), "my-repo")

		cmd := setup(t)
		cmd.SetArgs([]string{repoDir})

		err := cmd.Execute()
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(repoDir, config.ConfigFile))
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfigContent, string(data))
	})

	t.Run("error - configuration already exists", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, config.ConfigFile)
		require.NoError(t, os.WriteFile(configPath, []byte("existing"), 0o600))

		cmd := setup(t)
		cmd.SetArgs([]string{tmpDir})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "configuration already exists")
	})

	t.Run("error - cannot create directory", func(t *testing.T) {
		t.Parallel()
		tmpDir := t.TempDir()
		filePath := filepath.Join(tmpDir, "some-file")
		require.NoError(t, os.WriteFile(filePath, []byte("not-a-dir"), 0o600))

		cmd := setup(t)
		cmd.SetArgs([]string{filepath.Join(filePath, "nested")})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create directory")
	})

	t.Run("error - failed to write configuration file", func(t *testing.T) {
		t.Parallel()
		repoDir := filepath.Join(t.TempDir(), "readonly-dir")
		require.NoError(t, os.Mkdir(repoDir, 0o555))
		defer func() {
			_ = os.Chmod(repoDir, 0o755)
		}()

		cmd := setup(t)
		cmd.SetArgs([]string{repoDir})

		err := cmd.Execute()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to write configuration file")
	})
}
