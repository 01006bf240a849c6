package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/fmtbot/fmtbot/internal/config"
)

// NewInitCmd returns a command writing the default workflow configuration.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   InitCmdName + " [dirpath]",
		Short: "Write a default " + config.ConfigFile + " into a repository",
		Long: `
Write a commented default workflow configuration into the given repository
directory (default: the current directory). fmtbot also runs without a
configuration file, using the same defaults.`,
		Args: cobra.MaximumNArgs(1),
		Example: `
fmtbot init
fmtbot init ./my-repo
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dirpath := "."
			if len(args) > 0 {
				dirpath = args[0]
			}

			if err := os.MkdirAll(dirpath, 0o750); err != nil {
				return fmt.Errorf("failed to create directory: %w", err)
			}

			configPath := filepath.Join(dirpath, config.ConfigFile)
			if _, err := os.Stat(configPath); err == nil {
				return fmt.Errorf("configuration already exists: %s", configPath)
			}

			if err := os.WriteFile(configPath, []byte(config.DefaultConfigContent), 0o600); err != nil {
				return fmt.Errorf("failed to write configuration file: %w", err)
			}

			cmd.Printf("Successfully created %s\n", configPath)
			cmd.Println("Adjust the formatters section to your tooling, then try: fmtbot check")

			return nil
		},
	}

	return cmd
}
