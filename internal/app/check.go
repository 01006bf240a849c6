package app

import (
	"github.com/spf13/cobra"
)

// NewCheckCmd returns the command running the formatters in check-only mode.
func NewCheckCmd(mgr Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report which files the formatters would change, without committing",
		Long: `
Run the configured formatters and report which files they would rewrite,
restoring the working tree afterwards. Exits non-zero when formatting is
needed, so it can gate a pull request.

The working tree must be clean: pre-existing modifications cannot be told
apart from formatter output.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			changed, err := mgr.Check(cmd.Context())
			if err != nil {
				return err
			}

			if len(changed) == 0 {
				cmd.Println("All files correctly formatted")
				return nil
			}

			for _, p := range changed {
				cmd.Printf("would reformat %s\n", p)
			}
			return &UnformattedError{Count: len(changed)}
		},
	}

	return cmd
}
