package app

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

// NewWatchCmd returns the command re-running the formatters on file changes.
func NewWatchCmd(mgr Manager) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the formatters whenever the tree changes",
		Long: `
Watch the repository and re-run the configured formatters whenever a file is
written. Nothing is ever committed; this is the local-development complement
of the event-driven pipeline. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := mgr.Watch(cmd.Context(), nil)
			if errors.Is(err, context.Canceled) {
				cmd.PrintErrln("Interrupted by user")
				return nil
			}
			return err
		},
	}

	return cmd
}
