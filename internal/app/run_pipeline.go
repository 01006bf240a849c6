package app

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fmtbot/fmtbot/internal/event"
	"github.com/fmtbot/fmtbot/internal/fs"
)

// NewRunCmd returns the command executing the full pipeline for one
// triggering event.
func NewRunCmd(mgr Manager, envProvider fs.EnvProvider, noColour *bool) *cobra.Command {
	var eventName string
	var eventPath pathValue
	var ref string
	var cloneURL string
	var verbose bool
	var outputFormat formatValue = "text"

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the formatting pipeline for a triggering event",
		Long: `
Run the full pipeline: acquire the source tree at the event's ref, apply the
configured formatters, and - only if they modified files - commit and push the
result back to the same ref.

The triggering event is taken from --event-name/--event-path, or from the
platform environment (` + event.EventNameEnvVar + `/` + event.EventPathEnvVar + `). Without either, the run
is treated as manual and operates on the current checkout (or on --ref).`,
		Args: cobra.NoArgs,
		Example: `
fmtbot run
fmtbot run --event-name push --event-path event.json
fmtbot run --ref feature-x --clone-url https://github.com/org/repo.git
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var rc *event.RunContext
			var err error

			switch {
			case eventName != "" || eventPath != "":
				if eventName == "" || eventPath == "" {
					return fmt.Errorf("--event-name and --event-path must be given together")
				}
				var payload []byte
				payload, err = os.ReadFile(string(eventPath))
				if err != nil {
					return fmt.Errorf("cannot read event payload: %w", err)
				}
				rc, err = event.Parse(eventName, payload)
				if err != nil {
					return err
				}
			default:
				rc, err = event.Load(envProvider)
				var noEvent *event.NoEventError
				if errors.As(err, &noEvent) {
					rc = event.Manual(ref)
				} else if err != nil {
					return err
				}
			}

			opts := RunOptions{
				CloneURL:  cloneURL,
				Verbose:   verbose,
				Format:    string(outputFormat),
				UseColour: !*noColour,
			}
			return mgr.Run(cmd.Context(), rc, opts)
		},
	}

	cmd.Flags().StringVar(&eventName, "event-name", "", "kind of the triggering event (push or pull_request)")
	cmd.Flags().Var(&eventPath, "event-path", "path to the event payload JSON")
	cmd.Flags().StringVar(&ref, "ref", "", "branch to format when no event is given")
	cmd.Flags().StringVar(&cloneURL, "clone-url", "", "clone this remote instead of using an existing checkout")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list changed files in the report")
	cmd.Flags().VarP(&outputFormat, "format", "f", "output format: text or json")

	return cmd
}
