// Package format invokes the configured external formatting tools over a
// working tree.
package format

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"path/filepath"

	"github.com/fmtbot/fmtbot/internal/config"
)

// Runner executes formatter commands. Formatters run in configuration order,
// each from the repository root (or its configured subdirectory), rewriting
// files in place. The runner does not interpret tool output: modification is
// detected afterwards from the working tree.
type Runner struct {
	logger *slog.Logger
	stdout io.Writer
	stderr io.Writer
}

// NewRunner creates a Runner. Tool output is streamed to the given writers.
func NewRunner(logger *slog.Logger, stdout, stderr io.Writer) *Runner {
	return &Runner{
		logger: logger.With("component", "format"),
		stdout: stdout,
		stderr: stderr,
	}
}

// Run executes each formatter over the tree rooted at root. A formatter
// needing to rewrite files is not a failure; a non-zero exit is, and aborts
// the remaining formatters.
func (r *Runner) Run(ctx context.Context, root string, formatters []config.Formatter) error {
	for _, f := range formatters {
		if len(f.Command) == 0 {
			return &EmptyCommandError{Name: f.Name}
		}

		dir := root
		if f.Dir != "" {
			dir = filepath.Join(root, f.Dir)
		}

		r.logger.Debug("running formatter", "name", f.Name, "command", f.Command, "dir", dir)

		cmd := exec.CommandContext(ctx, f.Command[0], f.Command[1:]...)
		cmd.Dir = dir
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr

		if err := cmd.Run(); err != nil {
			return &ToolError{Name: f.DisplayName(), Wrapped: err}
		}
	}
	return nil
}
