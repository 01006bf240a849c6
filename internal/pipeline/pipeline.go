// Package pipeline sequences the three operations of a formatting run:
// acquire the source tree, apply formatting, conditionally persist changes.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/fmtbot/fmtbot/internal/config"
	"github.com/fmtbot/fmtbot/internal/event"
	"github.com/fmtbot/fmtbot/internal/format"
	"github.com/fmtbot/fmtbot/internal/repo"
)

// State identifies where a run is in its lifecycle. A run moves
// Started -> CheckedOut -> Formatted -> {Committed | Skipped}; any step
// failure ends it in Aborted.
type State string

const (
	StateStarted    State = "started"
	StateCheckedOut State = "checked-out"
	StateFormatted  State = "formatted"
	StateCommitted  State = "committed"
	StateSkipped    State = "skipped"
	StateAborted    State = "aborted"
)

// Terminal reports whether the state ends a run.
func (s State) Terminal() bool {
	return s == StateCommitted || s == StateSkipped || s == StateAborted
}

// Result records the outcome of a single run. It is produced once per run
// and discarded at run end; no state survives between runs.
type Result struct {
	Event        event.Kind
	Ref          string
	State        State
	ChangedFiles []string
	CommitSHA    string
	Pushed       bool
	StartTime    time.Time
	EndTime      time.Time
	Err          error
}

// Pipeline wires the collaborators a run needs. It holds no per-run state;
// concurrent runs against separate checkouts do not interact.
type Pipeline struct {
	logger *slog.Logger
	cfg    *config.Config
	gitter repo.Gitter
	runner *format.Runner
}

// New creates a Pipeline.
func New(logger *slog.Logger, cfg *config.Config, gitter repo.Gitter, runner *format.Runner) *Pipeline {
	return &Pipeline{
		logger: logger.With("component", "pipeline"),
		cfg:    cfg,
		gitter: gitter,
		runner: runner,
	}
}

// Run executes one formatting run for the given context against the tree at
// root. The returned Result always carries the terminal state; the error is
// non-nil exactly when the run aborted. No commit is ever created from an
// aborted run.
func (p *Pipeline) Run(ctx context.Context, rc *event.RunContext, root string) (*Result, error) {
	res := &Result{
		Event:     rc.Kind,
		Ref:       rc.Ref,
		State:     StateStarted,
		StartTime: time.Now(),
	}

	err := p.run(ctx, rc, root, res)
	res.EndTime = time.Now()
	if err != nil {
		res.State = StateAborted
		res.Err = err
		p.logger.Error("run aborted", "error", err, "event", rc.Kind, "ref", res.Ref)
		return res, err
	}

	return res, nil
}

func (p *Pipeline) run(ctx context.Context, rc *event.RunContext, root string, res *Result) error {
	// 1. Acquire the source tree at the event's ref. A manual run without a
	// ref operates on whatever is checked out.
	if rc.Ref != "" {
		if err := p.gitter.Checkout(p.cfg.Push.Remote, rc.Ref); err != nil {
			return err
		}
	} else if branch, err := p.gitter.CurrentBranch(); err == nil {
		res.Ref = branch
	}
	res.State = StateCheckedOut
	p.logger.Debug("source tree acquired", "root", root, "ref", res.Ref)

	// 2. Apply formatting. "Needed formatting" is not a failure; a
	// tool-internal error is, and nothing gets committed after one.
	if err := p.runner.Run(ctx, root, p.cfg.Formatters); err != nil {
		return err
	}
	changed, err := p.changedFiles()
	if err != nil {
		return err
	}
	res.ChangedFiles = changed
	res.State = StateFormatted
	p.logger.Debug("formatting applied", "changed", len(changed))

	// 3. Conditionally persist. When nothing changed, no commit object is
	// created at all.
	if len(changed) == 0 {
		res.State = StateSkipped
		p.logger.Info("tree already formatted, nothing to commit")
		return nil
	}

	sha, err := p.gitter.Commit(changed, p.cfg.Commit.Message, repo.Author{
		Name:  p.cfg.Commit.AuthorName,
		Email: p.cfg.Commit.AuthorEmail,
	})
	if err != nil {
		return err
	}
	res.CommitSHA = sha

	if p.cfg.Push.Enabled && res.Ref != "" && p.gitter.HasRemote(p.cfg.Push.Remote) {
		if err := p.gitter.Push(p.cfg.Push.Remote, res.Ref); err != nil {
			return err
		}
		res.Pushed = true
	}

	res.State = StateCommitted
	p.logger.Info("formatting committed", "commit", sha, "files", len(changed), "pushed", res.Pushed)
	return nil
}

// Check runs the formatters and reports which files they would change,
// restoring the tree afterwards. The tree must be clean before the check so
// pre-existing modifications are not misattributed to the formatters.
func (p *Pipeline) Check(ctx context.Context, root string) ([]string, error) {
	dirty, err := p.changedFiles()
	if err != nil {
		return nil, err
	}
	if len(dirty) > 0 {
		return nil, &DirtyTreeError{Paths: dirty}
	}

	if err := p.runner.Run(ctx, root, p.cfg.Formatters); err != nil {
		return nil, err
	}

	changed, err := p.changedFiles()
	if err != nil {
		return nil, err
	}

	if err := p.gitter.Restore(changed); err != nil {
		return nil, err
	}
	return changed, nil
}

// changedFiles lists working-tree modifications, excluding fmtbot's own log
// file, which is written into the tree but must never be committed.
func (p *Pipeline) changedFiles() ([]string, error) {
	paths, err := p.gitter.ChangedFiles()
	if err != nil {
		return nil, err
	}
	out := paths[:0]
	for _, path := range paths {
		if path == config.LogFile {
			continue
		}
		out = append(out, path)
	}
	return out, nil
}
