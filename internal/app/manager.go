package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fmtbot/fmtbot/internal/config"
	"github.com/fmtbot/fmtbot/internal/event"
	"github.com/fmtbot/fmtbot/internal/format"
	"github.com/fmtbot/fmtbot/internal/pipeline"
	"github.com/fmtbot/fmtbot/internal/repo"
	"github.com/fmtbot/fmtbot/internal/report"
	"github.com/fmtbot/fmtbot/internal/status"
)

// RunOptions carry per-invocation settings of the run command.
type RunOptions struct {
	CloneURL  string // when set, a fresh clone is acquired instead of using the existing checkout
	Verbose   bool
	Format    string
	UseColour bool
}

// Manager defines the business logic behind the fmtbot commands.
type Manager interface {
	Run(ctx context.Context, rc *event.RunContext, opts RunOptions) error
	Check(ctx context.Context) ([]string, error)
	Watch(ctx context.Context, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Run(ctx context.Context, rc *event.RunContext, opts RunOptions) error {
	return l.check().Run(ctx, rc, opts)
}

func (l *LazyManager) Check(ctx context.Context) ([]string, error) {
	return l.check().Check(ctx)
}

func (l *LazyManager) Watch(ctx context.Context, readyChan chan<- struct{}) error {
	return l.check().Watch(ctx, readyChan)
}

// Ensure the interface is satisfied.
var _ Manager = (*BotManager)(nil)

// BotManager is the concrete implementation of the Manager interface.
type BotManager struct {
	logger         *slog.Logger
	cfg            *config.Config
	runner         *format.Runner
	cloner         *repo.Cloner
	statusRep      status.Reporter
	repoDir        string
	cloneParent    string // parent for clone temp dirs; "" means the OS default
	newGitter      func(dir string) repo.Gitter
	reporterWriter io.Writer
}

func NewBotManager(
	l *slog.Logger,
	cfg *config.Config,
	runner *format.Runner,
	cloner *repo.Cloner,
	statusRep status.Reporter,
	repoDir string,
) *BotManager {
	return &BotManager{
		logger:         l,
		cfg:            cfg,
		runner:         runner,
		cloner:         cloner,
		statusRep:      statusRep,
		repoDir:        repoDir,
		newGitter:      func(dir string) repo.Gitter { return repo.NewCLIGitter(dir) },
		reporterWriter: os.Stdout,
	}
}

// Run executes the full pipeline for the given run context and writes the
// run report. The returned error is non-nil exactly when the run aborted.
func (m *BotManager) Run(ctx context.Context, rc *event.RunContext, opts RunOptions) error {
	m.logger.Debug("starting run", "event", rc.Kind, "ref", rc.Ref, "cloneURL", opts.CloneURL)

	root := m.repoDir
	if opts.CloneURL != "" {
		if rc.Ref == "" {
			return fmt.Errorf("--clone-url requires a ref to clone (from the event or --ref)")
		}
		tmp, err := os.MkdirTemp(m.cloneParent, "fmtbot-*")
		if err != nil {
			return err
		}
		defer func() {
			if err := os.RemoveAll(tmp); err != nil {
				m.logger.Warn("could not remove clone directory", "dir", tmp, "error", err)
			}
		}()
		root, err = m.cloner.Clone(ctx, opts.CloneURL, rc.Ref, tmp)
		if err != nil {
			return err
		}
		m.logger.Debug("cloned fresh working tree", "dir", root)
	}

	// Best-effort pending status before the pipeline starts; failure to
	// deliver a status never affects the run.
	if err := m.statusRep.Report(ctx, rc, status.StatePending, "formatting run in progress"); err != nil {
		m.logger.Warn("could not set pending status", "error", err)
	}

	pipe := pipeline.New(m.logger, m.cfg, m.newGitter(root), m.runner)
	res, runErr := pipe.Run(ctx, rc, root)

	state, description := status.ForResult(res)
	if err := m.statusRep.Report(ctx, rc, state, description); err != nil {
		m.logger.Warn("could not set commit status", "error", err)
	}

	var reporter report.Reporter
	switch opts.Format {
	case "json":
		reporter = &report.JSONReporter{}
	default:
		reporter = &report.TextReporter{Verbose: opts.Verbose, UseColour: opts.UseColour}
	}
	if err := reporter.Write(m.reporterWriter, res); err != nil {
		m.logger.Error("Failed to write report", "error", err)
	}

	return runErr
}

// Check runs the formatters in check-only mode and returns the files that
// would be reformatted. The working tree is left as it was found.
func (m *BotManager) Check(ctx context.Context) ([]string, error) {
	pipe := pipeline.New(m.logger, m.cfg, m.newGitter(m.repoDir), m.runner)
	return pipe.Check(ctx, m.repoDir)
}

// Watch re-runs the formatters whenever the tree changes. It never commits.
// If you want to know when the watcher is ready to start listening to
// changes, pass a non-nil readyChan to be notified.
func (m *BotManager) Watch(ctx context.Context, readyChan chan<- struct{}) error {
	watcher := format.NewWatcher(m.repoDir, m.logger)

	callback := func() {
		if err := m.runner.Run(ctx, m.repoDir, m.cfg.Formatters); err != nil {
			m.logger.Error("Formatting failed", "error", err)
			return
		}
		changed, err := m.newGitter(m.repoDir).ChangedFiles()
		if err != nil {
			m.logger.Error("Cannot inspect working tree", "error", err)
			return
		}
		if len(changed) > 0 {
			m.logger.Info("Reformatted:", "files", len(changed))
		}
	}

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			<-watcher.Ready
			readyChan <- struct{}{}
		}()
	}

	return watcher.Watch(ctx, callback)
}
