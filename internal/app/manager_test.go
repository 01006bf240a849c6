package app

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmtbot/fmtbot/internal/config"
	"github.com/fmtbot/fmtbot/internal/event"
	"github.com/fmtbot/fmtbot/internal/format"
	"github.com/fmtbot/fmtbot/internal/repo"
	"github.com/fmtbot/fmtbot/internal/status"
)

// stubGitter is a function-field test double for the repo.Gitter interface.
type stubGitter struct {
	changedFilesFunc func() ([]string, error)
	commitFunc       func(paths []string, message string, author repo.Author) (string, error)
	pushFunc         func(remote, ref string) error
	restoreFunc      func(paths []string) error
	hasRemote        bool
}

func (s *stubGitter) HeadSHA() (string, error)       { return "deadbeef", nil }
func (s *stubGitter) CurrentBranch() (string, error) { return "main", nil }
func (s *stubGitter) HasRemote(string) bool          { return s.hasRemote }
func (s *stubGitter) Checkout(_, _ string) error     { return nil }

func (s *stubGitter) ChangedFiles() ([]string, error) {
	if s.changedFilesFunc != nil {
		return s.changedFilesFunc()
	}
	return nil, nil
}

func (s *stubGitter) Commit(paths []string, message string, author repo.Author) (string, error) {
	if s.commitFunc != nil {
		return s.commitFunc(paths, message, author)
	}
	return "deadbeef", nil
}

func (s *stubGitter) Push(remote, ref string) error {
	if s.pushFunc != nil {
		return s.pushFunc(remote, ref)
	}
	return nil
}

func (s *stubGitter) Restore(paths []string) error {
	if s.restoreFunc != nil {
		return s.restoreFunc(paths)
	}
	return nil
}

// recordingStatus captures every Report call.
type recordingStatus struct {
	mu     sync.Mutex
	states []string
}

func (r *recordingStatus) Report(_ context.Context, _ *event.RunContext, state, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states = append(r.states, state)
	return nil
}

func newTestBotManager(t *testing.T, gitter repo.Gitter, cfg *config.Config) (*BotManager, *recordingStatus, *bytes.Buffer) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	statusRep := &recordingStatus{}
	mgr := NewBotManager(logger, cfg, format.NewRunner(logger, io.Discard, io.Discard),
		repo.NewCloner(""), statusRep, t.TempDir())
	mgr.newGitter = func(string) repo.Gitter { return gitter }

	var report bytes.Buffer
	mgr.reporterWriter = &report
	return mgr, statusRep, &report
}

func noopConfig() *config.Config {
	cfg := config.Default()
	cfg.Formatters = []config.Formatter{{Name: "noop", Command: []string{"true"}}}
	return cfg
}

func TestBotManagerRun(t *testing.T) {
	t.Parallel()

	t.Run("already formatted tree is skipped", func(t *testing.T) {
		t.Parallel()
		gitter := &stubGitter{}
		mgr, statusRep, report := newTestBotManager(t, gitter, noopConfig())

		err := mgr.Run(context.Background(), event.Manual(""), RunOptions{Format: "text"})
		require.NoError(t, err)
		assert.Contains(t, report.String(), "[SKIPPED]")
		assert.Equal(t, []string{status.StatePending, status.StateSuccess}, statusRep.states)
	})

	t.Run("modified tree is committed and pushed", func(t *testing.T) {
		t.Parallel()
		var committed []string
		var pushedRef string
		gitter := &stubGitter{
			hasRemote: true,
			changedFilesFunc: func() ([]string, error) {
				return []string{"a.py"}, nil
			},
			commitFunc: func(paths []string, message string, _ repo.Author) (string, error) {
				committed = paths
				assert.Equal(t, "Apply black formatting", message)
				return "c0ffee00c0ffee00c0ffee00c0ffee00c0ffee00", nil
			},
			pushFunc: func(_, ref string) error {
				pushedRef = ref
				return nil
			},
		}
		mgr, statusRep, report := newTestBotManager(t, gitter, noopConfig())

		err := mgr.Run(context.Background(), event.Manual("main"), RunOptions{Format: "text"})
		require.NoError(t, err)
		assert.Equal(t, []string{"a.py"}, committed)
		assert.Equal(t, "main", pushedRef)
		assert.Contains(t, report.String(), "[COMMITTED]")
		assert.Equal(t, []string{status.StatePending, status.StateSuccess}, statusRep.states)
	})

	t.Run("formatter failure aborts and reports failure", func(t *testing.T) {
		t.Parallel()
		cfg := noopConfig()
		cfg.Formatters = []config.Formatter{{Name: "broken", Command: []string{"false"}}}
		gitter := &stubGitter{}
		mgr, statusRep, report := newTestBotManager(t, gitter, cfg)

		err := mgr.Run(context.Background(), event.Manual(""), RunOptions{Format: "text"})
		require.Error(t, err)

		var toolErr *format.ToolError
		assert.ErrorAs(t, err, &toolErr)
		assert.Contains(t, report.String(), "[ABORTED]")
		assert.Equal(t, []string{status.StatePending, status.StateFailure}, statusRep.states)
	})

	t.Run("json report format", func(t *testing.T) {
		t.Parallel()
		gitter := &stubGitter{}
		mgr, _, report := newTestBotManager(t, gitter, noopConfig())

		err := mgr.Run(context.Background(), event.Manual(""), RunOptions{Format: "json"})
		require.NoError(t, err)
		assert.Contains(t, report.String(), `"state": "skipped"`)
	})

	t.Run("clone directory is removed after the run", func(t *testing.T) {
		t.Parallel()
		src := setupTestRepo(t, "")
		gitter := &stubGitter{}
		mgr, _, report := newTestBotManager(t, gitter, noopConfig())
		mgr.cloneParent = t.TempDir()

		err := mgr.Run(context.Background(), event.Manual("main"), RunOptions{CloneURL: src, Format: "text"})
		require.NoError(t, err)
		assert.Contains(t, report.String(), "[SKIPPED]")

		entries, err := os.ReadDir(mgr.cloneParent)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("clone url without ref is rejected", func(t *testing.T) {
		t.Parallel()
		gitter := &stubGitter{}
		mgr, statusRep, _ := newTestBotManager(t, gitter, noopConfig())

		err := mgr.Run(context.Background(), event.Manual(""), RunOptions{CloneURL: "https://example.com/r.git"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a ref")
		assert.Empty(t, statusRep.states)
	})
}

func TestBotManagerCheck(t *testing.T) {
	t.Parallel()

	calls := 0
	var restored []string
	gitter := &stubGitter{
		changedFilesFunc: func() ([]string, error) {
			calls++
			if calls == 1 {
				return nil, nil // clean before the formatters run
			}
			return []string{"a.py"}, nil
		},
		restoreFunc: func(paths []string) error {
			restored = paths
			return nil
		},
	}
	mgr, _, _ := newTestBotManager(t, gitter, noopConfig())

	changed, err := mgr.Check(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a.py"}, changed)
	assert.Equal(t, []string{"a.py"}, restored)
}

func TestBotManagerWatch(t *testing.T) {
	t.Parallel()

	gitter := &stubGitter{}
	mgr, _, _ := newTestBotManager(t, gitter, noopConfig())

	ctx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- mgr.Watch(ctx, ready)
	}()

	select {
	case <-ready:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never became ready")
	}
	cancel()

	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}
