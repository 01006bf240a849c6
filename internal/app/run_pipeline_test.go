package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/fmtbot/fmtbot/internal/event"
	"github.com/fmtbot/fmtbot/internal/fs"
)

const runTestPushPayload = `{
	"ref": "refs/heads/main",
	"after": "6113728f27ae82c7b1a177c8d03f9e96e0adf246",
	"repository": {"name": "analysis", "owner": {"login": "acme"}},
	"pusher": {"name": "octocat"}
}`

func newRunCmdForTest(mgr Manager, env fs.EnvProvider) *cobra.Command {
	noColour := true
	return NewRunCmd(mgr, env, &noColour)
}

func TestNewRunCmd(t *testing.T) {
	t.Parallel()

	t.Run("manual run without event", func(t *testing.T) {
		t.Parallel()
		mockMgr := &MockManager{}
		mockMgr.On("Run", mock.Anything,
			mock.MatchedBy(func(rc *event.RunContext) bool {
				return rc.Kind == event.KindManual && rc.Ref == ""
			}),
			mock.Anything).Return(nil)

		cmd := newRunCmdForTest(mockMgr, fs.MapEnvProvider{})
		cmd.SetArgs([]string{})

		err := cmd.ExecuteContext(context.Background())
		require.NoError(t, err)
		mockMgr.AssertExpectations(t)
	})

	t.Run("manual run with explicit ref", func(t *testing.T) {
		t.Parallel()
		mockMgr := &MockManager{}
		mockMgr.On("Run", mock.Anything,
			mock.MatchedBy(func(rc *event.RunContext) bool {
				return rc.Kind == event.KindManual && rc.Ref == "feature-x"
			}),
			mock.Anything).Return(nil)

		cmd := newRunCmdForTest(mockMgr, fs.MapEnvProvider{})
		cmd.SetArgs([]string{"--ref", "feature-x"})

		err := cmd.ExecuteContext(context.Background())
		require.NoError(t, err)
		mockMgr.AssertExpectations(t)
	})

	t.Run("event from flags", func(t *testing.T) {
		t.Parallel()
		payloadPath := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(payloadPath, []byte(runTestPushPayload), 0o600))

		mockMgr := &MockManager{}
		mockMgr.On("Run", mock.Anything,
			mock.MatchedBy(func(rc *event.RunContext) bool {
				return rc.Kind == event.KindPush && rc.Ref == "main" && rc.Owner == "acme"
			}),
			mock.Anything).Return(nil)

		cmd := newRunCmdForTest(mockMgr, fs.MapEnvProvider{})
		cmd.SetArgs([]string{"--event-name", "push", "--event-path", payloadPath})

		err := cmd.ExecuteContext(context.Background())
		require.NoError(t, err)
		mockMgr.AssertExpectations(t)
	})

	t.Run("event from environment", func(t *testing.T) {
		t.Parallel()
		payloadPath := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(payloadPath, []byte(runTestPushPayload), 0o600))

		mockMgr := &MockManager{}
		mockMgr.On("Run", mock.Anything,
			mock.MatchedBy(func(rc *event.RunContext) bool {
				return rc.Kind == event.KindPush && rc.HeadSHA == "6113728f27ae82c7b1a177c8d03f9e96e0adf246"
			}),
			mock.Anything).Return(nil)

		env := fs.MapEnvProvider{
			event.EventNameEnvVar: "push",
			event.EventPathEnvVar: payloadPath,
		}
		cmd := newRunCmdForTest(mockMgr, env)
		cmd.SetArgs([]string{})

		err := cmd.ExecuteContext(context.Background())
		require.NoError(t, err)
		mockMgr.AssertExpectations(t)
	})

	t.Run("options forwarded", func(t *testing.T) {
		t.Parallel()
		mockMgr := &MockManager{}
		mockMgr.On("Run", mock.Anything, mock.Anything,
			mock.MatchedBy(func(opts RunOptions) bool {
				return opts.Verbose && opts.Format == "json" &&
					opts.CloneURL == "https://example.com/acme/analysis.git" && !opts.UseColour
			})).Return(nil)

		cmd := newRunCmdForTest(mockMgr, fs.MapEnvProvider{})
		cmd.SetArgs([]string{
			"--verbose", "--format", "json",
			"--clone-url", "https://example.com/acme/analysis.git",
			"--ref", "main",
		})

		err := cmd.ExecuteContext(context.Background())
		require.NoError(t, err)
		mockMgr.AssertExpectations(t)
	})

	t.Run("event flags must be given together", func(t *testing.T) {
		t.Parallel()
		mockMgr := &MockManager{}
		cmd := newRunCmdForTest(mockMgr, fs.MapEnvProvider{})
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		cmd.SetArgs([]string{"--event-name", "push"})

		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must be given together")
	})

	t.Run("unknown event kind", func(t *testing.T) {
		t.Parallel()
		payloadPath := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(payloadPath, []byte(`{}`), 0o600))

		mockMgr := &MockManager{}
		cmd := newRunCmdForTest(mockMgr, fs.MapEnvProvider{})
		cmd.SilenceErrors = true
		cmd.SilenceUsage = true
		cmd.SetArgs([]string{"--event-name", "issues", "--event-path", payloadPath})

		err := cmd.ExecuteContext(context.Background())
		require.Error(t, err)

		var unknown *event.UnknownEventKindError
		assert.ErrorAs(t, err, &unknown)
	})
}
