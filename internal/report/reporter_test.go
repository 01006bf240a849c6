package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fmtbot/fmtbot/internal/event"
	"github.com/fmtbot/fmtbot/internal/pipeline"
)

func committedResult() *pipeline.Result {
	start := time.Now()
	return &pipeline.Result{
		Event:        event.KindPush,
		Ref:          "main",
		State:        pipeline.StateCommitted,
		ChangedFiles: []string{"a.py", "b.py"},
		CommitSHA:    "6113728f27ae82c7b1a177c8d03f9e96e0adf246",
		Pushed:       true,
		StartTime:    start,
		EndTime:      start.Add(time.Second),
	}
}

func TestTextReporter(t *testing.T) {
	t.Parallel()

	t.Run("committed run", func(t *testing.T) {
		t.Parallel()
		tr := &TextReporter{}
		var buf bytes.Buffer
		require.NoError(t, tr.Write(&buf, committedResult()))

		output := buf.String()
		assert.Contains(t, output, "FMTBOT RUN REPORT")
		assert.Contains(t, output, "[COMMITTED]")
		assert.Contains(t, output, "2 file(s) reformatted")
		assert.Contains(t, output, "6113728f27")
		assert.Contains(t, output, "pushed to 'main'")
		// Changed files only listed in verbose mode.
		assert.NotContains(t, output, "a.py")
	})

	t.Run("verbose mode lists changed files", func(t *testing.T) {
		t.Parallel()
		tr := &TextReporter{Verbose: true}
		var buf bytes.Buffer
		require.NoError(t, tr.Write(&buf, committedResult()))

		output := buf.String()
		assert.Contains(t, output, "Changed files (2):")
		assert.Contains(t, output, "a.py")
		assert.Contains(t, output, "b.py")
	})

	t.Run("skipped run", func(t *testing.T) {
		t.Parallel()
		res := committedResult()
		res.State = pipeline.StateSkipped
		res.ChangedFiles = nil
		res.CommitSHA = ""
		res.Pushed = false

		tr := &TextReporter{}
		var buf bytes.Buffer
		require.NoError(t, tr.Write(&buf, res))

		assert.Contains(t, buf.String(), "[SKIPPED]")
		assert.Contains(t, buf.String(), "no commit created")
	})

	t.Run("aborted run", func(t *testing.T) {
		t.Parallel()
		res := committedResult()
		res.State = pipeline.StateAborted
		res.Err = errors.New("formatter 'black' failed: exit status 123")

		tr := &TextReporter{}
		var buf bytes.Buffer
		require.NoError(t, tr.Write(&buf, res))

		assert.Contains(t, buf.String(), "[ABORTED]")
		assert.Contains(t, buf.String(), "formatter 'black' failed")
	})

	t.Run("colour codes only when enabled", func(t *testing.T) {
		t.Parallel()
		var plain, coloured bytes.Buffer
		require.NoError(t, (&TextReporter{}).Write(&plain, committedResult()))
		require.NoError(t, (&TextReporter{UseColour: true}).Write(&coloured, committedResult()))

		assert.NotContains(t, plain.String(), "\033[")
		assert.Contains(t, coloured.String(), "\033[")
	})
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	t.Run("committed run", func(t *testing.T) {
		t.Parallel()
		jr := &JSONReporter{}
		var buf bytes.Buffer
		require.NoError(t, jr.Write(&buf, committedResult()))

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

		assert.Equal(t, "push", out["event"])
		assert.Equal(t, "main", out["ref"])
		assert.Equal(t, "committed", out["state"])
		assert.Equal(t, true, out["pushed"])
		assert.Len(t, out["changedFiles"], 2)
		assert.NotContains(t, out, "error")
	})

	t.Run("aborted run carries the error", func(t *testing.T) {
		t.Parallel()
		res := committedResult()
		res.State = pipeline.StateAborted
		res.Err = errors.New("boom")

		jr := &JSONReporter{}
		var buf bytes.Buffer
		require.NoError(t, jr.Write(&buf, res))

		var out map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
		assert.Equal(t, "aborted", out["state"])
		assert.Equal(t, "boom", out["error"])
	})

	t.Run("changed files never null", func(t *testing.T) {
		t.Parallel()
		res := committedResult()
		res.ChangedFiles = nil

		jr := &JSONReporter{}
		var buf bytes.Buffer
		require.NoError(t, jr.Write(&buf, res))
		assert.Contains(t, buf.String(), `"changedFiles": []`)
	})
}
