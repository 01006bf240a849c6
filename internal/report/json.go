package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/fmtbot/fmtbot/internal/pipeline"
)

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonOutput struct {
	Event        string   `json:"event"`
	Ref          string   `json:"ref,omitempty"`
	State        string   `json:"state"`
	ChangedFiles []string `json:"changedFiles"`
	Commit       string   `json:"commit,omitempty"`
	Pushed       bool     `json:"pushed"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	Duration     string   `json:"duration"`
	Error        string   `json:"error,omitempty"`
}

func (jr *JSONReporter) Write(w io.Writer, res *pipeline.Result) error {
	out := jsonOutput{
		Event:        string(res.Event),
		Ref:          res.Ref,
		State:        string(res.State),
		ChangedFiles: res.ChangedFiles,
		Commit:       res.CommitSHA,
		Pushed:       res.Pushed,
		StartTime:    res.StartTime.Format(time.RFC3339),
		EndTime:      res.EndTime.Format(time.RFC3339),
		Duration:     res.EndTime.Sub(res.StartTime).String(),
	}
	if out.ChangedFiles == nil {
		out.ChangedFiles = []string{}
	}
	if res.Err != nil {
		out.Error = res.Err.Error()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
