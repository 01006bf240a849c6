// Package report renders run results for humans and machines.
package report

import (
	"io"

	"github.com/fmtbot/fmtbot/internal/pipeline"
)

// Reporter writes a run result to a writer.
type Reporter interface {
	Write(w io.Writer, res *pipeline.Result) error
}
