package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fmtbot/fmtbot/internal/pipeline"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colRed       = "\033[31m"
	colGreen     = "\033[32m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, res *pipeline.Result) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "FMTBOT RUN REPORT\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Event:   "), tr.cs(colWhite, string(res.Event)))
	if res.Ref != "" {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Ref:     "), tr.cs(colWhite, res.Ref))
	}
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started: "), tr.cs(colWhite, res.StartTime.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration:"), tr.cs(colWhite, res.EndTime.Sub(res.StartTime).String()))
	fmt.Fprintf(w, "%s\n", divider)

	if tr.Verbose && len(res.ChangedFiles) > 0 {
		fmt.Fprintf(w, "Changed files (%d):\n", len(res.ChangedFiles))
		for _, p := range res.ChangedFiles {
			fmt.Fprintf(w, "  %s\n", tr.cs(colWhite, p))
		}
		fmt.Fprintf(w, "%s\n", divider)
	}

	switch res.State {
	case pipeline.StateCommitted:
		dest := ""
		if res.Pushed {
			dest = fmt.Sprintf(" and pushed to '%s'", res.Ref)
		}
		fmt.Fprintf(w, "%s %d file(s) reformatted, committed as %s%s\n",
			tr.cs(colBoldGreen, "[COMMITTED]"), len(res.ChangedFiles), shortSHA(res.CommitSHA), dest)
	case pipeline.StateSkipped:
		fmt.Fprintf(w, "%s tree already formatted, no commit created\n",
			tr.cs(colGreen, "[SKIPPED]"))
	case pipeline.StateAborted:
		fmt.Fprintf(w, "%s %v\n", tr.cs(colBoldRed, "[ABORTED]"), res.Err)
	default:
		fmt.Fprintf(w, "%s run ended in state '%s'\n", tr.cs(colRed, "[UNKNOWN]"), res.State)
	}

	return nil
}

// shortSHA abbreviates a commit hash for display.
func shortSHA(sha string) string {
	if len(sha) > 10 {
		return sha[:10]
	}
	return sha
}
