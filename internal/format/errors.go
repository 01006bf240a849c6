package format

import (
	"fmt"
)

// ToolError reports a formatter-internal failure (non-zero exit), e.g. input
// the tool cannot parse. It is distinct from "files needed formatting",
// which is never an error.
type ToolError struct {
	Name    string
	Wrapped error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("formatter '%s' failed: %v", e.Name, e.Wrapped)
}

func (e *ToolError) Unwrap() error { return e.Wrapped }

type EmptyCommandError struct {
	Name string
}

func (e *EmptyCommandError) Error() string {
	return fmt.Sprintf("formatter '%s' has no command configured", e.Name)
}
