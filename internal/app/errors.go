package app

import (
	"fmt"
)

// UnformattedError is returned by the check command when formatting is
// needed. It drives the non-zero exit code.
type UnformattedError struct {
	Count int
}

func (e *UnformattedError) Error() string {
	return fmt.Sprintf("%d file(s) would be reformatted", e.Count)
}
