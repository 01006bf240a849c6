package pipeline

import (
	"fmt"
	"strings"
)

// DirtyTreeError reports that a check was attempted over a working tree that
// already carried modifications.
type DirtyTreeError struct {
	Paths []string
}

func (e *DirtyTreeError) Error() string {
	return fmt.Sprintf("working tree has uncommitted changes, commit or stash them first: %s",
		strings.Join(e.Paths, ", "))
}
