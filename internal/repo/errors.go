package repo

import (
	"fmt"
)

type CheckoutError struct {
	Ref     string
	Wrapped error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("cannot check out '%s': %v", e.Ref, e.Wrapped)
}

func (e *CheckoutError) Unwrap() error { return e.Wrapped }

type CloneError struct {
	URL     string
	Ref     string
	Wrapped error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("cannot clone '%s' at '%s': %v", e.URL, e.Ref, e.Wrapped)
}

func (e *CloneError) Unwrap() error { return e.Wrapped }

type CommitError struct {
	Wrapped error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("cannot create formatting commit: %v", e.Wrapped)
}

func (e *CommitError) Unwrap() error { return e.Wrapped }

type PushError struct {
	Remote  string
	Ref     string
	Wrapped error
}

func (e *PushError) Error() string {
	return fmt.Sprintf("cannot push '%s' to '%s': %v", e.Ref, e.Remote, e.Wrapped)
}

func (e *PushError) Unwrap() error { return e.Wrapped }

type NothingToCommitError struct{}

func (e *NothingToCommitError) Error() string {
	return "no changed files to commit"
}

type DetachedHeadError struct{}

func (e *DetachedHeadError) Error() string {
	return "HEAD is detached - a branch must be checked out"
}
