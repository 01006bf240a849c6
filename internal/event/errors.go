package event

import (
	"fmt"
)

type UnknownEventKindError struct {
	Name string
}

func (e *UnknownEventKindError) Error() string {
	return fmt.Sprintf("unknown event kind '%s' - fmtbot reacts to 'push' and 'pull_request'", e.Name)
}

type MalformedPayloadError struct {
	Reason string
}

func (e *MalformedPayloadError) Error() string {
	return fmt.Sprintf("event payload cannot be read: %s", e.Reason)
}

type NoEventError struct{}

func (e *NoEventError) Error() string {
	return fmt.Sprintf("no triggering event found: %s and %s are not set", EventNameEnvVar, EventPathEnvVar)
}
