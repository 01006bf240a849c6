// Package event turns hosting-platform trigger payloads into the run context
// the pipeline operates on.
package event

import (
	"os"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/fmtbot/fmtbot/internal/fs"
)

// Kind identifies the kind of event that triggered a run.
type Kind string

const (
	// KindPush is a push to any branch.
	KindPush Kind = "push"
	// KindPullRequest is a pull request event, any action.
	KindPullRequest Kind = "pull_request"
	// KindManual marks a run started from the command line rather than a
	// platform event. Manual contexts are constructed, never parsed.
	KindManual Kind = "manual"
)

// Environment variables the hosting platform sets for each run.
const (
	EventNameEnvVar = "GITHUB_EVENT_NAME"
	EventPathEnvVar = "GITHUB_EVENT_PATH"
)

// RunContext identifies the triggering event and the ref under test.
// It is read-only once established.
type RunContext struct {
	Kind    Kind
	Ref     string // branch to format and push back to
	HeadSHA string // commit the run was triggered for
	Owner   string // repository owner
	Repo    string // repository name
	Actor   string // user who triggered the event
	Number  int    // pull request number; zero for pushes
}

// Parse extracts a RunContext from a raw event payload. For a pull request
// the ref is the head branch of that pull request - the branch a formatting
// commit must be pushed to - never the base branch. For a push it is the
// pushed ref.
func Parse(name string, payload []byte) (*RunContext, error) {
	if !gjson.ValidBytes(payload) {
		return nil, &MalformedPayloadError{Reason: "payload is not valid JSON"}
	}

	doc := gjson.ParseBytes(payload)

	rc := &RunContext{
		Owner: doc.Get("repository.owner.login").String(),
		Repo:  doc.Get("repository.name").String(),
		Actor: doc.Get("sender.login").String(),
	}

	switch Kind(name) {
	case KindPush:
		rc.Kind = KindPush
		ref := doc.Get("ref").String()
		if ref == "" {
			return nil, &MalformedPayloadError{Reason: "push payload has no ref"}
		}
		rc.Ref = strings.TrimPrefix(ref, "refs/heads/")
		rc.HeadSHA = doc.Get("after").String()
		if rc.Actor == "" {
			rc.Actor = doc.Get("pusher.name").String()
		}

	case KindPullRequest:
		rc.Kind = KindPullRequest
		head := doc.Get("pull_request.head")
		if !head.Exists() {
			return nil, &MalformedPayloadError{Reason: "pull_request payload has no head"}
		}
		rc.Ref = head.Get("ref").String()
		if rc.Ref == "" {
			return nil, &MalformedPayloadError{Reason: "pull_request payload has no head ref"}
		}
		rc.HeadSHA = head.Get("sha").String()
		rc.Number = int(doc.Get("number").Int())

	default:
		return nil, &UnknownEventKindError{Name: name}
	}

	return rc, nil
}

// Load reads the event name and payload path from the platform environment
// and parses the payload file. It returns NoEventError when the environment
// carries no event.
func Load(env fs.EnvProvider) (*RunContext, error) {
	name := env.Get(EventNameEnvVar)
	path := env.Get(EventPathEnvVar)
	if name == "" || path == "" {
		return nil, &NoEventError{}
	}

	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, &MalformedPayloadError{Reason: err.Error()}
	}

	return Parse(name, payload)
}

// Manual constructs the run context for a command-line run against the
// current checkout. The ref may be empty, in which case the pipeline
// operates on whatever is checked out.
func Manual(ref string) *RunContext {
	return &RunContext{Kind: KindManual, Ref: ref}
}
