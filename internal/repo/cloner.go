package repo

import (
	"context"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
)

// Cloner acquires a fresh working tree for a remote ref. It is used when a
// run starts from a bare environment instead of an existing checkout.
type Cloner struct {
	token string
}

// NewCloner creates a Cloner. The token is optional and only needed for
// private repositories over HTTPS.
func NewCloner(token string) *Cloner {
	return &Cloner{token: token}
}

// Clone performs a single-branch clone of url at ref into dir and returns
// dir. The caller owns the directory and its cleanup.
func (c *Cloner) Clone(ctx context.Context, url, ref, dir string) (string, error) {
	opts := &gogit.CloneOptions{
		URL:           url,
		ReferenceName: plumbing.NewBranchReferenceName(ref),
		SingleBranch:  true,
	}

	if c.token != "" {
		// Any non-empty username works for token auth over HTTPS.
		opts.Auth = &http.BasicAuth{
			Username: "x-access-token",
			Password: c.token,
		}
	}

	if _, err := gogit.PlainCloneContext(ctx, dir, false, opts); err != nil {
		return "", &CloneError{URL: url, Ref: ref, Wrapped: err}
	}

	return dir, nil
}
