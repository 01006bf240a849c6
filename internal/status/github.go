package status

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"
	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/fmtbot/fmtbot/internal/event"
)

// Compile-time interface satisfaction check.
var _ Reporter = (*GitHubReporter)(nil)

// GitHubReporter implements Reporter against the GitHub commit status API.
type GitHubReporter struct {
	gh      *gh.Client
	context string
}

// NewGitHubReporter creates a reporter with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewGitHubReporter(token, statusContext string) *GitHubReporter {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &GitHubReporter{
		gh:      client,
		context: statusContext,
	}
}

// NewGitHubReporterWithHTTPClient creates a GitHubReporter with a custom
// http.Client and base URL. This constructor is intended for testing,
// allowing injection of an httptest server.
func NewGitHubReporterWithHTTPClient(httpClient *http.Client, baseURL, statusContext string) (*GitHubReporter, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &GitHubReporter{
		gh:      client,
		context: statusContext,
	}, nil
}

// Report sets the status on the run's head commit. Runs without a resolvable
// repository or head SHA (e.g. manual runs) are silently skipped.
func (r *GitHubReporter) Report(ctx context.Context, rc *event.RunContext, state, description string) error {
	if rc.Owner == "" || rc.Repo == "" || rc.HeadSHA == "" {
		return nil
	}

	repoStatus := gh.RepoStatus{
		State:       gh.Ptr(state),
		Description: gh.Ptr(description),
		Context:     gh.Ptr(r.context),
	}

	_, _, err := r.gh.Repositories.CreateStatus(ctx, rc.Owner, rc.Repo, rc.HeadSHA, repoStatus)
	if err != nil {
		return fmt.Errorf("setting commit status on %s/%s@%s: %w", rc.Owner, rc.Repo, rc.HeadSHA, err)
	}
	return nil
}
