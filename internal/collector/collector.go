package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
)

// Collector fetches the raw records of every snapshot section
type Collector interface {
	// GetOrganization retrieves the organization profile
	GetOrganization(ctx context.Context, org string) (json.RawMessage, error)

	// GetMembers retrieves all members of an organization
	GetMembers(ctx context.Context, org string) ([]json.RawMessage, error)

	// GetRepositories retrieves all repositories for an organization
	GetRepositories(ctx context.Context, org string) ([]json.RawMessage, error)

	// GetBranches retrieves the branch list of a repository
	GetBranches(ctx context.Context, owner, repo string) ([]json.RawMessage, error)

	// GetBranch retrieves one branch with its tip commit
	GetBranch(ctx context.Context, owner, repo, branch string) (json.RawMessage, error)

	// GetCommits retrieves the commits of a repository
	GetCommits(ctx context.Context, owner, repo string) ([]json.RawMessage, error)

	// GetIssues retrieves issues in every state; pull requests are included
	GetIssues(ctx context.Context, owner, repo string) ([]json.RawMessage, error)

	// GetPullRequests retrieves pull requests in every state
	GetPullRequests(ctx context.Context, owner, repo string) ([]json.RawMessage, error)

	// GetWorkflows retrieves the Actions workflows of a repository
	GetWorkflows(ctx context.Context, owner, repo string) ([]json.RawMessage, error)

	// GetDiscussions retrieves repository discussions
	GetDiscussions(ctx context.Context, owner, repo string) ([]json.RawMessage, error)

	// GetProjects retrieves organization project boards
	GetProjects(ctx context.Context, org string) ([]json.RawMessage, error)

	// GetContributorStats retrieves contributor statistics, waiting while they are computed
	GetContributorStats(ctx context.Context, owner, repo string) ([]json.RawMessage, error)
}

// Options configures a GitHub-backed collector
type Options struct {
	BaseURL     string
	Token       string
	Timeout     time.Duration
	RetryPolicy RetryPolicy
}

type githubCollector struct {
	requester Requester
	paginator *Paginator
	retrier   *Retrier
}

// NewGitHubCollector creates a collector talking to the GitHub REST API
func NewGitHubCollector(opts Options) (Collector, error) {
	requester, err := NewGitHubRequester(opts.BaseURL, opts.Token, opts.Timeout)
	if err != nil {
		return nil, err
	}
	return NewCollector(requester, opts.RetryPolicy), nil
}

// NewCollector creates a collector over an arbitrary requester
func NewCollector(requester Requester, policy RetryPolicy) Collector {
	return &githubCollector{
		requester: requester,
		paginator: NewPaginator(requester),
		retrier:   NewRetrier(requester, policy),
	}
}

func (c *githubCollector) GetOrganization(ctx context.Context, org string) (json.RawMessage, error) {
	return c.getOne(ctx, Request{Location: fmt.Sprintf("orgs/%s", org)})
}

func (c *githubCollector) GetMembers(ctx context.Context, org string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{Location: fmt.Sprintf("orgs/%s/members", org)})
}

func (c *githubCollector) GetRepositories(ctx context.Context, org string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{Location: fmt.Sprintf("orgs/%s/repos", org)})
}

func (c *githubCollector) GetBranches(ctx context.Context, owner, repo string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{Location: fmt.Sprintf("repos/%s/%s/branches", owner, repo)})
}

func (c *githubCollector) GetBranch(ctx context.Context, owner, repo, branch string) (json.RawMessage, error) {
	return c.getOne(ctx, Request{
		Location: fmt.Sprintf("repos/%s/%s/branches/%s", owner, repo, url.PathEscape(branch)),
	})
}

func (c *githubCollector) GetCommits(ctx context.Context, owner, repo string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{Location: fmt.Sprintf("repos/%s/%s/commits", owner, repo)})
}

func (c *githubCollector) GetIssues(ctx context.Context, owner, repo string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{
		Location: fmt.Sprintf("repos/%s/%s/issues", owner, repo),
		Query:    url.Values{"state": []string{"all"}},
	})
}

func (c *githubCollector) GetPullRequests(ctx context.Context, owner, repo string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{
		Location: fmt.Sprintf("repos/%s/%s/pulls", owner, repo),
		Query:    url.Values{"state": []string{"all"}},
	})
}

func (c *githubCollector) GetWorkflows(ctx context.Context, owner, repo string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{
		Location: fmt.Sprintf("repos/%s/%s/actions/workflows", owner, repo),
		ItemsKey: "workflows",
	})
}

func (c *githubCollector) GetDiscussions(ctx context.Context, owner, repo string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{
		Location: fmt.Sprintf("repos/%s/%s/discussions", owner, repo),
		Headers:  http.Header{"Accept": []string{mediaTypeDiscussions}},
	})
}

func (c *githubCollector) GetProjects(ctx context.Context, org string) ([]json.RawMessage, error) {
	return c.paginator.Collect(ctx, Request{
		Location: fmt.Sprintf("orgs/%s/projects", org),
		Headers:  http.Header{"Accept": []string{mediaTypeProjects}},
	})
}

func (c *githubCollector) GetContributorStats(ctx context.Context, owner, repo string) ([]json.RawMessage, error) {
	resp, err := c.retrier.Do(ctx, Request{Location: fmt.Sprintf("repos/%s/%s/stats/contributors", owner, repo)})
	if err != nil {
		return nil, err
	}
	items, err := decodeItems(resp.Body, "")
	if err != nil {
		return nil, apperrors.NewRequestFailedError(fmt.Sprintf("repos/%s/%s/stats/contributors", owner, repo), resp.StatusCode, err)
	}
	return items, nil
}

// getOne fetches a single, non-paginated object
func (c *githubCollector) getOne(ctx context.Context, req Request) (json.RawMessage, error) {
	resp, err := c.requester.Get(ctx, req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, apperrors.NewRequestFailedError(req.Location, 0, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewRequestFailedError(req.Location, resp.StatusCode, nil)
	}
	if !json.Valid(resp.Body) {
		return nil, apperrors.NewRequestFailedError(req.Location, resp.StatusCode, fmt.Errorf("invalid JSON body"))
	}
	return json.RawMessage(resp.Body), nil
}
