package collector

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v55/github"
	"golang.org/x/oauth2"
)

const (
	mediaTypeV3           = "application/vnd.github.v3+json"
	mediaTypeDiscussions  = "application/vnd.github.v3+json, application/vnd.github.echo-preview+json"
	mediaTypeProjects     = "application/vnd.github.inertia-preview+json"
	defaultRequestTimeout = 30 * time.Second
)

// githubRequester implements Requester on top of the go-github client
type githubRequester struct {
	client      *github.Client
	baseHeaders http.Header
}

// NewGitHubRequester creates a Requester for the given API base URL.
// An empty token yields an unauthenticated client.
func NewGitHubRequester(baseURL, token string, timeout time.Duration) (Requester, error) {
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	httpClient := &http.Client{Timeout: timeout}
	if token != "" {
		ts := oauth2.StaticTokenSource(
			&oauth2.Token{AccessToken: token},
		)
		httpClient = oauth2.NewClient(context.Background(), ts)
		httpClient.Timeout = timeout
	}

	client := github.NewClient(httpClient)
	if baseURL != "" {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		parsed, err := client.BaseURL.Parse(baseURL)
		if err != nil {
			return nil, err
		}
		client.BaseURL = parsed
	}

	return newGitHubRequester(client), nil
}

func newGitHubRequester(client *github.Client) *githubRequester {
	return &githubRequester{
		client:      client,
		baseHeaders: http.Header{"Accept": []string{mediaTypeV3}},
	}
}

// Get issues a single GET and reports the upstream status as-is
func (r *githubRequester) Get(ctx context.Context, req Request) (*Response, error) {
	location, err := withQuery(req.Location, req.Query)
	if err != nil {
		return nil, err
	}

	httpReq, err := r.client.NewRequest(http.MethodGet, location, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range mergeHeaders(r.baseHeaders, req.Headers) {
		httpReq.Header[key] = values
	}

	resp, err := r.client.BareDo(ctx, httpReq)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if resp == nil || resp.Response == nil {
		return nil, err
	}
	defer resp.Body.Close()

	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
	}

	if err != nil {
		// go-github reports 202 and non-2xx statuses as errors; they are
		// ordinary outcomes here.
		var accepted *github.AcceptedError
		if errors.As(err, &accepted) {
			out.Body = accepted.Raw
			return out, nil
		}
		if resp.StatusCode != 0 && resp.StatusCode != http.StatusOK {
			return out, nil
		}
		return nil, err
	}

	out.Body, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return out, nil
}
