package collector

import (
	"context"
	"net/http"
	"net/url"
)

// Request describes one GET against the API
type Request struct {
	// Location is relative to the API base URL, or absolute for followed links
	Location string
	// Query is applied to the first request only; followed links embed their own
	Query url.Values
	// Headers are per-call overrides merged over the requester's base headers
	Headers http.Header
	// ItemsKey names the array inside an object body, e.g. "workflows"
	ItemsKey string
}

// Response is the status, headers and raw body of one API call
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Requester issues GET requests. Non-success statuses are returned as a
// Response, not an error; errors are reserved for transport failures.
type Requester interface {
	Get(ctx context.Context, req Request) (*Response, error)
}

// mergeHeaders returns a fresh header set of base overlaid with overrides.
// Neither argument is modified.
func mergeHeaders(base, overrides http.Header) http.Header {
	merged := base.Clone()
	if merged == nil {
		merged = make(http.Header)
	}
	for key, values := range overrides {
		merged[http.CanonicalHeaderKey(key)] = append([]string(nil), values...)
	}
	return merged
}

// withQuery appends query to location, keeping any query already embedded
func withQuery(location string, query url.Values) (string, error) {
	if len(query) == 0 {
		return location, nil
	}
	u, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for key, values := range query {
		q[key] = append([]string(nil), values...)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}
