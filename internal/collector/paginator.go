package collector

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strconv"

	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
)

// DefaultPageSize is the largest page the API serves
const DefaultPageSize = 100

var linkPattern = regexp.MustCompile(`<([^>]+)>;\s*rel="([^"]+)"`)

// ParseNextLink returns the rel="next" URL of a Link header, or "" when absent
func ParseNextLink(header string) string {
	if header == "" {
		return ""
	}
	for _, match := range linkPattern.FindAllStringSubmatch(header, -1) {
		if len(match) == 3 && match[2] == "next" {
			return match[1]
		}
	}
	return ""
}

// Paginator walks a cursor-paginated collection by following rel="next" links
type Paginator struct {
	requester Requester
	pageSize  int
}

// NewPaginator creates a new paginator
func NewPaginator(requester Requester) *Paginator {
	return &Paginator{
		requester: requester,
		pageSize:  DefaultPageSize,
	}
}

// Collect fetches every page of req in order and concatenates the items.
//
// The page size is sent on the first request only; next links are followed
// verbatim. On a non-200 page the items gathered so far are returned together
// with a REQUEST_FAILED error. Cancellation returns the context error.
func (p *Paginator) Collect(ctx context.Context, req Request) ([]json.RawMessage, error) {
	logger := logging.From(ctx)

	query := url.Values{}
	for key, values := range req.Query {
		query[key] = append([]string(nil), values...)
	}
	query.Set("per_page", strconv.Itoa(p.pageSize))

	current := req
	current.Query = query

	items := []json.RawMessage{}
	for page := 1; ; page++ {
		resp, err := p.requester.Get(ctx, current)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return items, ctxErr
			}
			logger.Warn("Failed to fetch page", "location", current.Location, "page", page, "error", err)
			return items, apperrors.NewRequestFailedError(current.Location, 0, err)
		}

		if resp.StatusCode != http.StatusOK {
			logger.Warn("Unexpected page status", "location", current.Location, "page", page, "status", resp.StatusCode)
			return items, apperrors.NewRequestFailedError(current.Location, resp.StatusCode, nil)
		}

		pageItems, err := decodeItems(resp.Body, req.ItemsKey)
		if err != nil {
			logger.Warn("Failed to decode page", "location", current.Location, "page", page, "error", err)
			return items, apperrors.NewRequestFailedError(current.Location, resp.StatusCode, err)
		}
		items = append(items, pageItems...)

		next := ParseNextLink(resp.Header.Get("Link"))
		if next == "" || next == current.Location {
			logger.Debug("Collected pages", "location", req.Location, "pages", page, "items", len(items))
			return items, nil
		}

		current = Request{
			Location: next,
			Headers:  req.Headers,
			ItemsKey: req.ItemsKey,
		}
	}
}

// decodeItems reads a page body as a JSON array, or as the array stored
// under key when the collection is wrapped in an object
func decodeItems(body []byte, key string) ([]json.RawMessage, error) {
	var items []json.RawMessage
	if key == "" {
		if err := json.Unmarshal(body, &items); err != nil {
			return nil, err
		}
		return items, nil
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(body, &wrapper); err != nil {
		return nil, err
	}
	raw, ok := wrapper[key]
	if !ok {
		return nil, nil
	}
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}
