// Package normalizer projects raw GitHub API records into the snapshot schema.
package normalizer

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/go-github/v55/github"
)

// DecodeError reports records that could not be decoded. The records that
// did decode are still returned alongside it.
type DecodeError struct {
	Kind    string
	Skipped int
	First   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("skipped %d undecodable %s record(s): %v", e.Skipped, e.Kind, e.First)
}

func (e *DecodeError) Unwrap() error {
	return e.First
}

// normalizeAll decodes every record with fn, keeping order. fn reports
// keep=false for records that belong to another section.
func normalizeAll[T any](kind string, raws []json.RawMessage, fn func(json.RawMessage) (T, bool, error)) ([]T, error) {
	out := make([]T, 0, len(raws))
	var decodeErr *DecodeError
	for _, raw := range raws {
		item, keep, err := fn(raw)
		if err != nil {
			if decodeErr == nil {
				decodeErr = &DecodeError{Kind: kind, First: err}
			}
			decodeErr.Skipped++
			continue
		}
		if keep {
			out = append(out, item)
		}
	}
	if decodeErr != nil {
		return out, decodeErr
	}
	return out, nil
}

func timestamp(ts *github.Timestamp) *time.Time {
	if ts == nil || ts.IsZero() {
		return nil
	}
	t := ts.Time
	return &t
}

func logins(users []*github.User) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		if login := u.GetLogin(); login != "" {
			out = append(out, login)
		}
	}
	return out
}

func labelNames(labels []*github.Label) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		out = append(out, l.GetName())
	}
	return out
}

// assigneesOrAuthor falls back to the author when nobody is assigned
func assigneesOrAuthor(assignees []*github.User, author *github.User) []string {
	out := logins(assignees)
	if len(out) == 0 && author.GetLogin() != "" {
		out = append(out, author.GetLogin())
	}
	return out
}
