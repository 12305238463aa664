package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// discussion is the REST shape of a repository discussion; go-github only
// models team discussions.
type discussion struct {
	Number    int               `json:"number"`
	Title     string            `json:"title"`
	State     string            `json:"state"`
	CreatedAt *github.Timestamp `json:"created_at"`
	User      *github.User      `json:"user"`
	Comments  int               `json:"comments"`
}

// Discussions projects repository discussion records
func Discussions(raws []json.RawMessage) ([]domain.Discussion, error) {
	return normalizeAll("discussion", raws, func(raw json.RawMessage) (domain.Discussion, bool, error) {
		var d discussion
		if err := json.Unmarshal(raw, &d); err != nil {
			return domain.Discussion{}, false, err
		}
		return domain.Discussion{
			Number:    d.Number,
			Title:     d.Title,
			State:     d.State,
			CreatedAt: timestamp(d.CreatedAt),
			User:      d.User.GetLogin(),
			Comments:  d.Comments,
		}, true, nil
	})
}
