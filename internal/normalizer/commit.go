package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// Commits projects repository commit records. Author and date come from the
// git author and are null when the commit carries none.
func Commits(raws []json.RawMessage) ([]domain.Commit, error) {
	return normalizeAll("commit", raws, func(raw json.RawMessage) (domain.Commit, bool, error) {
		var rc github.RepositoryCommit
		if err := json.Unmarshal(raw, &rc); err != nil {
			return domain.Commit{}, false, err
		}

		commit := rc.GetCommit()
		out := domain.Commit{
			SHA:     rc.GetSHA(),
			Message: commit.GetMessage(),
		}
		if author := commit.GetAuthor(); author != nil {
			out.Author = author.Name
			out.Date = timestamp(author.Date)
		}
		return out, true, nil
	})
}
