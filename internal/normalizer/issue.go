package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// Issues projects issue records. Records carrying a pull_request
// back-reference are dropped.
func Issues(raws []json.RawMessage) ([]domain.Issue, error) {
	return normalizeAll("issue", raws, func(raw json.RawMessage) (domain.Issue, bool, error) {
		var i github.Issue
		if err := json.Unmarshal(raw, &i); err != nil {
			return domain.Issue{}, false, err
		}
		if i.IsPullRequest() {
			return domain.Issue{}, false, nil
		}

		var milestone *string
		if i.Milestone != nil {
			title := i.Milestone.GetTitle()
			milestone = &title
		}

		return domain.Issue{
			Number:    i.GetNumber(),
			Title:     i.GetTitle(),
			User:      i.GetUser().GetLogin(),
			Assignees: assigneesOrAuthor(i.Assignees, i.User),
			Labels:    labelNames(i.Labels),
			Milestone: milestone,
			Status:    i.GetState(),
			CreatedAt: timestamp(i.CreatedAt),
			ClosedAt:  timestamp(i.ClosedAt),
		}, true, nil
	})
}
