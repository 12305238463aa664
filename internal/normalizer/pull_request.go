package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// PullRequests projects pull request records
func PullRequests(raws []json.RawMessage) ([]domain.PullRequest, error) {
	return normalizeAll("pull request", raws, func(raw json.RawMessage) (domain.PullRequest, bool, error) {
		var pr github.PullRequest
		if err := json.Unmarshal(raw, &pr); err != nil {
			return domain.PullRequest{}, false, err
		}
		return domain.PullRequest{
			Number:    pr.GetNumber(),
			Title:     pr.GetTitle(),
			User:      pr.GetUser().GetLogin(),
			Assignees: assigneesOrAuthor(pr.Assignees, pr.User),
			Reviewers: logins(pr.RequestedReviewers),
			Labels:    labelNames(pr.Labels),
			Status:    pr.GetState(),
			Base:      pr.GetBase().GetRef(),
			CreatedAt: timestamp(pr.CreatedAt),
			ClosedAt:  timestamp(pr.ClosedAt),
			MergedAt:  timestamp(pr.MergedAt),
		}, true, nil
	})
}
