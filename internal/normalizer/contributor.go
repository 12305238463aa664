package normalizer

import (
	"encoding/json"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/aggregator"
	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// RepositoryMembers decodes contributor statistics and aggregates them
func RepositoryMembers(raws []json.RawMessage) ([]domain.RepositoryMember, error) {
	stats, err := normalizeAll("contributor", raws, func(raw json.RawMessage) (*github.ContributorStats, bool, error) {
		var s github.ContributorStats
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, false, err
		}
		return &s, true, nil
	})
	return aggregator.AggregateContributors(stats), err
}
