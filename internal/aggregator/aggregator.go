package aggregator

import (
	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// AggregateContributor reduces a contributor's weekly buckets into line totals.
// TotalCommits comes from the reported total, not from the buckets.
func AggregateContributor(stat *github.ContributorStats) domain.RepositoryMember {
	member := domain.RepositoryMember{
		Login:        stat.GetAuthor().GetLogin(),
		TotalCommits: stat.GetTotal(),
	}
	for _, week := range stat.Weeks {
		member.LinesWritten += week.GetAdditions()
		member.LinesDeleted += week.GetDeletions()
	}
	return member
}

// AggregateContributors aggregates every contributor, preserving input order
func AggregateContributors(stats []*github.ContributorStats) []domain.RepositoryMember {
	members := make([]domain.RepositoryMember, 0, len(stats))
	for _, stat := range stats {
		if stat == nil {
			continue
		}
		members = append(members, AggregateContributor(stat))
	}
	return members
}

// MergeCounts counts merged pull requests per base branch
func MergeCounts(pulls []domain.PullRequest) map[string]int {
	counts := make(map[string]int)
	for _, pr := range pulls {
		if pr.MergedAt == nil || pr.Base == "" {
			continue
		}
		counts[pr.Base]++
	}
	return counts
}

// ApplyMergeCounts sets each branch's merge_count from the merged pull requests
func ApplyMergeCounts(branches []domain.Branch, pulls []domain.PullRequest) {
	counts := MergeCounts(pulls)
	for i := range branches {
		branches[i].MergeCount = counts[branches[i].Name]
	}
}
