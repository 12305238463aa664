package aggregator

import (
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

const (
	TopContributorsLimit = 5
	TopLabelsLimit       = 10
)

// LabelCount is the number of issues carrying a label
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DaySummary summarizes a distribution of whole-day durations
type DaySummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Insights are the reporting figures derived from one snapshot
type Insights struct {
	MemberActivity      []domain.RepositoryMember `json:"member_activity"`
	TopContributors     []domain.RepositoryMember `json:"top_contributors"`
	IssueResolutionDays DaySummary                `json:"issue_resolution_days"`
	TopLabels           []LabelCount              `json:"top_labels"`
	MergeDays           DaySummary                `json:"merge_days"`
	MergedPulls         int                       `json:"merged_pulls"`
	ClosedUnmerged      int                       `json:"closed_unmerged_pulls"`
	ActiveBranches      int                       `json:"active_branches"`
	InactiveBranches    int                       `json:"inactive_branches"`
	BranchMerges        DaySummary                `json:"branch_merges"`
}

// ApprovalRate is the share of closed pull requests that were merged
func (i *Insights) ApprovalRate() (float64, bool) {
	total := i.MergedPulls + i.ClosedUnmerged
	if total == 0 {
		return 0, false
	}
	return float64(i.MergedPulls) / float64(total), true
}

// BuildInsights derives the reporting figures from a snapshot
func BuildInsights(snap *domain.Snapshot) *Insights {
	insights := &Insights{
		MemberActivity:      snap.RepositoryMembers,
		TopContributors:     TopContributors(snap.RepositoryMembers, TopContributorsLimit),
		IssueResolutionDays: summarizeDays(issueResolutionDays(snap.Issues)),
		TopLabels:           TopLabels(snap.Issues, TopLabelsLimit),
		MergeDays:           summarizeDays(mergeDays(snap.PullRequests)),
	}

	for _, pr := range snap.PullRequests {
		if pr.Status != "closed" {
			continue
		}
		if pr.MergedAt != nil {
			insights.MergedPulls++
		} else {
			insights.ClosedUnmerged++
		}
	}

	merges := make([]float64, 0, len(snap.Branches))
	for _, b := range snap.Branches {
		if b.CurrentStatus == domain.BranchStatusActive {
			insights.ActiveBranches++
		} else {
			insights.InactiveBranches++
		}
		merges = append(merges, float64(b.MergeCount))
	}
	insights.BranchMerges = summarizeDays(merges)

	return insights
}

// TopContributors returns up to n members with the most commits. Ties keep
// their input order.
func TopContributors(members []domain.RepositoryMember, n int) []domain.RepositoryMember {
	sorted := append([]domain.RepositoryMember{}, members...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalCommits > sorted[j].TotalCommits
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}

// TopLabels counts issue labels and returns the n most used. Ties keep the
// order in which labels were first seen.
func TopLabels(issues []domain.Issue, n int) []LabelCount {
	counts := []LabelCount{}
	index := map[string]int{}
	for _, issue := range issues {
		for _, label := range issue.Labels {
			if i, ok := index[label]; ok {
				counts[i].Count++
				continue
			}
			index[label] = len(counts)
			counts = append(counts, LabelCount{Label: label, Count: 1})
		}
	}
	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	if len(counts) > n {
		counts = counts[:n]
	}
	return counts
}

func issueResolutionDays(issues []domain.Issue) []float64 {
	days := []float64{}
	for _, issue := range issues {
		if issue.CreatedAt != nil && issue.ClosedAt != nil {
			days = append(days, wholeDays(*issue.CreatedAt, *issue.ClosedAt))
		}
	}
	return days
}

func mergeDays(pulls []domain.PullRequest) []float64 {
	days := []float64{}
	for _, pr := range pulls {
		if pr.CreatedAt != nil && pr.MergedAt != nil {
			days = append(days, wholeDays(*pr.CreatedAt, *pr.MergedAt))
		}
	}
	return days
}

// wholeDays counts complete days between from and to
func wholeDays(from, to time.Time) float64 {
	return float64(int(to.Sub(from) / (24 * time.Hour)))
}

func summarizeDays(days []float64) DaySummary {
	summary := DaySummary{Count: len(days)}
	if len(days) == 0 {
		return summary
	}
	data := stats.Float64Data(days)
	if mean, err := data.Mean(); err == nil {
		summary.Mean, _ = stats.Round(mean, 2)
	}
	if median, err := data.Median(); err == nil {
		summary.Median = median
	}
	if maxDays, err := data.Max(); err == nil {
		summary.Max = maxDays
	}
	return summary
}
