package domain

import "time"

// BranchStatus is the recency classification of a branch
type BranchStatus string

const (
	BranchStatusActive   BranchStatus = "Active"
	BranchStatusInactive BranchStatus = "Inactive"
)

// BranchActivityThreshold is the maximum tip commit age of an Active branch
const BranchActivityThreshold = 90 * 24 * time.Hour

// RepositoryMember is the per-contributor aggregate of the repository_members section
type RepositoryMember struct {
	Login        string `json:"login"`
	TotalCommits int    `json:"total_commits"`
	LinesWritten int    `json:"lines_written"`
	LinesDeleted int    `json:"lines_deleted"`
}
