package aggregator

import (
	"time"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// ClassifyBranch reports Active when the tip commit is at most 90 days old.
// Exactly 90 days counts as Active.
func ClassifyBranch(latestCommit, now time.Time) domain.BranchStatus {
	if now.UTC().Sub(latestCommit.UTC()) <= domain.BranchActivityThreshold {
		return domain.BranchStatusActive
	}
	return domain.BranchStatusInactive
}
