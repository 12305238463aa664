package normalizer

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/go-github/v55/github"

	"github.com/kurihiro0119/github-org-snapshot/internal/aggregator"
	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// CommitDateLayout is the layout of Branch.CommitDate, always in UTC
const CommitDateLayout = "2006-01-02 15:04:05"

// HeadBranch is the symbolic ref excluded from the branches section
const HeadBranch = "HEAD"

// ErrNoTipCommitDate is returned for branch details without a dated tip commit
var ErrNoTipCommitDate = errors.New("branch tip commit has no author date")

// BranchNames returns the names of listed branches, without HEAD
func BranchNames(raws []json.RawMessage) ([]string, error) {
	return normalizeAll("branch", raws, func(raw json.RawMessage) (string, bool, error) {
		var b github.Branch
		if err := json.Unmarshal(raw, &b); err != nil {
			return "", false, err
		}
		name := b.GetName()
		return name, name != "" && name != HeadBranch, nil
	})
}

// Branch projects a branch detail record and classifies it against now
func Branch(raw json.RawMessage, now time.Time) (domain.Branch, error) {
	var b github.Branch
	if err := json.Unmarshal(raw, &b); err != nil {
		return domain.Branch{}, err
	}

	commit := b.GetCommit().GetCommit()
	author := commit.GetAuthor()
	if author == nil || author.Date == nil || author.Date.IsZero() {
		return domain.Branch{}, ErrNoTipCommitDate
	}
	date := author.Date.Time

	return domain.Branch{
		Name:          b.GetName(),
		Author:        author.Name,
		CurrentStatus: aggregator.ClassifyBranch(date, now),
		CommitDate:    date.UTC().Format(CommitDateLayout),
		CommitMessage: commit.GetMessage(),
	}, nil
}
