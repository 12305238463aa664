package domain

import "time"

// Section names, in document order
const (
	SectionOrganizationProfile = "organization_profile"
	SectionOrganizationMembers = "organization_members"
	SectionOrganizationRepos   = "organization_repos"
	SectionBranches            = "branches"
	SectionCommits             = "commits"
	SectionIssues              = "issues"
	SectionPullRequests        = "pull_requests"
	SectionWorkflows           = "workflows"
	SectionDiscussions         = "discussions"
	SectionProjects            = "projects"
	SectionRepositoryMembers   = "repository_members"
)

// SectionNames lists every section in document order
var SectionNames = []string{
	SectionOrganizationProfile,
	SectionOrganizationMembers,
	SectionOrganizationRepos,
	SectionBranches,
	SectionCommits,
	SectionIssues,
	SectionPullRequests,
	SectionWorkflows,
	SectionDiscussions,
	SectionProjects,
	SectionRepositoryMembers,
}

// SectionStatus describes how a section was collected
type SectionStatus string

const (
	SectionStatusComplete SectionStatus = "complete"
	SectionStatusPartial  SectionStatus = "partial" // collection stopped early, items are a prefix
	SectionStatusSkipped  SectionStatus = "skipped" // gated behind a credential the run did not have
	SectionStatusFailed   SectionStatus = "failed"  // nothing could be collected
)

// SectionReport is the outcome of collecting one section
type SectionReport struct {
	Name   string        `json:"name"`
	Status SectionStatus `json:"status"`
	Items  int           `json:"items"`
	Error  string        `json:"error,omitempty"`
}

// SnapshotRun is one collection run for an organization/repository pair
type SnapshotRun struct {
	ID            string          `json:"id"`
	Org           string          `json:"org"`
	Repo          string          `json:"repo"`
	Authenticated bool            `json:"authenticated"`
	CollectedAt   time.Time       `json:"collected_at"`
	Sections      []SectionReport `json:"sections"`
	Snapshot      *Snapshot       `json:"-"`
}

// Section returns the report for the named section
func (r *SnapshotRun) Section(name string) (SectionReport, bool) {
	for _, s := range r.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return SectionReport{}, false
}
