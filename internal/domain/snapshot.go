package domain

// Snapshot is the persisted document read by the reporting step.
// Field order is the document's key order.
type Snapshot struct {
	OrganizationProfile *OrganizationProfile `json:"organization_profile,omitempty"`
	OrganizationMembers []Member             `json:"organization_members"`
	OrganizationRepos   []Repository         `json:"organization_repos"`
	Branches            []Branch             `json:"branches"`
	Commits             []Commit             `json:"commits"`
	Issues              []Issue              `json:"issues"`
	PullRequests        []PullRequest        `json:"pull_requests"`
	Workflows           []Workflow           `json:"workflows"`
	Discussions         []Discussion         `json:"discussions"`
	Projects            []Project            `json:"projects"`
	RepositoryMembers   []RepositoryMember   `json:"repository_members"`
}

// NewSnapshot returns a snapshot with every array section empty rather than nil
func NewSnapshot() *Snapshot {
	return &Snapshot{
		OrganizationMembers: []Member{},
		OrganizationRepos:   []Repository{},
		Branches:            []Branch{},
		Commits:             []Commit{},
		Issues:              []Issue{},
		PullRequests:        []PullRequest{},
		Workflows:           []Workflow{},
		Discussions:         []Discussion{},
		Projects:            []Project{},
		RepositoryMembers:   []RepositoryMember{},
	}
}

// Normalize replaces nil sections with empty ones so they serialize as []
func (s *Snapshot) Normalize() {
	if s.OrganizationMembers == nil {
		s.OrganizationMembers = []Member{}
	}
	if s.OrganizationRepos == nil {
		s.OrganizationRepos = []Repository{}
	}
	if s.Branches == nil {
		s.Branches = []Branch{}
	}
	if s.Commits == nil {
		s.Commits = []Commit{}
	}
	if s.Issues == nil {
		s.Issues = []Issue{}
	}
	if s.PullRequests == nil {
		s.PullRequests = []PullRequest{}
	}
	if s.Workflows == nil {
		s.Workflows = []Workflow{}
	}
	if s.Discussions == nil {
		s.Discussions = []Discussion{}
	}
	if s.Projects == nil {
		s.Projects = []Project{}
	}
	if s.RepositoryMembers == nil {
		s.RepositoryMembers = []RepositoryMember{}
	}
}
