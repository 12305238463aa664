package domain

import "time"

// Branch is a branch of the target repository with its tip commit details
type Branch struct {
	Name          string       `json:"name"`
	Author        *string      `json:"author"`
	CurrentStatus BranchStatus `json:"current_status"`
	CommitDate    string       `json:"commit_date"`
	CommitMessage string       `json:"commit_message"`
	MergeCount    int          `json:"merge_count"`
}

// Commit is a commit of the target repository
type Commit struct {
	SHA     string     `json:"sha"`
	Author  *string    `json:"author"`
	Date    *time.Time `json:"date"`
	Message string     `json:"message"`
}

// Issue is an issue of the target repository. Pull requests are never issues.
type Issue struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	User      string     `json:"user"`
	Assignees []string   `json:"assignees"`
	Labels    []string   `json:"labels"`
	Milestone *string    `json:"milestone"`
	Status    string     `json:"status"`
	CreatedAt *time.Time `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
}

// PullRequest is a pull request of the target repository
type PullRequest struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	User      string     `json:"user"`
	Assignees []string   `json:"assignees"`
	Reviewers []string   `json:"reviewers"`
	Labels    []string   `json:"labels"`
	Status    string     `json:"status"`
	Base      string     `json:"base"`
	CreatedAt *time.Time `json:"created_at"`
	ClosedAt  *time.Time `json:"closed_at"`
	MergedAt  *time.Time `json:"merged_at"`
}

// Workflow is a GitHub Actions workflow definition
type Workflow struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	State     string     `json:"state"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
	HTMLURL   string     `json:"html_url"`
}

// Discussion is a repository discussion
type Discussion struct {
	Number    int        `json:"number"`
	Title     string     `json:"title"`
	State     string     `json:"state"`
	CreatedAt *time.Time `json:"created_at"`
	User      string     `json:"user"`
	Comments  int        `json:"comments"`
}

// Project is an organization project board
type Project struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	Body      *string    `json:"body"`
	State     string     `json:"state"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}
