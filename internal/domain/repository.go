package domain

import "time"

// OrganizationProfile represents the organization_profile section
type OrganizationProfile struct {
	Login         string  `json:"login"`
	Name          *string `json:"name"`
	Description   *string `json:"description"`
	Blog          *string `json:"blog"`
	Location      *string `json:"location"`
	Email         *string `json:"email"`
	AvatarURL     *string `json:"avatar_url"`
	HTMLURL       *string `json:"html_url"`
	PublicRepos   *int    `json:"public_repos"`
	PublicMembers *string `json:"public_members"`
}

// Member represents a GitHub organization member
type Member struct {
	Login     string `json:"login"`
	ID        int64  `json:"id"`
	AvatarURL string `json:"avatar_url"`
}

// Repository represents a repository of the organization
type Repository struct {
	Name            string     `json:"name"`
	FullName        string     `json:"full_name"`
	Private         bool       `json:"private"`
	Description     *string    `json:"description"`
	HTMLURL         string     `json:"html_url"`
	Language        *string    `json:"language"`
	CreatedAt       *time.Time `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at"`
	PushedAt        *time.Time `json:"pushed_at"`
	Size            int        `json:"size"`
	StargazersCount int        `json:"stargazers_count"`
	WatchersCount   int        `json:"watchers_count"`
	ForksCount      int        `json:"forks_count"`
	OpenIssuesCount int        `json:"open_issues_count"`
	License         *string    `json:"license"`
	DefaultBranch   string     `json:"default_branch"`
	Topics          []string   `json:"topics"`
}
