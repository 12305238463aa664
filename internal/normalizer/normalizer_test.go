package normalizer

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

func raws(t *testing.T, body string) []json.RawMessage {
	t.Helper()
	var out []json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func TestOrganization(t *testing.T) {
	profile, err := Organization(json.RawMessage(`{
		"login": "acme",
		"name": "Acme Inc",
		"description": null,
		"public_repos": 12,
		"public_members_url": "https://api.github.com/orgs/acme/public_members{/member}"
	}`))
	require.NoError(t, err)
	assert.Equal(t, "acme", profile.Login)
	require.NotNil(t, profile.Name)
	assert.Equal(t, "Acme Inc", *profile.Name)
	assert.Nil(t, profile.Description)
	assert.Equal(t, 12, *profile.PublicRepos)
	assert.Contains(t, *profile.PublicMembers, "public_members")

	_, err = Organization(json.RawMessage(`[]`))
	assert.Error(t, err)
}

func TestMembers(t *testing.T) {
	members, err := Members(raws(t, `[{"login":"a","id":1,"avatar_url":"https://x/a"},{"login":"b","id":2}]`))
	require.NoError(t, err)
	assert.Equal(t, []domain.Member{
		{Login: "a", ID: 1, AvatarURL: "https://x/a"},
		{Login: "b", ID: 2},
	}, members)
}

func TestRepositories(t *testing.T) {
	repos, err := Repositories(raws(t, `[
		{"name":"rocket","full_name":"acme/rocket","license":{"name":"MIT License"},"topics":["go"],"stargazers_count":5,"created_at":"2020-01-02T03:04:05Z"},
		{"name":"bare","full_name":"acme/bare","license":null}
	]`))
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "MIT License", *repos[0].License)
	assert.Equal(t, []string{"go"}, repos[0].Topics)
	assert.Equal(t, 5, repos[0].StargazersCount)
	assert.Equal(t, time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC), repos[0].CreatedAt.UTC())

	assert.Nil(t, repos[1].License)
	assert.Equal(t, []string{}, repos[1].Topics)
	assert.Nil(t, repos[1].PushedAt)
}

func TestBranchNames(t *testing.T) {
	names, err := BranchNames(raws(t, `[{"name":"main"},{"name":"HEAD"},{"name":"feature/x"}]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"main", "feature/x"}, names)
}

func TestBranch(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	testCases := []struct {
		name         string
		body         string
		expectStatus domain.BranchStatus
		expectDate   string
		expectErr    error
	}{
		{
			name:         "recent tip is active",
			body:         `{"name":"main","commit":{"commit":{"author":{"name":"Ada","date":"2024-05-30T12:00:00Z"},"message":"fix"}}}`,
			expectStatus: domain.BranchStatusActive,
			expectDate:   "2024-05-30 12:00:00",
		},
		{
			name:         "offset dates are rendered in UTC",
			body:         `{"name":"old","commit":{"commit":{"author":{"name":"Bob","date":"2023-01-01T09:00:00+09:00"},"message":"init"}}}`,
			expectStatus: domain.BranchStatusInactive,
			expectDate:   "2023-01-01 00:00:00",
		},
		{
			name:      "missing author",
			body:      `{"name":"orphan","commit":{"commit":{"message":"x"}}}`,
			expectErr: ErrNoTipCommitDate,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			branch, err := Branch(json.RawMessage(tc.body), now)
			if tc.expectErr != nil {
				assert.ErrorIs(t, err, tc.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expectStatus, branch.CurrentStatus)
			assert.Equal(t, tc.expectDate, branch.CommitDate)
			assert.NotNil(t, branch.Author)
			assert.Zero(t, branch.MergeCount)
		})
	}
}

func TestCommits(t *testing.T) {
	commits, err := Commits(raws(t, `[
		{"sha":"abc","commit":{"author":{"name":"Ada","date":"2024-01-01T00:00:00Z"},"message":"one"}},
		{"sha":"def","commit":{"author":null,"message":"two"}}
	]`))
	require.NoError(t, err)
	require.Len(t, commits, 2)

	assert.Equal(t, "Ada", *commits[0].Author)
	assert.NotNil(t, commits[0].Date)
	assert.Nil(t, commits[1].Author)
	assert.Nil(t, commits[1].Date)
	assert.Equal(t, "two", commits[1].Message)
}

func TestIssues(t *testing.T) {
	issues, err := Issues(raws(t, `[
		{"number":1,"title":"bug","user":{"login":"reporter"},"assignees":[],"labels":[{"name":"bug"}],"milestone":{"title":"v1"},"state":"open"},
		{"number":2,"title":"pr","user":{"login":"dev"},"pull_request":{"url":"https://x/pulls/2"}},
		{"number":3,"title":"assigned","user":{"login":"reporter"},"assignees":[{"login":"fixer"}],"state":"closed","closed_at":"2024-02-01T00:00:00Z"},
		{"number":4,"title":"ghost","user":null}
	]`))
	require.NoError(t, err)
	require.Len(t, issues, 3)

	assert.Equal(t, []string{"reporter"}, issues[0].Assignees)
	assert.Equal(t, []string{"bug"}, issues[0].Labels)
	assert.Equal(t, "v1", *issues[0].Milestone)
	assert.Nil(t, issues[0].ClosedAt)

	assert.Equal(t, 3, issues[1].Number)
	assert.Equal(t, []string{"fixer"}, issues[1].Assignees)
	assert.Nil(t, issues[1].Milestone)
	assert.NotNil(t, issues[1].ClosedAt)

	assert.Equal(t, []string{}, issues[2].Assignees)
	assert.Equal(t, []string{}, issues[2].Labels)
}

func TestPullRequests(t *testing.T) {
	pulls, err := PullRequests(raws(t, `[
		{"number":7,"title":"feat","user":{"login":"dev"},"requested_reviewers":[{"login":"rev"}],"state":"closed","base":{"ref":"main"},"merged_at":"2024-03-01T00:00:00Z"},
		{"number":8,"title":"wip","user":{"login":"dev"},"assignees":[{"login":"lead"}],"state":"open","base":{"ref":"develop"}}
	]`))
	require.NoError(t, err)
	require.Len(t, pulls, 2)

	assert.Equal(t, []string{"dev"}, pulls[0].Assignees)
	assert.Equal(t, []string{"rev"}, pulls[0].Reviewers)
	assert.Equal(t, "main", pulls[0].Base)
	assert.NotNil(t, pulls[0].MergedAt)

	assert.Equal(t, []string{"lead"}, pulls[1].Assignees)
	assert.Equal(t, []string{}, pulls[1].Reviewers)
	assert.Nil(t, pulls[1].MergedAt)
}

func TestWorkflowsDiscussionsProjects(t *testing.T) {
	workflows, err := Workflows(raws(t, `[{"id":11,"name":"CI","state":"active","html_url":"https://x/ci","created_at":"2024-01-01T00:00:00Z"}]`))
	require.NoError(t, err)
	assert.Equal(t, int64(11), workflows[0].ID)
	assert.Equal(t, "CI", workflows[0].Name)
	assert.Nil(t, workflows[0].UpdatedAt)

	discussions, err := Discussions(raws(t, `[{"number":3,"title":"Q","state":"open","user":{"login":"asker"},"comments":4}]`))
	require.NoError(t, err)
	assert.Equal(t, domain.Discussion{Number: 3, Title: "Q", State: "open", User: "asker", Comments: 4}, discussions[0])

	projects, err := Projects(raws(t, `[{"id":5,"name":"Roadmap","body":null,"state":"open"}]`))
	require.NoError(t, err)
	assert.Equal(t, int64(5), projects[0].ID)
	assert.Nil(t, projects[0].Body)
}

func TestRepositoryMembers(t *testing.T) {
	members, err := RepositoryMembers(raws(t, `[{"author":{"login":"octocat"},"total":12,"weeks":[{"w":1,"a":10,"d":2,"c":7},{"w":2,"a":5,"d":1,"c":3}]}]`))
	require.NoError(t, err)
	assert.Equal(t, []domain.RepositoryMember{
		{Login: "octocat", TotalCommits: 12, LinesWritten: 15, LinesDeleted: 3},
	}, members)
}

func TestNormalize_KeepsDecodablePrefix(t *testing.T) {
	members, err := Members([]json.RawMessage{
		json.RawMessage(`{"login":"a","id":1}`),
		json.RawMessage(`"not an object"`),
		json.RawMessage(`{"login":"c","id":3}`),
	})
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, 1, decodeErr.Skipped)
	assert.Equal(t, "member", decodeErr.Kind)
	assert.Len(t, members, 2)
}

func TestNormalize_EmptyInputIsEmptySlice(t *testing.T) {
	issues, err := Issues(nil)
	require.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues)
}
