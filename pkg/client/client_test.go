package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-org-snapshot/internal/api"
	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	"github.com/kurihiro0119/github-org-snapshot/internal/logging"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage/sqlite"
)

func newTestServer(t *testing.T) (*Client, *domain.SnapshotRun) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := sqlite.NewSQLiteStorage(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	snap := domain.NewSnapshot()
	snap.OrganizationProfile = &domain.OrganizationProfile{Login: "acme"}
	snap.RepositoryMembers = []domain.RepositoryMember{{Login: "octocat", TotalCommits: 12, LinesWritten: 15, LinesDeleted: 3}}
	run := &domain.SnapshotRun{
		ID:          "run-1",
		Org:         "acme",
		Repo:        "rocket",
		CollectedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Sections: []domain.SectionReport{
			{Name: domain.SectionRepositoryMembers, Status: domain.SectionStatusComplete, Items: 1},
		},
		Snapshot: snap,
	}
	require.NoError(t, store.SaveSnapshot(context.Background(), run))

	server := httptest.NewServer(api.SetupRoutes(api.NewHandler(store), logging.Discard()))
	t.Cleanup(server.Close)

	return NewClient(server.URL + "/"), run
}

func TestClient_HealthCheck(t *testing.T) {
	c, _ := newTestServer(t)
	assert.NoError(t, c.HealthCheck())
}

func TestClient_GetLatestSnapshot(t *testing.T) {
	c, run := newTestServer(t)

	snap, err := c.GetLatestSnapshot("acme", "rocket")
	require.NoError(t, err)
	assert.Equal(t, run.Snapshot.RepositoryMembers, snap.RepositoryMembers)
	assert.Equal(t, "acme", snap.OrganizationProfile.Login)
	assert.Equal(t, []domain.Branch{}, snap.Branches)
}

func TestClient_ListAndGet(t *testing.T) {
	c, run := newTestServer(t)

	runs, err := c.ListSnapshots("acme", "rocket", 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, run.Sections, runs[0].Sections)

	got, err := c.GetSnapshot("run-1")
	require.NoError(t, err)
	assert.Equal(t, "rocket", got.Repo)
	require.NotNil(t, got.Snapshot)
	assert.Len(t, got.Snapshot.RepositoryMembers, 1)
}

func TestClient_NotFound(t *testing.T) {
	c, _ := newTestServer(t)

	_, err := c.GetLatestSnapshot("acme", "ghost")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "NOT_FOUND", apiErr.Code)

	_, err = c.GetSnapshot("missing")
	require.ErrorAs(t, err, &apiErr)
}

func TestClient_UnhealthyStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"degraded"}`)
	}))
	t.Cleanup(server.Close)

	err := NewClient(server.URL).HealthCheck()
	assert.EqualError(t, err, "unhealthy status: degraded")
}
