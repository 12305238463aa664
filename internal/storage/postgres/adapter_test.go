package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
)

func TestPostgresStorage(t *testing.T) {
	connStr := os.Getenv("TEST_POSTGRES_URL")
	if connStr == "" {
		t.Skip("TEST_POSTGRES_URL is not set")
	}

	s, err := NewPostgresStorage(connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx := context.Background()
	repo := "rocket-" + uuid.NewString()
	collectedAt := time.Now().UTC().Truncate(time.Microsecond)

	snap := domain.NewSnapshot()
	snap.Commits = []domain.Commit{{SHA: "abc", Message: "first"}}
	run := &domain.SnapshotRun{
		ID:          uuid.NewString(),
		Org:         "acme",
		Repo:        repo,
		CollectedAt: collectedAt,
		Sections: []domain.SectionReport{
			{Name: domain.SectionCommits, Status: domain.SectionStatusComplete, Items: 1},
		},
		Snapshot: snap,
	}
	require.NoError(t, s.SaveSnapshot(ctx, run))

	got, err := s.GetLatestSnapshot(ctx, "acme", repo)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.True(t, collectedAt.Equal(got.CollectedAt))
	assert.Equal(t, run.Sections, got.Sections)
	assert.Equal(t, snap.Commits, got.Snapshot.Commits)

	runs, err := s.ListSnapshots(ctx, "acme", repo, 5)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Nil(t, runs[0].Snapshot)

	_, err = s.GetSnapshot(ctx, uuid.NewString())
	assert.True(t, apperrors.IsNotFound(err))
}
