package file

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

func TestWriteDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "stats.json")

	snap := domain.NewSnapshot()
	message := "use <b>bold</b> & more"
	snap.Branches = append(snap.Branches, domain.Branch{
		Name:          "main",
		CurrentStatus: domain.BranchStatusActive,
		CommitDate:    "2024-05-20 10:00:00",
		CommitMessage: message,
	})
	require.NoError(t, WriteDocument(path, snap))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)

	assert.Contains(t, text, "\n    \"organization_members\": []")
	assert.Contains(t, text, message)
	assert.NotContains(t, text, `\u003c`)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, strings.HasSuffix(entries[0].Name(), ".tmp"))

	read, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Equal(t, snap.Branches, read.Branches)
	assert.Equal(t, []domain.Commit{}, read.Commits)
}

func TestWriteDocument_Overwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteDocument(path, domain.NewSnapshot()))

	read, err := ReadDocument(path)
	require.NoError(t, err)
	assert.Empty(t, read.Branches)
}

func TestReadDocument_Missing(t *testing.T) {
	_, err := ReadDocument(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
