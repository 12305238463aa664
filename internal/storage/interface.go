package storage

import (
	"context"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
)

// DefaultListLimit bounds ListSnapshots when no limit is given
const DefaultListLimit = 20

// Storage is the abstract interface for the persistence layer
type Storage interface {
	// SaveSnapshot persists a run, its section reports and its document
	SaveSnapshot(ctx context.Context, run *domain.SnapshotRun) error

	// GetLatestSnapshot returns the most recent run for a pair, document included
	GetLatestSnapshot(ctx context.Context, org, repo string) (*domain.SnapshotRun, error)

	// GetSnapshot returns a run by id, document included
	GetSnapshot(ctx context.Context, id string) (*domain.SnapshotRun, error)

	// ListSnapshots returns the newest runs for a pair, without documents
	ListSnapshots(ctx context.Context, org, repo string, limit int) ([]*domain.SnapshotRun, error)

	// Migration
	Migrate(ctx context.Context) error

	// Connection management
	Close() error
}
