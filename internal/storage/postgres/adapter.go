package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"

	"github.com/kurihiro0119/github-org-snapshot/internal/domain"
	apperrors "github.com/kurihiro0119/github-org-snapshot/internal/errors"
	"github.com/kurihiro0119/github-org-snapshot/internal/storage"
)

// postgresStorage implements the Storage interface for PostgreSQL
type postgresStorage struct {
	db *sql.DB
}

// NewPostgresStorage creates a new PostgreSQL storage instance
func NewPostgresStorage(connStr string) (storage.Storage, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	// Test connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &postgresStorage{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

// Migrate runs database migrations. The document is kept as TEXT so its key
// order survives the round trip.
func (s *postgresStorage) Migrate(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshot_runs (
		id TEXT PRIMARY KEY,
		org TEXT NOT NULL,
		repo TEXT NOT NULL,
		authenticated BOOLEAN NOT NULL,
		collected_at TIMESTAMPTZ NOT NULL,
		document TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_snapshot_runs_org_repo ON snapshot_runs(org, repo, collected_at DESC);

	CREATE TABLE IF NOT EXISTS snapshot_sections (
		run_id TEXT NOT NULL REFERENCES snapshot_runs(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		status TEXT NOT NULL,
		items INTEGER NOT NULL,
		error TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (run_id, name)
	);
	`

	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// SaveSnapshot saves a run with its section reports in one transaction
func (s *postgresStorage) SaveSnapshot(ctx context.Context, run *domain.SnapshotRun) error {
	if run.Snapshot == nil {
		return apperrors.NewBadRequestError("snapshot run has no document")
	}
	document, err := storage.MarshalDocument(run.Snapshot)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	query := `
		INSERT INTO snapshot_runs (id, org, repo, authenticated, collected_at, document)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			org = EXCLUDED.org,
			repo = EXCLUDED.repo,
			authenticated = EXCLUDED.authenticated,
			collected_at = EXCLUDED.collected_at,
			document = EXCLUDED.document
	`
	_, err = tx.ExecContext(ctx, query, run.ID, run.Org, run.Repo, run.Authenticated, run.CollectedAt.UTC(), string(document))
	if err != nil {
		return fmt.Errorf("failed to save snapshot run: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM snapshot_sections WHERE run_id = $1`, run.ID); err != nil {
		return err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO snapshot_sections (run_id, position, name, status, items, error)
		VALUES ($1, $2, $3, $4, $5, $6)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, section := range run.Sections {
		_, err = stmt.ExecContext(ctx, run.ID, i, section.Name, string(section.Status), section.Items, section.Error)
		if err != nil {
			return fmt.Errorf("failed to save section %s: %w", section.Name, err)
		}
	}

	return tx.Commit()
}

// GetLatestSnapshot retrieves the most recent run for an org/repo pair
func (s *postgresStorage) GetLatestSnapshot(ctx context.Context, org, repo string) (*domain.SnapshotRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, org, repo, authenticated, collected_at, document
		FROM snapshot_runs
		WHERE org = $1 AND repo = $2
		ORDER BY collected_at DESC
		LIMIT 1
	`, org, repo)

	run, err := s.scanRun(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("snapshot for %s/%s", org, repo))
	}
	return run, err
}

// GetSnapshot retrieves a run by id
func (s *postgresStorage) GetSnapshot(ctx context.Context, id string) (*domain.SnapshotRun, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, org, repo, authenticated, collected_at, document
		FROM snapshot_runs
		WHERE id = $1
	`, id)

	run, err := s.scanRun(ctx, row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("snapshot %s", id))
	}
	return run, err
}

// ListSnapshots lists the newest runs for an org/repo pair
func (s *postgresStorage) ListSnapshots(ctx context.Context, org, repo string, limit int) ([]*domain.SnapshotRun, error) {
	if limit <= 0 {
		limit = storage.DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, org, repo, authenticated, collected_at
		FROM snapshot_runs
		WHERE org = $1 AND repo = $2
		ORDER BY collected_at DESC
		LIMIT $3
	`, org, repo, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	runs := []*domain.SnapshotRun{}
	for rows.Next() {
		run := &domain.SnapshotRun{}
		if err := rows.Scan(&run.ID, &run.Org, &run.Repo, &run.Authenticated, &run.CollectedAt); err != nil {
			return nil, err
		}
		run.CollectedAt = run.CollectedAt.UTC()
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if run.Sections, err = s.getSections(ctx, run.ID); err != nil {
			return nil, err
		}
	}
	return runs, nil
}

func (s *postgresStorage) scanRun(ctx context.Context, row *sql.Row) (*domain.SnapshotRun, error) {
	run := &domain.SnapshotRun{}
	var document string
	if err := row.Scan(&run.ID, &run.Org, &run.Repo, &run.Authenticated, &run.CollectedAt, &document); err != nil {
		return nil, err
	}
	run.CollectedAt = run.CollectedAt.UTC()

	snap, err := storage.UnmarshalDocument([]byte(document))
	if err != nil {
		return nil, err
	}
	run.Snapshot = snap

	if run.Sections, err = s.getSections(ctx, run.ID); err != nil {
		return nil, err
	}
	return run, nil
}

func (s *postgresStorage) getSections(ctx context.Context, runID string) ([]domain.SectionReport, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, status, items, error
		FROM snapshot_sections
		WHERE run_id = $1
		ORDER BY position
	`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sections := []domain.SectionReport{}
	for rows.Next() {
		var section domain.SectionReport
		var status string
		if err := rows.Scan(&section.Name, &status, &section.Items, &section.Error); err != nil {
			return nil, err
		}
		section.Status = domain.SectionStatus(status)
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

// Close closes the database connection
func (s *postgresStorage) Close() error {
	return s.db.Close()
}
