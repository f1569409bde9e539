package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/marketlink/internal/domain"
)

// ingestionRepo implements domain.IngestionRepository for PostgreSQL.
type ingestionRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewIngestionRepo constructs a PostgreSQL-backed domain.IngestionRepository.
func NewIngestionRepo(db *sqlx.DB, timeout time.Duration) domain.IngestionRepository {
	return &ingestionRepo{db: db, timeout: timeout}
}

func (r *ingestionRepo) StartRun(ctx context.Context, venue domain.Venue) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var runID int64
	err := r.db.GetContext(ctx, &runID, `
		INSERT INTO ingestion_runs (venue, started_at) VALUES ($1, now()) RETURNING id`,
		string(venue))
	if err != nil {
		return 0, fmt.Errorf("starting ingestion run for %s: %w", venue, err)
	}
	return runID, nil
}

func (r *ingestionRepo) FinishRun(ctx context.Context, runID int64, cursor string, errKind *domain.IngestionErrorKind) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var kind *string
	if errKind != nil {
		s := string(*errKind)
		kind = &s
	}

	_, err := r.db.ExecContext(ctx, `
		UPDATE ingestion_runs SET finished_at = now(), cursor = $1, error_kind = $2 WHERE id = $3`,
		cursor, kind, runID)
	if err != nil {
		return fmt.Errorf("finishing ingestion run %d: %w", runID, err)
	}
	return nil
}

func (r *ingestionRepo) GetCursor(ctx context.Context, venue domain.Venue) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var cursor string
	err := r.db.GetContext(ctx, &cursor, `
		SELECT cursor FROM ingestion_runs
		WHERE venue = $1 AND cursor IS NOT NULL AND error_kind IS NULL
		ORDER BY finished_at DESC LIMIT 1`, string(venue))
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("fetching cursor for %s: %w", venue, err)
	}
	return cursor, nil
}
