package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/marketlink/internal/domain"
)

// linkRepo implements domain.MarketLinkRepository for PostgreSQL.
type linkRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewLinkRepo constructs a PostgreSQL-backed domain.MarketLinkRepository.
func NewLinkRepo(db *sqlx.DB, timeout time.Duration) domain.MarketLinkRepository {
	return &linkRepo{db: db, timeout: timeout}
}

type linkRow struct {
	ID            int64     `db:"id"`
	LeftMarketID  int64     `db:"left_market_id"`
	RightMarketID int64     `db:"right_market_id"`
	LeftVenue     string    `db:"left_venue"`
	RightVenue    string    `db:"right_venue"`
	Topic         string    `db:"topic"`
	Score         float64   `db:"score"`
	Reason        string    `db:"reason"`
	AlgoVersion   string    `db:"algo_version"`
	Status        string    `db:"status"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func (r linkRow) toDomain() domain.MarketLink {
	return domain.MarketLink{
		ID: r.ID, LeftMarketID: r.LeftMarketID, RightMarketID: r.RightMarketID,
		LeftVenue: domain.Venue(r.LeftVenue), RightVenue: domain.Venue(r.RightVenue),
		Topic: domain.Topic(r.Topic), Score: r.Score, Reason: r.Reason,
		AlgoVersion: r.AlgoVersion, Status: domain.LinkStatus(r.Status),
		CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt,
	}
}

// Upsert writes a suggested/confirmed/rejected link, keyed on
// (left_market_id, right_market_id). A fresh suggestion is never allowed
// to overwrite a terminal human decision (spec.md §3, §4.7 step 6) — the
// WHERE clause on the DO UPDATE makes this atomic at the database level
// rather than relying on a prior SELECT.
func (r *linkRepo) Upsert(ctx context.Context, leftID, rightID int64, in domain.UpsertLinkInput) (*domain.MarketLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var row linkRow
	err := r.db.GetContext(ctx, &row, `
		INSERT INTO market_links (left_market_id, right_market_id, topic, score, reason, algo_version, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())
		ON CONFLICT (left_market_id, right_market_id) DO UPDATE SET
			score = EXCLUDED.score,
			reason = EXCLUDED.reason,
			algo_version = EXCLUDED.algo_version,
			status = EXCLUDED.status,
			updated_at = now()
		WHERE market_links.status NOT IN ('confirmed', 'rejected')
		   OR EXCLUDED.status IN ('confirmed', 'rejected')
		RETURNING *`,
		leftID, rightID, string(in.Topic), in.Score, in.Reason, in.AlgoVersion, string(in.Status))
	if err != nil {
		return nil, fmt.Errorf("upserting market link: %w", err)
	}
	l := row.toDomain()
	return &l, nil
}

func (r *linkRepo) ListSuggestions(ctx context.Context, opts domain.ListSuggestionsOptions) ([]domain.MarketLink, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT * FROM market_links WHERE score >= $1`
	args := []any{opts.MinScore}
	if opts.Status != nil {
		args = append(args, string(*opts.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}
	query += " ORDER BY score DESC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	var rows []linkRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing link suggestions: %w", err)
	}
	out := make([]domain.MarketLink, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *linkRepo) Confirm(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, domain.LinkConfirmed)
}

func (r *linkRepo) Reject(ctx context.Context, id int64) error {
	return r.setStatus(ctx, id, domain.LinkRejected)
}

func (r *linkRepo) setStatus(ctx context.Context, id int64, status domain.LinkStatus) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx, `
		UPDATE market_links SET status = $1, updated_at = now() WHERE id = $2`, string(status), id)
	if err != nil {
		return fmt.Errorf("setting link %d status to %s: %w", id, status, err)
	}
	return nil
}

func (r *linkRepo) CleanupSuggestions(ctx context.Context, opts domain.CleanupSuggestionsOptions) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -opts.OlderThanDays)
	where := `status = $1 AND updated_at < $2`
	args := []any{string(opts.Status), cutoff}
	if opts.AlgoVersion != "" {
		args = append(args, opts.AlgoVersion)
		where += fmt.Sprintf(" AND algo_version = $%d", len(args))
	}
	query := `DELETE FROM market_links WHERE ` + where + ` RETURNING id`
	if opts.DryRun {
		query = `SELECT id FROM market_links WHERE ` + where
	}

	res, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("cleaning up suggestions: %w", err)
	}
	defer res.Close()

	count := 0
	for res.Next() {
		count++
	}
	return count, res.Err()
}

func (r *linkRepo) CountByStatus(ctx context.Context) (map[domain.LinkStatus]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `SELECT status, COUNT(*) FROM market_links GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("counting links by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.LinkStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[domain.LinkStatus(status)] = count
	}
	return counts, rows.Err()
}
