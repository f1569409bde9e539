package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/marketlink/internal/domain"
)

// watchlistRepo implements domain.WatchlistRepository for PostgreSQL.
type watchlistRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewWatchlistRepo constructs a PostgreSQL-backed domain.WatchlistRepository.
func NewWatchlistRepo(db *sqlx.DB, timeout time.Duration) domain.WatchlistRepository {
	return &watchlistRepo{db: db, timeout: timeout}
}

// UpsertMany replaces the watchlist's priority/reason for each item,
// keeping the higher of the stored and incoming priority so a lower-tier
// sync pass never demotes an item another pass already raised.
func (r *watchlistRepo) UpsertMany(ctx context.Context, items []domain.WatchlistItem) error {
	if len(items) == 0 {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(items)/100+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning watchlist upsert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO watchlist_items (venue, market_id, priority, reason, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (venue, market_id) DO UPDATE SET
			priority = GREATEST(watchlist_items.priority, EXCLUDED.priority),
			reason = CASE WHEN EXCLUDED.priority >= watchlist_items.priority THEN EXCLUDED.reason ELSE watchlist_items.reason END,
			updated_at = now()`)
	if err != nil {
		return fmt.Errorf("preparing watchlist upsert: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, string(item.Venue), item.MarketID, int(item.Priority), item.Reason); err != nil {
			return fmt.Errorf("upserting watchlist item %s/%d: %w", item.Venue, item.MarketID, err)
		}
	}
	return tx.Commit()
}

type watchlistRow struct {
	Venue    string `db:"venue"`
	MarketID int64  `db:"market_id"`
	Priority int    `db:"priority"`
	Reason   string `db:"reason"`
}

func (r *watchlistRepo) List(ctx context.Context, opts domain.ListWatchlistOptions) ([]domain.WatchlistItem, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT venue, market_id, priority, reason FROM watchlist_items`
	var args []any
	if opts.Venue != nil {
		args = append(args, string(*opts.Venue))
		query += fmt.Sprintf(" WHERE venue = $%d", len(args))
	}
	query += " ORDER BY priority DESC, market_id ASC"
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if opts.Offset > 0 {
		args = append(args, opts.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	var rows []watchlistRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing watchlist items: %w", err)
	}
	out := make([]domain.WatchlistItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.WatchlistItem{
			Venue: domain.Venue(row.Venue), MarketID: row.MarketID,
			Priority: domain.WatchlistPriority(row.Priority), Reason: row.Reason,
		})
	}
	return out, nil
}

func (r *watchlistRepo) GetStats(ctx context.Context, venue *domain.Venue) (domain.WatchlistStats, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	query := `SELECT venue, priority, COUNT(*) FROM watchlist_items`
	var args []any
	if venue != nil {
		args = append(args, string(*venue))
		query += " WHERE venue = $1"
	}
	query += " GROUP BY venue, priority"

	rows, err := r.db.QueryxContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return domain.WatchlistStats{}, fmt.Errorf("fetching watchlist stats: %w", err)
	}
	defer rows.Close()

	stats := domain.WatchlistStats{ByPriority: make(map[domain.WatchlistPriority]int), ByVenue: make(map[domain.Venue]int)}
	for rows.Next() {
		var v string
		var priority, count int
		if err := rows.Scan(&v, &priority, &count); err != nil {
			return domain.WatchlistStats{}, fmt.Errorf("scanning watchlist stats: %w", err)
		}
		stats.Total += count
		stats.ByPriority[domain.WatchlistPriority(priority)] += count
		stats.ByVenue[domain.Venue(v)] += count
	}
	return stats, rows.Err()
}
