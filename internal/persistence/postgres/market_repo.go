// Package postgres implements the domain's persistence collaborators
// (MarketRepository, MarketLinkRepository, WatchlistRepository,
// IngestionRepository) against PostgreSQL via sqlx/lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/sawpanic/marketlink/internal/domain"
)

// marketRepo implements domain.MarketRepository for PostgreSQL.
type marketRepo struct {
	db      *sqlx.DB
	timeout time.Duration
}

// NewMarketRepo constructs a PostgreSQL-backed domain.MarketRepository.
func NewMarketRepo(db *sqlx.DB, timeout time.Duration) domain.MarketRepository {
	return &marketRepo{db: db, timeout: timeout}
}

type marketRow struct {
	ID           int64          `db:"id"`
	Venue        string         `db:"venue"`
	ExternalID   string         `db:"external_id"`
	Title        string         `db:"title"`
	Category     sql.NullString `db:"category"`
	Status       string         `db:"status"`
	CloseTime    sql.NullTime   `db:"close_time"`
	DerivedTopic sql.NullString `db:"derived_topic"`
	SeriesTicker sql.NullString `db:"series_ticker"`
	Tags         []byte         `db:"tags"`
	Metadata     []byte         `db:"metadata"`
	Outcomes     []byte         `db:"outcomes"`
}

func (r marketRow) toDomain() (domain.Market, error) {
	m := domain.Market{
		ID:         r.ID,
		Venue:      domain.Venue(r.Venue),
		ExternalID: r.ExternalID,
		Title:      r.Title,
		Status:     domain.MarketStatus(r.Status),
	}
	if r.Category.Valid {
		m.Category = &r.Category.String
	}
	if r.CloseTime.Valid {
		t := r.CloseTime.Time
		m.CloseTime = &t
	}
	if r.DerivedTopic.Valid {
		topic := domain.Topic(r.DerivedTopic.String)
		m.DerivedTopic = &topic
	}
	if r.SeriesTicker.Valid {
		m.SeriesTicker = &r.SeriesTicker.String
	}
	if len(r.Tags) > 0 {
		if err := json.Unmarshal(r.Tags, &m.Tags); err != nil {
			return domain.Market{}, fmt.Errorf("unmarshal tags: %w", err)
		}
	}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &m.Metadata); err != nil {
			return domain.Market{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	if len(r.Outcomes) > 0 {
		if err := json.Unmarshal(r.Outcomes, &m.Outcomes); err != nil {
			return domain.Market{}, fmt.Errorf("unmarshal outcomes: %w", err)
		}
	}
	return m, nil
}

// ListEligibleMarkets pushes the lookback window, limit, and an optional
// title-keyword pre-filter down to SQL, so a pipeline's Fetch never pulls
// a venue's entire active set into memory just to discard most of it.
func (r *marketRepo) ListEligibleMarkets(ctx context.Context, venue domain.Venue, opts domain.ListEligibleMarketsOptions) ([]domain.Market, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	lookback := opts.LookbackHours
	if lookback <= 0 {
		lookback = 720
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 5000
	}
	cutoff := time.Now().UTC().Add(-time.Duration(lookback) * time.Hour)

	query := `
		SELECT id, venue, external_id, title, category, status, close_time,
		       derived_topic, series_ticker, tags, metadata, outcomes
		FROM markets
		WHERE venue = $1
		  AND status IN ('active', 'closed')
		  AND (close_time IS NULL OR close_time >= $2)`
	args := []any{string(venue), cutoff}

	if len(opts.TitleKeywords) > 0 {
		clauses := make([]string, len(opts.TitleKeywords))
		for i, kw := range opts.TitleKeywords {
			args = append(args, "%"+strings.ToLower(kw)+"%")
			clauses[i] = fmt.Sprintf("LOWER(title) LIKE $%d", len(args))
		}
		query += " AND (" + strings.Join(clauses, " OR ") + ")"
	}

	orderCol := "close_time"
	if opts.OrderBy == domain.OrderByID {
		orderCol = "id"
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY %s DESC NULLS LAST LIMIT $%d", orderCol, len(args))

	var rows []marketRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("listing eligible markets: %w", err)
	}

	out := make([]domain.Market, 0, len(rows))
	for _, row := range rows {
		m, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// UpsertMany lands venue-fetched markets, matching on (venue, external_id).
// A market already seen keeps its derived_topic untouched (the classifier
// owns that column; ingestion only ever refreshes venue-reported fields).
func (r *marketRepo) UpsertMany(ctx context.Context, markets []domain.Market) (int, error) {
	if len(markets) == 0 {
		return 0, nil
	}
	ctx, cancel := context.WithTimeout(ctx, r.timeout*time.Duration(len(markets)/500+1))
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning market upsert transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO markets (venue, external_id, title, category, status, close_time, series_ticker, tags, metadata, outcomes, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (venue, external_id) DO UPDATE SET
			title = EXCLUDED.title,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			close_time = EXCLUDED.close_time,
			series_ticker = EXCLUDED.series_ticker,
			tags = EXCLUDED.tags,
			metadata = EXCLUDED.metadata,
			outcomes = EXCLUDED.outcomes,
			updated_at = now()`)
	if err != nil {
		return 0, fmt.Errorf("preparing market upsert: %w", err)
	}
	defer stmt.Close()

	n := 0
	for _, m := range markets {
		tags, err := json.Marshal(m.Tags)
		if err != nil {
			return n, fmt.Errorf("marshaling tags for %s/%s: %w", m.Venue, m.ExternalID, err)
		}
		metadata, err := json.Marshal(m.Metadata)
		if err != nil {
			return n, fmt.Errorf("marshaling metadata for %s/%s: %w", m.Venue, m.ExternalID, err)
		}
		outcomes, err := json.Marshal(m.Outcomes)
		if err != nil {
			return n, fmt.Errorf("marshaling outcomes for %s/%s: %w", m.Venue, m.ExternalID, err)
		}

		var category, seriesTicker sql.NullString
		if m.Category != nil {
			category = sql.NullString{String: *m.Category, Valid: true}
		}
		if m.SeriesTicker != nil {
			seriesTicker = sql.NullString{String: *m.SeriesTicker, Valid: true}
		}
		var closeTime sql.NullTime
		if m.CloseTime != nil {
			closeTime = sql.NullTime{Time: *m.CloseTime, Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, string(m.Venue), m.ExternalID, m.Title, category,
			string(m.Status), closeTime, seriesTicker, tags, metadata, outcomes); err != nil {
			return n, fmt.Errorf("upserting market %s/%s: %w", m.Venue, m.ExternalID, err)
		}
		n++
	}
	return n, tx.Commit()
}

func (r *marketRepo) GetStatusCounts(ctx context.Context, venue domain.Venue) (map[domain.MarketStatus]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT status, COUNT(*) FROM markets WHERE venue = $1 GROUP BY status`, string(venue))
	if err != nil {
		return nil, fmt.Errorf("counting market status: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.MarketStatus]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scanning status count: %w", err)
		}
		counts[domain.MarketStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *marketRepo) CountBySeriesTicker(ctx context.Context, venue domain.Venue) (map[string]int, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.QueryxContext(ctx, `
		SELECT series_ticker, COUNT(*) FROM markets
		WHERE venue = $1 AND series_ticker IS NOT NULL
		GROUP BY series_ticker`, string(venue))
	if err != nil {
		return nil, fmt.Errorf("counting by series ticker: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var ticker string
		var count int
		if err := rows.Scan(&ticker, &count); err != nil {
			return nil, fmt.Errorf("scanning series ticker count: %w", err)
		}
		counts[ticker] = count
	}
	return counts, rows.Err()
}
