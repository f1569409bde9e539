// Package ingest drives venue fetches into storage: page a VenueClient's
// FetchMarkets until exhausted, upsert each page through MarketRepository,
// and record the run's watermark/error kind via IngestionRepository.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/net/budget"
	"github.com/sawpanic/marketlink/internal/telemetry"
)

// Runner syncs one or more venues' markets into MarketRepository.
type Runner struct {
	markets   domain.MarketRepository
	ingestion domain.IngestionRepository
	metrics   *telemetry.Registry
	pageLimit int
	maxPages  int
}

// New constructs a Runner. metrics may be nil if telemetry isn't wired.
func New(markets domain.MarketRepository, ingestion domain.IngestionRepository, metrics *telemetry.Registry) *Runner {
	return &Runner{markets: markets, ingestion: ingestion, metrics: metrics, pageLimit: 200, maxPages: 500}
}

// VenueSync names a venue and the client to fetch it with.
type VenueSync struct {
	Venue  domain.Venue
	Client domain.VenueClient
}

// Result is one venue's sync outcome.
type Result struct {
	Venue     domain.Venue
	Pages     int
	Upserted  int
	Cursor    string
	Err       error
}

// SyncAll syncs every VenueSync concurrently (SPEC_FULL.md §5: per-venue
// fetches run in parallel). One venue's failure doesn't cancel the others;
// it's reported in its own Result.Err.
func (r *Runner) SyncAll(ctx context.Context, syncs []VenueSync) []Result {
	results := make([]Result, len(syncs))
	g, gCtx := errgroup.WithContext(ctx)
	for i, s := range syncs {
		i, s := i, s
		g.Go(func() error {
			results[i] = r.Sync(gCtx, s.Venue, s.Client)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// Sync pages through client.FetchMarkets starting from the venue's last
// saved cursor, upserting each page, until a page returns no next cursor
// or maxPages is hit (a runaway-pagination backstop).
func (r *Runner) Sync(ctx context.Context, venue domain.Venue, client domain.VenueClient) Result {
	runID, err := r.ingestion.StartRun(ctx, venue)
	if err != nil {
		return Result{Venue: venue, Err: fmt.Errorf("starting ingestion run: %w", err)}
	}

	cursor, err := r.ingestion.GetCursor(ctx, venue)
	if err != nil {
		log.Warn().Err(err).Str("venue", string(venue)).Msg("ingestion cursor lookup failed, starting from empty cursor")
		cursor = ""
	}

	result := Result{Venue: venue}
	var runErr error

	for result.Pages < r.maxPages {
		start := time.Now()
		page, fetchErr := client.FetchMarkets(ctx, domain.FetchMarketsOptions{Limit: r.pageLimit, Cursor: cursor})
		kind := classify(fetchErr)
		if r.metrics != nil {
			r.metrics.ObserveVenueFetch(string(venue), "fetch_markets", time.Since(start), fetchErr, string(kind))
		}
		if fetchErr != nil {
			runErr = fmt.Errorf("fetching markets page %d: %w", result.Pages, fetchErr)
			break
		}
		result.Pages++

		n, upsertErr := r.markets.UpsertMany(ctx, page.Items)
		result.Upserted += n
		if upsertErr != nil {
			runErr = fmt.Errorf("upserting markets page %d: %w", result.Pages, upsertErr)
			break
		}

		cursor = page.NextCursor
		result.Cursor = cursor
		if cursor == "" {
			break
		}
	}

	var errKind *domain.IngestionErrorKind
	if runErr != nil {
		k := classify(runErr)
		errKind = &k
		result.Err = runErr
		log.Error().Err(runErr).Str("venue", string(venue)).Msg("ingestion run failed")
	}
	if err := r.ingestion.FinishRun(ctx, runID, result.Cursor, errKind); err != nil {
		log.Error().Err(err).Str("venue", string(venue)).Int64("run_id", runID).Msg("finishing ingestion run failed")
	}
	return result
}

// classify maps a fetch/persistence error to the shared ingestion error
// taxonomy (spec.md §6/§7) so the same labels show up in both
// ingestion_runs rows and venue_fetch_errors_total.
func classify(err error) domain.IngestionErrorKind {
	if err == nil {
		return ""
	}
	var budgetErr *budget.BudgetExhaustedError
	if errors.As(err, &budgetErr) {
		return domain.ErrKindRateLimit
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.ErrKindTimeout
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "rate limit"):
		return domain.ErrKindRateLimit
	case strings.Contains(msg, "HTTP 5"):
		return domain.ErrKind5xx
	case strings.Contains(msg, "HTTP 429"):
		return domain.ErrKindRateLimit
	case strings.Contains(msg, "decoding response"):
		return domain.ErrKindParse
	case strings.Contains(msg, "upserting"):
		return domain.ErrKindDB
	case strings.Contains(msg, "executing request") || strings.Contains(msg, "connection"):
		return domain.ErrKindNetwork
	default:
		return domain.ErrKindOther
	}
}
