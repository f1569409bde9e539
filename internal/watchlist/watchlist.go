// Package watchlist implements the watchlist-population policy
// (SPEC_FULL.md §4.8): derive per-venue polling priorities from
// MarketLink state, cap the total and per-venue counts, and upsert
// idempotently.
package watchlist

import (
	"context"
	"fmt"
	"sort"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/telemetry"
)

// Builder derives a WatchlistItem set from the current MarketLink table
// and upserts it via the watchlist repository.
type Builder struct {
	cfg       config.WatchlistConfig
	links     domain.MarketLinkRepository
	watchlist domain.WatchlistRepository
	metrics   *telemetry.Registry
}

// New constructs a Builder.
func New(cfg config.WatchlistConfig, links domain.MarketLinkRepository, watchlist domain.WatchlistRepository) *Builder {
	return &Builder{cfg: cfg, links: links, watchlist: watchlist}
}

// WithMetrics attaches a telemetry registry and returns the Builder for chaining.
func (b *Builder) WithMetrics(m *telemetry.Registry) *Builder {
	b.metrics = m
	return b
}

// Sync computes the watchlist item set and upserts it via the repository.
// Priority assignment (spec.md §4.8): confirmed links always make the
// list at PriorityConfirmed; candidate links at or above a topic's safe
// score floor get PriorityCandidateSafe; the remaining suggestions are
// ranked by score and the top maxTopSuggested get PriorityTopSuggested.
func (b *Builder) Sync(ctx context.Context) (int, error) {
	items, err := b.Build(ctx)
	if err != nil {
		return 0, err
	}
	if err := b.watchlist.UpsertMany(ctx, items); err != nil {
		return 0, fmt.Errorf("upserting watchlist items: %w", err)
	}
	if b.metrics != nil {
		byVenue := make(map[domain.Venue]int)
		for _, item := range items {
			byVenue[item.Venue]++
		}
		for venue, n := range byVenue {
			b.metrics.SetWatchlistSize(string(venue), n)
		}
	}
	return len(items), nil
}

// Build computes the capped, deduplicated WatchlistItem set without
// writing it anywhere. Exported separately from Sync so callers (and
// tests) can inspect the computed set before it is upserted.
func (b *Builder) Build(ctx context.Context) ([]domain.WatchlistItem, error) {
	confirmed, err := b.links.ListSuggestions(ctx, domain.ListSuggestionsOptions{Status: statusPtr(domain.LinkConfirmed)})
	if err != nil {
		return nil, fmt.Errorf("listing confirmed links: %w", err)
	}
	suggested, err := b.links.ListSuggestions(ctx, domain.ListSuggestionsOptions{Status: statusPtr(domain.LinkSuggested)})
	if err != nil {
		return nil, fmt.Errorf("listing suggested links: %w", err)
	}

	seen := make(map[itemKey]domain.WatchlistItem)

	addOrRaise := func(venue domain.Venue, marketID int64, priority domain.WatchlistPriority, reason string) {
		k := itemKey{venue, marketID}
		existing, ok := seen[k]
		if !ok || priority > existing.Priority {
			seen[k] = domain.WatchlistItem{Venue: venue, MarketID: marketID, Priority: priority, Reason: reason}
		}
	}

	for _, l := range confirmed {
		addOrRaise(l.LeftVenue, l.LeftMarketID, domain.PriorityConfirmed, "confirmed_link")
		addOrRaise(l.RightVenue, l.RightMarketID, domain.PriorityConfirmed, "confirmed_link")
	}

	var candidateSafe, rest []domain.MarketLink
	for _, l := range suggested {
		if l.Score >= b.cfg.SafeScoreFor(l.Topic) {
			candidateSafe = append(candidateSafe, l)
		} else {
			rest = append(rest, l)
		}
	}
	for _, l := range candidateSafe {
		addOrRaise(l.LeftVenue, l.LeftMarketID, domain.PriorityCandidateSafe, "candidate_safe_score")
		addOrRaise(l.RightVenue, l.RightMarketID, domain.PriorityCandidateSafe, "candidate_safe_score")
	}

	sort.Slice(rest, func(i, j int) bool { return rest[i].Score > rest[j].Score })
	if len(rest) > b.cfg.MaxTopSuggested {
		rest = rest[:b.cfg.MaxTopSuggested]
	}
	for _, l := range rest {
		addOrRaise(l.LeftVenue, l.LeftMarketID, domain.PriorityTopSuggested, "top_suggested")
		addOrRaise(l.RightVenue, l.RightMarketID, domain.PriorityTopSuggested, "top_suggested")
	}

	items := make([]domain.WatchlistItem, 0, len(seen))
	for _, item := range seen {
		items = append(items, item)
	}

	return capItems(items, b.cfg.MaxPerVenue, b.cfg.MaxTotal), nil
}

type itemKey struct {
	venue    domain.Venue
	marketID int64
}

func statusPtr(s domain.LinkStatus) *domain.LinkStatus { return &s }

// capItems enforces spec.md §4.8's caps: sort by priority descending,
// then break ties by keeping first-seen order, capping each venue at
// maxPerVenue and the whole set at maxTotal. Overflow ties break by
// keeping the higher-scoring (i.e. higher-priority) items.
func capItems(items []domain.WatchlistItem, maxPerVenue, maxTotal int) []domain.WatchlistItem {
	sort.SliceStable(items, func(i, j int) bool { return items[i].Priority > items[j].Priority })

	perVenue := make(map[domain.Venue]int)
	var out []domain.WatchlistItem
	for _, item := range items {
		if maxPerVenue > 0 && perVenue[item.Venue] >= maxPerVenue {
			continue
		}
		if maxTotal > 0 && len(out) >= maxTotal {
			break
		}
		perVenue[item.Venue]++
		out = append(out, item)
	}
	return out
}
