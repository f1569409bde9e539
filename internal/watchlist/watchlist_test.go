package watchlist

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
)

type fakeLinks struct {
	byStatus map[domain.LinkStatus][]domain.MarketLink
}

func (f *fakeLinks) Upsert(ctx context.Context, leftID, rightID int64, in domain.UpsertLinkInput) (*domain.MarketLink, error) {
	return nil, nil
}
func (f *fakeLinks) ListSuggestions(ctx context.Context, opts domain.ListSuggestionsOptions) ([]domain.MarketLink, error) {
	if opts.Status == nil {
		return nil, nil
	}
	return f.byStatus[*opts.Status], nil
}
func (f *fakeLinks) Confirm(ctx context.Context, id int64) error { return nil }
func (f *fakeLinks) Reject(ctx context.Context, id int64) error  { return nil }
func (f *fakeLinks) CleanupSuggestions(ctx context.Context, opts domain.CleanupSuggestionsOptions) (int, error) {
	return 0, nil
}
func (f *fakeLinks) CountByStatus(ctx context.Context) (map[domain.LinkStatus]int, error) {
	return nil, nil
}

type fakeWatchlistRepo struct {
	upserted []domain.WatchlistItem
}

func (f *fakeWatchlistRepo) UpsertMany(ctx context.Context, items []domain.WatchlistItem) error {
	f.upserted = items
	return nil
}
func (f *fakeWatchlistRepo) List(ctx context.Context, opts domain.ListWatchlistOptions) ([]domain.WatchlistItem, error) {
	return f.upserted, nil
}
func (f *fakeWatchlistRepo) GetStats(ctx context.Context, venue *domain.Venue) (domain.WatchlistStats, error) {
	return domain.WatchlistStats{}, nil
}

func TestBuild_ConfirmedAlwaysIncluded(t *testing.T) {
	links := &fakeLinks{byStatus: map[domain.LinkStatus][]domain.MarketLink{
		domain.LinkConfirmed: {
			{LeftMarketID: 1, RightMarketID: 2, LeftVenue: domain.VenueKalshi, RightVenue: domain.VenuePolymarket, Topic: domain.TopicCryptoDaily, Score: 0.3},
		},
	}}
	b := New(config.DefaultEngineConfig().Watchlist, links, &fakeWatchlistRepo{})
	items, err := b.Build(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	for _, item := range items {
		assert.Equal(t, domain.PriorityConfirmed, item.Priority)
	}
}

func TestBuild_SafeScoreCandidateOutranksTopSuggested(t *testing.T) {
	links := &fakeLinks{byStatus: map[domain.LinkStatus][]domain.MarketLink{
		domain.LinkSuggested: {
			{LeftMarketID: 1, RightMarketID: 2, LeftVenue: domain.VenueKalshi, RightVenue: domain.VenuePolymarket, Topic: domain.TopicCryptoDaily, Score: 0.95},
			{LeftMarketID: 3, RightMarketID: 4, LeftVenue: domain.VenueKalshi, RightVenue: domain.VenuePolymarket, Topic: domain.TopicCryptoDaily, Score: 0.55},
		},
	}}
	b := New(config.DefaultEngineConfig().Watchlist, links, &fakeWatchlistRepo{})
	items, err := b.Build(context.Background())
	require.NoError(t, err)

	byID := make(map[int64]domain.WatchlistItem)
	for _, item := range items {
		byID[item.MarketID] = item
	}
	assert.Equal(t, domain.PriorityCandidateSafe, byID[1].Priority)
	assert.Equal(t, domain.PriorityTopSuggested, byID[3].Priority)
}

func TestCapItems_RespectsPerVenueAndTotalCaps(t *testing.T) {
	items := []domain.WatchlistItem{
		{Venue: domain.VenueKalshi, MarketID: 1, Priority: domain.PriorityConfirmed},
		{Venue: domain.VenueKalshi, MarketID: 2, Priority: domain.PriorityConfirmed},
		{Venue: domain.VenuePolymarket, MarketID: 3, Priority: domain.PriorityConfirmed},
	}
	capped := capItems(items, 1, 10)
	assert.Len(t, capped, 2)

	capped = capItems(items, 10, 1)
	assert.Len(t, capped, 1)
}

func TestSync_UpsertsComputedItems(t *testing.T) {
	links := &fakeLinks{byStatus: map[domain.LinkStatus][]domain.MarketLink{
		domain.LinkConfirmed: {
			{LeftMarketID: 1, RightMarketID: 2, LeftVenue: domain.VenueKalshi, RightVenue: domain.VenuePolymarket, Topic: domain.TopicCryptoDaily},
		},
	}}
	repo := &fakeWatchlistRepo{}
	b := New(config.DefaultEngineConfig().Watchlist, links, repo)

	count, err := b.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.Len(t, repo.upserted, 2)
}
