package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/pipeline"
)

type fakeMarketRepo struct {
	byVenue map[domain.Venue][]domain.Market
}

func (f *fakeMarketRepo) ListEligibleMarkets(ctx context.Context, venue domain.Venue, opts domain.ListEligibleMarketsOptions) ([]domain.Market, error) {
	return f.byVenue[venue], nil
}
func (f *fakeMarketRepo) GetStatusCounts(ctx context.Context, venue domain.Venue) (map[domain.MarketStatus]int, error) {
	return nil, nil
}
func (f *fakeMarketRepo) CountBySeriesTicker(ctx context.Context, venue domain.Venue) (map[string]int, error) {
	return nil, nil
}
func (f *fakeMarketRepo) UpsertMany(ctx context.Context, markets []domain.Market) (int, error) {
	return len(markets), nil
}

type fakeLinkRepo struct {
	links map[string]domain.MarketLink
}

func newFakeLinkRepo() *fakeLinkRepo { return &fakeLinkRepo{links: make(map[string]domain.MarketLink)} }

func (f *fakeLinkRepo) Upsert(ctx context.Context, leftID, rightID int64, in domain.UpsertLinkInput) (*domain.MarketLink, error) {
	k := fmtKey(leftID, rightID)
	existing, ok := f.links[k]
	if ok && existing.Status.Terminal() {
		return &existing, nil
	}
	l := domain.MarketLink{
		ID: int64(len(f.links) + 1), LeftMarketID: leftID, RightMarketID: rightID,
		Topic: in.Topic, Score: in.Score, Reason: in.Reason, AlgoVersion: in.AlgoVersion, Status: in.Status,
	}
	f.links[k] = l
	return &l, nil
}
func (f *fakeLinkRepo) ListSuggestions(ctx context.Context, opts domain.ListSuggestionsOptions) ([]domain.MarketLink, error) {
	var out []domain.MarketLink
	for _, l := range f.links {
		out = append(out, l)
	}
	return out, nil
}
func (f *fakeLinkRepo) Confirm(ctx context.Context, id int64) error { return nil }
func (f *fakeLinkRepo) Reject(ctx context.Context, id int64) error  { return nil }
func (f *fakeLinkRepo) CleanupSuggestions(ctx context.Context, opts domain.CleanupSuggestionsOptions) (int, error) {
	return 0, nil
}
func (f *fakeLinkRepo) CountByStatus(ctx context.Context) (map[domain.LinkStatus]int, error) {
	return nil, nil
}

func fmtKey(left, right int64) string {
	return fmt.Sprintf("%d|%d", left, right)
}

func cryptoMarket(id int64, venue domain.Venue, title string) domain.Market {
	return domain.Market{
		ID: id, Venue: venue, ExternalID: title, Title: title,
		Status: domain.StatusActive,
	}
}

func TestEngine_RunTopic_UnsupportedTopicAborts(t *testing.T) {
	reg := pipeline.NewRegistry()
	e := New(config.DefaultEngineConfig(), reg, &fakeMarketRepo{}, newFakeLinkRepo())

	_, err := e.RunTopic(context.Background(), domain.TopicSports, domain.VenueKalshi, domain.VenuePolymarket)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported_topic")
}

func TestEngine_RunTopic_FetchesBothVenuesAndScores(t *testing.T) {
	reg := pipeline.NewRegistry()
	reg.Register(pipeline.CryptoPipeline{})

	repo := &fakeMarketRepo{byVenue: map[domain.Venue][]domain.Market{
		domain.VenueKalshi:     {cryptoMarket(1, domain.VenueKalshi, "Will BTC be above $100,000 on Dec 31, 2026?")},
		domain.VenuePolymarket: {cryptoMarket(2, domain.VenuePolymarket, "Bitcoin above 100000 by end of December 2026")},
	}}
	links := newFakeLinkRepo()
	e := New(config.DefaultEngineConfig(), reg, repo, links)

	result, err := e.RunTopic(context.Background(), domain.TopicCryptoDaily, domain.VenueKalshi, domain.VenuePolymarket)
	require.NoError(t, err)
	assert.Equal(t, 1, result.LeftCount)
	assert.Equal(t, 1, result.RightCount)
}

func TestEngine_Run_CoversAllRegisteredTopics(t *testing.T) {
	reg := pipeline.RegisterDefaults()
	repo := &fakeMarketRepo{}
	links := newFakeLinkRepo()
	e := New(config.DefaultEngineConfig(), reg, repo, links)

	summary := e.Run(context.Background(), domain.VenueKalshi, domain.VenuePolymarket)
	assert.Len(t, summary.TopicResults, len(domain.AllTopics()))
}
