package ingest

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/domain"
)

type fakeVenueClient struct {
	pages [][]domain.Market
	calls int
	err   error
}

func (f *fakeVenueClient) FetchMarkets(ctx context.Context, opts domain.FetchMarketsOptions) (domain.FetchMarketsResult, error) {
	if f.err != nil {
		return domain.FetchMarketsResult{}, f.err
	}
	idx := f.calls
	f.calls++
	if idx >= len(f.pages) {
		return domain.FetchMarketsResult{}, nil
	}
	next := ""
	if idx < len(f.pages)-1 {
		next = fmt.Sprintf("page-%d", idx+1)
	}
	return domain.FetchMarketsResult{Items: f.pages[idx], NextCursor: next}, nil
}

func (f *fakeVenueClient) FetchQuotes(ctx context.Context, markets []domain.Market) ([]domain.Quote, error) {
	return nil, nil
}

type fakeMarketRepo struct {
	upserted []domain.Market
}

func (f *fakeMarketRepo) ListEligibleMarkets(ctx context.Context, venue domain.Venue, opts domain.ListEligibleMarketsOptions) ([]domain.Market, error) {
	return nil, nil
}
func (f *fakeMarketRepo) GetStatusCounts(ctx context.Context, venue domain.Venue) (map[domain.MarketStatus]int, error) {
	return nil, nil
}
func (f *fakeMarketRepo) CountBySeriesTicker(ctx context.Context, venue domain.Venue) (map[string]int, error) {
	return nil, nil
}
func (f *fakeMarketRepo) UpsertMany(ctx context.Context, markets []domain.Market) (int, error) {
	f.upserted = append(f.upserted, markets...)
	return len(markets), nil
}

type fakeIngestionRepo struct {
	finishedCursor string
	finishedKind   *domain.IngestionErrorKind
}

func (f *fakeIngestionRepo) StartRun(ctx context.Context, venue domain.Venue) (int64, error) {
	return 1, nil
}
func (f *fakeIngestionRepo) FinishRun(ctx context.Context, runID int64, cursor string, errKind *domain.IngestionErrorKind) error {
	f.finishedCursor = cursor
	f.finishedKind = errKind
	return nil
}
func (f *fakeIngestionRepo) GetCursor(ctx context.Context, venue domain.Venue) (string, error) {
	return "", nil
}

func TestRunner_Sync_PagesUntilCursorExhausted(t *testing.T) {
	client := &fakeVenueClient{pages: [][]domain.Market{
		{{ExternalID: "a"}, {ExternalID: "b"}},
		{{ExternalID: "c"}},
	}}
	markets := &fakeMarketRepo{}
	ingestion := &fakeIngestionRepo{}

	r := New(markets, ingestion, nil)
	result := r.Sync(context.Background(), domain.VenueKalshi, client)

	require.NoError(t, result.Err)
	assert.Equal(t, 2, result.Pages)
	assert.Equal(t, 3, result.Upserted)
	assert.Len(t, markets.upserted, 3)
	assert.Equal(t, "", ingestion.finishedCursor)
	assert.Nil(t, ingestion.finishedKind)
}

func TestRunner_Sync_RecordsErrorKindOnFetchFailure(t *testing.T) {
	client := &fakeVenueClient{err: fmt.Errorf("kalshi /markets: %s returned HTTP 503: boom", "kalshi")}
	markets := &fakeMarketRepo{}
	ingestion := &fakeIngestionRepo{}

	r := New(markets, ingestion, nil)
	result := r.Sync(context.Background(), domain.VenueKalshi, client)

	require.Error(t, result.Err)
	require.NotNil(t, ingestion.finishedKind)
	assert.Equal(t, domain.ErrKind5xx, *ingestion.finishedKind)
}

func TestRunner_SyncAll_RunsVenuesIndependently(t *testing.T) {
	kalshiClient := &fakeVenueClient{pages: [][]domain.Market{{{ExternalID: "k1"}}}}
	polyClient := &fakeVenueClient{err: fmt.Errorf("network timeout")}
	markets := &fakeMarketRepo{}
	ingestion := &fakeIngestionRepo{}

	r := New(markets, ingestion, nil)
	results := r.SyncAll(context.Background(), []VenueSync{
		{Venue: domain.VenueKalshi, Client: kalshiClient},
		{Venue: domain.VenuePolymarket, Client: polyClient},
	})

	require.Len(t, results, 2)
	var kalshiResult, polyResult Result
	for _, res := range results {
		if res.Venue == domain.VenueKalshi {
			kalshiResult = res
		} else {
			polyResult = res
		}
	}
	assert.NoError(t, kalshiResult.Err)
	assert.Equal(t, 1, kalshiResult.Upserted)
	assert.Error(t, polyResult.Err)
}
