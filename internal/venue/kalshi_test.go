package venue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
)

func testProviderConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Host:        "example.test",
		RPS:         50,
		Burst:       50,
		DailyBudget: 10000,
		BaseURL:     baseURL,
		Circuit:     config.CircuitConfig{FailureThreshold: 5, SuccessThreshold: 2, TimeoutMS: 5000},
		BackoffMS:   config.BackoffConfig{Base: 100, Max: 2000},
	}
}

func TestKalshiClient_FetchMarkets_MapsFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		w.Write([]byte(`{
			"markets": [{
				"ticker": "ECON-FED-25DEC-T",
				"series_ticker": "ECON-FED",
				"title": "Fed raises rates in December",
				"category": "Economics",
				"status": "active",
				"yes_bid": 60, "yes_ask": 64,
				"no_bid": 36, "no_ask": 40,
				"close_time": "2025-12-18T18:00:00Z"
			}],
			"cursor": "next-page"
		}`))
	}))
	defer srv.Close()

	client := NewKalshiClient(testProviderConfig(srv.URL), nil)
	result, err := client.FetchMarkets(context.Background(), domain.FetchMarketsOptions{Limit: 50})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "next-page", result.NextCursor)

	m := result.Items[0]
	assert.Equal(t, domain.VenueKalshi, m.Venue)
	assert.Equal(t, "ECON-FED-25DEC-T", m.ExternalID)
	assert.Equal(t, domain.StatusActive, m.Status)
	require.NotNil(t, m.SeriesTicker)
	assert.Equal(t, "ECON-FED", *m.SeriesTicker)
	require.Len(t, m.Outcomes, 2)
	require.NotNil(t, m.Outcomes[0].Price)
	assert.InDelta(t, 0.62, *m.Outcomes[0].Price, 0.001)
}

func TestKalshiClient_FetchQuotes_SkipsEmptyBook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"market": {
			"ticker": "ECON-FED-25DEC-T",
			"yes_bid": 60, "yes_ask": 64,
			"no_bid": 0, "no_ask": 0
		}}`))
	}))
	defer srv.Close()

	client := NewKalshiClient(testProviderConfig(srv.URL), nil)
	quotes, err := client.FetchQuotes(context.Background(), []domain.Market{
		{ID: 7, ExternalID: "ECON-FED-25DEC-T"},
	})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, int64(7), quotes[0].MarketID)
	assert.Equal(t, "Yes", quotes[0].OutcomeName)
}

func TestKalshiClient_FetchMarkets_PropagatesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"boom"}`))
	}))
	defer srv.Close()

	client := NewKalshiClient(testProviderConfig(srv.URL), nil)
	_, err := client.FetchMarkets(context.Background(), domain.FetchMarketsOptions{})
	assert.Error(t, err)
}
