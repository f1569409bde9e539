package venue

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/domain"
)

func TestPolymarketClient_FetchMarkets_DecodesOutcomeArrays(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/markets", r.URL.Path)
		w.Write([]byte(`[{
			"conditionId": "0xabc123",
			"slug": "bitcoin-up-or-down-july-31-3pm-et",
			"question": "Will BTC be up at 3pm ET?",
			"endDate": "2026-07-31T19:00:00Z",
			"active": true,
			"closed": false,
			"archived": false,
			"outcomes": "[\"Yes\",\"No\"]",
			"outcomePrices": "[\"0.64\",\"0.36\"]"
		}]`))
	}))
	defer srv.Close()

	client := NewPolymarketClient(testProviderConfig(srv.URL), nil)
	result, err := client.FetchMarkets(context.Background(), domain.FetchMarketsOptions{Limit: 1})
	require.NoError(t, err)
	require.Len(t, result.Items, 1)

	m := result.Items[0]
	assert.Equal(t, domain.VenuePolymarket, m.Venue)
	assert.Equal(t, "0xabc123", m.ExternalID)
	assert.Equal(t, domain.StatusActive, m.Status)
	require.Len(t, m.Outcomes, 2)
	assert.Equal(t, domain.SideYes, m.Outcomes[0].Side)
	require.NotNil(t, m.Outcomes[0].Price)
	assert.InDelta(t, 0.64, *m.Outcomes[0].Price, 0.0001)
}

func TestPolymarketClient_FetchQuotes_MatchesByConditionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{
			"conditionId": "0xabc123",
			"outcomes": "[\"Yes\",\"No\"]",
			"outcomePrices": "[\"0.7\",\"0.3\"]"
		}]`))
	}))
	defer srv.Close()

	client := NewPolymarketClient(testProviderConfig(srv.URL), nil)
	quotes, err := client.FetchQuotes(context.Background(), []domain.Market{
		{ID: 42, ExternalID: "0xabc123"},
	})
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, int64(42), quotes[0].MarketID)
}
