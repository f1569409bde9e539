package venue

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/telemetry"
)

// KalshiClient implements domain.VenueClient against Kalshi's trade API.
type KalshiClient struct {
	gated *gatedClient
}

// NewKalshiClient builds a Kalshi venue client from its provider config.
// metrics may be nil if circuit-state reporting isn't wired up.
func NewKalshiClient(cfg config.ProviderConfig, metrics *telemetry.Registry) *KalshiClient {
	return &KalshiClient{gated: newGatedClient("kalshi", cfg, metrics)}
}

type kalshiMarketsResponse struct {
	Markets []kalshiMarket `json:"markets"`
	Cursor  string         `json:"cursor"`
}

type kalshiMarket struct {
	Ticker       string `json:"ticker"`
	SeriesTicker string `json:"series_ticker"`
	Title        string `json:"title"`
	Category     string `json:"category"`
	Status       string `json:"status"`
	YesBid       int    `json:"yes_bid"`
	YesAsk       int    `json:"yes_ask"`
	NoBid        int    `json:"no_bid"`
	NoAsk        int    `json:"no_ask"`
	CloseTime    string `json:"close_time"`
}

// FetchMarkets pages through Kalshi's /markets endpoint.
func (c *KalshiClient) FetchMarkets(ctx context.Context, opts domain.FetchMarketsOptions) (domain.FetchMarketsResult, error) {
	query := url.Values{"status": {"open,closed"}}
	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Cursor != "" {
		query.Set("cursor", opts.Cursor)
	}

	var resp kalshiMarketsResponse
	if err := c.gated.getJSON(ctx, "/markets", query, &resp); err != nil {
		return domain.FetchMarketsResult{}, err
	}

	items := make([]domain.Market, 0, len(resp.Markets))
	for _, m := range resp.Markets {
		items = append(items, m.toDomain())
	}
	return domain.FetchMarketsResult{Items: items, NextCursor: resp.Cursor}, nil
}

func (m kalshiMarket) toDomain() domain.Market {
	var category *string
	if m.Category != "" {
		category = &m.Category
	}
	var series *string
	if m.SeriesTicker != "" {
		series = &m.SeriesTicker
	}

	return domain.Market{
		Venue:        domain.VenueKalshi,
		ExternalID:   m.Ticker,
		Title:        m.Title,
		Category:     category,
		Status:       kalshiStatus(m.Status),
		CloseTime:    parseTime(m.CloseTime),
		SeriesTicker: series,
		Outcomes:     m.outcomes(),
	}
}

func kalshiStatus(raw string) domain.MarketStatus {
	switch raw {
	case "active", "open":
		return domain.StatusActive
	case "closed":
		return domain.StatusClosed
	case "settled", "finalized":
		return domain.StatusResolved
	default:
		return domain.StatusArchived
	}
}

func (m kalshiMarket) outcomes() []domain.Outcome {
	yes := midpoint(m.YesBid, m.YesAsk)
	no := midpoint(m.NoBid, m.NoAsk)
	return []domain.Outcome{
		{Name: "Yes", Side: domain.SideYes, Price: yes},
		{Name: "No", Side: domain.SideNo, Price: no},
	}
}

// midpoint converts Kalshi's integer cent quotes into a [0,1] probability,
// returning nil when both sides of the book are empty.
func midpoint(bidCents, askCents int) *float64 {
	if bidCents == 0 && askCents == 0 {
		return nil
	}
	v := float64(bidCents+askCents) / 200.0
	return &v
}

// FetchQuotes re-fetches each market individually; Kalshi has no bulk
// quote endpoint, only per-ticker market/orderbook reads.
func (c *KalshiClient) FetchQuotes(ctx context.Context, markets []domain.Market) ([]domain.Quote, error) {
	quotes := make([]domain.Quote, 0, len(markets)*2)
	for _, mkt := range markets {
		var resp struct {
			Market kalshiMarket `json:"market"`
		}
		path := fmt.Sprintf("/markets/%s", url.PathEscape(mkt.ExternalID))
		if err := c.gated.getJSON(ctx, path, nil, &resp); err != nil {
			return nil, err
		}
		for _, o := range resp.Market.outcomes() {
			if o.Price == nil {
				continue
			}
			quotes = append(quotes, domain.Quote{MarketID: mkt.ID, OutcomeName: o.Name, Price: *o.Price})
		}
	}
	return quotes, nil
}
