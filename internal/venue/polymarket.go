package venue

import (
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/telemetry"
)

// PolymarketClient implements domain.VenueClient against the Polymarket
// Gamma API's /markets endpoint.
type PolymarketClient struct {
	gated *gatedClient
}

// NewPolymarketClient builds a Polymarket venue client from its provider
// config. metrics may be nil if circuit-state reporting isn't wired up.
func NewPolymarketClient(cfg config.ProviderConfig, metrics *telemetry.Registry) *PolymarketClient {
	return &PolymarketClient{gated: newGatedClient("polymarket", cfg, metrics)}
}

type gammaMarket struct {
	ConditionID   string `json:"conditionId"`
	Slug          string `json:"slug"`
	Question      string `json:"question"`
	EndDate       string `json:"endDate"`
	EndDateISO    string `json:"endDateIso"`
	Active        bool   `json:"active"`
	Closed        bool   `json:"closed"`
	Archived      bool   `json:"archived"`
	Outcomes      string `json:"outcomes"`      // JSON-encoded array, e.g. ["Yes","No"]
	OutcomePrices string `json:"outcomePrices"` // JSON-encoded array, e.g. ["0.64","0.36"]
}

// FetchMarkets pages through the Gamma API. Polymarket's /markets endpoint
// paginates with offset/limit rather than an opaque cursor; the cursor
// string here carries the next numeric offset as text.
func (c *PolymarketClient) FetchMarkets(ctx context.Context, opts domain.FetchMarketsOptions) (domain.FetchMarketsResult, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := 0
	if opts.Cursor != "" {
		if n, err := strconv.Atoi(opts.Cursor); err == nil {
			offset = n
		}
	}

	query := url.Values{
		"limit":  {strconv.Itoa(limit)},
		"offset": {strconv.Itoa(offset)},
		"closed": {"false"},
	}

	var raw []gammaMarket
	if err := c.gated.getJSON(ctx, "/markets", query, &raw); err != nil {
		// Gamma sometimes wraps results as {"data": [...]}; retry that shape.
		var wrapped struct {
			Data []gammaMarket `json:"data"`
		}
		if wrapErr := c.gated.getJSON(ctx, "/markets", query, &wrapped); wrapErr != nil {
			return domain.FetchMarketsResult{}, err
		}
		raw = wrapped.Data
	}

	items := make([]domain.Market, 0, len(raw))
	for _, m := range raw {
		items = append(items, m.toDomain())
	}

	next := ""
	if len(raw) == limit {
		next = strconv.Itoa(offset + limit)
	}
	return domain.FetchMarketsResult{Items: items, NextCursor: next}, nil
}

func (m gammaMarket) toDomain() domain.Market {
	closeTime := parseTime(m.EndDate)
	if closeTime == nil {
		closeTime = parseTime(m.EndDateISO)
	}

	return domain.Market{
		Venue:      domain.VenuePolymarket,
		ExternalID: m.ConditionID,
		Title:      m.Question,
		Status:     polymarketStatus(m),
		CloseTime:  closeTime,
		Tags:       []string{m.Slug},
		Outcomes:   m.outcomes(),
	}
}

func polymarketStatus(m gammaMarket) domain.MarketStatus {
	switch {
	case m.Archived:
		return domain.StatusArchived
	case m.Closed:
		return domain.StatusResolved
	case m.Active:
		return domain.StatusActive
	default:
		return domain.StatusClosed
	}
}

// outcomes decodes the Gamma API's paired JSON-encoded-string arrays into
// domain outcomes, matching names to prices positionally.
func (m gammaMarket) outcomes() []domain.Outcome {
	var names []string
	var prices []string
	_ = json.Unmarshal([]byte(m.Outcomes), &names)
	_ = json.Unmarshal([]byte(m.OutcomePrices), &prices)

	out := make([]domain.Outcome, 0, len(names))
	for i, name := range names {
		side := domain.SideOther
		switch name {
		case "Yes":
			side = domain.SideYes
		case "No":
			side = domain.SideNo
		}
		var price *float64
		if i < len(prices) {
			if p, err := strconv.ParseFloat(prices[i], 64); err == nil {
				price = &p
			}
		}
		out = append(out, domain.Outcome{Name: name, Side: side, Price: price})
	}
	return out
}

// FetchQuotes re-reads each market's outcome prices from /markets?condition_ids=.
func (c *PolymarketClient) FetchQuotes(ctx context.Context, markets []domain.Market) ([]domain.Quote, error) {
	if len(markets) == 0 {
		return nil, nil
	}

	ids := make([]string, 0, len(markets))
	idToMarketID := make(map[string]int64, len(markets))
	for _, m := range markets {
		ids = append(ids, m.ExternalID)
		idToMarketID[m.ExternalID] = m.ID
	}

	query := url.Values{"condition_ids": ids}
	var raw []gammaMarket
	if err := c.gated.getJSON(ctx, "/markets", query, &raw); err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(raw)*2)
	for _, m := range raw {
		marketID, ok := idToMarketID[m.ConditionID]
		if !ok {
			continue
		}
		for _, o := range m.outcomes() {
			if o.Price == nil {
				continue
			}
			quotes = append(quotes, domain.Quote{MarketID: marketID, OutcomeName: o.Name, Price: *o.Price})
		}
	}
	return quotes, nil
}
