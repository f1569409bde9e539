package pipeline

import (
	"context"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
)

// extractorFunc turns one eligible Market into its topic's Signals
// variant. Every pipeline's Fetch is this same shape: push a keyword
// pre-filter down to the repository, then run the pure extractor over
// whatever comes back.
type extractorFunc func(m domain.Market, now time.Time) domain.Signals

func fetchAndExtract(ctx context.Context, repo domain.MarketRepository, opts FetchOptions, keywords []string, extractor extractorFunc) ([]MarketWithSignals, error) {
	lookback := opts.LookbackHours
	if lookback == 0 {
		lookback = 720
	}
	limit := opts.Limit
	if limit == 0 {
		limit = 5000
	}

	markets, err := repo.ListEligibleMarkets(ctx, opts.Venue, domain.ListEligibleMarketsOptions{
		LookbackHours: lookback,
		Limit:         limit,
		TitleKeywords: keywords,
		OrderBy:       domain.OrderByCloseTime,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]MarketWithSignals, 0, len(markets))
	for _, m := range markets {
		out = append(out, MarketWithSignals{Market: m, Signals: extractor(m, now)})
	}
	return out, nil
}
