package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const commoditiesAlgoVersion = "commodities@1.0.0:COMMODITIES"

var commoditiesTitleKeywords = []string{
	"wti", "crude oil", "brent", "natural gas", "natgas", "gold", "silver",
	"copper", "corn", "wheat",
}

// CommoditiesPipeline implements the COMMODITIES topic (spec.md §4.9).
type CommoditiesPipeline struct{}

func (CommoditiesPipeline) Topic() domain.Topic { return domain.TopicCommodities }
func (CommoditiesPipeline) AlgoVersion() string { return commoditiesAlgoVersion }
func (CommoditiesPipeline) SupportsAutoConfirm() bool { return true }
func (CommoditiesPipeline) SupportsAutoReject() bool { return true }

func (p CommoditiesPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, commoditiesTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractCommodities(m, now)
	})
}

func (p CommoditiesPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.CommoditiesSignals)
		if !ok {
			continue
		}
		key := sig.Underlying + "|" + sig.ContractMonth
		index[key] = append(index[key], mws)
	}
	return index
}

func (p CommoditiesPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.CommoditiesSignals)
	if !ok {
		return nil
	}
	return index[sig.Underlying+"|"+sig.ContractMonth]
}

func (p CommoditiesPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.CommoditiesSignals)
	rs, rok := right.Signals.(domain.CommoditiesSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Underlying == "" || rs.Underlying == "" || ls.Underlying != rs.Underlying {
		return GateResult{Passed: false, FailReason: "underlying_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p CommoditiesPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.CommoditiesSignals)
	rs := right.Signals.(domain.CommoditiesSignals)
	result := scoring.ScoreCommodities(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.75 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p CommoditiesPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	ls := left.Signals.(domain.CommoditiesSignals)
	rs := right.Signals.(domain.CommoditiesSignals)
	periodExact := ls.ContractMonth != "" && ls.ContractMonth == rs.ContractMonth
	if outcome.Score >= 0.88 && periodExact && outcome.Components["number"] >= 0.9 {
		return AutoConfirmVerdict{ShouldConfirm: true, Rule: "commodities_score_floor", Confidence: outcome.Score}
	}
	return AutoConfirmVerdict{}
}

func (p CommoditiesPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.55 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
