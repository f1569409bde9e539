package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const climateAlgoVersion = "climate@1.0.0:CLIMATE"

var climateTitleKeywords = []string{"temperature", "sea ice", "hurricane season", "global mean"}

// ClimatePipeline implements the CLIMATE topic (SPEC_FULL.md §4.9).
type ClimatePipeline struct{}

func (ClimatePipeline) Topic() domain.Topic { return domain.TopicClimate }
func (ClimatePipeline) AlgoVersion() string { return climateAlgoVersion }
func (ClimatePipeline) SupportsAutoConfirm() bool { return true }
func (ClimatePipeline) SupportsAutoReject() bool { return true }

func (p ClimatePipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, climateTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractClimate(m, now)
	})
}

func (p ClimatePipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.ClimateSignals)
		if !ok {
			continue
		}
		key := climateBlockingKey(sig)
		index[key] = append(index[key], mws)
	}
	return index
}

func climateBlockingKey(sig domain.ClimateSignals) string {
	entity := ""
	if sig.Entity != nil {
		entity = *sig.Entity
	}
	return entity + "|" + sig.PeriodKey
}

func (p ClimatePipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.ClimateSignals)
	if !ok {
		return nil
	}
	return index[climateBlockingKey(sig)]
}

func (p ClimatePipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.ClimateSignals)
	rs, rok := right.Signals.(domain.ClimateSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Entity == nil || rs.Entity == nil || *ls.Entity != *rs.Entity {
		return GateResult{Passed: false, FailReason: "entity_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p ClimatePipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.ClimateSignals)
	rs := right.Signals.(domain.ClimateSignals)
	result := scoring.ScoreClimate(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.75 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p ClimatePipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	ls := left.Signals.(domain.ClimateSignals)
	rs := right.Signals.(domain.ClimateSignals)
	periodExact := ls.PeriodKey != "" && ls.PeriodKey == rs.PeriodKey
	if outcome.Score >= 0.88 && periodExact && outcome.Components["number"] >= 0.9 {
		return AutoConfirmVerdict{ShouldConfirm: true, Rule: "climate_score_floor", Confidence: outcome.Score}
	}
	return AutoConfirmVerdict{}
}

func (p ClimatePipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.55 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
