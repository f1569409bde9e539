package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const universalAlgoVersion = "universal@1.0.0:UNIVERSAL"

// UniversalPipeline implements the UNIVERSAL catch-all topic
// (SPEC_FULL.md §4.9): no keyword pre-filter, title-token overlap only.
// Never auto-confirms or auto-rejects — it has no structure to gate on.
type UniversalPipeline struct{}

func (UniversalPipeline) Topic() domain.Topic { return domain.TopicUniversal }
func (UniversalPipeline) AlgoVersion() string { return universalAlgoVersion }
func (UniversalPipeline) SupportsAutoConfirm() bool { return false }
func (UniversalPipeline) SupportsAutoReject() bool { return false }

func (p UniversalPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, nil, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractUniversal(m)
	})
}

func (p UniversalPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.UniversalSignals)
		if !ok {
			continue
		}
		for _, tok := range sig.TitleTokens {
			index[tok] = append(index[tok], mws)
		}
	}
	return index
}

func (p UniversalPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.UniversalSignals)
	if !ok {
		return nil
	}
	seen := make(map[int64]struct{})
	var out []MarketWithSignals
	for _, tok := range sig.TitleTokens {
		for _, cand := range index[tok] {
			if _, dup := seen[cand.Market.ID]; dup {
				continue
			}
			seen[cand.Market.ID] = struct{}{}
			out = append(out, cand)
		}
	}
	return out
}

func (p UniversalPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	_, lok := left.Signals.(domain.UniversalSignals)
	_, rok := right.Signals.(domain.UniversalSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p UniversalPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.UniversalSignals)
	rs := right.Signals.(domain.UniversalSignals)
	result := scoring.ScoreUniversal(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.5 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p UniversalPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	return AutoConfirmVerdict{}
}

func (p UniversalPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.50 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
