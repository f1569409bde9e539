package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const geopoliticsAlgoVersion = "geopolitics@1.0.0:GEOPOLITICS"

var geopoliticsTitleKeywords = []string{"war", "sanction", "invade", "ceasefire", "treaty"}

// GeopoliticsPipeline implements the GEOPOLITICS topic (SPEC_FULL.md
// §4.9). Never auto-confirms: occurrence/territorial-control questions
// are too loosely phrased across venues for a safe auto-rule.
type GeopoliticsPipeline struct{}

func (GeopoliticsPipeline) Topic() domain.Topic { return domain.TopicGeopolitics }
func (GeopoliticsPipeline) AlgoVersion() string { return geopoliticsAlgoVersion }
func (GeopoliticsPipeline) SupportsAutoConfirm() bool { return false }
func (GeopoliticsPipeline) SupportsAutoReject() bool { return true }

func (p GeopoliticsPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, geopoliticsTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractGeopolitics(m, now)
	})
}

func (p GeopoliticsPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.GeopoliticsSignals)
		if !ok {
			continue
		}
		entity := ""
		if sig.Entity != nil {
			entity = *sig.Entity
		}
		key := fmt.Sprintf("%s|%s", entity, sig.Intent)
		index[key] = append(index[key], mws)
	}
	return index
}

func (p GeopoliticsPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.GeopoliticsSignals)
	if !ok {
		return nil
	}
	entity := ""
	if sig.Entity != nil {
		entity = *sig.Entity
	}
	return index[fmt.Sprintf("%s|%s", entity, sig.Intent)]
}

func (p GeopoliticsPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.GeopoliticsSignals)
	rs, rok := right.Signals.(domain.GeopoliticsSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Entity == nil || rs.Entity == nil || *ls.Entity != *rs.Entity {
		return GateResult{Passed: false, FailReason: "entity_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p GeopoliticsPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.GeopoliticsSignals)
	rs := right.Signals.(domain.GeopoliticsSignals)
	result := scoring.ScoreGeopolitics(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.70 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p GeopoliticsPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	return AutoConfirmVerdict{}
}

func (p GeopoliticsPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	ls := left.Signals.(domain.GeopoliticsSignals)
	rs := right.Signals.(domain.GeopoliticsSignals)
	if outcome.Score < 0.50 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	if ls.Intent != rs.Intent {
		return AutoRejectVerdict{ShouldReject: true, Rule: "incompatible_intent", Reason: string(ls.Intent) + " vs " + string(rs.Intent)}
	}
	return AutoRejectVerdict{}
}
