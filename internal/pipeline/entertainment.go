package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const entertainmentAlgoVersion = "entertainment@1.0.0:ENTERTAINMENT"

var entertainmentTitleKeywords = []string{"oscars", "academy awards", "grammys", "box office"}

// EntertainmentPipeline implements the ENTERTAINMENT topic (SPEC_FULL.md
// §4.9). Never auto-confirms: award-winner phrasing varies too much
// across venues for a safe auto-rule.
type EntertainmentPipeline struct{}

func (EntertainmentPipeline) Topic() domain.Topic { return domain.TopicEntertainment }
func (EntertainmentPipeline) AlgoVersion() string { return entertainmentAlgoVersion }
func (EntertainmentPipeline) SupportsAutoConfirm() bool { return false }
func (EntertainmentPipeline) SupportsAutoReject() bool { return true }

func (p EntertainmentPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, entertainmentTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractEntertainment(m, now)
	})
}

func (p EntertainmentPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.EntertainmentSignals)
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

func (p EntertainmentPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.EntertainmentSignals)
	if !ok {
		return nil
	}
	entity := ""
	if sig.Entity != nil {
		entity = *sig.Entity
	}
	return index[fmt.Sprintf("%s|%s", entity, sig.Intent)]
}

func (p EntertainmentPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.EntertainmentSignals)
	rs, rok := right.Signals.(domain.EntertainmentSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Entity == nil || rs.Entity == nil || *ls.Entity != *rs.Entity {
		return GateResult{Passed: false, FailReason: "entity_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p EntertainmentPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.EntertainmentSignals)
	rs := right.Signals.(domain.EntertainmentSignals)
	result := scoring.ScoreEntertainment(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.70 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p EntertainmentPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	return AutoConfirmVerdict{}
}

func (p EntertainmentPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.50 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
