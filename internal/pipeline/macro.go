package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
	"github.com/sawpanic/marketlink/internal/textutil"
)

const macroAlgoVersion = "macro@1.0.0:MACRO"

var macroTitleKeywords = []string{
	"cpi", "consumer price index", "nonfarm payrolls", "nfp", "jobs report",
	"gdp", "gross domestic product", "unemployment", "ppi",
}

// MacroPipeline implements the MACRO topic (spec.md §4.9).
type MacroPipeline struct{}

func (MacroPipeline) Topic() domain.Topic { return domain.TopicMacro }
func (MacroPipeline) AlgoVersion() string { return macroAlgoVersion }
func (MacroPipeline) SupportsAutoConfirm() bool { return true }
func (MacroPipeline) SupportsAutoReject() bool { return true }

func (p MacroPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, macroTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractMacro(m, now)
	})
}

func (p MacroPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.MacroSignals)
		if !ok {
			continue
		}
		key := macroBlockingKey(sig)
		index[key] = append(index[key], mws)
	}
	return index
}

func macroBlockingKey(sig domain.MacroSignals) string {
	entity := ""
	if sig.Entity != nil {
		entity = *sig.Entity
	}
	return entity + "|" + sig.PeriodKey
}

func (p MacroPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.MacroSignals)
	if !ok {
		return nil
	}
	return index[macroBlockingKey(sig)]
}

func (p MacroPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.MacroSignals)
	rs, rok := right.Signals.(domain.MacroSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Entity == nil || rs.Entity == nil || *ls.Entity != *rs.Entity {
		return GateResult{Passed: false, FailReason: "indicator_mismatch"}
	}
	kind := textutil.IsPeriodCompatible(scoring.PeriodKeyDate(ls.PeriodKey), ls.DateType, scoring.PeriodKeyDate(rs.PeriodKey), rs.DateType)
	if kind == textutil.CompatIncompatible {
		return GateResult{Passed: false, FailReason: "period_incompatible"}
	}
	return GateResult{Passed: true}
}

func (p MacroPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.MacroSignals)
	rs := right.Signals.(domain.MacroSignals)
	result := scoring.ScoreMacro(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.80 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p MacroPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	ls := left.Signals.(domain.MacroSignals)
	rs := right.Signals.(domain.MacroSignals)
	periodExact := ls.PeriodKey != "" && ls.PeriodKey == rs.PeriodKey
	entityStrong := outcome.Components["entity"] >= 1.0
	if outcome.Score >= 0.88 && periodExact && entityStrong {
		return AutoConfirmVerdict{ShouldConfirm: true, Rule: "macro_score_floor", Confidence: outcome.Score}
	}
	return AutoConfirmVerdict{}
}

func (p MacroPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.55 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
