package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const financeAlgoVersion = "finance@1.0.0:FINANCE"

var financeTitleKeywords = []string{"s&p 500", "spx", "nasdaq", "dow jones", "vix", "russell 2000"}

// FinancePipeline implements the FINANCE topic (SPEC_FULL.md §4.9).
type FinancePipeline struct{}

func (FinancePipeline) Topic() domain.Topic { return domain.TopicFinance }
func (FinancePipeline) AlgoVersion() string { return financeAlgoVersion }
func (FinancePipeline) SupportsAutoConfirm() bool { return true }
func (FinancePipeline) SupportsAutoReject() bool { return true }

func (p FinancePipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, financeTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractFinance(m, now)
	})
}

func (p FinancePipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.FinanceSignals)
		if !ok {
			continue
		}
		key := sig.Instrument + "|" + sig.PeriodKey
		index[key] = append(index[key], mws)
	}
	return index
}

func (p FinancePipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.FinanceSignals)
	if !ok {
		return nil
	}
	return index[sig.Instrument+"|"+sig.PeriodKey]
}

func (p FinancePipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.FinanceSignals)
	rs, rok := right.Signals.(domain.FinanceSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Instrument == "" || rs.Instrument == "" || ls.Instrument != rs.Instrument {
		return GateResult{Passed: false, FailReason: "instrument_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p FinancePipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.FinanceSignals)
	rs := right.Signals.(domain.FinanceSignals)
	result := scoring.ScoreFinance(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.75 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p FinancePipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	ls := left.Signals.(domain.FinanceSignals)
	rs := right.Signals.(domain.FinanceSignals)
	periodExact := ls.PeriodKey != "" && ls.PeriodKey == rs.PeriodKey
	if outcome.Score >= 0.88 && periodExact && outcome.Components["number"] >= 0.9 {
		return AutoConfirmVerdict{ShouldConfirm: true, Rule: "finance_score_floor", Confidence: outcome.Score}
	}
	return AutoConfirmVerdict{}
}

func (p FinancePipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.55 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
