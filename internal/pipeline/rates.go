package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const ratesAlgoVersion = "rates@1.0.0:RATES"

var ratesTitleKeywords = []string{"fed", "fomc", "ecb", "boe", "boj", "rate decision", "interest rate"}

// RatesPipeline implements the RATES topic (spec.md §4.9).
type RatesPipeline struct{}

func (RatesPipeline) Topic() domain.Topic { return domain.TopicRates }
func (RatesPipeline) AlgoVersion() string { return ratesAlgoVersion }
func (RatesPipeline) SupportsAutoConfirm() bool { return true }
func (RatesPipeline) SupportsAutoReject() bool { return true }

func (p RatesPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, ratesTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractRates(m, now)
	})
}

func (p RatesPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.RatesSignals)
		if !ok {
			continue
		}
		key := string(sig.Bank) + "|" + sig.MeetingMonth
		index[key] = append(index[key], mws)
	}
	return index
}

func (p RatesPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.RatesSignals)
	if !ok {
		return nil
	}
	return index[string(sig.Bank)+"|"+sig.MeetingMonth]
}

func (p RatesPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.RatesSignals)
	rs, rok := right.Signals.(domain.RatesSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Bank == domain.BankUnknown || rs.Bank == domain.BankUnknown || ls.Bank != rs.Bank {
		return GateResult{Passed: false, FailReason: "bank_mismatch"}
	}
	if ls.MeetingMonth != rs.MeetingMonth {
		return GateResult{Passed: false, FailReason: "meeting_month_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p RatesPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.RatesSignals)
	rs := right.Signals.(domain.RatesSignals)
	result := scoring.ScoreRates(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.80 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p RatesPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	ls := left.Signals.(domain.RatesSignals)
	rs := right.Signals.(domain.RatesSignals)
	if outcome.Score >= 0.88 && ls.MeetingMonth == rs.MeetingMonth && ls.Bank == rs.Bank && outcome.Components["number"] >= 0.9 {
		return AutoConfirmVerdict{ShouldConfirm: true, Rule: "rates_score_floor", Confidence: outcome.Score}
	}
	return AutoConfirmVerdict{}
}

func (p RatesPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.55 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
