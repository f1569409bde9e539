package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const sportsAlgoVersion = "sports@1.0.0:SPORTS"

var sportsTitleKeywords = []string{"vs", " v ", "moneyline", "spread", "total", "over/under"}

// SportsPipeline implements the SPORTS topic (spec.md §4.9). Only the
// moneyline market type ever auto-confirms (spec.md §4.5).
type SportsPipeline struct{}

func (SportsPipeline) Topic() domain.Topic { return domain.TopicSports }
func (SportsPipeline) AlgoVersion() string { return sportsAlgoVersion }
func (SportsPipeline) SupportsAutoConfirm() bool { return true }
func (SportsPipeline) SupportsAutoReject() bool { return true }

func (p SportsPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, sportsTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractSports(m, now)
	})
}

func (p SportsPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.SportsSignals)
		if !ok {
			continue
		}
		key := sportsBlockingKey(sig)
		index[key] = append(index[key], mws)
	}
	return index
}

func sportsBlockingKey(sig domain.SportsSignals) string {
	return fmt.Sprintf("%s|%s|%s|%s", sig.League, sig.TeamA, sig.TeamB, sig.StartBucket.Format(time.RFC3339))
}

func (p SportsPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.SportsSignals)
	if !ok {
		return nil
	}
	key := sportsBlockingKey(sig)
	if cands, ok := index[key]; ok && len(cands) > 0 {
		return cands
	}
	// Broaden by dropping the strict time bucket when it yields nothing
	// (spec.md §4.3: "may broaden by falling back to weaker keys").
	prefix := fmt.Sprintf("%s|%s|%s|", sig.League, sig.TeamA, sig.TeamB)
	var fallback []MarketWithSignals
	for k, cands := range index {
		if len(k) >= len(prefix) && k[:len(prefix)] == prefix {
			fallback = append(fallback, cands...)
		}
	}
	return fallback
}

func (p SportsPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.SportsSignals)
	rs, rok := right.Signals.(domain.SportsSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.League != rs.League {
		return GateResult{Passed: false, FailReason: "league_mismatch"}
	}
	if ls.TeamA != rs.TeamA || ls.TeamB != rs.TeamB {
		return GateResult{Passed: false, FailReason: "teams_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p SportsPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.SportsSignals)
	rs := right.Signals.(domain.SportsSignals)
	result := scoring.ScoreSports(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.80 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p SportsPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	ls := left.Signals.(domain.SportsSignals)
	rs := right.Signals.(domain.SportsSignals)
	if ls.MarketType != domain.MarketMoneyline || rs.MarketType != domain.MarketMoneyline {
		return AutoConfirmVerdict{}
	}
	if outcome.Score >= 0.92 && ls.League == rs.League && ls.TeamA == rs.TeamA && ls.TeamB == rs.TeamB &&
		outcome.Components["time"] >= 1.0 {
		return AutoConfirmVerdict{ShouldConfirm: true, Rule: "MONEYLINE_EXACT_EVENT_MATCH", Confidence: outcome.Score}
	}
	return AutoConfirmVerdict{}
}

func (p SportsPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	if outcome.Score < 0.50 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	return AutoRejectVerdict{}
}
