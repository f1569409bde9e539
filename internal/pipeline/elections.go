package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/extract"
	"github.com/sawpanic/marketlink/internal/scoring"
)

const electionsAlgoVersion = "elections@1.0.0:ELECTIONS"

var electionsTitleKeywords = []string{"election", "president", "senate", "governor", "primary"}

// ElectionsPipeline implements the ELECTIONS topic (spec.md §4.9).
// Auto-confirm is permanently disabled per spec.md §4.5.
type ElectionsPipeline struct{}

func (ElectionsPipeline) Topic() domain.Topic { return domain.TopicElections }
func (ElectionsPipeline) AlgoVersion() string { return electionsAlgoVersion }
func (ElectionsPipeline) SupportsAutoConfirm() bool { return false }
func (ElectionsPipeline) SupportsAutoReject() bool { return true }

func (p ElectionsPipeline) Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error) {
	return fetchAndExtract(ctx, repo, opts, electionsTitleKeywords, func(m domain.Market, now time.Time) domain.Signals {
		return extract.ExtractElections(m, now)
	})
}

func (p ElectionsPipeline) BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals {
	index := make(map[string][]MarketWithSignals)
	for _, mws := range markets {
		sig, ok := mws.Signals.(domain.ElectionsSignals)
		if !ok {
			continue
		}
		key := electionsBlockingKey(sig)
		index[key] = append(index[key], mws)
	}
	return index
}

func electionsBlockingKey(sig domain.ElectionsSignals) string {
	return fmt.Sprintf("%s|%s|%d", sig.Country, sig.Office, sig.Year)
}

func (p ElectionsPipeline) FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals {
	sig, ok := left.Signals.(domain.ElectionsSignals)
	if !ok {
		return nil
	}
	return index[electionsBlockingKey(sig)]
}

func (p ElectionsPipeline) CheckHardGates(left, right MarketWithSignals) GateResult {
	ls, lok := left.Signals.(domain.ElectionsSignals)
	rs, rok := right.Signals.(domain.ElectionsSignals)
	if !lok || !rok {
		return GateResult{Passed: false, FailReason: "signals_type_mismatch"}
	}
	if ls.Country != rs.Country {
		return GateResult{Passed: false, FailReason: "country_mismatch"}
	}
	if ls.Year != rs.Year {
		return GateResult{Passed: false, FailReason: "year_mismatch"}
	}
	if ls.Office != domain.OfficeUnknown && rs.Office != domain.OfficeUnknown && ls.Office != rs.Office {
		return GateResult{Passed: false, FailReason: "office_mismatch"}
	}
	return GateResult{Passed: true}
}

func (p ElectionsPipeline) Score(left, right MarketWithSignals) *ScoreOutcome {
	if !p.CheckHardGates(left, right).Passed {
		return nil
	}
	ls := left.Signals.(domain.ElectionsSignals)
	rs := right.Signals.(domain.ElectionsSignals)
	result := scoring.ScoreElections(ls, rs)
	tier := domain.TierWeak
	if result.Score >= 0.70 {
		tier = domain.TierStrong
	}
	return &ScoreOutcome{Score: result.Score, Reason: result.Reason(), Tier: tier, Components: result.Components}
}

func (p ElectionsPipeline) ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict {
	return AutoConfirmVerdict{}
}

func (p ElectionsPipeline) ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict {
	ls := left.Signals.(domain.ElectionsSignals)
	rs := right.Signals.(domain.ElectionsSignals)
	if outcome.Score < 0.50 {
		return AutoRejectVerdict{ShouldReject: true, Rule: "score_floor", Reason: fmt.Sprintf("score %.3f below floor", outcome.Score)}
	}
	if ls.Intent != rs.Intent {
		return AutoRejectVerdict{ShouldReject: true, Rule: "incompatible_intent", Reason: string(ls.Intent) + " vs " + string(rs.Intent)}
	}
	if len(ls.Candidates) > 0 && len(rs.Candidates) > 0 && !candidatesOverlap(ls.Candidates, rs.Candidates) {
		return AutoRejectVerdict{ShouldReject: true, Rule: "no_candidate_overlap", Reason: "candidate sets disjoint"}
	}
	return AutoRejectVerdict{}
}

func candidatesOverlap(a, b []string) bool {
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	for _, v := range a {
		if _, ok := set[v]; ok {
			return true
		}
	}
	return false
}
