package pipeline

import (
	"math"

	"github.com/sawpanic/marketlink/internal/domain"
)

// LinkCandidate is one scored, not-yet-persisted pairing, the unit
// bracket grouping and the engine's upsert step operate on.
type LinkCandidate struct {
	Left    MarketWithSignals
	Right   MarketWithSignals
	Outcome ScoreOutcome
}

// GroupBrackets implements spec.md §4.6: candidates sharing a crypto
// bracketKey are grouped, and only the representative — the one whose
// threshold sits closest to the opposing venue's threshold — survives,
// unless a non-representative member scored strictly higher. Only
// candidates whose left signals are domain.CryptoSignals are grouped;
// all others, CRYPTO_INTRADAY's CryptoIntradaySignals included, pass
// through unchanged.
func GroupBrackets(candidates []LinkCandidate) []LinkCandidate {
	groups := make(map[string][]LinkCandidate)
	var ungrouped []LinkCandidate

	for _, c := range candidates {
		sig, ok := c.Left.Signals.(domain.CryptoSignals)
		if !ok {
			ungrouped = append(ungrouped, c)
			continue
		}
		groups[sig.BracketKey] = append(groups[sig.BracketKey], c)
	}

	out := append([]LinkCandidate{}, ungrouped...)
	for _, group := range groups {
		out = append(out, selectRepresentative(group)...)
	}
	return out
}

func selectRepresentative(group []LinkCandidate) []LinkCandidate {
	if len(group) <= 1 {
		return group
	}

	repIdx := 0
	bestDiff := math.MaxFloat64
	for i, c := range group {
		ls, lok := c.Left.Signals.(domain.CryptoSignals)
		rs, rok := c.Right.Signals.(domain.CryptoSignals)
		if !lok || !rok || ls.Threshold == nil || rs.Threshold == nil {
			continue
		}
		diff := math.Abs(*ls.Threshold - *rs.Threshold)
		if diff < bestDiff {
			bestDiff = diff
			repIdx = i
		}
	}

	rep := group[repIdx]
	out := []LinkCandidate{rep}
	for i, c := range group {
		if i == repIdx {
			continue
		}
		if c.Outcome.Score > rep.Outcome.Score {
			out = append(out, c)
		}
	}
	return out
}
