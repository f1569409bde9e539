// Package scoring implements the weighted component scores shared by
// every topic pipeline (spec.md §4.4) and the per-topic composite score
// functions built on top of them.
package scoring

import (
	"math"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

// Clamp01 clamps v into [0,1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// EntityScore is 1.0 on exact (already-normalized) match, 0.0 otherwise.
// Most topics treat this as a hard gate rather than a soft component.
func EntityScore(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return 0
}

// DateScore scores two (targetDate, dateType) pairs per spec.md §4.4's
// table, delegating compatibility classification to
// textutil.IsPeriodCompatible.
func DateScore(aDate time.Time, aType domain.DateType, bDate time.Time, bType domain.DateType) float64 {
	if aType == domain.DateUnknown || bType == domain.DateUnknown {
		return 0
	}
	kind := textutil.IsPeriodCompatible(aDate, aType, bDate, bType)
	switch kind {
	case textutil.CompatExact:
		if aType == bType {
			return 1.0
		}
		return 0.85
	case textutil.CompatQuarterContainsMonth, textutil.CompatMonthInQuarter:
		return 0.7
	case textutil.CompatAdjacentMonth:
		return 0.4
	default:
		return 0
	}
}

// ComparatorScore implements spec.md §4.4's comparator table. Callers
// must have already folded GT→GE / LT→LE (textutil.ParseComparator
// does this at extraction time).
func ComparatorScore(a, b domain.Comparator) float64 {
	if a == domain.ComparatorUnknown || b == domain.ComparatorUnknown {
		return 0.5
	}
	if a == b {
		return 1.0
	}
	oneBetween := a == domain.ComparatorBetween || b == domain.ComparatorBetween
	if oneBetween {
		other := a
		if a == domain.ComparatorBetween {
			other = b
		}
		if other == domain.ComparatorGE || other == domain.ComparatorLE {
			return 0.3
		}
	}
	if (a == domain.ComparatorGE && b == domain.ComparatorLE) ||
		(a == domain.ComparatorLE && b == domain.ComparatorGE) {
		return 0.0
	}
	return 0.5
}

// NumberScore scores a single threshold pair per spec.md §4.4: exact
// within tolerance max(1.0, 0.1%) is 1.0, partial credit out to a 10%
// relative gap, 0 beyond that.
func NumberScore(a, b *float64) float64 {
	if a == nil || b == nil {
		return 0.5
	}
	diff := math.Abs(*a - *b)
	tolerance := math.Max(1.0, 0.001*math.Max(math.Abs(*a), math.Abs(*b)))
	if diff <= tolerance {
		return 1.0
	}
	maxAbs := math.Max(math.Abs(*a), math.Abs(*b))
	if maxAbs == 0 {
		return 0
	}
	relGap := diff / maxAbs
	if relGap >= 0.10 {
		return 0
	}
	return Clamp01(1.0 - relGap/0.10)
}

// RangeScore scores a (low, high) pair against another, per spec.md
// §4.4's range rule: Jaccard-like overlap ≥ 0.90 or both endpoints
// within tolerance yields full credit.
func RangeScore(aLow, aHigh, bLow, bHigh float64) float64 {
	lowDiff := math.Abs(aLow - bLow)
	highDiff := math.Abs(aHigh - bHigh)
	lowTol := math.Max(1.0, 0.001*math.Max(math.Abs(aLow), math.Abs(bLow)))
	highTol := math.Max(1.0, 0.001*math.Max(math.Abs(aHigh), math.Abs(bHigh)))
	if lowDiff <= lowTol && highDiff <= highTol {
		return 1.0
	}

	overlapLow := math.Max(aLow, bLow)
	overlapHigh := math.Min(aHigh, bHigh)
	overlap := math.Max(0, overlapHigh-overlapLow)
	unionLow := math.Min(aLow, bLow)
	unionHigh := math.Max(aHigh, bHigh)
	union := unionHigh - unionLow
	if union <= 0 {
		return 0
	}
	ratio := overlap / union
	if ratio >= 0.90 {
		return 1.0
	}
	return Clamp01(ratio)
}

// TextScore is the Jaccard similarity of two title token sets.
func TextScore(aTokens, bTokens []string) float64 {
	a := textutil.TokenSet(aTokens)
	b := textutil.TokenSet(bTokens)
	return textutil.JaccardSimilarity(a, b)
}

// TimeProximityScore scores two 30-minute-bucketed start times per
// spec.md §4.4: 1.0 same bucket, 0.7 adjacent bucket, 0 else.
func TimeProximityScore(a, b time.Time) float64 {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 1.0
	case diff <= 30*time.Minute:
		return 0.7
	default:
		return 0
	}
}

// CloseTimeDecayScore linearly decays across the breakpoints spec.md
// §4.4 names for close-time-only proximity: 12h, 24h, 48h, 168h.
func CloseTimeDecayScore(a, b time.Time) float64 {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	h := diff.Hours()
	switch {
	case h <= 12:
		return 1.0
	case h <= 24:
		return 1.0 - 0.3*(h-12)/12
	case h <= 48:
		return 0.7 - 0.4*(h-24)/24
	case h <= 168:
		return 0.3 - 0.3*(h-48)/120
	default:
		return 0
	}
}

// Bonus is a small (≤0.10) additive adjustment applied after the
// weighted sum, per spec.md §4.4's "candidate / event / state / side
// bonuses" clause.
type Bonus struct {
	Name  string
	Value float64
}

// ApplyBonuses sums bonuses onto a base score and re-clamps to [0,1].
func ApplyBonuses(base float64, bonuses ...Bonus) float64 {
	total := base
	for _, b := range bonuses {
		total += b.Value
	}
	return Clamp01(total)
}
