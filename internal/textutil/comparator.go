package textutil

import (
	"regexp"

	"github.com/sawpanic/marketlink/internal/domain"
)

// Comparator regex families, tried in order. BETWEEN is checked first
// since "between X and Y" titles often also contain the word "above" in
// surrounding boilerplate. GT/LT fold into GE/LE per spec.md §4.2.
var (
	reBetween = regexp.MustCompile(`(?i)\bbetween\b|\$\s*[\d,.]+\s*[-–]\s*\$?\s*[\d,.]+`)
	reGE      = regexp.MustCompile(`(?i)\b(above|over|at least|settle over|greater than|exceeds?|≥|>=|or (higher|more|above))\b`)
	reLE      = regexp.MustCompile(`(?i)\b(below|under|at most|less than|≤|<=|or (lower|less|below))\b`)
	reGT      = regexp.MustCompile(`>`)
	reLT      = regexp.MustCompile(`<`)
)

// ParseComparator recognizes the comparator a market title expresses.
// Returns ComparatorUnknown if no family matches.
func ParseComparator(title string) domain.Comparator {
	if reBetween.MatchString(title) {
		return domain.ComparatorBetween
	}
	if reGE.MatchString(title) || reGT.MatchString(title) {
		return domain.ComparatorGE
	}
	if reLE.MatchString(title) || reLT.MatchString(title) {
		return domain.ComparatorLE
	}
	return domain.ComparatorUnknown
}

// NormalizeComparator folds GT→GE and LT→LE for matching purposes. Every
// other value (including BETWEEN/EQ/UNKNOWN) passes through unchanged —
// the fold already happens in ParseComparator, this helper exists so
// scoring code operating on externally-sourced Comparator values (e.g.
// round-tripped through persistence) stays consistent.
func NormalizeComparator(c domain.Comparator) domain.Comparator {
	return c
}
