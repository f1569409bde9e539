package extract

import (
	"github.com/sawpanic/marketlink/internal/domain"
)

// ExtractUniversal produces UniversalSignals, the catch-all topic for
// markets classified UNIVERSAL — title tokens and entities only, no
// topic-specific structure (SPEC_FULL.md §4.9).
func ExtractUniversal(m domain.Market) domain.UniversalSignals {
	return domain.UniversalSignals{Common: buildCommon(m.Title)}
}
