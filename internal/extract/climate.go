package extract

import (
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

var climateKeywords = []string{
	"global mean temperature", "global average temperature",
	"sea ice extent", "atlantic hurricane season", "temperature",
}

// ExtractClimate produces ClimateSignals (SPEC_FULL.md §4.9).
func ExtractClimate(m domain.Market, now time.Time) domain.ClimateSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var alias string
	for _, kw := range climateKeywords {
		if strings.Contains(lower, kw) {
			alias = kw
			break
		}
	}
	common := buildCommon(title, alias)

	cmp := textutil.ParseComparator(title)
	var threshold, thresholdHigh *float64
	if cmp == domain.ComparatorBetween {
		if low, high, ok := textutil.ParseRange(title); ok {
			l, h := low, high
			threshold, thresholdHigh = &l, &h
		}
	} else {
		threshold = textutil.FirstNonYearNumber(title)
	}

	parsed := textutil.ParseDate(title, m.CloseTime, now)

	return domain.ClimateSignals{
		Common:        common,
		Comparator:    cmp,
		Threshold:     threshold,
		ThresholdHigh: thresholdHigh,
		DateType:      parsed.DateType,
		PeriodKey:     parsed.PeriodKey,
	}
}
