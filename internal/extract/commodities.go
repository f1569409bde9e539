package extract

import (
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

var commodityKeywords = map[string]struct {
	Underlying   string
	ContractCode string
}{
	"wti":          {"OIL_WTI", "CL"},
	"crude oil":    {"OIL_WTI", "CL"},
	"brent":        {"OIL_BRENT", "BZ"},
	"natural gas":  {"NATGAS", "NG"},
	"natgas":       {"NATGAS", "NG"},
	"gold":         {"GOLD", "GC"},
	"silver":       {"SILVER", "SI"},
	"copper":       {"COPPER", "HG"},
	"corn":         {"CORN", "ZC"},
	"wheat":        {"WHEAT", "ZW"},
}

// ExtractCommodities produces CommoditiesSignals (spec.md §4.9 COMMODITIES).
func ExtractCommodities(m domain.Market, now time.Time) domain.CommoditiesSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var underlying, contractCode, alias string
	for kw, info := range commodityKeywords {
		if strings.Contains(lower, kw) {
			underlying, contractCode, alias = info.Underlying, info.ContractCode, kw
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
	var targetDate *time.Time
	if parsed.DateType != domain.DateUnknown {
		d := parsed.TargetDate
		targetDate = &d
	}

	return domain.CommoditiesSignals{
		Common:        common,
		Underlying:    underlying,
		ContractCode:  contractCode,
		TargetDate:    targetDate,
		ContractMonth: parsed.PeriodKey,
		Comparator:    cmp,
		Threshold:     threshold,
		ThresholdHigh: thresholdHigh,
		DateType:      parsed.DateType,
		PeriodKey:     parsed.PeriodKey,
	}
}
