package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

var financeInstrumentKeywords = []string{
	"s&p 500", "spx", "sp500", "nasdaq", "dow jones", "djia", "vix", "russell 2000",
}

var reDirectionUp = regexp.MustCompile(`(?i)\b(close up|higher|rally|gain)\b`)
var reDirectionDown = regexp.MustCompile(`(?i)\b(close down|lower|decline|drop)\b`)
var reDirectionFlat = regexp.MustCompile(`(?i)\bflat\b|\bunchanged\b`)

// ExtractFinance produces FinanceSignals (SPEC_FULL.md §4.9).
func ExtractFinance(m domain.Market, now time.Time) domain.FinanceSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var instrument string
	for _, kw := range financeInstrumentKeywords {
		if strings.Contains(lower, kw) {
			instrument = kw
			break
		}
	}
	common := buildCommon(title, instrument)

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

	direction := domain.DirectionUnknown
	switch {
	case reDirectionUp.MatchString(title):
		direction = domain.DirectionUp
	case reDirectionDown.MatchString(title):
		direction = domain.DirectionDown
	case reDirectionFlat.MatchString(title):
		direction = domain.DirectionFlat
	}

	parsed := textutil.ParseDate(title, m.CloseTime, now)
	var targetDate *time.Time
	if parsed.DateType != domain.DateUnknown {
		d := parsed.TargetDate
		targetDate = &d
	}

	return domain.FinanceSignals{
		Common:        common,
		Instrument:    instrument,
		Comparator:    cmp,
		Threshold:     threshold,
		ThresholdHigh: thresholdHigh,
		Direction:     direction,
		TargetDate:    targetDate,
		DateType:      parsed.DateType,
		PeriodKey:     parsed.PeriodKey,
	}
}
