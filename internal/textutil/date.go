package textutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
)

var monthNames = map[string]time.Month{
	"january": time.January, "jan": time.January,
	"february": time.February, "feb": time.February,
	"march": time.March, "mar": time.March,
	"april": time.April, "apr": time.April,
	"may": time.May,
	"june": time.June, "jun": time.June,
	"july": time.July, "jul": time.July,
	"august": time.August, "aug": time.August,
	"september": time.September, "sep": time.September, "sept": time.September,
	"october": time.October, "oct": time.October,
	"november": time.November, "nov": time.November,
	"december": time.December, "dec": time.December,
}

var monthAlt = func() string {
	var names []string
	for k := range monthNames {
		names = append(names, k)
	}
	return strings.Join(names, "|")
}()

var (
	reFinalTradingDay = regexp.MustCompile(`(?i)final trading day of\s+(` + monthAlt + `)\s*,?\s*(\d{4})?`)
	reDayExact        = regexp.MustCompile(`(?i)(` + monthAlt + `)\s+(\d{1,2})(?:st|nd|rd|th)?,?\s*(\d{4})?`)
	reContractMonth   = regexp.MustCompile(`(?i)\b(?:on|in|for|by)\s+(` + monthAlt + `)\s*(\d{4})?`)
)

// ParsedDate is the (dateType, targetDate, periodKey) triple spec.md
// §4.2's date parser yields.
type ParsedDate struct {
	DateType   domain.DateType
	TargetDate time.Time
	PeriodKey  string
}

// ParseDate tries the three title-parse families in order, then falls
// back to closeTime. now is used to fill in an omitted year.
func ParseDate(title string, closeTime *time.Time, now time.Time) ParsedDate {
	if m := reFinalTradingDay.FindStringSubmatch(title); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		year := now.Year()
		if m[2] != "" {
			year, _ = strconv.Atoi(m[2])
		}
		last := lastDayOfMonth(year, month)
		return ParsedDate{
			DateType:   domain.DateMonthEnd,
			TargetDate: last,
			PeriodKey:  fmt.Sprintf("%04d-%02d", year, month),
		}
	}

	if m := reDayExact.FindStringSubmatch(title); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		year := now.Year()
		if m[3] != "" {
			year, _ = strconv.Atoi(m[3])
		}
		d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		return ParsedDate{
			DateType:   domain.DateDayExact,
			TargetDate: d,
			PeriodKey:  fmt.Sprintf("%04d-%02d", year, month),
		}
	}

	if m := reContractMonth.FindStringSubmatch(title); m != nil {
		month := monthNames[strings.ToLower(m[1])]
		year := now.Year()
		if m[2] != "" {
			year, _ = strconv.Atoi(m[2])
		}
		return ParsedDate{
			DateType:   domain.DateQuarter,
			TargetDate: lastDayOfMonth(year, month),
			PeriodKey:  fmt.Sprintf("%04d-%02d", year, month),
		}
	}

	if closeTime != nil {
		return ParsedDate{
			DateType:   domain.DateCloseTime,
			TargetDate: *closeTime,
			PeriodKey:  closeTime.Format("2006-01"),
		}
	}

	return ParsedDate{DateType: domain.DateUnknown}
}

func lastDayOfMonth(year int, month time.Month) time.Time {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC)
	return firstOfNext.Add(-24 * time.Hour)
}

// QuarterOf returns the quarter key (YYYY-Qn) containing t.
func QuarterOf(t time.Time) string {
	q := (int(t.Month())-1)/3 + 1
	return fmt.Sprintf("%04d-Q%d", t.Year(), q)
}

// PeriodCompatibilityKind enumerates how two period keys/dates relate,
// per spec.md §4.4's isPeriodCompatible predicate.
type PeriodCompatibilityKind string

const (
	CompatExact             PeriodCompatibilityKind = "exact"
	CompatMonthInQuarter    PeriodCompatibilityKind = "month_in_quarter"
	CompatQuarterContainsMonth PeriodCompatibilityKind = "quarter_contains_month"
	CompatSameYear          PeriodCompatibilityKind = "same_year"
	CompatAdjacentMonth     PeriodCompatibilityKind = "adjacent_month"
	CompatIncompatible      PeriodCompatibilityKind = "incompatible"
)

// IsPeriodCompatible classifies the relationship between two target
// dates carrying their own DateType. A nil/incompatible result is always
// treated as CompatIncompatible by callers (spec.md §9 open question).
func IsPeriodCompatible(aDate time.Time, aType domain.DateType, bDate time.Time, bType domain.DateType) PeriodCompatibilityKind {
	if sameDay(aDate, bDate) {
		return CompatExact
	}
	if aDate.Year() == bDate.Year() && aDate.Month() == bDate.Month() {
		return CompatExact
	}
	aq, bq := quarterNum(aDate), quarterNum(bDate)
	if aDate.Year() == bDate.Year() && aq == bq {
		if aType == domain.DateQuarter || bType == domain.DateQuarter {
			if aType == domain.DateQuarter && bType != domain.DateQuarter {
				return CompatQuarterContainsMonth
			}
			if bType == domain.DateQuarter && aType != domain.DateQuarter {
				return CompatMonthInQuarter
			}
		}
	}
	if isAdjacentMonth(aDate, bDate) {
		return CompatAdjacentMonth
	}
	if aDate.Year() == bDate.Year() {
		return CompatSameYear
	}
	return CompatIncompatible
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func quarterNum(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func isAdjacentMonth(a, b time.Time) bool {
	am := a.Year()*12 + int(a.Month())
	bm := b.Year()*12 + int(b.Month())
	diff := am - bm
	if diff < 0 {
		diff = -diff
	}
	return diff == 1
}
