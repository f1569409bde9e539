package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

var reCasualtyCount = regexp.MustCompile(`(?i)\bkilled\b|\bcasualties\b|\bdeaths?\b`)
var reTerritorial = regexp.MustCompile(`(?i)\bcapture\b|\bcontrol of\b|\bannex\b|\btake\b.*\bcity\b`)

var geoCountryKeywords = []string{
	"russia", "ukraine", "israel", "iran", "north korea", "south korea",
	"china", "taiwan", "gaza", "lebanon",
}

// ExtractGeopolitics produces GeopoliticsSignals (SPEC_FULL.md §4.9).
func ExtractGeopolitics(m domain.Market, now time.Time) domain.GeopoliticsSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var countries []string
	for _, kw := range geoCountryKeywords {
		if strings.Contains(lower, kw) {
			countries = append(countries, kw)
		}
	}
	common := buildCommon(title, countries...)

	intent := domain.GeoOccurrence
	switch {
	case reCasualtyCount.MatchString(title):
		intent = domain.GeoCasualtyCount
	case reTerritorial.MatchString(title):
		intent = domain.GeoTerritorialControl
	}

	cmp := textutil.ParseComparator(title)
	threshold := textutil.FirstNonYearNumber(title)

	parsed := textutil.ParseDate(title, m.CloseTime, now)
	var targetDate *time.Time
	if parsed.DateType != domain.DateUnknown {
		d := parsed.TargetDate
		targetDate = &d
	}

	return domain.GeopoliticsSignals{
		Common:     common,
		Intent:     intent,
		TargetDate: targetDate,
		DateType:   parsed.DateType,
		Comparator: cmp,
		Threshold:  threshold,
	}
}
