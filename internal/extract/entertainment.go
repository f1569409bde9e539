package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

var reAwardWinner = regexp.MustCompile(`(?i)\bwin\b|\bwins\b|\bwinner\b`)
var reReleaseDate = regexp.MustCompile(`(?i)\brelease\b|\bpremiere\b|\bdebut\b`)
var reBoxOffice = regexp.MustCompile(`(?i)\bbox office\b|\bgross(es)?\b`)
var reRating = regexp.MustCompile(`(?i)\brating\b|\brotten tomatoes\b|\bimdb\b`)

var entertainmentKeywords = []string{
	"oscars", "academy awards", "grammys", "grammy awards", "box office",
}

// ExtractEntertainment produces EntertainmentSignals (SPEC_FULL.md §4.9).
func ExtractEntertainment(m domain.Market, now time.Time) domain.EntertainmentSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var alias string
	for _, kw := range entertainmentKeywords {
		if strings.Contains(lower, kw) {
			alias = kw
			break
		}
	}
	common := buildCommon(title, alias)

	intent := domain.EntUnknown
	switch {
	case reBoxOffice.MatchString(title):
		intent = domain.EntBoxOfficeThresh
	case reRating.MatchString(title):
		intent = domain.EntRatingThreshold
	case reReleaseDate.MatchString(title):
		intent = domain.EntReleaseDate
	case reAwardWinner.MatchString(title):
		intent = domain.EntAwardWinner
	}

	cmp := textutil.ParseComparator(title)
	threshold := textutil.FirstNonYearNumber(title)

	parsed := textutil.ParseDate(title, m.CloseTime, now)
	var targetDate *time.Time
	if parsed.DateType != domain.DateUnknown {
		d := parsed.TargetDate
		targetDate = &d
	}

	return domain.EntertainmentSignals{
		Common:     common,
		Intent:     intent,
		TargetDate: targetDate,
		DateType:   parsed.DateType,
		Comparator: cmp,
		Threshold:  threshold,
	}
}
