package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

var reVersus = regexp.MustCompile(`(?i)([a-z][a-z .]*?)\s+(?:vs\.?|v\.?)\s+([a-z][a-z .]*?)\b`)
var reSpread = regexp.MustCompile(`(?i)\bspread\b|[+-]\d+(\.\d+)?\s*points?\b`)
var reTotal = regexp.MustCompile(`(?i)\btotal\b|\bover\/under\b|\bo\/u\b`)
var reProp = regexp.MustCompile(`(?i)\bprop\b|\bto score\b|\bfirst\b`)
var reHalf1 = regexp.MustCompile(`(?i)\b1st half\b|\bfirst half\b|\bh1\b`)
var reHalf2 = regexp.MustCompile(`(?i)\b2nd half\b|\bsecond half\b|\bh2\b`)
var reOvertime = regexp.MustCompile(`(?i)\bovertime\b|\bot\b`)

var leagueKeywords = map[string]string{
	"nfl": "NFL", "nba": "NBA", "mlb": "MLB", "nhl": "NHL",
	"premier league": "EPL", "epl": "EPL",
	"champions league": "UCL",
}

// ExtractSports produces SportsSignals (spec.md §4.9 SPORTS).
func ExtractSports(m domain.Market, now time.Time) domain.SportsSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var teamA, teamB string
	if tm := reVersus.FindStringSubmatch(title); tm != nil {
		teamA = strings.TrimSpace(tm[1])
		teamB = strings.TrimSpace(tm[2])
	}
	common := buildCommon(title, teamA, teamB)

	normA := textutil.NormalizeEntity(teamA)
	normB := textutil.NormalizeEntity(teamB)
	if normB < normA {
		normA, normB = normB, normA
	}

	league := ""
	for kw, code := range leagueKeywords {
		if strings.Contains(lower, kw) {
			league = code
			break
		}
	}

	marketType := domain.MarketMoneyline
	switch {
	case reSpread.MatchString(title):
		marketType = domain.MarketSpread
	case reTotal.MatchString(title):
		marketType = domain.MarketTotal
	case reProp.MatchString(title):
		marketType = domain.MarketProp
	}

	var line *float64
	if marketType == domain.MarketSpread || marketType == domain.MarketTotal {
		line = textutil.FirstNonYearNumber(title)
	}

	period := domain.PeriodFullGame
	switch {
	case reHalf1.MatchString(title):
		period = domain.PeriodH1
	case reHalf2.MatchString(title):
		period = domain.PeriodH2
	case reOvertime.MatchString(title):
		period = domain.PeriodOT
	}

	var startBucket time.Time
	if m.CloseTime != nil {
		startBucket = floorTo30Min(*m.CloseTime)
	} else {
		startBucket = floorTo30Min(now)
	}

	return domain.SportsSignals{
		Common:      common,
		League:      league,
		TeamA:       normA,
		TeamB:       normB,
		StartBucket: startBucket,
		MarketType:  marketType,
		Line:        line,
		Period:      period,
	}
}
