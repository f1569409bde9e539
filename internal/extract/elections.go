package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
)

var reElectionYear = regexp.MustCompile(`\b(20\d\d)\b`)
var reOfficePresident = regexp.MustCompile(`(?i)\bpresident\b|\bpresidential\b`)
var reOfficeSenate = regexp.MustCompile(`(?i)\bsenate\b|\bsenator\b`)
var reOfficeHouse = regexp.MustCompile(`(?i)\bhouse\b|\brepresentative\b`)
var reOfficeGovernor = regexp.MustCompile(`(?i)\bgovernor\b`)
var reOfficeParty = regexp.MustCompile(`(?i)\bcontrol (of|the)\b`)
var reMargin = regexp.MustCompile(`(?i)\bmargin\b|\bby how much\b`)
var reTurnout = regexp.MustCompile(`(?i)\bturnout\b`)

var electionCandidates = []string{
	"trump", "biden", "harris", "desantis", "newsom", "vance",
}

var electionCountries = map[string]string{
	"united states": "US", "u.s.": "US", "usa": "US",
	"united kingdom": "UK", "u.k.": "UK",
	"france": "FR", "germany": "DE", "japan": "JP",
}

// ExtractElections produces ElectionsSignals (spec.md §4.9 ELECTIONS).
func ExtractElections(m domain.Market, now time.Time) domain.ElectionsSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var candidates []string
	for _, c := range electionCandidates {
		if strings.Contains(lower, c) {
			candidates = append(candidates, c)
		}
	}
	common := buildCommon(title, candidates...)

	country := "US"
	for kw, code := range electionCountries {
		if strings.Contains(lower, kw) {
			country = code
			break
		}
	}

	office := domain.OfficeUnknown
	switch {
	case reOfficeParty.MatchString(title):
		office = domain.OfficePartyControl
	case reOfficePresident.MatchString(title):
		office = domain.OfficePresident
	case reOfficeSenate.MatchString(title):
		office = domain.OfficeSenate
	case reOfficeHouse.MatchString(title):
		office = domain.OfficeHouse
	case reOfficeGovernor.MatchString(title):
		office = domain.OfficeGovernor
	}

	year := now.Year()
	if ym := reElectionYear.FindStringSubmatch(title); ym != nil {
		if y, err := strconv.Atoi(ym[1]); err == nil {
			year = y
		}
	}

	intent := domain.IntentWinner
	switch {
	case reMargin.MatchString(title):
		intent = domain.IntentMargin
	case reTurnout.MatchString(title):
		intent = domain.IntentTurnout
	case office == domain.OfficePartyControl:
		intent = domain.IntentPartyControl
	}

	return domain.ElectionsSignals{
		Common:     common,
		Country:    country,
		Office:     office,
		Year:       year,
		Candidates: candidates,
		Intent:     intent,
	}
}
