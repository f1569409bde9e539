package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
)

var bankKeywords = map[string]domain.CentralBank{
	"fed": domain.BankFed, "fomc": domain.BankFed, "federal reserve": domain.BankFed,
	"ecb": domain.BankECB, "european central bank": domain.BankECB,
	"boe": domain.BankBOE, "bank of england": domain.BankBOE,
	"boj": domain.BankBOJ, "bank of japan": domain.BankBOJ,
}

var reRateCut = regexp.MustCompile(`(?i)\bcuts?\b`)
var reRateHike = regexp.MustCompile(`(?i)\b(hikes?|raises?)\b`)
var reRateHold = regexp.MustCompile(`(?i)\bholds?\b`)
var reRatePause = regexp.MustCompile(`(?i)\bpauses?\b`)
var reBps = regexp.MustCompile(`(?i)(\d+)\s*(bps|basis points?)`)

// ExtractRates produces RatesSignals (spec.md §4.9 RATES).
func ExtractRates(m domain.Market, now time.Time) domain.RatesSignals {
	title := m.Title
	lower := strings.ToLower(title)

	bank := domain.BankUnknown
	var bankAlias string
	for kw, b := range bankKeywords {
		if strings.Contains(lower, kw) {
			bank = b
			bankAlias = kw
			break
		}
	}
	common := buildCommon(title, bankAlias)

	action := domain.RateUnknown
	switch {
	case reRateCut.MatchString(title):
		action = domain.RateCut
	case reRateHike.MatchString(title):
		action = domain.RateHike
	case reRatePause.MatchString(title):
		action = domain.RatePause
	case reRateHold.MatchString(title):
		action = domain.RateHold
	}

	var bps *int
	if m2 := reBps.FindStringSubmatch(title); m2 != nil {
		if v, err := strconv.Atoi(m2[1]); err == nil {
			bps = &v
		}
	}

	parsed := parseMeetingMonth(title, m.CloseTime, now)

	return domain.RatesSignals{
		Common:       common,
		Bank:         bank,
		Action:       action,
		Bps:          bps,
		MeetingMonth: parsed,
	}
}
