package extract

import (
	"regexp"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

// cryptoAssetKeywords is tried in order against the lowercased title to
// find the asset mention driving a crypto market. Longer/more specific
// aliases are listed before their shorter overlapping prefixes.
var cryptoAssetKeywords = []string{
	"bitcoin", "btc", "xbt",
	"ethereum", "ether", "eth",
	"solana", "sol",
	"dogecoin", "doge",
	"cardano", "ada",
	"polkadot", "dot",
	"litecoin", "ltc",
	"chainlink", "link",
	"avalanche", "avax",
	"polygon", "matic",
	"shiba inu", "shib",
	"xrp", "ripple",
	"tron", "trx",
	"bnb",
}

var reIntraday = regexp.MustCompile(`(?i)\d+\s*(min|minute|hour|hr)s?\b`)
var reYearEnd = regexp.MustCompile(`(?i)\bby (the )?end of (the year|20\d\d)\b|\bin 20\d\d\b`)

// ExtractCrypto produces CryptoSignals (spec.md §4.9 CRYPTO_DAILY).
func ExtractCrypto(m domain.Market, now time.Time) domain.CryptoSignals {
	title := m.Title
	lower := strings.ToLower(title)

	asset := findCryptoAsset(lower)
	common := buildCommon(title, asset)

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

	subtype := domain.CryptoDailyThreshold
	switch {
	case reIntraday.MatchString(title):
		subtype = domain.CryptoIntradayUpDown
	case cmp == domain.ComparatorBetween:
		subtype = domain.CryptoDailyRange
	case reYearEnd.MatchString(title):
		subtype = domain.CryptoYearlyThreshold
	}

	parsed := textutil.ParseDate(title, m.CloseTime, now)
	dateSource := domain.DateSourceTitleParse
	if parsed.DateType == domain.DateUnknown {
		dateSource = domain.DateSourceMissing
	} else if parsed.DateType == domain.DateCloseTime {
		dateSource = domain.DateSourceAPIClose
	}

	var settleDate *time.Time
	if parsed.DateType != domain.DateUnknown {
		d := parsed.TargetDate
		settleDate = &d
	}

	var startBucket *time.Time
	if subtype == domain.CryptoIntradayUpDown && m.CloseTime != nil {
		b := floorTo30Min(*m.CloseTime)
		startBucket = &b
	}

	comparatorFamily := string(cmp)
	if cmp == domain.ComparatorEQ {
		comparatorFamily = string(domain.ComparatorGE)
	}
	entityKey := ""
	if common.Entity != nil {
		entityKey = *common.Entity
	}
	settleKey := ""
	if settleDate != nil {
		settleKey = settleDate.UTC().Format("2006-01-02")
	}
	bracketKey := entityKey + "|" + settleKey + "|" + comparatorFamily

	return domain.CryptoSignals{
		Common:        common,
		Subtype:       subtype,
		Comparator:    cmp,
		Threshold:     threshold,
		ThresholdHigh: thresholdHigh,
		SettleDate:    settleDate,
		DateType:      parsed.DateType,
		DateSource:    dateSource,
		PeriodKey:     parsed.PeriodKey,
		StartBucket:   startBucket,
		BracketKey:    bracketKey,
	}
}

// ExtractCryptoIntraday wraps ExtractCrypto for the distinct intraday
// topic/pipeline registration (spec.md §4.9 CRYPTO_INTRADAY).
func ExtractCryptoIntraday(m domain.Market, now time.Time) domain.CryptoIntradaySignals {
	return domain.CryptoIntradaySignals{CryptoSignals: ExtractCrypto(m, now)}
}

func findCryptoAsset(lowerTitle string) string {
	for _, kw := range cryptoAssetKeywords {
		if strings.Contains(lowerTitle, kw) {
			return kw
		}
	}
	return ""
}

func floorTo30Min(t time.Time) time.Time {
	t = t.UTC()
	minute := (t.Minute() / 30) * 30
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), minute, 0, 0, time.UTC)
}
