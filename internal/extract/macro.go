package extract

import (
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

var macroIndicatorKeywords = []string{
	"cpi", "consumer price index",
	"nonfarm payrolls", "nfp", "jobs report",
	"gdp", "gross domestic product",
	"unemployment rate", "unemployment",
	"ppi", "producer price index",
}

// ExtractMacro produces MacroSignals (spec.md §4.9 MACRO).
func ExtractMacro(m domain.Market, now time.Time) domain.MacroSignals {
	title := m.Title
	lower := strings.ToLower(title)

	var indicator string
	for _, kw := range macroIndicatorKeywords {
		if strings.Contains(lower, kw) {
			indicator = kw
			break
		}
	}
	common := buildCommon(title, indicator)

	parsed := textutil.ParseDate(title, m.CloseTime, now)

	return domain.MacroSignals{
		Common:    common,
		PeriodKey: parsed.PeriodKey,
		DateType:  parsed.DateType,
	}
}
