// Package classifier assigns a canonical domain.Topic to a Market,
// trying ticker, category, tag, and title rules in precedence order
// before falling back to UNKNOWN (spec.md §4.1). The rule-table shape
// is grounded on the Polymarket labeler's DefaultRules/title-regex/
// tag-match precedence pattern from the retrieved reference pack.
package classifier

import (
	"regexp"
	"strings"

	"github.com/sawpanic/marketlink/internal/domain"
)

// TitleRule matches a topic by compiled title regex, with an optional
// tag-set fallback when the title alone is ambiguous.
type TitleRule struct {
	Topic      domain.Topic
	TitleRegex []string
	TagMatch   []string
	Confidence float64

	compiled []*regexp.Regexp
}

// tickerPrefixes maps a Kalshi-style series ticker prefix to its topic.
// Checked first: ticker prefixes are the most reliable signal when present.
var tickerPrefixes = map[string]domain.Topic{
	"KXBTC":   domain.TopicCryptoDaily,
	"KXETH":   domain.TopicCryptoDaily,
	"KXBTCD":  domain.TopicCryptoIntraday,
	"KXETHD":  domain.TopicCryptoIntraday,
	"KXCPI":   domain.TopicMacro,
	"KXGDP":   domain.TopicMacro,
	"KXPAYROLLS": domain.TopicMacro,
	"KXFED":   domain.TopicRates,
	"KXRATE":  domain.TopicRates,
	"KXPRES":  domain.TopicElections,
	"KXELEX":  domain.TopicElections,
	"KXWTI":   domain.TopicCommodities,
	"KXOIL":   domain.TopicCommodities,
	"KXGOLD":  domain.TopicCommodities,
	"KXNFL":   domain.TopicSports,
	"KXNBA":   domain.TopicSports,
	"KXMLB":   domain.TopicSports,
}

// categoryMap maps a venue's free-text Category field to a topic.
var categoryMap = map[string]domain.Topic{
	"crypto":        domain.TopicCryptoDaily,
	"cryptocurrency": domain.TopicCryptoDaily,
	"economics":     domain.TopicMacro,
	"economy":       domain.TopicMacro,
	"fed":           domain.TopicRates,
	"interest rates": domain.TopicRates,
	"politics":      domain.TopicElections,
	"elections":     domain.TopicElections,
	"commodities":   domain.TopicCommodities,
	"energy":        domain.TopicCommodities,
	"sports":        domain.TopicSports,
	"geopolitics":   domain.TopicGeopolitics,
	"world":         domain.TopicGeopolitics,
	"entertainment": domain.TopicEntertainment,
	"culture":       domain.TopicEntertainment,
	"finance":       domain.TopicFinance,
	"markets":       domain.TopicFinance,
	"climate":       domain.TopicClimate,
	"weather":       domain.TopicClimate,
}

// tagMap maps a single venue tag to a topic, checked when Category misses.
var tagMap = map[string]domain.Topic{
	"crypto": domain.TopicCryptoDaily, "defi": domain.TopicCryptoDaily,
	"cpi": domain.TopicMacro, "nfp": domain.TopicMacro, "jobs report": domain.TopicMacro,
	"fomc": domain.TopicRates, "rate decision": domain.TopicRates,
	"election": domain.TopicElections, "president": domain.TopicElections,
	"oil": domain.TopicCommodities, "gold": domain.TopicCommodities,
	"nba": domain.TopicSports, "nfl": domain.TopicSports, "mlb": domain.TopicSports, "soccer": domain.TopicSports,
	"war": domain.TopicGeopolitics, "sanctions": domain.TopicGeopolitics,
	"oscars": domain.TopicEntertainment, "grammys": domain.TopicEntertainment, "box office": domain.TopicEntertainment,
	"stocks": domain.TopicFinance, "s&p 500": domain.TopicFinance,
	"temperature": domain.TopicClimate, "hurricane": domain.TopicClimate,
}

// DefaultTitleRules is the ordered title-keyword fallback, tried after
// ticker/category/tags all miss.
func DefaultTitleRules() []TitleRule {
	return []TitleRule{
		{
			Topic: domain.TopicCryptoIntraday,
			TitleRegex: []string{
				`(?i)(bitcoin|btc|eth|ethereum).*(up|down).*\d+\s*(min|minute|hour)`,
			},
			Confidence: 0.9,
		},
		{
			Topic: domain.TopicCryptoDaily,
			TitleRegex: []string{
				`(?i)(bitcoin|btc|ethereum|eth|solana|sol|xrp|dogecoin|doge)\b.*\$\d`,
				`(?i)(bitcoin|btc|ethereum|eth).*(settle|close|price).*(above|below|between)`,
			},
			Confidence: 0.85,
		},
		{
			Topic: domain.TopicRates,
			TitleRegex: []string{
				`(?i)(fed|fomc|ecb|boe|boj).*(cut|hike|raise|pause|hold).*(rate|bps|basis point)`,
			},
			Confidence: 0.9,
		},
		{
			Topic: domain.TopicMacro,
			TitleRegex: []string{
				`(?i)\b(cpi|gdp|nonfarm payrolls|nfp|unemployment rate|ppi)\b`,
			},
			Confidence: 0.85,
		},
		{
			Topic: domain.TopicElections,
			TitleRegex: []string{
				`(?i)(win|wins|elected|nominee).*(election|president|primary|governor|senate)`,
			},
			Confidence: 0.85,
		},
		{
			Topic: domain.TopicCommodities,
			TitleRegex: []string{
				`(?i)(wti|brent|crude oil|natural gas|natgas|gold|silver|copper|corn|wheat).*(settle|close|price).*\$`,
			},
			Confidence: 0.8,
		},
		{
			Topic: domain.TopicSports,
			TitleRegex: []string{
				`(?i)\b(vs\.?|beat|defeat)\b`,
			},
			Confidence: 0.75,
		},
		{
			Topic: domain.TopicGeopolitics,
			TitleRegex: []string{
				`(?i)\b(war|strike|invade|sanction|ceasefire|treaty)\b`,
			},
			Confidence: 0.7,
		},
		{
			Topic: domain.TopicEntertainment,
			TitleRegex: []string{
				`(?i)\b(oscars|grammys|academy award|box office|album of the year)\b`,
			},
			Confidence: 0.8,
		},
		{
			Topic: domain.TopicFinance,
			TitleRegex: []string{
				`(?i)\b(s&p 500|spx|nasdaq|dow jones|vix|russell 2000)\b.*(close|settle|above|below)`,
			},
			Confidence: 0.8,
		},
		{
			Topic: domain.TopicClimate,
			TitleRegex: []string{
				`(?i)(temperature|sea ice|hurricane season|global mean)`,
			},
			Confidence: 0.75,
		},
	}
}

// Classifier assigns topics using ticker prefix, category, tags, then a
// compiled ordered title-rule list, falling back to UNKNOWN.
type Classifier struct {
	titleRules []TitleRule
}

// New compiles DefaultTitleRules. Invalid regexes are skipped, mirroring
// the defensive compile-and-skip behavior of the reference labeler.
func New() *Classifier {
	c := &Classifier{titleRules: DefaultTitleRules()}
	for i := range c.titleRules {
		for _, raw := range c.titleRules[i].TitleRegex {
			if re, err := regexp.Compile(raw); err == nil {
				c.titleRules[i].compiled = append(c.titleRules[i].compiled, re)
			}
		}
	}
	return c
}

// Classify runs the full precedence chain against one market.
func (c *Classifier) Classify(m domain.Market) domain.Classification {
	if m.SeriesTicker != nil {
		prefix := tickerPrefix(*m.SeriesTicker)
		if topic, ok := tickerPrefixes[prefix]; ok {
			return domain.Classification{
				Topic: topic, Confidence: 0.99, Source: domain.SourceTicker,
				Rationale: "ticker prefix " + prefix,
			}
		}
	}

	if m.Category != nil {
		key := strings.ToLower(strings.TrimSpace(*m.Category))
		if topic, ok := categoryMap[key]; ok {
			return domain.Classification{
				Topic: topic, Confidence: 0.9, Source: domain.SourceCategory,
				Rationale: "category " + key,
			}
		}
	}

	for _, tag := range m.Tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if topic, ok := tagMap[key]; ok {
			return domain.Classification{
				Topic: topic, Confidence: 0.85, Source: domain.SourceTags,
				Rationale: "tag " + key,
			}
		}
	}

	for _, rule := range c.titleRules {
		for _, re := range rule.compiled {
			if re.MatchString(m.Title) {
				return domain.Classification{
					Topic: rule.Topic, Confidence: rule.Confidence, Source: domain.SourceTitle,
					Rationale: "title matched " + re.String(),
				}
			}
		}
	}

	return domain.Classification{
		Topic: domain.TopicUnknown, Confidence: 0, Source: domain.SourceFallback,
		Rationale: "no rule matched",
	}
}

func tickerPrefix(ticker string) string {
	ticker = strings.ToUpper(ticker)
	for i, r := range ticker {
		if r >= '0' && r <= '9' {
			return ticker[:i]
		}
	}
	return ticker
}
