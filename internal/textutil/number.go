package textutil

import (
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches dollar amounts, k/m suffixed shorthand, comma
// thousands separators, percentages, and plain integers/decimals.
var numberPattern = regexp.MustCompile(`\$?(\d[\d,]*\.?\d*)\s*([kKmM%]?)`)

// ParsedNumber is one numeric mention recognized in a title.
type ParsedNumber struct {
	Value    float64
	IsYear   bool // true if this looked like a bare 1900-2100 year, not a number
	IsPercent bool
}

// ParseNumbers extracts every numeric mention from text, normalizing k/m
// shorthand ("100k" → 100000, "1.5m" → 1500000) and comma grouping
// ("100,000" → 100000). Values in [1900, 2100] are treated as years
// (IsYear=true) unless followed by a currency/percent suffix, so
// "by 2026" doesn't get mistaken for a $2026 threshold while
// "$2026" or "2026%" still parse as numbers (spec.md §4.2 number parser).
func ParseNumbers(text string) []ParsedNumber {
	matches := numberPattern.FindAllStringSubmatchIndex(text, -1)
	var out []ParsedNumber
	for _, m := range matches {
		raw := text[m[2]:m[3]]
		suffix := ""
		if m[4] >= 0 {
			suffix = text[m[4]:m[5]]
		}
		cleaned := strings.ReplaceAll(raw, ",", "")
		val, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			continue
		}

		hasDollarPrefix := m[2] > 0 && text[m[2]-1] == '$'
		isPercent := strings.EqualFold(suffix, "%")

		switch strings.ToLower(suffix) {
		case "k":
			val *= 1_000
		case "m":
			val *= 1_000_000
		}

		isYear := false
		if val >= 1900 && val <= 2100 && suffix == "" && !hasDollarPrefix {
			isYear = true
		}

		out = append(out, ParsedNumber{Value: val, IsYear: isYear, IsPercent: isPercent})
	}
	return out
}

// FirstNonYearNumber returns the first parsed number that isn't a bare
// year, or nil if none exist. Most extractors only need the single
// threshold value a title expresses.
func FirstNonYearNumber(text string) *float64 {
	for _, n := range ParseNumbers(text) {
		if n.IsYear {
			continue
		}
		v := n.Value
		return &v
	}
	return nil
}

// rangePattern matches "between X and Y" / "$X-$Y" / "X–Y" phrasing used
// by BETWEEN-comparator markets.
var rangePattern = regexp.MustCompile(`(?i)between\s+\$?([\d,.]+)\s*(?:and|-|–|to)\s*\$?([\d,.]+)|(?:\$)([\d,.]+)\s*[-–]\s*\$?([\d,.]+)`)

// ParseRange extracts a (low, high) pair from "between X and Y" or
// "$X-$Y" phrasing. Returns ok=false if no range phrasing is present.
func ParseRange(text string) (low, high float64, ok bool) {
	m := rangePattern.FindStringSubmatch(text)
	if m == nil {
		return 0, 0, false
	}
	var lowStr, highStr string
	if m[1] != "" {
		lowStr, highStr = m[1], m[2]
	} else {
		lowStr, highStr = m[3], m[4]
	}
	lowStr = strings.ReplaceAll(lowStr, ",", "")
	highStr = strings.ReplaceAll(highStr, ",", "")
	lowVal, err1 := strconv.ParseFloat(lowStr, 64)
	highVal, err2 := strconv.ParseFloat(highStr, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	if lowVal > highVal {
		lowVal, highVal = highVal, lowVal
	}
	return lowVal, highVal, true
}
