package scoring

import (
	"github.com/sawpanic/marketlink/internal/domain"
)

// The weight maps below preserve the ratios from spec.md §4.4's
// per-topic table; the table is explicitly "illustrative" about exact
// decimals, so these are normalized directly off the published numbers.

var cryptoWeights = map[string]float64{"entity": 0.45, "date": 0.25, "comparator": 0.10, "number": 0.15, "text": 0.05}
var macroWeights = map[string]float64{"entity": 0.50, "date": 0.35, "text": 0.15}
var ratesWeights = map[string]float64{"entity": 0.30, "date": 0.30, "number": 0.25, "text": 0.15}
var commoditiesWeights = map[string]float64{"entity": 0.45, "date": 0.30, "comparator": 0.10, "number": 0.10, "text": 0.05}
var electionsWeights = map[string]float64{"country": 0.20, "year": 0.15, "text": 0.20, "office": 0.20, "candidates": 0.25}
var sportsWeights = map[string]float64{"time": 0.15, "line": 0.15, "text": 0.10, "league": 0.25, "teams": 0.25, "marketType": 0.10}
var financeWeights = map[string]float64{"instrument": 0.35, "date": 0.15, "number": 0.25, "text": 0.10, "direction": 0.15}

// genericWeights covers Geopolitics / Entertainment / Climate, the
// topics SPEC_FULL.md §4.9 supplements but spec.md's illustrative table
// doesn't itemize; shaped like Commodities since both are
// entity+date+comparator+number driven.
var genericWeights = map[string]float64{"entity": 0.40, "date": 0.30, "comparator": 0.15, "number": 0.10, "text": 0.05}

// ScoreCrypto composites CryptoSignals per the crypto-daily weight row.
func ScoreCrypto(left, right domain.CryptoSignals) Result {
	entity := EntityScore(primaryEntity(left.Base()), primaryEntity(right.Base()))
	date := DateScore(timeOrZero(left.SettleDate), left.DateType, timeOrZero(right.SettleDate), right.DateType)
	comparator := ComparatorScore(left.Comparator, right.Comparator)
	var number float64
	if left.Comparator == domain.ComparatorBetween && right.Comparator == domain.ComparatorBetween {
		number = rangeScoreFromPtrs(left.Threshold, left.ThresholdHigh, right.Threshold, right.ThresholdHigh)
	} else {
		number = NumberScore(left.Threshold, right.Threshold)
	}
	text := TextScore(left.TitleTokens, right.TitleTokens)

	return NewResult(map[string]float64{
		"entity": entity, "date": date, "comparator": comparator, "number": number, "text": text,
	}, cryptoWeights)
}

// ScoreMacro composites MacroSignals per the macro weight row.
func ScoreMacro(left, right domain.MacroSignals) Result {
	entity := EntityScore(primaryEntity(left.Base()), primaryEntity(right.Base()))
	date := DateScore(periodKeyDate(left.PeriodKey), left.DateType, periodKeyDate(right.PeriodKey), right.DateType)
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{"entity": entity, "date": date, "text": text}, macroWeights)
}

// ScoreRates composites RatesSignals per the rates weight row.
func ScoreRates(left, right domain.RatesSignals) Result {
	entity := 0.0
	if left.Bank != domain.BankUnknown && left.Bank == right.Bank {
		entity = 1.0
	}
	date := 0.0
	if left.MeetingMonth != "" && left.MeetingMonth == right.MeetingMonth {
		date = 1.0
	}
	number := bpsScore(left.Bps, right.Bps)
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"entity": entity, "date": date, "number": number, "text": text,
	}, ratesWeights)
}

// ScoreCommodities composites CommoditiesSignals per the commodities row.
func ScoreCommodities(left, right domain.CommoditiesSignals) Result {
	entity := EntityScore(left.Underlying, right.Underlying)
	date := DateScore(timeOrZero(left.TargetDate), left.DateType, timeOrZero(right.TargetDate), right.DateType)
	comparator := ComparatorScore(left.Comparator, right.Comparator)
	var number float64
	if left.Comparator == domain.ComparatorBetween && right.Comparator == domain.ComparatorBetween {
		number = rangeScoreFromPtrs(left.Threshold, left.ThresholdHigh, right.Threshold, right.ThresholdHigh)
	} else {
		number = NumberScore(left.Threshold, right.Threshold)
	}
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"entity": entity, "date": date, "comparator": comparator, "number": number, "text": text,
	}, commoditiesWeights)
}

// ScoreElections composites ElectionsSignals per the elections row.
func ScoreElections(left, right domain.ElectionsSignals) Result {
	country := EntityScore(left.Country, right.Country)
	year := 0.0
	if left.Year == right.Year {
		year = 1.0
	}
	office := 0.0
	if left.Office != domain.OfficeUnknown && left.Office == right.Office {
		office = 1.0
	}
	candidates := setOverlapScore(left.Candidates, right.Candidates)
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"country": country, "year": year, "office": office, "candidates": candidates, "text": text,
	}, electionsWeights)
}

// ScoreSports composites SportsSignals per the sports row.
func ScoreSports(left, right domain.SportsSignals) Result {
	league := EntityScore(left.League, right.League)
	teams := 0.0
	if left.TeamA == right.TeamA && left.TeamB == right.TeamB {
		teams = 1.0
	}
	marketType := 0.0
	if left.MarketType == right.MarketType {
		marketType = 1.0
	}
	timeScore := TimeProximityScore(left.StartBucket, right.StartBucket)
	line := lineScore(left.Line, right.Line)
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"league": league, "teams": teams, "marketType": marketType, "time": timeScore, "line": line, "text": text,
	}, sportsWeights)
}

// ScoreFinance composites FinanceSignals per the finance weight row.
func ScoreFinance(left, right domain.FinanceSignals) Result {
	instrument := EntityScore(left.Instrument, right.Instrument)
	date := DateScore(timeOrZero(left.TargetDate), left.DateType, timeOrZero(right.TargetDate), right.DateType)
	number := NumberScore(left.Threshold, right.Threshold)
	direction := 0.0
	if left.Direction != domain.DirectionUnknown && left.Direction == right.Direction {
		direction = 1.0
	}
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"instrument": instrument, "date": date, "number": number, "direction": direction, "text": text,
	}, financeWeights)
}

// ScoreGeopolitics composites GeopoliticsSignals using genericWeights.
func ScoreGeopolitics(left, right domain.GeopoliticsSignals) Result {
	entity := EntityScore(primaryEntity(left.Base()), primaryEntity(right.Base()))
	date := DateScore(timeOrZero(left.TargetDate), left.DateType, timeOrZero(right.TargetDate), right.DateType)
	comparator := ComparatorScore(left.Comparator, right.Comparator)
	number := NumberScore(left.Threshold, right.Threshold)
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"entity": entity, "date": date, "comparator": comparator, "number": number, "text": text,
	}, genericWeights)
}

// ScoreEntertainment composites EntertainmentSignals using genericWeights.
func ScoreEntertainment(left, right domain.EntertainmentSignals) Result {
	entity := EntityScore(primaryEntity(left.Base()), primaryEntity(right.Base()))
	date := DateScore(timeOrZero(left.TargetDate), left.DateType, timeOrZero(right.TargetDate), right.DateType)
	comparator := ComparatorScore(left.Comparator, right.Comparator)
	number := NumberScore(left.Threshold, right.Threshold)
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"entity": entity, "date": date, "comparator": comparator, "number": number, "text": text,
	}, genericWeights)
}

// ScoreClimate composites ClimateSignals using genericWeights.
func ScoreClimate(left, right domain.ClimateSignals) Result {
	entity := EntityScore(primaryEntity(left.Base()), primaryEntity(right.Base()))
	date := DateScore(periodKeyDate(left.PeriodKey), left.DateType, periodKeyDate(right.PeriodKey), right.DateType)
	comparator := ComparatorScore(left.Comparator, right.Comparator)
	number := NumberScore(left.Threshold, right.Threshold)
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{
		"entity": entity, "date": date, "comparator": comparator, "number": number, "text": text,
	}, genericWeights)
}

// ScoreUniversal composites UniversalSignals on text overlap alone —
// there is no topic-specific structure to compare.
func ScoreUniversal(left, right domain.UniversalSignals) Result {
	text := TextScore(left.TitleTokens, right.TitleTokens)
	return NewResult(map[string]float64{"text": text}, map[string]float64{"text": 1.0})
}
