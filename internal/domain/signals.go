package domain

import "time"

// Comparator is the normalized relational operator a market's title
// expresses against a numeric threshold. GT/LT are folded into GE/LE at
// parse time so comparator scoring never has to special-case them
// (spec.md §4.2 comparator parser).
type Comparator string

const (
	ComparatorGE      Comparator = "GE"
	ComparatorLE      Comparator = "LE"
	ComparatorBetween Comparator = "BETWEEN"
	ComparatorEQ      Comparator = "EQ"
	ComparatorUnknown Comparator = "UNKNOWN"
)

// DateType classifies how precisely a settle/target date was expressed.
type DateType string

const (
	DateDayExact   DateType = "DAY_EXACT"
	DateMonthEnd   DateType = "MONTH_END"
	DateQuarter    DateType = "QUARTER"
	DateCloseTime  DateType = "CLOSE_TIME"
	DateUnknown    DateType = "UNKNOWN"
)

// DateSource records where a settle date came from. Crypto takes the
// settle date from the title parse (TITLE_PARSE) and uses the venue's
// close time only when the title names no date (API_CLOSE); a close time
// is never preferred over a parsed title date, and no extractor assigns
// FALLBACK_CLOSE.
type DateSource string

const (
	DateSourceAPIClose     DateSource = "API_CLOSE"
	DateSourceTitleParse   DateSource = "TITLE_PARSE"
	DateSourceFallbackClose DateSource = "FALLBACK_CLOSE"
	DateSourceMissing      DateSource = "MISSING"
)

// Common carries the fields every Signals variant has, per spec.md §3:
// "Every variant carries: entity, entities, titleTokens."
type Common struct {
	Entity      *string
	Entities    []string
	TitleTokens []string
}

// Signals is the discriminated, topic-specific projection of a Market's
// title/metadata produced by the pure signal extractors (spec.md §4.2).
// Concrete variants are one struct per canonical topic; pipelines type-
// assert to the variant they registered for.
type Signals interface {
	Topic() Topic
	Base() Common
}

// --- Crypto -----------------------------------------------------------

type CryptoSubtype string

const (
	CryptoDailyThreshold  CryptoSubtype = "DAILY_THRESHOLD"
	CryptoDailyRange      CryptoSubtype = "DAILY_RANGE"
	CryptoYearlyThreshold CryptoSubtype = "YEARLY_THRESHOLD"
	CryptoIntradayUpDown  CryptoSubtype = "INTRADAY_UPDOWN"
	CryptoUnknownSubtype  CryptoSubtype = "UNKNOWN"
)

type CryptoSignals struct {
	Common
	Subtype        CryptoSubtype
	Comparator     Comparator
	Threshold      *float64
	ThresholdHigh  *float64 // upper bound for BETWEEN
	SettleDate     *time.Time
	DateType       DateType
	DateSource     DateSource
	PeriodKey      string
	StartBucket    *time.Time // for INTRADAY_UPDOWN, floored to the blocking bucket
	BracketKey     string     // (entity, settleDate, comparatorFamily) key, set by ExtractCrypto and read by GroupBrackets
}

func (s CryptoSignals) Topic() Topic { return TopicCryptoDaily }
func (s CryptoSignals) Base() Common { return s.Common }

// CryptoIntradaySignals is identical in shape to CryptoSignals but is a
// distinct type so the dispatcher can register a separate pipeline for
// the intraday topic without an ambiguous Topic() method on one struct.
type CryptoIntradaySignals struct {
	CryptoSignals
}

func (s CryptoIntradaySignals) Topic() Topic { return TopicCryptoIntraday }

// --- Rates --------------------------------------------------------------

type CentralBank string

const (
	BankFed     CentralBank = "FED"
	BankECB     CentralBank = "ECB"
	BankBOE     CentralBank = "BOE"
	BankBOJ     CentralBank = "BOJ"
	BankUnknown CentralBank = "UNKNOWN"
)

type RateAction string

const (
	RateCut     RateAction = "CUT"
	RateHike    RateAction = "HIKE"
	RateHold    RateAction = "HOLD"
	RatePause   RateAction = "PAUSE"
	RateUnknown RateAction = "UNKNOWN"
)

type RatesSignals struct {
	Common
	Bank         CentralBank
	Action       RateAction
	Bps          *int
	MeetingMonth string // YYYY-MM
}

func (s RatesSignals) Topic() Topic { return TopicRates }
func (s RatesSignals) Base() Common { return s.Common }

// --- Elections ------------------------------------------------------------

type Office string

const (
	OfficePresident    Office = "PRESIDENT"
	OfficeSenate       Office = "SENATE"
	OfficeHouse        Office = "HOUSE"
	OfficeGovernor     Office = "GOVERNOR"
	OfficePartyControl Office = "PARTY_CONTROL"
	OfficeUnknown      Office = "UNKNOWN"
)

type ElectionIntent string

const (
	IntentWinner       ElectionIntent = "WINNER"
	IntentMargin       ElectionIntent = "MARGIN"
	IntentTurnout      ElectionIntent = "TURNOUT"
	IntentPartyControl ElectionIntent = "PARTY_CONTROL"
)

type ElectionsSignals struct {
	Common
	Country    string
	Office     Office
	Year       int
	State      *string
	Candidates []string
	Intent     ElectionIntent
}

func (s ElectionsSignals) Topic() Topic { return TopicElections }
func (s ElectionsSignals) Base() Common { return s.Common }

// --- Sports -----------------------------------------------------------

type SportsMarketType string

const (
	MarketMoneyline SportsMarketType = "MONEYLINE"
	MarketSpread    SportsMarketType = "SPREAD"
	MarketTotal     SportsMarketType = "TOTAL"
	MarketProp      SportsMarketType = "PROP"
)

type SportsPeriod string

const (
	PeriodFullGame SportsPeriod = "FULL_GAME"
	PeriodH1       SportsPeriod = "H1"
	PeriodH2       SportsPeriod = "H2"
	PeriodOT       SportsPeriod = "OT"
)

type SportsSignals struct {
	Common
	League      string
	TeamA       string // lexicographically sorted pair: TeamA <= TeamB
	TeamB       string
	StartBucket time.Time // floored to nearest 30-minute boundary
	MarketType  SportsMarketType
	Line        *float64
	Period      SportsPeriod
}

func (s SportsSignals) Topic() Topic { return TopicSports }
func (s SportsSignals) Base() Common { return s.Common }

// --- Commodities --------------------------------------------------------

type CommoditiesSignals struct {
	Common
	Underlying    string // OIL_WTI, OIL_BRENT, NATGAS, GOLD, SILVER, COPPER, CORN, WHEAT, ...
	ContractCode  string // futures letter code, e.g. CL, GC, NG
	TargetDate    *time.Time
	ContractMonth string // YYYY-MM
	Comparator    Comparator
	Threshold     *float64
	ThresholdHigh *float64
	DateType      DateType
	PeriodKey     string
}

func (s CommoditiesSignals) Topic() Topic { return TopicCommodities }
func (s CommoditiesSignals) Base() Common { return s.Common }

// --- Macro ----------------------------------------------------------------

type MacroSignals struct {
	Common
	PeriodKey string // YYYY-MM, YYYY-Qn, or YYYY
	DateType  DateType
}

func (s MacroSignals) Topic() Topic { return TopicMacro }
func (s MacroSignals) Base() Common { return s.Common }

// --- Geopolitics (SPEC_FULL.md §4.9) ------------------------------------

type GeoIntent string

const (
	GeoOccurrence         GeoIntent = "OCCURRENCE"
	GeoCasualtyCount      GeoIntent = "CASUALTY_COUNT"
	GeoTerritorialControl GeoIntent = "TERRITORIAL_CONTROL"
	GeoUnknown            GeoIntent = "UNKNOWN"
)

type GeopoliticsSignals struct {
	Common
	Intent     GeoIntent
	TargetDate *time.Time
	DateType   DateType
	Comparator Comparator
	Threshold  *float64
}

func (s GeopoliticsSignals) Topic() Topic { return TopicGeopolitics }
func (s GeopoliticsSignals) Base() Common { return s.Common }

// --- Entertainment (SPEC_FULL.md §4.9) -----------------------------------

type EntertainmentIntent string

const (
	EntAwardWinner      EntertainmentIntent = "AWARD_WINNER"
	EntReleaseDate      EntertainmentIntent = "RELEASE_DATE"
	EntBoxOfficeThresh  EntertainmentIntent = "BOX_OFFICE_THRESHOLD"
	EntRatingThreshold  EntertainmentIntent = "RATING_THRESHOLD"
	EntUnknown          EntertainmentIntent = "UNKNOWN"
)

type EntertainmentSignals struct {
	Common
	Intent     EntertainmentIntent
	TargetDate *time.Time
	DateType   DateType
	Comparator Comparator
	Threshold  *float64
}

func (s EntertainmentSignals) Topic() Topic { return TopicEntertainment }
func (s EntertainmentSignals) Base() Common { return s.Common }

// --- Finance (SPEC_FULL.md §4.9) ------------------------------------------

type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionFlat    Direction = "FLAT"
	DirectionUnknown Direction = "UNKNOWN"
)

type FinanceSignals struct {
	Common
	Instrument    string
	Comparator    Comparator
	Threshold     *float64
	ThresholdHigh *float64
	Direction     Direction
	TargetDate    *time.Time
	DateType      DateType
	PeriodKey     string
}

func (s FinanceSignals) Topic() Topic { return TopicFinance }
func (s FinanceSignals) Base() Common { return s.Common }

// --- Climate (SPEC_FULL.md §4.9) ------------------------------------------

type ClimateSignals struct {
	Common
	Comparator    Comparator
	Threshold     *float64
	ThresholdHigh *float64
	DateType      DateType
	PeriodKey     string
}

func (s ClimateSignals) Topic() Topic { return TopicClimate }
func (s ClimateSignals) Base() Common { return s.Common }

// --- Universal (SPEC_FULL.md §4.9) ---------------------------------------

type UniversalSignals struct {
	Common
}

func (s UniversalSignals) Topic() Topic { return TopicUniversal }
func (s UniversalSignals) Base() Common { return s.Common }
