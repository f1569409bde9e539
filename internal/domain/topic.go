package domain

// Topic is the canonical classification assigned to every Market by the
// topic classifier (spec.md §4.1) and used to select a Pipeline.
type Topic string

const (
	TopicCryptoDaily    Topic = "CRYPTO_DAILY"
	TopicCryptoIntraday Topic = "CRYPTO_INTRADAY"
	TopicMacro          Topic = "MACRO"
	TopicRates          Topic = "RATES"
	TopicElections      Topic = "ELECTIONS"
	TopicCommodities    Topic = "COMMODITIES"
	TopicSports         Topic = "SPORTS"
	TopicGeopolitics    Topic = "GEOPOLITICS"
	TopicEntertainment  Topic = "ENTERTAINMENT"
	TopicFinance        Topic = "FINANCE"
	TopicClimate        Topic = "CLIMATE"
	TopicUniversal      Topic = "UNIVERSAL"
	TopicUnknown        Topic = "UNKNOWN"
)

// AllTopics lists every matchable canonical topic, i.e. every topic except
// TopicUnknown (which never has a registered pipeline).
func AllTopics() []Topic {
	return []Topic{
		TopicCryptoDaily, TopicCryptoIntraday, TopicMacro, TopicRates,
		TopicElections, TopicCommodities, TopicSports, TopicGeopolitics,
		TopicEntertainment, TopicFinance, TopicClimate, TopicUniversal,
	}
}

// ClassificationSource records which classifier rule assigned a Topic.
type ClassificationSource string

const (
	SourceTicker   ClassificationSource = "TICKER"
	SourceCategory ClassificationSource = "CATEGORY"
	SourceTags     ClassificationSource = "TAGS"
	SourceTitle    ClassificationSource = "TITLE"
	SourceMetadata ClassificationSource = "METADATA"
	SourceFallback ClassificationSource = "FALLBACK"
)

// Classification is the full result of classifying one Market.
type Classification struct {
	Topic      Topic
	Confidence float64
	Source     ClassificationSource
	Rationale  string
}
