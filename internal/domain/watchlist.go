package domain

// WatchlistPriority is the polling-frequency tier assigned to a market.
type WatchlistPriority int

const (
	PriorityConfirmed     WatchlistPriority = 100
	PriorityCandidateSafe WatchlistPriority = 80
	PriorityTopSuggested  WatchlistPriority = 50
)

// WatchlistItem is a derived (venue, marketId) the ingestion collaborator
// should poll at high frequency, keyed by (Venue, MarketID).
type WatchlistItem struct {
	Venue    Venue
	MarketID int64
	Priority WatchlistPriority
	Reason   string
}
