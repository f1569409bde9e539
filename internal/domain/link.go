package domain

import "time"

// LinkStatus is the human-review lifecycle of a MarketLink.
type LinkStatus string

const (
	LinkSuggested LinkStatus = "suggested"
	LinkConfirmed LinkStatus = "confirmed"
	LinkRejected  LinkStatus = "rejected"
)

// Terminal reports whether a status is a human decision that the engine
// must never overwrite with a fresh suggestion (spec.md §3, §4.7 step 6).
func (s LinkStatus) Terminal() bool {
	return s == LinkConfirmed || s == LinkRejected
}

// MarketLink is a suggested (or human-reviewed) cross-venue correspondence
// between two markets. (LeftMarketID, RightMarketID) is unique.
type MarketLink struct {
	ID            int64
	LeftMarketID  int64
	RightMarketID int64
	LeftVenue     Venue
	RightVenue    Venue
	Topic         Topic
	Score         float64
	Reason        string
	AlgoVersion   string
	Status        LinkStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Tier is the qualitative strength bucket a Score result falls into.
type Tier string

const (
	TierStrong Tier = "STRONG"
	TierWeak   Tier = "WEAK"
)
