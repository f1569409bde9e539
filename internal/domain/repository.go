package domain

import "context"

// OrderBy selects the sort order for ListEligibleMarkets.
type OrderBy string

const (
	OrderByCloseTime OrderBy = "closeTime"
	OrderByID        OrderBy = "id"
)

// ListEligibleMarketsOptions narrows a MarketRepository query, letting a
// Pipeline's Fetch push a keyword/ticker pre-filter down to storage
// instead of loading a venue's whole active set (spec.md §4.3 "fetch").
type ListEligibleMarketsOptions struct {
	LookbackHours   int
	Limit           int
	TitleKeywords   []string
	TickerPatterns  []string
	OrderBy         OrderBy
}

// MarketRepository is the persistence collaborator the engine consumes
// for market reads, and that ingestion consumes to land venue-fetched
// markets before the engine ever sees them. The engine itself never
// issues SQL directly and never calls UpsertMany (spec.md §6).
type MarketRepository interface {
	ListEligibleMarkets(ctx context.Context, venue Venue, opts ListEligibleMarketsOptions) ([]Market, error)
	GetStatusCounts(ctx context.Context, venue Venue) (map[MarketStatus]int, error)
	CountBySeriesTicker(ctx context.Context, venue Venue) (map[string]int, error)
	UpsertMany(ctx context.Context, markets []Market) (int, error)
}

// ListSuggestionsOptions filters MarketLinkRepository.ListSuggestions.
type ListSuggestionsOptions struct {
	MinScore float64
	Status   *LinkStatus
	Limit    int
}

// UpsertLinkInput is the write-side payload for MarketLinkRepository.Upsert.
type UpsertLinkInput struct {
	Topic       Topic
	Score       float64
	Reason      string
	AlgoVersion string
	Status      LinkStatus
}

// CleanupSuggestionsOptions parameterizes MarketLinkRepository.CleanupSuggestions.
type CleanupSuggestionsOptions struct {
	OlderThanDays int
	Status        LinkStatus
	AlgoVersion   string
	DryRun        bool
}

// MarketLinkRepository is the persistence collaborator for MarketLink
// read/write/upsert, consumed by the engine loop and by diagnostics.
type MarketLinkRepository interface {
	Upsert(ctx context.Context, leftID, rightID int64, in UpsertLinkInput) (*MarketLink, error)
	ListSuggestions(ctx context.Context, opts ListSuggestionsOptions) ([]MarketLink, error)
	Confirm(ctx context.Context, id int64) error
	Reject(ctx context.Context, id int64) error
	CleanupSuggestions(ctx context.Context, opts CleanupSuggestionsOptions) (int, error)
	CountByStatus(ctx context.Context) (map[LinkStatus]int, error)
}

// ListWatchlistOptions filters WatchlistRepository.List.
type ListWatchlistOptions struct {
	Venue  *Venue
	Limit  int
	Offset int
}

// WatchlistStats summarizes the current watchlist for a venue (or all
// venues when Venue is nil).
type WatchlistStats struct {
	Total        int
	ByPriority   map[WatchlistPriority]int
	ByVenue      map[Venue]int
}

// WatchlistRepository is the persistence collaborator consumed by the
// watchlist sync (spec.md §4.8, §6).
type WatchlistRepository interface {
	UpsertMany(ctx context.Context, items []WatchlistItem) error
	List(ctx context.Context, opts ListWatchlistOptions) ([]WatchlistItem, error)
	GetStats(ctx context.Context, venue *Venue) (WatchlistStats, error)
}

// IngestionErrorKind is the standard classification spec.md §6/§7 asks
// the ingestion collaborator (and the engine's own fetch-failure
// handling) to share.
type IngestionErrorKind string

const (
	ErrKindRateLimit   IngestionErrorKind = "429_rate_limit"
	ErrKind5xx         IngestionErrorKind = "5xx_server"
	ErrKindTimeout     IngestionErrorKind = "timeout"
	ErrKindNetwork     IngestionErrorKind = "network"
	ErrKindDB          IngestionErrorKind = "db"
	ErrKindParse       IngestionErrorKind = "parse_error"
	ErrKindOther       IngestionErrorKind = "other"
)

// IngestionRepository tracks ingestion run watermarks and error history.
// The engine does not call this directly; it shares the error taxonomy.
type IngestionRepository interface {
	StartRun(ctx context.Context, venue Venue) (runID int64, err error)
	FinishRun(ctx context.Context, runID int64, cursor string, errKind *IngestionErrorKind) error
	GetCursor(ctx context.Context, venue Venue) (string, error)
}

// FetchMarketsOptions parameterizes VenueClient.FetchMarkets paging.
type FetchMarketsOptions struct {
	Limit  int
	Cursor string
}

// FetchMarketsResult is one page of venue markets plus the opaque cursor
// to request the next page (empty/absent = end of pages).
type FetchMarketsResult struct {
	Items      []Market
	NextCursor string
}

// Quote is a single outcome's live price, as returned by FetchQuotes.
type Quote struct {
	MarketID    int64
	OutcomeName string
	Price       float64
}

// VenueClient is the external venue-fetch collaborator. The engine does
// not implement it; it only consumes Market rows already ingested, but
// the interface is specified here so ingestion and the watchlist's
// consumers share one contract (spec.md §6).
type VenueClient interface {
	FetchMarkets(ctx context.Context, opts FetchMarketsOptions) (FetchMarketsResult, error)
	FetchQuotes(ctx context.Context, markets []Market) ([]Quote, error)
}
