package domain

import "errors"

// ErrUnsupportedTopic is returned by the engine when asked to run a
// (topic, venues) triple for which no Pipeline is registered
// (spec.md §4.7 step 1, §7).
var ErrUnsupportedTopic = errors.New("unsupported_topic")

// ErrMarketNotFound is returned by repository lookups that expect an
// existing row.
var ErrMarketNotFound = errors.New("market not found")

// ErrInvalidVenuePair is a programmer-error guard: the engine must never
// be asked to match a venue against itself (spec.md §8 invariant 1).
var ErrInvalidVenuePair = errors.New("left and right venue must differ")
