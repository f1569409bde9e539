// Package pipeline defines the per-topic pipeline contract, the
// process-wide dispatcher registry, and the bracket-grouping pass the
// engine applies to crypto results (spec.md §4.3, §4.6).
package pipeline

import (
	"context"

	"github.com/sawpanic/marketlink/internal/domain"
)

// MarketWithSignals pairs a raw Market with its extracted Signals. This
// is the unit every pipeline stage after fetch operates on.
type MarketWithSignals struct {
	Market  domain.Market
	Signals domain.Signals
}

// GateResult is checkHardGates' verdict.
type GateResult struct {
	Passed     bool
	FailReason string
}

// ScoreOutcome is score's verdict. When the hard gates fail, Score
// returns a nil *ScoreOutcome instead.
type ScoreOutcome struct {
	Score      float64
	Reason     string
	Tier       domain.Tier
	Components map[string]float64
}

// AutoConfirmVerdict is shouldAutoConfirm's result.
type AutoConfirmVerdict struct {
	ShouldConfirm bool
	Rule          string
	Confidence    float64
}

// AutoRejectVerdict is shouldAutoReject's result.
type AutoRejectVerdict struct {
	ShouldReject bool
	Rule         string
	Reason       string
}

// FetchOptions narrows fetch to one venue within a lookback window.
type FetchOptions struct {
	Venue         domain.Venue
	LookbackHours int
	Limit         int
}

// Pipeline is the five-method contract (plus the two optional
// auto-rule methods) every canonical topic registers (spec.md §4.3).
// The engine never inspects a pipeline's concrete type; it only calls
// through this interface.
type Pipeline interface {
	Topic() domain.Topic
	AlgoVersion() string
	SupportsAutoConfirm() bool
	SupportsAutoReject() bool

	Fetch(ctx context.Context, repo domain.MarketRepository, opts FetchOptions) ([]MarketWithSignals, error)
	BuildIndex(markets []MarketWithSignals) map[string][]MarketWithSignals
	FindCandidates(left MarketWithSignals, index map[string][]MarketWithSignals) []MarketWithSignals
	CheckHardGates(left, right MarketWithSignals) GateResult
	Score(left, right MarketWithSignals) *ScoreOutcome

	ShouldAutoConfirm(left, right MarketWithSignals, outcome ScoreOutcome) AutoConfirmVerdict
	ShouldAutoReject(left, right MarketWithSignals, outcome ScoreOutcome) AutoRejectVerdict
}
