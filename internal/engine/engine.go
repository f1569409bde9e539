// Package engine implements the cross-venue matching run (SPEC_FULL.md
// §4.7): resolve each topic's pipeline, fetch both venues in parallel,
// enumerate and score candidate pairs, apply auto-confirm/auto-reject
// rules and bracket grouping, and upsert the surviving suggestions.
package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/pipeline"
	"github.com/sawpanic/marketlink/internal/telemetry"
)

// Engine drives one matching run across all registered topic pipelines.
type Engine struct {
	cfg      *config.EngineConfig
	registry *pipeline.Registry
	markets  domain.MarketRepository
	links    domain.MarketLinkRepository
	metrics  *telemetry.Registry
}

// New constructs an Engine. Call WithMetrics to attach a telemetry
// registry; a nil registry (the zero value) skips all metric recording.
func New(cfg *config.EngineConfig, registry *pipeline.Registry, markets domain.MarketRepository, links domain.MarketLinkRepository) *Engine {
	return &Engine{cfg: cfg, registry: registry, markets: markets, links: links}
}

// WithMetrics attaches a telemetry registry and returns the Engine for chaining.
func (e *Engine) WithMetrics(m *telemetry.Registry) *Engine {
	e.metrics = m
	return e
}

// RunSummary aggregates one run's outcome across every topic processed.
type RunSummary struct {
	TopicResults []TopicResult
}

// TopicResult is the per-topic outcome of one matching run.
type TopicResult struct {
	Topic           domain.Topic
	LeftCount       int
	RightCount      int
	CandidatesTried int
	GateFailures    map[string]int
	Suggested       int
	AutoConfirmed   int
	AutoRejected    int
	BracketsDropped int
	Err             error
}

// RunTopic executes one topic end to end against the two venues. Aborts
// with an "unsupported_topic" error if no pipeline is registered
// (SPEC_FULL.md §4.7 step 1).
func (e *Engine) RunTopic(ctx context.Context, topic domain.Topic, left, right domain.Venue) (TopicResult, error) {
	start := time.Now()
	result, err := e.runTopic(ctx, topic, left, right)
	if e.metrics != nil {
		e.metrics.ObserveRun(string(topic), time.Since(start), err)
	}
	return result, err
}

func (e *Engine) runTopic(ctx context.Context, topic domain.Topic, left, right domain.Venue) (TopicResult, error) {
	p, ok := e.registry.Get(topic)
	if !ok {
		return TopicResult{Topic: topic}, fmt.Errorf("%w: no pipeline registered for %s", domain.ErrUnsupportedTopic, topic)
	}

	opts := pipeline.FetchOptions{
		LookbackHours: e.cfg.LookbackHours,
		Limit:         5000,
	}

	var leftMarkets, rightMarkets []pipeline.MarketWithSignals
	var leftErr, rightErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		o := opts
		o.Venue = left
		leftMarkets, leftErr = p.Fetch(ctx, e.markets, o)
	}()
	go func() {
		defer wg.Done()
		o := opts
		o.Venue = right
		rightMarkets, rightErr = p.Fetch(ctx, e.markets, o)
	}()
	wg.Wait()
	if leftErr != nil {
		return TopicResult{Topic: topic}, fmt.Errorf("fetch failed for topic %s venue %s: %w", topic, left, leftErr)
	}
	if rightErr != nil {
		return TopicResult{Topic: topic}, fmt.Errorf("fetch failed for topic %s venue %s: %w", topic, right, rightErr)
	}

	result := TopicResult{
		Topic:        topic,
		LeftCount:    len(leftMarkets),
		RightCount:   len(rightMarkets),
		GateFailures: make(map[string]int),
	}

	index := p.BuildIndex(rightMarkets)
	minScore := e.cfg.MinScoreFor(topic)

	var candidates []pipeline.LinkCandidate
	for _, lm := range leftMarkets {
		cands := p.FindCandidates(lm, index)
		sort.Slice(cands, func(i, j int) bool { return cands[i].Market.ID < cands[j].Market.ID })

		var scored []pipeline.LinkCandidate
		for _, rm := range cands {
			result.CandidatesTried++
			gate := p.CheckHardGates(lm, rm)
			if !gate.Passed {
				result.GateFailures[gate.FailReason]++
				continue
			}
			outcome := p.Score(lm, rm)
			if outcome == nil || outcome.Score < minScore {
				continue
			}
			scored = append(scored, pipeline.LinkCandidate{Left: lm, Right: rm, Outcome: *outcome})
		}

		sort.Slice(scored, func(i, j int) bool { return scored[i].Outcome.Score > scored[j].Outcome.Score })
		if len(scored) > e.cfg.MaxCandidatesPerLeft {
			scored = scored[:e.cfg.MaxCandidatesPerLeft]
		}
		candidates = append(candidates, scored...)
	}

	if e.cfg.BracketGroupingEnabled(topic) {
		before := len(candidates)
		candidates = pipeline.GroupBrackets(candidates)
		result.BracketsDropped = before - len(candidates)
	}

	if e.metrics != nil {
		e.metrics.RecordCandidates(string(topic), result.CandidatesTried)
	}

	for _, c := range candidates {
		status := domain.LinkSuggested
		algoVersion := p.AlgoVersion()

		if p.SupportsAutoConfirm() {
			verdict := p.ShouldAutoConfirm(c.Left, c.Right, c.Outcome)
			if verdict.ShouldConfirm {
				status = domain.LinkConfirmed
				result.AutoConfirmed++
			}
		}
		if status != domain.LinkConfirmed && p.SupportsAutoReject() {
			verdict := p.ShouldAutoReject(c.Left, c.Right, c.Outcome)
			if verdict.ShouldReject {
				status = domain.LinkRejected
				result.AutoRejected++
			}
		}

		in := domain.UpsertLinkInput{
			Topic:       topic,
			Score:       c.Outcome.Score,
			Reason:      c.Outcome.Reason,
			AlgoVersion: algoVersion,
			Status:      status,
		}
		if _, err := e.upsertRespectingTerminal(ctx, c.Left.Market.ID, c.Right.Market.ID, in); err != nil {
			log.Error().Err(err).Int64("left", c.Left.Market.ID).Int64("right", c.Right.Market.ID).Msg("link upsert failed")
			continue
		}
		if e.metrics != nil {
			e.metrics.RecordLinkUpsert(string(topic), string(status))
		}
		if status == domain.LinkSuggested {
			result.Suggested++
		}
	}

	return result, nil
}

// upsertRespectingTerminal never overwrites a human confirm/reject with a
// fresh suggestion (spec.md §3, §4.7 step 6).
func (e *Engine) upsertRespectingTerminal(ctx context.Context, leftID, rightID int64, in domain.UpsertLinkInput) (*domain.MarketLink, error) {
	if in.Status == domain.LinkSuggested {
		existing, err := e.links.ListSuggestions(ctx, domain.ListSuggestionsOptions{Limit: 0})
		if err == nil {
			for _, l := range existing {
				if l.LeftMarketID == leftID && l.RightMarketID == rightID && l.Status.Terminal() {
					return &l, nil
				}
			}
		}
	}
	return e.links.Upsert(ctx, leftID, rightID, in)
}

// Run executes every registered topic across the given venue pair and
// returns an aggregate summary. A single topic's fetch/upsert failure is
// recorded in its TopicResult.Err and does not abort the remaining topics.
func (e *Engine) Run(ctx context.Context, left, right domain.Venue) RunSummary {
	var summary RunSummary
	for _, topic := range e.registry.Topics() {
		res, err := e.RunTopic(ctx, topic, left, right)
		if err != nil {
			res.Err = err
			log.Error().Err(err).Str("topic", string(topic)).Msg("topic run failed")
		}
		summary.TopicResults = append(summary.TopicResults, res)
	}
	return summary
}
