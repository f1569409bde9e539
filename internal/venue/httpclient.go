// Package venue implements domain.VenueClient against the Kalshi and
// Polymarket public APIs, gating every request through a per-host rate
// limiter, a circuit breaker, and a daily request budget.
package venue

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/sawpanic/marketlink/internal/config"
	"github.com/sawpanic/marketlink/internal/net/budget"
	"github.com/sawpanic/marketlink/internal/net/ratelimit"
	"github.com/sawpanic/marketlink/internal/telemetry"
)

// gatedClient wraps one provider's base URL with the shared
// rate-limit/circuit/budget middleware stack.
type gatedClient struct {
	provider   string
	host       string
	baseURL    string
	userAgent  string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	breaker    *gobreaker.CircuitBreaker
	tracker    *budget.Tracker
}

// newGatedClient wires the rate-limit/circuit/budget stack for one
// provider. metrics may be nil; when set, the breaker's state transitions
// feed the venue_circuit_state gauge.
func newGatedClient(provider string, cfg config.ProviderConfig, metrics *telemetry.Registry) *gatedClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        provider,
		MaxRequests: 1,
		Interval:    0,
		Timeout:     cfg.GetMaxBackoff(),
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			threshold := uint32(cfg.Circuit.FailureThreshold)
			if threshold == 0 {
				threshold = 5
			}
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if metrics == nil {
				return
			}
			metrics.SetCircuitState(name, breakerStateName(to))
		},
	})

	return &gatedClient{
		provider:   provider,
		host:       cfg.Host,
		baseURL:    cfg.BaseURL,
		userAgent:  "marketlink/1.0 (+cross-venue matching)",
		httpClient: &http.Client{Timeout: cfg.GetRequestTimeout()},
		limiter:    ratelimit.NewLimiter(float64(cfg.RPS), cfg.Burst),
		breaker:    breaker,
		tracker:    budget.NewTracker(int64(cfg.DailyBudget), 0, 0.8),
	}
}

// getJSON performs a rate-limited, circuit-broken, budget-tracked GET
// request against path+query and unmarshals the JSON body into out.
func (c *gatedClient) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	if err := c.tracker.Allow(); err != nil {
		if _, exhausted := err.(*budget.BudgetExhaustedError); exhausted {
			return fmt.Errorf("%s: %w", c.provider, err)
		}
	}
	if err := c.limiter.Wait(ctx, c.host); err != nil {
		return fmt.Errorf("%s: rate limit wait: %w", c.provider, err)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		c.tracker.Consume()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("building request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("executing request: %w", err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading response body: %w", err)
		}
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("%s returned HTTP %d: %s", c.provider, resp.StatusCode, truncate(data, 200))
		}
		return data, nil
	})
	if err != nil {
		return fmt.Errorf("%s %s: %w", c.provider, path, err)
	}

	if err := json.Unmarshal(body.([]byte), out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", c.provider, path, err)
	}
	return nil
}

func breakerStateName(s gobreaker.State) string {
	switch s {
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "closed"
	}
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}

// parseTime tries RFC3339 and falls back to RFC3339 without a timezone
// offset, matching the loose timestamp formats both venues emit.
func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		t = t.UTC()
		return &t
	}
	return nil
}
