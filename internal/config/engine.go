package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sawpanic/marketlink/internal/domain"
)

// EngineConfig is the complete engine run configuration (SPEC_FULL.md
// §6). It is loaded once at startup and treated as read-only for the
// lifetime of a run, the same way ProvidersConfig is loaded and frozen.
type EngineConfig struct {
	LookbackHours        int                    `yaml:"lookback_hours"`
	MaxCandidatesPerLeft int                    `yaml:"max_candidates_per_left"`
	MinScoreByTopic      map[domain.Topic]float64 `yaml:"min_score_by_topic"`
	AutoConfirmEnabled   map[domain.Topic]bool  `yaml:"auto_confirm_enabled"`
	AutoRejectEnabled    map[domain.Topic]bool  `yaml:"auto_reject_enabled"`
	BracketGrouping      map[domain.Topic]bool  `yaml:"bracket_grouping"`
	WriteBatchSize       int                    `yaml:"write_batch_size"`
	WriteMinBatchSize    int                    `yaml:"write_min_batch_size"`
	FetchTimeoutMS       int                    `yaml:"fetch_timeout_ms"`
	FetchMaxAttempts     int                    `yaml:"fetch_max_attempts"`
	Watchlist            WatchlistConfig       `yaml:"watchlist"`
}

// WatchlistConfig controls the watchlist-population policy (SPEC_FULL.md §4.8).
type WatchlistConfig struct {
	MaxTotal         int                      `yaml:"max_total"`
	MaxPerVenue      int                      `yaml:"max_per_venue"`
	MaxTopSuggested  int                      `yaml:"max_top_suggested"`
	SafeScoreByTopic map[domain.Topic]float64 `yaml:"safe_score_by_topic"`
}

// DefaultEngineConfig returns the built-in defaults, used whenever a
// config file omits a field or none is supplied at all.
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		LookbackHours:        720,
		MaxCandidatesPerLeft: 5,
		MinScoreByTopic: map[domain.Topic]float64{
			domain.TopicCryptoDaily:    0.55,
			domain.TopicCryptoIntraday: 0.55,
			domain.TopicMacro:          0.50,
			domain.TopicRates:          0.50,
			domain.TopicElections:      0.45,
			domain.TopicCommodities:    0.50,
			domain.TopicSports:         0.55,
			domain.TopicGeopolitics:    0.45,
			domain.TopicEntertainment:  0.45,
			domain.TopicFinance:        0.50,
			domain.TopicClimate:        0.55,
			domain.TopicUniversal:      0.50,
		},
		AutoConfirmEnabled: map[domain.Topic]bool{
			domain.TopicCryptoDaily:    true,
			domain.TopicCryptoIntraday: true,
			domain.TopicMacro:          true,
			domain.TopicRates:          true,
			domain.TopicElections:      false,
			domain.TopicCommodities:    true,
			domain.TopicSports:         true,
			domain.TopicGeopolitics:    false,
			domain.TopicEntertainment:  false,
			domain.TopicFinance:        true,
			domain.TopicClimate:        true,
			domain.TopicUniversal:      false,
		},
		AutoRejectEnabled: map[domain.Topic]bool{
			domain.TopicCryptoDaily:    true,
			domain.TopicCryptoIntraday: true,
			domain.TopicMacro:          true,
			domain.TopicRates:          true,
			domain.TopicElections:      true,
			domain.TopicCommodities:    true,
			domain.TopicSports:         true,
			domain.TopicGeopolitics:    true,
			domain.TopicEntertainment:  true,
			domain.TopicFinance:        true,
			domain.TopicClimate:        true,
			domain.TopicUniversal:      true,
		},
		BracketGrouping: map[domain.Topic]bool{
			domain.TopicCryptoDaily:    true,
			domain.TopicCryptoIntraday: true,
		},
		WriteBatchSize:    500,
		WriteMinBatchSize: 10,
		FetchTimeoutMS:    30000,
		FetchMaxAttempts:  3,
		Watchlist: WatchlistConfig{
			MaxTotal:        2000,
			MaxPerVenue:     1000,
			MaxTopSuggested: 500,
			SafeScoreByTopic: map[domain.Topic]float64{
				domain.TopicCryptoDaily:    0.70,
				domain.TopicCryptoIntraday: 0.70,
				domain.TopicMacro:          0.65,
				domain.TopicRates:          0.65,
				domain.TopicElections:      0.60,
				domain.TopicCommodities:    0.65,
				domain.TopicSports:         0.70,
				domain.TopicGeopolitics:    0.60,
				domain.TopicEntertainment:  0.60,
				domain.TopicFinance:        0.65,
				domain.TopicClimate:        0.65,
				domain.TopicUniversal:      0.60,
			},
		},
	}
}

// LoadEngineConfig reads an EngineConfig from a YAML file, starting
// from defaults and overlaying whatever the file sets.
func LoadEngineConfig(configPath string) (*EngineConfig, error) {
	cfg := DefaultEngineConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read engine config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse engine config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid engine config: %w", err)
	}
	return cfg, nil
}

// Validate ensures the configuration is internally consistent.
func (c *EngineConfig) Validate() error {
	if c.LookbackHours <= 0 {
		return fmt.Errorf("lookback_hours must be positive, got %d", c.LookbackHours)
	}
	if c.MaxCandidatesPerLeft <= 0 {
		return fmt.Errorf("max_candidates_per_left must be positive, got %d", c.MaxCandidatesPerLeft)
	}
	for topic, score := range c.MinScoreByTopic {
		if score < 0 || score > 1 {
			return fmt.Errorf("min_score_by_topic[%s] = %f outside [0,1]", topic, score)
		}
	}
	if c.WriteBatchSize <= 0 {
		return fmt.Errorf("write_batch_size must be positive, got %d", c.WriteBatchSize)
	}
	if c.WriteMinBatchSize <= 0 || c.WriteMinBatchSize > c.WriteBatchSize {
		return fmt.Errorf("write_min_batch_size must be in (0, write_batch_size], got %d", c.WriteMinBatchSize)
	}
	if c.FetchTimeoutMS <= 0 {
		return fmt.Errorf("fetch_timeout_ms must be positive, got %d", c.FetchTimeoutMS)
	}
	if c.FetchMaxAttempts <= 0 {
		return fmt.Errorf("fetch_max_attempts must be positive, got %d", c.FetchMaxAttempts)
	}
	return c.Watchlist.Validate()
}

// Validate ensures the watchlist policy is internally consistent.
func (w *WatchlistConfig) Validate() error {
	if w.MaxTotal <= 0 {
		return fmt.Errorf("watchlist.max_total must be positive, got %d", w.MaxTotal)
	}
	if w.MaxPerVenue <= 0 {
		return fmt.Errorf("watchlist.max_per_venue must be positive, got %d", w.MaxPerVenue)
	}
	if w.MaxTopSuggested < 0 {
		return fmt.Errorf("watchlist.max_top_suggested cannot be negative, got %d", w.MaxTopSuggested)
	}
	for topic, score := range w.SafeScoreByTopic {
		if score < 0 || score > 1 {
			return fmt.Errorf("watchlist.safe_score_by_topic[%s] = %f outside [0,1]", topic, score)
		}
	}
	return nil
}

// MinScoreFor returns the configured score floor for a topic, defaulting
// to 0.5 if the topic has no explicit entry.
func (c *EngineConfig) MinScoreFor(topic domain.Topic) float64 {
	if v, ok := c.MinScoreByTopic[topic]; ok {
		return v
	}
	return 0.5
}

// SafeScoreFor returns the configured watchlist safe-score floor for a
// topic, defaulting to 0.65 if the topic has no explicit entry.
func (w *WatchlistConfig) SafeScoreFor(topic domain.Topic) float64 {
	if v, ok := w.SafeScoreByTopic[topic]; ok {
		return v
	}
	return 0.65
}

// FetchTimeout returns the fetch timeout as a time.Duration.
func (c *EngineConfig) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// BracketGroupingEnabled reports whether bracket grouping applies to topic.
func (c *EngineConfig) BracketGroupingEnabled(topic domain.Topic) bool {
	return c.BracketGrouping[topic]
}
