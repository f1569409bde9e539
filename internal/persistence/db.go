// Package persistence wires the PostgreSQL-backed repository
// implementations to a pooled *sqlx.DB connection.
package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/persistence/postgres"
)

// Config holds database connection configuration.
type Config struct {
	DSN             string        `yaml:"dsn" env:"PG_DSN"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"PG_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"PG_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"PG_CONN_MAX_LIFETIME"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" env:"PG_CONN_MAX_IDLE_TIME"`
	QueryTimeout    time.Duration `yaml:"query_timeout" env:"PG_QUERY_TIMEOUT"`
}

// DefaultConfig returns reasonable connection-pool defaults.
func DefaultConfig() Config {
	return Config{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
		QueryTimeout:    30 * time.Second,
	}
}

// Repository aggregates the domain collaborator implementations the
// engine, watchlist builder, and CLI consume.
type Repository struct {
	Markets   domain.MarketRepository
	Links     domain.MarketLinkRepository
	Watchlist domain.WatchlistRepository
	Ingestion domain.IngestionRepository
}

// Manager owns the pooled connection and the repositories built on it.
type Manager struct {
	db     *sqlx.DB
	config Config
	repos  *Repository
}

// NewManager opens a connection pool against config.DSN, pings it, and
// constructs every repository on top of the shared pool.
func NewManager(config Config) (*Manager, error) {
	if config.DSN == "" {
		return nil, fmt.Errorf("database DSN is required")
	}

	db, err := sqlx.Open("postgres", config.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)
	db.SetConnMaxLifetime(config.ConnMaxLifetime)
	db.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	repos := &Repository{
		Markets:   postgres.NewMarketRepo(db, config.QueryTimeout),
		Links:     postgres.NewLinkRepo(db, config.QueryTimeout),
		Watchlist: postgres.NewWatchlistRepo(db, config.QueryTimeout),
		Ingestion: postgres.NewIngestionRepo(db, config.QueryTimeout),
	}

	return &Manager{db: db, config: config, repos: repos}, nil
}

// Repository returns the repository collection.
func (m *Manager) Repository() *Repository {
	return m.repos
}

// DB returns the underlying connection, for migrations or diagnostics.
func (m *Manager) DB() *sqlx.DB {
	return m.db
}

// Close closes the connection pool.
func (m *Manager) Close() error {
	if m.db == nil {
		return nil
	}
	return m.db.Close()
}

// Stats reports connection pool counters for /healthz-style diagnostics.
func (m *Manager) Stats() map[string]int {
	s := m.db.Stats()
	return map[string]int{
		"max_open":      s.MaxOpenConnections,
		"open":          s.OpenConnections,
		"in_use":        s.InUse,
		"idle":          s.Idle,
		"wait_count":    int(s.WaitCount),
		"wait_duration": int(s.WaitDuration.Milliseconds()),
	}
}
