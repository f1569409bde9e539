package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/domain"
)

func newMockRepo(t *testing.T) (domain.MarketLinkRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewLinkRepo(sqlxDB, 5*time.Second), mock
}

func TestLinkRepo_Upsert_ReturnsInsertedRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	cols := []string{"id", "left_market_id", "right_market_id", "left_venue", "right_venue",
		"topic", "score", "reason", "algo_version", "status", "created_at", "updated_at"}
	now := time.Now()
	mock.ExpectQuery("INSERT INTO market_links").
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			1, 10, 20, "kalshi", "polymarket", "CRYPTO_DAILY", 0.9, "entity match", "crypto@1.0.0", "suggested", now, now))

	link, err := repo.Upsert(context.Background(), 10, 20, domain.UpsertLinkInput{
		Topic: domain.TopicCryptoDaily, Score: 0.9, Reason: "entity match",
		AlgoVersion: "crypto@1.0.0", Status: domain.LinkSuggested,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), link.ID)
	assert.Equal(t, domain.LinkSuggested, link.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRepo_CountByStatus(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("SELECT status, COUNT").
		WillReturnRows(sqlmock.NewRows([]string{"status", "count"}).
			AddRow("suggested", 3).
			AddRow("confirmed", 1))

	counts, err := repo.CountByStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, counts[domain.LinkSuggested])
	assert.Equal(t, 1, counts[domain.LinkConfirmed])
	require.NoError(t, mock.ExpectationsWereMet())
}
