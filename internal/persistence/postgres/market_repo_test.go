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

func newMockMarketRepo(t *testing.T) (domain.MarketRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	t.Cleanup(func() { sqlxDB.Close() })
	return NewMarketRepo(sqlxDB, 5*time.Second), mock
}

func TestMarketRepo_UpsertMany_EmptyIsNoop(t *testing.T) {
	repo, mock := newMockMarketRepo(t)
	n, err := repo.UpsertMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketRepo_UpsertMany_InsertsEachRowInOneTransaction(t *testing.T) {
	repo, mock := newMockMarketRepo(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO markets")
	mock.ExpectExec("INSERT INTO markets").
		WithArgs("kalshi", "ECON-FED-25DEC-T", "Fed raises rates", sqlmock.AnyArg(), "active",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO markets").
		WithArgs("kalshi", "ECON-CPI-25DEC-T", "CPI above 3%", sqlmock.AnyArg(), "active",
			sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectCommit()

	n, err := repo.UpsertMany(context.Background(), []domain.Market{
		{Venue: domain.VenueKalshi, ExternalID: "ECON-FED-25DEC-T", Title: "Fed raises rates", Status: domain.StatusActive},
		{Venue: domain.VenueKalshi, ExternalID: "ECON-CPI-25DEC-T", Title: "CPI above 3%", Status: domain.StatusActive},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestMarketRepo_UpsertMany_RollsBackOnExecError(t *testing.T) {
	repo, mock := newMockMarketRepo(t)

	mock.ExpectBegin()
	mock.ExpectPrepare("INSERT INTO markets")
	mock.ExpectExec("INSERT INTO markets").WillReturnError(assertableErr{})
	mock.ExpectRollback()

	_, err := repo.UpsertMany(context.Background(), []domain.Market{
		{Venue: domain.VenueKalshi, ExternalID: "ECON-FED-25DEC-T", Title: "Fed raises rates", Status: domain.StatusActive},
	})
	assert.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

type assertableErr struct{}

func (assertableErr) Error() string { return "exec failed" }
