package extract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/domain"
)

func TestExtractCrypto_ExactPairMatchesOnComparatorAndThreshold(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	close := time.Date(2026, 12, 31, 23, 59, 0, 0, time.UTC)

	kalshi := domain.Market{Title: "Will Bitcoin settle above $100,000 on December 31, 2026?", CloseTime: &close}
	poly := domain.Market{Title: "Bitcoin price above $100,000 by Dec 31, 2026", CloseTime: &close}

	a := ExtractCrypto(kalshi, now)
	b := ExtractCrypto(poly, now)

	assert.Equal(t, "BITCOIN", *a.Entity)
	assert.Equal(t, *a.Entity, *b.Entity)
	assert.Equal(t, domain.ComparatorGE, a.Comparator)
	assert.Equal(t, a.Comparator, b.Comparator)
	require.NotNil(t, a.Threshold)
	require.NotNil(t, b.Threshold)
	assert.Equal(t, *a.Threshold, *b.Threshold)
}

func TestExtractCrypto_OppositeComparatorsDiffer(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	above := ExtractCrypto(domain.Market{Title: "Will Ethereum close above $5,000?"}, now)
	below := ExtractCrypto(domain.Market{Title: "Will Ethereum close below $5,000?"}, now)

	assert.Equal(t, domain.ComparatorGE, above.Comparator)
	assert.Equal(t, domain.ComparatorLE, below.Comparator)
}

func TestExtractRates_SameMeetingMonth(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := ExtractRates(domain.Market{Title: "Will the Fed cut rates by 25 bps in December 2026?"}, now)
	b := ExtractRates(domain.Market{Title: "Fed cuts rates at the December 2026 FOMC meeting"}, now)

	assert.Equal(t, domain.BankFed, a.Bank)
	assert.Equal(t, domain.RateCut, a.Action)
	assert.Equal(t, a.MeetingMonth, b.MeetingMonth)
}

func TestExtractSports_MoneylineSameEventMatches(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	close := time.Date(2026, 3, 1, 19, 5, 0, 0, time.UTC)

	a := ExtractSports(domain.Market{Title: "Lakers vs Celtics: who wins?", CloseTime: &close}, now)
	b := ExtractSports(domain.Market{Title: "Celtics vs Lakers moneyline winner", CloseTime: &close}, now)

	assert.Equal(t, a.TeamA, b.TeamA)
	assert.Equal(t, a.TeamB, b.TeamB)
	assert.Equal(t, domain.MarketMoneyline, a.MarketType)
	assert.Equal(t, a.StartBucket, b.StartBucket)
}

func TestExtractSports_SpreadDifferentLineDiffers(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := ExtractSports(domain.Market{Title: "Lakers vs Celtics spread -4.5 points"}, now)
	b := ExtractSports(domain.Market{Title: "Lakers vs Celtics spread -6.5 points"}, now)

	assert.Equal(t, domain.MarketSpread, a.MarketType)
	require.NotNil(t, a.Line)
	require.NotNil(t, b.Line)
	assert.NotEqual(t, *a.Line, *b.Line)
}

func TestExtractUniversal_NoTopicStructure(t *testing.T) {
	got := ExtractUniversal(domain.Market{Title: "Will it rain in Paris tomorrow?"})
	assert.NotEmpty(t, got.TitleTokens)
}
