package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sawpanic/marketlink/internal/domain"
)

func f(v float64) *float64 { return &v }

func cryptoMWS(id int64, entity string, threshold float64, periodKey string) MarketWithSignals {
	e := entity
	return MarketWithSignals{
		Market: domain.Market{ID: id},
		Signals: domain.CryptoSignals{
			Common:     domain.Common{Entity: &e},
			Comparator: domain.ComparatorGE,
			Threshold:  f(threshold),
			DateType:   domain.DateDayExact,
			PeriodKey:  periodKey,
			BracketKey: entity + "|" + periodKey + "|GE",
		},
	}
}

func TestRegistry_RegisterAndGet(t *testing.T) {
	r := NewRegistry()
	r.Register(CryptoPipeline{})
	p, ok := r.Get(domain.TopicCryptoDaily)
	require.True(t, ok)
	assert.Equal(t, domain.TopicCryptoDaily, p.Topic())

	_, ok = r.Get(domain.TopicSports)
	assert.False(t, ok)
}

func TestDefaultRegistry_HasEveryMatchableTopic(t *testing.T) {
	r := DefaultRegistry()
	for _, topic := range domain.AllTopics() {
		_, ok := r.Get(topic)
		assert.True(t, ok, "expected pipeline registered for %s", topic)
	}
}

func TestCryptoPipeline_HardGate_EntityMismatch(t *testing.T) {
	p := CryptoPipeline{}
	left := cryptoMWS(1, "BITCOIN", 100000, "2026-12")
	right := cryptoMWS(2, "ETHEREUM", 100000, "2026-12")
	gate := p.CheckHardGates(left, right)
	assert.False(t, gate.Passed)
	assert.Equal(t, "entity_mismatch", gate.FailReason)
}

func TestCryptoPipeline_Score_SameEntitySameThresholdScoresHigh(t *testing.T) {
	p := CryptoPipeline{}
	left := cryptoMWS(1, "BITCOIN", 100000, "2026-12")
	right := cryptoMWS(2, "BITCOIN", 100000, "2026-12")
	outcome := p.Score(left, right)
	require.NotNil(t, outcome)
	assert.Greater(t, outcome.Score, 0.7)
}

func TestGroupBrackets_PicksClosestThresholdAsRepresentative(t *testing.T) {
	opposing := cryptoMWS(100, "BITCOIN", 95000, "2026-12")

	candidates := []LinkCandidate{
		{Left: cryptoMWS(1, "BITCOIN", 90000, "2026-12"), Right: opposing, Outcome: ScoreOutcome{Score: 0.6}},
		{Left: cryptoMWS(2, "BITCOIN", 94000, "2026-12"), Right: opposing, Outcome: ScoreOutcome{Score: 0.7}},
		{Left: cryptoMWS(3, "BITCOIN", 110000, "2026-12"), Right: opposing, Outcome: ScoreOutcome{Score: 0.5}},
	}

	grouped := GroupBrackets(candidates)
	require.Len(t, grouped, 1)
	assert.Equal(t, int64(2), grouped[0].Left.Market.ID)
}

func TestGroupBrackets_NonRepresentativeSurvivesIfHigherScoring(t *testing.T) {
	opposing := cryptoMWS(100, "BITCOIN", 95000, "2026-12")

	candidates := []LinkCandidate{
		{Left: cryptoMWS(1, "BITCOIN", 94000, "2026-12"), Right: opposing, Outcome: ScoreOutcome{Score: 0.6}},
		{Left: cryptoMWS(2, "BITCOIN", 90000, "2026-12"), Right: opposing, Outcome: ScoreOutcome{Score: 0.95}},
	}

	grouped := GroupBrackets(candidates)
	assert.Len(t, grouped, 2)
}

func TestSportsPipeline_MoneylineAutoConfirm(t *testing.T) {
	bucket := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	sig := domain.SportsSignals{
		League: "NBA", TeamA: "BOSTON CELTICS", TeamB: "LOS ANGELES LAKERS",
		StartBucket: bucket, MarketType: domain.MarketMoneyline,
	}
	left := MarketWithSignals{Market: domain.Market{ID: 1}, Signals: sig}
	right := MarketWithSignals{Market: domain.Market{ID: 2}, Signals: sig}

	p := SportsPipeline{}
	outcome := p.Score(left, right)
	require.NotNil(t, outcome)
	verdict := p.ShouldAutoConfirm(left, right, *outcome)
	assert.True(t, verdict.ShouldConfirm)
	assert.Equal(t, "MONEYLINE_EXACT_EVENT_MATCH", verdict.Rule)
}

func TestElectionsPipeline_NeverAutoConfirms(t *testing.T) {
	p := ElectionsPipeline{}
	sig := domain.ElectionsSignals{Country: "US", Office: domain.OfficePresident, Year: 2028}
	left := MarketWithSignals{Market: domain.Market{ID: 1}, Signals: sig}
	right := MarketWithSignals{Market: domain.Market{ID: 2}, Signals: sig}
	outcome := p.Score(left, right)
	require.NotNil(t, outcome)
	verdict := p.ShouldAutoConfirm(left, right, *outcome)
	assert.False(t, verdict.ShouldConfirm)
}

func TestUnsupportedTopic_NotRegistered(t *testing.T) {
	r := NewRegistry()
	_, ok := r.Get(domain.TopicUnknown)
	assert.False(t, ok)
}
