package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/marketlink/internal/domain"
)

func f(v float64) *float64 { return &v }

func TestComparatorScore(t *testing.T) {
	assert.Equal(t, 1.0, ComparatorScore(domain.ComparatorGE, domain.ComparatorGE))
	assert.Equal(t, 0.0, ComparatorScore(domain.ComparatorGE, domain.ComparatorLE))
	assert.Equal(t, 0.5, ComparatorScore(domain.ComparatorUnknown, domain.ComparatorGE))
	assert.Equal(t, 0.3, ComparatorScore(domain.ComparatorBetween, domain.ComparatorGE))
}

func TestNumberScore_ExactAndPartial(t *testing.T) {
	assert.Equal(t, 1.0, NumberScore(f(100000), f(100000)))
	assert.Greater(t, NumberScore(f(100000), f(101000)), 0.0)
	assert.Equal(t, 0.0, NumberScore(f(100000), f(200000)))
	assert.Equal(t, 0.5, NumberScore(nil, f(100000)))
}

func TestDateScore_ExactSameType(t *testing.T) {
	d := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	score := DateScore(d, domain.DateDayExact, d, domain.DateDayExact)
	assert.Equal(t, 1.0, score)
}

func TestDateScore_UnknownIsZero(t *testing.T) {
	d := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
	score := DateScore(d, domain.DateUnknown, d, domain.DateDayExact)
	assert.Equal(t, 0.0, score)
}

func TestTimeProximityScore(t *testing.T) {
	base := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	assert.Equal(t, 1.0, TimeProximityScore(base, base))
	assert.Equal(t, 0.7, TimeProximityScore(base, base.Add(30*time.Minute)))
	assert.Equal(t, 0.0, TimeProximityScore(base, base.Add(2*time.Hour)))
}

func TestScoreSports_MoneylineSameEvent(t *testing.T) {
	bucket := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	left := domain.SportsSignals{
		League: "NBA", TeamA: "BOSTON CELTICS", TeamB: "LOS ANGELES LAKERS",
		StartBucket: bucket, MarketType: domain.MarketMoneyline,
	}
	right := left
	result := ScoreSports(left, right)
	assert.GreaterOrEqual(t, result.Score, 0.92)
}

func TestResult_ReasonIsDeterministic(t *testing.T) {
	r := NewResult(map[string]float64{"b": 0.5, "a": 1.0}, map[string]float64{"a": 0.5, "b": 0.5})
	reason := r.Reason()
	assert.Contains(t, reason, "score=")
	assert.Contains(t, reason, "a=1.000")
	assert.Contains(t, reason, "b=0.500")
}
