package scoring

import (
	"strconv"
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
)

func primaryEntity(c domain.Common) string {
	if c.Entity == nil {
		return ""
	}
	return *c.Entity
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// PeriodKeyDate turns a "YYYY-MM", "YYYY-Qn", or "YYYY" period key back
// into a representative time.Time so it can flow through DateScore
// alongside dates parsed directly off a title.
func PeriodKeyDate(key string) time.Time {
	return periodKeyDate(key)
}

func periodKeyDate(key string) time.Time {
	if key == "" {
		return time.Time{}
	}
	parts := strings.SplitN(key, "-", 2)
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}
	}
	month := time.January
	if len(parts) == 2 {
		rest := parts[1]
		if strings.HasPrefix(rest, "Q") {
			q, qerr := strconv.Atoi(strings.TrimPrefix(rest, "Q"))
			if qerr == nil {
				month = time.Month((q-1)*3 + 1)
			}
		} else if mm, merr := strconv.Atoi(rest); merr == nil {
			month = time.Month(mm)
		}
	}
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// lineScore scores a spread/total line pair. Moneyline markets carry no
// line on either side, which isn't an unknown-vs-known mismatch the way
// NumberScore's nil handling assumes — it's a full match on "no line".
func lineScore(a, b *float64) float64 {
	if a == nil && b == nil {
		return 1.0
	}
	return NumberScore(a, b)
}

func rangeScoreFromPtrs(aLow, aHigh, bLow, bHigh *float64) float64 {
	if aLow == nil || aHigh == nil || bLow == nil || bHigh == nil {
		return 0.5
	}
	return RangeScore(*aLow, *aHigh, *bLow, *bHigh)
}

func bpsScore(a, b *int) float64 {
	if a == nil || b == nil {
		return 0.5
	}
	diff := *a - *b
	if diff < 0 {
		diff = -diff
	}
	if diff == 0 {
		return 1.0
	}
	if diff >= 50 {
		return 0
	}
	return Clamp01(1.0 - float64(diff)/50.0)
}

func setOverlapScore(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.5
	}
	set := make(map[string]struct{}, len(b))
	for _, v := range b {
		set[v] = struct{}{}
	}
	inter := 0
	for _, v := range a {
		if _, ok := set[v]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return Clamp01(float64(inter) / float64(union))
}
