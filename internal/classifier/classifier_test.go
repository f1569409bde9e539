package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sawpanic/marketlink/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestClassify_TickerPrefixWins(t *testing.T) {
	c := New()
	m := domain.Market{
		SeriesTicker: strPtr("KXBTC-25DEC31"),
		Category:     strPtr("politics"),
		Title:        "Will Bitcoin close above $100,000?",
	}
	got := c.Classify(m)
	assert.Equal(t, domain.TopicCryptoDaily, got.Topic)
	assert.Equal(t, domain.SourceTicker, got.Source)
}

func TestClassify_CategoryFallsBackWhenNoTicker(t *testing.T) {
	c := New()
	m := domain.Market{
		Category: strPtr("Commodities"),
		Title:    "Will the sky turn green?",
	}
	got := c.Classify(m)
	assert.Equal(t, domain.TopicCommodities, got.Topic)
	assert.Equal(t, domain.SourceCategory, got.Source)
}

func TestClassify_TagsFallBackWhenNoCategoryMatch(t *testing.T) {
	c := New()
	m := domain.Market{
		Category: strPtr("uncategorized"),
		Tags:     []string{"nba"},
		Title:    "Something ambiguous",
	}
	got := c.Classify(m)
	assert.Equal(t, domain.TopicSports, got.Topic)
	assert.Equal(t, domain.SourceTags, got.Source)
}

func TestClassify_TitleRegexFallback(t *testing.T) {
	c := New()
	m := domain.Market{
		Title: "Will the Fed cut rates by 25 bps in December?",
	}
	got := c.Classify(m)
	assert.Equal(t, domain.TopicRates, got.Topic)
	assert.Equal(t, domain.SourceTitle, got.Source)
}

func TestClassify_UnknownFallback(t *testing.T) {
	c := New()
	m := domain.Market{Title: "Completely unrelated question text"}
	got := c.Classify(m)
	assert.Equal(t, domain.TopicUnknown, got.Topic)
	assert.Equal(t, domain.SourceFallback, got.Source)
	assert.Zero(t, got.Confidence)
}
