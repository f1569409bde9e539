// Package extract holds one pure function per canonical topic, each
// turning a domain.Market into the matching domain.Signals variant
// (spec.md §4.2). Extractors never touch the network or a database;
// they read only the Market's title and close time.
package extract

import (
	"strings"
	"time"

	"github.com/sawpanic/marketlink/internal/domain"
	"github.com/sawpanic/marketlink/internal/textutil"
)

// buildCommon tokenizes the title and normalizes the given raw entity
// mentions into the shared Common envelope every Signals variant carries.
func buildCommon(title string, rawEntities ...string) domain.Common {
	tokens := textutil.Tokenize(title)
	var entities []string
	for _, raw := range rawEntities {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		entities = append(entities, textutil.NormalizeEntity(raw))
	}
	var primary *string
	if len(entities) > 0 {
		e := entities[0]
		primary = &e
	}
	return domain.Common{
		Entity:      primary,
		Entities:    entities,
		TitleTokens: tokens,
	}
}

// parseMeetingMonth reduces the title-parse date families down to a
// YYYY-MM period key, used by the rates/macro extractors which don't
// need the full ParsedDate triple.
func parseMeetingMonth(title string, closeTime *time.Time, now time.Time) string {
	parsed := textutil.ParseDate(title, closeTime, now)
	return parsed.PeriodKey
}
