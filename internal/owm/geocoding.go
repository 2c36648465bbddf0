package owm

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ngmaloney/weather-terminal/internal/models"
)

const (
	// MinQueryLength is the shortest query that reaches the network
	MinQueryLength = 2

	// DefaultSearchLimit is used when SearchCities is given a non-positive limit
	DefaultSearchLimit = 15
)

// SearchCities looks up cities matching query. Autocomplete is best-effort: short
// queries, a missing key, transport/decode failures and non-2xx responses all
// yield an empty slice. Failures are logged so they stay distinguishable from
// zero matches. A single attempt is made; callers re-query on the next keystroke.
func (c *OWMClient) SearchCities(ctx context.Context, query string, limit int) []models.GeoSuggestion {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return []models.GeoSuggestion{}
	}
	if !c.HasCredential() {
		c.logger.Debugw("city search skipped", "reason", KindMissingCredential)
		return []models.GeoSuggestion{}
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", strconv.Itoa(limit))

	var results []geoResponse
	if err := c.getJSON(ctx, c.geoURL+"/direct", params, &results); err != nil {
		c.logger.Warnw("city search failed", "query", query, "kind", KindOf(err), "error", err)
		return []models.GeoSuggestion{}
	}

	suggestions := make([]models.GeoSuggestion, 0, len(results))
	for _, r := range results {
		suggestions = append(suggestions, models.GeoSuggestion{
			Name:    r.Name,
			Country: r.Country,
			State:   r.State,
			Lat:     r.Lat,
			Lon:     r.Lon,
		})
	}
	return models.DedupeSuggestions(suggestions)
}
