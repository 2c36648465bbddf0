package models

import (
	"fmt"
	"time"
)

// Coordinates is a latitude/longitude pair in decimal degrees
type Coordinates struct {
	Lat float64
	Lon float64
}

// Condition describes one weather condition reported for a reading
type Condition struct {
	ID          int    // upstream condition code, e.g. 800
	Main        string // short label, e.g. "Clouds"
	Description string // e.g. "scattered clouds"
	Icon        string // icon code, e.g. "03d"
}

// Reading holds the temperature and atmospheric block of a snapshot or forecast entry.
// Temperatures are Celsius.
type Reading struct {
	Temperature float64
	FeelsLike   float64
	TempMin     float64
	TempMax     float64
	Pressure    float64 // hPa
	Humidity    float64 // percent
}

// WindData represents wind conditions as delivered by the source
type WindData struct {
	Speed     float64 // m/s
	Direction float64 // degrees
	GustSpeed float64 // m/s (0 if no gusts)
	HasGust   bool
}

// WeatherSnapshot is a single point-in-time reading for one location.
// Snapshots are replaced wholesale on refresh and never mutated.
type WeatherSnapshot struct {
	Coordinates Coordinates
	Conditions  []Condition // never empty
	Main        Reading
	Wind        WindData
	Clouds      int   // coverage percent
	Visibility  int   // meters
	Timezone    int   // seconds east of UTC
	ObservedAt  int64 // unix seconds
	Name        string
	Country     string
	Sunrise     int64 // unix seconds
	Sunset      int64 // unix seconds
}

// Primary returns the first (dominant) condition
func (s *WeatherSnapshot) Primary() Condition {
	if s == nil || len(s.Conditions) == 0 {
		return Condition{}
	}
	return s.Conditions[0]
}

// ForecastEntry is one step of a forecast series
type ForecastEntry struct {
	Time          int64  // unix seconds
	TimeText      string // upstream textual timestamp, e.g. "2025-01-02 15:00:00"
	Main          Reading
	Conditions    []Condition
	Wind          WindData
	Visibility    int
	Precipitation float64 // probability 0..1
}

// Primary returns the first condition of the entry
func (e ForecastEntry) Primary() Condition {
	if len(e.Conditions) == 0 {
		return Condition{}
	}
	return e.Conditions[0]
}

// CityInfo describes the subject location of a forecast
type CityInfo struct {
	ID          int64
	Name        string
	Coordinates Coordinates
	Country     string
	Population  int64
	Timezone    int
	Sunrise     int64
	Sunset      int64
}

// ForecastSeries holds forecast entries in the order the source delivered them
// (non-decreasing time). Helpers only filter or slice, never reorder.
type ForecastSeries struct {
	Entries []ForecastEntry
	City    CityInfo
}

// Next returns up to n leading entries (8 entries = next 24 hours at 3-hour steps)
func (f *ForecastSeries) Next(n int) []ForecastEntry {
	if f == nil || n <= 0 {
		return nil
	}
	if n > len(f.Entries) {
		n = len(f.Entries)
	}
	return f.Entries[:n]
}

// Daily picks one entry per calendar day, the first one falling between 11:00 and
// 14:00 in the city's local time, up to maxDays days.
func (f *ForecastSeries) Daily(maxDays int) []ForecastEntry {
	if f == nil || maxDays <= 0 {
		return nil
	}
	loc := time.FixedZone(f.City.Name, f.City.Timezone)

	seen := make(map[string]bool)
	var days []ForecastEntry
	for _, entry := range f.Entries {
		t := time.Unix(entry.Time, 0).In(loc)
		date := t.Format("2006-01-02")
		if seen[date] || t.Hour() < 11 || t.Hour() > 14 {
			continue
		}
		seen[date] = true
		days = append(days, entry)
		if len(days) == maxDays {
			break
		}
	}
	return days
}

// GeoSuggestion is a single city search result
type GeoSuggestion struct {
	Name    string
	Country string
	State   string // optional
	Lat     float64
	Lon     float64
}

// SuggestionKey is the identity of a suggestion. State is not part of it.
type SuggestionKey struct {
	Name    string
	Country string
	Lat     float64
	Lon     float64
}

// Key returns the identity of the suggestion: (name, country, lat, lon)
func (g GeoSuggestion) Key() SuggestionKey {
	return SuggestionKey{Name: g.Name, Country: g.Country, Lat: g.Lat, Lon: g.Lon}
}

// DisplayName renders "Name, State, Country", omitting the state when absent
func (g GeoSuggestion) DisplayName() string {
	if g.State != "" {
		return fmt.Sprintf("%s, %s, %s", g.Name, g.State, g.Country)
	}
	return fmt.Sprintf("%s, %s", g.Name, g.Country)
}

// DedupeSuggestions drops entries whose identity tuple was already seen, keeping order
func DedupeSuggestions(in []GeoSuggestion) []GeoSuggestion {
	out := make([]GeoSuggestion, 0, len(in))
	seen := make(map[SuggestionKey]bool, len(in))
	for _, s := range in {
		if seen[s.Key()] {
			continue
		}
		seen[s.Key()] = true
		out = append(out, s)
	}
	return out
}

// Location identifies what a report was requested for: a city query or coordinates
type Location struct {
	Query          string
	Coordinates    Coordinates
	HasCoordinates bool
}

// CityLocation builds a location keyed on a free-text city name
func CityLocation(name string) Location {
	return Location{Query: name}
}

// CoordinateLocation builds a location keyed on coordinates
func CoordinateLocation(lat, lon float64) Location {
	return Location{Coordinates: Coordinates{Lat: lat, Lon: lon}, HasCoordinates: true}
}

// String renders the location for display and logging
func (l Location) String() string {
	if l.Query != "" {
		return l.Query
	}
	return fmt.Sprintf("%.4f, %.4f", l.Coordinates.Lat, l.Coordinates.Lon)
}

// Report is the pair of snapshot and forecast fetched together for one location
type Report struct {
	Location  Location
	Weather   *WeatherSnapshot
	Forecast  *ForecastSeries
	FetchedAt time.Time
}
