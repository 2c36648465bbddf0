package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/owm"
	"github.com/ngmaloney/weather-terminal/internal/places"
	"github.com/spf13/cobra"
)

func newFlagCommand(t *testing.T, withCity bool, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	addLocationFlags(cmd)
	if withCity {
		cmd.Flags().StringVar(&flagCity, "city", "", "")
	}
	for name, value := range flags {
		if err := cmd.Flags().Set(name, value); err != nil {
			t.Fatalf("setting --%s: %v", name, err)
		}
	}
	return cmd
}

func TestLocationFromFlags(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		flags     map[string]string
		withCity  bool
		required  bool
		wantQuery string
		wantCoord bool
		wantNil   bool
		wantErr   bool
	}{
		{name: "city words", args: []string{"New", "York"}, required: true, wantQuery: "New York"},
		{name: "coordinates", flags: map[string]string{"lat": "51.5", "lon": "-0.12"}, required: true, wantCoord: true},
		{name: "city flag", flags: map[string]string{"city": " Oslo "}, withCity: true, wantQuery: "Oslo"},
		{name: "lat without lon", flags: map[string]string{"lat": "51.5"}, wantErr: true},
		{name: "city and coordinates", args: []string{"Paris"}, flags: map[string]string{"lat": "1", "lon": "2"}, wantErr: true},
		{name: "latitude out of range", flags: map[string]string{"lat": "91", "lon": "0"}, wantErr: true},
		{name: "longitude out of range", flags: map[string]string{"lat": "0", "lon": "-181"}, wantErr: true},
		{name: "missing but required", required: true, wantErr: true},
		{name: "missing and optional", wantNil: true},
		{name: "blank args", args: []string{"  "}, wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newFlagCommand(t, tt.withCity, tt.flags)

			loc, err := locationFromFlags(cmd, tt.args, tt.required)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("locationFromFlags() = %+v, want error", loc)
				}
				return
			}
			if err != nil {
				t.Fatalf("locationFromFlags() error = %v", err)
			}
			if tt.wantNil {
				if loc != nil {
					t.Errorf("locationFromFlags() = %+v, want nil", loc)
				}
				return
			}
			if loc.HasCoordinates != tt.wantCoord {
				t.Errorf("HasCoordinates = %v, want %v", loc.HasCoordinates, tt.wantCoord)
			}
			if loc.Query != tt.wantQuery {
				t.Errorf("Query = %q, want %q", loc.Query, tt.wantQuery)
			}
		})
	}
}

func TestErrorText(t *testing.T) {
	if got := errorText(owm.Classify(429, nil)); got != "Error: Too many requests. Please wait a moment and try again." {
		t.Errorf("errorText(429) = %q", got)
	}
	if got := errorText(errors.New("--days must be between 1 and 5, got 9")); !strings.Contains(got, "--days") {
		t.Errorf("errorText(usage) = %q", got)
	}
}

func TestPrintSnapshot(t *testing.T) {
	w := &models.WeatherSnapshot{
		Name:       "London",
		Country:    "GB",
		Conditions: []models.Condition{{Description: "light rain", Icon: "10d"}},
		Main:       models.Reading{Temperature: 0, FeelsLike: -3, TempMin: -1, TempMax: 2, Pressure: 1012, Humidity: 81},
		Wind:       models.WindData{Speed: 4.1, Direction: 240},
		Visibility: 10000,
	}

	var buf bytes.Buffer
	printSnapshot(&buf, w, models.Fahrenheit)
	out := buf.String()

	for _, want := range []string{
		"London, GB",
		"Light Rain, 32°F (feels like 27°F)",
		"Humidity    81%",
		"Wind        SW 15 km/h",
		"https://openweathermap.org/img/wn/10d@2x.png",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Sun ") {
		t.Error("sun times should be omitted when unknown")
	}
}

func TestPrintForecast(t *testing.T) {
	f := &models.ForecastSeries{City: models.CityInfo{Name: "Oslo", Country: "NO"}}
	// 2025-06-01 00:00 UTC, 3-hour steps over three days
	for i := 0; i < 24; i++ {
		f.Entries = append(f.Entries, models.ForecastEntry{
			Time:       1748736000 + int64(i)*3*3600,
			Main:       models.Reading{Temperature: 15},
			Conditions: []models.Condition{{Description: "few clouds"}},
		})
	}

	var buf bytes.Buffer
	printForecast(&buf, f, 2, models.Celsius)
	out := buf.String()

	if !strings.Contains(out, "Oslo, NO") || !strings.Contains(out, "Next 24 hours") {
		t.Errorf("missing header:\n%s", out)
	}
	if !strings.Contains(out, "2-Day Forecast") {
		t.Errorf("missing daily section:\n%s", out)
	}
	if n := strings.Count(out, "Sun Jun 1") + strings.Count(out, "Mon Jun 2") + strings.Count(out, "Tue Jun 3"); n != 2 {
		t.Errorf("daily rows = %d, want 2:\n%s", n, out)
	}
}

func TestPrintSuggestions(t *testing.T) {
	var buf bytes.Buffer
	printSuggestions(&buf, []models.GeoSuggestion{
		{Name: "London", State: "England", Country: "GB", Lat: 51.5073, Lon: -0.1276},
		{Name: "London", State: "Ontario", Country: "CA", Lat: 42.9834, Lon: -81.233},
	})
	out := buf.String()

	for _, want := range []string{"City", "Coordinates", "London, England, GB", "42.9834, -81.2330", "╭"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// top border, header, header separator, two rows, bottom border
	if len(lines) != 6 {
		t.Errorf("table has %d lines, want 6:\n%s", len(lines), out)
	}
}

func TestPrintPlaces(t *testing.T) {
	var buf bytes.Buffer
	printPlaces(&buf, []models.Place{
		{Name: "Oslo, NO", Latitude: 59.9139, Longitude: 10.7522, CreatedAt: time.Now().Add(-2 * time.Hour)},
	})
	out := buf.String()

	for _, want := range []string{"Name", "Saved", "Oslo, NO", "59.9139, 10.7522", "2 hours ago"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}
}

func TestPlacesDelete(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")
	t.Setenv("WEATHER_DB_PATH", dbPath)
	t.Chdir(t.TempDir())

	repo := places.NewRepository(dbPath)
	if err := repo.SavePlace(&models.Place{Name: "Oslo, NO", Latitude: 59.9, Longitude: 10.7}); err != nil {
		t.Fatalf("SavePlace: %v", err)
	}

	run := func(args ...string) (string, error) {
		var buf bytes.Buffer
		rootCmd.SetOut(&buf)
		rootCmd.SetArgs(args)
		t.Cleanup(func() {
			rootCmd.SetOut(nil)
			rootCmd.SetArgs(nil)
		})
		err := rootCmd.ExecuteContext(context.Background())
		return buf.String(), err
	}

	out, err := run("places", "delete", "Oslo, NO")
	if err != nil {
		t.Fatalf("delete existing: %v", err)
	}
	if !strings.Contains(out, "Deleted Oslo, NO") {
		t.Errorf("output = %q", out)
	}

	out, err = run("places", "delete", "Atlantis")
	if !errors.Is(err, places.ErrPlaceNotFound) {
		t.Errorf("delete missing error = %v, want ErrPlaceNotFound", err)
	}
	if strings.Contains(out, "Deleted") {
		t.Errorf("missing place reported as deleted: %q", out)
	}
}
