// Package places persists saved locations and display preferences.
package places

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ngmaloney/weather-terminal/internal/database"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

// PreferenceUnits is the preferences key for the temperature display unit
const PreferenceUnits = "units"

// ErrPlaceNotFound is returned when deleting a name that is not saved
var ErrPlaceNotFound = errors.New("place not found")

// Repository handles persistence for saved places and preferences
type Repository struct {
	dbPath string
}

// NewRepository creates a repository backed by the sqlite file at dbPath.
// An empty path uses database.DBPath().
func NewRepository(dbPath string) *Repository {
	if dbPath == "" {
		dbPath = database.DBPath()
	}
	return &Repository{dbPath: dbPath}
}

func (r *Repository) open() (*sql.DB, error) {
	// Safe to call multiple times
	if err := database.EnsureSchema(r.dbPath); err != nil {
		return nil, err
	}
	return database.Open(r.dbPath)
}

// SavePlace inserts the place, or updates the existing entry with the same name
func (r *Repository) SavePlace(place *models.Place) error {
	place.Name = strings.TrimSpace(place.Name)
	if place.Name == "" {
		return errors.New("place name is required")
	}

	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	if place.CreatedAt.IsZero() {
		place.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO places (name, country, state, latitude, longitude, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			country = excluded.country,
			state = excluded.state,
			latitude = excluded.latitude,
			longitude = excluded.longitude
		RETURNING id
	`

	err = db.QueryRow(query,
		place.Name,
		place.Country,
		place.State,
		place.Latitude,
		place.Longitude,
		place.CreatedAt,
	).Scan(&place.ID)
	if err != nil {
		return fmt.Errorf("saving place: %w", err)
	}

	return nil
}

// ListPlaces retrieves all saved places ordered by name
func (r *Repository) ListPlaces() ([]models.Place, error) {
	db, err := r.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query("SELECT id, name, country, state, latitude, longitude, created_at FROM places ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying places: %w", err)
	}
	defer rows.Close()

	var places []models.Place
	for rows.Next() {
		var p models.Place
		var country, state sql.NullString

		if err := rows.Scan(&p.ID, &p.Name, &country, &state, &p.Latitude, &p.Longitude, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning place: %w", err)
		}
		p.Country = country.String
		p.State = state.String
		places = append(places, p)
	}

	return places, rows.Err()
}

// DeletePlace removes a place by name. Unknown names yield ErrPlaceNotFound.
func (r *Repository) DeletePlace(name string) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.Exec("DELETE FROM places WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("deleting place: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting place: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrPlaceNotFound, name)
	}

	return nil
}

// Preference returns the stored value for key, or "" if unset
func (r *Repository) Preference(key string) (string, error) {
	db, err := r.open()
	if err != nil {
		return "", err
	}
	defer db.Close()

	var value string
	err = db.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading preference %s: %w", key, err)
	}
	return value, nil
}

// SetPreference stores value under key
func (r *Repository) SetPreference(key, value string) error {
	db, err := r.open()
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("saving preference %s: %w", key, err)
	}
	return nil
}

// Units returns the stored display unit, or fallback when none is stored
func (r *Repository) Units(fallback models.TemperatureUnit) models.TemperatureUnit {
	v, err := r.Preference(PreferenceUnits)
	if err != nil || v == "" {
		return fallback
	}
	u, err := models.ParseTemperatureUnit(v)
	if err != nil {
		return fallback
	}
	return u
}

// SetUnits persists the display unit
func (r *Repository) SetUnits(u models.TemperatureUnit) error {
	return r.SetPreference(PreferenceUnits, string(u))
}

// PlaceFromSuggestion builds a savable place from a search suggestion
func PlaceFromSuggestion(s models.GeoSuggestion) models.Place {
	return models.Place{
		Name:      s.DisplayName(),
		Country:   s.Country,
		State:     s.State,
		Latitude:  s.Lat,
		Longitude: s.Lon,
	}
}

// PlaceFromSnapshot builds a savable place from a displayed snapshot
func PlaceFromSnapshot(w *models.WeatherSnapshot) models.Place {
	name := w.Name
	if w.Country != "" {
		name = fmt.Sprintf("%s, %s", w.Name, w.Country)
	}
	return models.Place{
		Name:      name,
		Country:   w.Country,
		Latitude:  w.Coordinates.Lat,
		Longitude: w.Coordinates.Lon,
	}
}
