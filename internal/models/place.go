package models

import "time"

// Place is a user-saved location
type Place struct {
	ID        int64     `json:"id"`      // Database Primary Key (0 if not saved)
	Name      string    `json:"name"`    // Unique display name, e.g. "London, GB"
	Country   string    `json:"country"` // ISO country code
	State     string    `json:"state"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	CreatedAt time.Time `json:"created_at"`
}

// Location returns the coordinate location for the place, keeping its name for display
func (p Place) Location() Location {
	loc := CoordinateLocation(p.Latitude, p.Longitude)
	loc.Query = p.Name
	return loc
}
