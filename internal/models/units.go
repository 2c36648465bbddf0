package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// TemperatureUnit selects the display scale. Source data is always Celsius.
type TemperatureUnit string

const (
	Celsius    TemperatureUnit = "C"
	Fahrenheit TemperatureUnit = "F"
)

// ParseTemperatureUnit accepts "C", "F", "metric" or "imperial" (case-insensitive)
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "celsius", "metric":
		return Celsius, nil
	case "f", "fahrenheit", "imperial":
		return Fahrenheit, nil
	}
	return Celsius, fmt.Errorf("unknown temperature unit %q", s)
}

// Toggle returns the other unit
func (u TemperatureUnit) Toggle() TemperatureUnit {
	if u == Fahrenheit {
		return Celsius
	}
	return Fahrenheit
}

// CelsiusToFahrenheit converts a Celsius temperature
func CelsiusToFahrenheit(celsius float64) float64 {
	return celsius*9/5 + 32
}

// FormatTemperature renders a Celsius value in the given unit, rounded, e.g. "32°F"
func FormatTemperature(celsius float64, unit TemperatureUnit) string {
	value := celsius
	if unit == Fahrenheit {
		value = CelsiusToFahrenheit(celsius)
	} else {
		unit = Celsius
	}
	return fmt.Sprintf("%d°%s", roundHalfUp(value), unit)
}

// MsToKmh converts wind speed from m/s to km/h, rounded
func MsToKmh(speed float64) int {
	return roundHalfUp(speed * 3.6)
}

// WindDirection maps degrees to an 8-point compass label
func WindDirection(degrees float64) string {
	directions := []string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}
	index := roundHalfUp(degrees/45) % 8
	if index < 0 {
		index += 8
	}
	return directions[index]
}

// CapitalizeWords upper-cases the first letter of each space separated word
func CapitalizeWords(s string) string {
	words := strings.Split(s, " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		r := []rune(w)
		words[i] = strings.ToUpper(string(r[0])) + string(r[1:])
	}
	return strings.Join(words, " ")
}

// LocalTime converts a unix timestamp into the location's local time given its
// offset in seconds east of UTC
func LocalTime(unix int64, offset int) time.Time {
	return time.Unix(unix, 0).In(time.FixedZone("", offset))
}

// FormatClock renders a unix timestamp as "3:04 PM" in the location's local time
func FormatClock(unix int64, offset int) string {
	return LocalTime(unix, offset).Format("3:04 PM")
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
