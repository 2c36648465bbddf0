package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

// conditionGlyph maps an upstream icon code ("10d", "01n") to a terminal glyph
func conditionGlyph(icon string) string {
	night := strings.HasSuffix(icon, "n")
	code := strings.TrimRight(icon, "dn")

	switch code {
	case "01":
		if night {
			return "☾"
		}
		return "☀"
	case "02":
		return "⛅"
	case "03", "04":
		return "☁"
	case "09", "10":
		return "☂"
	case "11":
		return "⚡"
	case "13":
		return "❄"
	case "50":
		return "≋"
	}
	return "·"
}

// renderCurrentPane renders the current conditions box
func (m Model) renderCurrentPane() string {
	w := m.weather
	if w == nil {
		return sectionBoxStyle.Render(mutedStyle.Render("No weather data available"))
	}

	cond := w.Primary()
	place := w.Name
	if w.Country != "" {
		place = fmt.Sprintf("%s, %s", w.Name, w.Country)
	}

	var lines []string
	lines = append(lines,
		titleStyle.Render(place),
		fmt.Sprintf("%s  %s", conditionGlyph(cond.Icon), valueStyle.Render(models.CapitalizeWords(cond.Description))),
		"",
		temperatureStyle.Render(models.FormatTemperature(w.Main.Temperature, m.units))+
			mutedStyle.Render("  feels like "+models.FormatTemperature(w.Main.FeelsLike, m.units)),
		mutedStyle.Render(fmt.Sprintf("L %s  H %s",
			models.FormatTemperature(w.Main.TempMin, m.units),
			models.FormatTemperature(w.Main.TempMax, m.units))),
		"",
	)

	lines = append(lines, detailRow("Humidity", fmt.Sprintf("%.0f%%", w.Main.Humidity)))
	lines = append(lines, detailRow("Pressure", fmt.Sprintf("%.0f hPa", w.Main.Pressure)))
	lines = append(lines, detailRow("Wind", formatWind(w.Wind)))
	lines = append(lines, detailRow("Visibility", fmt.Sprintf("%.1f km", float64(w.Visibility)/1000)))
	lines = append(lines, detailRow("Clouds", fmt.Sprintf("%d%%", w.Clouds)))
	if w.Sunrise != 0 && w.Sunset != 0 {
		lines = append(lines, detailRow("Sun", fmt.Sprintf("↑ %s  ↓ %s",
			models.FormatClock(w.Sunrise, w.Timezone),
			models.FormatClock(w.Sunset, w.Timezone))))
	}

	return sectionBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func detailRow(label, value string) string {
	return labelStyle.Width(12).Render(label) + valueStyle.Render(value)
}

// formatWind formats wind data for display
func formatWind(wind models.WindData) string {
	s := fmt.Sprintf("%s %d km/h", models.WindDirection(wind.Direction), models.MsToKmh(wind.Speed))
	if wind.HasGust {
		s += fmt.Sprintf(", gusts %d km/h", models.MsToKmh(wind.GustSpeed))
	}
	return s
}
