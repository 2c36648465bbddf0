package ui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/sparkline"
	"github.com/charmbracelet/lipgloss"
	"github.com/ngmaloney/weather-terminal/internal/models"
)

const (
	hourlyEntries = 8 // 24 hours at 3-hour steps
	dailyDays     = 5
)

// renderForecastPane renders the next-24-hours strip, its temperature
// sparkline and the 5-day view
func (m Model) renderForecastPane() string {
	f := m.forecast
	if f == nil || len(f.Entries) == 0 {
		return sectionBoxStyle.Render(mutedStyle.Render("No forecast data available"))
	}

	var lines []string

	hourly := f.Next(hourlyEntries)
	lines = append(lines, labelStyle.Render("Next 24 hours"))
	lines = append(lines, renderHourly(hourly, f.City.Timezone, m.units))
	if spark := renderSparkline(hourly, len(hourly)*colWidth); spark != "" {
		lines = append(lines, spark)
	}

	daily := f.Daily(dailyDays)
	if len(daily) > 0 {
		lines = append(lines, sectionHeaderStyle.Render(fmt.Sprintf("%d-Day Forecast", dailyDays)))
		for _, e := range daily {
			lines = append(lines, renderDay(e, f.City.Timezone, m.units))
		}
	}

	return sectionBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

const colWidth = 8

// renderHourly lays entries out as columns: time, glyph, temperature
func renderHourly(entries []models.ForecastEntry, tz int, unit models.TemperatureUnit) string {
	var times, glyphs, temps strings.Builder
	col := lipgloss.NewStyle().Width(colWidth)

	for _, e := range entries {
		times.WriteString(col.Render(models.LocalTime(e.Time, tz).Format("3PM")))
		glyphs.WriteString(col.Render(conditionGlyph(e.Primary().Icon)))
		temps.WriteString(col.Render(temperatureStyle.Render(models.FormatTemperature(e.Main.Temperature, unit))))
	}

	return strings.Join([]string{
		mutedStyle.Render(times.String()),
		glyphs.String(),
		temps.String(),
	}, "\n")
}

// renderSparkline charts the hourly temperatures. Values are shifted so the
// coldest reading sits at the baseline.
func renderSparkline(entries []models.ForecastEntry, width int) string {
	if len(entries) < 2 || width <= 0 {
		return ""
	}

	low := entries[0].Main.Temperature
	for _, e := range entries {
		low = min(low, e.Main.Temperature)
	}

	data := make([]float64, 0, width)
	step := width / len(entries)
	for _, e := range entries {
		v := e.Main.Temperature - low + 1
		for i := 0; i < step; i++ {
			data = append(data, v)
		}
	}

	sl := sparkline.New(width, 3, sparkline.WithStyle(sparklineStyle))
	sl.PushAll(data)
	sl.Draw()
	return sl.View()
}

func renderDay(e models.ForecastEntry, tz int, unit models.TemperatureUnit) string {
	cond := e.Primary()
	day := models.LocalTime(e.Time, tz).Format("Mon Jan 2")

	line := fmt.Sprintf("%-11s %s  %s  %s",
		day,
		conditionGlyph(cond.Icon),
		temperatureStyle.Render(fmt.Sprintf("%5s", models.FormatTemperature(e.Main.Temperature, unit))),
		valueStyle.Render(models.CapitalizeWords(cond.Description)))
	if e.Precipitation > 0 {
		line += mutedStyle.Render(fmt.Sprintf("  %.0f%% precip", e.Precipitation*100))
	}
	return line
}
