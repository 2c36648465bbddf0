package main

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/owm"
	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:   "current [city]",
	Short: "Print current conditions",
	Long:  `Print current conditions for a city name or for --lat/--lon.`,
	RunE:  runCurrent,
}

var forecastCmd = &cobra.Command{
	Use:   "forecast [city]",
	Short: "Print the forecast",
	Long:  `Print the next 24 hours and a daily forecast (one reading near midday per day).`,
	RunE:  runForecast,
}

var flagDays int

func init() {
	addLocationFlags(currentCmd)
	addLocationFlags(forecastCmd)
	forecastCmd.Flags().IntVar(&flagDays, "days", 5, "Number of days to show (1-5)")
	rootCmd.AddCommand(currentCmd)
	rootCmd.AddCommand(forecastCmd)
}

func runCurrent(cmd *cobra.Command, args []string) error {
	loc, err := locationFromFlags(cmd, args, true)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	var w *models.WeatherSnapshot
	if loc.HasCoordinates {
		w, err = a.client.CurrentByCoordinates(cmd.Context(), loc.Coordinates.Lat, loc.Coordinates.Lon)
	} else {
		w, err = a.client.CurrentByCity(cmd.Context(), loc.Query)
	}
	if err != nil {
		a.logger.Errorw("current conditions failed", "location", loc.String(), "error", err)
		return err
	}

	printSnapshot(cmd.OutOrStdout(), w, a.units)
	return nil
}

func runForecast(cmd *cobra.Command, args []string) error {
	if flagDays < 1 || flagDays > 5 {
		return fmt.Errorf("--days must be between 1 and 5, got %d", flagDays)
	}
	loc, err := locationFromFlags(cmd, args, true)
	if err != nil {
		return err
	}

	a, err := newApp(false)
	if err != nil {
		return err
	}
	defer a.close()

	var f *models.ForecastSeries
	if loc.HasCoordinates {
		f, err = a.client.ForecastByCoordinates(cmd.Context(), loc.Coordinates.Lat, loc.Coordinates.Lon)
	} else {
		f, err = a.client.ForecastByCity(cmd.Context(), loc.Query)
	}
	if err != nil {
		a.logger.Errorw("forecast failed", "location", loc.String(), "error", err)
		return err
	}

	printForecast(cmd.OutOrStdout(), f, flagDays, a.units)
	return nil
}

func printSnapshot(out io.Writer, w *models.WeatherSnapshot, units models.TemperatureUnit) {
	cond := w.Primary()
	place := w.Name
	if w.Country != "" {
		place += ", " + w.Country
	}

	fmt.Fprintln(out, place)
	fmt.Fprintf(out, "  %s, %s (feels like %s)\n",
		models.CapitalizeWords(cond.Description),
		models.FormatTemperature(w.Main.Temperature, units),
		models.FormatTemperature(w.Main.FeelsLike, units))
	fmt.Fprintf(out, "  Low %s  High %s\n",
		models.FormatTemperature(w.Main.TempMin, units),
		models.FormatTemperature(w.Main.TempMax, units))
	fmt.Fprintf(out, "  Humidity    %.0f%%\n", w.Main.Humidity)
	fmt.Fprintf(out, "  Pressure    %.0f hPa\n", w.Main.Pressure)
	fmt.Fprintf(out, "  Wind        %s %d km/h\n", models.WindDirection(w.Wind.Direction), models.MsToKmh(w.Wind.Speed))
	fmt.Fprintf(out, "  Visibility  %.1f km\n", float64(w.Visibility)/1000)
	if w.Sunrise != 0 && w.Sunset != 0 {
		fmt.Fprintf(out, "  Sun         up %s, down %s\n",
			models.FormatClock(w.Sunrise, w.Timezone), models.FormatClock(w.Sunset, w.Timezone))
	}
	if cond.Icon != "" {
		fmt.Fprintf(out, "  Icon        %s\n", owm.IconURL(cond.Icon))
	}
	if w.ObservedAt != 0 {
		fmt.Fprintf(out, "  Observed    %s\n", humanize.Time(time.Unix(w.ObservedAt, 0)))
	}
}

func printForecast(out io.Writer, f *models.ForecastSeries, days int, units models.TemperatureUnit) {
	tz := f.City.Timezone
	name := f.City.Name
	if f.City.Country != "" {
		name += ", " + f.City.Country
	}
	fmt.Fprintln(out, name)

	fmt.Fprintln(out, "\nNext 24 hours")
	for _, e := range f.Next(8) {
		fmt.Fprintf(out, "  %-6s %5s  %s\n",
			models.LocalTime(e.Time, tz).Format("3PM"),
			models.FormatTemperature(e.Main.Temperature, units),
			models.CapitalizeWords(e.Primary().Description))
	}

	daily := f.Daily(days)
	if len(daily) == 0 {
		return
	}
	fmt.Fprintf(out, "\n%d-Day Forecast\n", days)
	for _, e := range daily {
		line := fmt.Sprintf("  %-11s %5s  %s",
			models.LocalTime(e.Time, tz).Format("Mon Jan 2"),
			models.FormatTemperature(e.Main.Temperature, units),
			models.CapitalizeWords(e.Primary().Description))
		if e.Precipitation > 0 {
			line += fmt.Sprintf("  %.0f%% precip", e.Precipitation*100)
		}
		fmt.Fprintln(out, line)
	}
}
