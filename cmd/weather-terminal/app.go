package main

import (
	"fmt"
	"strings"

	"github.com/ngmaloney/weather-terminal/internal/config"
	"github.com/ngmaloney/weather-terminal/internal/logging"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"github.com/ngmaloney/weather-terminal/internal/owm"
	"github.com/ngmaloney/weather-terminal/internal/places"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app bundles the dependencies every command builds from config
type app struct {
	cfg    *config.Config
	logger *zap.SugaredLogger
	client *owm.OWMClient
	repo   *places.Repository
	units  models.TemperatureUnit
}

// newApp loads configuration and wires the client, repository and logger.
// The dashboard owns the terminal, so it logs to a file; subcommands log to stderr.
func newApp(toFile bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	var logger *zap.SugaredLogger
	if toFile {
		logger, err = logging.NewFile(cfg.LogFile, flagDebug)
	} else {
		logger, err = logging.NewConsole(flagDebug)
	}
	if err != nil {
		return nil, err
	}

	for _, w := range cfg.Warnings {
		logger.Warn(w)
	}
	if !cfg.HasAPIKey() {
		logger.Warn("OPENWEATHER_API_KEY is not set; weather requests will fail")
	}

	opts := append(cfg.ClientOptions(), owm.LoggerOption(logger))
	a := &app{
		cfg:    cfg,
		logger: logger,
		client: owm.New(opts...),
		repo:   places.NewRepository(cfg.DBPath),
	}

	units, err := a.resolveUnits(flagUnits)
	if err != nil {
		return nil, err
	}
	a.units = units
	return a, nil
}

// resolveUnits applies the --units flag, then the saved preference, then config
func (a *app) resolveUnits(flag string) (models.TemperatureUnit, error) {
	if strings.TrimSpace(flag) != "" {
		return models.ParseTemperatureUnit(flag)
	}
	return a.repo.Units(a.cfg.Units), nil
}

func (a *app) close() {
	_ = a.logger.Sync()
}

// Location flags shared by the dashboard and the report subcommands
var (
	flagLat  float64
	flagLon  float64
	flagCity string
)

func addLocationFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&flagLat, "lat", 0, "Latitude in decimal degrees (requires --lon)")
	cmd.Flags().Float64Var(&flagLon, "lon", 0, "Longitude in decimal degrees (requires --lat)")
}

// locationFromFlags resolves a location from positional city words or --lat/--lon.
// required reports whether a location must be given.
func locationFromFlags(cmd *cobra.Command, args []string, required bool) (*models.Location, error) {
	latSet := cmd.Flags().Changed("lat")
	lonSet := cmd.Flags().Changed("lon")
	city := strings.TrimSpace(strings.Join(args, " "))
	if city == "" && cmd.Flags().Lookup("city") != nil {
		city = strings.TrimSpace(flagCity)
	}

	switch {
	case latSet != lonSet:
		return nil, fmt.Errorf("--lat and --lon must be given together")
	case latSet && city != "":
		return nil, fmt.Errorf("give either a city or --lat/--lon, not both")
	case latSet:
		if flagLat < -90 || flagLat > 90 {
			return nil, fmt.Errorf("latitude %v out of range [-90, 90]", flagLat)
		}
		if flagLon < -180 || flagLon > 180 {
			return nil, fmt.Errorf("longitude %v out of range [-180, 180]", flagLon)
		}
		loc := models.CoordinateLocation(flagLat, flagLon)
		return &loc, nil
	case city != "":
		loc := models.CityLocation(city)
		return &loc, nil
	}

	if required {
		return nil, fmt.Errorf("a city or --lat/--lon is required")
	}
	return nil, nil
}
