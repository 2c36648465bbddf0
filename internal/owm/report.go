package owm

import (
	"context"
	"time"

	"github.com/ngmaloney/weather-terminal/internal/models"
	"golang.org/x/sync/errgroup"
)

// FetchReport fetches the snapshot and forecast for loc concurrently. If either
// fails the whole report fails with that error and the other result is discarded.
func FetchReport(ctx context.Context, client Client, loc models.Location) (*models.Report, error) {
	var weather *models.WeatherSnapshot
	var forecast *models.ForecastSeries

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if loc.HasCoordinates {
			weather, err = client.CurrentByCoordinates(gctx, loc.Coordinates.Lat, loc.Coordinates.Lon)
		} else {
			weather, err = client.CurrentByCity(gctx, loc.Query)
		}
		return err
	})
	g.Go(func() error {
		var err error
		if loc.HasCoordinates {
			forecast, err = client.ForecastByCoordinates(gctx, loc.Coordinates.Lat, loc.Coordinates.Lon)
		} else {
			forecast, err = client.ForecastByCity(gctx, loc.Query)
		}
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &models.Report{
		Location:  loc,
		Weather:   weather,
		Forecast:  forecast,
		FetchedAt: time.Now(),
	}, nil
}
