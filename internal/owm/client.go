// Package owm is the data-access layer for the OpenWeatherMap API. Every
// network-issuing operation fails with a *ClassifiedError.
package owm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ngmaloney/weather-terminal/internal/models"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5"
	DefaultGeoURL  = "https://api.openweathermap.org/geo/1.0"
	iconBaseURL    = "https://openweathermap.org/img/wn"
	userAgent      = "WeatherTerminal/1.0 (github.com/ngmaloney/weather-terminal)"
)

// Client defines the weather operations used by the UI and CLI
type Client interface {
	// CurrentByCity retrieves the current snapshot for a city name
	CurrentByCity(ctx context.Context, name string) (*models.WeatherSnapshot, error)

	// CurrentByCoordinates retrieves the current snapshot for a lat/lon
	CurrentByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error)

	// ForecastByCity retrieves the 3-hour step forecast for a city name
	ForecastByCity(ctx context.Context, name string) (*models.ForecastSeries, error)

	// ForecastByCoordinates retrieves the 3-hour step forecast for a lat/lon
	ForecastByCoordinates(ctx context.Context, lat, lon float64) (*models.ForecastSeries, error)

	// SearchCities returns city suggestions. It never fails; problems yield an empty slice.
	SearchCities(ctx context.Context, query string, limit int) []models.GeoSuggestion
}

type ClientOption func(*OWMClient)

// OWMClient implements Client against the OpenWeatherMap REST API
type OWMClient struct {
	apiKey     string
	baseURL    string
	geoURL     string
	httpClient *http.Client
	retrier    *Retrier
	limiter    *rate.Limiter
	logger     *zap.SugaredLogger
}

func APIKeyOption(apiKey string) ClientOption {
	return func(c *OWMClient) {
		c.apiKey = strings.TrimSpace(apiKey)
	}
}

func BaseURLOption(baseURL string) ClientOption {
	return func(c *OWMClient) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

func GeoURLOption(geoURL string) ClientOption {
	return func(c *OWMClient) {
		c.geoURL = strings.TrimRight(geoURL, "/")
	}
}

func HTTPClientOption(httpClient *http.Client) ClientOption {
	return func(c *OWMClient) {
		c.httpClient = httpClient
	}
}

func RetrierOption(r *Retrier) ClientOption {
	return func(c *OWMClient) {
		c.retrier = r
	}
}

// LimiterOption caps outbound requests. A nil limiter disables limiting.
func LimiterOption(l *rate.Limiter) ClientOption {
	return func(c *OWMClient) {
		c.limiter = l
	}
}

func LoggerOption(logger *zap.SugaredLogger) ClientOption {
	return func(c *OWMClient) {
		c.logger = logger
	}
}

// New creates a client. A missing API key is valid; operations then fail with
// KindMissingCredential without touching the network.
func New(opts ...ClientOption) *OWMClient {
	c := &OWMClient{
		baseURL: DefaultBaseURL,
		geoURL:  DefaultGeoURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retrier: NewRetrier(),
		logger:  zap.NewNop().Sugar(),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.retrier != nil && c.retrier.OnRetry == nil {
		r := *c.retrier
		r.OnRetry = func(retry int, wait time.Duration, err error) {
			c.logger.Warnw("retrying request", "retry", retry, "wait", wait, "error", err)
		}
		c.retrier = &r
	}
	return c
}

// HasCredential reports whether an API key is configured
func (c *OWMClient) HasCredential() bool {
	return c.apiKey != ""
}

// IconURL returns the image URL for an upstream icon code
func IconURL(code string) string {
	return fmt.Sprintf("%s/%s@2x.png", iconBaseURL, code)
}

// CurrentByCity retrieves the current snapshot for a city name
func (c *OWMClient) CurrentByCity(ctx context.Context, name string) (*models.WeatherSnapshot, error) {
	params, err := c.cityParams(name)
	if err != nil {
		return nil, err
	}
	return c.current(ctx, params)
}

// CurrentByCoordinates retrieves the current snapshot for a lat/lon
func (c *OWMClient) CurrentByCoordinates(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	params, err := c.coordinateParams(lat, lon)
	if err != nil {
		return nil, err
	}
	return c.current(ctx, params)
}

// ForecastByCity retrieves the forecast series for a city name
func (c *OWMClient) ForecastByCity(ctx context.Context, name string) (*models.ForecastSeries, error) {
	params, err := c.cityParams(name)
	if err != nil {
		return nil, err
	}
	return c.forecast(ctx, params)
}

// ForecastByCoordinates retrieves the forecast series for a lat/lon
func (c *OWMClient) ForecastByCoordinates(ctx context.Context, lat, lon float64) (*models.ForecastSeries, error) {
	params, err := c.coordinateParams(lat, lon)
	if err != nil {
		return nil, err
	}
	return c.forecast(ctx, params)
}

func (c *OWMClient) cityParams(name string) (url.Values, error) {
	if !c.HasCredential() {
		return nil, ErrMissingCredential()
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInputInvalid()
	}

	params := url.Values{}
	params.Set("q", name)
	params.Set("units", "metric")
	return params, nil
}

func (c *OWMClient) coordinateParams(lat, lon float64) (url.Values, error) {
	if !c.HasCredential() {
		return nil, ErrMissingCredential()
	}

	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("units", "metric")
	return params, nil
}

func (c *OWMClient) current(ctx context.Context, params url.Values) (*models.WeatherSnapshot, error) {
	resp, err := Retry(ctx, c.retrier, func(ctx context.Context) (*weatherResponse, error) {
		var out weatherResponse
		if err := c.getJSON(ctx, c.baseURL+"/weather", params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		c.logger.Errorw(err.Error(), "endpoint", "weather", "query", redact(params))
		return nil, err
	}
	if len(resp.Weather) == 0 {
		return nil, errMalformedResponse(fmt.Errorf("weather response has no conditions"))
	}
	return resp.toSnapshot(), nil
}

func (c *OWMClient) forecast(ctx context.Context, params url.Values) (*models.ForecastSeries, error) {
	resp, err := Retry(ctx, c.retrier, func(ctx context.Context) (*forecastResponse, error) {
		var out forecastResponse
		if err := c.getJSON(ctx, c.baseURL+"/forecast", params, &out); err != nil {
			return nil, err
		}
		return &out, nil
	})
	if err != nil {
		c.logger.Errorw(err.Error(), "endpoint", "forecast", "query", redact(params))
		return nil, err
	}
	return resp.toSeries(), nil
}

// getJSON performs a single GET attempt and decodes the body into out. Every
// failure is returned as a *ClassifiedError.
func (c *OWMClient) getJSON(ctx context.Context, endpoint string, params url.Values, out any) error {
	requestID := uuid.NewString()

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return ClassifyTransport(fmt.Errorf("rate limit wait canceled: %w", err))
		}
	}

	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return ClassifyTransport(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debugw("sending request", "request_id", requestID, "endpoint", endpoint, "query", redact(params))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warnw("request failed", "request_id", requestID, "error", err)
		return ClassifyTransport(fmt.Errorf("failed to execute request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ClassifyTransport(fmt.Errorf("failed to read response body: %w", err))
	}

	if cerr := Classify(resp.StatusCode, body); cerr != nil {
		c.logger.Warnw("upstream returned error status",
			"request_id", requestID, "status", resp.StatusCode, "kind", cerr.Kind, "retryable", cerr.Retryable)
		return cerr
	}

	if err := json.Unmarshal(body, out); err != nil {
		return errMalformedResponse(fmt.Errorf("failed to decode response: %w", err))
	}
	c.logger.Debugw("request succeeded", "request_id", requestID, "status", resp.StatusCode)
	return nil
}

// redact renders query params for logs without the credential
func redact(params url.Values) string {
	q := url.Values{}
	for k, v := range params {
		if k == "appid" {
			continue
		}
		q[k] = v
	}
	return q.Encode()
}
