package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fakhrymubarak/weather-lookup/internal/config"
	"github.com/fakhrymubarak/weather-lookup/internal/metrics"
	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"go.uber.org/zap"
)

// Custom error types
var (
	ErrAPIKeyMissing       = errors.New("API key missing")
	ErrUpstreamUnavailable = errors.New("weather provider unavailable")
)

const (
	endpointGeocode  = "geocode"
	endpointCurrent  = "current"
	endpointForecast = "forecast"

	maxErrorBody = 64 << 10
)

// UpstreamError is a non-2xx answer from the weather provider. Message is the
// provider's own "message" field and is empty when the body had none.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather provider returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("weather provider returned status %d: %s", e.StatusCode, e.Message)
}

// WeatherRepository defines the interface for weather data access
type WeatherRepository interface {
	Geocode(ctx context.Context, city string, limit int) ([]model.GeoLocation, error)
	CurrentWeather(ctx context.Context, coords model.Coordinates) (map[string]json.RawMessage, error)
	Forecast(ctx context.Context, coords model.Coordinates) ([]json.RawMessage, error)
}

// weatherRepository implements WeatherRepository against OpenWeatherMap.
type weatherRepository struct {
	cfg        config.OpenWeatherMapConfig
	httpClient *http.Client
	log        *zap.SugaredLogger
}

// NewWeatherRepository creates a new weather repository instance. The HTTP
// client defaults to one with the configured request timeout.
func NewWeatherRepository(cfg config.OpenWeatherMapConfig, log *zap.SugaredLogger, httpClient ...*http.Client) WeatherRepository {
	client := &http.Client{Timeout: cfg.Timeout}
	if len(httpClient) > 0 && httpClient[0] != nil {
		client = httpClient[0]
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &weatherRepository{
		cfg:        cfg,
		httpClient: client,
		log:        log,
	}
}

// Geocode resolves a city name to at most limit candidate locations.
func (r *weatherRepository) Geocode(ctx context.Context, city string, limit int) ([]model.GeoLocation, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("limit", strconv.Itoa(limit))

	var locations []model.GeoLocation
	if err := r.get(ctx, endpointGeocode, "/geo/1.0/direct", q, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// CurrentWeather returns the current-weather object with every field kept raw.
func (r *weatherRepository) CurrentWeather(ctx context.Context, coords model.Coordinates) (map[string]json.RawMessage, error) {
	var current map[string]json.RawMessage
	if err := r.get(ctx, endpointCurrent, "/data/2.5/weather", r.coordsQuery(coords), &current); err != nil {
		return nil, err
	}
	return current, nil
}

// Forecast returns the 3-hour forecast list, one raw object per entry.
func (r *weatherRepository) Forecast(ctx context.Context, coords model.Coordinates) ([]json.RawMessage, error) {
	var forecast struct {
		List []json.RawMessage `json:"list"`
	}
	if err := r.get(ctx, endpointForecast, "/data/2.5/forecast", r.coordsQuery(coords), &forecast); err != nil {
		return nil, err
	}
	return forecast.List, nil
}

func (r *weatherRepository) coordsQuery(coords model.Coordinates) url.Values {
	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
	if r.cfg.Units != "" {
		q.Set("units", r.cfg.Units)
	}
	return q
}

// get performs one provider call and decodes a 200 body into out.
func (r *weatherRepository) get(ctx context.Context, endpoint, path string, q url.Values, out any) error {
	if r.cfg.APIKey == "" {
		return ErrAPIKeyMissing
	}
	q.Set("appid", r.cfg.APIKey)
	u := r.cfg.BaseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := r.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(endpoint, 0, time.Since(start))
		r.log.Warnw("Weather provider unreachable", "endpoint", endpoint, "error", redact(err, r.cfg.APIKey))
		return fmt.Errorf("%w: %s", ErrUpstreamUnavailable, endpoint)
	}
	defer resp.Body.Close()
	metrics.ObserveUpstream(endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		upstreamErr := &UpstreamError{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr model.OpenWeatherMapError
		if json.Unmarshal(body, &apiErr) == nil {
			upstreamErr.Message = apiErr.Message
		}
		r.log.Warnw("Weather provider error", "endpoint", endpoint, "status", resp.StatusCode, "message", upstreamErr.Message)
		return upstreamErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", endpoint, err)
	}
	return nil
}

// redact strips the API key from transport errors, which embed the request URL
// with the key in its query-escaped form.
func redact(err error, apiKey string) string {
	msg := err.Error()
	if apiKey == "" {
		return msg
	}
	msg = strings.ReplaceAll(msg, url.QueryEscape(apiKey), "REDACTED")
	return strings.ReplaceAll(msg, apiKey, "REDACTED")
}
