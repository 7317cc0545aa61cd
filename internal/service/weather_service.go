package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"github.com/fakhrymubarak/weather-lookup/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type WeatherServiceInterface interface {
	GetWeather(ctx context.Context, q model.LocationQuery) (*model.WeatherResponse, error)
}

// Aggregator fetches current weather and the forecast for one location and
// merges them into a single document.
type Aggregator struct {
	repo repository.WeatherRepository
}

func NewAggregator(repo repository.WeatherRepository) *Aggregator {
	return &Aggregator{repo: repo}
}

// Aggregate issues the current-weather and forecast calls concurrently. The
// first failure cancels the other call and is returned as-is.
func (a *Aggregator) Aggregate(ctx context.Context, coords model.Coordinates) (*model.WeatherResponse, error) {
	var (
		current map[string]json.RawMessage
		hourly  []json.RawMessage
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		current, err = a.repo.CurrentWeather(gctx, coords)
		return err
	})
	g.Go(func() error {
		var err error
		hourly, err = a.repo.Forecast(gctx, coords)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	daily, err := BuildDailySummary(hourly)
	if err != nil {
		return nil, fmt.Errorf("building daily summary: %w", err)
	}

	return &model.WeatherResponse{
		Current: current,
		Hourly:  hourly,
		Daily:   daily,
	}, nil
}

// WeatherService runs the request pipeline: credential check, resolve,
// aggregate.
type WeatherService struct {
	Resolver   *Resolver
	Aggregator *Aggregator
	apiKeySet  bool
	log        *zap.SugaredLogger
}

// NewWeatherService wires a resolver and aggregator over repo. apiKeySet
// reports whether the provider credential is configured.
func NewWeatherService(repo repository.WeatherRepository, apiKeySet bool, log *zap.SugaredLogger) *WeatherService {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WeatherService{
		Resolver:   NewResolver(repo),
		Aggregator: NewAggregator(repo),
		apiKeySet:  apiKeySet,
		log:        log,
	}
}

func (s *WeatherService) GetWeather(ctx context.Context, q model.LocationQuery) (*model.WeatherResponse, error) {
	if !s.apiKeySet {
		return nil, ErrAPIKeyMissing
	}

	coords, err := s.Resolver.Resolve(ctx, q)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("Resolved location", "city", q.City, "coords", coords.String())

	return s.Aggregator.Aggregate(ctx, coords)
}
