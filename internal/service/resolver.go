package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"github.com/fakhrymubarak/weather-lookup/internal/repository"
)

// Resolver turns a location query into coordinates.
type Resolver struct {
	repo repository.WeatherRepository
}

func NewResolver(repo repository.WeatherRepository) *Resolver {
	return &Resolver{repo: repo}
}

// Resolve prefers the city name when present and geocodes it to the single
// best match. Explicit coordinates are passed through without a provider call.
func (r *Resolver) Resolve(ctx context.Context, q model.LocationQuery) (model.Coordinates, error) {
	if city := strings.TrimSpace(q.City); city != "" {
		locations, err := r.repo.Geocode(ctx, city, 1)
		if err != nil {
			return model.Coordinates{}, err
		}
		if len(locations) == 0 {
			return model.Coordinates{}, ErrCityNotFound
		}
		return model.Coordinates{Lat: locations[0].Lat, Lon: locations[0].Lon}, nil
	}

	latStr, lonStr := strings.TrimSpace(q.Lat), strings.TrimSpace(q.Lon)
	if latStr == "" || lonStr == "" {
		return model.Coordinates{}, ErrInvalidRequest
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return model.Coordinates{}, ErrInvalidCoordinates
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return model.Coordinates{}, ErrInvalidCoordinates
	}
	return model.Coordinates{Lat: lat, Lon: lon}, nil
}
