package service

import (
	"errors"

	"github.com/fakhrymubarak/weather-lookup/internal/repository"
)

var (
	ErrInvalidRequest     = errors.New("city or coordinates must be provided")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrCityNotFound       = errors.New("city not found")

	// Re-exported so callers only need this package to classify failures.
	ErrAPIKeyMissing       = repository.ErrAPIKeyMissing
	ErrUpstreamUnavailable = repository.ErrUpstreamUnavailable
)

type UpstreamError = repository.UpstreamError
