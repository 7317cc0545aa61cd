package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fakhrymubarak/weather-lookup/internal/model"
	"github.com/fakhrymubarak/weather-lookup/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const (
	msgInvalidRequest     = "City or coordinates must be provided."
	msgInvalidCoordinates = "Invalid coordinates."
	msgCityNotFound       = "City not found."
	msgAPIKeyMissing      = "Weather API key is not configured on the server."
	msgFetchFailed        = "Failed to fetch weather data."
	msgNotFound           = "Not found."
	msgMethodNotAllowed   = "Method not allowed."
)

type WeatherHandler struct {
	WeatherService service.WeatherServiceInterface
	log            *zap.SugaredLogger
}

func NewWeatherHandler(svc service.WeatherServiceInterface, log *zap.SugaredLogger) *WeatherHandler {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &WeatherHandler{
		WeatherService: svc,
		log:            log,
	}
}

// RegisterRoutes mounts the API under the router it is given. HEAD is served
// by the GET handler; net/http drops the body.
func (h *WeatherHandler) RegisterRoutes(r chi.Router) {
	r.Get("/weather", h.HandleWeather)
	r.Head("/weather", h.HandleWeather)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "GET, HEAD")
		h.writeJSONResponse(w, http.StatusMethodNotAllowed, model.Response{Message: msgMethodNotAllowed})
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		h.writeJSONResponse(w, http.StatusNotFound, model.Response{Message: msgNotFound})
	})
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		h.log.Errorw("could not encode json", "status", statusCode, "error", err)
	}
}

// HandleHealth reports liveness.
func (h *WeatherHandler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *WeatherHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := model.LocationQuery{
		City: q.Get("city"),
		Lat:  q.Get("lat"),
		Lon:  q.Get("lon"),
	}

	weather, err := h.WeatherService.GetWeather(r.Context(), query)
	if err != nil {
		status, message := h.classify(err)
		h.writeJSONResponse(w, status, model.Response{Message: message})
		return
	}

	h.writeJSONResponse(w, http.StatusOK, weather)
}

// classify maps a pipeline error to the status and message sent to the client.
func (h *WeatherHandler) classify(err error) (int, string) {
	var upstreamErr *service.UpstreamError
	switch {
	case errors.Is(err, service.ErrAPIKeyMissing):
		h.log.Errorw("Weather API key is not configured")
		return http.StatusInternalServerError, msgAPIKeyMissing
	case errors.Is(err, service.ErrInvalidRequest):
		return http.StatusBadRequest, msgInvalidRequest
	case errors.Is(err, service.ErrInvalidCoordinates):
		return http.StatusBadRequest, msgInvalidCoordinates
	case errors.Is(err, service.ErrCityNotFound):
		return http.StatusNotFound, msgCityNotFound
	case errors.As(err, &upstreamErr) && upstreamErr.Message != "":
		return upstreamErr.StatusCode, upstreamErr.Message
	default:
		h.log.Errorw("Failed to fetch weather data", "error", err)
		return http.StatusInternalServerError, msgFetchFailed
	}
}
