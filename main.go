package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/fakhrymubarak/weather-lookup/internal/config"
	"github.com/fakhrymubarak/weather-lookup/internal/handler"
	"github.com/fakhrymubarak/weather-lookup/internal/metrics"
	"github.com/fakhrymubarak/weather-lookup/internal/middleware"
	"github.com/fakhrymubarak/weather-lookup/internal/repository"
	"github.com/fakhrymubarak/weather-lookup/internal/service"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.GetLogger().Fatalw("Invalid configuration", "error", err)
	}

	log, err := config.NewLogger(cfg.Log.Format)
	if err != nil {
		config.GetLogger().Fatalw("Could not build logger", "error", err)
	}
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log.Desugar())

	if cfg.OpenWeatherMap.APIKey == "" {
		log.Warn("OPENWEATHERMAP_API_KEY is not set; weather requests will fail")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           newRouter(cfg, log),
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		log.Infow("Weather API server running", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("Server error", "error", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	log.Info("Shutting down")
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("Shutdown error", "error", err)
		os.Exit(1)
	}
}

// newRouter wires the API, health, metrics, and the optional static frontend.
func newRouter(cfg *config.Config, log *zap.SugaredLogger) http.Handler {
	weatherRepo := repository.NewWeatherRepository(cfg.OpenWeatherMap, log)
	weatherService := service.NewWeatherService(weatherRepo, cfg.OpenWeatherMap.APIKey != "", log)
	weatherHandler := handler.NewWeatherHandler(weatherService, log)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(cfg.Server.ContentSecurityPolicy))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", weatherHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())
	r.Route("/api", weatherHandler.RegisterRoutes)

	if static, err := handler.NewStaticHandler(cfg.Server.StaticDir); err == nil {
		r.NotFound(static.ServeHTTP)
	} else {
		log.Infow("Static frontend not served", "reason", err)
	}

	return r
}
