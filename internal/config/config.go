package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var logger *zap.SugaredLogger
var loggerOnce sync.Once

// Config holds everything the server needs at startup. It is built once by
// Load and handed to constructors so request handling never touches the
// process environment.
type Config struct {
	Server         ServerConfig
	OpenWeatherMap OpenWeatherMapConfig
	Log            LogConfig
}

type ServerConfig struct {
	Port              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	StaticDir         string
	AllowedOrigins    []string
	// Overrides the default Content-Security-Policy when set.
	ContentSecurityPolicy string
}

type OpenWeatherMapConfig struct {
	BaseURL string
	APIKey  string
	Units   string
	Timeout time.Duration
}

type LogConfig struct {
	Format string
}

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_header_timeout", "15s")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.static_dir", "frontend/dist")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.content_security_policy", "")
	v.SetDefault("openweathermap.base_url", "https://api.openweathermap.org")
	v.SetDefault("openweathermap.units", "metric")
	v.SetDefault("openweathermap.timeout", "10s")
	v.SetDefault("log.format", "console")
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads config.yaml (and config_test.yaml under go test) from the
// project root, then applies environment overrides. A missing config file
// is not an error; defaults cover every key.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := newViper()
	v.SetConfigType("yaml")
	root, rootErr := getProjectRoot()
	if rootErr == nil {
		v.AddConfigPath(root)
		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			GetLogger().Warnw("Error reading config file", "error", err)
		}
		if isTestRun() {
			v.SetConfigName("config_test")
			if err := v.MergeInConfig(); err != nil {
				GetLogger().Debugw("No test config overlay", "error", err)
			}
		}
	} else {
		GetLogger().Warnw("Error finding project root", "error", rootErr)
	}

	cfg := fromViper(v)
	if rootErr == nil {
		cfg.Server.StaticDir = resolveDir(root, cfg.Server.StaticDir)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port == "" {
		return errors.New("server.port must not be empty")
	}
	u, err := url.Parse(c.OpenWeatherMap.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("openweathermap.base_url %q is not an absolute URL", c.OpenWeatherMap.BaseURL)
	}
	if c.OpenWeatherMap.Timeout <= 0 {
		return fmt.Errorf("openweathermap.timeout must be positive, got %s", c.OpenWeatherMap.Timeout)
	}
	return nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:                  v.GetString("server.port"),
			ReadHeaderTimeout:     v.GetDuration("server.read_header_timeout"),
			ReadTimeout:           v.GetDuration("server.read_timeout"),
			WriteTimeout:          v.GetDuration("server.write_timeout"),
			IdleTimeout:           v.GetDuration("server.idle_timeout"),
			ShutdownTimeout:       v.GetDuration("server.shutdown_timeout"),
			StaticDir:             v.GetString("server.static_dir"),
			AllowedOrigins:        v.GetStringSlice("server.allowed_origins"),
			ContentSecurityPolicy: v.GetString("server.content_security_policy"),
		},
		OpenWeatherMap: OpenWeatherMapConfig{
			BaseURL: strings.TrimRight(v.GetString("openweathermap.base_url"), "/"),
			APIKey:  GetOpenWeatherMapAPIKey(),
			Units:   v.GetString("openweathermap.units"),
			Timeout: v.GetDuration("openweathermap.timeout"),
		},
		Log: LogConfig{
			Format: v.GetString("log.format"),
		},
	}
}

// resolveDir anchors a relative directory at root, the same place config.yaml
// is read from.
func resolveDir(root, dir string) string {
	if dir == "" || filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// GetOpenWeatherMapAPIKey returns the upstream credential. WEATHER_API_KEY is
// accepted as a fallback name.
func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	if key := strings.TrimSpace(os.Getenv("OPENWEATHERMAP_API_KEY")); key != "" {
		return key
	}
	return strings.TrimSpace(os.Getenv("WEATHER_API_KEY"))
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// NewLogger builds the process logger for the given format: "json" selects
// the production encoder, anything else the development console encoder.
func NewLogger(format string) (*zap.SugaredLogger, error) {
	var (
		l   *zap.Logger
		err error
	)
	if format == "json" {
		l, err = zap.NewProduction()
	} else {
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return l.Sugar(), nil
}
