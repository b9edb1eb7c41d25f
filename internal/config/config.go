// Package config loads runtime settings from .env, an optional YAML file
// and the environment, and initializes logging.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/red-movilidad/red-cli/internal/api"
	"github.com/red-movilidad/red-cli/internal/models"
)

// DefaultTileURL is the OpenStreetMap tile template used by the web map
const DefaultTileURL = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"

// Config holds every runtime setting
type Config struct {
	Env      string `yaml:"env"`
	LogLevel string `yaml:"log_level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	LogFile  string `yaml:"log_file"`

	RoutesBaseURL       string `yaml:"routes_base_url" validate:"required,url"`
	ArrivalsBaseURL     string `yaml:"arrivals_base_url" validate:"required,url"`
	ChargePointsBaseURL string `yaml:"charge_points_base_url" validate:"required,url"`
	GeocodeBaseURL      string `yaml:"geocode_base_url" validate:"required,url"`
	GeocoderKey         string `yaml:"geocoder_key"`

	HTTPTimeout time.Duration `yaml:"http_timeout" validate:"gt=0"`
	RateLimit   float64       `yaml:"rate_limit" validate:"gte=0"`
	RateBurst   int           `yaml:"rate_burst" validate:"gte=0"`

	CacheTTL  time.Duration `yaml:"cache_ttl" validate:"gte=0"`
	CacheSize int           `yaml:"cache_size" validate:"gt=0"`

	HTTPAddr    string   `yaml:"http_addr" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`
	TileURL     string   `yaml:"tile_url" validate:"required"`

	SearchBounds models.Bounds `yaml:"search_bounds"`
}

// Default returns the production configuration
func Default() *Config {
	return &Config{
		Env:                 "production",
		LogLevel:            "warn",
		RoutesBaseURL:       api.RoutesBaseURL,
		ArrivalsBaseURL:     api.ArrivalsBaseURL,
		ChargePointsBaseURL: api.ChargePointsBaseURL,
		GeocodeBaseURL:      api.GeocodeBaseURL,
		HTTPTimeout:         10 * time.Second,
		RateLimit:           5,
		RateBurst:           4,
		CacheTTL:            90 * time.Second,
		CacheSize:           256,
		HTTPAddr:            ":8080",
		CORSOrigins:         []string{"*"},
		TileURL:             DefaultTileURL,
		SearchBounds:        api.SantiagoBounds,
	}
}

var validate = validator.New()

// Load reads .env, then the YAML file at path (or $RED_CONFIG), then
// environment overrides, and validates the result. A missing .env is fine;
// a missing explicit config file is not.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	if path == "" {
		path = os.Getenv("RED_CONFIG")
	}
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	// #nosec G304 -- path is supplied by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Env, "ENV")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.LogFile, "LOG_FILE")
	setString(&c.RoutesBaseURL, "RED_ROUTES_BASE_URL")
	setString(&c.ArrivalsBaseURL, "RED_ARRIVALS_BASE_URL")
	setString(&c.ChargePointsBaseURL, "RED_CHARGE_POINTS_BASE_URL")
	setString(&c.GeocodeBaseURL, "RED_GEOCODE_BASE_URL")
	setString(&c.GeocoderKey, "GOOGLE_MAPS_API_KEY")
	setString(&c.TileURL, "RED_TILE_URL")
	setString(&c.HTTPAddr, "RED_HTTP_ADDR")

	if v, ok := lookup("RED_CORS_ORIGINS"); ok {
		c.CORSOrigins = splitCSV(v)
	}

	var errs []error
	if v, ok := lookup("RED_HTTP_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RED_HTTP_TIMEOUT: %w", err))
		}
		c.HTTPTimeout = d
	}
	if v, ok := lookup("RED_CACHE_TTL"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("RED_CACHE_TTL: %w", err))
		}
		c.CacheTTL = d
	}
	if v, ok := lookup("RED_RATE_LIMIT"); ok {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("RED_RATE_LIMIT: %w", err))
		}
		c.RateLimit = r
	}

	return errors.Join(errs...)
}

// Validate checks field constraints
func (c *Config) Validate() error {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// IsDevelopment reports whether human-readable console logs are wanted
func (c *Config) IsDevelopment() bool {
	return c.Env == "local" || c.Env == "development"
}

// Endpoints returns the service base URLs for the API client
func (c *Config) Endpoints() api.Endpoints {
	return api.Endpoints{
		Routes:       c.RoutesBaseURL,
		Arrivals:     c.ArrivalsBaseURL,
		ChargePoints: c.ChargePointsBaseURL,
		Geocode:      c.GeocodeBaseURL,
	}
}

// ClientOptions translates the configuration into API client options.
// Caching is chosen by the caller.
func (c *Config) ClientOptions() []api.ClientOption {
	return []api.ClientOption{
		api.WithTimeout(c.HTTPTimeout),
		api.WithEndpoints(c.Endpoints()),
		api.WithGeocoderKey(c.GeocoderKey),
		api.WithSearchBounds(c.SearchBounds),
		api.WithRateLimit(c.RateLimit, c.RateBurst),
	}
}

// InitializeLogging configures the global zerolog logger. When LogFile is
// set logs are appended there; otherwise they go to stderr unless quiet is
// set, in which case they are discarded. The returned closer releases the
// log file.
func (c *Config) InitializeLogging(quiet bool) (io.Closer, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		level = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var out io.Writer = os.Stderr
	var closer io.Closer = nopCloser{}

	switch {
	case c.LogFile != "":
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		out, closer = f, f
	case quiet:
		log.Logger = zerolog.Nop()
		return closer, nil
	}

	if c.IsDevelopment() && c.LogFile == "" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}
	log.Logger = zerolog.New(out).With().Timestamp().Logger()

	return closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(dst *string, key string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	results := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			results = append(results, trimmed)
		}
	}
	return results
}

// Redacted renders the configuration as YAML with secrets masked
func (c *Config) Redacted() ([]byte, error) {
	out := *c
	if out.GeocoderKey != "" {
		out.GeocoderKey = "****"
	}
	return yaml.Marshal(&out)
}
