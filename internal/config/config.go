package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
// Values come from defaults, then an optional config file, then
// environment variables (highest precedence).
type Config struct {
	// Server
	Port             int
	LogLevel         string
	Env              string
	HTTPReadTimeout  time.Duration
	HTTPWriteTimeout time.Duration
	CORSOrigins      []string

	// Store
	DBDriver       string // sqlite, mysql, pgx
	DBDSN          string
	DBMaxOpenConns int

	// Resilience
	MaxRetries     int
	InitialBackoff time.Duration
	MaxConcurrency int

	// Cache
	LTVThresholdTTL time.Duration // <= 0 recomputes max_ltv on every request

	// Insight defaults
	AnomalyZThreshold  float64
	TrendThreshold     float64
	RecommendationTopN int

	// Observability
	TracingEnabled bool
	OTLPEndpoint   string
}

var defaults = map[string]any{
	"port":                        8080,
	"log_level":                   "info",
	"env":                         "development",
	"http_read_timeout":           "10s",
	"http_write_timeout":          "30s",
	"cors_allowed_origins":        "*",
	"db_driver":                   "sqlite",
	"db_dsn":                      "data/retail.db",
	"db_max_open_conns":           10,
	"max_retries":                 2,
	"initial_backoff":             "50ms",
	"max_concurrency":             32,
	"ltv_threshold_ttl":           "10m",
	"anomaly_z_threshold":         2.0,
	"trend_threshold":             0.5,
	"recommendation_top_n":        5,
	"tracing_enabled":             false,
	"otel_exporter_otlp_endpoint": "localhost:4317",
}

// Load reads configuration. cfgFile may name any format viper understands
// (yaml, json, toml, .env); when empty, CONFIG_FILE is consulted, and
// without either only defaults and the environment apply.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()
	// DB_PATH is the name older deployments used for the SQLite file.
	if err := v.BindEnv("db_dsn", "DB_DSN", "DB_PATH"); err != nil {
		return nil, err
	}

	if cfgFile == "" {
		cfgFile = os.Getenv("CONFIG_FILE")
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", cfgFile, err)
			}
		}
	}

	cfg := &Config{
		Port:             v.GetInt("port"),
		LogLevel:         v.GetString("log_level"),
		Env:              v.GetString("env"),
		HTTPReadTimeout:  v.GetDuration("http_read_timeout"),
		HTTPWriteTimeout: v.GetDuration("http_write_timeout"),
		CORSOrigins:      splitList(v.GetString("cors_allowed_origins")),

		DBDriver:       strings.ToLower(v.GetString("db_driver")),
		DBDSN:          v.GetString("db_dsn"),
		DBMaxOpenConns: v.GetInt("db_max_open_conns"),

		MaxRetries:     v.GetInt("max_retries"),
		InitialBackoff: v.GetDuration("initial_backoff"),
		MaxConcurrency: v.GetInt("max_concurrency"),

		LTVThresholdTTL: v.GetDuration("ltv_threshold_ttl"),

		AnomalyZThreshold:  v.GetFloat64("anomaly_z_threshold"),
		TrendThreshold:     v.GetFloat64("trend_threshold"),
		RecommendationTopN: v.GetInt("recommendation_top_n"),

		TracingEnabled: v.GetBool("tracing_enabled"),
		OTLPEndpoint:   v.GetString("otel_exporter_otlp_endpoint"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "pgx":
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite, mysql or pgx, got %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return errors.New("DB_DSN is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if !validThreshold(c.AnomalyZThreshold) {
		return fmt.Errorf("ANOMALY_Z_THRESHOLD must be a non-negative number, got %v", c.AnomalyZThreshold)
	}
	if !validThreshold(c.TrendThreshold) {
		return fmt.Errorf("TREND_THRESHOLD must be a non-negative number, got %v", c.TrendThreshold)
	}
	if c.RecommendationTopN <= 0 {
		return fmt.Errorf("RECOMMENDATION_TOP_N must be positive, got %d", c.RecommendationTopN)
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("MAX_RETRIES must not be negative, got %d", c.MaxRetries)
	}
	return nil
}

func validThreshold(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
