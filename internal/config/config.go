package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

// DefaultBIDashboardURL is the public Power BI report for the rides dataset
const DefaultBIDashboardURL = "https://app.powerbi.com/view?r=eyJrIjoiYjdiZmVhOWMtYjY3Zi00Nzc0LWFlZWItN2Q0N2M2NjYyNDIzIiwidCI6ImZlM2I0ZGI2LWYzOGUtNDQ4Ni1hZTkwLTU3OGFmM2E1YTM4OCJ9"

// Config 应用配置
type Config struct {
	Port               string
	CSVPath            string // local path or s3://bucket/key
	DBPath             string
	BIDashboardURL     string
	JWTSecret          string // empty leaves the SQL explorer open
	RateLimitPerMinute int    // 0 disables rate limiting
	TailSQLEnabled     bool
	ChartAssetsHost    string
	AWSRegion          string
	S3Endpoint         string
	Log                logger.Config
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		Port:               ":8080",
		CSVPath:            "./data/rides_cleaned.csv",
		DBPath:             "./data/ola_rides.db",
		BIDashboardURL:     DefaultBIDashboardURL,
		RateLimitPerMinute: 120,
		Log: logger.Config{
			Level:  logger.InfoLevel,
			Format: "text",
		},
	}
}

// Load 加载配置: defaults, then the TOML file at path (if given and
// present), then environment variables
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		fc, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		fc.apply(cfg)
	}

	if err := applyEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &cfg.Port)
	str("RIDES_CSV_PATH", &cfg.CSVPath)
	str("RIDES_DB_PATH", &cfg.DBPath)
	str("BI_DASHBOARD_URL", &cfg.BIDashboardURL)
	str("JWT_SECRET", &cfg.JWTSecret)
	str("CHART_ASSETS_HOST", &cfg.ChartAssetsHost)
	str("AWS_REGION", &cfg.AWSRegion)
	str("S3_ENDPOINT", &cfg.S3Endpoint)
	str("LOG_FORMAT", &cfg.Log.Format)
	str("LOG_OUTPUT", &cfg.Log.Output)
	if v, ok := lookup("LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = logger.LogLevel(strings.ToLower(v))
	}

	if v, ok := lookup("RATE_LIMIT_PER_MINUTE"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be a non-negative integer, got %q", v)
		}
		cfg.RateLimitPerMinute = n
	}
	if v, ok := lookup("TAILSQL_ENABLED"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TAILSQL_ENABLED must be a boolean, got %q", v)
		}
		cfg.TailSQLEnabled = b
	}

	cfg.Port = NormalizePort(cfg.Port)
	return nil
}

// NormalizePort turns a bare port number into a listen address.
func NormalizePort(port string) string {
	if port != "" && !strings.Contains(port, ":") {
		return ":" + port
	}
	return port
}
