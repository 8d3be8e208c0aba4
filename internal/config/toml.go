package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/jengzang/rides-dashboard-go/pkg/logger"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Log    LogConfig    `toml:"log"`
	AWS    AWSConfig    `toml:"aws"`
}

// ServerConfig maps HTTP settings.
type ServerConfig struct {
	Port               *string `toml:"port"`
	JWTSecret          *string `toml:"jwt-secret"`
	RateLimitPerMinute *int    `toml:"rate-limit-per-minute"`
	TailSQL            *bool   `toml:"tailsql"`
	ChartAssetsHost    *string `toml:"chart-assets-host"`
}

// DataConfig maps dataset and query store locations.
type DataConfig struct {
	CSVPath        *string `toml:"csv"`
	DBPath         *string `toml:"db"`
	BIDashboardURL *string `toml:"bi-dashboard-url"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	Output *string `toml:"output"`
}

// AWSConfig maps object storage settings for s3:// dataset locations.
type AWSConfig struct {
	Region     *string `toml:"region"`
	S3Endpoint *string `toml:"s3-endpoint"`
}

// LoadFile reads a TOML config from the given path. Missing file is not an error.
func LoadFile(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var fc FileConfig
	meta, err := toml.DecodeFile(path, &fc)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return fc, nil
}

func (fc FileConfig) apply(cfg *Config) {
	setString(&cfg.Port, fc.Server.Port)
	setString(&cfg.JWTSecret, fc.Server.JWTSecret)
	setString(&cfg.ChartAssetsHost, fc.Server.ChartAssetsHost)
	if fc.Server.RateLimitPerMinute != nil {
		cfg.RateLimitPerMinute = *fc.Server.RateLimitPerMinute
	}
	if fc.Server.TailSQL != nil {
		cfg.TailSQLEnabled = *fc.Server.TailSQL
	}

	setString(&cfg.CSVPath, fc.Data.CSVPath)
	setString(&cfg.DBPath, fc.Data.DBPath)
	setString(&cfg.BIDashboardURL, fc.Data.BIDashboardURL)

	if fc.Log.Level != nil {
		cfg.Log.Level = logger.LogLevel(*fc.Log.Level)
	}
	setString(&cfg.Log.Format, fc.Log.Format)
	setString(&cfg.Log.Output, fc.Log.Output)

	setString(&cfg.AWSRegion, fc.AWS.Region)
	setString(&cfg.S3Endpoint, fc.AWS.S3Endpoint)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
