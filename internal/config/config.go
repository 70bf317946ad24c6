package config

import (
	"errors"
	"log/slog"
	"strings"
)

// Config is the top-level configuration struct for deptrim.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	IgnoreEmptyImports bool     `mapstructure:"ignore_empty_imports"`
	IgnoreMainModule   bool     `mapstructure:"ignore_main_module"`
	IgnorePackages     []string `mapstructure:"ignore_packages"`

	PackageDBs         []string `mapstructure:"package_dbs"`
	Catalogue          string   `mapstructure:"catalogue"`
	CatalogueCacheSize int      `mapstructure:"catalogue_cache_size"`

	Output        OutputConfig        `mapstructure:"output"`
	Logging       LoggingConfig       `mapstructure:"logging"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

// OutputConfig selects how reports are rendered.
type OutputConfig struct {
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// ObservabilityConfig holds telemetry export settings.
type ObservabilityConfig struct {
	OTLPEndpoint    string  `mapstructure:"otlp_endpoint"`
	OTLPInsecure    bool    `mapstructure:"otlp_insecure"`
	OTLPHeaders     string  `mapstructure:"otlp_headers"`
	SampleRatio     float64 `mapstructure:"sample_ratio"`
	MetricsTextfile string  `mapstructure:"metrics_textfile"`
}

// Sentinel errors for configuration validation.
var (
	// ErrInvalidFormat indicates an unsupported report format.
	ErrInvalidFormat = errors.New("output.format must be text, json or yaml")
	// ErrInvalidLogLevel indicates an unknown log level name.
	ErrInvalidLogLevel = errors.New("logging.level must be debug, info, warn or error")
	// ErrInvalidCacheSize indicates a negative catalogue cache size.
	ErrInvalidCacheSize = errors.New("catalogue_cache_size must be non-negative")
	// ErrInvalidSampleRatio indicates a sampling ratio outside [0, 1].
	ErrInvalidSampleRatio = errors.New("observability.sample_ratio must be between 0 and 1")
)

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Output.Format) {
	case "", "text", "json", "yaml":
	default:
		return ErrInvalidFormat
	}

	if _, err := ParseLogLevel(c.Logging.Level); err != nil {
		return err
	}

	if c.CatalogueCacheSize < 0 {
		return ErrInvalidCacheSize
	}

	if c.Observability.SampleRatio < 0 || c.Observability.SampleRatio > 1 {
		return ErrInvalidSampleRatio
	}

	return nil
}

// ParseLogLevel maps a level name to a slog level. The empty name is info.
func ParseLogLevel(name string) (slog.Level, error) {
	if name == "" {
		return slog.LevelInfo, nil
	}

	level, ok := logLevels[strings.ToLower(name)]
	if !ok {
		return slog.LevelInfo, ErrInvalidLogLevel
	}

	return level, nil
}
