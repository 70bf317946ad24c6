// Package config loads deptrim settings from a config file, the environment
// and a local .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".deptrim"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for deptrim settings.
const envPrefix = "DEPTRIM"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// dotEnvFile is read into the process environment before the config is resolved.
const dotEnvFile = ".env"

// Defaults.
const (
	DefaultFormat             = "text"
	DefaultLogLevel           = "info"
	DefaultCatalogueCacheSize = 1024
)

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	dotEnvErr := godotenv.Load(dotEnvFile)
	if dotEnvErr != nil && !errors.Is(dotEnvErr, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", dotEnvFile, dotEnvErr)
	}

	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("ignore_empty_imports", false)
	viperCfg.SetDefault("ignore_main_module", false)
	viperCfg.SetDefault("ignore_packages", []string{})

	viperCfg.SetDefault("package_dbs", []string{})
	viperCfg.SetDefault("catalogue", "")
	viperCfg.SetDefault("catalogue_cache_size", DefaultCatalogueCacheSize)

	viperCfg.SetDefault("output.format", DefaultFormat)
	viperCfg.SetDefault("output.no_color", false)

	viperCfg.SetDefault("logging.level", DefaultLogLevel)
	viperCfg.SetDefault("logging.json", false)

	viperCfg.SetDefault("observability.otlp_endpoint", "")
	viperCfg.SetDefault("observability.otlp_insecure", false)
	viperCfg.SetDefault("observability.otlp_headers", "")
	viperCfg.SetDefault("observability.sample_ratio", 0.0)
	viperCfg.SetDefault("observability.metrics_textfile", "")
}
