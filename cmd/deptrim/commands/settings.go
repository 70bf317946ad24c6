// Package commands implements CLI command handlers for deptrim.
package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/deptrim/internal/config"
	"github.com/Sumatoshi-tech/deptrim/internal/observability"
	"github.com/Sumatoshi-tech/deptrim/pkg/version"
)

// DefaultDescription is the build description read when none is given.
const DefaultDescription = "deptrim-build.yaml"

type configLoader func(path string) (*config.Config, error)

// commonFlags are shared by every command that reads a build description.
type commonFlags struct {
	configPath string
	logLevel   string
	logJSON    bool
}

func (cf *commonFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&cf.configPath, "config", "", "Config file (default: .deptrim.yaml in the working or home directory)")
	cmd.Flags().StringVar(&cf.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	cmd.Flags().BoolVar(&cf.logJSON, "log-json", false, "Write logs as JSON")
}

// apply overlays explicitly set flags onto cfg.
func (cf *commonFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("log-level") {
		cfg.Logging.Level = cf.logLevel
	}

	if flags.Changed("log-json") {
		cfg.Logging.JSON = cf.logJSON
	}
}

func descriptionPath(args []string) string {
	if len(args) > 0 {
		return args[0]
	}

	return DefaultDescription
}

func initObservability(cfg *config.Config, mode observability.AppMode, logWriter io.Writer) (observability.Providers, error) {
	level, err := config.ParseLogLevel(cfg.Logging.Level)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("validate config: %w", err)
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = level
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = logWriter
	obsCfg.OTLPEndpoint = cfg.Observability.OTLPEndpoint
	obsCfg.OTLPInsecure = cfg.Observability.OTLPInsecure
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Observability.OTLPHeaders)
	obsCfg.SampleRatio = cfg.Observability.SampleRatio
	obsCfg.MetricsTextfile = cfg.Observability.MetricsTextfile

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return observability.Providers{}, fmt.Errorf("init observability: %w", err)
	}

	return providers, nil
}
