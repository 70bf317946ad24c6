package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/deptrim/internal/config"
	"github.com/Sumatoshi-tech/deptrim/internal/observability"
	"github.com/Sumatoshi-tech/deptrim/pkg/buildgraph"
	"github.com/Sumatoshi-tech/deptrim/pkg/report"
)

// UnitsCommand holds flags and dependencies for the units command.
type UnitsCommand struct {
	commonFlags

	ignoreMainModule bool

	loadConfig configLoader
}

// NewUnitsCommand creates the units command.
func NewUnitsCommand() *cobra.Command {
	return newUnitsCommandWithDeps(config.LoadConfig)
}

func newUnitsCommandWithDeps(loadConfig configLoader) *cobra.Command {
	uc := &UnitsCommand{loadConfig: loadConfig}

	cmd := &cobra.Command{
		Use:   "units [build-description]",
		Short: "List the units of a build description in build order",
		Args:  cobra.MaximumNArgs(1),
		RunE:  uc.run,
	}

	uc.register(cmd)
	cmd.Flags().BoolVar(&uc.ignoreMainModule, "ignore-main-module", false, "Leave the synthetic Main module out of executable units")

	return cmd
}

func (uc *UnitsCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := uc.loadConfig(uc.configPath)
	if err != nil {
		return err
	}

	uc.apply(cmd, cfg)

	if cmd.Flags().Changed("ignore-main-module") {
		cfg.IgnoreMainModule = uc.ignoreMainModule
	}

	providers, err := initObservability(cfg, observability.ModeUnits, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.WithoutCancel(cmd.Context())); shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	graph, err := buildgraph.Load(descriptionPath(args), buildgraph.Options{IgnoreMainModule: cfg.IgnoreMainModule})
	if err != nil {
		return fmt.Errorf("load build description: %w", err)
	}

	if !graph.FactsInIsolatedDirs {
		providers.Logger.Warn("units share one output directory", "build_dir", graph.BuildDir)
	}

	return report.Units(cmd.OutOrStdout(), graph.Units)
}
