package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/deptrim/internal/config"
	"github.com/Sumatoshi-tech/deptrim/internal/observability"
	"github.com/Sumatoshi-tech/deptrim/pkg/analysis"
	"github.com/Sumatoshi-tech/deptrim/pkg/buildgraph"
	"github.com/Sumatoshi-tech/deptrim/pkg/catalogue"
	"github.com/Sumatoshi-tech/deptrim/pkg/importfacts"
	"github.com/Sumatoshi-tech/deptrim/pkg/report"
)

// ErrUnusedDependencies is returned by check when any unit has unused dependencies.
var ErrUnusedDependencies = errors.New("unused dependencies found")

// CheckCommand holds flags and dependencies for the check command.
type CheckCommand struct {
	commonFlags

	ignoreEmptyImports bool
	ignoreMainModule   bool
	ignorePackages     []string
	packageDBs         []string
	cataloguePath      string
	format             string
	noColor            bool
	metricsTextfile    string

	loadConfig configLoader
	facts      analysis.FactsSupplier
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	return newCheckCommandWithDeps(config.LoadConfig, importfacts.NewSupplier(importfacts.NewOSFS()))
}

func newCheckCommandWithDeps(loadConfig configLoader, facts analysis.FactsSupplier) *cobra.Command {
	cc := &CheckCommand{loadConfig: loadConfig, facts: facts}

	cmd := &cobra.Command{
		Use:   "check [build-description]",
		Short: "Report declared dependencies that no module imports",
		Long: `Analyse every unit of the build description in build order and report the
declared dependencies whose exposed modules are never imported.

Exit status is 0 when no unused dependency is found, 1 when some are, and 2
on any error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: cc.run,
	}

	cc.register(cmd)

	cmd.Flags().BoolVar(&cc.ignoreEmptyImports, "ignore-empty-imports", false, `Do not count "import M ()" as a use of M`)
	cmd.Flags().BoolVar(&cc.ignoreMainModule, "ignore-main-module", false, "Leave the synthetic Main module out of executable units")
	cmd.Flags().StringArrayVar(&cc.ignorePackages, "ignore-package", nil, "Never report this dependency name as unused (repeatable)")
	cmd.Flags().StringArrayVar(&cc.packageDBs, "package-db", nil, "Package database directory of .conf files (repeatable)")
	cmd.Flags().StringVar(&cc.cataloguePath, "catalogue", "", "YAML catalogue of package exposed modules")
	cmd.Flags().StringVar(&cc.format, "format", string(report.FormatText), "Output format: text, json, yaml")
	cmd.Flags().BoolVar(&cc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().StringVar(&cc.metricsTextfile, "metrics-textfile", "", "Write run metrics in Prometheus text format to this file")

	return cmd
}

func (cc *CheckCommand) settings(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := cc.loadConfig(cc.configPath)
	if err != nil {
		return nil, err
	}

	cc.apply(cmd, cfg)

	flags := cmd.Flags()

	if flags.Changed("ignore-empty-imports") {
		cfg.IgnoreEmptyImports = cc.ignoreEmptyImports
	}

	if flags.Changed("ignore-main-module") {
		cfg.IgnoreMainModule = cc.ignoreMainModule
	}

	cfg.IgnorePackages = append(cfg.IgnorePackages, cc.ignorePackages...)
	cfg.PackageDBs = append(cfg.PackageDBs, cc.packageDBs...)

	if flags.Changed("catalogue") {
		cfg.Catalogue = cc.cataloguePath
	}

	if flags.Changed("format") {
		cfg.Output.Format = cc.format
	}

	if flags.Changed("no-color") {
		cfg.Output.NoColor = cc.noColor
	}

	if flags.Changed("metrics-textfile") {
		cfg.Observability.MetricsTextfile = cc.metricsTextfile
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

func (cc *CheckCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := cc.settings(cmd)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(cfg.Output.Format)
	if err != nil {
		return err
	}

	providers, err := initObservability(cfg, observability.ModeCheck, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.WithoutCancel(cmd.Context())); shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	path := descriptionPath(args)

	graph, err := buildgraph.Load(path, buildgraph.Options{IgnoreMainModule: cfg.IgnoreMainModule})
	if err != nil {
		return fmt.Errorf("%w: %w", analysis.ErrFatalPrecondition, err)
	}

	providers.Logger.Info("build description loaded",
		"path", path, "units", len(graph.Units), "toolchain", graph.Toolchain.String())

	cat, err := openCatalogue(cfg)
	if err != nil {
		return fmt.Errorf("%w: %w", analysis.ErrFatalPrecondition, err)
	}

	metrics, err := observability.NewAnalysisMetrics(providers.Meter)
	if err != nil {
		return fmt.Errorf("create analysis metrics: %w", err)
	}

	analyzer := analysis.NewAnalyzer(cc.facts, cat, analysis.Options{
		IgnoredNames:       cfg.IgnorePackages,
		IgnoreEmptyImports: cfg.IgnoreEmptyImports,
	},
		analysis.WithTracer(providers.Tracer),
		analysis.WithLogger(providers.Logger),
		analysis.WithRecorder(metrics),
	)

	result, err := analyzer.Run(cmd.Context(), graph)
	if err != nil {
		return err
	}

	renderErr := report.Render(cmd.OutOrStdout(), result, report.Options{Format: format, NoColor: cfg.Output.NoColor})
	if renderErr != nil {
		return renderErr
	}

	if !result.Pass {
		return fmt.Errorf("%w: %d", ErrUnusedDependencies, result.UnusedCount())
	}

	return nil
}

func openCatalogue(cfg *config.Config) (*catalogue.Catalogue, error) {
	var sources []catalogue.Source

	if cfg.Catalogue != "" {
		file, err := catalogue.LoadFileSource(cfg.Catalogue)
		if err != nil {
			return nil, err
		}

		sources = append(sources, file)
	}

	if len(cfg.PackageDBs) > 0 {
		db, err := catalogue.NewDBSource(cfg.PackageDBs, cfg.CatalogueCacheSize)
		if err != nil {
			return nil, err
		}

		sources = append(sources, db)
	}

	return catalogue.New(sources...), nil
}
