// Package analysis runs dependency-usage reconciliation over every unit of a
// build graph and aggregates the verdict.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/deptrim/pkg/buildgraph"
	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/exposure"
	"github.com/Sumatoshi-tech/deptrim/pkg/importfacts"
	"github.com/Sumatoshi-tech/deptrim/pkg/importindex"
	"github.com/Sumatoshi-tech/deptrim/pkg/reconcile"
	"github.com/Sumatoshi-tech/deptrim/pkg/staleness"
	"github.com/Sumatoshi-tech/deptrim/pkg/suggest"
)

const tracerName = "deptrim"

// Fatal error classes. A run that fails with either produces no report.
var (
	ErrFatalPrecondition = errors.New("analysis precondition failed")
	ErrParseFailure      = errors.New("import summary could not be parsed")
)

// Options are the user policies for a run.
type Options struct {
	// IgnoredNames are dependency display names never reported as unused.
	IgnoredNames       []string
	IgnoreEmptyImports bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTracer sets the tracer used for run and unit spans.
func WithTracer(tr trace.Tracer) Option {
	return func(a *Analyzer) { a.tracer = tr }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Analyzer) { a.logger = l }
}

// WithRecorder sets the per-unit metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(a *Analyzer) { a.recorder = r }
}

// Analyzer reconciles declared and used dependencies unit by unit.
type Analyzer struct {
	facts     FactsSupplier
	catalogue CatalogueSupplier
	opts      Options

	tracer   trace.Tracer
	logger   *slog.Logger
	recorder Recorder
}

// NewAnalyzer creates an Analyzer over the given suppliers.
func NewAnalyzer(facts FactsSupplier, catalogue CatalogueSupplier, opts Options, options ...Option) *Analyzer {
	a := &Analyzer{
		facts:     facts,
		catalogue: catalogue,
		opts:      opts,
		tracer:    otel.Tracer(tracerName),
		logger:    slog.Default(),
		recorder:  nopRecorder{},
	}

	for _, opt := range options {
		opt(a)
	}

	return a
}

// Run analyses the units of g in order. On error no report is returned.
func (a *Analyzer) Run(ctx context.Context, g *buildgraph.Graph) (*Report, error) {
	ctx, span := a.tracer.Start(ctx, "deptrim.analysis",
		trace.WithAttributes(
			attribute.String("analysis.package", g.Package.Name),
			attribute.Int("analysis.units", len(g.Units)),
			attribute.Bool("analysis.isolated_dirs", g.FactsInIsolatedDirs),
		))
	defer span.End()

	report, err := a.run(ctx, g)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	span.SetAttributes(attribute.Bool("analysis.pass", report.Pass))

	return report, nil
}

func (a *Analyzer) run(ctx context.Context, g *buildgraph.Graph) (*Report, error) {
	exposed, err := a.exposureIndex(ctx, g.Units)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Package:      g.Package.Name,
		Toolchain:    g.Toolchain.String(),
		ConfiguredAt: g.ConfiguredAt,
		Units:        make([]UnitReport, 0, len(g.Units)),
		Pass:         true,
	}

	if !g.Toolchain.IsGHC() {
		report.Warnings = append(report.Warnings,
			fmt.Sprintf("toolchain %s is not GHC; import summaries may be incomplete", g.Toolchain))
	}

	report.Warnings = append(report.Warnings, a.unmatchedIgnores(g.Units)...)

	entryUnits := countEntryUnits(g.Units)
	sharedMain := !g.FactsInIsolatedDirs && entryUnits > 1

	for _, unit := range g.Units {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("analysis interrupted before %s: %w", unit.DisplayName, ctxErr)
		}

		ur, unitErr := a.analyzeUnit(ctx, g, unit, exposed)
		if unitErr != nil {
			return nil, unitErr
		}

		if sharedMain && !unit.IsLibrary() && unit.Buildable {
			ur.Warnings = append(ur.Warnings, fmt.Sprintf(
				"%d executable-like units share one output directory; the Main summary may belong to another unit",
				entryUnits))
		}

		report.Pass = report.Pass && ur.Pass
		report.Units = append(report.Units, ur)
	}

	a.logger.InfoContext(ctx, "analysis complete",
		"package", report.Package, "units", len(report.Units), "pass", report.Pass)

	return report, nil
}

// exposureIndex looks up every dependency that reconciliation may judge.
func (a *Analyzer) exposureIndex(ctx context.Context, units []depmodel.Unit) (*exposure.Index, error) {
	seen := make(map[depmodel.PackageID]struct{})

	var ids, inPlace []depmodel.PackageID

	for _, unit := range units {
		for _, dep := range unit.Dependencies {
			if dep.InPlace {
				inPlace = append(inPlace, dep.ID)
			}
		}

		if !unit.Buildable {
			continue
		}

		_, candidates := reconcile.Partition(unit.Dependencies, a.opts.IgnoredNames)
		for _, dep := range candidates {
			if _, dup := seen[dep.ID]; dup {
				continue
			}

			seen[dep.ID] = struct{}{}
			ids = append(ids, dep.ID)
		}
	}

	if len(ids) == 0 {
		return exposure.Build(nil)
	}

	entries, err := a.catalogue.Lookup(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: package catalogue: %w", ErrFatalPrecondition, err)
	}

	idx, err := exposure.Build(entries, inPlace...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFatalPrecondition, err)
	}

	return idx, nil
}

func (a *Analyzer) analyzeUnit(
	ctx context.Context, g *buildgraph.Graph, unit depmodel.Unit, exposed *exposure.Index,
) (UnitReport, error) {
	start := time.Now()

	ctx, span := a.tracer.Start(ctx, "deptrim.unit",
		trace.WithAttributes(
			attribute.String("unit.name", unit.DisplayName),
			attribute.String("unit.kind", string(unit.Kind)),
		))
	defer span.End()

	ur := UnitReport{
		Name:      unit.DisplayName,
		Kind:      unit.Kind,
		OutputDir: unit.OutputDir,
		Unused:    []depmodel.Dependency{},
		State:     StatePending,
	}

	if !unit.Buildable {
		ur.NotConfigured = true
		ur.Pass = true
		ur.State = StateReported

		a.logger.InfoContext(ctx, "unit not configured to build", "unit", unit.DisplayName)
		a.recorder.RecordUnit(ctx, UnitStats{
			Unit: unit.DisplayName, Kind: unit.Kind, NotConfigured: true, Duration: time.Since(start),
		})

		return ur, nil
	}

	files, err := a.facts.Load(ctx, unit.OutputDir)
	if err != nil {
		err = classifyLoadError(unit, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return ur, err
	}

	ur.State = StateFactsLoaded
	ur.Stale = staleness.Check(ownFiles(files, unit.Modules), g.ConfiguredAt)

	result, err := reconcile.Reconcile(unit, importindex.Build(files), exposed, reconcile.Options{
		IgnoredNames:       a.opts.IgnoredNames,
		IgnoreEmptyImports: a.opts.IgnoreEmptyImports,
	})
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrFatalPrecondition, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return ur, err
	}

	ur.State = StateReconciled
	ur.Missing = result.Missing
	ur.IgnoredCount = result.IgnoredCount
	ur.Unused = append(ur.Unused, result.Unused...)
	ur.Pass = len(result.Unused) == 0

	span.SetAttributes(
		attribute.Int("unit.fact_files", len(files)),
		attribute.Int("unit.unused", len(ur.Unused)),
		attribute.Int("unit.stale", len(ur.Stale)),
		attribute.Int("unit.missing", len(ur.Missing)),
	)

	a.logUnit(ctx, ur)
	a.recorder.RecordUnit(ctx, UnitStats{
		Unit:     unit.DisplayName,
		Kind:     unit.Kind,
		Unused:   len(ur.Unused),
		Stale:    len(ur.Stale),
		Missing:  len(ur.Missing),
		Duration: time.Since(start),
	})

	ur.State = StateReported

	return ur, nil
}

// ownFiles keeps the summaries of the unit's own modules. A shared output
// directory also holds the summaries of other units.
func ownFiles(files []depmodel.FactFile, modules []depmodel.ModuleName) []depmodel.FactFile {
	own := depmodel.NewModuleSet(modules...)
	kept := make([]depmodel.FactFile, 0, len(files))

	for _, file := range files {
		if own.Has(file.Module) {
			kept = append(kept, file)
		}
	}

	return kept
}

func (a *Analyzer) logUnit(ctx context.Context, ur UnitReport) {
	if len(ur.Missing) > 0 {
		a.logger.WarnContext(ctx, "modules without import summaries",
			"unit", ur.Name, "modules", joinModules(ur.Missing))
	}

	if len(ur.Stale) > 0 {
		a.logger.WarnContext(ctx, "import summaries older than build configuration",
			"unit", ur.Name, "count", len(ur.Stale))
	}

	a.logger.DebugContext(ctx, "unit analysed",
		"unit", ur.Name, "unused", len(ur.Unused), "ignored", ur.IgnoredCount)
}

// unmatchedIgnores warns about ignored names that no unit declares, which
// usually means a typo on the command line.
func (a *Analyzer) unmatchedIgnores(units []depmodel.Unit) []string {
	declared := make(map[string]struct{})

	var names []string

	for _, u := range units {
		for _, dep := range u.Dependencies {
			if _, ok := declared[dep.Name]; !ok {
				declared[dep.Name] = struct{}{}
				names = append(names, dep.Name)
			}
		}
	}

	var (
		warnings []string
		matcher  suggest.Matcher
	)

	for _, ignored := range a.opts.IgnoredNames {
		if _, ok := declared[ignored]; ok {
			continue
		}

		declared[ignored] = struct{}{}

		msg := fmt.Sprintf("ignored package %q is not a dependency of any unit", ignored)
		if guess, ok := matcher.Closest(ignored, names); ok {
			msg += fmt.Sprintf(" (did you mean %q?)", guess)
		}

		warnings = append(warnings, msg)
	}

	return warnings
}

func classifyLoadError(unit depmodel.Unit, err error) error {
	var parseErr *importfacts.ParseError
	if errors.As(err, &parseErr) {
		return fmt.Errorf("%w: %s: %w", ErrParseFailure, unit.DisplayName, err)
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("load %s: %w", unit.DisplayName, err)
	}

	return fmt.Errorf("%w: %s: %w", ErrFatalPrecondition, unit.DisplayName, err)
}

func countEntryUnits(units []depmodel.Unit) int {
	n := 0

	for _, u := range units {
		if u.Buildable && !u.IsLibrary() {
			n++
		}
	}

	return n
}

func joinModules(modules []depmodel.ModuleName) string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = string(m)
	}

	return strings.Join(names, ", ")
}
