package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/deptrim/pkg/analysis"
)

const (
	metricUnitsTotal   = "deptrim.units.analyzed.total"
	metricUnusedTotal  = "deptrim.dependencies.unused.total"
	metricStaleTotal   = "deptrim.facts.stale.total"
	metricMissingTotal = "deptrim.modules.missing.total"
	metricUnitDuration = "deptrim.unit.duration.seconds"

	attrUnitKind       = "kind"
	attrUnitConfigured = "configured"
)

// unitDurationBuckets spans a millisecond to a minute; most units finish in
// well under a second.
var unitDurationBuckets = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60}

// AnalysisMetrics holds OTel instruments for per-unit analysis results.
type AnalysisMetrics struct {
	units        metric.Int64Counter
	unused       metric.Int64Counter
	stale        metric.Int64Counter
	missing      metric.Int64Counter
	unitDuration metric.Float64Histogram
}

var _ analysis.Recorder = (*AnalysisMetrics)(nil)

// NewAnalysisMetrics creates analysis metric instruments from the given meter.
func NewAnalysisMetrics(mt metric.Meter) (*AnalysisMetrics, error) {
	b := newMetricBuilder(mt)

	am := &AnalysisMetrics{
		units:        b.counter(metricUnitsTotal, "Units analysed", "{unit}"),
		unused:       b.counter(metricUnusedTotal, "Declared dependencies found unused", "{dependency}"),
		stale:        b.counter(metricStaleTotal, "Import summaries older than the build configuration", "{file}"),
		missing:      b.counter(metricMissingTotal, "Declared modules without an import summary", "{module}"),
		unitDuration: b.histogram(metricUnitDuration, "Per-unit analysis duration in seconds", "s", unitDurationBuckets...),
	}

	if b.err != nil {
		return nil, b.err
	}

	return am, nil
}

// RecordUnit records the outcome of one unit. Safe to call on a nil receiver.
func (am *AnalysisMetrics) RecordUnit(ctx context.Context, stats analysis.UnitStats) {
	if am == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrUnitKind, string(stats.Kind)),
		attribute.Bool(attrUnitConfigured, !stats.NotConfigured),
	)

	am.units.Add(ctx, 1, attrs)
	am.unused.Add(ctx, int64(stats.Unused), attrs)
	am.stale.Add(ctx, int64(stats.Stale), attrs)
	am.missing.Add(ctx, int64(stats.Missing), attrs)
	am.unitDuration.Record(ctx, stats.Duration.Seconds(), attrs)
}
