package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// Textfile exports OTel metrics to a file in the Prometheus text format,
// for collection by a node exporter textfile collector. Each Textfile owns
// its registry so several can coexist.
type Textfile struct {
	path     string
	registry *prometheus.Registry
	exporter *promexporter.Exporter
}

// NewTextfile creates an exporter that writes to path on Write.
func NewTextfile(path string) (*Textfile, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(
		promexporter.WithRegisterer(registry),
	)
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Textfile{path: path, registry: registry, exporter: exporter}, nil
}

// Reader returns the metric reader to attach to a MeterProvider.
func (tf *Textfile) Reader() sdkmetric.Reader {
	return tf.exporter
}

// Write gathers the current metrics and replaces the file atomically.
func (tf *Textfile) Write() error {
	if err := prometheus.WriteToTextfile(tf.path, tf.registry); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", tf.path, err)
	}

	return nil
}
