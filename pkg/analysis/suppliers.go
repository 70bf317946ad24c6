package analysis

import (
	"context"
	"time"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

//go:generate go run go.uber.org/mock/mockgen@v0.5.2 -source=suppliers.go -destination=mocks/suppliers.gen.go -package=mocks

// FactsSupplier loads the import summaries written to a unit output directory.
type FactsSupplier interface {
	Load(ctx context.Context, dir string) ([]depmodel.FactFile, error)
}

// CatalogueSupplier resolves installed packages to the modules they expose.
type CatalogueSupplier interface {
	Lookup(ctx context.Context, ids []depmodel.PackageID) ([]depmodel.CatalogueEntry, error)
}

// UnitStats summarizes one analysed unit for metrics.
type UnitStats struct {
	Unit          string
	Kind          depmodel.UnitKind
	NotConfigured bool
	Unused        int
	Stale         int
	Missing       int
	Duration      time.Duration
}

// Recorder receives per-unit statistics.
type Recorder interface {
	RecordUnit(ctx context.Context, stats UnitStats)
}

type nopRecorder struct{}

func (nopRecorder) RecordUnit(context.Context, UnitStats) {}
