// Package reconcile decides which declared dependencies of a unit are unused.
//
// A dependency counts as used when any module it exposes is imported by any
// module of the unit. Names that reach the unit through a re-export from
// another package are not traced back to their origin, so such a package may
// be reported as used when it is not.
package reconcile

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/exposure"
	"github.com/Sumatoshi-tech/deptrim/pkg/importindex"
)

// ErrUncatalogued is returned when a candidate dependency has no catalogue entry.
var ErrUncatalogued = errors.New("dependency missing from package catalogue")

// Options are the user policies applied during reconciliation.
type Options struct {
	IgnoredNames       []string
	IgnoreEmptyImports bool
}

// Result is the outcome for one unit.
type Result struct {
	// Unused keeps the declared dependency order.
	Unused       []depmodel.Dependency
	IgnoredCount int
	Missing      []depmodel.ModuleName
}

// Reconcile computes the unused dependencies of a unit.
func Reconcile(unit depmodel.Unit, imports *importindex.Index, exposed *exposure.Index, opts Options) (Result, error) {
	imported := imports.Imported(unit.Modules, opts.IgnoreEmptyImports)
	ignored, candidates := Partition(unit.Dependencies, opts.IgnoredNames)

	var unused []depmodel.Dependency

	for _, dep := range candidates {
		if !exposed.Has(dep.ID) {
			return Result{}, fmt.Errorf("%w: %s (%s)", ErrUncatalogued, dep.ID, unit.DisplayName)
		}

		if !exposed.Exposed(dep.ID).Intersects(imported) {
			unused = append(unused, dep)
		}
	}

	return Result{
		Unused:       unused,
		IgnoredCount: len(ignored),
		Missing:      imports.Missing(unit.Modules),
	}, nil
}

// Partition splits dependencies into those ignored by display name and the
// candidates for usage analysis. In-place dependencies are in neither.
func Partition(deps []depmodel.Dependency, ignoredNames []string) (ignored, candidates []depmodel.Dependency) {
	names := make(map[string]struct{}, len(ignoredNames))
	for _, name := range ignoredNames {
		names[name] = struct{}{}
	}

	for _, dep := range deps {
		if dep.InPlace {
			continue
		}

		if _, ok := names[dep.Name]; ok {
			ignored = append(ignored, dep)

			continue
		}

		candidates = append(candidates, dep)
	}

	return ignored, candidates
}
