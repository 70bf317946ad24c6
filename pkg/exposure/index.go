// Package exposure maps installed dependency packages to their exposed modules.
package exposure

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

// ErrDuplicateEntry is returned when the catalogue lists one package twice
// with different contents.
var ErrDuplicateEntry = errors.New("duplicate catalogue entry")

// ErrInPlaceEntry is returned when the catalogue lists a unit of the
// analysed project. Such packages are never judged.
var ErrInPlaceEntry = errors.New("catalogue entry for an in-place package")

// Index is a read-only PackageID to exposed-modules lookup.
type Index struct {
	byID map[depmodel.PackageID]depmodel.ModuleSet
}

// Build groups catalogue entries by package ID. Entries repeated verbatim are
// tolerated; conflicting repeats are an error. Entries for any of the inPlace
// ids are rejected.
func Build(entries []depmodel.CatalogueEntry, inPlace ...depmodel.PackageID) (*Index, error) {
	idx := &Index{byID: make(map[depmodel.PackageID]depmodel.ModuleSet, len(entries))}

	local := make(map[depmodel.PackageID]struct{}, len(inPlace))
	for _, id := range inPlace {
		local[id] = struct{}{}
	}

	for _, entry := range entries {
		if _, ok := local[entry.ID]; ok {
			return nil, fmt.Errorf("%w: %s", ErrInPlaceEntry, entry.ID)
		}

		modules := depmodel.NewModuleSet(entry.ExposedModules...)

		if prev, ok := idx.byID[entry.ID]; ok {
			if !sameSet(prev, modules) {
				return nil, fmt.Errorf("%w: %s", ErrDuplicateEntry, entry.ID)
			}

			continue
		}

		idx.byID[entry.ID] = modules
	}

	return idx, nil
}

// Exposed returns the modules exposed by the package, or nil when unknown.
func (idx *Index) Exposed(id depmodel.PackageID) depmodel.ModuleSet {
	return idx.byID[id]
}

// Has reports whether the package is catalogued.
func (idx *Index) Has(id depmodel.PackageID) bool {
	_, ok := idx.byID[id]

	return ok
}

// Len returns the number of catalogued packages.
func (idx *Index) Len() int {
	return len(idx.byID)
}

func sameSet(a, b depmodel.ModuleSet) bool {
	if len(a) != len(b) {
		return false
	}

	for m := range a {
		if !b.Has(m) {
			return false
		}
	}

	return true
}
