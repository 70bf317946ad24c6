// Package depmodel defines the data model shared by the dependency usage
// analysis: module names, package identities, units and import facts.
package depmodel

import (
	"slices"
	"strings"
)

const moduleSeparator = "."

// ModuleName is a dotted module identifier such as "Data.Map.Strict".
type ModuleName string

// Segments splits the name at its dots.
func (m ModuleName) Segments() []string {
	if m == "" {
		return nil
	}

	return strings.Split(string(m), moduleSeparator)
}

// Compare orders module names segment by segment. A proper prefix sorts first.
func Compare(a, b ModuleName) int {
	return slices.Compare(a.Segments(), b.Segments())
}

// ModuleSet is an unordered set of module names.
type ModuleSet map[ModuleName]struct{}

// NewModuleSet returns a set holding the given modules.
func NewModuleSet(modules ...ModuleName) ModuleSet {
	set := make(ModuleSet, len(modules))
	for _, m := range modules {
		set[m] = struct{}{}
	}

	return set
}

// Add inserts a module.
func (s ModuleSet) Add(m ModuleName) {
	s[m] = struct{}{}
}

// Has reports membership.
func (s ModuleSet) Has(m ModuleName) bool {
	_, ok := s[m]

	return ok
}

// Intersects reports whether the two sets share at least one module.
func (s ModuleSet) Intersects(other ModuleSet) bool {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}

	for m := range small {
		if large.Has(m) {
			return true
		}
	}

	return false
}

// Sorted returns the members in structural order.
func (s ModuleSet) Sorted() []ModuleName {
	out := make([]ModuleName, 0, len(s))
	for m := range s {
		out = append(out, m)
	}

	slices.SortFunc(out, Compare)

	return out
}

// SortModules sorts a slice of module names in place and drops duplicates.
func SortModules(modules []ModuleName) []ModuleName {
	slices.SortFunc(modules, Compare)

	return slices.Compact(modules)
}
