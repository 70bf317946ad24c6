package depmodel

// PackageID identifies one concrete package instance, e.g. "base-4.18.0.0".
// Two packages may share a display name but never an ID.
type PackageID string

// Dependency is a declared dependency already resolved to a package instance.
type Dependency struct {
	Name string    `json:"name" yaml:"name"`
	ID   PackageID `json:"id"   yaml:"id"`

	// InPlace marks a dependency on another unit of the same project.
	InPlace bool `json:"in_place,omitempty" yaml:"in_place,omitempty"`
}

// CatalogueEntry lists the modules an installed package exposes.
type CatalogueEntry struct {
	ID             PackageID    `json:"id"              yaml:"id"`
	Name           string       `json:"name"            yaml:"name"`
	ExposedModules []ModuleName `json:"exposed_modules" yaml:"exposed-modules"`
}

// DedupDependencies keeps the first occurrence of every PackageID.
func DedupDependencies(deps []Dependency) []Dependency {
	seen := make(map[PackageID]struct{}, len(deps))
	out := make([]Dependency, 0, len(deps))

	for _, dep := range deps {
		if _, ok := seen[dep.ID]; ok {
			continue
		}

		seen[dep.ID] = struct{}{}
		out = append(out, dep)
	}

	return out
}
