package depmodel

import (
	"errors"
	"fmt"
	"path/filepath"
)

// ErrUnknownUnitKind is returned when a unit kind string is not recognised.
var ErrUnknownUnitKind = errors.New("unknown unit kind")

// MainModule is the synthetic module of entry-point units.
const MainModule ModuleName = "Main"

// UnitKind is the kind of a buildable unit.
type UnitKind string

// Unit kinds.
const (
	KindLibrary        UnitKind = "library"
	KindSubLibrary     UnitKind = "sub-library"
	KindForeignLibrary UnitKind = "foreign-library"
	KindExecutable     UnitKind = "executable"
	KindTestSuite      UnitKind = "test-suite"
	KindBenchmark      UnitKind = "benchmark"
)

// ParseUnitKind validates a kind string.
func ParseUnitKind(s string) (UnitKind, error) {
	switch kind := UnitKind(s); kind {
	case KindLibrary, KindSubLibrary, KindForeignLibrary, KindExecutable, KindTestSuite, KindBenchmark:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownUnitKind, s)
	}
}

// IsLibrary reports whether units of this kind are libraries.
func (k UnitKind) IsLibrary() bool {
	return k == KindLibrary || k == KindSubLibrary
}

// IsEntryPoint reports whether units of this kind have a Main module.
func (k UnitKind) IsEntryPoint() bool {
	return k == KindExecutable || k == KindTestSuite || k == KindBenchmark
}

// Derivation is everything that varies by unit kind.
type Derivation struct {
	DisplayName string
	// OutputSubdir is relative to the build directory, assuming per-unit
	// output directories. Empty means the build directory itself.
	OutputSubdir string
	Synthetic    []ModuleName
}

// Derive computes the kind-dependent naming and layout of a unit.
func Derive(kind UnitKind, name string) Derivation {
	if kind == KindLibrary {
		return Derivation{DisplayName: string(kind)}
	}

	d := Derivation{
		DisplayName:  string(kind) + " " + name,
		OutputSubdir: filepath.Join(name, name+"-tmp"),
	}

	if kind == KindSubLibrary {
		d.DisplayName = "library " + name
	}

	if kind.IsEntryPoint() {
		d.Synthetic = []ModuleName{MainModule}
	}

	return d
}

// UnitSpec is the raw description of a unit before derivation.
type UnitSpec struct {
	Kind           UnitKind
	Name           string
	ID             PackageID
	NotBuildable   bool
	ExposedModules []ModuleName
	OtherModules   []ModuleName
	Dependencies   []Dependency

	// OutputDir overrides the derived output directory when set.
	OutputDir string
}

// UnitOptions control derivation of a Unit from its spec.
type UnitOptions struct {
	BuildDir         string
	IsolatedDirs     bool
	IgnoreMainModule bool
}

// Unit is one buildable target. It is not modified after NewUnit.
type Unit struct {
	Kind         UnitKind
	Name         string
	ID           PackageID
	DisplayName  string
	Buildable    bool
	Modules      []ModuleName
	Dependencies []Dependency
	OutputDir    string
}

// IsLibrary reports whether the unit is exempt from multi-main ambiguity.
func (u Unit) IsLibrary() bool {
	return u.Kind.IsLibrary()
}

// NewUnit derives a Unit from its spec.
func NewUnit(spec UnitSpec, opts UnitOptions) Unit {
	derived := Derive(spec.Kind, spec.Name)

	modules := make([]ModuleName, 0, len(spec.ExposedModules)+len(spec.OtherModules)+len(derived.Synthetic))
	modules = append(modules, spec.ExposedModules...)
	modules = append(modules, spec.OtherModules...)

	if !opts.IgnoreMainModule {
		modules = append(modules, derived.Synthetic...)
	}

	outputDir := spec.OutputDir
	if outputDir == "" {
		outputDir = opts.BuildDir
		if opts.IsolatedDirs && derived.OutputSubdir != "" {
			outputDir = filepath.Join(opts.BuildDir, derived.OutputSubdir)
		}
	}

	return Unit{
		Kind:         spec.Kind,
		Name:         spec.Name,
		ID:           spec.ID,
		DisplayName:  derived.DisplayName,
		Buildable:    !spec.NotBuildable,
		Modules:      SortModules(modules),
		Dependencies: DedupDependencies(spec.Dependencies),
		OutputDir:    outputDir,
	}
}
