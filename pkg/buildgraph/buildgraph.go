// Package buildgraph loads the build description of a package: its units,
// their modules and resolved dependencies, the toolchain and the time the
// build was last configured.
package buildgraph

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/toposort"
)

//go:embed schema.json
var schemaJSON []byte

// Sentinel errors.
var (
	ErrInvalidDescription = errors.New("invalid build description")
	ErrConfigTimestamp    = errors.New("build configuration timestamp unavailable")
	ErrDuplicateUnit      = errors.New("duplicate unit")
	ErrUnitCycle          = errors.New("cyclic dependency between units")
)

// Graph is the validated build description.
type Graph struct {
	Package   PackageInfo
	Toolchain Toolchain
	// FactsInIsolatedDirs is false when all units share one output directory,
	// so entry-point units may overwrite each other's Main summaries.
	FactsInIsolatedDirs bool
	BuildDir            string
	ConfiguredAt        time.Time
	// Units are in build order.
	Units []depmodel.Unit
}

// PackageInfo identifies the analysed package.
type PackageInfo struct {
	Name string
	ID   depmodel.PackageID
}

// Options adjust unit derivation.
type Options struct {
	IgnoreMainModule bool
}

type document struct {
	Package struct {
		Name string `yaml:"name"`
		ID   string `yaml:"id"`
	} `yaml:"package"`
	Toolchain struct {
		Flavor  string `yaml:"flavor"`
		Version string `yaml:"version"`
	} `yaml:"toolchain"`
	FactsInIsolatedDirs *bool       `yaml:"facts-in-isolated-dirs"`
	BuildDir            string      `yaml:"build-dir"`
	ConfigFile          string      `yaml:"config-file"`
	ConfiguredAt        string      `yaml:"configured-at"`
	Units               []unitEntry `yaml:"units"`
}

type unitEntry struct {
	Kind           string     `yaml:"kind"`
	Name           string     `yaml:"name"`
	ID             string     `yaml:"id"`
	Buildable      *bool      `yaml:"buildable"`
	ExposedModules []string   `yaml:"exposed-modules"`
	OtherModules   []string   `yaml:"other-modules"`
	OutputDir      string     `yaml:"output-dir"`
	Depends        []depEntry `yaml:"depends"`
}

type depEntry struct {
	Name    string `yaml:"name"`
	ID      string `yaml:"id"`
	InPlace bool   `yaml:"in-place"`
}

// Load reads a build description file. Relative paths inside it are resolved
// against the file's directory.
func Load(path string, opts Options) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read build description: %w", err)
	}

	return Parse(data, filepath.Dir(path), opts)
}

// Parse decodes and validates a build description.
func Parse(data []byte, baseDir string, opts Options) (*Graph, error) {
	if err := validate(data); err != nil {
		return nil, err
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDescription, err)
	}

	toolchain := Toolchain{Flavor: strings.ToLower(doc.Toolchain.Flavor), Version: doc.Toolchain.Version}
	if toolchain.Flavor == "" {
		toolchain.Flavor = FlavorGHC
	}

	g := &Graph{
		Package:             PackageInfo{Name: doc.Package.Name, ID: depmodel.PackageID(doc.Package.ID)},
		Toolchain:           toolchain,
		FactsInIsolatedDirs: toolchain.IsolatesOutputDirs(),
		BuildDir:            resolvePath(baseDir, doc.BuildDir),
	}

	if doc.FactsInIsolatedDirs != nil {
		g.FactsInIsolatedDirs = *doc.FactsInIsolatedDirs
	}

	configuredAt, err := configTimestamp(doc, baseDir)
	if err != nil {
		return nil, err
	}

	g.ConfiguredAt = configuredAt

	units, err := g.buildUnits(doc, baseDir, opts)
	if err != nil {
		return nil, err
	}

	g.Units, err = buildOrder(units)
	if err != nil {
		return nil, err
	}

	return g, nil
}

func validate(data []byte) error {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescription, err)
	}

	if raw == nil {
		return fmt.Errorf("%w: empty document", ErrInvalidDescription)
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewGoLoader(raw))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDescription, err)
	}

	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", verr.Field(), verr.Description()))
	}

	return fmt.Errorf("%w: %s", ErrInvalidDescription, strings.Join(problems, "; "))
}

func configTimestamp(doc document, baseDir string) (time.Time, error) {
	if doc.ConfiguredAt != "" {
		ts, err := time.Parse(time.RFC3339, doc.ConfiguredAt)
		if err != nil {
			return time.Time{}, fmt.Errorf("%w: configured-at: %w", ErrConfigTimestamp, err)
		}

		return ts, nil
	}

	path := resolvePath(baseDir, doc.ConfigFile)

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrConfigTimestamp, err)
	}

	return info.ModTime(), nil
}

func (g *Graph) buildUnits(doc document, baseDir string, opts Options) ([]depmodel.Unit, error) {
	unitIDs := make(map[depmodel.PackageID]struct{}, len(doc.Units))
	if g.Package.ID != "" {
		unitIDs[g.Package.ID] = struct{}{}
	}

	for _, entry := range doc.Units {
		if entry.ID != "" {
			unitIDs[depmodel.PackageID(entry.ID)] = struct{}{}
		}
	}

	unitOpts := depmodel.UnitOptions{
		BuildDir:         g.BuildDir,
		IsolatedDirs:     g.FactsInIsolatedDirs,
		IgnoreMainModule: opts.IgnoreMainModule,
	}

	units := make([]depmodel.Unit, 0, len(doc.Units))
	seen := make(map[string]struct{}, len(doc.Units))

	for i, entry := range doc.Units {
		spec, err := g.unitSpec(entry, baseDir, unitIDs)
		if err != nil {
			return nil, fmt.Errorf("unit #%d: %w", i+1, err)
		}

		unit := depmodel.NewUnit(spec, unitOpts)

		if _, dup := seen[unit.DisplayName]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUnit, unit.DisplayName)
		}

		seen[unit.DisplayName] = struct{}{}
		units = append(units, unit)
	}

	return units, nil
}

func (g *Graph) unitSpec(entry unitEntry, baseDir string, unitIDs map[depmodel.PackageID]struct{}) (depmodel.UnitSpec, error) {
	kind, err := depmodel.ParseUnitKind(entry.Kind)
	if err != nil {
		return depmodel.UnitSpec{}, err
	}

	name := entry.Name
	id := depmodel.PackageID(entry.ID)

	if kind == depmodel.KindLibrary {
		if name == "" {
			name = g.Package.Name
		}

		if id == "" {
			id = g.Package.ID
		}
	} else if name == "" {
		return depmodel.UnitSpec{}, fmt.Errorf("%w: %s unit without a name", ErrInvalidDescription, kind)
	}

	deps := make([]depmodel.Dependency, 0, len(entry.Depends))
	for _, d := range entry.Depends {
		depID := depmodel.PackageID(d.ID)
		_, internal := unitIDs[depID]

		deps = append(deps, depmodel.Dependency{Name: d.Name, ID: depID, InPlace: d.InPlace || internal})
	}

	return depmodel.UnitSpec{
		Kind:           kind,
		Name:           name,
		ID:             id,
		NotBuildable:   entry.Buildable != nil && !*entry.Buildable,
		ExposedModules: toModules(entry.ExposedModules),
		OtherModules:   toModules(entry.OtherModules),
		Dependencies:   deps,
		OutputDir:      resolvePath(baseDir, entry.OutputDir),
	}, nil
}

// buildOrder sorts units so that in-place dependencies come first. Units
// without a mutual constraint keep their document order.
func buildOrder(units []depmodel.Unit) ([]depmodel.Unit, error) {
	graph := toposort.NewGraph()
	byName := make(map[string]depmodel.Unit, len(units))
	byID := make(map[depmodel.PackageID]string, len(units))

	for _, u := range units {
		graph.AddNode(u.DisplayName)
		byName[u.DisplayName] = u

		if u.ID != "" {
			byID[u.ID] = u.DisplayName
		}
	}

	for _, u := range units {
		for _, dep := range u.Dependencies {
			provider, ok := byID[dep.ID]
			if !dep.InPlace || !ok || provider == u.DisplayName {
				continue
			}

			graph.AddEdge(provider, u.DisplayName)
		}
	}

	order, ok := graph.Toposort()
	if !ok {
		for _, u := range units {
			if cycle := graph.FindCycle(u.DisplayName); cycle != nil {
				return nil, fmt.Errorf("%w: %s", ErrUnitCycle, strings.Join(cycle, " -> "))
			}
		}

		return nil, ErrUnitCycle
	}

	sorted := make([]depmodel.Unit, 0, len(order))
	for _, name := range order {
		sorted = append(sorted, byName[name])
	}

	return sorted, nil
}

func toModules(names []string) []depmodel.ModuleName {
	modules := make([]depmodel.ModuleName, len(names))
	for i, n := range names {
		modules[i] = depmodel.ModuleName(n)
	}

	return modules
}

func resolvePath(baseDir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(baseDir, path)
}
