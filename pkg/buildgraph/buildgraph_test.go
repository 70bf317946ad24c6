package buildgraph_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/deptrim/pkg/buildgraph"
	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

const sampleDescription = `
package:
  name: demo
  id: demo-0.1-abc
toolchain:
  flavor: ghc
  version: "9.4.7"
build-dir: dist/build
configured-at: "2024-03-01T10:00:00Z"
units:
  - kind: executable
    name: demo-cli
    other-modules: [Cli.Options]
    depends:
      - {name: base, id: base-4.18}
      - {name: demo, id: demo-0.1-abc}
  - kind: library
    exposed-modules: [Demo, Demo.Types]
    depends:
      - {name: base, id: base-4.18}
      - {name: containers, id: containers-0.6}
      - {name: base, id: base-4.18}
`

func TestParse_Units(t *testing.T) {
	t.Parallel()

	g, err := buildgraph.Parse([]byte(sampleDescription), "/src/demo", buildgraph.Options{})
	require.NoError(t, err)

	assert.Equal(t, "demo", g.Package.Name)
	assert.Equal(t, depmodel.PackageID("demo-0.1-abc"), g.Package.ID)
	assert.True(t, g.Toolchain.IsGHC())
	assert.True(t, g.FactsInIsolatedDirs)
	assert.Equal(t, "/src/demo/dist/build", g.BuildDir)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), g.ConfiguredAt.UTC())

	require.Len(t, g.Units, 2)

	lib := g.Units[0]
	assert.Equal(t, "library", lib.DisplayName)
	assert.Equal(t, depmodel.PackageID("demo-0.1-abc"), lib.ID)
	assert.Equal(t, "/src/demo/dist/build", lib.OutputDir)
	assert.Equal(t, []depmodel.ModuleName{"Demo", "Demo.Types"}, lib.Modules)
	assert.Len(t, lib.Dependencies, 2)

	exe := g.Units[1]
	assert.Equal(t, "executable demo-cli", exe.DisplayName)
	assert.Equal(t, "/src/demo/dist/build/demo-cli/demo-cli-tmp", exe.OutputDir)
	assert.Equal(t, []depmodel.ModuleName{"Cli.Options", "Main"}, exe.Modules)

	require.Len(t, exe.Dependencies, 2)
	assert.False(t, exe.Dependencies[0].InPlace)
	assert.True(t, exe.Dependencies[1].InPlace)
}

func TestParse_IgnoreMainModule(t *testing.T) {
	t.Parallel()

	g, err := buildgraph.Parse([]byte(sampleDescription), "/src/demo", buildgraph.Options{IgnoreMainModule: true})
	require.NoError(t, err)

	assert.Equal(t, []depmodel.ModuleName{"Cli.Options"}, g.Units[1].Modules)
}

func TestParse_OldToolchainSharesOutputDir(t *testing.T) {
	t.Parallel()

	doc := `
toolchain: {flavor: ghc, version: "7.6.3"}
build-dir: /out
configured-at: "2024-03-01T10:00:00Z"
units:
  - kind: executable
    name: a
  - kind: test-suite
    name: b
`

	g, err := buildgraph.Parse([]byte(doc), "/src", buildgraph.Options{})
	require.NoError(t, err)

	assert.False(t, g.FactsInIsolatedDirs)

	for _, u := range g.Units {
		assert.Equal(t, "/out", u.OutputDir)
	}
}

func TestParse_ExplicitIsolationWins(t *testing.T) {
	t.Parallel()

	doc := `
toolchain: {flavor: ghc, version: "7.6.3"}
facts-in-isolated-dirs: true
build-dir: /out
configured-at: "2024-03-01T10:00:00Z"
units:
  - kind: executable
    name: a
    output-dir: custom
`

	g, err := buildgraph.Parse([]byte(doc), "/src", buildgraph.Options{})
	require.NoError(t, err)

	assert.True(t, g.FactsInIsolatedDirs)
	assert.Equal(t, "/src/custom", g.Units[0].OutputDir)
}

func TestParse_NotBuildable(t *testing.T) {
	t.Parallel()

	doc := `
configured-at: "2024-03-01T10:00:00Z"
units:
  - kind: benchmark
    name: bench
    buildable: false
`

	g, err := buildgraph.Parse([]byte(doc), "/src", buildgraph.Options{})
	require.NoError(t, err)

	assert.False(t, g.Units[0].Buildable)
}

func TestParse_SchemaViolations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"no timestamp source", "units: []"},
		{"unknown kind", "configured-at: x\nunits: [{kind: widget}]"},
		{"unknown field", "configured-at: x\nunits: []\nflavour: ghc"},
		{"bad module name", "configured-at: x\nunits: [{kind: library, exposed-modules: [lower.Case]}]"},
		{"dependency without id", "configured-at: x\nunits: [{kind: library, depends: [{name: base}]}]"},
		{"malformed yaml", "units: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := buildgraph.Parse([]byte(tt.doc), "/src", buildgraph.Options{})
			require.ErrorIs(t, err, buildgraph.ErrInvalidDescription)
		})
	}
}

func TestParse_UnnamedExecutable(t *testing.T) {
	t.Parallel()

	doc := `
configured-at: "2024-03-01T10:00:00Z"
units: [{kind: executable}]
`

	_, err := buildgraph.Parse([]byte(doc), "/src", buildgraph.Options{})
	require.ErrorIs(t, err, buildgraph.ErrInvalidDescription)
}

func TestParse_BadTimestamp(t *testing.T) {
	t.Parallel()

	doc := `
configured-at: yesterday
units: []
`

	_, err := buildgraph.Parse([]byte(doc), "/src", buildgraph.Options{})
	require.ErrorIs(t, err, buildgraph.ErrConfigTimestamp)
}

func TestParse_MissingConfigFile(t *testing.T) {
	t.Parallel()

	doc := `
config-file: does-not-exist.cfg
units: []
`

	_, err := buildgraph.Parse([]byte(doc), t.TempDir(), buildgraph.Options{})
	require.ErrorIs(t, err, buildgraph.ErrConfigTimestamp)
}

func TestParse_DuplicateUnit(t *testing.T) {
	t.Parallel()

	doc := `
configured-at: "2024-03-01T10:00:00Z"
units:
  - {kind: executable, name: tool}
  - {kind: executable, name: tool}
`

	_, err := buildgraph.Parse([]byte(doc), "/src", buildgraph.Options{})
	require.ErrorIs(t, err, buildgraph.ErrDuplicateUnit)
}

func TestParse_UnitCycle(t *testing.T) {
	t.Parallel()

	doc := `
configured-at: "2024-03-01T10:00:00Z"
units:
  - kind: sub-library
    name: a
    id: pkg-a
    depends: [{name: b, id: pkg-b}]
  - kind: sub-library
    name: b
    id: pkg-b
    depends: [{name: a, id: pkg-a}]
`

	_, err := buildgraph.Parse([]byte(doc), "/src", buildgraph.Options{})
	require.ErrorIs(t, err, buildgraph.ErrUnitCycle)
	assert.Contains(t, err.Error(), "library a")
}

func TestLoad_ConfigFileTimestamp(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "setup-config")
	require.NoError(t, os.WriteFile(cfg, []byte("configured"), 0o600))

	stamp := time.Date(2023, 11, 5, 8, 30, 0, 0, time.UTC)
	require.NoError(t, os.Chtimes(cfg, stamp, stamp))

	descPath := filepath.Join(dir, "build.yaml")
	doc := "config-file: setup-config\nbuild-dir: dist\nunits: [{kind: library}]\n"
	require.NoError(t, os.WriteFile(descPath, []byte(doc), 0o600))

	g, err := buildgraph.Load(descPath, buildgraph.Options{})
	require.NoError(t, err)

	assert.True(t, stamp.Equal(g.ConfiguredAt))
	assert.Equal(t, filepath.Join(dir, "dist"), g.BuildDir)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := buildgraph.Load(filepath.Join(t.TempDir(), "absent.yaml"), buildgraph.Options{})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestToolchain_IsolatesOutputDirs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		toolchain buildgraph.Toolchain
		want      bool
	}{
		{buildgraph.Toolchain{Flavor: "ghc", Version: "7.6.3"}, false},
		{buildgraph.Toolchain{Flavor: "ghc", Version: "7.8"}, true},
		{buildgraph.Toolchain{Flavor: "ghc", Version: "7.8.4"}, true},
		{buildgraph.Toolchain{Flavor: "ghc", Version: "10.0"}, true},
		{buildgraph.Toolchain{Flavor: "ghc"}, true},
		{buildgraph.Toolchain{Flavor: "uhc", Version: "1.0"}, true},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.toolchain.IsolatesOutputDirs(), tt.toolchain.String())
	}
}
