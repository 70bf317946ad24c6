package report_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/deptrim/pkg/analysis"
	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/report"
	"github.com/Sumatoshi-tech/deptrim/pkg/staleness"
)

var configuredAt = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func failingReport() *analysis.Report {
	return &analysis.Report{
		Package:      "demo",
		Toolchain:    "ghc-9.4.7",
		ConfiguredAt: configuredAt,
		Units: []analysis.UnitReport{
			{
				Name:         "library",
				Kind:         depmodel.KindLibrary,
				Missing:      []depmodel.ModuleName{"Demo.Internal"},
				Stale:        []staleness.Artifact{{Name: "Demo.imports", ModTime: configuredAt.Add(-3 * time.Hour)}},
				IgnoredCount: 1,
				Unused:       []depmodel.Dependency{{Name: "containers", ID: "containers-0.6"}},
			},
			{
				Name:          "benchmark speed",
				Kind:          depmodel.KindBenchmark,
				NotConfigured: true,
				Pass:          true,
			},
		},
	}
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]report.Format{"": report.FormatText, "TEXT": report.FormatText, "json": report.FormatJSON, "yaml": report.FormatYAML} {
		got, err := report.ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := report.ParseFormat("xml")
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestRender_Text(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	err := report.Render(&buf, failingReport(), report.Options{Format: report.FormatText, NoColor: true})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Package demo (ghc-9.4.7)")
	assert.Contains(t, out, "== library ==")
	assert.Contains(t, out, "1 modules have no import summary: Demo.Internal")
	assert.Contains(t, out, "Demo.imports (written 3 hours before configuration)")
	assert.Contains(t, out, "1 dependencies ignored by name")
	assert.Contains(t, out, "containers-0.6")
	assert.Contains(t, out, "== benchmark speed ==")
	assert.Contains(t, out, "not configured to build")
	assert.Contains(t, out, "FAIL: 1 unused dependencies")
	assert.NotContains(t, out, "\x1b[")
}

func TestRender_TextPass(t *testing.T) {
	t.Parallel()

	r := &analysis.Report{
		Toolchain: "ghc",
		Units:     []analysis.UnitReport{{Name: "library", Pass: true}},
		Warnings:  []string{"toolchain check"},
		Pass:      true,
	}

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, r, report.Options{NoColor: true}))

	out := buf.String()
	assert.Contains(t, out, "Package - (ghc)")
	assert.Contains(t, out, "warning: toolchain check")
	assert.Contains(t, out, "  ok")
	assert.Contains(t, out, "PASS: no unused dependencies in 1 units")
}

func TestRender_JSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, failingReport(), report.Options{Format: report.FormatJSON}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "demo", decoded["package"])
	assert.Equal(t, false, decoded["pass"])

	units, ok := decoded["units"].([]any)
	require.True(t, ok)
	require.Len(t, units, 2)

	lib, ok := units[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, []any{"Demo.Internal"}, lib["missing"])
	assert.Equal(t, []any{map[string]any{"name": "containers", "id": "containers-0.6"}}, lib["unused"])
	assert.NotContains(t, lib, "State")
}

func TestRender_YAML(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, report.Render(&buf, failingReport(), report.Options{Format: report.FormatYAML}))

	var decoded struct {
		Package string `yaml:"package"`
		Units   []struct {
			Name          string `yaml:"name"`
			NotConfigured bool   `yaml:"not_configured"`
			Unused        []struct {
				ID string `yaml:"id"`
			} `yaml:"unused"`
		} `yaml:"units"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "demo", decoded.Package)
	require.Len(t, decoded.Units, 2)
	assert.Equal(t, "containers-0.6", decoded.Units[0].Unused[0].ID)
	assert.True(t, decoded.Units[1].NotConfigured)
}

func TestRender_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := report.Render(&bytes.Buffer{}, failingReport(), report.Options{Format: "csv"})
	require.ErrorIs(t, err, report.ErrUnknownFormat)
}

func TestUnits(t *testing.T) {
	t.Parallel()

	units := []depmodel.Unit{
		depmodel.NewUnit(depmodel.UnitSpec{
			Kind:           depmodel.KindLibrary,
			Name:           "demo",
			ExposedModules: []depmodel.ModuleName{"Demo"},
			Dependencies:   []depmodel.Dependency{{Name: "base", ID: "base-4.18"}},
		}, depmodel.UnitOptions{BuildDir: "/build"}),
		depmodel.NewUnit(depmodel.UnitSpec{
			Kind: depmodel.KindExecutable,
			Name: "demo-cli",
		}, depmodel.UnitOptions{BuildDir: "/build", IsolatedDirs: true}),
	}

	var buf bytes.Buffer
	require.NoError(t, report.Units(&buf, units))

	out := buf.String()
	assert.Contains(t, out, "executable demo-cli")
	assert.Contains(t, out, "/build/demo-cli/demo-cli-tmp")
	assert.Contains(t, strings.ToLower(out), "total: 2 units")
}
