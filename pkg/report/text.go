package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/deptrim/pkg/analysis"
	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/staleness"
)

type textRenderer struct {
	w io.Writer

	pass    *color.Color
	fail    *color.Color
	warn    *color.Color
	heading *color.Color

	err error
}

func newTextRenderer(w io.Writer, noColor bool) *textRenderer {
	tr := &textRenderer{
		w:       w,
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow),
		heading: color.New(color.Bold),
	}

	if noColor {
		for _, c := range []*color.Color{tr.pass, tr.fail, tr.warn, tr.heading} {
			c.DisableColor()
		}
	}

	return tr
}

func (tr *textRenderer) printf(c *color.Color, format string, args ...any) {
	if tr.err != nil {
		return
	}

	if c == nil {
		_, tr.err = fmt.Fprintf(tr.w, format, args...)

		return
	}

	_, tr.err = c.Fprintf(tr.w, format, args...)
}

func (tr *textRenderer) render(r *analysis.Report) error {
	tr.printf(tr.heading, "Package %s (%s)\n", orDash(r.Package), r.Toolchain)

	for _, w := range r.Warnings {
		tr.printf(tr.warn, "warning: %s\n", w)
	}

	for _, u := range r.Units {
		tr.unit(u, r.ConfiguredAt)
	}

	tr.printf(nil, "\n")

	if r.Pass {
		tr.printf(tr.pass, "PASS: no unused dependencies in %d units\n", len(r.Units))
	} else {
		tr.printf(tr.fail, "FAIL: %d unused dependencies\n", r.UnusedCount())
	}

	if tr.err != nil {
		return fmt.Errorf("write text report: %w", tr.err)
	}

	return nil
}

func (tr *textRenderer) unit(u analysis.UnitReport, configuredAt time.Time) {
	tr.printf(nil, "\n")
	tr.printf(tr.heading, "== %s ==\n", u.Name)

	if u.NotConfigured {
		tr.printf(tr.warn, "  not configured to build; skipped\n")

		return
	}

	for _, w := range u.Warnings {
		tr.printf(tr.warn, "  warning: %s\n", w)
	}

	if len(u.Missing) > 0 {
		tr.printf(tr.warn, "  %d modules have no import summary: %s\n", len(u.Missing), joinModules(u.Missing))
	}

	if len(u.Stale) > 0 {
		tr.printf(tr.warn, "  %d import summaries are older than the build configuration; rebuild to refresh:\n", len(u.Stale))

		for _, a := range u.Stale {
			tr.printf(nil, "    %s (%s)\n", a.Name, staleAge(a, configuredAt))
		}
	}

	if u.IgnoredCount > 0 {
		tr.printf(nil, "  %d dependencies ignored by name\n", u.IgnoredCount)
	}

	if u.Pass {
		tr.printf(tr.pass, "  ok\n")

		return
	}

	tr.printf(tr.fail, "  %d unused dependencies:\n", len(u.Unused))
	tr.printf(nil, "%s\n", indent(unusedTable(u.Unused), "  "))
}

func unusedTable(deps []depmodel.Dependency) string {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.Style().Options.DrawBorder = false
	tbl.Style().Options.SeparateColumns = false

	tbl.AppendHeader(table.Row{"Package", "Id"})

	for _, d := range deps {
		tbl.AppendRow(table.Row{d.Name, d.ID})
	}

	return tbl.Render()
}

func staleAge(a staleness.Artifact, configuredAt time.Time) string {
	if a.ModTime.Equal(configuredAt) {
		return "written when the build was configured"
	}

	return "written " + humanize.RelTime(a.ModTime, configuredAt, "before", "after") + " configuration"
}

func joinModules(modules []depmodel.ModuleName) string {
	names := make([]string, len(modules))
	for i, m := range modules {
		names[i] = string(m)
	}

	return strings.Join(names, ", ")
}

func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}

	return strings.Join(lines, "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}

	return s
}
