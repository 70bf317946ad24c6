package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

// Units writes a table describing the detected units in build order.
func Units(w io.Writer, units []depmodel.Unit) error {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	tbl.AppendHeader(table.Row{"Unit", "Kind", "Buildable", "Modules", "Dependencies", "Output directory"})

	for _, u := range units {
		tbl.AppendRow(table.Row{
			u.DisplayName,
			u.Kind,
			strconv.FormatBool(u.Buildable),
			len(u.Modules),
			len(u.Dependencies),
			u.OutputDir,
		})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d units", len(units))})
	if _, err := fmt.Fprintln(w, tbl.Render()); err != nil {
		return fmt.Errorf("write units: %w", err)
	}

	return nil
}
