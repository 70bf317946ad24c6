package analysis

import (
	"time"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
	"github.com/Sumatoshi-tech/deptrim/pkg/staleness"
)

// State is the progress of one unit through a run.
type State int

// Unit states, in order.
const (
	StatePending State = iota
	StateFactsLoaded
	StateReconciled
	StateReported
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFactsLoaded:
		return "facts-loaded"
	case StateReconciled:
		return "reconciled"
	case StateReported:
		return "reported"
	default:
		return "unknown"
	}
}

// Report is the outcome of a complete run.
type Report struct {
	Package      string       `json:"package,omitempty"  yaml:"package,omitempty"`
	Toolchain    string       `json:"toolchain"          yaml:"toolchain"`
	ConfiguredAt time.Time    `json:"configured_at"      yaml:"configured_at"`
	Units        []UnitReport `json:"units"              yaml:"units"`
	Warnings     []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Pass         bool         `json:"pass"               yaml:"pass"`
}

// UnusedCount returns the number of unused dependencies across all units.
func (r *Report) UnusedCount() int {
	n := 0
	for _, u := range r.Units {
		n += len(u.Unused)
	}

	return n
}

// UnitReport is the outcome for one unit.
type UnitReport struct {
	Name          string                `json:"name"                     yaml:"name"`
	Kind          depmodel.UnitKind     `json:"kind"                     yaml:"kind"`
	OutputDir     string                `json:"output_dir,omitempty"     yaml:"output_dir,omitempty"`
	NotConfigured bool                  `json:"not_configured,omitempty" yaml:"not_configured,omitempty"`
	Missing       []depmodel.ModuleName `json:"missing,omitempty"        yaml:"missing,omitempty"`
	Stale         []staleness.Artifact  `json:"stale,omitempty"          yaml:"stale,omitempty"`
	IgnoredCount  int                   `json:"ignored_count"            yaml:"ignored_count"`
	// Unused keeps the declared dependency order.
	Unused   []depmodel.Dependency `json:"unused"             yaml:"unused"`
	Warnings []string              `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Pass     bool                  `json:"pass"               yaml:"pass"`

	State State `json:"-" yaml:"-"`
}
