// Package staleness flags import summaries older than the build configuration.
package staleness

import (
	"time"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

// Status is the freshness of one artifact.
type Status int

// Artifact statuses.
const (
	Fresh Status = iota
	Stale
)

func (s Status) String() string {
	if s == Stale {
		return "stale"
	}

	return "fresh"
}

// Classify marks an artifact stale unless it is strictly newer than the
// build configuration.
func Classify(artifact, config time.Time) Status {
	if artifact.After(config) {
		return Fresh
	}

	return Stale
}

// Artifact is a stale fact file.
type Artifact struct {
	Name    string    `json:"name"     yaml:"name"`
	ModTime time.Time `json:"mod_time" yaml:"mod_time"`
}

// Check returns the stale fact files in input order. It never filters the
// files used for analysis.
func Check(files []depmodel.FactFile, config time.Time) []Artifact {
	var stale []Artifact

	for _, file := range files {
		if Classify(file.ModTime, config) == Stale {
			stale = append(stale, Artifact{Name: file.Name, ModTime: file.ModTime})
		}
	}

	return stale
}
