// Package catalogue resolves installed dependency packages to the modules
// they expose. Project-internal (in-place) packages are never catalogued.
package catalogue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

// Sentinel errors.
var (
	ErrUnknownPackage = errors.New("package not found in any catalogue")
	ErrMalformedConf  = errors.New("malformed package registration")
	ErrPackageDB      = errors.New("unreadable package database")
	ErrCatalogueFile  = errors.New("invalid catalogue file")
)

// Source knows the registrations of some set of packages.
type Source interface {
	Entry(ctx context.Context, id depmodel.PackageID) (depmodel.CatalogueEntry, bool, error)
}

// Catalogue queries its sources in order; the first that knows a package wins.
type Catalogue struct {
	sources []Source
}

// New creates a Catalogue over the given sources.
func New(sources ...Source) *Catalogue {
	return &Catalogue{sources: sources}
}

// Lookup returns one entry per distinct id, in first-seen order. All unknown
// ids are reported together.
func (c *Catalogue) Lookup(ctx context.Context, ids []depmodel.PackageID) ([]depmodel.CatalogueEntry, error) {
	entries := make([]depmodel.CatalogueEntry, 0, len(ids))
	seen := make(map[depmodel.PackageID]struct{}, len(ids))

	var unknown []string

	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}

		seen[id] = struct{}{}

		entry, ok, err := c.entry(ctx, id)
		if err != nil {
			return nil, err
		}

		if !ok {
			unknown = append(unknown, string(id))

			continue
		}

		entries = append(entries, entry)
	}

	if len(unknown) > 0 {
		slices.Sort(unknown)

		return nil, fmt.Errorf("%w: %s", ErrUnknownPackage, strings.Join(unknown, ", "))
	}

	return entries, nil
}

func (c *Catalogue) entry(ctx context.Context, id depmodel.PackageID) (depmodel.CatalogueEntry, bool, error) {
	for _, src := range c.sources {
		entry, ok, err := src.Entry(ctx, id)
		if err != nil {
			return depmodel.CatalogueEntry{}, false, fmt.Errorf("lookup %s: %w", id, err)
		}

		if ok {
			return entry, true, nil
		}
	}

	return depmodel.CatalogueEntry{}, false, nil
}

type catalogueFile struct {
	Packages []depmodel.CatalogueEntry `yaml:"packages"`
}

// FileSource serves packages listed in a YAML (or JSON) catalogue file:
//
//	packages:
//	  - id: base-4.18.0.0
//	    name: base
//	    exposed-modules: [Prelude, Data.List]
type FileSource struct {
	byID map[depmodel.PackageID]depmodel.CatalogueEntry
}

// LoadFileSource reads a catalogue file.
func LoadFileSource(path string) (*FileSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalogue %s: %w", path, err)
	}

	return ParseFileSource(data)
}

// ParseFileSource decodes catalogue file contents.
func ParseFileSource(data []byte) (*FileSource, error) {
	var doc catalogueFile

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCatalogueFile, err)
	}

	src := &FileSource{byID: make(map[depmodel.PackageID]depmodel.CatalogueEntry, len(doc.Packages))}

	for i, entry := range doc.Packages {
		if entry.ID == "" {
			return nil, fmt.Errorf("%w: package #%d has no id", ErrCatalogueFile, i+1)
		}

		src.byID[entry.ID] = entry
	}

	return src, nil
}

// Entry returns the listed entry for id.
func (s *FileSource) Entry(_ context.Context, id depmodel.PackageID) (depmodel.CatalogueEntry, bool, error) {
	entry, ok := s.byID[id]

	return entry, ok, nil
}
