package catalogue

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

const (
	confSuffix = ".conf"

	// DefaultCacheSize is the number of parsed registrations kept in memory.
	DefaultCacheSize = 1024
)

// DBSource resolves packages from package database directories holding one
// "<id>.conf" registration per installed package.
type DBSource struct {
	dirs  []string
	cache *lru.Cache[depmodel.PackageID, depmodel.CatalogueEntry]

	scanOnce sync.Once
	scanErr  error
	byID     map[depmodel.PackageID]string
}

// NewDBSource creates a source over the given database directories, searched
// in order.
func NewDBSource(dirs []string, cacheSize int) (*DBSource, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}

	cache, err := lru.New[depmodel.PackageID, depmodel.CatalogueEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create registration cache: %w", err)
	}

	return &DBSource{dirs: dirs, cache: cache}, nil
}

// Entry returns the registration of id.
func (s *DBSource) Entry(_ context.Context, id depmodel.PackageID) (depmodel.CatalogueEntry, bool, error) {
	if entry, ok := s.cache.Get(id); ok {
		return entry, true, nil
	}

	for _, dir := range s.dirs {
		entry, ok, err := s.readConf(filepath.Join(dir, string(id)+confSuffix))
		if err != nil {
			return depmodel.CatalogueEntry{}, false, err
		}

		if ok && entry.ID == id {
			s.cache.Add(id, entry)

			return entry, true, nil
		}
	}

	// Registration files are not always named after the package id. The
	// scan caches what it parses; the file is re-read only after eviction.
	path, ok, err := s.lookupScanned(id)
	if err != nil || !ok {
		return depmodel.CatalogueEntry{}, false, err
	}

	if entry, cached := s.cache.Get(id); cached {
		return entry, true, nil
	}

	entry, _, err := s.readConf(path)
	if err != nil {
		return depmodel.CatalogueEntry{}, false, err
	}

	s.cache.Add(id, entry)

	return entry, true, nil
}

func (s *DBSource) readConf(path string) (depmodel.CatalogueEntry, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return depmodel.CatalogueEntry{}, false, nil
		}

		return depmodel.CatalogueEntry{}, false, fmt.Errorf("read registration %s: %w", path, err)
	}

	entry, err := ParseConf(string(data))
	if err != nil {
		return depmodel.CatalogueEntry{}, false, fmt.Errorf("%s: %w", path, err)
	}

	return entry, true, nil
}

func (s *DBSource) lookupScanned(id depmodel.PackageID) (string, bool, error) {
	s.scanOnce.Do(func() {
		s.byID, s.scanErr = s.scan()
	})

	if s.scanErr != nil {
		return "", false, s.scanErr
	}

	path, ok := s.byID[id]

	return path, ok, nil
}

// scan indexes every registration of every database; earlier databases win.
func (s *DBSource) scan() (map[depmodel.PackageID]string, error) {
	byID := make(map[depmodel.PackageID]string)

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrPackageDB, dir, err)
		}

		for _, e := range entries {
			if e.IsDir() || !strings.HasSuffix(e.Name(), confSuffix) {
				continue
			}

			path := filepath.Join(dir, e.Name())

			entry, _, readErr := s.readConf(path)
			if readErr != nil {
				return nil, readErr
			}

			if _, seen := byID[entry.ID]; !seen {
				byID[entry.ID] = path
				s.cache.Add(entry.ID, entry)
			}
		}
	}

	return byID, nil
}
