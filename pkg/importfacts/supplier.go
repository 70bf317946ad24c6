// Package importfacts loads per-module import summaries written by the
// compiler (one "<Module>.imports" file per module) and parses them into
// import facts.
package importfacts

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

// FileSuffix is the extension of import summary files.
const FileSuffix = ".imports"

// Sentinel errors.
var (
	ErrOutputDirMissing = errors.New("output directory does not exist")
	ErrNoFactFiles      = errors.New("no import summary files found")
)

// Supplier loads the import summaries of a unit output directory.
type Supplier struct {
	fsys FS
}

// NewSupplier creates a Supplier reading through fsys.
func NewSupplier(fsys FS) *Supplier {
	return &Supplier{fsys: fsys}
}

// Load returns the parsed summary files of dir, sorted by file name.
func (s *Supplier) Load(ctx context.Context, dir string) ([]depmodel.FactFile, error) {
	info, err := s.fsys.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputDirMissing, dir)
		}

		return nil, fmt.Errorf("stat %s: %w", dir, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrOutputDirMissing, dir)
	}

	names, err := s.listSummaries(dir)
	if err != nil {
		return nil, err
	}

	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFactFiles, dir)
	}

	files := make([]depmodel.FactFile, 0, len(names))

	for _, name := range names {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("load %s: %w", dir, ctxErr)
		}

		file, loadErr := s.loadFile(dir, name)
		if loadErr != nil {
			return nil, loadErr
		}

		files = append(files, file)
	}

	return files, nil
}

func (s *Supplier) listSummaries(dir string) ([]string, error) {
	entries, err := s.fsys.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %s: %w", dir, err)
	}

	var names []string

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), FileSuffix) {
			continue
		}

		names = append(names, entry.Name())
	}

	sort.Strings(names)

	return names, nil
}

func (s *Supplier) loadFile(dir, name string) (depmodel.FactFile, error) {
	path := filepath.Join(dir, name)
	module := depmodel.ModuleName(strings.TrimSuffix(name, FileSuffix))

	if !ValidModuleName(string(module)) {
		return depmodel.FactFile{}, &ParseError{File: path, Msg: "file name is not a module name"}
	}

	info, err := s.fsys.Stat(path)
	if err != nil {
		return depmodel.FactFile{}, fmt.Errorf("stat %s: %w", path, err)
	}

	data, err := s.fsys.ReadFile(path)
	if err != nil {
		return depmodel.FactFile{}, fmt.Errorf("read %s: %w", path, err)
	}

	facts, err := Parse(module, string(data))
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.File = path
		}

		return depmodel.FactFile{}, err
	}

	return depmodel.FactFile{
		Name:    name,
		Module:  module,
		ModTime: info.ModTime(),
		Facts:   facts,
	}, nil
}
