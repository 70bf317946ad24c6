package catalogue

import (
	"bufio"
	"fmt"
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

const (
	fieldName           = "name"
	fieldID             = "id"
	fieldExposedModules = "exposed-modules"
	keywordFrom         = "from"
)

// ParseConf reads a package registration file ("name: ...", "id: ...",
// "exposed-modules: ..." with indented continuation lines).
func ParseConf(src string) (depmodel.CatalogueEntry, error) {
	fields := make(map[string]string)

	var current string

	scanner := bufio.NewScanner(strings.NewReader(src))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := scanner.Text()

		if strings.TrimSpace(line) == "" {
			continue
		}

		if unicode.IsSpace(rune(line[0])) {
			if current == "" {
				return depmodel.CatalogueEntry{}, fmt.Errorf("%w: line %d: continuation without field", ErrMalformedConf, lineNo)
			}

			fields[current] += "\n" + line

			continue
		}

		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return depmodel.CatalogueEntry{}, fmt.Errorf("%w: line %d: expected field", ErrMalformedConf, lineNo)
		}

		current = strings.ToLower(strings.TrimSpace(key))
		fields[current] = value
	}

	if err := scanner.Err(); err != nil {
		return depmodel.CatalogueEntry{}, fmt.Errorf("scan registration: %w", err)
	}

	id := strings.TrimSpace(fields[fieldID])
	if id == "" {
		return depmodel.CatalogueEntry{}, fmt.Errorf("%w: missing id field", ErrMalformedConf)
	}

	return depmodel.CatalogueEntry{
		ID:             depmodel.PackageID(id),
		Name:           strings.TrimSpace(fields[fieldName]),
		ExposedModules: parseModuleList(fields[fieldExposedModules]),
	}, nil
}

// parseModuleList splits a module list on commas and whitespace. In
// "M from pkg:N" only M is the exposed name.
func parseModuleList(value string) []depmodel.ModuleName {
	tokens := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	modules := make([]depmodel.ModuleName, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		if tokens[i] == keywordFrom {
			i++

			continue
		}

		modules = append(modules, depmodel.ModuleName(tokens[i]))
	}

	return modules
}
