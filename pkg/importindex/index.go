// Package importindex indexes the import facts of one unit by importing module.
package importindex

import "github.com/Sumatoshi-tech/deptrim/pkg/depmodel"

type importEdge struct {
	target depmodel.ModuleName
	empty  bool
}

// Index maps a source module to the modules it imports.
type Index struct {
	edges   map[depmodel.ModuleName][]importEdge
	covered depmodel.ModuleSet
}

// Build indexes the given fact files. A file contributes facts for the module
// it was produced for, whatever the importer field of each fact says.
func Build(files []depmodel.FactFile) *Index {
	idx := &Index{
		edges:   make(map[depmodel.ModuleName][]importEdge, len(files)),
		covered: make(depmodel.ModuleSet, len(files)),
	}

	for _, file := range files {
		idx.covered.Add(file.Module)

		for _, fact := range file.Facts {
			idx.edges[file.Module] = append(idx.edges[file.Module], importEdge{
				target: fact.Imported,
				empty:  fact.IsEmpty(),
			})
		}
	}

	return idx
}

// Imported returns the modules imported by any of the given unit modules.
// With ignoreEmptyImports, imports with an explicit empty specifier list do
// not count.
func (idx *Index) Imported(unitModules []depmodel.ModuleName, ignoreEmptyImports bool) depmodel.ModuleSet {
	imported := make(depmodel.ModuleSet)

	for _, module := range unitModules {
		for _, edge := range idx.edges[module] {
			if ignoreEmptyImports && edge.empty {
				continue
			}

			imported.Add(edge.target)
		}
	}

	return imported
}

// Covered returns the modules that have a fact file.
func (idx *Index) Covered() depmodel.ModuleSet {
	return idx.covered
}

// Missing returns the unit modules without a fact file, sorted.
func (idx *Index) Missing(unitModules []depmodel.ModuleName) []depmodel.ModuleName {
	var missing []depmodel.ModuleName

	for _, module := range unitModules {
		if !idx.covered.Has(module) {
			missing = append(missing, module)
		}
	}

	return depmodel.SortModules(missing)
}
