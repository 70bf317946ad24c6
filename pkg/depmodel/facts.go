package depmodel

import "time"

// ImportFact records that Importer imports Imported.
type ImportFact struct {
	Importer   ModuleName
	Imported   ModuleName
	Specifiers []string
	Qualified  bool
	Alias      ModuleName
	Hiding     bool
	// Everything is set when the declaration has no specifier list at all.
	Everything bool
	Line       int
}

// IsEmpty reports an explicit empty specifier list, as in "import Foo ()".
func (f ImportFact) IsEmpty() bool {
	return !f.Everything && !f.Hiding && len(f.Specifiers) == 0
}

// FactFile is one parsed import summary artifact.
type FactFile struct {
	Name    string
	Module  ModuleName
	ModTime time.Time
	Facts   []ImportFact
}
