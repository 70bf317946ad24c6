package toposort

// SymbolTable maps node names to dense integer IDs in insertion order.
type SymbolTable struct {
	strToID map[string]int
	idToStr []string
}

// NewSymbolTable creates a new SymbolTable.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{strToID: make(map[string]int)}
}

// Intern returns the ID of name, assigning the next free one if needed.
func (table *SymbolTable) Intern(name string) int {
	if id, ok := table.strToID[name]; ok {
		return id
	}

	id := len(table.idToStr)
	table.idToStr = append(table.idToStr, name)
	table.strToID[name] = id

	return id
}

// Lookup returns the ID of an already interned name.
func (table *SymbolTable) Lookup(name string) (int, bool) {
	id, ok := table.strToID[name]

	return id, ok
}

// Resolve returns the name of id, or "" when id is unknown.
func (table *SymbolTable) Resolve(id int) string {
	if id < 0 || id >= len(table.idToStr) {
		return ""
	}

	return table.idToStr[id]
}

// Len returns the number of interned names.
func (table *SymbolTable) Len() int {
	return len(table.idToStr)
}
