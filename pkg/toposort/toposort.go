// Package toposort orders named nodes so that every edge points forward.
package toposort

import "slices"

// Graph is a directed graph over string nodes.
type Graph struct {
	symbols  *SymbolTable
	children [][]int
	inDegree []int
}

// NewGraph initializes a new Graph.
func NewGraph() *Graph {
	return &Graph{symbols: NewSymbolTable()}
}

func (g *Graph) intern(name string) int {
	id := g.symbols.Intern(name)
	for len(g.children) <= id {
		g.children = append(g.children, nil)
		g.inDegree = append(g.inDegree, 0)
	}

	return id
}

// AddNode inserts a node. It returns false when the node already exists.
func (g *Graph) AddNode(name string) bool {
	if _, exists := g.symbols.Lookup(name); exists {
		return false
	}

	g.intern(name)

	return true
}

// AddEdge inserts the edge from -> to, adding missing nodes. Duplicate edges
// are ignored. It returns the in-degree of "to".
func (g *Graph) AddEdge(from, to string) int {
	u := g.intern(from)
	v := g.intern(to)

	if !slices.Contains(g.children[u], v) {
		g.children[u] = append(g.children[u], v)
		g.inDegree[v]++
	}

	return g.inDegree[v]
}

// Toposort returns the nodes in topological order. Among nodes that are ready
// at the same time, the one added first comes first. The boolean is false
// when the graph has a cycle; the order then holds only the acyclic prefix.
func (g *Graph) Toposort() ([]string, bool) {
	n := g.symbols.Len()
	inDegree := slices.Clone(g.inDegree)
	done := make([]bool, n)
	order := make([]string, 0, n)

	for len(order) < n {
		next := -1

		for id := range n {
			if !done[id] && inDegree[id] == 0 {
				next = id

				break
			}
		}

		if next < 0 {
			return order, false
		}

		done[next] = true
		order = append(order, g.symbols.Resolve(next))

		for _, child := range g.children[next] {
			inDegree[child]--
		}
	}

	return order, true
}

// FindCycle returns a cycle through seed, or nil when there is none.
func (g *Graph) FindCycle(seed string) []string {
	start, ok := g.symbols.Lookup(seed)
	if !ok {
		return nil
	}

	visited := make([]bool, g.symbols.Len())
	path := []int{start}

	var walk func(u int) bool

	walk = func(u int) bool {
		for _, v := range g.children[u] {
			if v == start {
				return true
			}

			if visited[v] {
				continue
			}

			visited[v] = true
			path = append(path, v)

			if walk(v) {
				return true
			}

			path = path[:len(path)-1]
		}

		return false
	}

	visited[start] = true

	if !walk(start) {
		return nil
	}

	cycle := make([]string, len(path))
	for i, id := range path {
		cycle[i] = g.symbols.Resolve(id)
	}

	return cycle
}
