package orders

import "github.com/tuongvi122/Cooffee-Beer-DJ-Goodjn/internal/vnformat"

// Groups is the result of grouping flat rows by order identifier.
// Iteration over Keys yields identifiers in order of first appearance;
// rows within a group keep their original relative order.
type Groups struct {
	keys   []string
	groups map[string][]Row
}

// GroupRows partitions rows by the identifier in idCol in a single
// pass. Rows with an empty identifier are dropped silently; a missing
// identifier is operator noise, not an error.
func GroupRows(rows []Row, idCol int) *Groups {
	g := &Groups{groups: make(map[string][]Row, len(rows))}
	for _, row := range rows {
		id := vnformat.CleanText(row.Cell(idCol))
		if id == "" {
			continue
		}
		if _, seen := g.groups[id]; !seen {
			g.keys = append(g.keys, id)
		}
		g.groups[id] = append(g.groups[id], row)
	}
	return g
}

// Keys returns the order identifiers in first-appearance order.
func (g *Groups) Keys() []string {
	return g.keys
}

// Get returns the rows for one order identifier.
func (g *Groups) Get(id string) []Row {
	return g.groups[id]
}

// Len returns the number of distinct orders.
func (g *Groups) Len() int {
	return len(g.keys)
}
