package catalog

import (
	"fmt"
	"slices"
)

// tableEdge is one dependency edge, from referenced table to host table.
type tableEdge struct {
	from tableKey
	to   tableKey
}

func cmpTableEdge(a, b tableEdge) int {
	if c := cmpTableKey(a.from, b.from); c != 0 {
		return c
	}
	return cmpTableKey(a.to, b.to)
}

// TableDAG orders the tables so that every table appears after the tables
// its foreign keys reference. One edge per non-self-referential foreign
// key, sorted then deduplicated, so several foreign keys between the same
// pair collapse to one edge. Kahn's algorithm with a FIFO queue seeded in
// catalog order breaks ties among tables whose dependencies are all
// satisfied. A foreign key naming a table outside the table set, or a
// reference cycle, yields ErrInconsistentCatalog.
func (c *Catalog) TableDAG() ([]Table, error) {
	tables := c.tables.all()

	var edges []tableEdge
	for _, fk := range c.foreignKeys.all() {
		if fk.refTable == fk.table {
			continue
		}
		edges = append(edges, tableEdge{from: fk.refTable, to: fk.table})
	}
	slices.SortFunc(edges, cmpTableEdge)
	edges = slices.Compact(edges)

	indegree := make(map[tableKey]int, len(tables))
	for _, t := range tables {
		indegree[t.key()] = 0
	}
	succs := make(map[tableKey][]tableKey, len(tables))
	for _, e := range edges {
		if _, ok := indegree[e.from]; !ok {
			return nil, fmt.Errorf("%w: foreign key references unknown table %s", ErrInconsistentCatalog, e.from)
		}
		if _, ok := indegree[e.to]; !ok {
			return nil, fmt.Errorf("%w: foreign key hosted by unknown table %s", ErrInconsistentCatalog, e.to)
		}
		succs[e.from] = append(succs[e.from], e.to)
		indegree[e.to]++
	}

	queue := make([]tableKey, 0, len(tables))
	for _, t := range tables {
		if indegree[t.key()] == 0 {
			queue = append(queue, t.key())
		}
	}

	out := make([]Table, 0, len(tables))
	for len(queue) > 0 {
		k := queue[0]
		queue = queue[1:]
		t, _ := c.tables.get(k)
		out = append(out, t)
		for _, next := range succs[k] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if len(out) != len(tables) {
		return nil, fmt.Errorf("%w: foreign key cycle among %d tables", ErrInconsistentCatalog, len(tables)-len(out))
	}
	return out, nil
}
