package catalog

import (
	"slices"
	"strings"
)

// collection stores one entity kind. While staging it appends and removes
// freely and looks up by linear scan; freeze sorts it stably by canonical
// key and switches lookups to binary search. Grant collections freeze
// without sorting because their insertion order is meaningful.
type collection[T any, K any] struct {
	items  []T
	key    func(T) K
	cmp    func(K, K) int
	frozen bool
	sorted bool
}

func newCollection[T any, K any](key func(T) K, cmp func(K, K) int) *collection[T, K] {
	return &collection[T, K]{key: key, cmp: cmp}
}

func (c *collection[T, K]) add(item T) {
	c.items = append(c.items, item)
}

func (c *collection[T, K]) len() int {
	return len(c.items)
}

func (c *collection[T, K]) all() []T {
	return c.items
}

// get returns the first item with key k.
func (c *collection[T, K]) get(k K) (T, bool) {
	if c.sorted {
		i, ok := slices.BinarySearchFunc(c.items, k, func(item T, k K) int {
			return c.cmp(c.key(item), k)
		})
		if ok {
			return c.items[i], true
		}
		var zero T
		return zero, false
	}
	for _, item := range c.items {
		if c.cmp(c.key(item), k) == 0 {
			return item, true
		}
	}
	var zero T
	return zero, false
}

func (c *collection[T, K]) has(k K) bool {
	_, ok := c.get(k)
	return ok
}

// where returns every item satisfying pred, in collection order.
func (c *collection[T, K]) where(pred func(T) bool) []T {
	var out []T
	for _, item := range c.items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func (c *collection[T, K]) any(pred func(T) bool) bool {
	for _, item := range c.items {
		if pred(item) {
			return true
		}
	}
	return false
}

// removeWhere deletes every item satisfying pred and reports how many went.
func (c *collection[T, K]) removeWhere(pred func(T) bool) int {
	kept := c.items[:0]
	removed := 0
	for _, item := range c.items {
		if pred(item) {
			removed++
			continue
		}
		kept = append(kept, item)
	}
	c.items = kept
	return removed
}

// freeze sorts by canonical key and marks the collection immutable. sort is
// false for insertion-ordered collections.
func (c *collection[T, K]) freeze(sort bool) {
	if sort {
		slices.SortStableFunc(c.items, func(a, b T) int {
			return c.cmp(c.key(a), c.key(b))
		})
		c.sorted = true
	}
	c.frozen = true
}

// tableKey identifies a table by schema and name. Unqualified names
// normalize to schema "public" before a key is formed.
type tableKey struct {
	schema string
	name   string
}

func (k tableKey) String() string {
	return k.schema + "." + k.name
}

func cmpTableKey(a, b tableKey) int {
	if c := strings.Compare(a.schema, b.schema); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

// memberKey identifies an entity that belongs to a table: an index, foreign
// key, check constraint, trigger or policy.
type memberKey struct {
	table tableKey
	name  string
}

func (k memberKey) String() string {
	return k.name + " on " + k.table.String()
}

// cmpMemberByTable orders by owning table first, then name. Used for foreign
// keys and check constraints.
func cmpMemberByTable(a, b memberKey) int {
	if c := cmpTableKey(a.table, b.table); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

// cmpMemberByName orders by name first, then owning table. Used for triggers
// and policies, whose canonical ordering is by name.
func cmpMemberByName(a, b memberKey) int {
	if c := strings.Compare(a.name, b.name); c != 0 {
		return c
	}
	return cmpTableKey(a.table, b.table)
}

// indexKey identifies an index by schema and name; index names share the
// schema namespace rather than the table namespace.
type indexKey struct {
	schema string
	name   string
}

func cmpIndexKey(a, b indexKey) int {
	if c := strings.Compare(a.schema, b.schema); c != 0 {
		return c
	}
	return strings.Compare(a.name, b.name)
}

// funcKey identifies a function by name and normalized argument signature,
// so overloads coexist.
type funcKey struct {
	name string
	args string
}

func cmpFuncKey(a, b funcKey) int {
	if c := strings.Compare(a.name, b.name); c != 0 {
		return c
	}
	return strings.Compare(a.args, b.args)
}
