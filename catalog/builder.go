package catalog

import (
	"fmt"
	"slices"
	"strings"
)

// Builder is the mutable staging form of a Catalog. Statements are applied
// with Process; Freeze sorts every collection and hands the storage over to
// the frozen Catalog. A Builder must not be used after Freeze.
type Builder struct {
	c      *Catalog
	frozen bool
}

// NewBuilder returns a builder seeded with the built-in functions and the
// implicit "public" schema.
func NewBuilder(name string) *Builder {
	b := &Builder{c: newCatalog(name)}
	for _, f := range builtinFunctions() {
		b.c.functions.add(f)
	}
	b.c.schemas.add(&schemaEntry{name: "public"})
	return b
}

// Freeze sorts every collection by its canonical key, leaves grants in
// recorded order, and returns the now-immutable catalog.
func (b *Builder) Freeze() *Catalog {
	b.frozen = true
	c := b.c
	c.tables.freeze(true)
	c.indexes.freeze(true)
	c.uniqueIndexes.freeze(true)
	c.foreignKeys.freeze(true)
	c.checks.freeze(true)
	c.functions.freeze(true)
	c.triggers.freeze(true)
	c.policies.freeze(true)
	c.roles.freeze(true)
	c.schemas.freeze(true)
	b.c = nil
	return c
}

// Catalog exposes the staging catalog for read access during construction.
func (b *Builder) Catalog() *Catalog {
	return b.c
}

// setDoc attaches documentation text to a table if it exists. Unknown keys
// are ignored; documentation may cover statements that never made it into
// the catalog.
func (b *Builder) setDoc(schema, name, doc string) {
	if t, ok := b.c.tables.get(normalizeTableKey(schema, name)); ok {
		t.doc = doc
	}
}

// roleExists treats the "public" pseudo-role as always present.
func (b *Builder) roleExists(name string) bool {
	if name == publicGrantee {
		return true
	}
	return b.c.roles.has(name)
}

// tablesReferencing returns the foreign keys of other tables that point at
// the given table. Self-references do not count.
func (b *Builder) tablesReferencing(k tableKey) []*foreignKey {
	return b.c.foreignKeys.where(func(fk *foreignKey) bool {
		return fk.refTable == k && fk.table != k
	})
}

// functionInUse reports whether any check constraint, policy predicate or
// trigger references a function with this name, and by what.
func (b *Builder) functionInUse(name string) (string, bool) {
	for _, cc := range b.c.checks.all() {
		for _, fn := range cc.fnNames {
			if fn == name {
				return fmt.Sprintf("check constraint %s", cc.key()), true
			}
		}
	}
	for _, p := range b.c.policies.all() {
		for _, fn := range p.fnNames {
			if fn == name {
				return fmt.Sprintf("policy %s", p.key()), true
			}
		}
	}
	for _, tr := range b.c.triggers.all() {
		if tr.function == name {
			return fmt.Sprintf("trigger %s", tr.key()), true
		}
	}
	return "", false
}

// roleInUse reports whether the role still appears as a grantee in any
// recorded grant. Policies naming the role do not block its removal.
func (b *Builder) roleInUse(name string) (string, bool) {
	for _, g := range b.c.tableGrants {
		if g.hasGrantee(name) {
			return fmt.Sprintf("a grant on %s", strings.Join(g.ObjectNames(), ", ")), true
		}
	}
	return "", false
}

// dropTableInternals removes everything owned by a table: columns go with
// the entity itself, and indexes, foreign keys, checks, triggers, policies
// and grant references are cascaded here regardless of the CASCADE keyword.
func (b *Builder) dropTableInternals(k tableKey) {
	c := b.c
	c.indexes.removeWhere(func(ix *index) bool { return ix.table == k })
	c.uniqueIndexes.removeWhere(func(ix *index) bool { return ix.table == k })
	c.foreignKeys.removeWhere(func(fk *foreignKey) bool { return fk.table == k })
	c.checks.removeWhere(func(cc *checkConstraint) bool { return cc.table == k })
	c.triggers.removeWhere(func(tr *trigger) bool { return tr.table == k })
	c.policies.removeWhere(func(p *policy) bool { return p.table == k })
	b.removeGrantRecords(func(g *grantRecord) bool {
		return g.objectType == GrantOnTables && !g.removeTable(k)
	})
}

// removeGrantRecords deletes records satisfying pred from both grant views.
// The pred may mutate the record (shrinking its object list) before
// deciding. Both views hold the same record pointers, so the column view is
// rebuilt from what survives in the table view.
func (b *Builder) removeGrantRecords(pred func(*grantRecord) bool) int {
	removed := 0
	kept := b.c.tableGrants[:0]
	for _, g := range b.c.tableGrants {
		if pred(g) {
			removed++
			continue
		}
		kept = append(kept, g)
	}
	b.c.tableGrants = kept

	keptCols := b.c.columnGrants[:0]
	for _, g := range b.c.columnGrants {
		if slices.Contains(kept, g) {
			keptCols = append(keptCols, g)
		}
	}
	b.c.columnGrants = keptCols
	return removed
}
