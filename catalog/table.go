package catalog

import "strings"

// Table is a relation in the catalog. Columns are owned by the table
// directly; indexes, constraints, triggers and policies live in the
// catalog's own collections and are resolved through the catalog passed to
// the accessor.
type Table interface {
	// Name is the table name, case-folded the way the parser folds
	// identifiers.
	Name() string
	// Schema is the owning schema, never empty ("public" when the
	// statement left it unqualified).
	Schema() string
	// QualifiedName is "schema.name".
	QualifiedName() string
	// Doc is the documentation text attached to the table, if any.
	Doc() string
	// RLSEnabled reports whether row level security is enabled.
	RLSEnabled() bool
	// RLSForced reports whether row level security applies to the owner too.
	RLSForced() bool
	// Columns returns the table's columns in declaration order.
	Columns() []Column
	// Column looks up a column by name.
	Column(name string) (Column, bool)
	// PrimaryKey returns the primary key column names in key order, or nil
	// when the table has no primary key.
	PrimaryKey() []string
	// Indexes returns the table's non-unique indexes.
	Indexes(c *Catalog) []Index
	// UniqueIndexes returns the table's unique indexes, the primary key
	// index included.
	UniqueIndexes(c *Catalog) []UniqueIndex
	// ForeignKeys returns the foreign keys hosted by this table.
	ForeignKeys(c *Catalog) []ForeignKey
	// CheckConstraints returns the table's check constraints.
	CheckConstraints(c *Catalog) []CheckConstraint
	// Triggers returns the triggers attached to this table.
	Triggers(c *Catalog) []Trigger
	// Policies returns the row level security policies on this table.
	Policies(c *Catalog) []Policy
}

// Column is one column of a table.
type Column interface {
	Name() string
	// DeclaredType is the type as written in the DDL.
	DeclaredType() string
	// Type is the canonical form of the declared type, for example
	// "character varying(255)" for VARCHAR(255).
	Type() string
	// Nullable is derived: false when the column is declared NOT NULL, is
	// part of the primary key, or has a serial type.
	Nullable() bool
	// Generated reports whether the column value is computed from an
	// expression instead of stored input.
	Generated() bool
	// Default returns the default expression text, or the generation
	// expression for generated columns. Empty when the column has neither.
	Default() string
}

type table struct {
	schema     string
	name       string
	doc        string
	rlsEnabled bool
	rlsForced  bool
	columns    []*column
	pkCols     []string
	// Name mirrors of the catalog's index collections, maintained by
	// CREATE INDEX and DROP INDEX.
	indexNames       []string
	uniqueIndexNames []string
}

func (t *table) key() tableKey { return tableKey{schema: t.schema, name: t.name} }

func (t *table) Name() string          { return t.name }
func (t *table) Schema() string        { return t.schema }
func (t *table) QualifiedName() string { return t.schema + "." + t.name }
func (t *table) Doc() string           { return t.doc }
func (t *table) RLSEnabled() bool      { return t.rlsEnabled }
func (t *table) RLSForced() bool       { return t.rlsForced }

func (t *table) Columns() []Column {
	out := make([]Column, len(t.columns))
	for i, c := range t.columns {
		out[i] = c
	}
	return out
}

func (t *table) Column(name string) (Column, bool) {
	if c := t.column(name); c != nil {
		return c, true
	}
	return nil, false
}

func (t *table) column(name string) *column {
	for _, c := range t.columns {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (t *table) PrimaryKey() []string { return t.pkCols }

func (t *table) Indexes(c *Catalog) []Index {
	k := t.key()
	rows := c.indexes.where(func(ix *index) bool { return ix.table == k })
	out := make([]Index, len(rows))
	for i, ix := range rows {
		out[i] = ix
	}
	return out
}

func (t *table) UniqueIndexes(c *Catalog) []UniqueIndex {
	k := t.key()
	rows := c.uniqueIndexes.where(func(ix *index) bool { return ix.table == k })
	out := make([]UniqueIndex, len(rows))
	for i, ix := range rows {
		out[i] = ix
	}
	return out
}

func (t *table) ForeignKeys(c *Catalog) []ForeignKey {
	k := t.key()
	rows := c.foreignKeys.where(func(fk *foreignKey) bool { return fk.table == k })
	out := make([]ForeignKey, len(rows))
	for i, fk := range rows {
		out[i] = fk
	}
	return out
}

func (t *table) CheckConstraints(c *Catalog) []CheckConstraint {
	k := t.key()
	rows := c.checks.where(func(cc *checkConstraint) bool { return cc.table == k })
	out := make([]CheckConstraint, len(rows))
	for i, cc := range rows {
		out[i] = cc
	}
	return out
}

func (t *table) Triggers(c *Catalog) []Trigger {
	k := t.key()
	rows := c.triggers.where(func(tr *trigger) bool { return tr.table == k })
	out := make([]Trigger, len(rows))
	for i, tr := range rows {
		out[i] = tr
	}
	return out
}

func (t *table) Policies(c *Catalog) []Policy {
	k := t.key()
	rows := c.policies.where(func(p *policy) bool { return p.table == k })
	out := make([]Policy, len(rows))
	for i, p := range rows {
		out[i] = p
	}
	return out
}

type column struct {
	name         string
	declaredType string
	dataType     string
	notNull      bool
	pkMember     bool
	serial       bool
	generated    bool
	defaultExpr  string
}

func (c *column) Name() string         { return c.name }
func (c *column) DeclaredType() string { return c.declaredType }
func (c *column) Type() string         { return c.dataType }
func (c *column) Nullable() bool       { return !c.notNull && !c.pkMember && !c.serial }
func (c *column) Generated() bool      { return c.generated }
func (c *column) Default() string      { return c.defaultExpr }

// joinColumns renders a column list the way index expressions and generated
// names want it.
func joinColumns(cols []string) string {
	return strings.Join(cols, ", ")
}
