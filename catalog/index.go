package catalog

// Index is a non-unique index over a table's columns.
type Index interface {
	Name() string
	Schema() string
	// Expression is the defining column list in parentheses, for example
	// "(email, active)".
	Expression() string
	// Columns returns the indexed column names in index order.
	Columns() []string
	// Table resolves the owning table.
	Table(c *Catalog) (Table, bool)
}

// UniqueIndex is an index whose key is unique across rows. Primary keys are
// represented as a unique index plus the owning table's primary key column
// list.
type UniqueIndex interface {
	Index
	// IsPrimaryKey reports whether this index backs the owning table's
	// primary key.
	IsPrimaryKey(c *Catalog) bool
}

type index struct {
	schema  string
	name    string
	table   tableKey
	columns []string
	unique  bool
}

func (ix *index) key() indexKey { return indexKey{schema: ix.schema, name: ix.name} }

func (ix *index) Name() string       { return ix.name }
func (ix *index) Schema() string     { return ix.schema }
func (ix *index) Columns() []string  { return ix.columns }
func (ix *index) Expression() string { return "(" + joinColumns(ix.columns) + ")" }

func (ix *index) Table(c *Catalog) (Table, bool) {
	t, ok := c.tables.get(ix.table)
	if !ok {
		return nil, false
	}
	return t, true
}

func (ix *index) IsPrimaryKey(c *Catalog) bool {
	t, ok := c.tables.get(ix.table)
	if !ok || len(t.pkCols) == 0 || len(t.pkCols) != len(ix.columns) {
		return false
	}
	for i, col := range ix.columns {
		if t.pkCols[i] != col {
			return false
		}
	}
	return true
}
