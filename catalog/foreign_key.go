package catalog

// ForeignKey links columns of a host table to columns of a referenced table.
// Both ends are validated to exist when the key is created; a cascaded table
// drop may later leave the referenced end dangling, in which case
// ReferencedTable reports false.
type ForeignKey interface {
	Name() string
	// Table resolves the host table.
	Table(c *Catalog) (Table, bool)
	// Columns returns the host column names.
	Columns() []string
	// ReferencedTable resolves the referenced table.
	ReferencedTable(c *Catalog) (Table, bool)
	// ReferencedColumns returns the referenced column names.
	ReferencedColumns() []string
	// OnDelete returns the referential action ("CASCADE", "SET NULL", ...)
	// or empty for the default.
	OnDelete() string
	OnUpdate() string
	// SelfReferential reports whether host and referenced table are the
	// same.
	SelfReferential() bool
}

type foreignKey struct {
	name       string
	table      tableKey
	columns    []string
	refTable   tableKey
	refColumns []string
	onDelete   string
	onUpdate   string
}

func (fk *foreignKey) key() memberKey { return memberKey{table: fk.table, name: fk.name} }

func (fk *foreignKey) Name() string                { return fk.name }
func (fk *foreignKey) Columns() []string           { return fk.columns }
func (fk *foreignKey) ReferencedColumns() []string { return fk.refColumns }
func (fk *foreignKey) OnDelete() string            { return fk.onDelete }
func (fk *foreignKey) OnUpdate() string            { return fk.onUpdate }
func (fk *foreignKey) SelfReferential() bool       { return fk.table == fk.refTable }

func (fk *foreignKey) Table(c *Catalog) (Table, bool) {
	t, ok := c.tables.get(fk.table)
	if !ok {
		return nil, false
	}
	return t, true
}

func (fk *foreignKey) ReferencedTable(c *Catalog) (Table, bool) {
	t, ok := c.tables.get(fk.refTable)
	if !ok {
		return nil, false
	}
	return t, true
}
