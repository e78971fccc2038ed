package catalog

import "strings"

// Catalog is the queryable model of a schema. Values handed out by Build
// are frozen: every collection is sorted by its canonical key, lookups are
// binary searches, and nothing mutates, so a Catalog may be shared across
// goroutines freely. Grants are the one exception to sorting; they stay in
// recorded order because that order is meaningful for audit output.
type Catalog struct {
	name     string
	timeZone string
	tzLocal  bool

	tables        *collection[*table, tableKey]
	indexes       *collection[*index, indexKey]
	uniqueIndexes *collection[*index, indexKey]
	foreignKeys   *collection[*foreignKey, memberKey]
	checks        *collection[*checkConstraint, memberKey]
	functions     *collection[*function, funcKey]
	triggers      *collection[*trigger, memberKey]
	policies      *collection[*policy, memberKey]
	roles         *collection[*role, string]
	schemas       *collection[*schemaEntry, string]

	tableGrants  []*grantRecord
	columnGrants []*grantRecord
}

func newCatalog(name string) *Catalog {
	return &Catalog{
		name:          name,
		tables:        newCollection(func(t *table) tableKey { return t.key() }, cmpTableKey),
		indexes:       newCollection(func(ix *index) indexKey { return ix.key() }, cmpIndexKey),
		uniqueIndexes: newCollection(func(ix *index) indexKey { return ix.key() }, cmpIndexKey),
		foreignKeys:   newCollection(func(fk *foreignKey) memberKey { return fk.key() }, cmpMemberByTable),
		checks:        newCollection(func(cc *checkConstraint) memberKey { return cc.key() }, cmpMemberByTable),
		functions:     newCollection(func(f *function) funcKey { return f.key() }, cmpFuncKey),
		triggers:      newCollection(func(tr *trigger) memberKey { return tr.key() }, cmpMemberByName),
		policies:      newCollection(func(p *policy) memberKey { return p.key() }, cmpMemberByName),
		roles:         newCollection(func(r *role) string { return r.name }, strings.Compare),
		schemas:       newCollection(func(s *schemaEntry) string { return s.name }, strings.Compare),
	}
}

// Name returns the catalog name given to Build.
func (c *Catalog) Name() string { return c.name }

// TimeZone returns the zone recorded by SET TIME ZONE and whether the zone
// was the LOCAL sentinel rather than a named zone.
func (c *Catalog) TimeZone() (zone string, local bool) {
	return c.timeZone, c.tzLocal
}

// Tables returns every table in schema, name order.
func (c *Catalog) Tables() []Table {
	rows := c.tables.all()
	out := make([]Table, len(rows))
	for i, t := range rows {
		out[i] = t
	}
	return out
}

// Table looks a table up by schema and name. An empty schema means
// "public".
func (c *Catalog) Table(schema, name string) (Table, bool) {
	t, ok := c.tables.get(normalizeTableKey(schema, name))
	if !ok {
		return nil, false
	}
	return t, true
}

// TableNamed finds the first table with the given bare name in any schema.
func (c *Catalog) TableNamed(name string) (Table, bool) {
	for _, t := range c.tables.all() {
		if t.name == name {
			return t, true
		}
	}
	return nil, false
}

// Indexes returns the non-unique indexes in schema, name order.
func (c *Catalog) Indexes() []Index {
	rows := c.indexes.all()
	out := make([]Index, len(rows))
	for i, ix := range rows {
		out[i] = ix
	}
	return out
}

// UniqueIndexes returns the unique indexes, primary key indexes included.
func (c *Catalog) UniqueIndexes() []UniqueIndex {
	rows := c.uniqueIndexes.all()
	out := make([]UniqueIndex, len(rows))
	for i, ix := range rows {
		out[i] = ix
	}
	return out
}

// ForeignKeys returns every foreign key in host table, name order.
func (c *Catalog) ForeignKeys() []ForeignKey {
	rows := c.foreignKeys.all()
	out := make([]ForeignKey, len(rows))
	for i, fk := range rows {
		out[i] = fk
	}
	return out
}

// CheckConstraints returns every check constraint in owning table, name
// order.
func (c *Catalog) CheckConstraints() []CheckConstraint {
	rows := c.checks.all()
	out := make([]CheckConstraint, len(rows))
	for i, cc := range rows {
		out[i] = cc
	}
	return out
}

// Functions returns every function, built-ins included, in name then
// argument order.
func (c *Catalog) Functions() []Function {
	rows := c.functions.all()
	out := make([]Function, len(rows))
	for i, f := range rows {
		out[i] = f
	}
	return out
}

// Function finds the first function with the given name, any argument list.
func (c *Catalog) Function(name string) (Function, bool) {
	if f := c.firstFunctionNamed(name); f != nil {
		return f, true
	}
	return nil, false
}

// FunctionExact looks up one overload by name and normalized argument types.
func (c *Catalog) FunctionExact(name string, args []string) (Function, bool) {
	f, ok := c.functions.get(funcKey{name: name, args: argSignature(args)})
	if !ok {
		return nil, false
	}
	return f, true
}

func (c *Catalog) firstFunctionNamed(name string) *function {
	for _, f := range c.functions.all() {
		if f.name == name {
			return f
		}
	}
	return nil
}

func (c *Catalog) functionsNamed(name string) []*function {
	return c.functions.where(func(f *function) bool { return f.name == name })
}

// Triggers returns every trigger in name order.
func (c *Catalog) Triggers() []Trigger {
	rows := c.triggers.all()
	out := make([]Trigger, len(rows))
	for i, tr := range rows {
		out[i] = tr
	}
	return out
}

// Policies returns every policy in name order.
func (c *Catalog) Policies() []Policy {
	rows := c.policies.all()
	out := make([]Policy, len(rows))
	for i, p := range rows {
		out[i] = p
	}
	return out
}

// Roles returns every role in name order.
func (c *Catalog) Roles() []Role {
	rows := c.roles.all()
	out := make([]Role, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}

// Role looks a role up by name.
func (c *Catalog) Role(name string) (Role, bool) {
	r, ok := c.roles.get(name)
	if !ok {
		return nil, false
	}
	return r, true
}

// Schemas returns every schema in name order, the implicit "public" schema
// included.
func (c *Catalog) Schemas() []Schema {
	rows := c.schemas.all()
	out := make([]Schema, len(rows))
	for i, s := range rows {
		out[i] = s
	}
	return out
}

// Schema looks a schema up by name.
func (c *Catalog) Schema(name string) (Schema, bool) {
	s, ok := c.schemas.get(name)
	if !ok {
		return nil, false
	}
	return s, true
}

// TableGrants returns every grant record in recorded order.
func (c *Catalog) TableGrants() []Grant {
	out := make([]Grant, len(c.tableGrants))
	for i, g := range c.tableGrants {
		out[i] = g
	}
	return out
}

// ColumnGrants returns the grant records carrying column-scoped privileges,
// in recorded order.
func (c *Catalog) ColumnGrants() []Grant {
	var out []Grant
	for _, g := range c.columnGrants {
		if g.ColumnScoped() {
			out = append(out, g)
		}
	}
	return out
}

// normalizeTableKey applies the default schema.
func normalizeTableKey(schema, name string) tableKey {
	if schema == "" {
		schema = "public"
	}
	return tableKey{schema: schema, name: name}
}
