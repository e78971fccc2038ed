package catalog

import "slices"

// Grant object kinds.
const (
	GrantOnTables         = "TABLE"
	GrantOnSchemas        = "SCHEMA"
	GrantOnTablesInSchema = "ALL TABLES IN SCHEMA"
)

// Grant is one recorded GRANT statement. A single record serves both the
// table-grant and the column-grant view: records whose privileges carry
// column lists appear as column grants too.
type Grant interface {
	// ObjectType is one of the GrantOn constants.
	ObjectType() string
	// ObjectNames renders the granted objects: qualified table names for
	// table grants, schema names otherwise.
	ObjectNames() []string
	// Tables resolves the granted tables. Empty for schema-object grants.
	Tables(c *Catalog) []Table
	// Privileges returns the granted privileges. Empty when AllPrivileges.
	Privileges() []GrantPrivilege
	// AllPrivileges reports a GRANT ALL.
	AllPrivileges() bool
	// Grantees lists the receiving role names, "public" for everyone.
	Grantees() []string
	WithGrantOption() bool
	// GrantedBy is the granting role when the statement named one.
	GrantedBy() string
	// ColumnScoped reports whether any privilege is restricted to columns.
	ColumnScoped() bool
}

// GrantPrivilege is one privilege inside a grant, optionally restricted to
// columns.
type GrantPrivilege struct {
	Name    string
	Columns []string
}

type grantRecord struct {
	objectType string
	tables     []tableKey
	schemas    []string
	privileges []GrantPrivilege
	allPrivs   bool
	grantees   []string
	grantOpt   bool
	grantedBy  string
}

func (g *grantRecord) ObjectType() string           { return g.objectType }
func (g *grantRecord) Privileges() []GrantPrivilege { return g.privileges }
func (g *grantRecord) AllPrivileges() bool          { return g.allPrivs }
func (g *grantRecord) Grantees() []string           { return g.grantees }
func (g *grantRecord) WithGrantOption() bool        { return g.grantOpt }
func (g *grantRecord) GrantedBy() string            { return g.grantedBy }

func (g *grantRecord) ObjectNames() []string {
	if g.objectType == GrantOnTables {
		out := make([]string, len(g.tables))
		for i, k := range g.tables {
			out[i] = k.String()
		}
		return out
	}
	return g.schemas
}

func (g *grantRecord) Tables(c *Catalog) []Table {
	var out []Table
	for _, k := range g.tables {
		if t, ok := c.tables.get(k); ok {
			out = append(out, t)
		}
	}
	return out
}

func (g *grantRecord) ColumnScoped() bool {
	for _, p := range g.privileges {
		if len(p.Columns) > 0 {
			return true
		}
	}
	return false
}

func (g *grantRecord) hasGrantee(name string) bool {
	return slices.Contains(g.grantees, name)
}

// privilegeNames returns the privilege name set, nil for ALL.
func (g *grantRecord) privilegeNames() []string {
	if g.allPrivs {
		return nil
	}
	out := make([]string, len(g.privileges))
	for i, p := range g.privileges {
		out[i] = p.Name
	}
	return out
}

// removeTable drops one table from the record's object list and reports
// whether any objects remain.
func (g *grantRecord) removeTable(k tableKey) (remaining bool) {
	g.tables = slices.DeleteFunc(g.tables, func(t tableKey) bool { return t == k })
	return len(g.tables) > 0 || len(g.schemas) > 0
}

// removeSchema drops one schema name from the record's object list and
// reports whether any objects remain.
func (g *grantRecord) removeSchema(name string) (remaining bool) {
	g.schemas = slices.DeleteFunc(g.schemas, func(s string) bool { return s == name })
	return len(g.tables) > 0 || len(g.schemas) > 0
}
