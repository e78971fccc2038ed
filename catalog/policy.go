package catalog

import "github.com/earth-metabolome-initiative/schemacat/sqlparser"

// Policy is a row level security policy on one table.
type Policy interface {
	Name() string
	// Table resolves the table the policy applies to.
	Table(c *Catalog) (Table, bool)
	// Permissive reports whether the policy is permissive (the default) as
	// opposed to restrictive.
	Permissive() bool
	// Command is the statement kind the policy covers: "ALL", "SELECT",
	// "INSERT", "UPDATE" or "DELETE".
	Command() string
	// RoleNames lists the roles the policy applies to, "public" meaning
	// everyone. Empty means public as well.
	RoleNames() []string
	// Roles resolves the named roles; "public" has no role entity and is
	// skipped.
	Roles(c *Catalog) []Role
	// Using is the visibility predicate, nil when absent.
	Using() sqlparser.Expr
	// WithCheck is the write predicate, nil when absent.
	WithCheck() sqlparser.Expr
	// Functions resolves the functions referenced by either predicate, in
	// first reference order.
	Functions(c *Catalog) []Function
	// FunctionNames returns those function names without resolving.
	FunctionNames() []string
}

type policy struct {
	name       string
	table      tableKey
	permissive bool
	command    string
	roles      []string
	using      sqlparser.Expr
	withCheck  sqlparser.Expr
	fnNames    []string
}

func (p *policy) key() memberKey { return memberKey{table: p.table, name: p.name} }

func (p *policy) Name() string              { return p.name }
func (p *policy) Permissive() bool          { return p.permissive }
func (p *policy) Command() string           { return p.command }
func (p *policy) RoleNames() []string       { return p.roles }
func (p *policy) Using() sqlparser.Expr     { return p.using }
func (p *policy) WithCheck() sqlparser.Expr { return p.withCheck }
func (p *policy) FunctionNames() []string   { return p.fnNames }

func (p *policy) Table(c *Catalog) (Table, bool) {
	t, ok := c.tables.get(p.table)
	if !ok {
		return nil, false
	}
	return t, true
}

func (p *policy) Roles(c *Catalog) []Role {
	var out []Role
	for _, name := range p.roles {
		if name == publicGrantee {
			continue
		}
		if r, ok := c.Role(name); ok {
			out = append(out, r)
		}
	}
	return out
}

func (p *policy) Functions(c *Catalog) []Function {
	var out []Function
	for _, name := range p.fnNames {
		if fn, ok := c.Function(name); ok {
			out = append(out, fn)
		}
	}
	return out
}
