// Package export builds a serializable snapshot of a frozen catalog.
package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
)

// Model is the snapshot document. Field order matches the emitted YAML.
type Model struct {
	Name      string     `yaml:"name"`
	TimeZone  string     `yaml:"time_zone,omitempty"`
	Schemas   []Schema   `yaml:"schemas,omitempty"`
	Roles     []Role     `yaml:"roles,omitempty"`
	Functions []Function `yaml:"functions,omitempty"`
	Tables    []Table    `yaml:"tables,omitempty"`
	Grants    []Grant    `yaml:"grants,omitempty"`
}

type Schema struct {
	Name          string `yaml:"name"`
	Authorization string `yaml:"authorization,omitempty"`
}

type Role struct {
	Name        string   `yaml:"name"`
	Login       bool     `yaml:"login,omitempty"`
	Superuser   bool     `yaml:"superuser,omitempty"`
	CreateDB    bool     `yaml:"createdb,omitempty"`
	CreateRole  bool     `yaml:"createrole,omitempty"`
	Replication bool     `yaml:"replication,omitempty"`
	BypassRLS   bool     `yaml:"bypassrls,omitempty"`
	NoInherit   bool     `yaml:"no_inherit,omitempty"`
	ConnLimit   *int     `yaml:"conn_limit,omitempty"`
	MemberOf    []string `yaml:"member_of,omitempty"`
}

type Function struct {
	Name     string   `yaml:"name"`
	Args     []string `yaml:"args,omitempty"`
	Returns  string   `yaml:"returns,omitempty"`
	Language string   `yaml:"language,omitempty"`
	Body     string   `yaml:"body,omitempty"`
}

type Table struct {
	Schema      string       `yaml:"schema"`
	Name        string       `yaml:"name"`
	Doc         string       `yaml:"doc,omitempty"`
	RLSEnabled  bool         `yaml:"rls_enabled,omitempty"`
	RLSForced   bool         `yaml:"rls_forced,omitempty"`
	Columns     []Column     `yaml:"columns"`
	PrimaryKey  []string     `yaml:"primary_key,omitempty"`
	Indexes     []Index      `yaml:"indexes,omitempty"`
	ForeignKeys []ForeignKey `yaml:"foreign_keys,omitempty"`
	Checks      []Check      `yaml:"checks,omitempty"`
	Triggers    []Trigger    `yaml:"triggers,omitempty"`
	Policies    []Policy     `yaml:"policies,omitempty"`
}

type Column struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Nullable  bool   `yaml:"nullable"`
	Generated bool   `yaml:"generated,omitempty"`
	Default   string `yaml:"default,omitempty"`
}

type Index struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns"`
	Unique  bool     `yaml:"unique,omitempty"`
	Primary bool     `yaml:"primary,omitempty"`
}

type ForeignKey struct {
	Name       string   `yaml:"name"`
	Columns    []string `yaml:"columns"`
	References string   `yaml:"references"`
	RefColumns []string `yaml:"referenced_columns"`
	OnDelete   string   `yaml:"on_delete,omitempty"`
	OnUpdate   string   `yaml:"on_update,omitempty"`
}

type Check struct {
	Name              string   `yaml:"name"`
	Expression        string   `yaml:"expression"`
	Columns           []string `yaml:"columns,omitempty"`
	Tautology         bool     `yaml:"tautology,omitempty"`
	Negation          bool     `yaml:"negation,omitempty"`
	MutualNullability []string `yaml:"mutual_nullability,omitempty"`
}

type Trigger struct {
	Name        string       `yaml:"name"`
	Timing      string       `yaml:"timing"`
	Events      []string     `yaml:"events"`
	ForEach     string       `yaml:"for_each"`
	When        string       `yaml:"when,omitempty"`
	Function    string       `yaml:"function"`
	Maintenance []Assignment `yaml:"maintenance,omitempty"`
}

// Assignment is one NEW.column update performed by a maintenance trigger.
type Assignment struct {
	Column     string `yaml:"column"`
	Expression string `yaml:"expression"`
}

type Policy struct {
	Name       string   `yaml:"name"`
	Command    string   `yaml:"command"`
	Permissive bool     `yaml:"permissive"`
	Roles      []string `yaml:"roles,omitempty"`
	Using      string   `yaml:"using,omitempty"`
	WithCheck  string   `yaml:"with_check,omitempty"`
}

type Grant struct {
	ObjectType      string      `yaml:"object_type"`
	Objects         []string    `yaml:"objects"`
	Privileges      []Privilege `yaml:"privileges,omitempty"`
	AllPrivileges   bool        `yaml:"all_privileges,omitempty"`
	Grantees        []string    `yaml:"grantees"`
	WithGrantOption bool        `yaml:"with_grant_option,omitempty"`
	GrantedBy       string      `yaml:"granted_by,omitempty"`
}

type Privilege struct {
	Name    string   `yaml:"name"`
	Columns []string `yaml:"columns,omitempty"`
}

// Snapshot walks the whole catalog into a Model. Collections keep catalog
// order; grants keep recorded order. Built-in functions are ambient and stay
// out of the snapshot.
func Snapshot(c *catalog.Catalog) Model {
	m := Model{Name: c.Name()}

	if zone, local := c.TimeZone(); local {
		m.TimeZone = "LOCAL"
	} else {
		m.TimeZone = zone
	}

	for _, s := range c.Schemas() {
		m.Schemas = append(m.Schemas, Schema{Name: s.Name(), Authorization: s.Authorization()})
	}
	for _, r := range c.Roles() {
		m.Roles = append(m.Roles, snapshotRole(r))
	}
	for _, f := range c.Functions() {
		if f.Builtin() {
			continue
		}
		args := f.Args()
		if len(args) == 0 {
			args = nil
		}
		m.Functions = append(m.Functions, Function{
			Name:     f.Name(),
			Args:     args,
			Returns:  f.Returns(),
			Language: f.Language(),
			Body:     f.Body(),
		})
	}
	for _, t := range c.Tables() {
		m.Tables = append(m.Tables, snapshotTable(c, t))
	}
	for _, g := range c.TableGrants() {
		m.Grants = append(m.Grants, snapshotGrant(g))
	}
	return m
}

func snapshotRole(r catalog.Role) Role {
	out := Role{
		Name:        r.Name(),
		Login:       r.Login(),
		Superuser:   r.Superuser(),
		CreateDB:    r.CreateDB(),
		CreateRole:  r.CreateRole(),
		Replication: r.Replication(),
		BypassRLS:   r.BypassRLS(),
		NoInherit:   !r.Inherit(),
		MemberOf:    r.MemberOf(),
	}
	if cl := r.ConnLimit(); cl >= 0 {
		out.ConnLimit = &cl
	}
	return out
}

func snapshotTable(c *catalog.Catalog, t catalog.Table) Table {
	out := Table{
		Schema:     t.Schema(),
		Name:       t.Name(),
		Doc:        t.Doc(),
		RLSEnabled: t.RLSEnabled(),
		RLSForced:  t.RLSForced(),
		PrimaryKey: t.PrimaryKey(),
	}
	for _, col := range t.Columns() {
		out.Columns = append(out.Columns, Column{
			Name:      col.Name(),
			Type:      col.Type(),
			Nullable:  col.Nullable(),
			Generated: col.Generated(),
			Default:   col.Default(),
		})
	}
	for _, ix := range t.UniqueIndexes(c) {
		out.Indexes = append(out.Indexes, Index{
			Name:    ix.Name(),
			Columns: ix.Columns(),
			Unique:  true,
			Primary: ix.IsPrimaryKey(c),
		})
	}
	for _, ix := range t.Indexes(c) {
		out.Indexes = append(out.Indexes, Index{Name: ix.Name(), Columns: ix.Columns()})
	}
	for _, fk := range t.ForeignKeys(c) {
		ref := ""
		if rt, ok := fk.ReferencedTable(c); ok {
			ref = rt.QualifiedName()
		}
		out.ForeignKeys = append(out.ForeignKeys, ForeignKey{
			Name:       fk.Name(),
			Columns:    fk.Columns(),
			References: ref,
			RefColumns: fk.ReferencedColumns(),
			OnDelete:   fk.OnDelete(),
			OnUpdate:   fk.OnUpdate(),
		})
	}
	for _, cc := range t.CheckConstraints(c) {
		out.Checks = append(out.Checks, snapshotCheck(c, cc))
	}
	for _, tr := range t.Triggers(c) {
		out.Triggers = append(out.Triggers, snapshotTrigger(c, tr))
	}
	for _, p := range t.Policies(c) {
		out.Policies = append(out.Policies, snapshotPolicy(p))
	}
	return out
}

func snapshotCheck(c *catalog.Catalog, cc catalog.CheckConstraint) Check {
	out := Check{
		Name:       cc.Name(),
		Expression: cc.Expression(),
		Columns:    cc.ColumnNames(),
		Tautology:  cc.IsTautology(c),
		Negation:   cc.IsNegation(c),
	}
	if group, ok := cc.MutualNullability(c); ok {
		for _, col := range group {
			out.MutualNullability = append(out.MutualNullability, col.Name())
		}
	}
	return out
}

func snapshotTrigger(c *catalog.Catalog, tr catalog.Trigger) Trigger {
	out := Trigger{
		Name:     tr.Name(),
		Timing:   tr.Timing(),
		Events:   tr.Events(),
		ForEach:  tr.Orientation(),
		Function: tr.FunctionName(),
	}
	if w := tr.When(); w != nil {
		out.When = w.String()
	}
	if assigns, ok := tr.MaintenanceAssignments(c); ok {
		for _, a := range assigns {
			out.Maintenance = append(out.Maintenance, Assignment{
				Column:     a.Column.Name(),
				Expression: a.Expr.String(),
			})
		}
	}
	return out
}

func snapshotPolicy(p catalog.Policy) Policy {
	out := Policy{
		Name:       p.Name(),
		Command:    p.Command(),
		Permissive: p.Permissive(),
		Roles:      p.RoleNames(),
	}
	if u := p.Using(); u != nil {
		out.Using = u.String()
	}
	if w := p.WithCheck(); w != nil {
		out.WithCheck = w.String()
	}
	return out
}

func snapshotGrant(g catalog.Grant) Grant {
	out := Grant{
		ObjectType:      g.ObjectType(),
		Objects:         g.ObjectNames(),
		AllPrivileges:   g.AllPrivileges(),
		Grantees:        g.Grantees(),
		WithGrantOption: g.WithGrantOption(),
		GrantedBy:       g.GrantedBy(),
	}
	for _, p := range g.Privileges() {
		out.Privileges = append(out.Privileges, Privilege{Name: p.Name, Columns: p.Columns})
	}
	return out
}

// EncodeYAML writes the snapshot as YAML with two-space indentation.
func EncodeYAML(w io.Writer, m Model) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		enc.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
