package sqlparser

// Statement is the root interface for all parsed SQL statements.
type Statement interface {
	stmtNode()
}

// QualifiedName is a possibly schema-qualified object name. Schema is empty
// when the source did not qualify the name.
type QualifiedName struct {
	Schema string
	Name   string
}

func (q QualifiedName) String() string {
	if q.Schema == "" {
		return q.Name
	}
	return q.Schema + "." + q.Name
}

// ----- CREATE TABLE -----

// ColumnOption is a constraint or modifier attached to a single column
// definition (NOT NULL, DEFAULT, REFERENCES, ...).
type ColumnOption interface {
	colOptNode()
}

type NotNullOption struct{}

type NullOption struct{}

type PrimaryKeyOption struct{}

type UniqueOption struct{}

type DefaultOption struct {
	Expr Expr
}

// GeneratedOption is GENERATED ALWAYS AS (expr) STORED.
type GeneratedOption struct {
	Expr Expr
}

type CheckOption struct {
	Name string // optional CONSTRAINT name
	Expr Expr
}

type ReferencesOption struct {
	RefSchema  string
	RefTable   string
	RefColumns []string // empty: referenced table's primary key
	OnDelete   string
	OnUpdate   string
}

func (*NotNullOption) colOptNode()    {}
func (*NullOption) colOptNode()       {}
func (*PrimaryKeyOption) colOptNode() {}
func (*UniqueOption) colOptNode()     {}
func (*DefaultOption) colOptNode()    {}
func (*GeneratedOption) colOptNode()  {}
func (*CheckOption) colOptNode()      {}
func (*ReferencesOption) colOptNode() {}

// TableConstraint is a table-level constraint in a CREATE TABLE body.
type TableConstraint interface {
	tableConstraintNode()
}

type PrimaryKeyConstraint struct {
	Name    string
	Columns []string
}

type UniqueConstraint struct {
	Name    string
	Columns []string
}

type CheckConstraint struct {
	Name string
	Expr Expr
}

type ForeignKeyConstraint struct {
	Name       string
	Columns    []string
	RefSchema  string
	RefTable   string
	RefColumns []string
	OnDelete   string
	OnUpdate   string
}

func (*PrimaryKeyConstraint) tableConstraintNode() {}
func (*UniqueConstraint) tableConstraintNode()     {}
func (*CheckConstraint) tableConstraintNode()      {}
func (*ForeignKeyConstraint) tableConstraintNode() {}

type ColumnDef struct {
	Name    string
	Type    string
	Options []ColumnOption
}

type CreateTableStmt struct {
	Schema      string
	Name        string
	IfNotExists bool
	Columns     []ColumnDef
	Constraints []TableConstraint
}

func (*CreateTableStmt) stmtNode() {}

// ----- DROP TABLE -----

type DropTableStmt struct {
	Tables   []QualifiedName
	IfExists bool
	Cascade  bool
}

func (*DropTableStmt) stmtNode() {}

// ----- CREATE INDEX / DROP INDEX -----

type CreateIndexStmt struct {
	Name        string // empty: derive from table and columns
	Unique      bool
	IfNotExists bool
	Schema      string
	Table       string
	Columns     []string
}

func (*CreateIndexStmt) stmtNode() {}

type DropIndexStmt struct {
	Names    []string
	IfExists bool
	Cascade  bool
}

func (*DropIndexStmt) stmtNode() {}

// ----- ALTER TABLE -----

// AlterTableAction enumerates the table alterations this model cares about.
// Everything else parses to AlterOther and is a processor no-op.
type AlterTableAction int

const (
	AlterEnableRLS AlterTableAction = iota
	AlterDisableRLS
	AlterForceRLS
	AlterNoForceRLS
	AlterOther
)

type AlterTableStmt struct {
	Schema   string
	Table    string
	IfExists bool
	Action   AlterTableAction
	Text     string // raw action text for AlterOther
}

func (*AlterTableStmt) stmtNode() {}

// ----- CREATE FUNCTION / DROP FUNCTION -----

type FunctionArg struct {
	Name string // optional
	Type string
}

type CreateFunctionStmt struct {
	Schema    string
	Name      string
	OrReplace bool
	Args      []FunctionArg
	Returns   string
	Language  string
	Body      string
}

func (*CreateFunctionStmt) stmtNode() {}

type DropFunctionStmt struct {
	Name          string
	Args          []string
	ArgsSpecified bool // distinguishes f() from a bare f
	IfExists      bool
	Cascade       bool
}

func (*DropFunctionStmt) stmtNode() {}

// ----- CREATE TRIGGER / DROP TRIGGER -----

type CreateTriggerStmt struct {
	Name         string
	Timing       string // BEFORE, AFTER, INSTEAD OF
	Events       []string
	Schema       string
	Table        string
	ForEach      string // ROW or STATEMENT
	When         Expr   // optional
	Function     string
	FunctionArgs []string
}

func (*CreateTriggerStmt) stmtNode() {}

type DropTriggerStmt struct {
	Name     string
	Schema   string
	Table    string
	IfExists bool
}

func (*DropTriggerStmt) stmtNode() {}

// ----- CREATE POLICY / DROP POLICY -----

type CreatePolicyStmt struct {
	Name       string
	Schema     string
	Table      string
	Permissive bool
	Command    string // ALL, SELECT, INSERT, UPDATE, DELETE
	Roles      []string
	Using      Expr
	WithCheck  Expr
}

func (*CreatePolicyStmt) stmtNode() {}

type DropPolicyStmt struct {
	Name     string
	Schema   string
	Table    string
	IfExists bool
}

func (*DropPolicyStmt) stmtNode() {}

// ----- CREATE ROLE / DROP ROLE -----

type CreateRoleStmt struct {
	Name        string
	Superuser   bool
	CreateDB    bool
	CreateRole  bool
	Inherit     bool
	Login       bool
	BypassRLS   bool
	Replication bool
	ConnLimit   int // -1: unlimited
	InRoles     []string
}

func (*CreateRoleStmt) stmtNode() {}

type DropRoleStmt struct {
	Names    []string
	IfExists bool
}

func (*DropRoleStmt) stmtNode() {}

// ----- CREATE SCHEMA / DROP SCHEMA -----

type CreateSchemaStmt struct {
	Name          string
	IfNotExists   bool
	Authorization string
}

func (*CreateSchemaStmt) stmtNode() {}

type DropSchemaStmt struct {
	Names    []string
	IfExists bool
	Cascade  bool
}

func (*DropSchemaStmt) stmtNode() {}

// ----- GRANT / REVOKE -----

// Privilege is one privilege in a GRANT or REVOKE list, optionally scoped
// to specific columns (GRANT SELECT (id, name) ON ...).
type Privilege struct {
	Name    string
	Columns []string
}

// Object types a grant can target.
const (
	ObjectTable          = "TABLE"
	ObjectSchema         = "SCHEMA"
	ObjectTablesInSchema = "ALL TABLES IN SCHEMA"
)

type GrantStmt struct {
	Privileges      []Privilege
	AllPrivileges   bool
	ObjectType      string
	Objects         []QualifiedName
	Grantees        []string
	WithGrantOption bool
	GrantedBy       string
}

func (*GrantStmt) stmtNode() {}

type RevokeStmt struct {
	GrantOptionFor bool
	Privileges     []Privilege
	AllPrivileges  bool
	ObjectType     string
	Objects        []QualifiedName
	Grantees       []string
}

func (*RevokeStmt) stmtNode() {}

// ----- SET TIME ZONE -----

type SetTimeZoneStmt struct {
	Zone  string
	Local bool
}

func (*SetTimeZoneStmt) stmtNode() {}

// ----- Everything else -----

// RawStmt is any statement whose head keyword is not a recognized DDL form.
// The parser never rejects these; deciding whether the statement kind is
// ignorable is up to the consumer.
type RawStmt struct {
	Keyword string // normalized head phrase, e.g. "SELECT", "CREATE VIEW"
	Text    string
}

func (*RawStmt) stmtNode() {}
