package catalog

import "github.com/earth-metabolome-initiative/schemacat/sqlparser"

// Trigger fires a function on row or statement events of one table.
type Trigger interface {
	Name() string
	// Table resolves the table the trigger is attached to.
	Table(c *Catalog) (Table, bool)
	// Timing is "BEFORE", "AFTER" or "INSTEAD OF".
	Timing() string
	// Events lists the firing events ("INSERT", "UPDATE", ...) in
	// declaration order.
	Events() []string
	// Orientation is "ROW" or "STATEMENT".
	Orientation() string
	// When is the firing condition, nil when unconditional.
	When() sqlparser.Expr
	// FunctionName is the name of the executed function.
	FunctionName() string
	// Function resolves the executed function.
	Function(c *Catalog) (Function, bool)
	// MaintenanceAssignments recognizes trigger functions that do nothing
	// but assign NEW.column values and return NEW, and extracts the
	// assignments in source order. ok is false when the body does anything
	// else, assigns to an unknown column, or has no assignments at all.
	MaintenanceAssignments(c *Catalog) ([]ColumnAssignment, bool)
}

// ColumnAssignment is one "NEW.column = expression" statement extracted from
// a maintenance trigger body.
type ColumnAssignment struct {
	Column Column
	Expr   sqlparser.Expr
}

type trigger struct {
	name     string
	table    tableKey
	timing   string
	events   []string
	forEach  string
	when     sqlparser.Expr
	function string
	fnArgs   []string
}

func (tr *trigger) key() memberKey { return memberKey{table: tr.table, name: tr.name} }

func (tr *trigger) Name() string         { return tr.name }
func (tr *trigger) Timing() string       { return tr.timing }
func (tr *trigger) Events() []string     { return tr.events }
func (tr *trigger) Orientation() string  { return tr.forEach }
func (tr *trigger) When() sqlparser.Expr { return tr.when }
func (tr *trigger) FunctionName() string { return tr.function }

func (tr *trigger) Table(c *Catalog) (Table, bool) {
	t, ok := c.tables.get(tr.table)
	if !ok {
		return nil, false
	}
	return t, true
}

func (tr *trigger) Function(c *Catalog) (Function, bool) {
	if tr.function == "" {
		return nil, false
	}
	return c.Function(tr.function)
}

func (tr *trigger) MaintenanceAssignments(c *Catalog) ([]ColumnAssignment, bool) {
	fn, ok := c.Function(tr.function)
	if !ok || fn.Body() == "" {
		return nil, false
	}
	t, ok := c.tables.get(tr.table)
	if !ok {
		return nil, false
	}
	return maintenanceAssignments(fn.Body(), t)
}
