package catalog

import "github.com/earth-metabolome-initiative/schemacat/sqlparser"

// CheckConstraint is a boolean predicate attached to a table. The columns
// and functions its expression references are resolved when the constraint
// is created and exposed here; the classification queries are derived on
// demand from the expression and the owning table's column nullability.
type CheckConstraint interface {
	Name() string
	// Table resolves the owning table.
	Table(c *Catalog) (Table, bool)
	// Expr is the parsed constraint expression.
	Expr() sqlparser.Expr
	// Expression is the constraint expression rendered back to SQL text.
	Expression() string
	// Columns resolves the columns the expression references, in first
	// reference order.
	Columns(c *Catalog) []Column
	// ColumnNames returns the referenced column names without resolving.
	ColumnNames() []string
	// Functions resolves the functions the expression references.
	Functions(c *Catalog) []Function
	// FunctionNames returns the referenced function names without
	// resolving.
	FunctionNames() []string
	// IsTautology reports whether the expression is provably always true
	// given the owning table's column nullability.
	IsTautology(c *Catalog) bool
	// IsNegation reports whether the expression is provably always false.
	IsNegation(c *Catalog) bool
	// MutualNullability recognizes the "all NULL or all NOT NULL" pattern
	// over a group of at least two columns and returns that group.
	MutualNullability(c *Catalog) ([]Column, bool)
}

type checkConstraint struct {
	name     string
	table    tableKey
	expr     sqlparser.Expr
	colNames []string
	fnNames  []string
}

func (cc *checkConstraint) key() memberKey { return memberKey{table: cc.table, name: cc.name} }

func (cc *checkConstraint) Name() string            { return cc.name }
func (cc *checkConstraint) Expr() sqlparser.Expr    { return cc.expr }
func (cc *checkConstraint) Expression() string      { return cc.expr.String() }
func (cc *checkConstraint) ColumnNames() []string   { return cc.colNames }
func (cc *checkConstraint) FunctionNames() []string { return cc.fnNames }

func (cc *checkConstraint) Table(c *Catalog) (Table, bool) {
	t, ok := c.tables.get(cc.table)
	if !ok {
		return nil, false
	}
	return t, true
}

func (cc *checkConstraint) Columns(c *Catalog) []Column {
	t, ok := c.tables.get(cc.table)
	if !ok {
		return nil
	}
	var out []Column
	for _, name := range cc.colNames {
		if col := t.column(name); col != nil {
			out = append(out, col)
		}
	}
	return out
}

func (cc *checkConstraint) Functions(c *Catalog) []Function {
	var out []Function
	for _, name := range cc.fnNames {
		if fn, ok := c.Function(name); ok {
			out = append(out, fn)
		}
	}
	return out
}

// ownNullability reports non-nullability for columns of the owning table.
func (cc *checkConstraint) ownNullability(c *Catalog) nullability {
	t, ok := c.tables.get(cc.table)
	return func(col string) (nonNullable, known bool) {
		if !ok {
			return false, false
		}
		cl := t.column(col)
		if cl == nil {
			return false, false
		}
		return !cl.Nullable(), true
	}
}

func (cc *checkConstraint) IsTautology(c *Catalog) bool {
	taut, _ := classify(cc.expr, cc.ownNullability(c))
	return taut
}

func (cc *checkConstraint) IsNegation(c *Catalog) bool {
	_, neg := classify(cc.expr, cc.ownNullability(c))
	return neg
}

func (cc *checkConstraint) MutualNullability(c *Catalog) ([]Column, bool) {
	names, ok := mutualNullability(cc.expr)
	if !ok {
		return nil, false
	}
	t, found := c.tables.get(cc.table)
	if !found {
		return nil, false
	}
	cols := make([]Column, 0, len(names))
	for _, name := range names {
		col := t.column(name)
		if col == nil {
			return nil, false
		}
		cols = append(cols, col)
	}
	return cols, true
}
