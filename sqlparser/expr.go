package sqlparser

import "strings"

// Expr is the root interface for all SQL expressions.
type Expr interface {
	exprNode()
	// String renders the expression back to canonical SQL text.
	String() string
}

// LiteralKind classifies a literal expression.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

// Literal is a constant value. Value holds the source form: the digits for
// numbers, the decoded body for strings, "TRUE"/"FALSE" for booleans and
// "NULL" for null.
type Literal struct {
	Kind  LiteralKind
	Value string
}

func (l *Literal) String() string {
	switch l.Kind {
	case LiteralString:
		return "'" + strings.ReplaceAll(l.Value, "'", "''") + "'"
	default:
		return l.Value
	}
}

// ColumnRef names a column, optionally qualified by a table or correlation
// name (NEW.updated_at, users.id).
type ColumnRef struct {
	Table string
	Name  string
}

func (c *ColumnRef) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

// FuncCall is a function invocation. Star marks count(*).
type FuncCall struct {
	Name string
	Args []Expr
	Star bool
}

func (f *FuncCall) String() string {
	if f.Star {
		return f.Name + "(*)"
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}

// Unary is a prefix operator application: NOT x, -x.
type Unary struct {
	Op      string
	Operand Expr
}

func (u *Unary) String() string {
	if u.Op == "NOT" {
		return "NOT " + u.Operand.String()
	}
	return u.Op + u.Operand.String()
}

// Binary is an infix operator application.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b *Binary) String() string {
	return b.Left.String() + " " + b.Op + " " + b.Right.String()
}

// IsNull is x IS NULL, or x IS NOT NULL when Not is set.
type IsNull struct {
	Operand Expr
	Not     bool
}

func (i *IsNull) String() string {
	if i.Not {
		return i.Operand.String() + " IS NOT NULL"
	}
	return i.Operand.String() + " IS NULL"
}

// Paren preserves explicit grouping from the source.
type Paren struct {
	Inner Expr
}

func (p *Paren) String() string {
	return "(" + p.Inner.String() + ")"
}

// In is x [NOT] IN (a, b, ...).
type In struct {
	Operand Expr
	Not     bool
	List    []Expr
}

func (in *In) String() string {
	items := make([]string, len(in.List))
	for i, e := range in.List {
		items[i] = e.String()
	}
	op := " IN ("
	if in.Not {
		op = " NOT IN ("
	}
	return in.Operand.String() + op + strings.Join(items, ", ") + ")"
}

// Between is x [NOT] BETWEEN lo AND hi.
type Between struct {
	Operand Expr
	Not     bool
	Lo      Expr
	Hi      Expr
}

func (b *Between) String() string {
	op := " BETWEEN "
	if b.Not {
		op = " NOT BETWEEN "
	}
	return b.Operand.String() + op + b.Lo.String() + " AND " + b.Hi.String()
}

// Cast is x::type (also produced for CAST(x AS type)).
type Cast struct {
	Operand Expr
	Type    string
}

func (c *Cast) String() string {
	return c.Operand.String() + "::" + c.Type
}

func (*Literal) exprNode()   {}
func (*ColumnRef) exprNode() {}
func (*FuncCall) exprNode()  {}
func (*Unary) exprNode()     {}
func (*Binary) exprNode()    {}
func (*IsNull) exprNode()    {}
func (*Paren) exprNode()     {}
func (*In) exprNode()        {}
func (*Between) exprNode()   {}
func (*Cast) exprNode()      {}
