package catalog

import "github.com/earth-metabolome-initiative/schemacat/sqlparser"

// nullability reports whether a column is declared non-nullable. known is
// false for columns the callback cannot see.
type nullability func(col string) (nonNullable, known bool)

// classify decides whether a check expression is provably always true or
// provably always false, by structural recursion. The two results are
// mutually exclusive; both false means the expression is data dependent.
// Only the listed shapes are recognized; there is no general constant
// folding.
func classify(e sqlparser.Expr, nb nullability) (taut, neg bool) {
	switch x := e.(type) {
	case *sqlparser.Literal:
		if x.Kind == sqlparser.LiteralBool {
			if x.Value == "TRUE" {
				return true, false
			}
			return false, true
		}
	case *sqlparser.Paren:
		return classify(x.Inner, nb)
	case *sqlparser.Unary:
		if x.Op == "NOT" {
			t, n := classify(x.Operand, nb)
			return n, t
		}
	case *sqlparser.IsNull:
		col := columnOf(x.Operand)
		if col == "" {
			return false, false
		}
		nonNull, known := nb(col)
		if !known || !nonNull {
			// A nullable column's IS [NOT] NULL test is genuinely
			// data dependent.
			return false, false
		}
		if x.Not {
			return true, false
		}
		return false, true
	case *sqlparser.Binary:
		switch x.Op {
		case "OR":
			lt, ln := classify(x.Left, nb)
			rt, rn := classify(x.Right, nb)
			if lt || rt || isNullPair(x.Left, x.Right) {
				return true, false
			}
			return false, ln && rn
		case "AND":
			lt, ln := classify(x.Left, nb)
			rt, rn := classify(x.Right, nb)
			if ln || rn {
				return false, true
			}
			return lt && rt, false
		case "=":
			if l, r, ok := literalPair(x); ok && l.Kind == r.Kind && l.Value == r.Value {
				return true, false
			}
		case "<>", "!=":
			if l, r, ok := literalPair(x); ok && l.Kind == r.Kind && l.Value != r.Value {
				return false, true
			}
		}
	}
	return false, false
}

// mutualNullability recognizes an OR of "every column in S IS NULL"
// against "every column in S IS NOT NULL" over the same set S of at least
// two columns, in either order. The returned names follow the IS NULL
// side's declaration order.
func mutualNullability(e sqlparser.Expr) ([]string, bool) {
	or, ok := unwrap(e).(*sqlparser.Binary)
	if !ok || or.Op != "OR" {
		return nil, false
	}
	if cols, ok := mutualSides(or.Left, or.Right); ok {
		return cols, true
	}
	return mutualSides(or.Right, or.Left)
}

func mutualSides(nullSide, notNullSide sqlparser.Expr) ([]string, bool) {
	nulls, ok := nullConjunction(nullSide, false)
	if !ok || len(nulls) < 2 {
		return nil, false
	}
	notNulls, ok := nullConjunction(notNullSide, true)
	if !ok || !sameStringSet(nulls, notNulls) {
		return nil, false
	}
	return nulls, true
}

// nullConjunction collects the column names of an AND tree consisting
// solely of IS NULL tests (not=false) or solely of IS NOT NULL tests
// (not=true).
func nullConjunction(e sqlparser.Expr, not bool) ([]string, bool) {
	switch x := unwrap(e).(type) {
	case *sqlparser.IsNull:
		if x.Not != not {
			return nil, false
		}
		col := columnOf(x.Operand)
		if col == "" {
			return nil, false
		}
		return []string{col}, true
	case *sqlparser.Binary:
		if x.Op != "AND" {
			return nil, false
		}
		left, ok := nullConjunction(x.Left, not)
		if !ok {
			return nil, false
		}
		right, ok := nullConjunction(x.Right, not)
		if !ok {
			return nil, false
		}
		return append(left, right...), true
	}
	return nil, false
}

// isNullPair reports an IS NULL / IS NOT NULL pair over the same column,
// which is true for every value regardless of nullability.
func isNullPair(a, b sqlparser.Expr) bool {
	an, aok := unwrap(a).(*sqlparser.IsNull)
	bn, bok := unwrap(b).(*sqlparser.IsNull)
	if !aok || !bok || an.Not == bn.Not {
		return false
	}
	ac, bc := columnOf(an.Operand), columnOf(bn.Operand)
	return ac != "" && ac == bc
}

func unwrap(e sqlparser.Expr) sqlparser.Expr {
	for {
		p, ok := e.(*sqlparser.Paren)
		if !ok {
			return e
		}
		e = p.Inner
	}
}

func columnOf(e sqlparser.Expr) string {
	if ref, ok := unwrap(e).(*sqlparser.ColumnRef); ok {
		return ref.Name
	}
	return ""
}

// literalPair extracts the two literal operands of a comparison. NULL
// literals are excluded: a comparison with NULL evaluates to unknown, not
// to a fixed truth value.
func literalPair(b *sqlparser.Binary) (l, r *sqlparser.Literal, ok bool) {
	l, lok := unwrap(b.Left).(*sqlparser.Literal)
	r, rok := unwrap(b.Right).(*sqlparser.Literal)
	if !lok || !rok || l.Kind == sqlparser.LiteralNull || r.Kind == sqlparser.LiteralNull {
		return nil, nil, false
	}
	return l, r, true
}
