package catalog

import "github.com/earth-metabolome-initiative/schemacat/sqlparser"

// exprColumnNames extracts the column names an expression references, in
// first reference order without duplicates. Qualified references contribute
// their column part.
func exprColumnNames(e sqlparser.Expr) []string {
	var out []string
	seen := map[string]bool{}
	walkExpr(e, func(node sqlparser.Expr) {
		if ref, ok := node.(*sqlparser.ColumnRef); ok && !seen[ref.Name] {
			seen[ref.Name] = true
			out = append(out, ref.Name)
		}
	})
	return out
}

// exprFunctionNames extracts the function names an expression calls, in
// first call order without duplicates.
func exprFunctionNames(e sqlparser.Expr) []string {
	var out []string
	seen := map[string]bool{}
	walkExpr(e, func(node sqlparser.Expr) {
		if call, ok := node.(*sqlparser.FuncCall); ok && !seen[call.Name] {
			seen[call.Name] = true
			out = append(out, call.Name)
		}
	})
	return out
}

// walkExpr visits every node of an expression tree in prefix order.
func walkExpr(e sqlparser.Expr, visit func(sqlparser.Expr)) {
	if e == nil {
		return
	}
	visit(e)
	switch n := e.(type) {
	case *sqlparser.Unary:
		walkExpr(n.Operand, visit)
	case *sqlparser.Binary:
		walkExpr(n.Left, visit)
		walkExpr(n.Right, visit)
	case *sqlparser.IsNull:
		walkExpr(n.Operand, visit)
	case *sqlparser.Paren:
		walkExpr(n.Inner, visit)
	case *sqlparser.In:
		walkExpr(n.Operand, visit)
		for _, item := range n.List {
			walkExpr(item, visit)
		}
	case *sqlparser.Between:
		walkExpr(n.Operand, visit)
		walkExpr(n.Lo, visit)
		walkExpr(n.Hi, visit)
	case *sqlparser.Cast:
		walkExpr(n.Operand, visit)
	case *sqlparser.FuncCall:
		for _, arg := range n.Args {
			walkExpr(arg, visit)
		}
	}
}
