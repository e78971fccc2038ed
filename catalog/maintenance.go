package catalog

import (
	"strings"

	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

// maintenanceAssignments recognizes trigger function bodies of the shape
//
//	[ BEGIN [;] ] assignment* RETURN NEW ; [ END [;] ]
//	assignment := NEW . column ( = | := ) expression ;
//
// and extracts the assignments in source order, duplicates preserved. Any
// other statement, an assignment to a column the table does not have, an
// empty assignment list, unbalanced parentheses inside an expression span
// or trailing tokens make the body unrecognizable.
func maintenanceAssignments(body string, t *table) ([]ColumnAssignment, bool) {
	toks, err := sqlparser.Tokenize(body)
	if err != nil {
		return nil, false
	}
	w := &tokenWalker{src: body, toks: toks}

	if w.matchIdent("BEGIN") {
		w.matchOp(";")
	}

	var out []ColumnAssignment
	for {
		if w.matchIdent("RETURN") {
			break
		}
		col, expr, ok := w.assignment(t)
		if !ok {
			return nil, false
		}
		out = append(out, ColumnAssignment{Column: col, Expr: expr})
	}
	if !w.matchIdent("NEW") || !w.matchOp(";") {
		return nil, false
	}
	if w.matchIdent("END") {
		w.matchOp(";")
	}
	if !w.eof() || len(out) == 0 {
		return nil, false
	}
	return out, true
}

type tokenWalker struct {
	src  string
	toks []sqlparser.Token
	pos  int
}

func (w *tokenWalker) cur() sqlparser.Token {
	if w.pos >= len(w.toks) {
		return sqlparser.Token{Type: sqlparser.TokenEOF}
	}
	return w.toks[w.pos]
}

func (w *tokenWalker) eof() bool { return w.cur().Type == sqlparser.TokenEOF }

func (w *tokenWalker) matchIdent(word string) bool {
	tok := w.cur()
	if tok.Type == sqlparser.TokenIdent && strings.EqualFold(tok.Text, word) {
		w.pos++
		return true
	}
	return false
}

func (w *tokenWalker) matchOp(s string) bool {
	tok := w.cur()
	if tok.Type == sqlparser.TokenOp && tok.Text == s {
		w.pos++
		return true
	}
	return false
}

// assignment consumes NEW . column ( = | := ) expression ; and resolves
// the column against the trigger's table.
func (w *tokenWalker) assignment(t *table) (*column, sqlparser.Expr, bool) {
	if !w.matchIdent("NEW") || !w.matchOp(".") {
		return nil, nil, false
	}
	name, ok := w.columnName()
	if !ok {
		return nil, nil, false
	}
	col := t.column(name)
	if col == nil {
		return nil, nil, false
	}
	if !w.matchOp(":=") && !w.matchOp("=") {
		return nil, nil, false
	}
	span, ok := w.exprSpan()
	if !ok {
		return nil, nil, false
	}
	expr, err := sqlparser.ParseExpr(span)
	if err != nil {
		return nil, nil, false
	}
	return col, expr, true
}

func (w *tokenWalker) columnName() (string, bool) {
	tok := w.cur()
	switch tok.Type {
	case sqlparser.TokenIdent:
		w.pos++
		return strings.ToLower(tok.Text), true
	case sqlparser.TokenQuotedIdent:
		w.pos++
		return tok.Text, true
	}
	return "", false
}

// exprSpan consumes tokens up to the statement-terminating semicolon and
// returns the source text they cover. Parentheses must balance before the
// semicolon.
func (w *tokenWalker) exprSpan() (string, bool) {
	startOff, endOff := -1, -1
	depth := 0
	for {
		tok := w.cur()
		if tok.Type == sqlparser.TokenEOF {
			return "", false
		}
		if tok.Type == sqlparser.TokenOp {
			switch tok.Text {
			case "(":
				depth++
			case ")":
				depth--
				if depth < 0 {
					return "", false
				}
			case ";":
				if depth != 0 || startOff < 0 {
					return "", false
				}
				w.pos++
				return w.src[startOff:endOff], true
			}
		}
		if startOff < 0 {
			startOff = tok.Off
		}
		endOff = tok.End
		w.pos++
	}
}
