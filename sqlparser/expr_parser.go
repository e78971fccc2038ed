package sqlparser

import (
	"fmt"
	"strings"
)

// ParseExpr parses a single SQL expression from src. Trailing tokens after
// the expression are an error.
func ParseExpr(src string) (Expr, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks[:len(toks)-1], src: src}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectDone(); err != nil {
		return nil, err
	}
	return e, nil
}

// Precedence climbing, loosest first: OR, AND, NOT, predicates
// (IS NULL, IN, BETWEEN, LIKE), comparison, additive, multiplicative,
// unary sign, ::cast, primary.

func (p *parser) parseExpr() (Expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.matchKeyword("OR") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "OR", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for p.matchKeyword("AND") {
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: "AND", Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseNot() (Expr, error) {
	if p.matchKeyword("NOT") {
		operand, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: "NOT", Operand: operand}, nil
	}
	return p.parsePredicate()
}

func (p *parser) parsePredicate() (Expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.matchKeyword("IS", "NOT", "NULL"):
			left = &IsNull{Operand: left, Not: true}
		case p.matchKeyword("IS", "NULL"):
			left = &IsNull{Operand: left}
		case p.peekKeyword("IN"), p.peekKeyword("NOT", "IN"):
			not := p.matchKeyword("NOT", "IN")
			if !not {
				p.matchKeyword("IN")
			}
			list, err := p.parseExprList()
			if err != nil {
				return nil, err
			}
			left = &In{Operand: left, Not: not, List: list}
		case p.peekKeyword("BETWEEN"), p.peekKeyword("NOT", "BETWEEN"):
			not := p.matchKeyword("NOT", "BETWEEN")
			if !not {
				p.matchKeyword("BETWEEN")
			}
			lo, err := p.parseComparison()
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("AND"); err != nil {
				return nil, err
			}
			hi, err := p.parseComparison()
			if err != nil {
				return nil, err
			}
			left = &Between{Operand: left, Not: not, Lo: lo, Hi: hi}
		case p.peekKeyword("LIKE"), p.peekKeyword("ILIKE"),
			p.peekKeyword("NOT", "LIKE"), p.peekKeyword("NOT", "ILIKE"):
			op := ""
			switch {
			case p.matchKeyword("NOT", "LIKE"):
				op = "NOT LIKE"
			case p.matchKeyword("NOT", "ILIKE"):
				op = "NOT ILIKE"
			case p.matchKeyword("LIKE"):
				op = "LIKE"
			default:
				p.matchKeyword("ILIKE")
				op = "ILIKE"
			}
			right, err := p.parseAdditive()
			if err != nil {
				return nil, err
			}
			left = &Binary{Op: op, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

var comparisonOps = map[string]bool{
	"=": true, "<>": true, "!=": true,
	"<": true, ">": true, "<=": true, ">=": true,
}

func (p *parser) parseComparison() (Expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == TokenOp && comparisonOps[p.cur().Text] {
		op := p.advance().Text
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseAdditive() (Expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.cur().isOp("+") || p.cur().isOp("-") || p.cur().isOp("||") {
		op := p.advance().Text
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.cur().isOp("*") || p.cur().isOp("/") || p.cur().isOp("%") {
		op := p.advance().Text
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = &Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) parseUnary() (Expr, error) {
	if p.cur().isOp("-") || p.cur().isOp("+") {
		op := p.advance().Text
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, Operand: operand}, nil
	}
	return p.parseCastSuffix()
}

func (p *parser) parseCastSuffix() (Expr, error) {
	e, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.matchOp("::") {
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, err
		}
		e = &Cast{Operand: e, Type: typ}
	}
	return e, nil
}

// Identifiers that read as zero-argument function calls.
var nileadicFuncs = map[string]bool{
	"current_timestamp": true,
	"current_date":      true,
	"current_time":      true,
	"current_user":      true,
	"session_user":      true,
	"localtime":         true,
	"localtimestamp":    true,
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenNumber:
		p.pos++
		return &Literal{Kind: LiteralNumber, Value: tok.Text}, nil
	case TokenString:
		p.pos++
		return &Literal{Kind: LiteralString, Value: tok.Text}, nil
	case TokenIdent:
		upper := strings.ToUpper(tok.Text)
		switch upper {
		case "TRUE", "FALSE":
			p.pos++
			return &Literal{Kind: LiteralBool, Value: upper}, nil
		case "NULL":
			p.pos++
			return &Literal{Kind: LiteralNull, Value: "NULL"}, nil
		case "CAST":
			return p.parseCastCall()
		}
		return p.parseIdentExpr()
	case TokenQuotedIdent:
		return p.parseIdentExpr()
	case TokenOp:
		if tok.Text == "(" {
			p.pos++
			inner, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if err := p.expectOp(")"); err != nil {
				return nil, err
			}
			return &Paren{Inner: inner}, nil
		}
	}
	return nil, fmt.Errorf("sqlparser: unexpected %q in expression at offset %d", tok.String(), tok.Off)
}

// parseIdentExpr handles column references and function calls, either of
// which may be qualified: a, t.a, f(x), current_user.
func (p *parser) parseIdentExpr() (Expr, error) {
	name, err := p.ident()
	if err != nil {
		return nil, err
	}

	if p.matchOp(".") {
		field, err := p.ident()
		if err != nil {
			return nil, err
		}
		return &ColumnRef{Table: name, Name: field}, nil
	}

	if p.cur().isOp("(") {
		return p.parseFuncCall(name)
	}
	if nileadicFuncs[name] {
		return &FuncCall{Name: name}, nil
	}
	return &ColumnRef{Name: name}, nil
}

func (p *parser) parseFuncCall(name string) (Expr, error) {
	p.matchOp("(")
	call := &FuncCall{Name: name}
	if p.matchOp("*") {
		call.Star = true
		if err := p.expectOp(")"); err != nil {
			return nil, err
		}
		return call, nil
	}
	if p.matchOp(")") {
		return call, nil
	}
	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.Args = append(call.Args, arg)
		if p.matchOp(",") {
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return call, nil
}

func (p *parser) parseCastCall() (Expr, error) {
	p.matchKeyword("CAST")
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	operand, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("AS"); err != nil {
		return nil, err
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return &Cast{Operand: operand, Type: typ}, nil
}

// parseParenExpr consumes "( expr )" and returns the inner expression.
func (p *parser) parseParenExpr() (Expr, error) {
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	e, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return e, nil
}

// parseExprList consumes "( expr, expr, ... )".
func (p *parser) parseExprList() ([]Expr, error) {
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	var list []Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		list = append(list, e)
		if p.matchOp(",") {
			continue
		}
		break
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return list, nil
}
