package sqlparser

import (
	"fmt"
	"strings"
)

func (p *parser) parseCreateFunction() (Statement, error) {
	p.matchKeyword("CREATE")
	stmt := &CreateFunctionStmt{}
	if p.matchKeyword("OR", "REPLACE") {
		stmt.OrReplace = true
	}
	p.matchKeyword("FUNCTION")

	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE FUNCTION syntax: %w", err)
	}
	stmt.Schema, stmt.Name = qn.Schema, qn.Name

	if err := p.expectOp("("); err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE FUNCTION syntax: %w", err)
	}
	if !p.matchOp(")") {
		for {
			arg, err := p.parseFunctionArg()
			if err != nil {
				return nil, err
			}
			stmt.Args = append(stmt.Args, arg)
			if p.matchOp(",") {
				continue
			}
			break
		}
		if err := p.expectOp(")"); err != nil {
			return nil, fmt.Errorf("sqlparser: invalid CREATE FUNCTION syntax: %w", err)
		}
	}

	if p.peekKeyword("RETURNS") && !p.peekKeyword("RETURNS", "NULL", "ON") {
		p.matchKeyword("RETURNS")
		setof := p.matchKeyword("SETOF")
		typ, err := p.parseTypeName()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid RETURNS clause: %w", err)
		}
		if setof {
			typ = "setof " + typ
		}
		stmt.Returns = typ
	}

	// Remaining attributes appear in any order; only LANGUAGE and AS carry
	// catalog information, the rest are skipped.
	for !p.done() {
		switch {
		case p.matchKeyword("LANGUAGE"):
			tok := p.cur()
			if tok.Type == TokenString {
				p.pos++
				stmt.Language = strings.ToLower(tok.Text)
			} else {
				lang, err := p.ident()
				if err != nil {
					return nil, fmt.Errorf("sqlparser: invalid LANGUAGE clause: %w", err)
				}
				stmt.Language = lang
			}
		case p.matchKeyword("AS"):
			tok := p.cur()
			if tok.Type != TokenString && tok.Type != TokenDollarString {
				return nil, fmt.Errorf("sqlparser: expected function body at offset %d", tok.Off)
			}
			p.pos++
			stmt.Body = tok.Text
			if p.matchOp(",") && p.cur().Type == TokenString {
				p.pos++
			}
		case p.matchKeyword("RETURNS", "NULL", "ON", "NULL", "INPUT"):
		case p.matchKeyword("CALLED", "ON", "NULL", "INPUT"):
		case p.matchKeyword("SECURITY", "DEFINER"):
		case p.matchKeyword("SECURITY", "INVOKER"):
		case p.matchKeyword("PARALLEL"):
			p.advance()
		case p.matchKeyword("COST"), p.matchKeyword("ROWS"):
			p.advance()
		default:
			p.advance()
		}
	}
	return stmt, nil
}

// parseFunctionArg consumes one argument declaration. The argument name is
// optional; an identifier pair reads as (name, type) unless the first word
// begins a multi-word type name.
func (p *parser) parseFunctionArg() (FunctionArg, error) {
	for p.matchKeyword("IN") || p.matchKeyword("OUT") ||
		p.matchKeyword("INOUT") || p.matchKeyword("VARIADIC") {
	}

	arg := FunctionArg{}
	tok := p.cur()
	named := tok.Type == TokenIdent &&
		p.at(1).Type == TokenIdent &&
		!typeLeadWords[strings.ToLower(tok.Text)]
	if tok.Type == TokenQuotedIdent && p.at(1).Type == TokenIdent {
		named = true
	}
	if named {
		name, err := p.ident()
		if err != nil {
			return FunctionArg{}, err
		}
		arg.Name = name
	}

	typ, err := p.parseTypeName()
	if err != nil {
		return FunctionArg{}, fmt.Errorf("sqlparser: invalid function argument: %w", err)
	}
	arg.Type = typ

	if p.matchKeyword("DEFAULT") || p.matchOp("=") {
		if _, err := p.parseExpr(); err != nil {
			return FunctionArg{}, err
		}
	}
	return arg, nil
}

func (p *parser) parseDropFunction() (Statement, error) {
	p.matchKeyword("DROP", "FUNCTION")
	stmt := &DropFunctionStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}

	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid DROP FUNCTION syntax: %w", err)
	}
	stmt.Name = qn.Name

	if p.matchOp("(") {
		stmt.ArgsSpecified = true
		if !p.matchOp(")") {
			for {
				for p.matchKeyword("IN") || p.matchKeyword("OUT") ||
					p.matchKeyword("INOUT") || p.matchKeyword("VARIADIC") {
				}
				typ, err := p.parseTypeName()
				if err != nil {
					return nil, fmt.Errorf("sqlparser: invalid DROP FUNCTION syntax: %w", err)
				}
				stmt.Args = append(stmt.Args, typ)
				if p.matchOp(",") {
					continue
				}
				break
			}
			if err := p.expectOp(")"); err != nil {
				return nil, fmt.Errorf("sqlparser: invalid DROP FUNCTION syntax: %w", err)
			}
		}
	}
	stmt.Cascade = p.dropQualifiers()
	return stmt, p.expectDone()
}

func (p *parser) parseCreateTrigger() (Statement, error) {
	p.matchKeyword("CREATE", "TRIGGER")
	stmt := &CreateTriggerStmt{ForEach: "STATEMENT"}

	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE TRIGGER syntax: %w", err)
	}
	stmt.Name = name

	switch {
	case p.matchKeyword("BEFORE"):
		stmt.Timing = "BEFORE"
	case p.matchKeyword("AFTER"):
		stmt.Timing = "AFTER"
	case p.matchKeyword("INSTEAD", "OF"):
		stmt.Timing = "INSTEAD OF"
	default:
		return nil, fmt.Errorf("sqlparser: invalid trigger timing at offset %d", p.cur().Off)
	}

	for {
		switch {
		case p.matchKeyword("INSERT"):
			stmt.Events = append(stmt.Events, "INSERT")
		case p.matchKeyword("DELETE"):
			stmt.Events = append(stmt.Events, "DELETE")
		case p.matchKeyword("TRUNCATE"):
			stmt.Events = append(stmt.Events, "TRUNCATE")
		case p.matchKeyword("UPDATE"):
			stmt.Events = append(stmt.Events, "UPDATE")
			if p.matchKeyword("OF") {
				if _, err := p.identList(); err != nil {
					return nil, fmt.Errorf("sqlparser: invalid UPDATE OF clause: %w", err)
				}
			}
		default:
			return nil, fmt.Errorf("sqlparser: invalid trigger event at offset %d", p.cur().Off)
		}
		if !p.matchKeyword("OR") {
			break
		}
	}

	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE TRIGGER syntax: %w", err)
	}
	stmt.Schema, stmt.Table = qn.Schema, qn.Name

	if p.matchKeyword("FOR") {
		p.matchKeyword("EACH")
		switch {
		case p.matchKeyword("ROW"):
			stmt.ForEach = "ROW"
		case p.matchKeyword("STATEMENT"):
			stmt.ForEach = "STATEMENT"
		default:
			return nil, fmt.Errorf("sqlparser: invalid FOR EACH clause at offset %d", p.cur().Off)
		}
	}

	if p.matchKeyword("WHEN") {
		e, err := p.parseParenExpr()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid WHEN clause: %w", err)
		}
		stmt.When = e
	}

	if !p.matchKeyword("EXECUTE") {
		return nil, fmt.Errorf("sqlparser: expected EXECUTE at offset %d", p.cur().Off)
	}
	if !p.matchKeyword("FUNCTION") && !p.matchKeyword("PROCEDURE") {
		return nil, fmt.Errorf("sqlparser: expected FUNCTION or PROCEDURE at offset %d", p.cur().Off)
	}
	fn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid trigger function name: %w", err)
	}
	stmt.Function = fn.Name

	if p.matchOp("(") {
		for !p.matchOp(")") {
			if p.done() {
				return nil, fmt.Errorf("sqlparser: unterminated trigger argument list")
			}
			tok := p.advance()
			if tok.isOp(",") {
				continue
			}
			stmt.FunctionArgs = append(stmt.FunctionArgs, tok.Text)
		}
	}
	return stmt, p.expectDone()
}

func (p *parser) parseDropTrigger() (Statement, error) {
	p.matchKeyword("DROP", "TRIGGER")
	stmt := &DropTriggerStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}
	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid DROP TRIGGER syntax: %w", err)
	}
	stmt.Name = name
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid DROP TRIGGER syntax: %w", err)
	}
	stmt.Schema, stmt.Table = qn.Schema, qn.Name
	p.dropQualifiers()
	return stmt, p.expectDone()
}

func (p *parser) parseCreatePolicy() (Statement, error) {
	p.matchKeyword("CREATE", "POLICY")
	stmt := &CreatePolicyStmt{Permissive: true, Command: "ALL"}

	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE POLICY syntax: %w", err)
	}
	stmt.Name = name

	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE POLICY syntax: %w", err)
	}
	stmt.Schema, stmt.Table = qn.Schema, qn.Name

	if p.matchKeyword("AS") {
		switch {
		case p.matchKeyword("PERMISSIVE"):
			stmt.Permissive = true
		case p.matchKeyword("RESTRICTIVE"):
			stmt.Permissive = false
		default:
			return nil, fmt.Errorf("sqlparser: invalid policy kind at offset %d", p.cur().Off)
		}
	}

	if p.matchKeyword("FOR") {
		switch {
		case p.matchKeyword("ALL"):
			stmt.Command = "ALL"
		case p.matchKeyword("SELECT"):
			stmt.Command = "SELECT"
		case p.matchKeyword("INSERT"):
			stmt.Command = "INSERT"
		case p.matchKeyword("UPDATE"):
			stmt.Command = "UPDATE"
		case p.matchKeyword("DELETE"):
			stmt.Command = "DELETE"
		default:
			return nil, fmt.Errorf("sqlparser: invalid policy command at offset %d", p.cur().Off)
		}
	}

	if p.matchKeyword("TO") {
		roles, err := p.identList()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid TO clause: %w", err)
		}
		stmt.Roles = roles
	}

	if p.matchKeyword("USING") {
		e, err := p.parseParenExpr()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid USING clause: %w", err)
		}
		stmt.Using = e
	}

	if p.matchKeyword("WITH", "CHECK") {
		e, err := p.parseParenExpr()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid WITH CHECK clause: %w", err)
		}
		stmt.WithCheck = e
	}
	return stmt, p.expectDone()
}

func (p *parser) parseDropPolicy() (Statement, error) {
	p.matchKeyword("DROP", "POLICY")
	stmt := &DropPolicyStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}
	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid DROP POLICY syntax: %w", err)
	}
	stmt.Name = name
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid DROP POLICY syntax: %w", err)
	}
	stmt.Schema, stmt.Table = qn.Schema, qn.Name
	p.dropQualifiers()
	return stmt, p.expectDone()
}
