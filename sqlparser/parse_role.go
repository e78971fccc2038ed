package sqlparser

import (
	"fmt"
	"strings"
)

func (p *parser) parseCreateRole() (Statement, error) {
	p.matchKeyword("CREATE", "ROLE")
	stmt := &CreateRoleStmt{Inherit: true, ConnLimit: -1}

	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE ROLE syntax: %w", err)
	}
	stmt.Name = name
	p.matchKeyword("WITH")

	for !p.done() {
		switch {
		case p.matchKeyword("SUPERUSER"):
			stmt.Superuser = true
		case p.matchKeyword("NOSUPERUSER"):
			stmt.Superuser = false
		case p.matchKeyword("CREATEDB"):
			stmt.CreateDB = true
		case p.matchKeyword("NOCREATEDB"):
			stmt.CreateDB = false
		case p.matchKeyword("CREATEROLE"):
			stmt.CreateRole = true
		case p.matchKeyword("NOCREATEROLE"):
			stmt.CreateRole = false
		case p.matchKeyword("INHERIT"):
			stmt.Inherit = true
		case p.matchKeyword("NOINHERIT"):
			stmt.Inherit = false
		case p.matchKeyword("LOGIN"):
			stmt.Login = true
		case p.matchKeyword("NOLOGIN"):
			stmt.Login = false
		case p.matchKeyword("BYPASSRLS"):
			stmt.BypassRLS = true
		case p.matchKeyword("NOBYPASSRLS"):
			stmt.BypassRLS = false
		case p.matchKeyword("REPLICATION"):
			stmt.Replication = true
		case p.matchKeyword("NOREPLICATION"):
			stmt.Replication = false
		case p.matchKeyword("CONNECTION", "LIMIT"):
			tok := p.cur()
			neg := false
			if p.matchOp("-") {
				neg = true
				tok = p.cur()
			}
			if tok.Type != TokenNumber {
				return nil, fmt.Errorf("sqlparser: invalid CONNECTION LIMIT at offset %d", tok.Off)
			}
			p.pos++
			n := 0
			fmt.Sscanf(tok.Text, "%d", &n)
			if neg {
				n = -n
			}
			stmt.ConnLimit = n
		case p.matchKeyword("IN", "ROLE"), p.matchKeyword("IN", "GROUP"):
			roles, err := p.identList()
			if err != nil {
				return nil, fmt.Errorf("sqlparser: invalid IN ROLE clause: %w", err)
			}
			stmt.InRoles = append(stmt.InRoles, roles...)
		case p.matchKeyword("ENCRYPTED", "PASSWORD"), p.matchKeyword("PASSWORD"):
			p.advance()
		case p.matchKeyword("VALID", "UNTIL"):
			p.advance()
		case p.matchKeyword("ROLE"), p.matchKeyword("ADMIN"):
			if _, err := p.identList(); err != nil {
				return nil, fmt.Errorf("sqlparser: invalid role list: %w", err)
			}
		default:
			return nil, fmt.Errorf("sqlparser: invalid CREATE ROLE option %q at offset %d",
				p.cur().String(), p.cur().Off)
		}
	}
	return stmt, nil
}

func (p *parser) parseDropRole() (Statement, error) {
	p.matchKeyword("DROP", "ROLE")
	stmt := &DropRoleStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}
	names, err := p.identList()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid DROP ROLE syntax: %w", err)
	}
	stmt.Names = names
	return stmt, p.expectDone()
}

func (p *parser) parseCreateSchema() (Statement, error) {
	p.matchKeyword("CREATE", "SCHEMA")
	stmt := &CreateSchemaStmt{}
	if p.matchKeyword("IF", "NOT", "EXISTS") {
		stmt.IfNotExists = true
	}
	if p.matchKeyword("AUTHORIZATION") {
		owner, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid AUTHORIZATION clause: %w", err)
		}
		stmt.Name = owner
		stmt.Authorization = owner
		return stmt, p.expectDone()
	}
	name, err := p.ident()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE SCHEMA syntax: %w", err)
	}
	stmt.Name = name
	if p.matchKeyword("AUTHORIZATION") {
		owner, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid AUTHORIZATION clause: %w", err)
		}
		stmt.Authorization = owner
	}
	return stmt, p.expectDone()
}

func (p *parser) parseDropSchema() (Statement, error) {
	p.matchKeyword("DROP", "SCHEMA")
	stmt := &DropSchemaStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}
	names, err := p.identList()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid DROP SCHEMA syntax: %w", err)
	}
	stmt.Names = names
	stmt.Cascade = p.dropQualifiers()
	return stmt, p.expectDone()
}

// parsePrivileges consumes a GRANT/REVOKE privilege list up to the ON
// keyword. ok=false means there is no ON clause, which makes the statement
// a role-membership grant rather than an object grant.
func (p *parser) parsePrivileges() (privs []Privilege, all bool, ok bool, err error) {
	if p.matchKeyword("ALL") {
		p.matchKeyword("PRIVILEGES")
		if p.cur().isOp("(") {
			if _, err := p.parenIdentList(); err != nil {
				return nil, false, false, err
			}
		}
		return nil, true, true, nil
	}

	for {
		tok := p.cur()
		if tok.Type != TokenIdent {
			return nil, false, false, fmt.Errorf("sqlparser: expected privilege at offset %d", tok.Off)
		}
		p.pos++
		priv := Privilege{Name: strings.ToUpper(tok.Text)}
		if p.cur().isOp("(") {
			cols, err := p.parenIdentList()
			if err != nil {
				return nil, false, false, err
			}
			priv.Columns = cols
		}
		privs = append(privs, priv)
		if p.matchOp(",") {
			continue
		}
		break
	}

	if !p.peekKeyword("ON") {
		return nil, false, false, nil
	}
	return privs, false, true, nil
}

// parseGrantObjects consumes "ON ..." for GRANT/REVOKE.
func (p *parser) parseGrantObjects() (objType string, objects []QualifiedName, err error) {
	p.matchKeyword("ON")
	switch {
	case p.matchKeyword("ALL", "TABLES", "IN", "SCHEMA"):
		objType = ObjectTablesInSchema
		names, err := p.identList()
		if err != nil {
			return "", nil, err
		}
		for _, n := range names {
			objects = append(objects, QualifiedName{Name: n})
		}
	case p.matchKeyword("SCHEMA"):
		objType = ObjectSchema
		names, err := p.identList()
		if err != nil {
			return "", nil, err
		}
		for _, n := range names {
			objects = append(objects, QualifiedName{Name: n})
		}
	default:
		p.matchKeyword("TABLE")
		objType = ObjectTable
		for {
			qn, err := p.qualifiedName()
			if err != nil {
				return "", nil, err
			}
			objects = append(objects, qn)
			if !p.matchOp(",") {
				break
			}
		}
	}
	return objType, objects, nil
}

// parseGrantees consumes a grantee list. PUBLIC folds to the lower-case
// pseudo-role name "public".
func (p *parser) parseGrantees() ([]string, error) {
	var out []string
	for {
		p.matchKeyword("GROUP")
		name, err := p.ident()
		if err != nil {
			return nil, err
		}
		out = append(out, name)
		if !p.matchOp(",") {
			return out, nil
		}
	}
}

func (p *parser) parseGrant() (Statement, error) {
	p.matchKeyword("GRANT")
	privs, all, ok, err := p.parsePrivileges()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid GRANT syntax: %w", err)
	}
	if !ok {
		// GRANT role TO role: membership grants are not object grants.
		p.pos = 0
		return p.rawStmt(), nil
	}

	stmt := &GrantStmt{Privileges: privs, AllPrivileges: all}
	stmt.ObjectType, stmt.Objects, err = p.parseGrantObjects()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid GRANT syntax: %w", err)
	}

	if err := p.expectKeyword("TO"); err != nil {
		return nil, err
	}
	stmt.Grantees, err = p.parseGrantees()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid GRANT syntax: %w", err)
	}

	if p.matchKeyword("WITH", "GRANT", "OPTION") {
		stmt.WithGrantOption = true
	}
	if p.matchKeyword("GRANTED", "BY") {
		by, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid GRANTED BY clause: %w", err)
		}
		stmt.GrantedBy = by
	}
	return stmt, p.expectDone()
}

func (p *parser) parseRevoke() (Statement, error) {
	p.matchKeyword("REVOKE")
	stmt := &RevokeStmt{}
	if p.matchKeyword("GRANT", "OPTION", "FOR") {
		stmt.GrantOptionFor = true
	}

	privs, all, ok, err := p.parsePrivileges()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid REVOKE syntax: %w", err)
	}
	if !ok {
		p.pos = 0
		return p.rawStmt(), nil
	}
	stmt.Privileges, stmt.AllPrivileges = privs, all

	stmt.ObjectType, stmt.Objects, err = p.parseGrantObjects()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid REVOKE syntax: %w", err)
	}

	if err := p.expectKeyword("FROM"); err != nil {
		return nil, err
	}
	stmt.Grantees, err = p.parseGrantees()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid REVOKE syntax: %w", err)
	}
	p.dropQualifiers()
	return stmt, p.expectDone()
}

func (p *parser) parseSetTimeZone() (Statement, error) {
	p.matchKeyword("SET")
	if !p.matchKeyword("SESSION") {
		p.matchKeyword("LOCAL")
	}
	p.matchKeyword("TIME", "ZONE")

	stmt := &SetTimeZoneStmt{}
	tok := p.cur()
	switch {
	case isKeyword(tok, "LOCAL"), isKeyword(tok, "DEFAULT"):
		p.pos++
		stmt.Local = true
	case tok.Type == TokenString:
		p.pos++
		stmt.Zone = tok.Text
	case tok.Type == TokenIdent:
		p.pos++
		stmt.Zone = strings.ToLower(tok.Text)
	case tok.Type == TokenNumber, tok.isOp("-"), tok.isOp("+"):
		start := tok.Off
		end := tok.End
		p.pos++
		if tok.Type != TokenNumber && p.cur().Type == TokenNumber {
			end = p.cur().End
			p.pos++
		}
		stmt.Zone = p.src[start:end]
	default:
		return nil, fmt.Errorf("sqlparser: invalid SET TIME ZONE value at offset %d", tok.Off)
	}
	return stmt, p.expectDone()
}
