package sqlparser

import (
	"fmt"
	"strings"
)

func (p *parser) parseCreateTable() (Statement, error) {
	p.matchKeyword("CREATE", "TABLE")
	stmt := &CreateTableStmt{}
	if p.matchKeyword("IF", "NOT", "EXISTS") {
		stmt.IfNotExists = true
	}

	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE TABLE syntax: %w", err)
	}
	stmt.Schema, stmt.Name = qn.Schema, qn.Name

	if err := p.expectOp("("); err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE TABLE syntax: %w", err)
	}

	for !p.cur().isOp(")") {
		if p.peekKeyword("CONSTRAINT") || p.peekKeyword("PRIMARY", "KEY") ||
			p.peekKeyword("FOREIGN", "KEY") || p.peekKeyword("CHECK") ||
			(p.peekKeyword("UNIQUE") && p.at(1).isOp("(")) {
			tc, err := p.parseTableConstraint()
			if err != nil {
				return nil, err
			}
			stmt.Constraints = append(stmt.Constraints, tc)
		} else {
			col, err := p.parseColumnDef()
			if err != nil {
				return nil, err
			}
			stmt.Columns = append(stmt.Columns, col)
		}
		if p.matchOp(",") {
			continue
		}
		break
	}

	if err := p.expectOp(")"); err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE TABLE syntax: %w", err)
	}
	// Trailing storage parameters (WITH, TABLESPACE, ...) carry no schema
	// information and are skipped.
	return stmt, nil
}

func (p *parser) parseColumnDef() (ColumnDef, error) {
	name, err := p.ident()
	if err != nil {
		return ColumnDef{}, fmt.Errorf("sqlparser: invalid column definition: %w", err)
	}
	typ, err := p.parseTypeName()
	if err != nil {
		return ColumnDef{}, fmt.Errorf("sqlparser: invalid column %q: %w", name, err)
	}

	col := ColumnDef{Name: name, Type: typ}
	for {
		opt, ok, err := p.parseColumnOption()
		if err != nil {
			return ColumnDef{}, fmt.Errorf("sqlparser: invalid column %q: %w", name, err)
		}
		if !ok {
			return col, nil
		}
		col.Options = append(col.Options, opt)
	}
}

// parseColumnOption consumes one column option. ok=false means the next
// token does not start an option (end of this column definition).
func (p *parser) parseColumnOption() (ColumnOption, bool, error) {
	constraintName := ""
	if p.matchKeyword("CONSTRAINT") {
		n, err := p.ident()
		if err != nil {
			return nil, false, err
		}
		constraintName = n
	}

	switch {
	case p.matchKeyword("NOT", "NULL"):
		return &NotNullOption{}, true, nil
	case p.matchKeyword("NULL"):
		return &NullOption{}, true, nil
	case p.matchKeyword("PRIMARY", "KEY"):
		return &PrimaryKeyOption{}, true, nil
	case p.matchKeyword("UNIQUE"):
		return &UniqueOption{}, true, nil
	case p.matchKeyword("DEFAULT"):
		e, err := p.parseExpr()
		if err != nil {
			return nil, false, err
		}
		return &DefaultOption{Expr: e}, true, nil
	case p.matchKeyword("GENERATED"):
		if err := p.expectKeyword("ALWAYS"); err != nil {
			return nil, false, err
		}
		if err := p.expectKeyword("AS"); err != nil {
			return nil, false, err
		}
		e, err := p.parseParenExpr()
		if err != nil {
			return nil, false, err
		}
		p.matchKeyword("STORED")
		return &GeneratedOption{Expr: e}, true, nil
	case p.matchKeyword("CHECK"):
		e, err := p.parseParenExpr()
		if err != nil {
			return nil, false, err
		}
		return &CheckOption{Name: constraintName, Expr: e}, true, nil
	case p.matchKeyword("REFERENCES"):
		ref, err := p.parseReferences()
		if err != nil {
			return nil, false, err
		}
		return ref, true, nil
	}

	if constraintName != "" {
		return nil, false, fmt.Errorf("expected constraint after CONSTRAINT %q", constraintName)
	}
	return nil, false, nil
}

func (p *parser) parseReferences() (*ReferencesOption, error) {
	qn, err := p.qualifiedName()
	if err != nil {
		return nil, err
	}
	ref := &ReferencesOption{RefSchema: qn.Schema, RefTable: qn.Name}
	if p.cur().isOp("(") {
		cols, err := p.parenIdentList()
		if err != nil {
			return nil, err
		}
		ref.RefColumns = cols
	}
	ref.OnDelete, ref.OnUpdate, err = p.parseRefActions()
	if err != nil {
		return nil, err
	}
	return ref, nil
}

// parseRefActions consumes any ON DELETE / ON UPDATE clauses.
func (p *parser) parseRefActions() (onDelete, onUpdate string, err error) {
	for p.peekKeyword("ON") {
		isDelete := false
		switch {
		case p.matchKeyword("ON", "DELETE"):
			isDelete = true
		case p.matchKeyword("ON", "UPDATE"):
		default:
			return onDelete, onUpdate, nil
		}

		var action string
		switch {
		case p.matchKeyword("CASCADE"):
			action = "CASCADE"
		case p.matchKeyword("RESTRICT"):
			action = "RESTRICT"
		case p.matchKeyword("NO", "ACTION"):
			action = "NO ACTION"
		case p.matchKeyword("SET", "NULL"):
			action = "SET NULL"
		case p.matchKeyword("SET", "DEFAULT"):
			action = "SET DEFAULT"
		default:
			return "", "", fmt.Errorf("invalid referential action at offset %d", p.cur().Off)
		}
		if isDelete {
			onDelete = action
		} else {
			onUpdate = action
		}
	}
	return onDelete, onUpdate, nil
}

func (p *parser) parseTableConstraint() (TableConstraint, error) {
	name := ""
	if p.matchKeyword("CONSTRAINT") {
		n, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid table constraint: %w", err)
		}
		name = n
	}

	switch {
	case p.matchKeyword("PRIMARY", "KEY"):
		cols, err := p.parenIdentList()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid PRIMARY KEY constraint: %w", err)
		}
		return &PrimaryKeyConstraint{Name: name, Columns: cols}, nil
	case p.matchKeyword("UNIQUE"):
		cols, err := p.parenIdentList()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid UNIQUE constraint: %w", err)
		}
		return &UniqueConstraint{Name: name, Columns: cols}, nil
	case p.matchKeyword("CHECK"):
		e, err := p.parseParenExpr()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid CHECK constraint: %w", err)
		}
		return &CheckConstraint{Name: name, Expr: e}, nil
	case p.matchKeyword("FOREIGN", "KEY"):
		cols, err := p.parenIdentList()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid FOREIGN KEY constraint: %w", err)
		}
		if err := p.expectKeyword("REFERENCES"); err != nil {
			return nil, err
		}
		ref, err := p.parseReferences()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid FOREIGN KEY constraint: %w", err)
		}
		return &ForeignKeyConstraint{
			Name:       name,
			Columns:    cols,
			RefSchema:  ref.RefSchema,
			RefTable:   ref.RefTable,
			RefColumns: ref.RefColumns,
			OnDelete:   ref.OnDelete,
			OnUpdate:   ref.OnUpdate,
		}, nil
	}
	return nil, fmt.Errorf("sqlparser: invalid table constraint at offset %d", p.cur().Off)
}

// typeLeadWords start multi-word type names; an identifier pair whose first
// word is one of these is a type, not an argument name.
var typeLeadWords = map[string]bool{
	"double":    true,
	"character": true,
	"timestamp": true,
	"time":      true,
	"bit":       true,
}

// parseTypeName consumes a type name: one or more words, an optional
// parenthesized modifier and an optional [] array suffix. The raw source
// spelling is preserved; normalization is the consumer's concern.
func (p *parser) parseTypeName() (string, error) {
	first, err := p.ident()
	if err != nil {
		return "", err
	}
	words := []string{first}

	switch first {
	case "double":
		if p.matchKeyword("PRECISION") {
			words = append(words, "precision")
		}
	case "character", "bit":
		if p.matchKeyword("VARYING") {
			words = append(words, "varying")
		}
	case "timestamp", "time":
		if p.matchKeyword("WITH", "TIME", "ZONE") {
			words = append(words, "with", "time", "zone")
		} else if p.matchKeyword("WITHOUT", "TIME", "ZONE") {
			words = append(words, "without", "time", "zone")
		}
	}

	typ := strings.Join(words, " ")
	if p.cur().isOp("(") {
		mod, err := p.parenSpan()
		if err != nil {
			return "", err
		}
		typ += mod
	}
	if p.cur().isOp("[") && p.at(1).isOp("]") {
		p.pos += 2
		typ += "[]"
	}
	return typ, nil
}

// parenSpan consumes a balanced parenthesized group and returns its exact
// source text, parentheses included.
func (p *parser) parenSpan() (string, error) {
	open := p.cur()
	if !open.isOp("(") {
		return "", fmt.Errorf("expected %q at offset %d", "(", open.Off)
	}
	depth := 0
	for !p.done() {
		tok := p.advance()
		if tok.isOp("(") {
			depth++
		} else if tok.isOp(")") {
			depth--
			if depth == 0 {
				return p.src[open.Off:tok.End], nil
			}
		}
	}
	return "", fmt.Errorf("unbalanced parentheses at offset %d", open.Off)
}

func (p *parser) parseCreateIndex() (Statement, error) {
	p.matchKeyword("CREATE")
	stmt := &CreateIndexStmt{}
	if p.matchKeyword("UNIQUE") {
		stmt.Unique = true
	}
	p.matchKeyword("INDEX")
	if p.matchKeyword("IF", "NOT", "EXISTS") {
		stmt.IfNotExists = true
	}
	if !p.peekKeyword("ON") {
		name, err := p.ident()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid CREATE INDEX syntax: %w", err)
		}
		stmt.Name = name
	}
	if err := p.expectKeyword("ON"); err != nil {
		return nil, err
	}
	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE INDEX syntax: %w", err)
	}
	stmt.Schema, stmt.Table = qn.Schema, qn.Name

	if p.matchKeyword("USING") {
		if _, err := p.ident(); err != nil {
			return nil, fmt.Errorf("sqlparser: invalid CREATE INDEX syntax: %w", err)
		}
	}
	cols, err := p.parenIdentList()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid CREATE INDEX syntax: %w", err)
	}
	stmt.Columns = cols
	// WHERE predicates and storage options carry no catalog information.
	return stmt, nil
}

func (p *parser) parseDropTable() (Statement, error) {
	p.matchKeyword("DROP", "TABLE")
	stmt := &DropTableStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}
	for {
		qn, err := p.qualifiedName()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid DROP TABLE syntax: %w", err)
		}
		stmt.Tables = append(stmt.Tables, qn)
		if !p.matchOp(",") {
			break
		}
	}
	stmt.Cascade = p.dropQualifiers()
	return stmt, p.expectDone()
}

func (p *parser) parseDropIndex() (Statement, error) {
	p.matchKeyword("DROP", "INDEX")
	stmt := &DropIndexStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}
	p.matchKeyword("CONCURRENTLY")
	for {
		qn, err := p.qualifiedName()
		if err != nil {
			return nil, fmt.Errorf("sqlparser: invalid DROP INDEX syntax: %w", err)
		}
		stmt.Names = append(stmt.Names, qn.Name)
		if !p.matchOp(",") {
			break
		}
	}
	stmt.Cascade = p.dropQualifiers()
	return stmt, p.expectDone()
}

func (p *parser) parseAlterTable() (Statement, error) {
	p.matchKeyword("ALTER", "TABLE")
	stmt := &AlterTableStmt{}
	if p.matchKeyword("IF", "EXISTS") {
		stmt.IfExists = true
	}
	p.matchKeyword("ONLY")
	qn, err := p.qualifiedName()
	if err != nil {
		return nil, fmt.Errorf("sqlparser: invalid ALTER TABLE syntax: %w", err)
	}
	stmt.Schema, stmt.Table = qn.Schema, qn.Name

	switch {
	case p.matchKeyword("ENABLE", "ROW", "LEVEL", "SECURITY"):
		stmt.Action = AlterEnableRLS
	case p.matchKeyword("DISABLE", "ROW", "LEVEL", "SECURITY"):
		stmt.Action = AlterDisableRLS
	case p.matchKeyword("FORCE", "ROW", "LEVEL", "SECURITY"):
		stmt.Action = AlterForceRLS
	case p.matchKeyword("NO", "FORCE", "ROW", "LEVEL", "SECURITY"):
		stmt.Action = AlterNoForceRLS
	default:
		stmt.Action = AlterOther
		if !p.done() {
			stmt.Text = strings.TrimSpace(p.src[p.cur().Off:p.toks[len(p.toks)-1].End])
		}
		p.pos = len(p.toks)
	}
	return stmt, nil
}
