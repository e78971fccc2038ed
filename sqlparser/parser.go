// Package sqlparser lexes and parses the subset of SQL DDL that the catalog
// model understands. Statements it does not recognize are preserved as
// RawStmt values rather than rejected; callers decide what to do with them.
package sqlparser

import (
	"fmt"
	"strings"
)

// parser walks one statement's token slice. src is the full original text so
// spans can be recovered for raw statements and action text.
type parser struct {
	toks []Token
	pos  int
	src  string
}

func (p *parser) cur() Token {
	if p.pos >= len(p.toks) {
		return Token{Type: TokenEOF}
	}
	return p.toks[p.pos]
}

func (p *parser) at(off int) Token {
	if p.pos+off >= len(p.toks) {
		return Token{Type: TokenEOF}
	}
	return p.toks[p.pos+off]
}

func (p *parser) advance() Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *parser) done() bool {
	return p.cur().Type == TokenEOF
}

// isKeyword reports whether tok is the given bare keyword. Quoted
// identifiers never match keywords.
func isKeyword(tok Token, word string) bool {
	return tok.Type == TokenIdent && strings.EqualFold(tok.Text, word)
}

func (p *parser) peekKeyword(words ...string) bool {
	for i, w := range words {
		if !isKeyword(p.at(i), w) {
			return false
		}
	}
	return true
}

// matchKeyword consumes the keyword sequence if present.
func (p *parser) matchKeyword(words ...string) bool {
	if !p.peekKeyword(words...) {
		return false
	}
	p.pos += len(words)
	return true
}

func (p *parser) expectKeyword(word string) error {
	if p.matchKeyword(word) {
		return nil
	}
	return fmt.Errorf("sqlparser: expected %s, found %q at offset %d", word, p.cur().String(), p.cur().Off)
}

func (p *parser) matchOp(s string) bool {
	if p.cur().isOp(s) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectOp(s string) error {
	if p.matchOp(s) {
		return nil
	}
	return fmt.Errorf("sqlparser: expected %q, found %q at offset %d", s, p.cur().String(), p.cur().Off)
}

// ident consumes an identifier. Unquoted identifiers fold to lower case the
// way PostgreSQL folds them; quoted identifiers keep their exact text.
func (p *parser) ident() (string, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenIdent:
		p.pos++
		return strings.ToLower(tok.Text), nil
	case TokenQuotedIdent:
		p.pos++
		return tok.Text, nil
	}
	return "", fmt.Errorf("sqlparser: expected identifier, found %q at offset %d", tok.String(), tok.Off)
}

// qualifiedName consumes ident or ident.ident.
func (p *parser) qualifiedName() (QualifiedName, error) {
	first, err := p.ident()
	if err != nil {
		return QualifiedName{}, err
	}
	if !p.matchOp(".") {
		return QualifiedName{Name: first}, nil
	}
	second, err := p.ident()
	if err != nil {
		return QualifiedName{}, err
	}
	return QualifiedName{Schema: first, Name: second}, nil
}

// identList consumes a comma-separated identifier list.
func (p *parser) identList() ([]string, error) {
	var out []string
	for {
		id, err := p.ident()
		if err != nil {
			return nil, err
		}
		out = append(out, id)
		if !p.matchOp(",") {
			return out, nil
		}
	}
}

// parenIdentList consumes "( a, b, ... )".
func (p *parser) parenIdentList() ([]string, error) {
	if err := p.expectOp("("); err != nil {
		return nil, err
	}
	cols, err := p.identList()
	if err != nil {
		return nil, err
	}
	if err := p.expectOp(")"); err != nil {
		return nil, err
	}
	return cols, nil
}

// Parse lexes src and parses every top-level statement, in order. Statement
// boundaries are semicolons outside strings, comments and dollar quoting.
// An unterminated final statement (no trailing semicolon) is accepted.
func Parse(src string) ([]Statement, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	var stmts []Statement
	start := 0
	for i := 0; i < len(toks); i++ {
		if toks[i].isOp(";") || toks[i].Type == TokenEOF {
			if i > start {
				stmt, err := parseStatement(toks[start:i], src)
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, stmt)
			}
			start = i + 1
		}
	}
	return stmts, nil
}

// parseStatement dispatches one semicolon-free token slice on its head
// keyword phrase.
func parseStatement(toks []Token, src string) (Statement, error) {
	p := &parser{toks: toks, src: src}

	switch {
	case p.peekKeyword("CREATE", "TABLE"):
		return p.parseCreateTable()
	case p.peekKeyword("CREATE", "INDEX"),
		p.peekKeyword("CREATE", "UNIQUE", "INDEX"):
		return p.parseCreateIndex()
	case p.peekKeyword("CREATE", "FUNCTION"),
		p.peekKeyword("CREATE", "OR", "REPLACE", "FUNCTION"):
		return p.parseCreateFunction()
	case p.peekKeyword("CREATE", "TRIGGER"):
		return p.parseCreateTrigger()
	case p.peekKeyword("CREATE", "POLICY"):
		return p.parseCreatePolicy()
	case p.peekKeyword("CREATE", "ROLE"):
		return p.parseCreateRole()
	case p.peekKeyword("CREATE", "SCHEMA"):
		return p.parseCreateSchema()
	case p.peekKeyword("DROP", "TABLE"):
		return p.parseDropTable()
	case p.peekKeyword("DROP", "INDEX"):
		return p.parseDropIndex()
	case p.peekKeyword("DROP", "FUNCTION"):
		return p.parseDropFunction()
	case p.peekKeyword("DROP", "TRIGGER"):
		return p.parseDropTrigger()
	case p.peekKeyword("DROP", "POLICY"):
		return p.parseDropPolicy()
	case p.peekKeyword("DROP", "ROLE"):
		return p.parseDropRole()
	case p.peekKeyword("DROP", "SCHEMA"):
		return p.parseDropSchema()
	case p.peekKeyword("ALTER", "TABLE"):
		return p.parseAlterTable()
	case p.peekKeyword("GRANT"):
		return p.parseGrant()
	case p.peekKeyword("REVOKE"):
		return p.parseRevoke()
	case p.peekKeyword("SET", "TIME", "ZONE"),
		p.peekKeyword("SET", "SESSION", "TIME", "ZONE"),
		p.peekKeyword("SET", "LOCAL", "TIME", "ZONE"):
		return p.parseSetTimeZone()
	default:
		return p.rawStmt(), nil
	}
}

// rawStmt wraps an unrecognized statement, classifying its head phrase so
// consumers can allow-list statement kinds without re-lexing.
func (p *parser) rawStmt() *RawStmt {
	text := ""
	if len(p.toks) > 0 {
		text = strings.TrimSpace(p.src[p.toks[0].Off:p.toks[len(p.toks)-1].End])
	}
	return &RawStmt{Keyword: headKeyword(p.toks), Text: text}
}

// headKeyword normalizes a statement's leading keyword phrase. CREATE, DROP
// and ALTER include the object kind ("CREATE VIEW"); phrases such as
// "SECURITY LABEL" and "CREATE MATERIALIZED VIEW" stay intact.
func headKeyword(toks []Token) string {
	word := func(i int) string {
		if i < len(toks) && toks[i].Type == TokenIdent {
			return strings.ToUpper(toks[i].Text)
		}
		return ""
	}

	first := word(0)
	switch first {
	case "":
		return ""
	case "CREATE", "DROP", "ALTER":
		i := 1
		if word(i) == "OR" && word(i+1) == "REPLACE" {
			i += 2
		}
		if word(i) == "UNIQUE" {
			i++
		}
		obj := word(i)
		if obj == "MATERIALIZED" && word(i+1) == "VIEW" {
			return first + " MATERIALIZED VIEW"
		}
		if obj == "" {
			return first
		}
		return first + " " + obj
	case "SECURITY":
		if word(1) == "LABEL" {
			return "SECURITY LABEL"
		}
		return first
	default:
		return first
	}
}

// dropQualifiers consumes trailing CASCADE or RESTRICT from a DROP
// statement. Returns true for CASCADE.
func (p *parser) dropQualifiers() bool {
	if p.matchKeyword("CASCADE") {
		return true
	}
	p.matchKeyword("RESTRICT")
	return false
}

// expectDone errors when tokens remain after a fully parsed statement.
func (p *parser) expectDone() error {
	if p.done() {
		return nil
	}
	return fmt.Errorf("sqlparser: unexpected %q at offset %d", p.cur().String(), p.cur().Off)
}
