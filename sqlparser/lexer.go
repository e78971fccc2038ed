package sqlparser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// lexer walks SQL source text and produces tokens. Comments are skipped;
// everything else becomes a token or an error.
type lexer struct {
	src string
	pos int
}

// Tokenize lexes src into a token slice terminated by a TokenEOF entry.
func Tokenize(src string) ([]Token, error) {
	lx := &lexer{src: src}
	var toks []Token
	for {
		tok, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.Type == TokenEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) peek() rune {
	if lx.pos >= len(lx.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(lx.src[lx.pos:])
	return r
}

func (lx *lexer) peekAt(off int) byte {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *lexer) advance() {
	_, w := utf8.DecodeRuneInString(lx.src[lx.pos:])
	lx.pos += w
}

// skipSpaceAndComments consumes whitespace, line comments and (possibly
// nested) block comments.
func (lx *lexer) skipSpaceAndComments() error {
	for lx.pos < len(lx.src) {
		r := lx.peek()
		switch {
		case unicode.IsSpace(r):
			lx.advance()
		case r == '-' && lx.peekAt(1) == '-':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case r == '/' && lx.peekAt(1) == '*':
			depth := 1
			lx.pos += 2
			for lx.pos < len(lx.src) && depth > 0 {
				if lx.src[lx.pos] == '/' && lx.peekAt(1) == '*' {
					depth++
					lx.pos += 2
				} else if lx.src[lx.pos] == '*' && lx.peekAt(1) == '/' {
					depth--
					lx.pos += 2
				} else {
					lx.pos++
				}
			}
			if depth > 0 {
				return fmt.Errorf("sqlparser: unterminated block comment at offset %d", lx.pos)
			}
		default:
			return nil
		}
	}
	return nil
}

func (lx *lexer) next() (Token, error) {
	if err := lx.skipSpaceAndComments(); err != nil {
		return Token{}, err
	}
	if lx.pos >= len(lx.src) {
		return Token{Type: TokenEOF, Off: lx.pos, End: lx.pos}, nil
	}

	start := lx.pos
	r := lx.peek()

	switch {
	case unicode.IsLetter(r) || r == '_':
		return lx.lexIdent(start), nil
	case unicode.IsDigit(r):
		return lx.lexNumber(start), nil
	case r == '\'':
		return lx.lexString(start)
	case r == '"':
		return lx.lexQuotedIdent(start)
	case r == '$':
		return lx.lexDollar(start)
	default:
		return lx.lexOp(start)
	}
}

func (lx *lexer) lexIdent(start int) Token {
	for lx.pos < len(lx.src) {
		r := lx.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '$' {
			break
		}
		lx.advance()
	}
	return Token{Type: TokenIdent, Text: lx.src[start:lx.pos], Off: start, End: lx.pos}
}

func (lx *lexer) lexNumber(start int) Token {
	seenDot := false
	for lx.pos < len(lx.src) {
		r := lx.peek()
		if r == '.' && !seenDot {
			seenDot = true
			lx.advance()
			continue
		}
		if !unicode.IsDigit(r) {
			break
		}
		lx.advance()
	}
	return Token{Type: TokenNumber, Text: lx.src[start:lx.pos], Off: start, End: lx.pos}
}

// lexString handles standard single-quoted literals. A doubled quote ''
// inside the literal decodes to a single quote.
func (lx *lexer) lexString(start int) (Token, error) {
	lx.pos++ // opening quote
	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\'' {
			if lx.peekAt(1) == '\'' {
				b.WriteByte('\'')
				lx.pos += 2
				continue
			}
			lx.pos++
			return Token{Type: TokenString, Text: b.String(), Off: start, End: lx.pos}, nil
		}
		b.WriteByte(c)
		lx.pos++
	}
	return Token{}, fmt.Errorf("sqlparser: unterminated string literal at offset %d", start)
}

func (lx *lexer) lexQuotedIdent(start int) (Token, error) {
	lx.pos++ // opening quote
	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '"' {
			if lx.peekAt(1) == '"' {
				b.WriteByte('"')
				lx.pos += 2
				continue
			}
			lx.pos++
			return Token{Type: TokenQuotedIdent, Text: b.String(), Off: start, End: lx.pos}, nil
		}
		b.WriteByte(c)
		lx.pos++
	}
	return Token{}, fmt.Errorf("sqlparser: unterminated quoted identifier at offset %d", start)
}

// lexDollar handles dollar-quoted strings: $$body$$ or $tag$body$tag$.
// A bare '$' that does not open a dollar quote is an operator token.
func (lx *lexer) lexDollar(start int) (Token, error) {
	rest := lx.src[lx.pos+1:]
	end := strings.IndexByte(rest, '$')
	if end < 0 {
		lx.pos++
		return Token{Type: TokenOp, Text: "$", Off: start, End: lx.pos}, nil
	}
	tag := rest[:end]
	for _, r := range tag {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			lx.pos++
			return Token{Type: TokenOp, Text: "$", Off: start, End: lx.pos}, nil
		}
	}
	delim := "$" + tag + "$"
	bodyStart := lx.pos + len(delim)
	close := strings.Index(lx.src[bodyStart:], delim)
	if close < 0 {
		return Token{}, fmt.Errorf("sqlparser: unterminated dollar-quoted string at offset %d", start)
	}
	lx.pos = bodyStart + close + len(delim)
	return Token{
		Type: TokenDollarString,
		Text: lx.src[bodyStart : bodyStart+close],
		Off:  start,
		End:  lx.pos,
	}, nil
}

func (lx *lexer) lexOp(start int) (Token, error) {
	two := ""
	if lx.pos+1 < len(lx.src) {
		two = lx.src[lx.pos : lx.pos+2]
	}
	switch two {
	case "::", ":=", "<=", ">=", "<>", "!=", "||":
		lx.pos += 2
		return Token{Type: TokenOp, Text: two, Off: start, End: lx.pos}, nil
	}

	c := lx.src[lx.pos]
	switch c {
	case '(', ')', '[', ']', ',', ';', '.', '=', '<', '>', '+', '-', '*', '/', '%', ':':
		lx.pos++
		return Token{Type: TokenOp, Text: string(c), Off: start, End: lx.pos}, nil
	}
	return Token{}, fmt.Errorf("sqlparser: unexpected character %q at offset %d", lx.peek(), start)
}
