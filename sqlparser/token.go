package sqlparser

// TokenType classifies a lexed token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenIdent
	TokenQuotedIdent
	TokenNumber
	TokenString
	TokenDollarString
	TokenOp
)

// Token is one lexed unit of SQL text.
//
// Text holds the useful form of the token:
//   - TokenIdent: the identifier as written (callers fold case)
//   - TokenQuotedIdent: the identifier with quotes stripped
//   - TokenString / TokenDollarString: the decoded literal body
//   - TokenNumber / TokenOp: the exact source text
//
// Off and End are byte offsets into the original source, so a span of
// tokens can always be mapped back to the text it came from.
type Token struct {
	Type TokenType
	Text string
	Off  int
	End  int
}

func (t Token) String() string {
	if t.Type == TokenEOF {
		return "EOF"
	}
	return t.Text
}

// isOp reports whether the token is the exact operator symbol s.
func (t Token) isOp(s string) bool {
	return t.Type == TokenOp && t.Text == s
}
