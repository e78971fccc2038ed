package sqlparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseExpr_Precedence(t *testing.T) {
	e, err := ParseExpr("a + b * c")
	require.NoError(t, err)

	add, ok := e.(*Binary)
	require.True(t, ok, "want *Binary, got %T", e)
	assert.Equal(t, "+", add.Op)
	mul, ok := add.Right.(*Binary)
	require.True(t, ok, "want *Binary, got %T", add.Right)
	assert.Equal(t, "*", mul.Op)
}

func TestParseExpr_AndBindsTighterThanOr(t *testing.T) {
	e, err := ParseExpr("a OR b AND c")
	require.NoError(t, err)

	or, ok := e.(*Binary)
	require.True(t, ok, "want *Binary, got %T", e)
	assert.Equal(t, "OR", or.Op)
	and, ok := or.Right.(*Binary)
	require.True(t, ok, "want *Binary, got %T", or.Right)
	assert.Equal(t, "AND", and.Op)
}

func TestParseExpr_Grouping(t *testing.T) {
	e, err := ParseExpr("(a + b) * c")
	require.NoError(t, err)

	mul := e.(*Binary)
	assert.Equal(t, "*", mul.Op)
	_, ok := mul.Left.(*Paren)
	assert.True(t, ok, "want *Paren, got %T", mul.Left)
	assert.Equal(t, "(a + b) * c", e.String())
}

func TestParseExpr_IsNull(t *testing.T) {
	e, err := ParseExpr("email IS NOT NULL")
	require.NoError(t, err)

	isNull, ok := e.(*IsNull)
	require.True(t, ok, "want *IsNull, got %T", e)
	assert.True(t, isNull.Not)
	assert.Equal(t, "email IS NOT NULL", e.String())

	e, err = ParseExpr("email IS NULL")
	require.NoError(t, err)
	assert.False(t, e.(*IsNull).Not)
}

func TestParseExpr_In(t *testing.T) {
	e, err := ParseExpr("status IN ('new', 'open')")
	require.NoError(t, err)

	in, ok := e.(*In)
	require.True(t, ok, "want *In, got %T", e)
	assert.False(t, in.Not)
	require.Len(t, in.List, 2)
	assert.Equal(t, "status IN ('new', 'open')", e.String())
}

func TestParseExpr_NotBetween(t *testing.T) {
	e, err := ParseExpr("qty NOT BETWEEN 1 AND 10")
	require.NoError(t, err)

	between, ok := e.(*Between)
	require.True(t, ok, "want *Between, got %T", e)
	assert.True(t, between.Not)
	assert.Equal(t, "qty NOT BETWEEN 1 AND 10", e.String())
}

func TestParseExpr_Like(t *testing.T) {
	e, err := ParseExpr("name LIKE 'a%'")
	require.NoError(t, err)

	like, ok := e.(*Binary)
	require.True(t, ok, "want *Binary, got %T", e)
	assert.Equal(t, "LIKE", like.Op)
	assert.Equal(t, "name LIKE 'a%'", e.String())
}

func TestParseExpr_Not(t *testing.T) {
	e, err := ParseExpr("NOT deleted")
	require.NoError(t, err)

	not, ok := e.(*Unary)
	require.True(t, ok, "want *Unary, got %T", e)
	assert.Equal(t, "NOT", not.Op)
	assert.Equal(t, "NOT deleted", e.String())
}

func TestParseExpr_Cast(t *testing.T) {
	e, err := ParseExpr("created_at::date")
	require.NoError(t, err)

	cast, ok := e.(*Cast)
	require.True(t, ok, "want *Cast, got %T", e)
	assert.Equal(t, "date", cast.Type)

	e, err = ParseExpr("CAST(x AS integer)")
	require.NoError(t, err)
	cast, ok = e.(*Cast)
	require.True(t, ok, "want *Cast, got %T", e)
	assert.Equal(t, "integer", cast.Type)
	assert.Equal(t, "x::integer", e.String())
}

func TestParseExpr_FuncCall(t *testing.T) {
	e, err := ParseExpr("coalesce(a, b, 0)")
	require.NoError(t, err)

	call, ok := e.(*FuncCall)
	require.True(t, ok, "want *FuncCall, got %T", e)
	assert.Equal(t, "coalesce", call.Name)
	assert.Len(t, call.Args, 3)

	e, err = ParseExpr("count(*)")
	require.NoError(t, err)
	call = e.(*FuncCall)
	assert.True(t, call.Star)
	assert.Equal(t, "count(*)", e.String())
}

func TestParseExpr_NileadicFunc(t *testing.T) {
	e, err := ParseExpr("current_timestamp")
	require.NoError(t, err)

	call, ok := e.(*FuncCall)
	require.True(t, ok, "want *FuncCall, got %T", e)
	assert.Equal(t, "current_timestamp", call.Name)
	assert.Empty(t, call.Args)
}

func TestParseExpr_QualifiedColumn(t *testing.T) {
	e, err := ParseExpr("NEW.updated_at")
	require.NoError(t, err)

	ref, ok := e.(*ColumnRef)
	require.True(t, ok, "want *ColumnRef, got %T", e)
	assert.Equal(t, "new", ref.Table)
	assert.Equal(t, "updated_at", ref.Name)
}

func TestParseExpr_UnarySign(t *testing.T) {
	e, err := ParseExpr("-5")
	require.NoError(t, err)

	neg, ok := e.(*Unary)
	require.True(t, ok, "want *Unary, got %T", e)
	assert.Equal(t, "-5", neg.String())
}

func TestParseExpr_StringRoundTrip(t *testing.T) {
	cases := []string{
		"price > 0",
		"a AND b OR c",
		"length(name) BETWEEN 1 AND 64",
		"lower(email) = email",
		"a IS NULL OR a IS NOT NULL",
		"first || ' ' || last",
	}
	for _, src := range cases {
		e, err := ParseExpr(src)
		require.NoError(t, err, "src: %s", src)
		assert.Equal(t, src, e.String(), "src: %s", src)
	}
}

func TestParseExpr_Errors(t *testing.T) {
	cases := []string{
		"1 +",
		"(a",
		"a IN (",
		"",
		"a b c",
	}
	for _, src := range cases {
		_, err := ParseExpr(src)
		assert.Error(t, err, "src: %q", src)
	}
}
