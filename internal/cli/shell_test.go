package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatementComplete(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"SELECT 1", false},
		{"SELECT 1;", true},
		{"SELECT ';", false},
		{"SELECT ';' ", false},
		{"SELECT ';';", true},
		{"SELECT 'it''s done;' ", false},
		{"SELECT 'it''s';", true},
		{"CREATE FUNCTION f() AS $$ BEGIN x; END", false},
		{"CREATE FUNCTION f() AS $$ BEGIN x; END $$", false},
		{"CREATE FUNCTION f() AS $$ x; $$ LANGUAGE sql;", true},
		{"$body$ ; $body$;", true},
		{"$body$ ; $other$", false},
		{"-- trailing comment;", false},
		{"-- note\nSELECT 1;", true},
		{"/* block; */ SELECT 1", false},
		{"/* block; */ SELECT 1;", true},
		{"/* open ;", false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statementComplete(tc.in), "input %q", tc.in)
	}
}

func TestDollarTag(t *testing.T) {
	assert.Equal(t, "$$", dollarTag("$$ body"))
	assert.Equal(t, "$fn$", dollarTag("$fn$ body"))
	assert.Equal(t, "", dollarTag("$"))
	assert.Equal(t, "", dollarTag("$1,000"))
	assert.Equal(t, "", dollarTag("$never closed"))
}

func TestCompactOneLine(t *testing.T) {
	in := "CREATE TABLE a (\n\tid INTEGER,\r\n  body TEXT\n);"
	assert.Equal(t, "CREATE TABLE a ( id INTEGER, body TEXT );", compactOneLine(in))
}

func TestHistory_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "history")

	h := newHistory(path)
	require.NoError(t, h.load(10))
	require.Empty(t, h.lines)

	require.NoError(t, h.append("CREATE TABLE a (\n  id INTEGER\n);"))
	require.NoError(t, h.append("SET TIME ZONE 'UTC';"))

	reloaded := newHistory(path)
	require.NoError(t, reloaded.load(10))
	require.Equal(t, []string{
		"CREATE TABLE a ( id INTEGER );",
		"SET TIME ZONE 'UTC';",
	}, reloaded.lines)

	var buf bytes.Buffer
	reloaded.print(&buf, 1)
	assert.Equal(t, "    2  SET TIME ZONE 'UTC';\n", buf.String())
}

func TestHistory_LoadKeepsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	h := newHistory(path)
	for i := 0; i < 5; i++ {
		require.NoError(t, h.append("SELECT 1;"))
	}
	require.NoError(t, h.append("SELECT 2;"))

	reloaded := newHistory(path)
	require.NoError(t, reloaded.load(2))
	require.Equal(t, []string{"SELECT 1;", "SELECT 2;"}, reloaded.lines)
}

func newTestSession(t *testing.T, src string) (*session, *bytes.Buffer) {
	t.Helper()
	var out bytes.Buffer
	s := &session{out: &out}
	require.NoError(t, s.load("shell_test", src))
	return s, &out
}

func TestSessionExec_AppendsStatements(t *testing.T) {
	s, out := newTestSession(t, "CREATE TABLE users (id SERIAL PRIMARY KEY);")

	s.exec("CREATE TABLE posts (id SERIAL PRIMARY KEY, author_id INTEGER REFERENCES users (id));")

	assert.Equal(t, "ok (tables: 2)\n", out.String())
	assert.Len(t, s.cat.Tables(), 2)
	assert.Len(t, s.stmts, 2)
}

func TestSessionExec_RollsBackOnError(t *testing.T) {
	s, out := newTestSession(t, "CREATE TABLE users (id SERIAL PRIMARY KEY);")

	s.exec("CREATE TABLE users (id INTEGER);")

	assert.Contains(t, out.String(), "error: ")
	assert.Len(t, s.cat.Tables(), 1)
	assert.Len(t, s.stmts, 1)
}

func TestSessionExec_ParseError(t *testing.T) {
	s, out := newTestSession(t, "")

	s.exec("CREATE TABLE (")

	assert.Contains(t, out.String(), "error: ")
	assert.Empty(t, s.stmts)
}

func TestSessionExec_PicksUpDocComments(t *testing.T) {
	s, _ := newTestSession(t, "")

	s.exec("-- Billing ledger.\nCREATE TABLE ledger (id SERIAL PRIMARY KEY);")

	tbl, ok := s.cat.Table("public", "ledger")
	require.True(t, ok)
	assert.Equal(t, "Billing ledger.", tbl.Doc())
}

func TestSessionMeta_Quit(t *testing.T) {
	s, _ := newTestSession(t, "")
	assert.True(t, s.meta(`\q`, newHistory("")))
	assert.False(t, s.meta(`\dt`, newHistory("")))
}

func TestSessionMeta_ListAndDescribe(t *testing.T) {
	s, out := newTestSession(t, "CREATE TABLE users (id SERIAL PRIMARY KEY);")

	s.meta(`\dt`, newHistory(""))
	assert.Equal(t, "public.users\n", out.String())

	out.Reset()
	s.meta(`\d users`, newHistory(""))
	assert.Contains(t, out.String(), "Table public.users\n")

	out.Reset()
	s.meta(`\oops`, newHistory(""))
	assert.Equal(t, "unknown command: \\oops\n", out.String())
}
