package schemacat

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

func TestBuildSQL_AttachesDocs(t *testing.T) {
	src := `
-- Registered users.
CREATE TABLE users (
    id SERIAL PRIMARY KEY,
    email TEXT NOT NULL
);
`
	c, err := BuildSQL("app", src)
	require.NoError(t, err)
	require.Equal(t, "app", c.Name())

	tbl, ok := c.Table("public", "users")
	require.True(t, ok)
	require.Equal(t, "Registered users.", tbl.Doc())
}

func TestBuildSQL_ParseError(t *testing.T) {
	_, err := BuildSQL("app", "CREATE TABLE (")
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse: ")
}

func TestBuildStatements(t *testing.T) {
	stmts, err := sqlparser.Parse("CREATE TABLE t (id INTEGER);")
	require.NoError(t, err)

	c, err := BuildStatements("stmts", stmts)
	require.NoError(t, err)
	require.Len(t, c.Tables(), 1)
}

func TestBuildPath_Directory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("10_users.sql", "CREATE TABLE users (id SERIAL PRIMARY KEY);")
	write("20_posts.sql", `
CREATE TABLE posts (
    id SERIAL PRIMARY KEY,
    author_id INTEGER NOT NULL REFERENCES users (id)
);
`)

	c, err := BuildPath("blog", dir)
	require.NoError(t, err)
	require.Len(t, c.Tables(), 2)
	require.Len(t, c.ForeignKeys(), 1)
}

func TestBuildPath_MissingPath(t *testing.T) {
	_, err := BuildPath("x", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
