package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/earth-metabolome-initiative/schemacat"
	"github.com/earth-metabolome-initiative/schemacat/catalog"
)

func testCatalog(t *testing.T, name, src string) *catalog.Catalog {
	t.Helper()
	c, err := schemacat.BuildSQL(name, src)
	require.NoError(t, err)
	return c
}

const describeSQL = `
CREATE ROLE app LOGIN;
CREATE FUNCTION touch() RETURNS trigger LANGUAGE plpgsql AS $$
BEGIN
    NEW.updated_at = now();
    RETURN NEW;
END
$$;

-- Account records.
CREATE TABLE users (
    id SERIAL PRIMARY KEY,
    email TEXT NOT NULL,
    updated_at TIMESTAMPTZ,
    CONSTRAINT users_alive CHECK (1 = 1)
);
CREATE INDEX users_recent_idx ON users (updated_at);
CREATE TRIGGER users_touch BEFORE UPDATE ON users FOR EACH ROW EXECUTE FUNCTION touch();
ALTER TABLE users ENABLE ROW LEVEL SECURITY;
CREATE POLICY users_self ON users FOR SELECT TO app USING (email <> '');

CREATE TABLE posts (
    id SERIAL PRIMARY KEY,
    author_id INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE
);
`

func TestRenderTable(t *testing.T) {
	c := testCatalog(t, "describe_test", describeSQL)
	tbl, ok := c.Table("public", "users")
	require.True(t, ok)

	var buf bytes.Buffer
	renderTable(&buf, c, tbl, false)
	out := buf.String()

	assert.Contains(t, out, "Table public.users\n")
	assert.Contains(t, out, "  Account records.\n")
	assert.Contains(t, out, "  row level security: enabled\n")
	assert.Contains(t, out, "timestamp with time zone")
	assert.Contains(t, out, "nextval('users_id_seq')")
	assert.Contains(t, out, "\nprimary key: (id)\n")
	assert.Contains(t, out, "  users_pkey (id) unique, primary key\n")
	assert.Contains(t, out, "  users_recent_idx (updated_at)\n")
	assert.Contains(t, out, "  users_alive: 1 = 1 [always true]\n")
	assert.Contains(t, out, "  users_touch: BEFORE UPDATE FOR EACH ROW EXECUTE touch()\n")
	assert.Contains(t, out, "    sets updated_at = now()\n")
	assert.Contains(t, out, "  users_self: permissive SELECT to app\n")
	assert.Contains(t, out, "    using email <> ''\n")
}

func TestRenderTable_ForeignKeys(t *testing.T) {
	c := testCatalog(t, "describe_test", describeSQL)
	tbl, ok := c.Table("public", "posts")
	require.True(t, ok)

	var buf bytes.Buffer
	renderTable(&buf, c, tbl, false)

	assert.Contains(t, buf.String(), "foreign keys:\n")
	assert.Contains(t, buf.String(),
		"  posts_author_id_fkey (author_id) -> public.users (id) ON DELETE CASCADE\n")
}

func TestPrintSuggestions(t *testing.T) {
	c := testCatalog(t, "describe_test", describeSQL)

	var buf bytes.Buffer
	printSuggestions(&buf, c, "user")
	assert.Equal(t, "did you mean:\n  public.users\n", buf.String())

	buf.Reset()
	printSuggestions(&buf, c, "zzz")
	assert.Empty(t, buf.String())
}

func TestLookupTable(t *testing.T) {
	c := testCatalog(t, "describe_test", describeSQL)

	tbl, ok := lookupTable(c, "users")
	require.True(t, ok)
	assert.Equal(t, "public.users", tbl.QualifiedName())

	tbl, ok = lookupTable(c, "public.posts")
	require.True(t, ok)
	assert.Equal(t, "public.posts", tbl.QualifiedName())

	_, ok = lookupTable(c, "nope")
	assert.False(t, ok)
}

func TestPrintGrid(t *testing.T) {
	var buf bytes.Buffer
	printGrid(&buf, []string{"a", "long"}, [][]string{{"x", "y"}, {"wide", "z"}})

	want := "a    | long\n" +
		"-----+-----\n" +
		"x    | y   \n" +
		"wide | z   \n"
	assert.Equal(t, want, buf.String())
}
