package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parentChildSQL = `
	CREATE TABLE parent (id INT PRIMARY KEY);
	CREATE TABLE child (id INT, parent_id INT REFERENCES parent (id));`

func TestDropTable_BlockedByInboundForeignKey(t *testing.T) {
	err := buildErr(t, parentChildSQL+`
		DROP TABLE parent;`)
	assert.ErrorIs(t, err, ErrInUse)
	assert.Contains(t, err.Error(), "parent")
}

func TestDropTable_CascadeLeavesDanglingChild(t *testing.T) {
	c := build(t, parentChildSQL+`
		DROP TABLE parent CASCADE;`)

	_, ok := c.Table("public", "parent")
	assert.False(t, ok)

	// The child and its foreign key survive; the referenced end dangles.
	child := mustTable(t, c, "public", "child")
	fks := child.ForeignKeys(c)
	require.Len(t, fks, 1)
	_, ok = fks[0].ReferencedTable(c)
	assert.False(t, ok)
}

func TestDropTable_SelfReferenceDoesNotBlock(t *testing.T) {
	c := build(t, `
		CREATE TABLE tree (id INT PRIMARY KEY, parent_id INT REFERENCES tree (id));
		DROP TABLE tree;`)
	assert.Empty(t, c.Tables())
	assert.Empty(t, c.ForeignKeys())
}

func TestDropTable_InternalCascade(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY, v INT CHECK (v > 0));
		CREATE INDEX t_v ON t (v);
		CREATE FUNCTION touch() RETURNS trigger LANGUAGE plpgsql AS $$BEGIN RETURN NEW; END;$$;
		CREATE TRIGGER t_touch BEFORE INSERT ON t FOR EACH ROW EXECUTE FUNCTION touch();
		CREATE POLICY t_all ON t USING (TRUE);
		CREATE ROLE app;
		GRANT SELECT ON t TO app;
		DROP TABLE t;`)

	assert.Empty(t, c.Tables())
	assert.Empty(t, c.Indexes())
	assert.Empty(t, c.UniqueIndexes())
	assert.Empty(t, c.CheckConstraints())
	assert.Empty(t, c.Triggers())
	assert.Empty(t, c.Policies())
	assert.Empty(t, c.TableGrants())

	// The trigger function itself stays; only the table's members go.
	_, ok := c.Function("touch")
	assert.True(t, ok)
}

func TestDropTable_ShrinksMultiObjectGrant(t *testing.T) {
	c := build(t, `
		CREATE TABLE a (id INT PRIMARY KEY);
		CREATE TABLE b (id INT PRIMARY KEY);
		CREATE ROLE app;
		GRANT SELECT ON a, b TO app;
		DROP TABLE a;`)

	grants := c.TableGrants()
	require.Len(t, grants, 1)
	assert.Equal(t, []string{"public.b"}, grants[0].ObjectNames())
}

func TestDropTable_IfExists(t *testing.T) {
	c := build(t, `DROP TABLE IF EXISTS ghost;`)
	assert.Empty(t, c.Tables())

	err := buildErr(t, `DROP TABLE ghost;`)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestDropTable_IfExistsStillChecksReferences(t *testing.T) {
	err := buildErr(t, parentChildSQL+`
		DROP TABLE IF EXISTS parent;`)
	assert.ErrorIs(t, err, ErrInUse)
}

func TestDropIndex_ByBareName(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY, v INT);
		CREATE INDEX t_v ON t (v);
		DROP INDEX t_v;`)

	assert.Empty(t, c.Indexes())
	tbl := mustTable(t, c, "public", "t")
	assert.Empty(t, tbl.Indexes(c))

	err := buildErr(t, `DROP INDEX ghost;`)
	assert.ErrorIs(t, err, ErrDoesNotExist)

	c = build(t, `DROP INDEX IF EXISTS ghost;`)
	assert.Empty(t, c.Indexes())
}

func TestDropIndex_PrimaryKeyIndexClearsDesignation(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		DROP INDEX t_pkey;`)

	tbl := mustTable(t, c, "public", "t")
	assert.Empty(t, tbl.PrimaryKey())
	assert.Empty(t, c.UniqueIndexes())
	// Without the key designation the column follows its declaration.
	assert.True(t, mustColumn(t, tbl, "id").Nullable())
}

func TestDropFunction_InUse(t *testing.T) {
	base := `
		CREATE FUNCTION is_valid(v INT) RETURNS BOOLEAN LANGUAGE sql AS $$SELECT v > 0$$;
		CREATE TABLE t (v INT, CHECK (is_valid(v)));`

	err := buildErr(t, base+`
		DROP FUNCTION is_valid;`)
	assert.ErrorIs(t, err, ErrInUse)

	// IF EXISTS bypasses only the existence check, never the usage check.
	err = buildErr(t, base+`
		DROP FUNCTION IF EXISTS is_valid;`)
	assert.ErrorIs(t, err, ErrInUse)

	err = buildErr(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		CREATE FUNCTION visible() RETURNS BOOLEAN LANGUAGE sql AS $$SELECT TRUE$$;
		CREATE POLICY p ON t USING (visible());
		DROP FUNCTION visible;`)
	assert.ErrorIs(t, err, ErrInUse)

	err = buildErr(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		CREATE FUNCTION touch() RETURNS trigger LANGUAGE plpgsql AS $$BEGIN RETURN NEW; END;$$;
		CREATE TRIGGER tr BEFORE INSERT ON t FOR EACH ROW EXECUTE FUNCTION touch();
		DROP FUNCTION touch;`)
	assert.ErrorIs(t, err, ErrInUse)
}

func TestDropFunction_Unreferenced(t *testing.T) {
	c := build(t, `
		CREATE FUNCTION f() RETURNS INT LANGUAGE sql AS $$SELECT 1$$;
		DROP FUNCTION f;`)
	_, ok := c.FunctionExact("f", nil)
	assert.False(t, ok)

	// Builtins are ordinary functions and can be dropped while unused.
	c = build(t, `DROP FUNCTION gen_random_uuid;`)
	_, ok = c.Function("gen_random_uuid")
	assert.False(t, ok)
}

func TestDropFunction_AmbiguousOverloads(t *testing.T) {
	overloads := `
		CREATE FUNCTION f() RETURNS INT LANGUAGE sql AS $$SELECT 1$$;
		CREATE FUNCTION f(x INT) RETURNS INT LANGUAGE sql AS $$SELECT x$$;`

	err := buildErr(t, overloads+`
		DROP FUNCTION f;`)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	c := build(t, overloads+`
		DROP FUNCTION f(INT);`)
	_, ok := c.FunctionExact("f", []string{"integer"})
	assert.False(t, ok)
	_, ok = c.FunctionExact("f", nil)
	assert.True(t, ok)

	err = buildErr(t, `DROP FUNCTION f(INT);`)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestDropTrigger(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		CREATE FUNCTION touch() RETURNS trigger LANGUAGE plpgsql AS $$BEGIN RETURN NEW; END;$$;
		CREATE TRIGGER tr BEFORE INSERT ON t FOR EACH ROW EXECUTE FUNCTION touch();
		DROP TRIGGER tr ON t;`)
	assert.Empty(t, c.Triggers())

	err := buildErr(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		DROP TRIGGER ghost ON t;`)
	assert.ErrorIs(t, err, ErrDoesNotExist)

	c = build(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		DROP TRIGGER IF EXISTS ghost ON t;`)
	assert.Empty(t, c.Triggers())
}

func TestDropPolicy(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		CREATE POLICY p ON t USING (TRUE);
		DROP POLICY p ON t;`)
	assert.Empty(t, c.Policies())

	err := buildErr(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		DROP POLICY ghost ON t;`)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestDropRole_BlockedByGrant(t *testing.T) {
	err := buildErr(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		CREATE ROLE app;
		GRANT SELECT ON t TO app;
		DROP ROLE app;`)
	assert.ErrorIs(t, err, ErrInUse)

	// After the grant is revoked the role is free to go.
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		CREATE ROLE app;
		GRANT SELECT ON t TO app;
		REVOKE SELECT ON t FROM app;
		DROP ROLE app;`)
	assert.Empty(t, c.Roles())
}

func TestDropRole_PolicyDoesNotBlock(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		CREATE ROLE app;
		CREATE POLICY p ON t TO app USING (TRUE);
		DROP ROLE app;`)
	assert.Empty(t, c.Roles())

	// The policy keeps the stale role name and resolves nothing.
	ps := c.Policies()
	require.Len(t, ps, 1)
	assert.Equal(t, []string{"app"}, ps[0].RoleNames())
	assert.Empty(t, ps[0].Roles(c))
}

func TestDropSchema_RequiresEmptyUnlessCascade(t *testing.T) {
	inhabited := `
		CREATE SCHEMA app;
		CREATE TABLE app.users (id INT PRIMARY KEY);`

	err := buildErr(t, inhabited+`
		DROP SCHEMA app;`)
	assert.ErrorIs(t, err, ErrInUse)

	c := build(t, inhabited+`
		DROP SCHEMA app CASCADE;`)
	_, ok := c.Schema("app")
	assert.False(t, ok)
	assert.Empty(t, c.Tables())

	c = build(t, `
		CREATE SCHEMA app;
		DROP SCHEMA app;`)
	_, ok = c.Schema("app")
	assert.False(t, ok)

	err = buildErr(t, `DROP SCHEMA ghost;`)
	assert.ErrorIs(t, err, ErrDoesNotExist)
}

func TestDropSchema_CascadeBlockedByOutsideReference(t *testing.T) {
	err := buildErr(t, `
		CREATE SCHEMA app;
		CREATE TABLE app.users (id INT PRIMARY KEY);
		CREATE TABLE posts (id INT PRIMARY KEY, author INT REFERENCES app.users (id));
		DROP SCHEMA app CASCADE;`)
	assert.ErrorIs(t, err, ErrInUse)
}

func TestDrop_RecreateAfterDrop(t *testing.T) {
	c := build(t, `
		CREATE TABLE t (id INT PRIMARY KEY);
		DROP TABLE t;
		CREATE TABLE t (id BIGINT PRIMARY KEY, note TEXT);`)

	tbl := mustTable(t, c, "public", "t")
	assert.Len(t, tbl.Columns(), 2)
	assert.Equal(t, "bigint", mustColumn(t, tbl, "id").Type())

	c = build(t, `
		CREATE FUNCTION f() RETURNS INT LANGUAGE sql AS $$SELECT 1$$;
		DROP FUNCTION f;
		CREATE FUNCTION f() RETURNS INT LANGUAGE sql AS $$SELECT 2$$;`)
	fn, ok := c.FunctionExact("f", nil)
	require.True(t, ok)
	assert.Equal(t, "SELECT 2", fn.Body())
}
