package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

func build(t *testing.T, sql string) *catalog.Catalog {
	t.Helper()
	stmts, err := sqlparser.Parse(sql)
	require.NoError(t, err)
	c, err := catalog.Build("export_test", stmts)
	require.NoError(t, err)
	return c
}

const snapshotSQL = `
SET TIME ZONE 'UTC';
CREATE ROLE app LOGIN;
CREATE SCHEMA app_private AUTHORIZATION app;
CREATE FUNCTION touch() RETURNS trigger LANGUAGE plpgsql AS $$
BEGIN
    NEW.updated_at = now();
    RETURN NEW;
END
$$;
CREATE TABLE notes (
    id SERIAL PRIMARY KEY,
    body TEXT NOT NULL,
    updated_at TIMESTAMPTZ,
    CONSTRAINT c_taut CHECK (1 = 1)
);
CREATE TRIGGER notes_touch BEFORE UPDATE ON notes FOR EACH ROW EXECUTE FUNCTION touch();
ALTER TABLE notes ENABLE ROW LEVEL SECURITY;
CREATE POLICY notes_owner ON notes FOR SELECT TO app USING (body <> '');
GRANT SELECT (body), UPDATE ON notes TO app;
`

func TestSnapshot(t *testing.T) {
	m := Snapshot(build(t, snapshotSQL))

	assert.Equal(t, "export_test", m.Name)
	assert.Equal(t, "UTC", m.TimeZone)

	require.Len(t, m.Schemas, 1)
	assert.Equal(t, Schema{Name: "app_private", Authorization: "app"}, m.Schemas[0])

	require.Len(t, m.Roles, 1)
	assert.Equal(t, "app", m.Roles[0].Name)
	assert.True(t, m.Roles[0].Login)
	assert.Nil(t, m.Roles[0].ConnLimit)

	require.Len(t, m.Functions, 1, "built-ins stay out of the snapshot")
	assert.Equal(t, "touch", m.Functions[0].Name)
	assert.Equal(t, "plpgsql", m.Functions[0].Language)
	assert.Equal(t, "trigger", m.Functions[0].Returns)

	require.Len(t, m.Tables, 1)
	tbl := m.Tables[0]
	assert.Equal(t, "public", tbl.Schema)
	assert.Equal(t, "notes", tbl.Name)
	assert.True(t, tbl.RLSEnabled)
	assert.Equal(t, []string{"id"}, tbl.PrimaryKey)

	require.Len(t, tbl.Columns, 3)
	assert.Equal(t, Column{Name: "id", Type: "integer", Default: "nextval('notes_id_seq')"}, tbl.Columns[0])
	assert.Equal(t, Column{Name: "body", Type: "text"}, tbl.Columns[1])
	assert.Equal(t, Column{Name: "updated_at", Type: "timestamp with time zone", Nullable: true}, tbl.Columns[2])

	require.Len(t, tbl.Indexes, 1)
	assert.Equal(t, Index{Name: "notes_pkey", Columns: []string{"id"}, Unique: true, Primary: true}, tbl.Indexes[0])

	require.Len(t, tbl.Checks, 1)
	assert.Equal(t, "c_taut", tbl.Checks[0].Name)
	assert.Equal(t, "1 = 1", tbl.Checks[0].Expression)
	assert.True(t, tbl.Checks[0].Tautology)
	assert.False(t, tbl.Checks[0].Negation)

	require.Len(t, tbl.Triggers, 1)
	tr := tbl.Triggers[0]
	assert.Equal(t, "notes_touch", tr.Name)
	assert.Equal(t, "BEFORE", tr.Timing)
	assert.Equal(t, []string{"UPDATE"}, tr.Events)
	assert.Equal(t, "ROW", tr.ForEach)
	assert.Equal(t, "touch", tr.Function)
	require.Len(t, tr.Maintenance, 1)
	assert.Equal(t, Assignment{Column: "updated_at", Expression: "now()"}, tr.Maintenance[0])

	require.Len(t, tbl.Policies, 1)
	pol := tbl.Policies[0]
	assert.Equal(t, "notes_owner", pol.Name)
	assert.Equal(t, "SELECT", pol.Command)
	assert.True(t, pol.Permissive)
	assert.Equal(t, []string{"app"}, pol.Roles)
	assert.Equal(t, "body <> ''", pol.Using)

	require.Len(t, m.Grants, 1)
	g := m.Grants[0]
	assert.Equal(t, "TABLE", g.ObjectType)
	assert.Equal(t, []string{"public.notes"}, g.Objects)
	assert.Equal(t, []Privilege{{Name: "SELECT", Columns: []string{"body"}}, {Name: "UPDATE"}}, g.Privileges)
	assert.Equal(t, []string{"app"}, g.Grantees)
}

func TestEncodeYAML_RoundTrip(t *testing.T) {
	m := Snapshot(build(t, snapshotSQL))

	var buf bytes.Buffer
	require.NoError(t, EncodeYAML(&buf, m))

	assert.Contains(t, buf.String(), "name: export_test")
	assert.Contains(t, buf.String(), "tautology: true")
	assert.Contains(t, buf.String(), "time_zone: UTC")

	var back Model
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &back))
	assert.Equal(t, m, back)
}

func TestSnapshot_ConnLimitAndLocalZone(t *testing.T) {
	m := Snapshot(build(t, `
SET TIME ZONE LOCAL;
CREATE ROLE pool CONNECTION LIMIT 10;
`))

	assert.Equal(t, "LOCAL", m.TimeZone)
	require.Len(t, m.Roles, 1)
	require.NotNil(t, m.Roles[0].ConnLimit)
	assert.Equal(t, 10, *m.Roles[0].ConnLimit)
}
