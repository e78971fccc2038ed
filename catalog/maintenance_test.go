package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// maintenance wires body into a row trigger on a fixed table and runs the
// maintenance recognizer over it.
func maintenance(t *testing.T, body string) ([]ColumnAssignment, bool) {
	t.Helper()
	c := build(t, `
		CREATE TABLE notes (id INT PRIMARY KEY, updated_at TIMESTAMP, rev INT, "Mixed" INT);
		CREATE FUNCTION touch() RETURNS trigger LANGUAGE plpgsql AS $$`+body+`$$;
		CREATE TRIGGER notes_touch BEFORE UPDATE ON notes FOR EACH ROW EXECUTE FUNCTION touch();`)
	trs := c.Triggers()
	require.Len(t, trs, 1)
	return trs[0].MaintenanceAssignments(c)
}

func TestMaintenance_AssignAndReturn(t *testing.T) {
	got, ok := maintenance(t, `
		BEGIN
			NEW.updated_at := now();
			NEW.rev = NEW.rev + 1;
			RETURN NEW;
		END;`)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "updated_at", got[0].Column.Name())
	assert.Equal(t, "now()", got[0].Expr.String())
	assert.Equal(t, "rev", got[1].Column.Name())
	assert.Equal(t, "new.rev + 1", got[1].Expr.String())
}

func TestMaintenance_BlockIsOptional(t *testing.T) {
	got, ok := maintenance(t, `NEW.updated_at = now(); RETURN NEW;`)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "updated_at", got[0].Column.Name())
}

func TestMaintenance_KeywordsFoldCase(t *testing.T) {
	_, ok := maintenance(t, `begin new.rev := 1; return new; end`)
	assert.True(t, ok)
}

func TestMaintenance_QuotedColumn(t *testing.T) {
	got, ok := maintenance(t, `NEW."Mixed" := 1; RETURN NEW;`)
	require.True(t, ok)
	assert.Equal(t, "Mixed", got[0].Column.Name())
}

func TestMaintenance_NestedParens(t *testing.T) {
	got, ok := maintenance(t, `NEW.rev := (1 + (NEW.rev * 2)); RETURN NEW;`)
	require.True(t, ok)
	assert.Equal(t, "(1 + (new.rev * 2))", got[0].Expr.String())
}

func TestMaintenance_RepeatedColumnKeepsOrder(t *testing.T) {
	got, ok := maintenance(t, `
		NEW.rev := 1;
		NEW.rev := 2;
		RETURN NEW;`)
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Expr.String())
	assert.Equal(t, "2", got[1].Expr.String())
}

func TestMaintenance_Rejections(t *testing.T) {
	bodies := map[string]string{
		"return null":        `BEGIN RETURN NULL; END;`,
		"assign then null":   `NEW.rev := 1; RETURN NULL;`,
		"no assignments":     `RETURN NEW;`,
		"unknown column":     `NEW.ghost := 1; RETURN NEW;`,
		"foreign statement":  `INSERT INTO audit VALUES (1); RETURN NEW;`,
		"code after return":  `NEW.rev := 1; RETURN NEW; NEW.rev := 2;`,
		"empty expression":   `NEW.rev := ; RETURN NEW;`,
		"unbalanced parens":  `NEW.rev := (1 + 2; RETURN NEW;`,
		"missing semicolon":  `NEW.rev := 1; RETURN NEW`,
		"conditional branch": `IF NEW.rev IS NULL THEN NEW.rev := 0; END IF; RETURN NEW;`,
	}
	for label, body := range bodies {
		_, ok := maintenance(t, body)
		assert.False(t, ok, "body %s", label)
	}
}

func TestMaintenance_NonRowFunctionBody(t *testing.T) {
	c := build(t, `
		CREATE TABLE notes (id INT PRIMARY KEY);
		CREATE FUNCTION noop() RETURNS trigger LANGUAGE sql AS $$SELECT 1$$;
		CREATE TRIGGER notes_noop BEFORE INSERT ON notes FOR EACH ROW EXECUTE FUNCTION noop();`)
	_, ok := c.Triggers()[0].MaintenanceAssignments(c)
	assert.False(t, ok)
}
