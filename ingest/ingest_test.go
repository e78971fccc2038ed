package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestListSQL_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.sql")
	writeFile(t, path, "CREATE TABLE t (id INT);")

	files, err := ListSQL(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestListSQL_WalksDirectoryInOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "20_tables.sql"), "-- b")
	writeFile(t, filepath.Join(dir, "10_schemas.sql"), "-- a")
	writeFile(t, filepath.Join(dir, "sub", "30_grants.SQL"), "-- c")
	writeFile(t, filepath.Join(dir, "README.md"), "not sql")

	files, err := ListSQL(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "10_schemas.sql"),
		filepath.Join(dir, "20_tables.sql"),
		filepath.Join(dir, "sub", "30_grants.SQL"),
	}, files)
}

func TestListSQL_Errors(t *testing.T) {
	_, err := ListSQL(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read")

	empty := t.TempDir()
	_, err = ListSQL(empty)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no .sql files")
}

func TestCollectSQL_JoinsWithNewlines(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.sql"), "CREATE SCHEMA app;")
	writeFile(t, filepath.Join(dir, "b.sql"), "CREATE TABLE app.t (id INT);\n")

	src, err := CollectSQL(dir)
	require.NoError(t, err)
	assert.Equal(t, "CREATE SCHEMA app;\nCREATE TABLE app.t (id INT);\n", src)
}

func TestCollectSQL_SingleFilePassthrough(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "one.sql")
	writeFile(t, path, "SELECT 1;\n")

	src, err := CollectSQL(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1;\n", src)
}
