// Package schemacat is the top-level facade for building schema catalogs
// from SQL DDL sources.
package schemacat

import (
	"fmt"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
	"github.com/earth-metabolome-initiative/schemacat/docextract"
	"github.com/earth-metabolome-initiative/schemacat/ingest"
	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

// BuildStatements assembles a catalog from already parsed statements.
func BuildStatements(name string, stmts []sqlparser.Statement, opts ...catalog.Option) (*catalog.Catalog, error) {
	return catalog.Build(name, stmts, opts...)
}

// BuildSQL parses src and assembles a catalog. Comment blocks sitting
// directly above CREATE TABLE statements become table docs.
func BuildSQL(name, src string) (*catalog.Catalog, error) {
	stmts, err := sqlparser.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return catalog.Build(name, stmts, catalog.WithTableDocs(docextract.Extract(src)))
}

// BuildPath builds a catalog from one .sql file or a directory tree of
// them, read in lexical order.
func BuildPath(name, path string) (*catalog.Catalog, error) {
	src, err := ingest.CollectSQL(path)
	if err != nil {
		return nil, err
	}
	return BuildSQL(name, src)
}
