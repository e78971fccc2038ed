package catalog

import (
	"fmt"

	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

// Option configures Build.
type Option func(*buildOptions)

type buildOptions struct {
	tableDocs map[string]string
}

// WithTableDocs attaches documentation text to tables after processing.
// Keys are "schema.table" with the schema defaulted to "public"; keys for
// tables the statements never created are ignored.
func WithTableDocs(docs map[string]string) Option {
	return func(o *buildOptions) {
		o.tableDocs = docs
	}
}

// Build processes the statements in order against a fresh builder and
// returns the frozen catalog. Any statement failure aborts the whole build;
// there is never a partial catalog.
func Build(name string, stmts []sqlparser.Statement, opts ...Option) (*Catalog, error) {
	var o buildOptions
	for _, opt := range opts {
		opt(&o)
	}

	b := NewBuilder(name)
	for i, stmt := range stmts {
		if err := b.Process(stmt); err != nil {
			return nil, fmt.Errorf("statement %d: %w", i+1, err)
		}
	}

	for key, doc := range o.tableDocs {
		schema, table := splitDocKey(key)
		b.setDoc(schema, table, doc)
	}
	return b.Freeze(), nil
}

// Process applies one statement to the builder.
func (b *Builder) Process(stmt sqlparser.Statement) error {
	if b.frozen {
		return fmt.Errorf("%w: builder is frozen", ErrInvalidArgument)
	}
	switch s := stmt.(type) {
	case *sqlparser.CreateTableStmt:
		return b.createTable(s)
	case *sqlparser.DropTableStmt:
		return b.dropTables(s)
	case *sqlparser.CreateIndexStmt:
		return b.createIndex(s)
	case *sqlparser.DropIndexStmt:
		return b.dropIndexes(s)
	case *sqlparser.AlterTableStmt:
		return b.alterTable(s)
	case *sqlparser.CreateFunctionStmt:
		return b.createFunction(s)
	case *sqlparser.DropFunctionStmt:
		return b.dropFunction(s)
	case *sqlparser.CreateTriggerStmt:
		return b.createTrigger(s)
	case *sqlparser.DropTriggerStmt:
		return b.dropTrigger(s)
	case *sqlparser.CreatePolicyStmt:
		return b.createPolicy(s)
	case *sqlparser.DropPolicyStmt:
		return b.dropPolicy(s)
	case *sqlparser.CreateRoleStmt:
		return b.createRole(s)
	case *sqlparser.DropRoleStmt:
		return b.dropRoles(s)
	case *sqlparser.CreateSchemaStmt:
		return b.createSchema(s)
	case *sqlparser.DropSchemaStmt:
		return b.dropSchemas(s)
	case *sqlparser.GrantStmt:
		return b.grant(s)
	case *sqlparser.RevokeStmt:
		return b.revoke(s)
	case *sqlparser.SetTimeZoneStmt:
		b.c.timeZone, b.c.tzLocal = s.Zone, s.Local
		return nil
	case *sqlparser.RawStmt:
		return b.rawStatement(s)
	default:
		return fmt.Errorf("%w: statement type %T", ErrUnsupportedStatement, stmt)
	}
}

// ignoredStatements holds the head keyword phrases that carry no schema
// information for this model and are skipped without effect: queries, DML,
// transaction control, session and maintenance commands, and DDL for object
// kinds the model does not represent. GRANT and REVOKE appear for their
// role-membership form, which the parser leaves raw.
var ignoredStatements = buildIgnoreList()

func buildIgnoreList() map[string]bool {
	heads := []string{
		// Queries and DML.
		"SELECT", "INSERT", "UPDATE", "DELETE", "MERGE", "TRUNCATE",
		"TABLE", "VALUES", "WITH",
		// Transaction control.
		"BEGIN", "START", "COMMIT", "END", "ROLLBACK", "ABORT",
		"SAVEPOINT", "RELEASE", "PREPARE", "EXECUTE", "DEALLOCATE",
		// Cursors, procedures, bulk loading.
		"DECLARE", "FETCH", "MOVE", "CLOSE", "COPY", "DO", "CALL",
		// Maintenance.
		"VACUUM", "ANALYZE", "ANALYSE", "EXPLAIN", "REINDEX", "CLUSTER",
		"CHECKPOINT", "REFRESH",
		// Session commands.
		"SET", "RESET", "SHOW", "DISCARD", "LISTEN", "NOTIFY",
		"UNLISTEN", "LOCK",
		// Annotations and role membership.
		"COMMENT", "SECURITY LABEL", "IMPORT", "GRANT", "REVOKE",
		// Alter forms of handled objects; alterations beyond row level
		// security are out of model.
		"ALTER FUNCTION", "ALTER INDEX", "ALTER ROLE", "ALTER SCHEMA",
		"ALTER POLICY", "ALTER TRIGGER", "ALTER DEFAULT", "ALTER SYSTEM",
		"CREATE CAST", "DROP CAST",
	}
	// Object kinds the model does not represent at all.
	unmodeled := []string{
		"VIEW", "MATERIALIZED VIEW", "SEQUENCE", "EXTENSION", "TYPE",
		"DOMAIN", "AGGREGATE", "OPERATOR", "COLLATION", "SERVER",
		"PUBLICATION", "SUBSCRIPTION", "RULE", "STATISTICS", "DATABASE",
		"TABLESPACE",
	}
	set := make(map[string]bool, len(heads)+3*len(unmodeled))
	for _, h := range heads {
		set[h] = true
	}
	for _, kind := range unmodeled {
		set["CREATE "+kind] = true
		set["ALTER "+kind] = true
		set["DROP "+kind] = true
	}
	return set
}

// rawStatement skips statements on the ignore list and rejects the rest
// with a recoverable error.
func (b *Builder) rawStatement(s *sqlparser.RawStmt) error {
	if s.Keyword == "" {
		return nil
	}
	if ignoredStatements[s.Keyword] {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnsupportedStatement, s.Keyword)
}

// splitDocKey splits "schema.table" doc keys; bare names mean "public".
func splitDocKey(key string) (schema, table string) {
	for i := 0; i < len(key); i++ {
		if key[i] == '.' {
			return key[:i], key[i+1:]
		}
	}
	return "", key
}
