// Package catalog turns a sequence of parsed SQL DDL statements into a
// validated, cross-referenced model of a database schema: tables, columns,
// indexes, foreign keys, check constraints, functions, triggers, policies,
// roles, grants and schemas.
//
// Construction is driven by Build: statements are processed in order against
// a mutable Builder, every cross-reference (foreign key targets, check
// constraint columns, trigger functions, grant roles) is resolved eagerly,
// and any failure discards the whole build. On success the builder freezes
// into an immutable Catalog whose collections are sorted for binary-search
// lookup. A frozen Catalog never mutates and is safe for concurrent reads.
//
// Entities are exposed through per-kind interfaces (Table, Column, Function,
// ...). Cross-references are stored as names and resolved against a Catalog
// passed to the accessor, so an entity value never pins a catalog instance.
package catalog
