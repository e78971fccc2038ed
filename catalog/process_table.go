package catalog

import (
	"fmt"
	"slices"
	"strings"

	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

func (b *Builder) createTable(s *sqlparser.CreateTableStmt) error {
	k := normalizeTableKey(s.Schema, s.Name)
	if b.c.tables.has(k) {
		if s.IfNotExists {
			return nil
		}
		return fmt.Errorf("%w: table %s", ErrDuplicate, k)
	}

	// The table is registered before its columns so self-referential
	// foreign keys resolve.
	t := &table{schema: k.schema, name: k.name}
	b.c.tables.add(t)

	for _, def := range s.Columns {
		if err := b.addColumn(t, def); err != nil {
			return err
		}
	}
	for _, con := range s.Constraints {
		if err := b.addTableConstraint(t, con); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) addColumn(t *table, def sqlparser.ColumnDef) error {
	if t.column(def.Name) != nil {
		return fmt.Errorf("%w: column %s on table %s", ErrDuplicate, def.Name, t.QualifiedName())
	}
	col := &column{
		name:         def.Name,
		declaredType: def.Type,
		dataType:     sqlparser.NormalizeType(def.Type),
		serial:       sqlparser.IsSerialType(def.Type),
	}
	if col.serial {
		col.defaultExpr = fmt.Sprintf("nextval('%s_%s_seq')", t.name, col.name)
	}
	t.columns = append(t.columns, col)

	// Inline options fold into the same representation as table-level
	// constraints, validated against the columns declared so far.
	for _, opt := range def.Options {
		if err := b.applyColumnOption(t, col, opt); err != nil {
			return err
		}
	}
	return nil
}

func (b *Builder) applyColumnOption(t *table, col *column, opt sqlparser.ColumnOption) error {
	switch o := opt.(type) {
	case *sqlparser.NotNullOption:
		col.notNull = true
	case *sqlparser.NullOption:
		col.notNull = false
	case *sqlparser.PrimaryKeyOption:
		return b.setPrimaryKey(t, "", []string{col.name})
	case *sqlparser.UniqueOption:
		return b.addUniqueConstraint(t, "", []string{col.name})
	case *sqlparser.DefaultOption:
		col.defaultExpr = o.Expr.String()
	case *sqlparser.GeneratedOption:
		col.generated = true
		col.defaultExpr = o.Expr.String()
	case *sqlparser.CheckOption:
		return b.addCheck(t, o.Name, o.Expr)
	case *sqlparser.ReferencesOption:
		return b.addForeignKey(t, "", []string{col.name},
			o.RefSchema, o.RefTable, o.RefColumns, o.OnDelete, o.OnUpdate)
	default:
		return fmt.Errorf("%w: column option %T", ErrUnsupportedStatement, opt)
	}
	return nil
}

func (b *Builder) addTableConstraint(t *table, con sqlparser.TableConstraint) error {
	switch c := con.(type) {
	case *sqlparser.PrimaryKeyConstraint:
		return b.setPrimaryKey(t, c.Name, c.Columns)
	case *sqlparser.UniqueConstraint:
		return b.addUniqueConstraint(t, c.Name, c.Columns)
	case *sqlparser.CheckConstraint:
		return b.addCheck(t, c.Name, c.Expr)
	case *sqlparser.ForeignKeyConstraint:
		return b.addForeignKey(t, c.Name, c.Columns,
			c.RefSchema, c.RefTable, c.RefColumns, c.OnDelete, c.OnUpdate)
	default:
		return fmt.Errorf("%w: table constraint %T", ErrUnsupportedStatement, con)
	}
}

// setPrimaryKey designates cols as the table's primary key: one unique
// index plus the denormalized column list, with every member column made
// non-nullable. A table carries at most one such designation.
func (b *Builder) setPrimaryKey(t *table, name string, cols []string) error {
	if len(t.pkCols) > 0 {
		return fmt.Errorf("%w: multiple primary keys for table %s", ErrDuplicate, t.QualifiedName())
	}
	for _, cn := range cols {
		if t.column(cn) == nil {
			return fmt.Errorf("%w: primary key column %s on table %s", ErrUnresolvedReference, cn, t.QualifiedName())
		}
	}
	if name == "" {
		name = t.name + "_pkey"
	}
	if err := b.insertIndex(t, name, cols, true); err != nil {
		return err
	}
	t.pkCols = slices.Clone(cols)
	for _, cn := range cols {
		t.column(cn).pkMember = true
	}
	return nil
}

func (b *Builder) addUniqueConstraint(t *table, name string, cols []string) error {
	for _, cn := range cols {
		if t.column(cn) == nil {
			return fmt.Errorf("%w: unique constraint column %s on table %s", ErrUnresolvedReference, cn, t.QualifiedName())
		}
	}
	if name == "" {
		name = generatedName(t.name, cols, "key")
	}
	return b.insertIndex(t, name, cols, true)
}

// addCheck validates a check expression against the table's columns so far
// and the functions the builder knows, then records the constraint with its
// resolved references.
func (b *Builder) addCheck(t *table, name string, expr sqlparser.Expr) error {
	cols := exprColumnNames(expr)
	for _, cn := range cols {
		if t.column(cn) == nil {
			return fmt.Errorf("%w: column %s in check constraint on table %s", ErrUnresolvedReference, cn, t.QualifiedName())
		}
	}
	fns := exprFunctionNames(expr)
	for _, fn := range fns {
		if b.c.firstFunctionNamed(fn) == nil {
			return fmt.Errorf("%w: function %s in check constraint on table %s", ErrUnresolvedReference, fn, t.QualifiedName())
		}
	}
	if name == "" {
		if len(cols) == 1 {
			name = generatedName(t.name, cols, "check")
		} else {
			name = t.name + "_check"
		}
	}
	b.c.checks.add(&checkConstraint{
		name:     name,
		table:    t.key(),
		expr:     expr,
		colNames: cols,
		fnNames:  fns,
	})
	return nil
}

// addForeignKey validates both ends eagerly: host columns against the
// table's columns so far, the referenced table and columns against the
// catalog. An omitted referenced column list resolves to the referenced
// table's primary key.
func (b *Builder) addForeignKey(t *table, name string, cols []string, refSchema, refTable string, refCols []string, onDelete, onUpdate string) error {
	for _, cn := range cols {
		if t.column(cn) == nil {
			return fmt.Errorf("%w: foreign key column %s on table %s", ErrUnresolvedReference, cn, t.QualifiedName())
		}
	}
	rk := normalizeTableKey(refSchema, refTable)
	ref, ok := b.c.tables.get(rk)
	if !ok {
		return fmt.Errorf("%w: foreign key on table %s references unknown table %s", ErrUnresolvedReference, t.QualifiedName(), rk)
	}
	if len(refCols) == 0 {
		if len(ref.pkCols) == 0 {
			return fmt.Errorf("%w: referenced table %s has no primary key", ErrUnresolvedReference, rk)
		}
		refCols = ref.pkCols
	}
	for _, cn := range refCols {
		if ref.column(cn) == nil {
			return fmt.Errorf("%w: foreign key references unknown column %s on table %s", ErrUnresolvedReference, cn, rk)
		}
	}
	if len(cols) != len(refCols) {
		return fmt.Errorf("%w: foreign key on table %s maps %d columns to %d", ErrInvalidArgument, t.QualifiedName(), len(cols), len(refCols))
	}
	if name == "" {
		name = generatedName(t.name, cols, "fkey")
	}
	b.c.foreignKeys.add(&foreignKey{
		name:       name,
		table:      t.key(),
		columns:    slices.Clone(cols),
		refTable:   rk,
		refColumns: slices.Clone(refCols),
		onDelete:   onDelete,
		onUpdate:   onUpdate,
	})
	return nil
}

// insertIndex records an index in the global collection for its kind and in
// the owning table's name mirror.
func (b *Builder) insertIndex(t *table, name string, cols []string, unique bool) error {
	ik := indexKey{schema: t.schema, name: name}
	if b.c.indexes.has(ik) || b.c.uniqueIndexes.has(ik) {
		return fmt.Errorf("%w: index %s", ErrDuplicate, name)
	}
	ix := &index{
		schema:  t.schema,
		name:    name,
		table:   t.key(),
		columns: slices.Clone(cols),
		unique:  unique,
	}
	if unique {
		b.c.uniqueIndexes.add(ix)
		t.uniqueIndexNames = append(t.uniqueIndexNames, name)
	} else {
		b.c.indexes.add(ix)
		t.indexNames = append(t.indexNames, name)
	}
	return nil
}

func (b *Builder) createIndex(s *sqlparser.CreateIndexStmt) error {
	k := normalizeTableKey(s.Schema, s.Table)
	t, ok := b.c.tables.get(k)
	if !ok {
		return fmt.Errorf("%w: index on unknown table %s", ErrUnresolvedReference, k)
	}
	for _, cn := range s.Columns {
		if t.column(cn) == nil {
			return fmt.Errorf("%w: index column %s on table %s", ErrUnresolvedReference, cn, k)
		}
	}
	name := s.Name
	if name == "" {
		name = generatedName(t.name, s.Columns, "idx")
	}
	ik := indexKey{schema: t.schema, name: name}
	if b.c.indexes.has(ik) || b.c.uniqueIndexes.has(ik) {
		if s.IfNotExists {
			return nil
		}
		return fmt.Errorf("%w: index %s", ErrDuplicate, name)
	}
	return b.insertIndex(t, name, s.Columns, s.Unique)
}

func (b *Builder) dropTables(s *sqlparser.DropTableStmt) error {
	for _, qn := range s.Tables {
		if err := b.dropTable(normalizeTableKey(qn.Schema, qn.Name), s.IfExists, s.Cascade); err != nil {
			return err
		}
	}
	return nil
}

// dropTable removes one table. Foreign keys of other tables pointing at it
// block the drop unless cascade; self-references never block. Removal
// always cascades internally to everything the table owns. Cascade does not
// touch other tables' foreign keys, which simply dangle afterwards.
func (b *Builder) dropTable(k tableKey, ifExists, cascade bool) error {
	if !b.c.tables.has(k) {
		if ifExists {
			return nil
		}
		return fmt.Errorf("%w: table %s", ErrDoesNotExist, k)
	}
	if !cascade {
		if blockers := b.tablesReferencing(k); len(blockers) > 0 {
			fk := blockers[0]
			return fmt.Errorf("%w: table %s is referenced by foreign key %s on table %s",
				ErrInUse, k, fk.name, fk.table)
		}
	}
	b.dropTableInternals(k)
	b.c.tables.removeWhere(func(t *table) bool { return t.key() == k })
	return nil
}

func (b *Builder) dropIndexes(s *sqlparser.DropIndexStmt) error {
	for _, name := range s.Names {
		if err := b.dropIndex(name, s.IfExists); err != nil {
			return err
		}
	}
	return nil
}

// dropIndex removes the first index with the given name from the global
// collection and the owning table's mirror. Dropping the index backing a
// primary key clears that designation too.
func (b *Builder) dropIndex(name string, ifExists bool) error {
	byName := func(ix *index) bool { return ix.name == name }
	ix, unique := (*index)(nil), false
	if found := b.c.uniqueIndexes.where(byName); len(found) > 0 {
		ix, unique = found[0], true
	} else if found := b.c.indexes.where(byName); len(found) > 0 {
		ix = found[0]
	}
	if ix == nil {
		if ifExists {
			return nil
		}
		return fmt.Errorf("%w: index %s", ErrDoesNotExist, name)
	}

	t, ok := b.c.tables.get(ix.table)
	if ok {
		if unique {
			t.uniqueIndexNames = slices.DeleteFunc(t.uniqueIndexNames, func(n string) bool { return n == name })
			if slices.Equal(t.pkCols, ix.columns) {
				t.pkCols = nil
				for _, col := range t.columns {
					col.pkMember = false
				}
			}
		} else {
			t.indexNames = slices.DeleteFunc(t.indexNames, func(n string) bool { return n == name })
		}
	}
	if unique {
		b.c.uniqueIndexes.removeWhere(func(cand *index) bool { return cand == ix })
	} else {
		b.c.indexes.removeWhere(func(cand *index) bool { return cand == ix })
	}
	return nil
}

func (b *Builder) alterTable(s *sqlparser.AlterTableStmt) error {
	k := normalizeTableKey(s.Schema, s.Table)
	t, ok := b.c.tables.get(k)
	if !ok {
		if s.IfExists {
			return nil
		}
		return fmt.Errorf("%w: table %s", ErrDoesNotExist, k)
	}
	switch s.Action {
	case sqlparser.AlterEnableRLS:
		t.rlsEnabled = true
	case sqlparser.AlterDisableRLS:
		t.rlsEnabled = false
	case sqlparser.AlterForceRLS:
		t.rlsForced = true
	case sqlparser.AlterNoForceRLS:
		t.rlsForced = false
	case sqlparser.AlterOther:
		// Alterations beyond row level security are outside the model.
	}
	return nil
}

// generatedName builds default constraint and index names the way
// PostgreSQL does: table name, column names, kind suffix, underscored.
func generatedName(tableName string, cols []string, suffix string) string {
	parts := make([]string, 0, len(cols)+2)
	parts = append(parts, tableName)
	parts = append(parts, cols...)
	parts = append(parts, suffix)
	return strings.Join(parts, "_")
}
