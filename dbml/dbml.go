// Package dbml renders a frozen catalog as DBML markup.
package dbml

import (
	"fmt"
	"strings"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

// Generate renders every table, index and foreign key in c as DBML text.
// Output is deterministic: tables, columns and references appear in catalog
// order. Table documentation becomes Note entries.
func Generate(c *catalog.Catalog) ([]byte, error) {
	var b strings.Builder
	for i, t := range c.Tables() {
		if i > 0 {
			b.WriteString("\n")
		}
		writeTable(&b, c, t)
	}
	refs, err := renderRefs(c)
	if err != nil {
		return nil, err
	}
	if refs != "" {
		b.WriteString("\n")
		b.WriteString(refs)
	}
	return []byte(b.String()), nil
}

func writeTable(b *strings.Builder, c *catalog.Catalog, t catalog.Table) {
	fmt.Fprintf(b, "Table %s {\n", tableName(t))

	pk := t.PrimaryKey()
	for _, col := range t.Columns() {
		fmt.Fprintf(b, "  %s %s%s\n", ident(col.Name()), col.Type(), columnAttrs(c, t, col, pk))
	}

	if doc := t.Doc(); doc != "" {
		fmt.Fprintf(b, "\n  Note: %s\n", noteLiteral(doc))
	}

	if entries := indexEntries(c, t, pk); len(entries) > 0 {
		b.WriteString("\n  indexes {\n")
		for _, e := range entries {
			fmt.Fprintf(b, "    %s\n", e)
		}
		b.WriteString("  }\n")
	}

	b.WriteString("}\n")
}

func columnAttrs(c *catalog.Catalog, t catalog.Table, col catalog.Column, pk []string) string {
	var attrs []string
	isPK := len(pk) == 1 && pk[0] == col.Name()
	if isPK {
		attrs = append(attrs, "pk")
	}
	if !col.Nullable() && !isPK {
		attrs = append(attrs, "not null")
	}
	if sqlparser.IsSerialType(col.DeclaredType()) {
		attrs = append(attrs, "increment")
	} else if d := col.Default(); d != "" {
		attrs = append(attrs, fmt.Sprintf("default: `%s`", d))
	}
	if singleColumnUnique(c, t, col.Name()) {
		attrs = append(attrs, "unique")
	}
	if len(attrs) == 0 {
		return ""
	}
	return " [" + strings.Join(attrs, ", ") + "]"
}

// singleColumnUnique reports whether a dedicated unique index covers exactly
// this column. Such indexes render as a column attribute instead of an
// indexes entry.
func singleColumnUnique(c *catalog.Catalog, t catalog.Table, name string) bool {
	for _, ix := range t.UniqueIndexes(c) {
		cols := ix.Columns()
		if len(cols) == 1 && cols[0] == name && !ix.IsPrimaryKey(c) {
			return true
		}
	}
	return false
}

func indexEntries(c *catalog.Catalog, t catalog.Table, pk []string) []string {
	var entries []string
	if len(pk) > 1 {
		entries = append(entries, fmt.Sprintf("(%s) [pk]", identList(pk)))
	}
	for _, ix := range t.UniqueIndexes(c) {
		if ix.IsPrimaryKey(c) || len(ix.Columns()) == 1 {
			continue
		}
		entries = append(entries, fmt.Sprintf("(%s) [unique]", identList(ix.Columns())))
	}
	for _, ix := range t.Indexes(c) {
		if cols := ix.Columns(); len(cols) == 1 {
			entries = append(entries, ident(cols[0]))
		} else {
			entries = append(entries, fmt.Sprintf("(%s)", identList(cols)))
		}
	}
	return entries
}

func renderRefs(c *catalog.Catalog) (string, error) {
	var b strings.Builder
	for _, fk := range c.ForeignKeys() {
		host, ok := fk.Table(c)
		if !ok {
			return "", fmt.Errorf("%w: foreign key %s has no host table", catalog.ErrInconsistentCatalog, fk.Name())
		}
		ref, ok := fk.ReferencedTable(c)
		if !ok {
			return "", fmt.Errorf("%w: foreign key %s references a missing table", catalog.ErrInconsistentCatalog, fk.Name())
		}
		fmt.Fprintf(&b, "Ref: %s > %s%s\n",
			refSide(host, fk.Columns()), refSide(ref, fk.ReferencedColumns()), refSettings(fk))
	}
	return b.String(), nil
}

func refSide(t catalog.Table, cols []string) string {
	if len(cols) == 1 {
		return tableName(t) + "." + ident(cols[0])
	}
	return fmt.Sprintf("%s.(%s)", tableName(t), identList(cols))
}

func refSettings(fk catalog.ForeignKey) string {
	var settings []string
	if a := action(fk.OnDelete()); a != "" {
		settings = append(settings, "delete: "+a)
	}
	if a := action(fk.OnUpdate()); a != "" {
		settings = append(settings, "update: "+a)
	}
	if len(settings) == 0 {
		return ""
	}
	return " [" + strings.Join(settings, ", ") + "]"
}

// action lowers a referential action for the Ref settings list. NO ACTION is
// the default and renders as nothing.
func action(s string) string {
	if s == "" || strings.EqualFold(s, "NO ACTION") {
		return ""
	}
	return strings.ToLower(s)
}

func tableName(t catalog.Table) string {
	if t.Schema() == "public" {
		return ident(t.Name())
	}
	return ident(t.Schema()) + "." + ident(t.Name())
}

func noteLiteral(doc string) string {
	if strings.ContainsAny(doc, "\n'") {
		return "'''\n  " + strings.ReplaceAll(doc, "\n", "\n  ") + "\n  '''"
	}
	return "'" + doc + "'"
}

func identList(names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = ident(n)
	}
	return strings.Join(quoted, ", ")
}

// ident double-quotes a name unless it is a plain lower-case identifier.
func ident(name string) string {
	for i := 0; i < len(name); i++ {
		b := name[i]
		if b == '_' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' {
			continue
		}
		return `"` + name + `"`
	}
	return name
}
