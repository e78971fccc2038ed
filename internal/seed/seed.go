// Package seed generates INSERT statements with fake data for every table
// in a catalog, parents before children so foreign key values resolve.
package seed

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
	"github.com/earth-metabolome-initiative/schemacat/sqlparser"
)

// Statements renders perTable INSERT statements for every table, in
// dependency order. Integer primary key columns count up from 1 and foreign
// key columns draw from [1, perTable], so every generated reference lands on
// a generated row. Serial and generated columns are left to the database.
func Statements(c *catalog.Catalog, perTable int) ([]string, error) {
	if perTable < 1 {
		return nil, fmt.Errorf("seed: row count must be positive, got %d", perTable)
	}
	order, err := c.TableDAG()
	if err != nil {
		return nil, err
	}

	var out []string
	for _, t := range order {
		out = append(out, tableInserts(c, t, perTable)...)
	}
	return out, nil
}

func tableInserts(c *catalog.Catalog, t catalog.Table, perTable int) []string {
	pk := map[string]bool{}
	for _, name := range t.PrimaryKey() {
		pk[name] = true
	}

	var cols []catalog.Column
	for _, col := range t.Columns() {
		if col.Generated() || sqlparser.IsSerialType(col.DeclaredType()) {
			continue
		}
		cols = append(cols, col)
	}

	stmts := make([]string, 0, perTable)
	for row := 1; row <= perTable; row++ {
		if len(cols) == 0 {
			stmts = append(stmts, fmt.Sprintf("INSERT INTO %s DEFAULT VALUES;", t.QualifiedName()))
			continue
		}

		// One parent row per foreign key, shared by all its columns, so
		// composite references stay consistent.
		fkValue := map[string]int{}
		for _, fk := range t.ForeignKeys(c) {
			n := gofakeit.Number(1, perTable)
			for _, cn := range fk.Columns() {
				fkValue[cn] = n
			}
		}

		names := make([]string, len(cols))
		values := make([]string, len(cols))
		for i, col := range cols {
			names[i] = col.Name()
			values[i] = columnValue(col, row, pk, fkValue, perTable)
		}
		stmts = append(stmts, fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s);",
			t.QualifiedName(), strings.Join(names, ", "), strings.Join(values, ", ")))
	}
	return stmts
}

func columnValue(col catalog.Column, row int, pk map[string]bool, fkValue map[string]int, perTable int) string {
	if pk[col.Name()] {
		if isIntType(col.Type()) {
			return strconv.Itoa(row)
		}
		return quote(fmt.Sprintf("%s_%d", gofakeit.Word(), row))
	}
	if n, ok := fkValue[col.Name()]; ok {
		return strconv.Itoa(n)
	}
	if col.Nullable() && gofakeit.Number(1, 10) == 1 {
		return "NULL"
	}
	return fakeValue(col)
}

// fakeValue picks a generator from the column name when it suggests one, and
// from the canonical type otherwise.
func fakeValue(col catalog.Column) string {
	name := col.Name()
	switch {
	case strings.Contains(name, "email"):
		return quote(gofakeit.Email())
	case strings.Contains(name, "name"):
		return quote(gofakeit.Name())
	case strings.Contains(name, "price") || strings.Contains(name, "amount"):
		return fmt.Sprintf("%.2f", gofakeit.Price(1, 1000))
	}

	typ := col.Type()
	switch {
	case typ == "boolean":
		if gofakeit.Bool() {
			return "TRUE"
		}
		return "FALSE"
	case strings.HasPrefix(typ, "timestamp") || typ == "date":
		end := time.Now()
		ts := gofakeit.DateRange(end.AddDate(-1, 0, 0), end)
		if typ == "date" {
			return quote(ts.Format("2006-01-02"))
		}
		return quote(ts.Format("2006-01-02 15:04:05"))
	case isIntType(typ):
		return strconv.Itoa(gofakeit.Number(1, 10000))
	case typ == "numeric" || typ == "real" || typ == "double precision" ||
		strings.HasPrefix(typ, "numeric("):
		return fmt.Sprintf("%.2f", gofakeit.Price(1, 10000))
	default:
		return quote(gofakeit.Word())
	}
}

func isIntType(typ string) bool {
	return typ == "integer" || typ == "bigint" || typ == "smallint"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
