package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sahilm/fuzzy"
	"github.com/spf13/cobra"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
)

var describeCmd = &cobra.Command{
	Use:   "describe <path> <table>",
	Short: "Show everything the catalog knows about one table",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		t, ok := lookupTable(c, args[1])
		if !ok {
			printSuggestions(cmd.OutOrStdout(), c, args[1])
			return fmt.Errorf("table %s not found", args[1])
		}
		renderTable(cmd.OutOrStdout(), c, t, stdoutIsTerminal())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(describeCmd)
}

// printSuggestions fuzzy-matches the requested name against every table and
// offers the closest few.
func printSuggestions(w io.Writer, c *catalog.Catalog, name string) {
	var candidates []string
	for _, t := range c.Tables() {
		candidates = append(candidates, t.QualifiedName())
	}
	matches := fuzzy.Find(name, candidates)
	if len(matches) == 0 {
		return
	}
	if len(matches) > 3 {
		matches = matches[:3]
	}
	fmt.Fprintln(w, "did you mean:")
	for _, m := range matches {
		fmt.Fprintf(w, "  %s\n", m.Str)
	}
}

func renderTable(w io.Writer, c *catalog.Catalog, t catalog.Table, color bool) {
	fmt.Fprintf(w, "Table %s\n", t.QualifiedName())
	if doc := t.Doc(); doc != "" {
		for _, line := range strings.Split(doc, "\n") {
			fmt.Fprintf(w, "  %s\n", line)
		}
	}
	switch {
	case t.RLSForced():
		fmt.Fprintln(w, "  row level security: forced")
	case t.RLSEnabled():
		fmt.Fprintln(w, "  row level security: enabled")
	}
	fmt.Fprintln(w)

	header := []string{"column", "type", "nullable", "default"}
	var rows [][]string
	for _, col := range t.Columns() {
		d := col.Default()
		if col.Generated() {
			d = "generated: " + d
		}
		rows = append(rows, []string{col.Name(), col.Type(), boolWord(col.Nullable()), d})
	}
	printGrid(w, header, rows)

	if pk := t.PrimaryKey(); len(pk) > 0 {
		fmt.Fprintf(w, "\nprimary key: (%s)\n", strings.Join(pk, ", "))
	}

	unique := t.UniqueIndexes(c)
	plain := t.Indexes(c)
	if len(unique)+len(plain) > 0 {
		fmt.Fprintln(w, "\nindexes:")
		for _, ix := range unique {
			suffix := " unique"
			if ix.IsPrimaryKey(c) {
				suffix = " unique, primary key"
			}
			fmt.Fprintf(w, "  %s %s%s\n", ix.Name(), ix.Expression(), suffix)
		}
		for _, ix := range plain {
			fmt.Fprintf(w, "  %s %s\n", ix.Name(), ix.Expression())
		}
	}

	if fks := t.ForeignKeys(c); len(fks) > 0 {
		fmt.Fprintln(w, "\nforeign keys:")
		for _, fk := range fks {
			ref := "?"
			if rt, ok := fk.ReferencedTable(c); ok {
				ref = rt.QualifiedName()
			}
			line := fmt.Sprintf("  %s (%s) -> %s (%s)",
				fk.Name(), strings.Join(fk.Columns(), ", "), ref, strings.Join(fk.ReferencedColumns(), ", "))
			if a := fk.OnDelete(); a != "" {
				line += " ON DELETE " + a
			}
			if a := fk.OnUpdate(); a != "" {
				line += " ON UPDATE " + a
			}
			fmt.Fprintln(w, line)
		}
	}

	if checks := t.CheckConstraints(c); len(checks) > 0 {
		fmt.Fprintln(w, "\nchecks:")
		for _, cc := range checks {
			fmt.Fprintf(w, "  %s: %s%s\n", cc.Name(), highlightSQL(cc.Expression(), color), checkFlags(c, cc))
		}
	}

	if triggers := t.Triggers(c); len(triggers) > 0 {
		fmt.Fprintln(w, "\ntriggers:")
		for _, tr := range triggers {
			fmt.Fprintf(w, "  %s: %s %s FOR EACH %s EXECUTE %s()\n",
				tr.Name(), tr.Timing(), strings.Join(tr.Events(), " OR "), tr.Orientation(), tr.FunctionName())
			if cond := tr.When(); cond != nil {
				fmt.Fprintf(w, "    when %s\n", highlightSQL(cond.String(), color))
			}
			if assigns, ok := tr.MaintenanceAssignments(c); ok {
				for _, a := range assigns {
					fmt.Fprintf(w, "    sets %s = %s\n", a.Column.Name(), highlightSQL(a.Expr.String(), color))
				}
			}
		}
	}

	if policies := t.Policies(c); len(policies) > 0 {
		fmt.Fprintln(w, "\npolicies:")
		for _, p := range policies {
			kind := "permissive"
			if !p.Permissive() {
				kind = "restrictive"
			}
			roles := strings.Join(p.RoleNames(), ", ")
			if roles == "" {
				roles = "public"
			}
			fmt.Fprintf(w, "  %s: %s %s to %s\n", p.Name(), kind, p.Command(), roles)
			if u := p.Using(); u != nil {
				fmt.Fprintf(w, "    using %s\n", highlightSQL(u.String(), color))
			}
			if wc := p.WithCheck(); wc != nil {
				fmt.Fprintf(w, "    with check %s\n", highlightSQL(wc.String(), color))
			}
		}
	}
}

func checkFlags(c *catalog.Catalog, cc catalog.CheckConstraint) string {
	switch {
	case cc.IsTautology(c):
		return " [always true]"
	case cc.IsNegation(c):
		return " [always false]"
	}
	if group, ok := cc.MutualNullability(c); ok {
		names := make([]string, len(group))
		for i, col := range group {
			names[i] = col.Name()
		}
		return fmt.Sprintf(" [all or none: %s]", strings.Join(names, ", "))
	}
	return ""
}

// printGrid renders rows under a header with every column padded to its
// widest cell.
func printGrid(w io.Writer, header []string, rows [][]string) {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	printRow := func(cells []string) {
		for i := range header {
			if i > 0 {
				fmt.Fprint(w, " | ")
			}
			fmt.Fprint(w, padRight(cells[i], widths[i]))
		}
		fmt.Fprintln(w)
	}

	printRow(header)
	for i := range header {
		if i > 0 {
			fmt.Fprint(w, "-+-")
		}
		fmt.Fprint(w, strings.Repeat("-", widths[i]))
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		printRow(row)
	}
}

func padRight(s string, w int) string {
	if len(s) >= w {
		return s
	}
	return s + strings.Repeat(" ", w-len(s))
}

func boolWord(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
