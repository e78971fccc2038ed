package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/earth-metabolome-initiative/schemacat/catalog"
)

var lintCmd = &cobra.Command{
	Use:   "lint <path>",
	Short: "Report constraints and security setups that cannot mean what they say",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		findings := lintFindings(c)
		out := cmd.OutOrStdout()
		if len(findings) == 0 {
			fmt.Fprintln(out, "no findings")
			return nil
		}
		for _, f := range findings {
			fmt.Fprintln(out, f)
		}
		fmt.Fprintf(out, "%d finding(s)\n", len(findings))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lintCmd)
}

// lintFindings walks the catalog for constraints that are provably inert,
// security switches with nothing behind them, and triggers the analyzer can
// explain. Order follows the catalog so output is stable.
func lintFindings(c *catalog.Catalog) []string {
	var out []string

	for _, cc := range c.CheckConstraints() {
		owner := "?"
		if t, ok := cc.Table(c); ok {
			owner = t.QualifiedName()
		}
		switch {
		case cc.IsTautology(c):
			out = append(out, fmt.Sprintf("warn: check %s on %s always holds and guards nothing: %s",
				cc.Name(), owner, cc.Expression()))
		case cc.IsNegation(c):
			out = append(out, fmt.Sprintf("warn: check %s on %s can never hold, no row passes it: %s",
				cc.Name(), owner, cc.Expression()))
		}
		if group, ok := cc.MutualNullability(c); ok {
			names := make([]string, len(group))
			for i, col := range group {
				names[i] = col.Name()
			}
			out = append(out, fmt.Sprintf("note: check %s on %s couples %s: all set or all null",
				cc.Name(), owner, strings.Join(names, ", ")))
		}
	}

	for _, t := range c.Tables() {
		if t.RLSEnabled() && len(t.Policies(c)) == 0 {
			out = append(out, fmt.Sprintf("warn: table %s has row level security enabled but no policies",
				t.QualifiedName()))
		}
	}

	for _, tr := range c.Triggers() {
		assigns, ok := tr.MaintenanceAssignments(c)
		if !ok {
			continue
		}
		owner := "?"
		if t, ok := tr.Table(c); ok {
			owner = t.QualifiedName()
		}
		cols := make([]string, len(assigns))
		for i, a := range assigns {
			cols[i] = a.Column.Name()
		}
		out = append(out, fmt.Sprintf("note: trigger %s on %s maintains %s",
			tr.Name(), owner, strings.Join(cols, ", ")))
	}

	return out
}
