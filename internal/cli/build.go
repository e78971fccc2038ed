package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"

	"github.com/earth-metabolome-initiative/schemacat"
	"github.com/earth-metabolome-initiative/schemacat/catalog"
	"github.com/earth-metabolome-initiative/schemacat/ingest"
)

var buildCmd = &cobra.Command{
	Use:   "build <path>",
	Short: "Parse DDL and report what the catalog holds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := ingest.ListSQL(args[0])
		if err != nil {
			return err
		}

		uiprogress.Start()
		bar := uiprogress.AddBar(len(files)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string { return "Reading: " })

		var src strings.Builder
		for _, f := range files {
			data, err := os.ReadFile(f)
			if err != nil {
				uiprogress.Stop()
				return fmt.Errorf("read %s: %w", f, err)
			}
			src.Write(data)
			src.WriteByte('\n')
			bar.Incr()
		}
		uiprogress.Stop()

		c, err := schemacat.BuildSQL(catalogName(args[0]), src.String())
		if err != nil {
			return err
		}

		slog.Info("catalog built", "name", c.Name(), "files", len(files))
		printSummary(cmd.OutOrStdout(), c)
		return nil
	},
}

func printSummary(w io.Writer, c *catalog.Catalog) {
	userFuncs := 0
	for _, f := range c.Functions() {
		if !f.Builtin() {
			userFuncs++
		}
	}

	fmt.Fprintf(w, "catalog %s\n", c.Name())
	fmt.Fprintf(w, "  schemas:      %d\n", len(c.Schemas()))
	fmt.Fprintf(w, "  tables:       %d\n", len(c.Tables()))
	fmt.Fprintf(w, "  indexes:      %d\n", len(c.Indexes())+len(c.UniqueIndexes()))
	fmt.Fprintf(w, "  foreign keys: %d\n", len(c.ForeignKeys()))
	fmt.Fprintf(w, "  checks:       %d\n", len(c.CheckConstraints()))
	fmt.Fprintf(w, "  functions:    %d\n", userFuncs)
	fmt.Fprintf(w, "  triggers:     %d\n", len(c.Triggers()))
	fmt.Fprintf(w, "  policies:     %d\n", len(c.Policies()))
	fmt.Fprintf(w, "  roles:        %d\n", len(c.Roles()))
	fmt.Fprintf(w, "  grants:       %d\n", len(c.TableGrants()))
}

func init() {
	RootCmd.AddCommand(buildCmd)
}
