package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earth-metabolome-initiative/schemacat/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Write the whole catalog as a YAML snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		m := export.Snapshot(c)
		if exportOut == "" {
			return export.EncodeYAML(cmd.OutOrStdout(), m)
		}
		f, err := os.Create(exportOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", exportOut, err)
		}
		defer f.Close()
		return export.EncodeYAML(f, m)
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "write to file instead of stdout")
}
