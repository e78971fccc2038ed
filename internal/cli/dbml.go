package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earth-metabolome-initiative/schemacat/dbml"
)

var dbmlOut string

var dbmlCmd = &cobra.Command{
	Use:   "dbml <path>",
	Short: "Render the catalog as DBML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		text, err := dbml.Generate(c)
		if err != nil {
			return err
		}
		if dbmlOut == "" {
			_, err = cmd.OutOrStdout().Write(text)
			return err
		}
		if err := os.WriteFile(dbmlOut, text, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", dbmlOut, err)
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dbmlCmd)
	dbmlCmd.Flags().StringVarP(&dbmlOut, "output", "o", "", "write to file instead of stdout")
}
