package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dagCmd = &cobra.Command{
	Use:   "dag <path>",
	Short: "Print tables in dependency order, referenced tables first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		order, err := c.TableDAG()
		if err != nil {
			return err
		}
		for _, t := range order {
			fmt.Fprintln(cmd.OutOrStdout(), t.QualifiedName())
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(dagCmd)
}
