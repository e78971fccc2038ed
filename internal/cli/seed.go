package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gosuri/uiprogress"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/earth-metabolome-initiative/schemacat/internal/seed"
)

var (
	seedRows int
	seedOut  string
)

var seedCmd = &cobra.Command{
	Use:   "seed <path>",
	Short: "Generate fake INSERT statements in dependency order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadCatalog(args[0])
		if err != nil {
			return err
		}
		stmts, err := seed.Statements(c, viper.GetInt("seed.rows"))
		if err != nil {
			return err
		}

		if seedOut == "" {
			out := cmd.OutOrStdout()
			for _, s := range stmts {
				fmt.Fprintln(out, s)
			}
			return nil
		}

		f, err := os.Create(seedOut)
		if err != nil {
			return fmt.Errorf("create %s: %w", seedOut, err)
		}
		defer f.Close()

		uiprogress.Start()
		bar := uiprogress.AddBar(len(stmts)).AppendCompleted().PrependElapsed()
		bar.PrependFunc(func(b *uiprogress.Bar) string { return "Writing: " })
		for _, s := range stmts {
			if _, err := fmt.Fprintln(f, s); err != nil {
				uiprogress.Stop()
				return fmt.Errorf("write %s: %w", seedOut, err)
			}
			bar.Incr()
		}
		uiprogress.Stop()

		slog.Info("seed written", "statements", len(stmts), "file", seedOut)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(seedCmd)
	seedCmd.Flags().IntVarP(&seedRows, "rows", "n", 10, "rows per table")
	seedCmd.Flags().StringVarP(&seedOut, "output", "o", "", "write to file instead of stdout")
	viper.BindPFlag("seed.rows", seedCmd.Flags().Lookup("rows"))
}
