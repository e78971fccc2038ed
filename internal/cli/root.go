// Package cli implements the schemacat command surface.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/earth-metabolome-initiative/schemacat"
	"github.com/earth-metabolome-initiative/schemacat/catalog"
)

var cfgFile string

var RootCmd = &cobra.Command{
	Use:   "schemacat",
	Short: "Build and inspect schema catalogs from SQL DDL",
	Long: `schemacat reads PostgreSQL DDL and builds a validated, cross-referenced
catalog of it, then answers questions about the schema: load order,
constraint health, grants, maintenance triggers.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(viper.GetString("log.level"))
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./schemacat.yaml)")
	RootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	RootCmd.PersistentFlags().String("name", "", "catalog name (defaults to the input path)")

	viper.BindPFlag("log.level", RootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("build.catalog_name", RootCmd.PersistentFlags().Lookup("name"))

	viper.SetDefault("log.level", "info")
	viper.SetDefault("seed.rows", 10)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("schemacat")
		viper.SetConfigType("yaml")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func setupLogging(level string) error {
	var l slog.Level
	switch strings.ToLower(level) {
	case "debug":
		l = slog.LevelDebug
	case "", "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})))
	return nil
}

// catalogName resolves the catalog name: flag or config first, the input
// path's base name otherwise.
func catalogName(path string) string {
	if name := viper.GetString("build.catalog_name"); name != "" {
		return name
	}
	return filepath.Base(path)
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	return schemacat.BuildPath(catalogName(path), path)
}

// lookupTable resolves a table argument: "schema.table" exactly, a bare name
// in public first and any schema second.
func lookupTable(c *catalog.Catalog, name string) (catalog.Table, bool) {
	if schema, bare, ok := strings.Cut(name, "."); ok {
		return c.Table(schema, bare)
	}
	if t, ok := c.Table("", name); ok {
		return t, true
	}
	return c.TableNamed(name)
}
