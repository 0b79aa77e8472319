package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/abhisek/vitals/internal/catalog"
	"github.com/abhisek/vitals/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "vitals",
	Short: "Health-risk self-assessment",
	Long: "Vitals: a terminal questionnaire that scores ten lifestyle habits, " +
		"classifies the result and suggests what to work on.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	loadDotEnv(".env")
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides VITALS_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a YAML question catalog (overrides VITALS_CATALOG env var)")

	rootCmd.AddCommand(questionsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadDotEnv reads KEY=value pairs from path into the environment.
// Variables that are already set win.
func loadDotEnv(path string) {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: failed to load %s: %v\n", path, err)
	}
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then VITALS_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// resolveCatalog loads the catalog named by --catalog or VITALS_CATALOG,
// falling back to the built-in one.
func resolveCatalog(cmd *cobra.Command) (*catalog.Catalog, error) {
	p, _ := cmd.Flags().GetString("catalog")
	if p == "" {
		p = os.Getenv("VITALS_CATALOG")
	}
	if p == "" {
		return catalog.Default(), nil
	}
	return catalog.LoadFile(p)
}
