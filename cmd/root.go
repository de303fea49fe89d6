package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/guwen/internal/logging"
	"github.com/abhisek/guwen/internal/store"
)

// version is set via -ldflags "-X github.com/abhisek/guwen/cmd.version=..."
// and printed by guwen --version.
var version = "(devel)"

var rootCmd = &cobra.Command{
	Use:   "guwen",
	Short: "Classical Chinese exam question generator",
	Long: "guwen builds multiple-choice questions on classical Chinese characters " +
		"from a local corpus of articles, definitions and short quotations.",
	Version:      version,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate("guwen {{.Version}}\n")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides GUWEN_DB env var)")
	rootCmd.PersistentFlags().String("log", "", "Log mode: quiet, dev, prod or off (overrides GUWEN_LOG env var)")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(weightsCmd)
	rootCmd.AddCommand(suggestCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(llmCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then GUWEN_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the database selected by resolveDBPath.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}

// newLogger builds the logger selected by --log, then GUWEN_LOG.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	mode, _ := cmd.Flags().GetString("log")
	if mode == "" {
		mode = os.Getenv("GUWEN_LOG")
	}
	return logging.New(mode)
}
