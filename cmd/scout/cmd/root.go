package cmd

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/scout"
	"github.com/hazyhaar/scout/dbopen"
	"github.com/hazyhaar/scout/internal/store"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "scout",
	Short: "arXiv paper scout: harvest metadata and extract figures",
	Long: `scout pages paper metadata out of the arXiv API into a CSV ledger and
an SQLite database, downloads e-print source archives, reassembles the TeX
document from its split files and saves the figures it references, with
captions, under an output tree keyed by publication date and identifier.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(newLogger())
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", env("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func newLogger() *slog.Logger {
	var lvl slog.Level
	switch logLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// loadConfig reads the --config file when given, otherwise defaults with
// environment overrides for the paths a deployment usually moves.
func loadConfig() (*scout.Config, error) {
	if cfgPath != "" {
		return scout.LoadConfig(cfgPath)
	}
	cfg := scout.DefaultConfig()
	cfg.DBPath = env("SCOUT_DB", cfg.DBPath)
	cfg.LedgerPath = env("SCOUT_LEDGER", cfg.LedgerPath)
	cfg.OutputRoot = env("SCOUT_OUTPUT", cfg.OutputRoot)
	cfg.Category = env("SCOUT_CATEGORY", cfg.Category)
	cfg.Listen = env("SCOUT_LISTEN", cfg.Listen)
	return cfg, cfg.Validate()
}

// openService builds the full service on the configured database. The caller
// closes the returned handle.
func openService() (*scout.Service, *sql.DB, *scout.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll(), dbopen.WithSchema(store.Schema))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open %s: %w", cfg.DBPath, err)
	}
	svc, err := scout.New(db, cfg, slog.Default())
	if err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	return svc, db, cfg, nil
}

// parseDayFlag accepts YYYY-MM-DD, or empty for yesterday (GMT), the most
// recent day arXiv has fully published.
func parseDayFlag(day string) (time.Time, error) {
	if day == "" {
		return time.Now().UTC().AddDate(0, 0, -1), nil
	}
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return time.Time{}, fmt.Errorf("day %q: want YYYY-MM-DD", day)
	}
	return t, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
