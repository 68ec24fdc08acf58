package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/pable/go-dota-metrics/internal/config"
	"github.com/pable/go-dota-metrics/internal/dashapi"
	"github.com/pable/go-dota-metrics/internal/logger"
	"github.com/pable/go-dota-metrics/internal/storage"
)

var (
	dbPath     string
	configPath string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "dotametrics",
	Short: "Dota 2 player statistics tool",
	Long: `Fetch a Dota 2 player's match history from the dashboard backend, cache it
locally and derive win rates, hero leaderboards and activity heatmaps.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default from config)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(heroesCmd)
	rootCmd.AddCommand(activityCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(configCmd)
}

// setup loads the configuration and logger; flags win over file and env.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if dbPath != "" {
		c.Store.DBPath = dbPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
	}
	cfg = c
	dbPath = c.Store.DBPath
	log = logger.New(c.Log.Level)
	log.Debug().Str("config", configPath).Str("db", dbPath).Msg("configuration loaded")
	return nil
}

// openDB opens the cache, creating its directory on first use.
func openDB() (*storage.DB, error) {
	if dbPath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func newClient() (*dashapi.Client, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	return dashapi.NewClient(cfg.API.BaseURL, timeout, cfg.API.RequestsPerSecond), nil
}

func parseAccountID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid account id %q", s)
	}
	return id, nil
}
