package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-statcast-diagnosis/internal/config"
	"github.com/pable/go-statcast-diagnosis/internal/logger"
)

var (
	configPath string
	dbPath     string
	logLevel   string

	// cfg is loaded once in the root PersistentPreRunE.
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "statdiag",
	Short: "Statcast season diagnosis tool",
	Long: `Pull per-pitch Statcast data for a batter or a game, split a season into
early, mid and late 10-game windows, compare the windows and write
scout-style narratives and game recaps with an LLM.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	PersistentPostRun: func(*cobra.Command, []string) { logger.Sync() },
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (default $STATDIAG_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (overrides db_path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error (overrides log.level)")

	rootCmd.AddCommand(
		diagnoseCmd,
		gamesCmd,
		compareCmd,
		narrateCmd,
		recapCmd,
		strategyCmd,
		fetchCmd,
		importCmd,
		listCmd,
		showCmd,
		exportCmd,
		playersCmd,
		teamsCmd,
		seasonsCmd,
		summaryCmd,
		sqlCmd,
		dropCmd,
		shellCmd,
		serveCmd,
	)
}

// loadConfig layers flags over the loaded configuration and starts the logger.
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if logLevel != "" {
		c.Log.Level = logLevel
		if err := c.Validate(); err != nil {
			return err
		}
	}
	if err := logger.Init(c.Log.Level, c.Log.Format); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	cfg = c
	logger.Debug("config loaded")
	return nil
}

func ensureDBDir() error {
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}
