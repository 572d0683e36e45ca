package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sdschat/sdschat/internal/config"
	"github.com/sdschat/sdschat/internal/storage"
)

var (
	cfgFile       string
	dataDirFlag   string
	themeFlag     string
	exportDirFlag string

	// Package-level version info, set by Execute().
	appVersion string
	appCommit  string
	appDate    string
)

// Execute is the main entry point called from main.go.
func Execute(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date

	rootCmd := &cobra.Command{
		Use:   "sdschat",
		Short: "Terminal chat client with persistent conversation history",
		Long: "sdschat is a terminal chat client. Conversations, the active selection,\n" +
			"and the theme preference persist across runs in a local SQLite database.",
		// Running sdschat with no subcommand opens the chat screen.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/sdschat/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "directory for the database and log file (default ~/.local/share/sdschat)")
	rootCmd.PersistentFlags().StringVar(&themeFlag, "theme", "", "default theme: light or dark")
	rootCmd.PersistentFlags().StringVar(&exportDirFlag, "export-dir", "", "directory for exported conversations (default .)")

	// Subcommands
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newExportCmd())
	rootCmd.AddCommand(newCleanCmd())
	rootCmd.AddCommand(newVersionCmd(version, commit, date))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// CLI flags override config values
	if dataDirFlag != "" {
		cfg.DataDir = dataDirFlag
	}
	if themeFlag != "" {
		cfg.Theme = themeFlag
	}
	if exportDirFlag != "" {
		cfg.ExportDir = exportDirFlag
	}

	return cfg
}

// dbPath returns the database location for the configured data directory.
func dbPath(cfg *config.Config) (string, error) {
	if cfg.DataDir != "" {
		return filepath.Join(cfg.DataDir, "sdschat.db"), nil
	}
	return storage.DefaultDBPath()
}

// openKV opens the persistence backend for the configured data directory.
func openKV(cfg *config.Config) (*storage.SQLiteKV, error) {
	path, err := dbPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve db path: %w", err)
	}
	kv, err := storage.NewSQLiteKV(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return kv, nil
}
