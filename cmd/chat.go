package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/term"

	"github.com/sdschat/sdschat/internal/chat"
	"github.com/sdschat/sdschat/internal/config"
	"github.com/sdschat/sdschat/internal/provider"
	"github.com/sdschat/sdschat/internal/tui"
)

// runChat opens the interactive chat screen.
func runChat() error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("sdschat needs a terminal; use the list and export subcommands in scripts")
	}

	cfg := initConfig()

	kv, err := openKV(cfg)
	if err != nil {
		return err
	}
	defer kv.Close()

	logger, logClose, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer logClose()

	store := chat.NewStore(kv, logger)
	store.Initialize(cfg.DarkDefault())
	defer func() {
		if err := store.Flush(); err != nil {
			logger.Error("flush on exit", "err", err)
		}
	}()

	responder := provider.NewCanned(time.Duration(cfg.ResponseDelayMS) * time.Millisecond)
	logger.Info("chat started", "version", appVersion, "provider", responder.Name())

	return tui.Run(store, responder, cfg.ExportDir)
}

// newLogger writes structured logs to a file next to the database. The TUI
// owns the terminal, so nothing may log to stderr while it runs.
func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	path, err := dbPath(cfg)
	if err != nil {
		return nil, nil, err
	}
	logPath := filepath.Join(filepath.Dir(path), "sdschat.log")

	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelInfo}))
	return logger, func() { f.Close() }, nil
}
