package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"katha/internal/cli"
	"katha/internal/log"
	"katha/internal/tui"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentTUI)

	cfg := cli.LoadAndValidateConfig(logger, nil)
	be := cli.InitBackend(context.Background(), logger, cfg)
	defer be.Cleanup()

	// The alternate screen owns stdout from here on.
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		logger.Error("Failed to create data directory", "path", cfg.DataDir, "error", err)
		os.Exit(1)
	}
	logPath := filepath.Join(cfg.DataDir, "katha-tui.log")
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.Error("Failed to open log file", "path", logPath, "error", err)
		os.Exit(1)
	}
	defer f.Close()
	logger = log.New(log.Config{
		Level:     cfg.Level(),
		Component: log.ComponentTUI,
		Handler:   slog.NewTextHandler(f, &slog.HandlerOptions{Level: cfg.Level()}),
	})
	log.SetDefault(logger)

	m := tui.New(context.Background(), tui.StoreLoader(be.Store, cfg.Location(), logger))
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		logger.Error("TUI exited with error", "error", err)
		os.Exit(1)
	}
}
