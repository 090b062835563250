package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/j-veylop/prediksi-dashboard-tui/internal/app"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/config"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/logger"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/services"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/tabs/dashboard"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/tabs/history"
	"github.com/j-veylop/prediksi-dashboard-tui/internal/ui/tabs/info"
)

// runTUI runs the dashboard until the user quits. A missing or broken
// bundle does not stop it: the dashboard shows the error and can retry.
func runTUI(cfg *config.Config) error {
	closeLog, err := logger.ToFile(cfg.LogPath, logger.ParseLevel(cfg.LogLevel))
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	svcManager, err := services.NewManager(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}
	defer func() {
		if closeErr := svcManager.Close(); closeErr != nil {
			logger.Warn("error closing services", "error", closeErr)
		}
	}()

	model := app.NewModel(svcManager)

	state := model.GetState()
	model.SetTabs([]app.Tab{
		dashboard.New(state, cfg),
		history.New(state),
		info.New(state, cfg),
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	go func() {
		<-sigChan
		p.Send(tea.Quit())
	}()

	logger.Info("dashboard started", "bundle", cfg.BundlePath)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}
