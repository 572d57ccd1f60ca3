// cmd/tableside/main.go
//
// Entry point for the operator console. Loads config and credentials,
// opens the logbook, and runs the TUI. Missing credentials are not
// fatal: the console starts and shows the fetch failures, the same way
// an expired token would surface mid-shift.

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"tableside/internal/alert"
	"tableside/internal/api"
	"tableside/internal/config"
	"tableside/internal/credentials"
	"tableside/internal/logbook"
	"tableside/internal/monitor"
	"tableside/internal/tui"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	book, err := logbook.New(logPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening logbook: %v\n", err)
		os.Exit(1)
	}
	defer book.Close()

	creds, err := credentials.Load()
	if err != nil {
		book.Warn("starting without credentials: set %s and %s",
			credentials.EnvToken, credentials.EnvRestaurantID)
	}

	client := api.NewClient(cfg.Server.BaseURL, creds, cfg.Timeout())
	cue := alert.New(cfg.Alert.Command, cfg.Alert.Sound)
	session := monitor.NewSession(client, cue, book)
	defer session.Close()

	book.Info("console started · backend %s · poll %s", cfg.Server.BaseURL, cfg.PollInterval())

	p := tea.NewProgram(
		tui.NewApp(cfg, client, book, session),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running console: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path, err := config.Find()
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return config.Load(path)
}

func logPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".tableside", "logs", "tableside.log")
	}
	return filepath.Join(home, ".tableside", "logs", "tableside.log")
}
