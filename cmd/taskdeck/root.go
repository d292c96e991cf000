package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"taskdeck/internal/api"
	"taskdeck/internal/config"
	"taskdeck/internal/state"
	"taskdeck/internal/telemetry"
	"taskdeck/internal/ui"
)

// version is stamped by the release build.
var version = "dev"

func newRootCmd() *cobra.Command {
	var (
		configPath string
		serverURL  string
	)

	cmd := &cobra.Command{
		Use:           "taskdeck",
		Short:         "Terminal workspace for server-managed coding tasks",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, serverURL)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	cmd.PersistentFlags().StringVar(&serverURL, "server", "", "task server URL (overrides config)")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the taskdeck version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("taskdeck", version)
		},
	})

	return cmd
}

// loadConfig reads the config file, tolerating a missing file when the
// server URL comes in by flag.
func loadConfig(path, serverURL string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.Default()
	}
	if serverURL != "" {
		cfg.Server.URL = serverURL
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w (set server.url in %s or pass --server)", err, path)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config) error {
	tel, err := telemetry.Setup(ctx)
	if err != nil {
		return fmt.Errorf("telemetry setup: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		tel.Shutdown(shutdownCtx)
	}()

	var client api.Client = api.NewHTTPClient(cfg.Server.URL)
	client = api.WithTracing(client, tel.Tracer())

	// Local state is optional; a broken database costs only the remembered
	// project selection.
	store, err := state.Open(cfg.State.Path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: state database unavailable:", err)
		store = nil
	} else {
		defer store.Close()
	}

	model := ui.NewAppModel(client, store, cfg.Session)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}
