// Package app wires configuration, logging and the results store
// together for the simulator command.
package app

import (
	"log/slog"

	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/infra"
	"github.com/TrellixVulnTeam/Market-Learn-B049/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration, installs the default logger and opens
// the results store.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	if cfg.Output.DBPath != "" {
		store, err := storage.NewStorage(cfg.Output.DBPath)
		if err != nil {
			return err
		}
		b.Storage = store
		slog.Info("results store ready", slog.String("path", cfg.Output.DBPath))
	}

	return nil
}
