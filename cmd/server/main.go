package main

import (
	"fmt"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/corebank/ledger/infra"
	"github.com/corebank/ledger/infra/initializer"
	"github.com/corebank/ledger/pkg/app"
	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/webapi"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, db, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer func() {
		if cerr := infra.CloseDB(db); cerr != nil {
			slog.Error("closing database", "error", cerr)
		}
	}()

	application := app.New(deps, cfg)
	fiberApp := webapi.SetupApp(application)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	deps.Logger.Info("starting server", "env", cfg.Env, "address", addr)
	return fiberApp.Listen(addr)
}
