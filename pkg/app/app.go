// Package app assembles the services from their shared dependencies.
package app

import (
	"log/slog"

	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/pkg/locks"
	"github.com/corebank/ledger/pkg/repository"
	"github.com/corebank/ledger/pkg/service/anomaly"
	"github.com/corebank/ledger/pkg/service/auth"
	"github.com/corebank/ledger/pkg/service/ledger"
	"github.com/corebank/ledger/pkg/service/transfer"
	"github.com/corebank/ledger/pkg/service/user"
)

// Deps contains the process-wide dependencies the services are built from.
// One lock registry is shared by every component that mutates balances.
type Deps struct {
	Uow    repository.UnitOfWork
	Locks  *locks.Registry
	Logger *slog.Logger
}

// App holds the wired services.
type App struct {
	Deps   *Deps
	Config *config.App

	AuthService     *auth.Service
	UserService     *user.Service
	LedgerService   *ledger.Service
	Transfers       *transfer.Coordinator
	AnomalyScreener *anomaly.Screener
}

// New wires all services from the given dependencies and configuration.
func New(deps *Deps, cfg *config.App) *App {
	return &App{
		Deps:            deps,
		Config:          cfg,
		AuthService:     auth.New(deps.Uow, cfg.Jwt, deps.Logger),
		UserService:     user.New(deps.Uow, deps.Logger),
		LedgerService:   ledger.New(deps.Uow, deps.Locks, deps.Logger),
		Transfers:       transfer.New(deps.Uow, deps.Locks, deps.Logger),
		AnomalyScreener: anomaly.New(deps.Uow, cfg.Anomaly.Threshold, deps.Logger),
	}
}
