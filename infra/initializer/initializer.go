// Package initializer wires the process-wide dependencies: logger, database
// connection, schema migration and the unit of work. Everything downstream
// receives these as explicit constructor arguments.
package initializer

import (
	"fmt"

	"github.com/corebank/ledger/infra"
	infrarepo "github.com/corebank/ledger/infra/repository"
	"github.com/corebank/ledger/pkg/app"
	"github.com/corebank/ledger/pkg/config"
	"github.com/corebank/ledger/pkg/locks"
	"gorm.io/gorm"
)

// InitializeDependencies opens the database, migrates the schema and builds
// the dependency set for app.New. The returned *gorm.DB must be closed with
// infra.CloseDB at shutdown.
func InitializeDependencies(cfg *config.App) (*app.Deps, *gorm.DB, error) {
	logger := setupLogger(cfg.Log)

	db, err := infra.NewDBConnection(cfg.DB, cfg.Env)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := infra.Migrate(db); err != nil {
		return nil, nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &app.Deps{
		Uow:    infrarepo.NewUoW(db),
		Locks:  locks.NewRegistry(),
		Logger: logger,
	}, db, nil
}
