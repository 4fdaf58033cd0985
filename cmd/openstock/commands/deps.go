package commands

import (
	"fmt"

	"github.com/zhongcheng0519/openstock/internal/materialize"
	"github.com/zhongcheng0519/openstock/internal/provider"
	"github.com/zhongcheng0519/openstock/internal/screen"
	"github.com/zhongcheng0519/openstock/internal/store"
	"github.com/zhongcheng0519/openstock/internal/strategy"
	"github.com/zhongcheng0519/openstock/pkg/config"
	"github.com/zhongcheng0519/openstock/pkg/database"
	"github.com/zhongcheng0519/openstock/pkg/logger"
)

// app bundles the wired dependency graph shared by the subcommands.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *database.DB
	store   *store.Store
	service *strategy.Service
}

// newApp loads config, connects to the database and wires the service
// stack. Callers must Close() when done.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if verbose {
		cfg.LogLevel = "debug"
		cfg.LogFormat = "console"
	}

	log := logger.New(cfg)

	db, err := database.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	dataStore := store.New(db.Pool)
	gateway := provider.NewTushareClient(cfg, log)
	coordinator := materialize.NewCoordinator(gateway, dataStore, log)
	engine := screen.NewEngine(dataStore, screen.NewRepository(db.Pool), log)
	service := strategy.NewService(coordinator, engine, gateway, dataStore, log)

	return &app{
		cfg:     cfg,
		log:     log,
		db:      db,
		store:   dataStore,
		service: service,
	}, nil
}

// Close releases the app's resources.
func (a *app) Close() {
	a.db.Close()
}
