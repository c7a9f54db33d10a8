package app

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/strainlab/rainflow/internal/acquisition"
	"github.com/strainlab/rainflow/internal/analysis"
	"github.com/strainlab/rainflow/internal/database"
	"github.com/strainlab/rainflow/internal/log"
	"github.com/strainlab/rainflow/internal/server"
	"github.com/strainlab/rainflow/pkg/config"
	"go.uber.org/zap"
)

// App represents the main application
type App struct {
	configProvider config.ConfigProvider
	logger         *zap.SugaredLogger
}

// New creates a new application instance
func New(configProvider config.ConfigProvider, logger *zap.SugaredLogger) *App {
	return &App{
		configProvider: configProvider,
		logger:         logger,
	}
}

// Run starts the application and blocks until shutdown
func (a *App) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Connect the results database when one is configured
	var sink acquisition.RunSink
	var store server.RunStore

	storageCfg, err := a.configProvider.GetStorageConfig()
	if err != nil {
		return err
	}
	if storageCfg.Postgres != nil {
		client := database.NewClient(storageCfg.Postgres.ConnectionString, a.logger)
		if err := client.Connect(); err != nil {
			return err
		}
		sink = client
		store = client
	} else {
		log.Info("no results storage configured, runs will not be persisted")
	}

	analyzer := analysis.NewAnalyzer(a.logger)

	// Initialize the acquisition manager for live channels
	manager, err := acquisition.NewManager(ctx, &wg, a.configProvider, analyzer, sink, a.logger)
	if err != nil {
		return err
	}
	if err := manager.StartSources(); err != nil {
		return err
	}

	// Initialize the REST server when one is configured
	serverCfg, err := a.configProvider.GetServerConfig()
	if err != nil {
		return err
	}
	if serverCfg != nil {
		ctrl, err := server.NewController(ctx, &wg, *serverCfg, analyzer, store, a.logger)
		if err != nil {
			return err
		}
		if err := ctrl.StartServer(); err != nil {
			return err
		}
	}

	log.Info("Application started successfully")

	// Set up signal handling
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	select {
	case <-sigs:
		log.Info("shutdown signal received, initiating graceful shutdown...")
	case <-ctx.Done():
		log.Info("context cancelled, shutting down...")
	}

	// Cancel context to signal all goroutines to stop
	cancel()

	// Wait for all workers to terminate
	log.Info("waiting for all workers to terminate...")
	wg.Wait()
	log.Info("shutdown complete")

	return nil
}
