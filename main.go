package main

import (
	"context"
	stderrors "errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fleetops/adapters/postgres"
	"fleetops/internal"
	"fleetops/internal/config"
	"fleetops/internal/container"
	"fleetops/internal/errors"
	"fleetops/internal/migration"
	"fleetops/ui"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

const sessionSweepInterval = time.Minute

// initDatabase connects to Postgres and applies the schema
func initDatabase(ctx context.Context, appConfig *config.Config, logger *internal.Logger) (*sqlx.DB, error) {
	db, err := postgres.Connect(ctx, appConfig.Database)
	if err != nil {
		return nil, err
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "database migration failed")
	}
	logger.Info("[main] Database schema at version %s", migrator.Version())

	return db, nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		internal.DefaultLogger.Info("[main] No .env file found, using system environment variables")
	}

	appConfig, err := config.Load(true)
	if err != nil {
		internal.DefaultLogger.Error("[main] Failed to load configuration: %v", err)
		os.Exit(1)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(appConfig.LogLevel))
	defer logger.Sync()
	gin.SetMode(appConfig.Server.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, appConfig, logger); err != nil {
		logger.Error("[main] %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, appConfig *config.Config, logger *internal.Logger) error {
	db, err := initDatabase(ctx, appConfig, logger)
	if err != nil {
		return errors.Wrap(err, "failed to initialize database")
	}
	defer db.Close()

	appContainer, err := container.New(appConfig, logger)
	if err != nil {
		return errors.Wrap(err, "failed to create application container")
	}
	defer appContainer.Shutdown()

	if err := appContainer.InitWithDatabase(db); err != nil {
		return errors.Wrap(err, "failed to initialize container")
	}

	server := ui.NewServer(ui.Dependencies{
		Imports:  appContainer.ImportService,
		Sessions: appContainer.Sessions,
		Hub:      appContainer.SSEHub,
		Tasks:    appContainer.TaskRepo,
		Config:   appConfig.Import,
		Logger:   logger,
	})

	g, gctx := errgroup.WithContext(ctx)

	// request contexts end with gctx so SSE streams close on shutdown;
	// commits run detached and finish first
	httpServer := &http.Server{
		Addr:              ":" + appConfig.Server.Port,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		logger.Info("[main] Starting fleetops server on port %s", appConfig.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http server failed")
		}
		return nil
	})

	g.Go(func() error {
		return appContainer.Sessions.RunJanitor(gctx, sessionSweepInterval)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("[main] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
