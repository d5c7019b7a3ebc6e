// Package server assembles the application: repositories, file store,
// analysis client, services and the HTTP server. It also owns graceful
// shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/pdfnotes/internal/logging"
	"github.com/dmitrijs2005/pdfnotes/internal/server/analysis"
	"github.com/dmitrijs2005/pdfnotes/internal/server/config"
	"github.com/dmitrijs2005/pdfnotes/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pdfnotes/internal/server/rest"
	"github.com/dmitrijs2005/pdfnotes/internal/server/services"
	"github.com/dmitrijs2005/pdfnotes/internal/server/storage"
)

type App struct {
	config     *config.Config
	logger     *logging.ZapLogger
	repos      repomanager.RepositoryManager
	pdfService *services.PdfService
	server     *rest.Server
}

// Test seams.
var (
	newLogger          = logging.NewProduction
	newPostgresManager = func(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
		return repomanager.NewPostgresRepositoryManager(ctx, dsn)
	}
	newS3Store = func(ctx context.Context, o storage.S3Options) (storage.Store, error) {
		return storage.NewS3Store(ctx, o)
	}
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, err := newLogger(c.LogLevel)
	if err != nil {
		return nil, err
	}

	repos, err := openRepositories(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := repos.RunMigrations(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	store, err := openStore(ctx, c)
	if err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	// A nil interface, not a nil *analysis.Client, disables the feature.
	var analyzer services.Analyzer
	if c.AnalysisURL != "" {
		analyzer = analysis.New(c.AnalysisURL, c.AnalysisTimeout)
	}

	ps := services.NewPdfService(repos, store, analyzer, logger.With("module", "pdf_service"))
	srv := rest.NewServer(c, logger, rest.Deps{
		Users:   services.NewUserService(repos, c),
		Folders: services.NewFolderService(repos),
		Pdfs:    ps,
		Store:   store,
		DB:      repos,
	})

	return &App{config: c, logger: logger, repos: repos, pdfService: ps, server: srv}, nil
}

func openRepositories(ctx context.Context, dsn string) (repomanager.RepositoryManager, error) {
	if dsn == config.MemoryDSN {
		return repomanager.NewMemoryRepositoryManager(), nil
	}
	return newPostgresManager(ctx, dsn)
}

func openStore(ctx context.Context, c *config.Config) (storage.Store, error) {
	switch c.StorageBackend {
	case config.StorageS3:
		return newS3Store(ctx, storage.S3Options{
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Region:       c.S3Region,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
	case config.StorageLocal:
		return storage.NewLocalStore(c.UploadDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			app.logger.Info(ctx, "Shutdown signal received")
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled or a termination signal arrives, then
// waits for background indexing and releases resources.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.initSignalHandler(ctx, cancelFunc)
	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageBackend, "analysis", app.config.AnalysisURL != "")

	runErr := app.server.Run(ctx)

	app.pdfService.Wait()
	closeErr := app.repos.Close()
	_ = app.logger.Sync()

	return errors.Join(runErr, closeErr)
}
