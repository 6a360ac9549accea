package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/template/html/v2"
	"github.com/spf13/cobra"

	"github.com/ManuelReschke/PixelShrink/app/controllers"
	"github.com/ManuelReschke/PixelShrink/app/repository"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/cache"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/config"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/constants"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/database"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/jobqueue"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/middleware"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/router"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/s3backup"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/shrink"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env.SetupEnvFile()
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc, err := setupServices(ctx, cfg)
	if err != nil {
		return err
	}
	app, err := NewApplication(cfg)
	if err != nil {
		return err
	}

	svc.jobs.Start()

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.Addr())
	}()

	select {
	case err = <-errCh:
	case <-ctx.Done():
		log.Info("[Server] Shutting down")
		err = app.ShutdownWithTimeout(shutdownTimeout)
	}

	svc.close()
	return err
}

type services struct {
	registry *session.Registry
	archiver *s3backup.Archiver
	jobs     *jobqueue.Manager
}

func (s *services) close() {
	s.jobs.Stop()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.registry.CloseAll(ctx)
	if s.archiver != nil {
		s.archiver.Wait()
	}
}

// setupServices connects the backing stores and builds the per session
// controller factory
func setupServices(ctx context.Context, cfg *config.Config) (*services, error) {
	cache.SetupCache()

	var repo repository.CompressionRepository
	if err := database.SetupDatabase(); err != nil {
		log.Warnf("[Server] %v, statistics are kept in memory", err)
	}
	if db := database.GetDB(); db != nil {
		repository.InitializeFactory(db)
		repo = repository.GetGlobalFactory().GetCompressionRepository()
	}
	stats := statistics.Setup(repo)
	observers := []shrink.AttemptObserver{stats}

	s3cfg, err := s3backup.LoadConfig()
	if err != nil {
		return nil, err
	}
	var archiver *s3backup.Archiver
	if s3cfg.IsEnabled() {
		client, err := s3backup.NewClient(ctx, s3cfg)
		if err != nil {
			log.Errorf("[Server] S3 archive disabled: %v", err)
		} else {
			archiver = s3backup.NewArchiver(client)
			observers = append(observers, archiver)
		}
	}

	store := storage.Setup(cfg.DownloadTTL)
	compressor := imageprocessor.GetCompressor()
	registry := session.SetupRegistry(func(id string) *shrink.Controller {
		return shrink.NewController(compressor, store,
			shrink.WithID(id),
			shrink.WithTimeout(cfg.CompressTimeout),
			shrink.WithObserver(observers...),
		)
	})
	session.NewSessionStore(cfg.SessionTTL)

	jobs := jobqueue.GetManager()
	jobs.Register(
		jobqueue.SessionSweep(registry, cfg.SweepInterval, cfg.SessionTTL),
		jobqueue.StatisticsRefresh(stats, cfg.SweepInterval),
	)
	if mem, ok := store.(*storage.MemoryStore); ok {
		jobs.Register(jobqueue.DownloadSweep(mem, cfg.SweepInterval))
	}
	if repo != nil && cfg.StatsRetention > 0 {
		jobs.Register(jobqueue.StatisticsPrune(repo, 24*time.Hour, cfg.StatsRetention))
	}

	return &services{registry: registry, archiver: archiver, jobs: jobs}, nil
}

// NewApplication builds the Fiber app. Services must be set up first.
func NewApplication(cfg *config.Config) (*fiber.App, error) {
	basePath, err := findBasePath()
	if err != nil {
		return nil, err
	}

	app := fiber.New(fiber.Config{
		Views:        html.New(basePath+"views", ".html"),
		BodyLimit:    cfg.BodyLimit(),
		ErrorHandler: controllers.ErrorHandler,
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// fiber metrics and diagnostics
	if cfg.MetricsEnabled() {
		opsAuth := middleware.MetricsAuth(cfg.MetricsUser, cfg.MetricsPasswordHash)
		app.Get(constants.MetricsRoute, opsAuth, monitor.New())
		app.Get(constants.DiagnosticsRoute, opsAuth, controllers.HandleDiagnostics)
	}

	// static files
	app.Static("/", basePath+"public/assets", fiber.Static{
		CacheDuration: 15 * time.Second,
		Compress:      true,
	})

	// SWAGGER / OPENAPI
	app.Use(swagger.New(swagger.Config{
		BasePath: "/docs/api/",
		FilePath: basePath + "internal/api/v1/openapi.yml",
		Path:     "v1",
		Title:    "PixelShrink API",
	}))

	// ROUTER
	router.InstallRouter(app)

	return app, nil
}

func findBasePath() (string, error) {
	basePaths := []string{
		"./",        // Current directory
		"../../",    // From cmd/pixelshrink to project root
		"../../../", // Fallback
	}
	for _, path := range basePaths {
		if _, err := os.Stat(path + "views"); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("could not find project root directory (no views/ in %v)", basePaths)
}
