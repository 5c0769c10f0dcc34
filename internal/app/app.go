package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/thealper2/llava-image-archiver/config"
	"github.com/thealper2/llava-image-archiver/internal/controller/restapi"
	"github.com/thealper2/llava-image-archiver/internal/controller/worker/rescan"
	"github.com/thealper2/llava-image-archiver/internal/infrastructure/ollama"
	"github.com/thealper2/llava-image-archiver/internal/infrastructure/processor"
	"github.com/thealper2/llava-image-archiver/internal/infrastructure/scanner"
	"github.com/thealper2/llava-image-archiver/internal/repo/persistent"
	"github.com/thealper2/llava-image-archiver/internal/usecase/archive"
	"github.com/thealper2/llava-image-archiver/internal/usecase/search"
	"github.com/thealper2/llava-image-archiver/pkg/httpserver"
	"github.com/thealper2/llava-image-archiver/pkg/logger"
	"github.com/thealper2/llava-image-archiver/pkg/postgres"
	"github.com/thealper2/llava-image-archiver/web"
)

const _workerShutdownTimeout = 5 * time.Second

func Run(cfg *config.Config) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Logger
	l := logger.New(cfg.Log.Level)

	// Repository

	// postgres
	pg, err := postgres.New(cfg.PG.URL, postgres.MaxPoolSize(cfg.PG.PoolMax))
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - postgres.New: %w", err))
	}
	defer pg.Close()

	if err := persistent.InitSchema(ctx, pg); err != nil {
		l.Fatal(fmt.Errorf("app - Run - persistent.InitSchema: %w", err))
	}

	imageRepo := persistent.NewImageMetadataRepo(pg)
	descRepo := persistent.NewDescriptionRepo(pg)
	scanRepo := persistent.NewScanRunRepo(pg)

	// Infrastructure
	ollamaClient := ollama.New(
		cfg.Ollama.URL,
		cfg.Ollama.VisionModel,
		cfg.Ollama.EmbedModel,
		cfg.Ollama.Timeout,
		cfg.Ollama.MaxRetries,
	)

	// Use-Case

	// archive use-case
	archiveUseCase := archive.New(
		imageRepo,
		descRepo,
		scanRepo,
		pg,
		scanner.New(cfg.Scan.MaxFileSize),
		ollamaClient,
		ollamaClient,
		processor.New(),
		cfg.Scan.Workers,
		l,
	)

	// search use-case
	searchUseCase := search.New(imageRepo, descRepo, ollamaClient, cfg.Search.SimilarityThreshold, l)

	// Rescan Worker
	rescanWorker := rescan.New(archiveUseCase, l, cfg.Scan.RescanInterval)

	// Views
	engine, err := web.NewEngine()
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - web.NewEngine: %w", err))
	}

	static, err := web.Static()
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - web.Static: %w", err))
	}

	// HTTP Server
	httpServer := httpserver.New(
		l,
		httpserver.Port(cfg.HTTP.Port),
		httpserver.Prefork(cfg.HTTP.UsePreforkMode),
		httpserver.Views(engine),
	)
	httpServer.App.Use("/static", filesystem.New(filesystem.Config{Root: static}))
	restapi.NewRouter(httpServer.App, cfg, archiveUseCase, searchUseCase, l)

	// Start Components
	err = rescanWorker.Start(ctx)
	if err != nil {
		l.Fatal(fmt.Errorf("app - Run - rescanWorker.Start: %w", err))
	}
	httpServer.Start()

	// Waiting Signal
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		l.Info("app - Run - signal: %s", s.String())
	case err = <-httpServer.Notify():
		l.Error(fmt.Errorf("app - Run - httpServer.Notify: %w", err))
	}

	// Shutdown
	err = httpServer.Shutdown()
	if err != nil {
		l.Error(fmt.Errorf("app - Run - httpServer.Shutdown: %w", err))
	}

	rwShutdownCtx, rwShutdownCancel := context.WithTimeout(context.Background(), _workerShutdownTimeout)
	defer rwShutdownCancel()
	err = rescanWorker.Shutdown(rwShutdownCtx)
	if err != nil {
		l.Error(fmt.Errorf("app - Run - rescanWorker.Shutdown: %w", err))
	}
}
