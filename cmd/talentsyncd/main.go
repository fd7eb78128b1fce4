package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MandarKelkarOfficial/talent-sync/internal/common"
	"github.com/MandarKelkarOfficial/talent-sync/internal/dispatch"
	"github.com/MandarKelkarOfficial/talent-sync/internal/export"
	"github.com/MandarKelkarOfficial/talent-sync/internal/extract"
	"github.com/MandarKelkarOfficial/talent-sync/internal/metrics"
	"github.com/MandarKelkarOfficial/talent-sync/internal/pipeline"
	"github.com/MandarKelkarOfficial/talent-sync/internal/probe"
	"github.com/MandarKelkarOfficial/talent-sync/internal/server"
	"github.com/MandarKelkarOfficial/talent-sync/internal/store"
	"github.com/MandarKelkarOfficial/talent-sync/internal/vault"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobs, closeStore, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("job store init failed", "backend", cfg.Store.Backend, "error", err)
		os.Exit(1)
	}
	defer closeStore()
	logger.Info("job store ready", "backend", cfg.Store.Backend)

	secret, err := vault.SecretFromBase64(cfg.Vault.AESKeyBase64)
	if err != nil {
		logger.Error("AES key rejected", "error", err)
		os.Exit(1)
	}
	sealer, err := vault.New(secret, cfg.Vault.UploadDir, logger)
	if err != nil {
		logger.Error("vault init failed", "error", err)
		os.Exit(1)
	}

	extractor := extract.NewExtractor(extract.Config{
		Pdftotext: cfg.Extract.Pdftotext,
		Pdftoppm:  cfg.Extract.Pdftoppm,
		Tesseract: cfg.Extract.Tesseract,
		Zbarimg:   cfg.Extract.Zbarimg,
		DPI:       cfg.Extract.DPI,
		OCRPages:  cfg.Extract.OCRPages,
	}, logger)

	pages := probe.NewPageProber(cfg.Dispatch.PostTimeout, logger)
	links := probe.NewQrLinkProber(pages, logger)

	dispatcher := dispatch.New(dispatch.Config{
		Endpoint:    cfg.Dispatch.Endpoint,
		Timeout:     cfg.Dispatch.PostTimeout,
		MaxAttempts: cfg.Dispatch.PostRetries,
		Backoff:     cfg.Dispatch.Backoff,
	}, logger)

	m := metrics.New()

	proc := pipeline.NewProcessor(logger, jobs, extractor, pages, links, sealer, dispatcher, m, cfg.Dispatch.PostTimeout)
	queue := pipeline.NewQueue(proc, logger,
		pipeline.WithWorkers(cfg.Pipeline.Workers),
		pipeline.WithQueueSize(cfg.Pipeline.QueueSize),
		pipeline.WithProcessTimeout(cfg.Pipeline.ProcessTimeout),
	)

	exporter := export.NewService(jobs, logger)
	srv := server.New(logger, jobs, queue, exporter, m)

	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown incomplete", "error", err)
	}
	queue.Shutdown(shutdownCtx)
	logger.Info("stopped")
}

// buildStore selects the job store backend from configuration.
func buildStore(ctx context.Context, cfg *common.Config, logger *slog.Logger) (store.JobStore, func(), error) {
	switch cfg.Store.Backend {
	case "postgres":
		s, err := store.NewPostgres(ctx, cfg.Store.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, s.Close, nil
	case "sqlite":
		s, err := store.NewSQLite(ctx, cfg.Store.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return s, func() {
			if cerr := s.Close(); cerr != nil {
				logger.Warn("sqlite close failed", "error", cerr)
			}
		}, nil
	default:
		return store.NewInMemory(), func() {}, nil
	}
}
