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

	"github.com/NammaThalle/grocery-tracker/internal/async"
	"github.com/NammaThalle/grocery-tracker/internal/cache"
	"github.com/NammaThalle/grocery-tracker/internal/common"
	"github.com/NammaThalle/grocery-tracker/internal/expense"
	"github.com/NammaThalle/grocery-tracker/internal/export"
	"github.com/NammaThalle/grocery-tracker/internal/extract"
	"github.com/NammaThalle/grocery-tracker/internal/llm/gemini"
	"github.com/NammaThalle/grocery-tracker/internal/pipeline"
	"github.com/NammaThalle/grocery-tracker/internal/repository"
	"github.com/NammaThalle/grocery-tracker/internal/server"
	"github.com/NammaThalle/grocery-tracker/internal/sheets"
)

func main() {
	// Structured logger that outputs messages with variables but no time/level
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey || a.Key == slog.LevelKey {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Response cache
	responses, err := cache.Open(cfg.Cache.Path, logger)
	if err != nil {
		logger.Error("failed to open response cache", "error", err, "path", cfg.Cache.Path)
		os.Exit(1)
	}
	defer func() { _ = responses.Close() }()

	// Optional Postgres archive
	var sinks []pipeline.Appender
	var exporter server.Exporter
	if cfg.Database.DSN != "" {
		pool, err := repository.Open(ctx, repository.Config{
			DSN:             cfg.Database.DSN,
			MaxConns:        cfg.Database.MaxConns,
			MinConns:        cfg.Database.MinConns,
			MaxConnLifetime: cfg.Database.MaxConnLifetime,
			MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
			DialTimeout:     cfg.Database.DialTimeout,
		}, logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer repository.Close(pool, logger)

		if err := repository.HealthCheck(ctx, pool, 5*time.Second, logger); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}

		archive := repository.NewExpenseRepository(pool, logger)
		if err := archive.EnsureSchema(ctx); err != nil {
			logger.Error("failed to ensure archive schema", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, archive)
		exporter = export.NewService(archive, logger)
	}

	// Optional Google Sheets appender
	if cfg.Sheets.SpreadsheetID != "" {
		appender, err := sheets.NewAppender(ctx, sheets.Config{
			SpreadsheetID:   cfg.Sheets.SpreadsheetID,
			SheetName:       cfg.Sheets.SheetName,
			CredentialsFile: cfg.Sheets.CredentialsFile,
			ClientID:        cfg.Sheets.ClientID,
			ClientSecret:    cfg.Sheets.ClientSecret,
			RefreshToken:    cfg.Sheets.RefreshToken,
		}, logger)
		if err != nil {
			logger.Error("failed to create sheets appender", "error", err)
			os.Exit(1)
		}
		sinks = append(sinks, appender)
	}

	// Model client and pipeline
	transcriber := gemini.NewClient(gemini.Config{
		APIKey:      cfg.Model.APIKey,
		BaseURL:     cfg.Model.BaseURL,
		Model:       cfg.Model.Model,
		Temperature: cfg.Model.Temperature,
		Timeout:     cfg.Model.Timeout,
	}, logger)

	extractor := extract.NewExtractor(logger)
	assembler := expense.NewAssembler(logger, cfg.Server.Workers)
	processor := pipeline.NewProcessor(logger, transcriber, extractor, assembler, responses, cfg.Model.Model, sinks...)

	queue := async.NewProcessorQueue(processor, logger,
		async.WithWorkers(cfg.Server.Workers),
		async.WithQueueSize(256),
		async.WithProcessTimeout(2*time.Minute),
	)

	handler := server.NewExpenseHandler(
		pipeline.NewTextAgent(processor),
		pipeline.NewReceiptAgent(processor),
		exporter,
		queue,
		cfg.Location(),
		logger,
	)
	router := server.NewRouter(handler, logger)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: router,
	}

	logger.Info("groceryd listening", "addr", cfg.Server.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http serve error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	queue.Shutdown(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown error", "error", err)
	}
}
