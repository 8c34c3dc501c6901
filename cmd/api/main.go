package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/botkyrka/assist"
	"github.com/botkyrka/assist/api"
	"github.com/botkyrka/assist/config"
	"github.com/botkyrka/assist/db"
	"github.com/botkyrka/assist/llm"
	"github.com/botkyrka/assist/logger"
	"github.com/botkyrka/assist/scraper"
	"github.com/botkyrka/assist/search"
	"github.com/botkyrka/assist/tracing"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	// Command-line flags (override file and environment)
	configPath := flag.String("config", os.Getenv("ASSIST_CONFIG"), "Path to a YAML config file")
	addr := flag.String("addr", "", "Listen address, e.g. :8080")
	provider := flag.String("llm-provider", "", "Language model provider: gemini, openai or none")
	disableCORS := flag.Bool("disable-cors", false, "Disable CORS")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *addr != "" {
		cfg.HTTP.Addr = *addr
	}
	if *provider != "" {
		cfg.LLM.Provider = *provider
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
	}
	if *disableCORS {
		cfg.HTTP.CORSEnabled = false
	}

	log, err := logger.New(cfg.Log.Env, cfg.Log.Level)
	if err != nil {
		return err
	}
	defer log.Sync()

	log.Info("assistant initializing",
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("search_base_url", cfg.Search.BaseURL),
		zap.Strings("allowed_domains", cfg.Scraper.AllowedDomains),
	)

	ctx := context.Background()

	if tracing.Enabled() {
		tp, err := tracing.InitTracer(ctx, "botkyrka-assist")
		if err != nil {
			log.Warn("failed to initialize tracer, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				if err := tp.Shutdown(context.Background()); err != nil {
					log.Error("error shutting down tracer", zap.Error(err))
				}
			}()
			log.Info("tracing initialized")
		}
	}

	gen, closeGen, err := llm.New(ctx, llm.Config{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create language model client: %w", err)
	}
	defer func() {
		if err := closeGen(); err != nil {
			log.Warn("error closing language model client", zap.Error(err))
		}
	}()

	var store db.Store
	if cfg.Database.DSN != "" {
		pg, err := db.New(ctx, db.Config{DSN: cfg.Database.DSN})
		if err != nil {
			return fmt.Errorf("open analytics database: %w", err)
		}
		store = pg
		log.Info("analytics stored in PostgreSQL")
	} else {
		store = db.NewLogStore(log)
		log.Info("no database configured, analytics are logged only")
	}

	assistant := assist.New(gen, assist.Config{
		Search: search.Config{
			BaseURL:     cfg.Search.BaseURL,
			HTTPTimeout: cfg.Search.Timeout,
		},
		Scraper: scraper.Config{
			HTTPTimeout:     cfg.Scraper.Timeout,
			MaxContentChars: cfg.Scraper.MaxContentChars,
			AllowedDomains:  cfg.Scraper.AllowedDomains,
		},
		DetectionTimeout:   cfg.Pipeline.DetectionTimeout,
		TranslationTimeout: cfg.Pipeline.TranslationTimeout,
		SynthesisTimeout:   cfg.Pipeline.SynthesisTimeout,
		RequestTimeout:     cfg.Pipeline.RequestTimeout,
	}, log)

	server := api.NewServer(api.Config{
		Addr:         cfg.HTTP.Addr,
		CORSEnabled:  cfg.HTTP.CORSEnabled,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}, assistant, store, log)

	errc := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errc:
		return fmt.Errorf("server error: %w", err)
	case <-quit:
	}

	log.Info("shutting down gracefully")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("server stopped")
	return nil
}
