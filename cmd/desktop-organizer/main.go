package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gridfall/desktop-organizer/internal/adapter/sqlite"
	"github.com/gridfall/desktop-organizer/internal/classify"
	"github.com/gridfall/desktop-organizer/internal/config"
	"github.com/gridfall/desktop-organizer/internal/domain"
	"github.com/gridfall/desktop-organizer/internal/domain/event"
	"github.com/gridfall/desktop-organizer/internal/engine"
	"github.com/gridfall/desktop-organizer/internal/logger"
	"github.com/gridfall/desktop-organizer/internal/placement"
	"github.com/gridfall/desktop-organizer/internal/regions"
	"github.com/gridfall/desktop-organizer/internal/rules"
	"github.com/gridfall/desktop-organizer/internal/service/server"
	"github.com/gridfall/desktop-organizer/internal/snapshot"
	"github.com/gridfall/desktop-organizer/internal/strategy"
	"go.uber.org/zap"
)

const version = "0.1.0"

func main() {
	// Parse command line flags
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	rulesPath := flag.String("rules", "", "Rule set JSON file to load at startup")
	organize := flag.Bool("organize", false, "Run one organize pass after startup")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.Format); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	zapLogger := logger.GetZapLogger()
	zapLogger.Info("starting desktop-organizer",
		zap.String("version", version),
		zap.String("config", *configPath),
	)

	// Build the region catalog: configured regions, or the default quadrant
	// layout for the configured screen.
	regionList := cfg.Regions
	if len(regionList) == 0 {
		regionList = regions.DefaultLayout(cfg.Desktop.ScreenWidth, cfg.Desktop.ScreenHeight)
	}
	catalog, err := regions.NewCatalog(regionList)
	if err != nil {
		zapLogger.Fatal("invalid region layout", zap.Error(err))
	}

	// Open database
	store, err := sqlite.Open(cfg.Database.Path)
	if err != nil {
		zapLogger.Fatal("failed to open database",
			zap.Error(err), zap.String("path", cfg.Database.Path))
	}
	defer store.Close()

	// Assemble the pipeline
	classifier := classify.New()
	matcher := rules.NewMatcher(classifier, zapLogger)
	placer := placement.New(catalog, store, zapLogger)

	dispatcher := event.NewInMemoryDispatcher(false)
	metrics := event.NewMetricsHandler()
	dispatcher.Subscribe(metrics)
	dispatcher.Subscribe(event.NewLoggingHandler(zapLogger))

	engineCfg := &engine.Config{
		WatchDir:        cfg.Desktop.WatchDir,
		DebounceWindow:  cfg.Organizer.GetDebounceWindow(),
		PollInterval:    cfg.Organizer.GetPollInterval(),
		BackoffBase:     cfg.Organizer.GetBackoffBase(),
		MaxRetries:      cfg.Organizer.MaxRetries,
		ShutdownTimeout: cfg.Organizer.GetShutdownTimeout(),
	}
	eng := engine.New(engineCfg, catalog, matcher, placer, store, dispatcher, metrics, zapLogger)

	// Activate rules: an explicit file beats the persisted set.
	if *rulesPath != "" {
		rs, err := strategy.LoadRuleSetFile(*rulesPath)
		if err != nil {
			zapLogger.Fatal("failed to read rule set file",
				zap.Error(err), zap.String("path", *rulesPath))
		}
		if err := eng.LoadRules(rs); err != nil {
			zapLogger.Fatal("failed to load rule set", zap.Error(err))
		}
	} else if err := eng.RestoreRules(); err != nil {
		zapLogger.Error("failed to restore persisted rules", zap.Error(err))
	}

	// Rule-service client, when one is configured.
	var generator server.RuleGenerator
	if cfg.RuleService.URL != "" {
		generator = strategy.NewClient(
			cfg.RuleService.URL,
			cfg.RuleService.GetTimeout(),
			cfg.RuleService.GetMinInterval(),
			zapLogger,
		)
	}

	// Create HTTP server
	taker := snapshot.NewTaker(cfg.Desktop.WatchDir, classifier, store, catalog, zapLogger)
	serverCfg := &server.Config{
		BindAddr:        cfg.HTTP.BindAddr,
		ReadTimeout:     cfg.HTTP.GetReadTimeout(),
		WriteTimeout:    cfg.HTTP.GetWriteTimeout(),
		IdleTimeout:     cfg.HTTP.GetIdleTimeout(),
		CorrectionLimit: cfg.RuleService.CorrectionSize,
	}
	httpServer := server.New(serverCfg, eng, taker, generator, store, zapLogger)

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the pipeline
	if err := eng.Start(ctx); err != nil {
		zapLogger.Fatal("failed to start engine", zap.Error(err))
	}

	// Start HTTP server
	go func() {
		if err := httpServer.Start(); err != nil {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Optional initial organize pass over whatever is already on the desktop.
	if *organize || cfg.Organizer.AutoOrganize {
		go func() {
			result, err := eng.OrganizeAll(ctx)
			if err != nil {
				zapLogger.Error("initial organize pass failed", zap.Error(err))
				return
			}
			zapLogger.Info("initial organize pass done",
				zap.Int("organized", result.Organized),
				zap.Int("skipped", result.Skipped),
				zap.Int("failed", result.Failed),
			)
		}()
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	zapLogger.Info("application started successfully",
		zap.String("http_addr", cfg.HTTP.BindAddr),
		zap.String("watch_dir", cfg.Desktop.WatchDir),
	)
	<-sigChan

	zapLogger.Info("shutdown signal received, stopping services...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Organizer.GetShutdownTimeout())
	defer shutdownCancel()

	if err := eng.Stop(); err != nil && err != domain.ErrNotRunning {
		zapLogger.Error("engine did not stop cleanly", zap.Error(err))
	}

	// Stop HTTP server
	if err := httpServer.Stop(shutdownCtx); err != nil {
		zapLogger.Error("failed to stop HTTP server gracefully", zap.Error(err))
	}

	zapLogger.Info("application stopped successfully")
}
