// go_renamer is a local companion service for a browser extension that
// renames image and PDF downloads using a vision/text model. The extension
// posts each download event to the local HTTP endpoint; the service answers
// with a suggested filename, or null when the file should pass through
// untouched.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"go_renamer/caption"
	"go_renamer/core"
	"go_renamer/history"
	"go_renamer/logging"
	"go_renamer/pdftext"
	"go_renamer/ratelimit"
	"go_renamer/renamer"
	"go_renamer/webui"
)

func main() {
	checkMode := flag.Bool("check", false, "validate configuration and remote connectivity, then exit")
	flag.Parse()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		// Use fmt here since logger isn't initialized yet
		fmt.Printf("Note: no .env file loaded: %v\n", err)
	}

	// Service commands (install/uninstall/start/stop) short-circuit startup.
	if HandleServiceCommand(flag.Args()) {
		return
	}

	if *checkMode {
		os.Exit(runCheck())
	}

	// When launched by the service manager, the lifecycle is driven from
	// service_windows.go; interactively we run the app directly.
	if ranAsService, err := RunAsService(); ranAsService {
		if err != nil {
			fmt.Printf("Service run failed: %v\n", err)
			os.Exit(core.ExitCodeError)
		}
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	os.Exit(runApp(ctx))
}

// runApp wires the whole pipeline and serves until ctx is cancelled.
// It is shared between interactive and service-managed startup.
func runApp(ctx context.Context) int {
	isDevelopment := os.Getenv("DEV_MODE") == "true"

	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		return core.ExitCodeError
	}

	logger, err := logging.NewLogger(cfg.DevMode || isDevelopment, cfg.LogFilePath)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		return core.ExitCodeError
	}
	defer logger.Sync()

	logger.Info("Configuration loaded",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("model", cfg.Settings.Model),
		zap.String("base_url", cfg.Settings.BaseURL),
		zap.Bool("pdf_enabled", cfg.Settings.PDFEnabled),
		zap.Int("requests_per_minute", cfg.Settings.RequestsPerMinute),
		zap.Duration("request_timeout", cfg.Settings.RequestTimeout),
		zap.Bool("dev_mode", cfg.DevMode))

	if cfg.Settings.Token == "" {
		logger.Warn("No API token configured; rename requests will fail until RENAMER_API_TOKEN is set")
	}

	db, err := history.OpenDatabaseWithDefaults(cfg.DatabasePath)
	if err != nil {
		logger.Error("Failed to open database", zap.Error(err))
		return core.ExitCodeError
	}
	if err := history.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", zap.Error(err))
		db.Close()
		return core.ExitCodeError
	}

	store := history.NewStore(db, logger)
	defer store.Close()

	client := caption.NewClient(logger)
	limiter := ratelimit.New(cfg.Settings.RequestsPerMinute)
	extractor := pdftext.NewExtractor(logger)
	fetcher := renamer.NewFetcher(&http.Client{Timeout: cfg.Settings.RequestTimeout * 2})
	notifier := renamer.NewLogNotifier(logger)

	pipeline := renamer.NewOrchestrator(client, extractor, limiter, store, fetcher, notifier, logger)

	// Settings are immutable for the process lifetime today; the closure
	// keeps the server ready for live-reload later.
	settings := func() core.Settings { return cfg.Settings }

	serverConfig := webui.DefaultServerConfig()
	serverConfig.Host = cfg.Host
	serverConfig.Port = cfg.Port

	server, err := webui.NewServer(serverConfig, pipeline, store, client, settings, cfg.APIToken, logger)
	if err != nil {
		logger.Error("Failed to create server", zap.Error(err))
		return core.ExitCodeError
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("Listening for download events", zap.String("addr", server.Addr()))
		errChan <- server.Start()
	}()

	select {
	case <-ctx.Done():
		logger.Info("Shutting down...")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("Shutdown error", zap.Error(err))
			return core.ExitCodeError
		}
		logger.Info("Goodbye!")
		return core.ExitCodeSuccess
	case err := <-errChan:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
			return core.ExitCodeError
		}
		return core.ExitCodeSuccess
	}
}
