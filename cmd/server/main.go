package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tailscan/tailscan/internal/callsign"
	"github.com/tailscan/tailscan/internal/config"
	"github.com/tailscan/tailscan/internal/feedfilter"
	"github.com/tailscan/tailscan/internal/pictures"
	"github.com/tailscan/tailscan/internal/reports"
	"github.com/tailscan/tailscan/internal/standingdata"
	"github.com/tailscan/tailscan/internal/storage/sqlite"
	"github.com/tailscan/tailscan/pkg/logger"
)

var (
	// Version is injected at build time
	Version = "dev"
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file (optional - will search in configs/ and root directory)")
	flag.Parse()

	cfg, err := config.LoadWithFallback(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("Starting tailscan core",
		logger.String("version", Version),
		logger.String("config_path", *configPath),
	)

	// Flight database
	flightStore, err := sqlite.NewFlightStore(
		cfg.Storage.SQLitePath,
		cfg.Storage.BusyTimeoutMs,
		cfg.Storage.CacheSizePages,
		log,
	)
	if err != nil {
		log.Error("Failed to create SQLite flight store", logger.Error(err))
		os.Exit(1)
	}
	defer flightStore.Close()
	log.Info("Using SQLite flight store", logger.String("path", cfg.Storage.SQLitePath))

	// Standing data
	standingData, err := standingdata.NewProvider(
		cfg.StandingData.SQLitePath,
		cfg.StandingData.CacheEntries,
		log,
	)
	if err != nil {
		log.Error("Failed to open standing data", logger.Error(err))
		os.Exit(1)
	}
	defer standingData.Close()

	// Message filter
	filterService := feedfilter.NewService(cfg.Filter, log)

	// Report engine
	pictureManager := pictures.NewManager(
		cfg.Pictures.PicturesDir,
		cfg.Pictures.SilhouettesDir,
		cfg.Pictures.OperatorFlagsDir,
		log,
	)
	reportProcessor := reports.NewProcessor(
		flightStore,
		standingData,
		callsign.NewParser(),
		pictureManager,
		cfg.Pictures.InternetClientsCanSeePictures,
		log,
	)
	_ = reportProcessor // consumed by the presentation layer host

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Watch the config file and push filter policy changes into the
	// running filter
	watcherPath := *configPath
	if watcherPath == "" {
		watcherPath = "configs/config.toml"
	}
	watcher := config.NewWatcher(watcherPath, log)
	go func() {
		if err := watcher.Run(ctx); err != nil {
			log.Error("Config watcher stopped", logger.Error(err))
		}
	}()

	filterUpdates := make(chan config.FilterConfig, 1)
	go filterService.Run(ctx, filterUpdates)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case newCfg, ok := <-watcher.Updates():
				if !ok {
					return
				}
				filterUpdates <- newCfg.Filter
			}
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("Shutting down...")
	cancel()
	log.Info("Server fully stopped")
}
