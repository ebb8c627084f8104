package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/framepick/framepick-agent/internal/api"
	"github.com/framepick/framepick-agent/internal/catalog"
	"github.com/framepick/framepick-agent/internal/config"
	"github.com/framepick/framepick-agent/internal/db"
	"github.com/framepick/framepick-agent/internal/export"
	"github.com/framepick/framepick-agent/internal/journal"
	"github.com/framepick/framepick-agent/internal/logging"
	"github.com/framepick/framepick-agent/internal/selection"
	"github.com/framepick/framepick-agent/internal/transcript"
	"github.com/framepick/framepick-agent/internal/ui"
	"github.com/framepick/framepick-agent/internal/watcher"
)

var Version = "0.1.0"

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	startTime := time.Now()

	cfg, err := config.New(os.Args[1:])
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := os.MkdirAll(cfg.DataDir(), 0755); err != nil {
		return fmt.Errorf("failed to create data dir: %w", err)
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting framepick agent",
		"version", Version,
		"base_dir", logging.SanitizePath(cfg.BaseDir()),
		"data_dir", logging.SanitizePath(cfg.DataDir()),
	)

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	journalRepo := journal.NewRepository(database.Conn())

	cat := catalog.New(cfg.BaseDir(), logger)
	if _, err := cat.Refresh(); err != nil {
		return fmt.Errorf("initial catalog scan failed: %w", err)
	}

	transcriptSvc := transcript.NewService(cfg.TranscriptPath(), logger)
	if err := transcriptSvc.Load(); err != nil {
		logger.Warn("transcript unavailable, serving ungrouped gallery", "error", err)
	}

	selections := selection.NewStore(cat)
	exporter := export.NewExporter(cat, transcriptSvc, cfg.OutputDir(), logger)

	galleryURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Port())

	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Printf("║                  FRAMEPICK AGENT v%-8s                ║\n", Version)
	fmt.Println("╠═══════════════════════════════════════════════════════════╣")
	fmt.Printf("║  Gallery:    %-45s ║\n", galleryURL)
	fmt.Printf("║  Images:     %-45d ║\n", cat.Len())
	fmt.Printf("║  Segments:   %-45d ║\n", transcriptSvc.Count())
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := api.NewHub(logger)
	go hub.Run(ctx)

	quitCh := make(chan struct{})

	refresher := catalog.NewRefresher(cat, cfg.RefreshInterval(), logger)

	var tray *ui.Tray
	if !cfg.Headless() {
		tray = ui.NewTray(ui.TrayConfig{
			GalleryURL: galleryURL,
			Logger:     logger,
			OnRescan:   refresher.RefreshNow,
			OnQuit: func() {
				close(quitCh)
			},
		})
	}

	refresher.OnChange(func(count int) {
		hub.Broadcast(api.Event{Type: api.EventCatalogUpdated, Count: count})
		if tray != nil {
			tray.UpdateCounts(count, transcriptSvc.Count())
		}
	})
	go refresher.Start(ctx)

	if cfg.TranscriptPath() != "" {
		transcriptWatcher := watcher.New(cfg.TranscriptPath(), cfg.RefreshInterval(), logger)
		transcriptWatcher.OnChange(func() {
			if err := transcriptSvc.Load(); err != nil {
				logger.Warn("transcript reload failed", "error", err)
				return
			}
			hub.Broadcast(api.Event{Type: api.EventTranscriptUpdated, Count: transcriptSvc.Count()})
			if tray != nil {
				tray.UpdateCounts(cat.Len(), transcriptSvc.Count())
			}
		})
		go transcriptWatcher.Start(ctx)
	}

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		Version:    Version,
		StartTime:  startTime,
		Catalog:    cat,
		Transcript: transcriptSvc,
		Selections: selections,
		Exporter:   exporter,
		Journal:    journalRepo,
		Hub:        hub,
		Logger:     logger,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			close(quitCh)
		case <-quitCh:
		}
	}()

	if tray != nil {
		go tray.Run()
	} else {
		logger.Info("running in headless mode (no system tray)")
	}

	<-quitCh

	logger.Info("initiating graceful shutdown")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
