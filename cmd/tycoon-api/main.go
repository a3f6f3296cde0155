package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tycoon/internal/api"
	"tycoon/internal/config"
	"tycoon/internal/content"
	"tycoon/internal/game"
	"tycoon/internal/saves"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	catalog, err := content.Load(cfg.ContentPath)
	if err != nil {
		logger.Error("content load failed", "err", err, "path", cfg.ContentPath)
		os.Exit(1)
	}

	store, closeStore, err := saves.Open(ctx, saves.Options{
		Backend:     cfg.SaveBackend,
		Dir:         cfg.SaveDir,
		SQLitePath:  cfg.SQLitePath,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		logger.Error("save store open failed", "err", err, "backend", cfg.SaveBackend)
		os.Exit(1)
	}
	defer closeStore()

	gameSvc := game.NewService(catalog, logger)
	saveMgr := saves.NewManager(store, logger)

	autosave, err := startAutosave(ctx, cfg.AutosaveCron, gameSvc, saveMgr, logger)
	if err != nil {
		logger.Error("autosave schedule invalid", "err", err, "cron", cfg.AutosaveCron)
		os.Exit(1)
	}

	server := api.New(cfg, logger, gameSvc, saveMgr)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("tycoon api listening", "addr", cfg.Addr, "save_backend", cfg.SaveBackend, "content", catalog.Digest)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}

	if autosave != nil {
		<-autosave.Stop().Done()
	}
	flushCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	n := saveMgr.SaveAll(flushCtx, gameSvc.Snapshot())
	logger.Info("tycoon api stopped", "autosaved", n)
}
