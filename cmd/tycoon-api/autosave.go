package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"tycoon/internal/game"
	"tycoon/internal/saves"

	"github.com/robfig/cron/v3"
)

// startAutosave writes every in-memory game to its autosave slot on the
// given schedule. An empty spec disables it and returns a nil scheduler.
func startAutosave(ctx context.Context, spec string, svc *game.Service, mgr *saves.Manager, logger *slog.Logger) (*cron.Cron, error) {
	if spec == "" {
		return nil, nil
	}
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { autosaveOnce(ctx, svc, mgr, logger) }); err != nil {
		return nil, fmt.Errorf("register autosave: %w", err)
	}
	c.Start()
	logger.Info("autosave scheduled", "cron", spec)
	return c, nil
}

func autosaveOnce(ctx context.Context, svc *game.Service, mgr *saves.Manager, logger *slog.Logger) int {
	if ctx.Err() != nil {
		return 0
	}
	runCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	states := svc.Snapshot()
	n := mgr.SaveAll(runCtx, states)
	if len(states) > 0 {
		logger.Info("autosave complete", "games", len(states), "saved", n)
	}
	return n
}
