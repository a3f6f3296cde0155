package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"tycoon/internal/config"
	"tycoon/internal/content"
	"tycoon/internal/game"
	"tycoon/internal/saves"

	"github.com/spf13/cobra"
)

type runResult struct {
	Seed        int64  `json:"seed"`
	PlayerID    string `json:"playerId"`
	Months      int    `json:"months"`
	Cash        int64  `json:"cash"`
	NetWorth    int64  `json:"netWorth"`
	Credit      int    `json:"credit"`
	CareerLevel int    `json:"careerLevel"`
	Recessions  int    `json:"recessions"`
	Delinquent  int    `json:"delinquentMonths"`
	Quests      int    `json:"questsCompleted"`
	Err         string `json:"error,omitempty"`

	state game.GameState
}

func main() {
	cfg := config.LoadSimFromEnv()
	var saveDir string
	var asJSON bool

	root := &cobra.Command{
		Use:          "tycoon-sim",
		Short:        "Run seeded headless simulations of the monthly turn engine",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
			return run(ctx, cfg, saveDir, asJSON, logger)
		},
	}
	f := root.Flags()
	f.IntVar(&cfg.Months, "months", cfg.Months, "months per run")
	f.IntVar(&cfg.Runs, "runs", cfg.Runs, "number of runs; run i uses seed+i")
	f.Int64Var(&cfg.Seed, "seed", cfg.Seed, "base seed")
	f.StringVar(&cfg.Character, "character", cfg.Character, "character id")
	f.StringVar(&cfg.Difficulty, "difficulty", cfg.Difficulty, "difficulty id")
	f.StringVar(&cfg.ContentPath, "content", cfg.ContentPath, "content YAML file (embedded pack when empty)")
	f.DurationVar(&cfg.Every, "every", cfg.Every, "repeat the batch on this interval with fresh seeds")
	f.StringVar(&saveDir, "save-dir", "", "write final states to file save slots in this directory")
	f.BoolVar(&asJSON, "json", false, "print results as JSON lines")

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.SimConfig, saveDir string, asJSON bool, logger *slog.Logger) error {
	if cfg.Months <= 0 || cfg.Runs <= 0 {
		return fmt.Errorf("months and runs must be positive")
	}
	cat, err := content.Load(cfg.ContentPath)
	if err != nil {
		return err
	}
	var mgr *saves.Manager
	if saveDir != "" {
		store, err := saves.NewFileStore(saveDir)
		if err != nil {
			return err
		}
		mgr = saves.NewManager(store, logger)
	}

	batch := func() {
		results := runBatch(cat, cfg)
		printResults(results, asJSON)
		if mgr != nil {
			states := make([]game.GameState, 0, len(results))
			for _, r := range results {
				if r.Err == "" {
					states = append(states, r.state)
				}
			}
			n := mgr.SaveAll(ctx, states)
			logger.Info("simulation saved", "dir", saveDir, "saved", n)
		}
	}

	batch()
	if cfg.Every <= 0 {
		return nil
	}

	ticker := time.NewTicker(cfg.Every)
	defer ticker.Stop()
	logger.Info("simulation loop started", "every", cfg.Every.String(), "runs", cfg.Runs)
	for {
		select {
		case <-ctx.Done():
			logger.Info("simulation loop shutdown")
			return nil
		case <-ticker.C:
			cfg.Seed += int64(cfg.Runs)
			batch()
		}
	}
}

func runBatch(cat *content.Catalog, cfg config.SimConfig) []runResult {
	out := make([]runResult, 0, cfg.Runs)
	for i := 0; i < cfg.Runs; i++ {
		seed := cfg.Seed + int64(i)
		res := runResult{Seed: seed, PlayerID: fmt.Sprintf("sim-%d", seed)}
		st, err := game.NewGame(cat, game.NewGameInput{
			PlayerID:    res.PlayerID,
			CharacterID: cfg.Character,
			Difficulty:  cfg.Difficulty,
			Seed:        seed,
		})
		if err != nil {
			res.Err = err.Error()
			out = append(out, res)
			continue
		}
		st, reports, err := game.SimulateMonths(st, cat, cfg.Months, game.NewRNG(seed))
		if err != nil {
			res.Err = err.Error()
		}
		res.Months = len(reports)
		for _, r := range reports {
			if r.Recession {
				res.Recessions++
			}
			if r.Delinquent {
				res.Delinquent++
			}
		}
		res.Cash = st.Cash
		res.NetWorth = game.CalculateNetWorth(st)
		res.Credit = st.CreditRating
		res.CareerLevel = st.Career.Level
		res.Quests = len(st.Quests.Completed)
		res.state = st
		out = append(out, res)
	}
	return out
}

func printResults(results []runResult, asJSON bool) {
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		for _, r := range results {
			_ = enc.Encode(r)
		}
		return
	}
	fmt.Printf("%-8s %-14s %6s %14s %14s %6s %5s %5s %5s\n", "SEED", "PLAYER", "MONTHS", "CASH", "NET WORTH", "CREDIT", "LEVEL", "RECS", "LATE")
	worths := make([]int64, 0, len(results))
	for _, r := range results {
		if r.Err != "" {
			fmt.Printf("%-8d %-14s error: %s\n", r.Seed, r.PlayerID, r.Err)
			continue
		}
		worths = append(worths, r.NetWorth)
		fmt.Printf("%-8d %-14s %6d %14.2f %14.2f %6d %5d %5d %5d\n",
			r.Seed, r.PlayerID, r.Months,
			float64(r.Cash)/100, float64(r.NetWorth)/100,
			r.Credit, r.CareerLevel, r.Recessions, r.Delinquent)
	}
	if len(worths) > 1 {
		sort.Slice(worths, func(i, j int) bool { return worths[i] < worths[j] })
		fmt.Printf("median net worth %.2f (min %.2f, max %.2f)\n",
			float64(worths[len(worths)/2])/100, float64(worths[0])/100, float64(worths[len(worths)-1])/100)
	}
}
