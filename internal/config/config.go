package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type APIConfig struct {
	Addr         string
	SaveBackend  string
	DatabaseURL  string
	SQLitePath   string
	SaveDir      string
	ContentPath  string
	AutosaveCron string
	CORSOrigins  []string
	DefaultSeed  int64
}

type CLIConfig struct {
	APIBaseURL string
}

type SimConfig struct {
	Months      int
	Runs        int
	Seed        int64
	Character   string
	Difficulty  string
	ContentPath string
	Every       time.Duration
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("TYCOON_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:         addr,
		SaveBackend:  strings.ToLower(envDefault("TYCOON_SAVE_BACKEND", "memory")),
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:   strings.TrimSpace(os.Getenv("TYCOON_SQLITE_PATH")),
		SaveDir:      strings.TrimSpace(os.Getenv("TYCOON_SAVE_DIR")),
		ContentPath:  strings.TrimSpace(os.Getenv("TYCOON_CONTENT_PATH")),
		AutosaveCron: envDefault("TYCOON_AUTOSAVE_CRON", "@every 5m"),
		CORSOrigins:  envListDefault("TYCOON_CORS_ORIGINS", []string{"*"}),
		DefaultSeed:  envInt64Default("TYCOON_DEFAULT_SEED", 0),
	}
	if strings.EqualFold(cfg.AutosaveCron, "off") {
		cfg.AutosaveCron = ""
	}
	switch cfg.SaveBackend {
	case "memory", "file", "sqlite":
	case "postgres":
		if cfg.DatabaseURL == "" {
			return cfg, fmt.Errorf("DATABASE_URL is required for the postgres save backend")
		}
	default:
		return cfg, fmt.Errorf("TYCOON_SAVE_BACKEND must be memory, file, sqlite or postgres, got %q", cfg.SaveBackend)
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("TYCOON_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

// LoadSimFromEnv gives defaults that command-line flags override.
func LoadSimFromEnv() SimConfig {
	return SimConfig{
		Months:      envIntDefault("TYCOON_SIM_MONTHS", 120),
		Runs:        envIntDefault("TYCOON_SIM_RUNS", 1),
		Seed:        envInt64Default("TYCOON_SIM_SEED", 1),
		Character:   envDefault("TYCOON_SIM_CHARACTER", "graduate"),
		Difficulty:  envDefault("TYCOON_SIM_DIFFICULTY", "normal"),
		ContentPath: strings.TrimSpace(os.Getenv("TYCOON_CONTENT_PATH")),
		Every:       envDurationDefault("TYCOON_SIM_EVERY", 0),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envListDefault(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
