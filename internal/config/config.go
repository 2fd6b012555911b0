// Package config loads server settings from the environment, with a .env
// file picked up in development. Game rule knobs live here too: the uno
// threshold, the missed-call penalty and the scoring inputs are deployment
// decisions, not constants.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/atarrant/uno-session-backend/internal/game"
)

type Config struct {
	Addr         string // listen address
	Capacity     int    // max participants per session
	MinPlayers   int    // quorum for start
	OutboxBuffer int    // snapshots buffered per connection before it is dropped
	Rules        game.Rules
}

func Default() Config {
	return Config{
		Addr:         ":8080",
		Capacity:     10,
		MinPlayers:   2,
		OutboxBuffer: 8,
		Rules:        game.DefaultRules(),
	}
}

// Load reads the environment on top of defaults. A missing .env file is not
// an error; a malformed value is.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}

	var err error
	if cfg.Capacity, err = intEnv("SESSION_CAPACITY", cfg.Capacity); err != nil {
		return Config{}, err
	}
	if cfg.MinPlayers, err = intEnv("MIN_PLAYERS", cfg.MinPlayers); err != nil {
		return Config{}, err
	}
	if cfg.OutboxBuffer, err = intEnv("OUTBOX_BUFFER", cfg.OutboxBuffer); err != nil {
		return Config{}, err
	}
	if cfg.Rules.HandSize, err = intEnv("HAND_SIZE", cfg.Rules.HandSize); err != nil {
		return Config{}, err
	}
	if cfg.Rules.DrawCount, err = intEnv("DRAW_COUNT", cfg.Rules.DrawCount); err != nil {
		return Config{}, err
	}
	if cfg.Rules.UnoHandSize, err = intEnv("UNO_HAND_SIZE", cfg.Rules.UnoHandSize); err != nil {
		return Config{}, err
	}
	if cfg.Rules.MissedUnoPenalty, err = intEnv("MISSED_UNO_PENALTY", cfg.Rules.MissedUnoPenalty); err != nil {
		return Config{}, err
	}

	if cfg.Capacity < cfg.MinPlayers {
		return Config{}, fmt.Errorf("SESSION_CAPACITY %d below MIN_PLAYERS %d", cfg.Capacity, cfg.MinPlayers)
	}
	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
