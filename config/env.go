package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
)

const envPrefix = "OCTO_"

// Env merges the dotenv file (if present) with the process environment.
// Process variables win, as with godotenv.Load.
func Env(fsys afero.Fs, dotenv string) (map[string]string, error) {
	out := make(map[string]string)
	f, err := fsys.Open(dotenv)
	switch {
	case err == nil:
		defer f.Close()
		parsed, err := godotenv.Parse(f)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", dotenv, err)
		}
		for k, v := range parsed {
			out[k] = v
		}
	case isNotExist(err):
		slog.Debug("no .env file found, relying on environment variables")
	default:
		return nil, fmt.Errorf("open %s: %w", dotenv, err)
	}

	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(k, envPrefix) {
			out[k] = v
		}
	}
	return out, nil
}

// ApplyEnv overrides config fields from OCTO_* variables.
func ApplyEnv(cfg *Config, env map[string]string) error {
	for key, val := range env {
		if !strings.HasPrefix(key, envPrefix) {
			continue
		}
		if err := applyOne(cfg, strings.TrimPrefix(key, envPrefix), val); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	return nil
}

func applyOne(cfg *Config, name, val string) error {
	var err error
	switch name {
	case "LOG_LEVEL":
		cfg.LogLevel = strings.ToLower(val)
	case "COMBAT_DIST":
		cfg.Tactics.CombatDist, err = strconv.ParseFloat(val, 64)
	case "DOOMSDAY":
		cfg.Tactics.Doomsday, err = strconv.Atoi(val)
	case "EXTERMINATE_TURN":
		cfg.Tactics.ExterminateTurn, err = strconv.Atoi(val)
	case "AGGRESSIVE":
		cfg.Tactics.Aggressive, err = strconv.ParseBool(val)
	case "CONQUER_ROUTING":
		cfg.Tactics.ConquerRouting = val
	case "CONSTRUCTION":
		cfg.Construction.Count, err = strconv.Atoi(val)
	case "SHIP_COST":
		cfg.Construction.ShipCost, err = strconv.ParseFloat(val, 64)
	case "RECORD_DIR":
		cfg.Record.Dir = val
	case "STATS_PATH":
		cfg.Stats.Path = val
	default:
		slog.Debug("ignoring unknown override", "key", envPrefix+name)
	}
	return err
}
