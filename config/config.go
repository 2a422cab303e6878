// Package config loads the bot's tunables from YAML with environment
// overrides and optional hot reload.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/cudabot/octobot/combat"
	"github.com/cudabot/octobot/nav"
	"github.com/cudabot/octobot/rules"
	"github.com/cudabot/octobot/tasks"
)

type Config struct {
	LogLevel     string       `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Tactics      Tactics      `yaml:"tactics"`
	Construction Construction `yaml:"construction"`
	Rules        []rules.Spec `yaml:"rules" validate:"dive"`
	Record       Record       `yaml:"record"`
	Stats        Stats        `yaml:"stats"`
}

type Tactics struct {
	CombatDist       float64 `yaml:"combat_dist" validate:"gt=0,lte=100"`
	Doomsday         int     `yaml:"doomsday" validate:"gte=0"`
	ExterminateTurn  int     `yaml:"exterminate_turn" validate:"gte=0"`
	ExterminateSquad int     `yaml:"exterminate_squad" validate:"gte=0"`

	MaxFireRange float64 `yaml:"max_fire_range" validate:"gt=0"`
	FireConeDeg  float64 `yaml:"fire_cone_deg" validate:"gt=0,lt=45"`

	SearchRadius  int `yaml:"search_radius" validate:"gte=1,lte=100"`
	BaseWeight    int `yaml:"base_weight" validate:"gte=0"`
	HazardPenalty int `yaml:"hazard_penalty" validate:"gte=0"`
	BoostWeight   int `yaml:"boost_weight" validate:"gte=0"`

	RouteMagnitude  int  `yaml:"route_magnitude" validate:"gte=1,lte=3"`
	CombatMagnitude int  `yaml:"combat_magnitude" validate:"gte=1,lte=3"`
	Aggressive      bool `yaml:"aggressive"`

	HomeMargin     int    `yaml:"home_margin" validate:"gte=0"`
	DefendBaseHP   int    `yaml:"defend_base_hp" validate:"gte=0,lte=100"`
	RetreatHP      int    `yaml:"retreat_hp" validate:"gte=0,lte=100"`
	ConquerRouting string `yaml:"conquer_routing" validate:"oneof=grid greedy"`
}

// Construction is the per-turn build policy. With a positive ShipCost the
// count is capped by what the available resources can pay for.
type Construction struct {
	Count    int     `yaml:"count" validate:"gte=0"`
	ShipCost float64 `yaml:"ship_cost" validate:"gte=0"`
}

// Record enables the compressed turn log when Dir is set.
type Record struct {
	Dir string `yaml:"dir"`
}

// Stats enables the sqlite turn statistics when Path is set.
type Stats struct {
	Path string `yaml:"path"`
}

func Default() *Config {
	return &Config{
		LogLevel: "info",
		Tactics: Tactics{
			CombatDist:       7,
			Doomsday:         1700,
			ExterminateTurn:  0,
			ExterminateSquad: 3,
			MaxFireRange:     combat.DefaultFireRange,
			FireConeDeg:      combat.DefaultConeDeg,
			SearchRadius:     nav.DefaultRadius,
			BaseWeight:       3,
			HazardPenalty:    5,
			BoostWeight:      0,
			RouteMagnitude:   3,
			CombatMagnitude:  1,
			Aggressive:       true,
			HomeMargin:       20,
			DefendBaseHP:     50,
			RetreatHP:        60,
			ConquerRouting:   "grid",
		},
		Construction: Construction{Count: 10},
	}
}

// Load reads path (if non-empty) over the defaults, applies .env and OCTO_*
// overrides, and validates the result.
func Load(fsys afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := afero.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}

	env, err := Env(fsys, ".env")
	if err != nil {
		return nil, err
	}
	if err := ApplyEnv(cfg, env); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Thresholds maps the classifier tunables, clamped to their usable ranges.
func (c *Config) Thresholds() rules.Thresholds {
	th := rules.Thresholds{
		CombatDist:       c.Tactics.CombatDist,
		Doomsday:         c.Tactics.Doomsday,
		ExterminateTurn:  c.Tactics.ExterminateTurn,
		ExterminateSquad: c.Tactics.ExterminateSquad,
	}
	th.Validate()
	return th
}

// RuleSet returns the configured cascade, or the default one when none is set.
func (c *Config) RuleSet() ([]*rules.Rule, error) {
	if len(c.Rules) == 0 {
		return rules.DefaultRules(), nil
	}
	return rules.FromSpecs(c.Rules)
}

// TaskTactics maps the executor tunables. CombatDist comes from Thresholds so
// the classifier and the Combat executor always agree on the radius.
func (c *Config) TaskTactics() tasks.Tactics {
	return tasks.Tactics{
		CombatDist:    c.Thresholds().CombatDist,
		DefendBaseHP:  c.Tactics.DefendBaseHP,
		RetreatHP:     c.Tactics.RetreatHP,
		HomeMargin:    c.Tactics.HomeMargin,
		GreedyConquer: c.Tactics.ConquerRouting == "greedy",
	}
}

func (c *Config) Targeting() combat.Targeting {
	return combat.NewTargeting(c.Tactics.MaxFireRange, c.Tactics.FireConeDeg)
}

func (c *Config) Planner() nav.Planner {
	return nav.NewPlanner(c.Tactics.SearchRadius, nav.Weights{
		Base:          c.Tactics.BaseWeight,
		HazardPenalty: c.Tactics.HazardPenalty,
		Boost:         c.Tactics.BoostWeight,
	})
}

// LogValue keeps config dumps on one line.
func (c *Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Float64("combat_dist", c.Tactics.CombatDist),
		slog.Int("doomsday", c.Tactics.Doomsday),
		slog.Bool("aggressive", c.Tactics.Aggressive),
		slog.Int("rules", len(c.Rules)),
		slog.Int("construction", c.Construction.Count),
		slog.String("record", c.Record.Dir),
		slog.String("stats", c.Stats.Path),
	)
}

func isNotExist(err error) bool { return errors.Is(err, fs.ErrNotExist) }
