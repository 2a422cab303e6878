package rules

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/state"
)

// Engine classifies the allied roster into roles each turn. Rules are tried
// in priority order and the first match decides a unit's role.
type Engine struct {
	mu         sync.RWMutex
	rules      []*Rule
	thresholds Thresholds
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule, th Thresholds) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	th.Validate()
	return &Engine{rules: compiled, thresholds: th}, nil
}

// Thresholds returns the active tunables.
func (e *Engine) Thresholds() Thresholds {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.thresholds
}

// SetThresholds replaces the tunables used from the next Classify on.
func (e *Engine) SetThresholds(th Thresholds) {
	th.Validate()
	e.mu.Lock()
	e.thresholds = th
	e.mu.Unlock()
}

// Classify assigns exactly one role to every allied unit. The explorer slot in
// bc is pruned first and updated whenever an Explore rule fires.
func (e *Engine) Classify(snap *state.Snapshot, bc *BrainContext) Assignment {
	e.mu.RLock()
	rules, th := e.rules, e.thresholds
	e.mu.RUnlock()

	out := newAssignment(len(snap.Allied))
	alive := snap.AlliedIDs()
	bc.prune(alive)

	for _, u := range snap.Allied {
		env := e.unitEnv(snap, bc, th, u, alive)
		role, name := e.match(rules, env)
		if role == Explore {
			bc.assign(u.ID)
		}
		out.add(u, role, name)
		slog.Debug("role assigned", "turn", snap.Turn, "unit", u.ID, "role", role, "rule", name)
	}
	return out
}

func (e *Engine) unitEnv(snap *state.Snapshot, bc *BrainContext, th Thresholds, u model.Unit, alive map[int]bool) UnitEnv {
	dist := nearestEnemyDist(snap.Enemy, u)
	id, has := bc.Explorer()
	return UnitEnv{
		ID:               u.ID,
		X:                u.X,
		Y:                u.Y,
		HP:               u.HP,
		FireCooldown:     u.FireCooldown,
		MoveCooldown:     u.MoveCooldown,
		Turn:             snap.Turn,
		Doomsday:         th.Doomsday,
		BaseHP:           snap.BaseHP,
		Engaged:          dist >= 0 && dist <= th.CombatDist,
		EnemyDist:        dist,
		ExplorerSlotOpen: bc.slotOpen(u.ID, alive),
		IsExplorer:       has && id == u.ID,
		ExterminateTurn:  th.ExterminateTurn,
		ExterminateSquad: th.ExterminateSquad,
	}
}

// match returns the role of the first rule whose condition holds. A unit that
// matches nothing (possible only with a custom rule set) defends.
func (e *Engine) match(rules []*Rule, env UnitEnv) (Role, string) {
	for _, r := range rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "unit", env.ID, "error", err)
			continue
		}
		if ok, _ := result.(bool); ok {
			return r.Role, r.Name
		}
	}
	slog.Warn("no rule matched, defending", "unit", env.ID, "turn", env.Turn)
	return Defend, ""
}

// Swap atomically replaces the rule set (called when the config file is
// reloaded). Compiles first; if compilation fails the old rules remain active.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("rule set swapped", "count", len(compiled), "rules", names)
	return nil
}

// Rules returns the names of the active rules in evaluation order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

func nearestEnemyDist(enemies []model.Unit, u model.Unit) float64 {
	best := math.Inf(1)
	for _, en := range enemies {
		if d := u.DistanceTo(en); d < best {
			best = d
		}
	}
	if math.IsInf(best, 1) {
		return -1
	}
	return best
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("empty rule set")
	}
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(UnitEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
