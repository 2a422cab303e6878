// Package tasks turns each role group into per-unit actions.
package tasks

import (
	"log/slog"

	"github.com/cudabot/octobot/combat"
	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/nav"
	"github.com/cudabot/octobot/rules"
	"github.com/cudabot/octobot/state"
)

// Tactics are the executor tunables.
type Tactics struct {
	CombatDist    float64 // nearest-enemy search radius for Combat
	DefendBaseHP  int     // base HP under which a damaged base recalls defenders
	RetreatHP     int     // unit HP under which a defender goes home
	HomeMargin    int     // resource cells within this box around home are ignored
	GreedyConquer bool    // Conquer uses the greedy router
}

func DefaultTactics() Tactics {
	return Tactics{
		CombatDist:   7,
		DefendBaseHP: 50,
		RetreatHP:    60,
		HomeMargin:   20,
	}
}

// Context is the shared per-turn input for every executor. Resources is the
// only field that outlives the turn.
type Context struct {
	Snap      *state.Snapshot
	Router    nav.Router // grid-aware routing
	Greedy    nav.Router // single-axis routing for rush behaviours
	Policy    *combat.Policy
	Tactics   Tactics
	Resources *ResourceCache
}

// Executor produces at most one action per unit in its group.
type Executor interface {
	Role() rules.Role
	Act(ctx *Context, units []model.Unit) []model.Action
}

// Executors returns one executor per role in run order.
func Executors() []Executor {
	return []Executor{Defend{}, Combat{}, Conquer{}, Explore{}, Exterminate{}}
}

// Run executes every group of the assignment and concatenates the actions.
func Run(ctx *Context, a rules.Assignment) []model.Action {
	actions := make([]model.Action, 0, len(a.Roles))
	for _, ex := range Executors() {
		group := a.Group(ex.Role())
		if len(group) == 0 {
			continue
		}
		acts := ex.Act(ctx, group)
		slog.Debug("executor ran", "role", ex.Role(), "units", len(group), "actions", len(acts))
		actions = append(actions, acts...)
	}
	return actions
}

func (ctx *Context) greedy() nav.Router {
	if ctx.Greedy != nil {
		return ctx.Greedy
	}
	return ctx.Router
}

func routeAll(r nav.Router, units []model.Unit, target model.Point) []model.Action {
	out := make([]model.Action, 0, len(units))
	for _, u := range units {
		out = append(out, r.RouteTo(u, target))
	}
	return out
}

// pick selects one of points by unit id.
func pick(points []model.Point, id int) model.Point {
	n := len(points)
	return points[((id%n)+n)%n]
}
