package tasks

import (
	"log/slog"

	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/rules"
)

// Combat engages the nearest enemy within the combat distance. Units with no
// enemy in range emit nothing and hold.
type Combat struct{}

func (Combat) Role() rules.Role { return rules.Combat }

func (Combat) Act(ctx *Context, units []model.Unit) []model.Action {
	out := make([]model.Action, 0, len(units))
	for _, u := range units {
		enemy, ok := ctx.Snap.NearestEnemy(u, ctx.Tactics.CombatDist)
		if !ok {
			continue
		}
		a := ctx.Policy.Engage(u, enemy)
		slog.Debug("engage", "turn", ctx.Snap.Turn, "unit", u.ID, "enemy", enemy.ID, "action", a)
		out = append(out, a)
	}
	return out
}
