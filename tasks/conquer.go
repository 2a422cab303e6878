package tasks

import (
	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/rules"
)

// Conquer pushes toward the enemy home.
type Conquer struct{}

func (Conquer) Role() rules.Role { return rules.Conquer }

func (Conquer) Act(ctx *Context, units []model.Unit) []model.Action {
	r := ctx.Router
	if ctx.Tactics.GreedyConquer {
		r = ctx.greedy()
	}
	return routeAll(r, units, ctx.Snap.EnemyHome())
}

// Exterminate rushes the enemy home with single-axis steps, ignoring
// planets and resources.
type Exterminate struct{}

func (Exterminate) Role() rules.Role { return rules.Exterminate }

func (Exterminate) Act(ctx *Context, units []model.Unit) []model.Action {
	return routeAll(ctx.greedy(), units, ctx.Snap.EnemyHome())
}
