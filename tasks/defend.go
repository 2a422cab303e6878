package tasks

import (
	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/rules"
	"github.com/cudabot/octobot/state"
)

var guardPoints = map[model.Side][]model.Point{
	model.SideA: {{X: 14, Y: 14}, {X: 14, Y: 9}, {X: 9, Y: 14}},
	model.SideB: {{X: 85, Y: 85}, {X: 85, Y: 90}, {X: 90, Y: 85}},
}

// GuardPoints returns the three posts near the side's home.
func GuardPoints(s model.Side) []model.Point { return guardPoints[s] }

// Defend holds the home area: everyone goes home when the base is under
// pressure, damaged units go home, the rest man the guard posts.
type Defend struct{}

func (Defend) Role() rules.Role { return rules.Defend }

func (Defend) Act(ctx *Context, units []model.Unit) []model.Action {
	snap := ctx.Snap
	home := snap.Home()
	if baseThreatened(snap, ctx.Tactics) {
		return routeAll(ctx.Router, units, home)
	}

	posts := GuardPoints(snap.Side)
	out := make([]model.Action, 0, len(units))
	for _, u := range units {
		target := pick(posts, u.ID)
		if u.HP < ctx.Tactics.RetreatHP {
			target = home
		}
		out = append(out, ctx.Router.RouteTo(u, target))
	}
	return out
}

func baseThreatened(snap *state.Snapshot, t Tactics) bool {
	if snap.BaseStatus == state.JustAttacked {
		return true
	}
	return snap.BaseStatus == state.SteadyDamage && snap.BaseHP < t.DefendBaseHP
}
