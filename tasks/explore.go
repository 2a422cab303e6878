package tasks

import (
	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/rules"
)

var fallbackWaypoints = []model.Point{{X: 25, Y: 75}, {X: 50, Y: 50}, {X: 75, Y: 25}}

// Explore sends the explorer to the nearest planet this side does not own,
// else the farthest cached resource cell, else the nearest unobserved cell,
// else a fixed waypoint.
type Explore struct{}

func (Explore) Role() rules.Role { return rules.Explore }

func (Explore) Act(ctx *Context, units []model.Unit) []model.Action {
	out := make([]model.Action, 0, len(units))
	for _, u := range units {
		out = append(out, ctx.Router.RouteTo(u, ExploreTarget(ctx, u)))
	}
	return out
}

// ExploreTarget picks the destination for one explorer.
func ExploreTarget(ctx *Context, u model.Unit) model.Point {
	snap := ctx.Snap
	if p, ok := nearestForeignPlanet(snap.Planets, snap.Side, u.Pos()); ok {
		return p
	}
	cells := ctx.Resources.Cells(snap.Grid, snap.Home(), ctx.Tactics.HomeMargin)
	if p, ok := farthest(cells, u.Pos()); ok {
		return p
	}
	if p, ok := nearest(snap.Grid.UnobservedCells(), u.Pos()); ok {
		return p
	}
	return snap.Grid.Clamp(pick(fallbackWaypoints, u.ID))
}

// nearestForeignPlanet uses Manhattan distance; ties keep list order.
func nearestForeignPlanet(planets []model.Planet, side model.Side, from model.Point) (model.Point, bool) {
	home := side.Home()
	var best model.Point
	bestDist, found := 0, false
	for _, p := range planets {
		if p.OwnedBy(side) || p.Pos() == home {
			continue
		}
		if d := from.Manhattan(p.Pos()); !found || d < bestDist {
			best, bestDist, found = p.Pos(), d, true
		}
	}
	return best, found
}

// farthest and nearest rank by Manhattan distance like the planet tier.
func farthest(points []model.Point, from model.Point) (model.Point, bool) {
	var best model.Point
	bestDist, found := 0, false
	for _, p := range points {
		if d := from.Manhattan(p); !found || d > bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

func nearest(points []model.Point, from model.Point) (model.Point, bool) {
	var best model.Point
	bestDist, found := 0, false
	for _, p := range points {
		if d := from.Manhattan(p); !found || d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}
