package nav

import (
	"log/slog"

	"github.com/cudabot/octobot/model"
)

// Router turns "go to target" into this turn's action for a unit. Executors
// depend on Router only, so grid-aware and greedy navigation are
// interchangeable.
type Router interface {
	RouteTo(u model.Unit, target model.Point) model.Action
}

// GreedyRouter steps along the x axis first, then the y axis, ignoring terrain.
type GreedyRouter struct {
	Grid      *model.Grid // optional; used to clamp targets
	Magnitude int
}

func (r GreedyRouter) RouteTo(u model.Unit, target model.Point) model.Action {
	if r.Grid != nil {
		target = r.Grid.Clamp(target)
	}
	d, ok := model.StepToward(u.Pos(), target)
	if !ok {
		return model.Hold(u.ID)
	}
	return model.Move(u.ID, d, r.Magnitude)
}

// GridRouter plans with the windowed shortest-path search and defers to
// Fallback when no route exists.
type GridRouter struct {
	Grid      *model.Grid
	Planner   Planner
	Magnitude int
	Fallback  Router // nil means hold position
}

func (r GridRouter) RouteTo(u model.Unit, target model.Point) model.Action {
	target = r.Grid.Clamp(target)
	d, outcome := r.Planner.Route(r.Grid, u.Pos(), target)
	switch outcome {
	case Step:
		return model.Move(u.ID, d, r.Magnitude)
	case Hold:
		return model.Hold(u.ID)
	}

	slog.Warn("no route inside search window", "unit", u.ID, "from", u.Pos(), "to", target)
	if r.Fallback == nil {
		return model.Hold(u.ID)
	}
	return r.Fallback.RouteTo(u, target)
}
