// Package nav plans single-step moves toward a target over the partially
// observed grid.
package nav

import (
	"container/heap"

	"github.com/cudabot/octobot/model"
)

// Outcome describes what Route found.
type Outcome int

const (
	Step        Outcome = iota // a direction was found
	Hold                       // origin already equals target; no search ran
	Unreachable                // no path inside the window
)

func (o Outcome) String() string {
	switch o {
	case Step:
		return "step"
	case Hold:
		return "hold"
	case Unreachable:
		return "unreachable"
	}
	return "unknown"
}

// Weights are the edge costs for entering a cell.
type Weights struct {
	Base          int // ordinary and unobserved cells
	HazardPenalty int // added on top of Base for asteroid cells
	Boost         int // speed-boost cells
}

func DefaultWeights() Weights {
	return Weights{Base: 3, HazardPenalty: 5, Boost: 0}
}

// cost checks the hazard bit before the boost bit. Fog never blocks movement.
func (w Weights) cost(c model.Cell) int {
	switch {
	case c.Hazard():
		return w.Base + w.HazardPenalty
	case c.Boost():
		return w.Boost
	}
	return w.Base
}

// Planner runs the windowed shortest-path search.
type Planner struct {
	Radius  int // max cells the window extends from the origin on each axis
	Weights Weights
}

const DefaultRadius = 15

func NewPlanner(radius int, w Weights) Planner {
	if radius <= 0 {
		radius = DefaultRadius
	}
	return Planner{Radius: radius, Weights: w}
}

// Route runs a default-weighted search. See Planner.Route.
func Route(g *model.Grid, origin, target model.Point, radius int) (model.Direction, Outcome) {
	return NewPlanner(radius, DefaultWeights()).Route(g, origin, target)
}

// window is an inclusive rectangle in grid coordinates.
type window struct {
	minX, minY, maxX, maxY int
}

func (w window) width() int  { return w.maxX - w.minX + 1 }
func (w window) height() int { return w.maxY - w.minY + 1 }

func (w window) clamp(p model.Point) model.Point {
	return model.Point{X: clamp(p.X, w.minX, w.maxX), Y: clamp(p.Y, w.minY, w.maxY)}
}

func (w window) index(p model.Point) int {
	return (p.Y-w.minY)*w.width() + (p.X - w.minX)
}

func (w window) point(i int) model.Point {
	return model.Point{X: w.minX + i%w.width(), Y: w.minY + i/w.width()}
}

// searchWindow is the bounding rectangle of origin and target, cut on each
// axis to radius cells from the origin toward the target, then clamped to the
// grid.
func searchWindow(g *model.Grid, origin, target model.Point, radius int) window {
	w := window{
		minX: min(origin.X, target.X),
		minY: min(origin.Y, target.Y),
		maxX: max(origin.X, target.X),
		maxY: max(origin.Y, target.Y),
	}
	if w.maxX-w.minX > radius {
		if origin.X < target.X {
			w.maxX = origin.X + radius
		} else {
			w.minX = origin.X - radius
		}
	}
	if w.maxY-w.minY > radius {
		if origin.Y < target.Y {
			w.maxY = origin.Y + radius
		} else {
			w.minY = origin.Y - radius
		}
	}
	w.minX = max(w.minX, 0)
	w.minY = max(w.minY, 0)
	w.maxX = min(w.maxX, g.Width-1)
	w.maxY = min(w.maxY, g.Height-1)
	return w
}

// Route returns the first cardinal step of the cheapest 8-connected path from
// origin toward target. When the target lies outside the window the search
// aims for the window cell nearest to it. Among equal-cost paths the one with
// the fewest axis steps wins, so paths never wander sideways on open ground.
func (p Planner) Route(g *model.Grid, origin, target model.Point) (model.Direction, Outcome) {
	if origin == target {
		return model.Right, Hold
	}
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return model.Right, Unreachable
	}
	origin = g.Clamp(origin)
	target = g.Clamp(target)

	win := searchWindow(g, origin, target, p.Radius)
	goal := win.clamp(target)
	if goal == origin {
		return model.Right, Hold
	}

	n := win.width() * win.height()
	cost := make([]int, n)
	steps := make([]int, n)
	prev := make([]int, n)
	done := make([]bool, n)
	for i := range cost {
		cost[i] = -1
		prev[i] = -1
	}

	start := win.index(origin)
	goalIdx := win.index(goal)
	cost[start] = 0

	pq := &nodeQueue{}
	seq := 0
	heap.Push(pq, node{idx: start, seq: seq})

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(node)
		if done[cur.idx] {
			continue
		}
		done[cur.idx] = true
		if cur.idx == goalIdx {
			break
		}

		pt := win.point(cur.idx)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nb := model.Point{X: pt.X + dx, Y: pt.Y + dy}
				if nb.X < win.minX || nb.X > win.maxX || nb.Y < win.minY || nb.Y > win.maxY {
					continue
				}
				ni := win.index(nb)
				if done[ni] {
					continue
				}
				alt := cost[cur.idx] + p.Weights.cost(g.AtPoint(nb))
				altSteps := steps[cur.idx] + abs(dx) + abs(dy)
				if cost[ni] >= 0 && (alt > cost[ni] || (alt == cost[ni] && altSteps >= steps[ni])) {
					continue
				}
				cost[ni] = alt
				steps[ni] = altSteps
				prev[ni] = cur.idx
				seq++
				heap.Push(pq, node{idx: ni, cost: alt, steps: altSteps, seq: seq})
			}
		}
	}

	if cost[goalIdx] < 0 {
		return model.Right, Unreachable
	}

	// Walk back from the goal to the cell adjacent to the origin.
	next := goalIdx
	for prev[next] != start {
		if prev[next] < 0 {
			return model.Right, Unreachable
		}
		next = prev[next]
	}

	d, ok := model.StepToward(origin, win.point(next))
	if !ok {
		return model.Right, Hold
	}
	return d, Step
}

type node struct {
	idx   int
	cost  int
	steps int
	seq   int
}

// nodeQueue is a min-heap ordered by (cost, steps, insertion order).
type nodeQueue []node

func (q nodeQueue) Len() int { return len(q) }
func (q nodeQueue) Less(i, j int) bool {
	if q[i].cost != q[j].cost {
		return q[i].cost < q[j].cost
	}
	if q[i].steps != q[j].steps {
		return q[i].steps < q[j].steps
	}
	return q[i].seq < q[j].seq
}
func (q nodeQueue) Swap(i, j int) { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x any)   { *q = append(*q, x.(node)) }
func (q *nodeQueue) Pop() any {
	old := *q
	n := len(old)
	x := old[n-1]
	*q = old[:n-1]
	return x
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
