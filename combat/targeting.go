// Package combat decides whether a unit can hit another along one of the four
// firing directions, and picks fire, approach or dodge moves for an engaged pair.
package combat

import (
	"math"

	"github.com/cudabot/octobot/model"
)

const (
	DefaultFireRange = 8.0
	DefaultConeDeg   = 15.0

	// coneEpsilon absorbs float noise so a target exactly on the cone edge counts.
	coneEpsilon = 1e-9
)

// Targeting holds the weapon geometry.
type Targeting struct {
	Range float64 // cells along the firing direction
	Cone  float64 // half-angle in radians
}

func DefaultTargeting() Targeting {
	return NewTargeting(DefaultFireRange, DefaultConeDeg)
}

func NewTargeting(rangeCells, coneDeg float64) Targeting {
	return Targeting{Range: rangeCells, Cone: coneDeg * math.Pi / 180}
}

type vec struct{ x, y float64 }

func vecBetween(from, to model.Point) vec {
	return vec{x: float64(to.X - from.X), y: float64(to.Y - from.Y)}
}

func (v vec) norm() float64 { return math.Hypot(v.x, v.y) }

// angleBetween returns the unsigned angle between a and b in [0, π].
func angleBetween(a, b vec) float64 {
	cos := (a.x*b.x + a.y*b.y) / (a.norm() * b.norm())
	return math.Acos(math.Max(-1, math.Min(1, cos)))
}

// reference is the firing vector for d at full range.
func (t Targeting) reference(d model.Direction) vec {
	o := d.Offset()
	return vec{x: float64(o.X) * t.Range, y: float64(o.Y) * t.Range}
}

func (t Targeting) inCone(rel vec, d model.Direction) bool {
	return angleBetween(rel, t.reference(d)) <= t.Cone+coneEpsilon
}

// inRange accepts anything closer than one cell past the nominal range, which
// keeps off-axis targets at the far edge of the cone hittable.
func (t Targeting) inRange(rel vec) bool {
	return rel.norm() < t.Range+1
}

// LineOfFire returns the first direction, in order 0..3, whose firing cone
// contains target. A target on the shooter's own cell never qualifies.
func (t Targeting) LineOfFire(shooter, target model.Point) (model.Direction, bool) {
	rel := vecBetween(shooter, target)
	if rel.norm() == 0 || !t.inRange(rel) {
		return model.Right, false
	}
	for _, d := range model.Directions {
		if t.inCone(rel, d) {
			return d, true
		}
	}
	return model.Right, false
}

// Threatens reports whether shooter could hit a unit standing at target.
func (t Targeting) Threatens(shooter, target model.Point) bool {
	_, ok := t.LineOfFire(shooter, target)
	return ok
}
