// Package state normalizes the engine observation into a typed snapshot and
// derives the home-base health signals by comparing against the previous turn.
package state

import (
	"github.com/cudabot/octobot/model"
)

// BaseStatus summarizes how the home planet fared since the previous turn.
type BaseStatus int

const (
	Intact       BaseStatus = iota // full health
	SteadyDamage                   // below full health, no new damage this turn
	JustAttacked                   // health dropped since the previous turn
)

func (s BaseStatus) String() string {
	switch s {
	case Intact:
		return "intact"
	case SteadyDamage:
		return "steady_damage"
	case JustAttacked:
		return "just_attacked"
	}
	return "unknown"
}

// Snapshot is the normalized state for one turn. It is created fresh every
// turn and never mutated after New returns.
type Snapshot struct {
	Turn       int
	Grid       *model.Grid
	Allied     []model.Unit
	Enemy      []model.Unit
	Planets    []model.Planet
	Resources  model.Resources
	Side       model.Side
	BaseStatus BaseStatus
	BaseHP     int
	EnemySeen  bool // enemies visible this turn or any earlier one
}

// Summary is the part of a snapshot retained for the next turn.
type Summary struct {
	Turn      int
	Planets   []model.Planet
	BaseHP    int
	AlliedIDs []int
	EnemySeen bool // sticky for the rest of the match
}

// New builds the snapshot for turn from obs. prev may be nil on the first turn.
func New(obs model.Observation, turn int, side model.Side, prev *Summary) *Snapshot {
	s := &Snapshot{
		Turn:       turn,
		Grid:       model.NewGrid(obs.Map),
		Allied:     obs.AlliedShips,
		Enemy:      obs.EnemyShips,
		Planets:    obs.Planets,
		Resources:  obs.Resources,
		Side:       side,
		BaseStatus: Intact,
		BaseHP:     100,
	}
	if s.Grid.Width == 0 {
		s.Grid = model.EmptyGrid(model.DefaultGridSize, model.DefaultGridSize)
	}
	s.EnemySeen = len(s.Enemy) > 0
	if prev != nil {
		s.BaseStatus, s.BaseHP = baseHealth(side, prev.Planets, s.Planets)
		s.EnemySeen = s.EnemySeen || prev.EnemySeen
	}
	return s
}

// baseHealth compares the home planet between two planet lists. A home planet
// missing from the current list reads as intact; one missing only from the
// previous list never signals an attack.
func baseHealth(side model.Side, prev, cur []model.Planet) (BaseStatus, int) {
	home := side.Home()
	curPlanet, ok := model.FindPlanet(cur, home)
	if !ok {
		return Intact, 100
	}
	current := side.Health(curPlanet.Occupation)

	prevPlanet, ok := model.FindPlanet(prev, home)
	if !ok {
		if current < 100 {
			return SteadyDamage, current
		}
		return Intact, current
	}
	previous := side.Health(prevPlanet.Occupation)

	switch {
	case previous-current > 0:
		return JustAttacked, current
	case current < 100:
		return SteadyDamage, current
	}
	return Intact, current
}

// Summary returns the read-only record kept for the next turn's comparison.
func (s *Snapshot) Summary() Summary {
	planets := make([]model.Planet, len(s.Planets))
	copy(planets, s.Planets)
	ids := make([]int, len(s.Allied))
	for i, u := range s.Allied {
		ids[i] = u.ID
	}
	return Summary{
		Turn:      s.Turn,
		Planets:   planets,
		BaseHP:    s.BaseHP,
		AlliedIDs: ids,
		EnemySeen: s.EnemySeen,
	}
}

func (s *Snapshot) Home() model.Point { return s.Side.Home() }

func (s *Snapshot) EnemyHome() model.Point { return s.Side.EnemyHome() }

// AlliedIDs indexes the current allied roster.
func (s *Snapshot) AlliedIDs() map[int]bool { return model.UnitIDSet(s.Allied) }

// NearestEnemy returns the closest enemy within maxDist (inclusive) of u.
// Ties keep the first enemy in roster order.
func (s *Snapshot) NearestEnemy(u model.Unit, maxDist float64) (model.Unit, bool) {
	var best model.Unit
	bestDist := maxDist
	found := false
	for _, e := range s.Enemy {
		d := u.DistanceTo(e)
		if d > maxDist {
			continue
		}
		if !found || d < bestDist {
			best, bestDist, found = e, d, true
		}
	}
	return best, found
}

// Engaged reports whether any enemy is within maxDist of u.
func (s *Snapshot) Engaged(u model.Unit, maxDist float64) bool {
	_, ok := s.NearestEnemy(u, maxDist)
	return ok
}
