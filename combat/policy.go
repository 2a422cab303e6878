package combat

import (
	"math/rand/v2"

	"github.com/cudabot/octobot/model"
)

// Policy resolves one engaged pair per turn: fire when possible, otherwise
// stay out of the enemy's cone. Nothing is remembered between turns beyond
// the cooldowns the engine reports.
type Policy struct {
	Targeting  Targeting
	Aggressive bool        // close distance when safe instead of drifting
	Magnitude  int         // move distance used for combat moves
	Bounds     *model.Grid // optional; dodges never leave the grid
	Rand       *rand.Rand  // nil uses the global source
}

func NewPolicy(t Targeting, aggressive bool, magnitude int) *Policy {
	if magnitude <= 0 {
		magnitude = 1
	}
	return &Policy{Targeting: t, Aggressive: aggressive, Magnitude: magnitude}
}

// Engage picks the action for self against enemy.
func (p *Policy) Engage(self, enemy model.Unit) model.Action {
	if self.FireCooldown == 0 {
		if d, ok := p.Targeting.LineOfFire(self.Pos(), enemy.Pos()); ok {
			return model.Fire(self.ID, d)
		}
	}

	if enemy.FireCooldown != 0 || !p.Targeting.Threatens(enemy.Pos(), self.Pos()) {
		return p.safeMove(self, enemy)
	}

	if safe := p.SafeDirections(self, enemy); len(safe) > 0 {
		return model.Move(self.ID, safe[0], p.Magnitude)
	}

	// Nowhere safe: keep moving rather than sit still in the cone.
	return model.Move(self.ID, p.randomDirection(), p.Magnitude)
}

// SafeDirections lists, in direction order, the single steps from self that
// leave it outside enemy's firing cones.
func (p *Policy) SafeDirections(self, enemy model.Unit) []model.Direction {
	var out []model.Direction
	for _, d := range model.Directions {
		dest := self.Pos().Add(d)
		if p.Bounds != nil && !p.Bounds.InBounds(dest) {
			continue
		}
		if !p.Targeting.Threatens(enemy.Pos(), dest) {
			out = append(out, d)
		}
	}
	return out
}

func (p *Policy) safeMove(self, enemy model.Unit) model.Action {
	if p.Aggressive {
		if d, ok := model.StepToward(self.Pos(), enemy.Pos()); ok {
			return model.Move(self.ID, d, p.Magnitude)
		}
	}
	return model.Move(self.ID, p.randomDirection(), p.Magnitude)
}

func (p *Policy) randomDirection() model.Direction {
	if p.Rand != nil {
		return model.Direction(p.Rand.IntN(len(model.Directions)))
	}
	return model.Direction(rand.IntN(len(model.Directions)))
}
