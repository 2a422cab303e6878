package rules

// Thresholds are the tunable constants the default cascade reads.
type Thresholds struct {
	CombatDist       float64
	Doomsday         int
	ExterminateTurn  int // 0 disables the exterminate rule
	ExterminateSquad int
}

// DefaultThresholds follows the final tuning: late push at turn 1700 and an
// engagement radius of 7 cells.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CombatDist:       7,
		Doomsday:         1700,
		ExterminateTurn:  0,
		ExterminateSquad: 3,
	}
}

// Validate clamps values to their usable ranges.
func (t *Thresholds) Validate() {
	t.CombatDist = clamp(t.CombatDist, 1, 100)
	t.Doomsday = clampInt(t.Doomsday, 0, 1<<20)
	t.ExterminateTurn = clampInt(t.ExterminateTurn, 0, 1<<20)
	t.ExterminateSquad = clampInt(t.ExterminateSquad, 0, 1<<20)
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// clampInt restricts v to [min, max].
func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
