package rules

// UnitEnv is the per-unit view a rule condition is evaluated against. Field
// names are the identifiers available inside `when` expressions.
type UnitEnv struct {
	ID           int
	X, Y         int
	HP           int
	FireCooldown int
	MoveCooldown int

	Turn     int
	Doomsday int
	BaseHP   int

	// Engaged is true when an enemy lies within the combat distance.
	Engaged   bool
	EnemyDist float64 // distance to the nearest visible enemy, -1 when none

	// ExplorerSlotOpen is true when no other live unit holds the explorer slot.
	ExplorerSlotOpen bool
	IsExplorer       bool

	ExterminateTurn  int
	ExterminateSquad int
}

// Late reports whether the doomsday threshold has been reached.
func (e UnitEnv) Late() bool { return e.Turn >= e.Doomsday }

// CanFire reports whether the unit's weapon is ready this turn.
func (e UnitEnv) CanFire() bool { return e.FireCooldown == 0 }

// Exterminating reports whether the optional rush is active for this unit.
func (e UnitEnv) Exterminating() bool {
	return e.ExterminateTurn > 0 && e.Turn >= e.ExterminateTurn && e.ID < e.ExterminateSquad
}
