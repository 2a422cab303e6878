package rules

// DefaultRules returns the role cascade: combat check, doomsday diversion,
// sticky explorer, optional exterminate rush, doomsday conquer, defend.
func DefaultRules() []*Rule {
	return []*Rule{
		{
			Name:         "reloading-push",
			Priority:     500,
			Role:         Conquer,
			ConditionSrc: `Engaged && Late() && !CanFire()`,
		},
		{
			Name:         "engage",
			Priority:     400,
			Role:         Combat,
			ConditionSrc: `Engaged`,
		},
		{
			Name:         "sticky-explorer",
			Priority:     300,
			Role:         Explore,
			ConditionSrc: `ExplorerSlotOpen`,
		},
		{
			Name:         "exterminate",
			Priority:     250,
			Role:         Exterminate,
			ConditionSrc: `Exterminating()`,
		},
		{
			Name:         "doomsday-push",
			Priority:     200,
			Role:         Conquer,
			ConditionSrc: `Late()`,
		},
		{
			Name:         "defend",
			Priority:     100,
			Role:         Defend,
			ConditionSrc: `true`,
		},
	}
}
