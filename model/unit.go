package model

import (
	"encoding/json"
	"fmt"
)

// Unit is a ship as reported for the current turn. Ids are unique within a
// side for one turn but may disappear or be reused after a unit is destroyed.
type Unit struct {
	ID           int
	X            int
	Y            int
	HP           int
	FireCooldown int
	MoveCooldown int
}

func (u Unit) Pos() Point { return Point{X: u.X, Y: u.Y} }

func (u Unit) DistanceTo(o Unit) float64 { return u.Pos().Dist(o.Pos()) }

// UnmarshalJSON decodes the engine's (id, x, y, hp, fire_cooldown, move_cooldown) tuple.
func (u *Unit) UnmarshalJSON(data []byte) error {
	var t []int
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("unmarshal unit tuple: %w", err)
	}
	if len(t) < 6 {
		return fmt.Errorf("unit tuple has %d fields, want 6", len(t))
	}
	*u = Unit{ID: t[0], X: t[1], Y: t[2], HP: t[3], FireCooldown: t[4], MoveCooldown: t[5]}
	return nil
}

func (u Unit) MarshalJSON() ([]byte, error) {
	return json.Marshal([6]int{u.ID, u.X, u.Y, u.HP, u.FireCooldown, u.MoveCooldown})
}

// UnitIDSet indexes a roster by id.
func UnitIDSet(units []Unit) map[int]bool {
	s := make(map[int]bool, len(units))
	for _, u := range units {
		s[u.ID] = true
	}
	return s
}
