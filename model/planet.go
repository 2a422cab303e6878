package model

import (
	"encoding/json"
	"fmt"
)

// Occupation bounds. Values strictly between OccupiedA and OccupiedB are an
// active contest moving linearly toward one side.
const (
	Unoccupied = -1
	OccupiedA  = 0
	OccupiedB  = 100
)

type Planet struct {
	X          int
	Y          int
	Occupation int
}

func (p Planet) Pos() Point { return Point{X: p.X, Y: p.Y} }

func (p Planet) IsUnoccupied() bool { return p.Occupation == Unoccupied }

func (p Planet) IsContested() bool {
	return p.Occupation > OccupiedA && p.Occupation < OccupiedB
}

// OwnedBy reports full ownership by s.
func (p Planet) OwnedBy(s Side) bool { return p.Occupation == s.OwnOccupation() }

// UnmarshalJSON decodes the engine's (x, y, occupation) tuple. Occupation is
// clamped into [-1, 100].
func (p *Planet) UnmarshalJSON(data []byte) error {
	var t []int
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("unmarshal planet tuple: %w", err)
	}
	if len(t) < 3 {
		return fmt.Errorf("planet tuple has %d fields, want 3", len(t))
	}
	*p = Planet{X: t[0], Y: t[1], Occupation: clampInt(t[2], Unoccupied, OccupiedB)}
	return nil
}

func (p Planet) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]int{p.X, p.Y, p.Occupation})
}

// FindPlanet returns the planet located at pos.
func FindPlanet(planets []Planet, pos Point) (Planet, bool) {
	for _, p := range planets {
		if p.X == pos.X && p.Y == pos.Y {
			return p, true
		}
	}
	return Planet{}, false
}
