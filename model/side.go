package model

import "fmt"

// Side identifies which player the bot controls. Each side has a fixed home
// planet; the opponent's home is the mirrored coordinate.
type Side int

const (
	SideA Side = 0
	SideB Side = 1
)

var (
	homeA = Point{X: 9, Y: 9}
	homeB = Point{X: 90, Y: 90}
)

func (s Side) Home() Point {
	if s == SideB {
		return homeB
	}
	return homeA
}

func (s Side) EnemyHome() Point { return s.Opponent().Home() }

func (s Side) Opponent() Side {
	if s == SideB {
		return SideA
	}
	return SideB
}

// OwnOccupation is the occupation value meaning full ownership by s.
func (s Side) OwnOccupation() int {
	if s == SideB {
		return OccupiedB
	}
	return OccupiedA
}

// Health converts an occupation value into the side-relative health of a
// planet owned by s, clamped to [0, 100].
func (s Side) Health(occupation int) int {
	h := occupation
	if s == SideA {
		h = 100 - occupation
	}
	return clampInt(h, 0, 100)
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	}
	return fmt.Sprintf("side(%d)", int(s))
}

// DetectSide infers the controlled side from the planet list, whose first
// entry is always the player's home planet.
func DetectSide(planets []Planet) (Side, bool) {
	if len(planets) == 0 {
		return SideA, false
	}
	if planets[0].Pos() == homeA {
		return SideA, true
	}
	return SideB, true
}
