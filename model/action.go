package model

import (
	"encoding/json"
	"fmt"
)

type ActionKind int

const (
	ActionMove ActionKind = 0
	ActionFire ActionKind = 1
)

// MaxMagnitude is the longest move the engine accepts in one turn.
const MaxMagnitude = 3

// Action is a single order for one unit. Omitting a unit from the batch is
// the same as holding position.
type Action struct {
	UnitID    int
	Kind      ActionKind
	Direction Direction
	Magnitude int // move distance; unused for fire
}

func Move(id int, d Direction, magnitude int) Action {
	return Action{UnitID: id, Kind: ActionMove, Direction: d, Magnitude: clampInt(magnitude, 0, MaxMagnitude)}
}

func Fire(id int, d Direction) Action {
	return Action{UnitID: id, Kind: ActionFire, Direction: d}
}

// Hold is an explicit zero-magnitude move.
func Hold(id int) Action { return Move(id, Right, 0) }

func (a Action) IsHold() bool { return a.Kind == ActionMove && a.Magnitude == 0 }

func (a Action) String() string {
	if a.Kind == ActionFire {
		return fmt.Sprintf("unit %d fire %s", a.UnitID, a.Direction)
	}
	return fmt.Sprintf("unit %d move %s x%d", a.UnitID, a.Direction, a.Magnitude)
}

// MarshalJSON encodes the engine tuple: (id, 0, dir, magnitude) for moves and
// (id, 1, dir) for fire.
func (a Action) MarshalJSON() ([]byte, error) {
	if a.Kind == ActionFire {
		return json.Marshal([3]int{a.UnitID, int(ActionFire), int(a.Direction)})
	}
	return json.Marshal([4]int{a.UnitID, int(ActionMove), int(a.Direction), a.Magnitude})
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var t []int
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("unmarshal action tuple: %w", err)
	}
	if len(t) < 3 {
		return fmt.Errorf("action tuple has %d fields, want at least 3", len(t))
	}
	*a = Action{UnitID: t[0], Kind: ActionKind(t[1]), Direction: Direction(t[2])}
	if a.Kind == ActionMove && len(t) > 3 {
		a.Magnitude = t[3]
	}
	return nil
}

// ActionBatch is the full response for one turn.
type ActionBatch struct {
	ShipsActions []Action `json:"ships_actions"`
	Construction int      `json:"construction"`
}
