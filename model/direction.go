package model

import "fmt"

// Direction is the engine's fixed cardinal encoding.
type Direction int

const (
	Right Direction = 0 // +x
	Down  Direction = 1 // +y
	Left  Direction = 2 // -x
	Up    Direction = 3 // -y
)

// Directions lists the cardinal directions in their tie-break order.
var Directions = [4]Direction{Right, Down, Left, Up}

var offsets = [4]Point{
	Right: {X: 1, Y: 0},
	Down:  {X: 0, Y: 1},
	Left:  {X: -1, Y: 0},
	Up:    {X: 0, Y: -1},
}

func (d Direction) Valid() bool { return d >= Right && d <= Up }

// Offset returns the unit step for d, or the zero point for invalid values.
func (d Direction) Offset() Point {
	if !d.Valid() {
		return Point{}
	}
	return offsets[d]
}

func (d Direction) String() string {
	switch d {
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	case Up:
		return "up"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// StepToward converts a single-step offset into a cardinal direction. The
// x axis is checked before the y axis so diagonal steps resolve horizontally.
// ok is false when from == to.
func StepToward(from, to Point) (Direction, bool) {
	switch {
	case to.X > from.X:
		return Right, true
	case to.X < from.X:
		return Left, true
	case to.Y > from.Y:
		return Down, true
	case to.Y < from.Y:
		return Up, true
	}
	return Right, false
}
