package model

// Cell is one grid position as reported by the engine. Unobserved cells are -1;
// anything else is a bitfield whose bits are independent of each other.
type Cell int

const Unobserved Cell = -1

const (
	CellPassable Cell = 1 << 0
	CellAsteroid Cell = 1 << 1 // hazard
	CellBoost    Cell = 1 << 2 // speed boost field

	// CellResource covers the three resource-bearing bits.
	CellResource Cell = 0b111000
)

// NormalizeCell maps any negative raw value to Unobserved so fog never
// carries terrain bits.
func NormalizeCell(raw int) Cell {
	if raw < 0 {
		return Unobserved
	}
	return Cell(raw)
}

func (c Cell) Observed() bool { return c >= 0 }

func (c Cell) has(bit Cell) bool { return c.Observed() && c&bit != 0 }

func (c Cell) Passable() bool    { return c.has(CellPassable) }
func (c Cell) Hazard() bool      { return c.has(CellAsteroid) }
func (c Cell) Boost() bool       { return c.has(CellBoost) }
func (c Cell) HasResource() bool { return c.has(CellResource) }
