package model

// DefaultGridSize is the side length of the square map used by the game.
const DefaultGridSize = 100

// Grid is the partially observed map for one turn.
type Grid struct {
	Width  int
	Height int
	Cells  []Cell // row-major: Cells[y*Width + x]
}

// NewGrid builds a grid from the engine's map rows, where rows[y][x] is the
// cell at (x, y). Ragged rows are padded with Unobserved.
func NewGrid(rows [][]int) *Grid {
	h := len(rows)
	w := 0
	for _, r := range rows {
		if len(r) > w {
			w = len(r)
		}
	}
	g := &Grid{Width: w, Height: h, Cells: make([]Cell, w*h)}
	for y, r := range rows {
		for x := 0; x < w; x++ {
			c := Unobserved
			if x < len(r) {
				c = NormalizeCell(r[x])
			}
			g.Cells[y*w+x] = c
		}
	}
	return g
}

// EmptyGrid returns a fully unobserved w x h grid.
func EmptyGrid(w, h int) *Grid {
	g := &Grid{Width: w, Height: h, Cells: make([]Cell, w*h)}
	for i := range g.Cells {
		g.Cells[i] = Unobserved
	}
	return g
}

func (g *Grid) InBounds(p Point) bool {
	return p.X >= 0 && p.X < g.Width && p.Y >= 0 && p.Y < g.Height
}

// At returns the cell at (x, y). Returns Unobserved for out-of-bounds coordinates.
func (g *Grid) At(x, y int) Cell {
	if g == nil || x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return Unobserved
	}
	return g.Cells[y*g.Width+x]
}

func (g *Grid) AtPoint(p Point) Cell { return g.At(p.X, p.Y) }

// Set overwrites a cell; out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, c Cell) {
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return
	}
	g.Cells[y*g.Width+x] = c
}

// Clamp pulls p inside the grid bounds. An empty grid clamps to the origin.
func (g *Grid) Clamp(p Point) Point {
	if g == nil || g.Width <= 0 || g.Height <= 0 {
		return Point{}
	}
	return Point{X: clampInt(p.X, 0, g.Width-1), Y: clampInt(p.Y, 0, g.Height-1)}
}

// UnobservedCells returns the positions still under fog, in row-major order.
func (g *Grid) UnobservedCells() []Point {
	var out []Point
	for i, c := range g.Cells {
		if !c.Observed() {
			out = append(out, Point{X: i % g.Width, Y: i / g.Width})
		}
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
