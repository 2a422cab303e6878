package model

import "testing"

func TestNewGridAt(t *testing.T) {
	grid := NewGrid([][]int{
		{1, 3, -1},
		{5, 9, 0},
	})

	if grid.Width != 3 || grid.Height != 2 {
		t.Fatalf("size = %dx%d, want 3x2", grid.Width, grid.Height)
	}

	tests := []struct {
		x, y int
		want Cell
	}{
		{0, 0, 1},
		{1, 0, 3},
		{2, 0, Unobserved},
		{0, 1, 5},
		{1, 1, 9},
		{2, 1, 0},
	}
	for _, tc := range tests {
		got := grid.At(tc.x, tc.y)
		if got != tc.want {
			t.Errorf("At(%d, %d) = %d, want %d", tc.x, tc.y, got, tc.want)
		}
	}
}

func TestGridAtOutOfBounds(t *testing.T) {
	grid := NewGrid([][]int{{1, 1}, {1, 1}})

	// Out-of-bounds reads are fog, never terrain.
	for _, p := range []Point{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		if got := grid.AtPoint(p); got != Unobserved {
			t.Errorf("AtPoint(%v) = %d, want Unobserved", p, got)
		}
	}
}

func TestNewGridPadsRaggedRows(t *testing.T) {
	grid := NewGrid([][]int{{1, 1, 1}, {1}})
	if got := grid.At(2, 1); got != Unobserved {
		t.Errorf("padded cell = %d, want Unobserved", got)
	}
}

func TestNormalizeCellStripsBitsFromFog(t *testing.T) {
	c := NormalizeCell(-7)
	if c != Unobserved {
		t.Fatalf("NormalizeCell(-7) = %d, want Unobserved", c)
	}
	if c.Passable() || c.Hazard() || c.Boost() || c.HasResource() {
		t.Error("unobserved cell must not report terrain bits")
	}
}

func TestCellBitsAreIndependent(t *testing.T) {
	c := CellPassable | CellAsteroid | 0b1000
	if !c.Passable() || !c.Hazard() || !c.HasResource() {
		t.Errorf("cell %b: passable=%v hazard=%v resource=%v", c, c.Passable(), c.Hazard(), c.HasResource())
	}
	if c.Boost() {
		t.Errorf("cell %b should not be a boost field", c)
	}
}

func TestGridClamp(t *testing.T) {
	grid := EmptyGrid(100, 100)

	tests := []struct {
		in, want Point
	}{
		{Point{50, 50}, Point{50, 50}},
		{Point{-4, 120}, Point{0, 99}},
		{Point{100, -1}, Point{99, 0}},
	}
	for _, tc := range tests {
		if got := grid.Clamp(tc.in); got != tc.want {
			t.Errorf("Clamp(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestGridUnobservedCells(t *testing.T) {
	grid := NewGrid([][]int{
		{1, -1},
		{-1, 1},
	})
	got := grid.UnobservedCells()
	want := []Point{{1, 0}, {0, 1}}
	if len(got) != len(want) {
		t.Fatalf("UnobservedCells() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("UnobservedCells()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
