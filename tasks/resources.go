package tasks

import (
	"log/slog"

	"github.com/cudabot/octobot/model"
)

// ResourceCache remembers the passable resource cells seen the first time
// it is consulted. It is never refreshed during a match.
type ResourceCache struct {
	loaded bool
	cells  []model.Point
}

func NewResourceCache() *ResourceCache { return &ResourceCache{} }

// Cells scans g on first use, skipping the square of side 2*margin around
// home, and returns the memoized set afterwards.
func (c *ResourceCache) Cells(g *model.Grid, home model.Point, margin int) []model.Point {
	if c.loaded {
		return c.cells
	}
	c.loaded = true
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			cell := g.At(x, y)
			if !cell.Passable() || !cell.HasResource() {
				continue
			}
			if nearHome(x, y, home, margin) {
				continue
			}
			c.cells = append(c.cells, model.Point{X: x, Y: y})
		}
	}
	slog.Info("resource cells cached", "count", len(c.cells))
	return c.cells
}

// Loaded reports whether the one-time scan has happened.
func (c *ResourceCache) Loaded() bool { return c.loaded }

// Reset drops the cached cells so the next match scans its own map.
func (c *ResourceCache) Reset() {
	c.loaded = false
	c.cells = nil
}

func nearHome(x, y int, home model.Point, margin int) bool {
	return x >= home.X-margin && x < home.X+margin &&
		y >= home.Y-margin && y < home.Y+margin
}
