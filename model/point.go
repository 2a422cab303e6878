package model

import "math"

// Point is a grid coordinate. X grows to the right, Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (p Point) Add(d Direction) Point {
	o := d.Offset()
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Dist is the Euclidean distance between two points.
func (p Point) Dist(o Point) float64 {
	dx := float64(p.X - o.X)
	dy := float64(p.Y - o.Y)
	return math.Sqrt(dx*dx + dy*dy)
}

func (p Point) Manhattan(o Point) int {
	return absInt(p.X-o.X) + absInt(p.Y-o.Y)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
