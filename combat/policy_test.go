package combat

import (
	"math/rand/v2"
	"testing"

	"github.com/cudabot/octobot/model"
)

func testPolicy(aggressive bool) *Policy {
	p := NewPolicy(DefaultTargeting(), aggressive, 1)
	p.Rand = rand.New(rand.NewPCG(1, 2))
	return p
}

func TestEngageFiresWhenReady(t *testing.T) {
	p := testPolicy(true)
	self := model.Unit{ID: 1, X: 10, Y: 10, HP: 100}
	enemy := model.Unit{ID: 2, X: 10, Y: 18, HP: 100}

	got := p.Engage(self, enemy)
	want := model.Fire(1, model.Down)
	if got != want {
		t.Errorf("Engage = %v, want %v", got, want)
	}
}

func TestEngageApproachesWhenSafe(t *testing.T) {
	p := testPolicy(true)
	self := model.Unit{ID: 1, X: 10, Y: 10, FireCooldown: 4}
	enemy := model.Unit{ID: 2, X: 14, Y: 13, FireCooldown: 2}

	got := p.Engage(self, enemy)
	want := model.Move(1, model.Right, 1)
	if got != want {
		t.Errorf("Engage = %v, want %v", got, want)
	}
}

func TestEngageDriftsWhenSafeAndPassive(t *testing.T) {
	p := testPolicy(false)
	self := model.Unit{ID: 1, X: 10, Y: 10, FireCooldown: 4}
	enemy := model.Unit{ID: 2, X: 14, Y: 13, FireCooldown: 2}

	got := p.Engage(self, enemy)
	if got.Kind != model.ActionMove || got.Magnitude != 1 || !got.Direction.Valid() {
		t.Errorf("Engage = %v, want a bounded single-step move", got)
	}
}

func TestEngageDodgesOutOfCone(t *testing.T) {
	p := testPolicy(true)
	self := model.Unit{ID: 1, X: 10, Y: 10, FireCooldown: 3}
	enemy := model.Unit{ID: 2, X: 10, Y: 12}

	got := p.Engage(self, enemy)
	want := model.Move(1, model.Right, 1)
	if got != want {
		t.Errorf("Engage = %v, want %v", got, want)
	}
	dest := self.Pos().Add(got.Direction)
	if p.Targeting.Threatens(enemy.Pos(), dest) {
		t.Errorf("dodge destination %v is still in the enemy cone", dest)
	}
}

func TestEngageKeepsMovingWhenNothingIsSafe(t *testing.T) {
	p := testPolicy(true)
	self := model.Unit{ID: 1, X: 10, Y: 10, FireCooldown: 3}
	enemy := model.Unit{ID: 2, X: 10, Y: 14}

	if safe := p.SafeDirections(self, enemy); len(safe) != 0 {
		t.Fatalf("SafeDirections = %v, want none", safe)
	}
	got := p.Engage(self, enemy)
	if got.Kind != model.ActionMove || got.Magnitude != 1 {
		t.Errorf("Engage = %v, want a single-step move", got)
	}
}

func TestSafeDirectionsRespectBounds(t *testing.T) {
	p := testPolicy(true)
	p.Bounds = model.EmptyGrid(20, 20)
	self := model.Unit{ID: 1, X: 0, Y: 10}
	enemy := model.Unit{ID: 2, X: 0, Y: 12}

	for _, d := range p.SafeDirections(self, enemy) {
		if !p.Bounds.InBounds(self.Pos().Add(d)) {
			t.Errorf("direction %v leaves the grid", d)
		}
	}
}
