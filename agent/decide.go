package agent

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cudabot/octobot/combat"
	"github.com/cudabot/octobot/config"
	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/nav"
	"github.com/cudabot/octobot/rules"
	"github.com/cudabot/octobot/state"
	"github.com/cudabot/octobot/stats"
	"github.com/cudabot/octobot/tasks"
	"github.com/cudabot/octobot/turnlog"
)

// Decide runs one turn. turn <= 0 means "next turn". It always returns a
// well-formed batch: a failure anywhere in the pipeline yields no ship
// actions for the turn.
func (a *Agent) Decide(turn int, obs model.Observation) model.ActionBatch {
	return a.decide(turn, obs).Batch
}

// turnResult is everything one decision produced.
type turnResult struct {
	Batch      model.ActionBatch
	Assignment rules.Assignment
	Events     []Event
}

// HoldAll answers a turn that could not be read: no ship actions and the
// construction the config allows without a budget. Turn state is untouched.
func (a *Agent) HoldAll() model.ActionBatch {
	a.mu.Lock()
	cfg := a.cfg
	a.mu.Unlock()
	return model.ActionBatch{ShipsActions: []model.Action{}, Construction: constructionFor(cfg, nil)}
}

func (a *Agent) decide(turn int, obs model.Observation) (res turnResult) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if turn <= 0 {
		turn = a.turn + 1
	}
	a.turn = turn
	cfg := a.cfg

	defer func() {
		if r := recover(); r != nil {
			slog.Error("decision pipeline panicked", "turn", turn, "panic", r)
			res = turnResult{Batch: model.ActionBatch{ShipsActions: []model.Action{}, Construction: constructionFor(cfg, obs.Resources)}}
		}
	}()

	if !a.sideKnown {
		if side, ok := model.DetectSide(obs.Planets); ok {
			a.side, a.sideKnown = side, true
			slog.Info("side detected", "side", side)
		}
	}

	snap := state.New(obs, turn, a.side, a.prev)
	events := detectEvents(snap, a.prev)

	before := a.brain.Reassignments()
	assignment := a.engine.Classify(snap, a.brain)
	if a.prev != nil && a.brain.Reassignments() != before {
		id, _ := a.brain.Explorer()
		events = append(events, Event{Kind: EventExplorerReassigned, Turn: turn, Detail: explorerDetail(id)})
	}
	logEvents(events)

	ctx := a.taskContext(cfg, snap)
	actions := sanitize(tasks.Run(ctx, assignment), snap.AlliedIDs())
	batch := model.ActionBatch{
		ShipsActions: actions,
		Construction: constructionFor(cfg, snap.Resources),
	}

	summary := snap.Summary()
	a.prev = &summary

	slog.Info("turn decided",
		"turn", turn,
		"side", a.side,
		"allied", len(snap.Allied),
		"enemy", len(snap.Enemy),
		"base", snap.BaseStatus,
		"baseHP", snap.BaseHP,
		"roles", roleCounts(assignment),
		"actions", len(actions),
		"construction", batch.Construction,
	)
	a.persist(snap, obs, assignment, batch)
	return turnResult{Batch: batch, Assignment: assignment, Events: events}
}

func (a *Agent) taskContext(cfg *config.Config, snap *state.Snapshot) *tasks.Context {
	t := cfg.Tactics
	greedy := nav.GreedyRouter{Grid: snap.Grid, Magnitude: t.RouteMagnitude}
	policy := combat.NewPolicy(cfg.Targeting(), t.Aggressive, t.CombatMagnitude)
	policy.Bounds = snap.Grid
	policy.Rand = a.rand
	return &tasks.Context{
		Snap: snap,
		Router: nav.GridRouter{
			Grid:      snap.Grid,
			Planner:   cfg.Planner(),
			Magnitude: t.RouteMagnitude,
			Fallback:  greedy,
		},
		Greedy:    greedy,
		Policy:    policy,
		Tactics:   cfg.TaskTactics(),
		Resources: a.resources,
	}
}

// sanitize keeps the first action per allied unit and drops actions for ids
// outside the roster.
func sanitize(actions []model.Action, alive map[int]bool) []model.Action {
	out := make([]model.Action, 0, len(actions))
	seen := make(map[int]bool, len(actions))
	for _, act := range actions {
		if !alive[act.UnitID] {
			slog.Warn("dropping action for unknown unit", "unit", act.UnitID)
			continue
		}
		if seen[act.UnitID] {
			slog.Warn("dropping duplicate action", "unit", act.UnitID)
			continue
		}
		seen[act.UnitID] = true
		out = append(out, act)
	}
	return out
}

// constructionFor applies the build policy: the configured count, capped by
// what the smallest budget entry affords when a ship cost is set.
func constructionFor(cfg *config.Config, res model.Resources) int {
	n := cfg.Construction.Count
	if cost := cfg.Construction.ShipCost; cost > 0 {
		n = min(n, int(res.Min()/cost))
	}
	return max(n, 0)
}

func roleCounts(a rules.Assignment) map[string]int {
	out := make(map[string]int, len(rules.Roles))
	for r, n := range a.Counts() {
		out[r.String()] = n
	}
	return out
}

func explorerDetail(id int) string {
	return fmt.Sprintf("Explorer is now ship %d", id)
}

func (a *Agent) persist(snap *state.Snapshot, obs model.Observation, assignment rules.Assignment, batch model.ActionBatch) {
	if a.recorder != nil {
		roles := make(map[int]string, len(assignment.Roles))
		for id, r := range assignment.Roles {
			roles[id] = r.String()
		}
		err := a.recorder.Write(turnlog.Entry{
			Turn:        snap.Turn,
			Side:        snap.Side,
			Observation: obs,
			Roles:       roles,
			Actions:     batch,
		})
		if err != nil {
			slog.Error("failed to record turn", "turn", snap.Turn, "error", err)
		}
	}
	if a.Stats != nil {
		err := a.Stats.Record(context.Background(), stats.TurnStat{
			Session:      a.session,
			Turn:         snap.Turn,
			BaseHP:       snap.BaseHP,
			BaseStatus:   snap.BaseStatus.String(),
			Allied:       len(snap.Allied),
			Enemy:        len(snap.Enemy),
			Roles:        roleCounts(assignment),
			Actions:      len(batch.ShipsActions),
			Construction: batch.Construction,
		})
		if err != nil {
			slog.Error("failed to record stats", "turn", snap.Turn, "error", err)
		}
	}
}
