package agent

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cudabot/octobot/model"
	"github.com/cudabot/octobot/state"
)

// EventKind identifies the category of a notable change between two turns.
type EventKind string

const (
	EventBaseAttacked       EventKind = "base_attacked"
	EventFirstContact       EventKind = "first_contact"
	EventUnitsLost          EventKind = "units_lost"
	EventPlanetGained       EventKind = "planet_gained"
	EventPlanetLost         EventKind = "planet_lost"
	EventExplorerReassigned EventKind = "explorer_reassigned"
)

// Event represents a significant game event detected by diffing the previous
// turn's summary against the current snapshot.
type Event struct {
	Kind   EventKind
	Turn   int
	Detail string
}

// detectEvents compares snap with prev.
func detectEvents(snap *state.Snapshot, prev *state.Summary) []Event {
	if prev == nil {
		return nil
	}

	var events []Event

	// 1. base_attacked: home health dropped this turn
	if snap.BaseStatus == state.JustAttacked {
		events = append(events, Event{
			Kind:   EventBaseAttacked,
			Turn:   snap.Turn,
			Detail: fmt.Sprintf("Home base hit: %d→%d", prev.BaseHP, snap.BaseHP),
		})
	}

	// 2. first_contact: enemies visible for the first time this match
	if !prev.EnemySeen && len(snap.Enemy) > 0 {
		events = append(events, Event{
			Kind:   EventFirstContact,
			Turn:   snap.Turn,
			Detail: fmt.Sprintf("First contact: %d enemy ships visible", len(snap.Enemy)),
		})
	}

	// 3. units_lost: allied ids from last turn that are gone
	alive := snap.AlliedIDs()
	var lost []int
	for _, id := range prev.AlliedIDs {
		if !alive[id] {
			lost = append(lost, id)
		}
	}
	if len(lost) > 0 {
		events = append(events, Event{
			Kind:   EventUnitsLost,
			Turn:   snap.Turn,
			Detail: fmt.Sprintf("Lost %d ships: %v", len(lost), lost),
		})
	}

	// 4/5. planet ownership changes
	for _, p := range snap.Planets {
		before, ok := model.FindPlanet(prev.Planets, p.Pos())
		if !ok {
			continue
		}
		switch {
		case !before.OwnedBy(snap.Side) && p.OwnedBy(snap.Side):
			events = append(events, Event{
				Kind:   EventPlanetGained,
				Turn:   snap.Turn,
				Detail: fmt.Sprintf("Captured planet at (%d,%d)", p.X, p.Y),
			})
		case before.OwnedBy(snap.Side) && !p.OwnedBy(snap.Side):
			detail := fmt.Sprintf("Planet at (%d,%d) lost", p.X, p.Y)
			if p.IsContested() {
				detail = fmt.Sprintf("Planet at (%d,%d) contested (occupation %d)", p.X, p.Y, p.Occupation)
			}
			events = append(events, Event{
				Kind:   EventPlanetLost,
				Turn:   snap.Turn,
				Detail: detail,
			})
		}
	}

	return events
}

func logEvents(events []Event) {
	for _, e := range events {
		slog.Info("game event", "turn", e.Turn, "kind", e.Kind, "detail", e.Detail)
	}
}

// formatEvents renders events one per line, for replay reports.
func formatEvents(events []Event) string {
	if len(events) == 0 {
		return ""
	}
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "- [turn %d] %s: %s\n", e.Turn, e.Kind, e.Detail)
	}
	return b.String()
}
