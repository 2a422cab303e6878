package rules

import "log/slog"

// BrainContext carries the classifier state that survives between turns: the
// sticky explorer slot. It is owned by the turn loop and is not safe for
// concurrent use.
type BrainContext struct {
	explorerID  int
	hasExplorer bool
	reassigned  int // times the slot was handed to a new unit
}

func NewBrainContext() *BrainContext { return &BrainContext{} }

// Explorer returns the remembered explorer id.
func (b *BrainContext) Explorer() (int, bool) {
	if b == nil {
		return 0, false
	}
	return b.explorerID, b.hasExplorer
}

// Reassignments counts how often the explorer slot changed hands.
func (b *BrainContext) Reassignments() int { return b.reassigned }

// prune clears the explorer slot when its unit is no longer in the roster.
// Returns true when the slot was cleared.
func (b *BrainContext) prune(alive map[int]bool) bool {
	if !b.hasExplorer || alive[b.explorerID] {
		return false
	}
	slog.Info("explorer lost", "unit", b.explorerID)
	b.explorerID, b.hasExplorer = 0, false
	return true
}

// slotOpen reports whether unit id may take (or keep) the explorer slot.
func (b *BrainContext) slotOpen(id int, alive map[int]bool) bool {
	return !b.hasExplorer || b.explorerID == id || !alive[b.explorerID]
}

func (b *BrainContext) assign(id int) {
	if b.hasExplorer && b.explorerID == id {
		return
	}
	if b.hasExplorer {
		slog.Warn("explorer slot taken over", "from", b.explorerID, "to", id)
	}
	b.explorerID, b.hasExplorer = id, true
	b.reassigned++
	slog.Debug("explorer assigned", "unit", id)
}

// Reset forgets the explorer; used when a new match starts.
func (b *BrainContext) Reset() {
	b.explorerID, b.hasExplorer, b.reassigned = 0, false, 0
}
