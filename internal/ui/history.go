package ui

import "github.com/piwi3910/StowPlan/internal/model"

const defaultMaxDepth = 50

// Snapshot captures the arrangement state at a point in time.
type Snapshot struct {
	Items      []model.Item
	Containers []model.Container
	Placements []model.Placement
	Label      string // Human-readable description (e.g. "Plan Stowage")
}

// History manages undo/redo stacks of arrangement snapshots.
type History struct {
	undoStack []Snapshot
	redoStack []Snapshot
	maxDepth  int
}

// NewHistory creates a History with the default max depth of 50.
func NewHistory() *History {
	return &History{
		maxDepth: defaultMaxDepth,
	}
}

// Push saves a snapshot onto the undo stack and clears the redo stack.
// This should be called before the modification is applied.
func (h *History) Push(s Snapshot) {
	h.undoStack = append(h.undoStack, s)
	if len(h.undoStack) > h.maxDepth {
		h.undoStack = h.undoStack[len(h.undoStack)-h.maxDepth:]
	}
	h.redoStack = nil
}

// Undo pops the most recent snapshot from the undo stack and pushes
// the current state onto the redo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.undoStack[len(h.undoStack)-1]
	h.undoStack = h.undoStack[:len(h.undoStack)-1]
	h.redoStack = append(h.redoStack, current)
	return last, true
}

// Redo pops the most recent snapshot from the redo stack and pushes
// the current state onto the undo stack. Returns the snapshot to restore
// and true, or an empty snapshot and false if nothing to redo.
func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redoStack) == 0 {
		return Snapshot{}, false
	}
	last := h.redoStack[len(h.redoStack)-1]
	h.redoStack = h.redoStack[:len(h.redoStack)-1]
	h.undoStack = append(h.undoStack, current)
	return last, true
}

// CanUndo returns true if there is at least one snapshot to undo.
func (h *History) CanUndo() bool {
	return len(h.undoStack) > 0
}

// CanRedo returns true if there is at least one snapshot to redo.
func (h *History) CanRedo() bool {
	return len(h.redoStack) > 0
}

// Clear removes all undo and redo history.
func (h *History) Clear() {
	h.undoStack = nil
	h.redoStack = nil
}

func copyItems(items []model.Item) []model.Item {
	if items == nil {
		return nil
	}
	cp := make([]model.Item, len(items))
	copy(cp, items)
	return cp
}

func copyContainers(containers []model.Container) []model.Container {
	if containers == nil {
		return nil
	}
	cp := make([]model.Container, len(containers))
	copy(cp, containers)
	return cp
}

func copyPlacements(placements []model.Placement) []model.Placement {
	if placements == nil {
		return nil
	}
	cp := make([]model.Placement, len(placements))
	copy(cp, placements)
	return cp
}

// MakeSnapshot creates a labeled snapshot of the arrangement's mutable state.
func MakeSnapshot(arr model.Arrangement, label string) Snapshot {
	return Snapshot{
		Items:      copyItems(arr.Items),
		Containers: copyContainers(arr.Containers),
		Placements: copyPlacements(arr.Placements),
		Label:      label,
	}
}

// Restore applies a snapshot back onto an arrangement, keeping its name and
// settings.
func (s Snapshot) Restore(arr model.Arrangement) model.Arrangement {
	arr.Items = copyItems(s.Items)
	arr.Containers = copyContainers(s.Containers)
	arr.Placements = copyPlacements(s.Placements)
	return arr
}
