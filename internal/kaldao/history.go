package kaldao

// History is a bounded undo/redo stack of store snapshots. A snapshot is
// pushed before each discrete mutating action; pushing evicts the oldest
// entry past capacity and always clears the redo side.
type History struct {
	undo []Snapshot
	redo []Snapshot
	max  int
}

func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = 1
	}
	return &History{max: capacity}
}

func (h *History) Push(s Snapshot) {
	h.undo = append(h.undo, s)
	if len(h.undo) > h.max {
		copy(h.undo, h.undo[1:])
		h.undo = h.undo[:h.max]
	}
	h.redo = h.redo[:0]
}

// Undo trades the current state for the most recent snapshot. Returns false
// when there is nothing to undo.
func (h *History) Undo(current Snapshot) (Snapshot, bool) {
	if len(h.undo) == 0 {
		return Snapshot{}, false
	}
	top := h.undo[len(h.undo)-1]
	h.undo = h.undo[:len(h.undo)-1]
	h.redo = append(h.redo, current)
	return top, true
}

func (h *History) Redo(current Snapshot) (Snapshot, bool) {
	if len(h.redo) == 0 {
		return Snapshot{}, false
	}
	top := h.redo[len(h.redo)-1]
	h.redo = h.redo[:len(h.redo)-1]
	h.undo = append(h.undo, current)
	return top, true
}

func (h *History) CanUndo() bool { return len(h.undo) > 0 }
func (h *History) CanRedo() bool { return len(h.redo) > 0 }
