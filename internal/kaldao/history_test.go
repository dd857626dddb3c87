package kaldao

import "testing"

func snapWithZoom(s *Store, zoom float64) Snapshot {
	s.SetBase(PZoomLevel, zoom)
	return s.Snapshot()
}

func TestHistoryUndoRedo(t *testing.T) {
	s := NewStore()
	h := NewHistory(HistoryCapacity)

	h.Push(snapWithZoom(s, 1))
	h.Push(snapWithZoom(s, 2))
	s.SetBase(PZoomLevel, 3)

	snap, ok := h.Undo(s.Snapshot())
	if !ok {
		t.Fatal("undo failed")
	}
	s.Restore(snap)
	if got := s.Get(PZoomLevel); got != 2 {
		t.Fatalf("after undo zoom = %v, want 2", got)
	}

	snap, ok = h.Undo(s.Snapshot())
	if !ok {
		t.Fatal("second undo failed")
	}
	s.Restore(snap)
	if got := s.Get(PZoomLevel); got != 1 {
		t.Fatalf("after second undo zoom = %v, want 1", got)
	}

	if _, ok := h.Undo(s.Snapshot()); ok {
		t.Fatal("undo past the bottom should fail")
	}

	snap, ok = h.Redo(s.Snapshot())
	if !ok {
		t.Fatal("redo failed")
	}
	s.Restore(snap)
	if got := s.Get(PZoomLevel); got != 2 {
		t.Fatalf("after redo zoom = %v, want 2", got)
	}
}

func TestHistoryPushClearsRedo(t *testing.T) {
	s := NewStore()
	h := NewHistory(HistoryCapacity)

	h.Push(snapWithZoom(s, 1))
	s.SetBase(PZoomLevel, 2)
	if _, ok := h.Undo(s.Snapshot()); !ok {
		t.Fatal("undo failed")
	}
	if !h.CanRedo() {
		t.Fatal("expected redo after undo")
	}
	h.Push(s.Snapshot())
	if h.CanRedo() {
		t.Fatal("push must clear the redo stack")
	}
}

func TestHistoryCapacityEvictsOldest(t *testing.T) {
	s := NewStore()
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(snapWithZoom(s, float64(i)))
	}
	// Only 3,4,5 survive; walk to the bottom.
	var last Snapshot
	n := 0
	for {
		snap, ok := h.Undo(s.Snapshot())
		if !ok {
			break
		}
		last = snap
		n++
	}
	if n != 3 {
		t.Fatalf("undo depth = %d, want 3", n)
	}
	if got := last.Params[PZoomLevel]; got != 3 {
		t.Fatalf("oldest surviving snapshot zoom = %v, want 3", got)
	}
}
