package kaldao

import "testing"

func TestEventBusFanout(t *testing.T) {
	bus := NewEventBus()
	var status, params int
	bus.Subscribe(EventStatus, func(e Event) { status++ })
	bus.Subscribe(EventStatus, func(e Event) { status++ })
	bus.Subscribe(EventParamChanged, func(e Event) {
		params++
		if e.Key != PZoomLevel || e.Value != 2.5 {
			t.Fatalf("event payload %+v", e)
		}
	})

	bus.Emit(Event{Type: EventStatus, Message: "hi"})
	bus.Emit(Event{Type: EventParamChanged, Key: PZoomLevel, Value: 2.5})
	bus.Emit(Event{Type: EventStateSaved}) // nobody listening

	if status != 2 || params != 1 {
		t.Fatalf("fanout counts: status=%d params=%d", status, params)
	}
}
