package kaldao

type EventType int

const (
	EventStatus EventType = iota
	EventParamChanged
	EventPaletteChanged
	EventStateSaved
	EventStateLoaded
	EventAudioChanged
)

type Event struct {
	Type    EventType
	Message string
	Key     string  // parameter key for EventParamChanged
	Value   float64 // new effective value where it applies
}

type EventHandler func(Event)

// EventBus decouples subsystems from the shell: the store, audio and
// OSC sides emit, the app's status line subscribes. Not goroutine safe;
// emit from the main loop.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}
