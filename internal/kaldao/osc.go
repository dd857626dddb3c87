package kaldao

import (
	"errors"
	"fmt"
	"log"
	"net"

	"github.com/hypebeast/go-osc/osc"
)

// DefaultOSCMap is the hardware controller's pin layout: eight pots,
// each sending one normalized float per move.
var DefaultOSCMap = map[string]string{
	"/pot1": PFlySpeed,
	"/pot2": PRotationSpeed,
	"/pot3": PKaleidoscopeSegments,
	"/pot4": PTruchetRadius,
	"/pot5": PZoomLevel,
	"/pot6": PColorIntensity,
	"/pot7": PContrast,
	"/pot8": PCenterFillRadius,
}

// OverrideListener serves OSC over UDP and writes pot values into the
// store's override layer. The rest of the app never sees OSC; it only
// observes override modifiers appearing in the store. "/clear" drops
// the whole layer.
type OverrideListener struct {
	store  *Store
	addr   string
	oscMap map[string]string

	// Optional hooks for status display; called from the serve goroutine.
	OnSet   func(key string, value float64)
	OnClear func()

	conn net.PacketConn
	done chan struct{}
}

func NewOverrideListener(store *Store, addr string) *OverrideListener {
	if addr == "" {
		addr = DefaultOSCAddr
	}
	return &OverrideListener{store: store, addr: addr, oscMap: DefaultOSCMap}
}

// Start binds the UDP socket and dispatches messages in the background.
func (l *OverrideListener) Start() error {
	disp := osc.NewStandardDispatcher()
	for address, key := range l.oscMap {
		key := key
		err := disp.AddMsgHandler(address, func(msg *osc.Message) {
			v, ok := oscFloat(msg)
			if !ok {
				return
			}
			v = clamp01(v)
			l.store.SetOverrideNormalized(key, v)
			if l.OnSet != nil {
				l.OnSet(key, v)
			}
		})
		if err != nil {
			return fmt.Errorf("osc: register %s: %w", address, err)
		}
	}
	err := disp.AddMsgHandler("/clear", func(msg *osc.Message) {
		l.store.ClearOverrideModifiers()
		if l.OnClear != nil {
			l.OnClear()
		}
	})
	if err != nil {
		return fmt.Errorf("osc: register /clear: %w", err)
	}

	conn, err := net.ListenPacket("udp", l.addr)
	if err != nil {
		return fmt.Errorf("osc: listen %s: %w", l.addr, err)
	}
	l.conn = conn
	l.done = make(chan struct{})

	srv := &osc.Server{Addr: l.addr, Dispatcher: disp}
	go func() {
		defer close(l.done)
		if err := srv.Serve(conn); err != nil && !errors.Is(err, net.ErrClosed) {
			log.Printf("osc: serve: %v", err)
		}
	}()
	return nil
}

// Close stops the listener and waits for the serve loop to exit.
func (l *OverrideListener) Close() {
	if l.conn == nil {
		return
	}
	l.conn.Close()
	<-l.done
	l.conn = nil
}

// oscFloat pulls the first numeric argument out of a message. Pots
// send float32; TouchOSC occasionally sends ints.
func oscFloat(msg *osc.Message) (float64, bool) {
	if msg == nil || len(msg.Arguments) == 0 {
		return 0, false
	}
	switch v := msg.Arguments[0].(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}
