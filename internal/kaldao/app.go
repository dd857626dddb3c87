package kaldao

import (
	"fmt"
	"log"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Config is everything main wires in. Zero values fall back to the
// defaults in config.go.
type Config struct {
	Width      int
	Height     int
	Fullscreen bool

	AudioPath string // wav/mp3 to play and react to
	StatePath string // save/load target for the S and L keys
	OSCAddr   string // UDP listen address for overrides
	Seed      uint64 // palette randomization

	// Headless export: render Frames frames on the CPU path into OutPath
	// instead of opening a window.
	OutPath   string
	Frames    int
	OutWidth  int
	OutHeight int
}

func Run(cfg Config) error {
	if cfg.OutPath != "" {
		return runHeadless(cfg)
	}
	return runDesktop(cfg)
}

// status holds the transient title message. The OSC goroutine writes it,
// the render loop reads it, hence the lock.
type status struct {
	mu   sync.Mutex
	msg  string
	left float64
}

func (s *status) set(msg string, secs float64) {
	s.mu.Lock()
	s.msg = msg
	s.left = secs
	s.mu.Unlock()
}

// tick decays the message by dt and returns what is still visible.
func (s *status) tick(dt float64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.left <= 0 {
		return ""
	}
	s.left -= dt
	return s.msg
}

func runDesktop(cfg Config) error {
	runtime.LockOSThread()

	width, height := cfg.Width, cfg.Height
	if width <= 0 {
		width = WindowWidth
	}
	if height <= 0 {
		height = WindowHeight
	}
	window, err := initWindow(width, height, cfg.Fullscreen)
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.ClearColor(0, 0, 0, 1)

	store := NewStore()
	hist := NewHistory(HistoryCapacity)
	rng := NewRand(cfg.Seed)
	bus := NewEventBus()
	st := &status{}

	bus.Subscribe(EventStatus, func(e Event) {
		st.set(e.Message, 2.5)
		log.Print(e.Message)
	})
	bus.Subscribe(EventParamChanged, func(e Event) {
		st.set(fmt.Sprintf("%s = %.4g", e.Message, e.Value), 1.5)
	})
	bus.Subscribe(EventPaletteChanged, func(e Event) { st.set(e.Message, 2) })
	bus.Subscribe(EventStateSaved, func(e Event) { st.set(e.Message, 2.5) })
	bus.Subscribe(EventStateLoaded, func(e Event) { st.set(e.Message, 2.5) })
	bus.Subscribe(EventAudioChanged, func(e Event) { st.set(e.Message, 2) })

	// Audio degrades gracefully: no device just means no reactivity.
	var player *FilePlayer
	if p, err := NewFilePlayer(); err != nil {
		log.Printf("audio init failed (continuing silent): %v", err)
	} else {
		player = p
		defer player.Close()
	}

	var src LevelSource
	if player != nil {
		src = player
	}
	driver := NewDriver(store, NewAudioMapper(src))

	savePath := cfg.StatePath
	if savePath == "" {
		savePath = "kaldao_state.json"
	}
	if cfg.StatePath != "" {
		if acc, err := LoadState(cfg.StatePath, store); err != nil {
			log.Printf("%v", err)
		} else if acc != nil {
			driver.SetAccumulators(*acc)
		}
	}

	if cfg.AudioPath != "" && player != nil {
		if err := player.Load(cfg.AudioPath); err != nil {
			bus.Emit(Event{Type: EventStatus, Message: err.Error()})
		} else {
			bus.Emit(Event{Type: EventAudioChanged, Message: "playing " + player.Name()})
		}
	}

	pres, err := NewPresenter()
	if err != nil {
		return err
	}
	defer pres.Destroy()

	listener := NewOverrideListener(store, cfg.OSCAddr)
	listener.OnSet = func(key string, v float64) {
		st.set(fmt.Sprintf("osc %s %.2f", key, v), 1)
	}
	listener.OnClear = func() { st.set("osc overrides cleared", 1.5) }
	if err := listener.Start(); err != nil {
		log.Printf("%v", err)
	} else {
		defer listener.Close()
	}

	window.SetDropCallback(func(w *glfw.Window, names []string) {
		if player == nil || len(names) == 0 {
			return
		}
		if err := player.Load(names[0]); err != nil {
			bus.Emit(Event{Type: EventStatus, Message: err.Error()})
			return
		}
		bus.Emit(Event{Type: EventAudioChanged, Message: "playing " + player.Name()})
	})

	input := NewInput()
	defs := store.Defs()
	sel := 0

	var lastFrame Frame
	haveFrame := false
	titleTimer := 0.0
	fpsFrames, fps := 0, 0
	fpsTime := 0.0

	last := glfw.GetTime()
	for !window.ShouldClose() {
		now := glfw.GetTime()
		dt := now - last
		last = now
		if dt > MaxFrameDelta {
			dt = MaxFrameDelta
		}

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}

		shift := input.Shift(window)

		// Parameter navigation.
		if ticks, _ := input.Repeats(window, glfw.KeyRight, dt); ticks > 0 {
			sel = (sel + ticks) % len(defs)
		}
		if ticks, _ := input.Repeats(window, glfw.KeyLeft, dt); ticks > 0 {
			sel = ((sel-ticks)%len(defs) + len(defs)) % len(defs)
		}
		if input.JustPressed(window, glfw.KeyTab) {
			sel = nextCategoryStart(defs, sel)
		}

		// Adjustment. A held key is one undoable action, so history gets
		// the snapshot on the press edge only.
		mult := 1.0
		if shift {
			mult = 10
		}
		if ticks, edge := input.Repeats(window, glfw.KeyUp, dt); ticks > 0 {
			d := defs[sel]
			if edge {
				hist.Push(store.Snapshot())
			}
			store.Adjust(d.Key, float64(ticks)*mult)
			bus.Emit(Event{Type: EventParamChanged, Key: d.Key, Message: d.Name, Value: store.Get(d.Key)})
		}
		if ticks, edge := input.Repeats(window, glfw.KeyDown, dt); ticks > 0 {
			d := defs[sel]
			if edge {
				hist.Push(store.Snapshot())
			}
			store.Adjust(d.Key, -float64(ticks)*mult)
			bus.Emit(Event{Type: EventParamChanged, Key: d.Key, Message: d.Name, Value: store.Get(d.Key)})
		}

		if input.JustPressed(window, glfw.KeySpace) {
			if driver.TogglePause() == StatePaused {
				bus.Emit(Event{Type: EventStatus, Message: "paused"})
			} else {
				bus.Emit(Event{Type: EventStatus, Message: "running"})
			}
		}

		if input.JustPressed(window, glfw.KeyZ) {
			if snap, ok := hist.Undo(store.Snapshot()); ok {
				store.Restore(snap)
				bus.Emit(Event{Type: EventStatus, Message: "undo"})
			} else {
				bus.Emit(Event{Type: EventStatus, Message: "nothing to undo"})
			}
		}
		if input.JustPressed(window, glfw.KeyY) {
			if snap, ok := hist.Redo(store.Snapshot()); ok {
				store.Restore(snap)
				bus.Emit(Event{Type: EventStatus, Message: "redo"})
			} else {
				bus.Emit(Event{Type: EventStatus, Message: "nothing to redo"})
			}
		}

		if input.JustPressed(window, glfw.KeyS) {
			if err := SaveState(savePath, store, driver.Accumulators()); err != nil {
				bus.Emit(Event{Type: EventStatus, Message: err.Error()})
			} else {
				bus.Emit(Event{Type: EventStateSaved, Message: "saved " + savePath})
			}
		}
		if input.JustPressed(window, glfw.KeyL) {
			cur := store.Snapshot()
			if acc, err := LoadState(savePath, store); err != nil {
				bus.Emit(Event{Type: EventStatus, Message: err.Error()})
			} else {
				hist.Push(cur)
				if acc != nil {
					driver.SetAccumulators(*acc)
				}
				bus.Emit(Event{Type: EventStateLoaded, Message: "loaded " + savePath})
			}
		}

		if input.JustPressed(window, glfw.KeyP) {
			if shift {
				hist.Push(store.Snapshot())
				store.RandomizePalette(rng)
				bus.Emit(Event{Type: EventPaletteChanged, Message: "randomized " + store.PaletteName()})
			} else {
				store.CyclePalette(1)
				bus.Emit(Event{Type: EventPaletteChanged, Message: "palette " + store.PaletteName()})
			}
		}
		if input.JustPressed(window, glfw.KeyC) {
			if store.ToggleColor() {
				bus.Emit(Event{Type: EventPaletteChanged, Message: "color on"})
			} else {
				bus.Emit(Event{Type: EventPaletteChanged, Message: "color off"})
			}
		}
		if input.JustPressed(window, glfw.KeyI) {
			if store.ToggleInvert() {
				bus.Emit(Event{Type: EventPaletteChanged, Message: "invert on"})
			} else {
				bus.Emit(Event{Type: EventPaletteChanged, Message: "invert off"})
			}
		}

		if input.JustPressed(window, glfw.KeyA) {
			switch {
			case player == nil:
				bus.Emit(Event{Type: EventStatus, Message: "no audio device"})
			case shift:
				// Shift+A keeps the track playing but detaches the visuals;
				// the mapper clears its modifiers on the next step.
				if player.ToggleReactive() {
					bus.Emit(Event{Type: EventAudioChanged, Message: "audio reactivity on"})
				} else {
					bus.Emit(Event{Type: EventAudioChanged, Message: "audio reactivity off"})
				}
			case player.Name() == "":
				bus.Emit(Event{Type: EventStatus, Message: "no audio file (drop a wav or mp3 onto the window)"})
			case player.TogglePlayback():
				bus.Emit(Event{Type: EventAudioChanged, Message: "audio playing"})
			default:
				bus.Emit(Event{Type: EventAudioChanged, Message: "audio paused"})
			}
		}

		if input.JustPressed(window, glfw.Key0) {
			hist.Push(store.Snapshot())
			if shift {
				store.ResetAllDefaults()
				bus.Emit(Event{Type: EventStatus, Message: "all parameters reset"})
			} else {
				d := defs[sel]
				store.ResetToDefault(d.Key)
				bus.Emit(Event{Type: EventParamChanged, Key: d.Key, Message: d.Name, Value: store.Get(d.Key)})
			}
		}

		frame, err := driver.Step(dt)
		if err != nil {
			bus.Emit(Event{Type: EventStatus, Message: err.Error()})
		} else {
			lastFrame = frame
			haveFrame = true
		}

		gl.Clear(gl.COLOR_BUFFER_BIT)
		if haveFrame {
			pres.Draw(&lastFrame, fbW, fbH)
		}
		window.SwapBuffers()

		fpsFrames++
		fpsTime += dt
		if fpsTime >= 1 {
			fps = int(float64(fpsFrames)/fpsTime + 0.5)
			fpsFrames, fpsTime = 0, 0
		}

		statusMsg := st.tick(dt)
		titleTimer += dt
		if titleTimer >= TitleInterval {
			titleTimer = 0
			d := defs[sel]
			title := fmt.Sprintf("%s | %s %.4g [%s] | %s | %d fps",
				WindowTitle, d.Name, store.Get(d.Key), d.Category, store.PaletteName(), fps)
			if statusMsg != "" {
				title += " | " + statusMsg
			}
			window.SetTitle(title)
		}
	}
	return nil
}

// nextCategoryStart jumps to the first parameter of the category after the
// one sel sits in.
func nextCategoryStart(defs []ParamDef, sel int) int {
	cur := defs[sel].Category
	ci := 0
	for i, c := range Categories {
		if c == cur {
			ci = i
			break
		}
	}
	next := Categories[(ci+1)%len(Categories)]
	for i, d := range defs {
		if d.Category == next {
			return i
		}
	}
	return sel
}

// runHeadless renders cfg.Frames frames at a fixed 60 Hz step on the CPU
// path and writes 16-bit PNGs. No window, no audio, no OSC.
func runHeadless(cfg Config) error {
	store := NewStore()
	driver := NewDriver(store, nil)

	if cfg.StatePath != "" {
		acc, err := LoadState(cfg.StatePath, store)
		if err != nil {
			return err
		}
		if acc != nil {
			driver.SetAccumulators(*acc)
		}
	}

	width, height := cfg.OutWidth, cfg.OutHeight
	if width <= 0 {
		width = WindowWidth
	}
	if height <= 0 {
		height = WindowHeight
	}
	frames := cfg.Frames
	if frames <= 0 {
		frames = 1
	}

	const dt = 1.0 / 60
	for i := 0; i < frames; i++ {
		f, err := driver.Step(dt)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		path := cfg.OutPath
		if frames > 1 {
			path = numberedPath(path, i)
		}
		if err := SavePNG(&f, width, height, path); err != nil {
			return err
		}
		log.Printf("wrote %s", path)
	}
	return nil
}

func numberedPath(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, ext), i, ext)
}
