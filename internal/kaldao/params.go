package kaldao

import (
	"math"
	"sync"
)

// Store is the single home of every controllable value. Each parameter has a
// persisted base plus two transient overwrite layers:
//
//	override modifier > audio modifier > base
//
// Reads return the top set layer; clearing a layer falls through to the next
// one the same frame. Writes clamp into [Min,Max] and keep even-flagged
// parameters even; they never fail.
//
// The render thread owns base writes; the OSC listener goroutine writes
// override modifiers concurrently, hence the RWMutex.
type Store struct {
	mu       sync.RWMutex
	defs     []ParamDef
	index    map[string]int
	base     []float64
	audio    map[string]float64
	override map[string]float64
	colors   ColorState
}

func NewStore() *Store {
	s := &Store{
		defs:     paramDefs,
		index:    make(map[string]int, len(paramDefs)),
		base:     make([]float64, len(paramDefs)),
		audio:    make(map[string]float64),
		override: make(map[string]float64),
		colors:   defaultColorState(),
	}
	for i, d := range paramDefs {
		s.index[d.Key] = i
		s.base[i] = d.Default
	}
	return s
}

// Defs returns the schema in navigation order. Callers must not mutate it.
func (s *Store) Defs() []ParamDef { return s.defs }

func (s *Store) Def(key string) (ParamDef, bool) {
	i, ok := s.index[key]
	if !ok {
		return ParamDef{}, false
	}
	return s.defs[i], true
}

// quantize snaps v onto the step grid anchored at Min (base writes only),
// re-evens segment-like values, and clamps. Order matters: the clamp runs
// last so out-of-range writes land exactly on a bound.
func quantize(d ParamDef, v float64, snapStep bool) float64 {
	if snapStep && d.Step > 0 {
		v = d.Min + math.Round((v-d.Min)/d.Step)*d.Step
	}
	if d.Even {
		v = math.Round(v/2) * 2
	}
	return clampF(v, d.Min, d.Max)
}

// Get returns the effective value: override, else audio, else base.
// Unknown keys read as 0 so a stale mapping degrades to a no-op.
func (s *Store) Get(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[key]
	if !ok {
		return 0
	}
	if v, ok := s.override[key]; ok {
		return v
	}
	if v, ok := s.audio[key]; ok {
		return v
	}
	return s.base[i]
}

// GetBase returns the persisted value, ignoring modifier layers.
func (s *Store) GetBase(key string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[key]
	if !ok {
		return 0
	}
	return s.base[i]
}

// SetBase writes the persisted value through the full quantize path.
func (s *Store) SetBase(key string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		return
	}
	s.base[i] = quantize(s.defs[i], v, true)
}

// Adjust nudges the base by whole steps (the keyboard path).
func (s *Store) Adjust(key string, steps float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		return
	}
	d := s.defs[i]
	s.base[i] = quantize(d, s.base[i]+steps*d.Step, true)
}

// SetAudioModifier overwrites the effective value while audio is active.
// Modifiers skip the step grid so they track the music smoothly, but they
// still clamp and stay even where required.
func (s *Store) SetAudioModifier(key string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		return
	}
	s.audio[key] = quantize(s.defs[i], v, false)
}

// SetOverrideModifier overwrites the effective value from the external
// override channel. Highest precedence.
func (s *Store) SetOverrideModifier(key string, v float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		return
	}
	s.override[key] = quantize(s.defs[i], v, false)
}

// SetOverrideNormalized scales u in [0,1] across the parameter's full range.
// This is the entry point external controllers use; they never see Min/Max.
func (s *Store) SetOverrideNormalized(key string, u float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		return
	}
	d := s.defs[i]
	v := d.Min + clamp01(u)*(d.Max-d.Min)
	s.override[key] = quantize(d, v, false)
}

func (s *Store) ClearAudioModifiers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.audio = make(map[string]float64)
}

func (s *Store) ClearOverrideModifiers() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.override = make(map[string]float64)
}

func (s *Store) ResetToDefault(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[key]
	if !ok {
		return
	}
	s.base[i] = s.defs[i].Default
}

func (s *Store) ResetAllDefaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, d := range s.defs {
		s.base[i] = d.Default
	}
	s.colors = defaultColorState()
}

// Snapshot captures base values and the full color state. Modifier layers are
// transient and deliberately excluded.
type Snapshot struct {
	Params map[string]float64
	Colors ColorState
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	params := make(map[string]float64, len(s.defs))
	for i, d := range s.defs {
		params[d.Key] = s.base[i]
	}
	return Snapshot{Params: params, Colors: s.colors.clone()}
}

// Restore writes a snapshot back and drops both modifier layers, so what the
// user sees right after an undo is exactly the captured state.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, v := range snap.Params {
		if i, ok := s.index[key]; ok {
			s.base[i] = quantize(s.defs[i], v, true)
		}
	}
	if len(snap.Colors.Palettes) > 0 {
		s.colors = snap.Colors.clone()
		s.colors.Current = clamp(s.colors.Current, 0, len(s.colors.Palettes)-1)
	}
	s.audio = make(map[string]float64)
	s.override = make(map[string]float64)
}

// effectiveState copies everything the merge step needs under one lock.
func (s *Store) effectiveState() (map[string]float64, ColorState) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	vals := make(map[string]float64, len(s.defs))
	for i, d := range s.defs {
		v := s.base[i]
		if a, ok := s.audio[d.Key]; ok {
			v = a
		}
		if o, ok := s.override[d.Key]; ok {
			v = o
		}
		vals[d.Key] = v
	}
	return vals, s.colors.clone()
}

// Color state accessors. All palette mutation funnels through here so the
// snapshot path sees a consistent view.

func (s *Store) ActivePalette() CosinePalette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colors.active()
}

func (s *Store) PaletteName() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.colors.active().Name
}

func (s *Store) CyclePalette(dir int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.cycle(dir)
}

func (s *Store) RandomizePalette(r *Rand) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.randomize(r)
}

func (s *Store) ToggleColor() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.ColorEnabled = !s.colors.ColorEnabled
	return s.colors.ColorEnabled
}

func (s *Store) ToggleInvert() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.colors.Invert = !s.colors.Invert
	return s.colors.Invert
}

// SetColorState replaces the palette block wholesale (the load path).
func (s *Store) SetColorState(cs ColorState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(cs.Palettes) == 0 {
		return
	}
	s.colors = cs.clone()
	s.colors.Current = clamp(s.colors.Current, 0, len(s.colors.Palettes)-1)
}
