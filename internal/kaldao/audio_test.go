package kaldao

import "testing"

// fixedLevels is a LevelSource pinned to one analysis frame.
type fixedLevels struct {
	active bool
	lv     Levels
}

func (f *fixedLevels) Active() bool   { return f.active }
func (f *fixedLevels) Levels() Levels { return f.lv }

func TestMapperMultipliers(t *testing.T) {
	s := NewStore()
	src := &fixedLevels{active: true, lv: Levels{Bass: 1, Mid: 1, Treble: 1, Overall: 1}}
	m := NewAudioMapper(src)
	m.Update(s)

	cases := []struct {
		key  string
		want float64
	}{
		{PCenterFillRadius, 0.15 * 2.2}, // 1 + 0.8·1.5
		{PTruchetRadius, 0.5 * 1.8},
		{PZoomLevel, 1.0 * 1.3},
		{PRotationSpeed, 0.2 * 1.4},
		{PPlaneRotationSpeed, 0.4 * 1.4},
		{PFlySpeed, 1.0 * 1.6},
		{PColorIntensity, 1.0 * 1.3},
		{PColorSpeed, 0.3 * 1.3},
		{PContrast, 1.0 * 1.5},
		{PLayerCount, 6 * 1.3},
		{PPathScale, 1.0 * 1.4},
	}
	for _, c := range cases {
		if got := s.Get(c.key); !almostEq(got, c.want) {
			t.Fatalf("%s = %v, want %v", c.key, got, c.want)
		}
	}

	// Segments re-snap to even: 10 · 1.3 = 13 → 14.
	if got := s.Get(PKaleidoscopeSegments); got != 14 {
		t.Fatalf("segments = %v, want 14", got)
	}
}

func TestMapperScalesBaseNotEffective(t *testing.T) {
	s := NewStore()
	src := &fixedLevels{active: true, lv: Levels{Bass: 0.5}}
	m := NewAudioMapper(src)

	// Two updates at the same level must not compound.
	m.Update(s)
	first := s.Get(PTruchetRadius)
	m.Update(s)
	if got := s.Get(PTruchetRadius); !almostEq(got, first) {
		t.Fatalf("modifier compounded: %v then %v", first, got)
	}
	if !almostEq(first, 0.5*1.4) {
		t.Fatalf("truchet radius = %v, want %v", first, 0.5*1.4)
	}

	// A base edit mid-playback feeds through on the next update.
	s.SetBase(PTruchetRadius, 0.8)
	m.Update(s)
	if got := s.Get(PTruchetRadius); !almostEq(got, 0.8*1.4) {
		t.Fatalf("after base edit = %v, want %v", got, 0.8*1.4)
	}
}

func TestMapperClearsOnDeactivate(t *testing.T) {
	s := NewStore()
	src := &fixedLevels{active: true, lv: Levels{Overall: 1}}
	m := NewAudioMapper(src)
	m.Update(s)
	if s.Get(PContrast) == 1.0 {
		t.Fatal("modifier not applied")
	}

	src.active = false
	m.Update(s)
	if got := s.Get(PContrast); got != 1.0 {
		t.Fatalf("contrast = %v after deactivate, want base 1.0", got)
	}

	// The clear happens once; a manual modifier set afterwards survives
	// further inactive updates.
	s.SetAudioModifier(PContrast, 2)
	m.Update(s)
	if got := s.Get(PContrast); got != 2 {
		t.Fatalf("inactive mapper cleared foreign modifier: %v", got)
	}
}

func TestMapperNilSource(t *testing.T) {
	s := NewStore()
	m := NewAudioMapper(nil)
	m.Update(s) // must not panic
	if got := s.Get(PFlySpeed); got != 1.0 {
		t.Fatalf("fly speed = %v, want untouched 1.0", got)
	}

	// Detaching an active source behaves like deactivation.
	src := &fixedLevels{active: true, lv: Levels{Mid: 1}}
	m.SetSource(src)
	m.Update(s)
	if s.Get(PFlySpeed) == 1.0 {
		t.Fatal("modifier not applied")
	}
	m.SetSource(nil)
	m.Update(s)
	if got := s.Get(PFlySpeed); got != 1.0 {
		t.Fatalf("fly speed = %v after detach, want 1.0", got)
	}
}
