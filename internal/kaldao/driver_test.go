package kaldao

import (
	"math"
	"testing"
)

func TestStepIntegratesEffectiveSpeeds(t *testing.T) {
	s := NewStore()
	d := NewDriver(s, nil)

	f, err := d.Step(0.1)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	// Defaults: fly 1.0, rotation 0.2, plane 0.4, color 0.3.
	if !almostEq(f.Acc.Distance, 0.1) {
		t.Fatalf("distance = %v, want 0.1", f.Acc.Distance)
	}
	if !almostEq(f.Acc.Rotation, 0.02) {
		t.Fatalf("rotation = %v, want 0.02", f.Acc.Rotation)
	}

	// A modifier on a speed changes what gets integrated.
	s.SetOverrideModifier(PFlySpeed, 2)
	f, err = d.Step(0.1)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !almostEq(f.Acc.Distance, 0.3) {
		t.Fatalf("distance = %v, want 0.3 after override", f.Acc.Distance)
	}
}

func TestPauseFreezesClocksOnly(t *testing.T) {
	s := NewStore()
	d := NewDriver(s, nil)
	if d.TogglePause() != StatePaused {
		t.Fatal("expected paused")
	}

	f1, err := d.Step(0.1)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if f1.Acc.Distance != 0 {
		t.Fatalf("paused distance moved: %v", f1.Acc.Distance)
	}

	// Parameters stay live while paused.
	s.SetBase(PContrast, 2)
	f2, err := d.Step(0.1)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !almostEq(f2.Contrast, 2) {
		t.Fatalf("paused frame contrast = %v, want 2", f2.Contrast)
	}

	if d.TogglePause() != StateRunning {
		t.Fatal("expected running")
	}
	f3, err := d.Step(0.1)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if f3.Acc.Distance == 0 {
		t.Fatal("resume should move the clocks again")
	}
}

func TestStepClampsDelta(t *testing.T) {
	s := NewStore()
	d := NewDriver(s, nil)
	f, err := d.Step(5) // a 5 s hitch integrates as MaxFrameDelta
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if !almostEq(f.Acc.Distance, MaxFrameDelta) {
		t.Fatalf("distance = %v, want %v", f.Acc.Distance, MaxFrameDelta)
	}
}

func TestStepRejectsBadDelta(t *testing.T) {
	d := NewDriver(NewStore(), nil)
	if _, err := d.Step(math.NaN()); err == nil {
		t.Fatal("NaN dt must fail")
	}
	if _, err := d.Step(-1); err == nil {
		t.Fatal("negative dt must fail")
	}
}

func TestStepRejectsNonFiniteClocks(t *testing.T) {
	d := NewDriver(NewStore(), nil)
	d.SetAccumulators(Accumulators{Distance: math.Inf(1)})
	if _, err := d.Step(0.016); err == nil {
		t.Fatal("infinite accumulator must fail validation")
	}
}

func TestFrameSanitize(t *testing.T) {
	s := NewStore()
	d := NewDriver(s, nil)

	// Modifier writes skip the step grid, so a fractional layer count can
	// reach the merge; the frame rounds it to a whole layer.
	s.SetAudioModifier(PLayerCount, 7.6)
	s.SetOverrideModifier(PZoomLevel, 0.01)
	f, err := d.Step(0.016)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if f.LayerCount != 8 {
		t.Fatalf("layer count = %v, want 8", f.LayerCount)
	}
	if f.ZoomLevel != MinZoomMagnitude {
		t.Fatalf("near-zero zoom = %v, want %v", f.ZoomLevel, MinZoomMagnitude)
	}
}

func TestZoomSignPreserved(t *testing.T) {
	s := NewStore()
	d := NewDriver(s, nil)
	s.SetOverrideModifier(PZoomLevel, -0.01)
	f, err := d.Step(0.016)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if f.ZoomLevel != -MinZoomMagnitude {
		t.Fatalf("negative near-zero zoom = %v, want %v", f.ZoomLevel, -MinZoomMagnitude)
	}

	// Exact zero counts as positive.
	s.SetOverrideModifier(PZoomLevel, 0)
	f, err = d.Step(0.016)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if f.ZoomLevel != MinZoomMagnitude {
		t.Fatalf("zero zoom = %v, want +%v", f.ZoomLevel, MinZoomMagnitude)
	}
}

func TestFrameCarriesColorState(t *testing.T) {
	s := NewStore()
	d := NewDriver(s, nil)
	s.CyclePalette(1) // fire
	s.ToggleInvert()
	f, err := d.Step(0.016)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	if f.Palette.Name != "fire" {
		t.Fatalf("frame palette = %q, want fire", f.Palette.Name)
	}
	if !f.Invert || !f.ColorEnabled {
		t.Fatalf("frame flags wrong: invert=%v color=%v", f.Invert, f.ColorEnabled)
	}
}

// Every parameter is either integrated by the driver or bound to a frame
// field. A key in neither place would be a dead knob.
func TestBindingsCoverSchema(t *testing.T) {
	bound := make(map[string]bool, len(frameBindings))
	for _, b := range frameBindings {
		if bound[b.key] {
			t.Fatalf("key %s bound twice", b.key)
		}
		bound[b.key] = true
	}
	for _, d := range paramDefs {
		if speedKeys[d.Key] {
			if bound[d.Key] {
				t.Fatalf("speed key %s must not be bound", d.Key)
			}
			continue
		}
		if !bound[d.Key] {
			t.Fatalf("key %s has no frame binding", d.Key)
		}
	}
	if len(frameBindings) != len(paramDefs)-len(speedKeys) {
		t.Fatalf("binding count %d, want %d", len(frameBindings), len(paramDefs)-len(speedKeys))
	}
}

// The set/get pairs must address the same field.
func TestBindingsRoundTrip(t *testing.T) {
	var f Frame
	for i, b := range frameBindings {
		v := float64(i) + 0.25
		b.set(&f, v)
		if got := b.get(&f); got != v {
			t.Fatalf("binding %s: set %v, get %v", b.key, v, got)
		}
	}
}
