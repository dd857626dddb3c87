package kaldao

import (
	"math"
	"testing"
)

func TestCosinePaletteEval(t *testing.T) {
	p := builtinPalettes[1] // rainbow: a=b=0.5, c=1, d=(0,0.33,0.67)
	r, g, b := p.Eval(0)
	if !almostEq(r, 1) {
		t.Fatalf("rainbow red at t=0 = %v, want 1", r)
	}
	wantG := clamp01(0.5 + 0.5*math.Cos(2*math.Pi*0.33))
	if !almostEq(g, wantG) {
		t.Fatalf("rainbow green at t=0 = %v, want %v", g, wantG)
	}
	// The cosine wraps: t and t+1 are the same color for c=1.
	r2, g2, b2 := p.Eval(1)
	if !almostEq(r, r2) || !almostEq(g, g2) || !almostEq(b, b2) {
		t.Fatalf("palette should be periodic: (%v %v %v) vs (%v %v %v)", r, g, b, r2, g2, b2)
	}
}

func TestPaletteEvalClamps(t *testing.T) {
	p := CosinePalette{A: [3]float64{2, -1, 0.5}, B: [3]float64{1, 1, 0}, C: [3]float64{1, 1, 1}}
	r, g, b := p.Eval(0)
	if r != 1 {
		t.Fatalf("red should clamp to 1, got %v", r)
	}
	if g != 0 {
		t.Fatalf("green should clamp to 0, got %v", g)
	}
	if !almostEq(b, 0.5) {
		t.Fatalf("blue = %v, want 0.5", b)
	}
}

func TestDefaultColorState(t *testing.T) {
	cs := defaultColorState()
	if len(cs.Palettes) != len(builtinPalettes)+UserPaletteSlots {
		t.Fatalf("palette count = %d", len(cs.Palettes))
	}
	if !cs.ColorEnabled || cs.Invert {
		t.Fatalf("default flags wrong: %+v", cs)
	}
	if cs.active().Name != "rainbow" {
		t.Fatalf("default palette = %q, want rainbow", cs.active().Name)
	}
}

func TestCycleWraps(t *testing.T) {
	cs := defaultColorState()
	n := len(cs.Palettes)
	cs.Current = 0
	cs.cycle(-1)
	if cs.Current != n-1 {
		t.Fatalf("cycle(-1) from 0 = %d, want %d", cs.Current, n-1)
	}
	cs.cycle(1)
	if cs.Current != 0 {
		t.Fatalf("cycle(1) back = %d, want 0", cs.Current)
	}
}

func TestRandomizeTargetsUserSlots(t *testing.T) {
	cs := defaultColorState()
	rng := NewRand(42)
	before := make([]CosinePalette, len(builtinPalettes))
	copy(before, cs.Palettes[:len(builtinPalettes)])

	for i := 0; i < UserPaletteSlots+2; i++ {
		cs.randomize(rng)
		if cs.Current < len(builtinPalettes) {
			t.Fatalf("randomize selected builtin slot %d", cs.Current)
		}
		p := cs.active()
		for c := 0; c < 3; c++ {
			if p.A[c] < 0 || p.A[c] > 1 || p.B[c] < 0 || p.B[c] > 1 {
				t.Fatalf("randomized coefficients out of range: %+v", p)
			}
			if p.C[c] != 0.5 && p.C[c] != 1.0 && p.C[c] != 1.5 {
				t.Fatalf("frequency off the half-step grid: %v", p.C[c])
			}
		}
	}
	for i, b := range before {
		if cs.Palettes[i] != b {
			t.Fatalf("builtin %d mutated by randomize", i)
		}
	}
}

func TestRandomizeIsDeterministic(t *testing.T) {
	a := defaultColorState()
	b := defaultColorState()
	a.randomize(NewRand(7))
	b.randomize(NewRand(7))
	if a.active() != b.active() {
		t.Fatalf("same seed, different palettes: %+v vs %+v", a.active(), b.active())
	}
}

func TestRandomizeGrowsShortLists(t *testing.T) {
	cs := ColorState{
		Current:      0,
		ColorEnabled: true,
		Palettes:     []CosinePalette{builtinPalettes[0]},
	}
	cs.randomize(NewRand(3)) // must not panic on a loaded short list
	if cs.Current >= len(cs.Palettes) {
		t.Fatalf("current %d out of range %d", cs.Current, len(cs.Palettes))
	}
}
