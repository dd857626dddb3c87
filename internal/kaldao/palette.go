package kaldao

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// CosinePalette is the classic procedural gradient
// color(t) = a + b·cos(2π(c·t + d)), one coefficient set per channel.
type CosinePalette struct {
	Name string
	A    [3]float64
	B    [3]float64
	C    [3]float64
	D    [3]float64
}

// Eval samples the palette at t (any real; the cosine wraps) and clamps each
// channel into [0,1].
func (p CosinePalette) Eval(t float64) (r, g, b float64) {
	r = clamp01(p.A[0] + p.B[0]*math.Cos(2*math.Pi*(p.C[0]*t+p.D[0])))
	g = clamp01(p.A[1] + p.B[1]*math.Cos(2*math.Pi*(p.C[1]*t+p.D[1])))
	b = clamp01(p.A[2] + p.B[2]*math.Cos(2*math.Pi*(p.C[2]*t+p.D[2])))
	return
}

// Built-in palettes. Immutable: randomize and edits land in the user slots
// that follow them.
var builtinPalettes = []CosinePalette{
	{Name: "monochrome",
		A: [3]float64{0.5, 0.5, 0.5}, B: [3]float64{0.5, 0.5, 0.5},
		C: [3]float64{1, 1, 1}, D: [3]float64{0, 0, 0}},
	{Name: "rainbow",
		A: [3]float64{0.5, 0.5, 0.5}, B: [3]float64{0.5, 0.5, 0.5},
		C: [3]float64{1, 1, 1}, D: [3]float64{0.0, 0.33, 0.67}},
	{Name: "fire",
		A: [3]float64{0.55, 0.25, 0.1}, B: [3]float64{0.45, 0.3, 0.15},
		C: [3]float64{1, 1, 1}, D: [3]float64{0.0, 0.1, 0.2}},
	{Name: "ocean",
		A: [3]float64{0.1, 0.35, 0.5}, B: [3]float64{0.15, 0.35, 0.45},
		C: [3]float64{1, 1, 1}, D: [3]float64{0.55, 0.4, 0.25}},
	{Name: "purple",
		A: [3]float64{0.45, 0.2, 0.55}, B: [3]float64{0.4, 0.25, 0.4},
		C: [3]float64{1, 1, 1}, D: [3]float64{0.1, 0.4, 0.0}},
	{Name: "neon",
		A: [3]float64{0.5, 0.5, 0.5}, B: [3]float64{0.5, 0.5, 0.5},
		C: [3]float64{2, 1, 0}, D: [3]float64{0.5, 0.2, 0.25}},
	{Name: "sunset",
		A: [3]float64{0.55, 0.33, 0.3}, B: [3]float64{0.45, 0.3, 0.25},
		C: [3]float64{1, 1, 1}, D: [3]float64{0.0, 0.12, 0.35}},
}

// UserPaletteSlots follow the built-ins; randomize cycles through them.
const UserPaletteSlots = 4

// ColorState holds everything color-related that the store snapshots: the
// palette list, the selected index and the two orthogonal display flags.
type ColorState struct {
	Current      int
	ColorEnabled bool
	Invert       bool
	Palettes     []CosinePalette

	nextUserSlot int
}

func defaultColorState() ColorState {
	pals := make([]CosinePalette, 0, len(builtinPalettes)+UserPaletteSlots)
	pals = append(pals, builtinPalettes...)
	for i := 0; i < UserPaletteSlots; i++ {
		u := builtinPalettes[1] // seed user slots from rainbow
		u.Name = fmt.Sprintf("user %d", i+1)
		pals = append(pals, u)
	}
	return ColorState{
		Current:      1, // rainbow
		ColorEnabled: true,
		Palettes:     pals,
	}
}

func (cs ColorState) clone() ColorState {
	out := cs
	out.Palettes = make([]CosinePalette, len(cs.Palettes))
	copy(out.Palettes, cs.Palettes)
	return out
}

func (cs *ColorState) active() CosinePalette {
	if cs.Current < 0 || cs.Current >= len(cs.Palettes) {
		return cs.Palettes[0]
	}
	return cs.Palettes[cs.Current]
}

func (cs *ColorState) cycle(dir int) {
	n := len(cs.Palettes)
	cs.Current = ((cs.Current+dir)%n + n) % n
}

// randomize writes a fresh palette into the next user slot and selects it.
// Built-ins are never touched. Loaded states may carry fewer palettes than
// the default layout, so missing slots are grown on demand.
func (cs *ColorState) randomize(r *Rand) {
	slot := len(builtinPalettes) + cs.nextUserSlot
	cs.nextUserSlot = (cs.nextUserSlot + 1) % UserPaletteSlots
	for len(cs.Palettes) <= slot {
		u := builtinPalettes[1]
		u.Name = fmt.Sprintf("user %d", len(cs.Palettes)-len(builtinPalettes)+1)
		cs.Palettes = append(cs.Palettes, u)
	}
	name := cs.Palettes[slot].Name
	cs.Palettes[slot] = randomPalette(r, name)
	cs.Current = slot
}

// randomPalette derives cosine coefficients from two HSV picks: a mid color
// and an amplitude color at a rotated hue. Frequencies stay on the half-step
// grid so the gradient reads as bands rather than noise.
func randomPalette(r *Rand, name string) CosinePalette {
	h := r.RangeF(0, 360)
	mid := colorful.Hsv(h, r.RangeF(0.45, 0.75), r.RangeF(0.45, 0.7))
	amp := colorful.Hsv(math.Mod(h+r.RangeF(60, 300), 360), r.RangeF(0.5, 1.0), r.RangeF(0.3, 0.6))
	var freqs, phases [3]float64
	for i := range freqs {
		freqs[i] = 0.5 + 0.5*float64(r.Intn(3))
		phases[i] = r.Float64()
	}
	return CosinePalette{
		Name: name,
		A:    [3]float64{mid.R, mid.G, mid.B},
		B:    [3]float64{amp.R, amp.G, amp.B},
		C:    freqs,
		D:    phases,
	}
}
