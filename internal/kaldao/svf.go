package kaldao

import "math"

// svf is a topology-preserving state variable filter (Simper form).
// One Process call advances the state by a sample and yields the
// lowpass, bandpass and highpass responses at once, which is what the
// crossover filterbank wants.
type svf struct {
	g, k       float64
	a1, a2, a3 float64
	ic1eq      float64
	ic2eq      float64
}

func newSVF(cutoffHz, q, sampleRate float64) *svf {
	f := &svf{}
	f.set(cutoffHz, q, sampleRate)
	return f
}

func (f *svf) set(cutoffHz, q, sampleRate float64) {
	f.g = math.Tan(math.Pi * cutoffHz / sampleRate)
	f.k = 1 / q
	f.a1 = 1 / (1 + f.g*(f.g+f.k))
	f.a2 = f.g * f.a1
	f.a3 = f.g * f.a2
}

func (f *svf) reset() {
	f.ic1eq = 0
	f.ic2eq = 0
}

func (f *svf) Process(x float64) (low, band, high float64) {
	v3 := x - f.ic2eq
	v1 := f.a1*f.ic1eq + f.a2*v3
	v2 := f.ic2eq + f.a2*f.ic1eq + f.a3*v3
	f.ic1eq = 2*v1 - f.ic1eq
	f.ic2eq = 2*v2 - f.ic2eq
	return v2, v1, x - f.k*v1 - v2
}
