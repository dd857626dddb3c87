package kaldao

import "math"

// foldAngle mirrors angle a into a wedge of width 2π/n. Both creases (the
// wedge center and its edge) are rounded with sabs; the rounding radius
// scales with the wedge so dense kaleidoscopes keep crisp seams.
func foldAngle(a, n, smoothing float64) float64 {
	w := 2 * math.Pi / n
	k := smoothing * w * 0.25
	m := math.Mod(a, 2*w)
	if m < 0 {
		m += 2 * w
	}
	m -= w
	folded := sabs(m, k)
	return w - sabs(w-folded, k)
}

// truchetField returns the distance from p to the cell motif and the cell
// hash. The hash picks one of four motifs; balance skews the split between
// the arc pair and the straight pair (0.5 is the classic even quartering).
func truchetField(px, py, radius, balance float64) (d, h float64) {
	ix := math.Floor(px)
	iy := math.Floor(py)
	fx := px - ix - 0.5
	fy := py - iy - 0.5
	h = hash21(ix, iy)

	tA := 0.5 * balance
	tB := balance
	tC := balance + 0.5*(1-balance)

	switch {
	case h < tA:
		d = math.Min(
			math.Abs(math.Hypot(fx-0.5, fy-0.5)-radius),
			math.Abs(math.Hypot(fx+0.5, fy+0.5)-radius),
		)
	case h < tB:
		d = math.Min(
			math.Abs(math.Hypot(fx+0.5, fy-0.5)-radius),
			math.Abs(math.Hypot(fx-0.5, fy+0.5)-radius),
		)
	case h < tC:
		// Diagonals, unit-normalized.
		d = math.Min(math.Abs(fx+fy), math.Abs(fx-fy)) * math.Sqrt2 / 2
	default:
		// Axis-aligned cross through the edge midpoints.
		d = math.Min(math.Abs(fx), math.Abs(fy))
	}
	return d, h
}
