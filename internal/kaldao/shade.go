package kaldao

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShadePixel runs the whole pipeline for one pixel: ray, march, post. u and v
// are aspect-corrected NDC coordinates (v spans [-1,1] over the image
// height); pix is the NDC height of one pixel, used for anti-aliasing.
// The GLSL presenter mirrors this function statement for statement.
func (f *Frame) ShadePixel(cam CameraFrame, u, v, pix float64) (r, g, b float64) {
	rd := f.ray(cam, u, v)
	lum := f.march(cam.Origin, rd, pix)
	return f.post(lum, u, v)
}

// march walks the pattern planes front to back and over-composites scalar
// luminance. Planes sit at multiples of PlaneSpacing; each takes its pattern
// coordinates relative to the path at its own depth, which is what keeps the
// tunnel wrapped around the flight path.
func (f *Frame) march(ro, rd mgl64.Vec3, pix float64) float64 {
	col := 0.0
	acc := 0.0
	if rd[2] > 1e-6 {
		spacing := f.PlaneSpacing
		first := (math.Floor(ro[2]/spacing) + 1) * spacing
		layers := int(f.LayerCount)
		for i := 0; i < layers; i++ {
			planeZ := first + float64(i)*spacing
			t := (planeZ - ro[2]) / rd[2]
			if t <= 0 {
				continue
			}
			if t > f.FadeFar {
				break
			}
			off := f.PathOffset(planeZ)
			layerID := math.Round(planeZ / spacing)
			lum, cov := f.planePattern(
				ro[0]+rd[0]*t-off[0],
				ro[1]+rd[1]*t-off[1],
				layerID, t, pix,
			)

			a := cov * f.LayerOpacity *
				smoothstep(0, f.FadeNear, t) *
				(1 - smoothstep(f.FadeFar*0.6, f.FadeFar, t))
			lum *= 1 - f.DepthDimming*clamp01(t/f.FadeFar)

			col += (1 - acc) * a * lum
			acc += (1 - acc) * a
			if acc >= OpacityCutoff {
				break
			}
		}
	}
	col += (1 - acc) * SkyLuminance * f.SkyBrightness
	return col
}

// planePattern evaluates one plane at path-relative coordinates (x,y).
// Returns the pattern luminance and coverage for compositing.
func (f *Frame) planePattern(x, y, layerID, t, pix float64) (lum, cov float64) {
	// Distance from the tunnel axis, before any per-layer motion: the center
	// fill disc must stay anchored while the pattern spins around it.
	r0 := math.Hypot(x, y)

	// Per-layer seeds: rotation phase, speed jitter, drift.
	h1 := hash11(layerID + 1)
	h2 := hash11(layerID + 13.7)
	h3 := hash11(layerID + 31.3)

	x += (h2 - 0.5) * 2 * f.DepthJitter
	y += (h3 - 0.5) * 2 * f.DepthJitter

	ang := f.Acc.PlaneRot*(1+(h2-0.5)*f.SpeedJitter) + h1*2*math.Pi
	ca := math.Cos(ang)
	sa := math.Sin(ang)
	x, y = ca*x-sa*y, sa*x+ca*y

	a := math.Atan2(y, x)
	rr := math.Hypot(x, y)
	folded := foldAngle(a, f.Segments, f.FoldSmoothing) + f.Acc.Rotation

	scale := f.ZoomLevel * f.GridDensity
	ux := math.Cos(folded) * rr * scale
	uy := math.Sin(folded) * rr * scale

	d, _ := truchetField(ux, uy, f.TruchetRadius, f.PatternBalance)

	// Analytic ray footprint: one pixel of NDC spans pix, scaled to the plane
	// at distance t and into tile units. Same formula on the GPU, so both
	// paths blur the same edges.
	aaw := f.AAWidth * pix * t / f.CameraFov * math.Abs(scale)
	m := 1 - smoothstep(f.StrokeWidth-aaw, f.StrokeWidth+aaw, d)

	stripe := 0.5 + 0.5*math.Cos(d*f.DetailFrequency)
	lum = m * (1 - f.DetailStrength*stripe) * (1 - f.LineDarkness)

	// Solid fill disc at the tunnel core, in plane units.
	aawPlane := f.AAWidth * pix * t / f.CameraFov
	fill := 1 - smoothstep(f.CenterFillRadius-aawPlane, f.CenterFillRadius+aawPlane, r0)
	if f.CenterFillRadius <= 0 {
		fill = 0
	}

	return math.Max(lum, fill), math.Max(m, fill)
}

// post takes composited luminance to final RGB. Order is fixed: palette
// remap, gamma, contrast S-curve, desaturation, vignette, exposure,
// inversion.
func (f *Frame) post(lum, u, v float64) (r, g, b float64) {
	if f.ColorEnabled {
		t := lum*f.PaletteFrequency + f.Acc.ColorPhase + f.PaletteShift
		pr, pg, pb := f.Palette.Eval(t)
		r = pr * lum * f.ColorIntensity
		g = pg * lum * f.ColorIntensity
		b = pb * lum * f.ColorIntensity
	} else {
		v := clamp01(lum * f.ColorIntensity)
		r, g, b = v, v, v
	}

	inv := 1 / f.Gamma
	r = math.Pow(math.Max(r, 0), inv)
	g = math.Pow(math.Max(g, 0), inv)
	b = math.Pow(math.Max(b, 0), inv)

	r = contrastCurve(r, f.Contrast, f.ScurveStrength)
	g = contrastCurve(g, f.Contrast, f.ScurveStrength)
	b = contrastCurve(b, f.Contrast, f.ScurveStrength)

	luma := 0.2126*r + 0.7152*g + 0.0722*b
	r = mix(luma, r, f.Saturation)
	g = mix(luma, g, f.Saturation)
	b = mix(luma, b, f.Saturation)

	vig := clamp01(1 - f.VignetteStrength*smoothstep(f.VignetteSoftness, 1.5, math.Hypot(u, v)))
	r *= vig * f.Exposure
	g *= vig * f.Exposure
	b *= vig * f.Exposure

	if f.Invert {
		r = 1 - r
		g = 1 - g
		b = 1 - b
	}
	return clamp01(r), clamp01(g), clamp01(b)
}

// contrastCurve is a linear contrast stretch about mid-gray blended with a
// smoothstep S-curve.
func contrastCurve(c, contrast, scurve float64) float64 {
	c = clamp01((c-0.5)*contrast + 0.5)
	return mix(c, c*c*(3-2*c), scurve)
}
