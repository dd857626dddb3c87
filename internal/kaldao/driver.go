package kaldao

import (
	"fmt"
	"math"
)

// Accumulators are the four integrated clocks. Parameters control speeds;
// these carry the positions, so a speed change never causes a visual jump.
type Accumulators struct {
	Distance   float64 // camera travel along the path (world z)
	Rotation   float64 // global kaleidoscope angle
	PlaneRot   float64 // per-plane pattern angle
	ColorPhase float64 // palette phase
}

// Frame is the immutable per-frame input to both render paths: sanitized
// effective parameter values, the accumulator snapshot, and color state.
type Frame struct {
	Acc          Accumulators
	Palette      CosinePalette
	ColorEnabled bool
	Invert       bool

	ZoomLevel        float64
	Segments         float64
	TruchetRadius    float64
	CenterFillRadius float64
	LayerCount       float64
	Contrast         float64
	ColorIntensity   float64

	PathStability float64
	PathScale     float64
	CameraTiltX   float64
	CameraTiltY   float64
	CameraRoll    float64

	PathFreqPrimary   float64
	PathFreqSecondary float64
	PathFreqTertiary  float64
	PathAmpPrimary    float64
	PathAmpSecondary  float64
	PathAmpTertiary   float64

	CameraFov  float64
	CameraBank float64

	PlaneSpacing float64
	FadeNear     float64
	FadeFar      float64
	LayerOpacity float64
	DepthJitter  float64
	SpeedJitter  float64

	FoldSmoothing   float64
	StrokeWidth     float64
	PatternBalance  float64
	GridDensity     float64
	DetailFrequency float64
	DetailStrength  float64

	PaletteShift     float64
	PaletteFrequency float64
	DepthDimming     float64
	SkyBrightness    float64
	Saturation       float64
	LineDarkness     float64

	Gamma            float64
	ScurveStrength   float64
	VignetteStrength float64
	VignetteSoftness float64
	Exposure         float64
	AAWidth          float64
}

type frameBinding struct {
	key string
	set func(*Frame, float64)
	get func(*Frame) float64
}

// frameBindings is the single schema tying parameter keys to Frame fields.
// The merge step fills the frame from it and the GL presenter builds its
// uniform table from it, so a key can never be wired on one side only.
// Speed parameters are absent: the driver folds them into the accumulators.
var frameBindings = []frameBinding{
	{PZoomLevel, func(f *Frame, v float64) { f.ZoomLevel = v }, func(f *Frame) float64 { return f.ZoomLevel }},
	{PKaleidoscopeSegments, func(f *Frame, v float64) { f.Segments = v }, func(f *Frame) float64 { return f.Segments }},
	{PTruchetRadius, func(f *Frame, v float64) { f.TruchetRadius = v }, func(f *Frame) float64 { return f.TruchetRadius }},
	{PCenterFillRadius, func(f *Frame, v float64) { f.CenterFillRadius = v }, func(f *Frame) float64 { return f.CenterFillRadius }},
	{PLayerCount, func(f *Frame, v float64) { f.LayerCount = v }, func(f *Frame) float64 { return f.LayerCount }},
	{PContrast, func(f *Frame, v float64) { f.Contrast = v }, func(f *Frame) float64 { return f.Contrast }},
	{PColorIntensity, func(f *Frame, v float64) { f.ColorIntensity = v }, func(f *Frame) float64 { return f.ColorIntensity }},
	{PPathStability, func(f *Frame, v float64) { f.PathStability = v }, func(f *Frame) float64 { return f.PathStability }},
	{PPathScale, func(f *Frame, v float64) { f.PathScale = v }, func(f *Frame) float64 { return f.PathScale }},
	{PCameraTiltX, func(f *Frame, v float64) { f.CameraTiltX = v }, func(f *Frame) float64 { return f.CameraTiltX }},
	{PCameraTiltY, func(f *Frame, v float64) { f.CameraTiltY = v }, func(f *Frame) float64 { return f.CameraTiltY }},
	{PCameraRoll, func(f *Frame, v float64) { f.CameraRoll = v }, func(f *Frame) float64 { return f.CameraRoll }},
	{PPathFreqPrimary, func(f *Frame, v float64) { f.PathFreqPrimary = v }, func(f *Frame) float64 { return f.PathFreqPrimary }},
	{PPathFreqSecondary, func(f *Frame, v float64) { f.PathFreqSecondary = v }, func(f *Frame) float64 { return f.PathFreqSecondary }},
	{PPathFreqTertiary, func(f *Frame, v float64) { f.PathFreqTertiary = v }, func(f *Frame) float64 { return f.PathFreqTertiary }},
	{PPathAmpPrimary, func(f *Frame, v float64) { f.PathAmpPrimary = v }, func(f *Frame) float64 { return f.PathAmpPrimary }},
	{PPathAmpSecondary, func(f *Frame, v float64) { f.PathAmpSecondary = v }, func(f *Frame) float64 { return f.PathAmpSecondary }},
	{PPathAmpTertiary, func(f *Frame, v float64) { f.PathAmpTertiary = v }, func(f *Frame) float64 { return f.PathAmpTertiary }},
	{PCameraFov, func(f *Frame, v float64) { f.CameraFov = v }, func(f *Frame) float64 { return f.CameraFov }},
	{PCameraBank, func(f *Frame, v float64) { f.CameraBank = v }, func(f *Frame) float64 { return f.CameraBank }},
	{PPlaneSpacing, func(f *Frame, v float64) { f.PlaneSpacing = v }, func(f *Frame) float64 { return f.PlaneSpacing }},
	{PFadeNear, func(f *Frame, v float64) { f.FadeNear = v }, func(f *Frame) float64 { return f.FadeNear }},
	{PFadeFar, func(f *Frame, v float64) { f.FadeFar = v }, func(f *Frame) float64 { return f.FadeFar }},
	{PLayerOpacity, func(f *Frame, v float64) { f.LayerOpacity = v }, func(f *Frame) float64 { return f.LayerOpacity }},
	{PDepthJitter, func(f *Frame, v float64) { f.DepthJitter = v }, func(f *Frame) float64 { return f.DepthJitter }},
	{PSpeedJitter, func(f *Frame, v float64) { f.SpeedJitter = v }, func(f *Frame) float64 { return f.SpeedJitter }},
	{PFoldSmoothing, func(f *Frame, v float64) { f.FoldSmoothing = v }, func(f *Frame) float64 { return f.FoldSmoothing }},
	{PStrokeWidth, func(f *Frame, v float64) { f.StrokeWidth = v }, func(f *Frame) float64 { return f.StrokeWidth }},
	{PPatternBalance, func(f *Frame, v float64) { f.PatternBalance = v }, func(f *Frame) float64 { return f.PatternBalance }},
	{PGridDensity, func(f *Frame, v float64) { f.GridDensity = v }, func(f *Frame) float64 { return f.GridDensity }},
	{PDetailFrequency, func(f *Frame, v float64) { f.DetailFrequency = v }, func(f *Frame) float64 { return f.DetailFrequency }},
	{PDetailStrength, func(f *Frame, v float64) { f.DetailStrength = v }, func(f *Frame) float64 { return f.DetailStrength }},
	{PPaletteShift, func(f *Frame, v float64) { f.PaletteShift = v }, func(f *Frame) float64 { return f.PaletteShift }},
	{PPaletteFrequency, func(f *Frame, v float64) { f.PaletteFrequency = v }, func(f *Frame) float64 { return f.PaletteFrequency }},
	{PDepthDimming, func(f *Frame, v float64) { f.DepthDimming = v }, func(f *Frame) float64 { return f.DepthDimming }},
	{PSkyBrightness, func(f *Frame, v float64) { f.SkyBrightness = v }, func(f *Frame) float64 { return f.SkyBrightness }},
	{PSaturation, func(f *Frame, v float64) { f.Saturation = v }, func(f *Frame) float64 { return f.Saturation }},
	{PLineDarkness, func(f *Frame, v float64) { f.LineDarkness = v }, func(f *Frame) float64 { return f.LineDarkness }},
	{PGamma, func(f *Frame, v float64) { f.Gamma = v }, func(f *Frame) float64 { return f.Gamma }},
	{PScurveStrength, func(f *Frame, v float64) { f.ScurveStrength = v }, func(f *Frame) float64 { return f.ScurveStrength }},
	{PVignetteStrength, func(f *Frame, v float64) { f.VignetteStrength = v }, func(f *Frame) float64 { return f.VignetteStrength }},
	{PVignetteSoftness, func(f *Frame, v float64) { f.VignetteSoftness = v }, func(f *Frame) float64 { return f.VignetteSoftness }},
	{PExposure, func(f *Frame, v float64) { f.Exposure = v }, func(f *Frame) float64 { return f.Exposure }},
	{PAAWidth, func(f *Frame, v float64) { f.AAWidth = v }, func(f *Frame) float64 { return f.AAWidth }},
}

// buildFrame merges the layered store into a flat frame and sanitizes the
// values whose raw merge could break the march:
//
//   - layer count rounds to a whole number and clamps to [1,MaxLayers]
//     no matter what the modifiers multiplied it to
//   - segment count re-evens and never drops below MinSegments
//   - zoom keeps its sign but is pushed away from zero
func buildFrame(s *Store, acc Accumulators) Frame {
	vals, colors := s.effectiveState()
	f := Frame{
		Acc:          acc,
		Palette:      colors.active(),
		ColorEnabled: colors.ColorEnabled,
		Invert:       colors.Invert,
	}
	for _, b := range frameBindings {
		b.set(&f, vals[b.key])
	}

	f.LayerCount = clampF(math.Round(f.LayerCount), 1, MaxLayers)
	f.Segments = math.Max(math.Round(f.Segments/2)*2, MinSegments)
	if math.Abs(f.ZoomLevel) < MinZoomMagnitude {
		if f.ZoomLevel < 0 {
			f.ZoomLevel = -MinZoomMagnitude
		} else {
			f.ZoomLevel = MinZoomMagnitude
		}
	}
	return f
}

// validate rejects frames whose state went non-finite. Parameters cannot get
// here through the clamped write paths; the accumulators can, given a
// non-finite dt or absurd uptime, and one NaN would paint the whole screen.
func (f *Frame) validate() error {
	checks := []struct {
		name string
		v    float64
	}{
		{"distance accumulator", f.Acc.Distance},
		{"rotation accumulator", f.Acc.Rotation},
		{"plane rotation accumulator", f.Acc.PlaneRot},
		{"color phase accumulator", f.Acc.ColorPhase},
		{"zoom", f.ZoomLevel},
		{"layer count", f.LayerCount},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("frame state: %s is not finite", c.name)
		}
	}
	return nil
}

type DriverState int

const (
	StateRunning DriverState = iota
	StatePaused
)

// Driver owns the frame protocol: poll audio, integrate the clocks, merge,
// hand out a frame. It never renders; both presenters consume its output.
type Driver struct {
	store  *Store
	mapper *AudioMapper
	state  DriverState
	acc    Accumulators
}

func NewDriver(store *Store, mapper *AudioMapper) *Driver {
	return &Driver{store: store, mapper: mapper}
}

func (d *Driver) State() DriverState { return d.state }

// TogglePause flips RUNNING/PAUSED. Paused freezes the accumulators only;
// parameters stay live and every frame still renders.
func (d *Driver) TogglePause() DriverState {
	if d.state == StateRunning {
		d.state = StatePaused
	} else {
		d.state = StateRunning
	}
	return d.state
}

func (d *Driver) Accumulators() Accumulators { return d.acc }

// SetAccumulators restores saved clocks (the load path).
func (d *Driver) SetAccumulators(a Accumulators) { d.acc = a }

// Step advances one frame: audio modifiers first so the speeds integrated
// below already carry them, then integration, then the merge. A returned
// error means "skip this frame and keep the previous one"; it never stops
// the loop.
func (d *Driver) Step(dt float64) (Frame, error) {
	if math.IsNaN(dt) || dt < 0 {
		return Frame{}, fmt.Errorf("frame step: bad delta %v", dt)
	}
	if dt > MaxFrameDelta {
		dt = MaxFrameDelta
	}

	if d.mapper != nil {
		d.mapper.Update(d.store)
	}

	if d.state == StateRunning {
		d.acc.Distance += d.store.Get(PFlySpeed) * dt
		d.acc.Rotation += d.store.Get(PRotationSpeed) * dt
		d.acc.PlaneRot += d.store.Get(PPlaneRotationSpeed) * dt
		d.acc.ColorPhase += d.store.Get(PColorSpeed) * dt
	}

	f := buildFrame(d.store, d.acc)
	if err := f.validate(); err != nil {
		return Frame{}, err
	}
	return f, nil
}
