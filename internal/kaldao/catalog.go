package kaldao

// Parameter keys. These are the wire names: they appear in save files, OSC
// address maps, and as GLSL uniform names (prefixed u_).
const (
	PFlySpeed           = "fly_speed"
	PRotationSpeed      = "rotation_speed"
	PPlaneRotationSpeed = "plane_rotation_speed"
	PZoomLevel          = "zoom_level"
	PColorSpeed         = "color_speed"

	PKaleidoscopeSegments = "kaleidoscope_segments"
	PTruchetRadius        = "truchet_radius"
	PCenterFillRadius     = "center_fill_radius"
	PLayerCount           = "layer_count"
	PContrast             = "contrast"
	PColorIntensity       = "color_intensity"

	PPathStability = "path_stability"
	PPathScale     = "path_scale"
	PCameraTiltX   = "camera_tilt_x"
	PCameraTiltY   = "camera_tilt_y"
	PCameraRoll    = "camera_roll"

	PPathFreqPrimary   = "path_freq_primary"
	PPathFreqSecondary = "path_freq_secondary"
	PPathFreqTertiary  = "path_freq_tertiary"
	PPathAmpPrimary    = "path_amp_primary"
	PPathAmpSecondary  = "path_amp_secondary"
	PPathAmpTertiary   = "path_amp_tertiary"

	PCameraFov  = "camera_fov"
	PCameraBank = "camera_bank"

	PPlaneSpacing = "plane_spacing"
	PFadeNear     = "fade_near"
	PFadeFar      = "fade_far"
	PLayerOpacity = "layer_opacity"
	PDepthJitter  = "depth_jitter"
	PSpeedJitter  = "speed_jitter"

	PFoldSmoothing   = "fold_smoothing"
	PStrokeWidth     = "stroke_width"
	PPatternBalance  = "pattern_balance"
	PGridDensity     = "grid_density"
	PDetailFrequency = "detail_frequency"
	PDetailStrength  = "detail_strength"

	PPaletteShift     = "palette_shift"
	PPaletteFrequency = "palette_frequency"
	PDepthDimming     = "depth_dimming"
	PSkyBrightness    = "sky_brightness"
	PSaturation       = "saturation"
	PLineDarkness     = "line_darkness"

	PGamma            = "gamma"
	PScurveStrength   = "scurve_strength"
	PVignetteStrength = "vignette_strength"
	PVignetteSoftness = "vignette_softness"
	PExposure         = "exposure"
	PAAWidth          = "aa_width"
)

// ParamDef describes one controllable value.
type ParamDef struct {
	Key      string
	Name     string
	Category string
	Min      float64
	Max      float64
	Step     float64
	Default  float64
	Even     bool // segment-like counts snap to even on every write
}

// Categories in UI navigation order. The first four are the artistic set, the
// math_* ones hold the raw shading-model constants.
var Categories = []string{
	"movement", "pattern", "camera",
	"math_path", "math_camera", "math_layers", "math_field", "math_color", "math_post",
}

// paramDefs is the full schema in navigation order. Defaults for the three
// path frequencies are √2, √0.75 and √0.5: mutually incommensurate, so the
// flight path never visibly repeats.
var paramDefs = []ParamDef{
	{PFlySpeed, "Fly Speed", "movement", -10, 10, 0.1, 1.0, false},
	{PRotationSpeed, "Rotation Speed", "movement", -5, 5, 0.05, 0.2, false},
	{PPlaneRotationSpeed, "Plane Rotation Speed", "movement", -5, 5, 0.05, 0.4, false},
	{PZoomLevel, "Zoom Level", "movement", -5, 5, 0.05, 1.0, false},
	{PColorSpeed, "Color Speed", "movement", -2, 2, 0.05, 0.3, false},

	{PKaleidoscopeSegments, "Kaleidoscope Segments", "pattern", 4, 96, 2, 10, true},
	{PTruchetRadius, "Truchet Radius", "pattern", 0.1, 1.2, 0.05, 0.5, false},
	{PCenterFillRadius, "Center Fill Radius", "pattern", 0, 2, 0.05, 0.15, false},
	{PLayerCount, "Layer Count", "pattern", 1, 10, 1, 6, false},
	{PContrast, "Contrast", "pattern", 0.1, 3, 0.05, 1.0, false},
	{PColorIntensity, "Color Intensity", "pattern", 0, 3, 0.05, 1.0, false},

	{PPathStability, "Path Stability", "camera", -3, 1, 0.1, 0.0, false},
	{PPathScale, "Path Scale", "camera", 0, 5, 0.1, 1.0, false},
	{PCameraTiltX, "Camera Tilt X", "camera", -2, 2, 0.05, 0.0, false},
	{PCameraTiltY, "Camera Tilt Y", "camera", -2, 2, 0.05, 0.0, false},
	{PCameraRoll, "Camera Roll", "camera", -6.3, 6.3, 0.05, 0.0, false},

	{PPathFreqPrimary, "Path Freq 1", "math_path", 0.05, 4, 0.01, 1.4142135, false},
	{PPathFreqSecondary, "Path Freq 2", "math_path", 0.05, 4, 0.01, 0.8660254, false},
	{PPathFreqTertiary, "Path Freq 3", "math_path", 0.05, 4, 0.01, 0.7071068, false},
	{PPathAmpPrimary, "Path Amp 1", "math_path", 0, 4, 0.05, 1.0, false},
	{PPathAmpSecondary, "Path Amp 2", "math_path", 0, 4, 0.05, 0.5, false},
	{PPathAmpTertiary, "Path Amp 3", "math_path", 0, 4, 0.05, 0.25, false},

	{PCameraFov, "Camera FOV", "math_camera", 0.3, 3, 0.05, 1.0, false},
	{PCameraBank, "Camera Bank", "math_camera", 0, 2, 0.05, 0.5, false},

	{PPlaneSpacing, "Plane Spacing", "math_layers", 0.25, 4, 0.05, 1.0, false},
	{PFadeNear, "Fade Near", "math_layers", 0.05, 2, 0.05, 0.3, false},
	{PFadeFar, "Fade Far", "math_layers", 2, 30, 0.5, 10.0, false},
	{PLayerOpacity, "Layer Opacity", "math_layers", 0.1, 1, 0.05, 1.0, false},
	{PDepthJitter, "Depth Jitter", "math_layers", 0, 2, 0.05, 0.5, false},
	{PSpeedJitter, "Speed Jitter", "math_layers", 0, 2, 0.05, 0.5, false},

	{PFoldSmoothing, "Fold Smoothing", "math_field", 0, 1, 0.01, 0.5, false},
	{PStrokeWidth, "Stroke Width", "math_field", 0.01, 0.45, 0.01, 0.15, false},
	{PPatternBalance, "Pattern Balance", "math_field", 0, 1, 0.01, 0.5, false},
	{PGridDensity, "Grid Density", "math_field", 0.25, 4, 0.05, 1.0, false},
	{PDetailFrequency, "Detail Frequency", "math_field", 0, 64, 1, 24, false},
	{PDetailStrength, "Detail Strength", "math_field", 0, 1, 0.01, 0.3, false},

	{PPaletteShift, "Palette Shift", "math_color", 0, 1, 0.01, 0.0, false},
	{PPaletteFrequency, "Palette Frequency", "math_color", 0.25, 4, 0.05, 1.0, false},
	{PDepthDimming, "Depth Dimming", "math_color", 0, 1, 0.01, 0.25, false},
	{PSkyBrightness, "Sky Brightness", "math_color", 0, 2, 0.05, 1.0, false},
	{PSaturation, "Saturation", "math_color", 0, 2, 0.01, 0.85, false},
	{PLineDarkness, "Line Darkness", "math_color", 0, 1, 0.01, 0.1, false},

	{PGamma, "Gamma", "math_post", 0.5, 4, 0.05, 2.2, false},
	{PScurveStrength, "S-Curve Strength", "math_post", 0, 1, 0.01, 0.35, false},
	{PVignetteStrength, "Vignette Strength", "math_post", 0, 2, 0.05, 0.8, false},
	{PVignetteSoftness, "Vignette Softness", "math_post", 0.05, 1.5, 0.05, 0.7, false},
	{PExposure, "Exposure", "math_post", 0.1, 3, 0.05, 1.0, false},
	{PAAWidth, "AA Width", "math_post", 0.25, 4, 0.05, 1.0, false},
}

// speedKeys are integrated into the time accumulators by the driver instead
// of being sampled by the shader, so they have no uniform binding.
var speedKeys = map[string]bool{
	PFlySpeed:           true,
	PRotationSpeed:      true,
	PPlaneRotationSpeed: true,
	PColorSpeed:         true,
}
