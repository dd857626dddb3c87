package kaldao

// Window defaults.
const (
	WindowWidth  = 1280
	WindowHeight = 720
	WindowTitle  = "kaldao"
)

// Frame timing.
const (
	MaxFrameDelta = 0.1 // hitch clamp: debugger pauses, window drags
	TitleInterval = 0.25
)

// Shading protocol constants. These are baked into every piece anyone has
// saved; changing one silently changes all of them on reload.
const (
	OpacityCutoff    = 0.95 // front-to-back compositing early exit
	BasisEpsilon     = 0.1  // camera path differentiation step
	MinZoomMagnitude = 0.05 // keeps tile scaling away from division by zero
	MinSegments      = 4
	MaxLayers        = 10
	SkyLuminance     = 0.06
)

// History depth for undo/redo.
const HistoryCapacity = 50

// Playback/analysis. The oto context is created once at this rate; decoded
// files at other rates are resampled on load.
const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	BassCrossoverHz   = 140.0
	TrebleCrossoverHz = 2000.0
	AnalysisHop       = 2048 // samples per level update (~46 ms at 44.1 kHz)
)

// OSC override listener.
const DefaultOSCAddr = ":8000"

// Save file format version.
const StateVersion = 1
