package kaldao

// Levels holds one analysis frame of band energy, each in [0,1].
type Levels struct {
	Bass    float64
	Mid     float64
	Treble  float64
	Overall float64
}

// LevelSource feeds the mapper. Active reports whether audio is
// currently driving the visuals; Levels returns the latest analysis
// frame and may be called from the render loop at any rate.
type LevelSource interface {
	Active() bool
	Levels() Levels
}

// AudioMapper turns band levels into parameter modifiers. Factors are
// recomputed from the base value every update, so levels multiply the
// persisted state rather than accumulating on top of earlier frames.
type AudioMapper struct {
	source    LevelSource
	wasActive bool
}

func NewAudioMapper(src LevelSource) *AudioMapper {
	return &AudioMapper{source: src}
}

// SetSource swaps the level source. Passing nil detaches audio; the
// next Update clears any modifiers the old source left behind.
func (m *AudioMapper) SetSource(src LevelSource) {
	m.source = src
}

// Update applies one frame of audio reactivity to the store. When the
// source goes inactive the modifier layer is cleared exactly once, so
// the visuals revert to the base state on the same frame playback stops.
func (m *AudioMapper) Update(s *Store) {
	if m.source == nil || !m.source.Active() {
		if m.wasActive {
			s.ClearAudioModifiers()
			m.wasActive = false
		}
		return
	}
	m.wasActive = true

	lv := m.source.Levels()
	mod := func(key string, factor float64) {
		s.SetAudioModifier(key, s.GetBase(key)*factor)
	}

	// Bass swells the foreground shapes.
	mod(PCenterFillRadius, 1+0.8*1.5*lv.Bass)
	mod(PTruchetRadius, 1+0.8*lv.Bass)
	mod(PZoomLevel, 1+0.3*lv.Bass)

	// Mids push motion.
	mod(PRotationSpeed, 1+0.4*lv.Mid)
	mod(PPlaneRotationSpeed, 1+0.4*lv.Mid)
	mod(PFlySpeed, 1+0.6*lv.Mid)

	// Treble sharpens geometry and color.
	mod(PKaleidoscopeSegments, 1+0.3*lv.Treble)
	mod(PColorIntensity, 1+0.3*lv.Treble)
	mod(PColorSpeed, 1+0.3*lv.Treble)

	// Overall loudness thickens the whole image.
	mod(PContrast, 1+0.5*lv.Overall)
	mod(PLayerCount, 1+0.3*lv.Overall)
	mod(PPathScale, 1+0.4*lv.Overall)
}
