package kaldao

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStateRoundTrip(t *testing.T) {
	src := NewStore()
	src.SetBase(PZoomLevel, 2.5)
	src.SetBase(PKaleidoscopeSegments, 24)
	src.CyclePalette(1) // fire
	src.ToggleInvert()
	acc := Accumulators{Distance: 42.5, Rotation: 1.1, PlaneRot: -0.4, ColorPhase: 3.3}

	path := filepath.Join(t.TempDir(), "state.json")
	if err := SaveState(path, src, acc); err != nil {
		t.Fatalf("save: %v", err)
	}

	dst := NewStore()
	dst.SetAudioModifier(PContrast, 2.5)
	got, err := LoadState(path, dst)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || *got != acc {
		t.Fatalf("accumulators %+v, want %+v", got, acc)
	}
	if dst.Get(PZoomLevel) != 2.5 {
		t.Fatalf("zoom = %v, want 2.5", dst.Get(PZoomLevel))
	}
	if dst.Get(PKaleidoscopeSegments) != 24 {
		t.Fatalf("segments = %v, want 24", dst.Get(PKaleidoscopeSegments))
	}
	if dst.PaletteName() != "fire" {
		t.Fatalf("palette = %q, want fire", dst.PaletteName())
	}
	if !dst.Snapshot().Colors.Invert {
		t.Fatal("invert flag lost")
	}
	// Load drops transient modifiers.
	if dst.Get(PContrast) != 1.0 {
		t.Fatalf("contrast = %v, want base 1.0 after load", dst.Get(PContrast))
	}
}

func TestLoadIgnoresUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	minimal := []byte(`{
  "version": 1,
  "parameters": {"fly_speed": 3, "left_over_knob": 9.9},
  "palette": {
    "currentPaletteIndex": 0,
    "colorEnabled": true,
    "invert": false,
    "palettes": [{"a":[0.5,0.5,0.5],"b":[0.5,0.5,0.5],"c":[1,1,1],"d":[0,0,0],"name":"flat"}]
  }
}`)
	if err := os.WriteFile(path, minimal, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore()
	acc, err := LoadState(path, s)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if acc != nil {
		t.Fatalf("accumulators %+v from a file without them", acc)
	}
	if s.Get(PFlySpeed) != 3 {
		t.Fatalf("fly speed = %v, want 3", s.Get(PFlySpeed))
	}
	// Keys the file omits keep their defaults.
	if s.Get(PGamma) != 2.2 {
		t.Fatalf("gamma = %v, want default", s.Get(PGamma))
	}
}

func TestLoadRejectsNewerVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	body := []byte(`{"version": 2, "parameters": {"fly_speed": 1}, "palette": {"palettes": [{"name":"x"}]}}`)
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadState(path, NewStore()); err == nil {
		t.Fatal("newer version must fail")
	}
}

func TestLoadRejectsIncompleteFiles(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"no_params.json":  `{"version": 1, "palette": {"palettes": [{"name":"x"}]}}`,
		"no_palette.json": `{"version": 1, "parameters": {"fly_speed": 1}}`,
		"empty_pal.json":  `{"version": 1, "parameters": {"fly_speed": 1}, "palette": {"palettes": []}}`,
		"garbage.json":    `{]`,
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := LoadState(path, NewStore()); err == nil {
			t.Fatalf("%s: expected an error", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := LoadState(filepath.Join(t.TempDir(), "absent.json"), NewStore()); err == nil {
		t.Fatal("expected read error")
	}
}

func TestLoadQuantizesValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	body := []byte(`{
  "version": 1,
  "parameters": {"kaleidoscope_segments": 13, "contrast": 99},
  "palette": {"palettes": [{"a":[0,0,0],"b":[0,0,0],"c":[0,0,0],"d":[0,0,0],"name":"x"}]}
}`)
	if err := os.WriteFile(path, body, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s := NewStore()
	if _, err := LoadState(path, s); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := s.Get(PKaleidoscopeSegments); got != 14 {
		t.Fatalf("segments = %v, want even-snapped 14", got)
	}
	if got := s.Get(PContrast); got != 3 {
		t.Fatalf("contrast = %v, want clamped 3", got)
	}
}
