package kaldao

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

type savedPalette struct {
	A    [3]float64 `json:"a"`
	B    [3]float64 `json:"b"`
	C    [3]float64 `json:"c"`
	D    [3]float64 `json:"d"`
	Name string     `json:"name"`
}

type savedColors struct {
	Current      int            `json:"currentPaletteIndex"`
	ColorEnabled bool           `json:"colorEnabled"`
	Invert       bool           `json:"invert"`
	Palettes     []savedPalette `json:"palettes"`
}

type savedAccumulators struct {
	Distance float64 `json:"distance"`
	Rotation float64 `json:"rotation"`
	Plane    float64 `json:"plane"`
	Color    float64 `json:"color"`
}

// savedState is the on-disk schema. Base values only: modifier layers are
// transient and never persisted.
type savedState struct {
	Version    int                `json:"version"`
	Timestamp  string             `json:"timestamp"`
	Parameters map[string]float64 `json:"parameters"`
	Palette    *savedColors       `json:"palette"`
	Acc        *savedAccumulators `json:"timeAccumulators"`
}

// SaveState writes the store's base values, the palette block and the
// clock accumulators, so a later load resumes the same place on the path.
func SaveState(path string, s *Store, acc Accumulators) error {
	snap := s.Snapshot()

	pals := make([]savedPalette, len(snap.Colors.Palettes))
	for i, p := range snap.Colors.Palettes {
		pals[i] = savedPalette{A: p.A, B: p.B, C: p.C, D: p.D, Name: p.Name}
	}
	st := savedState{
		Version:    StateVersion,
		Timestamp:  time.Now().Format(time.RFC3339),
		Parameters: snap.Params,
		Palette: &savedColors{
			Current:      snap.Colors.Current,
			ColorEnabled: snap.Colors.ColorEnabled,
			Invert:       snap.Colors.Invert,
			Palettes:     pals,
		},
		Acc: &savedAccumulators{
			Distance: acc.Distance,
			Rotation: acc.Rotation,
			Plane:    acc.PlaneRot,
			Color:    acc.ColorPhase,
		},
	}

	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("state: write %s: %w", path, err)
	}
	return nil
}

// LoadState restores a saved file into the store. Unknown parameter keys
// are ignored and missing ones keep their current values; every accepted
// value goes through the normal quantize path. The returned accumulators
// are nil when the file carries none.
func LoadState(path string, s *Store) (*Accumulators, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("state: read %s: %w", path, err)
	}
	var st savedState
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("state: parse %s: %w", path, err)
	}
	if st.Version > StateVersion {
		return nil, fmt.Errorf("state: %s was saved by a newer version (%d)", path, st.Version)
	}
	if st.Parameters == nil {
		return nil, fmt.Errorf("state: %s has no parameters block", path)
	}
	if st.Palette == nil || len(st.Palette.Palettes) == 0 {
		return nil, fmt.Errorf("state: %s has no palette block", path)
	}

	pals := make([]CosinePalette, len(st.Palette.Palettes))
	for i, p := range st.Palette.Palettes {
		pals[i] = CosinePalette{A: p.A, B: p.B, C: p.C, D: p.D, Name: p.Name}
	}
	s.Restore(Snapshot{
		Params: st.Parameters,
		Colors: ColorState{
			Current:      st.Palette.Current,
			ColorEnabled: st.Palette.ColorEnabled,
			Invert:       st.Palette.Invert,
			Palettes:     pals,
		},
	})

	if st.Acc == nil {
		return nil, nil
	}
	return &Accumulators{
		Distance:   st.Acc.Distance,
		Rotation:   st.Acc.Rotation,
		PlaneRot:   st.Acc.Plane,
		ColorPhase: st.Acc.Color,
	}, nil
}
