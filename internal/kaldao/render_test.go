package kaldao

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestRenderFrameDeterministic(t *testing.T) {
	f := defaultFrame(t)
	f.Acc.Distance = 2.4
	a := RenderFrame(&f, 64, 48)
	b := RenderFrame(&f, 64, 48)
	if len(a) != 64*48*4 {
		t.Fatalf("buffer length %d, want %d", len(a), 64*48*4)
	}
	if !bytes.Equal(a, b) {
		t.Fatal("two renders of the same frame differ")
	}
	for i := 3; i < len(a); i += 4 {
		if a[i] != 255 {
			t.Fatalf("alpha at %d is %d", i, a[i])
		}
	}
}

func TestRenderFrameNotBlank(t *testing.T) {
	f := defaultFrame(t)
	buf := RenderFrame(&f, 64, 48)
	first := buf[0]
	for i := 0; i < len(buf); i += 4 {
		if buf[i] != first {
			return
		}
	}
	t.Fatal("every pixel identical; the tunnel did not render")
}

func TestRenderImageBounds(t *testing.T) {
	f := defaultFrame(t)
	img := RenderImage(&f, 40, 30)
	b := img.Bounds()
	if b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("bounds %v", b)
	}
	if _, _, _, a := img.NRGBA64At(20, 15).RGBA(); a != 0xffff {
		t.Fatalf("alpha %v, want opaque", a)
	}
}

func TestSavePNGRoundTrip(t *testing.T) {
	f := defaultFrame(t)
	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(&f, 32, 24, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	in, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer in.Close()
	img, err := png.Decode(in)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 24 {
		t.Fatalf("decoded bounds %v", img.Bounds())
	}
}

func TestSavePNGBadPath(t *testing.T) {
	f := defaultFrame(t)
	if err := SavePNG(&f, 8, 8, filepath.Join(t.TempDir(), "no", "such", "dir.png")); err == nil {
		t.Fatal("expected create error")
	}
}
