package kaldao

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func defaultFrame(t *testing.T) Frame {
	t.Helper()
	d := NewDriver(NewStore(), nil)
	f, err := d.Step(0)
	if err != nil {
		t.Fatalf("step: %v", err)
	}
	return f
}

func TestPathStabilityOneIsStraight(t *testing.T) {
	f := defaultFrame(t)
	f.PathStability = 1
	for _, z := range []float64{0, 1.7, -40, 123.456} {
		o := f.PathOffset(z)
		if o[0] != 0 || o[1] != 0 {
			t.Fatalf("offset at z=%v: %v, want origin", z, o)
		}
	}

	cam := f.Camera()
	if !almostEq(cam.Forward[2], 1) || !almostEq(cam.Forward[0], 0) || !almostEq(cam.Forward[1], 0) {
		t.Fatalf("straight-path forward = %v, want +z", cam.Forward)
	}
}

func TestTiltDriftsLinearly(t *testing.T) {
	f := defaultFrame(t)
	f.PathStability = 1
	f.CameraTiltX = 0.5
	f.CameraTiltY = -0.25
	o := f.PathOffset(4)
	if !almostEq(o[0], 2) || !almostEq(o[1], -1) {
		t.Fatalf("tilted offset = %v, want (2,-1)", o)
	}
}

func TestCameraBasisOrthonormal(t *testing.T) {
	f := defaultFrame(t)
	f.CameraBank = 2
	for _, dist := range []float64{0, 3.1, 57.9, 400} {
		f.Acc.Distance = dist
		cam := f.Camera()
		axes := []mgl64.Vec3{cam.Right, cam.Up, cam.Forward}
		for i, a := range axes {
			if math.Abs(a.Len()-1) > 1e-9 {
				t.Fatalf("dist %v: axis %d length %v", dist, i, a.Len())
			}
			for j := i + 1; j < len(axes); j++ {
				if dot := a.Dot(axes[j]); math.Abs(dot) > 1e-9 {
					t.Fatalf("dist %v: axes %d,%d dot %v", dist, i, j, dot)
				}
			}
		}
		// Right-handed: right × up = forward.
		if d := cam.Right.Cross(cam.Up).Sub(cam.Forward).Len(); d > 1e-9 {
			t.Fatalf("dist %v: basis not right-handed (|r×u−f| = %v)", dist, d)
		}
	}
}

func TestCameraOriginFollowsPath(t *testing.T) {
	f := defaultFrame(t)
	f.Acc.Distance = 12.5
	cam := f.Camera()
	want := f.PathOffset(12.5)
	if !almostEq(cam.Origin[0], want[0]) || !almostEq(cam.Origin[1], want[1]) || !almostEq(cam.Origin[2], 12.5) {
		t.Fatalf("origin = %v, want (%v,%v,12.5)", cam.Origin, want[0], want[1])
	}
}

func TestRayRollRotatesScreenAxes(t *testing.T) {
	f := defaultFrame(t)
	f.PathStability = 1
	cam := f.Camera()

	r0 := f.ray(cam, 1, 0)
	f.CameraRoll = math.Pi / 2
	r90 := f.ray(cam, 1, 0)

	// A quarter roll moves the +u direction onto +v.
	f.CameraRoll = 0
	want := f.ray(cam, 0, 1)
	if r90.Sub(want).Len() > 1e-9 {
		t.Fatalf("rolled ray %v, want %v", r90, want)
	}
	if r0.Sub(r90).Len() < 1e-3 {
		t.Fatal("roll had no effect")
	}

	if math.Abs(r0.Len()-1) > 1e-9 {
		t.Fatalf("ray not unit length: %v", r0.Len())
	}
}

func TestRayFovNarrowsSpread(t *testing.T) {
	f := defaultFrame(t)
	f.PathStability = 1
	cam := f.Camera()

	f.CameraFov = 1
	wide := f.ray(cam, 1, 0).Dot(cam.Forward)
	f.CameraFov = 2.5
	narrow := f.ray(cam, 1, 0).Dot(cam.Forward)
	if narrow <= wide {
		t.Fatalf("longer focal length should hug forward: %v vs %v", narrow, wide)
	}
}
