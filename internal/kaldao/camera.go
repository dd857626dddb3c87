package kaldao

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// PathOffset returns the lateral (x,y) offset of the flight path at depth z.
// The curve is three sin/cos pairs at the configured frequencies; stability 1
// collapses it to a straight line, 0 leaves it alone, and negative values
// extrapolate past the curve into wilder territory. Tilt adds a
// linear-in-depth drift so the tunnel leans instead of teleporting.
func (f *Frame) PathOffset(z float64) mgl64.Vec2 {
	curved := mgl64.Vec2{
		f.PathAmpPrimary*math.Sin(f.PathFreqPrimary*z) +
			f.PathAmpSecondary*math.Sin(f.PathFreqSecondary*z) +
			f.PathAmpTertiary*math.Sin(f.PathFreqTertiary*z),
		f.PathAmpPrimary*math.Cos(f.PathFreqPrimary*z) +
			f.PathAmpSecondary*math.Cos(f.PathFreqSecondary*z) +
			f.PathAmpTertiary*math.Cos(f.PathFreqTertiary*z),
	}.Mul(f.PathScale * (1 - f.PathStability))
	return curved.Add(mgl64.Vec2{f.CameraTiltX, f.CameraTiltY}.Mul(z))
}

// CameraFrame is the orthonormal basis the rays are built from.
type CameraFrame struct {
	Origin  mgl64.Vec3
	Right   mgl64.Vec3
	Up      mgl64.Vec3
	Forward mgl64.Vec3
}

// Camera places the eye on the path at the distance accumulator and derives
// the basis by numerical differentiation at ±BasisEpsilon. The second
// difference estimates lateral acceleration and banks the up reference into
// curves before orthonormalization; roll is applied per ray.
func (f *Frame) Camera() CameraFrame {
	z := f.Acc.Distance
	o0 := f.PathOffset(z)
	oPrev := f.PathOffset(z - BasisEpsilon)
	oNext := f.PathOffset(z + BasisEpsilon)

	forward := mgl64.Vec3{
		(oNext[0] - oPrev[0]) / (2 * BasisEpsilon),
		(oNext[1] - oPrev[1]) / (2 * BasisEpsilon),
		1,
	}.Normalize()

	accelX := (oNext[0] + oPrev[0] - 2*o0[0]) / (BasisEpsilon * BasisEpsilon)
	upRef := mgl64.Vec3{-accelX * f.CameraBank * 0.3, 1, 0}

	right := upRef.Cross(forward).Normalize()
	up := forward.Cross(right)

	return CameraFrame{
		Origin:  mgl64.Vec3{o0[0], o0[1], z},
		Right:   right,
		Up:      up,
		Forward: forward,
	}
}

// ray builds the view ray for aspect-corrected NDC coordinates (u,v), with
// roll folded into the screen axes and fov acting as focal length.
func (f *Frame) ray(cam CameraFrame, u, v float64) mgl64.Vec3 {
	cr := math.Cos(f.CameraRoll)
	sr := math.Sin(f.CameraRoll)
	ur := u*cr - v*sr
	vr := u*sr + v*cr
	return cam.Right.Mul(ur).
		Add(cam.Up.Mul(vr)).
		Add(cam.Forward.Mul(f.CameraFov)).
		Normalize()
}
