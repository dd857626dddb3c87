package kaldao

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

type paramUniform struct {
	name string
	loc  int32
	get  func(*Frame) float64
}

// Presenter draws frames with the fragment-shader twin on a fullscreen
// quad. Uniform locations are resolved once at construction; the
// per-parameter ones come straight from the frame binding table, so the
// shader can't silently miss a key the merge step carries.
type Presenter struct {
	program uint32
	vao     uint32
	vbo     uint32

	uResolution   int32
	uDistance     int32
	uRotation     int32
	uPlaneRot     int32
	uColorPhase   int32
	uPalA         int32
	uPalB         int32
	uPalC         int32
	uPalD         int32
	uColorEnabled int32
	uInvert       int32

	params []paramUniform
}

func NewPresenter() (*Presenter, error) {
	program, err := linkProgram(quadVertSrc, fieldFragSrc)
	if err != nil {
		return nil, fmt.Errorf("presenter: %w", err)
	}
	p := &Presenter{program: program}
	gl.UseProgram(program)

	// Fullscreen quad (6 vertices, 2 triangles) in NDC.
	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	quadVerts := [12]float32{
		-1, -1, 1, -1, 1, 1,
		-1, -1, 1, 1, -1, 1,
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVerts)*4, gl.Ptr(&quadVerts[0]), gl.STATIC_DRAW)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, glOffset(0))
	p.vao = vao
	p.vbo = vbo

	fixed := []struct {
		name string
		dst  *int32
	}{
		{"uResolution", &p.uResolution},
		{"uDistance", &p.uDistance},
		{"uRotation", &p.uRotation},
		{"uPlaneRot", &p.uPlaneRot},
		{"uColorPhase", &p.uColorPhase},
		{"uPalA", &p.uPalA},
		{"uPalB", &p.uPalB},
		{"uPalC", &p.uPalC},
		{"uPalD", &p.uPalD},
		{"uColorEnabled", &p.uColorEnabled},
		{"uInvert", &p.uInvert},
	}
	for _, u := range fixed {
		loc := gl.GetUniformLocation(program, gl.Str(u.name+"\x00"))
		if loc < 0 {
			p.Destroy()
			return nil, fmt.Errorf("presenter: uniform %s missing from program", u.name)
		}
		*u.dst = loc
	}

	// A missing parameter uniform means the shader and the binding table
	// drifted apart. That is a build mistake, so it fails startup instead
	// of rendering with a dead knob.
	p.params = make([]paramUniform, 0, len(frameBindings))
	for _, b := range frameBindings {
		name := "u_" + b.key
		loc := gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		if loc < 0 {
			p.Destroy()
			return nil, fmt.Errorf("presenter: uniform %s missing from program", name)
		}
		p.params = append(p.params, paramUniform{name: name, loc: loc, get: b.get})
	}
	return p, nil
}

// Draw renders f over the whole framebuffer.
func (p *Presenter) Draw(f *Frame, width, height int) {
	gl.UseProgram(p.program)
	gl.Viewport(0, 0, int32(width), int32(height))

	gl.Uniform2f(p.uResolution, float32(width), float32(height))
	gl.Uniform1f(p.uDistance, float32(f.Acc.Distance))
	gl.Uniform1f(p.uRotation, float32(f.Acc.Rotation))
	gl.Uniform1f(p.uPlaneRot, float32(f.Acc.PlaneRot))
	gl.Uniform1f(p.uColorPhase, float32(f.Acc.ColorPhase))

	a := vec3f(f.Palette.A)
	b := vec3f(f.Palette.B)
	c := vec3f(f.Palette.C)
	d := vec3f(f.Palette.D)
	gl.Uniform3fv(p.uPalA, 1, &a[0])
	gl.Uniform3fv(p.uPalB, 1, &b[0])
	gl.Uniform3fv(p.uPalC, 1, &c[0])
	gl.Uniform3fv(p.uPalD, 1, &d[0])

	gl.Uniform1i(p.uColorEnabled, boolInt(f.ColorEnabled))
	gl.Uniform1i(p.uInvert, boolInt(f.Invert))

	for _, u := range p.params {
		gl.Uniform1f(u.loc, float32(u.get(f)))
	}

	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
}

func (p *Presenter) Destroy() {
	gl.DeleteBuffers(1, &p.vbo)
	gl.DeleteVertexArrays(1, &p.vao)
	gl.DeleteProgram(p.program)
}

func vec3f(v [3]float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
