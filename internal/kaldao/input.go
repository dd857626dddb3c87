package kaldao

import "github.com/go-gl/glfw/v3.3/glfw"

const (
	repeatDelay    = 0.3
	repeatInterval = 0.08
)

// Input tracks key edges on top of GLFW's polled state. A key is consulted
// through either JustPressed or Repeats each frame, never both.
type Input struct {
	prevKeys map[glfw.Key]bool
	nextFire map[glfw.Key]float64
}

func NewInput() *Input {
	return &Input{
		prevKeys: make(map[glfw.Key]bool),
		nextFire: make(map[glfw.Key]float64),
	}
}

// JustPressed reports a rising edge for key.
func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

// Repeats reports how many adjustment ticks key contributes this frame:
// one on the press edge, then once per repeat interval after the initial
// delay while held. Holding an arrow key scrubs a parameter smoothly.
// edge is true only on the frame the key went down, which is when a hold
// counts as one undoable action.
func (in *Input) Repeats(window *glfw.Window, key glfw.Key, dt float64) (ticks int, edge bool) {
	down := window.GetKey(key) == glfw.Press
	was := in.prevKeys[key]
	in.prevKeys[key] = down
	if !down {
		return 0, false
	}
	if !was {
		in.nextFire[key] = repeatDelay
		return 1, true
	}
	left := in.nextFire[key] - dt
	for left <= 0 {
		ticks++
		left += repeatInterval
	}
	in.nextFire[key] = left
	return ticks, false
}

// Shift reports whether either shift key is held.
func (in *Input) Shift(window *glfw.Window) bool {
	return window.GetKey(glfw.KeyLeftShift) == glfw.Press ||
		window.GetKey(glfw.KeyRightShift) == glfw.Press
}
