package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/dualview/internal/engine/camera"
	"github.com/Faultbox/dualview/internal/engine/input"
	"github.com/Faultbox/dualview/internal/engine/viewport"
)

type dragMode int

const (
	dragNone dragMode = iota
	dragRotate
	dragDolly
	dragPan
)

// pointer routes mouse input to the orbit controls of the pane under the
// cursor. A drag stays with the pane it started in until the button is
// released.
type pointer struct {
	compositor *viewport.Compositor
	controls   map[camera.Camera]*camera.OrbitControls
	mods       func() sdl.Keymod

	active *camera.OrbitControls
	mode   dragMode
	button uint8
	height int
}

func newPointer(c *viewport.Compositor, controls ...*camera.OrbitControls) *pointer {
	p := &pointer{
		compositor: c,
		controls:   make(map[camera.Camera]*camera.OrbitControls),
		mods:       sdl.GetModState,
	}
	for _, oc := range controls {
		p.controls[oc.Camera()] = oc
	}
	return p
}

// surface describes the drawable the window coordinates map onto.
type surface struct {
	width, height  int
	scaleX, scaleY float32
}

func (s surface) toPixels(x, y int) (float32, float32) {
	return float32(x) * s.scaleX, float32(y) * s.scaleY
}

// at returns the controls for the pane under window point (x, y).
func (p *pointer) at(x, y int, s surface) (*camera.OrbitControls, int) {
	px, _ := s.toPixels(x, y)
	pane, rect := p.compositor.PaneAt(int(px), s.width, s.height)
	if pane == nil || pane.Camera == nil {
		return nil, 0
	}
	return p.controls[pane.Camera], rect.H
}

func (p *pointer) handle(e input.Event, s surface) {
	switch e.Type {
	case input.EventMouseDown:
		if p.mode != dragNone {
			return
		}
		oc, h := p.at(e.MouseX, e.MouseY, s)
		if oc == nil {
			return
		}
		p.active, p.height, p.button = oc, h, e.Button
		p.mode = modeFor(e.Button, p.mods())

	case input.EventMouseUp:
		if e.Button == p.button {
			p.release()
		}

	case input.EventMouseMove:
		if p.active == nil {
			return
		}
		dx, dy := s.toPixels(e.XRel, e.YRel)
		switch p.mode {
		case dragRotate:
			p.active.Rotate(dx, dy, p.height)
		case dragPan:
			p.active.Pan(dx, dy, p.height)
		case dragDolly:
			p.active.Dolly(-dy)
		}

	case input.EventWheel:
		if oc, _ := p.at(e.MouseX, e.MouseY, s); oc != nil {
			oc.Dolly(e.WheelY)
		}
	}
}

func (p *pointer) release() {
	p.active, p.mode, p.button, p.height = nil, dragNone, 0, 0
}

// modeFor maps a button to a drag the way orbit viewers usually do: left
// rotates, middle dollies, right pans. A modifier turns a left drag into a pan.
func modeFor(button uint8, mod sdl.Keymod) dragMode {
	switch button {
	case input.ButtonLeft:
		if mod&(sdl.KMOD_CTRL|sdl.KMOD_SHIFT|sdl.KMOD_GUI) != 0 {
			return dragPan
		}
		return dragRotate
	case input.ButtonMiddle:
		return dragDolly
	case input.ButtonRight:
		return dragPan
	}
	return dragNone
}
