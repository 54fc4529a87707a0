// Package camera provides the perspective and orthographic cameras and the
// orbit controls that drive them.
package camera

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/dualview/pkg/math"
)

// Camera is what a draw call needs from a viewpoint.
type Camera interface {
	Projection() math.Mat4
	View() math.Mat4
	Position() math.Vec3
	SetPosition(p math.Vec3)
	LookAt(target math.Vec3)
}

// transform is the placement shared by both camera kinds.
type transform struct {
	position math.Vec3
	target   math.Vec3
	up       math.Vec3
}

func newTransform() transform {
	return transform{
		target: math.Vec3{Z: -1},
		up:     math.Vec3{Y: 1},
	}
}

// Position returns the camera position in world space.
func (t *transform) Position() math.Vec3 { return t.position }

// SetPosition moves the camera, keeping its look-at target.
func (t *transform) SetPosition(p math.Vec3) { t.position = p }

// LookAt aims the camera at target.
func (t *transform) LookAt(target math.Vec3) { t.target = target }

// Target returns the point the camera looks at.
func (t *transform) Target() math.Vec3 { return t.target }

// View returns the world-to-camera matrix.
func (t *transform) View() math.Mat4 {
	return math.LookAt(t.position, t.target, t.up)
}

// Perspective is a pinhole camera with a vertical field of view in degrees.
type Perspective struct {
	transform

	FOV    float32
	Aspect float32
	Near   float32
	Far    float32

	projection math.Mat4
	dirty      bool
}

// NewPerspective creates a perspective camera.
func NewPerspective(fov, aspect, near, far float32) *Perspective {
	return &Perspective{
		transform: newTransform(),
		FOV:       fov,
		Aspect:    aspect,
		Near:      near,
		Far:       far,
		dirty:     true,
	}
}

// SetAspect changes the aspect ratio and marks the projection stale.
func (c *Perspective) SetAspect(aspect float32) {
	c.Aspect = aspect
	c.dirty = true
}

// Dirty reports whether the projection must be recomputed.
func (c *Perspective) Dirty() bool { return c.dirty }

// UpdateProjectionMatrix recomputes the projection from the current fields.
func (c *Perspective) UpdateProjectionMatrix() {
	c.projection = math.Perspective(c.FOV*math32.Pi/180, c.Aspect, c.Near, c.Far)
	c.dirty = false
}

// Projection returns the projection matrix, recomputing it if stale.
func (c *Perspective) Projection() math.Mat4 {
	if c.dirty {
		c.UpdateProjectionMatrix()
	}
	return c.projection
}

// Orthographic is a parallel-projection camera. Zoom scales the frustum
// around its centre: zoom 2 shows half the extent.
type Orthographic struct {
	transform

	Left, Right float32
	Top, Bottom float32
	Near, Far   float32
	Zoom        float32

	projection math.Mat4
	dirty      bool
}

// NewOrthographic creates an orthographic camera with zoom 1.
func NewOrthographic(left, right, top, bottom, near, far float32) *Orthographic {
	return &Orthographic{
		transform: newTransform(),
		Left:      left,
		Right:     right,
		Top:       top,
		Bottom:    bottom,
		Near:      near,
		Far:       far,
		Zoom:      1,
		dirty:     true,
	}
}

// SetBounds replaces the horizontal and vertical extents.
func (c *Orthographic) SetBounds(left, right, top, bottom float32) {
	c.Left, c.Right, c.Top, c.Bottom = left, right, top, bottom
	c.dirty = true
}

// SetZoom changes the zoom factor.
func (c *Orthographic) SetZoom(zoom float32) {
	c.Zoom = zoom
	c.dirty = true
}

// Dirty reports whether the projection must be recomputed.
func (c *Orthographic) Dirty() bool { return c.dirty }

// Extent returns the bounds after zoom is applied.
func (c *Orthographic) Extent() (left, right, top, bottom float32) {
	zoom := c.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	dx := (c.Right - c.Left) / (2 * zoom)
	dy := (c.Top - c.Bottom) / (2 * zoom)
	cx := (c.Right + c.Left) / 2
	cy := (c.Top + c.Bottom) / 2
	return cx - dx, cx + dx, cy + dy, cy - dy
}

// UpdateProjectionMatrix recomputes the projection from the current fields.
func (c *Orthographic) UpdateProjectionMatrix() {
	left, right, top, bottom := c.Extent()
	c.projection = math.Ortho(left, right, bottom, top, c.Near, c.Far)
	c.dirty = false
}

// Projection returns the projection matrix, recomputing it if stale.
func (c *Orthographic) Projection() math.Mat4 {
	if c.dirty {
		c.UpdateProjectionMatrix()
	}
	return c.projection
}
