package camera

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/dualview/pkg/math"
)

const (
	orbitEpsilon = 1e-6
	moveEpsilon  = 1e-3
)

// OrbitControls rotates, dollies and pans a camera around a target point.
// Input methods accumulate deltas; Update applies them, easing out over
// several frames when damping is on.
type OrbitControls struct {
	Target math.Vec3

	EnableDamping      bool
	DampingFactor      float32
	ScreenSpacePanning bool

	// Distance limits apply to perspective cameras, zoom limits to orthographic ones.
	MinDistance, MaxDistance float32
	MinZoom, MaxZoom         float32
	// Polar angle limits in radians, measured from +Y.
	MinPolar, MaxPolar float32

	RotateSpeed float32
	ZoomSpeed   float32
	PanSpeed    float32

	camera Camera

	azimuthDelta float32
	polarDelta   float32
	scale        float32
	panOffset    math.Vec3
	zoomChanged  bool
}

// NewOrbitControls creates controls for cam orbiting the origin.
func NewOrbitControls(cam Camera) *OrbitControls {
	return &OrbitControls{
		DampingFactor: 0.05,
		MinDistance:   0,
		MaxDistance:   math32.Inf(1),
		MinZoom:       0,
		MaxZoom:       math32.Inf(1),
		MinPolar:      0,
		MaxPolar:      math32.Pi,
		RotateSpeed:   1,
		ZoomSpeed:     1,
		PanSpeed:      1,
		camera:        cam,
		scale:         1,
	}
}

// Camera returns the controlled camera.
func (c *OrbitControls) Camera() Camera { return c.camera }

// Rotate orbits by a pointer drag of (dx, dy) pixels in a pane viewportHeight pixels tall.
func (c *OrbitControls) Rotate(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float32(viewportHeight)
	c.azimuthDelta += 2 * math32.Pi * dx / h * c.RotateSpeed
	c.polarDelta -= 2 * math32.Pi * dy / h * c.RotateSpeed
}

// Dolly moves toward the target for positive scroll and away for negative.
func (c *OrbitControls) Dolly(scroll float32) {
	if scroll == 0 {
		return
	}
	step := math32.Pow(0.95, c.ZoomSpeed)
	in := scroll > 0

	switch cam := c.camera.(type) {
	case *Orthographic:
		zoom := cam.Zoom
		if in {
			zoom /= step
		} else {
			zoom *= step
		}
		cam.SetZoom(mgl32.Clamp(zoom, c.MinZoom, c.MaxZoom))
		c.zoomChanged = true
	default:
		if in {
			c.scale *= step
		} else {
			c.scale /= step
		}
	}
}

// Pan slides the camera and target by a drag of (dx, dy) pixels.
func (c *OrbitControls) Pan(dx, dy float32, viewportHeight int) {
	if viewportHeight <= 0 {
		return
	}
	h := float32(viewportHeight)
	dx *= c.PanSpeed
	dy *= c.PanSpeed

	switch cam := c.camera.(type) {
	case *Perspective:
		dist := cam.Position().Sub(c.Target).Length() * math32.Tan(cam.FOV/2*math32.Pi/180)
		c.panLeft(2 * dx * dist / h)
		c.panUp(2 * dy * dist / h)
	case *Orthographic:
		// left/right track aspect, so one world-per-pixel ratio serves both axes
		perPixel := (cam.Top - cam.Bottom) / cam.Zoom / h
		c.panLeft(dx * perPixel)
		c.panUp(dy * perPixel)
	}
}

func (c *OrbitControls) panLeft(distance float32) {
	right, _ := c.cameraAxes()
	c.panOffset = c.panOffset.Add(right.Scale(-distance))
}

func (c *OrbitControls) panUp(distance float32) {
	right, up := c.cameraAxes()
	if !c.ScreenSpacePanning {
		up = math.Vec3{Y: 1}.Cross(right)
	}
	c.panOffset = c.panOffset.Add(up.Scale(distance))
}

// cameraAxes returns the camera's world-space right and up vectors.
func (c *OrbitControls) cameraAxes() (right, up math.Vec3) {
	v := c.camera.View()
	right = math.Vec3{X: v[0], Y: v[4], Z: v[8]}
	up = math.Vec3{X: v[1], Y: v[5], Z: v[9]}
	return right, up
}

// Update applies pending input to the camera and reports whether it moved.
func (c *OrbitControls) Update() bool {
	if c.idle() {
		c.camera.LookAt(c.Target)
		return false
	}

	pos := c.camera.Position()
	offset := pos.Sub(c.Target)

	// Spherical coordinates with +Y as the pole.
	r, polar, azimuth := float32(0), float32(0), float32(0)
	if offset.Length() > orbitEpsilon {
		r, polar, azimuth = mgl32.CartesianToSpherical(mgl32.Vec3{offset.X, offset.Z, offset.Y})
	}

	factor := float32(1)
	if c.EnableDamping {
		factor = c.DampingFactor
	}

	azimuth += c.azimuthDelta * factor
	polar += c.polarDelta * factor
	polar = mgl32.Clamp(polar, math32.Max(c.MinPolar, orbitEpsilon), math32.Min(c.MaxPolar, math32.Pi-orbitEpsilon))

	if _, ortho := c.camera.(*Orthographic); !ortho {
		r = mgl32.Clamp(r*c.scale, c.MinDistance, c.MaxDistance)
	}

	target := c.Target.Add(c.panOffset.Scale(factor))
	s := mgl32.SphericalToCartesian(r, polar, azimuth)
	next := target.Add(math.Vec3{X: s[0], Y: s[2], Z: s[1]})

	c.camera.SetPosition(next)
	c.camera.LookAt(target)

	moved := next.Distance(pos) > moveEpsilon || target.Distance(c.Target) > moveEpsilon || c.zoomChanged
	c.Target = target

	if c.EnableDamping {
		c.azimuthDelta *= 1 - factor
		c.polarDelta *= 1 - factor
		c.panOffset = c.panOffset.Scale(1 - factor)
	} else {
		c.azimuthDelta, c.polarDelta = 0, 0
		c.panOffset = math.Vec3{}
	}
	c.scale = 1
	c.zoomChanged = false

	return moved
}

func (c *OrbitControls) idle() bool {
	return c.azimuthDelta == 0 && c.polarDelta == 0 && c.scale == 1 &&
		c.panOffset == (math.Vec3{}) && !c.zoomChanged
}
