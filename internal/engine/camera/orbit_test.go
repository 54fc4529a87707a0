package camera

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/dualview/pkg/math"
)

func newPerspectiveRig() (*Perspective, *OrbitControls) {
	cam := NewPerspective(45, 2, 0.1, 100)
	cam.SetPosition(math.V3(0, 10, 20))
	cam.LookAt(math.Vec3{})
	return cam, NewOrbitControls(cam)
}

func TestUpdateWithoutInputKeepsCamera(t *testing.T) {
	cam, controls := newPerspectiveRig()
	before := cam.Position()

	assert.False(t, controls.Update())
	after := cam.Position()
	assert.InDelta(t, before.X, after.X, 1e-4)
	assert.InDelta(t, before.Y, after.Y, 1e-4)
	assert.InDelta(t, before.Z, after.Z, 1e-4)
}

func TestRotateKeepsDistance(t *testing.T) {
	cam, controls := newPerspectiveRig()
	dist := cam.Position().Length()

	controls.Rotate(100, 0, 600)
	require.True(t, controls.Update())

	assert.InDelta(t, dist, cam.Position().Length(), 1e-3)
	assert.InDelta(t, 10, cam.Position().Y, 1e-3)
	assert.NotEqual(t, float32(0), cam.Position().X)
}

func TestRotateClampsPolar(t *testing.T) {
	cam, controls := newPerspectiveRig()
	controls.MaxPolar = 1.0

	controls.Rotate(0, -10000, 600)
	controls.Update()

	p := cam.Position()
	assert.Greater(t, math.V3(p.X, 0, p.Z).Length(), float32(0))
	// angle from +Y never exceeds MaxPolar
	assert.GreaterOrEqual(t, p.Y/p.Length(), float32(0.54))
}

func TestDampingEasesOut(t *testing.T) {
	cam, controls := newPerspectiveRig()
	controls.EnableDamping = true
	controls.DampingFactor = 0.5

	controls.Rotate(300, 0, 600)
	require.True(t, controls.Update())
	first := cam.Position()

	require.True(t, controls.Update())
	second := cam.Position()
	assert.Greater(t, second.Distance(first), float32(0))

	// The remaining delta decays toward zero.
	for i := 0; i < 200; i++ {
		controls.Update()
	}
	assert.False(t, controls.Update())
}

func TestDollyPerspective(t *testing.T) {
	cam, controls := newPerspectiveRig()
	dist := cam.Position().Length()

	controls.Dolly(1)
	controls.Update()
	assert.Less(t, cam.Position().Length(), dist)

	controls.MaxDistance = 5
	controls.Dolly(-1)
	controls.Update()
	assert.InDelta(t, 5, cam.Position().Length(), 1e-3)
}

func TestDollyOrthographicClampsZoom(t *testing.T) {
	cam := NewOrthographic(-1, 1, 1, -1, 5, 50)
	cam.SetZoom(0.1)
	cam.SetPosition(math.V3(10, 10, 10))
	cam.LookAt(math.Vec3{})
	controls := NewOrbitControls(cam)
	controls.MinZoom = 0.1
	controls.MaxZoom = 2

	controls.Dolly(-1)
	assert.True(t, controls.Update())
	assert.InDelta(t, 0.1, cam.Zoom, 1e-6)

	for i := 0; i < 200; i++ {
		controls.Dolly(1)
	}
	controls.Update()
	assert.InDelta(t, 2, cam.Zoom, 1e-6)
	assert.True(t, cam.Dirty())

	// distance to target is untouched by orthographic zoom
	assert.InDelta(t, math.V3(10, 10, 10).Length(), cam.Position().Length(), 1e-3)
}

func TestPanScreenSpaceMovesTarget(t *testing.T) {
	cam := NewOrthographic(-1, 1, 1, -1, 5, 50)
	cam.SetPosition(math.V3(0, 0, 10))
	cam.LookAt(math.Vec3{})
	controls := NewOrbitControls(cam)
	controls.ScreenSpacePanning = true

	controls.Pan(0, 100, 200)
	require.True(t, controls.Update())
	assert.InDelta(t, 1, controls.Target.Y, 1e-4)
	assert.InDelta(t, 1, cam.Position().Y, 1e-4)
}

func TestPanGroundPlane(t *testing.T) {
	cam, controls := newPerspectiveRig()

	controls.Pan(0, 50, 600)
	require.True(t, controls.Update())
	assert.InDelta(t, 0, controls.Target.Y, 1e-4)
	assert.Less(t, controls.Target.Z, float32(0))
	assert.InDelta(t, 10, cam.Position().Y, 1e-3)
}

func TestZeroViewportIgnored(t *testing.T) {
	_, controls := newPerspectiveRig()
	controls.Rotate(10, 10, 0)
	controls.Pan(10, 10, 0)
	assert.False(t, controls.Update())
}
