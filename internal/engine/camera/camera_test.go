package camera

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/dualview/pkg/math"
)

func TestPerspectiveProjectionIsLazy(t *testing.T) {
	cam := NewPerspective(45, 2, 0.1, 100)
	require.True(t, cam.Dirty())

	p := cam.Projection()
	assert.False(t, cam.Dirty())
	assert.Equal(t, math.Perspective(45*math32.Pi/180, 2, 0.1, 100), p)

	cam.SetAspect(4.0 / 3.0)
	assert.True(t, cam.Dirty())
	assert.InDelta(t, p[5]/(4.0/3.0), cam.Projection()[0], 1e-5)
}

func TestPerspectiveUpdateProjectionMatrix(t *testing.T) {
	cam := NewPerspective(45, 2, 0.1, 100)
	cam.Aspect = 1
	cam.UpdateProjectionMatrix()
	assert.False(t, cam.Dirty())
	p := cam.Projection()
	assert.InDelta(t, p[0], p[5], 1e-6)
}

func TestOrthographicExtent(t *testing.T) {
	tests := []struct {
		name                     string
		zoom                     float32
		left, right, top, bottom float32
	}{
		{name: "unit zoom", zoom: 1, left: -2, right: 2, top: 1, bottom: -1},
		{name: "zoomed in", zoom: 2, left: -1, right: 1, top: 0.5, bottom: -0.5},
		{name: "zoomed out", zoom: 0.1, left: -20, right: 20, top: 10, bottom: -10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cam := NewOrthographic(-2, 2, 1, -1, 5, 50)
			cam.SetZoom(tt.zoom)
			l, r, top, b := cam.Extent()
			assert.InDelta(t, tt.left, l, 1e-5)
			assert.InDelta(t, tt.right, r, 1e-5)
			assert.InDelta(t, tt.top, top, 1e-5)
			assert.InDelta(t, tt.bottom, b, 1e-5)
		})
	}
}

func TestOrthographicSetBoundsMarksDirty(t *testing.T) {
	cam := NewOrthographic(-1, 1, 1, -1, 5, 50)
	cam.UpdateProjectionMatrix()
	require.False(t, cam.Dirty())

	cam.SetBounds(-1.5, 1.5, 1, -1)
	assert.True(t, cam.Dirty())
	p := cam.Projection()
	assert.InDelta(t, 2/3.0, p[0], 1e-5)
	assert.InDelta(t, 1, p[5], 1e-5)
	assert.False(t, cam.Dirty())
}

func TestViewLooksAtTarget(t *testing.T) {
	cam := NewPerspective(45, 2, 0.1, 100)
	cam.SetPosition(math.V3(0, 10, 20))
	cam.LookAt(math.Vec3{})

	// The target lands on the camera's -Z axis.
	p := cam.View().TransformPoint(math.Vec3{})
	assert.InDelta(t, 0, p.X, 1e-4)
	assert.InDelta(t, 0, p.Y, 1e-4)
	assert.InDelta(t, -math32.Sqrt(500), p.Z, 1e-3)
}

func TestCamerasImplementCamera(t *testing.T) {
	var _ Camera = NewPerspective(45, 1, 0.1, 100)
	var _ Camera = NewOrthographic(-1, 1, 1, -1, 0.1, 100)
}
