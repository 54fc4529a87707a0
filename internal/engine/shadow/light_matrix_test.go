package shadow

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"

	"github.com/Faultbox/dualview/internal/engine/lighting"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/pkg/math"
)

func inClip(p math.Vec3) bool {
	const eps = 1e-4
	return p.X >= -1-eps && p.X <= 1+eps &&
		p.Y >= -1-eps && p.Y <= 1+eps &&
		p.Z >= -1-eps && p.Z <= 1+eps
}

func sunLight() *lighting.Directional {
	l := lighting.NewDirectional(material.White, 1)
	l.Position = math.V3(5, 10, 2)
	l.Shadow.Left, l.Shadow.Right = -15, 15
	l.Shadow.Top, l.Shadow.Bottom = 15, -15
	l.Shadow.Near, l.Shadow.Far = 1, 50
	return l
}

func TestDirectionalMatrixMapsTargetToCentre(t *testing.T) {
	l := sunLight()
	m := DirectionalMatrix(l)

	c := m.TransformPoint(l.Target)
	assert.InDelta(t, 0, c.X, 1e-5)
	assert.InDelta(t, 0, c.Y, 1e-5)
	assert.True(t, inClip(c))

	// the light itself sits in front of the near plane
	p := m.TransformPoint(l.Position)
	assert.Less(t, p.Z, float32(-1))
}

func TestDirectionalMatrixCoversBox(t *testing.T) {
	l := sunLight()
	m := DirectionalMatrix(l)
	// corners of a 20x20 ground patch
	for _, x := range []float32{-10, 10} {
		for _, z := range []float32{-10, 10} {
			assert.True(t, inClip(m.TransformPoint(math.V3(x, 0, z))), "corner %v,%v", x, z)
		}
	}
	assert.False(t, inClip(m.TransformPoint(math.V3(40, 0, 0))))
}

func TestDirectionalMatrixStraightDown(t *testing.T) {
	l := sunLight()
	l.Position = math.V3(0, 10, 0)
	m := DirectionalMatrix(l)
	for _, v := range m {
		assert.False(t, math32.IsNaN(v))
	}
}

func TestSpotMatrix(t *testing.T) {
	l := lighting.NewSpot(material.White, 90, 30, math32.Pi/4, 0.5, 1)
	l.Position = math.V3(-10, 15, 0)
	m := SpotMatrix(l)

	c := m.TransformPoint(l.Target)
	assert.InDelta(t, 0, c.X, 1e-4)
	assert.InDelta(t, 0, c.Y, 1e-4)
	assert.True(t, inClip(c))

	// beyond the light distance falls outside the frustum
	dir := l.Direction()
	far := l.Position.Add(dir.Scale(31))
	assert.Greater(t, m.TransformPoint(far).Z, float32(1))
}

func TestSpotMatrixWithoutDistance(t *testing.T) {
	l := lighting.NewSpot(material.White, 1, 0, math32.Pi/6, 0, 1)
	l.Position = math.V3(0, 0, 100)
	m := SpotMatrix(l)
	// the default far plane reaches 500 units
	assert.True(t, inClip(m.TransformPoint(math.V3(0, 0, -300))))
}

func TestFitDirectional(t *testing.T) {
	l := sunLight()
	bounds := math.Box3{Min: math.V3(-20, 0, -20), Max: math.V3(20, 12, 20)}
	FitDirectional(l, bounds)

	m := DirectionalMatrix(l)
	for _, c := range bounds.Corners() {
		assert.True(t, inClip(m.TransformPoint(c)), "corner %v", c)
	}
	assert.Greater(t, l.Shadow.Far, l.Shadow.Near)
}

func TestFitDirectionalEmptyBounds(t *testing.T) {
	l := sunLight()
	before := l.Shadow
	FitDirectional(l, math.EmptyBox())
	assert.Equal(t, before, l.Shadow)
}
