package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/dualview/pkg/math"
)

func pos(v Vertex) math.Vec3 { return math.V3(v.Position[0], v.Position[1], v.Position[2]) }
func nrm(v Vertex) math.Vec3 { return math.V3(v.Normal[0], v.Normal[1], v.Normal[2]) }

// assertOutwardWinding checks each triangle's counter-clockwise normal agrees
// with its vertex normals.
func assertOutwardWinding(t *testing.T, m *Mesh) {
	t.Helper()
	require.Zero(t, len(m.Indices)%3)
	for i := 0; i < len(m.Indices); i += 3 {
		a, b, c := m.Vertices[m.Indices[i]], m.Vertices[m.Indices[i+1]], m.Vertices[m.Indices[i+2]]
		face := pos(b).Sub(pos(a)).Cross(pos(c).Sub(pos(a)))
		if face.Length() < 1e-9 {
			t.Fatalf("triangle %d is degenerate", i/3)
		}
		avg := nrm(a).Add(nrm(b)).Add(nrm(c))
		if face.Dot(avg) <= 0 {
			t.Fatalf("triangle %d winds inward", i/3)
		}
	}
}

func TestPlane(t *testing.T) {
	m := Plane(40, 40)
	assert.Len(t, m.Vertices, 4)
	assert.Equal(t, 2, m.TriangleCount())
	assert.Equal(t, math.V3(-20, -20, 0), m.Bounds.Min)
	assert.Equal(t, math.V3(20, 20, 0), m.Bounds.Max)
	require.Len(t, m.Groups, 1)
	assert.Equal(t, int32(6), m.Groups[0].IndexCount)
	assertOutwardWinding(t, m)
}

func TestBoxGroups(t *testing.T) {
	m := Box(4, 0.5, 1)
	assert.Len(t, m.Vertices, 24)
	assert.Len(t, m.Indices, 36)
	require.Len(t, m.Groups, 6)
	for i, g := range m.Groups {
		assert.Equal(t, i, g.MaterialIndex)
		assert.Equal(t, int32(i*6), g.StartIndex)
		assert.Equal(t, int32(6), g.IndexCount)
	}
	assert.Equal(t, math.V3(-2, -0.25, -0.5), m.Bounds.Min)
	assert.Equal(t, math.V3(2, 0.25, 0.5), m.Bounds.Max)
	assertOutwardWinding(t, m)
}

func TestBoxFaceNormals(t *testing.T) {
	m := Box(1, 1, 1)
	want := []math.Vec3{
		math.V3(1, 0, 0), math.V3(-1, 0, 0),
		math.V3(0, 1, 0), math.V3(0, -1, 0),
		math.V3(0, 0, 1), math.V3(0, 0, -1),
	}
	for i, g := range m.Groups {
		v := m.Vertices[m.Indices[g.StartIndex]]
		assert.Equal(t, want[i], nrm(v), "face %d", i)
	}
}

func TestCylinder(t *testing.T) {
	m := Cylinder(0.5, 0.5, 10, 32)
	// torso rings plus two caps of center + ring
	assert.Len(t, m.Vertices, 2*33+2*34)
	assert.Equal(t, 32*2+32*2, m.TriangleCount())
	assert.InDelta(t, -5, m.Bounds.Min.Y, 1e-5)
	assert.InDelta(t, 5, m.Bounds.Max.Y, 1e-5)
	assert.InDelta(t, 0.5, m.Bounds.Max.X, 1e-3)
	assertOutwardWinding(t, m)
}

func TestConeOmitsCap(t *testing.T) {
	m := Cylinder(0, 1, 2, 8)
	assert.Equal(t, 8*2+8, m.TriangleCount())
}

func TestSphere(t *testing.T) {
	m := Sphere(2, 32, 32)
	assert.Len(t, m.Vertices, 33*33)
	assert.Equal(t, 32*(2*32-2), m.TriangleCount())
	for _, v := range m.Vertices {
		assert.InDelta(t, 2, pos(v).Length(), 1e-4)
	}
	assert.InDelta(t, 2, m.Bounds.Max.Y, 1e-5)
	assert.InDelta(t, -2, m.Bounds.Min.Y, 1e-5)
	assertOutwardWinding(t, m)
}
