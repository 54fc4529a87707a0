// Package geometry provides indexed triangle meshes and the primitive shapes
// the scene is built from.
package geometry

import "github.com/Faultbox/dualview/pkg/math"

// Vertex represents a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Group is a run of indices drawn with one material of the owning node.
type Group struct {
	MaterialIndex int
	StartIndex    int32
	IndexCount    int32
}

// Mesh holds triangle data ready for GPU upload. Triangles wind
// counter-clockwise when seen from the front.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   math.Box3
}

// NewMesh wraps vertices and indices. With no groups, a single group
// covering every index with material 0 is added.
func NewMesh(vertices []Vertex, indices []uint32, groups []Group) *Mesh {
	if len(groups) == 0 {
		groups = []Group{{MaterialIndex: 0, StartIndex: 0, IndexCount: int32(len(indices))}}
	}
	m := &Mesh{Vertices: vertices, Indices: indices, Groups: groups}
	m.ComputeBounds()
	return m
}

// ComputeBounds recalculates Bounds from the vertex positions.
func (m *Mesh) ComputeBounds() {
	b := math.EmptyBox()
	for _, v := range m.Vertices {
		b = b.ExpandByPoint(math.Vec3{X: v.Position[0], Y: v.Position[1], Z: v.Position[2]})
	}
	m.Bounds = b
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}
