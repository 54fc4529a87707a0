package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/pkg/math"
)

func assertVec(t *testing.T, want, got math.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, 1e-4, "x")
	assert.InDelta(t, want.Y, got.Y, 1e-4, "y")
	assert.InDelta(t, want.Z, got.Z, 1e-4, "z")
}

func TestAddReparents(t *testing.T) {
	a := NewNode("a")
	b := NewNode("b")
	cube := NewNode("cube")

	a.Add(cube)
	require.Same(t, a, cube.Parent())

	b.Add(cube)
	assert.Same(t, b, cube.Parent())
	assert.Empty(t, a.Children())
	assert.Len(t, b.Children(), 1)
}

func TestAddIgnoresSelfAndNil(t *testing.T) {
	a := NewNode("a")
	a.Add(a)
	a.Add(nil)
	assert.Empty(t, a.Children())
}

func TestWorldMatrixComposesParents(t *testing.T) {
	group := NewNode("group")
	group.Position = math.V3(0, 10, 0)
	cube := NewNode("cube")
	cube.Position = math.V3(2, 1, 0)
	group.Add(cube)

	group.UpdateWorldMatrix()
	assertVec(t, math.V3(2, 11, 0), cube.WorldPosition())

	group.Rotation.Y = math32.Pi / 2
	group.UpdateWorldMatrix()
	assertVec(t, math.V3(0, 11, -2), cube.WorldPosition())
}

func TestTraverseVisible(t *testing.T) {
	root := NewNode("root")
	shown := NewNode("shown")
	hidden := NewNode("hidden")
	hidden.Visible = false
	hidden.Add(NewNode("under-hidden"))
	root.Add(shown)
	root.Add(hidden)

	var all, visible []string
	root.Traverse(func(n *Node) { all = append(all, n.Name) })
	root.TraverseVisible(func(n *Node) { visible = append(visible, n.Name) })

	assert.Equal(t, []string{"root", "shown", "hidden", "under-hidden"}, all)
	assert.Equal(t, []string{"root", "shown"}, visible)
}

func TestBoxFromObject(t *testing.T) {
	root := NewNode("model")
	left := NewMeshNode("left", geometry.Box(1, 1, 1), material.NewPhong(material.White))
	left.Position = math.V3(-2, 0, 0)
	right := NewMeshNode("right", geometry.Box(1, 2, 1), material.NewPhong(material.White))
	right.Position = math.V3(3, 1, 0)
	root.Add(left)
	root.Add(right)
	root.Add(NewNode("empty"))

	box := BoxFromObject(root)
	assertVec(t, math.V3(-2.5, -0.5, -0.5), box.Min)
	assertVec(t, math.V3(3.5, 2, 0.5), box.Max)
	assertVec(t, math.V3(0.5, 0.75, 0), box.Center())
	assertVec(t, math.V3(6, 2.5, 1), box.Size())
}

func TestBoxFromObjectEmpty(t *testing.T) {
	assert.True(t, BoxFromObject(NewNode("empty")).IsEmpty())
}

func TestMaterialFallback(t *testing.T) {
	red := material.NewPhong(material.Hex(0xFF0000))
	blue := material.NewPhong(material.Hex(0x0000FF))
	n := NewMeshNode("cube", geometry.Box(1, 1, 1), red, blue)

	assert.Same(t, blue, n.Material(1))
	assert.Same(t, red, n.Material(5))
	assert.Nil(t, NewNode("group").Material(0))
}

func TestSetShadows(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.Add(child)
	root.SetShadows(true, true)
	assert.True(t, child.CastShadow)
	assert.True(t, child.ReceiveShadow)
}

func TestSceneCount(t *testing.T) {
	s := New()
	s.Add(NewMeshNode("plane", geometry.Plane(40, 40), material.NewPhong(material.White)))
	g := NewNode("group")
	g.Add(NewMeshNode("cube", geometry.Box(1, 1, 1), material.NewBasic(material.White)))
	s.Add(g)

	nodes, meshes := s.Count()
	assert.Equal(t, 3, nodes)
	assert.Equal(t, 2, meshes)
}
