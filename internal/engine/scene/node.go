package scene

import (
	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/pkg/math"
)

// Node is an element of the scene graph. A node with a Mesh is drawn with
// Materials indexed by the mesh's groups; a node without one only groups
// and transforms its children.
type Node struct {
	Name string

	Position math.Vec3
	Rotation math.Vec3 // Euler angles in radians, XYZ order
	Scale    math.Vec3

	Visible       bool
	CastShadow    bool
	ReceiveShadow bool

	Mesh      *geometry.Mesh
	Materials []*material.Material

	parent   *Node
	children []*Node
	world    math.Mat4
}

// NewNode creates an empty group node.
func NewNode(name string) *Node {
	return &Node{
		Name:    name,
		Scale:   math.V3(1, 1, 1),
		Visible: true,
		world:   math.Identity(),
	}
}

// NewMeshNode creates a node drawing mesh. A single material is used for
// every group.
func NewMeshNode(name string, mesh *geometry.Mesh, materials ...*material.Material) *Node {
	n := NewNode(name)
	n.Mesh = mesh
	n.Materials = materials
	return n
}

// Add attaches child, detaching it from any previous parent first.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.children = append(n.children, child)
}

// Remove detaches child if it is a direct child of n.
func (n *Node) Remove(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			return
		}
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node { return n.parent }

// Children returns the direct children. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// Material returns the material for a mesh group, falling back to the
// first material when the index is out of range.
func (n *Node) Material(index int) *material.Material {
	if len(n.Materials) == 0 {
		return nil
	}
	if index < 0 || index >= len(n.Materials) {
		return n.Materials[0]
	}
	return n.Materials[index]
}

// Traverse calls fn for n and every descendant, depth first.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// TraverseVisible is like Traverse but skips hidden subtrees.
func (n *Node) TraverseVisible(fn func(*Node)) {
	if !n.Visible {
		return
	}
	fn(n)
	for _, c := range n.children {
		c.TraverseVisible(fn)
	}
}

// LocalMatrix returns translation * rotation * scale.
func (n *Node) LocalMatrix() math.Mat4 {
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// UpdateWorldMatrix recomputes the world matrices of n and its descendants
// from the parent's current world matrix.
func (n *Node) UpdateWorldMatrix() {
	if n.parent != nil {
		n.world = n.parent.world.Mul(n.LocalMatrix())
	} else {
		n.world = n.LocalMatrix()
	}
	for _, c := range n.children {
		c.UpdateWorldMatrix()
	}
}

// WorldMatrix returns the matrix computed by the last UpdateWorldMatrix.
func (n *Node) WorldMatrix() math.Mat4 { return n.world }

// WorldPosition returns the origin of n in world space.
func (n *Node) WorldPosition() math.Vec3 { return n.world.Translation() }

// SetShadows sets CastShadow and ReceiveShadow on n and all descendants.
func (n *Node) SetShadows(cast, receive bool) {
	n.Traverse(func(c *Node) {
		c.CastShadow = cast
		c.ReceiveShadow = receive
	})
}
