// Package scene provides the scene graph the renderer draws: transform
// nodes carrying meshes and materials, the light set and the background.
package scene

import (
	"github.com/Faultbox/dualview/internal/engine/lighting"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/internal/engine/texture"
	"github.com/Faultbox/dualview/pkg/math"
)

// Background is what fills pixels no mesh covers. A cube map, once set,
// replaces the solid colour.
type Background struct {
	Color material.Color
	Cube  *texture.Cube
}

// Scene is the root of everything drawn in a frame.
type Scene struct {
	Root       *Node
	Background Background
	Lights     lighting.Set
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{Root: NewNode("scene")}
}

// Add attaches a node under the root.
func (s *Scene) Add(n *Node) {
	s.Root.Add(n)
}

// Update recomputes all world matrices.
func (s *Scene) Update() {
	s.Root.UpdateWorldMatrix()
}

// Count returns the number of nodes and of mesh nodes below the root.
func (s *Scene) Count() (nodes, meshes int) {
	s.Root.Traverse(func(n *Node) {
		if n == s.Root {
			return
		}
		nodes++
		if n.Mesh != nil {
			meshes++
		}
	})
	return nodes, meshes
}

// BoxFromObject returns the world-space bounds of every mesh in the subtree
// rooted at n, updating world matrices first.
func BoxFromObject(n *Node) math.Box3 {
	n.UpdateWorldMatrix()
	box := math.EmptyBox()
	n.Traverse(func(c *Node) {
		if c.Mesh == nil {
			return
		}
		box = box.Union(c.Mesh.Bounds.Transform(c.world))
	})
	return box
}
