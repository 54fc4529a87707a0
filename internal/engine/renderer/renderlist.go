package renderer

import (
	"sort"

	"github.com/chewxy/math32"
	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/internal/engine/scene"
	"github.com/Faultbox/dualview/internal/engine/texture"
	"github.com/Faultbox/dualview/pkg/math"
)

// drawItem is one mesh group queued for a pane.
type drawItem struct {
	node  *scene.Node
	group geometry.Group
	mat   *material.Material
	// depth is the distance in front of the camera along its view axis.
	depth float32
}

// buildDrawList collects the visible mesh groups under root. Opaque items
// come back front to back, transparent ones back to front. World matrices
// must be current.
func buildDrawList(root *scene.Node, view math.Mat4) (opaque, transparent []drawItem) {
	root.TraverseVisible(func(n *scene.Node) {
		if n.Mesh == nil || len(n.Mesh.Indices) == 0 {
			return
		}
		depth := -view.TransformPoint(n.WorldPosition()).Z
		for _, g := range n.Mesh.Groups {
			m := n.Material(g.MaterialIndex)
			if m == nil || g.IndexCount <= 0 {
				continue
			}
			item := drawItem{node: n, group: g, mat: m, depth: depth}
			if m.Transparent() {
				transparent = append(transparent, item)
			} else {
				opaque = append(opaque, item)
			}
		}
	})

	sort.SliceStable(opaque, func(i, j int) bool { return opaque[i].depth < opaque[j].depth })
	sort.SliceStable(transparent, func(i, j int) bool { return transparent[i].depth > transparent[j].depth })
	return opaque, transparent
}

// shadowCasters returns the visible mesh nodes that cast shadows.
func shadowCasters(root *scene.Node) []*scene.Node {
	var out []*scene.Node
	root.TraverseVisible(func(n *scene.Node) {
		if n.Mesh != nil && n.CastShadow && len(n.Mesh.Indices) > 0 {
			out = append(out, n)
		}
	})
	return out
}

// srgbToLinear decodes an sRGB-authored colour for lighting.
func srgbToLinear(c material.Color) [3]float32 {
	var out [3]float32
	for i, v := range c {
		if v <= 0.04045 {
			out[i] = v / 12.92
		} else {
			out[i] = math32.Pow((v+0.055)/1.055, 2.4)
		}
	}
	return out
}

// uvTransform packs a texture's repeat and offset as xy scale, zw offset.
func uvTransform(t *texture.Texture) [4]float32 {
	if t == nil {
		return [4]float32{1, 1, 0, 0}
	}
	return [4]float32{t.Repeat[0], t.Repeat[1], t.Offset[0], t.Offset[1]}
}

func glWrap(w texture.Wrap) int32 {
	switch w {
	case texture.Repeat:
		return gl.REPEAT
	case texture.MirroredRepeat:
		return gl.MIRRORED_REPEAT
	default:
		return gl.CLAMP_TO_EDGE
	}
}

// glFilters returns min and mag filters. Nearest magnification keeps
// mipmapped nearest minification so tiled pixel art stays crisp.
func glFilters(f texture.Filter) (minFilter, magFilter int32) {
	if f == texture.Nearest {
		return gl.NEAREST_MIPMAP_LINEAR, gl.NEAREST
	}
	return gl.LINEAR_MIPMAP_LINEAR, gl.LINEAR
}

// cullState returns whether to cull and which face for a material side.
func cullState(side material.Side) (enabled bool, face uint32) {
	switch side {
	case material.Back:
		return true, gl.FRONT
	case material.Double:
		return false, gl.BACK
	default:
		return true, gl.BACK
	}
}
