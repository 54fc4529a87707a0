package loader

import (
	"fmt"

	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/internal/engine/scene"
	"github.com/Faultbox/dualview/internal/engine/texture"
	"github.com/Faultbox/dualview/pkg/math"
)

// DefaultMaterial is the light grey used for faces whose material is missing.
func DefaultMaterial() *material.Material {
	m := material.NewPhong(material.Hex(0xA0A0A0))
	m.Name = "default"
	m.Side = material.Double
	return m
}

// Build turns a parsed model into a node tree: a root named name with one
// mesh child per non-empty object. Each child has one geometry group per
// material, in order of first use. lib may be nil. textures maps
// DiffuseMap names to loaded textures; absent entries leave Map nil.
// The returned warnings name materials that could not be resolved.
func Build(name string, obj *OBJ, lib *MTL, textures map[string]*texture.Texture) (*scene.Node, []string) {
	b := &builder{
		obj:      obj,
		lib:      lib,
		textures: textures,
		cache:    make(map[string]*material.Material),
	}

	root := scene.NewNode(name)
	for _, o := range obj.Objects {
		if len(o.Faces) == 0 {
			continue
		}
		root.Add(b.object(o))
	}
	return root, b.warnings
}

type builder struct {
	obj      *OBJ
	lib      *MTL
	textures map[string]*texture.Texture
	cache    map[string]*material.Material
	fallback *material.Material
	warnings []string
}

type cornerKey struct {
	position, uv, normal int
}

func (b *builder) object(o *Object) *scene.Node {
	// Bucket faces by material, keeping first-use order.
	var order []string
	byMat := make(map[string][]*Face)
	for i := range o.Faces {
		f := &o.Faces[i]
		if _, ok := byMat[f.Material]; !ok {
			order = append(order, f.Material)
		}
		byMat[f.Material] = append(byMat[f.Material], f)
	}

	var (
		vertices  []geometry.Vertex
		indices   []uint32
		groups    []geometry.Group
		materials []*material.Material
		shared    = make(map[cornerKey]uint32)
	)
	for gi, matName := range order {
		start := int32(len(indices))
		for _, f := range byMat[matName] {
			flat := faceNormal(b.obj, f)
			corner := make([]uint32, len(f.Corners))
			for i, c := range f.Corners {
				if c.Normal != noIndex {
					key := cornerKey{c.Position, c.UV, c.Normal}
					idx, ok := shared[key]
					if !ok {
						idx = uint32(len(vertices))
						vertices = append(vertices, b.vertex(c, flat))
						shared[key] = idx
					}
					corner[i] = idx
					continue
				}
				corner[i] = uint32(len(vertices))
				vertices = append(vertices, b.vertex(c, flat))
			}
			// fan triangulation
			for i := 2; i < len(corner); i++ {
				indices = append(indices, corner[0], corner[i-1], corner[i])
			}
		}
		groups = append(groups, geometry.Group{
			MaterialIndex: gi,
			StartIndex:    start,
			IndexCount:    int32(len(indices)) - start,
		})
		materials = append(materials, b.material(matName))
	}

	return scene.NewMeshNode(o.Name, geometry.NewMesh(vertices, indices, groups), materials...)
}

func (b *builder) vertex(c Corner, flat math.Vec3) geometry.Vertex {
	v := geometry.Vertex{Position: b.obj.Positions[c.Position]}
	if c.UV != noIndex {
		v.TexCoord = b.obj.UVs[c.UV]
	}
	if c.Normal != noIndex {
		v.Normal = b.obj.Normals[c.Normal]
	} else {
		v.Normal = flat.Array()
	}
	return v
}

// faceNormal computes the polygon normal with Newell's method.
func faceNormal(obj *OBJ, f *Face) math.Vec3 {
	var n math.Vec3
	count := len(f.Corners)
	for i := range f.Corners {
		a := obj.Positions[f.Corners[i].Position]
		c := obj.Positions[f.Corners[(i+1)%count].Position]
		n.X += (a[1] - c[1]) * (a[2] + c[2])
		n.Y += (a[2] - c[2]) * (a[0] + c[0])
		n.Z += (a[0] - c[0]) * (a[1] + c[1])
	}
	if n.Length() < 1e-12 {
		return math.V3(0, 1, 0)
	}
	return n.Normalize()
}

func (b *builder) material(name string) *material.Material {
	if m, ok := b.cache[name]; ok {
		return m
	}

	var src *MTLMaterial
	if b.lib != nil {
		src = b.lib.Materials[name]
	}
	if src == nil {
		if b.fallback == nil {
			b.fallback = DefaultMaterial()
		}
		if name == "" {
			b.warnings = append(b.warnings, "faces without usemtl use the default material")
		} else {
			b.warnings = append(b.warnings, fmt.Sprintf("material %q not found, using default", name))
		}
		b.cache[name] = b.fallback
		return b.fallback
	}

	m := ConvertMaterial(src, b.textures[src.DiffuseMap])
	b.cache[name] = m
	return m
}

// ConvertMaterial maps an MTL entry onto a double-sided Phong material.
// The texture, if any, is copied so per-material tiling does not leak
// between materials sharing an image.
func ConvertMaterial(src *MTLMaterial, tex *texture.Texture) *material.Material {
	m := material.NewPhong(material.Color(src.Diffuse))
	m.Name = src.Name
	m.Specular = material.Color(src.Specular)
	m.Emissive = material.Color(src.Emissive)
	m.Shininess = src.Shininess
	m.Opacity = src.Opacity
	m.Side = material.Double

	if tex != nil {
		t := *tex
		if src.MapRepeat != [2]float32{1, 1} {
			t.SetRepeat(src.MapRepeat[0], src.MapRepeat[1])
		} else {
			// OBJ texture coordinates routinely leave [0, 1].
			t.WrapS, t.WrapT = texture.Repeat, texture.Repeat
		}
		t.Offset = src.MapOffset
		m.Map = &t
	}
	return m
}
