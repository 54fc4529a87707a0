// Package material describes how mesh surfaces are shaded.
package material

import "github.com/Faultbox/dualview/internal/engine/texture"

// Color is a linear RGB triple in [0, 1].
type Color [3]float32

// Hex converts 0xRRGGBB to a Color.
func Hex(rgb uint32) Color {
	return Color{
		float32(rgb>>16&0xFF) / 255,
		float32(rgb>>8&0xFF) / 255,
		float32(rgb&0xFF) / 255,
	}
}

// White is full-intensity white.
var White = Color{1, 1, 1}

// Scale multiplies every channel by s.
func (c Color) Scale(s float32) Color {
	return Color{c[0] * s, c[1] * s, c[2] * s}
}

// Side selects which triangle faces are drawn.
type Side int

const (
	Front Side = iota
	Back
	Double
)

// Kind selects the shading model.
type Kind int

const (
	// Phong is lit with ambient, diffuse and specular terms and receives shadows.
	Phong Kind = iota
	// Basic is unlit: output is color times map.
	Basic
)

// Material is a surface description shared by any number of meshes.
type Material struct {
	Name string
	Kind Kind

	Color     Color
	Specular  Color
	Emissive  Color
	Shininess float32
	Opacity   float32

	Map *texture.Texture

	Side      Side
	Wireframe bool
}

// NewPhong creates a lit material.
func NewPhong(color Color) *Material {
	return &Material{
		Kind:      Phong,
		Color:     color,
		Specular:  Hex(0x111111),
		Shininess: 30,
		Opacity:   1,
	}
}

// NewBasic creates an unlit material.
func NewBasic(color Color) *Material {
	return &Material{
		Kind:    Basic,
		Color:   color,
		Opacity: 1,
	}
}

// Transparent reports whether the material needs blending.
func (m *Material) Transparent() bool {
	return m.Opacity < 1
}
