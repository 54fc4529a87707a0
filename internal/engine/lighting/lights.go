// Package lighting describes the scene's light sources and packs them for
// GPU upload.
package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/pkg/math"
)

// ShadowCamera is the frustum a shadow-casting light renders depth through.
// Directional lights use the box bounds; spot lights derive their cone from
// the light angle and use only Near, Far and MapSize.
type ShadowCamera struct {
	Left, Right float32
	Top, Bottom float32
	Near, Far   float32
	MapSize     int32
	Bias        float32
}

// DefaultShadowCamera matches a unit box with a 512 texel map.
func DefaultShadowCamera() ShadowCamera {
	return ShadowCamera{
		Left: -5, Right: 5, Top: 5, Bottom: -5,
		Near: 0.5, Far: 500,
		MapSize: 512,
		Bias:    0.0005,
	}
}

// Hemisphere is ambient light blended between a sky colour above and a
// ground colour below, by surface normal.
type Hemisphere struct {
	Sky       material.Color
	Ground    material.Color
	Intensity float32
}

// Directional is parallel light shining from Position toward Target.
type Directional struct {
	Color      material.Color
	Intensity  float32
	Position   math.Vec3
	Target     math.Vec3
	CastShadow bool
	Shadow     ShadowCamera
}

// NewDirectional creates a directional light aimed at the origin.
func NewDirectional(color material.Color, intensity float32) *Directional {
	return &Directional{
		Color:     color,
		Intensity: intensity,
		Position:  math.Vec3{Y: 1},
		Shadow:    DefaultShadowCamera(),
	}
}

// Direction returns the unit vector from the lit surface toward the light.
func (d *Directional) Direction() math.Vec3 {
	return d.Position.Sub(d.Target).Normalize()
}

// Point radiates in all directions from Position. Distance 0 means no cutoff.
type Point struct {
	Color     material.Color
	Intensity float32
	Distance  float32
	Decay     float32
	Position  math.Vec3
}

// NewPoint creates a point light.
func NewPoint(color material.Color, intensity, distance, decay float32) *Point {
	return &Point{Color: color, Intensity: intensity, Distance: distance, Decay: decay}
}

// Spot is a cone of light from Position toward Target. Angle is the cone
// half-angle in radians; Penumbra is the fraction of it that fades out.
type Spot struct {
	Color      material.Color
	Intensity  float32
	Distance   float32
	Angle      float32
	Penumbra   float32
	Decay      float32
	Position   math.Vec3
	Target     math.Vec3
	CastShadow bool
	Shadow     ShadowCamera
}

// NewSpot creates a spot light aimed at the origin.
func NewSpot(color material.Color, intensity, distance, angle, penumbra, decay float32) *Spot {
	return &Spot{
		Color:     color,
		Intensity: intensity,
		Distance:  distance,
		Angle:     angle,
		Penumbra:  penumbra,
		Decay:     decay,
		Shadow:    DefaultShadowCamera(),
	}
}

// Direction returns the unit vector the cone points along.
func (s *Spot) Direction() math.Vec3 {
	return s.Target.Sub(s.Position).Normalize()
}

// ConeCosines returns cos of the outer and inner cone edges.
func (s *Spot) ConeCosines() (outer, inner float32) {
	return math32.Cos(s.Angle), math32.Cos(s.Angle * (1 - s.Penumbra))
}

// Set is every light in a scene.
type Set struct {
	Hemisphere  *Hemisphere
	Directional []*Directional
	Point       []*Point
	Spot        []*Spot
}

// Attenuation is the distance falloff of point and spot lights:
// inverse power decay, windowed to reach zero at cutoff.
func Attenuation(d, cutoff, decay float32) float32 {
	f := 1 / math32.Max(math32.Pow(d, decay), 0.01)
	if cutoff > 0 {
		w := saturate(1 - math32.Pow(d/cutoff, 4))
		f *= w * w
	}
	return f
}

// SpotFactor is the angular falloff for a direction cosTheta from the spot axis.
func SpotFactor(cosOuter, cosInner, cosTheta float32) float32 {
	return smoothstep(cosOuter, cosInner, cosTheta)
}

func saturate(x float32) float32 {
	return math32.Max(0, math32.Min(1, x))
}

func smoothstep(edge0, edge1, x float32) float32 {
	if edge0 == edge1 {
		if x < edge0 {
			return 0
		}
		return 1
	}
	t := saturate((x - edge0) / (edge1 - edge0))
	return t * t * (3 - 2*t)
}
