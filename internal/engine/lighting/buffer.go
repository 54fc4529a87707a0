package lighting

import "github.com/Faultbox/dualview/internal/engine/material"

// Maximum lights of each kind the shaders accept.
const (
	MaxDirectional = 2
	MaxPoint       = 8
	MaxSpot        = 4
)

// Uniforms holds lights flattened into fixed-size arrays for GPU upload.
// Colours are premultiplied by intensity. Arrays are always full length;
// the counts say how many entries are live.
type Uniforms struct {
	HemiSky    [3]float32
	HemiGround [3]float32

	DirCount     int32
	DirDirection [MaxDirectional * 3]float32
	DirColor     [MaxDirectional * 3]float32

	PointCount    int32
	PointPosition [MaxPoint * 3]float32
	PointColor    [MaxPoint * 3]float32
	PointDistance [MaxPoint]float32
	PointDecay    [MaxPoint]float32

	SpotCount     int32
	SpotPosition  [MaxSpot * 3]float32
	SpotDirection [MaxSpot * 3]float32
	SpotColor     [MaxSpot * 3]float32
	SpotDistance  [MaxSpot]float32
	SpotDecay     [MaxSpot]float32
	SpotCosOuter  [MaxSpot]float32
	SpotCosInner  [MaxSpot]float32
}

// Pack flattens set, dropping lights past the per-kind maximum.
// It returns how many lights were dropped.
func Pack(set *Set) (Uniforms, int) {
	return PackWith(set, nil)
}

// PackWith is Pack with every light colour passed through decode before it
// is scaled by intensity. A nil decode keeps colours as they are.
func PackWith(set *Set, decode func(material.Color) material.Color) (Uniforms, int) {
	radiance := func(c material.Color, intensity float32) material.Color {
		if decode != nil {
			c = decode(c)
		}
		return c.Scale(intensity)
	}

	var u Uniforms
	if set == nil {
		return u, 0
	}
	dropped := 0

	if h := set.Hemisphere; h != nil {
		u.HemiSky = radiance(h.Sky, h.Intensity)
		u.HemiGround = radiance(h.Ground, h.Intensity)
	}

	for _, d := range set.Directional {
		if u.DirCount == MaxDirectional {
			dropped++
			continue
		}
		i := int(u.DirCount) * 3
		put3(u.DirDirection[i:], d.Direction().Array())
		put3(u.DirColor[i:], radiance(d.Color, d.Intensity))
		u.DirCount++
	}

	for _, p := range set.Point {
		if u.PointCount == MaxPoint {
			dropped++
			continue
		}
		n := int(u.PointCount)
		put3(u.PointPosition[n*3:], p.Position.Array())
		put3(u.PointColor[n*3:], radiance(p.Color, p.Intensity))
		u.PointDistance[n] = p.Distance
		u.PointDecay[n] = p.Decay
		u.PointCount++
	}

	for _, s := range set.Spot {
		if u.SpotCount == MaxSpot {
			dropped++
			continue
		}
		n := int(u.SpotCount)
		put3(u.SpotPosition[n*3:], s.Position.Array())
		put3(u.SpotDirection[n*3:], s.Direction().Array())
		put3(u.SpotColor[n*3:], radiance(s.Color, s.Intensity))
		u.SpotDistance[n] = s.Distance
		u.SpotDecay[n] = s.Decay
		u.SpotCosOuter[n], u.SpotCosInner[n] = s.ConeCosines()
		u.SpotCount++
	}

	return u, dropped
}

func put3(dst []float32, v [3]float32) {
	dst[0], dst[1], dst[2] = v[0], v[1], v[2]
}
