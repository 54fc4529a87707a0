package lighting

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/pkg/math"
)

func TestAttenuation(t *testing.T) {
	tests := []struct {
		name             string
		d, cutoff, decay float32
		want             float32
	}{
		{name: "inverse linear", d: 2, cutoff: 0, decay: 1, want: 0.5},
		{name: "inverse square", d: 2, cutoff: 0, decay: 2, want: 0.25},
		{name: "no decay", d: 7, cutoff: 0, decay: 0, want: 1},
		{name: "clamped near source", d: 0, cutoff: 0, decay: 2, want: 100},
		{name: "at cutoff", d: 30, cutoff: 30, decay: 1, want: 0},
		{name: "past cutoff", d: 40, cutoff: 30, decay: 1, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Attenuation(tt.d, tt.cutoff, tt.decay), 1e-5)
		})
	}

	// window shrinks the falloff inside the cutoff
	windowed := Attenuation(15, 30, 1)
	w := 1 - math32.Pow(0.5, 4)
	assert.InDelta(t, w*w/15, windowed, 1e-6)
}

func TestSpotFactor(t *testing.T) {
	spot := NewSpot(material.Hex(0xA00FAA), 90, 30, math32.Pi/4, 0.5, 1)
	outer, inner := spot.ConeCosines()
	require.Less(t, outer, inner)

	assert.Equal(t, float32(1), SpotFactor(outer, inner, 1))
	assert.Equal(t, float32(0), SpotFactor(outer, inner, outer-0.01))
	mid := SpotFactor(outer, inner, (outer+inner)/2)
	assert.InDelta(t, 0.5, mid, 1e-5)

	// hard-edged cone
	assert.Equal(t, float32(1), SpotFactor(0.5, 0.5, 0.6))
	assert.Equal(t, float32(0), SpotFactor(0.5, 0.5, 0.4))
}

func TestDirections(t *testing.T) {
	d := NewDirectional(material.White, 1)
	d.Position = math.V3(0, 10, 0)
	assert.Equal(t, math.V3(0, 1, 0), d.Direction())

	s := NewSpot(material.White, 1, 0, 1, 0, 1)
	s.Position = math.V3(0, 15, 0)
	dir := s.Direction()
	assert.InDelta(t, 0, dir.X, 1e-6)
	assert.InDelta(t, -1, dir.Y, 1e-6)
	assert.InDelta(t, 0, dir.Z, 1e-6)
}

func TestPack(t *testing.T) {
	sun := NewDirectional(material.White, 1)
	sun.Position = math.V3(5, 10, 2)
	lamp := NewPoint(material.Hex(0xFFAA00), 100, 30, 1)
	lamp.Position = math.V3(10, 10, 10)
	spot := NewSpot(material.Hex(0xA00FAA), 90, 30, math32.Pi/4, 0.5, 1)
	spot.Position = math.V3(-10, 15, 0)

	set := &Set{
		Hemisphere:  &Hemisphere{Sky: material.Hex(0xB1E1FF), Ground: material.Hex(0xB97A20), Intensity: 0.2},
		Directional: []*Directional{sun},
		Point:       []*Point{lamp},
		Spot:        []*Spot{spot},
	}

	u, dropped := Pack(set)
	assert.Zero(t, dropped)
	assert.Equal(t, int32(1), u.DirCount)
	assert.Equal(t, int32(1), u.PointCount)
	assert.Equal(t, int32(1), u.SpotCount)

	assert.InDelta(t, 0.2, u.HemiSky[2], 1e-6)
	assert.InDelta(t, 100, u.PointColor[0], 1e-4)
	assert.InDelta(t, 100*0xAA/255.0, u.PointColor[1], 1e-3)
	assert.Equal(t, float32(30), u.PointDistance[0])
	assert.Equal(t, [3]float32{10, 10, 10}, [3]float32(u.PointPosition[0:3]))

	dir := sun.Direction()
	assert.InDelta(t, dir.X, u.DirDirection[0], 1e-6)
	assert.InDelta(t, math32.Cos(math32.Pi/4), u.SpotCosOuter[0], 1e-6)
	assert.InDelta(t, math32.Cos(math32.Pi/8), u.SpotCosInner[0], 1e-6)
}

func TestPackDropsOverflow(t *testing.T) {
	set := &Set{}
	for i := 0; i < MaxPoint+3; i++ {
		set.Point = append(set.Point, NewPoint(material.White, 1, 0, 2))
	}
	u, dropped := Pack(set)
	assert.Equal(t, int32(MaxPoint), u.PointCount)
	assert.Equal(t, 3, dropped)
}

func TestPackNil(t *testing.T) {
	u, dropped := Pack(nil)
	assert.Zero(t, dropped)
	assert.Zero(t, u.DirCount)
}

func TestPackWithDecodesBeforeIntensity(t *testing.T) {
	lamp := NewPoint(material.Color{0.5, 0.5, 0.5}, 4, 0, 2)
	set := &Set{Point: []*Point{lamp}}

	square := func(c material.Color) material.Color {
		return material.Color{c[0] * c[0], c[1] * c[1], c[2] * c[2]}
	}
	u, _ := PackWith(set, square)
	assert.InDelta(t, 1.0, u.PointColor[0], 1e-6)

	u, _ = Pack(set)
	assert.InDelta(t, 2.0, u.PointColor[0], 1e-6)
}
