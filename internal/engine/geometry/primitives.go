package geometry

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/dualview/pkg/math"
)

// Plane creates a width x height rectangle in the XY plane facing +Z.
func Plane(width, height float32) *Mesh {
	hw, hh := width/2, height/2
	n := [3]float32{0, 0, 1}
	vertices := []Vertex{
		{Position: [3]float32{-hw, -hh, 0}, Normal: n, TexCoord: [2]float32{0, 0}},
		{Position: [3]float32{hw, -hh, 0}, Normal: n, TexCoord: [2]float32{1, 0}},
		{Position: [3]float32{hw, hh, 0}, Normal: n, TexCoord: [2]float32{1, 1}},
		{Position: [3]float32{-hw, hh, 0}, Normal: n, TexCoord: [2]float32{0, 1}},
	}
	return NewMesh(vertices, []uint32{0, 1, 2, 0, 2, 3}, nil)
}

// boxFace describes one side of a box: its outward normal and the two
// in-plane axes with u x v == normal.
type boxFace struct {
	normal, u, v math.Vec3
}

// Face order matches material groups: +x, -x, +y, -y, +z, -z.
var boxFaces = [6]boxFace{
	{normal: math.V3(1, 0, 0), u: math.V3(0, 0, -1), v: math.V3(0, 1, 0)},
	{normal: math.V3(-1, 0, 0), u: math.V3(0, 0, 1), v: math.V3(0, 1, 0)},
	{normal: math.V3(0, 1, 0), u: math.V3(1, 0, 0), v: math.V3(0, 0, -1)},
	{normal: math.V3(0, -1, 0), u: math.V3(1, 0, 0), v: math.V3(0, 0, 1)},
	{normal: math.V3(0, 0, 1), u: math.V3(1, 0, 0), v: math.V3(0, 1, 0)},
	{normal: math.V3(0, 0, -1), u: math.V3(-1, 0, 0), v: math.V3(0, 1, 0)},
}

// Box creates a box centred on the origin. Each face is its own group,
// using material indices 0..5 in +x, -x, +y, -y, +z, -z order.
func Box(width, height, depth float32) *Mesh {
	half := math.V3(width/2, height/2, depth/2)
	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	groups := make([]Group, 0, 6)

	for i, f := range boxFaces {
		hu := absDot(f.u, half)
		hv := absDot(f.v, half)
		center := f.normal.Scale(absDot(f.normal, half))
		base := uint32(len(vertices))

		corners := [4]struct {
			su, sv float32
		}{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		for _, c := range corners {
			p := center.Add(f.u.Scale(c.su * hu)).Add(f.v.Scale(c.sv * hv))
			vertices = append(vertices, Vertex{
				Position: p.Array(),
				Normal:   f.normal.Array(),
				TexCoord: [2]float32{(c.su + 1) / 2, (c.sv + 1) / 2},
			})
		}

		groups = append(groups, Group{MaterialIndex: i, StartIndex: int32(len(indices)), IndexCount: 6})
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh(vertices, indices, groups)
}

func absDot(axis, v math.Vec3) float32 {
	return math32.Abs(axis.X)*v.X + math32.Abs(axis.Y)*v.Y + math32.Abs(axis.Z)*v.Z
}

// Cylinder creates a capped cylinder (or truncated cone) along Y, centred
// on the origin. A zero radius omits that cap.
func Cylinder(radiusTop, radiusBottom, height float32, radialSegments int) *Mesh {
	if radialSegments < 3 {
		radialSegments = 3
	}
	hh := height / 2
	slope := (radiusBottom - radiusTop) / height

	var vertices []Vertex
	var indices []uint32

	// Torso: two rings of radialSegments+1 vertices, top first.
	rings := [2][]uint32{}
	for row := 0; row < 2; row++ {
		v := float32(row)
		radius := v*(radiusBottom-radiusTop) + radiusTop
		for x := 0; x <= radialSegments; x++ {
			u := float32(x) / float32(radialSegments)
			sin, cos := math32.Sincos(u * 2 * math32.Pi)
			n := math.V3(sin, slope, cos).Normalize()
			rings[row] = append(rings[row], uint32(len(vertices)))
			vertices = append(vertices, Vertex{
				Position: [3]float32{radius * sin, -v*height + hh, radius * cos},
				Normal:   n.Array(),
				TexCoord: [2]float32{u, 1 - v},
			})
		}
	}
	for x := 0; x < radialSegments; x++ {
		a, b := rings[0][x], rings[1][x]
		c, d := rings[1][x+1], rings[0][x+1]
		indices = append(indices, a, b, d, b, c, d)
	}

	addCap := func(top bool, radius float32) {
		if radius <= 0 {
			return
		}
		y, ny := hh, float32(1)
		if !top {
			y, ny = -hh, -1
		}
		center := uint32(len(vertices))
		vertices = append(vertices, Vertex{
			Position: [3]float32{0, y, 0},
			Normal:   [3]float32{0, ny, 0},
			TexCoord: [2]float32{0.5, 0.5},
		})
		for x := 0; x <= radialSegments; x++ {
			sin, cos := math32.Sincos(float32(x) / float32(radialSegments) * 2 * math32.Pi)
			vertices = append(vertices, Vertex{
				Position: [3]float32{radius * sin, y, radius * cos},
				Normal:   [3]float32{0, ny, 0},
				TexCoord: [2]float32{cos*0.5 + 0.5, sin*0.5*ny + 0.5},
			})
		}
		for x := uint32(0); x < uint32(radialSegments); x++ {
			i := center + 1 + x
			if top {
				indices = append(indices, center, i, i+1)
			} else {
				indices = append(indices, center, i+1, i)
			}
		}
	}
	addCap(true, radiusTop)
	addCap(false, radiusBottom)

	return NewMesh(vertices, indices, nil)
}

// Sphere creates a UV sphere centred on the origin.
func Sphere(radius float32, widthSegments, heightSegments int) *Mesh {
	if widthSegments < 3 {
		widthSegments = 3
	}
	if heightSegments < 2 {
		heightSegments = 2
	}

	grid := make([][]uint32, heightSegments+1)
	vertices := make([]Vertex, 0, (widthSegments+1)*(heightSegments+1))
	for y := 0; y <= heightSegments; y++ {
		v := float32(y) / float32(heightSegments)
		sinT, cosT := math32.Sincos(v * math32.Pi)
		for x := 0; x <= widthSegments; x++ {
			u := float32(x) / float32(widthSegments)
			sinP, cosP := math32.Sincos(u * 2 * math32.Pi)
			n := math.V3(-cosP*sinT, cosT, sinP*sinT)
			grid[y] = append(grid[y], uint32(len(vertices)))
			vertices = append(vertices, Vertex{
				Position: n.Scale(radius).Array(),
				Normal:   n.Array(),
				TexCoord: [2]float32{u, 1 - v},
			})
		}
	}

	var indices []uint32
	for y := 0; y < heightSegments; y++ {
		for x := 0; x < widthSegments; x++ {
			a := grid[y][x+1]
			b := grid[y][x]
			c := grid[y+1][x]
			d := grid[y+1][x+1]
			// poles collapse to a single triangle per segment
			if y != 0 {
				indices = append(indices, a, b, d)
			}
			if y != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}
	return NewMesh(vertices, indices, nil)
}
