package renderer

import (
	"testing"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/internal/engine/scene"
	"github.com/Faultbox/dualview/internal/engine/texture"
	"github.com/Faultbox/dualview/pkg/math"
)

func boxAt(name string, z float32, mat *material.Material) *scene.Node {
	n := scene.NewMeshNode(name, geometry.Box(1, 1, 1), mat)
	n.Position = math.V3(0, 0, z)
	return n
}

func TestBuildDrawListOrdering(t *testing.T) {
	sc := scene.New()
	glass := material.NewBasic(material.White)
	glass.Opacity = 0.5

	sc.Add(boxAt("far", -20, material.NewPhong(material.White)))
	sc.Add(boxAt("near", -2, material.NewPhong(material.White)))
	sc.Add(boxAt("mid", -10, material.NewPhong(material.White)))
	sc.Add(boxAt("glass-near", -3, glass))
	sc.Add(boxAt("glass-far", -15, glass))
	sc.Update()

	view := math.LookAt(math.V3(0, 0, 0), math.V3(0, 0, -1), math.V3(0, 1, 0))
	opaque, transparent := buildDrawList(sc.Root, view)

	require.Len(t, opaque, 3)
	assert.Equal(t, "near", opaque[0].node.Name)
	assert.Equal(t, "mid", opaque[1].node.Name)
	assert.Equal(t, "far", opaque[2].node.Name)
	assert.InDelta(t, 2, opaque[0].depth, 1e-5)

	require.Len(t, transparent, 2)
	assert.Equal(t, "glass-far", transparent[0].node.Name)
	assert.Equal(t, "glass-near", transparent[1].node.Name)
}

func TestBuildDrawListSkips(t *testing.T) {
	sc := scene.New()
	hidden := boxAt("hidden", -1, material.NewPhong(material.White))
	hidden.Visible = false
	sc.Add(hidden)
	sc.Add(scene.NewMeshNode("bare", geometry.Box(1, 1, 1)))
	sc.Add(scene.NewNode("group"))

	parent := scene.NewNode("parent")
	parent.Visible = false
	parent.Add(boxAt("child", -1, material.NewPhong(material.White)))
	sc.Add(parent)
	sc.Update()

	opaque, transparent := buildDrawList(sc.Root, math.Identity())
	assert.Empty(t, opaque)
	assert.Empty(t, transparent)
}

func TestBuildDrawListGroups(t *testing.T) {
	mesh := geometry.Box(1, 1, 1)
	half := int32(len(mesh.Indices) / 2)
	mesh.Groups = []geometry.Group{
		{StartIndex: 0, IndexCount: half, MaterialIndex: 0},
		{StartIndex: half, IndexCount: half, MaterialIndex: 1},
		{StartIndex: 0, IndexCount: 0, MaterialIndex: 0},
	}
	red, blue := material.NewPhong(material.Hex(0xFF0000)), material.NewPhong(material.Hex(0x0000FF))
	sc := scene.New()
	sc.Add(scene.NewMeshNode("two", mesh, red, blue))
	sc.Update()

	opaque, _ := buildDrawList(sc.Root, math.Identity())
	require.Len(t, opaque, 2)
	assert.Same(t, red, opaque[0].mat)
	assert.Same(t, blue, opaque[1].mat)
	assert.Equal(t, half, opaque[1].group.StartIndex)
}

func TestShadowCasters(t *testing.T) {
	sc := scene.New()
	caster := boxAt("caster", 0, material.NewPhong(material.White))
	caster.CastShadow = true
	receiver := boxAt("receiver", 0, material.NewPhong(material.White))
	receiver.ReceiveShadow = true
	hidden := boxAt("hidden", 0, material.NewPhong(material.White))
	hidden.CastShadow = true
	hidden.Visible = false
	group := scene.NewNode("group")
	group.CastShadow = true

	sc.Add(caster)
	sc.Add(receiver)
	sc.Add(hidden)
	sc.Add(group)

	got := shadowCasters(sc.Root)
	require.Len(t, got, 1)
	assert.Same(t, caster, got[0])
}

func TestSRGBToLinear(t *testing.T) {
	got := srgbToLinear(material.Color{0, 1, 0.5})
	assert.Equal(t, float32(0), got[0])
	assert.InDelta(t, 1, got[1], 1e-6)
	assert.InDelta(t, 0.214, got[2], 1e-3)

	// linear segment
	low := srgbToLinear(material.Color{0.04, 0, 0})
	assert.InDelta(t, 0.04/12.92, low[0], 1e-7)
}

func TestUVTransform(t *testing.T) {
	assert.Equal(t, [4]float32{1, 1, 0, 0}, uvTransform(nil))

	grass := texture.Solid("grass", whiteRGBA)
	grass.SetRepeat(20, 20)
	grass.Offset = [2]float32{0.25, 0.5}
	assert.Equal(t, [4]float32{20, 20, 0.25, 0.5}, uvTransform(grass))
}

func TestGLStateMapping(t *testing.T) {
	tests := []struct {
		side    material.Side
		enabled bool
		face    uint32
	}{
		{material.Front, true, gl.BACK},
		{material.Back, true, gl.FRONT},
		{material.Double, false, gl.BACK},
	}
	for _, tt := range tests {
		enabled, face := cullState(tt.side)
		assert.Equal(t, tt.enabled, enabled)
		if enabled {
			assert.Equal(t, tt.face, face)
		}
	}

	minF, magF := glFilters(texture.Nearest)
	assert.Equal(t, int32(gl.NEAREST_MIPMAP_LINEAR), minF)
	assert.Equal(t, int32(gl.NEAREST), magF)
	minF, magF = glFilters(texture.Linear)
	assert.Equal(t, int32(gl.LINEAR_MIPMAP_LINEAR), minF)
	assert.Equal(t, int32(gl.LINEAR), magF)

	assert.Equal(t, int32(gl.REPEAT), glWrap(texture.Repeat))
	assert.Equal(t, int32(gl.MIRRORED_REPEAT), glWrap(texture.MirroredRepeat))
	assert.Equal(t, int32(gl.CLAMP_TO_EDGE), glWrap(texture.ClampToEdge))
}

func TestSkyboxPositions(t *testing.T) {
	pos := skyboxPositions()
	require.Len(t, pos, 36*3)
	for _, v := range pos {
		assert.Contains(t, []float32{-1, 1}, v)
	}
}
