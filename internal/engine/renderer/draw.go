package renderer

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/engine/camera"
	"github.com/Faultbox/dualview/internal/engine/lighting"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/internal/engine/scene"
	"github.com/Faultbox/dualview/internal/engine/shadow"
	"github.com/Faultbox/dualview/pkg/math"
)

// frameLights is the light state shared by both panes of a frame.
type frameLights struct {
	uniforms lighting.Uniforms

	dirShadow  [lighting.MaxDirectional]*shadow.Map
	dirMatrix  [lighting.MaxDirectional]math.Mat4
	dirBias    [lighting.MaxDirectional]float32
	spotShadow [lighting.MaxSpot]*shadow.Map
	spotMatrix [lighting.MaxSpot]math.Mat4
	spotBias   [lighting.MaxSpot]float32
}

// PrepareFrame updates world matrices, packs the lights and renders every
// shadow map. It runs once per frame before the panes are drawn.
func (r *Renderer) PrepareFrame(sc *scene.Scene) {
	r.stats = Stats{}
	r.target.Bind()
	sc.Update()

	var dropped int
	r.frame = frameLights{}
	r.frame.uniforms, dropped = lighting.PackWith(&sc.Lights, decodeColor)
	r.stats.DroppedLights = dropped
	if dropped > 0 {
		r.log.Debug("lights over the shader limit ignored", zap.Int("dropped", dropped))
	}

	if !r.cfg.Shadows {
		return
	}

	casters := shadowCasters(sc.Root)
	if len(casters) == 0 {
		return
	}

	// The shadow pass covers whole maps; the pane scissor must not clip it.
	scissor := r.scissor
	r.SetScissorTest(false)
	defer r.SetScissorTest(scissor)

	var bounds math.Box3
	boundsReady := false
	for i, l := range sc.Lights.Directional {
		if i >= lighting.MaxDirectional || !l.CastShadow {
			continue
		}
		if l.Shadow.Right <= l.Shadow.Left {
			if !boundsReady {
				bounds = scene.BoxFromObject(sc.Root)
				boundsReady = true
			}
			shadow.FitDirectional(l, bounds)
		}
		sm := shadowMap(r.dirShadows, l, l.Shadow.MapSize, r.log)
		if sm == nil {
			continue
		}
		m := shadow.DirectionalMatrix(l)
		r.renderDepth(sm, m, casters)
		r.frame.dirShadow[i], r.frame.dirMatrix[i], r.frame.dirBias[i] = sm, m, l.Shadow.Bias
	}
	for i, l := range sc.Lights.Spot {
		if i >= lighting.MaxSpot || !l.CastShadow {
			continue
		}
		sm := shadowMap(r.spotShadows, l, l.Shadow.MapSize, r.log)
		if sm == nil {
			continue
		}
		m := shadow.SpotMatrix(l)
		r.renderDepth(sm, m, casters)
		r.frame.spotShadow[i], r.frame.spotMatrix[i], r.frame.spotBias[i] = sm, m, l.Shadow.Bias
	}
}

// shadowMap returns the depth map for light, allocating it on first use.
// A light whose map failed to allocate stays unshadowed.
func shadowMap[L comparable](maps map[L]*shadow.Map, light L, size int32, log *zap.Logger) *shadow.Map {
	if sm, ok := maps[light]; ok {
		return sm
	}
	sm, err := shadow.NewMap(size)
	if err != nil {
		log.Warn("shadow map unavailable", zap.Error(err))
	}
	maps[light] = sm
	return sm
}

func (r *Renderer) renderDepth(sm *shadow.Map, lightViewProj math.Mat4, casters []*scene.Node) {
	sm.Bind()
	r.depth.Use()
	r.depth.SetMat4("uLightViewProj", lightViewProj)
	for _, n := range casters {
		gm := r.mesh(n.Mesh)
		r.depth.SetMat4("uModel", n.WorldMatrix())
		side := material.Front
		if m := n.Material(0); m != nil {
			side = m.Side
		}
		r.applyCull(side)
		gl.BindVertexArray(gm.vao)
		gl.DrawElements(gl.TRIANGLES, gm.indexCount, gl.UNSIGNED_INT, nil)
		r.stats.DrawCalls++
	}
	gl.BindVertexArray(0)
	sm.Unbind()
	r.target.Bind()
	r.stats.ShadowMaps++
}

// Render draws sc from cam into the current viewport, clearing it first.
func (r *Renderer) Render(sc *scene.Scene, cam camera.Camera) {
	r.target.Bind()

	bg := clearColor(r.cfg.ClearColor)
	if sc.Background.Color != (material.Color{}) {
		bg = [3]float32(sc.Background.Color)
	}
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.DepthMask(true)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	view, proj := cam.View(), cam.Projection()
	if sc.Background.Cube != nil {
		r.drawSkybox(sc, view, proj)
	}

	opaque, transparent := buildDrawList(sc.Root, view)
	r.setFrameUniforms(cam.Position(), view, proj)

	for _, it := range opaque {
		r.drawItem(it)
	}
	if len(transparent) > 0 {
		gl.Enable(gl.BLEND)
		gl.DepthMask(false)
		for _, it := range transparent {
			r.drawItem(it)
		}
		gl.DepthMask(true)
		gl.Disable(gl.BLEND)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) drawSkybox(sc *scene.Scene, view, proj math.Mat4) {
	rot := view
	rot[12], rot[13], rot[14] = 0, 0, 0

	gl.DepthMask(false)
	gl.Disable(gl.CULL_FACE)
	r.skybox.Use()
	r.skybox.SetMat4("uViewRotation", rot)
	r.skybox.SetMat4("uProjection", proj)
	gl.ActiveTexture(gl.TEXTURE0 + unitMap)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, r.cube(sc.Background.Cube))
	gl.BindVertexArray(r.sky.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, r.sky.indexCount)
	gl.DepthMask(true)
	r.stats.DrawCalls++
}

// setFrameUniforms sets camera and light uniforms on both mesh programs.
func (r *Renderer) setFrameUniforms(eye math.Vec3, view, proj math.Mat4) {
	r.basic.Use()
	r.basic.SetMat4("uView", view)
	r.basic.SetMat4("uProjection", proj)

	p := r.phong
	p.Use()
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", proj)
	p.SetVec3("uCameraPos", eye.Array())

	u := &r.frame.uniforms
	p.SetVec3("uHemiSky", u.HemiSky)
	p.SetVec3("uHemiGround", u.HemiGround)

	p.SetInt("uDirCount", u.DirCount)
	p.SetVec3Array("uDirDirection", u.DirDirection[:])
	p.SetVec3Array("uDirColor", u.DirColor[:])
	for i := 0; i < lighting.MaxDirectional; i++ {
		on := r.frame.dirShadow[i] != nil
		p.SetInt(fmt.Sprintf("uDirShadow[%d]", i), boolInt(on))
		p.SetFloat(fmt.Sprintf("uDirShadowBias[%d]", i), r.frame.dirBias[i])
		p.SetMat4(fmt.Sprintf("uDirShadowMatrix[%d]", i), r.frame.dirMatrix[i])
		if on {
			r.frame.dirShadow[i].BindTexture(uint32(unitDirShadow + i))
		}
	}

	p.SetInt("uPointCount", u.PointCount)
	p.SetVec3Array("uPointPosition", u.PointPosition[:])
	p.SetVec3Array("uPointColor", u.PointColor[:])
	p.SetFloatArray("uPointDistance", u.PointDistance[:])
	p.SetFloatArray("uPointDecay", u.PointDecay[:])

	p.SetInt("uSpotCount", u.SpotCount)
	p.SetVec3Array("uSpotPosition", u.SpotPosition[:])
	p.SetVec3Array("uSpotDirection", u.SpotDirection[:])
	p.SetVec3Array("uSpotColor", u.SpotColor[:])
	p.SetFloatArray("uSpotDistance", u.SpotDistance[:])
	p.SetFloatArray("uSpotDecay", u.SpotDecay[:])
	p.SetFloatArray("uSpotCosOuter", u.SpotCosOuter[:])
	p.SetFloatArray("uSpotCosInner", u.SpotCosInner[:])
	for i := 0; i < lighting.MaxSpot; i++ {
		on := r.frame.spotShadow[i] != nil
		p.SetInt(fmt.Sprintf("uSpotShadow[%d]", i), boolInt(on))
		p.SetFloat(fmt.Sprintf("uSpotShadowBias[%d]", i), r.frame.spotBias[i])
		p.SetMat4(fmt.Sprintf("uSpotShadowMatrix[%d]", i), r.frame.spotMatrix[i])
		if on {
			r.frame.spotShadow[i].BindTexture(uint32(unitSpotShadow + i))
		}
	}
}

func (r *Renderer) drawItem(it drawItem) {
	m := it.mat
	p := r.basic
	if m.Kind == material.Phong {
		p = r.phong
	}
	p.Use()

	world := it.node.WorldMatrix()
	p.SetMat4("uModel", world)
	p.SetMat3("uNormalMatrix", world.NormalMatrix())
	p.SetVec4("uUVTransform", uvTransform(m.Map))
	p.SetVec3("uColor", srgbToLinear(m.Color))
	p.SetFloat("uOpacity", m.Opacity)
	if p == r.phong {
		p.SetVec3("uSpecular", srgbToLinear(m.Specular))
		p.SetVec3("uEmissive", srgbToLinear(m.Emissive))
		p.SetFloat("uShininess", max(m.Shininess, 1e-4))
		p.SetInt("uReceiveShadow", boolInt(it.node.ReceiveShadow))
	}
	r.bindTexture(m.Map)

	r.applyCull(m.Side)
	if m.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
	}

	gm := r.mesh(it.node.Mesh)
	gl.BindVertexArray(gm.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, it.group.IndexCount, gl.UNSIGNED_INT, uintptr(it.group.StartIndex*4))

	if m.Wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	r.stats.DrawCalls++
	r.stats.Triangles += int(it.group.IndexCount / 3)
}

func (r *Renderer) applyCull(side material.Side) {
	if cull, face := cullState(side); cull {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(face)
	} else {
		gl.Disable(gl.CULL_FACE)
	}
}

func decodeColor(c material.Color) material.Color {
	return material.Color(srgbToLinear(c))
}

func boolInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
