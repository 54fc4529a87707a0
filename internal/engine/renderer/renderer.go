// Package renderer draws scenes with OpenGL 4.1 core into an offscreen
// multisampled target that is resolved to the window once per frame.
package renderer

import (
	"fmt"
	"image"
	"strconv"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/engine/framebuffer"
	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/lighting"
	"github.com/Faultbox/dualview/internal/engine/material"
	"github.com/Faultbox/dualview/internal/engine/renderer/shaders"
	"github.com/Faultbox/dualview/internal/engine/shader"
	"github.com/Faultbox/dualview/internal/engine/shadow"
	"github.com/Faultbox/dualview/internal/engine/texture"
	"github.com/Faultbox/dualview/internal/engine/viewport"
	"github.com/Faultbox/dualview/internal/logger"
)

// Texture units. Shadow maps follow the material map.
const (
	unitMap        = 0
	unitDirShadow  = 1
	unitSpotShadow = unitDirShadow + lighting.MaxDirectional
)

// Config holds renderer configuration.
type Config struct {
	Width       int
	Height      int
	MSAASamples int
	Shadows     bool
	// ClearColor is 0xRRGGBB, shown where no skybox is set.
	ClearColor uint32
}

// Stats counts the work of the last frame.
type Stats struct {
	DrawCalls     int
	Triangles     int
	ShadowMaps    int
	DroppedLights int
}

// Renderer implements viewport.Drawer on OpenGL.
// IMPORTANT: Must be created and used on the thread owning the GL context.
type Renderer struct {
	cfg           Config
	width, height int

	target  *framebuffer.Framebuffer
	scratch *framebuffer.Framebuffer

	phong  *shader.Program
	basic  *shader.Program
	skybox *shader.Program
	depth  *shader.Program

	meshes   map[*geometry.Mesh]*gpuMesh
	textures map[*image.RGBA]uint32
	cubes    map[*texture.Cube]uint32
	white    uint32
	sky      *gpuMesh

	dirShadows  map[*lighting.Directional]*shadow.Map
	spotShadows map[*lighting.Spot]*shadow.Map
	frame       frameLights

	scissor bool
	stats   Stats
	log     *zap.Logger
}

// New creates a renderer. The GL context must be current.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		cfg:         cfg,
		width:       max(cfg.Width, 1),
		height:      max(cfg.Height, 1),
		meshes:      make(map[*geometry.Mesh]*gpuMesh),
		textures:    make(map[*image.RGBA]uint32),
		cubes:       make(map[*texture.Cube]uint32),
		dirShadows:  make(map[*lighting.Directional]*shadow.Map),
		spotShadows: make(map[*lighting.Spot]*shadow.Map),
		log:         logger.Named("renderer"),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	r.log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	r.target, err = framebuffer.New(int32(r.width), int32(r.height), int32(cfg.MSAASamples))
	if err != nil {
		return nil, fmt.Errorf("render target: %w", err)
	}
	r.scratch, err = framebuffer.New(int32(r.width), int32(r.height), 0)
	if err != nil {
		r.target.Destroy()
		return nil, fmt.Errorf("capture target: %w", err)
	}
	if err := r.createPrograms(); err != nil {
		r.Close()
		return nil, err
	}

	r.white = r.uploadImage(texture.Solid("white", whiteRGBA).Image, true)
	r.sky = uploadPositions(skyboxPositions())

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.log.Info("renderer ready",
		zap.Int("width", r.width),
		zap.Int("height", r.height),
		zap.Int32("msaa_samples", r.target.Samples()),
		zap.Bool("shadows", cfg.Shadows),
	)
	return r, nil
}

func (r *Renderer) createPrograms() error {
	defines := map[string]string{
		"MAX_DIR_LIGHTS":   strconv.Itoa(lighting.MaxDirectional),
		"MAX_POINT_LIGHTS": strconv.Itoa(lighting.MaxPoint),
		"MAX_SPOT_LIGHTS":  strconv.Itoa(lighting.MaxSpot),
	}
	meshVert := shader.Define(shaders.MeshVertexShader, defines)

	var err error
	if r.phong, err = shader.NewProgram("phong", meshVert, shader.Define(shaders.PhongFragmentShader, defines)); err != nil {
		return err
	}
	if r.basic, err = shader.NewProgram("basic", meshVert, shaders.BasicFragmentShader); err != nil {
		return err
	}
	if r.skybox, err = shader.NewProgram("skybox", shaders.SkyboxVertexShader, shaders.SkyboxFragmentShader); err != nil {
		return err
	}
	if r.depth, err = shader.NewProgram("depth", shaders.DepthVertexShader, shaders.DepthFragmentShader); err != nil {
		return err
	}

	// Every sampler gets its own unit so mixed sampler types never share one.
	r.phong.Use()
	r.phong.SetInt("uMap", unitMap)
	for i := 0; i < lighting.MaxDirectional; i++ {
		r.phong.SetInt(fmt.Sprintf("uDirShadowMap[%d]", i), int32(unitDirShadow+i))
	}
	for i := 0; i < lighting.MaxSpot; i++ {
		r.phong.SetInt(fmt.Sprintf("uSpotShadowMap[%d]", i), int32(unitSpotShadow+i))
	}
	r.basic.Use()
	r.basic.SetInt("uMap", unitMap)
	r.skybox.Use()
	r.skybox.SetInt("uCube", unitMap)
	gl.UseProgram(0)
	return nil
}

// Close releases every GPU resource the renderer created.
func (r *Renderer) Close() {
	r.log.Info("closing renderer", zap.Int("meshes", len(r.meshes)), zap.Int("textures", len(r.textures)))
	for _, m := range r.meshes {
		m.destroy()
	}
	r.meshes = map[*geometry.Mesh]*gpuMesh{}
	if r.sky != nil {
		r.sky.destroy()
		r.sky = nil
	}
	for _, id := range r.textures {
		gl.DeleteTextures(1, &id)
	}
	r.textures = map[*image.RGBA]uint32{}
	for _, id := range r.cubes {
		gl.DeleteTextures(1, &id)
	}
	r.cubes = map[*texture.Cube]uint32{}
	if r.white != 0 {
		gl.DeleteTextures(1, &r.white)
	}
	for _, sm := range r.dirShadows {
		if sm != nil {
			sm.Destroy()
		}
	}
	for _, sm := range r.spotShadows {
		if sm != nil {
			sm.Destroy()
		}
	}
	for _, p := range []*shader.Program{r.phong, r.basic, r.skybox, r.depth} {
		if p != nil {
			p.Delete()
		}
	}
	if r.target != nil {
		r.target.Destroy()
	}
	if r.scratch != nil {
		r.scratch.Destroy()
	}
}

// Size returns the drawing buffer size in pixels.
func (r *Renderer) Size() (int, int) {
	return r.width, r.height
}

// SetSize reallocates the drawing buffer. Its contents are lost.
func (r *Renderer) SetSize(width, height int) {
	r.width, r.height = max(width, 1), max(height, 1)
	r.target.Resize(int32(r.width), int32(r.height))
	r.log.Debug("drawing buffer resized", zap.Int("width", r.width), zap.Int("height", r.height))
}

// SetViewport sets the area subsequent draws map to.
func (r *Renderer) SetViewport(rc viewport.Rect) {
	gl.Viewport(int32(rc.X), int32(rc.Y), int32(rc.W), int32(rc.H))
}

// SetScissor sets the clip rectangle used while the scissor test is on.
func (r *Renderer) SetScissor(rc viewport.Rect) {
	gl.Scissor(int32(rc.X), int32(rc.Y), int32(rc.W), int32(rc.H))
}

// SetScissorTest turns clipping to the scissor rectangle on or off.
func (r *Renderer) SetScissorTest(enabled bool) {
	r.scissor = enabled
	if enabled {
		gl.Enable(gl.SCISSOR_TEST)
	} else {
		gl.Disable(gl.SCISSOR_TEST)
	}
}

// Present resolves the drawing buffer onto the window.
func (r *Renderer) Present() {
	gl.Disable(gl.SCISSOR_TEST)
	r.target.BlitTo(0)
	if r.scissor {
		gl.Enable(gl.SCISSOR_TEST)
	}
}

// ReadPixels returns the current drawing buffer as a top-down image.
func (r *Renderer) ReadPixels() *image.RGBA {
	gl.Disable(gl.SCISSOR_TEST)
	pixels := r.target.ReadPixels(r.scratch)
	if r.scissor {
		gl.Enable(gl.SCISSOR_TEST)
	}

	w, h := r.target.Size()
	img := &image.RGBA{Pix: pixels, Stride: int(w) * 4, Rect: image.Rect(0, 0, int(w), int(h))}
	texture.FlipY(img)
	return img
}

// Stats returns counters for the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

func clearColor(rgb uint32) [3]float32 {
	c := material.Hex(rgb)
	return [3]float32(c)
}
