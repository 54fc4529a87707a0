package renderer

import (
	"image"
	"image/color"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/engine/geometry"
	"github.com/Faultbox/dualview/internal/engine/texture"
)

var whiteRGBA = color.RGBA{R: 255, G: 255, B: 255, A: 255}

// maxAnisotropy is requested for mipmapped material textures.
const maxAnisotropy = 8.0

// gpuMesh holds the GPU buffers of one mesh.
type gpuMesh struct {
	vao, vbo, ebo uint32
	indexCount    int32
}

func (m *gpuMesh) destroy() {
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
}

// mesh returns the GPU copy of m, uploading it on first use.
func (r *Renderer) mesh(m *geometry.Mesh) *gpuMesh {
	if gm, ok := r.meshes[m]; ok {
		return gm
	}
	gm := uploadMesh(m)
	r.meshes[m] = gm
	r.log.Debug("mesh uploaded",
		zap.Int("vertices", len(m.Vertices)),
		zap.Int("triangles", m.TriangleCount()))
	return gm
}

func uploadMesh(m *geometry.Mesh) *gpuMesh {
	gm := &gpuMesh{indexCount: int32(len(m.Indices))}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)

	vertexSize := int(unsafe.Sizeof(geometry.Vertex{}))
	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*vertexSize, unsafe.Pointer(&m.Vertices[0]), gl.STATIC_DRAW)

	// Position
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, int32(vertexSize), 0)
	gl.EnableVertexAttribArray(0)
	// Normal
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, int32(vertexSize), 3*4)
	gl.EnableVertexAttribArray(1)
	// TexCoord
	gl.VertexAttribPointerWithOffset(2, 2, gl.FLOAT, false, int32(vertexSize), 6*4)
	gl.EnableVertexAttribArray(2)

	gl.GenBuffers(1, &gm.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, gm.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*4, unsafe.Pointer(&m.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	return gm
}

// uploadPositions creates a non-indexed position-only buffer.
func uploadPositions(positions []float32) *gpuMesh {
	gm := &gpuMesh{indexCount: int32(len(positions) / 3)}

	gl.GenVertexArrays(1, &gm.vao)
	gl.BindVertexArray(gm.vao)
	gl.GenBuffers(1, &gm.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, gm.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*4, unsafe.Pointer(&positions[0]), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)
	return gm
}

// bindTexture binds t to unitMap with its sampling state, falling back to
// white when t is nil or empty.
func (r *Renderer) bindTexture(t *texture.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unitMap)
	if t == nil || t.Image == nil || len(t.Image.Pix) == 0 {
		gl.BindTexture(gl.TEXTURE_2D, r.white)
		return
	}

	id, ok := r.textures[t.Image]
	if !ok {
		id = r.uploadImage(t.Image, true)
		r.textures[t.Image] = id
		w, h := t.Size()
		r.log.Debug("texture uploaded", zap.String("name", t.Name), zap.Int("width", w), zap.Int("height", h))
	}
	gl.BindTexture(gl.TEXTURE_2D, id)

	// Images are shared between textures with different sampling, so the
	// state is applied on every bind.
	minFilter, magFilter := glFilters(t.MagFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, glWrap(t.WrapS))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, glWrap(t.WrapT))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, minFilter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, magFilter)
}

// uploadImage creates an sRGB texture from img, with mipmaps if asked.
func (r *Renderer) uploadImage(img *image.RGBA, mipmaps bool) uint32 {
	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0 + unitMap)
	gl.BindTexture(gl.TEXTURE_2D, id)

	b := img.Bounds()
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(img.Stride/4))
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.SRGB8_ALPHA8, int32(b.Dx()), int32(b.Dy()), 0,
		gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)

	if mipmaps {
		gl.GenerateMipmap(gl.TEXTURE_2D)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR_MIPMAP_LINEAR)
		gl.TexParameterf(gl.TEXTURE_2D, gl.TEXTURE_MAX_ANISOTROPY, maxAnisotropy)
	} else {
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	return id
}

// cube returns the GPU cube map for c, uploading it on first use.
func (r *Renderer) cube(c *texture.Cube) uint32 {
	if id, ok := r.cubes[c]; ok {
		return id
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.ActiveTexture(gl.TEXTURE0 + unitMap)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	for i, face := range c.Faces {
		if face == nil {
			continue
		}
		b := face.Bounds()
		gl.PixelStorei(gl.UNPACK_ROW_LENGTH, int32(face.Stride/4))
		gl.TexImage2D(gl.TEXTURE_CUBE_MAP_POSITIVE_X+uint32(i), 0, gl.SRGB8_ALPHA8,
			int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&face.Pix[0]))
	}
	gl.PixelStorei(gl.UNPACK_ROW_LENGTH, 0)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_CUBE_MAP, gl.TEXTURE_WRAP_R, gl.CLAMP_TO_EDGE)

	r.cubes[c] = id
	r.log.Debug("cube map uploaded", zap.String("name", c.Name), zap.Int("size", c.Size()))
	return id
}

// skyboxPositions returns the 36 vertices of a unit cube seen from inside.
func skyboxPositions() []float32 {
	corners := [8][3]float32{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	faces := [6][4]int{
		{1, 5, 6, 2}, // +x
		{4, 0, 3, 7}, // -x
		{3, 2, 6, 7}, // +y
		{4, 5, 1, 0}, // -y
		{5, 4, 7, 6}, // +z
		{0, 1, 2, 3}, // -z
	}
	out := make([]float32, 0, 36*3)
	for _, f := range faces {
		for _, i := range []int{0, 1, 2, 0, 2, 3} {
			c := corners[f[i]]
			out = append(out, c[0], c[1], c[2])
		}
	}
	return out
}
