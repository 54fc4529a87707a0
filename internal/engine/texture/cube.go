package texture

import (
	"fmt"
	"image"
	"os"
)

// Cube face order.
const (
	FacePosX = iota
	FaceNegX
	FacePosY
	FaceNegY
	FacePosZ
	FaceNegZ
)

// Cube holds the six square faces of a cube map in +x, -x, +y, -y, +z, -z order.
// Faces keep their image orientation: cube map sampling expects rows top-down.
type Cube struct {
	Name  string
	Faces [6]*image.RGBA
}

// LoadCube decodes six face images. Every face must be square and the same size.
func LoadCube(paths [6]string, maxSize int) (*Cube, error) {
	cube := &Cube{Name: paths[0]}
	size := -1
	for i, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open cube face %d: %w", i, err)
		}
		img, err := Decode(f, Options{MaxSize: maxSize})
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decode cube face %s: %w", path, err)
		}

		b := img.Bounds()
		if b.Dx() != b.Dy() {
			return nil, fmt.Errorf("cube face %s is %dx%d, want square", path, b.Dx(), b.Dy())
		}
		if size >= 0 && b.Dx() != size {
			return nil, fmt.Errorf("cube face %s is %d pixels, want %d", path, b.Dx(), size)
		}
		size = b.Dx()
		cube.Faces[i] = img
	}
	return cube, nil
}

// Size returns the edge length of the faces.
func (c *Cube) Size() int {
	if c.Faces[0] == nil {
		return 0
	}
	return c.Faces[0].Bounds().Dx()
}
