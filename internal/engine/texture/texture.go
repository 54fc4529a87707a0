// Package texture provides image decoding and the CPU-side texture and
// cube map descriptions the renderer uploads.
package texture

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"io"
	"os"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
)

// Wrap is a texture coordinate wrapping mode.
type Wrap int

const (
	ClampToEdge Wrap = iota
	Repeat
	MirroredRepeat
)

// Filter is a magnification filter.
type Filter int

const (
	Linear Filter = iota
	Nearest
)

// Options control how an image becomes texture data.
type Options struct {
	// FlipY stores rows bottom-up so v=0 samples the bottom of the image.
	FlipY bool
	// MaxSize clamps the larger dimension; 0 means no limit.
	MaxSize int
}

// Texture is an RGBA image plus sampling state.
type Texture struct {
	Name  string
	Image *image.RGBA

	WrapS, WrapT Wrap
	MagFilter    Filter
	// Repeat scales and Offset shifts texture coordinates before sampling.
	Repeat [2]float32
	Offset [2]float32
}

// New wraps an already converted image with default sampling state.
func New(name string, img *image.RGBA) *Texture {
	return &Texture{
		Name:   name,
		Image:  img,
		WrapS:  ClampToEdge,
		WrapT:  ClampToEdge,
		Repeat: [2]float32{1, 1},
	}
}

// Solid returns a 1x1 texture of a single colour.
func Solid(name string, c color.RGBA) *Texture {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return New(name, img)
}

// SetRepeat tiles the texture u x v times, switching both axes to Repeat.
func (t *Texture) SetRepeat(u, v float32) {
	t.WrapS, t.WrapT = Repeat, Repeat
	t.Repeat = [2]float32{u, v}
}

// Size returns the image dimensions.
func (t *Texture) Size() (int, int) {
	if t.Image == nil {
		return 0, 0
	}
	b := t.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Load reads and decodes an image file into a texture.
func Load(path string, opts Options) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	img, err := Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return New(path, img), nil
}

// Decode reads any registered image format and converts it to RGBA.
func Decode(r io.Reader, opts Options) (*image.RGBA, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	rgba := ToRGBA(img, opts.MaxSize)
	if opts.FlipY {
		FlipY(rgba)
	}
	return rgba, nil
}

// ToRGBA converts img to RGBA at the origin, scaling it down with
// Catmull-Rom so neither side exceeds maxSize.
func ToRGBA(img image.Image, maxSize int) *image.RGBA {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if maxSize > 0 && (w > maxSize || h > maxSize) {
		if w >= h {
			h = max(1, h*maxSize/w)
			w = maxSize
		} else {
			w = max(1, w*maxSize/h)
			h = maxSize
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		return dst
	}

	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) {
		return rgba
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// FlipY reverses the row order of img in place.
func FlipY(img *image.RGBA) {
	h := img.Bounds().Dy()
	stride := img.Stride
	tmp := make([]byte, stride)
	for y := 0; y < h/2; y++ {
		top := img.Pix[y*stride : (y+1)*stride]
		bottom := img.Pix[(h-1-y)*stride : (h-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
}
