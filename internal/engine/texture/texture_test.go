package texture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	red  = color.RGBA{R: 255, A: 255}
	blue = color.RGBA{B: 255, A: 255}
)

// writePNG writes a w x h image whose top row is red and the rest blue.
func writePNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := blue
			if y == 0 {
				c = red
			}
			img.SetRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

func TestLoadFlipY(t *testing.T) {
	path := writePNG(t, t.TempDir(), "grass.png", 4, 4)

	plain, err := Load(path, Options{})
	require.NoError(t, err)
	assert.Equal(t, red, plain.Image.RGBAAt(0, 0))

	flipped, err := Load(path, Options{FlipY: true})
	require.NoError(t, err)
	assert.Equal(t, blue, flipped.Image.RGBAAt(0, 0))
	assert.Equal(t, red, flipped.Image.RGBAAt(0, 3))

	assert.Equal(t, ClampToEdge, flipped.WrapS)
	assert.Equal(t, [2]float32{1, 1}, flipped.Repeat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.png"), Options{})
	assert.Error(t, err)
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.png")
	require.NoError(t, os.WriteFile(path, []byte("not an image"), 0644))
	_, err := Load(path, Options{})
	assert.Error(t, err)
}

func TestToRGBAClampsSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h, max    int
		wantW, wantH int
	}{
		{name: "within limit", w: 64, h: 32, max: 128, wantW: 64, wantH: 32},
		{name: "wide", w: 256, h: 64, max: 128, wantW: 128, wantH: 32},
		{name: "tall", w: 64, h: 256, max: 128, wantW: 32, wantH: 128},
		{name: "no limit", w: 300, h: 10, max: 0, wantW: 300, wantH: 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewNRGBA(image.Rect(0, 0, tt.w, tt.h))
			out := ToRGBA(src, tt.max)
			assert.Equal(t, tt.wantW, out.Bounds().Dx())
			assert.Equal(t, tt.wantH, out.Bounds().Dy())
			assert.Equal(t, image.Point{}, out.Bounds().Min)
		})
	}
}

func TestFlipYOddHeight(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.SetRGBA(0, 0, red)
	img.SetRGBA(0, 1, blue)
	FlipY(img)
	assert.Equal(t, red, img.RGBAAt(0, 2))
	assert.Equal(t, blue, img.RGBAAt(0, 1))
}

func TestSetRepeat(t *testing.T) {
	tex := Solid("white", color.RGBA{255, 255, 255, 255})
	tex.SetRepeat(20, 20)
	assert.Equal(t, Repeat, tex.WrapS)
	assert.Equal(t, Repeat, tex.WrapT)
	assert.Equal(t, [2]float32{20, 20}, tex.Repeat)
	w, h := tex.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestLoadCube(t *testing.T) {
	dir := t.TempDir()
	var paths [6]string
	for i, name := range []string{"right", "left", "top", "bottom", "front", "back"} {
		paths[i] = writePNG(t, dir, name+".png", 8, 8)
	}

	cube, err := LoadCube(paths, 0)
	require.NoError(t, err)
	assert.Equal(t, 8, cube.Size())
	for _, f := range cube.Faces {
		require.NotNil(t, f)
		// faces are not flipped
		assert.Equal(t, red, f.RGBAAt(0, 0))
	}
}

func TestLoadCubeRejectsMismatchedFaces(t *testing.T) {
	dir := t.TempDir()
	var paths [6]string
	for i := range paths {
		paths[i] = writePNG(t, dir, string(rune('a'+i))+".png", 8, 8)
	}
	paths[FaceNegZ] = writePNG(t, dir, "wide.png", 16, 8)

	_, err := LoadCube(paths, 0)
	assert.Error(t, err)

	paths[FaceNegZ] = writePNG(t, dir, "big.png", 16, 16)
	_, err = LoadCube(paths, 0)
	assert.Error(t, err)
}
