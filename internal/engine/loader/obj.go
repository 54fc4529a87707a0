// Package loader reads Wavefront OBJ models with their MTL material
// libraries, and loads textures and cube maps off the render thread.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// OBJ format errors.
var (
	ErrMalformedLine   = errors.New("malformed line")
	ErrZeroIndex       = errors.New("face index 0 is not valid")
	ErrIndexOutOfRange = errors.New("face index out of range")
)

// noIndex marks a face corner without a texture coordinate or normal.
const noIndex = -1

// Corner is one vertex of a face: zero-based indices into the position,
// texture coordinate and normal lists. UV and Normal may be noIndex.
type Corner struct {
	Position int
	UV       int
	Normal   int
}

// Face is a polygon with three or more corners.
type Face struct {
	Corners  []Corner
	Material string
	Smooth   bool
}

// Object is a named run of faces ("o" or "g").
type Object struct {
	Name  string
	Faces []Face
}

// OBJ is a parsed Wavefront OBJ file.
type OBJ struct {
	Positions [][3]float32
	UVs       [][2]float32
	Normals   [][3]float32
	Objects   []*Object

	// MaterialLibs lists the "mtllib" file names in order of appearance.
	MaterialLibs []string
	// Warnings collects unsupported or ignored statements.
	Warnings []string
}

type objParser struct {
	obj     *OBJ
	line    int
	current *Object
	mtl     string
	smooth  bool
}

// ParseOBJ reads an OBJ model.
func ParseOBJ(r io.Reader) (*OBJ, error) {
	p := &objParser{obj: &OBJ{}}
	if err := scanLines(r, &p.line, p.parseLine); err != nil {
		return nil, err
	}
	return p.obj, nil
}

// ParseOBJFile reads an OBJ model from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	obj, err := ParseOBJ(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return obj, nil
}

// scanLines feeds every line to fn, tracking the 1-based line number and
// joining lines continued with a trailing backslash.
func scanLines(r io.Reader, line *int, fn func(fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	var pending string
	for sc.Scan() {
		*line++
		text := pending + sc.Text()
		pending = ""
		if strings.HasSuffix(text, "\\") {
			pending = strings.TrimSuffix(text, "\\") + " "
			continue
		}
		fields := strings.Fields(text)
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}
		if err := fn(fields); err != nil {
			return fmt.Errorf("line %d: %w", *line, err)
		}
	}
	return sc.Err()
}

func (p *objParser) parseLine(fields []string) error {
	args := fields[1:]
	switch fields[0] {
	case "v":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.obj.Positions = append(p.obj.Positions, [3]float32{v[0], v[1], v[2]})
	case "vt":
		v, err := parseFloats(args, 2)
		if err != nil {
			return err
		}
		p.obj.UVs = append(p.obj.UVs, [2]float32{v[0], v[1]})
	case "vn":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		p.obj.Normals = append(p.obj.Normals, [3]float32{v[0], v[1], v[2]})
	case "f":
		return p.parseFace(args)
	case "o", "g":
		name := strings.Join(args, " ")
		if name == "" {
			name = fmt.Sprintf("unnamed%d", p.line)
		}
		p.startObject(name)
	case "usemtl":
		if len(args) < 1 {
			return fmt.Errorf("%w: usemtl without a name", ErrMalformedLine)
		}
		p.mtl = args[0]
	case "mtllib":
		if len(args) < 1 {
			return fmt.Errorf("%w: mtllib without a file", ErrMalformedLine)
		}
		p.obj.MaterialLibs = append(p.obj.MaterialLibs, strings.Join(args, " "))
	case "s":
		if len(args) < 1 {
			return fmt.Errorf("%w: s without a value", ErrMalformedLine)
		}
		p.smooth = args[0] != "0" && args[0] != "off"
	default:
		p.warn("statement not supported: " + fields[0])
	}
	return nil
}

func (p *objParser) startObject(name string) {
	// A "g" right after an "o" names the same run of faces.
	if p.current != nil && len(p.current.Faces) == 0 {
		p.current.Name = name
		return
	}
	p.current = &Object{Name: name}
	p.obj.Objects = append(p.obj.Objects, p.current)
}

func (p *objParser) parseFace(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: face with %d corners", ErrMalformedLine, len(args))
	}
	if p.current == nil {
		p.startObject(fmt.Sprintf("unnamed%d", p.line))
	}

	face := Face{
		Corners:  make([]Corner, len(args)),
		Material: p.mtl,
		Smooth:   p.smooth,
	}
	for i, arg := range args {
		parts := strings.Split(arg, "/")
		c := Corner{UV: noIndex, Normal: noIndex}

		var err error
		if c.Position, err = resolveIndex(parts[0], len(p.obj.Positions)); err != nil {
			return err
		}
		if len(parts) > 1 && parts[1] != "" {
			if c.UV, err = resolveIndex(parts[1], len(p.obj.UVs)); err != nil {
				return err
			}
		}
		if len(parts) > 2 && parts[2] != "" {
			if c.Normal, err = resolveIndex(parts[2], len(p.obj.Normals)); err != nil {
				return err
			}
		}
		face.Corners[i] = c
	}
	p.current.Faces = append(p.current.Faces, face)
	return nil
}

// resolveIndex converts a 1-based or negative (relative to the end) OBJ
// index into a zero-based index into a list of count elements.
func resolveIndex(s string, count int) (int, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q", ErrMalformedLine, s)
	}
	switch {
	case v > 0:
		v--
	case v < 0:
		v += count
	default:
		return 0, ErrZeroIndex
	}
	if v < 0 || v >= count {
		return 0, fmt.Errorf("%w: %s of %d", ErrIndexOutOfRange, s, count)
	}
	return v, nil
}

func parseFloats(args []string, n int) ([]float32, error) {
	if len(args) < n {
		return nil, fmt.Errorf("%w: want %d numbers, got %d", ErrMalformedLine, n, len(args))
	}
	out := make([]float32, n)
	for i := range out {
		v, err := strconv.ParseFloat(args[i], 32)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedLine, err)
		}
		out[i] = float32(v)
	}
	return out, nil
}

func (p *objParser) warn(msg string) {
	p.obj.Warnings = append(p.obj.Warnings, fmt.Sprintf("obj(%d): %s", p.line, msg))
}
