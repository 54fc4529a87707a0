package loader

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// MTLMaterial is one "newmtl" entry of a material library.
type MTLMaterial struct {
	Name       string
	Ambient    [3]float32 // Ka
	Diffuse    [3]float32 // Kd
	Specular   [3]float32 // Ks
	Emissive   [3]float32 // Ke
	Shininess  float32    // Ns
	Refraction float32    // Ni
	Opacity    float32    // d
	Illum      int

	// DiffuseMap is the map_Kd file name, relative to the library.
	DiffuseMap string
	MapRepeat  [2]float32 // -s
	MapOffset  [2]float32 // -o
}

func newMTLMaterial(name string) *MTLMaterial {
	return &MTLMaterial{
		Name:      name,
		Diffuse:   [3]float32{1, 1, 1},
		Specular:  [3]float32{0.067, 0.067, 0.067},
		Shininess: 30,
		Opacity:   1,
		MapRepeat: [2]float32{1, 1},
	}
}

// MTL is a parsed material library.
type MTL struct {
	Materials map[string]*MTLMaterial
	Warnings  []string
}

type mtlParser struct {
	lib     *MTL
	line    int
	current *MTLMaterial
}

// ParseMTL reads a material library.
func ParseMTL(r io.Reader) (*MTL, error) {
	p := &mtlParser{lib: &MTL{Materials: make(map[string]*MTLMaterial)}}
	if err := scanLines(r, &p.line, p.parseLine); err != nil {
		return nil, err
	}
	return p.lib, nil
}

// ParseMTLFile reads a material library from disk.
func ParseMTLFile(path string) (*MTL, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mtl: %w", err)
	}
	defer f.Close()

	lib, err := ParseMTL(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return lib, nil
}

func (p *mtlParser) parseLine(fields []string) error {
	key, args := fields[0], fields[1:]
	if key == "newmtl" {
		if len(args) < 1 {
			return fmt.Errorf("%w: newmtl without a name", ErrMalformedLine)
		}
		name := strings.Join(args, " ")
		m, ok := p.lib.Materials[name]
		if !ok {
			m = newMTLMaterial(name)
			p.lib.Materials[name] = m
		}
		p.current = m
		return nil
	}
	if p.current == nil {
		return fmt.Errorf("%w: %s before newmtl", ErrMalformedLine, key)
	}

	m := p.current
	switch key {
	case "Ka", "Kd", "Ks", "Ke":
		v, err := parseFloats(args, 3)
		if err != nil {
			return err
		}
		rgb := [3]float32{v[0], v[1], v[2]}
		switch key {
		case "Ka":
			m.Ambient = rgb
		case "Kd":
			m.Diffuse = rgb
		case "Ks":
			m.Specular = rgb
		case "Ke":
			m.Emissive = rgb
		}
	case "Ns", "Ni", "d":
		v, err := parseFloats(args, 1)
		if err != nil {
			return err
		}
		switch key {
		case "Ns":
			m.Shininess = v[0]
		case "Ni":
			m.Refraction = v[0]
		case "d":
			m.Opacity = v[0]
		}
	case "Tr":
		v, err := parseFloats(args, 1)
		if err != nil {
			return err
		}
		m.Opacity = 1 - v[0]
	case "illum":
		if len(args) < 1 {
			return fmt.Errorf("%w: illum without a value", ErrMalformedLine)
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("%w: illum %q", ErrMalformedLine, args[0])
		}
		m.Illum = n
	case "map_Kd":
		return p.parseMap(args)
	default:
		p.warn("statement not supported: " + key)
	}
	return nil
}

// mapOptionArgs is the argument count of every map option that is parsed
// and ignored. -t takes up to three numbers and is handled separately.
var mapOptionArgs = map[string]int{
	"-bm":      1,
	"-boost":   1,
	"-texres":  1,
	"-imfchan": 1,
	"-blendu":  1,
	"-blendv":  1,
	"-clamp":   1,
	"-cc":      1,
	"-mm":      2,
}

// parseMap reads "map_Kd [-s u [v [w]]] [-o u [v [w]]] [option args...] file".
func (p *mtlParser) parseMap(args []string) error {
	m := p.current
	for i := 0; i < len(args); i++ {
		opt := args[i]
		switch {
		case opt == "-s" || opt == "-o":
			vals, n := leadingFloats(args[i+1:], 3)
			if n == 0 {
				return fmt.Errorf("%w: %s without values", ErrMalformedLine, opt)
			}
			uv := [2]float32{vals[0], vals[0]}
			if n > 1 {
				uv[1] = vals[1]
			}
			if opt == "-s" {
				m.MapRepeat = uv
			} else {
				m.MapOffset = uv
			}
			i += n
		case opt == "-t":
			_, n := leadingFloats(args[i+1:], 3)
			p.warn("map option not supported: " + opt)
			i += n
		case strings.HasPrefix(opt, "-") && i < len(args)-1:
			n, known := mapOptionArgs[opt]
			if !known {
				// unknown options are assumed to take numeric arguments
				_, n = leadingFloats(args[i+1:], 3)
			}
			if i+n >= len(args) {
				return fmt.Errorf("%w: %s without a file", ErrMalformedLine, opt)
			}
			p.warn("map option not supported: " + opt)
			i += n
		default:
			m.DiffuseMap = strings.Join(args[i:], " ")
			return nil
		}
	}
	if m.DiffuseMap == "" {
		return fmt.Errorf("%w: map_Kd without a file", ErrMalformedLine)
	}
	return nil
}

// leadingFloats parses up to limit numbers from the start of args.
func leadingFloats(args []string, limit int) ([]float32, int) {
	var out []float32
	for _, a := range args {
		if len(out) == limit {
			break
		}
		v, err := strconv.ParseFloat(a, 32)
		if err != nil {
			break
		}
		out = append(out, float32(v))
	}
	return out, len(out)
}

func (p *mtlParser) warn(msg string) {
	p.lib.Warnings = append(p.lib.Warnings, fmt.Sprintf("mtl(%d): %s", p.line, msg))
}
