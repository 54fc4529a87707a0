package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/dualview/internal/engine/frame"
	"github.com/Faultbox/dualview/internal/engine/scene"
	"github.com/Faultbox/dualview/internal/engine/texture"
	"github.com/Faultbox/dualview/internal/logger"
)

// maxParallelTextures bounds concurrent decodes while preloading a model.
const maxParallelTextures = 4

// Loader reads assets on worker goroutines. Results are delivered through
// futures whose continuations run on the frame loop.
type Loader struct {
	// MaxTextureSize downsizes larger images; 0 keeps the original size.
	MaxTextureSize int

	log *zap.Logger
}

// New creates a loader.
func New(maxTextureSize int) *Loader {
	return &Loader{
		MaxTextureSize: maxTextureSize,
		log:            logger.Named("loader"),
	}
}

// LoadTexture decodes an image with rows flipped so v=0 is the bottom edge.
func (l *Loader) LoadTexture(path string) *frame.Future[*texture.Texture] {
	return frame.Go(func() (*texture.Texture, error) {
		return texture.Load(path, l.textureOptions())
	})
}

// LoadCube decodes the six faces of a cube map in +x, -x, +y, -y, +z, -z order.
func (l *Loader) LoadCube(paths [6]string) *frame.Future[*texture.Cube] {
	return frame.Go(func() (*texture.Cube, error) {
		return texture.LoadCube(paths, l.MaxTextureSize)
	})
}

// LoadModel parses an OBJ model and its material library, preloads every
// diffuse map and resolves with the model's root node. An empty mtlPath
// uses the model's own mtllib statements. A missing or broken library is
// not fatal: faces fall back to the default material.
func (l *Loader) LoadModel(objPath, mtlPath string) *frame.Future[*scene.Node] {
	return frame.Go(func() (*scene.Node, error) {
		return l.loadModel(objPath, mtlPath)
	})
}

func (l *Loader) loadModel(objPath, mtlPath string) (*scene.Node, error) {
	obj, err := ParseOBJFile(objPath)
	if err != nil {
		return nil, err
	}
	l.warn(objPath, obj.Warnings)

	dir := filepath.Dir(objPath)
	if mtlPath == "" && len(obj.MaterialLibs) > 0 {
		mtlPath = filepath.Join(dir, obj.MaterialLibs[0])
	}

	var lib *MTL
	if mtlPath != "" {
		lib, err = ParseMTLFile(mtlPath)
		if err != nil {
			l.log.Warn("material library unavailable, using default material",
				zap.String("path", mtlPath), zap.Error(err))
			lib = nil
		} else {
			l.warn(mtlPath, lib.Warnings)
			dir = filepath.Dir(mtlPath)
		}
	}

	textures := l.preloadTextures(dir, lib)

	name := strings.TrimSuffix(filepath.Base(objPath), filepath.Ext(objPath))
	root, warnings := Build(name, obj, lib, textures)
	l.warn(objPath, warnings)

	nodes, meshes := 0, 0
	root.Traverse(func(n *scene.Node) {
		nodes++
		if n.Mesh != nil {
			meshes++
		}
	})
	l.log.Info("model loaded",
		zap.String("path", objPath),
		zap.Int("nodes", nodes),
		zap.Int("meshes", meshes),
		zap.Int("positions", len(obj.Positions)))
	return root, nil
}

// preloadTextures decodes every distinct diffuse map in lib. Maps that fail
// to load are logged and left out.
func (l *Loader) preloadTextures(dir string, lib *MTL) map[string]*texture.Texture {
	textures := make(map[string]*texture.Texture)
	if lib == nil {
		return textures
	}

	var (
		g  errgroup.Group
		mu sync.Mutex
	)
	g.SetLimit(maxParallelTextures)
	seen := make(map[string]bool)
	for _, m := range lib.Materials {
		name := m.DiffuseMap
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		g.Go(func() error {
			tex, err := texture.Load(resolveMapPath(dir, name), l.textureOptions())
			if err != nil {
				return fmt.Errorf("map %s: %w", name, err)
			}
			mu.Lock()
			textures[name] = tex
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		l.log.Warn("material maps unavailable, faces fall back to untextured",
			zap.Int("missing", len(seen)-len(textures)),
			zap.Error(err))
	}
	return textures
}

// resolveMapPath joins a map file name onto the library directory. Exporters
// on Windows write backslash separators.
func resolveMapPath(dir, name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	if filepath.IsAbs(name) {
		if _, err := os.Stat(name); err == nil {
			return name
		}
		name = filepath.Base(name)
	}
	return filepath.Join(dir, filepath.FromSlash(name))
}

func (l *Loader) textureOptions() texture.Options {
	return texture.Options{FlipY: true, MaxSize: l.MaxTextureSize}
}

func (l *Loader) warn(path string, warnings []string) {
	for _, w := range warnings {
		l.log.Warn(w, zap.String("path", path))
	}
}

// IsNotExist reports whether err came from a missing asset file.
func IsNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}

