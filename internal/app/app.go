// Package app wires the window, renderer, cameras and scenery into the
// split-screen viewer and drives its frame loop.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/config"
	"github.com/Faultbox/dualview/internal/engine/camera"
	"github.com/Faultbox/dualview/internal/engine/capture"
	"github.com/Faultbox/dualview/internal/engine/frame"
	"github.com/Faultbox/dualview/internal/engine/input"
	"github.com/Faultbox/dualview/internal/engine/loader"
	"github.com/Faultbox/dualview/internal/engine/renderer"
	"github.com/Faultbox/dualview/internal/engine/viewport"
	"github.com/Faultbox/dualview/internal/engine/window"
	"github.com/Faultbox/dualview/internal/logger"
	"github.com/Faultbox/dualview/pkg/math"
)

// App is the running viewer.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input
	loop     *frame.Loop

	scenery    *scenery
	persp      *camera.Perspective
	ortho      *camera.Orthographic
	controls   []*camera.OrbitControls
	reconciler *viewport.Reconciler
	compositor *viewport.Compositor
	pointer    *pointer
	shots      *capture.Screenshots

	captureRequested bool
	fpsFrames        int
	fpsTimer         time.Time
}

// New opens the window and builds everything the first frame needs.
// Assets keep loading in the background once Run starts.
func New(cfg *config.Config) (*App, error) {
	a := &App{
		cfg: cfg,
		log: logger.Named("app"),
	}
	a.log.Info("initializing viewer",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	var err error
	a.window, err = window.New(window.Config{
		Title:      cfg.Window.Title,
		Width:      cfg.Window.Width,
		Height:     cfg.Window.Height,
		Fullscreen: cfg.Window.Fullscreen,
		VSync:      cfg.Window.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window just created. It starts
	// at 1x1 so the first frame's reconcile sizes the buffer and both
	// projections together.
	a.renderer, err = renderer.New(renderer.Config{
		Width:       1,
		Height:      1,
		MSAASamples: cfg.Render.MSAASamples,
		Shadows:     cfg.Render.Shadows,
		ClearColor:  cfg.Render.ClearColor,
	})
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	a.input = input.New()
	a.loop = frame.NewLoop(frame.NewClock())
	a.shots = capture.New(cfg.Capture.Dir, cfg.Capture.Prefix)

	a.setupCameras()
	a.scenery = buildScenery(cfg.Render.ShadowMapSize)
	a.compositor = viewport.NewCompositor(
		viewport.Pane{Name: "perspective", Camera: a.persp},
		viewport.Pane{Name: "orthographic", Camera: a.ortho},
		a.scenery.spinners...,
	)
	a.compositor.TimeScale = cfg.Animation.TimeScale
	a.reconciler = viewport.NewReconciler(a.renderer, a.persp, a.ortho)
	a.pointer = newPointer(a.compositor, a.controls...)

	nodes, meshes := a.scenery.scene.Count()
	a.log.Info("viewer initialized", zap.Int("nodes", nodes), zap.Int("meshes", meshes))
	return a, nil
}

func (a *App) setupCameras() {
	a.persp = camera.NewPerspective(45, 2, 0.1, 100)
	a.persp.SetPosition(math.V3(0, 10, 20))

	a.ortho = camera.NewOrthographic(-1, 1, 1, -1, 5, 50)
	a.ortho.SetZoom(0.1)
	a.ortho.SetPosition(math.V3(10, 10, 10))
	a.ortho.LookAt(math.Vec3{})

	c := a.cfg.Controls
	perspControls := camera.NewOrbitControls(a.persp)
	orthoControls := camera.NewOrbitControls(a.ortho)
	for _, oc := range []*camera.OrbitControls{perspControls, orthoControls} {
		oc.EnableDamping = true
		oc.DampingFactor = c.DampingFactor
		oc.RotateSpeed = c.RotateSpeed
		oc.ZoomSpeed = c.ZoomSpeed
		oc.PanSpeed = c.PanSpeed
	}
	perspControls.ScreenSpacePanning = false
	orthoControls.ScreenSpacePanning = true
	orthoControls.MinZoom = 0.1
	orthoControls.MaxZoom = 2

	a.controls = []*camera.OrbitControls{perspControls, orthoControls}
}

// Run starts asset loading and drives frames until the window is closed
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	ld := loader.New(a.cfg.Render.MaxTextureSize)
	a.scenery.load(ld, a.loop, a.cfg.Assets.Root, a.log)

	a.fpsTimer = time.Now()
	a.log.Info("starting frame loop")
	a.loop.RequestFrame(a.frame)
	if err := a.loop.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("frame loop: %w", err)
	}
	a.log.Info("frame loop finished", zap.Uint64("frames", a.loop.Frames()))
	return nil
}

// frame is the per-frame callback. It requests the next frame unless the
// viewer is quitting.
func (a *App) frame(elapsed float64) {
	if a.input.Update() {
		a.loop.Stop()
		return
	}
	if a.handleEvents() {
		a.loop.Stop()
		return
	}

	a.reconciler.Reconcile(a.window.DrawableSize())
	for _, oc := range a.controls {
		oc.Update()
	}

	a.compositor.Render(a.renderer, a.scenery.scene, elapsed)

	if a.captureRequested {
		a.captureRequested = false
		if _, err := a.shots.Capture(a.renderer); err != nil {
			a.log.Error("screenshot failed", zap.Error(err))
		}
	}

	a.renderer.Present()
	a.window.SwapBuffers()
	a.countFrame()

	a.loop.RequestFrame(a.frame)
}

// handleEvents applies this frame's input and reports whether to quit.
func (a *App) handleEvents() bool {
	quit, capture := keyActions(a.input)
	if quit {
		return true
	}
	if capture {
		a.captureRequested = true
	}

	w, h := a.window.DrawableSize()
	sx, sy := a.window.PixelScale()
	s := surface{width: w, height: h, scaleX: sx, scaleY: sy}

	for _, e := range a.input.Events() {
		switch e.Type {
		case input.EventKeyDown, input.EventKeyUp:
			// handled by keyActions
		case input.EventWindowResize:
			a.log.Debug("window size changed", zap.Int("width", e.Width), zap.Int("height", e.Height))
		default:
			a.pointer.handle(e, s)
		}
	}
	return false
}

type keyState interface {
	IsKeyPressed(sdl.Scancode) bool
}

// keyActions maps this frame's key presses: Esc quits, F12 captures.
func keyActions(keys keyState) (quit, capture bool) {
	return keys.IsKeyPressed(sdl.SCANCODE_ESCAPE), keys.IsKeyPressed(sdl.SCANCODE_F12)
}

func (a *App) countFrame() {
	a.fpsFrames++
	if since := time.Since(a.fpsTimer); since >= time.Second {
		st := a.renderer.Stats()
		a.log.Debug("fps",
			zap.Float64("fps", float64(a.fpsFrames)/since.Seconds()),
			zap.Int("draw_calls", st.DrawCalls),
			zap.Int("triangles", st.Triangles),
			zap.Int("shadow_maps", st.ShadowMaps),
		)
		a.fpsFrames = 0
		a.fpsTimer = time.Now()
	}
}

// Close releases GPU resources and the window.
func (a *App) Close() {
	a.log.Info("closing viewer")

	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
