package viewport

import (
	"github.com/Faultbox/dualview/internal/engine/camera"
	"github.com/Faultbox/dualview/internal/engine/scene"
)

// DefaultTimeScale turns elapsed milliseconds into radians for the first spinner.
const DefaultTimeScale = 0.01

// Drawer is the rendering backend the compositor drives.
type Drawer interface {
	Size() (width, height int)
	SetViewport(r Rect)
	SetScissor(r Rect)
	SetScissorTest(enabled bool)
	Render(sc *scene.Scene, cam camera.Camera)
}

// FramePreparer is implemented by drawers with per-frame work shared by
// both panes, such as shadow maps. PrepareFrame runs once before the panes.
type FramePreparer interface {
	PrepareFrame(sc *scene.Scene)
}

// Pane is one half of the window and the camera it shows.
type Pane struct {
	Name   string
	Camera camera.Camera
}

// Compositor animates the spinning objects and draws the scene twice,
// left pane then right pane, each clipped to its half of the surface.
type Compositor struct {
	Left, Right Pane
	// Spinners rotate about X and Y; spinner i turns (1 + i/10) times as fast as spinner 0.
	Spinners  []*scene.Node
	TimeScale float64
}

// NewCompositor creates a compositor with the default time scale.
func NewCompositor(left, right Pane, spinners ...*scene.Node) *Compositor {
	return &Compositor{
		Left:      left,
		Right:     right,
		Spinners:  spinners,
		TimeScale: DefaultTimeScale,
	}
}

// Animate sets each spinner's X and Y rotation for elapsed milliseconds.
func (c *Compositor) Animate(elapsed float64) {
	for i, n := range c.Spinners {
		if n == nil {
			continue
		}
		angle := float32(elapsed * c.TimeScale * (1 + float64(i)*0.1))
		n.Rotation.X = angle
		n.Rotation.Y = angle
	}
}

// Render animates, then draws the left and right panes.
func (c *Compositor) Render(d Drawer, sc *scene.Scene, elapsed float64) {
	c.Animate(elapsed)

	if p, ok := d.(FramePreparer); ok {
		p.PrepareFrame(sc)
	}

	w, h := d.Size()
	left, right := Split(w, h)
	c.draw(d, sc, c.Left, left)
	c.draw(d, sc, c.Right, right)
}

func (c *Compositor) draw(d Drawer, sc *scene.Scene, p Pane, r Rect) {
	if p.Camera == nil {
		return
	}
	d.SetViewport(r)
	d.SetScissor(r)
	d.SetScissorTest(true)
	d.Render(sc, p.Camera)
}

// PaneAt returns the pane under window pixel x of a surface width pixels
// wide, with its rectangle. The odd column of an odd width belongs to the
// right pane so every pixel maps somewhere.
func (c *Compositor) PaneAt(x, width, height int) (*Pane, Rect) {
	left, right := Split(width, height)
	if x < left.W {
		return &c.Left, left
	}
	return &c.Right, right
}
