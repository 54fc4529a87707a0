package viewport

import (
	"go.uber.org/zap"

	"github.com/Faultbox/dualview/internal/engine/camera"
	"github.com/Faultbox/dualview/internal/logger"
)

// Reconciler brings the surface and both camera projections in line with
// the drawable size. It is called once per frame before drawing.
type Reconciler struct {
	Surface     Surface
	Perspective *camera.Perspective
	Ortho       *camera.Orthographic

	log *zap.Logger
}

// NewReconciler creates a reconciler for the given surface and cameras.
func NewReconciler(surface Surface, persp *camera.Perspective, ortho *camera.Orthographic) *Reconciler {
	return &Reconciler{
		Surface:     surface,
		Perspective: persp,
		Ortho:       ortho,
		log:         logger.Named("viewport"),
	}
}

// Reconcile resizes the surface to width x height if it differs and updates
// both projections to the new aspect ratio, leaving them marked for
// recomputation. It reports whether anything changed. A non-positive
// dimension is ignored.
func (r *Reconciler) Reconcile(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	w, h := r.Surface.Size()
	if w == width && h == height {
		return false
	}

	r.Surface.SetSize(width, height)
	aspect := float32(width) / float32(height)

	if r.Perspective != nil {
		r.Perspective.SetAspect(aspect)
	}
	if r.Ortho != nil {
		r.Ortho.SetBounds(-aspect, aspect, 1, -1)
	}

	if r.log != nil {
		r.log.Debug("surface resized",
			zap.Int("from_width", w), zap.Int("from_height", h),
			zap.Int("width", width), zap.Int("height", height),
			zap.Float32("aspect", aspect))
	}
	return true
}
