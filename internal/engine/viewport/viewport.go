// Package viewport keeps the drawing surface and both cameras in step with
// the window, and composites the two camera views side by side.
package viewport

// Rect is a pixel rectangle with its origin at the bottom-left of the surface.
type Rect struct {
	X, Y int
	W, H int
}

// Split divides a width x height surface into left and right halves.
// For odd widths the rightmost column belongs to neither half.
func Split(width, height int) (left, right Rect) {
	half := width / 2
	return Rect{X: 0, Y: 0, W: half, H: height},
		Rect{X: half, Y: 0, W: half, H: height}
}

// Surface is the backing buffer the frame is drawn into.
type Surface interface {
	Size() (width, height int)
	// SetSize reallocates the buffer; its previous contents are lost.
	SetSize(width, height int)
}
