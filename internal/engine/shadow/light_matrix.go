package shadow

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/dualview/internal/engine/lighting"
	"github.com/Faultbox/dualview/pkg/math"
)

// DirectionalMatrix returns the light view-projection for a directional
// light: an orthographic box from the light's shadow camera, placed at the
// light position and looking at its target.
func DirectionalMatrix(l *lighting.Directional) math.Mat4 {
	sc := l.Shadow
	view := math.LookAt(l.Position, l.Target, upFor(l.Target.Sub(l.Position)))
	proj := math.Ortho(sc.Left, sc.Right, sc.Bottom, sc.Top, sc.Near, sc.Far)
	return proj.Mul(view)
}

// SpotMatrix returns the light view-projection for a spot light: a square
// perspective frustum covering the full cone. Far is the light distance,
// or the shadow camera's far plane when the light has no cutoff.
func SpotMatrix(l *lighting.Spot) math.Mat4 {
	sc := l.Shadow
	far := sc.Far
	if l.Distance > 0 {
		far = l.Distance
	}
	near := sc.Near
	if near <= 0 || near >= far {
		near = far * 0.001
	}

	fov := math32.Min(2*l.Angle, math32.Pi*0.99)
	view := math.LookAt(l.Position, l.Target, upFor(l.Target.Sub(l.Position)))
	proj := math.Perspective(fov, 1, near, far)
	return proj.Mul(view)
}

// upFor picks a view up vector that is not parallel to the view direction.
func upFor(dir math.Vec3) math.Vec3 {
	n := dir.Normalize()
	if math32.Abs(n.Y) > 0.99 {
		return math.V3(0, 0, 1)
	}
	return math.V3(0, 1, 0)
}

// FitDirectional sizes a directional light's shadow camera to enclose
// bounds as seen from the light, with a little padding. It is used when
// the scene does not configure the shadow box explicitly.
func FitDirectional(l *lighting.Directional, bounds math.Box3) {
	if bounds.IsEmpty() {
		return
	}
	view := math.LookAt(l.Position, l.Target, upFor(l.Target.Sub(l.Position)))
	ls := bounds.Transform(view)

	pad := ls.Size().Length() * 0.05
	l.Shadow.Left = ls.Min.X - pad
	l.Shadow.Right = ls.Max.X + pad
	l.Shadow.Bottom = ls.Min.Y - pad
	l.Shadow.Top = ls.Max.Y + pad
	// The camera looks down -Z in view space. An orthographic near plane may
	// sit behind the light.
	l.Shadow.Near = -ls.Max.Z - pad
	l.Shadow.Far = -ls.Min.Z + pad
}
