package math

import (
	"math"
	"testing"
)

func near(a, b float32) bool {
	d := a - b
	return d > -1e-4 && d < 1e-4
}

func nearVec(a, b Vec3) bool {
	return near(a.X, b.X) && near(a.Y, b.Y) && near(a.Z, b.Z)
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	if result != m {
		t.Errorf("M * I should equal M: got %v", result)
	}
}

func TestTransformPointTranslate(t *testing.T) {
	got := Translate(10, 20, 30).TransformPoint(V3(1, 2, 3))
	if got != V3(11, 22, 33) {
		t.Errorf("TransformPoint: got %v, want (11, 22, 33)", got)
	}
}

func TestRotateY90(t *testing.T) {
	got := RotateY(float32(math.Pi / 2)).TransformPoint(V3(1, 0, 0))
	if !nearVec(got, V3(0, 0, -1)) {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", got)
	}
}

func TestEulerOrder(t *testing.T) {
	// XYZ order applies Z first, then Y, then X to a vector.
	r := V3(float32(math.Pi/2), float32(math.Pi/2), 0)
	got := Euler(r).TransformPoint(V3(1, 0, 0))
	want := RotateX(r.X).TransformPoint(RotateY(r.Y).TransformPoint(V3(1, 0, 0)))
	if !nearVec(got, want) {
		t.Errorf("Euler: got %v, want %v", got, want)
	}
}

func TestCompose(t *testing.T) {
	pos := V3(1, 2, 3)
	rot := V3(0.3, -0.7, 1.1)
	scale := V3(2, 3, 4)

	got := Compose(pos, rot, scale)
	want := Translate(pos.X, pos.Y, pos.Z).Mul(Euler(rot)).Mul(Scale(scale.X, scale.Y, scale.Z))
	for i := range got {
		if !near(got[i], want[i]) {
			t.Fatalf("Compose element %d: got %f, want %f", i, got[i], want[i])
		}
	}
}

func TestInverse(t *testing.T) {
	m := Compose(V3(4, -2, 7), V3(0.5, 1.2, -0.4), V3(2, 0.5, 3))
	product := m.Mul(m.Inverse())
	id := Identity()
	for i := range product {
		if !near(product[i], id[i]) {
			t.Fatalf("M * M^-1 element %d: got %f, want %f", i, product[i], id[i])
		}
	}
}

func TestInverseSingular(t *testing.T) {
	if got := Scale(0, 1, 1).Inverse(); got != Identity() {
		t.Errorf("singular inverse should be identity, got %v", got)
	}
}

func TestPerspective(t *testing.T) {
	m := Perspective(float32(math.Pi/4), 1, 0.1, 100)
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}

	// Near plane maps to NDC z = -1, far plane to +1.
	if z := m.TransformPoint(V3(0, 0, -0.1)).Z; !near(z, -1) {
		t.Errorf("near plane z: got %f, want -1", z)
	}
	if z := m.TransformPoint(V3(0, 0, -100)).Z; !near(z, 1) {
		t.Errorf("far plane z: got %f, want 1", z)
	}
}

func TestOrtho(t *testing.T) {
	m := Ortho(-2, 2, -1, 1, 5, 50)
	if got := m.TransformPoint(V3(2, 1, -5)); !nearVec(got, V3(1, 1, -1)) {
		t.Errorf("Ortho corner: got %v, want (1, 1, -1)", got)
	}
}

func TestLookAt(t *testing.T) {
	m := LookAt(V3(0, 0, 5), V3(0, 0, 0), V3(0, 1, 0))
	if got := m.TransformPoint(V3(0, 0, 0)); !nearVec(got, V3(0, 0, -5)) {
		t.Errorf("LookAt: origin in view space got %v, want (0, 0, -5)", got)
	}
}

func TestNormalMatrixUniformScale(t *testing.T) {
	n := Scale(2, 2, 2).NormalMatrix()
	if !near(n[0], 0.5) || !near(n[4], 0.5) || !near(n[8], 0.5) {
		t.Errorf("NormalMatrix diagonal: got (%f, %f, %f), want 0.5", n[0], n[4], n[8])
	}
}
