package math3d

import (
	"math"
	"testing"
)

const eps = 1e-9

func matApproxEqual(a, b Mat4) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

func TestMat4InverseRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		m    Mat4
	}{
		{"identity", Identity()},
		{"translate", Translate(V3(1, -2, 3))},
		{"trs", Compose(V3(1, 2, 3), V3(0.3, -0.7, 1.1), V3(2, 0.5, 3))},
		{"view projection", Perspective(math.Pi/3, 1.5, 0.1, 100).Mul(LookAt(V3(3, 4, 5), Zero3(), V3(0, 1, 0)))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv, ok := tt.m.InverseOK()
			if !ok {
				t.Fatalf("InverseOK() reported singular matrix")
			}
			if got := tt.m.Mul(inv); !matApproxEqual(got, Identity()) {
				t.Errorf("m * m^-1 = %v, want identity", got)
			}
		})
	}
}

func TestMat4InverseSingular(t *testing.T) {
	_, ok := Scale(V3(1, 0, 1)).InverseOK()
	if ok {
		t.Errorf("InverseOK() on singular matrix reported ok")
	}
	if got := Scale(V3(1, 0, 1)).Inverse(); got != Identity() {
		t.Errorf("Inverse() on singular matrix = %v, want identity", got)
	}
}

func TestRotateEulerOrder(t *testing.T) {
	// Rx(-pi/2) turns the -Y axis toward +Z.
	got := RotateEuler(V3(-math.Pi/2, 0, 0)).MulVec3Dir(V3(0, -1, 0))
	if !got.ApproxEqual(V3(0, 0, 1), eps) {
		t.Errorf("RotateEuler(-pi/2,0,0) * -Y = %v, want +Z", got)
	}
}

func TestComposeAppliesScaleThenRotationThenTranslation(t *testing.T) {
	m := Compose(V3(10, 0, 0), V3(0, math.Pi/2, 0), V3(2, 2, 2))
	got := m.MulVec3(V3(1, 0, 0))
	// scale -> (2,0,0), rotate about Y by 90° -> (0,0,-2), translate -> (10,0,-2)
	if !got.ApproxEqual(V3(10, 0, -2), eps) {
		t.Errorf("Compose(...) * (1,0,0) = %v, want (10,0,-2)", got)
	}
}

func TestPerspectiveMapsClipPlanes(t *testing.T) {
	proj := Perspective(math.Pi/2, 1, 1, 10)
	near := proj.MulVec4(V4(0, 0, -1, 1)).PerspectiveDivide()
	far := proj.MulVec4(V4(0, 0, -10, 1)).PerspectiveDivide()
	if math.Abs(near.Z+1) > eps {
		t.Errorf("near plane z = %v, want -1", near.Z)
	}
	if math.Abs(far.Z-1) > eps {
		t.Errorf("far plane z = %v, want 1", far.Z)
	}
}

func TestLookAtMovesEyeToOrigin(t *testing.T) {
	eye := V3(1, 2, 7)
	view := LookAt(eye, V3(1, 2, 0), V3(0, 1, 0))
	if got := view.MulVec3(eye); !got.ApproxEqual(Zero3(), eps) {
		t.Errorf("view * eye = %v, want origin", got)
	}
	if got := view.MulVec3(V3(1, 2, 0)); !got.ApproxEqual(V3(0, 0, -7), eps) {
		t.Errorf("view * target = %v, want (0,0,-7)", got)
	}
}

func TestMat4FromColumnMajor(t *testing.T) {
	// glTF translation lives in elements 12..14 of the column-major array.
	m := Mat4FromColumnMajor([]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 4, 5, 6, 1})
	if m != Translate(V3(4, 5, 6)) {
		t.Errorf("Mat4FromColumnMajor() = %v, want translation (4,5,6)", m)
	}
}

func TestQuatToMat4(t *testing.T) {
	// 90° about Y.
	s := math.Sin(math.Pi / 4)
	got := QuatToMat4(0, s, 0, s).MulVec3Dir(V3(1, 0, 0))
	if !got.ApproxEqual(V3(0, 0, -1), eps) {
		t.Errorf("QuatToMat4(90° Y) * X = %v, want -Z", got)
	}
}

func TestRayIntersectTriangle(t *testing.T) {
	a, b, c := V3(-1, -1, 0), V3(1, -1, 0), V3(0, 1, 0)
	tests := []struct {
		name  string
		ray   Ray
		want  float64
		isHit bool
	}{
		{"front hit", Ray{V3(0, 0, 5), V3(0, 0, -1)}, 5, true},
		{"back side hit", Ray{V3(0, 0, -3), V3(0, 0, 1)}, 3, true},
		{"miss outside", Ray{V3(5, 5, 5), V3(0, 0, -1)}, 0, false},
		{"behind origin", Ray{V3(0, 0, 5), V3(0, 0, 1)}, 0, false},
		{"parallel", Ray{V3(0, 0, 5), V3(1, 0, 0)}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.ray.IntersectTriangle(a, b, c)
			if ok != tt.isHit {
				t.Fatalf("IntersectTriangle() hit = %v, want %v", ok, tt.isHit)
			}
			if ok && math.Abs(got-tt.want) > eps {
				t.Errorf("IntersectTriangle() t = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVec2DistanceAndFinite(t *testing.T) {
	if got := V2(0, 0).Distance(V2(3, 4)); got != 5 {
		t.Errorf("Distance() = %v, want 5", got)
	}
	if V2(math.NaN(), 0).IsFinite() {
		t.Errorf("IsFinite() with NaN = true, want false")
	}
	if V2(0, math.Inf(1)).IsFinite() {
		t.Errorf("IsFinite() with Inf = true, want false")
	}
}
