package align

import (
	"math"
	"testing"
)

func TestNormalize_UnitLength(t *testing.T) {
	v := Normalize([]float32{3, 4})
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(math.Sqrt(sum)-1.0) > 1e-6 {
		t.Errorf("expected unit length, got norm %f", math.Sqrt(sum))
	}
	if math.Abs(float64(v[0])-0.6) > 1e-6 || math.Abs(float64(v[1])-0.8) > 1e-6 {
		t.Errorf("expected [0.6 0.8], got %v", v)
	}
}

func TestNormalize_ZeroVector(t *testing.T) {
	v := Normalize([]float32{0, 0, 0})
	for _, x := range v {
		if x != 0 {
			t.Errorf("zero vector must stay zero, got %v", v)
		}
	}
}

func TestDot_Cosine(t *testing.T) {
	a := Normalize([]float32{1, 0})
	b := Normalize([]float32{0, 1})
	if got := Dot(a, b); math.Abs(got) > 1e-6 {
		t.Errorf("orthogonal vectors: expected 0, got %f", got)
	}
	if got := Dot(a, a); math.Abs(got-1.0) > 1e-6 {
		t.Errorf("identical unit vectors: expected 1, got %f", got)
	}
	c := Normalize([]float32{-1, 0})
	if got := Dot(a, c); math.Abs(got+1.0) > 1e-6 {
		t.Errorf("opposite unit vectors: expected -1, got %f", got)
	}
}

func TestDot_MismatchedLength(t *testing.T) {
	if got := Dot([]float32{1, 0}, []float32{1, 0, 0}); got != 0 {
		t.Errorf("expected 0 for mismatched lengths, got %f", got)
	}
}
