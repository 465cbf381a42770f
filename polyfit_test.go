package ccm

import (
	"math"
	"testing"
)

func TestPolyfitRecoversLinearFunction(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2*v + 1
	}
	fit, err := NewPolyfit(x, y, 1)
	if err != nil {
		t.Fatalf("NewPolyfit: %v", err)
	}
	for _, v := range []float64{0.5, 2.5, 10} {
		want := 2*v + 1
		got := fit.Eval(v)
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("Eval(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestPolyfitMismatchedLength(t *testing.T) {
	if _, err := NewPolyfit([]float64{1, 2}, []float64{1}, 1); err == nil {
		t.Fatal("expected ShapeError for mismatched lengths")
	}
}

func TestLogPolyfitRecoversPowerLaw(t *testing.T) {
	x := []float64{0.1, 0.5, 1, 2, 4}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = math.Pow(v, 2.2)
	}
	fit, err := NewLogPolyfit(x, y, 1)
	if err != nil {
		t.Fatalf("NewLogPolyfit: %v", err)
	}
	for _, v := range []float64{0.3, 1.5, 3} {
		want := math.Pow(v, 2.2)
		got := fit.Eval(v)
		if math.Abs(got-want)/want > 1e-3 {
			t.Errorf("Eval(%v) = %v, want %v", v, got, want)
		}
	}
}

func TestLogPolyfitNegativeInputIsZero(t *testing.T) {
	x := []float64{0.1, 0.5, 1, 2, 4}
	y := []float64{0.01, 0.25, 1, 4, 16}
	fit, err := NewLogPolyfit(x, y, 1)
	if err != nil {
		t.Fatal(err)
	}
	if fit.Eval(-1) != 0 {
		t.Errorf("Eval(-1) = %v, want 0", fit.Eval(-1))
	}
}

func TestLogPolyfitNoValidPoints(t *testing.T) {
	x := []float64{-1, -2, -3}
	y := []float64{-1, -2, -3}
	if _, err := NewLogPolyfit(x, y, 1); err == nil {
		t.Fatal("expected ConfigurationError when no points satisfy x>0 and y>0")
	}
}
