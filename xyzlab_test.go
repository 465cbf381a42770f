package ccm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestLabRoundTrip(t *testing.T) {
	lab := NewLabSpace(D65_2)
	in := mat.NewDense(3, 3, []float64{
		50, 10, -10,
		80, -5, 20,
		20, 0, 0,
	})
	xyz := lab.ToXYZ(in)
	back := lab.FromXYZ(xyz)

	rows, _ := in.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(in.At(i, j)-back.At(i, j)) > 1e-6 {
				t.Errorf("Lab round trip mismatch at (%d,%d): in=%v back=%v", i, j, in.At(i, j), back.At(i, j))
			}
		}
	}
}

func TestLabWhiteIsZeroAB(t *testing.T) {
	lab := NewLabSpace(D65_2)
	Xn, Yn, Zn, err := XYZWhite(D65_2)
	if err != nil {
		t.Fatal(err)
	}
	xyz := mat.NewDense(1, 3, []float64{Xn, Yn, Zn})
	out := lab.FromXYZ(xyz)
	if math.Abs(out.At(0, 0)-100) > 1e-4 {
		t.Errorf("L* of whitepoint = %v, want ~100", out.At(0, 0))
	}
	if math.Abs(out.At(0, 1)) > 1e-4 || math.Abs(out.At(0, 2)) > 1e-4 {
		t.Errorf("a*/b* of whitepoint should be ~0, got (%v,%v)", out.At(0, 1), out.At(0, 2))
	}
}

func TestChromaticAdaptationIdentityForSameIO(t *testing.T) {
	m, err := ChromaticAdaptationMatrix(D65_2, D65_2, CAMBradford)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(m.At(i, j)-want) > 1e-9 {
				t.Errorf("identity CAT[%d][%d] = %v, want %v", i, j, m.At(i, j), want)
			}
		}
	}
}

func TestChromaticAdaptationD50ToD65BradfordMatchesPublishedValues(t *testing.T) {
	want := [3][3]float64{
		{0.9555766, -0.0230393, 0.0631636},
		{-0.0282895, 1.0099416, 0.0210077},
		{0.0122982, -0.0204830, 1.3299098},
	}
	m, err := ChromaticAdaptationMatrix(D50_2, D65_2, CAMBradford)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if math.Abs(m.At(i, j)-want[i][j]) > 1e-4 {
				t.Errorf("CAT[%d][%d] = %v, want %v", i, j, m.At(i, j), want[i][j])
			}
		}
	}
}

func TestChromaticAdaptationVonKriesIdentityForSameIO(t *testing.T) {
	m, err := ChromaticAdaptationMatrix(D65_2, D65_2, CAMVonKries)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(m.At(i, j)-want) > 1e-9 {
				t.Errorf("VON_KRIES identity CAT[%d][%d] = %v, want %v", i, j, m.At(i, j), want)
			}
		}
	}
}

func TestChromaticAdaptationRoundTrip(t *testing.T) {
	forward, err := ChromaticAdaptationMatrix(D65_2, D50_2, CAMBradford)
	if err != nil {
		t.Fatal(err)
	}
	backward, err := ChromaticAdaptationMatrix(D50_2, D65_2, CAMBradford)
	if err != nil {
		t.Fatal(err)
	}
	var product mat.Dense
	product.Mul(backward, forward)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(product.At(i, j)-want) > 1e-6 {
				t.Errorf("CAT round trip [%d][%d] = %v, want %v", i, j, product.At(i, j), want)
			}
		}
	}
}

func TestChromaticAdaptationCacheReturnsSameMatrix(t *testing.T) {
	a, err := ChromaticAdaptationMatrix(D65_2, D50_2, CAMVonKries)
	if err != nil {
		t.Fatal(err)
	}
	b, err := ChromaticAdaptationMatrix(D65_2, D50_2, CAMVonKries)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected cached matrix to be the same pointer on repeat lookup")
	}
}
