package ccm

import (
	"math"
	"testing"

	"gonum.org/v1/gonum/mat"
)

// syntheticSRGBPatches builds a measured/reference pair where the
// "measured" source is exactly the reference's own linear sRGB values,
// so a correctly-fit CCM under RGBLDistance should recover close to the
// identity matrix.
func syntheticSRGBPatches(t *testing.T) (src, dstLab *mat.Dense) {
	t.Helper()
	srgbLinear, err := GetSpace("sRGB", true)
	if err != nil {
		t.Fatal(err)
	}
	labColor := NewColor(Macbeth_D50_2, NewLabSpace(D50_2))
	rgblColor, err := labColor.To(srgbLinear, CAMBradford, true)
	if err != nil {
		t.Fatal(err)
	}
	return rgblColor.Values(), Macbeth_D50_2
}

func TestCCMFitRecoversIdentityUnderRGBL(t *testing.T) {
	src, dstLab := syntheticSRGBPatches(t)

	model, err := New(src, dstLab, D50_2,
		WithLinearization(LinearizeIdentity),
		WithDistance(RGBLDistance),
		WithColorSpace("sRGB"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := model.Fit(); err != nil {
		t.Fatalf("Fit: %v", err)
	}

	ccmMat, err := model.CCM()
	if err != nil {
		t.Fatalf("CCM: %v", err)
	}
	rows, cols := ccmMat.Dims()
	if rows != 3 || cols != 3 {
		t.Fatalf("CCM dims = %dx%d, want 3x3", rows, cols)
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			want := 0.0
			if i == j {
				want = 1.0
			}
			if math.Abs(ccmMat.At(i, j)-want) > 0.05 {
				t.Errorf("ccm[%d][%d] = %v, want ~%v", i, j, ccmMat.At(i, j), want)
			}
		}
	}

	if _, err := model.Loss(); err != nil {
		t.Errorf("Loss after Fit: %v", err)
	}
}

func TestCCMInferRoundTripsNearIdentity(t *testing.T) {
	src, dstLab := syntheticSRGBPatches(t)
	model, err := New(src, dstLab, D50_2,
		WithLinearization(LinearizeIdentity),
		WithDistance(RGBLDistance),
		WithColorSpace("sRGB"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := model.Fit(); err != nil {
		t.Fatal(err)
	}

	probe := mat.NewDense(1, 3, []float64{0.3, 0.5, 0.2})
	out, err := model.Infer(probe, true)
	if err != nil {
		t.Fatal(err)
	}
	for j := 0; j < 3; j++ {
		if math.Abs(out.At(0, j)-probe.At(0, j)) > 0.05 {
			t.Errorf("Infer channel %d = %v, want ~%v", j, out.At(0, j), probe.At(0, j))
		}
	}
}

func TestCCMFitWithRGBLAndLeastSquaresSkipsSimplex(t *testing.T) {
	src, dstLab := syntheticSRGBPatches(t)
	model, err := New(src, dstLab, D50_2,
		WithLinearization(LinearizeIdentity),
		WithDistance(RGBLDistance),
		WithInitialMethod(InitialLeastSquares),
		WithColorSpace("sRGB"),
	)
	if err != nil {
		t.Fatal(err)
	}
	preFit := mat.DenseCopyOf(model.ccmMat)
	if err := model.Fit(); err != nil {
		t.Fatal(err)
	}
	postFit, err := model.CCM()
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := preFit.Dims()
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if preFit.At(i, j) != postFit.At(i, j) {
				t.Errorf("RGBLDistance+LeastSquares Fit changed ccm[%d][%d]: %v -> %v, want exact match to initial guess", i, j, preFit.At(i, j), postFit.At(i, j))
			}
		}
	}
}

func TestCCM4x3Shape(t *testing.T) {
	src, dstLab := syntheticSRGBPatches(t)
	model, err := New(src, dstLab, D50_2,
		WithLinearization(LinearizeIdentity),
		WithDistance(RGBLDistance),
		WithCCMType(CCM4x3),
		WithColorSpace("sRGB"),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := model.Fit(); err != nil {
		t.Fatal(err)
	}
	ccmMat, err := model.CCM()
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := ccmMat.Dims()
	if rows != 4 || cols != 3 {
		t.Fatalf("CCM dims = %dx%d, want 4x3", rows, cols)
	}
}

func TestNewRejectsRowMismatch(t *testing.T) {
	src := mat.NewDense(2, 3, []float64{0, 0, 0, 1, 1, 1})
	dstLab := mat.NewDense(3, 3, []float64{0, 0, 0, 1, 1, 1, 2, 2, 2})
	if _, err := New(src, dstLab, D65_2); err == nil {
		t.Fatal("expected ShapeError for row-count mismatch")
	}
}

func TestNotFittedBeforeFit(t *testing.T) {
	src, dstLab := syntheticSRGBPatches(t)
	model, err := New(src, dstLab, D50_2, WithLinearization(LinearizeIdentity))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := model.CCM(); err == nil {
		t.Error("expected NotFittedError from CCM before Fit")
	}
	if _, err := model.Loss(); err == nil {
		t.Error("expected NotFittedError from Loss before Fit")
	}
	if _, err := model.Infer(src, true); err == nil {
		t.Error("expected NotFittedError from Infer before Fit")
	}
}

func TestCCMFitEndToEndGammaCIE2000LossBelowFive(t *testing.T) {
	srgbNonlinear, err := GetSpace("sRGB", false)
	if err != nil {
		t.Fatal(err)
	}
	labColor := NewColor(Macbeth_D65_2, NewLabSpace(D65_2))
	srgbColor, err := labColor.To(srgbNonlinear, CAMBradford, true)
	if err != nil {
		t.Fatal(err)
	}

	model, err := New(srgbColor.Values(), Macbeth_D65_2, D65_2,
		WithLinearization(LinearizeGamma),
		WithGamma(2.2),
		WithDistance(CIE2000),
		WithCCMType(CCM3x3),
		WithColorSpace("sRGB"),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := model.Fit(); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	loss, err := model.Loss()
	if err != nil {
		t.Fatal(err)
	}
	if loss >= 5.0 {
		t.Errorf("Loss = %v, want < 5.0", loss)
	}
}

func TestCCMFitWithNelderMeadConverges(t *testing.T) {
	src, dstLab := syntheticSRGBPatches(t)
	model, err := New(src, dstLab, D50_2,
		WithLinearization(LinearizeIdentity),
		WithDistance(CIE2000),
		WithColorSpace("sRGB"),
		WithMaxIter(200),
	)
	if err != nil {
		t.Fatal(err)
	}
	if err := model.Fit(); err != nil {
		t.Fatalf("Fit: %v", err)
	}
	loss, err := model.Loss()
	if err != nil {
		t.Fatal(err)
	}
	if math.IsNaN(loss) || math.IsInf(loss, 0) {
		t.Errorf("Loss = %v, want finite", loss)
	}
}
