package ccm

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Polyfit fits a single-channel polynomial y = c0 + c1*x + ... + cn*x^n
// by least squares, following linearize.cpp's Polyfit constructor: build
// a Vandermonde matrix and solve with SVD.
type Polyfit struct {
	deg    int
	coeffs []float64
}

// NewPolyfit fits a degree-deg polynomial mapping x to y. x and y must
// have equal, nonzero length.
func NewPolyfit(x, y []float64, deg int) (*Polyfit, error) {
	if len(x) != len(y) || len(x) == 0 {
		return nil, &ShapeError{Operation: "NewPolyfit", Want: "equal nonzero length x,y", Got: "mismatched"}
	}
	n := len(x)
	vander := mat.NewDense(n, deg+1, nil)
	for i := 0; i < n; i++ {
		v := 1.0
		for k := 0; k <= deg; k++ {
			vander.Set(i, k, v)
			v *= x[i]
		}
	}
	yCol := mat.NewDense(n, 1, y)

	var coeffs mat.Dense
	if err := coeffs.Solve(vander, yCol); err != nil {
		return nil, &NumericError{Operation: "NewPolyfit", Reason: err.Error()}
	}
	out := make([]float64, deg+1)
	for k := 0; k <= deg; k++ {
		out[k] = coeffs.At(k, 0)
	}
	return &Polyfit{deg: deg, coeffs: out}, nil
}

// Eval evaluates the fitted polynomial at x, following linearize.cpp's
// Polyfit::operator()/fromEW.
func (p *Polyfit) Eval(x float64) float64 {
	var sum, v float64
	v = 1.0
	for k := 0; k <= p.deg; k++ {
		sum += p.coeffs[k] * v
		v *= x
	}
	return sum
}

// EvalAll evaluates the fitted polynomial over a slice.
func (p *Polyfit) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}

// LogPolyfit fits a polynomial in log-log space, following
// linearize.cpp's LogPolyfit: only points where both x>0 and y>0
// contribute to the fit, and evaluation masks out x<0 (mapped to 0)
// before exponentiating back.
type LogPolyfit struct {
	inner *Polyfit
}

// NewLogPolyfit fits log(y) as a polynomial of log(x), restricted to
// entries where x>0 and y>0.
func NewLogPolyfit(x, y []float64, deg int) (*LogPolyfit, error) {
	logX := make([]float64, 0, len(x))
	logY := make([]float64, 0, len(y))
	for i := range x {
		if x[i] > 0 && y[i] > 0 {
			logX = append(logX, math.Log(x[i]))
			logY = append(logY, math.Log(y[i]))
		}
	}
	if len(logX) == 0 {
		return nil, &ConfigurationError{Option: "LogPolyfit", Reason: "no points with x>0 and y>0"}
	}
	inner, err := NewPolyfit(logX, logY, deg)
	if err != nil {
		return nil, err
	}
	return &LogPolyfit{inner: inner}, nil
}

// Eval evaluates the fitted log-log polynomial at x, returning 0 for
// x<0 following linearize.cpp's LogPolyfit::operator().
func (p *LogPolyfit) Eval(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x == 0 {
		return 0
	}
	return math.Exp(p.inner.Eval(math.Log(x)))
}

// EvalAll evaluates the fitted log-log polynomial over a slice.
func (p *LogPolyfit) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}
