package ccm

import "gonum.org/v1/gonum/mat"

// LinearizationType selects how measured nonlinear RGB patches are
// mapped to scene-linear RGB before the correction matrix is fit,
// matching linearize.hpp's LINEAR_TYPE enum.
type LinearizationType int

const (
	LinearizeIdentity LinearizationType = iota
	LinearizeGamma
	LinearizeColorPolyfit
	LinearizeColorLogPolyfit
	LinearizeGrayPolyfit
	LinearizeGrayLogPolyfit
)

// Linearizer maps an Nx3 matrix of nonlinear (encoded) RGB to an Nx3
// matrix of scene-linear RGB.
type Linearizer interface {
	Linearize(rgb *mat.Dense) *mat.Dense
}

type identityLinearizer struct{}

func (identityLinearizer) Linearize(rgb *mat.Dense) *mat.Dense { return rgb }

// gammaLinearizer applies a signed power law, following utils.cpp's
// gammaCorrection.
type gammaLinearizer struct{ gamma float64 }

func (g gammaLinearizer) Linearize(rgb *mat.Dense) *mat.Dense {
	return elementWise(rgb, func(v float64) float64 {
		if v >= 0 {
			return pow(v, g.gamma)
		}
		return -pow(-v, g.gamma)
	})
}

// colorPolyLinearizer fits one polynomial per channel (R->R, G->G,
// B->B), following linearize.hpp's LinearColor<T> template. Each
// channel gets its own independently-fit polynomial, unlike
// original_source's LinearColor::linearize, which (per DESIGN.md) reuses
// the red-channel fit for all three channels; this module fits each
// channel correctly instead of reproducing that bug.
type colorPolyLinearizer struct {
	fits [3]*Polyfit
}

func (c colorPolyLinearizer) Linearize(rgb *mat.Dense) *mat.Dense {
	rows, _ := rgb.Dims()
	out := mat.NewDense(rows, 3, nil)
	for ch := 0; ch < 3; ch++ {
		col := mat.Col(nil, ch, rgb)
		fitted := c.fits[ch].EvalAll(col)
		for i, v := range fitted {
			out.Set(i, ch, v)
		}
	}
	return out
}

type colorLogPolyLinearizer struct {
	fits [3]*LogPolyfit
}

func (c colorLogPolyLinearizer) Linearize(rgb *mat.Dense) *mat.Dense {
	rows, _ := rgb.Dims()
	out := mat.NewDense(rows, 3, nil)
	for ch := 0; ch < 3; ch++ {
		col := mat.Col(nil, ch, rgb)
		fitted := c.fits[ch].EvalAll(col)
		for i, v := range fitted {
			out.Set(i, ch, v)
		}
	}
	return out
}

// grayPolyLinearizer fits a single polynomial against neutral (gray)
// patches only, then applies it identically to every channel, following
// linearize.hpp's LinearGray<T> template.
type grayPolyLinearizer struct{ fit *Polyfit }

func (g grayPolyLinearizer) Linearize(rgb *mat.Dense) *mat.Dense {
	return elementWise(rgb, g.fit.Eval)
}

type grayLogPolyLinearizer struct{ fit *LogPolyfit }

func (g grayLogPolyLinearizer) Linearize(rgb *mat.Dense) *mat.Dense {
	return elementWise(rgb, g.fit.Eval)
}

// BuildLinearizer constructs the Linearizer named by t, fitting against
// masked source/destination patches where the variant requires a fit.
// gray and saturated are row masks over src/dst (grays: neutral
// patches, per Color.GetGray; saturated: in-gamut patches, per
// saturateMask); grayPoly/grayLogPoly require their intersection to be
// nonempty or a ConfigurationError is returned (SPEC_FULL.md §4.F).
func BuildLinearizer(t LinearizationType, gamma float64, deg int, srcNonlinear, dstLinear *mat.Dense, gray, saturated []bool) (Linearizer, error) {
	switch t {
	case LinearizeIdentity:
		return identityLinearizer{}, nil
	case LinearizeGamma:
		return gammaLinearizer{gamma: gamma}, nil
	case LinearizeColorPolyfit:
		src := maskCopyRows(srcNonlinear, saturated)
		dst := maskCopyRows(dstLinear, saturated)
		var fits [3]*Polyfit
		for ch := 0; ch < 3; ch++ {
			fit, err := NewPolyfit(mat.Col(nil, ch, src), mat.Col(nil, ch, dst), deg)
			if err != nil {
				return nil, err
			}
			fits[ch] = fit
		}
		return colorPolyLinearizer{fits: fits}, nil
	case LinearizeColorLogPolyfit:
		src := maskCopyRows(srcNonlinear, saturated)
		dst := maskCopyRows(dstLinear, saturated)
		var fits [3]*LogPolyfit
		for ch := 0; ch < 3; ch++ {
			fit, err := NewLogPolyfit(mat.Col(nil, ch, src), mat.Col(nil, ch, dst), deg)
			if err != nil {
				return nil, err
			}
			fits[ch] = fit
		}
		return colorLogPolyLinearizer{fits: fits}, nil
	case LinearizeGrayPolyfit:
		combined := maskAnd(gray, saturated)
		if maskCount(combined) == 0 {
			return nil, &ConfigurationError{Option: "WithLinearization", Reason: "no gray patches survive the saturation mask"}
		}
		srcGray := rgb2gray(maskCopyRows(srcNonlinear, combined))
		dstGray := rgb2gray(maskCopyRows(dstLinear, combined))
		fit, err := NewPolyfit(mat.Col(nil, 0, srcGray), mat.Col(nil, 0, dstGray), deg)
		if err != nil {
			return nil, err
		}
		return grayPolyLinearizer{fit: fit}, nil
	case LinearizeGrayLogPolyfit:
		combined := maskAnd(gray, saturated)
		if maskCount(combined) == 0 {
			return nil, &ConfigurationError{Option: "WithLinearization", Reason: "no gray patches survive the saturation mask"}
		}
		srcGray := rgb2gray(maskCopyRows(srcNonlinear, combined))
		dstGray := rgb2gray(maskCopyRows(dstLinear, combined))
		fit, err := NewLogPolyfit(mat.Col(nil, 0, srcGray), mat.Col(nil, 0, dstGray), deg)
		if err != nil {
			return nil, err
		}
		return grayLogPolyLinearizer{fit: fit}, nil
	default:
		return nil, &DomainError{Kind: "LinearizationType", Value: "unknown"}
	}
}
