package ccm

import "gonum.org/v1/gonum/mat"

// RGBSpace is an RGB working space: three chromaticity primaries, a
// whitepoint (via IO), and a tone curve relating its nonlinear (encoded)
// values to scene-linear light. Grounded on colorspace.hpp's RGBBase_
// and colorspace.cpp's calM/calLinear/calOperations.
type RGBSpace struct {
	name   string
	linear bool
	io     IO
	mTo    *mat.Dense // linear RGB -> XYZ
	mFrom  *mat.Dense // XYZ -> linear RGB
	curve  ToneCurve  // left unset on the linear sibling, which applies no curve

	toXYZOps   Operations
	fromXYZOps Operations
}

// calM solves for the RGB-to-XYZ matrix of a set of primaries under a
// given whitepoint, following colorspace.cpp's ColorSpace::calM: build
// the per-primary XYZ matrix, solve for the three scale factors that
// bring the primaries' mix to the whitepoint, then bake those scales
// into the columns.
func calM(primaries [6]float64, io IO) (mTo, mFrom *mat.Dense, err error) {
	xr, yr, xg, yg, xb, yb := primaries[0], primaries[1], primaries[2], primaries[3], primaries[4], primaries[5]
	Xr, Yr, Zr := xyY2XYZ(xr, yr)
	Xg, Yg, Zg := xyY2XYZ(xg, yg)
	Xb, Yb, Zb := xyY2XYZ(xb, yb)
	xyzPrimaries := mat.NewDense(3, 3, []float64{
		Xr, Xg, Xb,
		Yr, Yg, Yb,
		Zr, Zg, Zb,
	})

	Xw, Yw, Zw, err := XYZWhite(io)
	if err != nil {
		return nil, nil, err
	}
	whitepoint := mat.NewVecDense(3, []float64{Xw, Yw, Zw})

	var scale mat.VecDense
	if err := scale.SolveVec(xyzPrimaries, whitepoint); err != nil {
		return nil, nil, &NumericError{Operation: "calM", Reason: err.Error()}
	}

	m := mat.NewDense(3, 3, nil)
	m.Copy(xyzPrimaries)
	for col := 0; col < 3; col++ {
		s := scale.AtVec(col)
		for row := 0; row < 3; row++ {
			m.Set(row, col, m.At(row, col)*s)
		}
	}

	inv := mat.NewDense(3, 3, nil)
	if err := inv.Inverse(m); err != nil {
		return nil, nil, &NumericError{Operation: "calM", Reason: err.Error()}
	}
	return m, inv, nil
}

func (s *RGBSpace) Name() string { return s.name }
func (s *RGBSpace) Linear() bool { return s.linear }
func (s *RGBSpace) IO() IO       { return s.io }

func (s *RGBSpace) Companion() Space {
	companion, err := GetSpace(s.name, !s.linear)
	if err != nil {
		return s
	}
	return companion
}

// ToXYZ converts an Nx3 matrix of this space's values to XYZ relative to
// the same whitepoint, running the space's toXYZOps pipeline (a
// nonlinear toL step for the encoded variant, then the linear M_to
// matrix), following colorspace.cpp's calOperations/Operations::run.
func (s *RGBSpace) ToXYZ(abc *mat.Dense) *mat.Dense {
	return s.toXYZOps.Run(abc)
}

// FromXYZ converts an Nx3 matrix of XYZ values (relative to this space's
// whitepoint) back into this space's values via the fromXYZOps pipeline
// (the M_from matrix, then a nonlinear fromL step for the encoded
// variant).
func (s *RGBSpace) FromXYZ(xyz *mat.Dense) *mat.Dense {
	return s.fromXYZOps.Run(xyz)
}

// newRGBSpacePair builds and registers both the linear and nonlinear
// variants of an RGB working space sharing the same primaries and
// whitepoint, following colorspace.cpp's ColorSpaceInitial pairing but
// without the original's initialization-order hazard: both variants are
// fully constructed before either is registered.
func newRGBSpacePair(name string, io IO, primaries [6]float64, curve ToneCurve) error {
	mTo, mFrom, err := calM(primaries, io)
	if err != nil {
		return err
	}
	toMatrixOp := LinearOperation(mTo)
	fromMatrixOp := LinearOperation(mFrom)

	linearSpace := &RGBSpace{
		name: name, linear: true, io: io, mTo: mTo, mFrom: mFrom,
		toXYZOps:   NewOperations(toMatrixOp),
		fromXYZOps: NewOperations(fromMatrixOp),
	}
	nonlinearSpace := &RGBSpace{
		name: name, linear: false, io: io, mTo: mTo, mFrom: mFrom, curve: curve,
		toXYZOps:   NewOperations(NonlinearOperation(func(abc *mat.Dense) *mat.Dense { return elementWise(abc, curve.toL) }), toMatrixOp),
		fromXYZOps: NewOperations(fromMatrixOp, NonlinearOperation(func(xyz *mat.Dense) *mat.Dense { return elementWise(xyz, curve.fromL) })),
	}
	RegisterSpace(linearSpace)
	RegisterSpace(nonlinearSpace)
	return nil
}
