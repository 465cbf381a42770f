package ccm

import "gonum.org/v1/gonum/mat"

type historyKey struct {
	name   string
	linear bool
	io     IO
}

// Color is an Nx3 matrix of color values tagged with the Space they are
// expressed in, plus a private memo of previously-requested conversions.
// Grounded on original_source's Color class (color.cpp).
type Color struct {
	values  *mat.Dense
	space   Space
	history map[historyKey]*Color
}

// NewColor wraps values (an Nx3 matrix) as a Color in the given space.
func NewColor(values *mat.Dense, space Space) *Color {
	return &Color{values: values, space: space, history: make(map[historyKey]*Color)}
}

// Values returns the underlying Nx3 matrix.
func (c *Color) Values() *mat.Dense { return c.values }

// Space returns the space this Color's values are expressed in.
func (c *Color) Space() Space { return c.space }

// To converts c into target, adapting between whitepoints with method if
// they differ. When save is true (the default call site passes true),
// the result is memoized under target's (name, linear, io) key and
// returned again on a repeat request, following color.cpp's Color::to.
func (c *Color) To(target Space, method CAM, save bool) (*Color, error) {
	key := historyKey{target.Name(), target.Linear(), target.IO()}
	if save {
		if cached, ok := c.history[key]; ok {
			return cached, nil
		}
	}

	var out *mat.Dense
	if c.space.Name() == target.Name() && c.space.IO() == target.IO() && c.space.Linear() == target.Linear() {
		out = c.values
	} else {
		xyz := c.space.ToXYZ(c.values)
		if c.space.IO() != target.IO() {
			m, err := ChromaticAdaptationMatrix(c.space.IO(), target.IO(), method)
			if err != nil {
				return nil, err
			}
			xyz = adaptXYZ(xyz, m)
		}
		out = target.FromXYZ(xyz)
	}

	result := NewColor(out, target)
	if save {
		c.history[key] = result
	}
	return result, nil
}

// ToGray converts c to XYZ relative to io and returns just the Y
// (luminance) channel as an Nx1 matrix, following color.cpp's
// Color::toGray.
func (c *Color) ToGray(io IO, method CAM, save bool) (*mat.Dense, error) {
	xyzColor, err := c.To(NewXYZSpace(io), method, save)
	if err != nil {
		return nil, err
	}
	rows, _ := xyzColor.values.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, xyzColor.values.At(i, 1))
	}
	return out, nil
}

// ToLuminant converts c to Lab relative to io and returns just the L*
// channel as an Nx1 matrix, following color.cpp's Color::toLuminant.
func (c *Color) ToLuminant(io IO, method CAM, save bool) (*mat.Dense, error) {
	labColor, err := c.To(NewLabSpace(io), method, save)
	if err != nil {
		return nil, err
	}
	rows, _ := labColor.values.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, labColor.values.At(i, 0))
	}
	return out, nil
}

// Diff computes the per-row distance between c and other under dt,
// converting both into whatever representation the metric needs first:
// Lab for CIE*/CMC* metrics (relative to io), the nonlinear space's own
// values for RGBDistance, the linear space's own values for
// RGBLDistance. Grounded on color.cpp's Color::diff.
func (c *Color) Diff(other *Color, io IO, method CAM, dt DistanceType) ([]float64, error) {
	switch dt {
	case RGBDistance:
		var nlSpace Space = c.space
		if c.space.Linear() {
			nlSpace = c.space.Companion()
		}
		a, err := c.To(nlSpace, method, true)
		if err != nil {
			return nil, err
		}
		b, err := other.To(nlSpace, method, true)
		if err != nil {
			return nil, err
		}
		return Distance(dt, a.values, b.values)
	case RGBLDistance:
		var linSpace Space = c.space
		if !c.space.Linear() {
			linSpace = c.space.Companion()
		}
		a, err := c.To(linSpace, method, true)
		if err != nil {
			return nil, err
		}
		b, err := other.To(linSpace, method, true)
		if err != nil {
			return nil, err
		}
		return Distance(dt, a.values, b.values)
	default:
		labA, err := c.To(NewLabSpace(io), method, true)
		if err != nil {
			return nil, err
		}
		labB, err := other.To(NewLabSpace(io), method, true)
		if err != nil {
			return nil, err
		}
		return Distance(dt, labA.values, labB.values)
	}
}

// GetGray classifies each row of c as neutral (gray) or colored by
// converting to Lab relative to D65_2, zeroing the a*/b* channels to
// build a synthetic neutral companion, and thresholding the CIEDE2000
// distance between the two against jdn (the "just discernible
// neutrality" threshold), following color.cpp's Color::getGray.
func (c *Color) GetGray(jdn float64) ([]bool, error) {
	lab, err := c.To(NewLabSpace(D65_2), CAMBradford, true)
	if err != nil {
		return nil, err
	}
	rows, _ := lab.values.Dims()
	neutral := mat.NewDense(rows, 3, nil)
	for i := 0; i < rows; i++ {
		neutral.Set(i, 0, lab.values.At(i, 0))
		neutral.Set(i, 1, 0)
		neutral.Set(i, 2, 0)
	}
	d := deltaE2000(lab.values, neutral, 1, 1, 1)
	grays := make([]bool, rows)
	for i, v := range d {
		grays[i] = v < jdn
	}
	return grays, nil
}
