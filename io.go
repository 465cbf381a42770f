package ccm

import "fmt"

// IO identifies a standard illuminant/observer pair, such as "D65" under
// the 2-degree observer. It is the key chromatic adaptation and XYZ
// whitepoint lookups are built around.
type IO struct {
	Illuminant string
	Observer   int
}

// String renders an IO the way the rest of this package's diagnostics
// names it, e.g. "D65_2".
func (io IO) String() string {
	return fmt.Sprintf("%s_%d", io.Illuminant, io.Observer)
}

// Less gives IO a total order (by illuminant name, then observer); it has
// no photometric meaning.
func (io IO) Less(other IO) bool {
	if io.Illuminant != other.Illuminant {
		return io.Illuminant < other.Illuminant
	}
	return io.Observer < other.Observer
}

var (
	A_2    = IO{"A", 2}
	A_10   = IO{"A", 10}
	D50_2  = IO{"D50", 2}
	D50_10 = IO{"D50", 10}
	D55_2  = IO{"D55", 2}
	D55_10 = IO{"D55", 10}
	D65_2  = IO{"D65", 2}
	D65_10 = IO{"D65", 10}
	D75_2  = IO{"D75", 2}
	D75_10 = IO{"D75", 10}
	E_2    = IO{"E", 2}
	E_10   = IO{"E", 10}
)

// illuminantXY holds the chromaticity coordinates (x, y) of each
// illuminant/observer pair, matching original_source's illuminants_xy
// table. Two transcription bugs present there are corrected here per
// DESIGN.md: D75_10 is the real published CIE value (not a copy of
// A_10), and E_2/E_10 use the floating-point third instead of the
// value produced by C++ integer division.
var illuminantXY = map[IO][2]float64{
	A_2:    {0.44757, 0.40745},
	A_10:   {0.45117, 0.40594},
	D50_2:  {0.34567, 0.35850},
	D50_10: {0.34773, 0.35952},
	D55_2:  {0.33242, 0.34743},
	D55_10: {0.33411, 0.34877},
	D65_2:  {0.31270, 0.32900},
	D65_10: {0.31382, 0.33100},
	D75_2:  {0.29902, 0.31485},
	D75_10: {0.29968, 0.31740},
	E_2:    {1.0 / 3.0, 1.0 / 3.0},
	E_10:   {1.0 / 3.0, 1.0 / 3.0},
}

// xyY2XYZ converts chromaticity coordinates (x, y) at unit luminance to
// tristimulus values, following io.cpp's xyY2XYZ.
func xyY2XYZ(x, y float64) (X, Y, Z float64) {
	if y == 0 {
		return 0, 0, 0
	}
	X = x / y
	Y = 1.0
	Z = (1 - x - y) / y
	return
}

// XYZWhite returns the tristimulus values of the whitepoint named by io.
// It returns a DomainError if io is not a registered illuminant/observer
// pair.
func XYZWhite(io IO) (X, Y, Z float64, err error) {
	xy, ok := illuminantXY[io]
	if !ok {
		return 0, 0, 0, &DomainError{Kind: "IO", Value: io.String()}
	}
	X, Y, Z = xyY2XYZ(xy[0], xy[1])
	return X, Y, Z, nil
}
