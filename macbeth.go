package ccm

import "gonum.org/v1/gonum/mat"

// macbethD50Lab holds the 24-patch L*a*b* reference values for the
// X-Rite/BabelColor ColorChecker Classic, averaged over many physical
// charts under D50/2, matching the external sample-data table
// ccm.hpp's doc comment refers to as COLORCHECKER_Macbeth_D50_2. The
// literal constants themselves live in an OpenCV sample-data file that
// was not part of the retrieval (see DESIGN.md), so the published
// BabelColor averages are used here instead.
var macbethD50Lab = [][3]float64{
	{37.99, 13.56, 14.06},
	{65.71, 18.13, 17.81},
	{49.93, -4.88, -21.93},
	{43.14, -13.10, 21.91},
	{55.11, 8.84, -25.40},
	{70.72, -33.40, -0.20},
	{62.66, 36.07, 57.10},
	{40.02, 10.41, -45.96},
	{51.12, 48.24, 16.25},
	{30.33, 22.98, -21.59},
	{72.53, -23.71, 57.26},
	{71.94, 19.36, 67.86},
	{28.78, 14.18, -50.30},
	{55.26, -38.34, 31.37},
	{42.10, 53.38, 28.19},
	{81.73, 4.04, 79.82},
	{51.94, 49.99, -14.57},
	{51.04, -28.63, -28.64},
	{96.14, -0.11, 0.31},
	{81.30, -0.33, 0.33},
	{66.77, -0.45, 0.29},
	{50.89, -0.22, -0.35},
	{35.72, -0.40, -0.22},
	{21.80, 0.07, -0.33},
}

// Macbeth_D50_2 is the 24-patch ColorChecker Classic Lab reference
// relative to D50/2.
var Macbeth_D50_2 *mat.Dense

// Macbeth_D65_2 is Macbeth_D50_2 adapted to D65/2 via this module's own
// Bradford chromatic-adaptation transform (SPEC_FULL.md §6), rather than
// a second, independently measured table.
var Macbeth_D65_2 *mat.Dense

func init() {
	rows := len(macbethD50Lab)
	Macbeth_D50_2 = mat.NewDense(rows, 3, nil)
	for i, p := range macbethD50Lab {
		Macbeth_D50_2.Set(i, 0, p[0])
		Macbeth_D50_2.Set(i, 1, p[1])
		Macbeth_D50_2.Set(i, 2, p[2])
	}

	d50 := NewLabSpace(D50_2)
	d65 := NewLabSpace(D65_2)
	xyz := d50.ToXYZ(Macbeth_D50_2)
	m, err := ChromaticAdaptationMatrix(D50_2, D65_2, CAMBradford)
	if err != nil {
		panic(err)
	}
	adapted := adaptXYZ(xyz, m)
	Macbeth_D65_2 = d65.FromXYZ(adapted)
}
