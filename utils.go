package ccm

import "gonum.org/v1/gonum/mat"

// elementWise applies f to every entry of m, following utils.cpp's
// elementWise/elementWiseEW helper template.
func elementWise(m *mat.Dense, f func(float64) float64) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols, nil)
	out.Apply(func(i, j int, v float64) float64 {
		return f(v)
	}, m)
	return out
}

// gray coefficients per ITU-R BT.709 luma weights, matching
// utils.cpp's m_gray used by rgb2gray.
var grayWeights = [3]float64{0.2126, 0.7152, 0.0722}

// rgb2gray reduces an Nx3 matrix of linear RGB to an Nx1 column of
// luma, following utils.cpp's rgb2gray (multiple(rgb, m_gray)).
func rgb2gray(rgbl *mat.Dense) *mat.Dense {
	rows, _ := rgbl.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		v := rgbl.At(i, 0)*grayWeights[0] + rgbl.At(i, 1)*grayWeights[1] + rgbl.At(i, 2)*grayWeights[2]
		out.Set(i, 0, v)
	}
	return out
}

// saturateMask returns a boolean mask over the rows of an Nx3 matrix,
// true where every channel of that row lies in [low, up], following
// utils.cpp's saturate: a single out-of-range channel drops the whole
// patch.
func saturateMask(m *mat.Dense, low, up float64) []bool {
	rows, cols := m.Dims()
	mask := make([]bool, rows)
	for i := 0; i < rows; i++ {
		ok := true
		for j := 0; j < cols; j++ {
			v := m.At(i, j)
			if v < low || v > up {
				ok = false
				break
			}
		}
		mask[i] = ok
	}
	return mask
}

// maskAnd combines two boolean masks of equal length with a logical AND.
func maskAnd(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}

// maskCount returns how many entries of mask are true.
func maskCount(mask []bool) int {
	n := 0
	for _, v := range mask {
		if v {
			n++
		}
	}
	return n
}

// maskCopyRows compacts the rows of m for which mask is true into a new,
// smaller matrix, following utils.cpp's maskCopyTo.
func maskCopyRows(m *mat.Dense, mask []bool) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(maskCount(mask), cols, nil)
	r := 0
	for i, keep := range mask {
		if !keep {
			continue
		}
		out.SetRow(r, mat.Row(nil, i, m))
		r++
	}
	return out
}

// applyCCM multiplies an Nx(cols) matrix of linearized source values by
// a (cols)x3 correction matrix, following utils.cpp's multiple(xyz, ccm).
func applyCCM(src *mat.Dense, ccmMat *mat.Dense) *mat.Dense {
	rows, _ := src.Dims()
	out := mat.NewDense(rows, 3, nil)
	out.Mul(src, ccmMat)
	return out
}

// appendOnesColumn appends a column of 1s to the right of an Nx3 matrix,
// producing the Nx4 shape a 4x3 CCM operates on, per ccm.hpp's prepare().
func appendOnesColumn(m *mat.Dense) *mat.Dense {
	rows, cols := m.Dims()
	out := mat.NewDense(rows, cols+1, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			out.Set(i, j, m.At(i, j))
		}
		out.Set(i, cols, 1.0)
	}
	return out
}
