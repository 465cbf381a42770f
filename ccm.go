package ccm

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize"
)

// CCMType selects whether the correction matrix is an affine 4x3 map
// (linear RGB plus a constant offset row) or a pure linear 3x3 map,
// matching ccm.hpp's CCM_TYPE enum.
type CCMType int

const (
	CCM3x3 CCMType = iota
	CCM4x3
)

// InitialMethodType selects how the correction matrix is seeded before
// Nelder-Mead refinement, matching ccm.hpp's INITIAL_METHOD_TYPE enum.
type InitialMethodType int

const (
	InitialWhiteBalance InitialMethodType = iota
	InitialLeastSquares
)

// fitState tracks the solver's lifecycle: Unfitted -> (New prepares
// masks/weights/initial guess) -> Fitting (inside Fit) -> Fitted.
type fitState int

const (
	stateUnfitted fitState = iota
	stateFitting
	stateFitted
)

const defaultJDN = 2.0

type config struct {
	ccmType             CCMType
	distance            DistanceType
	linearization       LinearizationType
	gamma               float64
	deg                 int
	saturatedLow        float64
	saturatedHigh       float64
	weightsList         []float64
	weightsCoeff        float64
	initialMethod       InitialMethodType
	maxIter             int
	eps                 float64
	initialSimplexStep  float64
	termCriteriaEnabled bool
	colorSpace          string
	cam                 CAM
}

func defaultConfig() config {
	return config{
		ccmType:             CCM3x3,
		distance:            CIE2000,
		linearization:       LinearizeGamma,
		gamma:               2.2,
		deg:                 3,
		saturatedLow:        0,
		saturatedHigh:       0.98,
		weightsCoeff:        0,
		initialMethod:       InitialLeastSquares,
		maxIter:             5000,
		eps:                 1e-4,
		initialSimplexStep:  1.0,
		termCriteriaEnabled: true,
		colorSpace:          "sRGB",
		cam:                 CAMBradford,
	}
}

// Option configures a CCMModel at construction time.
type Option func(*config)

func WithCCMType(t CCMType) Option                { return func(c *config) { c.ccmType = t } }
func WithDistance(dt DistanceType) Option         { return func(c *config) { c.distance = dt } }
func WithLinearization(t LinearizationType) Option { return func(c *config) { c.linearization = t } }
func WithGamma(gamma float64) Option               { return func(c *config) { c.gamma = gamma } }
func WithDeg(deg int) Option                       { return func(c *config) { c.deg = deg } }
func WithSaturatedThreshold(low, high float64) Option {
	return func(c *config) { c.saturatedLow, c.saturatedHigh = low, high }
}
func WithWeightsList(w []float64) Option    { return func(c *config) { c.weightsList = w } }
func WithWeightsCoeff(coeff float64) Option { return func(c *config) { c.weightsCoeff = coeff } }
func WithInitialMethod(m InitialMethodType) Option {
	return func(c *config) { c.initialMethod = m }
}
func WithMaxIter(n int) Option  { return func(c *config) { c.maxIter = n } }
func WithEps(eps float64) Option { return func(c *config) { c.eps = eps } }

// WithInitialSimplexStep sets the Nelder-Mead initial simplex edge
// length, standing in for ccm.hpp's fixed DownhillSolver step (REDESIGN
// FLAGS §9 open question 1); gonum's optimize.NelderMead exposes this
// directly as SimplexSize.
func WithInitialSimplexStep(step float64) Option {
	return func(c *config) { c.initialSimplexStep = step }
}

// WithTermCriteriaEnabled toggles whether the function-value convergence
// criterion participates alongside MaxIter, per REDESIGN FLAGS §9 open
// question 1.
func WithTermCriteriaEnabled(enabled bool) Option {
	return func(c *config) { c.termCriteriaEnabled = enabled }
}

// WithColorSpace selects the registered RGB working space the CCM is
// solved in (default "sRGB").
func WithColorSpace(name string) Option { return func(c *config) { c.colorSpace = name } }

// WithCAM selects the chromatic adaptation transform used when the
// working space's whitepoint differs from the reference's.
func WithCAM(cam CAM) Option { return func(c *config) { c.cam = cam } }

// CCMModel fits and applies a color correction matrix. Grounded on
// ccm.hpp's ColorCorrectionModel.
type CCMModel struct {
	cfg config

	linearSpace    *RGBSpace
	nonlinearSpace *RGBSpace
	dstIO          IO

	linearizer Linearizer

	mask    []bool
	weights []float64

	srcRGBLMasked *mat.Dense
	dstLabMasked  *mat.Dense

	ccmMat *mat.Dense
	loss   float64
	state  fitState
}

// New prepares a CCMModel from measured nonlinear source patches (Nx3,
// [0,1]) and reference L*a*b* patches (Nx3) relative to dstIO: it builds
// the saturation/gray masks and weights, fits the chosen linearizer, and
// computes the initial-guess matrix. Fit must be called afterwards to
// refine it (unless the distance metric is RGBLDistance, in which case
// the initial guess already is the least-squares optimum and Fit simply
// adopts it).
func New(src, dstLab *mat.Dense, dstIO IO, opts ...Option) (*CCMModel, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	srcRows, srcCols := src.Dims()
	dstRows, dstCols := dstLab.Dims()
	if srcCols != 3 || dstCols != 3 {
		return nil, &ShapeError{Operation: "New", Want: "Nx3", Got: "not Nx3"}
	}
	if srcRows != dstRows {
		return nil, &ShapeError{Operation: "New", Want: "equal row count", Got: "src/dst row mismatch"}
	}

	linearSpace, err := GetSpace(cfg.colorSpace, true)
	if err != nil {
		return nil, err
	}
	nonlinearSpace, err := GetSpace(cfg.colorSpace, false)
	if err != nil {
		return nil, err
	}
	linearRGBSpace := linearSpace.(*RGBSpace)
	nonlinearRGBSpace := nonlinearSpace.(*RGBSpace)

	dstColor := NewColor(dstLab, NewLabSpace(dstIO))
	dstRGBLColor, err := dstColor.To(linearRGBSpace, cfg.cam, true)
	if err != nil {
		return nil, err
	}

	grayMask, err := dstColor.GetGray(defaultJDN)
	if err != nil {
		return nil, err
	}

	mask, weights, err := calWeightsMasks(src, dstRGBLColor.values, dstColor, dstIO, cfg)
	if err != nil {
		return nil, err
	}
	if maskCount(mask) == 0 {
		return nil, &ConfigurationError{Option: "WithSaturatedThreshold", Reason: "no patches survive the saturation mask"}
	}

	linearizer, err := BuildLinearizer(cfg.linearization, cfg.gamma, cfg.deg, src, dstRGBLColor.values, grayMask, mask)
	if err != nil {
		return nil, err
	}

	srcRGBL := linearizer.Linearize(src)
	srcRGBLMasked := maskCopyRows(srcRGBL, mask)
	dstRGBLMasked := maskCopyRows(dstRGBLColor.values, mask)
	dstLabMasked := maskCopyRows(dstLab, mask)

	m := &CCMModel{
		cfg:            cfg,
		linearSpace:    linearRGBSpace,
		nonlinearSpace: nonlinearRGBSpace,
		dstIO:          dstIO,
		linearizer:     linearizer,
		mask:           mask,
		weights:        weights,
		srcRGBLMasked:  srcRGBLMasked,
		dstLabMasked:   dstLabMasked,
		state:          stateUnfitted,
	}

	srcForInitial := srcRGBLMasked
	if cfg.ccmType == CCM4x3 {
		srcForInitial = appendOnesColumn(srcRGBLMasked)
	}

	var initial *mat.Dense
	switch {
	case cfg.initialMethod == InitialWhiteBalance && cfg.distance != RGBLDistance:
		initial = initialWhiteBalance(srcRGBLMasked, dstRGBLMasked, cfg.ccmType)
	default:
		initial, err = initialLeastSquares(srcForInitial, dstRGBLMasked, weights)
		if err != nil {
			return nil, err
		}
	}
	m.ccmMat = initial
	return m, nil
}

// initialWhiteBalance builds a diagonal 3x3 (or 4x3, with a zero offset
// row) scale matrix from the ratio of per-channel means, following
// ccm.hpp's initialWhiteBalance.
func initialWhiteBalance(srcRGBL, dstRGBL *mat.Dense, t CCMType) *mat.Dense {
	rows, _ := srcRGBL.Dims()
	var srcMean, dstMean [3]float64
	for i := 0; i < rows; i++ {
		for j := 0; j < 3; j++ {
			srcMean[j] += srcRGBL.At(i, j)
			dstMean[j] += dstRGBL.At(i, j)
		}
	}
	for j := 0; j < 3; j++ {
		srcMean[j] /= float64(rows)
		dstMean[j] /= float64(rows)
	}

	outRows := 3
	if t == CCM4x3 {
		outRows = 4
	}
	m := mat.NewDense(outRows, 3, nil)
	for j := 0; j < 3; j++ {
		m.Set(j, j, dstMean[j]/srcMean[j])
	}
	return m
}

// initialLeastSquares solves the weighted linear least squares problem
// minimizing sum(w_i * ||src_i*ccm - dst_i||^2), following ccm.hpp's
// initialLeastSquare: scale every row by sqrt(weight) and solve with
// gonum's SVD-backed Dense.Solve.
func initialLeastSquares(src, dst *mat.Dense, weights []float64) (*mat.Dense, error) {
	rows, cols := src.Dims()
	_, dstCols := dst.Dims()
	wSrc := mat.NewDense(rows, cols, nil)
	wDst := mat.NewDense(rows, dstCols, nil)
	for i := 0; i < rows; i++ {
		sw := math.Sqrt(weights[i])
		for j := 0; j < cols; j++ {
			wSrc.Set(i, j, src.At(i, j)*sw)
		}
		for j := 0; j < dstCols; j++ {
			wDst.Set(i, j, dst.At(i, j)*sw)
		}
	}
	var ccmMat mat.Dense
	if err := ccmMat.Solve(wSrc, wDst); err != nil {
		return nil, &NumericError{Operation: "initialLeastSquares", Reason: err.Error()}
	}
	return &ccmMat, nil
}

// calWeightsMasks builds the saturation mask and per-patch weights used
// by both the initial guess and the Nelder-Mead loss, following
// ccm.hpp's calWeightsMasks: mask = saturate(src) & saturate(dst_rgbl) &
// (weights_list>0, if given); weights come from weights_list if given,
// else from dst's luminance raised to weights_coeff, else uniform; the
// surviving weights are renormalized to mean 1 (REDESIGN FLAGS §9 open
// question 2).
func calWeightsMasks(src, dstRGBL *mat.Dense, dstColor *Color, dstIO IO, cfg config) ([]bool, []float64, error) {
	if rows, _ := src.Dims(); cfg.weightsList != nil && len(cfg.weightsList) != rows {
		return nil, nil, &ShapeError{Operation: "New", Want: "one weight per patch", Got: "weights list length mismatch"}
	}
	mask := maskAnd(
		saturateMask(src, cfg.saturatedLow, cfg.saturatedHigh),
		saturateMask(dstRGBL, cfg.saturatedLow, cfg.saturatedHigh),
	)
	if cfg.weightsList != nil {
		listMask := make([]bool, len(mask))
		for i, w := range cfg.weightsList {
			listMask[i] = w > 0
		}
		mask = maskAnd(mask, listMask)
	}

	var raw []float64
	switch {
	case cfg.weightsList != nil:
		raw = maskCopyFloats(cfg.weightsList, mask)
	case cfg.weightsCoeff != 0:
		gray, err := dstColor.ToGray(dstIO, cfg.cam, true)
		if err != nil {
			return nil, nil, err
		}
		rows, _ := gray.Dims()
		full := make([]float64, rows)
		for i := 0; i < rows; i++ {
			full[i] = math.Pow(gray.At(i, 0), cfg.weightsCoeff)
		}
		raw = maskCopyFloats(full, mask)
	default:
		raw = make([]float64, maskCount(mask))
		for i := range raw {
			raw[i] = 1
		}
	}

	var sum float64
	for _, w := range raw {
		sum += w
	}
	if sum != 0 {
		meanW := sum / float64(len(raw))
		for i := range raw {
			raw[i] /= meanW
		}
	}
	return mask, raw, nil
}

func maskCopyFloats(vals []float64, mask []bool) []float64 {
	out := make([]float64, 0, maskCount(mask))
	for i, keep := range mask {
		if keep {
			out = append(out, vals[i])
		}
	}
	return out
}

// Fit refines the initial-guess CCM via Nelder-Mead simplex minimization
// of the weighted squared distance loss, unless the configured distance
// is RGBLDistance, in which case the initial least-squares guess already
// is optimal for that metric and Fit adopts it directly (ccm.hpp's
// fitting()).
func (m *CCMModel) Fit() error {
	m.state = stateFitting
	nMasked, _ := m.srcRGBLMasked.Dims()

	if m.cfg.distance == RGBLDistance {
		loss, err := m.evalLoss(m.ccmMat)
		if err != nil {
			m.state = stateUnfitted
			return err
		}
		m.loss = math.Sqrt(loss / float64(nMasked))
		m.state = stateFitted
		return nil
	}

	rows, cols := m.ccmMat.Dims()
	x0 := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			x0[i*cols+j] = m.ccmMat.At(i, j)
		}
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			ccmMat := mat.NewDense(rows, cols, append([]float64(nil), x...))
			loss, err := m.evalLoss(ccmMat)
			if err != nil {
				return math.Inf(1)
			}
			return loss
		},
	}

	method := &optimize.NelderMead{SimplexSize: m.cfg.initialSimplexStep}
	settings := &optimize.Settings{MajorIterations: m.cfg.maxIter}
	if m.cfg.termCriteriaEnabled {
		settings.Converger = &optimize.FunctionConverge{Absolute: m.cfg.eps, Iterations: 10}
	} else {
		settings.Converger = optimize.NeverTerminate{}
	}

	result, err := optimize.Minimize(problem, x0, settings, method)
	if err != nil && result == nil {
		m.state = stateUnfitted
		return &NumericError{Operation: "Fit", Reason: err.Error()}
	}

	fitted := mat.NewDense(rows, cols, append([]float64(nil), result.X...))
	m.ccmMat = fitted
	m.loss = math.Sqrt(result.F / float64(nMasked))
	m.state = stateFitted
	return nil
}

// evalLoss computes sum(w_i * distance(infer(src_i, ccm), dst_i)^2)
// over the masked, linearized patches, following ccm.hpp's
// LossFunction::calc.
func (m *CCMModel) evalLoss(ccmMat *mat.Dense) (float64, error) {
	src := m.srcRGBLMasked
	if m.cfg.ccmType == CCM4x3 {
		src = appendOnesColumn(src)
	}
	inferred := applyCCM(src, ccmMat)
	inferredColor := NewColor(inferred, m.linearSpace)
	dstColor := NewColor(m.dstLabMasked, NewLabSpace(m.dstIO))
	distances, err := inferredColor.Diff(dstColor, m.dstIO, m.cfg.cam, m.cfg.distance)
	if err != nil {
		return 0, err
	}
	var loss float64
	for i, d := range distances {
		loss += m.weights[i] * d * d
	}
	return loss, nil
}

// CCM returns the fitted correction matrix. It returns a NotFittedError
// if Fit has not completed successfully.
func (m *CCMModel) CCM() (*mat.Dense, error) {
	if m.state != stateFitted {
		return nil, &NotFittedError{Method: "CCM"}
	}
	return m.ccmMat, nil
}

// Loss returns the final loss of the fitted CCM: the square root of the
// weighted squared-distance sum evalLoss computes, divided by the number
// of masked patches (a weighted RMS distance).
func (m *CCMModel) Loss() (float64, error) {
	if m.state != stateFitted {
		return 0, &NotFittedError{Method: "Loss"}
	}
	return m.loss, nil
}

// Infer applies the fitted CCM to an Nx3 matrix of RGB patches,
// following ccm.hpp's infer: islinear indicates whether rgb is already
// scene-linear; if not, it is linearized first and the result is
// re-encoded through the working space's tone curve before returning.
func (m *CCMModel) Infer(rgb *mat.Dense, islinear bool) (*mat.Dense, error) {
	if m.state != stateFitted {
		return nil, &NotFittedError{Method: "Infer"}
	}
	if _, cols := rgb.Dims(); cols != 3 {
		return nil, &ShapeError{Operation: "Infer", Want: "Nx3", Got: "not Nx3"}
	}
	linearized := rgb
	if !islinear {
		linearized = m.linearizer.Linearize(rgb)
	}
	if m.cfg.ccmType == CCM4x3 {
		linearized = appendOnesColumn(linearized)
	}
	corrected := applyCCM(linearized, m.ccmMat)
	if !islinear {
		corrected = elementWise(corrected, m.nonlinearSpace.curve.fromL)
	}
	return corrected, nil
}
