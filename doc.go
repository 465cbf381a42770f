// Package ccm computes and applies color correction matrices for
// camera/chart calibration pipelines.
//
// It provides:
//   - An illuminant/observer (IO) registry and whitepoint lookups
//   - CIE76, CIE94, CIEDE2000, CMC, RGB, and RGBL color-difference metrics
//   - A composable linear/nonlinear Operations pipeline
//   - A (name, linear)-keyed RGB working space registry with chromatic
//     adaptation between whitepoints (Identity, Von Kries, Bradford)
//   - A Color type carrying memoized space conversions
//   - Gamma, per-channel polynomial, and gray-polynomial linearization
//   - A Nelder-Mead-refined CCM solver (CCMModel) seeded by white
//     balance or weighted least squares
//   - Image inference through the fitted CCM
//
// It does not do patch detection, ICC profile parsing, gamut mapping
// beyond simple clipping, or real-time/GPU execution.
package ccm
