package ccm

import "fmt"

// ConfigurationError reports an invalid or incompatible set of Options
// passed to New, or a configuration dependency that was not satisfiable
// (for example a gray-polynomial linearizer with no gray-masked patches).
type ConfigurationError struct {
	Option string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("ccm: configuration error for %s: %s", e.Option, e.Reason)
}

// ShapeError reports a matrix dimension mismatch, such as src and dst
// patch counts disagreeing, or a matrix not being Nx3.
type ShapeError struct {
	Operation string
	Want      string
	Got       string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("ccm: shape error in %s: want %s, got %s", e.Operation, e.Want, e.Got)
}

// NumericError reports a failure inside a numeric routine (a singular
// matrix passed to Solve, a degenerate SVD, an optimizer that returned no
// result) or an image that InferImage could not decode. Reaching MaxIter
// in Fit is not an error: Fit keeps the best matrix found so far.
type NumericError struct {
	Operation string
	Reason    string
}

func (e *NumericError) Error() string {
	return fmt.Sprintf("ccm: numeric error in %s: %s", e.Operation, e.Reason)
}

// NotFittedError is returned by Infer, CCM, and Loss when called before
// Fit has completed successfully.
type NotFittedError struct {
	Method string
}

func (e *NotFittedError) Error() string {
	return fmt.Sprintf("ccm: %s called before Fit completed", e.Method)
}

// DomainError reports an out-of-domain value: an unregistered IO or
// Space, or an unknown DistanceType, LinearizationType or CAM. An unknown
// CCMType is not reported (New treats any value other than CCM4x3 as
// CCM3x3), and color values are not range-checked.
type DomainError struct {
	Kind  string
	Value string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("ccm: unknown %s: %s", e.Kind, e.Value)
}
