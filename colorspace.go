package ccm

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/mat"
)

// Space is a color space that knows how to convert an Nx3 matrix of its
// own coordinates to and from CIE XYZ relative to its own whitepoint.
// Grounded on the teacher's Space interface (space.go, deleted) and
// generalized per REDESIGN FLAGS §9 to carry a Linear/Companion pair
// instead of the original's raw ColorSpace::l/ColorSpace::nl pointers.
type Space interface {
	Name() string
	Linear() bool
	IO() IO
	ToXYZ(abc *mat.Dense) *mat.Dense
	FromXYZ(xyz *mat.Dense) *mat.Dense
	// Companion returns this space's linear sibling if it is
	// nonlinear, or its nonlinear sibling if it is linear. A space
	// with no distinct companion (XYZ, Lab) returns itself.
	Companion() Space
}

type spaceKey struct {
	name   string
	linear bool
}

// spaceRegistry is a (name, linear)-keyed lookup table for Space values,
// guarded by a RWMutex. Grounded directly on the teacher's registry.go
// spaceRegistry, generalized to the two-part key the spec requires.
type spaceRegistry struct {
	mu     sync.RWMutex
	spaces map[spaceKey]Space
}

var globalSpaces = &spaceRegistry{spaces: make(map[spaceKey]Space)}

// RegisterSpace adds s to the global registry under (s.Name(), s.Linear()).
// Registering the same key twice overwrites the previous entry.
func RegisterSpace(s Space) {
	globalSpaces.mu.Lock()
	defer globalSpaces.mu.Unlock()
	globalSpaces.spaces[spaceKey{s.Name(), s.Linear()}] = s
}

// GetSpace looks up a previously registered space by name and linearity.
func GetSpace(name string, linear bool) (Space, error) {
	globalSpaces.mu.RLock()
	defer globalSpaces.mu.RUnlock()
	s, ok := globalSpaces.spaces[spaceKey{name, linear}]
	if !ok {
		return nil, &DomainError{Kind: "Space", Value: name}
	}
	return s, nil
}

// ListSpaces returns the names of every registered space, linear and
// nonlinear variants alike.
func ListSpaces() []string {
	globalSpaces.mu.RLock()
	defer globalSpaces.mu.RUnlock()
	names := make(map[string]struct{}, len(globalSpaces.spaces))
	for k := range globalSpaces.spaces {
		names[k.name] = struct{}{}
	}
	out := make([]string, 0, len(names))
	for n := range names {
		out = append(out, n)
	}
	return out
}

// ToneCurve models an RGB working space's nonlinear transfer function.
// toL maps encoded (nonlinear) values to scene-linear values; fromL is
// its inverse. Grounded on colorspace.hpp's RGBBase_::toL/fromL MatFunc
// pointers.
type ToneCurve struct {
	toL   func(v float64) float64
	fromL func(v float64) float64
}

// sRGBToneCurve builds the three-branch encode/decode pair used by
// sRGB-family spaces (colorspace.cpp sRGBBase_::calLinear,
// toLFuncEW/fromLFuncEW), deriving alpha/K0/phi/beta from a and gamma.
func sRGBToneCurve(a, gamma float64) ToneCurve {
	alpha := a + 1
	k0 := a / (gamma - 1)
	phi := (pow(alpha, gamma) * pow(gamma-1, gamma-1)) / (pow(a, gamma-1) * pow(gamma, gamma))
	beta := k0 / phi

	toL := func(v float64) float64 {
		sign := 1.0
		if v < 0 {
			sign = -1.0
			v = -v
		}
		if v >= k0 {
			return sign * pow((v+a)/alpha, gamma)
		}
		return sign * (v / phi)
	}
	fromL := func(l float64) float64 {
		sign := 1.0
		if l < 0 {
			sign = -1.0
			l = -l
		}
		if l >= beta {
			return sign * (alpha*pow(l, 1.0/gamma) - a)
		}
		return sign * (l * phi)
	}
	return ToneCurve{toL: toL, fromL: fromL}
}

// gammaToneCurve builds the pure-power-law pair used by Adobe-type
// spaces (colorspace.cpp AdobeRGBBase_).
func gammaToneCurve(gamma float64) ToneCurve {
	toL := func(v float64) float64 {
		if v >= 0 {
			return pow(v, gamma)
		}
		return -pow(-v, gamma)
	}
	fromL := func(l float64) float64 {
		if l >= 0 {
			return pow(l, 1.0/gamma)
		}
		return -pow(-l, 1.0/gamma)
	}
	return ToneCurve{toL: toL, fromL: fromL}
}

func pow(base, exp float64) float64 {
	return math.Pow(base, exp)
}
