package ccm

import "gonum.org/v1/gonum/mat"

// Operation is a single step in a color-space conversion pipeline: either
// a linear transform (a 3x3 matrix applied on the right of an Nx3 color
// matrix) or an arbitrary nonlinear function over an Nx3 matrix. Grounded
// on original_source's operations.hpp Operation class.
type Operation struct {
	linear bool
	m      *mat.Dense          // 3x3, only meaningful when linear
	f      func(*mat.Dense) *mat.Dense // only meaningful when !linear
}

// IdentityOperation returns an Operation that leaves its input unchanged.
func IdentityOperation() Operation {
	return Operation{linear: true, m: nil}
}

// LinearOperation wraps a 3x3 matrix as an Operation.
func LinearOperation(m *mat.Dense) Operation {
	return Operation{linear: true, m: m}
}

// NonlinearOperation wraps an elementwise (or otherwise non-matrix)
// function as an Operation.
func NonlinearOperation(f func(*mat.Dense) *mat.Dense) Operation {
	return Operation{linear: false, f: f}
}

// apply runs the single operation against abc, an Nx3 matrix.
func (op Operation) apply(abc *mat.Dense) *mat.Dense {
	if !op.linear {
		return op.f(abc)
	}
	if op.m == nil {
		return abc
	}
	rows, _ := abc.Dims()
	out := mat.NewDense(rows, 3, nil)
	out.Mul(abc, op.m.T())
	return out
}

// combine composes op followed by other into a single Operation. apply
// treats abc as row vectors under the column-vector convention M*v, so
// running op then other is other.M * (op.M * v) = (other.M * op.M) * v.
// Two linear operations fuse that way into one matrix; anything else
// simply keeps both nonlinear operations in sequence.
func (op Operation) combine(other Operation) Operation {
	if op.linear && other.linear {
		if op.m == nil {
			return other
		}
		if other.m == nil {
			return op
		}
		m := &mat.Dense{}
		m.Mul(other.m, op.m)
		return Operation{linear: true, m: m}
	}
	return Operation{linear: false, f: func(abc *mat.Dense) *mat.Dense {
		return other.apply(op.apply(abc))
	}}
}

// Operations is an ordered pipeline of Operation steps. Adjacent linear
// steps are fused at Run time into a single matrix multiply; a nonlinear
// step acts as a barrier that flushes any accumulated linear matrix
// first. Grounded on operations.cpp's Operations::run.
type Operations struct {
	ops []Operation
}

// NewOperations builds a pipeline from a sequence of steps, in order.
func NewOperations(ops ...Operation) Operations {
	return Operations{ops: append([]Operation(nil), ops...)}
}

// Add appends a step to the end of the pipeline.
func (o *Operations) Add(op Operation) {
	o.ops = append(o.ops, op)
}

// Run evaluates the pipeline against abc, an Nx3 matrix, in order.
func (o Operations) Run(abc *mat.Dense) *mat.Dense {
	var acc *Operation
	flush := func() {
		if acc != nil {
			abc = acc.apply(abc)
			acc = nil
		}
	}
	for _, op := range o.ops {
		if op.linear {
			if acc == nil {
				cp := op
				acc = &cp
			} else {
				combined := acc.combine(op)
				acc = &combined
			}
			continue
		}
		flush()
		abc = op.apply(abc)
	}
	flush()
	return abc
}
