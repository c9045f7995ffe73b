package autodiff

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/convoys/internal/tensor"
)

// Hessian returns the matrix of second partial derivatives of the negated
// objective with respect to the flattened entries of params[k], evaluated
// at the current parameter values. Other parameters are held fixed.
//
// The objective is something to maximize, so the negated Hessian is
// positive semi-definite at a maximum and can be read as a precision
// matrix (Laplace approximation).
//
// The result is symmetrised as (H + Hᵀ)/2; non-finite entries are returned
// as computed.
func Hessian(objective Objective, params []*tensor.Parameter, k int) (*mat.SymDense, error) {
	if k < 0 || k >= len(params) {
		return nil, fmt.Errorf("autodiff: hessian parameter index %d out of range [0, %d)", k, len(params))
	}
	tape, vectors, out, err := trace(objective, params)
	if err != nil {
		return nil, err
	}

	wrt := vectors[k].elems
	n := len(wrt)
	if n == 0 {
		return nil, fmt.Errorf("autodiff: parameter %q has no elements", params[k].Name())
	}

	grads := tape.BackwardGraph(tape.Neg(out), wrt)

	raw := mat.NewDense(n, n, nil)
	for i, g := range grads {
		raw.SetRow(i, tape.Backward(g, wrt))
	}

	h := mat.NewSymDense(n, nil)
	for i := range n {
		for j := i; j < n; j++ {
			h.SetSym(i, j, 0.5*(raw.At(i, j)+raw.At(j, i)))
		}
	}
	return h, nil
}
