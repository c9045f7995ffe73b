package autodiff

import (
	"errors"
	"fmt"

	"github.com/born-ml/convoys/internal/tensor"
)

// ErrNilObjective is returned when an objective returns no output node.
var ErrNilObjective = errors.New("autodiff: objective returned nil")

// Objective builds a scalar objective on t from one Vector per parameter,
// in the order the parameters were supplied.
//
// Objectives are maximized by the optim package; Hessian differentiates
// their negation.
type Objective func(t *GradientTape, params []*Vector) *Var

// trace records objective on a fresh tape with every parameter watched.
func trace(objective Objective, params []*tensor.Parameter) (*GradientTape, []*Vector, *Var, error) {
	tape := NewGradientTape()
	vectors := make([]*Vector, len(params))
	for i, p := range params {
		vectors[i] = tape.Watch(p)
	}
	out := objective(tape, vectors)
	if out == nil {
		return nil, nil, nil, ErrNilObjective
	}
	if out.tape != tape {
		return nil, nil, nil, fmt.Errorf("autodiff: objective output recorded on a foreign tape")
	}
	return tape, vectors, out, nil
}

// Evaluate runs the forward pass only and returns the objective value.
func Evaluate(objective Objective, params []*tensor.Parameter) (float64, error) {
	_, _, out, err := trace(objective, params)
	if err != nil {
		return 0, err
	}
	return out.value, nil
}

// Gradient evaluates the objective, back-propagates, and stores
// d(objective)/d(param) in each parameter's Grad tensor.
//
// Returns the objective value at the current parameters.
func Gradient(objective Objective, params []*tensor.Parameter) (float64, error) {
	tape, vectors, out, err := trace(objective, params)
	if err != nil {
		return 0, err
	}

	wrt := make([]*Var, 0, len(params))
	for _, v := range vectors {
		wrt = append(wrt, v.elems...)
	}
	grads := tape.Backward(out, wrt)

	off := 0
	for i, p := range params {
		n := vectors[i].Len()
		g, err := tensor.FromSlice(grads[off:off+n], p.Shape())
		if err != nil {
			return 0, fmt.Errorf("gradient of %q: %w", p.Name(), err)
		}
		p.SetGrad(g)
		off += n
	}
	return out.value, nil
}
