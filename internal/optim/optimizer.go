// Package optim implements first-order optimizers and the adaptive
// maximization loop used to fit likelihood-based models.
//
// This package provides:
//   - Optimizer interface: base interface for all optimizers
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//   - Maximize: learning-rate staircase with divergence rollback
//
// Example usage:
//
//	alpha := tensor.NewParameter("alpha", tensor.Scalar(0))
//	res, err := optim.Maximize(loglik, []*tensor.Parameter{alpha},
//	    optim.WithObserver(optim.NewLogObserver(logger)),
//	)
package optim

import (
	"fmt"

	"github.com/born-ml/convoys/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
//
// Optimizers update parameters based on the gradients stored in each
// Parameter's Grad tensor, descending the objective.
type Optimizer interface {
	// Step applies gradient updates to all parameters in place.
	// Parameters without a gradient are skipped.
	Step()

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// GetLR returns the current learning rate.
	GetLR() float64

	// SetLR updates the learning rate used by subsequent steps.
	SetLR(lr float64)
}

// Resetter is implemented by optimizers that carry per-parameter state
// (moments, velocities) which can be discarded.
type Resetter interface {
	Reset()
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// getGradient safely retrieves gradient for a parameter.
//
// Returns nil if no gradient is found (parameter wasn't part of computation graph).
// Panics if the gradient's shape differs from the parameter's.
func getGradient(param *tensor.Parameter) *tensor.Tensor {
	if param == nil {
		return nil
	}
	grad := param.Grad()
	if grad != nil && !grad.Shape().Equal(param.Shape()) {
		panic(fmt.Sprintf("optim: gradient shape %v does not match parameter %q shape %v",
			grad.Shape(), param.Name(), param.Shape()))
	}
	return grad
}

func zeroGrads(params []*tensor.Parameter) {
	for _, param := range params {
		param.ZeroGrad()
	}
}
