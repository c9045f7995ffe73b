// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides reverse-mode automatic differentiation over
// float64 scalars, including second derivatives.
//
// Objectives are written against a GradientTape. The tape records every
// operation; gradients are recovered by walking it backwards, and the
// backward pass can itself be recorded so that it is differentiable again.
//
// Example:
//
//	import (
//	    "github.com/born-ml/convoys/autodiff"
//	    "github.com/born-ml/convoys/tensor"
//	)
//
//	func main() {
//	    w := tensor.NewParameter("w", tensor.Vector(0.5, -1))
//
//	    // f(w) = -(w0² + 3·w0·w1 + 5·w1²)
//	    f := func(t *autodiff.GradientTape, p []*autodiff.Vector) *autodiff.Var {
//	        w0, w1 := p[0].At(0), p[0].At(1)
//	        q := t.Sum(t.Square(w0), t.Scale(t.Mul(w0, w1), 3), t.Scale(t.Square(w1), 5))
//	        return t.Neg(q)
//	    }
//
//	    value, _ := autodiff.Gradient(f, []*tensor.Parameter{w}) // fills w.Grad()
//	    h, _ := autodiff.Hessian(f, []*tensor.Parameter{w}, 0)   // [[2 3] [3 10]]
//	}
package autodiff

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/convoys/internal/autodiff"
	"github.com/born-ml/convoys/internal/tensor"
)

// ErrNilObjective is returned when an objective returns nil.
var ErrNilObjective = autodiff.ErrNilObjective

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// Var is a scalar node on a GradientTape.
type Var = autodiff.Var

// Vector is a parameter tensor viewed as tape variables.
type Vector = autodiff.Vector

// Operation is a recorded differentiable operation.
type Operation = autodiff.Operation

// Objective builds a scalar on the tape from the watched parameters.
type Objective = autodiff.Objective

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// Evaluate returns the objective value without touching gradients.
func Evaluate(objective Objective, params []*tensor.Parameter) (float64, error) {
	return autodiff.Evaluate(objective, params)
}

// Gradient returns the objective value and stores d(objective)/d(param)
// on every parameter.
func Gradient(objective Objective, params []*tensor.Parameter) (float64, error) {
	return autodiff.Gradient(objective, params)
}

// Hessian returns the second derivatives of the negated objective with
// respect to the flattened entries of params[k].
func Hessian(objective Objective, params []*tensor.Parameter, k int) (*mat.SymDense, error) {
	return autodiff.Hessian(objective, params, k)
}
