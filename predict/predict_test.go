// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package predict_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/convoys/autodiff"
	"github.com/born-ml/convoys/optim"
	"github.com/born-ml/convoys/predict"
	"github.com/born-ml/convoys/tensor"
)

// TestFitHessianPredict fits the mean of a unit-variance normal sample,
// then checks that the Hessian-based interval matches 1/sqrt(n).
func TestFitHessianPredict(t *testing.T) {
	ys := []float64{1.2, 0.7, 2.1, 1.5, 0.9, 1.8, 1.1, 1.4}
	mu := tensor.NewParameter("mu", tensor.Vector(0))

	loglik := func(tape *autodiff.GradientTape, p []*autodiff.Vector) *autodiff.Var {
		m := p[0].At(0)
		terms := make([]*autodiff.Var, len(ys))
		for i, y := range ys {
			terms[i] = tape.Square(tape.AddConst(m, -y))
		}
		return tape.Scale(tape.Sum(terms...), -0.5)
	}

	params := []*tensor.Parameter{mu}
	res, err := optim.Maximize(loglik, params, optim.WithMaxSteps(200000))
	require.NoError(t, err)
	require.False(t, res.Truncated)
	assert.InDelta(t, stat.Mean(ys, nil), mu.Tensor().At(0), 1e-3)

	h, err := autodiff.Hessian(loglik, params, 0)
	require.NoError(t, err)
	assert.InDelta(t, float64(len(ys)), h.At(0, 0), 1e-9)

	x := []float64{1}
	sd, err := predict.StdDev(x, h)
	require.NoError(t, err)
	assert.InDelta(t, 1/math.Sqrt(float64(len(ys))), sd, 1e-9)

	point, err := predict.NewSampler(3).ProjectAndPredict(x, mu.Tensor().Data(), h, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, []float64{mu.Tensor().At(0)}, point)

	samples, err := predict.NewSampler(3).ProjectAndPredict(x, mu.Tensor().Data(), h, 50000, 0.9)
	require.NoError(t, err)
	sum, err := predict.Summarize(samples, 0.9)
	require.NoError(t, err)
	assert.InDelta(t, mu.Tensor().At(0), sum.Mean, 0.01)
	assert.InDelta(t, 2*1.6448536269514722*sd, sum.Upper-sum.Lower, 0.03)
}
