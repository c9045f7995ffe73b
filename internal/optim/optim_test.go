package optim_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convoys/internal/optim"
	"github.com/born-ml/convoys/internal/tensor"
)

// TestSGD_SimpleUpdate tests SGD without momentum.
func TestSGD_SimpleUpdate(t *testing.T) {
	param := tensor.NewParameter("x", tensor.Vector(2.0))
	optimizer := optim.NewSGD([]*tensor.Parameter{param}, optim.SGDConfig{LR: 0.1})

	param.SetGrad(tensor.Vector(1.0))
	optimizer.Step()

	// x_new = x_old - lr * grad = 2.0 - 0.1 * 1.0 = 1.9
	assert.InDelta(t, 1.9, param.Tensor().At(0), 1e-12)
}

// TestSGD_WithMomentum tests SGD with momentum.
func TestSGD_WithMomentum(t *testing.T) {
	param := tensor.NewParameter("x", tensor.Vector(1.0))
	optimizer := optim.NewSGD([]*tensor.Parameter{param}, optim.SGDConfig{LR: 0.1, Momentum: 0.9})

	param.SetGrad(tensor.Vector(1.0))
	optimizer.Step()
	// v_1 = 1.0, x_1 = 1.0 - 0.1 * 1.0 = 0.9
	assert.InDelta(t, 0.9, param.Tensor().At(0), 1e-12)

	optimizer.Step()
	// v_2 = 0.9 * 1.0 + 1.0 = 1.9, x_2 = 0.9 - 0.1 * 1.9 = 0.71
	assert.InDelta(t, 0.71, param.Tensor().At(0), 1e-12)

	optimizer.Reset()
	optimizer.Step()
	// velocity restarts at the raw gradient: x_3 = 0.71 - 0.1 = 0.61
	assert.InDelta(t, 0.61, param.Tensor().At(0), 1e-12)
}

// TestSGD_ZeroGrad tests ZeroGrad method.
func TestSGD_ZeroGrad(t *testing.T) {
	param := tensor.NewParameter("x", tensor.Vector(1.0))
	optimizer := optim.NewSGD([]*tensor.Parameter{param}, optim.SGDConfig{})

	param.SetGrad(tensor.Vector(0.5))
	optimizer.ZeroGrad()
	assert.Nil(t, param.Grad())

	// Parameters without gradients are skipped.
	optimizer.Step()
	assert.Equal(t, 1.0, param.Tensor().At(0))
	assert.Equal(t, 0.01, optimizer.GetLR())
}

// TestAdam_FirstStep checks the bias-corrected first update.
func TestAdam_FirstStep(t *testing.T) {
	param := tensor.NewParameter("x", tensor.Vector(2.0, -1.0))
	optimizer := optim.NewAdam([]*tensor.Parameter{param}, optim.AdamConfig{LR: 0.1})

	param.SetGrad(tensor.Vector(1.0, -4.0))
	optimizer.Step()

	// m_hat = g, v_hat = g², so each coordinate moves by lr * sign(g).
	assert.InDelta(t, 1.9, param.Tensor().At(0), 1e-7)
	assert.InDelta(t, -0.9, param.Tensor().At(1), 1e-7)
	assert.Equal(t, 1, optimizer.GetTimestep())
}

// TestAdam_Defaults checks default hyperparameters and SetLR.
func TestAdam_Defaults(t *testing.T) {
	optimizer := optim.NewAdam(nil, optim.AdamConfig{})
	assert.Equal(t, 0.001, optimizer.GetLR())

	optimizer.SetLR(1e-4)
	assert.Equal(t, 1e-4, optimizer.GetLR())
}

// TestAdam_Reset clears moments and the timestep.
func TestAdam_Reset(t *testing.T) {
	param := tensor.NewParameter("x", tensor.Vector(0))
	optimizer := optim.NewAdam([]*tensor.Parameter{param}, optim.AdamConfig{LR: 1})

	param.SetGrad(tensor.Vector(math.NaN()))
	optimizer.Step()
	assert.True(t, param.Tensor().HasNaN())

	optimizer.Reset()
	assert.Equal(t, 0, optimizer.GetTimestep())

	param.Tensor().Set(0, 0)
	param.SetGrad(tensor.Vector(2))
	optimizer.Step()
	assert.InDelta(t, -1.0, param.Tensor().At(0), 1e-7)
}

// TestAdam_MinimizesQuadratic runs Adam on f(x) = (x - 3)².
func TestAdam_MinimizesQuadratic(t *testing.T) {
	param := tensor.NewParameter("x", tensor.Vector(0))
	optimizer := optim.NewAdam([]*tensor.Parameter{param}, optim.AdamConfig{LR: 0.05})

	for range 2000 {
		x := param.Tensor().At(0)
		param.SetGrad(tensor.Vector(2 * (x - 3)))
		optimizer.Step()
		optimizer.ZeroGrad()
	}
	require.False(t, param.Tensor().HasNaN())
	assert.InDelta(t, 3.0, param.Tensor().At(0), 1e-2)
}

// TestStep_GradientShapeMismatchPanics checks both optimizers refuse a
// gradient that does not match its parameter.
func TestStep_GradientShapeMismatchPanics(t *testing.T) {
	tests := []struct {
		name  string
		build func(params []*tensor.Parameter) optim.Optimizer
	}{
		{"sgd", func(p []*tensor.Parameter) optim.Optimizer { return optim.NewSGD(p, optim.SGDConfig{}) }},
		{"adam", func(p []*tensor.Parameter) optim.Optimizer { return optim.NewAdam(p, optim.AdamConfig{}) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			param := tensor.NewParameter("w", tensor.Vector(1, 2, 3))
			optimizer := tt.build([]*tensor.Parameter{param})

			param.SetGrad(tensor.Vector(1))
			assert.Panics(t, optimizer.Step)

			// Same element count, different shape.
			grad, err := tensor.FromSlice([]float64{1, 2, 3}, tensor.Shape{3, 1})
			require.NoError(t, err)
			param.SetGrad(grad)
			assert.Panics(t, optimizer.Step)

			param.SetGrad(tensor.Vector(1, 1, 1))
			assert.NotPanics(t, optimizer.Step)
		})
	}
}
