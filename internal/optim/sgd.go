package optim

import (
	"github.com/born-ml/convoys/internal/tensor"
)

// SGD implements Stochastic Gradient Descent with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     []*tensor.Parameter
	lr         float64
	momentum   float64
	velocities map[*tensor.Parameter]*tensor.Tensor
}

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*tensor.Parameter, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		params:     params,
		lr:         config.LR,
		momentum:   config.Momentum,
		velocities: make(map[*tensor.Parameter]*tensor.Tensor),
	}
}

// Step performs a single optimization step.
func (s *SGD) Step() {
	for _, param := range s.params {
		grad := getGradient(param)
		if grad == nil {
			continue
		}

		if s.momentum == 0 {
			s.updateParameter(param, grad)
		} else {
			s.updateParameterWithMomentum(param, grad)
		}
	}
}

func (s *SGD) updateParameter(param *tensor.Parameter, grad *tensor.Tensor) {
	paramData := param.Tensor().Data()
	for i, g := range grad.Data() {
		paramData[i] -= s.lr * g
	}
}

func (s *SGD) updateParameterWithMomentum(param *tensor.Parameter, grad *tensor.Tensor) {
	velocity, exists := s.velocities[param]
	if !exists {
		velocity = tensor.Zeros(param.Shape())
		s.velocities[param] = velocity
	}

	vData := velocity.Data()
	paramData := param.Tensor().Data()
	for i, g := range grad.Data() {
		vData[i] = s.momentum*vData[i] + g
		paramData[i] -= s.lr * vData[i]
	}
}

// ZeroGrad clears gradients for all parameters.
func (s *SGD) ZeroGrad() {
	zeroGrads(s.params)
}

// GetLR returns the current learning rate.
func (s *SGD) GetLR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}

// Reset discards momentum velocities.
func (s *SGD) Reset() {
	s.velocities = make(map[*tensor.Parameter]*tensor.Tensor)
}
