// Package predict turns fitted parameters into predictions.
//
// A prediction is the projection xᵀθ of a fitted parameter vector θ. Its
// uncertainty comes from the Hessian of the negated objective at θ, read as a
// precision matrix: the projection has variance 1 / (xᵀHx).
package predict

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

var (
	// ErrLengthMismatch is returned when the projection, parameter value and
	// Hessian disagree in size.
	ErrLengthMismatch = errors.New("predict: length mismatch")

	// ErrDegenerateVariance is returned when xᵀHx is not a positive finite
	// number, for example with a zero projection vector.
	ErrDegenerateVariance = errors.New("predict: projection has no positive finite precision")

	// ErrInvalidConfidence is returned for confidence levels outside (0, 1).
	ErrInvalidConfidence = errors.New("predict: confidence level must be in (0, 1)")

	// ErrInvalidSampleCount is returned when fewer than one sample is requested.
	ErrInvalidSampleCount = errors.New("predict: sample count must be positive")
)

// Predict returns the linear prediction xᵀθ.
func Predict(x, value []float64) (float64, error) {
	if len(x) != len(value) {
		return 0, fmt.Errorf("%w: projection %d, value %d", ErrLengthMismatch, len(x), len(value))
	}
	return floats.Dot(x, value), nil
}

// Sampler draws predictive samples around a linear prediction.
//
// A Sampler is not safe for concurrent use.
type Sampler struct {
	src rand.Source
}

// NewSampler creates a sampler with a deterministic PCG source.
func NewSampler(seed uint64) *Sampler {
	return &Sampler{src: rand.NewPCG(seed, seed)}
}

// StdDev returns the standard deviation of the projection x under the
// precision matrix hessian, (xᵀHx)^-1/2.
func StdDev(x []float64, hessian mat.Symmetric) (float64, error) {
	if hessian.SymmetricDim() != len(x) {
		return 0, fmt.Errorf("%w: projection %d, hessian %d", ErrLengthMismatch, len(x), hessian.SymmetricDim())
	}
	xv := mat.NewVecDense(len(x), x)
	precision := mat.Inner(xv, hessian, xv)
	if !(precision > 0) || math.IsInf(precision, 1) {
		return 0, fmt.Errorf("%w: xᵀHx = %v", ErrDegenerateVariance, precision)
	}
	return 1 / math.Sqrt(precision), nil
}

// Sample draws n normal samples centred at xᵀθ with standard deviation
// StdDev(x, hessian).
func (s *Sampler) Sample(x, value []float64, hessian mat.Symmetric, n int) ([]float64, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleCount, n)
	}
	mu, err := Predict(x, value)
	if err != nil {
		return nil, err
	}
	sd, err := StdDev(x, hessian)
	if err != nil {
		return nil, err
	}

	dist := distuv.Normal{Mu: mu, Sigma: sd, Src: s.src}
	out := make([]float64, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out, nil
}

// ProjectAndPredict returns the point prediction when ci is 0, and n
// predictive samples otherwise. The samples are meant for Summarize.
func (s *Sampler) ProjectAndPredict(x, value []float64, hessian mat.Symmetric, n int, ci float64) ([]float64, error) {
	if ci == 0 {
		p, err := Predict(x, value)
		if err != nil {
			return nil, err
		}
		return []float64{p}, nil
	}
	if err := checkConfidence(ci); err != nil {
		return nil, err
	}
	return s.Sample(x, value, hessian, n)
}

func checkConfidence(ci float64) error {
	if !(ci > 0 && ci < 1) {
		return fmt.Errorf("%w: got %v", ErrInvalidConfidence, ci)
	}
	return nil
}
