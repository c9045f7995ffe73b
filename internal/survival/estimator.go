// Package survival estimates time-to-conversion curves from censored
// observations.
//
// An observation is a pair (indicator, time): the indicator is 1 when the
// subject converted at time and 0 when it was censored there. Fractional
// indicators in [0, 1] are accepted as partial weights.
package survival

import (
	"errors"

	"github.com/born-ml/convoys/internal/tensor"
)

var (
	// ErrLengthMismatch is returned when indicators and times differ in length.
	ErrLengthMismatch = errors.New("survival: indicators and times differ in length")

	// ErrNoObservations is returned when no valid row remains after filtering.
	ErrNoObservations = errors.New("survival: no valid observations")

	// ErrInvalidConfidence is returned for confidence levels outside (0, 1).
	ErrInvalidConfidence = errors.New("survival: confidence level must be in (0, 1)")
)

// Estimator is a survival-curve model reporting cumulative conversion
// probabilities.
type Estimator interface {
	// Fit replaces the fitted curve with one estimated from the observations.
	Fit(indicators, times []float64) error

	// CDF returns the conversion probability at each query time.
	CDF(ts []float64) []float64

	// CDFInterval returns (point, lower, upper) at each query time.
	CDFInterval(ts []float64, ci float64) ([][3]float64, error)

	// CDFTensor evaluates a tensor of query times of any shape. With ci > 0 the
	// result gains a trailing axis of size 3.
	CDFTensor(t *tensor.Tensor, ci float64) (*tensor.Tensor, error)
}

var _ Estimator = (*KaplanMeier)(nil)
