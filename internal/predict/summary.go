package predict

import (
	"errors"
	"fmt"
	"slices"

	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/convoys/internal/tensor"
)

// ErrNoSamples is returned when summarising an empty sample set.
var ErrNoSamples = errors.New("predict: no samples")

// Summary is the mean and central interval of a sample set.
type Summary struct {
	Mean  float64
	Lower float64 // (1-ci)*50th percentile
	Upper float64 // (1+ci)*50th percentile
}

// Summarize reduces samples to their mean and the central ci interval.
// Percentiles are linearly interpolated.
func Summarize(samples []float64, ci float64) (Summary, error) {
	if len(samples) == 0 {
		return Summary{}, ErrNoSamples
	}
	if err := checkConfidence(ci); err != nil {
		return Summary{}, err
	}
	sorted := slices.Clone(samples)
	slices.Sort(sorted)
	return Summary{
		Mean:  stat.Mean(sorted, nil),
		Lower: stat.Quantile((1-ci)/2, stat.LinInterp, sorted, nil),
		Upper: stat.Quantile((1+ci)/2, stat.LinInterp, sorted, nil),
	}, nil
}

// SummarizeTensor summarises along the last axis of t. The result has the
// leading shape of t and a trailing axis of 3 holding (mean, lower, upper).
// With ci == 0 values pass through unchanged.
func SummarizeTensor(t *tensor.Tensor, ci float64) (*tensor.Tensor, error) {
	if ci == 0 {
		return t, nil
	}
	shape := t.Shape()
	if len(shape) == 0 {
		return nil, fmt.Errorf("%w: scalar has no sample axis", ErrNoSamples)
	}
	k := shape[len(shape)-1]
	outer := shape[:len(shape)-1]

	data := t.Data()
	out := make([]float64, 0, 3*outer.NumElements())
	for i := range outer.NumElements() {
		s, err := Summarize(data[i*k:(i+1)*k], ci)
		if err != nil {
			return nil, err
		}
		out = append(out, s.Mean, s.Lower, s.Upper)
	}
	return tensor.FromSlice(out, outer.Append(3))
}
