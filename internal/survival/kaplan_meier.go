package survival

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/convoys/internal/tensor"
)

// KaplanMeier is the nonparametric product-limit estimator with Greenwood
// confidence intervals on the log(-log S) scale.
//
// The fitted curve is three parallel sequences indexed 0..m, where m is the
// number of valid observations: times ts, survival ss and transformed
// variance vs, starting at (0, 1, 0).
type KaplanMeier struct {
	logger *zap.Logger

	ts []float64
	ss []float64
	vs []float64
}

// Option configures a KaplanMeier estimator.
type Option func(*KaplanMeier)

// WithLogger sets the logger that receives the dropped-rows warning.
func WithLogger(l *zap.Logger) Option {
	return func(km *KaplanMeier) {
		if l != nil {
			km.logger = l
		}
	}
}

// NewKaplanMeier creates an unfitted estimator. Until Fit succeeds every
// query returns NaN.
func NewKaplanMeier(opts ...Option) *KaplanMeier {
	km := &KaplanMeier{
		logger: zap.NewNop(),
		ts:     []float64{0},
		ss:     []float64{1},
		vs:     []float64{0},
	}
	for _, opt := range opts {
		opt(km)
	}
	return km
}

type observation struct {
	indicator float64
	time      float64
}

// Fit estimates the curve. Rows with time <= 0 or an indicator outside
// [0, 1] are dropped and reported in a single warning.
func (km *KaplanMeier) Fit(indicators, times []float64) error {
	if len(indicators) != len(times) {
		return fmt.Errorf("%w: %d indicators, %d times", ErrLengthMismatch, len(indicators), len(times))
	}

	obs := make([]observation, 0, len(times))
	for i, t := range times {
		b := indicators[i]
		// NaN fails every comparison and is dropped here too.
		if t > 0 && b >= 0 && b <= 1 {
			obs = append(obs, observation{indicator: b, time: t})
		}
	}
	if removed := len(times) - len(obs); removed > 0 {
		km.logger.Warn("removed invalid observations",
			zap.Int("removed", removed),
			zap.Int("total", len(times)),
		)
	}
	if len(obs) == 0 {
		return ErrNoObservations
	}

	sort.Slice(obs, func(i, j int) bool {
		if obs[i].time != obs[j].time {
			return obs[i].time < obs[j].time
		}
		return obs[i].indicator < obs[j].indicator
	})

	m := len(obs)
	ts := make([]float64, 1, m+1)
	ss := make([]float64, 1, m+1)
	vs := make([]float64, 1, m+1)
	ss[0] = 1

	var (
		n      = float64(m)
		prod   = 1.0
		sumVar = 0.0
	)
	for _, o := range obs {
		d := o.indicator
		ts = append(ts, o.time)

		prod *= 1 - d/n
		ss = append(ss, prod)

		if d == n && n == 1 {
			sumVar = math.Inf(1)
		} else {
			sumVar += d / (n * (n - d))
		}

		switch {
		case math.IsInf(sumVar, 1):
			vs = append(vs, sumVar)
		case sumVar > 0:
			l := math.Log(prod)
			vs = append(vs, sumVar/(l*l))
		default:
			vs = append(vs, 0)
		}
		n--
	}

	km.ts, km.ss, km.vs = ts, ss, vs
	return nil
}

// index returns the rightmost j with ts[j] <= t, or -1 when t is at or past
// the last observed time. Negative times map to 0.
func (km *KaplanMeier) index(t float64) int {
	j := sort.Search(len(km.ts), func(i int) bool { return km.ts[i] > t }) - 1
	if j >= len(km.ts)-1 {
		return -1
	}
	// NaN queries find no ts[i] > t and land on the last index above.
	return max(j, 0)
}

// CDF returns 1 - S(t) for each query time, or NaN at and beyond the last
// observed time.
func (km *KaplanMeier) CDF(ts []float64) []float64 {
	out := make([]float64, len(ts))
	for i, t := range ts {
		j := km.index(t)
		if j < 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = 1 - km.ss[j]
	}
	return out
}

// CDFInterval returns (point, lower, upper) for each query time, where the
// bounds come from a normal interval on log(-log S) mapped back through
// 1 - exp(-exp(x)). Out-of-range queries yield three NaNs.
func (km *KaplanMeier) CDFInterval(ts []float64, ci float64) ([][3]float64, error) {
	zLo, zHi, err := quantiles(ci)
	if err != nil {
		return nil, err
	}
	out := make([][3]float64, len(ts))
	for i, t := range ts {
		out[i] = km.interval(km.index(t), zLo, zHi)
	}
	return out, nil
}

// CDFTensor evaluates CDF or CDFInterval over a tensor of query times.
// ci == 0 requests point estimates only.
func (km *KaplanMeier) CDFTensor(t *tensor.Tensor, ci float64) (*tensor.Tensor, error) {
	if ci == 0 {
		return tensor.FromSlice(km.CDF(t.Data()), t.Shape())
	}
	rows, err := km.CDFInterval(t.Data(), ci)
	if err != nil {
		return nil, err
	}
	flat := make([]float64, 0, 3*len(rows))
	for _, r := range rows {
		flat = append(flat, r[:]...)
	}
	return tensor.FromSlice(flat, t.Shape().Append(3))
}

func (km *KaplanMeier) interval(j int, zLo, zHi float64) [3]float64 {
	if j < 0 {
		nan := math.NaN()
		return [3]float64{nan, nan, nan}
	}
	s := km.ss[j]
	theta := math.Log(-math.Log(s))
	sd := math.Sqrt(km.vs[j])
	if sd == 0 {
		// Avoid 0 * Inf when theta is infinite.
		return [3]float64{1 - s, 1 - s, 1 - s}
	}
	return [3]float64{1 - s, cloglogInverse(theta + zLo*sd), cloglogInverse(theta + zHi*sd)}
}

// cloglogInverse maps x back to a probability via 1 - exp(-exp(x)). It is
// increasing in x.
func cloglogInverse(x float64) float64 {
	return 1 - math.Exp(-math.Exp(x))
}

func quantiles(ci float64) (lo, hi float64, err error) {
	if !(ci > 0 && ci < 1) {
		return 0, 0, fmt.Errorf("%w: got %v", ErrInvalidConfidence, ci)
	}
	return distuv.UnitNormal.Quantile((1 - ci) / 2), distuv.UnitNormal.Quantile((1 + ci) / 2), nil
}

// Times returns a copy of the curve's time points, starting at 0.
func (km *KaplanMeier) Times() []float64 { return slices.Clone(km.ts) }

// Survival returns a copy of the survival probabilities, starting at 1.
func (km *KaplanMeier) Survival() []float64 { return slices.Clone(km.ss) }

// Variance returns a copy of the Greenwood variances on the log(-log S)
// scale, starting at 0.
func (km *KaplanMeier) Variance() []float64 { return slices.Clone(km.vs) }
