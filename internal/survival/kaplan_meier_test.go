package survival_test

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/born-ml/convoys/internal/survival"
	"github.com/born-ml/convoys/internal/tensor"
)

const z95 = 1.959963984540054

func fitted(t *testing.T, indicators, times []float64) *survival.KaplanMeier {
	t.Helper()
	km := survival.NewKaplanMeier()
	require.NoError(t, km.Fit(indicators, times))
	return km
}

func TestKaplanMeier_Example(t *testing.T) {
	km := fitted(t, []float64{1, 1, 0, 1}, []float64{1, 2, 3, 4})

	assert.Equal(t, []float64{0, 1, 2, 3, 4}, km.Times())
	assert.Equal(t, []float64{1, 0.75, 0.5, 0.5, 0}, km.Survival())

	vs := km.Variance()
	require.Len(t, vs, 5)
	assert.Equal(t, 0.0, vs[0])
	l1, l2 := math.Log(0.75), math.Log(0.5)
	assert.InDelta(t, (1.0/12)/(l1*l1), vs[1], 1e-12)
	assert.InDelta(t, 0.25/(l2*l2), vs[2], 1e-12)
	assert.InDelta(t, 0.25/(l2*l2), vs[3], 1e-12)
	assert.True(t, math.IsInf(vs[4], 1), "full removal of the last subject")

	got := km.CDF([]float64{0, 0.5, 1, 1.5, 2.5, 3.99, 4, 10})
	assert.Equal(t, 0.0, got[0])
	assert.Equal(t, 0.0, got[1])
	assert.InDelta(t, 0.25, got[2], 1e-12)
	assert.InDelta(t, 1-(1-1.0/4), got[3], 1e-12)
	assert.InDelta(t, 0.5, got[4], 1e-12)
	assert.InDelta(t, 0.5, got[5], 1e-12)
	assert.True(t, math.IsNaN(got[6]))
	assert.True(t, math.IsNaN(got[7]))
}

func TestKaplanMeier_Interval(t *testing.T) {
	km := fitted(t, []float64{1, 1, 0, 1}, []float64{1, 2, 3, 4})

	got, err := km.CDFInterval([]float64{0, 1.5, 4}, 0.95)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, [3]float64{0, 0, 0}, got[0])

	theta := math.Log(-math.Log(0.75))
	sd := math.Sqrt(km.Variance()[1])
	assert.InDelta(t, 0.25, got[1][0], 1e-12)
	assert.InDelta(t, 1-math.Exp(-math.Exp(theta-z95*sd)), got[1][1], 1e-9)
	assert.InDelta(t, 1-math.Exp(-math.Exp(theta+z95*sd)), got[1][2], 1e-9)
	assert.Less(t, got[1][1], got[1][0])
	assert.Greater(t, got[1][2], got[1][0])

	for _, v := range got[2] {
		assert.True(t, math.IsNaN(v))
	}
}

func TestKaplanMeier_CurveInvariants(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	for trial := range 20 {
		n := 1 + rng.IntN(60)
		indicators := make([]float64, n)
		times := make([]float64, n)
		for i := range n {
			switch rng.IntN(3) {
			case 0:
				indicators[i] = rng.Float64()
			default:
				indicators[i] = float64(rng.IntN(2))
			}
			// Coarse times force ties.
			times[i] = float64(1 + rng.IntN(10))
		}
		km := fitted(t, indicators, times)

		ts, ss, vs := km.Times(), km.Survival(), km.Variance()
		require.Len(t, ts, n+1)
		require.Len(t, ss, n+1)
		require.Len(t, vs, n+1)
		assert.Equal(t, 0.0, ts[0])
		assert.Equal(t, 1.0, ss[0])
		assert.Equal(t, 0.0, vs[0])
		for j := 1; j <= n; j++ {
			assert.LessOrEqual(t, ts[j-1], ts[j], "trial %d", trial)
			assert.LessOrEqual(t, ss[j], ss[j-1], "trial %d", trial)
			assert.GreaterOrEqual(t, ss[j], 0.0)
		}

		assert.Equal(t, []float64{0}, km.CDF([]float64{0}))

		queries := make([]float64, 50)
		for i := range queries {
			queries[i] = rng.Float64() * 11
		}
		for _, ci := range []float64{0.5, 0.8, 0.95, 0.99} {
			rows, err := km.CDFInterval(queries, ci)
			require.NoError(t, err)
			for i, r := range rows {
				if math.IsNaN(r[0]) {
					continue
				}
				assert.LessOrEqual(t, r[1], r[0]+1e-12, "trial %d query %v ci %v", trial, queries[i], ci)
				assert.LessOrEqual(t, r[0], r[2]+1e-12, "trial %d query %v ci %v", trial, queries[i], ci)
			}
		}
	}
}

func TestKaplanMeier_DropsInvalidRows(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	km := survival.NewKaplanMeier(survival.WithLogger(zap.New(core)))

	indicators := []float64{1, 0, 1, 1, 1, 0, 1}
	times := []float64{3, 0, 5, -2, 1, 4, 0}
	require.NoError(t, km.Fit(indicators, times))

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, int64(3), fields["removed"])
	assert.Equal(t, int64(7), fields["total"])

	clean := fitted(t, []float64{1, 1, 1, 0}, []float64{3, 5, 1, 4})
	assert.Equal(t, clean.Times(), km.Times())
	assert.Equal(t, clean.Survival(), km.Survival())
	assert.Equal(t, clean.Variance(), km.Variance())
}

func TestKaplanMeier_DropsOutOfRangeIndicators(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	km := survival.NewKaplanMeier(survival.WithLogger(zap.New(core)))

	require.NoError(t, km.Fit([]float64{1.5, -0.1, math.NaN(), 0.5}, []float64{1, 2, 3, 4}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, []float64{0, 4}, km.Times())
	assert.Equal(t, []float64{1, 0.5}, km.Survival())
}

func TestKaplanMeier_NoWarningWhenClean(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	km := survival.NewKaplanMeier(survival.WithLogger(zap.New(core)))
	require.NoError(t, km.Fit([]float64{1, 0}, []float64{1, 2}))
	assert.Zero(t, logs.Len())
}

func TestKaplanMeier_TiesSortedByIndicator(t *testing.T) {
	a := fitted(t, []float64{1, 0, 1}, []float64{2, 2, 1})
	b := fitted(t, []float64{0, 1, 1}, []float64{2, 2, 1})

	assert.Equal(t, a.Survival(), b.Survival())
	// (1, 1) then (2, 0) then (2, 1).
	assert.InDeltaSlice(t, []float64{1, 2.0 / 3, 2.0 / 3, 0}, a.Survival(), 1e-12)
}

func TestKaplanMeier_Refit(t *testing.T) {
	km := fitted(t, []float64{1, 1}, []float64{1, 2})
	require.NoError(t, km.Fit([]float64{1, 0, 1}, []float64{5, 6, 7}))
	assert.Equal(t, []float64{0, 5, 6, 7}, km.Times())
}

func TestKaplanMeier_Errors(t *testing.T) {
	km := survival.NewKaplanMeier()

	assert.ErrorIs(t, km.Fit([]float64{1}, []float64{1, 2}), survival.ErrLengthMismatch)
	assert.ErrorIs(t, km.Fit([]float64{1, 1}, []float64{0, -1}), survival.ErrNoObservations)
	assert.ErrorIs(t, km.Fit(nil, nil), survival.ErrNoObservations)

	require.NoError(t, km.Fit([]float64{1, 0}, []float64{1, 2}))
	for _, ci := range []float64{0, 1, -0.5, 1.5, math.NaN()} {
		_, err := km.CDFInterval([]float64{1}, ci)
		assert.ErrorIs(t, err, survival.ErrInvalidConfidence, "ci %v", ci)
	}
}

func TestKaplanMeier_Unfitted(t *testing.T) {
	km := survival.NewKaplanMeier()
	got := km.CDF([]float64{0, 1})
	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
}

func TestKaplanMeier_NegativeQueryClamps(t *testing.T) {
	km := fitted(t, []float64{1, 1}, []float64{1, 2})
	assert.Equal(t, []float64{0}, km.CDF([]float64{-3}))
	assert.True(t, math.IsNaN(km.CDF([]float64{math.NaN()})[0]))
}

func TestKaplanMeier_CDFTensor(t *testing.T) {
	km := fitted(t, []float64{1, 1, 0, 1}, []float64{1, 2, 3, 4})

	q, err := tensor.FromSlice([]float64{0, 1.5, 2.5, 0.5, 1, 9}, tensor.Shape{2, 3})
	require.NoError(t, err)

	points, err := km.CDFTensor(q, 0)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3}, points.Shape())
	assert.InDelta(t, 0.25, points.At(0, 1), 1e-12)
	assert.InDelta(t, 0.5, points.At(0, 2), 1e-12)
	assert.True(t, math.IsNaN(points.At(1, 2)))

	intervals, err := km.CDFTensor(q, 0.9)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{2, 3, 3}, intervals.Shape())
	assert.InDelta(t, 0.25, intervals.At(0, 1, 0), 1e-12)
	assert.Less(t, intervals.At(0, 1, 1), intervals.At(0, 1, 0))
	assert.Greater(t, intervals.At(0, 1, 2), intervals.At(0, 1, 0))
	assert.True(t, math.IsNaN(intervals.At(1, 2, 1)))

	_, err = km.CDFTensor(q, 2)
	assert.ErrorIs(t, err, survival.ErrInvalidConfidence)
}

func TestKaplanMeier_ScalarTensor(t *testing.T) {
	km := fitted(t, []float64{1, 1, 0, 1}, []float64{1, 2, 3, 4})
	out, err := km.CDFTensor(tensor.Scalar(1.5), 0.95)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3}, out.Shape())
}
