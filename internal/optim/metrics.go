package optim

import (
	"math"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsObserver exports Maximize progress as Prometheus metrics.
type MetricsObserver struct {
	steps        *prometheus.CounterVec
	learningRate prometheus.Gauge
	cost         prometheus.Gauge
	bestCost     prometheus.Gauge
}

// NewMetricsObserver registers the optimizer metrics on reg.
//
// Registering twice on the same registry panics, as with promauto.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	factory := promauto.With(reg)
	return &MetricsObserver{
		steps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "convoys_optimizer_steps_total",
			Help: "Optimizer steps by transition",
		}, []string{"transition"}),
		learningRate: factory.NewGauge(prometheus.GaugeOpts{
			Name: "convoys_optimizer_learning_rate",
			Help: "Learning rate used by the latest optimizer step",
		}),
		cost: factory.NewGauge(prometheus.GaugeOpts{
			Name: "convoys_optimizer_cost",
			Help: "Objective value after the latest optimizer step",
		}),
		bestCost: factory.NewGauge(prometheus.GaugeOpts{
			Name: "convoys_optimizer_best_cost",
			Help: "Best objective value observed",
		}),
	}
}

// OnStep implements Observer.
func (m *MetricsObserver) OnStep(e Event) {
	m.steps.WithLabelValues(e.Transition.String()).Inc()
	m.learningRate.Set(e.LearningRate)
	if !math.IsNaN(e.Cost) && !math.IsInf(e.Cost, 0) {
		m.cost.Set(e.Cost)
	}
	m.bestCost.Set(e.BestCost)
}
