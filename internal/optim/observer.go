package optim

import (
	"go.uber.org/zap"
)

// Transition is the state change applied after a Maximize step.
type Transition int

const (
	// Searching means the step neither improved nor triggered a rollback.
	Searching Transition = iota
	// Improved means the step set a new best cost and was snapshotted.
	Improved
	// RolledBack means parameters were restored to the best snapshot and
	// the learning rate was lowered.
	RolledBack
)

// String returns the human-readable name of the transition.
func (t Transition) String() string {
	switch t {
	case Searching:
		return "searching"
	case Improved:
		return "improved"
	case RolledBack:
		return "rolled_back"
	default:
		return "unknown"
	}
}

// Event describes one Maximize step.
type Event struct {
	Step         int
	LearningRate float64
	Cost         float64 // -Inf when a parameter became NaN
	BestCost     float64
	Transition   Transition
}

// Observer receives one Event per Maximize step, on the caller's goroutine.
type Observer interface {
	OnStep(e Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(e Event)

// OnStep calls f(e).
func (f ObserverFunc) OnStep(e Event) {
	f(e)
}

// Observers fans an event out to several observers in order.
type Observers []Observer

// OnStep forwards e to every observer.
func (os Observers) OnStep(e Event) {
	for _, o := range os {
		o.OnStep(e)
	}
}

type nopObserver struct{}

func (nopObserver) OnStep(Event) {}

// LogObserver writes progress to a zap logger: every step at Debug and
// every hundredth step at Info.
type LogObserver struct {
	logger   *zap.Logger
	interval int
}

// NewLogObserver creates a LogObserver. A nil logger discards output.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger, interval: 100}
}

// OnStep implements Observer.
func (l *LogObserver) OnStep(e Event) {
	fields := []zap.Field{
		zap.Int("step", e.Step+1),
		zap.Float64("lr", e.LearningRate),
		zap.Float64("cost", e.Cost),
		zap.Stringer("transition", e.Transition),
	}
	if (e.Step+1)%l.interval == 0 {
		l.logger.Info("optimizer progress", fields...)
		return
	}
	l.logger.Debug("optimizer step", fields...)
}
