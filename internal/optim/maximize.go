package optim

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/born-ml/convoys/internal/autodiff"
	"github.com/born-ml/convoys/internal/tensor"
)

// ErrNoParameters is returned by Maximize when called without parameters.
var ErrNoParameters = errors.New("optim: no parameters to optimize")

// Schedule defaults. Learning rates are handled as decade exponents so the
// staircase, the /10 shrink and the floor compare exactly.
const (
	DefaultPatience       = 40 // steps without improvement before a rollback
	DefaultStepsPerDecade = 40 // steps between ceiling increases
	DefaultMinExponent    = -6 // learning-rate floor 1e-6 and starting ceiling
	DefaultMaxExponent    = 0  // learning-rate cap 1
)

// Result summarises one Maximize call. The parameters themselves are
// updated in place.
type Result struct {
	Steps             int     // optimizer steps taken
	BestCost          float64 // best objective value observed
	Rollbacks         int     // restores to the best snapshot
	FinalLearningRate float64 // learning rate of the last step taken
	Truncated         bool    // stopped by WithMaxSteps before converging
}

type settings struct {
	newOptimizer   func(params []*tensor.Parameter) Optimizer
	observer       Observer
	logger         *zap.Logger
	patience       int
	stepsPerDecade int
	minExponent    int
	maxExponent    int
	maxSteps       int
}

// Option configures Maximize.
type Option func(*settings)

// WithOptimizer sets the first-order optimizer factory. The default is
// Adam with its default betas and epsilon.
func WithOptimizer(factory func(params []*tensor.Parameter) Optimizer) Option {
	return func(s *settings) { s.newOptimizer = factory }
}

// WithObserver registers an observer invoked after every step.
func WithObserver(o Observer) Option {
	return func(s *settings) { s.observer = o }
}

// WithLogger sets the logger used for start/finish messages. A nil logger
// keeps the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithPatience sets how many steps without improvement trigger a rollback.
func WithPatience(steps int) Option {
	return func(s *settings) { s.patience = steps }
}

// WithStepsPerDecade sets how many steps the learning-rate ceiling stays at
// each power of ten.
func WithStepsPerDecade(steps int) Option {
	return func(s *settings) { s.stepsPerDecade = steps }
}

// WithLearningRateRange sets the floor and cap of the learning rate as
// powers of ten. The staircase starts at the floor.
func WithLearningRateRange(minExponent, maxExponent int) Option {
	return func(s *settings) {
		s.minExponent = minExponent
		s.maxExponent = maxExponent
	}
}

// WithMaxSteps bounds the number of steps. Zero means no bound.
func WithMaxSteps(n int) Option {
	return func(s *settings) { s.maxSteps = n }
}

func defaultSettings() settings {
	return settings{
		newOptimizer: func(params []*tensor.Parameter) Optimizer {
			return NewAdam(params, AdamConfig{})
		},
		observer:       nopObserver{},
		logger:         zap.NewNop(),
		patience:       DefaultPatience,
		stepsPerDecade: DefaultStepsPerDecade,
		minExponent:    DefaultMinExponent,
		maxExponent:    DefaultMaxExponent,
	}
}

func (s *settings) validate() error {
	if s.patience < 0 {
		return fmt.Errorf("optim: patience must be >= 0, got %d", s.patience)
	}
	if s.stepsPerDecade <= 0 {
		return fmt.Errorf("optim: steps per decade must be > 0, got %d", s.stepsPerDecade)
	}
	if s.minExponent > s.maxExponent {
		return fmt.Errorf("optim: learning-rate range 1e%d..1e%d is empty", s.minExponent, s.maxExponent)
	}
	if s.maxSteps < 0 {
		return fmt.Errorf("optim: max steps must be >= 0, got %d", s.maxSteps)
	}
	return nil
}

// Maximize drives a first-order optimizer over params to maximize the
// objective, mutating params in place.
//
// Each step uses the learning rate min(ceiling, decayed), where the
// ceiling climbs one decade every stepsPerDecade steps from the floor to
// the cap, and the decayed rate starts at the cap. After each step:
//
//  1. a better cost is accepted and snapshotted;
//  2. a NaN parameter, a NaN or -Inf cost, or more than patience steps
//     without improvement restores the snapshot and sets the decayed
//     rate one decade below the rate just used;
//  3. otherwise nothing changes.
//
// The loop ends when the effective rate falls below the floor. Only a
// rollback lowers the rate, so params then hold the restored snapshot.
//
// The caller must not touch params until Maximize returns.
func Maximize(objective autodiff.Objective, params []*tensor.Parameter, opts ...Option) (Result, error) {
	s := defaultSettings()
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.validate(); err != nil {
		return Result{}, err
	}
	if len(params) == 0 {
		return Result{}, ErrNoParameters
	}

	opt := s.newOptimizer(params)

	bestCost, err := autodiff.Evaluate(objective, params)
	if err != nil {
		return Result{}, fmt.Errorf("evaluate initial objective: %w", err)
	}
	if math.IsNaN(bestCost) || math.IsInf(bestCost, 0) {
		s.logger.Warn("initial objective is not finite", zap.Float64("cost", bestCost))
	}
	snapshot := takeSnapshot(params)

	var (
		res         Result
		step        int
		bestStep    int
		decExponent = s.maxExponent
		ceilingCap  = s.stepsPerDecade * (s.maxExponent - s.minExponent)
	)
	res.BestCost = bestCost

	s.logger.Debug("maximize started",
		zap.Int("parameters", len(params)),
		zap.Float64("cost", bestCost),
	)

	for {
		incExponent := min(step, ceilingCap)/s.stepsPerDecade + s.minExponent
		exponent := min(incExponent, decExponent)
		if exponent < s.minExponent {
			break
		}
		if s.maxSteps > 0 && step >= s.maxSteps {
			res.Truncated = true
			break
		}

		lr := math.Pow10(exponent)
		opt.SetLR(lr)
		if err := ascend(objective, params, opt); err != nil {
			return res, fmt.Errorf("step %d: %w", step, err)
		}

		diverged := anyNaN(params)
		cost := math.Inf(-1)
		if !diverged {
			cost, err = autodiff.Evaluate(objective, params)
			if err != nil {
				return res, fmt.Errorf("step %d: evaluate objective: %w", step, err)
			}
			diverged = math.IsNaN(cost) || math.IsInf(cost, -1)
		}

		transition := Searching
		switch {
		case cost > bestCost:
			bestCost, bestStep = cost, step
			snapshot.store(params)
			transition = Improved
		case diverged || step-bestStep > s.patience:
			snapshot.restore(params)
			decExponent = exponent - 1
			bestStep = step
			if r, ok := opt.(Resetter); ok && diverged {
				r.Reset()
			}
			res.Rollbacks++
			transition = RolledBack
		}

		s.observer.OnStep(Event{
			Step:         step,
			LearningRate: lr,
			Cost:         cost,
			BestCost:     bestCost,
			Transition:   transition,
		})

		res.FinalLearningRate = lr
		step++
	}

	res.Steps = step
	res.BestCost = bestCost

	s.logger.Debug("maximize finished",
		zap.Int("steps", res.Steps),
		zap.Int("rollbacks", res.Rollbacks),
		zap.Float64("best_cost", res.BestCost),
		zap.Bool("truncated", res.Truncated),
	)
	return res, nil
}

// ascend computes gradients of the objective and applies one optimizer
// step against the negated gradient.
func ascend(objective autodiff.Objective, params []*tensor.Parameter, opt Optimizer) error {
	if _, err := autodiff.Gradient(objective, params); err != nil {
		return err
	}
	for _, p := range params {
		if g := p.Grad(); g != nil {
			data := g.Data()
			for i := range data {
				data[i] = -data[i]
			}
		}
	}
	opt.Step()
	opt.ZeroGrad()
	return nil
}

func anyNaN(params []*tensor.Parameter) bool {
	for _, p := range params {
		if p.Tensor().HasNaN() {
			return true
		}
	}
	return false
}

// snapshot holds a copy of every parameter value.
type snapshot []*tensor.Tensor

func takeSnapshot(params []*tensor.Parameter) snapshot {
	s := make(snapshot, len(params))
	for i, p := range params {
		s[i] = p.Tensor().Clone()
	}
	return s
}

func (s snapshot) store(params []*tensor.Parameter) {
	for i, p := range params {
		copy(s[i].Data(), p.Tensor().Data())
	}
}

func (s snapshot) restore(params []*tensor.Parameter) {
	for i, p := range params {
		copy(p.Tensor().Data(), s[i].Data())
	}
}
