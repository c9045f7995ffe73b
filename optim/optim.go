// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides first-order optimizers and the adaptive
// maximization loop used to fit likelihoods.
//
// # Overview
//
// This package contains:
//   - Maximize: gradient ascent with a learning-rate staircase, patience
//     based rollback to the best snapshot, and divergence recovery
//   - Adam and SGD, usable on their own or through WithOptimizer
//   - Observers for per-step progress: LogObserver (zap) and
//     MetricsObserver (Prometheus)
//
// # Basic Usage
//
//	x := tensor.NewParameter("x", tensor.Scalar(-2))
//	f := func(t *autodiff.GradientTape, p []*autodiff.Vector) *autodiff.Var {
//	    return t.Neg(t.Square(t.AddConst(p[0].At(0), -3)))
//	}
//	res, err := optim.Maximize(f, []*tensor.Parameter{x},
//	    optim.WithObserver(optim.NewLogObserver(logger)),
//	)
//	// x now holds approximately 3.
package optim

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/born-ml/convoys/internal/autodiff"
	"github.com/born-ml/convoys/internal/optim"
	"github.com/born-ml/convoys/internal/tensor"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Resetter is implemented by optimizers with internal state.
type Resetter = optim.Resetter

// Config represents the base configuration for optimizers.
type Config = optim.Config

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(params []*tensor.Parameter, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}

// Adam represents the Adam optimizer.
type Adam = optim.Adam

// AdamConfig contains configuration for Adam optimizer.
type AdamConfig = optim.AdamConfig

// NewAdam creates a new Adam optimizer with bias correction.
func NewAdam(params []*tensor.Parameter, config AdamConfig) *Adam {
	return optim.NewAdam(params, config)
}

// Maximize

// ErrNoParameters is returned by Maximize when called without parameters.
var ErrNoParameters = optim.ErrNoParameters

// Schedule defaults.
const (
	DefaultPatience       = optim.DefaultPatience
	DefaultStepsPerDecade = optim.DefaultStepsPerDecade
	DefaultMinExponent    = optim.DefaultMinExponent
	DefaultMaxExponent    = optim.DefaultMaxExponent
)

// Result summarises one Maximize call.
type Result = optim.Result

// Option configures Maximize.
type Option = optim.Option

// Maximize mutates params in place to maximize the objective.
func Maximize(objective autodiff.Objective, params []*tensor.Parameter, opts ...Option) (Result, error) {
	return optim.Maximize(objective, params, opts...)
}

// WithOptimizer sets the first-order optimizer factory (default Adam).
func WithOptimizer(factory func(params []*tensor.Parameter) Optimizer) Option {
	return optim.WithOptimizer(factory)
}

// WithObserver registers an observer invoked after every step.
func WithObserver(o Observer) Option {
	return optim.WithObserver(o)
}

// WithLogger sets the logger used for start/finish messages.
func WithLogger(l *zap.Logger) Option {
	return optim.WithLogger(l)
}

// WithPatience sets how many steps without improvement trigger a rollback.
func WithPatience(steps int) Option {
	return optim.WithPatience(steps)
}

// WithStepsPerDecade sets how long the learning-rate ceiling stays at each
// power of ten.
func WithStepsPerDecade(steps int) Option {
	return optim.WithStepsPerDecade(steps)
}

// WithLearningRateRange sets the learning-rate floor and cap as powers of ten.
func WithLearningRateRange(minExponent, maxExponent int) Option {
	return optim.WithLearningRateRange(minExponent, maxExponent)
}

// WithMaxSteps bounds the number of steps. Zero means no bound.
func WithMaxSteps(n int) Option {
	return optim.WithMaxSteps(n)
}

// Observers

// Transition is the state change applied after a step.
type Transition = optim.Transition

// Step transitions.
const (
	Searching  = optim.Searching
	Improved   = optim.Improved
	RolledBack = optim.RolledBack
)

// Event describes one Maximize step.
type Event = optim.Event

// Observer receives one Event per step.
type Observer = optim.Observer

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc = optim.ObserverFunc

// Observers fans an event out to several observers.
type Observers = optim.Observers

// LogObserver writes progress to a zap logger.
type LogObserver = optim.LogObserver

// NewLogObserver creates a LogObserver. A nil logger discards output.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	return optim.NewLogObserver(logger)
}

// MetricsObserver exports progress as Prometheus metrics.
type MetricsObserver = optim.MetricsObserver

// NewMetricsObserver registers the optimizer metrics on reg.
func NewMetricsObserver(reg prometheus.Registerer) *MetricsObserver {
	return optim.NewMetricsObserver(reg)
}
