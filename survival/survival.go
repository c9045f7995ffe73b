// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package survival estimates time-to-conversion curves from censored
// (indicator, time) observations.
//
// Example:
//
//	km := survival.NewKaplanMeier(survival.WithLogger(logger))
//	if err := km.Fit([]float64{1, 1, 0, 1}, []float64{1, 2, 3, 4}); err != nil {
//	    log.Fatal(err)
//	}
//	km.CDF([]float64{1.5})                    // [0.25]
//	rows, _ := km.CDFInterval([]float64{1.5}, 0.95) // [[0.25 lower upper]]
package survival

import (
	"go.uber.org/zap"

	"github.com/born-ml/convoys/internal/survival"
)

// Errors returned by Fit and interval queries.
var (
	ErrLengthMismatch    = survival.ErrLengthMismatch
	ErrNoObservations    = survival.ErrNoObservations
	ErrInvalidConfidence = survival.ErrInvalidConfidence
)

// Estimator is a survival-curve model reporting conversion probabilities.
type Estimator = survival.Estimator

// KaplanMeier is the product-limit estimator with Greenwood intervals.
type KaplanMeier = survival.KaplanMeier

// Option configures a KaplanMeier estimator.
type Option = survival.Option

// NewKaplanMeier creates an unfitted estimator.
func NewKaplanMeier(opts ...Option) *KaplanMeier {
	return survival.NewKaplanMeier(opts...)
}

// WithLogger sets the logger that receives the dropped-rows warning.
func WithLogger(l *zap.Logger) Option {
	return survival.WithLogger(l)
}
