// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package predict turns fitted parameters and their Hessian into point
// predictions and predictive intervals.
//
// Example:
//
//	h, _ := autodiff.Hessian(objective, params, 0)
//	s := predict.NewSampler(1)
//	samples, _ := s.ProjectAndPredict(x, params[0].Tensor().Data(), h, 1000, 0.95)
//	sum, _ := predict.Summarize(samples, 0.95)
package predict

import (
	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/convoys/internal/predict"
	"github.com/born-ml/convoys/internal/tensor"
)

// Errors returned by prediction helpers.
var (
	ErrLengthMismatch     = predict.ErrLengthMismatch
	ErrDegenerateVariance = predict.ErrDegenerateVariance
	ErrInvalidConfidence  = predict.ErrInvalidConfidence
	ErrInvalidSampleCount = predict.ErrInvalidSampleCount
	ErrNoSamples          = predict.ErrNoSamples
)

// Sampler draws predictive samples around a linear prediction.
type Sampler = predict.Sampler

// Summary is the mean and central interval of a sample set.
type Summary = predict.Summary

// NewSampler creates a sampler with a deterministic seed.
func NewSampler(seed uint64) *Sampler {
	return predict.NewSampler(seed)
}

// Predict returns the linear prediction xᵀθ.
func Predict(x, value []float64) (float64, error) {
	return predict.Predict(x, value)
}

// StdDev returns (xᵀHx)^-1/2.
func StdDev(x []float64, hessian mat.Symmetric) (float64, error) {
	return predict.StdDev(x, hessian)
}

// Summarize reduces samples to their mean and central ci interval.
func Summarize(samples []float64, ci float64) (Summary, error) {
	return predict.Summarize(samples, ci)
}

// SummarizeTensor summarises along the last axis of t.
func SummarizeTensor(t *tensor.Tensor, ci float64) (*tensor.Tensor, error) {
	return predict.SummarizeTensor(t, ci)
}
