// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/convoys/internal/tensor"
)

// ErrShapeMismatch is returned when sizes disagree.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Tensor is a dense, row-major float64 tensor.
type Tensor = tensor.Tensor

// Parameter is a named tensor with an optional gradient.
type Parameter = tensor.Parameter

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) *Tensor {
	return tensor.New(shape)
}

// Zeros creates a zero-filled tensor with the given shape.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Full creates a tensor with every element set to v.
func Full(shape Shape, v float64) *Tensor {
	return tensor.Full(shape, v)
}

// Scalar creates a 0-dimensional tensor.
func Scalar(v float64) *Tensor {
	return tensor.Scalar(v)
}

// Vector creates a 1-dimensional tensor from values.
func Vector(values ...float64) *Tensor {
	return tensor.Vector(values...)
}

// FromSlice creates a tensor from a copy of data.
//
// Example:
//
//	t, err := tensor.FromSlice([]float64{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3})
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// NewParameter creates a parameter holding value.
func NewParameter(name string, value *Tensor) *Parameter {
	return tensor.NewParameter(name, value)
}
