// Package tensor provides dense float64 tensors and trainable parameters.
//
// Tensors are row-major and own their backing slice. They are the unit in
// which parameters, gradients and batched query times move between the
// autodiff, optim, survival and predict packages.
package tensor

import (
	"errors"
	"fmt"
	"math"
)

// ErrShapeMismatch is returned when two tensors (or a tensor and a slice)
// disagree in size.
var ErrShapeMismatch = errors.New("tensor: shape mismatch")

// Tensor is a dense, row-major float64 tensor.
//
// Example:
//
//	t := tensor.Zeros(tensor.Shape{3, 4})
//	t.Set(1.5, 0, 2)
//	v := t.At(0, 2) // 1.5
type Tensor struct {
	shape Shape
	data  []float64
}

// New creates a zero-filled tensor with the given shape.
func New(shape Shape) *Tensor {
	return &Tensor{
		shape: shape.Clone(),
		data:  make([]float64, shape.NumElements()),
	}
}

// Zeros is an alias of New kept for readability at call sites.
func Zeros(shape Shape) *Tensor {
	return New(shape)
}

// Full creates a tensor with every element set to v.
func Full(shape Shape, v float64) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = v
	}
	return t
}

// Scalar creates a 0-dimensional tensor holding v.
func Scalar(v float64) *Tensor {
	return &Tensor{shape: Shape{}, data: []float64{v}}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, err
	}
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("%w: shape %v requires %d elements, but got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	t := New(shape)
	copy(t.data, data)
	return t, nil
}

// Vector creates a 1-dimensional tensor from values.
func Vector(values ...float64) *Tensor {
	t := New(Shape{len(values)})
	copy(t.data, values)
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return len(t.data)
}

// Data returns the backing slice. Writes through it mutate the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// At returns the element at the given multi-dimensional index.
// It panics on an out-of-range index, like slice indexing.
func (t *Tensor) At(idx ...int) float64 {
	off, err := t.shape.Offset(idx...)
	if err != nil {
		panic(err)
	}
	return t.data[off]
}

// Set stores v at the given multi-dimensional index.
func (t *Tensor) Set(v float64, idx ...int) {
	off, err := t.shape.Offset(idx...)
	if err != nil {
		panic(err)
	}
	t.data[off] = v
}

// Item returns the single value of a one-element tensor.
func (t *Tensor) Item() float64 {
	if len(t.data) != 1 {
		panic(fmt.Sprintf("tensor: Item called on tensor with %d elements", len(t.data)))
	}
	return t.data[0]
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	c := New(t.shape)
	copy(c.data, t.data)
	return c
}

// CopyFrom overwrites t's values with src's. Shapes must hold the same
// number of elements.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if len(src.data) != len(t.data) {
		return fmt.Errorf("%w: copy %v into %v", ErrShapeMismatch, src.shape, t.shape)
	}
	copy(t.data, src.data)
	return nil
}

// Reshape returns a tensor sharing t's data with a new shape.
func (t *Tensor) Reshape(shape Shape) (*Tensor, error) {
	if shape.NumElements() != len(t.data) {
		return nil, fmt.Errorf("%w: cannot reshape %v to %v", ErrShapeMismatch, t.shape, shape)
	}
	return &Tensor{shape: shape.Clone(), data: t.data}, nil
}

// Fill sets every element to v.
func (t *Tensor) Fill(v float64) {
	for i := range t.data {
		t.data[i] = v
	}
}

// HasNaN reports whether any element is NaN.
func (t *Tensor) HasNaN() bool {
	for _, v := range t.data {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("Tensor(shape=%v, data=%v)", t.shape, t.data)
}
