package tensor

import "fmt"

// Shape represents the dimensions of a tensor.
type Shape []int

// NumElements returns the total number of elements in the tensor.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks if the shape is valid (all dimensions >= 0).
//
// Zero-length dimensions are allowed so that empty query batches can be
// represented.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return fmt.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Append returns a new shape with dims appended as trailing axes.
func (s Shape) Append(dims ...int) Shape {
	out := make(Shape, 0, len(s)+len(dims))
	out = append(out, s...)
	return append(out, dims...)
}

// ComputeStrides calculates row-major strides for the shape.
// Strides define memory layout: stride[i] = product of all dimensions after i.
func (s Shape) ComputeStrides() []int {
	strides := make([]int, len(s))
	if len(s) == 0 {
		return strides
	}

	strides[len(s)-1] = 1
	for i := len(s) - 2; i >= 0; i-- {
		strides[i] = strides[i+1] * s[i+1]
	}
	return strides
}

// Offset converts a multi-dimensional index into a flat row-major offset.
func (s Shape) Offset(idx ...int) (int, error) {
	if len(idx) != len(s) {
		return 0, fmt.Errorf("index %v has %d dimensions, shape %v has %d", idx, len(idx), s, len(s))
	}
	strides := s.ComputeStrides()
	off := 0
	for i, v := range idx {
		if v < 0 || v >= s[i] {
			return 0, fmt.Errorf("index %d out of range for dimension %d of size %d", v, i, s[i])
		}
		off += v * strides[i]
	}
	return off, nil
}
