package autodiff

import (
	"github.com/born-ml/convoys/internal/tensor"
)

// Vector is a shaped collection of tape nodes, usually the leaves created
// for one Parameter.
type Vector struct {
	shape tensor.Shape
	elems []*Var
}

// Watch records one leaf per element of p's value, in row-major order.
func (t *GradientTape) Watch(p *tensor.Parameter) *Vector {
	return t.Leaves(p.Tensor())
}

// Leaves records one leaf per element of x, in row-major order.
func (t *GradientTape) Leaves(x *tensor.Tensor) *Vector {
	data := x.Data()
	elems := make([]*Var, len(data))
	for i, v := range data {
		elems[i] = t.Variable(v)
	}
	return &Vector{shape: x.Shape().Clone(), elems: elems}
}

// Consts records constants for a plain slice, as a 1-dimensional Vector.
func (t *GradientTape) Consts(values []float64) *Vector {
	elems := make([]*Var, len(values))
	for i, v := range values {
		elems[i] = t.Const(v)
	}
	return &Vector{shape: tensor.Shape{len(values)}, elems: elems}
}

// Shape returns the shape of the underlying tensor.
func (v *Vector) Shape() tensor.Shape {
	return v.shape
}

// Len returns the number of elements.
func (v *Vector) Len() int {
	return len(v.elems)
}

// At returns the element at a flat row-major offset.
func (v *Vector) At(i int) *Var {
	return v.elems[i]
}

// Index returns the element at a multi-dimensional index.
func (v *Vector) Index(idx ...int) *Var {
	off, err := v.shape.Offset(idx...)
	if err != nil {
		panic(err)
	}
	return v.elems[off]
}

// Elems returns the elements in row-major order.
func (v *Vector) Elems() []*Var {
	return v.elems
}

// Values returns the forward values of the elements.
func (v *Vector) Values() []float64 {
	out := make([]float64, len(v.elems))
	for i, e := range v.elems {
		out[i] = e.value
	}
	return out
}
