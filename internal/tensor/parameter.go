package tensor

// Parameter represents a trainable tensor owned by the caller.
//
// Optimizers mutate the value in place and read the gradient written by
// the autodiff package. While an optimization call is running the
// optimizer has exclusive access to its parameters.
//
// Example:
//
//	beta := tensor.NewParameter("beta", tensor.Zeros(tensor.Shape{3}))
//	_, err := autodiff.Gradient(objective, []*tensor.Parameter{beta})
//	grad := beta.Grad()
type Parameter struct {
	name  string
	value *Tensor
	grad  *Tensor // Gradient tensor (written by autodiff.Gradient)
}

// NewParameter creates a new trainable parameter.
//
// The value tensor should be initialized before creating the Parameter.
// The gradient is allocated on the first gradient evaluation.
func NewParameter(name string, value *Tensor) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Tensor returns the parameter value.
func (p *Parameter) Tensor() *Tensor {
	return p.value
}

// Shape returns the shape of the parameter value.
func (p *Parameter) Shape() Shape {
	return p.value.Shape()
}

// Grad returns the gradient tensor.
//
// Returns nil if no gradient has been computed yet.
func (p *Parameter) Grad() *Tensor {
	return p.grad
}

// SetGrad sets the gradient tensor.
func (p *Parameter) SetGrad(grad *Tensor) {
	p.grad = grad
}

// ZeroGrad clears the gradient tensor.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
