package autodiff

import "math"

// Add records a + b.
func (t *GradientTape) Add(a, b *Var) *Var {
	return t.record(a.value+b.value, &addOp{inputs: []*Var{a, b}})
}

// AddConst records a + c for a constant c.
func (t *GradientTape) AddConst(a *Var, c float64) *Var {
	return t.Add(a, t.Const(c))
}

// Sub records a - b.
func (t *GradientTape) Sub(a, b *Var) *Var {
	return t.record(a.value-b.value, &subOp{inputs: []*Var{a, b}})
}

// Mul records a * b.
func (t *GradientTape) Mul(a, b *Var) *Var {
	return t.record(a.value*b.value, &mulOp{inputs: []*Var{a, b}})
}

// Div records a / b.
func (t *GradientTape) Div(a, b *Var) *Var {
	return t.record(a.value/b.value, &divOp{inputs: []*Var{a, b}})
}

// Scale records c * a for a constant c.
func (t *GradientTape) Scale(a *Var, c float64) *Var {
	return t.record(c*a.value, &scaleOp{inputs: []*Var{a}, c: c})
}

// Neg records -a.
func (t *GradientTape) Neg(a *Var) *Var {
	return t.Scale(a, -1)
}

// Square records a².
func (t *GradientTape) Square(a *Var) *Var {
	return t.Mul(a, a)
}

// Exp records exp(a).
func (t *GradientTape) Exp(a *Var) *Var {
	return t.record(math.Exp(a.value), &expOp{inputs: []*Var{a}})
}

// Log records log(a).
func (t *GradientTape) Log(a *Var) *Var {
	return t.record(math.Log(a.value), &logOp{inputs: []*Var{a}})
}

// Log1p records log(1 + a), accurate for small a.
func (t *GradientTape) Log1p(a *Var) *Var {
	return t.record(math.Log1p(a.value), &log1pOp{inputs: []*Var{a}})
}

// Pow records a^c for a constant exponent c.
func (t *GradientTape) Pow(a *Var, c float64) *Var {
	return t.record(math.Pow(a.value, c), &powOp{inputs: []*Var{a}, c: c})
}

// Sqrt records sqrt(a).
func (t *GradientTape) Sqrt(a *Var) *Var {
	return t.record(math.Sqrt(a.value), &sqrtOp{inputs: []*Var{a}})
}

// Sigmoid records the logistic function 1 / (1 + exp(-a)).
func (t *GradientTape) Sigmoid(a *Var) *Var {
	var s float64
	if a.value >= 0 {
		s = 1 / (1 + math.Exp(-a.value))
	} else {
		e := math.Exp(a.value)
		s = e / (1 + e)
	}
	return t.record(s, &sigmoidOp{inputs: []*Var{a}})
}

// Sum records Σ xs. An empty sum is the constant 0.
func (t *GradientTape) Sum(xs ...*Var) *Var {
	if len(xs) == 0 {
		return t.Const(0)
	}
	var s float64
	for _, x := range xs {
		s += x.value
	}
	inputs := make([]*Var, len(xs))
	copy(inputs, xs)
	return t.record(s, &sumOp{inputs: inputs})
}

// Dot records Σ xs[i] * ys[i]. It panics if the lengths differ.
func (t *GradientTape) Dot(xs, ys []*Var) *Var {
	if len(xs) != len(ys) {
		panic("autodiff: Dot of vectors with different lengths")
	}
	if len(xs) == 0 {
		return t.Const(0)
	}
	var s float64
	inputs := make([]*Var, 0, 2*len(xs))
	inputs = append(inputs, xs...)
	inputs = append(inputs, ys...)
	for i := range xs {
		s += xs[i].value * ys[i].value
	}
	return t.record(s, &dotOp{inputs: inputs, n: len(xs)})
}
