package autodiff

import "math"

// Operation represents a differentiable operation in the computation graph.
//
// Each operation records its inputs during the forward pass and reports
// the local partial derivatives d(output)/d(input_i) for the backward pass,
// either as plain numbers or as tape nodes.
type Operation interface {
	// Inputs returns the input nodes for this operation.
	Inputs() []*Var

	// Partials returns d(out)/d(input_i) for each input, evaluated at the
	// recorded forward values.
	Partials(out *Var) []float64

	// PartialVars returns the same derivatives recorded on the tape.
	// A nil entry stands for the constant 1 and lets BackwardGraph skip
	// a multiplication.
	PartialVars(t *GradientTape, out *Var) []*Var
}

// addOp: out = a + b. d/da = d/db = 1.
type addOp struct{ inputs []*Var }

func (op *addOp) Inputs() []*Var                         { return op.inputs }
func (op *addOp) Partials(*Var) []float64                { return []float64{1, 1} }
func (op *addOp) PartialVars(*GradientTape, *Var) []*Var { return []*Var{nil, nil} }

// subOp: out = a - b. d/da = 1, d/db = -1.
type subOp struct{ inputs []*Var }

func (op *subOp) Inputs() []*Var          { return op.inputs }
func (op *subOp) Partials(*Var) []float64 { return []float64{1, -1} }
func (op *subOp) PartialVars(t *GradientTape, _ *Var) []*Var {
	return []*Var{nil, t.Const(-1)}
}

// mulOp: out = a * b. d/da = b, d/db = a.
type mulOp struct{ inputs []*Var }

func (op *mulOp) Inputs() []*Var { return op.inputs }
func (op *mulOp) Partials(*Var) []float64 {
	return []float64{op.inputs[1].value, op.inputs[0].value}
}
func (op *mulOp) PartialVars(*GradientTape, *Var) []*Var {
	return []*Var{op.inputs[1], op.inputs[0]}
}

// divOp: out = a / b. d/da = 1/b, d/db = -out/b.
type divOp struct{ inputs []*Var }

func (op *divOp) Inputs() []*Var { return op.inputs }
func (op *divOp) Partials(out *Var) []float64 {
	b := op.inputs[1].value
	return []float64{1 / b, -out.value / b}
}
func (op *divOp) PartialVars(t *GradientTape, out *Var) []*Var {
	b := op.inputs[1]
	return []*Var{t.Pow(b, -1), t.Neg(t.Div(out, b))}
}

// scaleOp: out = c * a for a constant c.
type scaleOp struct {
	inputs []*Var
	c      float64
}

func (op *scaleOp) Inputs() []*Var          { return op.inputs }
func (op *scaleOp) Partials(*Var) []float64 { return []float64{op.c} }
func (op *scaleOp) PartialVars(t *GradientTape, _ *Var) []*Var {
	return []*Var{t.Const(op.c)}
}

// expOp: out = exp(a). d/da = out.
type expOp struct{ inputs []*Var }

func (op *expOp) Inputs() []*Var                               { return op.inputs }
func (op *expOp) Partials(out *Var) []float64                  { return []float64{out.value} }
func (op *expOp) PartialVars(_ *GradientTape, out *Var) []*Var { return []*Var{out} }

// logOp: out = log(a). d/da = 1/a.
type logOp struct{ inputs []*Var }

func (op *logOp) Inputs() []*Var { return op.inputs }
func (op *logOp) Partials(*Var) []float64 {
	return []float64{1 / op.inputs[0].value}
}
func (op *logOp) PartialVars(t *GradientTape, _ *Var) []*Var {
	return []*Var{t.Pow(op.inputs[0], -1)}
}

// log1pOp: out = log(1 + a). d/da = 1/(1+a).
type log1pOp struct{ inputs []*Var }

func (op *log1pOp) Inputs() []*Var { return op.inputs }
func (op *log1pOp) Partials(*Var) []float64 {
	return []float64{1 / (1 + op.inputs[0].value)}
}
func (op *log1pOp) PartialVars(t *GradientTape, _ *Var) []*Var {
	return []*Var{t.Pow(t.AddConst(op.inputs[0], 1), -1)}
}

// powOp: out = a^c for a constant c. d/da = c * a^(c-1).
type powOp struct {
	inputs []*Var
	c      float64
}

func (op *powOp) Inputs() []*Var { return op.inputs }
func (op *powOp) Partials(*Var) []float64 {
	if op.c == 0 {
		return []float64{0}
	}
	return []float64{op.c * math.Pow(op.inputs[0].value, op.c-1)}
}
func (op *powOp) PartialVars(t *GradientTape, _ *Var) []*Var {
	if op.c == 0 {
		return []*Var{t.Const(0)}
	}
	if op.c == 1 {
		return []*Var{nil}
	}
	return []*Var{t.Scale(t.Pow(op.inputs[0], op.c-1), op.c)}
}

// sqrtOp: out = sqrt(a). d/da = 0.5 / out.
type sqrtOp struct{ inputs []*Var }

func (op *sqrtOp) Inputs() []*Var { return op.inputs }
func (op *sqrtOp) Partials(out *Var) []float64 {
	return []float64{0.5 / out.value}
}
func (op *sqrtOp) PartialVars(t *GradientTape, out *Var) []*Var {
	return []*Var{t.Scale(t.Pow(out, -1), 0.5)}
}

// sigmoidOp: out = 1 / (1 + exp(-a)). d/da = out * (1 - out).
type sigmoidOp struct{ inputs []*Var }

func (op *sigmoidOp) Inputs() []*Var { return op.inputs }
func (op *sigmoidOp) Partials(out *Var) []float64 {
	s := out.value
	return []float64{s * (1 - s)}
}
func (op *sigmoidOp) PartialVars(t *GradientTape, out *Var) []*Var {
	return []*Var{t.Mul(out, t.Sub(t.Const(1), out))}
}

// sumOp: out = Σ x_i. Every partial is 1.
type sumOp struct{ inputs []*Var }

func (op *sumOp) Inputs() []*Var { return op.inputs }
func (op *sumOp) Partials(*Var) []float64 {
	p := make([]float64, len(op.inputs))
	for i := range p {
		p[i] = 1
	}
	return p
}
func (op *sumOp) PartialVars(*GradientTape, *Var) []*Var {
	return make([]*Var, len(op.inputs))
}

// dotOp: out = Σ x_i * y_i with inputs laid out as [x..., y...].
// d/dx_i = y_i, d/dy_i = x_i.
type dotOp struct {
	inputs []*Var
	n      int
}

func (op *dotOp) Inputs() []*Var { return op.inputs }
func (op *dotOp) Partials(*Var) []float64 {
	p := make([]float64, 2*op.n)
	for i := range op.n {
		p[i] = op.inputs[op.n+i].value
		p[op.n+i] = op.inputs[i].value
	}
	return p
}
func (op *dotOp) PartialVars(*GradientTape, *Var) []*Var {
	p := make([]*Var, 2*op.n)
	copy(p, op.inputs[op.n:])
	copy(p[op.n:], op.inputs[:op.n])
	return p
}
