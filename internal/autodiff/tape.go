// Package autodiff implements reverse-mode automatic differentiation over
// scalar nodes.
//
// Every arithmetic call on a GradientTape records a Var whose Operation
// knows the local partial derivatives with respect to its inputs. Walking
// the tape backwards with Backward yields numeric gradients. BackwardGraph
// performs the same walk but records the chain-rule arithmetic on the tape
// itself, so the resulting gradient Vars can be differentiated again. That
// second pass is what Hessian uses.
//
// Usage:
//
//	tape := autodiff.NewGradientTape()
//	x := tape.Variable(3)
//	y := tape.Mul(x, x) // y = x²
//	grads := tape.Backward(y, []*autodiff.Var{x})
//	fmt.Println(grads[0]) // dy/dx = 2x = 6
package autodiff

import (
	"fmt"
	"math"
)

// Var is a scalar node in the computation graph.
type Var struct {
	tape  *GradientTape
	id    int
	value float64
	op    Operation // nil for leaves and constants
}

// Value returns the forward value of the node.
func (v *Var) Value() float64 {
	return v.value
}

// ID returns the position of the node on its tape.
func (v *Var) ID() int {
	return v.id
}

// String implements fmt.Stringer.
func (v *Var) String() string {
	return fmt.Sprintf("Var(%d=%g)", v.id, v.value)
}

// GradientTape records nodes during the forward pass and computes
// gradients during the backward pass.
//
// Node ids increase monotonically and every input of a node has a smaller
// id than the node itself, so the tape order is a topological order.
type GradientTape struct {
	nodes []*Var
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		nodes: make([]*Var, 0, 64), // Pre-allocate for common case
	}
}

// NumOps returns the number of recorded nodes, leaves included.
func (t *GradientTape) NumOps() int {
	return len(t.nodes)
}

// Variable records a differentiable leaf.
func (t *GradientTape) Variable(v float64) *Var {
	return t.record(v, nil)
}

// Const records a leaf that callers do not differentiate with respect to.
// Constants and variables are the same kind of node; the distinction is
// which nodes a caller passes as wrt to Backward.
func (t *GradientTape) Const(v float64) *Var {
	return t.record(v, nil)
}

func (t *GradientTape) record(value float64, op Operation) *Var {
	if op != nil {
		for _, in := range op.Inputs() {
			if in.tape != t {
				panic("autodiff: operand recorded on a different tape")
			}
		}
	}
	v := &Var{tape: t, id: len(t.nodes), value: value, op: op}
	t.nodes = append(t.nodes, v)
	return v
}

// Backward computes d(out)/d(w) for every w in wrt by walking the tape in
// reverse from out.
//
// Algorithm:
//  1. Seed the adjoint of out with 1
//  2. Walk nodes from out down to the first recorded node
//  3. For each node, push adjoint * local partial into each input
//  4. Adjoints accumulate when a node feeds several consumers
func (t *GradientTape) Backward(out *Var, wrt []*Var) []float64 {
	t.checkOwned(out, wrt)

	adj := make([]float64, out.id+1)
	adj[out.id] = 1

	for i := out.id; i >= 0; i-- {
		node := t.nodes[i]
		a := adj[i]
		if node.op == nil || a == 0 {
			continue
		}
		partials := node.op.Partials(node)
		for j, in := range node.op.Inputs() {
			adj[in.id] += a * partials[j]
		}
	}

	grads := make([]float64, len(wrt))
	for k, w := range wrt {
		if w.id <= out.id {
			grads[k] = adj[w.id]
		}
	}
	return grads
}

// BackwardGraph is Backward with the chain rule recorded on the tape.
// The returned Vars hold the same values Backward would return and can be
// passed to Backward again to obtain second derivatives.
func (t *GradientTape) BackwardGraph(out *Var, wrt []*Var) []*Var {
	t.checkOwned(out, wrt)

	adj := make([]*Var, out.id+1)
	adj[out.id] = t.Const(1)

	for i := out.id; i >= 0; i-- {
		node := t.nodes[i]
		a := adj[i]
		if node.op == nil || a == nil {
			continue
		}
		partials := node.op.PartialVars(t, node)
		for j, in := range node.op.Inputs() {
			contrib := a
			if partials[j] != nil {
				contrib = t.Mul(a, partials[j])
			}
			if adj[in.id] == nil {
				adj[in.id] = contrib
			} else {
				adj[in.id] = t.Add(adj[in.id], contrib)
			}
		}
	}

	grads := make([]*Var, len(wrt))
	for k, w := range wrt {
		if w.id <= out.id && adj[w.id] != nil {
			grads[k] = adj[w.id]
		} else {
			grads[k] = t.Const(0)
		}
	}
	return grads
}

func (t *GradientTape) checkOwned(out *Var, wrt []*Var) {
	if out == nil || out.tape != t {
		panic("autodiff: output not recorded on this tape")
	}
	for _, w := range wrt {
		if w.tape != t {
			panic("autodiff: wrt variable not recorded on this tape")
		}
	}
}

// IsFinite reports whether v holds a finite value.
func IsFinite(v *Var) bool {
	return !math.IsNaN(v.value) && !math.IsInf(v.value, 0)
}
