// Package autograd provides reverse-mode automatic differentiation over
// gonum matrices.
//
// A Tape records every differentiable operation of one forward pass.
// Tape.Backward walks the records in reverse and applies the chain rule,
// leaving d(loss)/d(param) in each Param's gradient buffer. A tape is
// replayed at most once; build a new one for every training step.
//
// Gradient buffers ACCUMULATE: Backward adds onto whatever a Param already
// holds. Callers must clear them (Param.ZeroGrad or opt.Optimizer.ZeroGrad)
// before each backward pass, otherwise gradients from earlier steps leak
// into the update.
//
// Example:
//
//	tape := autograd.NewTape()
//	x := autograd.Constant(inputs)
//	h := tape.AddRow(tape.MatMulT(x, &w.Node), &b.Node)
//	loss := tape.NLL(tape.LogSoftmax(h), labels)
//	if err := tape.Backward(loss); err != nil { ... }
//	grad := w.Grad()
package autograd

import (
	"errors"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrTapeConsumed is returned when Backward is called twice on one tape.
	ErrTapeConsumed = errors.New("autograd: tape already replayed")

	// ErrNotScalar is returned when Backward is seeded from a non 1x1 node.
	ErrNotScalar = errors.New("autograd: backward requires a 1x1 node")

	// ErrForeignNode is returned when the seed node was recorded on another tape.
	ErrForeignNode = errors.New("autograd: node was not recorded on this tape")
)

// record is one differentiable operation: its output node and the closure
// that pushes the output gradient onto the operation inputs.
type record struct {
	out      *Node
	backward func(g *mat.Dense)
}

// Tape records operations of a single forward pass.
type Tape struct {
	records  []record
	consumed bool
}

// NewTape creates an empty tape.
func NewTape() *Tape {
	return &Tape{}
}

// Len returns the number of recorded operations.
func (t *Tape) Len() int {
	return len(t.records)
}

// Consumed reports whether Backward has already run.
func (t *Tape) Consumed() bool {
	return t.consumed
}

// node creates an output node owned by t. It tracks gradients if any input does.
func (t *Tape) node(value *mat.Dense, inputs ...*Node) *Node {
	n := &Node{value: value, tape: t}
	for _, in := range inputs {
		if in.requiresGrad {
			n.requiresGrad = true
			break
		}
	}
	return n
}

// push records an operation; operations without a gradient path are skipped.
func (t *Tape) push(out *Node, backward func(g *mat.Dense)) {
	if t.consumed {
		panic("autograd: recording on a consumed tape")
	}
	if !out.requiresGrad {
		return
	}
	t.records = append(t.records, record{out: out, backward: backward})
}

// Backward computes d(loss)/d(node) for every node on the path to loss.
// Intermediate gradients live only as long as the tape; Param gradients
// are added onto the existing buffers.
func (t *Tape) Backward(loss *Node) error {
	if t.consumed {
		return ErrTapeConsumed
	}
	if r, c := loss.value.Dims(); r != 1 || c != 1 {
		return ErrNotScalar
	}
	if loss.tape != t && loss.tape != nil {
		return ErrForeignNode
	}
	t.consumed = true
	defer func() { t.records = nil }()

	if !loss.requiresGrad {
		return nil
	}
	accumulate(loss, mat.NewDense(1, 1, []float64{1}))

	// Records are in creation order, so every consumer of a node is
	// visited before the node itself.
	for i := len(t.records) - 1; i >= 0; i-- {
		rec := t.records[i]
		if rec.out.grad == nil {
			continue
		}
		rec.backward(rec.out.grad)
	}
	return nil
}

// accumulate adds g onto n's gradient, allocating it on first use.
func accumulate(n *Node, g mat.Matrix) {
	if !n.requiresGrad {
		return
	}
	if n.grad == nil {
		n.grad = mat.DenseCopyOf(g)
		return
	}
	n.grad.Add(n.grad, g)
}
