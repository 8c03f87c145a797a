package autograd

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Node is a matrix value taking part in a forward pass.
type Node struct {
	value        *mat.Dense
	grad         *mat.Dense
	requiresGrad bool
	tape         *Tape
}

// Constant wraps a matrix that never receives a gradient (inputs, targets).
func Constant(value *mat.Dense) *Node {
	return &Node{value: value}
}

// Value returns the node value. Callers must not mutate it.
func (n *Node) Value() *mat.Dense {
	return n.value
}

// Grad returns the accumulated gradient, or nil if none reached this node.
func (n *Node) Grad() *mat.Dense {
	return n.grad
}

// RequiresGrad reports whether gradients flow into this node.
func (n *Node) RequiresGrad() bool {
	return n.requiresGrad
}

// Dims returns the value dimensions.
func (n *Node) Dims() (r, c int) {
	return n.value.Dims()
}

// Scalar returns the single element of a 1x1 node.
func (n *Node) Scalar() float64 {
	if r, c := n.value.Dims(); r != 1 || c != 1 {
		panic(fmt.Sprintf("autograd: Scalar on %dx%d node", r, c))
	}
	return n.value.At(0, 0)
}

// Param is a trainable leaf: a weight matrix or bias row with a persistent
// gradient buffer of the same shape.
type Param struct {
	Node
	name string
}

// NewParam creates a parameter with a zeroed gradient buffer.
func NewParam(name string, value *mat.Dense) *Param {
	r, c := value.Dims()
	return &Param{
		Node: Node{
			value:        value,
			grad:         mat.NewDense(r, c, nil),
			requiresGrad: true,
		},
		name: name,
	}
}

// Name returns the parameter name, "weight" or "bias" for Dense layers.
func (p *Param) Name() string {
	return p.name
}

// ZeroGrad resets the gradient buffer to exactly zero.
func (p *Param) ZeroGrad() {
	p.grad.Zero()
}

// Data returns the backing slice of the parameter value, row-major.
func (p *Param) Data() []float64 {
	return rawData(p.value)
}

// GradData returns the backing slice of the gradient buffer, row-major.
func (p *Param) GradData() []float64 {
	return rawData(p.grad)
}

// rawData returns the contiguous backing store of m.
// Params are always created with NewDense, so stride equals the column count.
func rawData(m *mat.Dense) []float64 {
	raw := m.RawMatrix()
	if raw.Stride != raw.Cols {
		panic("autograd: non-contiguous parameter matrix")
	}
	return raw.Data[:raw.Rows*raw.Cols]
}
