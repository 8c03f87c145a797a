// Package layer provides neural network layer implementations.
package layer

import (
	"math"
	"math/rand"

	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
	"gonum.org/v1/gonum/mat"
)

// Layer is a neural network layer.
// Forward records its operations on tape and returns the output node.
type Layer interface {
	Forward(tape *autograd.Tape, x *autograd.Node) *autograd.Node
	Params() []*autograd.Param
}

// Sized is implemented by layers with fixed input and output widths.
// Shape-preserving layers (activations, LogSoftmax) do not implement it.
type Sized interface {
	InSize() int
	OutSize() int
}

// Dense is a fully connected linear layer: y = x · Wᵀ + b.
type Dense struct {
	// Shape: [out, in]; weight for output i, input j is at (i, j)
	weights *autograd.Param
	// Shape: [1, out]
	biases  *autograd.Param
	outSize int
	inSize  int
}

// NewDense creates a dense layer initialised from rng.
// Weights use Xavier/Glorot uniform initialization, biases U(-0.1, 0.1).
// The same rng state always produces the same layer.
func NewDense(in, out int, rng *rand.Rand) *Dense {
	weights := make([]float64, out*in)
	biases := make([]float64, out)

	scale := math.Sqrt(2.0 / (float64(in) + float64(out)))
	for i := range weights {
		weights[i] = rng.Float64()*2*scale - scale
	}
	for i := range biases {
		biases[i] = rng.Float64()*0.2 - 0.1
	}

	return &Dense{
		weights: autograd.NewParam("weight", mat.NewDense(out, in, weights)),
		biases:  autograd.NewParam("bias", mat.NewDense(1, out, biases)),
		outSize: out,
		inSize:  in,
	}
}

// Forward records x · Wᵀ + b on the tape.
func (d *Dense) Forward(tape *autograd.Tape, x *autograd.Node) *autograd.Node {
	return tape.AddRow(tape.MatMulT(x, &d.weights.Node), &d.biases.Node)
}

// Params returns the weight matrix and the bias row, in that order.
func (d *Dense) Params() []*autograd.Param {
	return []*autograd.Param{d.weights, d.biases}
}

// GetWeights returns the weight parameter.
func (d *Dense) GetWeights() *autograd.Param {
	return d.weights
}

// GetBiases returns the bias parameter.
func (d *Dense) GetBiases() *autograd.Param {
	return d.biases
}

// SetWeight sets a single weight at (row, col).
func (d *Dense) SetWeight(row, col int, val float64) {
	d.weights.Value().Set(row, col, val)
}

// SetBias sets a single bias.
func (d *Dense) SetBias(idx int, val float64) {
	d.biases.Value().Set(0, idx, val)
}

// GetWeight gets a single weight at (row, col).
func (d *Dense) GetWeight(row, col int) float64 {
	return d.weights.Value().At(row, col)
}

// GetBias gets a single bias.
func (d *Dense) GetBias(idx int) float64 {
	return d.biases.Value().At(0, idx)
}

// InSize returns the input size of the layer.
func (d *Dense) InSize() int {
	return d.inSize
}

// OutSize returns the output size of the layer.
func (d *Dense) OutSize() int {
	return d.outSize
}
