// Package net provides core neural network types and the training loop.
package net

import (
	"errors"
	"fmt"
	"math"

	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
	"github.com/FlavioCFOliveira/GoTrainer/internal/dataset"
	"github.com/FlavioCFOliveira/GoTrainer/internal/layer"
	"github.com/FlavioCFOliveira/GoTrainer/internal/loss"
	"github.com/FlavioCFOliveira/GoTrainer/internal/metrics"
	"github.com/FlavioCFOliveira/GoTrainer/internal/opt"
)

var (
	// ErrConfig marks fatal configuration errors: shape mismatches, invalid
	// labels, bad epoch counts, incompatible model and loss. Not retryable.
	ErrConfig = errors.New("configuration error")

	// ErrNumerical marks a non-finite loss. The run is aborted.
	ErrNumerical = errors.New("numerical error")
)

// Network is an ordered stack of layers trained with a loss and an optimizer.
// It is not safe for concurrent use.
type Network struct {
	layers []layer.Layer
	loss   loss.Loss
	opt    opt.Optimizer

	params     []*autograd.Param
	inSize     int
	outSize    int
	convention loss.Convention

	lastEpoch metrics.Snapshot
}

// New creates a network and checks that the layer widths chain and that
// the loss expects what the last layer produces.
func New(layers []layer.Layer, lossFn loss.Loss, optimizer opt.Optimizer) (*Network, error) {
	if len(layers) == 0 {
		return nil, fmt.Errorf("%w: network has no layers", ErrConfig)
	}
	if lossFn == nil || optimizer == nil {
		return nil, fmt.Errorf("%w: loss and optimizer are required", ErrConfig)
	}

	n := &Network{
		layers:     layers,
		loss:       lossFn,
		opt:        optimizer,
		convention: outputConvention(layers),
	}

	var prev layer.Sized
	for i, l := range layers {
		n.params = append(n.params, l.Params()...)
		sized, ok := l.(layer.Sized)
		if !ok {
			continue
		}
		if prev == nil {
			n.inSize = sized.InSize()
		} else if prev.OutSize() != sized.InSize() {
			return nil, fmt.Errorf("%w: layer %d expects %d inputs, previous layer produces %d",
				ErrConfig, i, sized.InSize(), prev.OutSize())
		}
		prev = sized
	}
	if prev == nil {
		return nil, fmt.Errorf("%w: network has no sized layer", ErrConfig)
	}
	n.outSize = prev.OutSize()

	if lossFn.Convention() != n.convention {
		return nil, fmt.Errorf("%w: %s expects %s but the model produces %s",
			ErrConfig, loss.Name(lossFn), lossFn.Convention(), n.convention)
	}
	return n, nil
}

func outputConvention(layers []layer.Layer) loss.Convention {
	if _, ok := layers[len(layers)-1].(*layer.LogSoftmax); ok {
		return loss.LogProbabilities
	}
	return loss.RawScores
}

// InSize returns the expected feature width.
func (n *Network) InSize() int {
	return n.inSize
}

// NumClasses returns the width of the output layer.
func (n *Network) NumClasses() int {
	return n.outSize
}

// OutputConvention reports whether the model emits raw scores or log-probabilities.
func (n *Network) OutputConvention() loss.Convention {
	return n.convention
}

// Layers returns the network's layers slice.
func (n *Network) Layers() []layer.Layer {
	return n.layers
}

// Params returns every trainable parameter in layer order.
func (n *Network) Params() []*autograd.Param {
	return n.params
}

// Loss returns the loss function.
func (n *Network) Loss() loss.Loss {
	return n.loss
}

// Optimizer returns the parameter updater.
func (n *Network) Optimizer() opt.Optimizer {
	return n.opt
}

// LastEpoch returns the statistics of the most recently completed epoch.
func (n *Network) LastEpoch() metrics.Snapshot {
	return n.lastEpoch
}

// ZeroGrad clears every parameter gradient buffer.
func (n *Network) ZeroGrad() {
	n.opt.ZeroGrad(n.params)
}

// Forward performs a forward pass through all layers, recording on tape.
func (n *Network) Forward(tape *autograd.Tape, x *autograd.Node) *autograd.Node {
	curr := x
	for _, l := range n.layers {
		curr = l.Forward(tape, curr)
	}
	return curr
}

// CheckBatch validates a batch against the model input width and class count.
func (n *Network) CheckBatch(b dataset.Batch) error {
	if b.Len() == 0 {
		return fmt.Errorf("%w: %w", ErrConfig, dataset.ErrEmpty)
	}
	if len(b.Labels) != len(b.Inputs) {
		return fmt.Errorf("%w: %d inputs but %d labels", ErrConfig, len(b.Inputs), len(b.Labels))
	}
	for i, row := range b.Inputs {
		if len(row) != n.inSize {
			return fmt.Errorf("%w: example %d has %d features, model expects %d",
				ErrConfig, i, len(row), n.inSize)
		}
		if y := b.Labels[i]; y < 0 || y >= n.outSize {
			return fmt.Errorf("%w: example %d has label %d, want [0,%d)", ErrConfig, i, y, n.outSize)
		}
	}
	return nil
}

// StepResult is the observable outcome of one training step.
type StepResult struct {
	Loss float64
}

// TrainStep performs one optimization step on a batch:
//
//  1. clear gradient buffers
//  2. forward pass on a fresh tape
//  3. loss
//  4. backward pass
//  5. parameter update
//
// Parameters are updated in place and the gradient buffers keep this
// step's gradients until the next ZeroGrad. Invalid batches are rejected
// with ErrConfig before anything is mutated; a non-finite loss returns
// ErrNumerical before backward and update run.
func (n *Network) TrainStep(b dataset.Batch) (StepResult, error) {
	if err := n.CheckBatch(b); err != nil {
		return StepResult{}, err
	}

	n.ZeroGrad()

	tape := autograd.NewTape()
	outputs := n.Forward(tape, autograd.Constant(b.Matrix()))

	lossNode, err := n.loss.Forward(tape, outputs, b.Labels)
	if err != nil {
		return StepResult{}, fmt.Errorf("%w: %w", ErrConfig, err)
	}
	l := lossNode.Scalar()
	if math.IsNaN(l) || math.IsInf(l, 0) {
		return StepResult{Loss: l}, fmt.Errorf("%w: loss is %v", ErrNumerical, l)
	}

	if err := tape.Backward(lossNode); err != nil {
		return StepResult{Loss: l}, err
	}

	n.opt.Step(n.params)
	return StepResult{Loss: l}, nil
}
