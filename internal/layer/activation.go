package layer

import (
	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
)

// Activation applies a fixed element-wise non-linearity. It has no parameters.
type Activation struct {
	act activations.Activation
}

// NewActivation wraps act as a layer.
func NewActivation(act activations.Activation) *Activation {
	return &Activation{act: act}
}

func (a *Activation) Forward(tape *autograd.Tape, x *autograd.Node) *autograd.Node {
	return tape.Apply(x, a.act)
}

func (a *Activation) Params() []*autograd.Param { return nil }

// Func returns the wrapped activation function.
func (a *Activation) Func() activations.Activation {
	return a.act
}

// LogSoftmax normalises raw scores into per-class log-probabilities.
// A model ending in LogSoftmax pairs with loss.NLLLoss.
type LogSoftmax struct{}

// NewLogSoftmax creates a log-softmax output layer.
func NewLogSoftmax() *LogSoftmax {
	return &LogSoftmax{}
}

func (l *LogSoftmax) Forward(tape *autograd.Tape, x *autograd.Node) *autograd.Node {
	return tape.LogSoftmax(x)
}

func (l *LogSoftmax) Params() []*autograd.Param { return nil }
