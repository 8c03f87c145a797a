// Package loss provides classification losses over class-index labels.
//
// Both losses compute the mean over the batch of -log softmax(scores)[label].
// They differ only in what the model hands them: CrossEntropy takes raw
// scores and normalises internally, NLLLoss takes log-probabilities from a
// model ending in a LogSoftmax layer. For the same scores they agree to
// floating-point tolerance.
package loss

import (
	"errors"
	"fmt"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShape is returned when outputs and labels disagree in length.
	ErrShape = errors.New("loss: outputs and labels have different lengths")

	// ErrLabel is returned for a label outside [0, numClasses).
	ErrLabel = errors.New("loss: label out of range")
)

// Convention is the kind of model output a loss expects.
type Convention int

const (
	// RawScores are unnormalised per-class scores (logits).
	RawScores Convention = iota
	// LogProbabilities are log-softmax normalised scores.
	LogProbabilities
)

func (c Convention) String() string {
	switch c {
	case RawScores:
		return "raw-scores"
	case LogProbabilities:
		return "log-probabilities"
	default:
		return fmt.Sprintf("Convention(%d)", int(c))
	}
}

// Loss reduces a batch of model outputs and labels to a scalar.
type Loss interface {
	// Convention reports which model outputs the loss expects.
	Convention() Convention

	// Forward records the loss on tape and returns the 1x1 loss node.
	Forward(tape *autograd.Tape, outputs *autograd.Node, labels []int) (*autograd.Node, error)

	// Value computes the loss without recording anything.
	Value(outputs *mat.Dense, labels []int) (float64, error)
}

// For returns the loss matching a model output convention.
func For(c Convention) Loss {
	if c == LogProbabilities {
		return NLLLoss{}
	}
	return CrossEntropy{}
}

// CheckLabels validates labels against an output matrix.
func CheckLabels(outputs mat.Matrix, labels []int) error {
	rows, cols := outputs.Dims()
	if rows != len(labels) {
		return fmt.Errorf("%w: %d rows, %d labels", ErrShape, rows, len(labels))
	}
	for i, y := range labels {
		if y < 0 || y >= cols {
			return fmt.Errorf("%w: labels[%d] = %d, want [0,%d)", ErrLabel, i, y, cols)
		}
	}
	return nil
}

// CrossEntropy loss over raw scores.
// PyTorch reference: torch.nn.CrossEntropyLoss(reduction='mean')
type CrossEntropy struct{}

func (c CrossEntropy) Convention() Convention { return RawScores }

// Forward records log-softmax followed by NLL.
func (c CrossEntropy) Forward(tape *autograd.Tape, outputs *autograd.Node, labels []int) (*autograd.Node, error) {
	if err := CheckLabels(outputs.Value(), labels); err != nil {
		return nil, err
	}
	return tape.NLL(tape.LogSoftmax(outputs), labels), nil
}

// Value computes mean(-log softmax(scores)[label]) with max-shifted rows.
func (c CrossEntropy) Value(outputs *mat.Dense, labels []int) (float64, error) {
	if err := CheckLabels(outputs, labels); err != nil {
		return 0, err
	}
	_, cols := outputs.Dims()
	row := make([]float64, cols)
	var sum float64
	for i, y := range labels {
		activations.LogSoftmax(row, outputs.RawRowView(i))
		sum -= row[y]
	}
	return sum / float64(len(labels)), nil
}

// NLLLoss (Negative Log Likelihood) loss over log-probabilities.
// PyTorch reference: torch.nn.NLLLoss(reduction='mean')
type NLLLoss struct{}

func (n NLLLoss) Convention() Convention { return LogProbabilities }

// Forward records the negative log-likelihood of the labels.
func (n NLLLoss) Forward(tape *autograd.Tape, outputs *autograd.Node, labels []int) (*autograd.Node, error) {
	if err := CheckLabels(outputs.Value(), labels); err != nil {
		return nil, err
	}
	return tape.NLL(outputs, labels), nil
}

// Value computes mean(-logp[label]).
func (n NLLLoss) Value(outputs *mat.Dense, labels []int) (float64, error) {
	if err := CheckLabels(outputs, labels); err != nil {
		return 0, err
	}
	var sum float64
	for i, y := range labels {
		sum -= outputs.At(i, y)
	}
	return sum / float64(len(labels)), nil
}

// Name returns the configuration name of a known loss.
func Name(l Loss) string {
	switch l.(type) {
	case CrossEntropy:
		return "CrossEntropy"
	case NLLLoss:
		return "NLLLoss"
	default:
		return fmt.Sprintf("%T", l)
	}
}
