package net

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
	"github.com/FlavioCFOliveira/GoTrainer/internal/dataset"
	"github.com/FlavioCFOliveira/GoTrainer/internal/loss"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Prediction is the model's answer for one example.
type Prediction struct {
	Class int
	// Probs are the class probabilities; they sum to 1.
	Probs []float64
}

// Evaluation summarizes the model on a data source.
type Evaluation struct {
	Loss     float64
	Accuracy float64
	Examples int
}

// infer runs a forward pass on a throwaway tape. Nothing is propagated
// back, so gradient buffers are untouched.
func (n *Network) infer(x *mat.Dense) *mat.Dense {
	return n.Forward(autograd.NewTape(), autograd.Constant(x)).Value()
}

// Predict returns the most likely class and the class probabilities for
// each input row. Raw scores are turned into probabilities with softmax;
// log-probabilities are exponentiated.
func (n *Network) Predict(inputs [][]float64) ([]Prediction, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrConfig, dataset.ErrEmpty)
	}
	for i, row := range inputs {
		if len(row) != n.inSize {
			return nil, fmt.Errorf("%w: example %d has %d features, model expects %d",
				ErrConfig, i, len(row), n.inSize)
		}
	}

	out := n.infer(dataset.Batch{Inputs: inputs}.Matrix())
	preds := make([]Prediction, len(inputs))
	for i := range preds {
		row := out.RawRowView(i)
		probs := make([]float64, len(row))
		if n.convention == loss.LogProbabilities {
			for j, v := range row {
				probs[j] = math.Exp(v)
			}
		} else {
			activations.Softmax(probs, row)
		}
		preds[i] = Prediction{Class: floats.MaxIdx(row), Probs: probs}
	}
	return preds, nil
}

// Evaluate computes the example-weighted mean loss and the accuracy over
// one traversal of src. Parameters and gradients are not modified.
func (n *Network) Evaluate(src dataset.Source) (Evaluation, error) {
	if err := src.Reset(); err != nil {
		return Evaluation{}, fmt.Errorf("reset source: %w", err)
	}

	var (
		total   float64
		correct int
		seen    int
	)
	for {
		b, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Evaluation{}, err
		}
		if err := n.CheckBatch(b); err != nil {
			return Evaluation{}, err
		}

		out := n.infer(b.Matrix())
		l, err := n.loss.Value(out, b.Labels)
		if err != nil {
			return Evaluation{}, fmt.Errorf("%w: %w", ErrConfig, err)
		}
		total += l * float64(b.Len())
		for i, y := range b.Labels {
			if floats.MaxIdx(out.RawRowView(i)) == y {
				correct++
			}
		}
		seen += b.Len()
	}

	if seen == 0 {
		return Evaluation{}, fmt.Errorf("%w: %w", ErrConfig, dataset.ErrEmpty)
	}
	return Evaluation{
		Loss:     total / float64(seen),
		Accuracy: float64(correct) / float64(seen),
		Examples: seen,
	}, nil
}
