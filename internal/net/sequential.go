package net

import (
	"fmt"
	"io"
	"math/rand"
	"reflect"
	"strings"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"github.com/FlavioCFOliveira/GoTrainer/internal/layer"
	"github.com/FlavioCFOliveira/GoTrainer/internal/loss"
	"github.com/FlavioCFOliveira/GoTrainer/internal/opt"
)

// Sequential is a high-level wrapper around Network to provide a Keras-like API.
// The embedded Network is nil until Compile succeeds.
type Sequential struct {
	*Network
	layers []layer.Layer
}

// NewSequential creates a new Sequential model.
func NewSequential(layers ...layer.Layer) *Sequential {
	return &Sequential{layers: layers}
}

// Compile configures the model for training.
func (s *Sequential) Compile(optimizer opt.Optimizer, lossFn loss.Loss) error {
	n, err := New(s.layers, lossFn, optimizer)
	if err != nil {
		return err
	}
	s.Network = n
	return nil
}

// Compiled reports whether Compile has succeeded.
func (s *Sequential) Compiled() bool {
	return s.Network != nil
}

// Summary writes a summary of the network architecture to w.
func (s *Sequential) Summary(w io.Writer) {
	rule := strings.Repeat("_", 65)
	fmt.Fprintln(w, "Model: Sequential")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-25s %-20s %-10s\n", "Layer (type)", "Output Shape", "Param #")
	fmt.Fprintln(w, strings.Repeat("=", 65))

	totalParams := 0
	width := 0
	for i, l := range s.layers {
		lType := reflect.TypeOf(l).String()
		if j := strings.LastIndexByte(lType, '.'); j >= 0 {
			lType = lType[j+1:]
		}
		if sized, ok := l.(layer.Sized); ok {
			width = sized.OutSize()
		}

		params := 0
		for _, p := range l.Params() {
			r, c := p.Dims()
			params += r * c
		}
		totalParams += params

		fmt.Fprintf(w, "%-25s %-20s %-10d\n", fmt.Sprintf("%s_%d", lType, i), fmt.Sprintf("(%d)", width), params)
	}
	fmt.Fprintln(w, strings.Repeat("=", 65))
	fmt.Fprintf(w, "Total params: %d\n", totalParams)
	fmt.Fprintln(w, rule)
}

// MLP builds a multi-layer perceptron: one Dense layer per hidden width,
// each followed by act, then a Dense output layer of width classes.
// With logSoftmax set a LogSoftmax layer is appended, making the model
// produce log-probabilities for NLLLoss; otherwise it produces raw
// scores for CrossEntropy.
func MLP(in int, hidden []int, classes int, act activations.Activation, logSoftmax bool, rng *rand.Rand) []layer.Layer {
	var layers []layer.Layer
	width := in
	for _, h := range hidden {
		layers = append(layers, layer.NewDense(width, h, rng), layer.NewActivation(act))
		width = h
	}
	layers = append(layers, layer.NewDense(width, classes, rng))
	if logSoftmax {
		layers = append(layers, layer.NewLogSoftmax())
	}
	return layers
}
