// Package layer provides unit tests for neural network layers.
package layer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
	"gonum.org/v1/gonum/mat"
)

// identityDense builds a 2->2 layer with identity weights and zero biases.
func identityDense() *Dense {
	d := NewDense(2, 2, rand.New(rand.NewSource(1)))
	d.SetWeight(0, 0, 1.0)
	d.SetWeight(0, 1, 0.0)
	d.SetWeight(1, 0, 0.0)
	d.SetWeight(1, 1, 1.0)
	d.SetBias(0, 0.0)
	d.SetBias(1, 0.0)
	return d
}

func TestDenseForward(t *testing.T) {
	d := identityDense()
	act := NewActivation(activations.Tanh{})

	tape := autograd.NewTape()
	x := autograd.Constant(mat.NewDense(1, 2, []float64{1.0, 2.0}))
	out := act.Forward(tape, d.Forward(tape, x)).Value()

	// With identity weights and zero biases, output is tanh(input)
	if math.Abs(out.At(0, 0)-math.Tanh(1.0)) > 1e-12 {
		t.Errorf("output[0] = %v, want %v", out.At(0, 0), math.Tanh(1.0))
	}
	if math.Abs(out.At(0, 1)-math.Tanh(2.0)) > 1e-12 {
		t.Errorf("output[1] = %v, want %v", out.At(0, 1), math.Tanh(2.0))
	}
}

func TestDenseForwardBatch(t *testing.T) {
	d := NewDense(3, 2, rand.New(rand.NewSource(5)))
	x := mat.NewDense(2, 3, []float64{1, 0, 0, 0, 1, 0})

	out := d.Forward(autograd.NewTape(), autograd.Constant(x)).Value()
	rows, cols := out.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("output dims = %dx%d, want 2x2", rows, cols)
	}
	// Row 0 selects input column 0: out[0][o] = W[o][0] + b[o]
	for o := 0; o < 2; o++ {
		want := d.GetWeight(o, 0) + d.GetBias(o)
		if math.Abs(out.At(0, o)-want) > 1e-12 {
			t.Errorf("out[0][%d] = %v, want %v", o, out.At(0, o), want)
		}
	}
}

// TestDenseBackward checks dL/dW = gᵀ·x and dL/db = Σ g for a single sample.
func TestDenseBackward(t *testing.T) {
	d := identityDense()

	tape := autograd.NewTape()
	x := autograd.Constant(mat.NewDense(1, 2, []float64{1.0, 2.0}))
	loss := tape.NLL(tape.LogSoftmax(d.Forward(tape, x)), []int{1})
	if err := tape.Backward(loss); err != nil {
		t.Fatal(err)
	}

	// dL/dz = softmax(z) - onehot(1)
	p := activations.Softmax(make([]float64, 2), []float64{1, 2})
	dz := []float64{p[0], p[1] - 1}
	for o := 0; o < 2; o++ {
		if got := d.GetBiases().Grad().At(0, o); math.Abs(got-dz[o]) > 1e-12 {
			t.Errorf("bias grad[%d] = %v, want %v", o, got, dz[o])
		}
		for i, xi := range []float64{1, 2} {
			if got := d.GetWeights().Grad().At(o, i); math.Abs(got-dz[o]*xi) > 1e-12 {
				t.Errorf("weight grad[%d][%d] = %v, want %v", o, i, got, dz[o]*xi)
			}
		}
	}
}

func TestDenseDeterministicInit(t *testing.T) {
	a := NewDense(4, 3, rand.New(rand.NewSource(42)))
	b := NewDense(4, 3, rand.New(rand.NewSource(42)))
	if !mat.Equal(a.GetWeights().Value(), b.GetWeights().Value()) {
		t.Error("same seed produced different weights")
	}
	if !mat.Equal(a.GetBiases().Value(), b.GetBiases().Value()) {
		t.Error("same seed produced different biases")
	}

	scale := math.Sqrt(2.0 / 7.0)
	for _, w := range a.GetWeights().Data() {
		if math.Abs(w) > scale {
			t.Errorf("weight %v outside Xavier range ±%v", w, scale)
		}
	}
}

func TestDenseParams(t *testing.T) {
	d := NewDense(4, 3, rand.New(rand.NewSource(1)))
	params := d.Params()
	if len(params) != 2 {
		t.Fatalf("len(Params()) = %d, want 2", len(params))
	}
	if r, c := params[0].Dims(); r != 3 || c != 4 {
		t.Errorf("weight dims = %dx%d, want 3x4", r, c)
	}
	if r, c := params[1].Dims(); r != 1 || c != 3 {
		t.Errorf("bias dims = %dx%d, want 1x3", r, c)
	}
	if d.InSize() != 4 || d.OutSize() != 3 {
		t.Errorf("sizes = %d->%d, want 4->3", d.InSize(), d.OutSize())
	}
}

func TestShapePreservingLayersHaveNoParams(t *testing.T) {
	for _, l := range []Layer{NewActivation(activations.ReLU{}), NewLogSoftmax()} {
		if len(l.Params()) != 0 {
			t.Errorf("%T has %d params, want 0", l, len(l.Params()))
		}
		if _, ok := l.(Sized); ok {
			t.Errorf("%T should not implement Sized", l)
		}
	}
}
