// Package activations provides unit tests for activation functions.
package activations

import (
	"math"
	"testing"
)

// TestReLU tests ReLU activation and derivative.
func TestReLU(t *testing.T) {
	relu := ReLU{}

	tests := []struct {
		input, want, deriv float64
	}{
		{-1.0, 0.0, 0.0},
		{0.0, 0.0, 0.0}, // derivative at zero is 0 (x must be > 0)
		{1.0, 1.0, 1.0},
		{2.5, 2.5, 1.0},
	}

	for _, tt := range tests {
		if got := relu.Activate(tt.input); got != tt.want {
			t.Errorf("ReLU(%v) = %v, want %v", tt.input, got, tt.want)
		}
		if got := relu.Derivative(tt.input); got != tt.deriv {
			t.Errorf("ReLU.Derivative(%v) = %v, want %v", tt.input, got, tt.deriv)
		}
	}
}

// TestSigmoid tests Sigmoid activation and derivative.
func TestSigmoid(t *testing.T) {
	s := Sigmoid{}

	if got := s.Activate(0); got != 0.5 {
		t.Errorf("Sigmoid(0) = %v, want 0.5", got)
	}
	if got := s.Derivative(0); got != 0.25 {
		t.Errorf("Sigmoid.Derivative(0) = %v, want 0.25", got)
	}
	if got := s.Activate(math.Inf(1)); got != 1 {
		t.Errorf("Sigmoid(+inf) = %v, want 1", got)
	}
	if got := s.Activate(math.Inf(-1)); got != 0 {
		t.Errorf("Sigmoid(-inf) = %v, want 0", got)
	}
}

func TestTanhDerivative(t *testing.T) {
	th := Tanh{}
	for _, x := range []float64{-2, -0.5, 0, 0.5, 2} {
		want := 1 - math.Tanh(x)*math.Tanh(x)
		if got := th.Derivative(x); math.Abs(got-want) > 1e-12 {
			t.Errorf("Tanh.Derivative(%v) = %v, want %v", x, got, want)
		}
	}
}

func TestLeakyReLU(t *testing.T) {
	l := NewLeakyReLU(0.01)
	if got := l.Activate(-2); math.Abs(got+0.02) > 1e-12 {
		t.Errorf("LeakyReLU(-2) = %v, want -0.02", got)
	}
	if got := l.Derivative(-2); got != 0.01 {
		t.Errorf("LeakyReLU.Derivative(-2) = %v, want 0.01", got)
	}
	if got := l.Derivative(3); got != 1 {
		t.Errorf("LeakyReLU.Derivative(3) = %v, want 1", got)
	}
}

func TestByNameRoundTrip(t *testing.T) {
	for _, name := range []string{"relu", "sigmoid", "tanh", "leaky_relu", "linear"} {
		act, err := ByName(name)
		if err != nil {
			t.Fatalf("ByName(%q): %v", name, err)
		}
		if got := Name(act); got != name {
			t.Errorf("Name(ByName(%q)) = %q", name, got)
		}
	}
	if _, err := ByName("swish"); err == nil {
		t.Error("expected error for unknown activation")
	}
}

// TestLogSoftmaxAgainstPyTorchReference validates log-softmax values.
// torch.nn.functional.log_softmax(torch.tensor([1., 2., 3.]), dim=0)
func TestLogSoftmaxAgainstPyTorchReference(t *testing.T) {
	x := []float64{1, 2, 3}
	want := []float64{-2.4076059644, -1.4076059644, -0.4076059644}

	got := LogSoftmax(make([]float64, 3), x)
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("LogSoftmax[%d] = %v, PyTorch would give %v", i, got[i], want[i])
		}
	}
}

// TestLogSoftmaxLargeScores checks that huge scores stay finite.
func TestLogSoftmaxLargeScores(t *testing.T) {
	x := []float64{1000, 0, -1000}
	got := LogSoftmax(make([]float64, 3), x)
	for i, v := range got {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("LogSoftmax[%d] = %v, want finite", i, v)
		}
	}
	if math.Abs(got[0]) > 1e-12 {
		t.Errorf("LogSoftmax[0] = %v, want ~0", got[0])
	}
	if math.Abs(got[1]+1000) > 1e-9 {
		t.Errorf("LogSoftmax[1] = %v, want -1000", got[1])
	}
}

func TestSoftmaxSumsToOne(t *testing.T) {
	x := []float64{0.3, -1.2, 4.0, 2.2}
	p := Softmax(make([]float64, len(x)), x)
	sum := 0.0
	for _, v := range p {
		if v <= 0 || v >= 1 {
			t.Errorf("probability out of range: %v", v)
		}
		sum += v
	}
	if math.Abs(sum-1) > 1e-12 {
		t.Errorf("softmax sum = %v, want 1", sum)
	}
}

func TestLogSoftmaxInPlace(t *testing.T) {
	x := []float64{1, 2, 3}
	LogSoftmax(x, x)
	if math.Abs(x[2]+0.4076059644) > 1e-9 {
		t.Errorf("in-place LogSoftmax[2] = %v", x[2])
	}
}
