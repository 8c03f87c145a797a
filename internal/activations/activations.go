// Package activations provides element-wise activation functions and the
// row-wise softmax family used by the output layer and the losses.
package activations

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// Activation is an element-wise activation function with derivative.
// Derivative is evaluated at the pre-activation value.
type Activation interface {
	// Activate computes f(x)
	Activate(x float64) float64

	// Derivative computes f'(x)
	Derivative(x float64) float64
}

// ReLU activation function.
type ReLU struct{}

// Activate computes max(0, x)
func (r ReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

// Derivative returns 1 if x > 0, else 0
func (r ReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

// Sigmoid activation function.
type Sigmoid struct{}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// Activate computes sigmoid(x)
func (s Sigmoid) Activate(x float64) float64 {
	return sigmoid(x)
}

// Derivative computes sigmoid(x) * (1 - sigmoid(x))
func (s Sigmoid) Derivative(x float64) float64 {
	sigma := sigmoid(x)
	return sigma * (1 - sigma)
}

// LeakyReLU activation function.
// PyTorch reference: torch.nn.LeakyReLU(negative_slope=0.01)
type LeakyReLU struct {
	Alpha float64 // Slope for x <= 0
}

// NewLeakyReLU creates a LeakyReLU with the given alpha value.
func NewLeakyReLU(alpha float64) *LeakyReLU {
	return &LeakyReLU{Alpha: alpha}
}

// Activate computes x if x > 0, else alpha*x
func (l *LeakyReLU) Activate(x float64) float64 {
	if x > 0 {
		return x
	}
	return l.Alpha * x
}

// Derivative returns 1 if x > 0, else alpha
func (l *LeakyReLU) Derivative(x float64) float64 {
	if x > 0 {
		return 1
	}
	return l.Alpha
}

// Tanh activation function.
type Tanh struct{}

// Activate computes tanh(x)
func (t Tanh) Activate(x float64) float64 {
	return math.Tanh(x)
}

// Derivative computes 1 - tanh(x)^2
func (t Tanh) Derivative(x float64) float64 {
	tanhX := math.Tanh(x)
	return 1 - tanhX*tanhX
}

// Linear is the identity activation.
type Linear struct{}

func (l Linear) Activate(x float64) float64   { return x }
func (l Linear) Derivative(x float64) float64 { return 1 }

// Name returns the configuration name of a known activation.
func Name(act Activation) string {
	switch act.(type) {
	case ReLU:
		return "relu"
	case Sigmoid:
		return "sigmoid"
	case Tanh:
		return "tanh"
	case *LeakyReLU:
		return "leaky_relu"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("%T", act)
	}
}

// ByName resolves a configuration name to an activation.
func ByName(name string) (Activation, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "relu":
		return ReLU{}, nil
	case "sigmoid":
		return Sigmoid{}, nil
	case "tanh":
		return Tanh{}, nil
	case "leaky_relu", "leakyrelu":
		return NewLeakyReLU(0.01), nil
	case "linear", "identity":
		return Linear{}, nil
	default:
		return nil, fmt.Errorf("unknown activation %q", name)
	}
}

// LogSoftmax writes log(softmax(x)) into dst and returns it.
// The max is subtracted before exponentiating (floats.LogSumExp), so large
// scores do not overflow. dst may alias x.
func LogSoftmax(dst, x []float64) []float64 {
	if len(dst) != len(x) {
		panic("LogSoftmax: slices must have same length")
	}
	lse := floats.LogSumExp(x)
	for i, v := range x {
		dst[i] = v - lse
	}
	return dst
}

// Softmax writes softmax(x) into dst and returns it. dst may alias x.
func Softmax(dst, x []float64) []float64 {
	LogSoftmax(dst, x)
	for i, v := range dst {
		dst[i] = math.Exp(v)
	}
	return dst
}
