// Package opt provides optimization algorithms.
package opt

import (
	"errors"
	"fmt"

	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
	"gonum.org/v1/gonum/floats"
)

// ErrLearningRate is returned for a non-positive learning rate.
var ErrLearningRate = errors.New("opt: learning rate must be > 0")

// Optimizer updates network parameters from their gradient buffers.
type Optimizer interface {
	// ZeroGrad clears every gradient buffer. Backward accumulates, so this
	// must run before each backward pass.
	ZeroGrad(params []*autograd.Param)

	// Step applies one descent step in place using the current gradients.
	Step(params []*autograd.Param)

	LearningRate() float64
	SetLearningRate(lr float64)
}

// ZeroGrad clears the gradient buffer of every parameter.
func ZeroGrad(params []*autograd.Param) {
	for _, p := range params {
		p.ZeroGrad()
	}
}

// SGD (Stochastic Gradient Descent) optimizer.
//
//	d = g + WeightDecay·w
//	v = Momentum·v + d        (only when Momentum > 0)
//	w = w - lr·v
//
// With Momentum and WeightDecay left at zero this is plain w -= lr·g.
type SGD struct {
	lr          float64
	Momentum    float64
	WeightDecay float64

	velocity map[*autograd.Param][]float64
	scratch  []float64
}

// NewSGD creates a plain SGD optimizer.
func NewSGD(learningRate float64) (*SGD, error) {
	if !(learningRate > 0) {
		return nil, fmt.Errorf("%w (got %v)", ErrLearningRate, learningRate)
	}
	return &SGD{lr: learningRate}, nil
}

// ZeroGrad clears every gradient buffer.
func (s *SGD) ZeroGrad(params []*autograd.Param) {
	ZeroGrad(params)
}

// Step updates params in-place.
func (s *SGD) Step(params []*autograd.Param) {
	for _, p := range params {
		w := p.Data()
		d := p.GradData()

		if s.WeightDecay != 0 {
			if cap(s.scratch) < len(d) {
				s.scratch = make([]float64, len(d))
			}
			buf := s.scratch[:len(d)]
			copy(buf, d)
			floats.AddScaled(buf, s.WeightDecay, w)
			d = buf
		}

		if s.Momentum != 0 {
			v := s.velocityFor(p, len(d))
			floats.Scale(s.Momentum, v)
			floats.Add(v, d)
			d = v
		}

		floats.AddScaled(w, -s.lr, d)
	}
}

func (s *SGD) velocityFor(p *autograd.Param, n int) []float64 {
	if s.velocity == nil {
		s.velocity = make(map[*autograd.Param][]float64)
	}
	v, ok := s.velocity[p]
	if !ok {
		v = make([]float64, n)
		s.velocity[p] = v
	}
	return v
}

// LearningRate returns the current learning rate.
func (s *SGD) LearningRate() float64 {
	return s.lr
}

// SetLearningRate changes the learning rate for subsequent steps.
// Non-positive values are ignored.
func (s *SGD) SetLearningRate(lr float64) {
	if lr > 0 {
		s.lr = lr
	}
}
