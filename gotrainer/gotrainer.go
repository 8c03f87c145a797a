// Package gotrainer re-exports the common training API.
package gotrainer

import (
	"math/rand"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"github.com/FlavioCFOliveira/GoTrainer/internal/dataset"
	"github.com/FlavioCFOliveira/GoTrainer/internal/layer"
	"github.com/FlavioCFOliveira/GoTrainer/internal/loss"
	"github.com/FlavioCFOliveira/GoTrainer/internal/net"
	"github.com/FlavioCFOliveira/GoTrainer/internal/opt"
)

// Re-export common types and functions for easier access
type (
	Model      = net.Sequential
	Network    = net.Network
	Layer      = layer.Layer
	Optimizer  = opt.Optimizer
	Loss       = loss.Loss
	Callback   = net.Callback
	Batch      = dataset.Batch
	Source     = dataset.Source
	Dataset    = dataset.Dataset
	Prediction = net.Prediction
	Evaluation = net.Evaluation
)

// Errors
var (
	ErrConfig    = net.ErrConfig
	ErrNumerical = net.ErrNumerical
)

// Model creation
func NewSequential(layers ...Layer) *Model {
	return net.NewSequential(layers...)
}

// NewRand returns a seeded generator for layer initialization.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Activations
var (
	ReLU    = activations.ReLU{}
	Sigmoid = activations.Sigmoid{}
	Tanh    = activations.Tanh{}
	Linear  = activations.Linear{}
)

func LeakyReLU(alpha float64) activations.Activation {
	return activations.NewLeakyReLU(alpha)
}

// Layers
func Dense(in, out int, rng *rand.Rand) Layer {
	return layer.NewDense(in, out, rng)
}

func Activation(act activations.Activation) Layer {
	return layer.NewActivation(act)
}

func LogSoftmax() Layer {
	return layer.NewLogSoftmax()
}

func MLP(in int, hidden []int, classes int, act activations.Activation, logSoftmax bool, rng *rand.Rand) []Layer {
	return net.MLP(in, hidden, classes, act, logSoftmax, rng)
}

// Losses
var (
	CrossEntropy = loss.CrossEntropy{}
	NLLLoss      = loss.NLLLoss{}
)

// Optimizers
func SGD(lr float64) (*opt.SGD, error) {
	return opt.NewSGD(lr)
}

func StepLR(o Optimizer, stepSize int, gamma float64) opt.Scheduler {
	return opt.NewStepLR(o, stepSize, gamma)
}

func ExponentialLR(o Optimizer, gamma float64) opt.Scheduler {
	return opt.NewExponentialLR(o, gamma)
}

// Callbacks
func Logger(interval int) Callback {
	return net.Logger{Interval: interval}
}

func Scheduler(s opt.Scheduler) Callback {
	return net.NewSchedulerCallback(s)
}

func CSVLogger(filename string, append bool) *net.CSVLogger {
	return net.NewCSVLogger(filename, append)
}

func Progress(f func(epoch int, loss float64)) Callback {
	return net.ProgressFunc(f)
}

// Data
func NewLoader(ds *Dataset, batchSize int, shuffle bool, seed int64) (*dataset.Loader, error) {
	return dataset.NewLoader(ds, batchSize, shuffle, seed)
}

func LoadCSV(filename string, labelCol int, hasHeader bool) (*Dataset, error) {
	return dataset.LoadCSV(filename, labelCol, hasHeader)
}

func Separable(n, features int, margin float64, seed int64) *Dataset {
	return dataset.Separable(n, features, margin, seed)
}

func Blobs(n, features, classes int, radius, spread float64, seed int64) *Dataset {
	return dataset.Blobs(n, features, classes, radius, spread, seed)
}
