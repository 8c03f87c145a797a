// Package loss provides benchmarks for loss functions.
package loss

import (
	"math/rand"
	"testing"

	"github.com/FlavioCFOliveira/GoTrainer/internal/autograd"
	"gonum.org/v1/gonum/mat"
)

func benchBatch(rows, cols int) (*mat.Dense, []int) {
	rng := rand.New(rand.NewSource(1))
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	labels := make([]int, rows)
	for i := range labels {
		labels[i] = rng.Intn(cols)
	}
	return mat.NewDense(rows, cols, data), labels
}

// BenchmarkCrossEntropyValue benchmarks an MNIST-sized batch (64x10).
func BenchmarkCrossEntropyValue(b *testing.B) {
	scores, labels := benchBatch(64, 10)
	ce := CrossEntropy{}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = ce.Value(scores, labels)
	}
}

// BenchmarkCrossEntropyForwardBackward benchmarks the taped loss plus backward.
func BenchmarkCrossEntropyForwardBackward(b *testing.B) {
	scores, labels := benchBatch(64, 10)
	ce := CrossEntropy{}
	w := autograd.NewParam("w", mat.NewDense(10, 10, nil))
	for i := 0; i < 10; i++ {
		w.Value().Set(i, i, 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tape := autograd.NewTape()
		out := tape.MatMulT(autograd.Constant(scores), &w.Node)
		l, _ := ce.Forward(tape, out, labels)
		_ = tape.Backward(l)
		w.ZeroGrad()
	}
}
