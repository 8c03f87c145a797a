package autograd

import (
	"fmt"
	"math"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// MatMulT computes x · wᵀ.
// x is [batch, in], w is [out, in] (the Dense weight layout), result is [batch, out].
//
//	d/dx = g · w
//	d/dw = gᵀ · x
func (t *Tape) MatMulT(x, w *Node) *Node {
	var out mat.Dense
	out.Mul(x.value, w.value.T())
	n := t.node(&out, x, w)

	t.push(n, func(g *mat.Dense) {
		if x.requiresGrad {
			var dx mat.Dense
			dx.Mul(g, w.value)
			accumulate(x, &dx)
		}
		if w.requiresGrad {
			var dw mat.Dense
			dw.Mul(g.T(), x.value)
			accumulate(w, &dw)
		}
	})
	return n
}

// AddRow adds the 1xC row b to every row of x.
// The bias gradient is the column sum of the output gradient.
func (t *Tape) AddRow(x, b *Node) *Node {
	rows, cols := x.value.Dims()
	if br, bc := b.value.Dims(); br != 1 || bc != cols {
		panic(fmt.Sprintf("autograd: AddRow bias %dx%d does not match %d columns", br, bc, cols))
	}
	bias := b.value.RawRowView(0)

	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		floats.AddTo(out.RawRowView(i), x.value.RawRowView(i), bias)
	}
	n := t.node(out, x, b)

	t.push(n, func(g *mat.Dense) {
		accumulate(x, g)
		if b.requiresGrad {
			db := mat.NewDense(1, cols, nil)
			row := db.RawRowView(0)
			for i := 0; i < rows; i++ {
				floats.Add(row, g.RawRowView(i))
			}
			accumulate(b, db)
		}
	})
	return n
}

// Apply maps an element-wise activation over x.
// The derivative is taken at the pre-activation value.
func (t *Tape) Apply(x *Node, act activations.Activation) *Node {
	var out mat.Dense
	out.Apply(func(_, _ int, v float64) float64 {
		return act.Activate(v)
	}, x.value)
	n := t.node(&out, x)

	t.push(n, func(g *mat.Dense) {
		var dx mat.Dense
		dx.Apply(func(i, j int, v float64) float64 {
			return v * act.Derivative(x.value.At(i, j))
		}, g)
		accumulate(x, &dx)
	})
	return n
}

// LogSoftmax normalises each row of x into log-probabilities.
// Rows are shifted by their max before exponentiating.
//
//	d/dx_j = g_j - softmax_j · Σ_k g_k
func (t *Tape) LogSoftmax(x *Node) *Node {
	rows, cols := x.value.Dims()
	out := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		activations.LogSoftmax(out.RawRowView(i), x.value.RawRowView(i))
	}
	n := t.node(out, x)

	t.push(n, func(g *mat.Dense) {
		dx := mat.NewDense(rows, cols, nil)
		for i := 0; i < rows; i++ {
			gRow := g.RawRowView(i)
			yRow := out.RawRowView(i)
			dRow := dx.RawRowView(i)
			sum := floats.Sum(gRow)
			for j := range dRow {
				dRow[j] = gRow[j] - math.Exp(yRow[j])*sum
			}
		}
		accumulate(x, dx)
	})
	return n
}

// NLL returns the mean negative log-likelihood of labels under the
// log-probabilities logp: -(1/N) Σ_i logp[i, labels[i]].
// Labels must already be validated; an out-of-range label panics.
func (t *Tape) NLL(logp *Node, labels []int) *Node {
	rows, cols := logp.value.Dims()
	if len(labels) != rows {
		panic(fmt.Sprintf("autograd: NLL got %d labels for %d rows", len(labels), rows))
	}
	sum := 0.0
	for i, y := range labels {
		if y < 0 || y >= cols {
			panic(fmt.Sprintf("autograd: NLL label %d out of range [0,%d)", y, cols))
		}
		sum -= logp.value.At(i, y)
	}
	n := t.node(mat.NewDense(1, 1, []float64{sum / float64(rows)}), logp)

	t.push(n, func(g *mat.Dense) {
		scale := -g.At(0, 0) / float64(rows)
		d := mat.NewDense(rows, cols, nil)
		for i, y := range labels {
			d.Set(i, y, scale)
		}
		accumulate(logp, d)
	})
	return n
}
