// Package dataset provides batch sources for the training loop.
package dataset

import (
	"errors"
	"fmt"
	"io"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrEmpty is returned for a dataset or batch with no examples.
	ErrEmpty = errors.New("dataset: no examples")

	// ErrRagged is returned when feature rows differ in length.
	ErrRagged = errors.New("dataset: rows have different lengths")
)

// Batch represents a minibatch of features and class-index labels.
type Batch struct {
	Inputs [][]float64
	Labels []int
}

// Len returns the number of examples in the batch.
func (b Batch) Len() int {
	return len(b.Inputs)
}

// Matrix packs the inputs into a [batch, features] matrix.
// The batch must be non-empty and rectangular.
func (b Batch) Matrix() *mat.Dense {
	rows := len(b.Inputs)
	cols := len(b.Inputs[0])
	data := make([]float64, 0, rows*cols)
	for _, row := range b.Inputs {
		data = append(data, row...)
	}
	return mat.NewDense(rows, cols, data)
}

// Source is a restartable, finite sequence of batches.
// Next returns io.EOF once every example of the current traversal has
// been produced; Reset starts a new traversal.
type Source interface {
	Reset() error
	Next() (Batch, error)
	// Len returns the number of batches per traversal.
	Len() int
}

// Dataset is an in-memory collection of examples.
type Dataset struct {
	Inputs [][]float64
	Labels []int
	// NumClasses is the number of label classes; 0 means max(Labels)+1.
	NumClasses int
}

// Len returns the number of examples.
func (d *Dataset) Len() int {
	return len(d.Inputs)
}

// Features returns the width of a feature row.
func (d *Dataset) Features() int {
	if len(d.Inputs) == 0 {
		return 0
	}
	return len(d.Inputs[0])
}

// Classes returns NumClasses, or max(Labels)+1 when unset.
func (d *Dataset) Classes() int {
	if d.NumClasses > 0 {
		return d.NumClasses
	}
	n := 0
	for _, y := range d.Labels {
		if y+1 > n {
			n = y + 1
		}
	}
	return n
}

// Validate checks the dataset is non-empty, rectangular and labelled in range.
func (d *Dataset) Validate() error {
	if len(d.Inputs) == 0 {
		return ErrEmpty
	}
	if len(d.Labels) != len(d.Inputs) {
		return fmt.Errorf("dataset: %d inputs but %d labels", len(d.Inputs), len(d.Labels))
	}
	width := len(d.Inputs[0])
	if width == 0 {
		return fmt.Errorf("dataset: zero-width feature rows")
	}
	classes := d.Classes()
	for i, row := range d.Inputs {
		if len(row) != width {
			return fmt.Errorf("%w: row %d has %d features, want %d", ErrRagged, i, len(row), width)
		}
		if y := d.Labels[i]; y < 0 || y >= classes {
			return fmt.Errorf("dataset: label %d at row %d outside [0,%d)", y, i, classes)
		}
	}
	return nil
}

// Split splits the dataset into two based on the given ratio (0.0 to 1.0).
// Returns two new Datasets (train, test) sharing the underlying rows.
func (d *Dataset) Split(ratio float64) (*Dataset, *Dataset) {
	splitIdx := int(float64(len(d.Inputs)) * ratio)
	if splitIdx < 0 {
		splitIdx = 0
	}
	if splitIdx > len(d.Inputs) {
		splitIdx = len(d.Inputs)
	}
	classes := d.Classes()

	train := &Dataset{
		Inputs:     d.Inputs[:splitIdx],
		Labels:     d.Labels[:splitIdx],
		NumClasses: classes,
	}
	test := &Dataset{
		Inputs:     d.Inputs[splitIdx:],
		Labels:     d.Labels[splitIdx:],
		NumClasses: classes,
	}
	return train, test
}

// Shuffle permutes the examples in place.
func (d *Dataset) Shuffle(rng *rand.Rand) {
	rng.Shuffle(len(d.Inputs), func(i, j int) {
		d.Inputs[i], d.Inputs[j] = d.Inputs[j], d.Inputs[i]
		d.Labels[i], d.Labels[j] = d.Labels[j], d.Labels[i]
	})
}

// Loader batches a Dataset with a fixed batch size. The last batch of a
// traversal may be smaller so that every example appears exactly once.
type Loader struct {
	ds        *Dataset
	batchSize int
	shuffle   bool
	rng       *rand.Rand
	order     []int
	pos       int
}

// NewLoader creates a loader over ds. With shuffle set, every Reset draws
// a new permutation from a generator seeded with seed.
func NewLoader(ds *Dataset, batchSize int, shuffle bool, seed int64) (*Loader, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	if batchSize <= 0 {
		return nil, fmt.Errorf("dataset: batch size must be > 0 (got %d)", batchSize)
	}
	order := make([]int, ds.Len())
	for i := range order {
		order[i] = i
	}
	return &Loader{
		ds:        ds,
		batchSize: batchSize,
		shuffle:   shuffle,
		rng:       rand.New(rand.NewSource(seed)),
		order:     order,
	}, nil
}

// Len returns the number of batches per traversal.
func (l *Loader) Len() int {
	return (l.ds.Len() + l.batchSize - 1) / l.batchSize
}

// BatchSize returns the configured batch size.
func (l *Loader) BatchSize() int {
	return l.batchSize
}

// Reset rewinds the loader, reshuffling when enabled.
func (l *Loader) Reset() error {
	l.pos = 0
	if l.shuffle {
		l.rng.Shuffle(len(l.order), func(i, j int) {
			l.order[i], l.order[j] = l.order[j], l.order[i]
		})
	}
	return nil
}

// Next returns the next batch or io.EOF at the end of a traversal.
func (l *Loader) Next() (Batch, error) {
	if l.pos >= len(l.order) {
		return Batch{}, io.EOF
	}
	end := l.pos + l.batchSize
	if end > len(l.order) {
		end = len(l.order)
	}
	idx := l.order[l.pos:end]
	l.pos = end

	batch := Batch{
		Inputs: make([][]float64, len(idx)),
		Labels: make([]int, len(idx)),
	}
	for i, j := range idx {
		batch.Inputs[i] = l.ds.Inputs[j]
		batch.Labels[i] = l.ds.Labels[j]
	}
	return batch, nil
}
