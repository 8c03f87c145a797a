// Package metrics aggregates per-batch training measurements.
package metrics

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Window accumulates batch losses and timings across one epoch.
type Window struct {
	losses  []float64
	samples int
	compute time.Duration
}

// Record adds a new measurement to the window.
func (w *Window) Record(batchSize int, computeTime time.Duration, loss float64) {
	w.losses = append(w.losses, loss)
	w.samples += batchSize
	w.compute += computeTime
}

// Batches returns the number of recorded batches.
func (w *Window) Batches() int {
	return len(w.losses)
}

// Snapshot returns aggregated metrics and resets the window.
// MeanLoss is the sum of batch losses divided by the number of batches.
func (w *Window) Snapshot() Snapshot {
	snap := Snapshot{
		Batches: len(w.losses),
		Samples: w.samples,
		Compute: w.compute,
	}
	if n := len(w.losses); n > 0 {
		snap.MeanLoss = stat.Mean(w.losses, nil)
		snap.MinLoss = floats.Min(w.losses)
		snap.MaxLoss = floats.Max(w.losses)
		if n > 1 {
			snap.LossStdDev = stat.StdDev(w.losses, nil)
		}
	}
	if w.compute > 0 {
		snap.SamplesPerSec = float64(w.samples) / w.compute.Seconds()
	}

	w.losses = w.losses[:0]
	w.samples = 0
	w.compute = 0
	return snap
}

// Snapshot represents loggable metrics for one epoch.
type Snapshot struct {
	Batches       int
	Samples       int
	Compute       time.Duration
	MeanLoss      float64
	LossStdDev    float64
	MinLoss       float64
	MaxLoss       float64
	SamplesPerSec float64
}
