package metrics

import (
	"math"
	"testing"
	"time"
)

func TestWindowSnapshot(t *testing.T) {
	var w Window
	w.Record(64, 20*time.Millisecond, 1.2)
	w.Record(64, 10*time.Millisecond, 0.8)
	w.Record(32, 10*time.Millisecond, 0.4)
	snap := w.Snapshot()

	if snap.Batches != 3 || snap.Samples != 160 {
		t.Fatalf("batches=%d samples=%d, want 3/160", snap.Batches, snap.Samples)
	}
	if math.Abs(snap.MeanLoss-0.8) > 1e-12 {
		t.Fatalf("mean loss %.6f, want 0.8", snap.MeanLoss)
	}
	if snap.MinLoss != 0.4 || snap.MaxLoss != 1.2 {
		t.Fatalf("min/max = %v/%v, want 0.4/1.2", snap.MinLoss, snap.MaxLoss)
	}
	// sample std dev of {1.2, 0.8, 0.4} is 0.4
	if math.Abs(snap.LossStdDev-0.4) > 1e-12 {
		t.Fatalf("std dev %.6f, want 0.4", snap.LossStdDev)
	}
	if math.Abs(snap.SamplesPerSec-4000) > 1e-6 {
		t.Fatalf("unexpected throughput %.2f", snap.SamplesPerSec)
	}
	if w.Batches() != 0 || w.samples != 0 || w.compute != 0 {
		t.Fatalf("window was not reset")
	}
}

func TestWindowSingleBatch(t *testing.T) {
	var w Window
	w.Record(8, 0, 0.5)
	snap := w.Snapshot()
	if snap.MeanLoss != 0.5 || snap.LossStdDev != 0 {
		t.Fatalf("mean=%v std=%v, want 0.5/0", snap.MeanLoss, snap.LossStdDev)
	}
	if snap.SamplesPerSec != 0 {
		t.Fatalf("throughput with zero compute time = %v, want 0", snap.SamplesPerSec)
	}
}

func TestEmptyWindow(t *testing.T) {
	var w Window
	snap := w.Snapshot()
	if snap.Batches != 0 || snap.MeanLoss != 0 {
		t.Fatalf("empty snapshot = %+v", snap)
	}
}
