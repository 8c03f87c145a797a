package net

import (
	"log"

	"github.com/FlavioCFOliveira/GoTrainer/internal/opt"
)

// Callback defines the interface for training callbacks.
// Epochs are numbered from 1, batches from 0 within each epoch.
type Callback interface {
	OnTrainBegin(n *Network)
	OnTrainEnd(n *Network)
	OnEpochBegin(epoch int, n *Network)
	OnEpochEnd(epoch int, loss float64, n *Network)
	OnBatchBegin(batch int, n *Network)
	OnBatchEnd(batch int, loss float64, n *Network)
}

// BaseCallback provides default empty implementations for Callback.
type BaseCallback struct{}

func (c BaseCallback) OnTrainBegin(n *Network)                        {}
func (c BaseCallback) OnTrainEnd(n *Network)                          {}
func (c BaseCallback) OnEpochBegin(epoch int, n *Network)             {}
func (c BaseCallback) OnEpochEnd(epoch int, loss float64, n *Network) {}
func (c BaseCallback) OnBatchBegin(batch int, n *Network)             {}
func (c BaseCallback) OnBatchEnd(batch int, loss float64, n *Network) {}

// SchedulerCallback advances a learning rate scheduler once per epoch.
type SchedulerCallback struct {
	BaseCallback
	scheduler opt.Scheduler
}

func NewSchedulerCallback(scheduler opt.Scheduler) *SchedulerCallback {
	return &SchedulerCallback{scheduler: scheduler}
}

func (c *SchedulerCallback) OnEpochEnd(epoch int, loss float64, n *Network) {
	c.scheduler.Step()
}

// Logger logs the epoch mean loss every Interval epochs.
// With Verbose set it also reports the batch loss spread and throughput.
type Logger struct {
	BaseCallback
	Interval int
	Verbose  bool
	// Out defaults to the standard logger.
	Out *log.Logger
}

func (c Logger) OnEpochEnd(epoch int, loss float64, n *Network) {
	if c.Interval <= 0 || epoch%c.Interval != 0 {
		return
	}
	out := c.Out
	if out == nil {
		out = log.Default()
	}
	if !c.Verbose {
		out.Printf("epoch %d: loss = %.6f", epoch, loss)
		return
	}
	s := n.LastEpoch()
	out.Printf("epoch %d: loss = %.6f (min %.6f max %.6f std %.6f) lr = %g, %d batches, %.0f samples/s",
		epoch, loss, s.MinLoss, s.MaxLoss, s.LossStdDev, n.Optimizer().LearningRate(), s.Batches, s.SamplesPerSec)
}

// ProgressFunc adapts a function to a Callback that fires at each epoch end.
type ProgressFunc func(epoch int, loss float64)

func (f ProgressFunc) OnTrainBegin(n *Network)                        {}
func (f ProgressFunc) OnTrainEnd(n *Network)                          {}
func (f ProgressFunc) OnEpochBegin(epoch int, n *Network)             {}
func (f ProgressFunc) OnBatchBegin(batch int, n *Network)             {}
func (f ProgressFunc) OnBatchEnd(batch int, loss float64, n *Network) {}
func (f ProgressFunc) OnEpochEnd(epoch int, loss float64, n *Network) { f(epoch, loss) }
