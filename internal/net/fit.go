package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/FlavioCFOliveira/GoTrainer/internal/dataset"
	"github.com/FlavioCFOliveira/GoTrainer/internal/metrics"
)

// Fit trains the network for the given number of epochs over src and
// returns the mean training loss of each completed epoch.
//
// Every epoch resets src and runs one TrainStep per batch. The epoch loss
// is the arithmetic mean of the step losses, so a smaller final batch
// weighs the same as a full one. Cancellation is checked between steps;
// a step that has started always completes. On error the losses of the
// epochs finished so far are returned alongside it.
func (n *Network) Fit(ctx context.Context, src dataset.Source, epochs int, callbacks ...Callback) ([]float64, error) {
	if epochs <= 0 {
		return nil, fmt.Errorf("%w: epochs must be > 0 (got %d)", ErrConfig, epochs)
	}
	if src == nil {
		return nil, fmt.Errorf("%w: no data source", ErrConfig)
	}

	for _, cb := range callbacks {
		cb.OnTrainBegin(n)
	}
	defer func() {
		for _, cb := range callbacks {
			cb.OnTrainEnd(n)
		}
	}()

	history := make([]float64, 0, epochs)
	var window metrics.Window

	for epoch := 1; epoch <= epochs; epoch++ {
		for _, cb := range callbacks {
			cb.OnEpochBegin(epoch, n)
		}

		if err := src.Reset(); err != nil {
			return history, fmt.Errorf("epoch %d: reset source: %w", epoch, err)
		}

		for batch := 0; ; batch++ {
			if err := ctx.Err(); err != nil {
				return history, err
			}

			b, err := src.Next()
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return history, fmt.Errorf("epoch %d batch %d: %w", epoch, batch, err)
			}

			for _, cb := range callbacks {
				cb.OnBatchBegin(batch, n)
			}

			start := time.Now()
			res, err := n.TrainStep(b)
			if err != nil {
				return history, fmt.Errorf("epoch %d batch %d: %w", epoch, batch, err)
			}
			window.Record(b.Len(), time.Since(start), res.Loss)

			for _, cb := range callbacks {
				cb.OnBatchEnd(batch, res.Loss, n)
			}
		}

		if window.Batches() == 0 {
			return history, fmt.Errorf("%w: epoch %d produced no batches", ErrConfig, epoch)
		}
		n.lastEpoch = window.Snapshot()
		history = append(history, n.lastEpoch.MeanLoss)

		for _, cb := range callbacks {
			cb.OnEpochEnd(epoch, n.lastEpoch.MeanLoss, n)
		}
	}

	return history, nil
}
