// Package trainer wires a config into data, model and training loop.
package trainer

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"github.com/FlavioCFOliveira/GoTrainer/internal/config"
	"github.com/FlavioCFOliveira/GoTrainer/internal/dataset"
	"github.com/FlavioCFOliveira/GoTrainer/internal/loss"
	"github.com/FlavioCFOliveira/GoTrainer/internal/net"
	"github.com/FlavioCFOliveira/GoTrainer/internal/opt"
)

const syntheticFeatures = 4

// Result is the outcome of a run.
type Result struct {
	// Losses holds the mean training loss of each epoch.
	Losses []float64
	Train  net.Evaluation
	// Test is zero when the split leaves no held-out examples.
	Test net.Evaluation

	// Samples are the first held-out examples with their predictions.
	Samples     [][]float64
	Labels      []int
	Predictions []net.Prediction
}

// LoadData reads the configured CSV, or generates synthetic data when no
// path is set.
func LoadData(cfg *config.Config) (*dataset.Dataset, error) {
	if cfg.Dataset != "" {
		ds, err := dataset.LoadCSV(cfg.Dataset, cfg.LabelColumn, cfg.HasHeader)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.Dataset, err)
		}
		if err := ds.Validate(); err != nil {
			return nil, fmt.Errorf("load %s: %w", cfg.Dataset, err)
		}
		return ds, nil
	}
	if cfg.SyntheticClasses > 2 {
		return dataset.Blobs(cfg.SyntheticSamples, syntheticFeatures, cfg.SyntheticClasses, 3, 1, cfg.Seed), nil
	}
	return dataset.Separable(cfg.SyntheticSamples, syntheticFeatures, 0.5, cfg.Seed), nil
}

// BuildModel creates and compiles the MLP described by cfg.
func BuildModel(cfg *config.Config, features, classes int) (*net.Sequential, error) {
	act, err := activations.ByName(cfg.Activation)
	if err != nil {
		return nil, err
	}
	logSoftmax := cfg.Output == config.OutputLogSoftmax
	rng := rand.New(rand.NewSource(cfg.Seed))
	model := net.NewSequential(net.MLP(features, cfg.Hidden, classes, act, logSoftmax, rng)...)

	sgd, err := opt.NewSGD(cfg.LearningRate)
	if err != nil {
		return nil, err
	}
	sgd.Momentum = cfg.Momentum
	sgd.WeightDecay = cfg.WeightDecay

	conv := loss.RawScores
	if logSoftmax {
		conv = loss.LogProbabilities
	}
	if err := model.Compile(sgd, loss.For(conv)); err != nil {
		return nil, err
	}
	return model, nil
}

// Run executes the training workload described by cfg.
// Progress is written to logger.
func Run(ctx context.Context, cfg *config.Config, logger *log.Logger) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", net.ErrConfig, err)
	}
	if logger == nil {
		logger = log.Default()
	}

	ds, err := LoadData(cfg)
	if err != nil {
		return nil, err
	}
	ds.Shuffle(rand.New(rand.NewSource(cfg.Seed)))
	trainSet, testSet := ds.Split(cfg.TrainSplit)
	logger.Printf("data: %d examples, %d features, %d classes (train=%d test=%d)",
		ds.Len(), ds.Features(), ds.Classes(), trainSet.Len(), testSet.Len())

	trainLoader, err := dataset.NewLoader(trainSet, cfg.BatchSize, cfg.Shuffle, cfg.Seed)
	if err != nil {
		return nil, fmt.Errorf("train split: %w", err)
	}

	model, err := BuildModel(cfg, ds.Features(), ds.Classes())
	if err != nil {
		return nil, err
	}
	logger.Printf("model: %d layers, loss=%s, lr=%g", len(model.Layers()), loss.Name(model.Loss()), cfg.LearningRate)

	callbacks := []net.Callback{net.Logger{Interval: cfg.LogEvery, Verbose: true, Out: logger}}
	if cfg.LRStepSize > 0 {
		callbacks = append(callbacks, net.NewSchedulerCallback(opt.NewStepLR(model.Optimizer(), cfg.LRStepSize, cfg.LRGamma)))
	}
	var csvLog *net.CSVLogger
	if cfg.CSVLog != "" {
		csvLog = net.NewCSVLogger(cfg.CSVLog, false)
		callbacks = append(callbacks, csvLog)
	}

	res := &Result{}
	res.Losses, err = model.Fit(ctx, trainLoader, cfg.Epochs, callbacks...)
	if err != nil {
		return res, fmt.Errorf("fit: %w", err)
	}
	if csvLog != nil && csvLog.Err() != nil {
		logger.Printf("csv log incomplete: %v", csvLog.Err())
	}

	if res.Train, err = model.Evaluate(trainLoader); err != nil {
		return res, fmt.Errorf("evaluate train: %w", err)
	}
	logger.Printf("train: loss=%.4f accuracy=%.1f%%", res.Train.Loss, res.Train.Accuracy*100)

	if testSet.Len() == 0 {
		return res, nil
	}
	testLoader, err := dataset.NewLoader(testSet, cfg.BatchSize, false, 0)
	if err != nil {
		return res, fmt.Errorf("test split: %w", err)
	}
	if res.Test, err = model.Evaluate(testLoader); err != nil {
		return res, fmt.Errorf("evaluate test: %w", err)
	}
	logger.Printf("test: loss=%.4f accuracy=%.1f%%", res.Test.Loss, res.Test.Accuracy*100)

	if k := min(cfg.ShowPredictions, testSet.Len()); k > 0 {
		res.Samples = testSet.Inputs[:k]
		res.Labels = testSet.Labels[:k]
		if res.Predictions, err = model.Predict(res.Samples); err != nil {
			return res, fmt.Errorf("predict: %w", err)
		}
	}
	return res, nil
}
