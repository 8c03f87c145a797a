// Package config loads the runtime knobs for a training run.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/FlavioCFOliveira/GoTrainer/internal/activations"
	"gopkg.in/yaml.v3"
)

// Output selects what the model's last layer produces and therefore which
// loss trains it.
const (
	OutputLogSoftmax = "log_softmax"
	OutputRaw        = "raw"
)

// Config captures the runtime knobs for a training run.
type Config struct {
	Epochs       int     `yaml:"epochs"`
	BatchSize    int     `yaml:"batch_size"`
	LearningRate float64 `yaml:"learning_rate"`
	Momentum     float64 `yaml:"momentum"`
	WeightDecay  float64 `yaml:"weight_decay"`

	Hidden     []int  `yaml:"hidden"`
	Activation string `yaml:"activation"`
	Output     string `yaml:"output"`

	Seed    int64 `yaml:"seed"`
	Shuffle bool  `yaml:"shuffle"`

	// Dataset is a CSV path; empty means synthetic separable data.
	Dataset          string `yaml:"dataset"`
	LabelColumn      int    `yaml:"label_column"`
	HasHeader        bool   `yaml:"has_header"`
	SyntheticSamples int    `yaml:"synthetic_samples"`
	// SyntheticClasses above 2 switches from separable data to Gaussian blobs.
	SyntheticClasses int     `yaml:"synthetic_classes"`
	TrainSplit       float64 `yaml:"train_split"`

	LogEvery        int     `yaml:"log_every"`
	CSVLog          string  `yaml:"csv_log"`
	LRStepSize      int     `yaml:"lr_step_size"`
	LRGamma         float64 `yaml:"lr_gamma"`
	ShowPredictions int     `yaml:"show_predictions"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Epochs:           5,
		BatchSize:        64,
		LearningRate:     0.01,
		Hidden:           []int{128, 64},
		Activation:       "relu",
		Output:           OutputLogSoftmax,
		Seed:             1,
		Shuffle:          true,
		LabelColumn:      -1,
		SyntheticSamples: 1000,
		SyntheticClasses: 2,
		TrainSplit:       0.8,
		LogEvery:         1,
		LRGamma:          0.1,
		ShowPredictions:  5,
	}
}

// Overrides captures CLI supplied values.
type Overrides struct {
	Epochs       int
	BatchSize    int
	LearningRate float64
	Seed         int64
	Dataset      string
	CSVLog       string
	LogEvery     int
}

// Load reads and validates a Config from YAML. Keys missing from the
// file keep their Default values; unknown keys are rejected.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	cfg, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Parse decodes YAML from r on top of Default without validating.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return cfg, nil
}

// ApplyOverrides updates cfg using any non-zero override.
func (c *Config) ApplyOverrides(o Overrides) {
	if o.Epochs > 0 {
		c.Epochs = o.Epochs
	}
	if o.BatchSize > 0 {
		c.BatchSize = o.BatchSize
	}
	if o.LearningRate > 0 {
		c.LearningRate = o.LearningRate
	}
	if o.Seed != 0 {
		c.Seed = o.Seed
	}
	if o.Dataset != "" {
		c.Dataset = o.Dataset
	}
	if o.CSVLog != "" {
		c.CSVLog = o.CSVLog
	}
	if o.LogEvery > 0 {
		c.LogEvery = o.LogEvery
	}
}

// Validate verifies the config is runnable.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("epochs must be > 0 (got %d)", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be > 0 (got %d)", c.BatchSize)
	}
	if !(c.LearningRate > 0) {
		return fmt.Errorf("learning_rate must be > 0 (got %v)", c.LearningRate)
	}
	if c.Momentum < 0 || c.Momentum >= 1 {
		return fmt.Errorf("momentum must be in [0,1) (got %v)", c.Momentum)
	}
	if c.WeightDecay < 0 {
		return fmt.Errorf("weight_decay must be >= 0 (got %v)", c.WeightDecay)
	}
	for i, h := range c.Hidden {
		if h <= 0 {
			return fmt.Errorf("hidden[%d] must be > 0 (got %d)", i, h)
		}
	}
	if _, err := activations.ByName(c.Activation); err != nil {
		return fmt.Errorf("activation: %w", err)
	}
	if c.Output != OutputLogSoftmax && c.Output != OutputRaw {
		return fmt.Errorf("output must be %q or %q (got %q)", OutputLogSoftmax, OutputRaw, c.Output)
	}
	if c.Dataset == "" && c.SyntheticSamples <= 1 {
		return fmt.Errorf("synthetic_samples must be > 1 (got %d)", c.SyntheticSamples)
	}
	if c.Dataset == "" && c.SyntheticClasses < 2 {
		return fmt.Errorf("synthetic_classes must be >= 2 (got %d)", c.SyntheticClasses)
	}
	if c.TrainSplit <= 0 || c.TrainSplit > 1 {
		return fmt.Errorf("train_split must be in (0,1] (got %v)", c.TrainSplit)
	}
	if c.LRStepSize < 0 {
		return fmt.Errorf("lr_step_size must be >= 0 (got %d)", c.LRStepSize)
	}
	if c.LRStepSize > 0 && (c.LRGamma <= 0 || c.LRGamma > 1) {
		return fmt.Errorf("lr_gamma must be in (0,1] (got %v)", c.LRGamma)
	}
	if c.ShowPredictions < 0 {
		return fmt.Errorf("show_predictions must be >= 0 (got %d)", c.ShowPredictions)
	}
	if c.LogEvery <= 0 {
		c.LogEvery = 1
	}
	return nil
}
