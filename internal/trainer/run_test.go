package trainer

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/FlavioCFOliveira/GoTrainer/internal/config"
	"github.com/FlavioCFOliveira/GoTrainer/internal/net"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Epochs = 20
	cfg.BatchSize = 16
	cfg.LearningRate = 0.1
	cfg.Hidden = []int{8}
	cfg.Activation = "tanh"
	cfg.SyntheticSamples = 200
	cfg.ShowPredictions = 3
	return cfg
}

func TestRunSynthetic(t *testing.T) {
	for _, output := range []string{config.OutputLogSoftmax, config.OutputRaw} {
		t.Run(output, func(t *testing.T) {
			cfg := smallConfig()
			cfg.Output = output

			var buf bytes.Buffer
			res, err := Run(context.Background(), cfg, log.New(&buf, "", 0))
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if len(res.Losses) != cfg.Epochs {
				t.Fatalf("got %d epoch losses, want %d", len(res.Losses), cfg.Epochs)
			}
			if res.Losses[len(res.Losses)-1] >= res.Losses[0] {
				t.Errorf("loss did not improve: first %v last %v", res.Losses[0], res.Losses[len(res.Losses)-1])
			}
			if res.Train.Examples != 160 || res.Test.Examples != 40 {
				t.Errorf("split = %d/%d, want 160/40", res.Train.Examples, res.Test.Examples)
			}
			if res.Test.Accuracy < 0.9 {
				t.Errorf("test accuracy = %v on separable data", res.Test.Accuracy)
			}
			if len(res.Predictions) != 3 || len(res.Labels) != 3 {
				t.Errorf("got %d predictions, want 3", len(res.Predictions))
			}
			if !strings.Contains(buf.String(), "epoch 20: loss =") {
				t.Errorf("missing epoch log:\n%s", buf.String())
			}
		})
	}
}

func TestRunBlobsWithScheduleAndCSVLog(t *testing.T) {
	cfg := smallConfig()
	cfg.Epochs = 4
	cfg.SyntheticClasses = 3
	cfg.Momentum = 0.9
	cfg.LRStepSize = 2
	cfg.LRGamma = 0.5
	cfg.CSVLog = filepath.Join(t.TempDir(), "log.csv")

	res, err := Run(context.Background(), cfg, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Losses) != 4 {
		t.Fatalf("got %d losses", len(res.Losses))
	}
	for _, p := range res.Predictions {
		if len(p.Probs) != 3 {
			t.Errorf("got %d class probabilities, want 3", len(p.Probs))
		}
	}
	data, err := os.ReadFile(cfg.CSVLog)
	if err != nil {
		t.Fatal(err)
	}
	if lines := strings.Count(string(data), "\n"); lines != 5 {
		t.Errorf("csv log has %d lines, want 5", lines)
	}
}

func TestRunCSVDataset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.csv")
	var b strings.Builder
	b.WriteString("label,x,y\n")
	for i := 0; i < 40; i++ {
		if i%2 == 0 {
			b.WriteString("0,-1.5,-1\n")
		} else {
			b.WriteString("1,1.5,1\n")
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig()
	cfg.Dataset = path
	cfg.LabelColumn = 0
	cfg.HasHeader = true
	cfg.TrainSplit = 1
	cfg.LearningRate = 0.5
	res, err := Run(context.Background(), cfg, log.New(&bytes.Buffer{}, "", 0))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Train.Accuracy != 1 {
		t.Errorf("train accuracy = %v, want 1", res.Train.Accuracy)
	}
	if res.Test.Examples != 0 || res.Predictions != nil {
		t.Errorf("no test split expected, got %+v", res.Test)
	}
}

func TestRunErrors(t *testing.T) {
	cfg := smallConfig()
	cfg.Epochs = 0
	if _, err := Run(context.Background(), cfg, nil); !errors.Is(err, net.ErrConfig) {
		t.Errorf("invalid config: err = %v, want ErrConfig", err)
	}

	cfg = smallConfig()
	cfg.Dataset = filepath.Join(t.TempDir(), "missing.csv")
	if _, err := Run(context.Background(), cfg, log.New(&bytes.Buffer{}, "", 0)); err == nil {
		t.Error("expected error for missing dataset")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Run(ctx, smallConfig(), log.New(&bytes.Buffer{}, "", 0)); !errors.Is(err, context.Canceled) {
		t.Errorf("cancelled: err = %v, want context.Canceled", err)
	}
}

func TestBuildModel(t *testing.T) {
	cfg := smallConfig()
	cfg.Hidden = []int{5, 3}
	model, err := BuildModel(cfg, 4, 3)
	if err != nil {
		t.Fatal(err)
	}
	if model.InSize() != 4 || model.NumClasses() != 3 {
		t.Errorf("model is %d -> %d, want 4 -> 3", model.InSize(), model.NumClasses())
	}

	cfg.Activation = "swish"
	if _, err := BuildModel(cfg, 4, 3); err == nil {
		t.Error("expected error for unknown activation")
	}
}
