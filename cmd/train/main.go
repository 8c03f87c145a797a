package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/FlavioCFOliveira/GoTrainer/internal/config"
	"github.com/FlavioCFOliveira/GoTrainer/internal/device"
	"github.com/FlavioCFOliveira/GoTrainer/internal/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "Path to YAML config (defaults are used when empty)")
	epochs := flag.Int("epochs", 0, "Number of epochs")
	batchSize := flag.Int("batch-size", 0, "Batch size")
	lr := flag.Float64("lr", 0, "Learning rate")
	seed := flag.Int64("seed", 0, "PRNG seed")
	data := flag.String("data", "", "CSV dataset (synthetic data when empty)")
	csvLog := flag.String("csv-log", "", "Write per-epoch metrics to this CSV file")
	logEvery := flag.Int("log-every", 0, "Log every N epochs")

	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}

	cfg.ApplyOverrides(config.Overrides{
		Epochs:       *epochs,
		BatchSize:    *batchSize,
		LearningRate: *lr,
		Seed:         *seed,
		Dataset:      *data,
		CSVLog:       *csvLog,
		LogEvery:     *logEvery,
	})

	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	log.Printf("device: %s", device.GetDefaultDevice().Describe())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	res, err := trainer.Run(ctx, cfg, log.Default())
	if err != nil {
		log.Fatalf("training failed: %v", err)
	}

	for i, p := range res.Predictions {
		log.Printf("sample %d: predicted=%d (p=%.3f) actual=%d", i, p.Class, p.Probs[p.Class], res.Labels[i])
	}
}
