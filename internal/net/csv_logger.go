package net

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"
)

// CSVLogger logs training progress to a CSV file, one row per epoch.
type CSVLogger struct {
	BaseCallback
	Filename string
	Append   bool

	file   *os.File
	writer *csv.Writer
	start  time.Time
	err    error
}

// NewCSVLogger creates a new CSVLogger.
func NewCSVLogger(filename string, append bool) *CSVLogger {
	return &CSVLogger{
		Filename: filename,
		Append:   append,
	}
}

// Err returns the first error hit while opening or writing the file.
func (c *CSVLogger) Err() error {
	return c.err
}

func (c *CSVLogger) fail(err error) {
	if c.err == nil {
		c.err = err
	}
	log.Printf("csv logger: %v", err)
}

func (c *CSVLogger) OnTrainBegin(n *Network) {
	mode := os.O_CREATE | os.O_WRONLY
	if c.Append {
		mode |= os.O_APPEND
	} else {
		mode |= os.O_TRUNC
	}

	file, err := os.OpenFile(c.Filename, mode, 0o644)
	if err != nil {
		c.fail(fmt.Errorf("open %s: %w", c.Filename, err))
		return
	}
	c.file = file
	c.writer = csv.NewWriter(file)
	c.start = time.Now()

	info, err := file.Stat()
	if err == nil && (info.Size() == 0 || !c.Append) {
		if err := c.writer.Write([]string{"epoch", "loss", "learning_rate", "samples_per_sec", "time_seconds"}); err != nil {
			c.fail(err)
		}
		c.writer.Flush()
	}
}

func (c *CSVLogger) OnEpochEnd(epoch int, loss float64, n *Network) {
	if c.writer == nil {
		return
	}

	s := n.LastEpoch()
	record := []string{
		strconv.Itoa(epoch),
		strconv.FormatFloat(loss, 'f', 6, 64),
		strconv.FormatFloat(n.Optimizer().LearningRate(), 'g', -1, 64),
		strconv.FormatFloat(s.SamplesPerSec, 'f', 1, 64),
		strconv.FormatFloat(time.Since(c.start).Seconds(), 'f', 2, 64),
	}
	if err := c.writer.Write(record); err != nil {
		c.fail(fmt.Errorf("write record: %w", err))
	}
	c.writer.Flush()
}

func (c *CSVLogger) OnTrainEnd(n *Network) {
	if c.file == nil {
		return
	}
	c.writer.Flush()
	if err := c.writer.Error(); err != nil {
		c.fail(err)
	}
	if err := c.file.Close(); err != nil {
		c.fail(err)
	}
	c.file = nil
	c.writer = nil
}
