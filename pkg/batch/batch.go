/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: batch.go
Description: Batch evaluation of many input cases against one fuzzy system. A fixed pool
of workers pulls cases from a queue and runs them concurrently; per-case results keep the
input order, and the batch collects duration and output statistics when it finishes.
*/

package batch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Case is one set of crisp inputs to evaluate
type Case struct {
	ID     string             `yaml:"id,omitempty" json:"id,omitempty"`
	Inputs map[string]float64 `yaml:"inputs" json:"inputs"`
}

// CaseResult is the outcome of one case. Exactly one of Result and Error is set.
type CaseResult struct {
	Index    int           `json:"index"`
	ID       string        `json:"id,omitempty"`
	WorkerID int           `json:"worker_id"`
	Duration time.Duration `json:"duration"`
	Result   *fuzzy.Result `json:"result,omitempty"`
	Error    string        `json:"error,omitempty"`

	err error
}

// Err returns the run error of the case, if any
func (c *CaseResult) Err() error {
	return c.err
}

// Config controls a Runner
type Config struct {
	Workers int                // Parallel workers, 0 uses one per CPU
	Logger  logrus.FieldLogger // Optional, receives per-case debug logs
}

// Report is everything a batch produced
type Report struct {
	Cases   []CaseResult  `json:"cases"` // In input order
	Stats   Stats         `json:"stats"`
	Elapsed time.Duration `json:"elapsed"`
}

// Runner evaluates cases against a system with a worker pool
type Runner struct {
	sys     *fuzzy.System
	workers int
	logger  logrus.FieldLogger
}

// NewRunner creates a runner for sys
func NewRunner(sys *fuzzy.System, config *Config) *Runner {
	if config == nil {
		config = &Config{}
	}

	workers := config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	logger := config.Logger
	if logger == nil {
		silent := logrus.New()
		silent.SetOutput(io.Discard)
		logger = silent
	}

	return &Runner{sys: sys, workers: workers, logger: logger}
}

// Workers returns the size of the worker pool
func (r *Runner) Workers() int {
	return r.workers
}

// Run evaluates every case and returns once all are done. A failing case does
// not stop the batch; its error is recorded in its CaseResult. Cancelling ctx
// stops the workers and returns ctx.Err().
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("batch cancelled: %w", err)
	}

	start := time.Now()
	results := make([]CaseResult, len(cases))

	workers := r.workers
	if workers > len(cases) {
		workers = len(cases)
	}

	queue := make(chan int)
	var wg sync.WaitGroup

	r.logger.WithFields(logrus.Fields{
		"cases":   len(cases),
		"workers": workers,
	}).Info("Batch started")

	for id := 0; id < workers; id++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			r.runWorker(ctx, workerID, cases, queue, results)
		}(id)
	}

	var cancelled error
schedule:
	for i := range cases {
		select {
		case <-ctx.Done():
			cancelled = ctx.Err()
			break schedule
		case queue <- i:
		}
	}
	close(queue)
	wg.Wait()

	if cancelled != nil {
		return nil, fmt.Errorf("batch cancelled: %w", cancelled)
	}

	report := &Report{
		Cases:   results,
		Elapsed: time.Since(start),
	}
	stats, err := summarize(results)
	if err != nil {
		return nil, err
	}
	stats.Workers = workers
	report.Stats = stats

	r.logger.WithFields(logrus.Fields{
		"cases":      stats.Cases,
		"failed":     stats.Failed,
		"unresolved": stats.Unresolved,
		"elapsed":    report.Elapsed,
	}).Info("Batch finished")

	return report, nil
}

// runWorker evaluates queued cases until the queue closes or ctx is cancelled.
// Each index is written by exactly one worker.
func (r *Runner) runWorker(ctx context.Context, workerID int, cases []Case, queue <-chan int, results []CaseResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case i, ok := <-queue:
			if !ok {
				return
			}
			results[i] = r.evaluate(workerID, i, cases[i])
		}
	}
}

func (r *Runner) evaluate(workerID, index int, c Case) CaseResult {
	start := time.Now()
	result, err := r.sys.Run(c.Inputs)

	out := CaseResult{
		Index:    index,
		ID:       c.ID,
		WorkerID: workerID,
		Duration: time.Since(start),
		Result:   result,
		err:      err,
	}
	if err != nil {
		out.Error = err.Error()
	}

	fields := logrus.Fields{
		"case":     caseName(index, c.ID),
		"worker":   workerID,
		"duration": out.Duration,
	}
	if err != nil {
		r.logger.WithFields(fields).WithError(err).Warn("Case failed")
	} else {
		r.logger.WithFields(fields).Debug("Case evaluated")
	}
	return out
}

func caseName(index int, id string) string {
	if id != "" {
		return id
	}
	return fmt.Sprintf("#%d", index+1)
}

type caseFile struct {
	Cases []Case `yaml:"cases"`
}

// LoadCases reads cases from a YAML or JSON file of the form {cases: [{id, inputs}]}
func LoadCases(path string) ([]Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read cases: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file caseFile
	if err := dec.Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse cases: empty document")
		}
		return nil, fmt.Errorf("failed to parse cases: %w", err)
	}
	if len(file.Cases) == 0 {
		return nil, fmt.Errorf("no cases in %s", path)
	}
	return file.Cases, nil
}
