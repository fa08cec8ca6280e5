/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: batch.go
Description: Batch reports: the per-case outcomes and statistics of a batch run, written
next to single-run reports with a "batch" marker in the file name.
*/

package reporting

import (
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-fuzzy/pkg/batch"
)

// BatchReport is the persisted record of a batch run
type BatchReport struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Definition  string             `json:"definition,omitempty"`
	Elapsed     time.Duration      `json:"elapsed"`
	Stats       batch.Stats        `json:"stats"`
	Cases       []batch.CaseResult `json:"cases"`
}

// NewBatchReport wraps a finished batch with a run ID
func NewBatchReport(definition string, report *batch.Report) *BatchReport {
	return &BatchReport{
		RunID:       uuid.New().String(),
		GeneratedAt: time.Now(),
		Definition:  definition,
		Elapsed:     report.Elapsed,
		Stats:       report.Stats,
		Cases:       report.Cases,
	}
}

// WriteBatchReport writes report to dir as JSON and returns the file path.
// Files are named 2024-06-11_01-30-00_<definition>_batch_<run id prefix>.json.
func WriteBatchReport(dir string, report *BatchReport) (string, error) {
	return writeReport(dir, report.GeneratedAt, report.Definition, "batch", report.RunID, report)
}
