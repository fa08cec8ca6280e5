/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: stats.go
Description: Batch statistics: case counts, run duration percentiles and the spread of
crisp values per output variable.
*/

package batch

import (
	"fmt"
	"time"

	"github.com/montanaflynn/stats"
)

// Stats summarizes a finished batch
type Stats struct {
	Cases        int                    `json:"cases"`
	Succeeded    int                    `json:"succeeded"`
	Failed       int                    `json:"failed"`
	Unresolved   int                    `json:"unresolved"` // successful cases with an output no rule fired for
	Workers      int                    `json:"workers"`
	MeanDuration time.Duration          `json:"mean_duration"`
	P95Duration  time.Duration          `json:"p95_duration"`
	Outputs      map[string]OutputStats `json:"outputs"`
}

// OutputStats describes the crisp values one output variable took across a batch.
// Cases where the output had no applicable rule are left out.
type OutputStats struct {
	Count  int     `json:"count"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

func summarize(results []CaseResult) (Stats, error) {
	s := Stats{
		Cases:   len(results),
		Outputs: make(map[string]OutputStats),
	}

	durations := make(stats.Float64Data, 0, len(results))
	values := make(map[string]stats.Float64Data)
	var order []string

	for _, res := range results {
		durations = append(durations, float64(res.Duration))
		if res.err != nil {
			s.Failed++
			continue
		}
		s.Succeeded++

		unresolved := false
		for _, out := range res.Result.Outputs {
			if _, seen := values[out.Variable]; !seen {
				values[out.Variable] = stats.Float64Data{}
				order = append(order, out.Variable)
			}
			if !out.Applicable {
				unresolved = true
				continue
			}
			values[out.Variable] = append(values[out.Variable], out.Value)
		}
		if unresolved {
			s.Unresolved++
		}
	}

	if len(durations) > 0 {
		mean, err := durations.Mean()
		if err != nil {
			return s, fmt.Errorf("failed to summarize durations: %w", err)
		}
		p95, err := durations.Percentile(95)
		if err != nil {
			return s, fmt.Errorf("failed to summarize durations: %w", err)
		}
		s.MeanDuration = time.Duration(mean)
		s.P95Duration = time.Duration(p95)
	}

	for _, name := range order {
		data := values[name]
		if len(data) == 0 {
			s.Outputs[name] = OutputStats{}
			continue
		}
		o, err := describe(data)
		if err != nil {
			return s, fmt.Errorf("failed to summarize output %s: %w", name, err)
		}
		s.Outputs[name] = o
	}

	return s, nil
}

func describe(data stats.Float64Data) (OutputStats, error) {
	var (
		o   = OutputStats{Count: len(data)}
		err error
	)
	if o.Min, err = data.Min(); err != nil {
		return o, err
	}
	if o.Max, err = data.Max(); err != nil {
		return o, err
	}
	if o.Mean, err = data.Mean(); err != nil {
		return o, err
	}
	if o.StdDev, err = data.StandardDeviation(); err != nil {
		return o, err
	}
	return o, nil
}
