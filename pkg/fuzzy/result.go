/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: result.go
Description: Structured results of an inference run: per-output crisp values and labels,
the fuzzified inputs, and the firing strength of every rule.
*/

package fuzzy

import "fmt"

// Output is the inference outcome for one output variable.
// Applicable is false when no rule supporting the variable fired; Value and
// Label are then meaningless and must not be used.
type Output struct {
	Variable    string             `json:"variable"`
	Value       float64            `json:"value"`
	Label       string             `json:"label,omitempty"`
	Applicable  bool               `json:"applicable"`
	Activations map[string]float64 `json:"activations"`
}

// Result is everything a single Run produced
type Result struct {
	Inputs    map[string]float64 `json:"inputs"`    // Crisp inputs, defaults filled in
	Fuzzified Fuzzification      `json:"fuzzified"` // Membership degrees of every input set
	Strengths []Activation       `json:"strengths"` // Firing strength per rule, in rule order
	Outputs   []Output           `json:"outputs"`   // One per output variable, in declaration order
}

// Output returns the outcome for the named output variable.
// It fails with ErrNoApplicableRule when no rule fired for it.
func (r *Result) Output(name string) (Output, error) {
	for _, out := range r.Outputs {
		if out.Variable != name {
			continue
		}
		if !out.Applicable {
			return out, fmt.Errorf("%w: %s", ErrNoApplicableRule, name)
		}
		return out, nil
	}
	return Output{}, fmt.Errorf("%w: no output variable %q", ErrUnknownVariable, name)
}
