/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: defuzz.go
Description: Rule aggregation and defuzzification. Activations for the same output set
are combined with max; the crisp value is the activation-weighted average of the set
centroids of one output variable.
*/

package fuzzy

// Activation is the support one rule gives to an output set
type Activation struct {
	Variable string  `json:"variable"`
	Set      string  `json:"set"`
	Strength float64 `json:"strength"`
}

// Aggregate groups activations by output variable and keeps, per output set,
// the strongest support.
func Aggregate(activations []Activation) map[string]map[string]float64 {
	out := make(map[string]map[string]float64)
	for _, a := range activations {
		sets, ok := out[a.Variable]
		if !ok {
			sets = make(map[string]float64)
			out[a.Variable] = sets
		}
		if current, seen := sets[a.Set]; !seen || a.Strength > current {
			sets[a.Set] = a.Strength
		}
	}
	return out
}

// Defuzzify computes sum(activation*centroid)/sum(activation) over the aggregated
// sets of v. It returns false when nothing fired (the sum of activations is zero).
func Defuzzify(v *Variable, aggregated map[string]float64) (float64, bool) {
	var weighted, total float64
	// iterate in declaration order so floating point sums are reproducible
	for _, set := range v.sets {
		activation, ok := aggregated[set.Name]
		if !ok || activation <= 0 {
			continue
		}
		weighted += activation * set.Shape.Centroid()
		total += activation
	}
	if total == 0 {
		return 0, false
	}
	return weighted / total, true
}
