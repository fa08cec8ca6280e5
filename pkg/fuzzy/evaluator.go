/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: evaluator.go
Description: Antecedent evaluation with fixed operator precedence (NOT > AND > OR).
Each pass builds a new, shorter sequence instead of editing the previous one in place,
so every stage can be inspected and tested on its own.
*/

package fuzzy

import (
	"fmt"
	"math"
)

// Fuzzification maps variable name -> set name -> membership degree
type Fuzzification map[string]map[string]float64

// Degree looks up the membership degree of a term
func (f Fuzzification) Degree(t Term) (float64, bool) {
	sets, ok := f[t.Variable]
	if !ok {
		return 0, false
	}
	degree, ok := sets[t.Set]
	return degree, ok
}

// step is an element of a partially reduced antecedent
type step struct {
	kind  TokenKind
	value float64
}

// Evaluate reduces an antecedent to its firing strength in [0,1]
func Evaluate(antecedent []Token, fuzzified Fuzzification) (float64, error) {
	if err := checkStructure(antecedent); err != nil {
		return 0, err
	}

	resolved, err := resolveTerms(antecedent, fuzzified)
	if err != nil {
		return 0, err
	}

	reduced := collapse(collapse(negate(resolved), TokenAnd, math.Min), TokenOr, math.Max)
	if len(reduced) != 1 || reduced[0].kind != TokenTerm {
		return 0, fmt.Errorf("%w: antecedent did not reduce to a single value", ErrMalformedRule)
	}
	return reduced[0].value, nil
}

// resolveTerms replaces every term with its membership degree
func resolveTerms(antecedent []Token, fuzzified Fuzzification) ([]step, error) {
	out := make([]step, 0, len(antecedent))
	for _, tok := range antecedent {
		if tok.Kind != TokenTerm {
			out = append(out, step{kind: tok.Kind})
			continue
		}
		degree, ok := fuzzified.Degree(tok.Term)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUndefinedMembership, tok.Term)
		}
		out = append(out, step{kind: TokenTerm, value: degree})
	}
	return out, nil
}

// negate folds every run of NOT markers into the value that follows it
func negate(steps []step) []step {
	out := make([]step, 0, len(steps))
	pending := 0
	for _, s := range steps {
		if s.kind == TokenNot {
			pending++
			continue
		}
		if s.kind == TokenTerm {
			for ; pending > 0; pending-- {
				s.value = 1 - s.value
			}
		}
		out = append(out, s)
	}
	return out
}

// collapse scans left to right and merges each (left, op, right) triple into combine(left, right)
func collapse(steps []step, op TokenKind, combine func(a, b float64) float64) []step {
	out := make([]step, 0, len(steps))
	for i := 0; i < len(steps); i++ {
		s := steps[i]
		if s.kind == op && len(out) > 0 && i+1 < len(steps) {
			left := out[len(out)-1]
			out[len(out)-1] = step{kind: TokenTerm, value: combine(left.value, steps[i+1].value)}
			i++
			continue
		}
		out = append(out, s)
	}
	return out
}
