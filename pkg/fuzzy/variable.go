/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: variable.go
Description: Linguistic variables of a fuzzy system. A variable owns a closed numeric
domain, a role (input or output) and an ordered collection of named fuzzy sets.
*/

package fuzzy

import (
	"fmt"
	"strings"
)

// Role tells whether a variable is read from crisp inputs or produced by inference
type Role string

const (
	RoleInput  Role = "IN"
	RoleOutput Role = "OUT"
)

// ParseRole accepts IN/OUT and input/output, case-insensitively
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IN", "INPUT":
		return RoleInput, nil
	case "OUT", "OUTPUT":
		return RoleOutput, nil
	default:
		return "", fmt.Errorf("unknown role %q (want IN or OUT)", s)
	}
}

// Domain is the closed interval [Lo, Hi]
type Domain struct {
	Lo float64 `json:"lo" yaml:"lo"`
	Hi float64 `json:"hi" yaml:"hi"`
}

// Contains reports whether x lies in [Lo, Hi]
func (d Domain) Contains(x float64) bool {
	return x >= d.Lo && x <= d.Hi
}

func (d Domain) String() string {
	return fmt.Sprintf("[%g, %g]", d.Lo, d.Hi)
}

// FuzzySet is a named membership curve owned by a single variable
type FuzzySet struct {
	Name  string
	Shape Shape
}

// Variable is a named linguistic variable.
// Sets keep their declaration order, which breaks ties in label assignment.
type Variable struct {
	Name   string
	Role   Role
	Domain Domain

	defaultValue *float64
	sets         []FuzzySet
	index        map[string]int
}

// VariableOption customizes a variable at creation time
type VariableOption func(*Variable)

// WithDefault gives an input variable a value used when a run omits it
func WithDefault(value float64) VariableOption {
	return func(v *Variable) {
		v.defaultValue = &value
	}
}

func newVariable(name string, role Role, domain Domain, opts ...VariableOption) *Variable {
	v := &Variable{
		Name:   name,
		Role:   role,
		Domain: domain,
		index:  make(map[string]int),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Default returns the default input value, if one was configured
func (v *Variable) Default() (float64, bool) {
	if v.defaultValue == nil {
		return 0, false
	}
	return *v.defaultValue, true
}

// Sets returns the variable's fuzzy sets in declaration order
func (v *Variable) Sets() []FuzzySet {
	out := make([]FuzzySet, len(v.sets))
	copy(out, v.sets)
	return out
}

// Set looks up a fuzzy set by name
func (v *Variable) Set(name string) (FuzzySet, bool) {
	i, ok := v.index[name]
	if !ok {
		return FuzzySet{}, false
	}
	return v.sets[i], true
}

func (v *Variable) addSet(name string, shape Shape) error {
	if _, exists := v.index[name]; exists {
		return fmt.Errorf("%w: %s.%s", ErrDuplicateSet, v.Name, name)
	}
	for _, p := range shape.Points() {
		if !v.Domain.Contains(p) {
			return fmt.Errorf("%w: point %g of %s.%s outside %s", ErrOutOfDomain, p, v.Name, name, v.Domain)
		}
	}
	v.index[name] = len(v.sets)
	v.sets = append(v.sets, FuzzySet{Name: name, Shape: shape})
	return nil
}

// fuzzify evaluates every set of the variable at x
func (v *Variable) fuzzify(x float64) map[string]float64 {
	degrees := make(map[string]float64, len(v.sets))
	for _, set := range v.sets {
		degrees[set.Name] = set.Shape.Degree(x)
	}
	return degrees
}

// bestLabel returns the set with the highest membership at x.
// Ties go to the set declared first.
func (v *Variable) bestLabel(x float64) string {
	best, bestDegree := "", -1.0
	for _, set := range v.sets {
		if d := set.Shape.Degree(x); d > bestDegree {
			best, bestDegree = set.Name, d
		}
	}
	return best
}

// snapshot deep-copies the variable so callers never share its set storage
func (v *Variable) snapshot() Variable {
	c := Variable{
		Name:         v.Name,
		Role:         v.Role,
		Domain:       v.Domain,
		defaultValue: v.defaultValue,
		sets:         v.Sets(),
		index:        make(map[string]int, len(v.index)),
	}
	for name, i := range v.index {
		c.index[name] = i
	}
	return c
}
