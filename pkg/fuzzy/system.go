/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: system.go
Description: Mamdani fuzzy inference system. Holds variables and an append-only rule base
and runs fuzzification, antecedent evaluation, aggregation and defuzzification as one
pure reduction per call. Configuration edits take a write lock and runs take a read lock,
so concurrent runs are safe and never observe a half-applied edit.
*/

package fuzzy

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/sirupsen/logrus"
)

// System is a fuzzy inference system
type System struct {
	mu        sync.RWMutex
	variables map[string]*Variable
	order     []string
	rules     []Rule
	logger    logrus.FieldLogger
}

// Option configures a System
type Option func(*System)

// WithLogger routes debug traces of each run to logger
func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *System) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSystem creates an empty system. It logs nothing unless WithLogger is given.
func NewSystem(opts ...Option) *System {
	silent := logrus.New()
	silent.SetOutput(io.Discard)

	s := &System{
		variables: make(map[string]*Variable),
		logger:    silent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddVariable registers a new variable
func (s *System) AddVariable(name string, role Role, domain Domain, opts ...VariableOption) (Variable, error) {
	if err := checkName(name); err != nil {
		return Variable{}, fmt.Errorf("%w: variable %s", ErrUnknownVariable, err)
	}
	if role != RoleInput && role != RoleOutput {
		return Variable{}, fmt.Errorf("%w: variable %s has unknown role %q", ErrRoleMismatch, name, role)
	}
	if !finite(domain.Lo) || !finite(domain.Hi) {
		return Variable{}, fmt.Errorf("%w: %s has a non-finite bound in %s", ErrInvalidDomain, name, domain)
	}
	if domain.Lo > domain.Hi {
		return Variable{}, fmt.Errorf("%w: %s has lo > hi in %s", ErrInvalidDomain, name, domain)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.variables[name]; exists {
		return Variable{}, fmt.Errorf("%w: %s", ErrDuplicateVariable, name)
	}

	v := newVariable(name, role, domain, opts...)
	if d, ok := v.Default(); ok {
		if role != RoleInput {
			return Variable{}, fmt.Errorf("%w: only input variables take a default, %s is %s", ErrRoleMismatch, name, role)
		}
		if !domain.Contains(d) {
			return Variable{}, fmt.Errorf("%w: default %g of %s outside %s", ErrOutOfDomain, d, name, domain)
		}
	}

	s.variables[name] = v
	s.order = append(s.order, name)
	return v.snapshot(), nil
}

// AddFuzzySet attaches a named set to an existing variable
func (s *System) AddFuzzySet(variable, set string, kind ShapeKind, points []float64) error {
	if err := checkName(set); err != nil {
		return fmt.Errorf("%w: %s: set %s", ErrUnknownSet, variable, err)
	}
	shape, err := NewShape(kind, points)
	if err != nil {
		return fmt.Errorf("%s.%s: %w", variable, set, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.variables[variable]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, variable)
	}
	return v.addSet(set, shape)
}

// AddRule validates a rule against the current variables and appends it
func (s *System) AddRule(antecedent []Token, consequent Consequent) error {
	if err := checkStructure(antecedent); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, term := range (Rule{Antecedent: antecedent}).Terms() {
		if err := s.checkReference(term.Variable, term.Set, RoleInput); err != nil {
			return err
		}
	}
	if err := s.checkReference(consequent.Variable, consequent.Set, RoleOutput); err != nil {
		return err
	}

	s.rules = append(s.rules, NewRule(antecedent, consequent))
	return nil
}

// checkName accepts only names a rule text can refer to: a single word that is
// not one of the operators and, or, not or the arrow =>.
func checkName(name string) error {
	if name == "" {
		return fmt.Errorf("name is empty")
	}
	if strings.IndexFunc(name, unicode.IsSpace) >= 0 {
		return fmt.Errorf("name %q contains whitespace", name)
	}
	switch strings.ToLower(name) {
	case "and", "or", "not", "=>":
		return fmt.Errorf("name %q is reserved", name)
	}
	return nil
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func (s *System) checkReference(variable, set string, role Role) error {
	v, ok := s.variables[variable]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVariable, variable)
	}
	if v.Role != role {
		return fmt.Errorf("%w: %s is %s, rule needs %s here", ErrRoleMismatch, variable, v.Role, role)
	}
	if _, ok := v.Set(set); !ok {
		return fmt.Errorf("%w: %s.%s", ErrUnknownSet, variable, set)
	}
	return nil
}

// Variable returns a copy of the named variable
func (s *System) Variable(name string) (Variable, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.variables[name]
	if !ok {
		return Variable{}, false
	}
	return v.snapshot(), true
}

// Variables returns copies of all variables in declaration order
func (s *System) Variables() []Variable {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Variable, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, s.variables[name].snapshot())
	}
	return out
}

// Rules returns the rule base in insertion order
func (s *System) Rules() []Rule {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Rule, len(s.rules))
	copy(out, s.rules)
	return out
}

// Fuzzify computes the membership degree of every set of every supplied input
func (s *System) Fuzzify(inputs map[string]float64) (Fuzzification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.checkInputs(inputs); err != nil {
		return nil, err
	}
	return s.fuzzify(inputs), nil
}

// Run converts crisp inputs into one crisp value per output variable.
// Every input variable needs a value unless it has a default. Outputs no rule
// fired for are reported with Applicable set to false.
func (s *System) Run(inputs map[string]float64) (*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	crisp, err := s.completeInputs(inputs)
	if err != nil {
		return nil, err
	}
	if err := s.checkInputs(crisp); err != nil {
		return nil, err
	}

	fuzzified := s.fuzzify(crisp)
	s.logger.WithField("inputs", crisp).Debug("Fuzzification done")

	strengths := make([]Activation, 0, len(s.rules))
	for i, rule := range s.rules {
		strength, err := Evaluate(rule.Antecedent, fuzzified)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i+1, rule, err)
		}
		strengths = append(strengths, Activation{
			Variable: rule.Consequent.Variable,
			Set:      rule.Consequent.Set,
			Strength: strength,
		})
		s.logger.WithFields(logrus.Fields{
			"rule":     i + 1,
			"text":     rule.String(),
			"strength": strength,
		}).Debug("Rule evaluated")
	}

	aggregated := Aggregate(strengths)
	result := &Result{
		Inputs:    crisp,
		Fuzzified: fuzzified,
		Strengths: strengths,
	}

	for _, name := range s.order {
		v := s.variables[name]
		if v.Role != RoleOutput {
			continue
		}
		out := Output{Variable: name, Activations: aggregated[name]}
		if out.Activations == nil {
			out.Activations = map[string]float64{}
		}
		if value, ok := Defuzzify(v, out.Activations); ok {
			out.Value = value
			out.Label = v.bestLabel(value)
			out.Applicable = true
		}
		s.logger.WithFields(logrus.Fields{
			"variable":    name,
			"value":       out.Value,
			"label":       out.Label,
			"applicable":  out.Applicable,
			"activations": out.Activations,
		}).Debug("Output defuzzified")
		result.Outputs = append(result.Outputs, out)
	}

	return result, nil
}

// completeInputs copies inputs and fills absent input variables from their defaults
func (s *System) completeInputs(inputs map[string]float64) (map[string]float64, error) {
	crisp := make(map[string]float64, len(inputs))
	for name, value := range inputs {
		crisp[name] = value
	}
	for _, name := range s.order {
		v := s.variables[name]
		if v.Role != RoleInput {
			continue
		}
		if _, ok := crisp[name]; ok {
			continue
		}
		d, ok := v.Default()
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, name)
		}
		crisp[name] = d
	}
	return crisp, nil
}

// checkInputs rejects unknown names and out-of-domain values before anything is fuzzified
func (s *System) checkInputs(inputs map[string]float64) error {
	names := make([]string, 0, len(inputs))
	for name := range inputs {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		v, ok := s.variables[name]
		if !ok || v.Role != RoleInput {
			return fmt.Errorf("%w: %q is not an input variable", ErrUnknownVariable, name)
		}
		if value := inputs[name]; !v.Domain.Contains(value) {
			return fmt.Errorf("%w: %s=%g outside %s", ErrOutOfDomain, name, value, v.Domain)
		}
	}
	return nil
}

func (s *System) fuzzify(inputs map[string]float64) Fuzzification {
	out := make(Fuzzification, len(inputs))
	for name, value := range inputs {
		out[name] = s.variables[name].fuzzify(value)
	}
	return out
}
