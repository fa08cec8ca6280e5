/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: definition.go
Description: Declarative fuzzy system definitions. A definition document lists variables
with their ranges and fuzzy sets plus rules in text form, and is stored as YAML (JSON is
accepted too). Documents are loaded, saved and built into a ready fuzzy.System.
*/

package definition

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
	"github.com/kleascm/akaylee-fuzzy/pkg/ruletext"
	"gopkg.in/yaml.v3"
)

// Document is the on-disk form of a fuzzy system
type Document struct {
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Variables   []VariableSpec `yaml:"variables" json:"variables"`
	Rules       []string       `yaml:"rules" json:"rules"`
}

// VariableSpec describes one variable
type VariableSpec struct {
	Name    string    `yaml:"name" json:"name"`
	Role    string    `yaml:"role" json:"role"`   // IN or OUT
	Range   []float64 `yaml:"range" json:"range"` // [lo, hi]
	Default *float64  `yaml:"default,omitempty" json:"default,omitempty"`
	Sets    []SetSpec `yaml:"sets" json:"sets"`
}

// SetSpec describes one fuzzy set
type SetSpec struct {
	Name   string    `yaml:"name" json:"name"`
	Type   string    `yaml:"type" json:"type"` // TRI or TRAP
	Values []float64 `yaml:"values" json:"values"`
}

// Load reads a definition document from path
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition: %w", err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

// Parse decodes a definition document, rejecting unknown fields
func Parse(data []byte) (*Document, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	doc := &Document{}
	if err := dec.Decode(doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("failed to parse definition: empty document")
		}
		return nil, fmt.Errorf("failed to parse definition: %w", err)
	}
	return doc, nil
}

// Save writes the document as YAML, creating parent directories
func (d *Document) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create definition directory: %w", err)
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write definition: %w", err)
	}
	return nil
}

// Build creates a fuzzy system from the document. Variables are added first, then
// their sets, then the rules, so the first invalid entry is reported with its location.
func (d *Document) Build(opts ...fuzzy.Option) (*fuzzy.System, error) {
	sys := fuzzy.NewSystem(opts...)

	for i, spec := range d.Variables {
		if err := addVariable(sys, spec); err != nil {
			return nil, fmt.Errorf("variable %d (%s): %w", i+1, spec.Name, err)
		}
	}

	if err := ruletext.AddRules(sys, d.Rules); err != nil {
		return nil, err
	}
	return sys, nil
}

func addVariable(sys *fuzzy.System, spec VariableSpec) error {
	role, err := fuzzy.ParseRole(spec.Role)
	if err != nil {
		return err
	}
	if len(spec.Range) != 2 {
		return fmt.Errorf("%w: range needs [lo, hi], got %v", fuzzy.ErrInvalidDomain, spec.Range)
	}

	var opts []fuzzy.VariableOption
	if spec.Default != nil {
		opts = append(opts, fuzzy.WithDefault(*spec.Default))
	}
	if _, err := sys.AddVariable(spec.Name, role, fuzzy.Domain{Lo: spec.Range[0], Hi: spec.Range[1]}, opts...); err != nil {
		return err
	}

	for _, set := range spec.Sets {
		kind, err := fuzzy.ParseShape(set.Type)
		if err != nil {
			return fmt.Errorf("set %s: %w", set.Name, err)
		}
		if err := sys.AddFuzzySet(spec.Name, set.Name, kind, set.Values); err != nil {
			return err
		}
	}
	return nil
}

// FromSystem captures a system's configuration as a document
func FromSystem(name string, sys *fuzzy.System) *Document {
	doc := &Document{Name: name}
	for _, v := range sys.Variables() {
		spec := VariableSpec{
			Name:  v.Name,
			Role:  string(v.Role),
			Range: []float64{v.Domain.Lo, v.Domain.Hi},
		}
		if d, ok := v.Default(); ok {
			spec.Default = &d
		}
		for _, set := range v.Sets() {
			spec.Sets = append(spec.Sets, SetSpec{
				Name:   set.Name,
				Type:   string(set.Shape.Kind()),
				Values: set.Shape.Points(),
			})
		}
		doc.Variables = append(doc.Variables, spec)
	}
	for _, rule := range sys.Rules() {
		doc.Rules = append(doc.Rules, rule.String())
	}
	return doc
}

// Example returns the temperature/fan system used by the init command
func Example() *Document {
	return &Document{
		Name:        "fan-controller",
		Description: "Fan speed from room temperature",
		Variables: []VariableSpec{
			{
				Name:  "Temp",
				Role:  string(fuzzy.RoleInput),
				Range: []float64{0, 100},
				Sets: []SetSpec{
					{Name: "Cold", Type: string(fuzzy.ShapeTriangular), Values: []float64{0, 0, 50}},
					{Name: "Warm", Type: string(fuzzy.ShapeTrapezoidal), Values: []float64{25, 45, 55, 75}},
					{Name: "Hot", Type: string(fuzzy.ShapeTriangular), Values: []float64{50, 100, 100}},
				},
			},
			{
				Name:  "Fan",
				Role:  string(fuzzy.RoleOutput),
				Range: []float64{0, 10},
				Sets: []SetSpec{
					{Name: "Low", Type: string(fuzzy.ShapeTriangular), Values: []float64{0, 0, 5}},
					{Name: "Medium", Type: string(fuzzy.ShapeTriangular), Values: []float64{2.5, 5, 7.5}},
					{Name: "High", Type: string(fuzzy.ShapeTriangular), Values: []float64{5, 10, 10}},
				},
			},
		},
		Rules: []string{
			"Temp Cold => Fan Low",
			"Temp Warm => Fan Medium",
			"Temp Hot => Fan High",
		},
	}
}
