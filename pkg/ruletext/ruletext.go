/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: ruletext.go
Description: Parser for the textual rule syntax "IN_var set [and|or] [not] IN_var set ... =>
OUT_var set". Words are separated by whitespace; operators are case-insensitive. The
result is a structured rule ready for fuzzy.System.AddRule.
*/

package ruletext

import (
	"fmt"
	"strings"

	"github.com/kleascm/akaylee-fuzzy/pkg/fuzzy"
)

// Arrow separates the antecedent from the consequent
const Arrow = "=>"

// SyntaxError describes where a rule text went wrong.
// It unwraps to fuzzy.ErrMalformedRule.
type SyntaxError struct {
	Text     string
	Position int // index of the offending word, -1 for whole-rule problems
	Reason   string
}

func (e *SyntaxError) Error() string {
	if e.Position < 0 {
		return fmt.Sprintf("rule %q: %s", e.Text, e.Reason)
	}
	return fmt.Sprintf("rule %q: word %d: %s", e.Text, e.Position+1, e.Reason)
}

// Unwrap lets errors.Is match fuzzy.ErrMalformedRule
func (e *SyntaxError) Unwrap() error {
	return fuzzy.ErrMalformedRule
}

// Parse converts one rule text into a rule. Names are single words other than
// and, or, not and =>; fuzzy.System refuses any other variable or set name.
func Parse(text string) (fuzzy.Rule, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return fuzzy.Rule{}, &SyntaxError{Text: text, Position: -1, Reason: "empty rule"}
	}

	arrow := -1
	for i, w := range words {
		if w != Arrow {
			continue
		}
		if arrow >= 0 {
			return fuzzy.Rule{}, &SyntaxError{Text: text, Position: i, Reason: "'=>' must appear once"}
		}
		arrow = i
	}
	if arrow < 0 {
		return fuzzy.Rule{}, &SyntaxError{Text: text, Position: -1, Reason: "missing '=>'"}
	}

	consequent := words[arrow+1:]
	if len(consequent) != 2 {
		return fuzzy.Rule{}, &SyntaxError{Text: text, Position: arrow, Reason: "consequent must be exactly 'OUT_var set'"}
	}
	if isOperator(consequent[0]) || isOperator(consequent[1]) {
		return fuzzy.Rule{}, &SyntaxError{Text: text, Position: arrow + 1, Reason: "operators are not allowed in the consequent"}
	}

	antecedent, err := parseAntecedent(text, words[:arrow])
	if err != nil {
		return fuzzy.Rule{}, err
	}

	return fuzzy.NewRule(antecedent, fuzzy.Consequent{Variable: consequent[0], Set: consequent[1]}), nil
}

// parseAntecedent reads NOT* var set ((and|or) NOT* var set)*
func parseAntecedent(text string, words []string) ([]fuzzy.Token, error) {
	if len(words) == 0 {
		return nil, &SyntaxError{Text: text, Position: 0, Reason: "antecedent is empty"}
	}

	var tokens []fuzzy.Token
	expectOperand := true
	for i := 0; i < len(words); i++ {
		w := words[i]
		switch strings.ToLower(w) {
		case "not":
			if !expectOperand {
				return nil, &SyntaxError{Text: text, Position: i, Reason: "'not' must precede a term"}
			}
			tokens = append(tokens, fuzzy.Not)
		case "and", "or":
			if expectOperand {
				return nil, &SyntaxError{Text: text, Position: i, Reason: fmt.Sprintf("unexpected operator %q", w)}
			}
			if strings.EqualFold(w, "and") {
				tokens = append(tokens, fuzzy.And)
			} else {
				tokens = append(tokens, fuzzy.Or)
			}
			expectOperand = true
		default:
			if !expectOperand {
				return nil, &SyntaxError{Text: text, Position: i, Reason: fmt.Sprintf("expected 'and' or 'or', got %q", w)}
			}
			if i+1 >= len(words) || isOperator(words[i+1]) {
				return nil, &SyntaxError{Text: text, Position: i, Reason: fmt.Sprintf("variable %q has no set", w)}
			}
			tokens = append(tokens, fuzzy.Is(w, words[i+1]))
			i++
			expectOperand = false
		}
	}

	if expectOperand {
		return nil, &SyntaxError{Text: text, Position: len(words) - 1, Reason: "antecedent ends with an operator"}
	}
	return tokens, nil
}

func isOperator(w string) bool {
	switch strings.ToLower(w) {
	case "and", "or", "not":
		return true
	}
	return false
}

// AddRules parses each text and adds it to sys, stopping at the first failure.
// Rules added before the failure stay in the system.
func AddRules(sys *fuzzy.System, texts []string) error {
	for i, text := range texts {
		rule, err := Parse(text)
		if err != nil {
			return fmt.Errorf("rule %d: %w", i+1, err)
		}
		if err := sys.AddRule(rule.Antecedent, rule.Consequent); err != nil {
			return fmt.Errorf("rule %d (%s): %w", i+1, text, err)
		}
	}
	return nil
}
