/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: rule.go
Description: Rule model for the fuzzy inference core. An antecedent is a flat sequence of
tagged tokens (term, AND, OR, NOT marker) with no grouping; the consequent names one
output set. Structural checks run when a rule is added, never during a run.
*/

package fuzzy

import (
	"fmt"
	"strings"
)

// TokenKind tags an antecedent token
type TokenKind int

const (
	TokenTerm TokenKind = iota
	TokenAnd
	TokenOr
	TokenNot
)

func (k TokenKind) String() string {
	switch k {
	case TokenTerm:
		return "term"
	case TokenAnd:
		return "and"
	case TokenOr:
		return "or"
	case TokenNot:
		return "not"
	default:
		return fmt.Sprintf("token(%d)", int(k))
	}
}

// Term references a fuzzy set of an input variable
type Term struct {
	Variable string `json:"variable"`
	Set      string `json:"set"`
}

func (t Term) String() string {
	return t.Variable + " " + t.Set
}

// Token is one element of an antecedent. Term is only meaningful for TokenTerm.
type Token struct {
	Kind TokenKind
	Term Term
}

// Operator tokens
var (
	And = Token{Kind: TokenAnd}
	Or  = Token{Kind: TokenOr}
	Not = Token{Kind: TokenNot}
)

// Is builds a term token for "variable set"
func Is(variable, set string) Token {
	return Token{Kind: TokenTerm, Term: Term{Variable: variable, Set: set}}
}

func (t Token) String() string {
	if t.Kind == TokenTerm {
		return t.Term.String()
	}
	return t.Kind.String()
}

// Consequent names the output set a rule supports
type Consequent struct {
	Variable string `json:"variable"`
	Set      string `json:"set"`
}

// Rule is an immutable IF antecedent THEN consequent statement
type Rule struct {
	Antecedent []Token
	Consequent Consequent
}

// NewRule copies the tokens so later edits by the caller cannot reach the rule
func NewRule(antecedent []Token, consequent Consequent) Rule {
	tokens := make([]Token, len(antecedent))
	copy(tokens, antecedent)
	return Rule{Antecedent: tokens, Consequent: consequent}
}

// Terms returns the terms referenced by the antecedent, in order
func (r Rule) Terms() []Term {
	var terms []Term
	for _, tok := range r.Antecedent {
		if tok.Kind == TokenTerm {
			terms = append(terms, tok.Term)
		}
	}
	return terms
}

// String renders the rule in surface syntax, e.g. "Temp Hot and not Humidity Low => Fan High"
func (r Rule) String() string {
	parts := make([]string, 0, len(r.Antecedent)+1)
	for _, tok := range r.Antecedent {
		parts = append(parts, tok.String())
	}
	return fmt.Sprintf("%s => %s %s", strings.Join(parts, " "), r.Consequent.Variable, r.Consequent.Set)
}

// checkStructure verifies NOT* TERM ((AND|OR) NOT* TERM)*
func checkStructure(antecedent []Token) error {
	if len(antecedent) == 0 {
		return fmt.Errorf("%w: empty antecedent", ErrMalformedRule)
	}

	expectOperand := true
	for i, tok := range antecedent {
		switch tok.Kind {
		case TokenNot:
			if !expectOperand {
				return fmt.Errorf("%w: 'not' at position %d must follow an operator", ErrMalformedRule, i)
			}
		case TokenTerm:
			if !expectOperand {
				return fmt.Errorf("%w: term %q at position %d must follow an operator", ErrMalformedRule, tok.Term, i)
			}
			if tok.Term.Variable == "" || tok.Term.Set == "" {
				return fmt.Errorf("%w: incomplete term at position %d", ErrMalformedRule, i)
			}
			expectOperand = false
		case TokenAnd, TokenOr:
			if expectOperand {
				return fmt.Errorf("%w: operator %q at position %d has no left operand", ErrMalformedRule, tok.Kind, i)
			}
			expectOperand = true
		default:
			return fmt.Errorf("%w: unknown token kind %d at position %d", ErrMalformedRule, int(tok.Kind), i)
		}
	}

	if expectOperand {
		return fmt.Errorf("%w: antecedent ends without a term", ErrMalformedRule)
	}
	return nil
}
