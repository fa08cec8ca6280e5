/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: errors.go
Description: Error kinds raised by the fuzzy inference core. Configuration errors reject
a single addition and leave the system usable; run-time errors abort only the current run.
Callers match them with errors.Is.
*/

package fuzzy

import "errors"

// Configuration errors
var (
	ErrDuplicateVariable = errors.New("duplicate variable")
	ErrUnknownVariable   = errors.New("unknown variable")
	ErrUnknownSet        = errors.New("unknown fuzzy set")
	ErrDuplicateSet      = errors.New("duplicate fuzzy set")
	ErrInvalidShape      = errors.New("invalid shape")
	ErrInvalidDomain     = errors.New("invalid domain")
	ErrRoleMismatch      = errors.New("role mismatch")
	ErrMalformedRule     = errors.New("malformed rule")
)

// Run-time errors
var (
	ErrOutOfDomain         = errors.New("value out of domain")
	ErrUndefinedMembership = errors.New("undefined membership")
	ErrMissingInput        = errors.New("missing input")

	// ErrNoApplicableRule is never returned by Run itself. It marks an output
	// for which no rule fired and is returned by Result.Output.
	ErrNoApplicableRule = errors.New("no applicable rule")
)
