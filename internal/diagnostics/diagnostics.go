// Package diagnostics provides the phase-prefixed error-code taxonomy shared
// by every compilation phase and a plain-text Report type; coloring is done
// by cmd/sipc, not here.
package diagnostics

import (
	"fmt"

	"github.com/sipforge/sip/internal/token"
)

// Error code constants, grouped by the phase that raises them.
const (
	// Parser errors.
	PAR001 = "PAR001" // unexpected token
	PAR002 = "PAR002" // malformed integer literal
	PAR003 = "PAR003" // token cannot start an expression

	// Symbol table errors.
	SYM001 = "SYM001" // duplicate function declaration
	SYM002 = "SYM002" // duplicate local declaration
	SYM003 = "SYM003" // undeclared identifier

	// Type errors.
	TYP001 = "TYP001" // type conflict
	TYP002 = "TYP002" // occurs check (only reachable if Mu introduction is disabled)

	// Code generation / internal-invariant errors.
	IR001 = "IR001" // internal invariant violation
	IR002 = "IR002" // module verifier failure
)

// Report is a single structured diagnostic: a phase-prefixed code, the
// source position it concerns, a message, and an optional fix suggestion.
type Report struct {
	Code    string
	Pos     token.Pos
	Message string
	Fix     string
}

func (r *Report) Error() string {
	if r.Fix != "" {
		return fmt.Sprintf("%s %s: %s (%s)", r.Code, r.Pos, r.Message, r.Fix)
	}
	return fmt.Sprintf("%s %s: %s", r.Code, r.Pos, r.Message)
}

// New builds a Report.
func New(code string, pos token.Pos, format string, args ...interface{}) *Report {
	return &Report{Code: code, Pos: pos, Message: fmt.Sprintf(format, args...)}
}

// WithFix attaches a fix suggestion and returns the same Report for chaining.
func (r *Report) WithFix(fix string) *Report {
	r.Fix = fix
	return r
}

// Bug reports an internal invariant violation: a condition that should be
// unreachable once parsing and type inference have succeeded. It always
// carries a source position so the offending node can be located.
func Bug(pos token.Pos, format string, args ...interface{}) *Report {
	return New(IR001, pos, format, args...)
}
