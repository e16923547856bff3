// Package pipeline wires the compiler's phases together: lexer -> parser ->
// symtab -> infer -> codegen. It is the single entry point cmd/sipc and the
// package's own integration tests drive a source file through.
package pipeline

import (
	"github.com/llir/llvm/ir"

	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/codegen"
	"github.com/sipforge/sip/internal/infer"
	"github.com/sipforge/sip/internal/parser"
	"github.com/sipforge/sip/internal/symtab"
	"github.com/sipforge/sip/internal/types"
)

// Result carries every intermediate artifact a caller might want: cmd/sipc's
// check subcommand stops after Collector/Unifier, build needs the Module.
type Result struct {
	Program   *ast.Program
	Table     *symtab.Table
	Collector *infer.Collector
	Unifier   *types.Unifier
	Module    *ir.Module
}

// Compile runs a source file through every phase and returns the lowered
// module. The first error encountered aborts the pipeline, per spec.md §7;
// ParseProgram's error slice is returned as-is when parsing fails so the
// caller can report every syntax error at once rather than just the first.
func Compile(src []byte, filename string) (*Result, []error) {
	prog, parseErrs := parser.ParseProgram(src, filename)
	if len(parseErrs) > 0 {
		return nil, parseErrs
	}

	r, err := Check(prog)
	if err != nil {
		return nil, []error{err}
	}

	mod, err := codegen.Build(prog, r.Table, r.Collector, r.Unifier)
	if err != nil {
		return nil, []error{err}
	}
	r.Module = mod
	return r, nil
}

// Check runs the front end only: symbol table construction and constraint
// collection/unification, without lowering to IR. Used by sipc check and by
// the repl, which only need inferred types.
func Check(prog *ast.Program) (*Result, error) {
	tab, err := symtab.Build(prog)
	if err != nil {
		return nil, err
	}

	collect, u := infer.New(tab)
	if err := collect.Collect(prog); err != nil {
		return nil, err
	}

	return &Result{Program: prog, Table: tab, Collector: collect, Unifier: u}, nil
}
