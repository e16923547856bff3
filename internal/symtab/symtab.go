// Package symtab builds the symbol table that the constraint collector and
// the IR lowering both depend on: it resolves a variable name, within a
// given function scope, to its single canonical declaration node, and it
// assigns the program-global index for every distinct record field name.
package symtab

import (
	"fmt"

	"github.com/sipforge/sip/internal/ast"
)

// Table is the result of a successful symbol-table build.
type Table struct {
	functions map[string]*ast.FuncDecl
	funcOrder []*ast.FuncDecl

	locals     map[*ast.FuncDecl]map[string]*ast.Decl
	localOrder map[*ast.FuncDecl][]*ast.Decl

	fields     []string
	fieldIndex map[string]int
}

// LocalsInOrder returns every local of scope (formals first, then each
// "var" and for-loop declaration) in the order it was first encountered.
// Codegen uses this to allocate one stack slot per local at function
// entry.
func (t *Table) LocalsInOrder(scope *ast.FuncDecl) []*ast.Decl {
	return t.localOrder[scope]
}

// GetFunction resolves a function name to its declaration.
func (t *Table) GetFunction(name string) (*ast.FuncDecl, bool) {
	f, ok := t.functions[name]
	return f, ok
}

// GetLocal resolves a local name within a function scope (the function's
// formals and its "var" declarations share one flat namespace, as in the
// source language: there is no block-level shadowing).
func (t *Table) GetLocal(name string, scope *ast.FuncDecl) (*ast.Decl, bool) {
	d, ok := t.locals[scope][name]
	return d, ok
}

// Functions returns all functions in declaration order.
func (t *Table) Functions() []*ast.FuncDecl { return t.funcOrder }

// FunctionIndex returns a function's position in the dispatch table.
func (t *Table) FunctionIndex(f *ast.FuncDecl) int { return f.Index }

// GetFields returns the canonical, program-global record field ordering:
// every distinct field name used anywhere in the program, in the order it
// was first encountered while walking functions and their bodies in
// declaration order. This is the global record's width and slot layout.
func (t *Table) GetFields() []string { return t.fields }

// FieldIndex returns a field's slot in the global record.
func (t *Table) FieldIndex(name string) (int, bool) {
	i, ok := t.fieldIndex[name]
	return i, ok
}

// Build resolves every function and local declaration in prog and computes
// the global record field ordering. It returns an error for duplicate
// function names or duplicate local declarations within one function scope.
// A for-loop variable whose name is already declared in the scope reuses
// that declaration: the loop's Var is pointed at the existing node.
func Build(prog *ast.Program) (*Table, error) {
	t := &Table{
		functions:  map[string]*ast.FuncDecl{},
		locals:     map[*ast.FuncDecl]map[string]*ast.Decl{},
		localOrder: map[*ast.FuncDecl][]*ast.Decl{},
		fieldIndex: map[string]int{},
	}

	for i, f := range prog.Funcs {
		if _, dup := t.functions[f.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate function declaration %q", f.Pos, f.Name)
		}
		f.Index = i
		t.functions[f.Name] = f
		t.funcOrder = append(t.funcOrder, f)
	}

	for _, f := range prog.Funcs {
		scope := map[string]*ast.Decl{}
		for _, formal := range f.Formals {
			if _, dup := scope[formal.Name]; dup {
				return nil, fmt.Errorf("%s: duplicate declaration of %q in %s", formal.Pos, formal.Name, f.Name)
			}
			scope[formal.Name] = formal
			t.localOrder[f] = append(t.localOrder[f], formal)
		}
		t.locals[f] = scope
		if err := t.declareLocals(f, f.Body, scope); err != nil {
			return nil, err
		}
	}

	for _, f := range prog.Funcs {
		for _, s := range f.Body {
			t.collectFields(s)
		}
	}

	return t, nil
}

func (t *Table) declareLocals(f *ast.FuncDecl, stmts []ast.Stmt, scope map[string]*ast.Decl) error {
	for _, s := range stmts {
		switch s := s.(type) {
		case *ast.DeclStmt:
			for _, d := range s.Decls {
				if _, dup := scope[d.Name]; dup {
					return fmt.Errorf("%s: duplicate declaration of %q in %s", d.Pos, d.Name, f.Name)
				}
				scope[d.Name] = d
				t.localOrder[f] = append(t.localOrder[f], d)
			}
		case *ast.BlockStmt:
			if err := t.declareLocals(f, s.Stmts, scope); err != nil {
				return err
			}
		case *ast.IfStmt:
			if err := t.declareLocals(f, []ast.Stmt{s.Then}, scope); err != nil {
				return err
			}
			if s.Else != nil {
				if err := t.declareLocals(f, []ast.Stmt{s.Else}, scope); err != nil {
					return err
				}
			}
		case *ast.WhileStmt:
			if err := t.declareLocals(f, []ast.Stmt{s.Body}, scope); err != nil {
				return err
			}
		case *ast.ForRangeStmt:
			if existing, ok := scope[s.Var.Name]; ok {
				s.Var = existing
			} else {
				scope[s.Var.Name] = s.Var
				t.localOrder[f] = append(t.localOrder[f], s.Var)
			}
			if err := t.declareLocals(f, []ast.Stmt{s.Body}, scope); err != nil {
				return err
			}
		case *ast.ForIterStmt:
			if existing, ok := scope[s.Var.Name]; ok {
				s.Var = existing
			} else {
				scope[s.Var.Name] = s.Var
				t.localOrder[f] = append(t.localOrder[f], s.Var)
			}
			if err := t.declareLocals(f, []ast.Stmt{s.Body}, scope); err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Table) addField(name string) {
	if _, ok := t.fieldIndex[name]; ok {
		return
	}
	t.fieldIndex[name] = len(t.fields)
	t.fields = append(t.fields, name)
}

func (t *Table) collectFields(n ast.Node) {
	switch n := n.(type) {
	case *ast.DeclStmt:
	case *ast.AssignStmt:
		t.collectFields(n.LHS)
		t.collectFields(n.RHS)
	case *ast.BlockStmt:
		for _, s := range n.Stmts {
			t.collectFields(s)
		}
	case *ast.IfStmt:
		t.collectFields(n.Cond)
		t.collectFields(n.Then)
		if n.Else != nil {
			t.collectFields(n.Else)
		}
	case *ast.WhileStmt:
		t.collectFields(n.Cond)
		t.collectFields(n.Body)
	case *ast.ForRangeStmt:
		t.collectFields(n.Low)
		t.collectFields(n.High)
		if n.Step != nil {
			t.collectFields(n.Step)
		}
		t.collectFields(n.Body)
	case *ast.ForIterStmt:
		t.collectFields(n.Array)
		t.collectFields(n.Body)
	case *ast.OutputStmt:
		t.collectFields(n.Arg)
	case *ast.ErrorStmt:
		t.collectFields(n.Arg)
	case *ast.ReturnStmt:
		t.collectFields(n.Arg)
	case *ast.ExprStmt:
		t.collectFields(n.Expr)
	case *ast.AllocExpr:
		t.collectFields(n.Init)
	case *ast.RefExpr:
		t.collectFields(n.Var)
	case *ast.DeRefExpr:
		t.collectFields(n.Ptr)
	case *ast.BinaryExpr:
		t.collectFields(n.Left)
		t.collectFields(n.Right)
	case *ast.UnaryExpr:
		t.collectFields(n.Expr)
	case *ast.TernaryExpr:
		t.collectFields(n.Cond)
		t.collectFields(n.Then)
		t.collectFields(n.Else)
	case *ast.FunAppExpr:
		t.collectFields(n.Func)
		for _, a := range n.Args {
			t.collectFields(a)
		}
	case *ast.RecordExpr:
		for _, f := range n.Fields {
			t.addField(f.Name)
			t.collectFields(f.Init)
		}
	case *ast.AccessExpr:
		t.addField(n.Field)
		t.collectFields(n.Record)
	case *ast.ArrayExpr:
		for _, e := range n.Elements {
			t.collectFields(e)
		}
	case *ast.ArrayOfExpr:
		t.collectFields(n.Length)
		t.collectFields(n.Value)
	case *ast.ArrayRefExpr:
		t.collectFields(n.Array)
		t.collectFields(n.Index)
	}
}
