// Package infer implements the constraint collector (C2): it walks a SIP
// AST and feeds equality constraints into a types.Unifier, resolving every
// variable use to the type variable of its canonical declaration.
package infer

import (
	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/diagnostics"
	"github.com/sipforge/sip/internal/symtab"
	"github.com/sipforge/sip/internal/token"
	"github.com/sipforge/sip/internal/types"
)

// Collector walks a Program and emits constraints into its Unifier.
type Collector struct {
	tab *symtab.Table
	u   *types.Unifier

	varFor map[interface{}]*types.Var
	order  int
	alphas int

	scope *ast.FuncDecl
}

// New creates a Collector over a built symbol table. It owns a fresh
// Unifier, returned alongside the collector so the caller can query
// inferred types once collection succeeds.
func New(tab *symtab.Table) (*Collector, *types.Unifier) {
	u := types.NewUnifier()
	c := &Collector{tab: tab, u: u, varFor: map[interface{}]*types.Var{}}
	return c, u
}

// freshAlpha returns a new free type variable not tied to any AST node: a
// Var keyed by a fresh *types.Alpha, so the unifier binds it like any other
// variable.
func (c *Collector) freshAlpha() *types.Var {
	c.alphas++
	c.order++
	a := &types.Alpha{Tag: c.alphas}
	return &types.Var{Node: a, Label: a.String(), Order: c.order}
}

// astToVar returns the canonical type variable for n: for a variable
// expression, this resolves through the symbol table to the declaration
// node (so every use of the same local shares one variable); for anything
// else, n itself is the canonical key.
func (c *Collector) astToVar(n ast.Node, label string) *types.Var {
	var key interface{} = n
	if ve, ok := n.(*ast.VariableExpr); ok {
		if d, ok := c.tab.GetLocal(ve.Name, c.scope); ok {
			key = d
		} else if f, ok := c.tab.GetFunction(ve.Name); ok {
			key = f
		}
	}
	if v, ok := c.varFor[key]; ok {
		return v
	}
	c.order++
	v := &types.Var{Node: key, Label: label, Order: c.order}
	c.varFor[key] = v
	return v
}

// TypeOf returns the inferred type of n: its canonical variable resolved
// through the unifier. Callers use this after Collect; for a node Collect
// never visited it creates a fresh, unbound variable.
func (c *Collector) TypeOf(n ast.Node) types.Type {
	return c.u.Resolve(c.astToVar(n, "?"))
}

func (c *Collector) unify(pos token.Pos, a, b types.Type) error {
	if err := c.u.Unify(a, b); err != nil {
		if conflict, ok := err.(*types.ConflictError); ok {
			return diagnostics.New(diagnostics.TYP001, pos, "%s", conflict.Error())
		}
		return diagnostics.New(diagnostics.TYP001, pos, "%s", err.Error())
	}
	return nil
}

// Collect walks every function in prog and emits its constraints. The first
// conflict aborts collection and is returned.
func (c *Collector) Collect(prog *ast.Program) error {
	for _, f := range prog.Funcs {
		if err := c.collectFunc(f); err != nil {
			return err
		}
	}
	return nil
}

func (c *Collector) collectFunc(f *ast.FuncDecl) error {
	c.scope = f

	lastReturn := lastReturnStmt(f.Body)

	if f.Name == "main" {
		for _, formal := range f.Formals {
			if err := c.unify(formal.Pos, c.astToVar(formal, formal.Name), types.Int{}); err != nil {
				return err
			}
		}
		if lastReturn != nil {
			if err := c.unify(lastReturn.Pos, c.astToVar(lastReturn.Arg, "ret"), types.Int{}); err != nil {
				return err
			}
		}
	}

	for _, s := range f.Body {
		if err := c.collectStmt(s); err != nil {
			return err
		}
	}

	params := make([]types.Type, len(f.Formals))
	for i, formal := range f.Formals {
		params[i] = c.astToVar(formal, formal.Name)
	}
	var ret types.Type = types.Int{}
	if lastReturn != nil {
		ret = c.astToVar(lastReturn.Arg, "ret")
	}
	fv := c.astToVar(f, f.Name)
	return c.unify(f.Pos, fv, &types.Fun{Params: params, Ret: ret})
}

func lastReturnStmt(stmts []ast.Stmt) *ast.ReturnStmt {
	if len(stmts) == 0 {
		return nil
	}
	if r, ok := stmts[len(stmts)-1].(*ast.ReturnStmt); ok {
		return r
	}
	return nil
}

func (c *Collector) fields() []string { return c.tab.GetFields() }
