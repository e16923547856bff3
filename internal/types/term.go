// Package types implements the SIP type term model (Hindley-Milner style)
// and a union-find unifier over it.
package types

import (
	"fmt"
	"sort"
	"strings"
)

// Type is any node in the type term model. Every variant is comparable by
// pointer identity except where Equals performs structural comparison.
type Type interface {
	String() string
	Equals(Type) bool
}

// Int is the integer ground type.
type Int struct{}

func (Int) String() string    { return "int" }
func (Int) Equals(o Type) bool { _, ok := o.(Int); return ok }

// Bool is the boolean ground type.
type Bool struct{}

func (Bool) String() string    { return "bool" }
func (Bool) Equals(o Type) bool { _, ok := o.(Bool); return ok }

// AbsentField marks a global record slot that a particular allocation site
// never writes. It unifies with itself and, asymmetrically, with any
// concrete type (the concrete type wins).
type AbsentField struct{}

func (AbsentField) String() string    { return "⊥" }
func (AbsentField) Equals(o Type) bool { _, ok := o.(AbsentField); return ok }

// Ref is a pointer type, written "↑t".
type Ref struct {
	Of Type
}

func (r *Ref) String() string { return "↑" + r.Of.String() }
func (r *Ref) Equals(o Type) bool {
	other, ok := o.(*Ref)
	return ok && r.Of.Equals(other.Of)
}

// Fun is a function type over zero or more parameters.
type Fun struct {
	Params []Type
	Ret    Type
}

func (f *Fun) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	return fmt.Sprintf("(%s)→%s", strings.Join(parts, ", "), f.Ret.String())
}

func (f *Fun) Equals(o Type) bool {
	other, ok := o.(*Fun)
	if !ok || len(f.Params) != len(other.Params) {
		return false
	}
	for i := range f.Params {
		if !f.Params[i].Equals(other.Params[i]) {
			return false
		}
	}
	return f.Ret.Equals(other.Ret)
}

// Array is the unified array type variant: Element is the element type and
// Elements, when non-negative, fixes the compile-time-known literal length
// (for array literals); -1 means the length is not statically known.
type Array struct {
	Element  Type
	Elements int
}

func (a *Array) String() string {
	if a.Elements >= 0 {
		return fmt.Sprintf("%s[%d]", a.Element.String(), a.Elements)
	}
	return a.Element.String() + "[]"
}

func (a *Array) Equals(o Type) bool {
	other, ok := o.(*Array)
	return ok && a.Element.Equals(other.Element)
}

// Record is the program's single global record shape: Names is the full,
// program-global, declaration-order field list, and Fields gives this
// particular record expression's type for each of those names (AbsentField
// for names it never assigns).
type Record struct {
	Names  []string
	Fields map[string]Type
}

// NewRecord builds a Record over the global field list, defaulting every
// field not present in given to AbsentField.
func NewRecord(globalNames []string, given map[string]Type) *Record {
	fields := make(map[string]Type, len(globalNames))
	for _, n := range globalNames {
		if t, ok := given[n]; ok {
			fields[n] = t
		} else {
			fields[n] = AbsentField{}
		}
	}
	return &Record{Names: globalNames, Fields: fields}
}

func (r *Record) String() string {
	var parts []string
	for _, n := range r.Names {
		t := r.Fields[n]
		if _, absent := t.(AbsentField); absent {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s:%s", n, t.String()))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

func (r *Record) Equals(o Type) bool {
	other, ok := o.(*Record)
	if !ok {
		return false
	}
	for _, n := range r.Names {
		a, b := r.Fields[n], other.Fields[n]
		_, aAbs := a.(AbsentField)
		_, bAbs := b.(AbsentField)
		if aAbs != bAbs {
			return false
		}
		if !aAbs && !a.Equals(b) {
			return false
		}
	}
	return true
}

// Var is a type variable canonicalized by the AST node that introduced it
// (a declaration, formal, or expression requiring a fresh unknown). Order
// is the node's position in a stable traversal and is used only to
// tie-break which of two variables becomes the union-find representative
// when unifying var with var.
type Var struct {
	Node  interface{}
	Label string
	Order int
}

func (v *Var) String() string { return v.Label }
func (v *Var) Equals(o Type) bool {
	other, ok := o.(*Var)
	return ok && v.Node == other.Node
}

// Alpha identifies a free type variable not tied to any AST node. The
// constraint collector uses a fresh *Alpha as the Node of such a Var, so the
// unifier binds it like any other variable. Tag distinguishes otherwise
// identical alphas.
type Alpha struct {
	Tag int
}

func (a *Alpha) String() string { return fmt.Sprintf("α_%d", a.Tag) }
func (a *Alpha) Equals(o Type) bool {
	other, ok := o.(*Alpha)
	return ok && a.Tag == other.Tag
}

// Mu introduces a recursive type: Body may refer to Bound to mean "this
// whole type again". Mu nodes are created automatically by the unifier's
// occurs check; they are never user-written.
type Mu struct {
	Bound *Var
	Body  Type
}

func (m *Mu) String() string {
	return fmt.Sprintf("μ%s. %s", m.Bound.String(), m.Body.String())
}

func (m *Mu) Equals(o Type) bool {
	other, ok := o.(*Mu)
	return ok && m.Bound.Equals(other.Bound) && m.Body.Equals(other.Body)
}

// FreeVars returns every Var reachable in t, used by the occurs check.
func FreeVars(t Type) map[*Var]bool {
	out := map[*Var]bool{}
	collectFreeVars(t, out)
	return out
}

func collectFreeVars(t Type, out map[*Var]bool) {
	switch t := t.(type) {
	case *Var:
		out[t] = true
	case *Ref:
		collectFreeVars(t.Of, out)
	case *Fun:
		for _, p := range t.Params {
			collectFreeVars(p, out)
		}
		collectFreeVars(t.Ret, out)
	case *Array:
		collectFreeVars(t.Element, out)
	case *Record:
		for _, n := range t.Names {
			collectFreeVars(t.Fields[n], out)
		}
	case *Mu:
		collectFreeVars(t.Body, out)
		delete(out, t.Bound)
	}
}
