package types

import "fmt"

// ConflictError reports two type terms that cannot be unified.
type ConflictError struct {
	Left, Right Type
	Reason      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("cannot unify %s with %s: %s", e.Left.String(), e.Right.String(), e.Reason)
}

// Unifier is a union-find structure over type variables. Each equivalence
// class has one representative Var; a class is optionally bound to a
// non-Var type term. Unlike a substitution map, union/find keeps classes
// merged in constant amortized time regardless of how many constraints
// reference them.
type Unifier struct {
	parent  map[*Var]*Var
	rank    map[*Var]int
	binding map[*Var]Type
}

// NewUnifier returns an empty unifier.
func NewUnifier() *Unifier {
	return &Unifier{
		parent:  map[*Var]*Var{},
		rank:    map[*Var]int{},
		binding: map[*Var]Type{},
	}
}

func (u *Unifier) find(v *Var) *Var {
	p, ok := u.parent[v]
	if !ok {
		u.parent[v] = v
		return v
	}
	if p != v {
		root := u.find(p)
		u.parent[v] = root
		return root
	}
	return v
}

// union merges the equivalence classes of a and b, tie-breaking on Order so
// the result is deterministic regardless of constraint generation order.
func (u *Unifier) union(a, b *Var) *Var {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return ra
	}
	winner, loser := ra, rb
	switch {
	case u.rank[ra] > u.rank[rb]:
		winner, loser = ra, rb
	case u.rank[ra] < u.rank[rb]:
		winner, loser = rb, ra
	case ra.Order > rb.Order:
		winner, loser = rb, ra
	default:
		winner, loser = ra, rb
	}
	u.parent[loser] = winner
	if u.rank[winner] == u.rank[loser] {
		u.rank[winner]++
	}
	return winner
}

// Resolve substitutes every Var in t for its current binding, recursively,
// following union-find representatives. Unbound variables are returned as
// their representative.
func (u *Unifier) Resolve(t Type) Type {
	switch t := t.(type) {
	case *Var:
		rep := u.find(t)
		if bound, ok := u.binding[rep]; ok {
			return u.Resolve(bound)
		}
		return rep
	case *Ref:
		return &Ref{Of: u.Resolve(t.Of)}
	case *Fun:
		params := make([]Type, len(t.Params))
		for i, p := range t.Params {
			params[i] = u.Resolve(p)
		}
		return &Fun{Params: params, Ret: u.Resolve(t.Ret)}
	case *Array:
		return &Array{Element: u.Resolve(t.Element), Elements: t.Elements}
	case *Record:
		fields := make(map[string]Type, len(t.Fields))
		for _, n := range t.Names {
			fields[n] = u.Resolve(t.Fields[n])
		}
		return &Record{Names: t.Names, Fields: fields}
	case *Mu:
		rep := u.find(t.Bound)
		saved, had := u.binding[rep]
		delete(u.binding, rep)
		body := u.Resolve(t.Body)
		if had {
			u.binding[rep] = saved
		}
		return &Mu{Bound: t.Bound, Body: body}
	default:
		return t
	}
}

// Unify equates t1 and t2, merging union-find classes and recursing into
// structure. It never rejects a program outright on an occurs-check
// failure; instead it ties the recursion off with a Mu node.
func (u *Unifier) Unify(t1, t2 Type) error {
	t1, t2 = u.shallow(t1), u.shallow(t2)

	v1, ok1 := t1.(*Var)
	v2, ok2 := t2.(*Var)

	switch {
	case ok1 && ok2:
		u.union(v1, v2)
		return nil
	case ok1:
		return u.bind(v1, t2)
	case ok2:
		return u.bind(v2, t1)
	}

	switch a := t1.(type) {
	case Int:
		if _, ok := t2.(Int); ok {
			return nil
		}
	case Bool:
		if _, ok := t2.(Bool); ok {
			return nil
		}
	case AbsentField:
		if _, ok := t2.(AbsentField); ok {
			return nil
		}
	case *Ref:
		if b, ok := t2.(*Ref); ok {
			return u.Unify(a.Of, b.Of)
		}
	case *Fun:
		if b, ok := t2.(*Fun); ok {
			if len(a.Params) != len(b.Params) {
				return &ConflictError{t1, t2, "argument count mismatch"}
			}
			for i := range a.Params {
				if err := u.Unify(a.Params[i], b.Params[i]); err != nil {
					return err
				}
			}
			return u.Unify(a.Ret, b.Ret)
		}
	case *Array:
		if b, ok := t2.(*Array); ok {
			return u.Unify(a.Element, b.Element)
		}
	case *Record:
		if b, ok := t2.(*Record); ok {
			return u.unifyRecords(a, b)
		}
	case *Mu:
		return u.Unify(a.Body, t2)
	}
	if m, ok := t2.(*Mu); ok {
		return u.Unify(t1, m.Body)
	}
	return &ConflictError{t1, t2, "incompatible type constructors"}
}

// shallow resolves t to its current binding, but only one layer deep: a
// bound Var becomes its bound term, but that term's own children are left
// unresolved. Deep resolution happens lazily, constraint by constraint.
func (u *Unifier) shallow(t Type) Type {
	v, ok := t.(*Var)
	if !ok {
		return t
	}
	rep := u.find(v)
	if bound, ok := u.binding[rep]; ok {
		return u.shallow(bound)
	}
	return rep
}

// unifyRecords unifies field by field. AbsentField on one side and a
// concrete type on the other succeeds with the concrete type winning;
// AbsentField on both sides succeeds trivially; two distinct concrete
// types must themselves unify.
func (u *Unifier) unifyRecords(a, b *Record) error {
	for _, n := range a.Names {
		af, bf := a.Fields[n], b.Fields[n]
		_, aAbs := af.(AbsentField)
		_, bAbs := bf.(AbsentField)
		switch {
		case aAbs && bAbs:
			continue
		case aAbs || bAbs:
			continue // the concrete side already stands as the field's type
		default:
			if err := u.Unify(af, bf); err != nil {
				return err
			}
		}
	}
	return nil
}

// bind binds representative-of(v) to t, introducing a Mu node if t contains
// v after the occurs check instead of rejecting the program.
func (u *Unifier) bind(v *Var, t Type) error {
	rep := u.find(v)
	if existing, ok := u.binding[rep]; ok {
		return u.Unify(existing, t)
	}
	if other, ok := t.(*Var); ok && u.find(other) == rep {
		return nil
	}
	if FreeVars(t)[rep] {
		t = &Mu{Bound: rep, Body: t}
	}
	u.binding[rep] = t
	return nil
}
