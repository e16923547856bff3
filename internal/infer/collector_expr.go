package infer

import (
	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/types"
)

func (c *Collector) collectExpr(e ast.Expr) error {
	switch e := e.(type) {
	case *ast.NumberExpr:
		return c.unify(e.Pos, c.astToVar(e, "n"), types.Int{})

	case *ast.BooleanExpr:
		return c.unify(e.Pos, c.astToVar(e, "b"), types.Bool{})

	case *ast.VariableExpr:
		return nil // the variable's own type is whatever its declaration unifies to

	case *ast.InputExpr:
		return c.unify(e.Pos, c.astToVar(e, "input"), types.Int{})

	case *ast.NullExpr:
		return c.unify(e.Pos, c.astToVar(e, "null"), &types.Ref{Of: c.freshAlpha()})

	case *ast.AllocExpr:
		if err := c.collectExpr(e.Init); err != nil {
			return err
		}
		return c.unify(e.Pos, c.astToVar(e, "alloc"), &types.Ref{Of: c.astToVar(e.Init, "init")})

	case *ast.RefExpr:
		return c.unify(e.Pos, c.astToVar(e, "ref"), &types.Ref{Of: c.astToVar(e.Var, "target")})

	case *ast.DeRefExpr:
		if err := c.collectExpr(e.Ptr); err != nil {
			return err
		}
		return c.unify(e.Pos, c.astToVar(e.Ptr, "ptr"), &types.Ref{Of: c.astToVar(e, "deref")})

	case *ast.BinaryExpr:
		return c.collectBinary(e)

	case *ast.UnaryExpr:
		return c.collectUnary(e)

	case *ast.TernaryExpr:
		if err := c.collectExpr(e.Cond); err != nil {
			return err
		}
		if err := c.collectExpr(e.Then); err != nil {
			return err
		}
		if err := c.collectExpr(e.Else); err != nil {
			return err
		}
		if err := c.unify(e.Pos, c.astToVar(e.Cond, "cond"), types.Bool{}); err != nil {
			return err
		}
		self := c.astToVar(e, "ternary")
		if err := c.unify(e.Pos, c.astToVar(e.Then, "then"), self); err != nil {
			return err
		}
		return c.unify(e.Pos, c.astToVar(e.Else, "else"), self)

	case *ast.FunAppExpr:
		if err := c.collectExpr(e.Func); err != nil {
			return err
		}
		args := make([]types.Type, len(e.Args))
		for i, a := range e.Args {
			if err := c.collectExpr(a); err != nil {
				return err
			}
			args[i] = c.astToVar(a, "arg")
		}
		return c.unify(e.Pos, c.astToVar(e.Func, "fn"), &types.Fun{Params: args, Ret: c.astToVar(e, "call")})

	case *ast.RecordExpr:
		for _, f := range e.Fields {
			if err := c.collectExpr(f.Init); err != nil {
				return err
			}
		}
		given := map[string]types.Type{}
		for _, f := range e.Fields {
			given[f.Name] = c.astToVar(f.Init, f.Name)
		}
		rec := types.NewRecord(c.fields(), given)
		return c.unify(e.Pos, c.astToVar(e, "record"), rec)

	case *ast.AccessExpr:
		if err := c.collectExpr(e.Record); err != nil {
			return err
		}
		self := c.astToVar(e, "field")
		given := map[string]types.Type{e.Field: self}
		for _, n := range c.fields() {
			if n == e.Field {
				continue
			}
			given[n] = c.freshAlpha()
		}
		rec := types.NewRecord(c.fields(), given)
		return c.unify(e.Pos, c.astToVar(e.Record, "rec"), rec)

	case *ast.ArrayExpr:
		if len(e.Elements) == 0 {
			elem := c.freshAlpha()
			return c.unify(e.Pos, c.astToVar(e, "array"), &types.Array{Element: elem, Elements: 0})
		}
		for _, el := range e.Elements {
			if err := c.collectExpr(el); err != nil {
				return err
			}
		}
		first := c.astToVar(e.Elements[0], "elem0")
		for _, el := range e.Elements[1:] {
			if err := c.unify(e.Pos, c.astToVar(el, "elem"), first); err != nil {
				return err
			}
		}
		return c.unify(e.Pos, c.astToVar(e, "array"), &types.Array{Element: first, Elements: len(e.Elements)})

	case *ast.ArrayOfExpr:
		if err := c.collectExpr(e.Length); err != nil {
			return err
		}
		if err := c.collectExpr(e.Value); err != nil {
			return err
		}
		if err := c.unify(e.Pos, c.astToVar(e.Length, "len"), types.Int{}); err != nil {
			return err
		}
		val := c.astToVar(e.Value, "val")
		return c.unify(e.Pos, c.astToVar(e, "arrayof"), &types.Array{Element: val, Elements: 1})

	case *ast.ArrayRefExpr:
		if err := c.collectExpr(e.Array); err != nil {
			return err
		}
		if err := c.collectExpr(e.Index); err != nil {
			return err
		}
		if err := c.unify(e.Pos, c.astToVar(e.Index, "idx"), types.Int{}); err != nil {
			return err
		}
		self := c.astToVar(e, "elem")
		return c.unify(e.Pos, c.astToVar(e.Array, "arr"), &types.Array{Element: self, Elements: -1})

	default:
		return nil
	}
}

func (c *Collector) collectBinary(e *ast.BinaryExpr) error {
	if err := c.collectExpr(e.Left); err != nil {
		return err
	}
	if err := c.collectExpr(e.Right); err != nil {
		return err
	}
	left := c.astToVar(e.Left, "lhs")
	right := c.astToVar(e.Right, "rhs")
	self := c.astToVar(e, "binop")

	switch e.Op {
	case "+", "-", "*", "/", "%":
		for _, t := range []types.Type{left, right, self} {
			if err := c.unify(e.Pos, t, types.Int{}); err != nil {
				return err
			}
		}
		return nil
	case "<", "<=", ">", ">=":
		if err := c.unify(e.Pos, left, types.Int{}); err != nil {
			return err
		}
		if err := c.unify(e.Pos, right, types.Int{}); err != nil {
			return err
		}
		return c.unify(e.Pos, self, types.Bool{})
	case "==", "!=":
		if err := c.unify(e.Pos, left, right); err != nil {
			return err
		}
		return c.unify(e.Pos, self, types.Bool{})
	case "and", "or":
		for _, t := range []types.Type{left, right, self} {
			if err := c.unify(e.Pos, t, types.Bool{}); err != nil {
				return err
			}
		}
		return nil
	default:
		return nil
	}
}

func (c *Collector) collectUnary(e *ast.UnaryExpr) error {
	if err := c.collectExpr(e.Expr); err != nil {
		return err
	}
	self := c.astToVar(e, "unop")
	operand := c.astToVar(e.Expr, "operand")

	switch e.Op {
	case "!":
		if err := c.unify(e.Pos, self, types.Bool{}); err != nil {
			return err
		}
		return c.unify(e.Pos, operand, types.Bool{})
	case "-", "++", "--":
		if err := c.unify(e.Pos, self, types.Int{}); err != nil {
			return err
		}
		return c.unify(e.Pos, operand, types.Int{})
	case "#":
		return c.unify(e.Pos, self, types.Int{})
	default:
		return nil
	}
}
