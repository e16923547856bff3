package infer

import (
	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/types"
)

func (c *Collector) collectStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.DeclStmt:
		return nil

	case *ast.AssignStmt:
		if deref, ok := s.LHS.(*ast.DeRefExpr); ok {
			if err := c.collectExpr(deref.Ptr); err != nil {
				return err
			}
			if err := c.collectExpr(s.RHS); err != nil {
				return err
			}
			return c.unify(s.Pos, c.astToVar(deref.Ptr, "lhs"),
				&types.Ref{Of: c.astToVar(s.RHS, "rhs")})
		}
		if err := c.collectExpr(s.LHS); err != nil {
			return err
		}
		if err := c.collectExpr(s.RHS); err != nil {
			return err
		}
		return c.unify(s.Pos, c.astToVar(s.LHS, "lhs"), c.astToVar(s.RHS, "rhs"))

	case *ast.BlockStmt:
		for _, inner := range s.Stmts {
			if err := c.collectStmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.IfStmt:
		if err := c.collectExpr(s.Cond); err != nil {
			return err
		}
		if err := c.unify(s.Pos, c.astToVar(s.Cond, "cond"), types.Bool{}); err != nil {
			return err
		}
		if err := c.collectStmt(s.Then); err != nil {
			return err
		}
		if s.Else != nil {
			return c.collectStmt(s.Else)
		}
		return nil

	case *ast.WhileStmt:
		if err := c.collectExpr(s.Cond); err != nil {
			return err
		}
		if err := c.unify(s.Pos, c.astToVar(s.Cond, "cond"), types.Bool{}); err != nil {
			return err
		}
		return c.collectStmt(s.Body)

	case *ast.ForRangeStmt:
		if err := c.collectExpr(s.Low); err != nil {
			return err
		}
		if err := c.collectExpr(s.High); err != nil {
			return err
		}
		if s.Step != nil {
			if err := c.collectExpr(s.Step); err != nil {
				return err
			}
			if err := c.unify(s.Pos, c.astToVar(s.Step, "step"), types.Int{}); err != nil {
				return err
			}
		}
		v := c.astToVar(s.Var, s.Var.Name)
		for _, t := range []types.Type{c.astToVar(s.Low, "lo"), c.astToVar(s.High, "hi"), v} {
			if err := c.unify(s.Pos, t, types.Int{}); err != nil {
				return err
			}
		}
		return c.collectStmt(s.Body)

	case *ast.ForIterStmt:
		if err := c.collectExpr(s.Array); err != nil {
			return err
		}
		v := c.astToVar(s.Var, s.Var.Name)
		arr := c.astToVar(s.Array, "arr")
		if err := c.unify(s.Pos, arr, &types.Array{Element: v, Elements: -1}); err != nil {
			return err
		}
		return c.collectStmt(s.Body)

	case *ast.OutputStmt:
		if err := c.collectExpr(s.Arg); err != nil {
			return err
		}
		return c.unify(s.Pos, c.astToVar(s.Arg, "arg"), types.Int{})

	case *ast.ErrorStmt:
		if err := c.collectExpr(s.Arg); err != nil {
			return err
		}
		return c.unify(s.Pos, c.astToVar(s.Arg, "arg"), types.Int{})

	case *ast.ExprStmt:
		return c.collectExpr(s.Expr)

	case *ast.ReturnStmt:
		return c.collectExpr(s.Arg)

	default:
		return nil
	}
}
