package ast

import (
	"fmt"
	"strings"
)

// Print renders a deterministic, position-free textual form of an expression
// or statement. It is used by the parser tests, never by codegen.
func Print(n Node) string {
	switch e := n.(type) {
	case *NumberExpr:
		return fmt.Sprintf("%d", e.Value)
	case *BooleanExpr:
		return fmt.Sprintf("%t", e.Value)
	case *VariableExpr:
		return e.Name
	case *InputExpr:
		return "input"
	case *NullExpr:
		return "null"
	case *AllocExpr:
		return "alloc " + Print(e.Init)
	case *RefExpr:
		return "&" + Print(e.Var)
	case *DeRefExpr:
		return "*" + Print(e.Ptr)
	case *BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", Print(e.Left), e.Op, Print(e.Right))
	case *UnaryExpr:
		if e.Op == "++" || e.Op == "--" {
			if e.Post {
				return Print(e.Expr) + e.Op
			}
			return e.Op + Print(e.Expr)
		}
		return e.Op + Print(e.Expr)
	case *TernaryExpr:
		return fmt.Sprintf("(%s ? %s : %s)", Print(e.Cond), Print(e.Then), Print(e.Else))
	case *FunAppExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = Print(a)
		}
		return fmt.Sprintf("%s(%s)", Print(e.Func), strings.Join(args, ", "))
	case *RecordExpr:
		fields := make([]string, len(e.Fields))
		for i, f := range e.Fields {
			fields[i] = fmt.Sprintf("%s: %s", f.Name, Print(f.Init))
		}
		return fmt.Sprintf("{%s}", strings.Join(fields, ", "))
	case *AccessExpr:
		return Print(e.Record) + "." + e.Field
	case *ArrayExpr:
		elems := make([]string, len(e.Elements))
		for i, el := range e.Elements {
			elems[i] = Print(el)
		}
		return fmt.Sprintf("[%s]", strings.Join(elems, ", "))
	case *ArrayOfExpr:
		return fmt.Sprintf("[%s of %s]", Print(e.Length), Print(e.Value))
	case *ArrayRefExpr:
		return fmt.Sprintf("%s[%s]", Print(e.Array), Print(e.Index))
	case *Decl:
		return e.Name

	case *DeclStmt:
		names := make([]string, len(e.Decls))
		for i, d := range e.Decls {
			names[i] = d.Name
		}
		return "var " + strings.Join(names, ", ") + ";"
	case *AssignStmt:
		return fmt.Sprintf("%s = %s;", Print(e.LHS), Print(e.RHS))
	case *BlockStmt:
		parts := make([]string, len(e.Stmts))
		for i, s := range e.Stmts {
			parts[i] = Print(s)
		}
		return "{ " + strings.Join(parts, " ") + " }"
	case *IfStmt:
		if e.Else != nil {
			return fmt.Sprintf("if (%s) %s else %s", Print(e.Cond), Print(e.Then), Print(e.Else))
		}
		return fmt.Sprintf("if (%s) %s", Print(e.Cond), Print(e.Then))
	case *WhileStmt:
		return fmt.Sprintf("while (%s) %s", Print(e.Cond), Print(e.Body))
	case *ForRangeStmt:
		if e.Step != nil {
			return fmt.Sprintf("for (%s : %s .. %s by %s) %s", e.Var.Name, Print(e.Low), Print(e.High), Print(e.Step), Print(e.Body))
		}
		return fmt.Sprintf("for (%s : %s .. %s) %s", e.Var.Name, Print(e.Low), Print(e.High), Print(e.Body))
	case *ForIterStmt:
		return fmt.Sprintf("for (%s : %s) %s", e.Var.Name, Print(e.Array), Print(e.Body))
	case *OutputStmt:
		return "output " + Print(e.Arg) + ";"
	case *ErrorStmt:
		return "error " + Print(e.Arg) + ";"
	case *ReturnStmt:
		return "return " + Print(e.Arg) + ";"
	case *ExprStmt:
		return Print(e.Expr) + ";"
	default:
		return fmt.Sprintf("<?%T>", n)
	}
}

// PrintFunc renders a function declaration's signature and body.
func PrintFunc(f *FuncDecl) string {
	names := make([]string, len(f.Formals))
	for i, p := range f.Formals {
		names[i] = p.Name
	}
	stmts := make([]string, len(f.Body))
	for i, s := range f.Body {
		stmts[i] = Print(s)
	}
	return fmt.Sprintf("%s(%s) { %s }", f.Name, strings.Join(names, ", "), strings.Join(stmts, " "))
}
