// Package ast defines the SIP abstract syntax tree. Every node carries a
// stable identity (its Go pointer) that the type inference and symbol-table
// layers use as a canonical key; the core never attempts structural AST
// equality.
package ast

import "github.com/sipforge/sip/internal/token"

// Node is the common interface implemented by every AST node.
type Node interface {
	Position() token.Pos
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Program is a sequence of function definitions; execution enters at main.
type Program struct {
	Funcs []*FuncDecl
}

// FuncDecl is a top-level function definition.
type FuncDecl struct {
	Name    string
	Index   int // declaration order, assigned by the symbol table
	Formals []*Decl
	Body    []Stmt
	Pos     token.Pos
}

func (f *FuncDecl) Position() token.Pos { return f.Pos }

// Decl declares one local variable name (formals and for-loop variables are
// represented the same way; a "var" statement holds one Decl per name).
type Decl struct {
	Name string
	Pos  token.Pos
}

func (d *Decl) Position() token.Pos { return d.Pos }

// DeclStmt declares zero-initialized locals: "var x, y, z;".
type DeclStmt struct {
	Decls []*Decl
	Pos   token.Pos
}

func (d *DeclStmt) Position() token.Pos { return d.Pos }
func (d *DeclStmt) stmtNode()           {}

// AssignStmt is "LHS = RHS".
type AssignStmt struct {
	LHS Expr
	RHS Expr
	Pos token.Pos
}

func (a *AssignStmt) Position() token.Pos { return a.Pos }
func (a *AssignStmt) stmtNode()           {}

// BlockStmt is a brace-delimited sequence of statements.
type BlockStmt struct {
	Stmts []Stmt
	Pos   token.Pos
}

func (b *BlockStmt) Position() token.Pos { return b.Pos }
func (b *BlockStmt) stmtNode()           {}

// IfStmt is "if (Cond) Then [else Else]".
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt // nil if no else clause
	Pos  token.Pos
}

func (i *IfStmt) Position() token.Pos { return i.Pos }
func (i *IfStmt) stmtNode()           {}

// WhileStmt is "while (Cond) Body".
type WhileStmt struct {
	Cond Expr
	Body Stmt
	Pos  token.Pos
}

func (w *WhileStmt) Position() token.Pos { return w.Pos }
func (w *WhileStmt) stmtNode()           {}

// ForRangeStmt is "for (Var : Low .. High [by Step]) Body".
type ForRangeStmt struct {
	Var  *Decl
	Low  Expr
	High Expr
	Step Expr // nil if omitted; runtime step defaults to 1
	Body Stmt
	Pos  token.Pos
}

func (f *ForRangeStmt) Position() token.Pos { return f.Pos }
func (f *ForRangeStmt) stmtNode()           {}

// ForIterStmt is "for (Var : Array) Body".
type ForIterStmt struct {
	Var   *Decl
	Array Expr
	Body  Stmt
	Pos   token.Pos
}

func (f *ForIterStmt) Position() token.Pos { return f.Pos }
func (f *ForIterStmt) stmtNode()           {}

// OutputStmt is "output E".
type OutputStmt struct {
	Arg Expr
	Pos token.Pos
}

func (o *OutputStmt) Position() token.Pos { return o.Pos }
func (o *OutputStmt) stmtNode()           {}

// ErrorStmt is "error E".
type ErrorStmt struct {
	Arg Expr
	Pos token.Pos
}

func (e *ErrorStmt) Position() token.Pos { return e.Pos }
func (e *ErrorStmt) stmtNode()           {}

// ExprStmt is an expression evaluated for effect, such as a bare call or a
// standalone "x++;".
type ExprStmt struct {
	Expr Expr
	Pos  token.Pos
}

func (e *ExprStmt) Position() token.Pos { return e.Pos }
func (e *ExprStmt) stmtNode()           {}

// ReturnStmt is "return E;" and always terminates a function body.
type ReturnStmt struct {
	Arg Expr
	Pos token.Pos
}

func (r *ReturnStmt) Position() token.Pos { return r.Pos }
func (r *ReturnStmt) stmtNode()           {}

// --- Expressions ---

// NumberExpr is an integer literal.
type NumberExpr struct {
	Value int64
	Pos   token.Pos
}

func (n *NumberExpr) Position() token.Pos { return n.Pos }
func (n *NumberExpr) exprNode()           {}

// BooleanExpr is a boolean literal.
type BooleanExpr struct {
	Value bool
	Pos   token.Pos
}

func (b *BooleanExpr) Position() token.Pos { return b.Pos }
func (b *BooleanExpr) exprNode()           {}

// VariableExpr is a use of a name; the symbol table resolves it to its
// canonical declaration node.
type VariableExpr struct {
	Name string
	Pos  token.Pos
}

func (v *VariableExpr) Position() token.Pos { return v.Pos }
func (v *VariableExpr) exprNode()           {}

// InputExpr is "input".
type InputExpr struct {
	Pos token.Pos
}

func (i *InputExpr) Position() token.Pos { return i.Pos }
func (i *InputExpr) exprNode()           {}

// NullExpr is "null".
type NullExpr struct {
	Pos token.Pos
}

func (n *NullExpr) Position() token.Pos { return n.Pos }
func (n *NullExpr) exprNode()           {}

// AllocExpr is "alloc E".
type AllocExpr struct {
	Init Expr
	Pos  token.Pos
}

func (a *AllocExpr) Position() token.Pos { return a.Pos }
func (a *AllocExpr) exprNode()           {}

// RefExpr is "&X".
type RefExpr struct {
	Var Expr
	Pos token.Pos
}

func (r *RefExpr) Position() token.Pos { return r.Pos }
func (r *RefExpr) exprNode()           {}

// DeRefExpr is "*E".
type DeRefExpr struct {
	Ptr Expr
	Pos token.Pos
}

func (d *DeRefExpr) Position() token.Pos { return d.Pos }
func (d *DeRefExpr) exprNode()           {}

// BinaryExpr is "E1 op E2" for arithmetic, relational, equality, and
// logical operators.
type BinaryExpr struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   token.Pos
}

func (b *BinaryExpr) Position() token.Pos { return b.Pos }
func (b *BinaryExpr) exprNode()           {}

// UnaryExpr is "-E", "!E", "#E", "E++", or "E--". Post denotes whether the
// ++/-- occurred after the operand (postfix) or before it (prefix); it is
// unused for the other operators.
type UnaryExpr struct {
	Op   string
	Expr Expr
	Post bool
	Pos  token.Pos
}

func (u *UnaryExpr) Position() token.Pos { return u.Pos }
func (u *UnaryExpr) exprNode()           {}

// TernaryExpr is "Cond ? Then : Else".
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
	Pos  token.Pos
}

func (t *TernaryExpr) Position() token.Pos { return t.Pos }
func (t *TernaryExpr) exprNode()           {}

// FunAppExpr is "Func(Args...)".
type FunAppExpr struct {
	Func Expr
	Args []Expr
	Pos  token.Pos
}

func (f *FunAppExpr) Position() token.Pos { return f.Pos }
func (f *FunAppExpr) exprNode()           {}

// RecordField is one "name: value" pair of a record literal.
type RecordField struct {
	Name string
	Init Expr
	Pos  token.Pos
}

// RecordExpr is "{ f1: E1, ..., fn: En }".
type RecordExpr struct {
	Fields []*RecordField
	Pos    token.Pos
}

func (r *RecordExpr) Position() token.Pos { return r.Pos }
func (r *RecordExpr) exprNode()           {}

// AccessExpr is "E.f".
type AccessExpr struct {
	Record Expr
	Field  string
	Pos    token.Pos
}

func (a *AccessExpr) Position() token.Pos { return a.Pos }
func (a *AccessExpr) exprNode()           {}

// ArrayExpr is "[E1, ..., En]".
type ArrayExpr struct {
	Elements []Expr
	Pos      token.Pos
}

func (a *ArrayExpr) Position() token.Pos { return a.Pos }
func (a *ArrayExpr) exprNode()           {}

// ArrayOfExpr is "[L of V]": an array of length L filled with value V.
type ArrayOfExpr struct {
	Length Expr
	Value  Expr
	Pos    token.Pos
}

func (a *ArrayOfExpr) Position() token.Pos { return a.Pos }
func (a *ArrayOfExpr) exprNode()           {}

// ArrayRefExpr is "E1[E2]".
type ArrayRefExpr struct {
	Array Expr
	Index Expr
	Pos   token.Pos
}

func (a *ArrayRefExpr) Position() token.Pos { return a.Pos }
func (a *ArrayRefExpr) exprNode()           {}
