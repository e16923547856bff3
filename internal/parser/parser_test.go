package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipforge/sip/internal/ast"
)

func parse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := ParseProgram([]byte(src), "t.sip")
	require.Empty(t, errs)
	return prog
}

func TestParseEmptyFunction(t *testing.T) {
	prog := parse(t, "main() { return 0; }")
	require.Len(t, prog.Funcs, 1)
	assert.Equal(t, "main", prog.Funcs[0].Name)
	assert.Equal(t, "return 0;", ast.Print(prog.Funcs[0].Body[0]))
}

func TestParseFormalsAndLocals(t *testing.T) {
	prog := parse(t, "f(x, y) { var z; z = x + y; return z; }")
	f := prog.Funcs[0]
	require.Len(t, f.Formals, 2)
	assert.Equal(t, "x", f.Formals[0].Name)
	assert.Equal(t, "y", f.Formals[1].Name)
	require.Len(t, f.Body, 3)
	assert.Equal(t, "(x + y)", ast.Print(f.Body[1].(*ast.AssignStmt).RHS))
}

func TestParseIfElse(t *testing.T) {
	prog := parse(t, "f() { if (x < 1) output 1; else output 2; return 0; }")
	stmt := prog.Funcs[0].Body[0].(*ast.IfStmt)
	assert.Equal(t, "(x < 1)", ast.Print(stmt.Cond))
	assert.NotNil(t, stmt.Else)
}

func TestParseWhile(t *testing.T) {
	prog := parse(t, "f() { while (x != 0) x = x - 1; return x; }")
	stmt := prog.Funcs[0].Body[0].(*ast.WhileStmt)
	assert.Equal(t, "(x != 0)", ast.Print(stmt.Cond))
}

func TestParseForRangeWithStep(t *testing.T) {
	prog := parse(t, "f() { for (i : 0 .. 10 by 2) output i; return 0; }")
	stmt := prog.Funcs[0].Body[0].(*ast.ForRangeStmt)
	assert.Equal(t, "i", stmt.Var.Name)
	assert.Equal(t, "0", ast.Print(stmt.Low))
	assert.Equal(t, "10", ast.Print(stmt.High))
	require.NotNil(t, stmt.Step)
	assert.Equal(t, "2", ast.Print(stmt.Step))
}

func TestParseForRangeWithoutStep(t *testing.T) {
	prog := parse(t, "f() { for (i : 0 .. 10) output i; return 0; }")
	stmt := prog.Funcs[0].Body[0].(*ast.ForRangeStmt)
	assert.Nil(t, stmt.Step)
}

func TestParseForIter(t *testing.T) {
	prog := parse(t, "f(a) { for (x : a) output x; return 0; }")
	stmt := prog.Funcs[0].Body[0].(*ast.ForIterStmt)
	assert.Equal(t, "x", stmt.Var.Name)
	assert.Equal(t, "a", ast.Print(stmt.Array))
}

func TestParseTernaryAndLogical(t *testing.T) {
	prog := parse(t, "f(x, y) { return x < y and x != 0 ? x : y; }")
	ret := prog.Funcs[0].Body[0].(*ast.ReturnStmt)
	assert.Equal(t, "(((x < y) and (x != 0)) ? x : y)", ast.Print(ret.Arg))
}

func TestParseRecordAndAccess(t *testing.T) {
	prog := parse(t, "f() { var r; r = {a: 1, b: 2}; return r.a; }")
	assign := prog.Funcs[0].Body[1].(*ast.AssignStmt)
	assert.Equal(t, "{a: 1, b: 2}", ast.Print(assign.RHS))
	ret := prog.Funcs[0].Body[2].(*ast.ReturnStmt)
	assert.Equal(t, "r.a", ast.Print(ret.Arg))
}

func TestParseArrayLiteralAndOf(t *testing.T) {
	prog := parse(t, "f() { var a, b; a = [1, 2, 3]; b = [10 of 0]; return a[0] + b[1]; }")
	assign1 := prog.Funcs[0].Body[1].(*ast.AssignStmt)
	assert.Equal(t, "[1, 2, 3]", ast.Print(assign1.RHS))
	assign2 := prog.Funcs[0].Body[2].(*ast.AssignStmt)
	assert.Equal(t, "[10 of 0]", ast.Print(assign2.RHS))
}

func TestParseAllocRefDeref(t *testing.T) {
	prog := parse(t, "f() { var p; p = alloc 0; *p = 1; return *p; }")
	assign := prog.Funcs[0].Body[1].(*ast.AssignStmt)
	assert.Equal(t, "alloc 0", ast.Print(assign.RHS))
	assign2 := prog.Funcs[0].Body[2].(*ast.AssignStmt)
	assert.Equal(t, "*p", ast.Print(assign2.LHS))
}

func TestParsePrePostIncrement(t *testing.T) {
	prog := parse(t, "f() { var x; x = 0; x++; --x; return x; }")
	stmt := prog.Funcs[0].Body[2].(*ast.ExprStmt).Expr.(*ast.UnaryExpr)
	assert.Equal(t, "++", stmt.Op)
	assert.True(t, stmt.Post)

	stmt2 := prog.Funcs[0].Body[3].(*ast.ExprStmt).Expr.(*ast.UnaryExpr)
	assert.Equal(t, "--", stmt2.Op)
	assert.False(t, stmt2.Post)
}

func TestParseFunctionCall(t *testing.T) {
	prog := parse(t, "f() { return g(1, 2); } g(a, b) { return a + b; }")
	ret := prog.Funcs[0].Body[0].(*ast.ReturnStmt)
	call := ret.Arg.(*ast.FunAppExpr)
	assert.Equal(t, "g", call.Func.(*ast.VariableExpr).Name)
	require.Len(t, call.Args, 2)
}

func TestParseErrorRecoversAcrossFunctions(t *testing.T) {
	_, errs := ParseProgram([]byte("f( { return 0; } g() { return 1; }"), "t.sip")
	require.NotEmpty(t, errs)
}
