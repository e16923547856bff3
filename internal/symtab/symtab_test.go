package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipforge/sip/internal/parser"
)

func build(t *testing.T, src string) *Table {
	t.Helper()
	prog, errs := parser.ParseProgram([]byte(src), "t.sip")
	require.Empty(t, errs)
	tab, err := Build(prog)
	require.NoError(t, err)
	return tab
}

func TestBuildFunctionIndexByDeclarationOrder(t *testing.T) {
	tab := build(t, "main() { return 0; } helper() { return 1; }")
	main, ok := tab.GetFunction("main")
	require.True(t, ok)
	helper, ok := tab.GetFunction("helper")
	require.True(t, ok)
	assert.Equal(t, 0, tab.FunctionIndex(main))
	assert.Equal(t, 1, tab.FunctionIndex(helper))
}

func TestBuildDuplicateFunctionIsError(t *testing.T) {
	prog, errs := parser.ParseProgram([]byte("f() { return 0; } f() { return 1; }"), "t.sip")
	require.Empty(t, errs)
	_, err := Build(prog)
	assert.Error(t, err)
}

func TestBuildLocalsFlatNamespace(t *testing.T) {
	tab := build(t, "f(x) { var y; if (x < 1) { var z; z = 1; } return x; }")
	f, ok := tab.GetFunction("f")
	require.True(t, ok)
	_, ok = tab.GetLocal("x", f)
	assert.True(t, ok)
	_, ok = tab.GetLocal("y", f)
	assert.True(t, ok)
	_, ok = tab.GetLocal("z", f)
	assert.True(t, ok, "declarations inside nested blocks join the function's flat scope")
}

func TestBuildDuplicateLocalIsError(t *testing.T) {
	prog, errs := parser.ParseProgram([]byte("f(x) { var x; return x; }"), "t.sip")
	require.Empty(t, errs)
	_, err := Build(prog)
	assert.Error(t, err)
}

func TestBuildFieldOrderIsDeclarationOrder(t *testing.T) {
	tab := build(t, "f() { var r; r = {b: 1, a: 2}; return r.b + r.c; }")
	assert.Equal(t, []string{"b", "a", "c"}, tab.GetFields())

	bi, ok := tab.FieldIndex("b")
	require.True(t, ok)
	assert.Equal(t, 0, bi)

	ci, ok := tab.FieldIndex("c")
	require.True(t, ok)
	assert.Equal(t, 2, ci)
}

func TestBuildForLoopVariablesAreLocals(t *testing.T) {
	tab := build(t, "f(a) { for (i : 0 .. 10) output i; for (x : a) output x; return 0; }")
	f, _ := tab.GetFunction("f")
	_, ok := tab.GetLocal("i", f)
	assert.True(t, ok)
	_, ok = tab.GetLocal("x", f)
	assert.True(t, ok)
}
