package infer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sipforge/sip/internal/parser"
	"github.com/sipforge/sip/internal/symtab"
	"github.com/sipforge/sip/internal/types"
)

func collect(t *testing.T, src string) (*Collector, *symtab.Table) {
	t.Helper()
	prog, errs := parser.ParseProgram([]byte(src), "t.sip")
	require.Empty(t, errs)
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	c, _ := New(tab)
	require.NoError(t, c.Collect(prog))
	return c, tab
}

func TestInferSimpleArithmetic(t *testing.T) {
	c, tab := collect(t, "test(){ var x,y; x=input; y=3+x; return y; }")
	f, ok := tab.GetFunction("test")
	require.True(t, ok)

	fnType := c.u.Resolve(c.astToVar(f, "test"))
	fn, ok := fnType.(*types.Fun)
	require.True(t, ok)
	assert.Empty(t, fn.Params)
	assert.True(t, types.Int{}.Equals(fn.Ret))

	x, _ := tab.GetLocal("x", f)
	assert.True(t, types.Int{}.Equals(c.u.Resolve(c.astToVar(x, "x"))))
}

func TestInferDerefIsPolymorphic(t *testing.T) {
	c, tab := collect(t, "deref(p){ return *p; }")
	f, _ := tab.GetFunction("deref")
	fnType := c.u.Resolve(c.astToVar(f, "deref")).(*types.Fun)
	require.Len(t, fnType.Params, 1)
	ref, ok := fnType.Params[0].(*types.Ref)
	require.True(t, ok)
	assert.Equal(t, ref.Of, fnType.Ret)
}

func TestInferRecordFieldsGlobalOrder(t *testing.T) {
	c, tab := collect(t, "foo(){ var r1,r2; r1={f:4,g:13}; r2={n:alloc 3,f:13}; return 0; }")
	assert.Equal(t, []string{"f", "g", "n"}, tab.GetFields())

	f, _ := tab.GetFunction("foo")
	r1, _ := tab.GetLocal("r1", f)
	r1Type := c.u.Resolve(c.astToVar(r1, "r1")).(*types.Record)
	assert.True(t, types.Int{}.Equals(r1Type.Fields["f"]))
	assert.True(t, types.Int{}.Equals(r1Type.Fields["g"]))
	_, absent := r1Type.Fields["n"].(types.AbsentField)
	assert.True(t, absent)

	r2, _ := tab.GetLocal("r2", f)
	r2Type := c.u.Resolve(c.astToVar(r2, "r2")).(*types.Record)
	_, absent = r2Type.Fields["g"].(types.AbsentField)
	assert.True(t, absent)
	assert.True(t, types.Int{}.Equals(r2Type.Fields["f"]))
	ref, ok := r2Type.Fields["n"].(*types.Ref)
	require.True(t, ok)
	assert.True(t, types.Int{}.Equals(ref.Of))
}

func TestInferArrayOfBooleans(t *testing.T) {
	c, tab := collect(t, "foo(){ var n; n=[true,false,true]; return n[1]; }")
	f, _ := tab.GetFunction("foo")
	fn := c.u.Resolve(c.astToVar(f, "foo")).(*types.Fun)
	assert.True(t, types.Bool{}.Equals(fn.Ret))

	n, _ := tab.GetLocal("n", f)
	arr := c.u.Resolve(c.astToVar(n, "n")).(*types.Array)
	assert.True(t, types.Bool{}.Equals(arr.Element))
}

func TestInferArrayOfFill(t *testing.T) {
	c, tab := collect(t, "foo(){ var n; n=[2 of 3]; return n; }")
	f, _ := tab.GetFunction("foo")
	fn := c.u.Resolve(c.astToVar(f, "foo")).(*types.Fun)
	arr, ok := fn.Ret.(*types.Array)
	require.True(t, ok)
	assert.True(t, types.Int{}.Equals(arr.Element))
}

func TestInferConflictOnMixedArithmetic(t *testing.T) {
	prog, errs := parser.ParseProgram([]byte("f(){ return 3 + true; }"), "t.sip")
	require.Empty(t, errs)
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	c, _ := New(tab)
	assert.Error(t, c.Collect(prog))
}

func TestInferConflictOnIndexingNonArray(t *testing.T) {
	prog, errs := parser.ParseProgram([]byte("f(){ var x; x=1; return x[0]; }"), "t.sip")
	require.Empty(t, errs)
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	c, _ := New(tab)
	assert.Error(t, c.Collect(prog))
}

func TestInferAllocXEqualsXIntroducesMu(t *testing.T) {
	prog, errs := parser.ParseProgram([]byte("f(){ var x; x=alloc x; return 0; }"), "t.sip")
	require.Empty(t, errs)
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	c, _ := New(tab)
	require.NoError(t, c.Collect(prog))

	f, _ := tab.GetFunction("f")
	x, _ := tab.GetLocal("x", f)
	resolved := c.u.Resolve(c.astToVar(x, "x"))
	_, isMu := resolved.(*types.Mu)
	assert.True(t, isMu)
}
