package codegen

import (
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/require"

	"github.com/sipforge/sip/internal/infer"
	"github.com/sipforge/sip/internal/parser"
	"github.com/sipforge/sip/internal/symtab"
	"github.com/sipforge/sip/testutil"
)

func buildModule(t *testing.T, src string) string {
	t.Helper()
	prog, errs := parser.ParseProgram([]byte(src), "t.sip")
	require.Empty(t, errs)
	tab, err := symtab.Build(prog)
	require.NoError(t, err)
	c, u := infer.New(tab)
	require.NoError(t, c.Collect(prog))
	mod, err := Build(prog, tab, c, u)
	require.NoError(t, err)
	return mod.String()
}

func TestBuildEmitsDispatchTableAndMain(t *testing.T) {
	ir := buildModule(t, "main(){ return 0; }")
	require.Contains(t, ir, "_tip_dispatch_table")
	require.Contains(t, ir, "@_tip_main")
	require.Contains(t, ir, "define i32 @main")
}

func TestBuildArithmeticFunction(t *testing.T) {
	ir := buildModule(t, "add(x,y){ var z; z=x+y; return z; }")
	require.Contains(t, ir, "@add")
	require.Contains(t, ir, "add i64")
}

func TestBuildIfElseBranches(t *testing.T) {
	ir := buildModule(t, `
f(x){
	var y;
	if (x > 0) { y = 1; } else { y = 0; }
	return y;
}`)
	require.True(t, strings.Contains(ir, "icmp sgt"))
	require.True(t, strings.Contains(ir, "br i1"))
}

func TestBuildWhileLoop(t *testing.T) {
	ir := buildModule(t, `
f(n){
	var i,s;
	i=0; s=0;
	while (i < n) { s=s+i; i=i+1; }
	return s;
}`)
	require.Contains(t, ir, "while.cond")
	require.Contains(t, ir, "while.body")
}

func TestBuildForRangeLoop(t *testing.T) {
	ir := buildModule(t, `
f(){
	var s;
	s=0;
	for (i : 1 .. 10) { s=s+i; }
	return s;
}`)
	require.Contains(t, ir, "for.cond")
}

func TestBuildForIterLoop(t *testing.T) {
	ir := buildModule(t, `
f(){
	var n,s;
	n=[1,2,3];
	s=0;
	for (v : n) { s=s+v; }
	return s;
}`)
	require.Contains(t, ir, "foriter.cond")
}

func TestBuildRecordAccessAndAlloc(t *testing.T) {
	ir := buildModule(t, `
f(){
	var r,p;
	r={f:4,g:13};
	p=alloc r;
	return r.f;
}`)
	require.Contains(t, ir, "calloc")
}

func TestBuildArrayIndexingTraps(t *testing.T) {
	ir := buildModule(t, `
f(){
	var n;
	n=[1,2,3];
	return n[0];
}`)
	require.Contains(t, ir, "idx.trap")
	require.Contains(t, ir, "unreachable")
}

func TestBuildFunctionPointerCall(t *testing.T) {
	ir := buildModule(t, `
inc(x){ return x+1; }
apply(f,x){ return f(x); }
main(){ return apply(inc, 4); }
`)
	require.Contains(t, ir, "bitcast")
	snaps.MatchSnapshot(t, "function_pointer_call", testutil.NormalizeIR(ir))
}

func TestBuildNoMainSynthesizesUndefinedStub(t *testing.T) {
	ir := buildModule(t, "f(){ return 1; }")
	require.Contains(t, ir, mainUndefinedName)
}
