package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sipforge/sip/internal/parser"
)

func TestCompileEmitsVerifiedModule(t *testing.T) {
	r, errs := Compile([]byte(`
main(){
	var s,i;
	s=0;
	for (i : 1 .. 10) { s=s+i; }
	return s;
}`), "ok.sip")
	require.Empty(t, errs)
	require.NotNil(t, r.Module)
	require.Contains(t, r.Module.String(), "_tip_dispatch_table")
}

func TestCompileReportsAllParseErrors(t *testing.T) {
	_, errs := Compile([]byte("main(){ return ; }"), "bad.sip")
	require.NotEmpty(t, errs)
}

func TestCompileReportsTypeConflict(t *testing.T) {
	_, errs := Compile([]byte(`
f(){
	var x;
	x=1;
	x={a:2};
	return x;
}`), "conflict.sip")
	require.NotEmpty(t, errs)
}

func TestCheckStopsBeforeCodegen(t *testing.T) {
	prog, parseErrs := parser.ParseProgram([]byte("f(){ return 1; }"), "t.sip")
	require.Empty(t, parseErrs)
	r, err := Check(prog)
	require.NoError(t, err)
	require.Nil(t, r.Module)
	require.NotNil(t, r.Collector)
}
