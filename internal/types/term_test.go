package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroundTypeStrings(t *testing.T) {
	assert.Equal(t, "int", Int{}.String())
	assert.Equal(t, "bool", Bool{}.String())
	assert.Equal(t, "⊥", AbsentField{}.String())
}

func TestRefString(t *testing.T) {
	r := &Ref{Of: Int{}}
	assert.Equal(t, "↑int", r.String())
}

func TestFunString(t *testing.T) {
	f := &Fun{Params: []Type{Int{}, Bool{}}, Ret: Int{}}
	assert.Equal(t, "(int, bool)→int", f.String())
}

func TestRecordStringOmitsAbsentFields(t *testing.T) {
	r := NewRecord([]string{"a", "b", "c"}, map[string]Type{"a": Int{}, "c": Bool{}})
	assert.Equal(t, "{a:int, c:bool}", r.String())
}

func TestRecordEqualsRespectsAbsentFields(t *testing.T) {
	r1 := NewRecord([]string{"a", "b"}, map[string]Type{"a": Int{}})
	r2 := NewRecord([]string{"a", "b"}, map[string]Type{"a": Int{}})
	r3 := NewRecord([]string{"a", "b"}, map[string]Type{"a": Int{}, "b": Bool{}})
	assert.True(t, r1.Equals(r2))
	assert.False(t, r1.Equals(r3))
}

func TestFreeVarsFindsNestedVar(t *testing.T) {
	v := &Var{Label: "t0"}
	ty := &Fun{Params: []Type{&Ref{Of: v}}, Ret: Int{}}
	fv := FreeVars(ty)
	assert.True(t, fv[v])
	assert.Len(t, fv, 1)
}

func TestFreeVarsExcludesMuBoundVar(t *testing.T) {
	v := &Var{Label: "t0"}
	mu := &Mu{Bound: v, Body: &Ref{Of: v}}
	assert.Empty(t, FreeVars(mu))
}
