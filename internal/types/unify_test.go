package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnifyGroundTypesSucceed(t *testing.T) {
	u := NewUnifier()
	assert.NoError(t, u.Unify(Int{}, Int{}))
	assert.NoError(t, u.Unify(Bool{}, Bool{}))
}

func TestUnifyGroundTypesConflict(t *testing.T) {
	u := NewUnifier()
	err := u.Unify(Int{}, Bool{})
	require.Error(t, err)
	var ce *ConflictError
	assert.ErrorAs(t, err, &ce)
}

func TestUnifyVarResolvesToBoundType(t *testing.T) {
	u := NewUnifier()
	v := &Var{Label: "t0", Order: 0}
	require.NoError(t, u.Unify(v, Int{}))
	assert.True(t, Int{}.Equals(u.Resolve(v)))
}

func TestUnifyTwoVarsShareResolution(t *testing.T) {
	u := NewUnifier()
	v1 := &Var{Label: "t0", Order: 0}
	v2 := &Var{Label: "t1", Order: 1}
	require.NoError(t, u.Unify(v1, v2))
	require.NoError(t, u.Unify(v2, Bool{}))
	assert.True(t, Bool{}.Equals(u.Resolve(v1)))
}

func TestUnifyFunctionTypesRecurse(t *testing.T) {
	u := NewUnifier()
	va := &Var{Label: "a", Order: 0}
	vb := &Var{Label: "b", Order: 1}
	f1 := &Fun{Params: []Type{va}, Ret: vb}
	f2 := &Fun{Params: []Type{Int{}}, Ret: Bool{}}
	require.NoError(t, u.Unify(f1, f2))
	assert.True(t, Int{}.Equals(u.Resolve(va)))
	assert.True(t, Bool{}.Equals(u.Resolve(vb)))
}

func TestUnifyFunctionArityMismatchConflicts(t *testing.T) {
	u := NewUnifier()
	f1 := &Fun{Params: []Type{Int{}}, Ret: Int{}}
	f2 := &Fun{Params: []Type{Int{}, Int{}}, Ret: Int{}}
	assert.Error(t, u.Unify(f1, f2))
}

func TestUnifyOccursCheckIntroducesMu(t *testing.T) {
	u := NewUnifier()
	v := &Var{Label: "t0", Order: 0}
	// v = ↑v, as from "alloc x = x"
	require.NoError(t, u.Unify(v, &Ref{Of: v}))
	resolved := u.Resolve(v)
	mu, ok := resolved.(*Mu)
	require.True(t, ok, "expected a Mu type, got %s", resolved.String())
	_, isRef := mu.Body.(*Ref)
	assert.True(t, isRef)
}

func TestUnifyRecordsAbsentFieldYieldsToConcrete(t *testing.T) {
	u := NewUnifier()
	r1 := NewRecord([]string{"a", "b"}, map[string]Type{"a": Int{}})
	r2 := NewRecord([]string{"a", "b"}, map[string]Type{"a": Int{}, "b": Bool{}})
	assert.NoError(t, u.Unify(r1, r2))
}

func TestUnifyRecordsConflictingConcreteFields(t *testing.T) {
	u := NewUnifier()
	r1 := NewRecord([]string{"a"}, map[string]Type{"a": Int{}})
	r2 := NewRecord([]string{"a"}, map[string]Type{"a": Bool{}})
	assert.Error(t, u.Unify(r1, r2))
}

func TestUnifyArraysRecurseOnElement(t *testing.T) {
	u := NewUnifier()
	v := &Var{Label: "e", Order: 0}
	a1 := &Array{Element: v, Elements: -1}
	a2 := &Array{Element: Int{}, Elements: 3}
	require.NoError(t, u.Unify(a1, a2))
	assert.True(t, Int{}.Equals(u.Resolve(v)))
}
