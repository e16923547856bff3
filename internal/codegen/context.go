// Package codegen lowers a type-checked SIP program onto LLVM IR via
// github.com/llir/llvm. All per-compilation state lives on Context; nothing
// here is package-level, so concurrent compilations never interfere.
package codegen

import (
	"github.com/llir/llvm/ir"
	irtypes "github.com/llir/llvm/ir/types"

	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/infer"
	"github.com/sipforge/sip/internal/symtab"
	"github.com/sipforge/sip/internal/types"
)

// Context carries everything C6 builds once per module and everything C4/C5
// need while lowering any single function: the module under construction,
// the field-index map, the function dispatch table, the runtime intrinsics,
// and the structural types for records and arrays. The intrinsics are all
// declared once, up front, whether or not the program calls them.
//
// This replaces the process-wide statics (current module, intrinsic
// caches, label counter, mode flags, function table) that a direct port of
// a visitor-based compiler would otherwise carry as globals.
type Context struct {
	Module *ir.Module

	tab      *symtab.Table
	collect  *infer.Collector
	unifier  *types.Unifier

	fields     []string
	fieldIndex map[string]int

	funcs      []*ast.FuncDecl
	funcIndex  map[string]int
	llvmFuncs  map[string]*ir.Func

	recordType *irtypes.StructType
	arrayType  *irtypes.StructType

	dispatchTable   *ir.Global
	dispatchArrType irtypes.Type

	callocFn *ir.Func
	inputFn  *ir.Func
	outputFn *ir.Func
	errorFn  *ir.Func

	numInputsGlobal  *ir.Global
	inputArrayGlobal *ir.Global
}

// newContext creates an empty Context over a built symbol table.
func newContext(tab *symtab.Table, collect *infer.Collector, u *types.Unifier) *Context {
	return &Context{
		Module:     ir.NewModule(),
		tab:        tab,
		collect:    collect,
		unifier:    u,
		fields:     tab.GetFields(),
		fieldIndex: map[string]int{},
		funcIndex:  map[string]int{},
		llvmFuncs:  map[string]*ir.Func{},
	}
}

// fieldSlot returns the global record's positional slot for a field name.
func (c *Context) fieldSlot(name string) int {
	if i, ok := c.fieldIndex[name]; ok {
		return i
	}
	for i, n := range c.fields {
		if n == name {
			c.fieldIndex[name] = i
			return i
		}
	}
	return -1
}
