package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/diagnostics"
	"github.com/sipforge/sip/internal/infer"
	"github.com/sipforge/sip/internal/symtab"
	"github.com/sipforge/sip/internal/token"
	"github.com/sipforge/sip/internal/types"
)

const (
	mainMangled       = "_tip_main"
	mainUndefinedName = "_tip_main_undefined"
	entrySymbol       = "main"
)

// Build lowers a fully type-checked program into an LLVM module. tab and
// collect/u must already reflect a successful Collect; Build does not
// re-check types, only reads them.
func Build(prog *ast.Program, tab *symtab.Table, collect *infer.Collector, u *types.Unifier) (*ir.Module, error) {
	c := newContext(tab, collect, u)
	c.buildRecordType()
	c.buildArrayType()
	c.declareRuntime()
	c.declareFunctions(prog)
	c.buildDispatchTable()

	for _, f := range prog.Funcs {
		if err := c.lowerFunction(f); err != nil {
			return nil, err
		}
	}

	c.buildEntryPoint(prog)

	if err := c.Module.Verify(); err != nil {
		return nil, diagnostics.New(diagnostics.IR002, token.Pos{}, "module verification failed: %s", err.Error())
	}
	return c.Module, nil
}

// buildRecordType builds the single flat struct type backing every record
// value in the program: one i64 slot per canonical field name, in
// declaration order. A program with no record literals gets an empty
// struct.
func (c *Context) buildRecordType() {
	slots := make([]irtypes.Type, len(c.fields))
	for i := range c.fields {
		slots[i] = irtypes.I64
	}
	c.recordType = irtypes.NewStruct(slots...)
	c.recordType.TypeName = "struct.record"
}

// buildArrayType builds the array runtime representation: a two-word
// struct holding the element count followed by a pointer to the backing
// storage. Index 0 is length, index 1 is data, per the runtime layout this
// compiler targets.
func (c *Context) buildArrayType() {
	c.arrayType = irtypes.NewStruct(irtypes.I64, irtypes.NewPointer(irtypes.I64))
	c.arrayType.TypeName = "struct.array"
}

// declareRuntime declares the small set of C-callable runtime intrinsics
// every program may call: calloc for heap records/arrays, and the
// input/output/error primitives that connect a SIP program to the outside
// world.
func (c *Context) declareRuntime() {
	c.callocFn = c.Module.NewFunc("calloc", irtypes.NewPointer(irtypes.I8),
		ir.NewParam("nmemb", irtypes.I64), ir.NewParam("size", irtypes.I64))

	c.inputFn = c.Module.NewFunc("_tip_input", irtypes.I64)
	c.outputFn = c.Module.NewFunc("_tip_output", irtypes.Void, ir.NewParam("v", irtypes.I64))
	c.errorFn = c.Module.NewFunc("_tip_error", irtypes.Void, ir.NewParam("code", irtypes.I64))
}

// declareFunctions assigns every function its dispatch index (already
// fixed by the symbol table's declaration order) and emits its LLVM
// signature, with main emitted under a mangled name so the real C entry
// point can stage its inputs first.
func (c *Context) declareFunctions(prog *ast.Program) {
	c.funcs = tabFunctions(c.tab)
	for i, f := range c.funcs {
		c.funcIndex[f.Name] = i
		name := f.Name
		if name == "main" {
			name = mainMangled
		}
		params := make([]*ir.Param, len(f.Formals))
		for j, formal := range f.Formals {
			params[j] = ir.NewParam(formal.Name, irtypes.I64)
		}
		fn := c.Module.NewFunc(name, irtypes.I64, params...)
		c.llvmFuncs[f.Name] = fn
	}
}

func tabFunctions(tab *symtab.Table) []*ast.FuncDecl { return tab.Functions() }

// buildDispatchTable builds the program-wide function table: a constant
// array of opaque pointers indexed by declaration order, so that a
// function used as a first-class value (stored, passed, or returned as an
// integer) can later be looked up and called through a bitcast back to its
// real signature.
func (c *Context) buildDispatchTable() {
	entries := make([]constant.Constant, len(c.funcs))
	bytePtr := irtypes.NewPointer(irtypes.I8)
	for i, f := range c.funcs {
		fn := c.llvmFuncs[f.Name]
		entries[i] = constant.NewBitCast(fn, bytePtr)
	}
	arrType := irtypes.NewArray(uint64(len(entries)), bytePtr)
	c.dispatchArrType = arrType
	var init constant.Constant
	if len(entries) == 0 {
		init = constant.NewZeroInitializer(arrType)
	} else {
		init = constant.NewArray(arrType, entries...)
	}
	c.dispatchTable = c.Module.NewGlobalDef("_tip_dispatch_table", init)
}

// buildEntryPoint emits the real, unmangled C entry point. It defines the
// _tip_num_inputs and _tip_input_array globals, loads each of main's formals
// from _tip_input_array, then calls the mangled main (or a stub reporting
// that none was defined) and returns its result truncated to a plain process
// exit code. The entry point takes no argc/argv and does not fill the input
// array itself.
func (c *Context) buildEntryPoint(prog *ast.Program) {
	sipMain, hasMain := c.tab.GetFunction("main")

	var arity int
	if hasMain {
		arity = len(sipMain.Formals)
	}

	c.numInputsGlobal = c.Module.NewGlobalDef("_tip_num_inputs", constant.NewInt(irtypes.I64, int64(arity)))
	elemType := irtypes.I64
	zeroArr := constant.NewZeroInitializer(irtypes.NewArray(uint64(maxInt(arity, 1)), elemType))
	c.inputArrayGlobal = c.Module.NewGlobalDef("_tip_input_array", zeroArr)

	entry := c.Module.NewFunc(entrySymbol, irtypes.I32)
	block := entry.NewBlock("entry")

	if !hasMain {
		undefined := c.Module.NewFunc(mainUndefinedName, irtypes.I64)
		ub := undefined.NewBlock("entry")
		ub.NewCall(c.errorFn, constant.NewInt(irtypes.I64, 1))
		ub.NewUnreachable()
		block.NewCall(undefined)
		block.NewRet(constant.NewInt(irtypes.I32, 0))
		return
	}

	args := make([]value.Value, arity)
	for i := 0; i < arity; i++ {
		slot := block.NewGetElementPtr(irtypes.NewArray(uint64(arity), elemType), c.inputArrayGlobal,
			constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(i)))
		args[i] = block.NewLoad(elemType, slot)
	}
	fn := c.llvmFuncs["main"]
	result := block.NewCall(fn, args...)
	truncated := block.NewTrunc(result, irtypes.I32)
	block.NewRet(truncated)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
