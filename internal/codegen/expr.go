package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/diagnostics"
)

const (
	icmpSLT = enum.IPredSLT
	icmpSLE = enum.IPredSLE
	icmpSGT = enum.IPredSGT
	icmpSGE = enum.IPredSGE
	icmpEQ  = enum.IPredEQ
	icmpNE  = enum.IPredNE
)

// truthy turns a uniform i64 value into the i1 a branch needs.
func truthy(b *ir.Block, v value.Value) value.Value {
	return b.NewICmp(icmpNE, v, constant.NewInt(irtypes.I64, 0))
}

func widen(b *ir.Block, v value.Value) value.Value {
	return b.NewZExt(v, irtypes.I64)
}

// rvalue evaluates e for its value, with aggregate literals allocated on
// the stack. It is the common case; evalExpr with allocCtx=true is used
// only for the operand of an alloc expression.
func (fc *funcCtx) rvalue(e ast.Expr) (value.Value, error) {
	return fc.evalExpr(e, false)
}

// evalExpr is the r-value lowering table (C5). allocCtx is true exactly
// while lowering the operand of an alloc expression, so that a nested
// record or array literal is built on the heap instead of the stack,
// since its address is about to escape the current frame.
func (fc *funcCtx) evalExpr(e ast.Expr, allocCtx bool) (value.Value, error) {
	switch e := e.(type) {
	case *ast.NumberExpr:
		return constant.NewInt(irtypes.I64, e.Value), nil

	case *ast.BooleanExpr:
		if e.Value {
			return constant.NewInt(irtypes.I64, 1), nil
		}
		return constant.NewInt(irtypes.I64, 0), nil

	case *ast.VariableExpr:
		if decl, ok := fc.c.tab.GetLocal(e.Name, fc.decl); ok {
			return fc.block.NewLoad(irtypes.I64, fc.env[decl]), nil
		}
		if idx, ok := fc.c.funcIndex[e.Name]; ok {
			return constant.NewInt(irtypes.I64, int64(idx)), nil
		}
		return nil, diagnostics.Bug(e.Pos, "codegen: unresolved identifier %q", e.Name)

	case *ast.InputExpr:
		return fc.block.NewCall(fc.c.inputFn), nil

	case *ast.NullExpr:
		return constant.NewInt(irtypes.I64, 0), nil

	case *ast.AllocExpr:
		return fc.lowerAlloc(e)

	case *ast.RefExpr:
		slot, err := fc.lvalue(e.Var)
		if err != nil {
			return nil, err
		}
		return fc.block.NewPtrToInt(slot, irtypes.I64), nil

	case *ast.DeRefExpr:
		ptr, err := fc.rvalue(e.Ptr)
		if err != nil {
			return nil, err
		}
		slot := fc.block.NewIntToPtr(ptr, irtypes.NewPointer(irtypes.I64))
		return fc.block.NewLoad(irtypes.I64, slot), nil

	case *ast.BinaryExpr:
		return fc.lowerBinary(e)

	case *ast.UnaryExpr:
		return fc.lowerUnary(e)

	case *ast.TernaryExpr:
		return fc.lowerTernary(e)

	case *ast.FunAppExpr:
		return fc.lowerCall(e)

	case *ast.RecordExpr:
		return fc.lowerRecord(e, allocCtx)

	case *ast.AccessExpr:
		ptr, err := fc.lvalue(e)
		if err != nil {
			return nil, err
		}
		return fc.block.NewLoad(irtypes.I64, ptr), nil

	case *ast.ArrayExpr:
		return fc.lowerArray(e, allocCtx)

	case *ast.ArrayOfExpr:
		return fc.lowerArrayOf(e, allocCtx)

	case *ast.ArrayRefExpr:
		ptr, err := fc.lowerArrayElemPtr(e)
		if err != nil {
			return nil, err
		}
		return fc.block.NewLoad(irtypes.I64, ptr), nil

	default:
		return nil, diagnostics.Bug(e.Position(), "codegen: unhandled expression %T", e)
	}
}

// lvalue evaluates e as an assignment target and returns the i64* slot to
// store into.
func (fc *funcCtx) lvalue(e ast.Expr) (value.Value, error) {
	switch e := e.(type) {
	case *ast.VariableExpr:
		decl, ok := fc.c.tab.GetLocal(e.Name, fc.decl)
		if !ok {
			return nil, diagnostics.Bug(e.Pos, "codegen: %q is not an assignable local", e.Name)
		}
		return fc.env[decl], nil

	case *ast.DeRefExpr:
		ptr, err := fc.rvalue(e.Ptr)
		if err != nil {
			return nil, err
		}
		return fc.block.NewIntToPtr(ptr, irtypes.NewPointer(irtypes.I64)), nil

	case *ast.AccessExpr:
		recv, err := fc.rvalue(e.Record)
		if err != nil {
			return nil, err
		}
		slot := fc.fieldSlot(e.Field)
		recPtr := fc.block.NewIntToPtr(recv, irtypes.NewPointer(fc.c.recordType))
		return fc.block.NewGetElementPtr(fc.c.recordType, recPtr,
			constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(slot))), nil

	case *ast.ArrayRefExpr:
		return fc.lowerArrayElemPtr(e)

	default:
		return nil, diagnostics.Bug(e.Position(), "codegen: %T is not an assignable expression", e)
	}
}

// lowerArrayElemPtr computes a bounds-checked pointer to a[i]'s backing
// slot. Out-of-range access reports a runtime error and traps, rather than
// reading past the allocation.
func (fc *funcCtx) lowerArrayElemPtr(e *ast.ArrayRefExpr) (value.Value, error) {
	arr, err := fc.rvalue(e.Array)
	if err != nil {
		return nil, err
	}
	idx, err := fc.rvalue(e.Index)
	if err != nil {
		return nil, err
	}
	arrStructPtr := fc.block.NewIntToPtr(arr, irtypes.NewPointer(fc.c.arrayType))
	lenPtr := fc.block.NewGetElementPtr(fc.c.arrayType, arrStructPtr,
		constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 0))
	length := fc.block.NewLoad(irtypes.I64, lenPtr)
	dataPtrSlot := fc.block.NewGetElementPtr(fc.c.arrayType, arrStructPtr,
		constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 1))
	data := fc.block.NewLoad(irtypes.NewPointer(irtypes.I64), dataPtrSlot)

	inBounds := fc.block.NewAnd(
		widen(fc.block, fc.block.NewICmp(icmpSGE, idx, constant.NewInt(irtypes.I64, 0))),
		widen(fc.block, fc.block.NewICmp(icmpSLT, idx, length)),
	)
	okBlock := fc.newBlock("idx.ok")
	trapBlock := fc.newBlock("idx.trap")
	fc.block.NewCondBr(truthy(fc.block, inBounds), okBlock, trapBlock)

	fc.block = trapBlock
	fc.block.NewCall(fc.c.errorFn, constant.NewInt(irtypes.I64, 0))
	fc.block.NewUnreachable()

	fc.block = okBlock
	return fc.block.NewGetElementPtr(irtypes.I64, data, idx), nil
}

func (fc *funcCtx) lowerBinary(e *ast.BinaryExpr) (value.Value, error) {
	left, err := fc.rvalue(e.Left)
	if err != nil {
		return nil, err
	}
	right, err := fc.rvalue(e.Right)
	if err != nil {
		return nil, err
	}
	b := fc.block
	switch e.Op {
	case "+":
		return b.NewAdd(left, right), nil
	case "-":
		return b.NewSub(left, right), nil
	case "*":
		return b.NewMul(left, right), nil
	case "/":
		return b.NewSDiv(left, right), nil
	case "%":
		return b.NewURem(left, right), nil
	case "<":
		return widen(b, b.NewICmp(icmpSLT, left, right)), nil
	case "<=":
		return widen(b, b.NewICmp(icmpSLE, left, right)), nil
	case ">":
		return widen(b, b.NewICmp(icmpSGT, left, right)), nil
	case ">=":
		return widen(b, b.NewICmp(icmpSGE, left, right)), nil
	case "==":
		return widen(b, b.NewICmp(icmpEQ, left, right)), nil
	case "!=":
		return widen(b, b.NewICmp(icmpNE, left, right)), nil
	case "and":
		return widen(b, b.NewAnd(truthy(b, left), truthy(b, right))), nil
	case "or":
		return widen(b, b.NewOr(truthy(b, left), truthy(b, right))), nil
	default:
		return nil, diagnostics.Bug(e.Pos, "codegen: unhandled binary operator %q", e.Op)
	}
}

func (fc *funcCtx) lowerUnary(e *ast.UnaryExpr) (value.Value, error) {
	switch e.Op {
	case "!":
		v, err := fc.rvalue(e.Expr)
		if err != nil {
			return nil, err
		}
		return fc.block.NewXor(v, constant.NewInt(irtypes.I64, 1)), nil

	case "-":
		v, err := fc.rvalue(e.Expr)
		if err != nil {
			return nil, err
		}
		return fc.block.NewSub(constant.NewInt(irtypes.I64, 0), v), nil

	case "#":
		v, err := fc.rvalue(e.Expr)
		if err != nil {
			return nil, err
		}
		arrStructPtr := fc.block.NewIntToPtr(v, irtypes.NewPointer(fc.c.arrayType))
		lenPtr := fc.block.NewGetElementPtr(fc.c.arrayType, arrStructPtr,
			constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 0))
		return fc.block.NewLoad(irtypes.I64, lenPtr), nil

	case "++", "--":
		slot, err := fc.lvalue(e.Expr)
		if err != nil {
			return nil, err
		}
		old := fc.block.NewLoad(irtypes.I64, slot)
		delta := int64(1)
		if e.Op == "--" {
			delta = -1
		}
		updated := fc.block.NewAdd(old, constant.NewInt(irtypes.I64, delta))
		fc.block.NewStore(updated, slot)
		if e.Post {
			return old, nil
		}
		return updated, nil

	default:
		return nil, diagnostics.Bug(e.Pos, "codegen: unhandled unary operator %q", e.Op)
	}
}

func (fc *funcCtx) lowerTernary(e *ast.TernaryExpr) (value.Value, error) {
	cond, err := fc.rvalue(e.Cond)
	if err != nil {
		return nil, err
	}
	thenBlock := fc.newBlock("tern.then")
	elseBlock := fc.newBlock("tern.else")
	mergeBlock := fc.newBlock("tern.end")
	fc.block.NewCondBr(truthy(fc.block, cond), thenBlock, elseBlock)

	fc.block = thenBlock
	thenVal, err := fc.rvalue(e.Then)
	if err != nil {
		return nil, err
	}
	thenEnd := fc.block
	fc.block.NewBr(mergeBlock)

	fc.block = elseBlock
	elseVal, err := fc.rvalue(e.Else)
	if err != nil {
		return nil, err
	}
	elseEnd := fc.block
	fc.block.NewBr(mergeBlock)

	fc.block = mergeBlock
	return fc.block.NewPhi(ir.NewIncoming(thenVal, thenEnd), ir.NewIncoming(elseVal, elseEnd)), nil
}

// lowerCall evaluates the callee to its dispatch index, looks the function
// pointer up in the dispatch table, and casts it back to the signature the
// call site expects before calling it. Every call goes through the table,
// even a direct call to a named function, so a function value stored in a
// variable and one written literally lower identically.
func (fc *funcCtx) lowerCall(e *ast.FunAppExpr) (value.Value, error) {
	idx, err := fc.rvalue(e.Func)
	if err != nil {
		return nil, err
	}
	args := make([]value.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := fc.rvalue(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	bytePtr := irtypes.NewPointer(irtypes.I8)
	slot := fc.block.NewGetElementPtr(fc.c.dispatchArrType, fc.c.dispatchTable,
		constant.NewInt(irtypes.I32, 0), idx)
	raw := fc.block.NewLoad(bytePtr, slot)

	params := make([]irtypes.Type, len(args))
	for i := range params {
		params[i] = irtypes.I64
	}
	fnType := irtypes.NewPointer(irtypes.NewFunc(irtypes.I64, params...))
	callee := fc.block.NewBitCast(raw, fnType)
	return fc.block.NewCall(callee, args...), nil
}

// lowerAlloc evaluates Init with allocCtx set, so a record or array literal
// appearing directly as its operand builds its own backing storage on the
// heap rather than the stack (its address is about to outlive this call),
// then wraps the resulting i64 value in one freshly heap-allocated
// reference cell, matching the Ref{Of: ...} a "*p" dereference expects.
func (fc *funcCtx) lowerAlloc(e *ast.AllocExpr) (value.Value, error) {
	v, err := fc.evalExpr(e.Init, true)
	if err != nil {
		return nil, err
	}
	cell := fc.heapAlloc(1)
	slot := fc.block.NewBitCast(cell, irtypes.NewPointer(irtypes.I64))
	fc.block.NewStore(v, slot)
	return fc.block.NewPtrToInt(slot, irtypes.I64), nil
}

// heapAlloc calls calloc for n zeroed 8-byte words and returns the raw i8*.
func (fc *funcCtx) heapAlloc(n int64) value.Value {
	return fc.block.NewCall(fc.c.callocFn, constant.NewInt(irtypes.I64, n), constant.NewInt(irtypes.I64, 8))
}

func (fc *funcCtx) heapAllocDynamic(count value.Value) value.Value {
	return fc.block.NewCall(fc.c.callocFn, count, constant.NewInt(irtypes.I64, 8))
}

// recordStorage returns a pointer to a fresh record-struct slot, on the
// stack by default or on the heap when heap is true (directly under an
// alloc expression).
func (fc *funcCtx) recordStorage(heap bool) value.Value {
	if heap {
		raw := fc.heapAlloc(int64(len(fc.c.fields)))
		return fc.block.NewBitCast(raw, irtypes.NewPointer(fc.c.recordType))
	}
	return fc.entry.NewAlloca(fc.c.recordType)
}

func (fc *funcCtx) lowerRecord(e *ast.RecordExpr, heap bool) (value.Value, error) {
	storage := fc.recordStorage(heap)
	for _, field := range e.Fields {
		v, err := fc.rvalue(field.Init)
		if err != nil {
			return nil, err
		}
		slot := fc.fieldSlot(field.Name)
		ptr := fc.block.NewGetElementPtr(fc.c.recordType, storage,
			constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, int64(slot)))
		fc.block.NewStore(v, ptr)
	}
	return fc.block.NewPtrToInt(storage, irtypes.I64), nil
}

// arrayStorage builds an array-struct with the given runtime length,
// filling its backing data array with fill (one call per element) and
// returning the struct pointer. A negative constLen means the length is
// only known at runtime (an array-of-fill expression): that case always
// heap-allocates the backing storage, stack allocation only being used for
// the fixed-size literal form.
func (fc *funcCtx) arrayStorage(heap bool, length value.Value, constLen int, fill func(i int, slot value.Value) error) (value.Value, error) {
	var data value.Value
	switch {
	case heap && constLen >= 0:
		raw := fc.heapAlloc(int64(constLen))
		data = fc.block.NewBitCast(raw, irtypes.NewPointer(irtypes.I64))
	case constLen >= 0:
		stack := fc.entry.NewAlloca(irtypes.NewArray(uint64(constLen), irtypes.I64))
		data = fc.block.NewBitCast(stack, irtypes.NewPointer(irtypes.I64))
	default:
		raw := fc.heapAllocDynamic(length)
		data = fc.block.NewBitCast(raw, irtypes.NewPointer(irtypes.I64))
	}

	if fill != nil {
		if constLen >= 0 {
			for i := 0; i < constLen; i++ {
				slot := fc.block.NewGetElementPtr(irtypes.I64, data, constant.NewInt(irtypes.I64, int64(i)))
				if err := fill(i, slot); err != nil {
					return nil, err
				}
			}
		}
	}

	var structPtr value.Value
	if heap {
		raw := fc.heapAlloc(2)
		structPtr = fc.block.NewBitCast(raw, irtypes.NewPointer(fc.c.arrayType))
	} else {
		structPtr = fc.entry.NewAlloca(fc.c.arrayType)
	}
	lenPtr := fc.block.NewGetElementPtr(fc.c.arrayType, structPtr,
		constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 0))
	fc.block.NewStore(length, lenPtr)
	dataPtr := fc.block.NewGetElementPtr(fc.c.arrayType, structPtr,
		constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 1))
	fc.block.NewStore(data, dataPtr)
	return fc.block.NewPtrToInt(structPtr, irtypes.I64), nil
}

func (fc *funcCtx) lowerArray(e *ast.ArrayExpr, heap bool) (value.Value, error) {
	n := len(e.Elements)
	values := make([]value.Value, n)
	for i, el := range e.Elements {
		v, err := fc.rvalue(el)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return fc.arrayStorage(heap, constant.NewInt(irtypes.I64, int64(n)), n, func(i int, slot value.Value) error {
		fc.block.NewStore(values[i], slot)
		return nil
	})
}

// lowerArrayOf lowers "[length of value]": value is evaluated once and
// stored into every slot of a runtime-sized backing array.
func (fc *funcCtx) lowerArrayOf(e *ast.ArrayOfExpr, heap bool) (value.Value, error) {
	length, err := fc.rvalue(e.Length)
	if err != nil {
		return nil, err
	}
	fillValue, err := fc.rvalue(e.Value)
	if err != nil {
		return nil, err
	}

	structPtr, err := fc.arrayStorage(heap, length, -1, nil)
	if err != nil {
		return nil, err
	}

	// Fill loop: re-derive the data pointer from the struct we just built.
	arrStructPtr := fc.block.NewIntToPtr(structPtr, irtypes.NewPointer(fc.c.arrayType))
	dataPtrSlot := fc.block.NewGetElementPtr(fc.c.arrayType, arrStructPtr,
		constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 1))
	data := fc.block.NewLoad(irtypes.NewPointer(irtypes.I64), dataPtrSlot)

	idxSlot := fc.entry.NewAlloca(irtypes.I64)
	fc.block.NewStore(constant.NewInt(irtypes.I64, 0), idxSlot)

	condBlock := fc.newBlock("arrayof.cond")
	bodyBlock := fc.newBlock("arrayof.body")
	afterBlock := fc.newBlock("arrayof.end")
	fc.block.NewBr(condBlock)

	fc.block = condBlock
	idx := fc.block.NewLoad(irtypes.I64, idxSlot)
	fc.block.NewCondBr(fc.block.NewICmp(icmpSLT, idx, length), bodyBlock, afterBlock)

	fc.block = bodyBlock
	idx = fc.block.NewLoad(irtypes.I64, idxSlot)
	elemPtr := fc.block.NewGetElementPtr(irtypes.I64, data, idx)
	fc.block.NewStore(fillValue, elemPtr)
	fc.block.NewStore(fc.block.NewAdd(idx, constant.NewInt(irtypes.I64, 1)), idxSlot)
	fc.block.NewBr(condBlock)

	fc.block = afterBlock
	return structPtr, nil
}
