package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	irtypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/sipforge/sip/internal/ast"
	"github.com/sipforge/sip/internal/diagnostics"
)

// funcCtx carries the state needed while lowering one function body: the
// module-wide Context, the LLVM function and its entry block (where every
// stack slot is allocated, regardless of which block is current), the
// block currently being appended to, and the map from a local declaration
// to its i64 stack slot.
type funcCtx struct {
	c     *Context
	fn    *ir.Func
	entry *ir.Block
	block *ir.Block
	decl  *ast.FuncDecl
	env   map[*ast.Decl]value.Value
}

// lowerFunction emits one function's entry block, its locals' stack slots,
// and its statement sequence. main is emitted under its mangled symbol;
// buildEntryPoint wires the real C entry point separately.
func (c *Context) lowerFunction(f *ast.FuncDecl) error {
	fn := c.llvmFuncs[f.Name]
	entry := fn.NewBlock("entry")
	fc := &funcCtx{c: c, fn: fn, entry: entry, block: entry, decl: f, env: map[*ast.Decl]value.Value{}}

	for _, local := range c.tab.LocalsInOrder(f) {
		fc.env[local] = entry.NewAlloca(irtypes.I64)
	}
	for i, formal := range f.Formals {
		fc.block.NewStore(fn.Params[i], fc.env[formal])
	}

	for _, s := range f.Body {
		if err := fc.lowerStmt(s); err != nil {
			return err
		}
	}

	if fc.block.Term == nil {
		fc.block.NewRet(constant.NewInt(irtypes.I64, 0))
	}
	return nil
}

func (fc *funcCtx) newBlock(name string) *ir.Block {
	return fc.fn.NewBlock(fmt.Sprintf("%s.%d", name, len(fc.fn.Blocks)))
}

func (fc *funcCtx) lowerStmt(s ast.Stmt) error {
	switch s := s.(type) {
	case *ast.DeclStmt:
		return nil

	case *ast.AssignStmt:
		return fc.lowerAssign(s)

	case *ast.BlockStmt:
		for _, inner := range s.Stmts {
			if err := fc.lowerStmt(inner); err != nil {
				return err
			}
		}
		return nil

	case *ast.IfStmt:
		return fc.lowerIf(s)

	case *ast.WhileStmt:
		return fc.lowerWhile(s)

	case *ast.ForRangeStmt:
		return fc.lowerForRange(s)

	case *ast.ForIterStmt:
		return fc.lowerForIter(s)

	case *ast.OutputStmt:
		v, err := fc.rvalue(s.Arg)
		if err != nil {
			return err
		}
		fc.block.NewCall(fc.c.outputFn, v)
		return nil

	case *ast.ErrorStmt:
		v, err := fc.rvalue(s.Arg)
		if err != nil {
			return err
		}
		fc.block.NewCall(fc.c.errorFn, v)
		fc.block.NewUnreachable()
		return nil

	case *ast.ExprStmt:
		_, err := fc.rvalue(s.Expr)
		return err

	case *ast.ReturnStmt:
		v, err := fc.rvalue(s.Arg)
		if err != nil {
			return err
		}
		fc.block.NewRet(v)
		return nil

	default:
		return diagnostics.Bug(s.Position(), "codegen: unhandled statement %T", s)
	}
}

func (fc *funcCtx) lowerAssign(s *ast.AssignStmt) error {
	if deref, ok := s.LHS.(*ast.DeRefExpr); ok {
		ptr, err := fc.rvalue(deref.Ptr)
		if err != nil {
			return err
		}
		rhs, err := fc.rvalue(s.RHS)
		if err != nil {
			return err
		}
		slot := fc.block.NewIntToPtr(ptr, irtypes.NewPointer(irtypes.I64))
		fc.block.NewStore(rhs, slot)
		return nil
	}

	slot, err := fc.lvalue(s.LHS)
	if err != nil {
		return err
	}
	allocCtx := false
	rhs, err := fc.evalExpr(s.RHS, allocCtx)
	if err != nil {
		return err
	}
	fc.block.NewStore(rhs, slot)
	return nil
}

func (fc *funcCtx) lowerIf(s *ast.IfStmt) error {
	cond, err := fc.rvalue(s.Cond)
	if err != nil {
		return err
	}
	test := truthy(fc.block, cond)

	thenBlock := fc.newBlock("if.then")
	mergeBlock := fc.newBlock("if.end")
	elseBlock := mergeBlock
	if s.Else != nil {
		elseBlock = fc.newBlock("if.else")
	}
	fc.block.NewCondBr(test, thenBlock, elseBlock)

	fc.block = thenBlock
	if err := fc.lowerStmt(s.Then); err != nil {
		return err
	}
	if fc.block.Term == nil {
		fc.block.NewBr(mergeBlock)
	}

	if s.Else != nil {
		fc.block = elseBlock
		if err := fc.lowerStmt(s.Else); err != nil {
			return err
		}
		if fc.block.Term == nil {
			fc.block.NewBr(mergeBlock)
		}
	}

	fc.block = mergeBlock
	return nil
}

func (fc *funcCtx) lowerWhile(s *ast.WhileStmt) error {
	condBlock := fc.newBlock("while.cond")
	bodyBlock := fc.newBlock("while.body")
	afterBlock := fc.newBlock("while.end")

	fc.block.NewBr(condBlock)

	fc.block = condBlock
	cond, err := fc.rvalue(s.Cond)
	if err != nil {
		return err
	}
	fc.block.NewCondBr(truthy(fc.block, cond), bodyBlock, afterBlock)

	fc.block = bodyBlock
	if err := fc.lowerStmt(s.Body); err != nil {
		return err
	}
	if fc.block.Term == nil {
		fc.block.NewBr(condBlock)
	}

	fc.block = afterBlock
	return nil
}

// lowerForRange desugars "for (v : lo .. hi by step) body" into a counted
// loop over v's stack slot. The step defaults to 1 and may be negative; the
// loop continues while v has not passed hi in the step's direction.
func (fc *funcCtx) lowerForRange(s *ast.ForRangeStmt) error {
	slot := fc.env[s.Var]

	lo, err := fc.rvalue(s.Low)
	if err != nil {
		return err
	}
	hi, err := fc.rvalue(s.High)
	if err != nil {
		return err
	}
	var step value.Value = constant.NewInt(irtypes.I64, 1)
	if s.Step != nil {
		step, err = fc.rvalue(s.Step)
		if err != nil {
			return err
		}
	}
	fc.block.NewStore(lo, slot)

	condBlock := fc.newBlock("for.cond")
	bodyBlock := fc.newBlock("for.body")
	afterBlock := fc.newBlock("for.end")
	fc.block.NewBr(condBlock)

	fc.block = condBlock
	cur := fc.block.NewLoad(irtypes.I64, slot)
	zero := constant.NewInt(irtypes.I64, 0)
	ascending := fc.block.NewICmp(icmpSGE, step, zero)
	ascCond := fc.block.NewICmp(icmpSLE, cur, hi)
	descCond := fc.block.NewICmp(icmpSGE, cur, hi)
	continue_ := fc.block.NewSelect(ascending, ascCond, descCond)
	fc.block.NewCondBr(continue_, bodyBlock, afterBlock)

	fc.block = bodyBlock
	if err := fc.lowerStmt(s.Body); err != nil {
		return err
	}
	if fc.block.Term == nil {
		next := fc.block.NewLoad(irtypes.I64, slot)
		next = fc.block.NewAdd(next, step)
		fc.block.NewStore(next, slot)
		fc.block.NewBr(condBlock)
	}

	fc.block = afterBlock
	return nil
}

// lowerForIter desugars "for (v : a) body" into an index-counted loop that
// reads each element of a's backing storage into v's slot.
func (fc *funcCtx) lowerForIter(s *ast.ForIterStmt) error {
	arr, err := fc.rvalue(s.Array)
	if err != nil {
		return err
	}
	arrStructPtr := fc.block.NewIntToPtr(arr, irtypes.NewPointer(fc.c.arrayType))
	lenPtr := fc.block.NewGetElementPtr(fc.c.arrayType, arrStructPtr,
		constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 0))
	length := fc.block.NewLoad(irtypes.I64, lenPtr)
	dataPtrSlot := fc.block.NewGetElementPtr(fc.c.arrayType, arrStructPtr,
		constant.NewInt(irtypes.I32, 0), constant.NewInt(irtypes.I32, 1))
	data := fc.block.NewLoad(irtypes.NewPointer(irtypes.I64), dataPtrSlot)

	idxSlot := fc.entry.NewAlloca(irtypes.I64)
	fc.block.NewStore(constant.NewInt(irtypes.I64, 0), idxSlot)

	condBlock := fc.newBlock("foriter.cond")
	bodyBlock := fc.newBlock("foriter.body")
	afterBlock := fc.newBlock("foriter.end")
	fc.block.NewBr(condBlock)

	fc.block = condBlock
	idx := fc.block.NewLoad(irtypes.I64, idxSlot)
	fc.block.NewCondBr(fc.block.NewICmp(icmpSLT, idx, length), bodyBlock, afterBlock)

	fc.block = bodyBlock
	idx = fc.block.NewLoad(irtypes.I64, idxSlot)
	elemPtr := fc.block.NewGetElementPtr(irtypes.I64, data, idx)
	elem := fc.block.NewLoad(irtypes.I64, elemPtr)
	fc.block.NewStore(elem, fc.env[s.Var])
	if err := fc.lowerStmt(s.Body); err != nil {
		return err
	}
	if fc.block.Term == nil {
		idx = fc.block.NewLoad(irtypes.I64, idxSlot)
		fc.block.NewStore(fc.block.NewAdd(idx, constant.NewInt(irtypes.I64, 1)), idxSlot)
		fc.block.NewBr(condBlock)
	}

	fc.block = afterBlock
	return nil
}
