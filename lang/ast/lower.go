// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

import (
	"fmt"

	"github.com/lego0901/Eggompilers/lang/symtab"
	"github.com/lego0901/Eggompilers/lang/tac"
	"github.com/lego0901/Eggompilers/lang/types"
)

// Lowering assumes a tree that passed TypeCheck; violations of that
// precondition panic.
//
// Boolean expressions are lowered as jumping code: the condition form
// (ToTacCond) transfers control to one of two labels and never materializes
// a boolean value. The value form of a boolean expression wraps the
// condition form with a temporary that is assigned 1 on the true path and 0
// on the false path.

// ---- Scopes ----------------------------------------------------------------

func (s *scope) Lower() *tac.CodeBlock {
	cb := tac.NewCodeBlock(s.name, s.st)
	lowerStatements(cb, s.stmts)
	cb.CleanupControlFlow()
	s.cb = cb
	return cb
}

// lowerStatements threads a fresh continuation label through each statement:
// the statement jumps to it when done, and its definition follows
// immediately. CleanupControlFlow later collapses the redundant ones.
func lowerStatements(cb *tac.CodeBlock, stmts []Statement) {
	for _, st := range stmts {
		next := cb.CreateLabel("")
		st.ToTac(cb, next)
		cb.AddLabel(next)
	}
}

// ---- Statements ------------------------------------------------------------

func (s *AssignStmt) ToTac(cb *tac.CodeBlock, next *tac.Label) {
	src := s.RHS.ToTac(cb)
	dst := s.LHS.ToTac(cb)
	cb.Add(&tac.Instr{Op: tac.OpAssign, Dst: dst, Src1: src})
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: next})
}

func (s *CallStmt) ToTac(cb *tac.CodeBlock, next *tac.Label) {
	s.Call.ToTac(cb)
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: next})
}

func (s *ReturnStmt) ToTac(cb *tac.CodeBlock, next *tac.Label) {
	in := &tac.Instr{Op: tac.OpReturn}
	if s.Expr != nil {
		in.Src1 = s.Expr.ToTac(cb)
	}
	cb.Add(in)
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: next})
}

func (s *IfStmt) ToTac(cb *tac.CodeBlock, next *tac.Label) {
	ltrue := cb.CreateLabel("if_true")
	lfalse := cb.CreateLabel("if_false")

	s.Cond.ToTacCond(cb, ltrue, lfalse)

	cb.AddLabel(ltrue)
	lowerStatements(cb, s.Then)
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: next})

	cb.AddLabel(lfalse)
	lowerStatements(cb, s.Else)
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: next})
}

func (s *WhileStmt) ToTac(cb *tac.CodeBlock, next *tac.Label) {
	lcond := cb.CreateLabel("while_cond")
	lbody := cb.CreateLabel("while_body")

	cb.AddLabel(lcond)
	s.Cond.ToTacCond(cb, lbody, next)

	cb.AddLabel(lbody)
	lowerStatements(cb, s.Body)
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: lcond})
	// unreachable, kept for structural uniformity; cleanup drops it
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: next})
}

// ---- Expressions -----------------------------------------------------------

// materializeBool lowers a boolean expression in value form: the condition
// form branches to assignments of 1 and 0 into a fresh temporary.
func materializeBool(cb *tac.CodeBlock, e Expression) tac.Addr {
	ltrue := cb.CreateLabel("")
	lfalse := cb.CreateLabel("")
	lend := cb.CreateLabel("")
	tmp := cb.CreateTemp(types.Bool)

	e.ToTacCond(cb, ltrue, lfalse)
	cb.AddLabel(ltrue)
	cb.Add(&tac.Instr{Op: tac.OpAssign, Dst: tmp, Src1: tac.NewConst(1)})
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: lend})
	cb.AddLabel(lfalse)
	cb.Add(&tac.Instr{Op: tac.OpAssign, Dst: tmp, Src1: tac.NewConst(0)})
	cb.AddLabel(lend)
	return tmp
}

// testValue lowers a non-boolean-operator expression appearing in condition
// position: its value is compared against 1.
func testValue(cb *tac.CodeBlock, e Expression, ltrue, lfalse *tac.Label) {
	v := e.ToTac(cb)
	cb.Add(&tac.Instr{Op: tac.OpEqual, Dst: ltrue, Src1: v, Src2: tac.NewConst(1)})
	cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: lfalse})
}

func (e *BinaryExpr) ToTac(cb *tac.CodeBlock) tac.Addr {
	switch e.Op {
	case tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv:
		l := e.Left.ToTac(cb)
		r := e.Right.ToTac(cb)
		tmp := cb.CreateTemp(types.Int)
		cb.Add(&tac.Instr{Op: e.Op, Dst: tmp, Src1: l, Src2: r})
		return tmp
	default:
		return materializeBool(cb, e)
	}
}

func (e *BinaryExpr) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	switch e.Op {
	case tac.OpAnd:
		lmid := cb.CreateLabel("")
		e.Left.ToTacCond(cb, lmid, lfalse)
		cb.AddLabel(lmid)
		e.Right.ToTacCond(cb, ltrue, lfalse)

	case tac.OpOr:
		lmid := cb.CreateLabel("")
		e.Left.ToTacCond(cb, ltrue, lmid)
		cb.AddLabel(lmid)
		e.Right.ToTacCond(cb, ltrue, lfalse)

	case tac.OpEqual, tac.OpNotEqual,
		tac.OpLessThan, tac.OpLessEqual, tac.OpGreaterThan, tac.OpGreaterEqual:
		l := e.Left.ToTac(cb)
		r := e.Right.ToTac(cb)
		cb.Add(&tac.Instr{Op: e.Op, Dst: ltrue, Src1: l, Src2: r})
		cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: lfalse})

	default:
		panic(fmt.Sprintf("ast: operator %s has no condition form", e.Op))
	}
}

func (e *UnaryExpr) ToTac(cb *tac.CodeBlock) tac.Addr {
	if e.Op == tac.OpNot {
		return materializeBool(cb, e)
	}
	// fold sign application into the literal itself; no instructions are
	// emitted
	if c, ok := e.Operand.(*Constant); ok && c.Type() == types.Int {
		if e.Op == tac.OpNeg {
			c.SetValue(-c.Value())
		}
		return tac.NewConst(c.Value())
	}
	src := e.Operand.ToTac(cb)
	tmp := cb.CreateTemp(types.Int)
	cb.Add(&tac.Instr{Op: e.Op, Dst: tmp, Src1: src})
	return tmp
}

func (e *UnaryExpr) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	if e.Op != tac.OpNot {
		panic(fmt.Sprintf("ast: operator %s has no condition form", e.Op))
	}
	e.Operand.ToTacCond(cb, lfalse, ltrue)
}

func (e *SpecialExpr) ToTac(cb *tac.CodeBlock) tac.Addr {
	switch e.Op {
	case tac.OpAddress:
		src := e.Operand.ToTac(cb)
		tmp := cb.CreateTemp(e.Type())
		cb.Add(&tac.Instr{Op: tac.OpAddress, Dst: tmp, Src1: src})
		return tmp
	case tac.OpDeref:
		// a dereference is a Reference: a temporary holding the pointer,
		// tagged with the symbol it indirects
		src := e.Operand.ToTac(cb)
		tmp, ok := src.(*tac.Temp)
		if !ok {
			tmp = cb.CreateTemp(e.Operand.Type())
			cb.Add(&tac.Instr{Op: tac.OpAssign, Dst: tmp, Src1: src})
		}
		deref := tmp.Sym
		if d, isDes := e.Operand.(interface{ Symbol() *symtab.Symbol }); isDes {
			deref = d.Symbol()
		}
		return &tac.Reference{Sym: tmp.Sym, Deref: deref}
	default:
		// casts only reinterpret the static type
		return e.Operand.ToTac(cb)
	}
}

func (e *SpecialExpr) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	// a boolean-typed dereference or cast in condition position is tested
	// by value, like a designator or call
	if t := e.Type(); t != nil && t.Match(types.Bool) {
		testValue(cb, e, ltrue, lfalse)
		return
	}
	panic(fmt.Sprintf("ast: operator %s has no condition form", e.Op))
}

func (e *CallExpr) ToTac(cb *tac.CodeBlock) tac.Addr {
	// arguments are evaluated and pushed last to first
	for i := len(e.Args) - 1; i >= 0; i-- {
		a := e.Args[i].ToTac(cb)
		cb.Add(&tac.Instr{Op: tac.OpParam, Dst: tac.NewConst(int64(i)), Src1: a})
	}
	if e.Proc.DataType.IsNull() {
		cb.Add(&tac.Instr{Op: tac.OpCall, Src1: tac.NewName(e.Proc)})
		return nil
	}
	tmp := cb.CreateTemp(e.Proc.DataType)
	cb.Add(&tac.Instr{Op: tac.OpCall, Dst: tmp, Src1: tac.NewName(e.Proc)})
	return tmp
}

func (e *CallExpr) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	testValue(cb, e, ltrue, lfalse)
}

func (e *Designator) ToTac(cb *tac.CodeBlock) tac.Addr {
	return tac.NewName(e.sym)
}

func (e *Designator) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	testValue(cb, e, ltrue, lfalse)
}

// ToTac computes the address of the designated array element and returns a
// reference through it. The index expressions are linearized against the
// runtime array descriptor: DIM supplies the dimension sizes and DOFS the
// offset of the element data behind the descriptor header.
func (e *ArrayDesignator) ToTac(cb *tac.CodeBlock) tac.Addr {
	if !e.sealed {
		panic("ast: ToTac before IndicesComplete")
	}
	base := e.descriptor(cb)
	at := e.arrayType().(*types.ArrayType)

	// row-major linearization over every declared dimension: with partial
	// indexing the missing trailing indices are zero, so the address lands
	// on the start of the remaining subarray
	index := func(d int) tac.Addr {
		if d < len(e.indices) {
			return e.indices[d].ToTac(cb)
		}
		return tac.NewConst(0)
	}
	idx := index(0)
	for d := 1; d < at.NDim(); d++ {
		dim := emitIntrinsic(cb, symtab.DimName, base, tac.NewConst(int64(d+1)))
		t := cb.CreateTemp(types.Int)
		cb.Add(&tac.Instr{Op: tac.OpMul, Dst: t, Src1: idx, Src2: dim})
		iv := index(d)
		t2 := cb.CreateTemp(types.Int)
		cb.Add(&tac.Instr{Op: tac.OpAdd, Dst: t2, Src1: t, Src2: iv})
		idx = t2
	}

	scaled := cb.CreateTemp(types.Int)
	cb.Add(&tac.Instr{Op: tac.OpMul, Dst: scaled, Src1: idx, Src2: tac.NewConst(int64(at.Base().Size()))})

	dofs := emitIntrinsic(cb, symtab.DofsName, base)
	off := cb.CreateTemp(types.Int)
	cb.Add(&tac.Instr{Op: tac.OpAdd, Dst: off, Src1: scaled, Src2: dofs})

	addr := cb.CreateTemp(types.NewPointer(e.Type()))
	cb.Add(&tac.Instr{Op: tac.OpAdd, Dst: addr, Src1: base, Src2: off})
	return &tac.Reference{Sym: addr.Sym, Deref: e.sym}
}

// descriptor yields the address of the array descriptor: the symbol itself
// if it is already a pointer, otherwise its address taken once and reused
// for every intrinsic call.
func (e *ArrayDesignator) descriptor(cb *tac.CodeBlock) tac.Addr {
	if e.sym.DataType.IsPointer() {
		return tac.NewName(e.sym)
	}
	tmp := cb.CreateTemp(types.NewPointer(e.sym.DataType))
	cb.Add(&tac.Instr{Op: tac.OpAddress, Dst: tmp, Src1: tac.NewName(e.sym)})
	return tmp
}

// emitIntrinsic emits a call to one of the array runtime procedures found in
// the block's symbol table.
func emitIntrinsic(cb *tac.CodeBlock, name string, args ...tac.Addr) tac.Addr {
	proc := cb.SymTab().Find(name)
	if proc == nil {
		panic(fmt.Sprintf("ast: intrinsic %s not installed", name))
	}
	for i := len(args) - 1; i >= 0; i-- {
		cb.Add(&tac.Instr{Op: tac.OpParam, Dst: tac.NewConst(int64(i)), Src1: args[i]})
	}
	tmp := cb.CreateTemp(proc.DataType)
	cb.Add(&tac.Instr{Op: tac.OpCall, Dst: tmp, Src1: tac.NewName(proc)})
	return tmp
}

func (e *ArrayDesignator) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	testValue(cb, e, ltrue, lfalse)
}

func (e *Constant) ToTac(cb *tac.CodeBlock) tac.Addr {
	return tac.NewConst(e.value)
}

func (e *Constant) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	// a literal condition is an unconditional jump
	if e.value != 0 {
		cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: ltrue})
	} else {
		cb.Add(&tac.Instr{Op: tac.OpGoto, Dst: lfalse})
	}
}

func (e *StringConstant) ToTac(cb *tac.CodeBlock) tac.Addr {
	return tac.NewName(e.sym)
}

func (e *StringConstant) ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label) {
	panic("ast: string constant has no condition form")
}
