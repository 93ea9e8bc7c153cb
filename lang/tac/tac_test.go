// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package tac

import (
	"testing"

	"github.com/lego0901/Eggompilers/lang/symtab"
	"github.com/lego0901/Eggompilers/lang/types"
)

func newBlock(t *testing.T) *CodeBlock {
	t.Helper()
	return NewCodeBlock("test", symtab.New(nil))
}

func TestCreateTemp(t *testing.T) {
	cb := newBlock(t)

	t0 := cb.CreateTemp(types.Int)
	t1 := cb.CreateTemp(types.Bool)
	if t0.String() != "t0" || t1.String() != "t1" {
		t.Errorf("temp names %s, %s", t0, t1)
	}
	if t0.Sym.DataType != types.Int || t1.Sym.DataType != types.Bool {
		t.Error("temps must carry their type")
	}
	if cb.SymTab().FindLocal("t0") != t0.Sym {
		t.Error("temp symbol must be registered in the block's symbol table")
	}
}

func TestCreateLabel(t *testing.T) {
	cb := newBlock(t)

	l0 := cb.CreateLabel("")
	l1 := cb.CreateLabel("while_cond")
	if l0.String() != "L0" {
		t.Errorf("label = %s", l0)
	}
	if l1.String() != "L1_while_cond" {
		t.Errorf("label = %s", l1)
	}
}

func TestInstrString(t *testing.T) {
	cb := newBlock(t)
	a := NewName(symtab.NewLocal("a", types.Int))
	b := NewName(symtab.NewLocal("b", types.Int))
	tmp := cb.CreateTemp(types.Int)
	l := cb.CreateLabel("")
	f := NewName(symtab.NewProc("f", types.Int))

	cases := []struct {
		in   *Instr
		want string
	}{
		{&Instr{Op: OpAdd, Dst: tmp, Src1: a, Src2: b}, "t0 <- a add b"},
		{&Instr{Op: OpNeg, Dst: tmp, Src1: a}, "t0 <- neg a"},
		{&Instr{Op: OpAssign, Dst: a, Src1: NewConst(7)}, "a <- 7"},
		{&Instr{Op: OpLessThan, Dst: l, Src1: a, Src2: b}, "if a < b goto L0"},
		{&Instr{Op: OpGoto, Dst: l}, "goto L0"},
		{&Instr{Op: OpLabel, Dst: l}, "L0:"},
		{&Instr{Op: OpParam, Dst: NewConst(1), Src1: a}, "param 1 <- a"},
		{&Instr{Op: OpCall, Dst: tmp, Src1: f}, "t0 <- call f"},
		{&Instr{Op: OpCall, Src1: f}, "call f"},
		{&Instr{Op: OpReturn, Src1: a}, "return a"},
		{&Instr{Op: OpReturn}, "return"},
	}
	for _, c := range cases {
		if got := c.in.String(); got != c.want {
			t.Errorf("String = %q, want %q", got, c.want)
		}
	}
}

func TestTarget(t *testing.T) {
	cb := newBlock(t)
	l := cb.CreateLabel("")
	a := NewName(symtab.NewLocal("a", types.Int))

	if got := (&Instr{Op: OpGoto, Dst: l}).Target(); got != l {
		t.Error("goto target")
	}
	if got := (&Instr{Op: OpEqual, Dst: l, Src1: a, Src2: a}).Target(); got != l {
		t.Error("conditional jump target")
	}
	if got := (&Instr{Op: OpLabel, Dst: l}).Target(); got != nil {
		t.Error("label definition is not a jump")
	}
	if got := (&Instr{Op: OpAssign, Dst: a, Src1: a}).Target(); got != nil {
		t.Error("assign is not a jump")
	}
}

func TestIsRelOp(t *testing.T) {
	for _, op := range []Op{OpEqual, OpNotEqual, OpLessThan, OpLessEqual, OpGreaterThan, OpGreaterEqual} {
		if !IsRelOp(op) {
			t.Errorf("%s must be relational", op)
		}
	}
	for _, op := range []Op{OpAdd, OpAnd, OpNot, OpGoto, OpAssign, OpLabel} {
		if IsRelOp(op) {
			t.Errorf("%s must not be relational", op)
		}
	}
}
