// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package tac defines the three-address code intermediate representation.
//
// Design overview:
//
//   - One Op enumeration covers both AST operators and TAC opcodes; the
//     lowering engine reuses the AST operator directly as the instruction
//     opcode for arithmetic and relational operations.
//   - Relational opcodes are jump instructions at the TAC level: the
//     destination operand is the label taken when the comparison holds;
//     falling through means false. Boolean && / || never reach the
//     instruction stream — they exist only as control flow.
//   - Addresses come in five variants: Name (symbol reference), Const
//     (integer literal), Temp (compiler-generated, typed, numbered),
//     Reference (a temporary holding a computed memory address, tagged with
//     the symbol it indirects) and Label (jump target).
package tac

import (
	"fmt"

	"github.com/lego0901/Eggompilers/lang/symtab"
)

// Op is an AST operator or TAC opcode.
type Op int

const (
	// binary operators
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpAnd // never emitted: lowered to control flow
	OpOr  // never emitted: lowered to control flow

	// relational operators; emitted as conditional jumps
	OpEqual
	OpNotEqual
	OpLessThan
	OpLessEqual
	OpGreaterThan
	OpGreaterEqual

	// unary operators
	OpNeg
	OpPos
	OpNot // never emitted: lowered to control flow

	// special operators
	OpAddress
	OpDeref // never emitted: dereferences lower to Reference addresses
	OpCast  // never emitted: casts only reinterpret the static type

	// TAC-only opcodes
	OpAssign
	OpGoto
	OpCall
	OpParam
	OpReturn
	OpLabel
	OpNop
)

var opNames = map[Op]string{
	OpAdd: "add", OpSub: "sub", OpMul: "mul", OpDiv: "div",
	OpAnd: "and", OpOr: "or",
	OpEqual: "=", OpNotEqual: "#",
	OpLessThan: "<", OpLessEqual: "<=",
	OpGreaterThan: ">", OpGreaterEqual: ">=",
	OpNeg: "neg", OpPos: "pos", OpNot: "not",
	OpAddress: "&()", OpDeref: "*()", OpCast: "cast",
	OpAssign: "assign", OpGoto: "goto", OpCall: "call",
	OpParam: "param", OpReturn: "return", OpLabel: "label", OpNop: "nop",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return fmt.Sprintf("op(%d)", op)
}

// IsRelOp reports whether op is one of the six relational operators.
func IsRelOp(op Op) bool {
	return op >= OpEqual && op <= OpGreaterEqual
}

// ---- Addresses -------------------------------------------------------------

// Addr is a TAC operand or destination.
type Addr interface {
	addr()
	String() string
}

// Const is an integer literal operand.
type Const struct {
	Value int64
}

func NewConst(v int64) *Const { return &Const{Value: v} }

func (c *Const) addr()          {}
func (c *Const) String() string { return fmt.Sprintf("%d", c.Value) }

// Name references a declared symbol.
type Name struct {
	Sym *symtab.Symbol
}

func NewName(sym *symtab.Symbol) *Name { return &Name{Sym: sym} }

func (n *Name) addr()          {}
func (n *Name) String() string { return n.Sym.Name }

// Temp is a compiler-generated temporary. Its backing symbol is a numbered
// local registered in the owning scope's symbol table; the symbol carries the
// temporary's type.
type Temp struct {
	Sym *symtab.Symbol
}

func (t *Temp) addr()          {}
func (t *Temp) String() string { return t.Sym.Name }

// Reference is a temporary holding a computed memory address. Deref is the
// declared symbol the address indirects, so later consumers know what storage
// the reference designates.
type Reference struct {
	Sym   *symtab.Symbol // the temporary holding the address
	Deref *symtab.Symbol // the symbol being indirected
}

func (r *Reference) addr() {}
func (r *Reference) String() string {
	return fmt.Sprintf("@%s(%s)", r.Sym.Name, r.Deref.Name)
}

// Label is a jump target, optionally carrying a human-readable hint.
type Label struct {
	id   int
	hint string
}

func (l *Label) addr() {}
func (l *Label) String() string {
	if l.hint != "" {
		return fmt.Sprintf("L%d_%s", l.id, l.hint)
	}
	return fmt.Sprintf("L%d", l.id)
}

// ---- Instructions ----------------------------------------------------------

// Instr is a single three-address instruction: an opcode, up to two source
// operands and one destination. For jump opcodes (goto and the relational
// operators) Dst is the target Label; for OpLabel Dst is the label being
// defined.
type Instr struct {
	Op   Op
	Dst  Addr
	Src1 Addr
	Src2 Addr
}

// Target returns the jump target of a goto or conditional-jump instruction,
// or nil for every other opcode.
func (in *Instr) Target() *Label {
	if in.Op == OpGoto || IsRelOp(in.Op) {
		if l, ok := in.Dst.(*Label); ok {
			return l
		}
	}
	return nil
}

// IsLabel reports whether the instruction defines a label.
func (in *Instr) IsLabel() bool { return in.Op == OpLabel }

func (in *Instr) String() string {
	switch {
	case in.Op == OpLabel:
		return fmt.Sprintf("%s:", in.Dst)
	case in.Op == OpGoto:
		return fmt.Sprintf("goto %s", in.Dst)
	case IsRelOp(in.Op):
		return fmt.Sprintf("if %s %s %s goto %s", in.Src1, in.Op, in.Src2, in.Dst)
	case in.Op == OpAssign:
		return fmt.Sprintf("%s <- %s", in.Dst, in.Src1)
	case in.Op == OpParam:
		return fmt.Sprintf("param %s <- %s", in.Dst, in.Src1)
	case in.Op == OpCall:
		if in.Dst != nil {
			return fmt.Sprintf("%s <- call %s", in.Dst, in.Src1)
		}
		return fmt.Sprintf("call %s", in.Src1)
	case in.Op == OpReturn:
		if in.Src1 != nil {
			return fmt.Sprintf("return %s", in.Src1)
		}
		return "return"
	case in.Src2 != nil:
		return fmt.Sprintf("%s <- %s %s %s", in.Dst, in.Src1, in.Op, in.Src2)
	case in.Src1 != nil:
		return fmt.Sprintf("%s <- %s %s", in.Dst, in.Op, in.Src1)
	default:
		return in.Op.String()
	}
}
