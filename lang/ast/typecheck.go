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

	"github.com/lego0901/Eggompilers/lang/tac"
	"github.com/lego0901/Eggompilers/lang/token"
	"github.com/lego0901/Eggompilers/lang/types"
)

// maxInt is one past the largest representable integer literal. The bare
// literal 2147483648 is rejected; it is only legal as the operand of a unary
// minus, where the folded value fits.
const maxInt = int64(1) << 31

// TypeError reports a semantic violation at a source position. Checking
// aborts at the first error.
type TypeError struct {
	Tok token.Token
	Msg string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Tok.Pos, e.Msg)
}

func typeErrorf(tok token.Token, format string, args ...interface{}) error {
	return &TypeError{Tok: tok, Msg: fmt.Sprintf(format, args...)}
}

func typeName(t types.Type) string {
	if t == nil {
		return "<invalid>"
	}
	return t.String()
}

// ---- Scopes ----------------------------------------------------------------

func (s *scope) TypeCheck() error {
	for _, st := range s.stmts {
		if err := st.TypeCheck(); err != nil {
			return err
		}
	}
	for _, c := range s.children {
		if err := c.TypeCheck(); err != nil {
			return err
		}
	}
	return nil
}

// ---- Statements ------------------------------------------------------------

func (s *AssignStmt) TypeCheck() error {
	if err := s.LHS.TypeCheck(); err != nil {
		return err
	}
	if err := s.RHS.TypeCheck(); err != nil {
		return err
	}
	lt := s.LHS.Type()
	if lt == nil || !lt.IsScalar() {
		return typeErrorf(s.LHS.Token(), "assignments to compound types are not supported")
	}
	rt := s.RHS.Type()
	if !lt.Match(rt) {
		return typeErrorf(s.LHS.Token(), "assign type mismatch: LHS %s, RHS %s",
			typeName(lt), typeName(rt))
	}
	return nil
}

func (s *CallStmt) TypeCheck() error {
	return s.Call.TypeCheck()
}

func (s *ReturnStmt) TypeCheck() error {
	st := s.scope.Type()
	if st.IsNull() {
		if s.Expr != nil {
			return typeErrorf(s.tok, "procedure cannot return a value")
		}
		return nil
	}
	if s.Expr == nil {
		return typeErrorf(s.tok, "function must return a value")
	}
	if err := s.Expr.TypeCheck(); err != nil {
		return err
	}
	if et := s.Expr.Type(); !st.Match(et) {
		return typeErrorf(s.Expr.Token(), "return type mismatch: expected %s, got %s",
			typeName(st), typeName(et))
	}
	return nil
}

func checkCondition(cond Expression) error {
	if err := cond.TypeCheck(); err != nil {
		return err
	}
	if ct := cond.Type(); ct == nil || !ct.Match(types.Bool) {
		return typeErrorf(cond.Token(), "condition must be boolean, got %s", typeName(ct))
	}
	return nil
}

func checkBody(stmts []Statement) error {
	for _, st := range stmts {
		if err := st.TypeCheck(); err != nil {
			return err
		}
	}
	return nil
}

func (s *IfStmt) TypeCheck() error {
	if err := checkCondition(s.Cond); err != nil {
		return err
	}
	if err := checkBody(s.Then); err != nil {
		return err
	}
	return checkBody(s.Else)
}

func (s *WhileStmt) TypeCheck() error {
	if err := checkCondition(s.Cond); err != nil {
		return err
	}
	return checkBody(s.Body)
}

// ---- Expressions -----------------------------------------------------------

func (e *BinaryExpr) Type() types.Type {
	switch e.Op {
	case tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv:
		return types.Int
	default:
		return types.Bool
	}
}

func (e *BinaryExpr) TypeCheck() error {
	if err := e.Left.TypeCheck(); err != nil {
		return err
	}
	if err := e.Right.TypeCheck(); err != nil {
		return err
	}
	lt, rt := e.Left.Type(), e.Right.Type()

	switch e.Op {
	case tac.OpAdd, tac.OpSub, tac.OpMul, tac.OpDiv:
		if lt != types.Int || rt != types.Int {
			return typeErrorf(e.tok, "operator %s requires integer operands, got %s and %s",
				e.Op, typeName(lt), typeName(rt))
		}
		return nil

	case tac.OpAnd, tac.OpOr:
		if lt != types.Bool || rt != types.Bool {
			return typeErrorf(e.tok, "operator %s requires boolean operands, got %s and %s",
				e.Op, typeName(lt), typeName(rt))
		}
		return nil

	case tac.OpEqual, tac.OpNotEqual,
		tac.OpLessThan, tac.OpLessEqual, tac.OpGreaterThan, tac.OpGreaterEqual:
		if lt == nil || rt == nil || !lt.IsScalar() || !rt.IsScalar() {
			return typeErrorf(e.tok, "operator %s requires scalar operands, got %s and %s",
				e.Op, typeName(lt), typeName(rt))
		}
		if lt.IsPointer() || rt.IsPointer() {
			return typeErrorf(e.tok, "operator %s is not defined on pointer operands", e.Op)
		}
		if !lt.Match(rt) {
			return typeErrorf(e.tok, "operator %s type mismatch: %s and %s",
				e.Op, typeName(lt), typeName(rt))
		}
		if e.Op != tac.OpEqual && e.Op != tac.OpNotEqual && lt == types.Bool {
			return typeErrorf(e.tok, "ordering is not defined on boolean operands")
		}
		return nil

	default:
		return typeErrorf(e.tok, "invalid binary operator %s", e.Op)
	}
}

func (e *UnaryExpr) Type() types.Type {
	if e.Op == tac.OpNot {
		return types.Bool
	}
	return types.Int
}

func (e *UnaryExpr) TypeCheck() error {
	// A unary minus directly on an integer literal is checked against the
	// folded value, so -2147483648 is accepted although the bare literal is
	// out of range.
	if c, ok := e.Operand.(*Constant); ok && e.Op == tac.OpNeg && c.Type() == types.Int {
		if c.Value() > maxInt {
			return typeErrorf(c.Token(), "invalid number: -%d", c.Value())
		}
		return nil
	}
	if err := e.Operand.TypeCheck(); err != nil {
		return err
	}
	ot := e.Operand.Type()
	switch e.Op {
	case tac.OpNeg, tac.OpPos:
		if ot != types.Int {
			return typeErrorf(e.tok, "operator %s requires an integer operand, got %s",
				e.Op, typeName(ot))
		}
	case tac.OpNot:
		if ot != types.Bool {
			return typeErrorf(e.tok, "operator %s requires a boolean operand, got %s",
				e.Op, typeName(ot))
		}
	default:
		return typeErrorf(e.tok, "invalid unary operator %s", e.Op)
	}
	return nil
}

func (e *SpecialExpr) Type() types.Type {
	switch e.Op {
	case tac.OpAddress:
		ot := e.Operand.Type()
		if ot == nil {
			return nil
		}
		return types.NewPointer(ot)
	case tac.OpDeref:
		if pt, ok := e.Operand.Type().(*types.PointerType); ok {
			return pt.Base()
		}
		return nil
	default: // OpCast
		return e.castType
	}
}

func (e *SpecialExpr) TypeCheck() error {
	if err := e.Operand.TypeCheck(); err != nil {
		return err
	}
	switch e.Op {
	case tac.OpAddress:
		return nil
	case tac.OpDeref:
		if ot := e.Operand.Type(); ot == nil || !ot.IsPointer() {
			return typeErrorf(e.tok, "dereference of non-pointer type %s", typeName(ot))
		}
		return nil
	case tac.OpCast:
		if e.castType == nil {
			return typeErrorf(e.tok, "cast to invalid type")
		}
		return nil
	default:
		return typeErrorf(e.tok, "invalid special operator %s", e.Op)
	}
}

func (e *CallExpr) Type() types.Type { return e.Proc.DataType }

func (e *CallExpr) TypeCheck() error {
	if !e.Proc.IsProcedure() {
		return typeErrorf(e.tok, "%s is not a procedure", e.Proc.Name)
	}
	if len(e.Args) != len(e.Proc.Params) {
		return typeErrorf(e.tok, "wrong number of arguments: expected %d, got %d",
			len(e.Proc.Params), len(e.Args))
	}
	for i, arg := range e.Args {
		if err := arg.TypeCheck(); err != nil {
			return err
		}
		pt := e.Proc.Params[i].DataType
		if at := arg.Type(); !pt.Match(at) {
			return typeErrorf(arg.Token(), "argument %d type mismatch: expected %s, got %s",
				i+1, typeName(pt), typeName(at))
		}
	}
	return nil
}

func (e *Designator) Type() types.Type { return e.sym.DataType }

func (e *Designator) TypeCheck() error {
	if e.sym.DataType == nil || e.sym.DataType.IsNull() {
		return typeErrorf(e.tok, "invalid designator type")
	}
	return nil
}

// arrayType returns the designated array type, looking through one pointer
// indirection for arrays passed by reference.
func (e *ArrayDesignator) arrayType() types.Type {
	t := e.sym.DataType
	if pt, ok := t.(*types.PointerType); ok {
		t = pt.Base()
	}
	return t
}

func (e *ArrayDesignator) Type() types.Type {
	t := e.arrayType()
	for range e.indices {
		at, ok := t.(*types.ArrayType)
		if !ok {
			return nil
		}
		t = at.Inner()
	}
	return t
}

func (e *ArrayDesignator) TypeCheck() error {
	if !e.sealed {
		panic("ast: TypeCheck before IndicesComplete")
	}
	t := e.arrayType()
	for i, idx := range e.indices {
		at, ok := t.(*types.ArrayType)
		if !ok {
			return typeErrorf(idx.Token(), "too many indices for %s", typeName(e.arrayType()))
		}
		if err := idx.TypeCheck(); err != nil {
			return err
		}
		if it := idx.Type(); it == nil || !it.Match(types.Int) {
			return typeErrorf(idx.Token(), "array index %d must be integer, got %s",
				i+1, typeName(it))
		}
		t = at.Inner()
	}
	return nil
}

func (e *Constant) Type() types.Type { return e.typ }

func (e *Constant) TypeCheck() error {
	if e.typ == nil || e.typ.IsNull() {
		return typeErrorf(e.tok, "invalid constant type")
	}
	if e.typ == types.Int && e.value >= maxInt {
		return typeErrorf(e.tok, "invalid number: %d", e.value)
	}
	return nil
}

func (e *StringConstant) Type() types.Type { return e.typ }

func (e *StringConstant) TypeCheck() error { return nil }
