// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ast

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lego0901/Eggompilers/lang/symtab"
	"github.com/lego0901/Eggompilers/lang/tac"
	"github.com/lego0901/Eggompilers/lang/token"
	"github.com/lego0901/Eggompilers/lang/types"
)

func tok(t token.Type, lit string) token.Token {
	return token.New(t, lit, 1, 1)
}

func TestSessionNodeIDs(t *testing.T) {
	sess := NewSession()
	mod := NewModule(sess, tok(token.MODULE, "module"), "m")
	c1 := NewConstant(sess, tok(token.NUMBER, "1"), types.Int, 1)
	c2 := NewConstant(sess, tok(token.NUMBER, "2"), types.Int, 2)

	seen := map[int]bool{mod.ID(): true}
	for _, n := range []Node{c1, c2} {
		require.False(t, seen[n.ID()], "node IDs must be unique")
		seen[n.ID()] = true
	}
	require.Greater(t, c2.ID(), c1.ID(), "IDs must grow with creation order")
}

func TestModuleIntrinsics(t *testing.T) {
	sess := NewSession()
	mod := NewModule(sess, tok(token.MODULE, "module"), "m")

	require.NotNil(t, mod.SymTab().Find(symtab.DimName))
	require.NotNil(t, mod.SymTab().Find(symtab.DofsName))
	require.Equal(t, types.Null, mod.Type())
}

func TestProcedureScope(t *testing.T) {
	sess := NewSession()
	mod := NewModule(sess, tok(token.MODULE, "module"), "m")

	x := symtab.NewParam("x", types.Int)
	sym := symtab.NewProc("f", types.Int, x)
	proc, err := NewProcedure(tok(token.FUNCTION, "function"), "f", mod, sym)
	require.NoError(t, err)

	require.Equal(t, []Scope{Scope(proc)}, mod.Children())
	require.Equal(t, types.Int, proc.Type())
	require.Same(t, x, proc.SymTab().FindLocal("x"))
	require.Same(t, sym, mod.SymTab().Find("f"))
	require.Same(t, sym, proc.SymTab().Find("f"), "lookup must chain to the parent")

	// a second procedure with the same name must be rejected
	_, err = NewProcedure(tok(token.FUNCTION, "function"), "f", mod, symtab.NewProc("f", types.Null))
	require.Error(t, err)
}

func TestInternString(t *testing.T) {
	sess := NewSession()
	mod := NewModule(sess, tok(token.MODULE, "module"), "m")

	s1 := NewStringConstant(tok(token.STRING, `"hello"`), "hello", mod)
	s2 := NewStringConstant(tok(token.STRING, `"hello"`), "hello", mod)

	require.Equal(t, "_str_0", s1.Symbol().Name)
	require.Equal(t, "_str_1", s2.Symbol().Name, "identical literals get distinct symbols")
	require.Equal(t, "hello", s1.Symbol().Data)
	require.Same(t, s1.Symbol(), mod.SymTab().Find("_str_0"))

	// char array sized for the terminator
	at, ok := s1.Type().(*types.ArrayType)
	require.True(t, ok)
	require.Equal(t, types.Char, at.Base())
	require.Equal(t, len("hello")+1, at.Len())
}

func TestInternStringFromProcedure(t *testing.T) {
	sess := NewSession()
	mod := NewModule(sess, tok(token.MODULE, "module"), "m")
	proc, err := NewProcedure(tok(token.PROCEDURE, "procedure"), "p", mod, symtab.NewProc("p", types.Null))
	require.NoError(t, err)

	s := NewStringConstant(tok(token.STRING, `"hi"`), "hi", proc)
	require.Same(t, s.Symbol(), mod.SymTab().FindLocal("_str_0"),
		"literals must land in the module scope")
}

func TestArrayDesignatorSeal(t *testing.T) {
	sess := NewSession()
	arr := symtab.NewGlobal("a", types.NewArray(10, types.Int))

	d := NewArrayDesignator(sess, tok(token.IDENT, "a"), arr)
	d.AddIndex(NewConstant(sess, tok(token.NUMBER, "0"), types.Int, 0))
	d.IndicesComplete()

	require.Equal(t, 1, d.NIndices())
	require.Panics(t, func() {
		d.AddIndex(NewConstant(sess, tok(token.NUMBER, "1"), types.Int, 1))
	})
}

func TestExpressionStrings(t *testing.T) {
	sess := NewSession()
	n := symtab.NewGlobal("n", types.Int)

	e := NewBinaryExpr(sess, tok(token.PLUS, "+"), tac.OpAdd,
		NewDesignator(sess, tok(token.IDENT, "n"), n),
		NewConstant(sess, tok(token.NUMBER, "1"), types.Int, 1))
	require.Equal(t, "(n add 1)", e.String())

	d := NewArrayDesignator(sess, tok(token.IDENT, "a"),
		symtab.NewGlobal("a", types.NewArray(10, types.Int)))
	d.AddIndex(NewDesignator(sess, tok(token.IDENT, "n"), n))
	d.IndicesComplete()
	require.Equal(t, "a[n]", d.String())
}

func TestPrintAndDot(t *testing.T) {
	sess := NewSession()
	mod := NewModule(sess, tok(token.MODULE, "module"), "m")
	n := symtab.NewGlobal("n", types.Int)
	require.NoError(t, mod.SymTab().Add(n))
	mod.SetStatements([]Statement{
		NewAssignStmt(sess, tok(token.ASSIGN, ":="),
			NewDesignator(sess, tok(token.IDENT, "n"), n),
			NewConstant(sess, tok(token.NUMBER, "1"), types.Int, 1)),
	})

	var tree strings.Builder
	Print(&tree, mod)
	require.Contains(t, tree.String(), `module "m"`)
	require.Contains(t, tree.String(), "n := 1")

	var dot strings.Builder
	WriteDot(&dot, mod)
	require.True(t, strings.HasPrefix(dot.String(), "digraph AST {"))
	require.Contains(t, dot.String(), "->")
}
