// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package symtab

import (
	"testing"

	"github.com/lego0901/Eggompilers/lang/types"
)

func TestAddAndFind(t *testing.T) {
	global := New(nil)
	local := New(global)

	n := NewGlobal("n", types.Int)
	if err := global.Add(n); err != nil {
		t.Fatal(err)
	}
	x := NewLocal("x", types.Bool)
	if err := local.Add(x); err != nil {
		t.Fatal(err)
	}

	if got := local.Find("n"); got != n {
		t.Error("Find must search enclosing scopes")
	}
	if got := local.FindLocal("n"); got != nil {
		t.Error("FindLocal must not search enclosing scopes")
	}
	if got := global.Find("x"); got != nil {
		t.Error("outer scope must not see inner symbols")
	}
}

func TestShadowing(t *testing.T) {
	global := New(nil)
	local := New(global)

	outer := NewGlobal("v", types.Int)
	inner := NewLocal("v", types.Bool)
	if err := global.Add(outer); err != nil {
		t.Fatal(err)
	}
	if err := local.Add(inner); err != nil {
		t.Fatal(err)
	}
	if got := local.Find("v"); got != inner {
		t.Error("inner symbol must shadow the outer one")
	}
}

func TestDuplicate(t *testing.T) {
	st := New(nil)
	if err := st.Add(NewGlobal("n", types.Int)); err != nil {
		t.Fatal(err)
	}
	if err := st.Add(NewGlobal("n", types.Bool)); err == nil {
		t.Error("duplicate in the same scope must fail")
	}
}

func TestDeclarationOrder(t *testing.T) {
	st := New(nil)
	names := []string{"c", "a", "b"}
	for _, n := range names {
		if err := st.Add(NewGlobal(n, types.Int)); err != nil {
			t.Fatal(err)
		}
	}
	syms := st.Symbols()
	if len(syms) != len(names) {
		t.Fatalf("got %d symbols", len(syms))
	}
	for i, n := range names {
		if syms[i].Name != n {
			t.Errorf("symbol %d = %s, want %s", i, syms[i].Name, n)
		}
	}
}

func TestArrayIntrinsics(t *testing.T) {
	st := New(nil)
	if err := InstallArrayIntrinsics(st); err != nil {
		t.Fatal(err)
	}

	dim := st.Find(DimName)
	if dim == nil || !dim.IsProcedure() {
		t.Fatal("DIM must be installed as a procedure")
	}
	if len(dim.Params) != 2 {
		t.Errorf("DIM takes %d params, want 2", len(dim.Params))
	}
	if dim.DataType != types.Int {
		t.Errorf("DIM returns %s, want integer", dim.DataType)
	}
	if !dim.Params[0].DataType.IsPointer() {
		t.Error("DIM first param must be a pointer")
	}

	dofs := st.Find(DofsName)
	if dofs == nil || !dofs.IsProcedure() {
		t.Fatal("DOFS must be installed as a procedure")
	}
	if len(dofs.Params) != 1 {
		t.Errorf("DOFS takes %d params, want 1", len(dofs.Params))
	}

	// the wildcard pointer must accept a pointer to any concrete array
	argT := types.NewPointer(types.NewArray(4, types.Int))
	if !dofs.Params[0].DataType.Match(argT) {
		t.Error("DOFS must accept a pointer to any array")
	}
}
