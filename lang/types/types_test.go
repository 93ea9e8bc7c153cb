// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package types

import "testing"

func TestBasicSizes(t *testing.T) {
	cases := []struct {
		typ  Type
		size int
	}{
		{Null, 0},
		{Int, 4},
		{Bool, 1},
		{Char, 1},
		{NewPointer(Int), 8},
		{NewVoidPointer(), 8},
	}
	for _, c := range cases {
		if got := c.typ.Size(); got != c.size {
			t.Errorf("%s: size %d, want %d", c.typ, got, c.size)
		}
	}
}

func TestScalarPredicates(t *testing.T) {
	if Null.IsScalar() {
		t.Error("null must not be scalar")
	}
	for _, typ := range []Type{Int, Bool, Char, NewPointer(Int)} {
		if !typ.IsScalar() {
			t.Errorf("%s must be scalar", typ)
		}
	}
	if NewArray(3, Int).IsScalar() {
		t.Error("arrays must not be scalar")
	}
}

func TestBasicMatch(t *testing.T) {
	if !Int.Match(Int) || !Bool.Match(Bool) || !Char.Match(Char) {
		t.Error("identical basic types must match")
	}
	if Int.Match(Bool) || Int.Match(Char) || Bool.Match(Char) {
		t.Error("distinct basic types must not match")
	}
	if Int.Match(nil) {
		t.Error("nothing matches nil")
	}
}

func TestPointerMatch(t *testing.T) {
	pi := NewPointer(Int)
	pb := NewPointer(Bool)
	void := NewVoidPointer()

	if !pi.Match(NewPointer(Int)) {
		t.Error("pointers to the same base must match")
	}
	if pi.Match(pb) {
		t.Error("pointers to different bases must not match")
	}
	if !void.Match(pi) || !pi.Match(void) {
		t.Error("void pointer must match any pointer, both ways")
	}
	if pi.Match(Int) {
		t.Error("pointer must not match a non-pointer")
	}
}

func TestArrayShape(t *testing.T) {
	a := NewArray(5, NewArray(10, Int))

	if got := a.NDim(); got != 2 {
		t.Errorf("NDim = %d, want 2", got)
	}
	if got := a.Base(); got != Int {
		t.Errorf("Base = %s, want integer", got)
	}
	if got := a.Size(); got != 5*10*4 {
		t.Errorf("Size = %d, want 200", got)
	}
	if got := a.String(); got != "integer[5][10]" {
		t.Errorf("String = %q", got)
	}
}

func TestOpenArray(t *testing.T) {
	open := NewArray(OpenLen, Int)

	if got := open.Size(); got != -1 {
		t.Errorf("open array Size = %d, want -1", got)
	}
	if got := open.String(); got != "integer[]" {
		t.Errorf("String = %q", got)
	}
	if !open.Match(NewArray(7, Int)) || !NewArray(7, Int).Match(open) {
		t.Error("open dimension must match any extent")
	}
	if open.Match(NewArray(7, Char)) {
		t.Error("element types must still match")
	}
}

func TestArrayMatch(t *testing.T) {
	a := NewArray(5, NewArray(10, Int))
	if !a.Match(NewArray(5, NewArray(10, Int))) {
		t.Error("structurally equal arrays must match")
	}
	if a.Match(NewArray(5, NewArray(11, Int))) {
		t.Error("different inner extents must not match")
	}
	if a.Match(NewArray(5, Int)) {
		t.Error("different dimensionality must not match")
	}
}
