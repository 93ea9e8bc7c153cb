// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package types defines the SnuPL/1 type descriptors.
//
// Design principles:
//   - Scalar types (integer, boolean, char) and the distinguished null type
//     are pre-allocated singletons.
//   - Pointer and array descriptors are built with NewPointer / NewArray and
//     compared only structurally via Match; identity never matters.
//   - Pointers are scalar (they fit a register); arrays are not.
//   - The null type marks "no value": procedure return types and the
//     invalid-expression sentinel.
package types

import (
	"fmt"
	"strings"
)

// Kind categorizes the fundamental shape of a type.
type Kind int

const (
	KindNull Kind = iota
	KindInt
	KindBool
	KindChar
	KindPointer
	KindArray
)

var kindNames = [...]string{
	KindNull:    "null",
	KindInt:     "integer",
	KindBool:    "boolean",
	KindChar:    "char",
	KindPointer: "pointer",
	KindArray:   "array",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Type is the interface all SnuPL/1 type descriptors implement.
type Type interface {
	// Kind returns the fundamental category of this type.
	Kind() Kind

	// String returns the human-readable representation used in diagnostics.
	String() string

	// Match reports whether two types are structurally compatible. Open array
	// lengths and null-based ("void") pointers act as wildcards.
	Match(other Type) bool

	// IsNull reports whether this is the distinguished null type.
	IsNull() bool

	// IsScalar reports whether values of this type fit a single register.
	// Integer, boolean, char and pointers are scalar; arrays and null are not.
	IsScalar() bool

	// IsPointer reports whether this is a pointer type.
	IsPointer() bool

	// IsArray reports whether this is an array type.
	IsArray() bool

	// Size returns the storage size in bytes, or -1 for open arrays.
	Size() int
}

// ---- Scalar and null types -------------------------------------------------

type basicType struct {
	kind Kind
	size int
}

func (b *basicType) Kind() Kind      { return b.kind }
func (b *basicType) String() string  { return b.kind.String() }
func (b *basicType) IsNull() bool    { return b.kind == KindNull }
func (b *basicType) IsScalar() bool  { return b.kind != KindNull }
func (b *basicType) IsPointer() bool { return false }
func (b *basicType) IsArray() bool   { return false }
func (b *basicType) Size() int       { return b.size }

func (b *basicType) Match(other Type) bool {
	if other == nil {
		return false
	}
	return b.kind == other.Kind()
}

// Pre-allocated singletons.
var (
	Null Type = &basicType{kind: KindNull, size: 0}
	Int  Type = &basicType{kind: KindInt, size: 4}
	Bool Type = &basicType{kind: KindBool, size: 1}
	Char Type = &basicType{kind: KindChar, size: 1}
)

// ---- Pointer type ----------------------------------------------------------

// PointerType is "ptr to Base". A pointer whose base is the null type is the
// void pointer; it matches any other pointer.
type PointerType struct {
	base Type
}

// NewPointer builds a pointer descriptor for the given base type.
func NewPointer(base Type) *PointerType {
	if base == nil {
		base = Null
	}
	return &PointerType{base: base}
}

// NewVoidPointer builds the wildcard pointer used by intrinsic signatures.
func NewVoidPointer() *PointerType { return NewPointer(Null) }

// Base returns the pointed-to type.
func (p *PointerType) Base() Type { return p.base }

func (p *PointerType) Kind() Kind      { return KindPointer }
func (p *PointerType) IsNull() bool    { return false }
func (p *PointerType) IsScalar() bool  { return true } // pointers fit a register
func (p *PointerType) IsPointer() bool { return true }
func (p *PointerType) IsArray() bool   { return false }
func (p *PointerType) Size() int       { return 8 }

func (p *PointerType) String() string {
	return "ptr to " + p.base.String()
}

func (p *PointerType) Match(other Type) bool {
	o, ok := other.(*PointerType)
	if !ok {
		return false
	}
	// void pointers match any pointer
	if p.base.IsNull() || o.base.IsNull() {
		return true
	}
	return p.base.Match(o.base)
}

// ---- Array type ------------------------------------------------------------

// OpenLen marks an array dimension of unknown extent (open arrays, used for
// by-reference parameters).
const OpenLen = -1

// ArrayType is "array[Len] of Inner". Multi-dimensional arrays nest: a 2-D
// integer array is array-of-array-of-integer.
type ArrayType struct {
	length int
	inner  Type
}

// NewArray builds an array descriptor. Use OpenLen for an open dimension.
func NewArray(length int, inner Type) *ArrayType {
	if length < 0 {
		length = OpenLen
	}
	return &ArrayType{length: length, inner: inner}
}

// Len returns the declared extent of the outermost dimension, or OpenLen.
func (a *ArrayType) Len() int { return a.length }

// Inner returns the element type of the outermost dimension, which is itself
// an array for all but the last dimension.
func (a *ArrayType) Inner() Type { return a.inner }

// Base returns the innermost non-array element type.
func (a *ArrayType) Base() Type {
	t := a.inner
	for {
		arr, ok := t.(*ArrayType)
		if !ok {
			return t
		}
		t = arr.inner
	}
}

// NDim returns the number of dimensions.
func (a *ArrayType) NDim() int {
	n := 1
	t := a.inner
	for {
		arr, ok := t.(*ArrayType)
		if !ok {
			return n
		}
		n++
		t = arr.inner
	}
}

func (a *ArrayType) Kind() Kind      { return KindArray }
func (a *ArrayType) IsNull() bool    { return false }
func (a *ArrayType) IsScalar() bool  { return false }
func (a *ArrayType) IsPointer() bool { return false }
func (a *ArrayType) IsArray() bool   { return true }

func (a *ArrayType) Size() int {
	if a.length == OpenLen {
		return -1
	}
	inner := a.inner.Size()
	if inner < 0 {
		return -1
	}
	return a.length * inner
}

func (a *ArrayType) String() string {
	var dims strings.Builder
	t := Type(a)
	for {
		arr, ok := t.(*ArrayType)
		if !ok {
			break
		}
		if arr.length == OpenLen {
			dims.WriteString("[]")
		} else {
			fmt.Fprintf(&dims, "[%d]", arr.length)
		}
		t = arr.inner
	}
	return t.String() + dims.String()
}

func (a *ArrayType) Match(other Type) bool {
	o, ok := other.(*ArrayType)
	if !ok {
		return false
	}
	// an open dimension matches any extent
	if a.length != OpenLen && o.length != OpenLen && a.length != o.length {
		return false
	}
	return a.inner.Match(o.inner)
}
