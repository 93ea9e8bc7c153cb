// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.

// Package symtab implements the lexically nested SnuPL/1 symbol table.
//
// The semantic core only needs two operations from the table: lookup by name
// (walking the scope chain) and symbol insertion for compiler-generated
// temporaries and interned string constants. Name resolution for ordinary
// identifiers happens during parsing.
package symtab

import (
	"fmt"
	"strings"

	"github.com/lego0901/Eggompilers/lang/types"
)

// Kind is the storage class of a symbol.
type Kind int

const (
	Global Kind = iota
	Local
	Param
	Proc
)

var kindNames = [...]string{
	Global: "global",
	Local:  "local",
	Param:  "param",
	Proc:   "proc",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", k)
}

// Symbol is a named entity: a variable, parameter, or procedure.
//
// For procedures, DataType is the return type (the null type for proper
// procedures) and Params holds the ordered formal parameters.
type Symbol struct {
	Name     string
	Kind     Kind
	DataType types.Type
	Params   []*Symbol // Proc only
	Data     string    // optional initializer (interned string constants)
}

// NewGlobal creates a module-level variable symbol.
func NewGlobal(name string, t types.Type) *Symbol {
	return &Symbol{Name: name, Kind: Global, DataType: t}
}

// NewLocal creates a procedure-local variable symbol.
func NewLocal(name string, t types.Type) *Symbol {
	return &Symbol{Name: name, Kind: Local, DataType: t}
}

// NewParam creates a formal parameter symbol.
func NewParam(name string, t types.Type) *Symbol {
	return &Symbol{Name: name, Kind: Param, DataType: t}
}

// NewProc creates a procedure symbol. ret is the return type; pass the null
// type for a proper procedure.
func NewProc(name string, ret types.Type, params ...*Symbol) *Symbol {
	return &Symbol{Name: name, Kind: Proc, DataType: ret, Params: params}
}

// IsProcedure reports whether the symbol names a callable.
func (s *Symbol) IsProcedure() bool { return s.Kind == Proc }

func (s *Symbol) String() string {
	if s.Kind == Proc {
		parts := make([]string, len(s.Params))
		for i, p := range s.Params {
			parts[i] = p.DataType.String()
		}
		return fmt.Sprintf("%s(%s): %s", s.Name, strings.Join(parts, ", "), s.DataType)
	}
	return fmt.Sprintf("%s: %s", s.Name, s.DataType)
}

// Symtab is one lexical scope's symbol table. Lookups fall through to the
// parent table when a name is not bound locally.
type Symtab struct {
	parent *Symtab
	order  []*Symbol
	byName map[string]*Symbol
}

// New creates a table nested inside parent. Pass nil for the module table.
func New(parent *Symtab) *Symtab {
	return &Symtab{parent: parent, byName: make(map[string]*Symbol)}
}

// Parent returns the enclosing scope's table, or nil.
func (t *Symtab) Parent() *Symtab { return t.parent }

// Add binds sym in this scope. Rebinding a name already bound in the same
// scope is an error; shadowing an outer binding is not.
func (t *Symtab) Add(sym *Symbol) error {
	if _, ok := t.byName[sym.Name]; ok {
		return fmt.Errorf("symtab: duplicate symbol %q", sym.Name)
	}
	t.byName[sym.Name] = sym
	t.order = append(t.order, sym)
	return nil
}

// Find resolves name against this scope and all enclosing scopes.
// It returns nil if the name is unbound.
func (t *Symtab) Find(name string) *Symbol {
	for s := t; s != nil; s = s.parent {
		if sym, ok := s.byName[name]; ok {
			return sym
		}
	}
	return nil
}

// FindLocal resolves name in this scope only.
func (t *Symtab) FindLocal(name string) *Symbol {
	return t.byName[name]
}

// Symbols returns the symbols bound in this scope, in insertion order.
func (t *Symtab) Symbols() []*Symbol {
	return t.order
}

func (t *Symtab) String() string {
	var b strings.Builder
	b.WriteString("[[")
	for i, s := range t.order {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(s.String())
	}
	b.WriteString("]]")
	return b.String()
}

// Intrinsic runtime-query procedure names used by array-address lowering.
// DIM(a, d) returns the extent of the d-th dimension of the array a points
// to; DOFS(a) returns the offset of the array data past its descriptor.
const (
	DimName  = "DIM"
	DofsName = "DOFS"
)

// InstallArrayIntrinsics binds the DIM and DOFS runtime queries into t.
// The lowering engine looks them up by their fixed names.
func InstallArrayIntrinsics(t *Symtab) error {
	dim := NewProc(DimName, types.Int,
		NewParam("array", types.NewVoidPointer()),
		NewParam("dim", types.Int))
	if err := t.Add(dim); err != nil {
		return err
	}
	dofs := NewProc(DofsName, types.Int,
		NewParam("array", types.NewVoidPointer()))
	return t.Add(dofs)
}
