// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package tac

import (
	"fmt"
	"strings"

	"github.com/lego0901/Eggompilers/lang/symtab"
	"github.com/lego0901/Eggompilers/lang/types"
)

// CodeBlock is the instruction sequence of one scope (module body or
// procedure body) together with the scope's symbol table. Temporaries and
// labels are numbered per block.
type CodeBlock struct {
	name    string
	st      *symtab.Symtab
	instrs  []*Instr
	nTemps  int
	nLabels int
}

// NewCodeBlock creates an empty code block for the named scope. Temporaries
// created through CreateTemp are registered in st.
func NewCodeBlock(name string, st *symtab.Symtab) *CodeBlock {
	return &CodeBlock{name: name, st: st}
}

func (cb *CodeBlock) Name() string           { return cb.name }
func (cb *CodeBlock) SymTab() *symtab.Symtab { return cb.st }
func (cb *CodeBlock) Instrs() []*Instr       { return cb.instrs }

// Add appends an instruction to the block.
func (cb *CodeBlock) Add(in *Instr) {
	cb.instrs = append(cb.instrs, in)
}

// AddLabel appends a label definition for l.
func (cb *CodeBlock) AddLabel(l *Label) {
	cb.instrs = append(cb.instrs, &Instr{Op: OpLabel, Dst: l})
}

// CreateTemp allocates a fresh temporary of type t and registers its backing
// symbol as a local in the block's symbol table.
func (cb *CodeBlock) CreateTemp(t types.Type) *Temp {
	name := fmt.Sprintf("t%d", cb.nTemps)
	cb.nTemps++
	sym := symtab.NewLocal(name, t)
	// generated names cannot collide with source identifiers
	_ = cb.st.Add(sym)
	return &Temp{Sym: sym}
}

// CreateLabel allocates a fresh label. The hint, if non-empty, becomes part
// of the printed name.
func (cb *CodeBlock) CreateLabel(hint string) *Label {
	l := &Label{id: cb.nLabels, hint: hint}
	cb.nLabels++
	return l
}

func (cb *CodeBlock) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[[ %s ]]\n", cb.name)
	for _, in := range cb.instrs {
		if in.Op == OpLabel {
			fmt.Fprintf(&b, "%s\n", in)
		} else {
			fmt.Fprintf(&b, "    %s\n", in)
		}
	}
	return b.String()
}
