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
	"io"
	"strings"
)

// Print writes an indented tree dump of s and its nested scopes to w.
func Print(w io.Writer, s Scope) {
	printScope(w, s, 0)
}

func printScope(w io.Writer, s Scope, depth int) {
	indent := strings.Repeat("  ", depth)
	fmt.Fprintf(w, "%s%s\n", indent, s)
	for _, st := range s.Statements() {
		printNode(w, st, depth+1)
	}
	for _, c := range s.Children() {
		printScope(w, c, depth+1)
	}
}

func printNode(w io.Writer, n Node, depth int) {
	fmt.Fprintf(w, "%s%s\n", strings.Repeat("  ", depth), n)
	for _, c := range children(n) {
		printNode(w, c, depth+1)
	}
}

// WriteDot writes the tree rooted at s in Graphviz dot format.
func WriteDot(w io.Writer, s Scope) {
	fmt.Fprintf(w, "digraph AST {\n")
	fmt.Fprintf(w, "  node [shape=box,fontsize=10];\n")
	dotScope(w, s)
	fmt.Fprintf(w, "}\n")
}

func dotScope(w io.Writer, s Scope) {
	fmt.Fprintf(w, "  n%d [label=%q,style=bold];\n", s.ID(), s.String())
	for _, st := range s.Statements() {
		dotNode(w, st)
		fmt.Fprintf(w, "  n%d -> n%d;\n", s.ID(), st.ID())
	}
	for _, c := range s.Children() {
		dotScope(w, c)
		fmt.Fprintf(w, "  n%d -> n%d [style=dashed];\n", s.ID(), c.ID())
	}
}

func dotNode(w io.Writer, n Node) {
	fmt.Fprintf(w, "  n%d [label=%q];\n", n.ID(), n.String())
	for _, c := range children(n) {
		dotNode(w, c)
		fmt.Fprintf(w, "  n%d -> n%d;\n", n.ID(), c.ID())
	}
}

// children enumerates the direct sub-nodes of a statement or expression.
func children(n Node) []Node {
	switch n := n.(type) {
	case *AssignStmt:
		return []Node{n.LHS, n.RHS}
	case *CallStmt:
		return []Node{n.Call}
	case *ReturnStmt:
		if n.Expr != nil {
			return []Node{n.Expr}
		}
	case *IfStmt:
		out := []Node{n.Cond}
		for _, st := range n.Then {
			out = append(out, st)
		}
		for _, st := range n.Else {
			out = append(out, st)
		}
		return out
	case *WhileStmt:
		out := []Node{n.Cond}
		for _, st := range n.Body {
			out = append(out, st)
		}
		return out
	case *BinaryExpr:
		return []Node{n.Left, n.Right}
	case *UnaryExpr:
		return []Node{n.Operand}
	case *SpecialExpr:
		return []Node{n.Operand}
	case *CallExpr:
		out := make([]Node, 0, len(n.Args))
		for _, a := range n.Args {
			out = append(out, a)
		}
		return out
	case *ArrayDesignator:
		out := make([]Node, 0, len(n.indices))
		for _, idx := range n.indices {
			out = append(out, idx)
		}
		return out
	}
	return nil
}
