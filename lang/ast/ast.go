// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ast defines the abstract syntax tree of the language, the semantic
// checks on it, and its lowering to three-address code.
//
// Trees are built through a Session, which hands out node identifiers and
// string-constant numbers. A tree is made of Scopes (the module and its
// procedures), Statements and Expressions. After construction the tree is
// type-checked top down; a well-typed scope is then lowered to a
// tac.CodeBlock.
package ast

import (
	"fmt"
	"strings"

	"github.com/lego0901/Eggompilers/lang/symtab"
	"github.com/lego0901/Eggompilers/lang/tac"
	"github.com/lego0901/Eggompilers/lang/token"
	"github.com/lego0901/Eggompilers/lang/types"
)

// Session numbers the nodes and string constants of one compilation. All
// nodes of a tree must come from the same session.
type Session struct {
	nodeID int
	strID  int
}

func NewSession() *Session { return &Session{} }

func (s *Session) nextID() int {
	id := s.nodeID
	s.nodeID++
	return id
}

func (s *Session) nextStringID() int {
	id := s.strID
	s.strID++
	return id
}

// Node is the common interface of all AST nodes.
type Node interface {
	ID() int
	Token() token.Token
	String() string
}

// Expression is a node producing a value.
type Expression interface {
	Node

	// Type returns the static type of the expression, or nil if the
	// expression is ill-typed.
	Type() types.Type

	// TypeCheck validates the expression and its operands. The first
	// violation found is returned as a *TypeError.
	TypeCheck() error

	// ToTac lowers the expression in value form, appending instructions to
	// cb and returning the address holding the result.
	ToTac(cb *tac.CodeBlock) tac.Addr

	// ToTacCond lowers the expression in condition form: control transfers
	// to ltrue if the expression holds and to lfalse otherwise. No boolean
	// value is materialized. Only valid on boolean expressions.
	ToTacCond(cb *tac.CodeBlock, ltrue, lfalse *tac.Label)
}

// Statement is an executable node.
type Statement interface {
	Node

	TypeCheck() error

	// ToTac lowers the statement, appending instructions to cb. Control
	// continues at next when the statement completes.
	ToTac(cb *tac.CodeBlock, next *tac.Label)
}

// Scope is a module or procedure: a symbol table, a statement sequence and
// nested child scopes.
type Scope interface {
	Node

	Name() string
	SymTab() *symtab.Symtab
	Parent() Scope
	Children() []Scope
	Statements() []Statement
	SetStatements(stmts []Statement)

	// Type is the return type of the scope: types.Null for modules and
	// procedures without a result.
	Type() types.Type

	// TypeCheck validates the scope's statements, then its children.
	TypeCheck() error

	// Lower translates the scope body to three-address code, runs the
	// control-flow cleanup and returns the resulting block. Child scopes
	// are not lowered; see LowerAll.
	Lower() *tac.CodeBlock

	// CodeBlock returns the block produced by Lower, or nil.
	CodeBlock() *tac.CodeBlock

	// InternString registers a string literal as a global character-array
	// symbol with initialization data and returns it. Identical calls
	// yield distinct symbols.
	InternString(value string) *symtab.Symbol

	Session() *Session

	addChild(c Scope)
}

// LowerAll lowers s and every scope nested inside it, returning the blocks in
// declaration order, s first.
func LowerAll(s Scope) []*tac.CodeBlock {
	blocks := []*tac.CodeBlock{s.Lower()}
	for _, c := range s.Children() {
		blocks = append(blocks, LowerAll(c)...)
	}
	return blocks
}

// node carries the identity every AST node shares.
type node struct {
	id  int
	tok token.Token
}

func newNode(sess *Session, tok token.Token) node {
	return node{id: sess.nextID(), tok: tok}
}

func (n *node) ID() int            { return n.id }
func (n *node) Token() token.Token { return n.tok }

// ---- Scopes ----------------------------------------------------------------

type scope struct {
	node
	sess     *Session
	name     string
	st       *symtab.Symtab
	parent   Scope
	children []Scope
	stmts    []Statement
	cb       *tac.CodeBlock
}

func (s *scope) Name() string                    { return s.name }
func (s *scope) SymTab() *symtab.Symtab          { return s.st }
func (s *scope) Parent() Scope                   { return s.parent }
func (s *scope) Children() []Scope               { return s.children }
func (s *scope) Statements() []Statement         { return s.stmts }
func (s *scope) SetStatements(stmts []Statement) { s.stmts = stmts }
func (s *scope) Session() *Session               { return s.sess }
func (s *scope) CodeBlock() *tac.CodeBlock       { return s.cb }
func (s *scope) addChild(c Scope)                { s.children = append(s.children, c) }

func (s *scope) InternString(value string) *symtab.Symbol {
	if s.parent != nil {
		return s.parent.InternString(value)
	}
	name := fmt.Sprintf("_str_%d", s.sess.nextStringID())
	sym := symtab.NewGlobal(name, types.NewArray(len(value)+1, types.Char))
	sym.Data = value
	// generated names cannot collide with source identifiers
	_ = s.st.Add(sym)
	return sym
}

func (s *scope) String() string {
	return fmt.Sprintf("scope %q", s.name)
}

// Module is the root scope of a compilation unit. Its symbol table holds the
// global declarations and the array intrinsics.
type Module struct {
	scope
}

// NewModule creates the root scope. The array runtime intrinsics are
// preinstalled in its symbol table.
func NewModule(sess *Session, tok token.Token, name string) *Module {
	st := symtab.New(nil)
	if err := symtab.InstallArrayIntrinsics(st); err != nil {
		panic(err)
	}
	return &Module{scope: scope{
		node: newNode(sess, tok),
		sess: sess,
		name: name,
		st:   st,
	}}
}

func (m *Module) Type() types.Type { return types.Null }

func (m *Module) String() string { return fmt.Sprintf("module %q", m.name) }

// Procedure is a nested scope with a procedure symbol. Its symbol table
// chains to the parent scope's and holds the parameters.
type Procedure struct {
	scope
	sym *symtab.Symbol
}

// NewProcedure creates a child scope of parent for the procedure symbol sym.
// sym is registered in the parent's symbol table and the parameters in the
// new scope's own table.
func NewProcedure(tok token.Token, name string, parent Scope, sym *symtab.Symbol) (*Procedure, error) {
	if err := parent.SymTab().Add(sym); err != nil {
		return nil, err
	}
	st := symtab.New(parent.SymTab())
	for _, p := range sym.Params {
		if err := st.Add(p); err != nil {
			return nil, err
		}
	}
	proc := &Procedure{
		scope: scope{
			node:   newNode(parent.Session(), tok),
			sess:   parent.Session(),
			name:   name,
			st:     st,
			parent: parent,
		},
		sym: sym,
	}
	parent.addChild(proc)
	return proc, nil
}

func (p *Procedure) Symbol() *symtab.Symbol { return p.sym }
func (p *Procedure) Type() types.Type       { return p.sym.DataType }

func (p *Procedure) String() string { return fmt.Sprintf("procedure %q", p.name) }

// ---- Statements ------------------------------------------------------------

// AssignStmt stores the value of RHS into the location designated by LHS.
type AssignStmt struct {
	node
	LHS Expression
	RHS Expression
}

func NewAssignStmt(sess *Session, tok token.Token, lhs, rhs Expression) *AssignStmt {
	return &AssignStmt{node: newNode(sess, tok), LHS: lhs, RHS: rhs}
}

func (s *AssignStmt) String() string {
	return fmt.Sprintf("%s := %s", s.LHS, s.RHS)
}

// CallStmt invokes a procedure for its effect, discarding any result.
type CallStmt struct {
	node
	Call *CallExpr
}

func NewCallStmt(sess *Session, tok token.Token, call *CallExpr) *CallStmt {
	return &CallStmt{node: newNode(sess, tok), Call: call}
}

func (s *CallStmt) String() string { return s.Call.String() }

// ReturnStmt leaves the enclosing scope, optionally with a result value.
type ReturnStmt struct {
	node
	scope Scope
	Expr  Expression // nil for plain return
}

func NewReturnStmt(sess *Session, tok token.Token, sc Scope, expr Expression) *ReturnStmt {
	return &ReturnStmt{node: newNode(sess, tok), scope: sc, Expr: expr}
}

func (s *ReturnStmt) String() string {
	if s.Expr == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", s.Expr)
}

// IfStmt is a two-way branch. Either body may be empty.
type IfStmt struct {
	node
	Cond Expression
	Then []Statement
	Else []Statement
}

func NewIfStmt(sess *Session, tok token.Token, cond Expression, then, els []Statement) *IfStmt {
	return &IfStmt{node: newNode(sess, tok), Cond: cond, Then: then, Else: els}
}

func (s *IfStmt) String() string {
	return fmt.Sprintf("if %s then ... else ...", s.Cond)
}

// WhileStmt repeats its body while the condition holds.
type WhileStmt struct {
	node
	Cond Expression
	Body []Statement
}

func NewWhileStmt(sess *Session, tok token.Token, cond Expression, body []Statement) *WhileStmt {
	return &WhileStmt{node: newNode(sess, tok), Cond: cond, Body: body}
}

func (s *WhileStmt) String() string {
	return fmt.Sprintf("while %s do ...", s.Cond)
}

// ---- Expressions -----------------------------------------------------------

// BinaryExpr applies an arithmetic, boolean or relational operator.
type BinaryExpr struct {
	node
	Op    tac.Op
	Left  Expression
	Right Expression
}

func NewBinaryExpr(sess *Session, tok token.Token, op tac.Op, left, right Expression) *BinaryExpr {
	return &BinaryExpr{node: newNode(sess, tok), Op: op, Left: left, Right: right}
}

func (e *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// UnaryExpr applies negation, identity or boolean not.
type UnaryExpr struct {
	node
	Op      tac.Op
	Operand Expression
}

func NewUnaryExpr(sess *Session, tok token.Token, op tac.Op, operand Expression) *UnaryExpr {
	return &UnaryExpr{node: newNode(sess, tok), Op: op, Operand: operand}
}

func (e *UnaryExpr) String() string {
	return fmt.Sprintf("(%s %s)", e.Op, e.Operand)
}

// SpecialExpr applies an address-of, dereference or type-cast operator.
type SpecialExpr struct {
	node
	Op       tac.Op
	Operand  Expression
	castType types.Type // OpCast only
}

func NewAddressExpr(sess *Session, tok token.Token, operand Expression) *SpecialExpr {
	return &SpecialExpr{node: newNode(sess, tok), Op: tac.OpAddress, Operand: operand}
}

func NewDerefExpr(sess *Session, tok token.Token, operand Expression) *SpecialExpr {
	return &SpecialExpr{node: newNode(sess, tok), Op: tac.OpDeref, Operand: operand}
}

func NewCastExpr(sess *Session, tok token.Token, operand Expression, to types.Type) *SpecialExpr {
	return &SpecialExpr{node: newNode(sess, tok), Op: tac.OpCast, Operand: operand, castType: to}
}

func (e *SpecialExpr) String() string {
	return fmt.Sprintf("(%s %s)", e.Op, e.Operand)
}

// CallExpr invokes a procedure and yields its result.
type CallExpr struct {
	node
	Proc *symtab.Symbol
	Args []Expression
}

func NewCallExpr(sess *Session, tok token.Token, proc *symtab.Symbol, args ...Expression) *CallExpr {
	return &CallExpr{node: newNode(sess, tok), Proc: proc, Args: args}
}

func (e *CallExpr) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(", e.Proc.Name)
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteString(")")
	return b.String()
}

// Designator references a declared scalar symbol.
type Designator struct {
	node
	sym *symtab.Symbol
}

func NewDesignator(sess *Session, tok token.Token, sym *symtab.Symbol) *Designator {
	return &Designator{node: newNode(sess, tok), sym: sym}
}

func (e *Designator) Symbol() *symtab.Symbol { return e.sym }

func (e *Designator) String() string { return e.sym.Name }

// ArrayDesignator references an element of an array symbol. Index
// expressions are appended one by one during construction and sealed with
// IndicesComplete before the node is used.
type ArrayDesignator struct {
	Designator
	indices []Expression
	sealed  bool
}

func NewArrayDesignator(sess *Session, tok token.Token, sym *symtab.Symbol) *ArrayDesignator {
	return &ArrayDesignator{Designator: Designator{node: newNode(sess, tok), sym: sym}}
}

// AddIndex appends the next index expression. Panics once the node is sealed.
func (e *ArrayDesignator) AddIndex(idx Expression) {
	if e.sealed {
		panic("ast: AddIndex after IndicesComplete")
	}
	e.indices = append(e.indices, idx)
}

// IndicesComplete seals the index list.
func (e *ArrayDesignator) IndicesComplete() { e.sealed = true }

func (e *ArrayDesignator) NIndices() int          { return len(e.indices) }
func (e *ArrayDesignator) Index(i int) Expression { return e.indices[i] }

func (e *ArrayDesignator) String() string {
	var b strings.Builder
	b.WriteString(e.sym.Name)
	for _, idx := range e.indices {
		fmt.Fprintf(&b, "[%s]", idx)
	}
	return b.String()
}

// Constant is an integer, boolean or character literal.
type Constant struct {
	node
	typ   types.Type
	value int64
}

func NewConstant(sess *Session, tok token.Token, typ types.Type, value int64) *Constant {
	return &Constant{node: newNode(sess, tok), typ: typ, value: value}
}

func (e *Constant) Value() int64       { return e.value }
func (e *Constant) SetValue(v int64)   { e.value = v }
func (e *Constant) String() string {
	switch e.typ {
	case types.Bool:
		if e.value != 0 {
			return "true"
		}
		return "false"
	case types.Char:
		return fmt.Sprintf("%q", rune(e.value))
	default:
		return fmt.Sprintf("%d", e.value)
	}
}

// StringConstant is a string literal. Construction interns the literal in the
// module scope as a global character array carrying the bytes as
// initialization data.
type StringConstant struct {
	node
	value string
	typ   types.Type
	sym   *symtab.Symbol
}

func NewStringConstant(tok token.Token, value string, sc Scope) *StringConstant {
	sym := sc.InternString(value)
	return &StringConstant{
		node:  newNode(sc.Session(), tok),
		value: value,
		typ:   sym.DataType,
		sym:   sym,
	}
}

func (e *StringConstant) Value() string          { return e.value }
func (e *StringConstant) Symbol() *symtab.Symbol { return e.sym }

func (e *StringConstant) String() string { return fmt.Sprintf("%q", e.value) }
