// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package token defines the lexical token types for SnuPL/1.
//
// The semantic analyser and the TAC lowering engine never look at token types;
// they receive a fully built AST. Tokens survive into the AST solely as the
// carrier of source locations and literal spellings for diagnostics, which is
// why Token keeps both the raw literal and its Position.
package token

import "fmt"

// Token represents a lexical token.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %s %q", t.Pos, t.Type, t.Literal)
}

// Position tracks a source location.
type Position struct {
	File   string
	Line   int
	Column int
}

func (p Position) String() string {
	if p.File != "" {
		return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Type is the set of lexical token types.
type Type int

const (
	// Special tokens
	ILLEGAL Type = iota
	EOF

	// Literals
	IDENT   // a, sum, ReadInt
	NUMBER  // 42
	STRING  // "hello\n"
	CHARLIT // 'a'

	// Operators
	PLUS   // +
	MINUS  // -
	STAR   // *
	SLASH  // /
	AND    // &&
	OR     // ||
	NOT    // !
	EQ     // =
	NEQ    // #
	LT     // <
	LTE    // <=
	GT     // >
	GTE    // >=
	ASSIGN // :=
	AMP    // & (address-of, internal)

	// Delimiters
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	COMMA     // ,
	SEMICOLON // ;
	COLON     // :
	DOT       // .

	// Keywords
	keywordStart
	MODULE    // module
	BEGIN     // begin
	END       // end
	IF        // if
	THEN      // then
	ELSE      // else
	WHILE     // while
	DO        // do
	RETURN    // return
	VAR       // var
	PROCEDURE // procedure
	FUNCTION  // function
	INTEGER   // integer
	BOOLEAN   // boolean
	CHAR      // char
	TRUE      // true
	FALSE     // false
	keywordEnd
)

var tokenNames = [...]string{
	ILLEGAL: "ILLEGAL",
	EOF:     "EOF",

	IDENT:   "IDENT",
	NUMBER:  "NUMBER",
	STRING:  "STRING",
	CHARLIT: "CHARLIT",

	PLUS:   "+",
	MINUS:  "-",
	STAR:   "*",
	SLASH:  "/",
	AND:    "&&",
	OR:     "||",
	NOT:    "!",
	EQ:     "=",
	NEQ:    "#",
	LT:     "<",
	LTE:    "<=",
	GT:     ">",
	GTE:    ">=",
	ASSIGN: ":=",
	AMP:    "&",

	LPAREN:    "(",
	RPAREN:    ")",
	LBRACKET:  "[",
	RBRACKET:  "]",
	COMMA:     ",",
	SEMICOLON: ";",
	COLON:     ":",
	DOT:       ".",

	MODULE:    "module",
	BEGIN:     "begin",
	END:       "end",
	IF:        "if",
	THEN:      "then",
	ELSE:      "else",
	WHILE:     "while",
	DO:        "do",
	RETURN:    "return",
	VAR:       "var",
	PROCEDURE: "procedure",
	FUNCTION:  "function",
	INTEGER:   "integer",
	BOOLEAN:   "boolean",
	CHAR:      "char",
	TRUE:      "true",
	FALSE:     "false",
}

// String returns the string form of a token type.
func (t Type) String() string {
	if int(t) < len(tokenNames) && tokenNames[t] != "" {
		return tokenNames[t]
	}
	return fmt.Sprintf("token(%d)", t)
}

// IsKeyword returns true if the token is a keyword.
func (t Type) IsKeyword() bool {
	return t > keywordStart && t < keywordEnd
}

// keywords maps keyword strings to token types.
var keywords map[string]Type

func init() {
	keywords = make(map[string]Type)
	for i := keywordStart + 1; i < keywordEnd; i++ {
		keywords[tokenNames[i]] = i
	}
}

// LookupIdent checks if an identifier is a keyword.
func LookupIdent(ident string) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	return IDENT
}

// New is a convenience constructor used by the parser and by tests that build
// ASTs by hand.
func New(typ Type, literal string, line, col int) Token {
	return Token{Type: typ, Literal: literal, Pos: Position{Line: line, Column: col}}
}
