// Copyright 2024 The Eggompilers Authors
// This file is part of Eggompilers.
//
// Eggompilers is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// snuplc drives the compiler middle end: it type-checks a program tree and
// dumps the symbol tables and the lowered three-address code.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	colorable "github.com/mattn/go-colorable"
	"github.com/olekukonko/tablewriter"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/lego0901/Eggompilers/lang/ast"
	"github.com/lego0901/Eggompilers/lang/symtab"
	"github.com/lego0901/Eggompilers/lang/tac"
	"github.com/lego0901/Eggompilers/lang/token"
	"github.com/lego0901/Eggompilers/lang/types"
)

var (
	stdout     = colorable.NewColorableStdout()
	heading    = color.New(color.FgCyan, color.Bold)
	errHeading = color.New(color.FgRed, color.Bold)
)

func main() {
	app := cli.NewApp()
	app.Name = "snuplc"
	app.Usage = "type check and lower a program to three-address code"
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:  "demo",
			Usage: "compile a built-in sample program and dump the results",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "ast",
					Usage: "print the syntax tree before lowering",
				},
				cli.StringFlag{
					Name:  "dot",
					Usage: "write the syntax tree in Graphviz format to `FILE`",
				},
			},
			Action: runDemo,
		},
	}
	if err := app.Run(os.Args); err != nil {
		errHeading.Fprintln(stdout, err)
		os.Exit(1)
	}
}

func runDemo(ctx *cli.Context) error {
	mod, err := buildDemoModule()
	if err != nil {
		return err
	}

	if err := mod.TypeCheck(); err != nil {
		errHeading.Fprintln(stdout, "type error")
		fmt.Fprintln(stdout, err)
		return cli.NewExitError("", 1)
	}

	if ctx.Bool("ast") {
		heading.Fprintln(stdout, "syntax tree")
		ast.Print(stdout, mod)
		fmt.Fprintln(stdout)
	}
	if name := ctx.String("dot"); name != "" {
		f, err := os.Create(name)
		if err != nil {
			return err
		}
		ast.WriteDot(f, mod)
		if err := f.Close(); err != nil {
			return err
		}
	}

	blocks := ast.LowerAll(mod)

	heading.Fprintln(stdout, "symbol tables")
	dumpScopeSymbols(mod)
	fmt.Fprintln(stdout)

	heading.Fprintln(stdout, "three-address code")
	for _, cb := range blocks {
		fmt.Fprintln(stdout)
		fmt.Fprint(stdout, cb)
	}
	return nil
}

func dumpScopeSymbols(s ast.Scope) {
	fmt.Fprintf(stdout, "\n[[ %s ]]\n", s.Name())
	tw := tablewriter.NewWriter(stdout)
	tw.SetHeader([]string{"name", "kind", "type", "data"})
	for _, sym := range s.SymTab().Symbols() {
		tw.Append([]string{sym.Name, sym.Kind.String(), sym.DataType.String(), sym.Data})
	}
	tw.Render()
	for _, c := range s.Children() {
		dumpScopeSymbols(c)
	}
}

// buildDemoModule constructs the tree for a small sample program:
//
//	module demo;
//	var n, sum: integer;
//	    a: integer[10];
//
//	function twice(x: integer): integer;
//	begin
//	  return x + x
//	end;
//
//	begin
//	  n := 0;
//	  sum := 0;
//	  while n < 10 do
//	    a[n] := twice(n);
//	    sum := sum + a[n];
//	    n := n + 1
//	  end;
//	  if (sum > 0) and (n = 10) then
//	    sum := sum - 1
//	  else
//	    sum := 0
//	  end
//	end demo.
func buildDemoModule() (*ast.Module, error) {
	sess := ast.NewSession()
	tok := func(t token.Type, lit string, line int) token.Token {
		return token.New(t, lit, line, 1)
	}

	mod := ast.NewModule(sess, tok(token.MODULE, "module", 1), "demo")

	n := symtab.NewGlobal("n", types.Int)
	sum := symtab.NewGlobal("sum", types.Int)
	arr := symtab.NewGlobal("a", types.NewArray(10, types.Int))
	for _, sym := range []*symtab.Symbol{n, sum, arr} {
		if err := mod.SymTab().Add(sym); err != nil {
			return nil, err
		}
	}

	x := symtab.NewParam("x", types.Int)
	twice := symtab.NewProc("twice", types.Int, x)
	proc, err := ast.NewProcedure(tok(token.FUNCTION, "function", 5), "twice", mod, twice)
	if err != nil {
		return nil, err
	}
	proc.SetStatements([]ast.Statement{
		ast.NewReturnStmt(sess, tok(token.RETURN, "return", 7), proc,
			ast.NewBinaryExpr(sess, tok(token.PLUS, "+", 7), tac.OpAdd,
				ast.NewDesignator(sess, tok(token.IDENT, "x", 7), x),
				ast.NewDesignator(sess, tok(token.IDENT, "x", 7), x))),
	})

	elem := func(line int) *ast.ArrayDesignator {
		d := ast.NewArrayDesignator(sess, tok(token.IDENT, "a", line), arr)
		d.AddIndex(ast.NewDesignator(sess, tok(token.IDENT, "n", line), n))
		d.IndicesComplete()
		return d
	}

	body := []ast.Statement{
		ast.NewAssignStmt(sess, tok(token.ASSIGN, ":=", 11),
			ast.NewDesignator(sess, tok(token.IDENT, "n", 11), n),
			ast.NewConstant(sess, tok(token.NUMBER, "0", 11), types.Int, 0)),
		ast.NewAssignStmt(sess, tok(token.ASSIGN, ":=", 12),
			ast.NewDesignator(sess, tok(token.IDENT, "sum", 12), sum),
			ast.NewConstant(sess, tok(token.NUMBER, "0", 12), types.Int, 0)),
		ast.NewWhileStmt(sess, tok(token.WHILE, "while", 13),
			ast.NewBinaryExpr(sess, tok(token.LT, "<", 13), tac.OpLessThan,
				ast.NewDesignator(sess, tok(token.IDENT, "n", 13), n),
				ast.NewConstant(sess, tok(token.NUMBER, "10", 13), types.Int, 10)),
			[]ast.Statement{
				ast.NewAssignStmt(sess, tok(token.ASSIGN, ":=", 14),
					elem(14),
					ast.NewCallExpr(sess, tok(token.IDENT, "twice", 14), twice,
						ast.NewDesignator(sess, tok(token.IDENT, "n", 14), n))),
				ast.NewAssignStmt(sess, tok(token.ASSIGN, ":=", 15),
					ast.NewDesignator(sess, tok(token.IDENT, "sum", 15), sum),
					ast.NewBinaryExpr(sess, tok(token.PLUS, "+", 15), tac.OpAdd,
						ast.NewDesignator(sess, tok(token.IDENT, "sum", 15), sum),
						elem(15))),
				ast.NewAssignStmt(sess, tok(token.ASSIGN, ":=", 16),
					ast.NewDesignator(sess, tok(token.IDENT, "n", 16), n),
					ast.NewBinaryExpr(sess, tok(token.PLUS, "+", 16), tac.OpAdd,
						ast.NewDesignator(sess, tok(token.IDENT, "n", 16), n),
						ast.NewConstant(sess, tok(token.NUMBER, "1", 16), types.Int, 1))),
			}),
		ast.NewIfStmt(sess, tok(token.IF, "if", 18),
			ast.NewBinaryExpr(sess, tok(token.AND, "&&", 18), tac.OpAnd,
				ast.NewBinaryExpr(sess, tok(token.GT, ">", 18), tac.OpGreaterThan,
					ast.NewDesignator(sess, tok(token.IDENT, "sum", 18), sum),
					ast.NewConstant(sess, tok(token.NUMBER, "0", 18), types.Int, 0)),
				ast.NewBinaryExpr(sess, tok(token.EQ, "=", 18), tac.OpEqual,
					ast.NewDesignator(sess, tok(token.IDENT, "n", 18), n),
					ast.NewConstant(sess, tok(token.NUMBER, "10", 18), types.Int, 10))),
			[]ast.Statement{
				ast.NewAssignStmt(sess, tok(token.ASSIGN, ":=", 19),
					ast.NewDesignator(sess, tok(token.IDENT, "sum", 19), sum),
					ast.NewBinaryExpr(sess, tok(token.MINUS, "-", 19), tac.OpSub,
						ast.NewDesignator(sess, tok(token.IDENT, "sum", 19), sum),
						ast.NewConstant(sess, tok(token.NUMBER, "1", 19), types.Int, 1))),
			},
			[]ast.Statement{
				ast.NewAssignStmt(sess, tok(token.ASSIGN, ":=", 21),
					ast.NewDesignator(sess, tok(token.IDENT, "sum", 21), sum),
					ast.NewConstant(sess, tok(token.NUMBER, "0", 21), types.Int, 0)),
			}),
	}
	mod.SetStatements(body)
	return mod, nil
}
