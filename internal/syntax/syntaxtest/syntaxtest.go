// Package syntaxtest builds syntax trees for tests, for the statement shapes
// the Starlark front-end cannot produce (try, with, class, yield, for-else).
//
// Every statement constructor takes the line it sits on; expressions passed to
// it without a position are placed on that line.
package syntaxtest

import "github.com/gnoswap-labs/retlint/internal/syntax"

func at(line int) syntax.Position { return syntax.Position{Line: line, Column: 1} }

// Block groups statements into a block.
func Block(stmts ...syntax.Stmt) []syntax.Stmt { return stmts }

// Module wraps statements into a module.
func Module(stmts ...syntax.Stmt) *syntax.Module {
	return &syntax.Module{Path: "test.py", Body: stmts}
}

/***** Expressions *****/

func Name(name string) *syntax.Ident { return &syntax.Ident{Name: name} }

func None() *syntax.BasicLit { return &syntax.BasicLit{Kind: syntax.NoneLit, Value: "None"} }

func True() *syntax.BasicLit { return &syntax.BasicLit{Kind: syntax.TrueLit, Value: "True"} }

func Int(v string) *syntax.BasicLit { return &syntax.BasicLit{Kind: syntax.IntLit, Value: v} }

func Call(fn syntax.Expr, args ...syntax.Expr) *syntax.Call {
	return &syntax.Call{Fn: fn, Args: args}
}

// Method is `x.sel(args...)`.
func Method(x syntax.Expr, sel string, args ...syntax.Expr) *syntax.Call {
	return Call(&syntax.Selector{X: x, Sel: sel}, args...)
}

func Subscript(x, index syntax.Expr) *syntax.Index { return &syntax.Index{X: x, Index: index} }

// Op is any other expression over its operands, such as `a + 2`.
func Op(elts ...syntax.Expr) *syntax.Composite { return &syntax.Composite{Elts: elts} }

func Lambda(params []string, body syntax.Expr) *syntax.Lambda {
	ps := make([]*syntax.Param, 0, len(params))
	for _, p := range params {
		ps = append(ps, &syntax.Param{Name: p})
	}
	return &syntax.Lambda{Params: ps, Body: body}
}

func Yield(value syntax.Expr) *syntax.Yield { return &syntax.Yield{Value: value} }

/***** Statements *****/

func Expr(line int, x syntax.Expr) *syntax.ExprStmt {
	place(x, line)
	return &syntax.ExprStmt{X: x}
}

func Assign(line int, target, value syntax.Expr) *syntax.AssignStmt {
	place(target, line)
	place(value, line)
	return &syntax.AssignStmt{Targets: []syntax.Expr{target}, Op: "=", Value: value, OpPos: at(line)}
}

func AugAssign(line int, op string, target, value syntax.Expr) *syntax.AssignStmt {
	s := Assign(line, target, value)
	s.Op = op
	return s
}

func Return(line int, x syntax.Expr) *syntax.ReturnStmt {
	place(x, line)
	return &syntax.ReturnStmt{Return: at(line), Result: x, End: at(line)}
}

func BareReturn(line int) *syntax.ReturnStmt {
	return &syntax.ReturnStmt{Return: at(line), End: at(line)}
}

func Raise(line int, x syntax.Expr) *syntax.RaiseStmt {
	place(x, line)
	return &syntax.RaiseStmt{Raise: at(line), Exc: x, End: at(line)}
}

func Pass(line int) *syntax.BranchStmt { return &syntax.BranchStmt{Tok: syntax.PASS, TokPos: at(line)} }

func Break(line int) *syntax.BranchStmt {
	return &syntax.BranchStmt{Tok: syntax.BREAK, TokPos: at(line)}
}

func Global(line int, names ...string) *syntax.GlobalStmt {
	return &syntax.GlobalStmt{Global: at(line), Names: names, End: at(line)}
}

func If(line int, cond syntax.Expr, body []syntax.Stmt, orelse ...syntax.Stmt) *syntax.IfStmt {
	place(cond, line)
	return &syntax.IfStmt{If: at(line), Cond: cond, Body: body, Else: orelse}
}

// Elif builds an if statement written as elif, to be passed as the else of another If.
func Elif(line int, cond syntax.Expr, body []syntax.Stmt, orelse ...syntax.Stmt) *syntax.IfStmt {
	s := If(line, cond, body, orelse...)
	s.Elif = true
	return s
}

func For(line int, target, iter syntax.Expr, body []syntax.Stmt, orelse ...syntax.Stmt) *syntax.LoopStmt {
	place(target, line)
	place(iter, line)
	return &syntax.LoopStmt{Loop: at(line), Tok: syntax.FOR, Target: target, Iter: iter, Body: body, Else: orelse}
}

func While(line int, cond syntax.Expr, body []syntax.Stmt, orelse ...syntax.Stmt) *syntax.LoopStmt {
	place(cond, line)
	return &syntax.LoopStmt{Loop: at(line), Tok: syntax.WHILE, Iter: cond, Body: body, Else: orelse}
}

// TryStmt builds a try statement; set Handlers, Else and Finally on the result.
func Try(line int, body ...syntax.Stmt) *syntax.TryStmt {
	return &syntax.TryStmt{Try: at(line), Body: body}
}

func Except(line int, typ syntax.Expr, name string, body ...syntax.Stmt) *syntax.ExceptHandler {
	place(typ, line)
	return &syntax.ExceptHandler{Except: at(line), Type: typ, Name: name, Body: body}
}

func With(line int, ctx, target syntax.Expr, body ...syntax.Stmt) *syntax.WithStmt {
	place(ctx, line)
	place(target, line)
	return &syntax.WithStmt{With: at(line), Items: []syntax.WithItem{{Context: ctx, Target: target}}, Body: body}
}

func Def(line int, name string, body ...syntax.Stmt) *syntax.FuncDef {
	return &syntax.FuncDef{Def: at(line), Name: name, Body: body}
}

func Class(line int, name string, body ...syntax.Stmt) *syntax.ClassDef {
	return &syntax.ClassDef{Class: at(line), Name: name, Body: body}
}

// place moves every unplaced node of x onto line.
func place(x syntax.Expr, line int) {
	syntax.Inspect(x, func(n syntax.Expr) bool {
		pos := at(line)
		switch n := n.(type) {
		case *syntax.Ident:
			if !n.NamePos.IsValid() {
				n.NamePos = pos
			}
		case *syntax.BasicLit:
			if !n.ValuePos.IsValid() {
				n.ValuePos = pos
			}
		case *syntax.Call:
			if !n.Rparen.IsValid() {
				n.Rparen = pos
			}
		case *syntax.Keyword:
			if !n.NamePos.IsValid() {
				n.NamePos = pos
			}
		case *syntax.Selector:
			if !n.SelPos.IsValid() {
				n.SelPos = pos
			}
		case *syntax.Index:
			if !n.Rbrack.IsValid() {
				n.Rbrack = pos
			}
		case *syntax.Lambda:
			if !n.Lambda.IsValid() {
				n.Lambda = pos
			}
		case *syntax.Yield:
			if !n.YieldPos.IsValid() {
				n.YieldPos = pos
			}
		case *syntax.Composite:
			if !n.From.IsValid() {
				n.From, n.To = pos, pos
			}
		}
		return true
	})
}
