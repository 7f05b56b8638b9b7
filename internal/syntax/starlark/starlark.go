// Package starlark translates Starlark source, as parsed by go.starlark.net,
// into the statement model of package syntax.
//
// Starlark is a Python dialect without exceptions, classes or generators.
// Calls to fail() are the dialect's way to raise and are translated as such.
package starlark

import (
	"fmt"
	"io"
	"os"

	starsyntax "go.starlark.net/syntax"

	"github.com/gnoswap-labs/retlint/internal/syntax"
)

// Parse parses the Starlark source of filename. If src is nil the file is read
// from disk.
func Parse(filename string, src interface{}) (*syntax.Module, error) {
	data, err := readSource(filename, src)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}
	// Comments are scanned here rather than retained by the parser, whose
	// comment attachment cannot traverse while loops.
	f, err := starsyntax.Parse(filename, data, 0)
	if err != nil {
		return nil, fmt.Errorf("error parsing %s: %w", filename, err)
	}
	return &syntax.Module{
		Path:     f.Path,
		Body:     stmts(f.Stmts),
		Comments: attachComments(f, scanComments(data)),
	}, nil
}

func readSource(filename string, src interface{}) ([]byte, error) {
	switch src := src.(type) {
	case string:
		return []byte(src), nil
	case []byte:
		return src, nil
	case io.Reader:
		return io.ReadAll(src)
	case nil:
		return os.ReadFile(filename)
	default:
		return nil, fmt.Errorf("invalid source: %T", src)
	}
}

func pos(p starsyntax.Position) syntax.Position {
	if !p.IsValid() {
		return syntax.Position{}
	}
	return syntax.Position{Line: int(p.Line), Column: int(p.Col)}
}

func span(n starsyntax.Node) (start, end syntax.Position) {
	s, e := n.Span()
	return pos(s), pos(e)
}

func stmts(list []starsyntax.Stmt) []syntax.Stmt {
	if len(list) == 0 {
		return nil
	}
	out := make([]syntax.Stmt, 0, len(list))
	for _, s := range list {
		out = append(out, stmt(s))
	}
	return out
}

func stmt(s starsyntax.Stmt) syntax.Stmt {
	switch s := s.(type) {
	case *starsyntax.ExprStmt:
		if call, ok := s.X.(*starsyntax.CallExpr); ok && isFail(call) {
			start, end := span(s)
			return &syntax.RaiseStmt{Raise: start, Exc: expr(call), End: end}
		}
		return &syntax.ExprStmt{X: expr(s.X)}

	case *starsyntax.AssignStmt:
		op := s.Op.String()
		if s.Op == starsyntax.EQ {
			op = "="
		}
		return &syntax.AssignStmt{
			Targets: []syntax.Expr{expr(s.LHS)},
			Op:      op,
			Value:   expr(s.RHS),
			OpPos:   pos(s.OpPos),
		}

	case *starsyntax.ReturnStmt:
		_, end := span(s)
		ret := &syntax.ReturnStmt{Return: pos(s.Return), End: end}
		if s.Result != nil {
			ret.Result = expr(s.Result)
		}
		return ret

	case *starsyntax.BranchStmt:
		var tok syntax.Token
		switch s.Token {
		case starsyntax.PASS:
			tok = syntax.PASS
		case starsyntax.BREAK:
			tok = syntax.BREAK
		case starsyntax.CONTINUE:
			tok = syntax.CONTINUE
		}
		return &syntax.BranchStmt{Tok: tok, TokPos: pos(s.TokenPos)}

	case *starsyntax.IfStmt:
		ifStmt := &syntax.IfStmt{
			If:   pos(s.If),
			Cond: expr(s.Cond),
			Body: stmts(s.True),
			Else: stmts(s.False),
		}
		// The parser turns `elif` into an if statement that is the only
		// statement of the else branch, positioned at the elif keyword.
		if len(s.False) == 1 {
			if elif, ok := s.False[0].(*starsyntax.IfStmt); ok && elif.If == s.ElsePos {
				ifStmt.Else[0].(*syntax.IfStmt).Elif = true
			}
		}
		return ifStmt

	case *starsyntax.ForStmt:
		return &syntax.LoopStmt{
			Loop:   pos(s.For),
			Tok:    syntax.FOR,
			Target: expr(s.Vars),
			Iter:   expr(s.X),
			Body:   stmts(s.Body),
		}

	case *starsyntax.WhileStmt:
		return &syntax.LoopStmt{
			Loop: pos(s.While),
			Tok:  syntax.WHILE,
			Iter: expr(s.Cond),
			Body: stmts(s.Body),
		}

	case *starsyntax.DefStmt:
		return &syntax.FuncDef{
			Def:    pos(s.Def),
			Name:   s.Name.Name,
			Params: params(s.Params),
			Body:   stmts(s.Body),
		}
	}

	// load statements and anything newer than this front-end
	start, end := span(s)
	return &syntax.BadStmt{From: start, To: end}
}

// isFail reports whether call is a call of the builtin fail.
func isFail(call *starsyntax.CallExpr) bool {
	ident, ok := call.Fn.(*starsyntax.Ident)
	return ok && ident.Name == "fail"
}

func params(list []starsyntax.Expr) []*syntax.Param {
	out := make([]*syntax.Param, 0, len(list))
	for _, p := range list {
		switch p := p.(type) {
		case *starsyntax.Ident:
			out = append(out, &syntax.Param{Name: p.Name})
		case *starsyntax.BinaryExpr:
			// name=default
			if ident, ok := p.X.(*starsyntax.Ident); ok {
				out = append(out, &syntax.Param{Name: ident.Name, Default: expr(p.Y)})
			}
		case *starsyntax.UnaryExpr:
			// *args, **kwargs, or a bare * separator
			if ident, ok := p.X.(*starsyntax.Ident); ok {
				out = append(out, &syntax.Param{Name: ident.Name})
			}
		}
	}
	return out
}

func exprs(list []starsyntax.Expr) []syntax.Expr {
	out := make([]syntax.Expr, 0, len(list))
	for _, x := range list {
		if x != nil {
			out = append(out, expr(x))
		}
	}
	return out
}

func expr(x starsyntax.Expr) syntax.Expr {
	switch x := x.(type) {
	case *starsyntax.Ident:
		p := pos(x.NamePos)
		switch x.Name {
		case "None":
			return &syntax.BasicLit{ValuePos: p, Kind: syntax.NoneLit, Value: x.Name}
		case "True":
			return &syntax.BasicLit{ValuePos: p, Kind: syntax.TrueLit, Value: x.Name}
		case "False":
			return &syntax.BasicLit{ValuePos: p, Kind: syntax.FalseLit, Value: x.Name}
		}
		return &syntax.Ident{NamePos: p, Name: x.Name}

	case *starsyntax.Literal:
		kind := syntax.StringLit
		switch x.Token {
		case starsyntax.INT:
			kind = syntax.IntLit
		case starsyntax.FLOAT:
			kind = syntax.FloatLit
		}
		return &syntax.BasicLit{ValuePos: pos(x.TokenPos), Kind: kind, Value: x.Raw}

	case *starsyntax.ParenExpr:
		return expr(x.X)

	case *starsyntax.CallExpr:
		call := &syntax.Call{Fn: expr(x.Fn), Rparen: pos(x.Rparen)}
		for _, arg := range x.Args {
			if kw, ok := arg.(*starsyntax.BinaryExpr); ok && kw.Op == starsyntax.EQ {
				if ident, ok := kw.X.(*starsyntax.Ident); ok {
					call.Args = append(call.Args, &syntax.Keyword{
						NamePos: pos(ident.NamePos),
						Name:    ident.Name,
						Value:   expr(kw.Y),
					})
					continue
				}
			}
			call.Args = append(call.Args, expr(arg))
		}
		return call

	case *starsyntax.DotExpr:
		return &syntax.Selector{X: expr(x.X), Sel: x.Name.Name, SelPos: pos(x.NamePos)}

	case *starsyntax.IndexExpr:
		return &syntax.Index{X: expr(x.X), Index: expr(x.Y), Rbrack: pos(x.Rbrack)}

	case *starsyntax.LambdaExpr:
		return &syntax.Lambda{Lambda: pos(x.Lambda), Params: params(x.Params), Body: expr(x.Body)}

	case *starsyntax.UnaryExpr:
		if x.X == nil {
			break
		}
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: []syntax.Expr{expr(x.X)}}

	case *starsyntax.BinaryExpr:
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: []syntax.Expr{expr(x.X), expr(x.Y)}}

	case *starsyntax.CondExpr:
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: []syntax.Expr{expr(x.Cond), expr(x.True), expr(x.False)}}

	case *starsyntax.SliceExpr:
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: exprs([]starsyntax.Expr{x.X, x.Lo, x.Hi, x.Step})}

	case *starsyntax.ListExpr:
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: exprs(x.List)}

	case *starsyntax.TupleExpr:
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: exprs(x.List)}

	case *starsyntax.DictExpr:
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: exprs(x.List)}

	case *starsyntax.DictEntry:
		start, end := span(x)
		return &syntax.Composite{From: start, To: end, Elts: []syntax.Expr{expr(x.Key), expr(x.Value)}}

	case *starsyntax.Comprehension:
		// Loop variables of the clauses are reported as reads. That only ever
		// suppresses a finding, never creates one.
		start, end := span(x)
		elts := []syntax.Expr{expr(x.Body)}
		for _, clause := range x.Clauses {
			switch c := clause.(type) {
			case *starsyntax.ForClause:
				elts = append(elts, expr(c.Vars), expr(c.X))
			case *starsyntax.IfClause:
				elts = append(elts, expr(c.Cond))
			}
		}
		return &syntax.Composite{From: start, To: end, Elts: elts}
	}

	start, end := span(x)
	return &syntax.Composite{From: start, To: end}
}
