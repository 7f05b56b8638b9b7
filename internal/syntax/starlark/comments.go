package starlark

import (
	"bytes"
	"unicode/utf8"

	starsyntax "go.starlark.net/syntax"

	"github.com/gnoswap-labs/retlint/internal/syntax"
)

// rawComment is a comment as found in the source, before it is attached to
// a node.
type rawComment struct {
	pos  syntax.Position
	text string
	// suffix is set when code precedes the comment on its line.
	suffix bool
}

// scanComments returns the comments of src in source order. A '#' inside a
// string literal does not start a comment.
func scanComments(src []byte) []rawComment {
	var (
		out   []rawComment
		line  = 1
		col   = 1
		blank = true
		quote string
	)
	for i := 0; i < len(src); {
		r, size := utf8.DecodeRune(src[i:])

		switch {
		case r == '\r' || r == '\n':
			if r == '\r' && i+1 < len(src) && src[i+1] == '\n' {
				size++
			}
			i += size
			line, col = line+1, 1
			if quote == "" {
				blank = true
			}
			continue

		case quote != "":
			if r == '\\' {
				// the escaped rune never closes the string
				i += size
				col++
				if i < len(src) && src[i] != '\n' && src[i] != '\r' {
					_, n := utf8.DecodeRune(src[i:])
					i += n
					col++
				}
				continue
			}
			if bytes.HasPrefix(src[i:], []byte(quote)) {
				i += len(quote)
				col += len(quote)
				quote = ""
				continue
			}

		case r == '#':
			end := bytes.IndexAny(src[i:], "\r\n")
			if end < 0 {
				end = len(src) - i
			}
			text := string(src[i : i+end])
			out = append(out, rawComment{
				pos:    syntax.Position{Line: line, Column: col},
				text:   text,
				suffix: !blank,
			})
			i += end
			col += utf8.RuneCountInString(text)
			continue

		case r == '\'' || r == '"':
			quote = string(r)
			if bytes.HasPrefix(src[i:], []byte{byte(r), byte(r), byte(r)}) {
				quote = string([]rune{r, r, r})
			}
			blank = false
			i += len(quote)
			col += len(quote)
			continue

		case r != ' ' && r != '\t' && r != '\f':
			blank = false
		}
		i += size
		col++
	}
	return out
}

// attachComments attaches each comment to a node of f the way the Starlark
// parser does when it retains comments. A comment on its own line belongs to
// the first node, in pre-order, that does not start before it. A suffix
// comment belongs to the last node, in post-order, that ends before it.
// Comments left over keep a zero span.
func attachComments(f *starsyntax.File, comments []rawComment) []syntax.Comment {
	if len(comments) == 0 {
		return nil
	}

	var line, suffix []rawComment
	for _, c := range comments {
		if c.suffix {
			suffix = append(suffix, c)
		} else {
			line = append(line, c)
		}
	}

	var pre, post []starsyntax.Node
	for _, s := range f.Stmts {
		walk(s, func(n starsyntax.Node, enter bool) {
			if enter {
				pre = append(pre, n)
			} else {
				post = append(post, n)
			}
		})
	}

	var out []syntax.Comment
	for _, n := range pre {
		nstart, _ := n.Span()
		for len(line) > 0 && !isBefore(nstart, line[0].pos) {
			start, end := span(n)
			out = append(out, syntax.Comment{Pos: line[0].pos, Text: line[0].text, Start: start, End: end})
			line = line[1:]
		}
	}
	for _, c := range line {
		out = append(out, syntax.Comment{Pos: c.pos, Text: c.text})
	}

	for i := len(post) - 1; i >= 0 && len(suffix) > 0; i-- {
		n := post[i]
		_, nend := n.Span()
		last := suffix[len(suffix)-1]
		if isBefore(nend, last.pos) {
			start, end := span(n)
			out = append(out, syntax.Comment{Pos: last.pos, Text: last.text, Inline: true, Start: start, End: end})
			suffix = suffix[:len(suffix)-1]
		}
	}
	for _, c := range suffix {
		out = append(out, syntax.Comment{Pos: c.pos, Text: c.text, Inline: true})
	}
	return out
}

func isBefore(p starsyntax.Position, q syntax.Position) bool {
	if int(p.Line) != q.Line {
		return int(p.Line) < q.Line
	}
	return int(p.Col) < q.Column
}

// walk calls fn with enter set before the children of n are visited and
// with enter unset after them.
func walk(n starsyntax.Node, fn func(n starsyntax.Node, enter bool)) {
	fn(n, true)
	for _, c := range children(n) {
		walk(c, fn)
	}
	fn(n, false)
}

func children(n starsyntax.Node) []starsyntax.Node {
	var out []starsyntax.Node
	add := func(xs ...starsyntax.Expr) {
		for _, x := range xs {
			if x != nil {
				out = append(out, x)
			}
		}
	}
	addStmts := func(list []starsyntax.Stmt) {
		for _, s := range list {
			out = append(out, s)
		}
	}

	switch n := n.(type) {
	case *starsyntax.ExprStmt:
		add(n.X)
	case *starsyntax.AssignStmt:
		add(n.LHS, n.RHS)
	case *starsyntax.ReturnStmt:
		add(n.Result)
	case *starsyntax.IfStmt:
		add(n.Cond)
		addStmts(n.True)
		addStmts(n.False)
	case *starsyntax.ForStmt:
		add(n.Vars, n.X)
		addStmts(n.Body)
	case *starsyntax.WhileStmt:
		add(n.Cond)
		addStmts(n.Body)
	case *starsyntax.DefStmt:
		add(n.Name)
		add(n.Params...)
		addStmts(n.Body)
	case *starsyntax.LoadStmt:
		add(n.Module)
		for _, from := range n.From {
			add(from)
		}
		for _, to := range n.To {
			add(to)
		}

	case *starsyntax.ParenExpr:
		add(n.X)
	case *starsyntax.CallExpr:
		add(n.Fn)
		add(n.Args...)
	case *starsyntax.DotExpr:
		add(n.X, n.Name)
	case *starsyntax.IndexExpr:
		add(n.X, n.Y)
	case *starsyntax.SliceExpr:
		add(n.X, n.Lo, n.Hi, n.Step)
	case *starsyntax.LambdaExpr:
		add(n.Params...)
		add(n.Body)
	case *starsyntax.UnaryExpr:
		add(n.X)
	case *starsyntax.BinaryExpr:
		add(n.X, n.Y)
	case *starsyntax.CondExpr:
		add(n.Cond, n.True, n.False)
	case *starsyntax.ListExpr:
		add(n.List...)
	case *starsyntax.TupleExpr:
		add(n.List...)
	case *starsyntax.DictExpr:
		add(n.List...)
	case *starsyntax.DictEntry:
		add(n.Key, n.Value)
	case *starsyntax.Comprehension:
		add(n.Body)
		out = append(out, n.Clauses...)
	case *starsyntax.ForClause:
		add(n.Vars, n.X)
	case *starsyntax.IfClause:
		add(n.Cond)
	}
	return out
}
