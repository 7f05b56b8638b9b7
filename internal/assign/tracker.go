// Package assign finds local variables that are assigned only to be returned
// by the next statement that touches them.
package assign

import (
	"math"

	"github.com/gnoswap-labs/retlint/internal/syntax"
)

type useKind int

const (
	// plain is `name = value` or an augmented assignment to a bare name.
	plain useKind = iota
	// binding is any other way of binding a name: tuple and loop targets,
	// `with ... as`, `except ... as`, def and class names.
	binding
	read
)

type use struct {
	ord  int
	kind useKind
	stmt syntax.Stmt
}

// place locates a statement in the tree of its scope.
type place struct {
	ord    int
	last   int         // ordinal of the last statement nested in this one
	parent syntax.Stmt // nil at the top level of the scope
	block  []syntax.Stmt
	index  int
}

// Chain is a return of a local name whose value comes straight from
// the assignment, with nothing in between using the name.
type Chain struct {
	Name   string
	Assign *syntax.AssignStmt
	Return *syntax.ReturnStmt
}

// Tracker records how the names of one function scope are bound and read.
// Statements are numbered in pre-order; the expressions of a compound
// statement's header share its number.
type Tracker struct {
	places   map[syntax.Stmt]place
	uses     map[string][]use
	declared map[string]bool // global and nonlocal names
	returns  []*syntax.ReturnStmt
	next     int
}

// New builds the tracker for the scope of fn. Nested definitions are other
// scopes: their bodies only contribute reads, at the position of the definition.
func New(fn *syntax.FuncDef) *Tracker {
	t := &Tracker{
		places:   make(map[syntax.Stmt]place),
		uses:     make(map[string][]use),
		declared: make(map[string]bool),
	}
	t.visitBlock(fn.Body, nil)
	return t
}

// Returns lists the return statements of the scope in source order.
func (t *Tracker) Returns() []*syntax.ReturnStmt { return t.returns }

// Chains returns every chain of the scope.
func (t *Tracker) Chains() []Chain {
	var chains []Chain
	for _, ret := range t.returns {
		if c, ok := t.Chain(ret); ok {
			chains = append(chains, c)
		}
	}
	return chains
}

// Chain reports whether ret returns a bare name that was assigned on the way to
// ret and is not used between that assignment and ret, nor after ret before the
// name is assigned again.
func (t *Tracker) Chain(ret *syntax.ReturnStmt) (Chain, bool) {
	ident, ok := ret.Result.(*syntax.Ident)
	if !ok || t.declared[ident.Name] {
		return Chain{}, false
	}
	p, ok := t.places[ret]
	if !ok {
		return Chain{}, false
	}

	uses := t.uses[ident.Name]
	path := t.path(ret)

	var assign *use
	for i := range uses {
		u := &uses[i]
		if u.kind == plain && u.ord < p.ord && path[u.stmt] {
			assign = u
		}
	}
	if assign == nil {
		return Chain{}, false
	}

	next := math.MaxInt
	for _, u := range uses {
		if u.kind == plain && u.ord > p.ord {
			next = u.ord
			break
		}
	}

	for _, u := range uses {
		switch {
		case u.ord > assign.ord && u.ord < p.ord:
			// Any use here, including an assignment on another branch.
			return Chain{}, false
		case u.ord > p.ord && u.ord <= next:
			if u.kind != plain {
				return Chain{}, false
			}
		}
	}

	// A loop carries values from one iteration to the next, so inside a
	// loop any other use of the name may see or replace the returned value.
	if loop, ok := t.loopScope(ret); ok {
		for _, u := range uses {
			if u.ord >= loop.ord && u.ord <= loop.last && u.stmt != assign.stmt && u.stmt != ret {
				return Chain{}, false
			}
		}
	}

	stmt, ok := assign.stmt.(*syntax.AssignStmt)
	if !ok {
		return Chain{}, false
	}
	return Chain{Name: ident.Name, Assign: stmt, Return: ret}, true
}

// path returns the statements that run before stmt on every path to it:
// the preceding siblings of stmt and of each of its ancestors.
func (t *Tracker) path(stmt syntax.Stmt) map[syntax.Stmt]bool {
	path := make(map[syntax.Stmt]bool)
	for s := stmt; s != nil; {
		p := t.places[s]
		for _, sib := range p.block[:p.index] {
			path[sib] = true
		}
		s = p.parent
	}
	return path
}

// loopScope returns the place of the outermost loop whose body holds stmt.
func (t *Tracker) loopScope(stmt syntax.Stmt) (place, bool) {
	var (
		outer place
		found bool
	)
	for s := stmt; s != nil; {
		p := t.places[s]
		if loop, ok := p.parent.(*syntax.LoopStmt); ok && p.index < len(loop.Body) && loop.Body[p.index] == s {
			outer, found = t.places[loop], true
		}
		s = p.parent
	}
	return outer, found
}

func (t *Tracker) add(name string, kind useKind, ord int, stmt syntax.Stmt) {
	t.uses[name] = append(t.uses[name], use{ord: ord, kind: kind, stmt: stmt})
}

func (t *Tracker) reads(ord int, stmt syntax.Stmt, xs ...syntax.Expr) {
	for _, x := range xs {
		for _, ident := range syntax.Reads(x) {
			t.add(ident.Name, read, ord, stmt)
		}
	}
}

// target records the names bound by an assignment target other than a bare
// name. Subscripts and attributes read their operands.
func (t *Tracker) target(ord int, stmt syntax.Stmt, x syntax.Expr) {
	switch x := x.(type) {
	case nil:
	case *syntax.Ident:
		t.add(x.Name, binding, ord, stmt)
	case *syntax.Composite:
		for _, elt := range x.Elts {
			t.target(ord, stmt, elt)
		}
	default:
		t.reads(ord, stmt, x)
	}
}

func (t *Tracker) visitBlock(block []syntax.Stmt, parent syntax.Stmt) {
	for i, stmt := range block {
		ord := t.next
		t.next++
		t.places[stmt] = place{ord: ord, parent: parent, block: block, index: i}
		t.visit(ord, stmt)

		p := t.places[stmt]
		p.last = t.next - 1
		t.places[stmt] = p
	}
}

func (t *Tracker) visit(ord int, stmt syntax.Stmt) {
	switch s := stmt.(type) {
	case *syntax.AssignStmt:
		t.reads(ord, s, s.Value)
		for _, target := range s.Targets {
			ident, ok := target.(*syntax.Ident)
			switch {
			case !ok:
				t.target(ord, s, target)
			case s.Op == "=":
				t.add(ident.Name, plain, ord, s)
			default:
				// x += v reads x before rebinding it.
				t.add(ident.Name, read, ord, s)
				t.add(ident.Name, plain, ord, s)
			}
		}

	case *syntax.ReturnStmt:
		t.returns = append(t.returns, s)
		t.reads(ord, s, s.Result)

	case *syntax.GlobalStmt:
		for _, name := range s.Names {
			t.declared[name] = true
		}

	case *syntax.LoopStmt:
		t.reads(ord, s, s.Iter)
		t.target(ord, s, s.Target)
		t.visitBlock(s.Body, s)
		t.visitBlock(s.Else, s)

	case *syntax.WithStmt:
		for _, item := range s.Items {
			t.reads(ord, s, item.Context)
			t.target(ord, s, item.Target)
		}
		t.visitBlock(s.Body, s)

	case *syntax.TryStmt:
		t.visitBlock(s.Body, s)
		for _, h := range s.Handlers {
			hord := t.next
			t.next++
			t.reads(hord, s, h.Type)
			if h.Name != "" {
				t.add(h.Name, binding, hord, s)
			}
			t.visitBlock(h.Body, s)
		}
		t.visitBlock(s.Else, s)
		t.visitBlock(s.Finally, s)

	case *syntax.FuncDef:
		t.reads(ord, s, syntax.Exprs(s)...)
		t.add(s.Name, binding, ord, s)
		t.closure(ord, s, s.Body)

	case *syntax.ClassDef:
		t.reads(ord, s, syntax.Exprs(s)...)
		t.add(s.Name, binding, ord, s)
		t.closure(ord, s, s.Body)

	default:
		t.reads(ord, s, syntax.Exprs(s)...)
		for _, block := range syntax.Blocks(s) {
			t.visitBlock(block, s)
		}
	}
}

// closure records every name read anywhere in the nested scope body as a read
// at ord, where the nested definition is.
func (t *Tracker) closure(ord int, def syntax.Stmt, body []syntax.Stmt) {
	syntax.Walk(body, func(stmt syntax.Stmt) bool {
		t.reads(ord, def, syntax.Exprs(stmt)...)
		return true
	})
}

// Unnecessary returns the chains of fn.
func Unnecessary(fn *syntax.FuncDef) []Chain {
	return New(fn).Chains()
}
