package syntax

import (
	"fmt"
	"strconv"
)

// Position is a 1-based line and column in a source file.
type Position struct {
	Line   int
	Column int
}

func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Before reports whether p comes strictly before q.
func (p Position) Before(q Position) bool {
	if p.Line != q.Line {
		return p.Line < q.Line
	}
	return p.Column < q.Column
}

// Node is implemented by every statement and expression of the model.
type Node interface {
	Span() (start, end Position)
}

// Stmt is a statement. The set of implementations is closed.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression. The set of implementations is closed.
type Expr interface {
	Node
	exprNode()
}

// Module is a parsed source file.
type Module struct {
	Path     string
	Body     []Stmt
	Comments []Comment
}

// Comment is a source comment together with the span of the statement it
// belongs to, if any.
type Comment struct {
	Pos  Position
	Text string // including the leading '#'

	// Inline is set when the comment follows code on the same line.
	Inline bool

	// Start and End delimit the statement the comment is attached to:
	// the statement it trails when Inline, otherwise the statement it precedes.
	// Both are zero for comments at the end of a block or file.
	Start, End Position
}

/***** Statements *****/

type (
	// ExprStmt is an expression evaluated for its side effects.
	ExprStmt struct {
		X Expr
	}

	// AssignStmt is `t1 = t2 = value` or an augmented assignment such as `t += value`.
	// Op is "=" for plain assignments.
	AssignStmt struct {
		Targets []Expr
		Op      string
		Value   Expr
		OpPos   Position
	}

	// ReturnStmt is `return` or `return value`.
	ReturnStmt struct {
		Return Position
		Result Expr // nil for a bare return
		End    Position
	}

	// RaiseStmt is `raise` or any call known never to return, such as fail().
	RaiseStmt struct {
		Raise Position
		Exc   Expr
		End   Position
	}

	// BranchStmt is pass, break or continue.
	BranchStmt struct {
		Tok    Token
		TokPos Position
	}

	// GlobalStmt is a global or nonlocal declaration.
	GlobalStmt struct {
		Global   Position
		Nonlocal bool
		Names    []string
		End      Position
	}

	// IfStmt is an if statement. An elif arm is an IfStmt that is the only
	// statement of Else.
	IfStmt struct {
		If   Position
		Cond Expr
		Body []Stmt
		Else []Stmt
		Elif bool // this statement was written as elif
	}

	// LoopStmt is a for or while loop with an optional else clause.
	LoopStmt struct {
		Loop   Position
		Tok    Token // FOR or WHILE
		Target Expr  // for-loop variables, nil for while
		Iter   Expr  // iterable or condition
		Body   []Stmt
		Else   []Stmt
	}

	// TryStmt is try/except/else/finally.
	TryStmt struct {
		Try      Position
		Body     []Stmt
		Handlers []*ExceptHandler
		Else     []Stmt
		Finally  []Stmt
	}

	// ExceptHandler is one except arm of a TryStmt.
	ExceptHandler struct {
		Except Position
		Type   Expr   // nil for a bare except
		Name   string // bound name, if any
		Body   []Stmt
	}

	// WithStmt is a with statement.
	WithStmt struct {
		With  Position
		Items []WithItem
		Body  []Stmt
	}

	// WithItem is one `context as target` pair.
	WithItem struct {
		Context Expr
		Target  Expr // may be nil
	}

	// FuncDef is a function definition at any depth.
	FuncDef struct {
		Def        Position
		Name       string
		Params     []*Param
		Decorators []Expr
		Body       []Stmt
	}

	// Param is a function parameter with an optional default value.
	Param struct {
		Name    string
		Default Expr
	}

	// ClassDef is a class definition.
	ClassDef struct {
		Class      Position
		Name       string
		Bases      []Expr
		Decorators []Expr
		Body       []Stmt
	}

	// BadStmt stands for a statement the front-end could not describe.
	// Its expressions are kept so that name reads are not lost.
	BadStmt struct {
		From, To Position
		Exprs    []Expr
	}
)

func (*ExprStmt) stmtNode()   {}
func (*AssignStmt) stmtNode() {}
func (*ReturnStmt) stmtNode() {}
func (*RaiseStmt) stmtNode()  {}
func (*BranchStmt) stmtNode() {}
func (*GlobalStmt) stmtNode() {}
func (*IfStmt) stmtNode()     {}
func (*LoopStmt) stmtNode()   {}
func (*TryStmt) stmtNode()    {}
func (*WithStmt) stmtNode()   {}
func (*FuncDef) stmtNode()    {}
func (*ClassDef) stmtNode()   {}
func (*BadStmt) stmtNode()    {}

func (s *ExprStmt) Span() (start, end Position) { return s.X.Span() }

func (s *AssignStmt) Span() (start, end Position) {
	start = s.OpPos
	if len(s.Targets) > 0 {
		start, _ = s.Targets[0].Span()
	}
	end = s.OpPos
	if s.Value != nil {
		_, end = s.Value.Span()
	}
	return start, end
}

func (s *ReturnStmt) Span() (start, end Position) { return s.Return, s.End }
func (s *RaiseStmt) Span() (start, end Position)  { return s.Raise, s.End }

func (s *BranchStmt) Span() (start, end Position) {
	end = s.TokPos
	end.Column += len(s.Tok.String())
	return s.TokPos, end
}

func (s *GlobalStmt) Span() (start, end Position) { return s.Global, s.End }
func (s *IfStmt) Span() (start, end Position)     { return s.If, blockEnd(s.If, s.Body, s.Else) }
func (s *LoopStmt) Span() (start, end Position)   { return s.Loop, blockEnd(s.Loop, s.Body, s.Else) }

func (s *TryStmt) Span() (start, end Position) {
	end = blockEnd(s.Try, s.Body)
	for _, h := range s.Handlers {
		end = blockEnd(end, h.Body)
	}
	return s.Try, blockEnd(end, s.Else, s.Finally)
}

func (s *WithStmt) Span() (start, end Position) { return s.With, blockEnd(s.With, s.Body) }
func (s *FuncDef) Span() (start, end Position)  { return s.Def, blockEnd(s.Def, s.Body) }
func (s *ClassDef) Span() (start, end Position) { return s.Class, blockEnd(s.Class, s.Body) }
func (s *BadStmt) Span() (start, end Position)  { return s.From, s.To }

func (h *ExceptHandler) Span() (start, end Position) {
	return h.Except, blockEnd(h.Except, h.Body)
}

// blockEnd returns the end of the last statement of the last non-empty block,
// or from when every block is empty.
func blockEnd(from Position, blocks ...[]Stmt) Position {
	end := from
	for _, block := range blocks {
		if len(block) == 0 {
			continue
		}
		_, e := block[len(block)-1].Span()
		if end.Before(e) {
			end = e
		}
	}
	return end
}

/***** Expressions *****/

// LitKind classifies a BasicLit.
type LitKind int

const (
	NoneLit LitKind = iota
	TrueLit
	FalseLit
	IntLit
	FloatLit
	StringLit
	BytesLit
)

type (
	// Ident is a name read or written by the program.
	Ident struct {
		NamePos Position
		Name    string
	}

	// BasicLit is a constant: None, True, False, a number or a string.
	BasicLit struct {
		ValuePos Position
		Kind     LitKind
		Value    string
	}

	// Call is a function or method call.
	Call struct {
		Fn     Expr
		Args   []Expr
		Rparen Position
	}

	// Keyword is a keyword argument `name=value` of a Call. The name is not a read.
	Keyword struct {
		NamePos Position
		Name    string
		Value   Expr
	}

	// Selector is `x.name`.
	Selector struct {
		X      Expr
		Sel    string
		SelPos Position
	}

	// Index is `x[index]`.
	Index struct {
		X      Expr
		Index  Expr
		Rbrack Position
	}

	// Lambda is an anonymous function. Its parameters shadow outer names in Body.
	Lambda struct {
		Lambda Position
		Params []*Param
		Body   Expr
	}

	// Yield is `yield value` or `yield from value`.
	Yield struct {
		YieldPos Position
		From     bool
		Value    Expr // may be nil
	}

	// Composite is any other expression, reduced to its operands.
	Composite struct {
		From, To Position
		Elts     []Expr
	}
)

func (*Ident) exprNode()     {}
func (*BasicLit) exprNode()  {}
func (*Call) exprNode()      {}
func (*Keyword) exprNode()   {}
func (*Selector) exprNode()  {}
func (*Index) exprNode()     {}
func (*Lambda) exprNode()    {}
func (*Yield) exprNode()     {}
func (*Composite) exprNode() {}

func (x *Ident) Span() (start, end Position) {
	end = x.NamePos
	end.Column += len(x.Name)
	return x.NamePos, end
}

func (x *BasicLit) Span() (start, end Position) {
	end = x.ValuePos
	end.Column += len(x.Value)
	return x.ValuePos, end
}

func (x *Call) Span() (start, end Position) {
	start, _ = x.Fn.Span()
	return start, x.Rparen
}

func (x *Keyword) Span() (start, end Position) {
	_, end = x.Value.Span()
	return x.NamePos, end
}

func (x *Selector) Span() (start, end Position) {
	start, _ = x.X.Span()
	end = x.SelPos
	end.Column += len(x.Sel)
	return start, end
}

func (x *Index) Span() (start, end Position) {
	start, _ = x.X.Span()
	return start, x.Rbrack
}

func (x *Lambda) Span() (start, end Position) {
	_, end = x.Body.Span()
	return x.Lambda, end
}

func (x *Yield) Span() (start, end Position) {
	end = x.YieldPos
	if x.Value != nil {
		_, end = x.Value.Span()
	}
	return x.YieldPos, end
}

func (x *Composite) Span() (start, end Position) { return x.From, x.To }

// IsNone reports whether x is the None literal.
func IsNone(x Expr) bool {
	lit, ok := x.(*BasicLit)
	return ok && lit.Kind == NoneLit
}

// IsTruthy reports whether x is a literal whose truth value is always true.
func IsTruthy(x Expr) bool {
	lit, ok := x.(*BasicLit)
	if !ok {
		return false
	}
	switch lit.Kind {
	case TrueLit:
		return true
	case IntLit:
		n, err := strconv.ParseInt(lit.Value, 0, 64)
		return err == nil && n != 0
	case FloatLit:
		f, err := strconv.ParseFloat(lit.Value, 64)
		return err == nil && f != 0
	default:
		return false
	}
}
