package branch

import (
	"fmt"

	"github.com/gnoswap-labs/retlint/internal/syntax"
)

// Termination is the classification of a statement sequence.
type Termination struct {
	Kind

	// Anchor is the last statement of a path that falls through.
	// It is nil unless Kind is MayFallThrough, and nil for empty sequences.
	Anchor syntax.Stmt
}

func (t Termination) String() string {
	if t.Anchor == nil {
		return t.Kind.String()
	}
	start, _ := t.Anchor.Span()
	return fmt.Sprintf("%s at %s", t.Kind, start)
}

func fallsThrough(anchor syntax.Stmt) Termination {
	return Termination{Kind: MayFallThrough, Anchor: anchor}
}

// Classify returns how the statement sequence stmts ends. Only the last
// statement decides; compound statements are classified from their arms.
func Classify(stmts []syntax.Stmt) Termination {
	if len(stmts) == 0 {
		return Termination{Kind: MayFallThrough}
	}
	return StmtTermination(stmts[len(stmts)-1])
}

// StmtTermination classifies a single statement as the last one of its sequence.
func StmtTermination(stmt syntax.Stmt) Termination {
	switch s := stmt.(type) {
	case *syntax.ReturnStmt:
		if s.Result == nil || syntax.IsNone(s.Result) {
			return Termination{Kind: AlwaysReturnsNone}
		}
		return Termination{Kind: AlwaysReturnsValue}

	case *syntax.RaiseStmt:
		return Termination{Kind: AlwaysRaises}

	case *syntax.ExprStmt:
		if isNoReturnCall(s) {
			return Termination{Kind: AlwaysRaises}
		}

	case *syntax.IfStmt:
		// Without an else arm the condition may be false and nothing runs.
		if len(s.Else) == 0 {
			return fallsThrough(s)
		}
		return join(Classify(s.Body), Classify(s.Else))

	case *syntax.LoopStmt:
		return loopTermination(s)

	case *syntax.TryStmt:
		return tryTermination(s)

	case *syntax.WithStmt:
		return Classify(s.Body)

	case *syntax.FuncDef, *syntax.ClassDef:
		// Definitions only bind a name.
	}

	return fallsThrough(stmt)
}

// loopTermination ignores the loop body: it may run zero times, or be left
// by break. Only the else clause, which runs when the loop is not broken out
// of, can make the loop terminate.
func loopTermination(s *syntax.LoopStmt) Termination {
	breaks := breaksOut(s.Body)
	if s.Tok == syntax.WHILE && syntax.IsTruthy(s.Iter) && !breaks {
		// The loop can only be left by return or raise.
		return Termination{Kind: AlwaysRaises}
	}
	if breaks || len(s.Else) == 0 {
		return fallsThrough(s)
	}
	return Classify(s.Else)
}

// tryTermination treats a terminating finally clause as authoritative.
// Otherwise the try body, continued by the else clause when the body may
// complete, and every handler are alternative arms.
func tryTermination(s *syntax.TryStmt) Termination {
	if len(s.Finally) > 0 {
		if fin := Classify(s.Finally); fin.Terminates() {
			return fin
		}
	}

	body := Classify(s.Body)
	if !body.Terminates() && len(s.Else) > 0 {
		body = Classify(s.Else)
	}

	arms := make([]Termination, 0, len(s.Handlers)+1)
	arms = append(arms, body)
	for _, h := range s.Handlers {
		arms = append(arms, Classify(h.Body))
	}
	return join(arms...)
}

// breaksOut reports whether body contains a break that leaves the loop owning body.
func breaksOut(body []syntax.Stmt) bool {
	found := false
	syntax.Walk(body, func(stmt syntax.Stmt) bool {
		switch s := stmt.(type) {
		case *syntax.BranchStmt:
			if s.Tok == syntax.BREAK {
				found = true
			}
		case *syntax.LoopStmt:
			// A break in the nested body leaves the nested loop; one in its
			// else clause leaves ours.
			if breaksOut(s.Else) {
				found = true
			}
			return false
		case *syntax.FuncDef, *syntax.ClassDef:
			return false
		}
		return !found
	})
	return found
}
