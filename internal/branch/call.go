package branch

import "github.com/gnoswap-labs/retlint/internal/syntax"

// Call names a called function, optionally qualified by a module.
type Call struct {
	Module string
	Name   string
}

// NoReturnCalls lists calls known never to return control to the caller.
var NoReturnCalls = map[Call]struct{}{
	{"", "fail"}:       {},
	{"", "exit"}:       {},
	{"", "quit"}:       {},
	{"sys", "exit"}:    {},
	{"os", "_exit"}:    {},
	{"os", "abort"}:    {},
	{"pytest", "fail"}: {},
	{"pytest", "skip"}: {},
}

// ExprCall gets the call of an expression statement.
func ExprCall(stmt *syntax.ExprStmt) (Call, bool) {
	call, ok := stmt.X.(*syntax.Call)
	if !ok {
		return Call{}, false
	}

	switch fn := call.Fn.(type) {
	case *syntax.Ident:
		return Call{Name: fn.Name}, true
	case *syntax.Selector:
		if ident, ok := fn.X.(*syntax.Ident); ok {
			return Call{Module: ident.Name, Name: fn.Sel}, true
		}
	}

	return Call{}, false
}

func isNoReturnCall(stmt *syntax.ExprStmt) bool {
	call, ok := ExprCall(stmt)
	if !ok {
		return false
	}
	_, ok = NoReturnCalls[call]
	return ok
}
