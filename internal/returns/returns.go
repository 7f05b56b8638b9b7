// Package returns reports the return-statement smells of Python-family
// functions: unnecessary `return None`, bare returns mixed with value returns,
// missing final returns and variables assigned only to be returned.
package returns

import (
	"sort"

	"github.com/gnoswap-labs/retlint/internal/assign"
	"github.com/gnoswap-labs/retlint/internal/branch"
	"github.com/gnoswap-labs/retlint/internal/syntax"
)

// Diagnostic is one finding, anchored at a statement.
type Diagnostic struct {
	Kind       Kind
	Start, End syntax.Position
	Func       string // name of the function the anchor belongs to
}

func (d Diagnostic) Message() string { return d.Kind.Message() }

// AnalyzeModule analyzes every function of mod, nested ones included.
// With no kinds given, all kinds are checked.
func AnalyzeModule(mod *syntax.Module, kinds ...Kind) []Diagnostic {
	var diags []Diagnostic
	for _, fn := range syntax.Funcs(mod.Body) {
		diags = append(diags, Analyze(fn, kinds...)...)
	}
	sortDiagnostics(diags)
	return diags
}

// Analyze checks the scope of fn alone; functions nested in it are not visited.
// Generators and functions without return statements have no findings.
func Analyze(fn *syntax.FuncDef, kinds ...Kind) []Diagnostic {
	if syntax.IsGenerator(fn) {
		return nil
	}
	tracker := assign.New(fn)
	rets := tracker.Returns()
	if len(rets) == 0 {
		return nil
	}

	a := &analysis{fn: fn, enabled: enabledKinds(kinds), seen: make(map[key]bool)}

	var bare, none, value []*syntax.ReturnStmt
	for _, ret := range rets {
		switch {
		case ret.Result == nil:
			bare = append(bare, ret)
		case syntax.IsNone(ret.Result):
			none = append(none, ret)
		default:
			value = append(value, ret)
		}
	}

	if len(bare) > 0 && len(value) > 0 {
		for _, ret := range bare {
			a.report(ImplicitReturnValue, ret)
		}
	}

	if len(bare) > 0 && len(none) > 0 {
		for _, ret := range none {
			a.report(UnnecessaryReturnNone, ret)
		}
	}

	if (len(value) > 0 || len(none) > 0) && a.enabled[ImplicitReturn] {
		if term := branch.Classify(fn.Body); !term.Terminates() {
			if term.Anchor != nil {
				a.report(ImplicitReturn, term.Anchor)
			} else {
				a.report(ImplicitReturn, fn)
			}
		}
	}

	if a.enabled[UnnecessaryAssign] {
		for _, c := range tracker.Chains() {
			a.report(UnnecessaryAssign, c.Return)
		}
	}

	sortDiagnostics(a.diags)
	return a.diags
}

type key struct {
	anchor syntax.Node
	kind   Kind
}

type analysis struct {
	fn      *syntax.FuncDef
	enabled map[Kind]bool
	seen    map[key]bool
	diags   []Diagnostic
}

func (a *analysis) report(kind Kind, anchor syntax.Node) {
	k := key{anchor, kind}
	if !a.enabled[kind] || a.seen[k] {
		return
	}
	a.seen[k] = true

	start, end := anchor.Span()
	if _, ok := anchor.(*syntax.FuncDef); ok {
		end = start
	}
	a.diags = append(a.diags, Diagnostic{Kind: kind, Start: start, End: end, Func: a.fn.Name})
}

func enabledKinds(kinds []Kind) map[Kind]bool {
	if len(kinds) == 0 {
		kinds = Kinds
	}
	enabled := make(map[Kind]bool, len(kinds))
	for _, k := range kinds {
		enabled[k] = true
	}
	return enabled
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		if diags[i].Start != diags[j].Start {
			return diags[i].Start.Before(diags[j].Start)
		}
		return diags[i].Kind < diags[j].Kind
	})
}
