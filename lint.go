// Package retlint checks the return statements of Starlark functions.
//
// It reports four kinds of findings, compatible with the flake8-return codes:
//
//	R501  unnecessary `return None` next to bare returns
//	R502  bare return in a function that also returns values
//	R503  path that runs off the end of a function that returns values
//	R504  variable assigned only to be returned right away
//
// Findings can be silenced with a `# nolint` or `# nolint:R504` comment.
package retlint

import (
	"fmt"
	"os"

	"github.com/gnoswap-labs/retlint/internal/lints"
	"github.com/gnoswap-labs/retlint/internal/nolint"
	"github.com/gnoswap-labs/retlint/internal/returns"
	"github.com/gnoswap-labs/retlint/internal/syntax"
)

// Diagnostic is one finding.
type Diagnostic struct {
	Filename string
	Kind     string // stable name such as "ImplicitReturn"
	Rule     string // rule name such as "implicit-return"
	Code     string // flake8-return code such as "R503"
	Line     int
	Column   int
	EndLine  int
	EndCol   int
	Func     string // function the finding belongs to
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: %s %s", d.Filename, d.Line, d.Column, d.Code, d.Message)
}

// CheckFile reads and checks the Starlark file at filename.
func CheckFile(filename string, rules ...string) ([]Diagnostic, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return CheckSource(filename, src, rules...)
}

// CheckSource checks Starlark source. rules restricts the findings to the
// given kinds, rule names or codes; with none, every rule runs.
func CheckSource(filename string, src []byte, rules ...string) ([]Diagnostic, error) {
	kinds := make([]returns.Kind, 0, len(rules))
	for _, r := range rules {
		k, err := returns.ParseKind(r)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}

	mod, err := lints.ParseFile(filename, src)
	if err != nil {
		return nil, err
	}
	return check(filename, mod, kinds), nil
}

func check(filename string, mod *syntax.Module, kinds []returns.Kind) []Diagnostic {
	mgr := nolint.ParseComments(mod)

	var diags []Diagnostic
	for _, d := range returns.AnalyzeModule(mod, kinds...) {
		if mgr.IsNolint(d.Start.Line, d.Kind.Rule(), d.Kind.Code()) {
			continue
		}
		diags = append(diags, Diagnostic{
			Filename: filename,
			Kind:     d.Kind.String(),
			Rule:     d.Kind.Rule(),
			Code:     d.Kind.Code(),
			Line:     d.Start.Line,
			Column:   d.Start.Column,
			EndLine:  d.End.Line,
			EndCol:   d.End.Column,
			Func:     d.Func,
			Message:  d.Message(),
		})
	}
	return diags
}
