package lints

import (
	"github.com/gnoswap-labs/retlint/internal/returns"
	"github.com/gnoswap-labs/retlint/internal/syntax"
	tt "github.com/gnoswap-labs/retlint/internal/types"
)

const category = "return"

// DetectUnnecessaryReturnNone detects `return None` in functions whose other
// returns are bare returns.
func DetectUnnecessaryReturnNone(filename string, mod *syntax.Module, severity tt.Severity) ([]tt.Issue, error) {
	return detect(filename, mod, severity, returns.UnnecessaryReturnNone), nil
}

// DetectImplicitReturnValue detects bare returns in functions that also return values.
func DetectImplicitReturnValue(filename string, mod *syntax.Module, severity tt.Severity) ([]tt.Issue, error) {
	return detect(filename, mod, severity, returns.ImplicitReturnValue), nil
}

// DetectImplicitReturn detects functions that return values on some paths and
// run off their end on others.
func DetectImplicitReturn(filename string, mod *syntax.Module, severity tt.Severity) ([]tt.Issue, error) {
	return detect(filename, mod, severity, returns.ImplicitReturn), nil
}

// DetectUnnecessaryAssign detects variables assigned only to be returned.
func DetectUnnecessaryAssign(filename string, mod *syntax.Module, severity tt.Severity) ([]tt.Issue, error) {
	return detect(filename, mod, severity, returns.UnnecessaryAssign), nil
}

func detect(filename string, mod *syntax.Module, severity tt.Severity, kind returns.Kind) []tt.Issue {
	diags := returns.AnalyzeModule(mod, kind)
	if len(diags) == 0 {
		return nil
	}

	issues := make([]tt.Issue, 0, len(diags))
	for _, d := range diags {
		issues = append(issues, tt.Issue{
			Rule:       kind.Rule(),
			Code:       kind.Code(),
			Category:   category,
			Filename:   filename,
			Message:    kind.Message(),
			Suggestion: suggestion(kind),
			Note:       note(kind, d),
			Start:      d.Start,
			End:        d.End,
			Severity:   severity,
		})
	}
	return issues
}

func suggestion(kind returns.Kind) string {
	switch kind {
	case returns.UnnecessaryReturnNone:
		return "return"
	case returns.ImplicitReturnValue:
		return "return None"
	}
	return ""
}

func note(kind returns.Kind, d returns.Diagnostic) string {
	switch kind {
	case returns.ImplicitReturn:
		return "function " + d.Func + " returns a value on other paths; end this path with an explicit return or raise"
	case returns.UnnecessaryAssign:
		return "return the assigned expression directly"
	}
	return ""
}
