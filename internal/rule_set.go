package internal

import (
	"github.com/gnoswap-labs/retlint/internal/lints"
	"github.com/gnoswap-labs/retlint/internal/returns"
	"github.com/gnoswap-labs/retlint/internal/syntax"
	tt "github.com/gnoswap-labs/retlint/internal/types"
)

/*
* Implement each lint rule as a separate struct
 */

// LintRule defines the interface for all lint rules.
type LintRule interface {
	// Check runs the lint rule on the given module and returns a slice of Issues.
	Check(filename string, mod *syntax.Module) ([]tt.Issue, error)

	// Name returns the name of the lint rule.
	Name() string

	// Code returns the error code reported with the rule's issues.
	Code() string

	Severity() tt.Severity
	SetSeverity(tt.Severity)
}

// returnRule holds what every return rule shares.
type returnRule struct {
	kind     returns.Kind
	severity tt.Severity
}

func (r *returnRule) Name() string                { return r.kind.Rule() }
func (r *returnRule) Code() string                { return r.kind.Code() }
func (r *returnRule) Severity() tt.Severity       { return r.severity }
func (r *returnRule) SetSeverity(sev tt.Severity) { r.severity = sev }

type UnnecessaryReturnNoneRule struct{ returnRule }

func NewUnnecessaryReturnNoneRule() LintRule {
	return &UnnecessaryReturnNoneRule{returnRule{kind: returns.UnnecessaryReturnNone, severity: tt.SeverityError}}
}

func (r *UnnecessaryReturnNoneRule) Check(filename string, mod *syntax.Module) ([]tt.Issue, error) {
	return lints.DetectUnnecessaryReturnNone(filename, mod, r.severity)
}

type ImplicitReturnValueRule struct{ returnRule }

func NewImplicitReturnValueRule() LintRule {
	return &ImplicitReturnValueRule{returnRule{kind: returns.ImplicitReturnValue, severity: tt.SeverityError}}
}

func (r *ImplicitReturnValueRule) Check(filename string, mod *syntax.Module) ([]tt.Issue, error) {
	return lints.DetectImplicitReturnValue(filename, mod, r.severity)
}

type ImplicitReturnRule struct{ returnRule }

func NewImplicitReturnRule() LintRule {
	return &ImplicitReturnRule{returnRule{kind: returns.ImplicitReturn, severity: tt.SeverityError}}
}

func (r *ImplicitReturnRule) Check(filename string, mod *syntax.Module) ([]tt.Issue, error) {
	return lints.DetectImplicitReturn(filename, mod, r.severity)
}

type UnnecessaryAssignRule struct{ returnRule }

func NewUnnecessaryAssignRule() LintRule {
	return &UnnecessaryAssignRule{returnRule{kind: returns.UnnecessaryAssign, severity: tt.SeverityWarning}}
}

func (r *UnnecessaryAssignRule) Check(filename string, mod *syntax.Module) ([]tt.Issue, error) {
	return lints.DetectUnnecessaryAssign(filename, mod, r.severity)
}
