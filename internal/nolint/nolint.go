package nolint

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/retlint/internal/syntax"
)

const nolintPrefix = "nolint"

// Manager manages nolint scopes and checks if a line is nolinted.
type Manager struct {
	scopes []nolintScope
}

// nolintScope represents a range of lines where nolint applies.
type nolintScope struct {
	rules map[string]struct{} // empty => apply to all lint rules
	start int
	end   int
}

// ParseComments parses the nolint comments of mod and returns a Manager.
//
// An inline comment applies to the lines of the statement it trails. A comment
// on its own line applies from that line to the end of the statement that
// follows it, so a comment above a def covers the whole function. A comment
// that belongs to no statement and precedes all code applies to the whole file.
func ParseComments(mod *syntax.Module) *Manager {
	manager := &Manager{}
	firstLine := firstStatementLine(mod)

	for _, c := range mod.Comments {
		ns, err := parseComment(c, firstLine)
		if err != nil {
			// ignore invalid nolint comments
			continue
		}
		manager.scopes = append(manager.scopes, ns)
	}
	return manager
}

func parseComment(c syntax.Comment, firstLine int) (nolintScope, error) {
	var ns nolintScope

	text := strings.TrimSpace(strings.TrimPrefix(c.Text, "#"))
	if !strings.HasPrefix(text, nolintPrefix) {
		return ns, fmt.Errorf("invalid nolint comment")
	}
	rest := text[len(nolintPrefix):]

	// A nolint comment can either have a list of rules after a colon (:)
	// or if no rules are specified, it applies to all rules
	if len(rest) > 0 && rest[0] != ':' {
		return ns, fmt.Errorf("invalid nolint comment format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, fmt.Errorf("invalid nolint comment: no rules specified after colon")
		}
	}
	ns.rules = parseIgnoreRuleNames(rest)

	line := c.Pos.Line
	switch {
	case !c.Start.IsValid():
		if firstLine == 0 || line < firstLine {
			ns.start, ns.end = 1, maxLine
			return ns, nil
		}
		// trailing comment of a block: only its own line
		ns.start, ns.end = line, line
	case c.Inline:
		ns.start, ns.end = min(line, c.Start.Line), max(line, c.End.Line)
	default:
		ns.start, ns.end = line, max(line, c.End.Line)
	}
	return ns, nil
}

const maxLine = int(^uint(0) >> 1)

// parseIgnoreRuleNames parses the rule list from the nolint comment.
func parseIgnoreRuleNames(text string) map[string]struct{} {
	rulesMap := make(map[string]struct{})
	if text == "" {
		return rulesMap
	}
	for _, rule := range strings.Split(text, ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rulesMap[rule] = struct{}{}
		}
	}
	return rulesMap
}

func firstStatementLine(mod *syntax.Module) int {
	if len(mod.Body) == 0 {
		return 0
	}
	start, _ := mod.Body[0].Span()
	return start.Line
}

// IsNolint checks if an issue of the rule on line is nolinted. A rule may be
// listed by name or by code, so both are accepted.
func (m *Manager) IsNolint(line int, names ...string) bool {
	for _, ns := range m.scopes {
		if line < ns.start || line > ns.end {
			continue
		}
		// If the rules list is empty, nolint applies to all rules
		if len(ns.rules) == 0 {
			return true
		}
		for _, name := range names {
			if _, exists := ns.rules[name]; exists {
				return true
			}
		}
	}
	return false
}
