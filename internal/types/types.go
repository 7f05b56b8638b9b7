package types

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/retlint/internal/syntax"
)

// Issue represents a lint issue found in the code base.
type Issue struct {
	Rule       string
	Code       string
	Category   string
	Filename   string
	Message    string
	Suggestion string
	Note       string
	Start      syntax.Position
	End        syntax.Position
	Severity   Severity
}

// Severity is how seriously an issue of a rule is reported.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
	SeverityOff
)

var severityNames = [...]string{
	SeverityError:   "ERROR",
	SeverityWarning: "WARNING",
	SeverityInfo:    "INFO",
	SeverityOff:     "OFF",
}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "UNKNOWN"
	}
	return severityNames[s]
}

// ParseSeverity parses a severity name, ignoring case.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(name, n) {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("invalid severity %q", name)
}

func (s Severity) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Severity) UnmarshalYAML(node *yaml.Node) error {
	var name string
	if err := node.Decode(&name); err != nil {
		return err
	}
	parsed, err := ParseSeverity(name)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*s = parsed
	return nil
}

// ConfigRule is the configuration of one rule.
type ConfigRule struct {
	Severity Severity `yaml:"severity"`
}
