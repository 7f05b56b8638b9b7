package retlint

import "github.com/gnoswap-labs/retlint/internal/returns"

// Rule describes one check.
type Rule struct {
	Kind    string
	Name    string
	Code    string
	Message string
}

// Rules lists every check in code order.
func Rules() []Rule {
	rules := make([]Rule, 0, len(returns.Kinds))
	for _, k := range returns.Kinds {
		rules = append(rules, Rule{Kind: k.String(), Name: k.Rule(), Code: k.Code(), Message: k.Message()})
	}
	return rules
}
