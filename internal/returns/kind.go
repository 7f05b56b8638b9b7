package returns

import "fmt"

// Kind identifies one of the return-statement smells.
type Kind int

const (
	UnnecessaryReturnNone Kind = iota
	ImplicitReturnValue
	ImplicitReturn
	UnnecessaryAssign
)

// Kinds lists every kind in code order.
var Kinds = []Kind{UnnecessaryReturnNone, ImplicitReturnValue, ImplicitReturn, UnnecessaryAssign}

var kindInfo = [...]struct {
	name, rule, code, message string
}{
	UnnecessaryReturnNone: {
		"UnnecessaryReturnNone", "unnecessary-return-none", "R501",
		"do not explicitly return None in function if it is the only possible return value",
	},
	ImplicitReturnValue: {
		"ImplicitReturnValue", "implicit-return-value", "R502",
		"do not implicitly return None in function able to return non-None value",
	},
	ImplicitReturn: {
		"ImplicitReturn", "implicit-return", "R503",
		"missing explicit return at the end of function able to return non-None value",
	},
	UnnecessaryAssign: {
		"UnnecessaryAssign", "unnecessary-assign", "R504",
		"unnecessary variable assignment before return statement",
	},
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(kindInfo) }

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindInfo[k].name
}

// Rule is the lint rule name of k, as used in configuration and nolint comments.
func (k Kind) Rule() string {
	if !k.valid() {
		return ""
	}
	return kindInfo[k].rule
}

// Code is the flake8 error code of k.
func (k Kind) Code() string {
	if !k.valid() {
		return ""
	}
	return kindInfo[k].code
}

func (k Kind) Message() string {
	if !k.valid() {
		return ""
	}
	return kindInfo[k].message
}

// ParseKind accepts a kind name, a rule name or a code.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		info := kindInfo[k]
		if s == info.name || s == info.rule || s == info.code {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown return check %q", s)
}
