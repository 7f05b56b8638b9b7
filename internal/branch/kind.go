package branch

// Kind is the guaranteed control-flow outcome of a statement sequence.
//
// The terminating kinds are ordered: when arms of a conditional are combined,
// the greatest one wins.
type Kind int

const (
	// MayFallThrough sequences can reach their end without returning or raising.
	MayFallThrough Kind = iota

	// AlwaysRaises sequences never complete normally and never return:
	// every path raises, exits the process or loops forever.
	AlwaysRaises

	// AlwaysReturnsNone sequences always return, and never return a value.
	AlwaysReturnsNone

	// AlwaysReturnsValue sequences always return or raise, and at least one
	// path returns a value.
	AlwaysReturnsValue
)

func (k Kind) Terminates() bool { return k != MayFallThrough }

func (k Kind) String() string {
	switch k {
	case MayFallThrough:
		return "MayFallThrough"
	case AlwaysRaises:
		return "AlwaysRaises"
	case AlwaysReturnsNone:
		return "AlwaysReturnsNone"
	case AlwaysReturnsValue:
		return "AlwaysReturnsValue"
	default:
		panic("invalid kind")
	}
}
