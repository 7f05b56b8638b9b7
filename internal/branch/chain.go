package branch

// join combines the terminations of alternative arms, of which exactly one runs.
// The result falls through if any arm does, anchored at the first such arm.
func join(arms ...Termination) Termination {
	result := Termination{Kind: AlwaysRaises}
	for _, arm := range arms {
		if !arm.Terminates() {
			return arm
		}
		if arm.Kind > result.Kind {
			result.Kind = arm.Kind
		}
	}
	return result
}
