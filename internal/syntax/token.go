package syntax

// Token identifies the keyword of a BranchStmt or LoopStmt.
type Token int

const (
	ILLEGAL Token = iota
	PASS
	BREAK
	CONTINUE
	FOR
	WHILE
)

var tokenNames = [...]string{
	ILLEGAL:  "illegal",
	PASS:     "pass",
	BREAK:    "break",
	CONTINUE: "continue",
	FOR:      "for",
	WHILE:    "while",
}

func (t Token) String() string {
	if t < 0 || int(t) >= len(tokenNames) {
		return tokenNames[ILLEGAL]
	}
	return tokenNames[t]
}
