package formatter

import (
	"fmt"
	"strings"

	tt "github.com/gnoswap-labs/retlint/internal/types"
)

// GenerateCompactIssues renders one `file:line:col: CODE message` line per issue,
// the layout flake8 and most editors understand.
func GenerateCompactIssues(issues []tt.Issue) string {
	var builder strings.Builder
	for _, issue := range issues {
		filename := issue.Filename
		if filename == "" {
			filename = "<source>"
		}
		fmt.Fprintf(&builder, "%s:%d:%d: %s %s\n",
			filename, issue.Start.Line, issue.Start.Column, issue.Code, issue.Message)
	}
	return builder.String()
}
