package formatter

type UnnecessaryAssignFormatter struct{}

func (f *UnnecessaryAssignFormatter) IssueTemplate() string {
	return `{{- header .Rule .Code .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{- snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{- underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{- note .Note -}}
{{- "\n" -}}`
}
