package formatter

type GeneralIssueFormatter struct{}

func (f *GeneralIssueFormatter) IssueTemplate() string {
	return `{{- header .Rule .Code .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{- snippet .SnippetLines .StartLine .StartLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{- underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{- suggestion .Suggestion .Padding .MaxLineNumWidth .StartLine -}}
{{- note .Note -}}
{{- "\n" -}}`
}
