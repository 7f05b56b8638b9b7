package formatter

// ImplicitReturnFormatter points at the statement after which control
// runs off the end of the function.
type ImplicitReturnFormatter struct{}

func (f *ImplicitReturnFormatter) IssueTemplate() string {
	return `{{- header .Rule .Code .Severity .MaxLineNumWidth .Filename .StartLine .StartColumn -}}
{{- snippet .SnippetLines .StartLine .StartLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{- underlineLine .Message .Padding .StartLine .SnippetLines .CommonIndent -}}
{{- help "add an explicit return or raise at the end of this path" .Padding -}}
{{- note .Note -}}
{{- "\n" -}}`
}
