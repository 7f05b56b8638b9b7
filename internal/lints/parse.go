package lints

import (
	"github.com/gnoswap-labs/retlint/internal/syntax"
	"github.com/gnoswap-labs/retlint/internal/syntax/starlark"
)

// ParseFile parses a Starlark file. If src is nil the file is read from disk.
func ParseFile(filename string, src interface{}) (*syntax.Module, error) {
	return starlark.Parse(filename, src)
}
