// Package internal provides the lint engine of retlint.
//
// The engine runs the return-statement rules over Starlark files: each file
// is parsed once and every enabled rule checks the parsed module concurrently.
//
// Key components:
//
// Engine: The main linting engine that coordinates the linting process.
// It holds the rules with their configured severity, the rules and path
// patterns to ignore, and optionally an on-disk cache of issues.
//
// LintRule: An interface that defines the contract for all lint rules.
// There is one rule per return check: unnecessary-return-none (R501),
// implicit-return-value (R502), implicit-return (R503) and
// unnecessary-assign (R504).
//
// Cache: Issues of unchanged files, invalidated by file content, age and the
// configuration file.
//
// Issues can be silenced with `# nolint` or `# nolint:rule,...` comments,
// where a rule is given by name or code.
//
// Usage:
//
//	engine, err := internal.NewEngine("path/to/root/dir", nil)
//	if err != nil {
//	    // handle error
//	}
//
//	issues, err := engine.Run("path/to/defs.bzl")
//	if err != nil {
//	    // handle error
//	}
//
//	for _, issue := range issues {
//	    fmt.Printf("%s: %s at %s\n", issue.Code, issue.Message, issue.Start)
//	}
//
// This package is intended for internal use within the linting tool and should not be
// imported by external packages.
package internal
