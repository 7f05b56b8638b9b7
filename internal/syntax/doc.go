// Package syntax is the read-only statement model the return checks consume.
//
// The model describes one module of a Python-family language: statements,
// their nested blocks, the value of return statements and source positions.
// Front-ends (see package starlark) translate their own trees into it, so the
// checks never depend on a particular parser.
package syntax
