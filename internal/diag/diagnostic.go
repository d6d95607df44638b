package diag

import (
	"errors"
	"fmt"

	"xqlint/internal/source"
)

// Problem is one lexical or syntax diagnostic.
type Problem struct {
	Code     Code
	Severity Severity
	Message  string
	Line     uint32 // 1-based, 0 when unknown
	Column   uint32 // 1-based
	Span     source.Span
}

// String renders the message the way log output and the parse-error rule expect:
// " - line 3:14 - unexpected token ')'".
func (p Problem) String() string {
	return fmt.Sprintf(" - line %d:%d - %s", p.Line, p.Column, p.Message)
}

// ID is the stable problem identifier.
func (p Problem) ID() string {
	return p.Code.ID()
}

// ErrAborted matches every *AbortError under errors.Is.
var ErrAborted = errors.New("parse aborted")

// AbortError carries the problem that stopped a fail-on-error parse.
type AbortError struct {
	Problem Problem
}

func (e *AbortError) Error() string {
	return "parse aborted:" + e.Problem.String()
}

func (e *AbortError) Unwrap() error { return ErrAborted }
