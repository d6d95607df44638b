// Package fuzztests holds the fuzz harnesses of the analysis pipeline:
// source -> lexer -> parser -> mapping -> checks. They look for panics and
// hangs on arbitrary input; no harness asserts on the problems reported.
package fuzztests
