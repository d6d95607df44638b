// Package diag defines syntax-level problems shared by the lexers and the parser.
//
// A Problem is independent of rule-check issues: it describes text the front end
// could not tokenize or parse. Producers emit through the Reporter interface and
// never format or print anything themselves; rendering lives in internal/report.
//
// # Reporting modes
//
// BagReporter collects problems and lets the parse continue (the batch default).
// With FailOnError set, the first error-severity problem aborts the current parse by
// panicking with *AbortError; the parser recovers it at its entry point and returns
// it as an ordinary error, so no panic escapes a Parse call.
//
// # Codes
//
// Code values are grouped in ranges: 1000s lexical, 2000s syntax. Code.ID renders
// the stable string form (LEX1001, SYN2001) used as the problem id in reports.
package diag
