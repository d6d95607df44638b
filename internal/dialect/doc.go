// Package dialect guesses which XQuery dialect a file is written in when it
// has no version declaration to say so. Evidence comes from a prescan with
// the expression lexer: function prefixes, keyword pairs and operators that
// only one dialect has. The guess only picks the features parsing starts
// with; a version declaration met later still overrides it.
package dialect
