// Package stream buffers tokens lazily from whichever lexer is active and lets the
// parser switch lexers mid-stream.
//
// The parser only ever pulls as many tokens as its lookahead needs. When it moves
// into a sub-language (a string body, a tag, element content) it pushes a new
// lexer through Modes; the Stream then throws away every token it read past the
// cursor, moves the shared Input back to the end of the last consumed token and
// winds the line counter back once per newline it dropped. The new lexer
// re-tokenizes that text under its own grammar and reports the same lines the
// old one would have.
package stream
