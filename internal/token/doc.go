// Package token defines lexical token kinds for XQuery and its embedded sub-languages
// (string bodies, markup tags, attribute values, element content).
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly.
//   - XQuery keywords are lexed as NCName; the parser recognises them by text.
//   - Whitespace and comments travel on the Hidden channel; markup lexers emit
//     whitespace on the Default channel because whitespace is significant there.
package token
