package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"xqlint/internal/source"
)

// Input is the character cursor shared by every sub-lexer of one parse.
// Line and column travel with it; a backward Seek keeps the line counter and the
// caller rewinds it explicitly with RewindLine.
type Input struct {
	file  *source.File
	off   uint32
	limit uint32
	line  uint32
	col   uint32
}

// NewInput creates a cursor at the start of f.
func NewInput(f *source.File) *Input {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return &Input{file: f, limit: limit, line: 1, col: 1}
}

func (in *Input) File() *source.File { return in.file }
func (in *Input) Offset() uint32     { return in.off }
func (in *Input) Line() uint32       { return in.line }
func (in *Input) Col() uint32        { return in.col }

// EOF reports whether the cursor is past the last byte.
func (in *Input) EOF() bool {
	return in.off >= in.limit
}

// Peek returns the current byte or 0 at end of input.
func (in *Input) Peek() byte {
	return in.PeekAt(0)
}

// PeekAt returns the byte n positions ahead or 0 past the end.
func (in *Input) PeekAt(n uint32) byte {
	if in.off+n >= in.limit {
		return 0
	}
	return in.file.Content[in.off+n]
}

// HasPrefix reports whether the remaining input starts with s.
func (in *Input) HasPrefix(s string) bool {
	rest := in.file.Content[in.off:in.limit]
	return len(rest) >= len(s) && string(rest[:len(s)]) == s
}

// PeekRune decodes the rune at the cursor; size is 0 at end of input.
func (in *Input) PeekRune() (rune, int) {
	if in.EOF() {
		return utf8.RuneError, 0
	}
	b := in.file.Content[in.off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	return utf8.DecodeRune(in.file.Content[in.off:in.limit])
}

// Bump consumes one byte and keeps line/column up to date.
func (in *Input) Bump() byte {
	if in.EOF() {
		return 0
	}
	b := in.file.Content[in.off]
	in.off++
	switch {
	case b == '\n':
		in.line++
		in.col = 1
	case b&0xC0 != 0x80: // continuation bytes stay in the same column
		in.col++
	}
	return b
}

// BumpN consumes n bytes.
func (in *Input) BumpN(n int) {
	for ; n > 0; n-- {
		in.Bump()
	}
}

// BumpRune consumes one UTF-8 encoded rune.
func (in *Input) BumpRune() {
	_, sz := in.PeekRune()
	in.BumpN(sz)
}

// Eat consumes s if the input starts with it.
func (in *Input) Eat(s string) bool {
	if !in.HasPrefix(s) {
		return false
	}
	in.BumpN(len(s))
	return true
}

// Seek moves the cursor to off. Moving forward consumes bytes (lines advance);
// moving backward leaves the line counter alone and recomputes the column.
func (in *Input) Seek(off uint32) {
	if off > in.limit {
		off = in.limit
	}
	if off >= in.off {
		for in.off < off {
			in.Bump()
		}
		return
	}
	in.off = off
	col := uint32(1)
	for i := int(off) - 1; i >= 0; i-- {
		b := in.file.Content[i]
		if b == '\n' {
			break
		}
		if b&0xC0 != 0x80 {
			col++
		}
	}
	in.col = col
}

// RewindLine steps the line counter back by one, never below line 1.
func (in *Input) RewindLine() {
	if in.line > 1 {
		in.line--
	}
}

// Span returns the span from start to the cursor.
func (in *Input) Span(start uint32) source.Span {
	return source.Span{File: in.file.ID, Start: start, End: in.off}
}

// Text returns the source text from start to the cursor.
func (in *Input) Text(start uint32) string {
	return string(in.file.Content[start:in.off])
}
