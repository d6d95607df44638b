package stream

import (
	"xqlint/internal/lexer"
	"xqlint/internal/token"
)

// Stream is a lazily filled token buffer with arbitrary lookahead and rewind.
type Stream struct {
	src    lexer.Source
	tokens []token.Token
	p      int // buffer index of the next token to consume
}

// New creates a stream reading from src.
func New(src lexer.Source) *Stream {
	return &Stream{src: src, tokens: make([]token.Token, 0, 256)}
}

// Source returns the active lexer.
func (s *Stream) Source() lexer.Source {
	return s.src
}

func (s *Stream) good(t *token.Token) bool {
	return t.Channel == token.Default || s.src.WhitespaceExplicit()
}

// fill pulls one token from the active lexer. The EOF sentinel is returned but
// never buffered.
func (s *Stream) fill() (token.Token, bool) {
	tok := s.src.Next()
	if tok.Kind == token.EOF {
		return tok, false
	}
	tok.Index = len(s.tokens)
	s.tokens = append(s.tokens, tok)
	return tok, true
}

// LT returns the k-th good token ahead of the cursor for k > 0 and the k-th good
// token behind it for k < 0. LT(0) is nil, and so is a lookbehind past the start.
// Past end of input LT returns an EOF token.
// The pointer stays valid until the next SetSource; callers keeping a token copy it.
func (s *Stream) LT(k int) *token.Token {
	if k == 0 {
		return nil
	}
	if k < 0 {
		return s.lookBehind(-k)
	}
	n := 0
	for i := s.p; ; i++ {
		if i >= len(s.tokens) {
			if eof, ok := s.fill(); !ok {
				return &eof
			}
		}
		if s.good(&s.tokens[i]) {
			n++
			if n == k {
				return &s.tokens[i]
			}
		}
	}
}

func (s *Stream) lookBehind(k int) *token.Token {
	n := 0
	for i := s.p - 1; i >= 0; i-- {
		if s.good(&s.tokens[i]) {
			n++
			if n == k {
				return &s.tokens[i]
			}
		}
	}
	return nil
}

// Consume moves the cursor past the next good token, together with any hidden
// tokens in front of it. At end of input it does nothing.
func (s *Stream) Consume() {
	t := s.LT(1)
	if t.Kind == token.EOF {
		return
	}
	s.p = t.Index + 1
}

// Index is the buffer position of the cursor.
func (s *Stream) Index() int {
	return s.p
}

// Mark returns a marker for Rewind.
func (s *Stream) Mark() int {
	return s.p
}

// Rewind moves the cursor back to a marker. Markers past the cursor at the time of
// a SetSource are invalid.
func (s *Stream) Rewind(marker int) {
	if marker < 0 {
		marker = 0
	}
	if marker > len(s.tokens) {
		marker = len(s.tokens)
	}
	s.p = marker
}

// SetSource installs src as the active lexer. Buffered tokens from the cursor on
// are dropped, the shared input goes back to just after the last consumed token
// and the line counter is wound back once per newline in every dropped token.
func (s *Stream) SetSource(src lexer.Source) {
	in := src.Input()
	for i := s.p; i < len(s.tokens); i++ {
		for n := s.tokens[i].Newlines(); n > 0; n-- {
			in.RewindLine()
		}
	}
	s.tokens = s.tokens[:s.p]
	var off uint32
	if s.p > 0 {
		off = s.tokens[s.p-1].Span.End
	}
	in.Seek(off)
	s.src = src
}

// Tokens returns a copy of everything buffered so far.
func (s *Stream) Tokens() []token.Token {
	out := make([]token.Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}
