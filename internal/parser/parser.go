package parser

import (
	"errors"
	"fmt"

	"xqlint/internal/ast"
	"xqlint/internal/diag"
	"xqlint/internal/lexer"
	"xqlint/internal/source"
	"xqlint/internal/stream"
	"xqlint/internal/token"
	"xqlint/internal/trace"
)

// maxDepth bounds expression nesting; deeper input is reported and skipped
// instead of exhausting the goroutine stack.
const maxDepth = 512

type Options struct {
	Reporter  diag.Reporter
	Features  lexer.Features // dialect until a version declaration says otherwise
	MaxErrors uint           // 0 means unlimited
	Tracer    trace.Tracer
	Parent    uint64 // span the parse span nests under
}

// Result is one parsed file.
type Result struct {
	Root   *ast.Node // tokenless XQuery node; its children are the modules
	Nodes  uint32
	Errors uint
	Tokens []token.Token // the stream buffer, hidden tokens included
	// Unbalanced counts error-free modules that left lexers on the mode stack.
	Unbalanced int
}

// Parser holds the state of one parse. Nothing is shared between parses.
type Parser struct {
	file  *source.File
	s     *stream.Stream
	modes *stream.Modes
	b     *ast.Builder
	opts  Options
	rep   diag.Reporter

	errors     uint // errors forwarded to the reporter
	seen       uint // every error, including those over the budget
	unbalanced int
	depth      int
	lastErr    int // stream index of the last syntax error, -1 when none
}

// Parse builds the tree of one file. A fail-on-error reporter stops the parse at
// the first error; the partial tree is still returned together with the
// *diag.AbortError.
func Parse(file *source.File, opts Options) (res Result, err error) {
	p := newParser(file, opts)
	root := p.b.New(ast.XQuery, nil)

	span := trace.Begin(opts.Tracer, trace.ScopeNode, "parse:"+file.Path, opts.Parent)
	defer func() {
		if r := recover(); r != nil {
			abort, ok := r.(*diag.AbortError)
			if !ok {
				panic(r)
			}
			err = abort
			span.WithExtra("aborted", abort.Problem.String())
		}
		res = Result{Root: root, Nodes: p.b.Count(), Errors: p.errors, Tokens: p.s.Tokens(), Unbalanced: p.unbalanced}
		span.WithExtra("nodes", fmt.Sprint(res.Nodes)).End("")
	}()

	p.parseXQuery(root)
	return res, nil
}

// IsAborted reports whether err ended a fail-on-error parse.
func IsAborted(err error) bool {
	return errors.Is(err, diag.ErrAborted)
}

func newParser(file *source.File, opts Options) *Parser {
	if opts.Reporter == nil {
		opts.Reporter = diag.NopReporter{}
	}
	if opts.Tracer == nil {
		opts.Tracer = trace.Nop
	}
	p := &Parser{
		file:    file,
		b:       ast.NewBuilder(uint(len(file.Content)/8 + 16)),
		opts:    opts,
		lastErr: -1,
	}
	p.rep = diag.NewDedupReporter(diag.ReporterFunc(p.count))
	p.s = stream.New(lexer.NewXQuery(lexer.NewInput(file)))
	p.modes = stream.NewModes(p.s, opts.Features, p.rep)
	return p
}

// count forwards a problem unless the error budget is spent.
func (p *Parser) count(pr diag.Problem) {
	if pr.Severity >= diag.SevError {
		p.seen++
		if p.opts.MaxErrors > 0 && p.errors >= p.opts.MaxErrors {
			return
		}
		p.errors++
	}
	p.opts.Reporter.Report(pr)
}

// peek returns the k-th token ahead. Never look past a quote or '<': what
// follows is lexed by another grammar.
func (p *Parser) peek(k int) *token.Token {
	return p.s.LT(k)
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek(1).Kind == k
}

func (p *Parser) atName(words ...string) bool {
	return p.peek(1).IsName(words...)
}

// atKeywords reports whether the next tokens are exactly the given names.
func (p *Parser) atKeywords(words ...string) bool {
	for i, w := range words {
		if !p.peek(i + 1).IsName(w) {
			return false
		}
	}
	return true
}

// next consumes one token and returns a copy of it.
func (p *Parser) next() token.Token {
	tok := *p.peek(1)
	p.s.Consume()
	return tok
}

// leaf consumes one token into a terminal node.
func (p *Parser) leaf() *ast.Node {
	tok := p.next()
	return p.b.Leaf(&tok)
}

// node creates a grouping node anchored on the next token, without consuming it.
func (p *Parser) node(typ ast.Type) *ast.Node {
	return p.b.New(typ, p.peek(1))
}

// anchor creates a grouping node anchored on tok.
func (p *Parser) anchor(typ ast.Type, tok *token.Token) *ast.Node {
	return p.b.New(typ, tok)
}

// accept consumes the next token when it has kind k.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	return token.Token{}, false
}

// acceptName consumes the next token when it is one of the names.
func (p *Parser) acceptName(words ...string) (token.Token, bool) {
	if p.atName(words...) {
		return p.next(), true
	}
	return token.Token{}, false
}

// expect consumes a token of kind k or reports it missing.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.at(k) {
		return p.next(), true
	}
	p.errorAt(diag.SynExpectedToken, p.peek(1), "missing '%s' at %s", what, describe(p.peek(1)))
	return token.Token{}, false
}

// expectName consumes the keyword word or reports it missing.
func (p *Parser) expectName(word string) bool {
	if _, ok := p.acceptName(word); ok {
		return true
	}
	p.errorAt(diag.SynExpectedToken, p.peek(1), "missing '%s' at %s", word, describe(p.peek(1)))
	return false
}

// unexpected reports the next token as not fitting anywhere.
func (p *Parser) unexpected() {
	p.errorAt(diag.SynUnexpectedToken, p.peek(1), "no viable alternative at input %s", describe(p.peek(1)))
}

// errorAt reports a syntax error at tok. Only the first error at a given stream
// position is kept, the rest are follow-ups of the same mistake.
func (p *Parser) errorAt(code diag.Code, tok *token.Token, format string, args ...any) {
	if p.s.Index() == p.lastErr {
		return
	}
	p.lastErr = p.s.Index()
	p.report(code, diag.SevError, tok, fmt.Sprintf(format, args...))
}

func (p *Parser) report(code diag.Code, sev diag.Severity, tok *token.Token, msg string) {
	pr := diag.Problem{Code: code, Severity: sev, Message: msg}
	if tok != nil {
		pr.Line, pr.Column, pr.Span = tok.Line, tok.Col, tok.Span
	}
	p.rep.Report(pr)
}

// unsupported reports syntax xqlint recognises but does not analyse.
func (p *Parser) unsupported(tok *token.Token, what string) {
	p.errorAt(diag.SynUnsupported, tok, "%s is not supported", what)
}

// enter guards recursion; callers must leave() when it returns true.
func (p *Parser) enter() bool {
	if p.depth >= maxDepth {
		p.errorAt(diag.SynUnsupported, p.peek(1), "expression nested deeper than %d levels", maxDepth)
		return false
	}
	p.depth++
	return true
}

func (p *Parser) leave() { p.depth-- }

// resync drops back to the query grammar and skips to the next ';' without
// consuming it.
func (p *Parser) resync() {
	p.modes.Reset()
	skipped := 0
	for !p.at(token.EOF) && !p.at(token.Semicolon) {
		p.s.Consume()
		skipped++
	}
	if skipped > 0 {
		trace.Point(p.opts.Tracer, trace.ScopeNode, "resync", fmt.Sprintf("%s: skipped %d tokens", p.file.Path, skipped))
	}
}

// adjacent reports whether b starts exactly where a ends.
func adjacent(a, b *token.Token) bool {
	return a.Span.End == b.Span.Start
}

func describe(tok *token.Token) string {
	if tok == nil || tok.Kind == token.EOF {
		return "'<EOF>'"
	}
	return "'" + tok.Text + "'"
}
