package diag

type dedupKey struct {
	code Code
	line uint32
	col  uint32
	msg  string
}

// DedupReporter wraps another Reporter and suppresses duplicate problems with the
// same code, position and message. Re-lexing a region after a lexer switch would
// otherwise report its lexical errors twice.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

// NewDedupReporter returns a Reporter that filters out duplicates while
// forwarding unique problems to next.
func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{
		next: next,
		seen: make(map[dedupKey]struct{}),
	}
}

func (r *DedupReporter) Report(p Problem) {
	if r == nil {
		return
	}
	key := dedupKey{code: p.Code, line: p.Line, col: p.Column, msg: p.Message}
	if _, ok := r.seen[key]; ok {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(p)
	}
}
