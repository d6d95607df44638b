package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var seq, spanIDs atomic.Uint64

// NextSeq numbers events across every tracer of the process.
func NextSeq() uint64 { return seq.Add(1) }

// NextSpanID returns an id no other span of the process has; never 0.
func NextSpanID() uint64 { return spanIDs.Add(1) }

// getGoroutineID reads the id from the "goroutine N [" header of the stack.
// Only used when tracing is on.
func getGoroutineID() uint64 {
	var buf [64]byte
	hdr := buf[:runtime.Stack(buf[:], false)]
	hdr, ok := bytes.CutPrefix(hdr, []byte("goroutine "))
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(hdr, ' '); i >= 0 {
		hdr = hdr[:i]
	}
	id, err := strconv.ParseUint(string(hdr), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// Span is an operation with a begin and an end event. A span started on a
// disabled tracer, or below the tracer's level, has id 0 and emits nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	started time.Time
	extra   map[string]string
}

// Begin emits the begin event of a span under parent (0 for a root span).
// Prefer Start when a context is at hand.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{tracer: Nop}
	}
	s := &Span{
		tracer:  t,
		id:      NextSpanID(),
		parent:  parent,
		gid:     getGoroutineID(),
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	t.Emit(s.event(KindSpanBegin, s.started, ""))
	return s
}

func (s *Span) event(kind Kind, at time.Time, detail string) *Event {
	return &Event{
		Time:     at,
		Seq:      NextSeq(),
		Kind:     kind,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		Detail:   detail,
	}
}

func (s *Span) live() bool {
	return s != nil && s.tracer != nil && s.tracer.Enabled()
}

// End emits the end event, with the extras collected so far, and returns the
// span's duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() {
		return 0
	}
	now := time.Now()
	ev := s.event(KindSpanEnd, now, detail)
	ev.Extra = s.extra
	s.tracer.Emit(ev)
	return now.Sub(s.started)
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if !s.live() {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID is 0 for a nil or disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func instant(t Tracer, kind Kind, scope Scope, name, detail string) {
	t.Emit(&Event{
		Time:   time.Now(),
		Seq:    NextSeq(),
		Kind:   kind,
		Scope:  scope,
		GID:    getGoroutineID(),
		Name:   name,
		Detail: detail,
	})
}

// Point emits an instant event when the level covers scope.
func Point(t Tracer, scope Scope, name, detail string) {
	if t != nil && t.Enabled() && t.Level().ShouldEmit(scope) {
		instant(t, KindPoint, scope, name, detail)
	}
}

// Failure emits a failure event; it passes every level but off.
func Failure(t Tracer, scope Scope, name string, err error) {
	if t == nil || !t.Enabled() {
		return
	}
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	instant(t, KindFailure, scope, name, detail)
}
