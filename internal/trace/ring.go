package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the latest events in memory. The CLI dumps it to stderr
// when a panic escapes the per-file recovery.
type RingTracer struct {
	level Level

	mu      sync.Mutex
	buf     []Event
	written uint64 // events ever stored; the next slot is written % len(buf)
}

// NewRingTracer keeps up to size events; a non-positive size means 4096.
func NewRingTracer(size int, level Level) *RingTracer {
	if size <= 0 {
		size = 4096
	}
	return &RingTracer{level: level, buf: make([]Event, size)}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.Accepts(ev) {
		return
	}
	t.mu.Lock()
	i := t.written % uint64(len(t.buf))
	t.buf[i] = *ev
	t.buf[i].Seq = NextSeq()
	t.written++
	t.mu.Unlock()
}

// Len is the number of events held, at most the ring size.
func (t *RingTracer) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return int(min(t.written, uint64(len(t.buf))))
}

// Snapshot copies the held events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	size := uint64(len(t.buf))
	if t.written <= size {
		return append([]Event(nil), t.buf[:t.written]...)
	}
	start := t.written % size
	out := make([]Event, 0, size)
	out = append(out, t.buf[start:]...)
	return append(out, t.buf[:start]...)
}

// Dump writes the held events, oldest first.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	for _, ev := range t.Snapshot() {
		if _, err := w.Write(FormatEvent(&ev, format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.level }
func (t *RingTracer) Enabled() bool { return t.level > LevelOff }
