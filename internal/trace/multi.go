package trace

import "errors"

// MultiTracer sends every event to each of its tracers.
type MultiTracer struct {
	level   Level
	tracers []Tracer
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{level: level, tracers: tracers}
}

// Emit hands each tracer its own copy, since tracers stamp the sequence number.
func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Flush() error {
	return t.all(Tracer.Flush)
}

func (t *MultiTracer) Close() error {
	return t.all(Tracer.Close)
}

// all calls fn on every tracer, even after a failure, and joins the errors.
func (t *MultiTracer) all(fn func(Tracer) error) error {
	var errs []error
	for _, tr := range t.tracers {
		if err := fn(tr); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *MultiTracer) Level() Level  { return t.level }
func (t *MultiTracer) Enabled() bool { return t.level > LevelOff }

// Ring is the first ring tracer among the tracers, for crash dumps; nil when
// there is none.
func (t *MultiTracer) Ring() *RingTracer {
	for _, tr := range t.tracers {
		if r, ok := tr.(*RingTracer); ok {
			return r
		}
	}
	return nil
}
