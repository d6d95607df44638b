package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits a driver-scope event at a fixed interval while an analysis
// runs. A run of heartbeats with no span end between them names the file the
// analysis is stuck on: the last one that began.
type Heartbeat struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

// StartHeartbeat starts the ticker goroutine. It returns nil, which Stop
// accepts, when tracing is off or the interval is not positive.
func StartHeartbeat(t Tracer, every time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || every <= 0 {
		return nil
	}
	h := &Heartbeat{stop: make(chan struct{}), done: make(chan struct{})}
	go h.loop(t, every)
	return h
}

func (h *Heartbeat) loop(t Tracer, every time.Duration) {
	defer close(h.done)
	started := time.Now()
	tick := time.NewTicker(every)
	defer tick.Stop()
	for n := 1; ; n++ {
		select {
		case <-h.stop:
			return
		case now := <-tick.C:
			t.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d after %s", n, now.Sub(started).Round(time.Millisecond)),
			})
		}
	}
}

// Stop ends the goroutine and waits for it. Calling it again is a no-op.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
