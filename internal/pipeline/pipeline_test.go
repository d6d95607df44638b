package pipeline_test

import (
	"testing"
	"time"

	"xqlint/internal/pipeline"
)

func TestTimingsAccumulate(t *testing.T) {
	var tm pipeline.Timings
	tm.Add(pipeline.StageParse, 2*time.Millisecond)
	tm.Add(pipeline.StageParse, 3*time.Millisecond)
	tm.Add(pipeline.StageMap, time.Millisecond)

	if got := tm.Duration(pipeline.StageParse); got != 5*time.Millisecond {
		t.Fatalf("parse duration = %v, want 5ms", got)
	}
	if tm.Has(pipeline.StageProcess) {
		t.Fatalf("process stage should not be recorded")
	}
	if got := tm.Sum(pipeline.Stages...); got != 6*time.Millisecond {
		t.Fatalf("sum = %v, want 6ms", got)
	}
}

func TestRecorderFiltersByFile(t *testing.T) {
	var rec pipeline.Recorder
	pipeline.Emit(&rec, pipeline.Event{File: "a.xqy", Stage: pipeline.StageLoad, Status: pipeline.StatusDone})
	pipeline.Emit(&rec, pipeline.Event{Stage: pipeline.StageMap, Status: pipeline.StatusWorking})
	pipeline.Emit(&rec, pipeline.Event{File: "a.xqy", Stage: pipeline.StageParse, Status: pipeline.StatusDone})
	pipeline.Emit(nil, pipeline.Event{File: "a.xqy"})

	if n := len(rec.Events()); n != 3 {
		t.Fatalf("recorded %d events, want 3", n)
	}
	got := rec.For("a.xqy")
	if len(got) != 2 || got[1].Stage != pipeline.StageParse {
		t.Fatalf("unexpected events for a.xqy: %+v", got)
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan pipeline.Event, 1)
	pipeline.ChannelSink{Ch: ch}.OnEvent(pipeline.Event{File: "x"})
	if ev := <-ch; ev.File != "x" {
		t.Fatalf("got %+v", ev)
	}
	pipeline.ChannelSink{}.OnEvent(pipeline.Event{})
}
