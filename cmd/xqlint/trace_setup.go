package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"xqlint/internal/trace"
)

var (
	crashMu   sync.Mutex
	crashRing *trace.RingTracer
)

// setupTracing reads the trace flags, attaches the tracer to the command
// context and returns the cleanup to run after the command.
func setupTracing(cmd *cobra.Command) (func(), error) {
	flags := cmd.Root().PersistentFlags()

	output, err := flags.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeat, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace without a level means phase events
	if level == trace.LevelOff && output != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}

	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	if output == "" {
		output = "-"
	}
	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: output,
		RingSize:   ringSize,
		Heartbeat:  heartbeat,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}

	switch t := tracer.(type) {
	case *trace.RingTracer:
		setCrashRing(t)
	case *trace.MultiTracer:
		setCrashRing(t.Ring())
	}

	ctx := trace.WithTracer(cmd.Context(), tracer)
	cmd.SetContext(ctx)

	var hb *trace.Heartbeat
	if heartbeat > 0 {
		hb = trace.StartHeartbeat(tracer, heartbeat)
	}

	return func() {
		if hb != nil {
			hb.Stop()
		}
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
		setCrashRing(nil)
	}, nil
}

func setCrashRing(r *trace.RingTracer) {
	crashMu.Lock()
	crashRing = r
	crashMu.Unlock()
}

// dumpTraceOnPanic writes the ring buffer to stderr before re-panicking.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	crashMu.Lock()
	ring := crashRing
	crashMu.Unlock()
	if ring != nil {
		fmt.Fprintln(os.Stderr, "--- trace before panic ---")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}
