package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRunAllContinuesPastFailures(t *testing.T) {
	s := New(Options{JobTimeout: time.Second})

	var ran atomic.Int32
	s.Add("failing", func(ctx context.Context) error {
		ran.Add(1)
		return errors.New("boom")
	})
	s.Add("healthy", func(ctx context.Context) error {
		ran.Add(1)
		return nil
	})

	s.runAll()

	if got := ran.Load(); got != 2 {
		t.Errorf("jobs run = %d, want 2", got)
	}
}

func TestRunAllAppliesTimeout(t *testing.T) {
	s := New(Options{JobTimeout: 10 * time.Millisecond})

	var sawDeadline atomic.Bool
	s.Add("slow", func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			sawDeadline.Store(true)
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})

	s.runAll()

	if !sawDeadline.Load() {
		t.Error("job context should be canceled by the timeout")
	}
}

func TestStartAndStop(t *testing.T) {
	s := New(Options{})
	s.Add("noop", func(ctx context.Context) error { return nil })

	if err := s.Start(time.Minute); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	s.Stop()
}
