package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func noSleep(delays *[]time.Duration) func(context.Context, time.Duration) error {
	return func(_ context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return nil
	}
}

func TestRetryStopsOnSuccess(t *testing.T) {
	var delays []time.Duration
	r := Fixed(5, 100*time.Millisecond, Discard())
	r.Sleep = noSleep(&delays)

	calls := 0
	err := r.Do(context.Background(), "discover", func(attempt int) error {
		calls++
		if attempt < 3 {
			return errors.New("nothing yet")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned %v; want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
	if len(delays) != 2 {
		t.Errorf("sleeps: got %d, want 2", len(delays))
	}
}

func TestRetryFixedIntervalIsBounded(t *testing.T) {
	var delays []time.Duration
	r := Fixed(50, 100*time.Millisecond, Discard())
	r.Sleep = noSleep(&delays)

	calls := 0
	cause := errors.New("no mounts")
	err := r.Do(context.Background(), "discover", func(int) error {
		calls++
		return cause
	})
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Do returned %v; want ErrRetryExhausted", err)
	}
	if !errors.Is(err, cause) {
		t.Errorf("Do returned %v; want it to wrap the last cause", err)
	}
	if calls != 50 {
		t.Errorf("calls: got %d, want 50", calls)
	}
	for i, d := range delays {
		if d != 100*time.Millisecond {
			t.Errorf("delay %d: got %v, want fixed 100ms", i, d)
		}
	}
}

func TestRetryExponentialDelay(t *testing.T) {
	var delays []time.Duration
	r := &RetryConfig{MaxAttempts: 4, BaseDelay: time.Second, Multiplier: 2, Sleep: noSleep(&delays)}

	_ = r.Do(context.Background(), "ping", func(int) error { return errors.New("down") })

	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("delays: got %v, want %v", delays, want)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d: got %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetryZeroAttempts(t *testing.T) {
	r := Fixed(0, time.Millisecond, nil)
	calls := 0
	err := r.Do(context.Background(), "noop", func(int) error {
		calls++
		return nil
	})
	if calls != 0 {
		t.Errorf("calls: got %d, want 0", calls)
	}
	if !errors.Is(err, ErrRetryExhausted) {
		t.Errorf("Do returned %v; want ErrRetryExhausted", err)
	}
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := Fixed(10, time.Hour, nil)
	calls := 0
	err := r.Do(ctx, "discover", func(int) error {
		calls++
		return errors.New("none")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Do returned %v; want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("calls: got %d, want 1", calls)
	}
}
