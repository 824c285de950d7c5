package llm

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 4 * time.Millisecond}
}

func TestRetryStopsAfterMaxAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		return ClassifyStatus("x", 500, "")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestRetrySucceedsAfterTransient(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), fastPolicy(), func(context.Context) error {
		calls++
		if calls < 2 {
			return ClassifyStatus("x", 429, "")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestRetryFailsFastOnClientError(t *testing.T) {
	for _, status := range []int{400, 401, 403} {
		calls := 0
		err := Retry(context.Background(), fastPolicy(), func(context.Context) error {
			calls++
			return ClassifyStatus("x", status, "")
		})
		var pe *ProviderError
		if !errors.As(err, &pe) || pe.StatusCode != status {
			t.Fatalf("status %d: unexpected error %v", status, err)
		}
		if calls != 1 {
			t.Fatalf("status %d: expected 1 attempt, got %d", status, calls)
		}
	}
}

func TestRetryBackoffDoubles(t *testing.T) {
	var waits []time.Duration
	p := RetryPolicy{
		MaxAttempts: 4,
		BaseDelay:   time.Millisecond,
		MaxDelay:    3 * time.Millisecond,
		OnRetry: func(_ int, wait time.Duration, _ error) {
			waits = append(waits, wait)
		},
	}
	_ = Retry(context.Background(), p, func(context.Context) error {
		return NewNetworkError("op", errors.New("down"))
	})
	want := []time.Duration{time.Millisecond, 2 * time.Millisecond, 3 * time.Millisecond}
	if len(waits) != len(want) {
		t.Fatalf("waits: got %v want %v", waits, want)
	}
	for i := range want {
		if waits[i] != want[i] {
			t.Fatalf("waits: got %v want %v", waits, want)
		}
	}
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Hour, MaxDelay: time.Hour}
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Retry(ctx, p, func(context.Context) error {
			calls++
			return ClassifyStatus("x", 503, "")
		})
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatalf("retry did not observe cancellation")
	}
	if calls != 1 {
		t.Fatalf("expected 1 attempt, got %d", calls)
	}
}
