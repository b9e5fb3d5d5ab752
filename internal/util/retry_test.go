package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	got, err := Retry(3, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errors.New("transient")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Retry returned error: %v", err)
	}
	if got != "ok" {
		t.Errorf("Retry returned %q, want %q", got, "ok")
	}
	if calls != 3 {
		t.Errorf("Retry made %d calls, want 3", calls)
	}
}

func TestRetryReturnsLastError(t *testing.T) {
	wantErr := errors.New("still broken")
	calls := 0
	_, err := Retry(2, func() (int, error) {
		calls++
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Retry returned %v, want %v", err, wantErr)
	}
	if calls != 2 {
		t.Errorf("Retry made %d calls, want 2", calls)
	}
}

func TestRetryErrWithContextStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := RetryErrWithContext(ctx, 5, func(context.Context) error {
		calls++
		cancel()
		return errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("RetryErrWithContext returned %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("RetryErrWithContext made %d calls after cancel, want 1", calls)
	}
}
