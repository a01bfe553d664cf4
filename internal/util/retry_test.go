package util

import (
	"context"
	"errors"
	"testing"
)

func TestRetryErrSucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := RetryErr(3, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryErrExhausted(t *testing.T) {
	wantErr := errors.New("always fails")
	attempts := 0
	err := RetryErr(4, func() error {
		attempts++
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected last error, got %v", err)
	}
	if attempts != 4 {
		t.Errorf("expected 4 attempts, got %d", attempts)
	}
}

func TestRetryErrZeroTries(t *testing.T) {
	attempts := 0
	_ = RetryErr(0, func() error {
		attempts++
		return errors.New("fail")
	})
	if attempts != 1 {
		t.Errorf("expected 1 attempt for maxTries 0, got %d", attempts)
	}
}

func TestRetryWithContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	_, err := RetryWithContext(ctx, 3, func(context.Context) (int, error) {
		attempts++
		return 0, errors.New("fail")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if attempts != 0 {
		t.Errorf("expected no attempts on canceled context, got %d", attempts)
	}
}

func TestRetryWithContextStopsOnCancellationError(t *testing.T) {
	attempts := 0
	_, err := RetryWithContext(context.Background(), 5, func(context.Context) (int, error) {
		attempts++
		return 0, context.DeadlineExceeded
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}
