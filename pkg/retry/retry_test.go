package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
)

func fastConfig() *Config {
	return &Config{
		MaxRetries:   3,
		InitialDelay: 5 * time.Millisecond,
		MaxDelay:     20 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.MaxRetries != 5 {
		t.Errorf("expected MaxRetries=5, got %d", cfg.MaxRetries)
	}
	if cfg.InitialDelay != 500*time.Millisecond {
		t.Errorf("expected InitialDelay=500ms, got %v", cfg.InitialDelay)
	}
	if cfg.MaxDelay != 10*time.Second {
		t.Errorf("expected MaxDelay=10s, got %v", cfg.MaxDelay)
	}
	if cfg.Multiplier != 2.0 {
		t.Errorf("expected Multiplier=2.0, got %f", cfg.Multiplier)
	}
}

func TestDo_Success(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), fastConfig(), func() error {
		callCount++
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestDo_SuccessAfterRetries(t *testing.T) {
	callCount := 0
	err := Do(context.Background(), fastConfig(), func() error {
		callCount++
		if callCount < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 3 {
		t.Errorf("expected 3 calls, got %d", callCount)
	}
}

func TestDo_ExhaustsRetries(t *testing.T) {
	callCount := 0
	wantErr := errors.New("still down")
	err := Do(context.Background(), fastConfig(), func() error {
		callCount++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("expected last error, got %v", err)
	}
	if callCount != 4 {
		t.Errorf("expected 4 calls (1 + 3 retries), got %d", callCount)
	}
}

func TestDo_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig()
	cfg.InitialDelay = time.Second
	cfg.OnRetry = func(int, time.Duration, error) { cancel() }

	err := Do(ctx, cfg, func() error { return errors.New("connection refused") })

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestDoWithResult_ReturnsValue(t *testing.T) {
	callCount := 0
	got, err := DoWithResult(context.Background(), fastConfig(), func() (string, error) {
		callCount++
		if callCount == 1 {
			return "", errors.New("connection reset by peer")
		}
		return "pool", nil
	})

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != "pool" {
		t.Errorf("expected result 'pool', got %q", got)
	}
}

func TestDoWithResult_OnRetryReportsAttempts(t *testing.T) {
	var attempts []int
	cfg := fastConfig()
	cfg.OnRetry = func(attempt int, delay time.Duration, err error) {
		attempts = append(attempts, attempt)
	}

	_, _ = DoWithResult(context.Background(), cfg, func() (int, error) {
		return 0, errors.New("connection refused")
	})

	if len(attempts) != 3 || attempts[0] != 1 || attempts[2] != 3 {
		t.Errorf("unexpected retry attempts: %v", attempts)
	}
}

func TestDoIfRetryable_StopsOnPermanentError(t *testing.T) {
	callCount := 0
	_, err := DoIfRetryable(context.Background(), fastConfig(), func() (int, error) {
		callCount++
		return 0, &pgconn.PgError{Code: "28P01", Message: "password authentication failed"}
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if callCount != 1 {
		t.Errorf("expected 1 call for a permanent error, got %d", callCount)
	}
}

func TestDoIfRetryable_RetriesTransientError(t *testing.T) {
	callCount := 0
	_, err := DoIfRetryable(context.Background(), fastConfig(), func() (int, error) {
		callCount++
		if callCount < 2 {
			return 0, &pgconn.PgError{Code: "57P03", Message: "the database system is starting up"}
		}
		return 1, nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if callCount != 2 {
		t.Errorf("expected 2 calls, got %d", callCount)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline wrapped", fmt.Errorf("ping: %w", context.DeadlineExceeded), false},
		{"starting up", &pgconn.PgError{Code: "57P03"}, true},
		{"too many connections", fmt.Errorf("connect: %w", &pgconn.PgError{Code: "53300"}), true},
		{"connection exception class", &pgconn.PgError{Code: "08006"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"bad password", &pgconn.PgError{Code: "28P01"}, false},
		{"refused by pattern", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"), true},
		{"unknown host", errors.New("lookup db: no such host"), true},
		{"syntax", errors.New("syntax error at or near SELECT"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Errorf("IsRetryable(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestApplyJitter(t *testing.T) {
	base := 100 * time.Millisecond

	if got := applyJitter(base, 0); got != base {
		t.Errorf("expected no jitter with factor 0, got %v", got)
	}

	for i := 0; i < 50; i++ {
		got := applyJitter(base, 0.1)
		if got < 90*time.Millisecond || got > 110*time.Millisecond {
			t.Fatalf("jittered delay %v outside +/-10%%", got)
		}
	}
}
