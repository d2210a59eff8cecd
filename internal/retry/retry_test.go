package retry_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/jobs-dashboard/internal/retry"
)

func fastConfig(maxAttempts int) retry.Config {
	return retry.Config{
		MaxAttempts: maxAttempts,
		Delay:       time.Millisecond,
		IsRetryable: retry.IsConnectionError,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), fastConfig(5), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetriesConnectionErrors(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), fastConfig(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("dial tcp: connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	connErr := errors.New("write: broken pipe")

	err := retry.Do(context.Background(), fastConfig(5), func() error {
		calls++
		return connErr
	})

	require.Error(t, err)
	assert.Equal(t, 5, calls)
	assert.True(t, errors.Is(err, retry.ErrMaxAttemptsExceeded))
	assert.True(t, errors.Is(err, connErr))
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	calls := 0

	err := retry.Do(context.Background(), fastConfig(5), func() error {
		calls++
		return errors.New("pq: syntax error")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
	assert.False(t, errors.Is(err, retry.ErrMaxAttemptsExceeded))
}

func TestDo_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := retry.Do(ctx, fastConfig(5), func() error {
		t.Fatal("fn must not run with a cancelled context")
		return nil
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, retry.ErrContextCancelled))
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "nil", err: nil, want: false},
		{name: "bad conn sentinel", err: driver.ErrBadConn, want: true},
		{name: "reset", err: errors.New("read tcp: connection reset by peer"), want: true},
		{name: "refused", err: errors.New("dial tcp: connection refused"), want: true},
		{name: "timeout", err: errors.New("i/o timeout"), want: true},
		{name: "sql error", err: errors.New("pq: duplicate key value"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, retry.IsConnectionError(tt.err))
		})
	}
}
