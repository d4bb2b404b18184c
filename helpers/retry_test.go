package helpers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
)

func TestRetry(t *testing.T) {
	sentinel := errors.New("persistent error")

	tests := []struct {
		name      string
		attempts  int
		failures  int
		wantCalls int
		wantErr   error
	}{
		{name: "Success first attempt", attempts: 3, failures: 0, wantCalls: 1},
		{name: "Success after retries", attempts: 3, failures: 2, wantCalls: 3},
		{name: "All attempts fail", attempts: 3, failures: 10, wantCalls: 3, wantErr: sentinel},
		{name: "Zero attempts still calls once", attempts: 0, failures: 10, wantCalls: 1, wantErr: sentinel},
		{name: "Negative attempts still calls once", attempts: -2, failures: 0, wantCalls: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), nil, tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					return sentinel
				}
				return nil
			})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, calls)
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Retry(ctx, nil, 5, 100*time.Millisecond, func() error {
		calls++
		cancel()
		return errors.New("fail")
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetry_LogsFailedAttempts(t *testing.T) {
	logger, hook := test.NewNullLogger()

	_ = Retry(context.Background(), logger, 2, time.Millisecond, func() error {
		return errors.New("fail")
	})

	entries := hook.AllEntries()
	assert.Len(t, entries, 2)
	assert.Equal(t, logrus.WarnLevel, entries[0].Level)
	assert.Equal(t, 2, entries[1].Data["attempt"])
}
