package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"partsbay/pkg/retry"
)

func fastPolicy() retry.Policy {
	return retry.Policy{MaxAttempts: 3, BaseDelay: time.Millisecond}
}

func TestPolicy_RetriesRetryableErrors(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return retry.Retryable(errors.New("transient"))
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestPolicy_StopsAtMaxAttempts(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return retry.Retryable(errors.New("still down"))
	})

	assert.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestPolicy_NonRetryableAbortsImmediately(t *testing.T) {
	attempts := 0
	err := fastPolicy().Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("permanent")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, attempts)
}
