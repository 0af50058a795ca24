package queue_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"partsbay/internal/infrastructure/queue"
)

func openQueue(t *testing.T) *queue.Queue {
	t.Helper()
	q, err := queue.Open(filepath.Join(t.TempDir(), "queue.db"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { q.Close() })
	return q
}

func TestQueue_SuccessfulActionRemoved(t *testing.T) {
	q := openQueue(t)

	handled := 0
	q.RegisterHandler("ping", func(ctx context.Context, action queue.Action) error {
		handled++
		return nil
	})

	require.NoError(t, q.Enqueue("ping", map[string]string{"x": "1"}))
	assert.Equal(t, 1, q.Len())

	q.Sync(context.Background())

	assert.Equal(t, 1, handled)
	assert.Equal(t, 0, q.Len())
}

func TestQueue_DropsAfterMaxRetries(t *testing.T) {
	q := openQueue(t)

	attempts := 0
	q.RegisterHandler("flaky", func(ctx context.Context, action queue.Action) error {
		attempts++
		return errors.New("downstream unavailable")
	})

	require.NoError(t, q.Enqueue("flaky", nil))

	for i := 0; i < queue.MaxRetries; i++ {
		q.Sync(context.Background())
	}

	assert.Equal(t, queue.MaxRetries, attempts)
	assert.Equal(t, 0, q.Len(), "the action is dropped permanently, no dead letter")

	// Further passes do nothing.
	q.Sync(context.Background())
	assert.Equal(t, queue.MaxRetries, attempts)
}

func TestQueue_RecoversAfterTransientFailure(t *testing.T) {
	q := openQueue(t)

	attempts := 0
	q.RegisterHandler("flaky", func(ctx context.Context, action queue.Action) error {
		attempts++
		if attempts == 1 {
			return errors.New("timeout")
		}
		return nil
	})

	require.NoError(t, q.Enqueue("flaky", nil))

	q.Sync(context.Background())
	assert.Equal(t, 1, q.Len())

	q.Sync(context.Background())
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, 2, attempts)
}

func TestQueue_UnhandledKindsStayQueued(t *testing.T) {
	q := openQueue(t)

	require.NoError(t, q.Enqueue("unknown_kind", nil))
	q.Sync(context.Background())

	assert.Equal(t, 1, q.Len())
}

func TestQueue_ReplayPreservesOrder(t *testing.T) {
	q := openQueue(t)

	var order []string
	q.RegisterHandler("step", func(ctx context.Context, action queue.Action) error {
		var payload map[string]string
		_ = json.Unmarshal(action.Payload, &payload)
		order = append(order, payload["n"])
		return nil
	})

	require.NoError(t, q.Enqueue("step", map[string]string{"n": "a"}))
	require.NoError(t, q.Enqueue("step", map[string]string{"n": "b"}))
	require.NoError(t, q.Enqueue("step", map[string]string{"n": "c"}))

	q.Sync(context.Background())

	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestQueue_ActionsCarryIdempotencyKeys(t *testing.T) {
	q := openQueue(t)

	keys := map[string]bool{}
	q.RegisterHandler("k", func(ctx context.Context, action queue.Action) error {
		assert.NotEmpty(t, action.IdempotencyKey)
		keys[action.IdempotencyKey] = true
		return nil
	})

	require.NoError(t, q.Enqueue("k", nil))
	require.NoError(t, q.Enqueue("k", nil))
	q.Sync(context.Background())

	assert.Len(t, keys, 2, "each action gets its own idempotency key")
}
