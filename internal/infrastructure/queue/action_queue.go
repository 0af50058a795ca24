// Package queue is a durable outbox for side effects that may fail
// transiently (notification sends, media-attach callbacks). Actions are
// persisted, replayed sequentially, retried a bounded number of times and
// then dropped.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"partsbay/pkg/logger"
)

const (
	// MaxRetries bounds replay attempts per action; after that the action
	// is dropped permanently (logged, no dead-letter surface).
	MaxRetries = 3

	// MaxAge filters stale actions out on open.
	MaxAge = 24 * time.Hour
)

var actionsBucket = []byte("actions")

// Action is one queued side effect. The idempotency key lets a handler
// de-duplicate a replay whose first attempt succeeded but whose response
// was lost.
type Action struct {
	ID             string          `json:"id"`
	Kind           string          `json:"kind"`
	Payload        json.RawMessage `json:"payload"`
	IdempotencyKey string          `json:"idempotency_key"`
	Retries        int             `json:"retries"`
	CreatedAt      time.Time       `json:"created_at"`
}

// Handler executes one action kind. A returned error re-queues the action
// (until MaxRetries).
type Handler func(ctx context.Context, action Action) error

type Queue struct {
	db        *bolt.DB
	syncDelay time.Duration

	mu       sync.Mutex
	handlers map[string]Handler
	syncing  bool
}

// Open opens (or creates) the queue file and prunes entries older than
// MaxAge.
func Open(path string, syncDelay time.Duration) (*Queue, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open action queue: %w", err)
	}

	q := &Queue{
		db:        db,
		syncDelay: syncDelay,
		handlers:  make(map[string]Handler),
	}

	if err := q.prune(); err != nil {
		db.Close()
		return nil, err
	}
	return q, nil
}

func (q *Queue) Close() error {
	return q.db.Close()
}

// RegisterHandler binds a handler to an action kind. Actions with no
// handler stay queued until they age out.
func (q *Queue) RegisterHandler(kind string, h Handler) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers[kind] = h
}

// Enqueue persists an action for later replay.
func (q *Queue) Enqueue(kind string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode action payload: %w", err)
	}

	action := Action{
		ID:             uuid.NewString(),
		Kind:           kind,
		Payload:        data,
		IdempotencyKey: uuid.NewString(),
		CreatedAt:      time.Now().UTC(),
	}

	return q.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(actionsBucket)
		if err != nil {
			return err
		}
		encoded, err := json.Marshal(action)
		if err != nil {
			return err
		}
		return b.Put(q.key(action), encoded)
	})
}

// key orders actions by creation time so replay preserves submission order.
func (q *Queue) key(a Action) []byte {
	return []byte(fmt.Sprintf("%020d:%s", a.CreatedAt.UnixNano(), a.ID))
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	count := 0
	q.db.View(func(tx *bolt.Tx) error {
		if b := tx.Bucket(actionsBucket); b != nil {
			count = b.Stats().KeyN
		}
		return nil
	})
	return count
}

// Start launches the background replay loop: an initial fixed delay after
// startup (mirroring the reconnect settle delay), then periodic passes.
func (q *Queue) Start(ctx context.Context) {
	go func() {
		select {
		case <-time.After(q.syncDelay):
		case <-ctx.Done():
			return
		}
		q.Sync(ctx)

		ticker := time.NewTicker(q.syncDelay * 6)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				q.Sync(ctx)
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Sync replays queued actions sequentially in one pass. One slow action
// delays the rest of the pass; that is the price of ordered replay.
func (q *Queue) Sync(ctx context.Context) {
	q.mu.Lock()
	if q.syncing {
		q.mu.Unlock()
		return
	}
	q.syncing = true
	q.mu.Unlock()
	defer func() {
		q.mu.Lock()
		q.syncing = false
		q.mu.Unlock()
	}()

	actions := q.snapshot()
	for _, action := range actions {
		if ctx.Err() != nil {
			return
		}

		q.mu.Lock()
		handler, ok := q.handlers[action.Kind]
		q.mu.Unlock()
		if !ok {
			continue
		}

		if err := handler(ctx, action); err != nil {
			action.Retries++
			if action.Retries >= MaxRetries {
				logger.Error("action %s (%s) dropped permanently after %d attempts: %v",
					action.ID, action.Kind, action.Retries, err)
				q.remove(action)
			} else {
				logger.Warn("action %s (%s) failed (attempt %d): %v",
					action.ID, action.Kind, action.Retries, err)
				q.update(action)
			}
			continue
		}

		q.remove(action)
	}
}

func (q *Queue) snapshot() []Action {
	var actions []Action
	q.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(actionsBucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(_, v []byte) error {
			var a Action
			if err := json.Unmarshal(v, &a); err != nil {
				return nil // skip corrupt entries
			}
			actions = append(actions, a)
			return nil
		})
	})
	return actions
}

func (q *Queue) update(a Action) {
	q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(actionsBucket)
		if b == nil {
			return nil
		}
		encoded, err := json.Marshal(a)
		if err != nil {
			return err
		}
		return b.Put(q.key(a), encoded)
	})
}

func (q *Queue) remove(a Action) {
	q.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(actionsBucket)
		if b == nil {
			return nil
		}
		return b.Delete(q.key(a))
	})
}

func (q *Queue) prune() error {
	cutoff := time.Now().UTC().Add(-MaxAge)
	return q.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(actionsBucket)
		if err != nil {
			return err
		}
		var stale [][]byte
		b.ForEach(func(k, v []byte) error {
			var a Action
			if err := json.Unmarshal(v, &a); err != nil || a.CreatedAt.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}
