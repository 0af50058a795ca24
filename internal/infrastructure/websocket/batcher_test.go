package websocket_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	ws "partsbay/internal/infrastructure/websocket"
)

func TestBatcher_DebouncesRapidEvents(t *testing.T) {
	var mu sync.Mutex
	var flushes [][]ws.Event

	b := ws.NewBatcher(50*time.Millisecond, func(events []ws.Event) {
		mu.Lock()
		flushes = append(flushes, events)
		mu.Unlock()
	})

	// Five rapid updates for the same product inside one window.
	for i := 1; i <= 5; i++ {
		b.Queue(ws.Event{
			Key:     "prod-1",
			Type:    "offer_updated",
			Tags:    []string{ws.ProductTag("prod-1")},
			Payload: map[string]interface{}{"seq": i},
		})
	}

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, flushes, 1, "one window, one flush")
	assert.Len(t, flushes[0], 1)
	assert.Equal(t, 5, flushes[0][0].Payload["seq"], "the last event wins")
}

func TestBatcher_SeparateKeysFlushTogether(t *testing.T) {
	var mu sync.Mutex
	var got []ws.Event

	b := ws.NewBatcher(50*time.Millisecond, func(events []ws.Event) {
		mu.Lock()
		got = append(got, events...)
		mu.Unlock()
	})

	b.Queue(ws.Event{Key: "prod-1", Type: "offer_created"})
	b.Queue(ws.Event{Key: "prod-2", Type: "offer_created"})

	time.Sleep(150 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Len(t, got, 2)
}

func TestBatcher_NewWindowAfterFlush(t *testing.T) {
	var mu sync.Mutex
	count := 0

	b := ws.NewBatcher(30*time.Millisecond, func(events []ws.Event) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	b.Queue(ws.Event{Key: "prod-1"})
	time.Sleep(100 * time.Millisecond)
	b.Queue(ws.Event{Key: "prod-1"})
	time.Sleep(100 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, count)
}
