package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"partsbay/pkg/logger"
)

// DebounceWindow coalesces rapid events for the same entity into one
// broadcast.
const DebounceWindow = 300 * time.Millisecond

// Tag helpers: mutations publish entity-scoped tags; subscribers invalidate
// whatever they cached under those tags. This replaces hand-enumerated
// cache-key lists on every mutation.
func ProductTag(id string) string       { return "product:" + id }
func ProductOffersTag(id string) string { return "offers:product:" + id }
func BuyerOffersTag(id string) string   { return "offers:buyer:" + id }
func OrderTag(id string) string         { return "orders:" + id }
func ProductListTag() string            { return "products:list" }

// Event is one invalidation unit. Key groups events that supersede each
// other inside the debounce window (typically the product id).
type Event struct {
	Key     string                 `json:"-"`
	Type    string                 `json:"type"`
	Tags    []string               `json:"tags"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

type invalidateMessage struct {
	Type      string                 `json:"type"`
	Tags      []string               `json:"tags"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Timestamp int64                  `json:"timestamp"`
}

// Batcher debounces invalidation events: within one window the last event
// per key wins and exactly one flush happens. Out-of-order delivery is not
// detected, only rate-limited.
type Batcher struct {
	window time.Duration
	flush  func(events []Event)

	mu      sync.Mutex
	pending map[string]Event
	timer   *time.Timer
}

func NewBatcher(window time.Duration, flush func(events []Event)) *Batcher {
	return &Batcher{
		window:  window,
		flush:   flush,
		pending: make(map[string]Event),
	}
}

// Queue records an event; events sharing a key supersede earlier ones still
// waiting in the window.
func (b *Batcher) Queue(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pending[ev.Key] = ev
	if b.timer == nil {
		b.timer = time.AfterFunc(b.window, b.processBatch)
	}
}

func (b *Batcher) processBatch() {
	b.mu.Lock()
	events := make([]Event, 0, len(b.pending))
	for _, ev := range b.pending {
		events = append(events, ev)
	}
	b.pending = make(map[string]Event)
	b.timer = nil
	b.mu.Unlock()

	if len(events) > 0 {
		b.flush(events)
	}
}

// Publisher wires a Batcher to the connection manager.
type Publisher struct {
	manager *Manager
	batcher *Batcher
}

func NewPublisher(manager *Manager) *Publisher {
	p := &Publisher{manager: manager}
	p.batcher = NewBatcher(DebounceWindow, p.broadcast)
	return p
}

// Invalidate queues a debounced invalidation broadcast.
func (p *Publisher) Invalidate(key, eventType string, tags []string, payload map[string]interface{}) {
	p.batcher.Queue(Event{Key: key, Type: eventType, Tags: tags, Payload: payload})
}

func (p *Publisher) broadcast(events []Event) {
	for _, ev := range events {
		msg, err := json.Marshal(invalidateMessage{
			Type:      "invalidate",
			Tags:      ev.Tags,
			Payload:   ev.Payload,
			Timestamp: time.Now().UnixMilli(),
		})
		if err != nil {
			logger.Error("failed to encode invalidation: %v", err)
			continue
		}
		p.manager.Broadcast(msg)
	}
}
