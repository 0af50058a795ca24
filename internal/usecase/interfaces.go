package usecase

import (
	"context"

	"partsbay/internal/domain/entity"
)

// Notifier is the Telegram notification surface used by usecases. All
// notifications are best-effort; implementations must not block business
// flows on delivery.
type Notifier interface {
	NotifyWelcome(ctx context.Context, user *entity.User)
	NotifyNewOffer(ctx context.Context, seller *entity.User, offer *entity.PriceOffer, productTitle string)
	NotifyOrderStatus(ctx context.Context, user *entity.User, order *entity.Order)
	Send(ctx context.Context, chatID int64, text string) error
}

// InvalidationPublisher broadcasts tag-based cache invalidations to
// realtime subscribers. Events sharing a key are debounced server-side.
type InvalidationPublisher interface {
	Invalidate(key, eventType string, tags []string, payload map[string]interface{})
}

// Uploader is the Cloudinary surface used by media and sticker usecases.
type Uploader interface {
	SignUploadBatch(folder string, publicIDs []string) ([]entity.SignedUploadParams, error)
	UploadRaw(ctx context.Context, data []byte, folder, publicID string) (string, error)
}

// ActionEnqueuer persists an action for durable, retried replay.
type ActionEnqueuer interface {
	Enqueue(kind string, payload interface{}) error
}

// noopPublisher lets usecases run without a realtime hub (bot process,
// tests).
type noopPublisher struct{}

func (noopPublisher) Invalidate(string, string, []string, map[string]interface{}) {}

// NoopPublisher is an InvalidationPublisher that discards everything.
var NoopPublisher InvalidationPublisher = noopPublisher{}
