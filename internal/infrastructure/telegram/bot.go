package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"

	"partsbay/pkg/logger"
	"partsbay/pkg/retry"
)

// sessionTTL bounds how long a /start deep link keeps a chat bound to an
// order for photo collection.
const sessionTTL = 30 * time.Minute

// ImageUploader is the Cloudinary surface the bot needs.
type ImageUploader interface {
	UploadImage(ctx context.Context, r io.Reader, folder, publicID string) (string, error)
}

type photoSession struct {
	OrderID   string
	StartedAt time.Time
}

// Bot runs the Telegram ingestion side: admins open a deep link like
// "/start order_<id>", then every photo they send lands on that order via
// the API's service endpoint.
type Bot struct {
	api          *tgbotapi.BotAPI
	uploader     ImageUploader
	apiBaseURL   string
	serviceToken string
	httpClient   *http.Client

	mu       sync.Mutex
	sessions map[int64]photoSession
}

func NewBot(token string, uploader ImageUploader, apiBaseURL, serviceToken string) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot api: %w", err)
	}
	return &Bot{
		api:          api,
		uploader:     uploader,
		apiBaseURL:   strings.TrimRight(apiBaseURL, "/"),
		serviceToken: serviceToken,
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		sessions:     make(map[int64]photoSession),
	}, nil
}

// Run consumes updates until the context is cancelled.
func (b *Bot) Run(ctx context.Context) {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := b.api.GetUpdatesChan(updateConfig)

	logger.Info("telegram bot started as @%s", b.api.Self.UserName)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}

	session, active := b.activeSession(msg.Chat.ID)
	if !active {
		b.reply(msg.Chat.ID, "Open an order link first to attach photos.")
		return
	}

	if len(msg.Photo) == 0 {
		// Videos, documents and text are not ingested here.
		b.reply(msg.Chat.ID, "Please send photos only. Other attachments are not supported.")
		return
	}

	if err := b.ingestPhoto(ctx, msg, session.OrderID); err != nil {
		logger.Error("photo ingestion failed for order %s: %v", session.OrderID, err)
		b.reply(msg.Chat.ID, "Could not attach the photo, please try again.")
		return
	}

	b.reply(msg.Chat.ID, "Photo attached to the order.")
}

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		arg := msg.CommandArguments()
		if strings.HasPrefix(arg, "order_") {
			orderID := strings.TrimPrefix(arg, "order_")
			b.mu.Lock()
			b.sessions[msg.Chat.ID] = photoSession{OrderID: orderID, StartedAt: time.Now()}
			b.mu.Unlock()
			b.reply(msg.Chat.ID, "Send photos for this order. I will attach each one.")
			return
		}
		b.reply(msg.Chat.ID, "Hi! Open an order in the admin panel and use its Telegram link to attach photos.")
	case "done":
		b.mu.Lock()
		delete(b.sessions, msg.Chat.ID)
		b.mu.Unlock()
		b.reply(msg.Chat.ID, "Done, the order session is closed.")
	default:
		b.reply(msg.Chat.ID, "Unknown command.")
	}
}

// activeSession returns the chat's session, expiring stale ones lazily.
func (b *Bot) activeSession(chatID int64) (photoSession, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	session, ok := b.sessions[chatID]
	if !ok {
		return photoSession{}, false
	}
	if time.Since(session.StartedAt) > sessionTTL {
		delete(b.sessions, chatID)
		return photoSession{}, false
	}
	return session, true
}

// ingestPhoto downloads the largest rendition from Telegram, uploads it to
// Cloudinary and registers the URL on the order.
func (b *Bot) ingestPhoto(ctx context.Context, msg *tgbotapi.Message, orderID string) error {
	// Telegram orders renditions small to large.
	photo := msg.Photo[len(msg.Photo)-1]

	fileURL, err := b.api.GetFileDirectURL(photo.FileID)
	if err != nil {
		return fmt.Errorf("failed to resolve telegram file: %w", err)
	}

	resp, err := b.httpClient.Get(fileURL)
	if err != nil {
		return fmt.Errorf("failed to download telegram file: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram file download returned %d", resp.StatusCode)
	}

	publicID := fmt.Sprintf("%s_tg_%s", orderID, uuid.NewString()[:8])
	url, err := b.uploader.UploadImage(ctx, resp.Body, "orders/"+orderID, publicID)
	if err != nil {
		return err
	}

	return b.attachMedia(ctx, orderID, url, publicID)
}

// attachMedia calls the API's service endpoint; the attach is idempotent
// on the API side, so retries are safe.
func (b *Bot) attachMedia(ctx context.Context, orderID, url, publicID string) error {
	body, err := json.Marshal(map[string]interface{}{
		"order_id": orderID,
		"items": []map[string]string{
			{"url": url, "public_id": publicID, "media_type": "photo"},
		},
	})
	if err != nil {
		return err
	}

	return retry.Default.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			b.apiBaseURL+"/v1/service/media/attach", bytes.NewReader(body))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Service-Token", b.serviceToken)

		resp, err := b.httpClient.Do(req)
		if err != nil {
			return retry.Retryable(err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.Retryable(fmt.Errorf("attach endpoint returned %d", resp.StatusCode))
		}
		if resp.StatusCode >= 400 {
			return fmt.Errorf("attach endpoint returned %d", resp.StatusCode)
		}
		return nil
	})
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		logger.Warn("bot reply failed for chat %d: %v", chatID, err)
	}
}
