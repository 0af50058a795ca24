package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"partsbay/internal/domain/entity"
	"partsbay/pkg/logger"
	"partsbay/pkg/retry"
)

// Notifier sends user-facing Telegram messages from the API process. All
// sends are best-effort: callers never fail a business operation because a
// notification did not go out.
type Notifier struct {
	bot         *tgbotapi.BotAPI
	adminChatID int64
	policy      retry.Policy
}

// NewNotifier returns a notifier, or nil when no token is configured
// (notifications are then skipped silently).
func NewNotifier(token string, adminChatID int64) (*Notifier, error) {
	if token == "" {
		return nil, nil
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to init telegram bot api: %w", err)
	}
	return &Notifier{
		bot:         bot,
		adminChatID: adminChatID,
		policy:      retry.Default,
	}, nil
}

// Send delivers text to a chat, retrying transient failures under the
// shared policy.
func (n *Notifier) Send(ctx context.Context, chatID int64, text string) error {
	if n == nil || chatID == 0 {
		return nil
	}
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	return n.policy.Do(ctx, func(ctx context.Context) error {
		if _, err := n.bot.Send(msg); err != nil {
			return retry.Retryable(err)
		}
		return nil
	})
}

// SendToAdmin posts to the configured admin chat.
func (n *Notifier) SendToAdmin(ctx context.Context, text string) error {
	if n == nil {
		return nil
	}
	return n.Send(ctx, n.adminChatID, text)
}

// NotifyWelcome greets a freshly registered user.
func (n *Notifier) NotifyWelcome(ctx context.Context, user *entity.User) {
	if n == nil || user.TelegramChatID == 0 {
		return
	}
	text := fmt.Sprintf("Welcome to PartsBay, %s!\nYour account is registered as <b>%s</b>.", user.FullName, user.Role)
	if err := n.Send(ctx, user.TelegramChatID, text); err != nil {
		logger.Warn("welcome notification failed for user %s: %v", user.ID, err)
	}
}

// NotifyNewOffer tells a seller about a new or updated price offer.
func (n *Notifier) NotifyNewOffer(ctx context.Context, seller *entity.User, offer *entity.PriceOffer, productTitle string) {
	if n == nil || seller.TelegramChatID == 0 {
		return
	}
	text := fmt.Sprintf("New price offer on <b>%s</b>: %.2f $\nValid until %s.",
		productTitle, offer.OfferedPrice, offer.ExpiresAt.Format("15:04 02.01.2006"))
	if err := n.Send(ctx, seller.TelegramChatID, text); err != nil {
		logger.Warn("offer notification failed for seller %s: %v", seller.ID, err)
	}
}

// NotifyOrderStatus tells a user about an order status change.
func (n *Notifier) NotifyOrderStatus(ctx context.Context, user *entity.User, order *entity.Order) {
	if n == nil || user.TelegramChatID == 0 {
		return
	}
	text := fmt.Sprintf("Order <b>№%d</b> (%s) is now <b>%s</b>.",
		order.OrderNumber, order.Title, order.Status)
	if err := n.Send(ctx, user.TelegramChatID, text); err != nil {
		logger.Warn("order notification failed for user %s: %v", user.ID, err)
	}
}
