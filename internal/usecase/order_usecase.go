package usecase

import (
	"context"
	"fmt"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
	ws "partsbay/internal/infrastructure/websocket"
	"partsbay/pkg/errors"
	"partsbay/pkg/logger"
)

// statusTransitionRoles maps a target status to the roles allowed to move
// an order into it. The transition table itself lives on the entity.
var statusTransitionRoles = map[string][]string{
	entity.OrderStatusSellerConfirmed: {entity.RoleSeller, entity.RoleAdmin},
	entity.OrderStatusAdminConfirmed:  {entity.RoleAdmin},
	entity.OrderStatusProcessed:       {entity.RoleAdmin},
	entity.OrderStatusShipped:         {entity.RoleAdmin},
	entity.OrderStatusDelivered:       {entity.RoleAdmin},
	entity.OrderStatusCancelled:       {entity.RoleAdmin, entity.RoleSeller, entity.RoleBuyer},
}

type OrderUseCase struct {
	orderRepo   repository.OrderRepository
	offerRepo   repository.OfferRepository
	productRepo repository.ProductRepository
	userRepo    repository.UserRepository
	eventRepo   repository.EventLogRepository
	publisher   InvalidationPublisher
	queue       ActionEnqueuer
}

func NewOrderUseCase(
	orderRepo repository.OrderRepository,
	offerRepo repository.OfferRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	eventRepo repository.EventLogRepository,
	publisher InvalidationPublisher,
	queue ActionEnqueuer,
) *OrderUseCase {
	return &OrderUseCase{
		orderRepo:   orderRepo,
		offerRepo:   offerRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
		eventRepo:   eventRepo,
		publisher:   publisher,
		queue:       queue,
	}
}

type AdminCreateOrderInput struct {
	ProductID     string  `json:"product_id" validate:"required,uuid"`
	BuyerID       string  `json:"buyer_id" validate:"required,uuid"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	DeliveryPrice float64 `json:"delivery_price" validate:"min=0"`
	PlaceNumber   int     `json:"place_number" validate:"min=1"`
	Description   string  `json:"description"`
}

// TelegramSendPayload is the action-queue payload for durable Telegram
// delivery.
type TelegramSendPayload struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// AdminCreate creates an order manually, outside the offer flow.
func (uc *OrderUseCase) AdminCreate(ctx context.Context, admin *entity.User, input AdminCreateOrderInput) (*entity.Order, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can create orders directly", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	placeNumber := input.PlaceNumber
	if placeNumber == 0 {
		placeNumber = 1
	}

	order := &entity.Order{
		Status:        entity.OrderStatusCreated,
		ProductID:     product.ID,
		BuyerID:       input.BuyerID,
		SellerID:      product.SellerID,
		Title:         product.Title,
		Brand:         product.Brand,
		Model:         product.Model,
		Price:         input.Price,
		DeliveryPrice: input.DeliveryPrice,
		PlaceNumber:   placeNumber,
		Description:   input.Description,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	uc.afterOrderWrite(ctx, admin.ID, order, "order_created")
	return order, nil
}

// CreateFromOffer turns an accepted offer into an order, copying a
// snapshot of the product so later edits to the listing do not rewrite
// history.
func (uc *OrderUseCase) CreateFromOffer(ctx context.Context, actor *entity.User, offerID string) (*entity.Order, error) {
	offer, err := uc.offerRepo.GetByID(ctx, offerID)
	if err != nil {
		return nil, err
	}
	if offer.Status != entity.OfferStatusAccepted {
		return nil, errors.BadRequest("only accepted offers can become orders", nil)
	}
	if actor.ID != offer.SellerID && !actor.IsAdmin() {
		return nil, errors.Forbidden("only the seller or an admin can create the order", nil)
	}

	product, err := uc.productRepo.GetByID(ctx, offer.ProductID)
	if err != nil {
		return nil, err
	}

	deliveryPrice := product.DeliveryPrice
	if !offer.DeliveryPriceConfirmed {
		deliveryPrice = 0
	}
	placeNumber := product.PlaceNumber
	if placeNumber == 0 {
		placeNumber = 1
	}

	order := &entity.Order{
		Status:        entity.OrderStatusCreated,
		ProductID:     product.ID,
		BuyerID:       offer.BuyerID,
		SellerID:      offer.SellerID,
		Title:         product.Title,
		Brand:         product.Brand,
		Model:         product.Model,
		Price:         offer.OfferedPrice,
		DeliveryPrice: deliveryPrice,
		PlaceNumber:   placeNumber,
	}
	if err := uc.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	uc.afterOrderWrite(ctx, actor.ID, order, "order_created_from_offer")
	return order, nil
}

// UpdateStatus advances the order through the lifecycle. The entity's
// transition table decides legality; statusTransitionRoles decides who.
func (uc *OrderUseCase) UpdateStatus(ctx context.Context, actor *entity.User, orderID, next string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !uc.canView(actor, order) {
		return nil, errors.Forbidden("you do not have access to this order", nil)
	}

	if !order.CanTransition(next) {
		return nil, errors.BadRequest(
			fmt.Sprintf("cannot move order from %s to %s", order.Status, next), nil)
	}
	if !roleAllowed(actor.Role, statusTransitionRoles[next]) {
		return nil, errors.Forbidden("your role cannot set this status", nil)
	}
	// A buyer may cancel only their own order while it is still unconfirmed.
	if next == entity.OrderStatusCancelled && actor.Role == entity.RoleBuyer && order.Status != entity.OrderStatusCreated {
		return nil, errors.BadRequest("order can no longer be cancelled by the buyer", nil)
	}

	if err := uc.orderRepo.UpdateStatus(ctx, orderID, next); err != nil {
		return nil, err
	}
	order.Status = next

	uc.afterOrderWrite(ctx, actor.ID, order, "order_status_"+next)
	uc.enqueueStatusNotifications(ctx, order)
	return order, nil
}

// CheckOrderNumberUnique is the pre-flight check the edit form uses.
func (uc *OrderUseCase) CheckOrderNumberUnique(ctx context.Context, orderNumber int, excludeID string) (bool, error) {
	return uc.orderRepo.IsOrderNumberUnique(ctx, orderNumber, excludeID)
}

// EditOrderNumber reassigns an order's human-facing number. Admin only;
// the unique constraint backstops the pre-check under concurrency.
func (uc *OrderUseCase) EditOrderNumber(ctx context.Context, admin *entity.User, orderID string, orderNumber int) (*entity.Order, error) {
	if !admin.IsAdmin() {
		return nil, errors.Forbidden("only admins can edit order numbers", nil)
	}
	if orderNumber <= 0 {
		return nil, errors.BadRequest("order number must be positive", nil)
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	unique, err := uc.orderRepo.IsOrderNumberUnique(ctx, orderNumber, orderID)
	if err != nil {
		return nil, err
	}
	if !unique {
		return nil, errors.Conflict(fmt.Sprintf("order number %d is already taken", orderNumber), nil)
	}

	if err := uc.orderRepo.UpdateOrderNumber(ctx, orderID, orderNumber); err != nil {
		return nil, err
	}
	order.OrderNumber = orderNumber

	uc.afterOrderWrite(ctx, admin.ID, order, "order_number_changed")
	return order, nil
}

// Get returns the order if the actor is a participant or an admin.
func (uc *OrderUseCase) Get(ctx context.Context, actor *entity.User, orderID string) (*entity.Order, error) {
	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !uc.canView(actor, order) {
		return nil, errors.Forbidden("you do not have access to this order", nil)
	}
	return order, nil
}

// List scopes results by role: admins see everything, others only their
// side of the order.
func (uc *OrderUseCase) List(ctx context.Context, actor *entity.User, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
	switch actor.Role {
	case entity.RoleAdmin:
		// filter stays as requested
	case entity.RoleSeller:
		filter.SellerID = actor.ID
	default:
		filter.BuyerID = actor.ID
	}
	return uc.orderRepo.List(ctx, filter, limit, offset)
}

func (uc *OrderUseCase) canView(actor *entity.User, order *entity.Order) bool {
	return actor.IsAdmin() || actor.ID == order.BuyerID || actor.ID == order.SellerID
}

func roleAllowed(role string, allowed []string) bool {
	for _, r := range allowed {
		if r == role {
			return true
		}
	}
	return false
}

// enqueueStatusNotifications pushes Telegram messages for both parties
// through the durable action queue so a flaky Telegram API cannot lose
// them.
func (uc *OrderUseCase) enqueueStatusNotifications(ctx context.Context, order *entity.Order) {
	for _, userID := range []string{order.BuyerID, order.SellerID} {
		user, err := uc.userRepo.GetByID(ctx, userID)
		if err != nil || user.TelegramChatID == 0 {
			continue
		}
		payload := TelegramSendPayload{
			ChatID: user.TelegramChatID,
			Text: fmt.Sprintf("Order <b>#%d</b> (%s) is now <b>%s</b>.",
				order.OrderNumber, order.Title, order.Status),
		}
		if err := uc.queue.Enqueue("telegram_send", payload); err != nil {
			logger.Warn("failed to enqueue status notification for order %s: %v", order.ID, err)
		}
	}
}

func (uc *OrderUseCase) afterOrderWrite(ctx context.Context, actorID string, order *entity.Order, action string) {
	err := uc.eventRepo.Append(ctx, &entity.EventLog{
		ActorID:    actorID,
		Action:     action,
		EntityType: "order",
		EntityID:   order.ID,
		Details: map[string]interface{}{
			"order_number": order.OrderNumber,
			"status":       order.Status,
		},
	})
	if err != nil {
		logger.Warn("failed to append event log for order %s: %v", order.ID, err)
	}

	uc.publisher.Invalidate(order.ID, action,
		[]string{ws.OrderTag(order.ID), ws.ProductTag(order.ProductID)},
		map[string]interface{}{"order_id": order.ID, "status": order.Status},
	)
}
