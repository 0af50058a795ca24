package usecase_test

import (
	"context"
	"time"

	"partsbay/internal/domain/entity"
	"partsbay/internal/domain/repository"
)

// Function-field mocks with benign defaults so each test only overrides
// what it asserts on.

type mockOfferRepo struct {
	createFunc        func(ctx context.Context, offer *entity.PriceOffer) error
	getByIDFunc       func(ctx context.Context, id string) (*entity.PriceOffer, error)
	getPendingFunc    func(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error)
	expireIfStaleFunc func(ctx context.Context, productID, buyerID string, now time.Time) (bool, error)
	updateFunc        func(ctx context.Context, offer *entity.PriceOffer) error
	updateStatusFunc  func(ctx context.Context, id, status string) error
	acceptFunc        func(ctx context.Context, offerID string) error
	listByBuyerFunc   func(ctx context.Context, buyerID string, limit, offset int) ([]*entity.PriceOffer, int64, error)
	listByProductFunc func(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceOffer, int64, error)
	maxPriceFunc      func(ctx context.Context, productID string) (float64, error)
	countPerDayFunc   func(ctx context.Context, days int) ([]entity.DayCount, error)
}

func newMockOfferRepo() *mockOfferRepo {
	return &mockOfferRepo{
		createFunc:  func(ctx context.Context, offer *entity.PriceOffer) error { offer.ID = "new-offer"; return nil },
		getByIDFunc: func(ctx context.Context, id string) (*entity.PriceOffer, error) { return nil, nil },
		getPendingFunc: func(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
			return nil, nil
		},
		expireIfStaleFunc: func(ctx context.Context, productID, buyerID string, now time.Time) (bool, error) {
			return false, nil
		},
		updateFunc:       func(ctx context.Context, offer *entity.PriceOffer) error { return nil },
		updateStatusFunc: func(ctx context.Context, id, status string) error { return nil },
		acceptFunc:       func(ctx context.Context, offerID string) error { return nil },
		listByBuyerFunc: func(ctx context.Context, buyerID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
			return nil, 0, nil
		},
		listByProductFunc: func(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
			return nil, 0, nil
		},
		maxPriceFunc:    func(ctx context.Context, productID string) (float64, error) { return 0, nil },
		countPerDayFunc: func(ctx context.Context, days int) ([]entity.DayCount, error) { return nil, nil },
	}
}

func (m *mockOfferRepo) Create(ctx context.Context, offer *entity.PriceOffer) error {
	return m.createFunc(ctx, offer)
}
func (m *mockOfferRepo) GetByID(ctx context.Context, id string) (*entity.PriceOffer, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockOfferRepo) GetPending(ctx context.Context, productID, buyerID string) (*entity.PriceOffer, error) {
	return m.getPendingFunc(ctx, productID, buyerID)
}
func (m *mockOfferRepo) ExpireIfStale(ctx context.Context, productID, buyerID string, now time.Time) (bool, error) {
	return m.expireIfStaleFunc(ctx, productID, buyerID, now)
}
func (m *mockOfferRepo) Update(ctx context.Context, offer *entity.PriceOffer) error {
	return m.updateFunc(ctx, offer)
}
func (m *mockOfferRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.updateStatusFunc(ctx, id, status)
}
func (m *mockOfferRepo) AcceptAndRejectSiblings(ctx context.Context, offerID string) error {
	return m.acceptFunc(ctx, offerID)
}
func (m *mockOfferRepo) ListByBuyer(ctx context.Context, buyerID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
	return m.listByBuyerFunc(ctx, buyerID, limit, offset)
}
func (m *mockOfferRepo) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]*entity.PriceOffer, int64, error) {
	return m.listByProductFunc(ctx, productID, limit, offset)
}
func (m *mockOfferRepo) MaxOfferedPrice(ctx context.Context, productID string) (float64, error) {
	return m.maxPriceFunc(ctx, productID)
}
func (m *mockOfferRepo) CountPerDay(ctx context.Context, days int) ([]entity.DayCount, error) {
	return m.countPerDayFunc(ctx, days)
}

type mockProductRepo struct {
	createFunc               func(ctx context.Context, product *entity.Product) error
	getByIDFunc              func(ctx context.Context, id string) (*entity.Product, error)
	listFunc                 func(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error)
	updateFunc               func(ctx context.Context, product *entity.Product) error
	updateStatusFunc         func(ctx context.Context, id, status string) error
	softDeleteFunc           func(ctx context.Context, id string) error
	incrementViewsFunc       func(ctx context.Context, id string) error
	listWithoutEmbeddingFunc func(ctx context.Context, statuses []string, limit, offset int) ([]*entity.Product, error)
	setEmbeddingFunc         func(ctx context.Context, id string, embedding []float32) error
	topByViewsFunc           func(ctx context.Context, limit int) ([]entity.ProductViews, error)
}

func newMockProductRepo() *mockProductRepo {
	return &mockProductRepo{
		createFunc:  func(ctx context.Context, product *entity.Product) error { product.ID = "new-product"; return nil },
		getByIDFunc: func(ctx context.Context, id string) (*entity.Product, error) { return nil, nil },
		listFunc: func(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
			return nil, 0, nil
		},
		updateFunc:         func(ctx context.Context, product *entity.Product) error { return nil },
		updateStatusFunc:   func(ctx context.Context, id, status string) error { return nil },
		softDeleteFunc:     func(ctx context.Context, id string) error { return nil },
		incrementViewsFunc: func(ctx context.Context, id string) error { return nil },
		listWithoutEmbeddingFunc: func(ctx context.Context, statuses []string, limit, offset int) ([]*entity.Product, error) {
			return nil, nil
		},
		setEmbeddingFunc: func(ctx context.Context, id string, embedding []float32) error { return nil },
		topByViewsFunc:   func(ctx context.Context, limit int) ([]entity.ProductViews, error) { return nil, nil },
	}
}

func (m *mockProductRepo) Create(ctx context.Context, product *entity.Product) error {
	return m.createFunc(ctx, product)
}
func (m *mockProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	return m.listFunc(ctx, filter, limit, offset)
}
func (m *mockProductRepo) Update(ctx context.Context, product *entity.Product) error {
	return m.updateFunc(ctx, product)
}
func (m *mockProductRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.updateStatusFunc(ctx, id, status)
}
func (m *mockProductRepo) SoftDelete(ctx context.Context, id string) error {
	return m.softDeleteFunc(ctx, id)
}
func (m *mockProductRepo) IncrementViews(ctx context.Context, id string) error {
	return m.incrementViewsFunc(ctx, id)
}
func (m *mockProductRepo) ListWithoutEmbedding(ctx context.Context, statuses []string, limit, offset int) ([]*entity.Product, error) {
	return m.listWithoutEmbeddingFunc(ctx, statuses, limit, offset)
}
func (m *mockProductRepo) SetEmbedding(ctx context.Context, id string, embedding []float32) error {
	return m.setEmbeddingFunc(ctx, id, embedding)
}
func (m *mockProductRepo) TopByViews(ctx context.Context, limit int) ([]entity.ProductViews, error) {
	return m.topByViewsFunc(ctx, limit)
}

type mockUserRepo struct {
	createFunc          func(ctx context.Context, user *entity.User) error
	getByIDFunc         func(ctx context.Context, id string) (*entity.User, error)
	getByEmailFunc      func(ctx context.Context, email string) (*entity.User, error)
	listFunc            func(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error)
	updateFunc          func(ctx context.Context, user *entity.User) error
	setTelegramChatFunc func(ctx context.Context, id string, chatID int64) error
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{
		createFunc: func(ctx context.Context, user *entity.User) error { user.ID = "new-user"; return nil },
		getByIDFunc: func(ctx context.Context, id string) (*entity.User, error) {
			return &entity.User{ID: id, Role: entity.RoleBuyer}, nil
		},
		getByEmailFunc: func(ctx context.Context, email string) (*entity.User, error) { return nil, nil },
		listFunc: func(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
			return nil, 0, nil
		},
		updateFunc:          func(ctx context.Context, user *entity.User) error { return nil },
		setTelegramChatFunc: func(ctx context.Context, id string, chatID int64) error { return nil },
	}
}

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.createFunc(ctx, user)
}
func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return m.getByEmailFunc(ctx, email)
}
func (m *mockUserRepo) List(ctx context.Context, role string, limit, offset int) ([]*entity.User, int64, error) {
	return m.listFunc(ctx, role, limit, offset)
}
func (m *mockUserRepo) Update(ctx context.Context, user *entity.User) error {
	return m.updateFunc(ctx, user)
}
func (m *mockUserRepo) SetTelegramChat(ctx context.Context, id string, chatID int64) error {
	return m.setTelegramChatFunc(ctx, id, chatID)
}

type mockOrderRepo struct {
	createFunc            func(ctx context.Context, order *entity.Order) error
	getByIDFunc           func(ctx context.Context, id string) (*entity.Order, error)
	listFunc              func(ctx context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, int64, error)
	updateStatusFunc      func(ctx context.Context, id, status string) error
	updateOrderNumberFunc func(ctx context.Context, id string, orderNumber int) error
	isNumberUniqueFunc    func(ctx context.Context, orderNumber int, excludeID string) (bool, error)
	countByStatusFunc     func(ctx context.Context) (map[string]int64, error)
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		createFunc: func(ctx context.Context, order *entity.Order) error {
			order.ID = "new-order"
			order.OrderNumber = 1001
			return nil
		},
		getByIDFunc: func(ctx context.Context, id string) (*entity.Order, error) { return nil, nil },
		listFunc: func(ctx context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
			return nil, 0, nil
		},
		updateStatusFunc:      func(ctx context.Context, id, status string) error { return nil },
		updateOrderNumberFunc: func(ctx context.Context, id string, orderNumber int) error { return nil },
		isNumberUniqueFunc:    func(ctx context.Context, orderNumber int, excludeID string) (bool, error) { return true, nil },
		countByStatusFunc:     func(ctx context.Context) (map[string]int64, error) { return map[string]int64{}, nil },
	}
}

func (m *mockOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	return m.createFunc(ctx, order)
}
func (m *mockOrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockOrderRepo) List(ctx context.Context, filter repository.OrderFilter, limit, offset int) ([]*entity.Order, int64, error) {
	return m.listFunc(ctx, filter, limit, offset)
}
func (m *mockOrderRepo) UpdateStatus(ctx context.Context, id, status string) error {
	return m.updateStatusFunc(ctx, id, status)
}
func (m *mockOrderRepo) UpdateOrderNumber(ctx context.Context, id string, orderNumber int) error {
	return m.updateOrderNumberFunc(ctx, id, orderNumber)
}
func (m *mockOrderRepo) IsOrderNumberUnique(ctx context.Context, orderNumber int, excludeID string) (bool, error) {
	return m.isNumberUniqueFunc(ctx, orderNumber, excludeID)
}
func (m *mockOrderRepo) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return m.countByStatusFunc(ctx)
}

type mockShipmentRepo struct {
	createFunc         func(ctx context.Context, shipment *entity.OrderShipment) error
	getByIDFunc        func(ctx context.Context, id string) (*entity.OrderShipment, error)
	listByOrderFunc    func(ctx context.Context, orderID string) ([]*entity.OrderShipment, error)
	updateFunc         func(ctx context.Context, shipment *entity.OrderShipment) error
	listContainersFunc func(ctx context.Context) ([]entity.ContainerSummary, error)
}

func newMockShipmentRepo() *mockShipmentRepo {
	return &mockShipmentRepo{
		createFunc:      func(ctx context.Context, shipment *entity.OrderShipment) error { return nil },
		getByIDFunc:     func(ctx context.Context, id string) (*entity.OrderShipment, error) { return nil, nil },
		listByOrderFunc: func(ctx context.Context, orderID string) ([]*entity.OrderShipment, error) { return nil, nil },
		updateFunc:      func(ctx context.Context, shipment *entity.OrderShipment) error { return nil },
		listContainersFunc: func(ctx context.Context) ([]entity.ContainerSummary, error) {
			return nil, nil
		},
	}
}

func (m *mockShipmentRepo) Create(ctx context.Context, shipment *entity.OrderShipment) error {
	return m.createFunc(ctx, shipment)
}
func (m *mockShipmentRepo) GetByID(ctx context.Context, id string) (*entity.OrderShipment, error) {
	return m.getByIDFunc(ctx, id)
}
func (m *mockShipmentRepo) ListByOrder(ctx context.Context, orderID string) ([]*entity.OrderShipment, error) {
	return m.listByOrderFunc(ctx, orderID)
}
func (m *mockShipmentRepo) Update(ctx context.Context, shipment *entity.OrderShipment) error {
	return m.updateFunc(ctx, shipment)
}
func (m *mockShipmentRepo) ListContainers(ctx context.Context) ([]entity.ContainerSummary, error) {
	return m.listContainersFunc(ctx)
}

type mockEventLogRepo struct {
	appendFunc func(ctx context.Context, event *entity.EventLog) error
	listFunc   func(ctx context.Context, entityType, entityID string, limit, offset int) ([]*entity.EventLog, int64, error)
}

func newMockEventLogRepo() *mockEventLogRepo {
	return &mockEventLogRepo{
		appendFunc: func(ctx context.Context, event *entity.EventLog) error { return nil },
		listFunc: func(ctx context.Context, entityType, entityID string, limit, offset int) ([]*entity.EventLog, int64, error) {
			return nil, 0, nil
		},
	}
}

func (m *mockEventLogRepo) Append(ctx context.Context, event *entity.EventLog) error {
	return m.appendFunc(ctx, event)
}
func (m *mockEventLogRepo) ListByEntity(ctx context.Context, entityType, entityID string, limit, offset int) ([]*entity.EventLog, int64, error) {
	return m.listFunc(ctx, entityType, entityID, limit, offset)
}

type noopNotifier struct{}

func (noopNotifier) NotifyWelcome(ctx context.Context, user *entity.User) {}
func (noopNotifier) NotifyNewOffer(ctx context.Context, seller *entity.User, offer *entity.PriceOffer, productTitle string) {
}
func (noopNotifier) NotifyOrderStatus(ctx context.Context, user *entity.User, order *entity.Order) {}
func (noopNotifier) Send(ctx context.Context, chatID int64, text string) error                     { return nil }

type recordingQueue struct {
	enqueued []string
}

func (q *recordingQueue) Enqueue(kind string, payload interface{}) error {
	q.enqueued = append(q.enqueued, kind)
	return nil
}
