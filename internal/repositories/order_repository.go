package repository

import (
	"context"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	"github.com/epichardware/storefront/internal/models"
	"github.com/google/uuid"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error
}

type orderRepository struct {
	store docstore.Store
}

func NewOrderRepo(store docstore.Store) OrderRepository {
	return &orderRepository{store: store}
}

func (r *orderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	return r.store.Create(ctx, docstore.CollectionOrders, order.ID, order)
}

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	doc, err := r.store.Get(ctx, docstore.CollectionOrders, id)
	if err != nil {
		return nil, err
	}

	order := &models.Order{}
	if err := decodeDocument(doc, order); err != nil {
		return nil, err
	}

	order.ID = doc.ID

	return order, nil
}

func (r *orderRepository) ListOrders(ctx context.Context) ([]models.Order, error) {
	docs, err := r.store.List(ctx, docstore.CollectionOrders)
	if err != nil {
		return nil, err
	}

	return decodeOrders(docs)
}

func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID) ([]models.Order, error) {
	docs, err := r.store.Query(ctx, docstore.CollectionOrders, "userId", userID.String())
	if err != nil {
		return nil, err
	}

	return decodeOrders(docs)
}

// UpdateOrderStatus only ever touches status and updatedAt; items and
// totalAmount stay immutable after creation.
func (r *orderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	patch := map[string]any{
		"status":    status,
		"updatedAt": time.Now(),
	}

	return r.store.MergeUpdate(ctx, docstore.CollectionOrders, id, patch)
}

func (r *orderRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	return r.store.Delete(ctx, docstore.CollectionOrders, id)
}

func decodeOrders(docs []docstore.Document) ([]models.Order, error) {
	orders := make([]models.Order, 0, len(docs))

	for i := range docs {
		var order models.Order

		if err := decodeDocument(&docs[i], &order); err != nil {
			return nil, err
		}

		order.ID = docs[i].ID
		orders = append(orders, order)
	}

	return orders, nil
}
