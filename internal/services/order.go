package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/epichardware/storefront/internal/docstore"
	appErrors "github.com/epichardware/storefront/internal/errors"
	"github.com/epichardware/storefront/internal/models"
	repository "github.com/epichardware/storefront/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderService owns the order lifecycle. Orders are immutable snapshots
// of a cart: after creation only the status field ever changes, along
// the Pending → Shipped | Cancelled machine.
type OrderService struct {
	orderRepo   repository.OrderRepository
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
}

func NewOrderService(orderRepo repository.OrderRepository, cartRepo repository.CartRepository, productRepo repository.ProductRepository) *OrderService {
	return &OrderService{orderRepo: orderRepo, cartRepo: cartRepo, productRepo: productRepo}
}

// CreateOrder stores an order from caller-supplied item snapshots. The
// prices in req.Items are frozen as given and never re-read from the
// product documents.
func (s *OrderService) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, appErrors.AuthRequiredError("User not authenticated")
	}

	if len(req.Items) == 0 {
		return nil, appErrors.ValidationError("Cannot create order without items")
	}

	if !req.TotalAmount.IsPositive() {
		return nil, appErrors.ValidationError("Order total must be positive")
	}

	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, appErrors.ValidationError("Item quantity must be positive")
		}

		if item.Price.IsNegative() {
			return nil, appErrors.ValidationError("Item price cannot be negative")
		}
	}

	now := time.Now()
	order := &models.Order{
		ID:          uuid.New(),
		UserID:      userID,
		Items:       req.Items,
		TotalAmount: req.TotalAmount,
		Status:      models.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.orderRepo.CreateOrder(ctx, order); err != nil {
		return nil, appErrors.StoreError("Failed to create order").WithError(err)
	}

	return order, nil
}

// CheckoutCart snapshots the user's cart into an order at current
// product prices, then clears the cart. Stock is checked as a gate but
// never decremented; orders do not reserve inventory.
func (s *OrderService) CheckoutCart(ctx context.Context, userID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, appErrors.AuthRequiredError("User not authenticated")
	}

	cart, _, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.BadRequestError("Cannot create order with empty cart")
		}

		return nil, appErrors.StoreError("Failed to load cart").WithError(err)
	}

	if len(cart.Items) == 0 {
		return nil, appErrors.BadRequestError("Cannot create order with empty cart")
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	total := decimal.Zero

	for _, cartItem := range cart.Items {
		product, err := s.productRepo.GetProductByID(ctx, cartItem.ItemID)
		if err != nil {
			return nil, appErrors.NotFoundError("Product not found: " + cartItem.ItemID.String()).WithError(err)
		}

		if product.Stock < cartItem.Quantity {
			return nil, appErrors.ValidationError("Insufficient stock for product: " + product.Title)
		}

		lineTotal := product.Price.Mul(decimal.NewFromInt(int64(cartItem.Quantity)))
		total = total.Add(lineTotal)

		items = append(items, models.OrderItem{
			ItemID:   cartItem.ItemID,
			Quantity: cartItem.Quantity,
			Price:    product.Price,
		})
	}

	order, err := s.CreateOrder(ctx, userID, &models.CreateOrderRequest{Items: items, TotalAmount: total})
	if err != nil {
		return nil, err
	}

	// Best effort: the order exists either way, a leftover cart is only
	// a nuisance on the next visit.
	if err := s.cartRepo.DeleteCart(ctx, cart.ID); err != nil {
		slog.Warn("Failed to clear cart after checkout",
			slog.String("cartId", cart.ID.String()),
			slog.String("orderId", order.ID.String()),
			slog.String("error", err.Error()),
		)
	}

	return order, nil
}

func (s *OrderService) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(ctx, id)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found")
		}

		return nil, appErrors.StoreError("Failed to load order").WithError(err)
	}

	return order, nil
}

// ListOrders returns all orders, or one user's orders when userID is
// given, newest first. The store has no ordering index, so the sort
// happens here after a full scan.
func (s *OrderService) ListOrders(ctx context.Context, userID *uuid.UUID) ([]models.Order, error) {
	var (
		orders []models.Order
		err    error
	)

	if userID != nil {
		orders, err = s.orderRepo.ListOrdersByUser(ctx, *userID)
	} else {
		orders, err = s.orderRepo.ListOrders(ctx)
	}

	if err != nil {
		return nil, appErrors.StoreError("Failed to fetch orders").WithError(err)
	}

	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})

	return orders, nil
}

// GetRecentOrders returns the newest orders for the admin dashboard.
func (s *OrderService) GetRecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit < 1 {
		limit = 5
	}

	orders, err := s.ListOrders(ctx, nil)
	if err != nil {
		return nil, err
	}

	if len(orders) > limit {
		orders = orders[:limit]
	}

	return orders, nil
}

// UpdateStatus applies one transition of the state machine. Unknown
// statuses are rejected outright; moves from Shipped or Cancelled to a
// different status fail with an invalid-transition error and leave the
// stored status untouched. Re-submitting the current status succeeds
// without changing anything.
func (s *OrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, appErrors.ValidationError(fmt.Sprintf("Unknown order status %q", status))
	}

	order, err := s.GetOrderByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(status) {
		slog.Warn("Rejected order status transition",
			slog.String("orderId", id.String()),
			slog.String("from", string(order.Status)),
			slog.String("to", string(status)),
		)

		return nil, appErrors.InvalidTransitionError(fmt.Sprintf("Cannot change order status from %s to %s", order.Status, status))
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, id, status); err != nil {
		return nil, appErrors.StoreError("Failed to update order status").WithError(err)
	}

	order.Status = status
	order.UpdatedAt = time.Now()

	return order, nil
}

// DeleteOrder hard deletes, unconditionally and idempotently. No stock
// is released; orders never reserved any.
func (s *OrderService) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := s.orderRepo.DeleteOrder(ctx, id); err != nil {
		return appErrors.StoreError("Failed to delete order").WithError(err)
	}

	return nil
}
