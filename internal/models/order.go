package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusShipped   OrderStatus = "Shipped"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusShipped, OrderStatusCancelled:
		return true
	}

	return false
}

// Terminal reports whether no further transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusShipped || s == OrderStatusCancelled
}

// CanTransitionTo encodes the full state machine: Pending may move to
// Shipped or Cancelled; Shipped and Cancelled are final. Writing the
// status an order already has is an idempotent no-op, so retried
// requests do not fail.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}

	if s == next {
		return true
	}

	return s == OrderStatusPending
}

// OrderItem carries the price as it was when the order was created,
// decoupled from the product's current price.
type OrderItem struct {
	ItemID   uuid.UUID       `json:"itemId" validate:"required"`
	Quantity int             `json:"quantity" validate:"required,min=1"`
	Price    decimal.Decimal `json:"price"`
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"userId" validate:"required"`
	Items       []OrderItem     `json:"items" validate:"required,min=1,dive"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Status      OrderStatus     `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

type CreateOrderRequest struct {
	Items       []OrderItem     `json:"items" validate:"required,min=1,dive"`
	TotalAmount decimal.Decimal `json:"totalAmount" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=Pending Shipped Cancelled"`
}
