package models

import (
	"time"

	"github.com/google/uuid"
)

type CartItem struct {
	ItemID   uuid.UUID `json:"itemId" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,min=1"`
}

// Cart is the per-user pending purchase list. A user has at most one
// cart document; the document is created lazily on the first add. A cart
// with a nil ID is synthetic and not yet persisted.
type Cart struct {
	ID        uuid.UUID  `json:"id"`
	UserID    uuid.UUID  `json:"userId" validate:"required"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Cart) FindItem(itemID uuid.UUID) (int, bool) {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return i, true
		}
	}

	return -1, false
}

type AddCartItemRequest struct {
	ItemID   uuid.UUID `json:"itemId" validate:"required"`
	Quantity int       `json:"quantity" validate:"omitempty,min=1"`
}

type UpdateCartQuantityRequest struct {
	ItemID   uuid.UUID `json:"itemId" validate:"required"`
	Quantity int       `json:"quantity" validate:"gte=0"`
}
